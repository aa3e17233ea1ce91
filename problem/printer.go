package problem

import "strings"

// printerConfig holds Printer configuration.
type printerConfig struct {
	indent string
}

// PrinterOption configures Printer behavior.
type PrinterOption func(*printerConfig)

// WithIndent sets the string prepended once per nesting level. Default is
// two spaces.
func WithIndent(indent string) PrinterOption {
	return func(c *printerConfig) { c.indent = indent }
}

// Printer renders Problems as deterministic, canonical English text: a
// one-line summary per problem, followed by its sub-problems indented one
// level further. It has no notion of source text, file paths, or any
// host language's own error-formatting conventions.
type Printer struct {
	indent string
}

// NewPrinter returns a Printer configured by opts.
func NewPrinter(opts ...PrinterOption) *Printer {
	cfg := printerConfig{indent: "  "}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Printer{indent: cfg.indent}
}

// Print renders a single problem and its sub-problem tree.
func (p *Printer) Print(prob Problem) string {
	if p == nil || prob == nil {
		return ""
	}
	var sb strings.Builder
	p.write(&sb, prob, 0)
	return sb.String()
}

// PrintAll renders a sequence of top-level problems, one per line (plus
// their indented sub-problems), in the given order.
func (p *Printer) PrintAll(problems []Problem) string {
	if p == nil {
		return ""
	}
	var sb strings.Builder
	for i, prob := range problems {
		if i > 0 {
			sb.WriteString("\n")
		}
		p.write(&sb, prob, 0)
	}
	return sb.String()
}

func (p *Printer) write(sb *strings.Builder, prob Problem, depth int) {
	if prob == nil {
		return
	}
	sb.WriteString(strings.Repeat(p.indent, depth))
	sb.WriteString(prob.Summary())
	for _, sub := range subProblemsOf(prob) {
		sb.WriteString("\n")
		p.write(sb, sub, depth+1)
	}
}
