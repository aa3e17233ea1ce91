// Package problem defines the engine's seven stable, user-visible problem
// shapes and a deterministic Printer for rendering them.
//
// Every shape implements Problem, which exists only for dispatch (a
// "$problem" tag): callers type-switch on the concrete shape to inspect
// its fields, the same way one might dispatch on a diag.Issue by its Code.
package problem

import "fmt"

// Problem is the common interface every problem shape satisfies. Tag
// identifies the shape for dispatch or logging; Summary produces a short,
// Printer-independent one-line description.
type Problem interface {
	Tag() string
	Summary() string
}

// ValueConflict reports two conflicting concrete values at a location, e.g.
// two different default values declared for the same field.
type ValueConflict struct {
	Location    string
	FirstValue  string
	SecondValue string
	SubProblems []Problem
}

func (p *ValueConflict) Tag() string { return "ValueConflict" }
func (p *ValueConflict) Summary() string {
	return fmt.Sprintf("conflicting values at %s: %s vs %s", p.Location, p.FirstValue, p.SecondValue)
}

// IndexedTypeConflict reports that two composite types disagree at one
// named or positional slot, e.g. Map<string,Person> vs Map<string,Animal>
// disagreeing at argument index 1.
type IndexedTypeConflict struct {
	PropertyName  string // empty if indexed positionally instead
	PropertyIndex int
	HasIndex      bool
	Expected      string
	Actual        string
	SubProblems   []Problem
}

func (p *IndexedTypeConflict) Tag() string { return "IndexedTypeConflict" }
func (p *IndexedTypeConflict) Summary() string {
	slot := p.PropertyName
	if slot == "" && p.HasIndex {
		slot = fmt.Sprintf("[%d]", p.PropertyIndex)
	}
	return fmt.Sprintf("type conflict at %s: expected %s, got %s", slot, p.Expected, p.Actual)
}

// AssignabilityProblem reports that a source type could not be assigned to
// a target type: neither equal, sub-type, nor implicitly convertible.
type AssignabilityProblem struct {
	Source      string
	Target      string
	SubProblems []Problem
}

func (p *AssignabilityProblem) Tag() string { return "AssignabilityProblem" }
func (p *AssignabilityProblem) Summary() string {
	return fmt.Sprintf("%s is not assignable to %s", p.Source, p.Target)
}

// SubTypeProblem reports that one type is not a sub-type of another.
type SubTypeProblem struct {
	SubType     string
	SuperType   string
	SubProblems []Problem
}

func (p *SubTypeProblem) Tag() string { return "SubTypeProblem" }
func (p *SubTypeProblem) Summary() string {
	return fmt.Sprintf("%s is not a sub-type of %s", p.SubType, p.SuperType)
}

// TypeEqualityProblem reports that two types are not equal.
type TypeEqualityProblem struct {
	Type1       string
	Type2       string
	SubProblems []Problem
}

func (p *TypeEqualityProblem) Tag() string { return "TypeEqualityProblem" }
func (p *TypeEqualityProblem) Summary() string {
	return fmt.Sprintf("%s and %s are not equal", p.Type1, p.Type2)
}

// InferenceProblem reports that no inference rule could determine a type
// for a language node.
type InferenceProblem struct {
	LanguageNode       string
	InferenceCandidate string // optional: the rule or overload that came closest
	HasCandidate       bool
	Location           string
	SubProblems        []Problem
}

func (p *InferenceProblem) Tag() string { return "InferenceProblem" }
func (p *InferenceProblem) Summary() string {
	if p.Location != "" {
		return fmt.Sprintf("could not infer a type for %s at %s", p.LanguageNode, p.Location)
	}
	return fmt.Sprintf("could not infer a type for %s", p.LanguageNode)
}

// ValidationSeverity is the four-level severity a ValidationProblem carries
// (distinct from diag.Severity, which is used for the engine's own ambient
// diagnostics rather than user-facing validation results).
type ValidationSeverity uint8

const (
	SeverityError ValidationSeverity = iota
	SeverityWarning
	SeverityInfo
	SeverityHint
)

// String returns the canonical lowercase label.
func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	case SeverityHint:
		return "hint"
	default:
		return "unknown"
	}
}

// ValidationProblem is a user-facing validation result attached to a
// language node.
type ValidationProblem struct {
	LanguageNode string
	Severity     ValidationSeverity
	Message      string
	SubProblems  []Problem
}

func (p *ValidationProblem) Tag() string { return "ValidationProblem" }
func (p *ValidationProblem) Summary() string {
	return fmt.Sprintf("[%s] %s: %s", p.Severity, p.LanguageNode, p.Message)
}

// subProblemsOf returns a problem's nested sub-problems, or nil if it has
// none or is not one of the seven known shapes. Printer uses this instead
// of adding a SubProblems method to the Problem interface, so each shape's
// field stays a plain, directly-constructible []Problem.
func subProblemsOf(p Problem) []Problem {
	switch v := p.(type) {
	case *ValueConflict:
		return v.SubProblems
	case *IndexedTypeConflict:
		return v.SubProblems
	case *AssignabilityProblem:
		return v.SubProblems
	case *SubTypeProblem:
		return v.SubProblems
	case *TypeEqualityProblem:
		return v.SubProblems
	case *InferenceProblem:
		return v.SubProblems
	case *ValidationProblem:
		return v.SubProblems
	default:
		return nil
	}
}
