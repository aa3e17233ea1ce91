package relation

import (
	"context"
	"errors"
	"sync"

	"github.com/arkhold/typir/graph"
	"github.com/arkhold/typir/types"
)

// ConversionMode is the kind of convertibility recorded between two types.
type ConversionMode uint8

const (
	// None means no conversion edge is stored; GetConversion's zero value.
	None ConversionMode = iota
	// Implicit means the source is silently coerced to the target.
	Implicit
	// Explicit means the source requires an explicit cast to the target.
	Explicit
	// Self is synthesized (never stored) when two types are equal.
	Self
)

// String returns the canonical lowercase label.
func (m ConversionMode) String() string {
	switch m {
	case None:
		return "none"
	case Implicit:
		return "implicit"
	case Explicit:
		return "explicit"
	case Self:
		return "self"
	default:
		return "unknown"
	}
}

// Conversion offers MarkAsConvertible, GetConversion,
// IsConvertible. Mode information (Implicit vs Explicit) does not fit
// graph.CachingMode, so Conversion keeps its own side table keyed by the
// (from, to) identifier pair and mirrors bare existence into the shared
// graph as a ConversionEdge so generic graph walks still see it.
type Conversion struct {
	g        *graph.Graph
	equality *Equality

	mu    sync.RWMutex
	modes map[conversionKey]ConversionMode
}

type conversionKey struct{ from, to string }

// NewConversion returns a Conversion service backed by g, consulting
// equality to synthesize Self.
func NewConversion(g *graph.Graph, equality *Equality) *Conversion {
	return &Conversion{g: g, equality: equality, modes: make(map[conversionKey]ConversionMode)}
}

// MarkAsConvertible records that every type in from is convertible to
// every type in to under mode (the cross product of the two slices).
func (c *Conversion) MarkAsConvertible(ctx context.Context, from, to []*types.Type, mode ConversionMode) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, f := range from {
		for _, t := range to {
			key := conversionKey{from: f.Identifier(), to: t.Identifier()}
			c.modes[key] = mode
			err := c.g.AddEdge(ctx, graph.NewEdge(key.from, key.to, graph.ConversionEdge, graph.LinkExists))
			if err != nil && !errors.Is(err, graph.ErrDuplicateEdge) {
				return err
			}
		}
	}
	return nil
}

// GetConversion returns the recorded conversion mode from from to to.
// Returns Self if the two types are equal (this is never stored), and
// None if nothing was recorded.
func (c *Conversion) GetConversion(ctx context.Context, from, to *types.Type) ConversionMode {
	if c.equality.AreEqual(ctx, from, to) {
		return Self
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.modes[conversionKey{from: from.Identifier(), to: to.Identifier()}]
}

// IsConvertible reports whether from is convertible to to under mode.
// Passing Self always matches equal types regardless of what was recorded.
func (c *Conversion) IsConvertible(ctx context.Context, from, to *types.Type, mode ConversionMode) bool {
	return c.GetConversion(ctx, from, to) == mode
}
