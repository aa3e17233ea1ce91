// Package kinds implements the concrete type kinds — Primitive, Function,
// Class, FixedParameter, Multiplicity, Top, and Bottom — each as a small
// struct embedding *types.Type plus whatever kind-specific data it adds,
// together with the relation analyzers (equality, sub-typing) specific to
// that kind.
package kinds

import (
	"context"
	"fmt"

	"github.com/arkhold/typir/graph"
	"github.com/arkhold/typir/internal/ident"
	"github.com/arkhold/typir/types"
)

// PrimitiveType is a type with no internal structure, identified solely by
// name (e.g. "integer", "string", "boolean").
type PrimitiveType struct {
	*types.Type
}

// PrimitiveFactory creates and interns PrimitiveTypes in a graph.
type PrimitiveFactory struct {
	g *graph.Graph
}

// NewPrimitiveFactory returns a factory that registers types into g.
func NewPrimitiveFactory(g *graph.Graph) *PrimitiveFactory {
	return &PrimitiveFactory{g: g}
}

// GetOrCreate returns the existing primitive type named name, creating it
// if it does not already exist. Primitives have no prerequisites, so they
// move directly from Invalid through Identifiable to Completed.
func (f *PrimitiveFactory) GetOrCreate(ctx context.Context, name string) (*PrimitiveType, error) {
	id := ident.Normalize(name)
	if existing, ok := f.g.GetNode(id); ok {
		if p, ok := existing.(*PrimitiveType); ok {
			return p, nil
		}
		return nil, fmt.Errorf("kinds: identifier %q already registered as a different kind", id)
	}

	p := &PrimitiveType{Type: types.New("primitive")}
	if err := p.SetIdentifiable(id, name, name); err != nil {
		return nil, err
	}
	if err := f.g.AddNode(ctx, p); err != nil {
		return nil, err
	}
	if err := p.SetCompleted(); err != nil {
		return nil, err
	}
	return p, nil
}

// AnalyzeTypeEquality reports whether a and b are the same primitive type.
// Primitives are nominally identified, so equality reduces to identifier
// equality.
func (f *PrimitiveFactory) AnalyzeTypeEquality(a, b *PrimitiveType) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Identifier() == b.Identifier()
}
