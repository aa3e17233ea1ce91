package kinds

import (
	"context"

	"github.com/arkhold/typir/graph"
	"github.com/arkhold/typir/types"
)

// PlaceholderType stands in for a type that could not be resolved — the
// result of a failed inference, say — so the caller holding it can keep
// comparing, assigning, and printing diagnostics about it instead of
// threading a nil *types.Type through the rest of the engine.
//
// Every PlaceholderType is a distinct type: two placeholders are never
// equal to each other, even when minted for the same failure, since they
// carry no information that would make them the same type.
type PlaceholderType struct{ *types.Type }

// NewPlaceholder mints a fresh PlaceholderType, registers it in g, and
// returns it already Completed: a placeholder has no prerequisites left to
// resolve.
func NewPlaceholder(ctx context.Context, g *graph.Graph, reason string) (*PlaceholderType, error) {
	id := types.NewSyntheticID()
	p := &PlaceholderType{Type: types.New("placeholder")}
	userRep := "<unresolved>"
	if reason != "" {
		userRep = "<unresolved: " + reason + ">"
	}
	if err := p.SetIdentifiable(id, "", userRep); err != nil {
		return nil, err
	}
	if err := g.AddNode(ctx, p); err != nil {
		return nil, err
	}
	if err := p.SetCompleted(); err != nil {
		return nil, err
	}
	return p, nil
}

// IsPlaceholder reports whether t is a PlaceholderType.
func IsPlaceholder(t *types.Type) bool {
	return t != nil && t.Kind() == "placeholder"
}
