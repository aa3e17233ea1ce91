package kinds

import (
	"context"

	"github.com/arkhold/typir/graph"
	"github.com/arkhold/typir/types"
)

// TopType is the unique super-type of every other type.
type TopType struct{ *types.Type }

// BottomType is the unique sub-type of every other type.
type BottomType struct{ *types.Type }

const (
	topIdentifier    = "$top"
	bottomIdentifier = "$bottom"
)

// GetOrCreateTop returns the singleton Top type, registering it in g on
// first use.
func GetOrCreateTop(ctx context.Context, g *graph.Graph) (*TopType, error) {
	if existing, ok := g.GetNode(topIdentifier); ok {
		return existing.(*TopType), nil
	}
	top := &TopType{Type: types.New("top")}
	if err := top.SetIdentifiable(topIdentifier, "top", "Top"); err != nil {
		return nil, err
	}
	if err := g.AddNode(ctx, top); err != nil {
		return nil, err
	}
	if err := top.SetCompleted(); err != nil {
		return nil, err
	}
	return top, nil
}

// GetOrCreateBottom returns the singleton Bottom type, registering it in g
// on first use.
func GetOrCreateBottom(ctx context.Context, g *graph.Graph) (*BottomType, error) {
	if existing, ok := g.GetNode(bottomIdentifier); ok {
		return existing.(*BottomType), nil
	}
	bottom := &BottomType{Type: types.New("bottom")}
	if err := bottom.SetIdentifiable(bottomIdentifier, "bottom", "Bottom"); err != nil {
		return nil, err
	}
	if err := g.AddNode(ctx, bottom); err != nil {
		return nil, err
	}
	if err := bottom.SetCompleted(); err != nil {
		return nil, err
	}
	return bottom, nil
}

// IsTop reports whether t is the Top singleton.
func IsTop(t *types.Type) bool {
	return t != nil && t.Kind() == "top"
}

// IsBottom reports whether t is the Bottom singleton.
func IsBottom(t *types.Type) bool {
	return t != nil && t.Kind() == "bottom"
}
