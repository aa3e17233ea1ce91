// Package relation implements the four relation services — Equality,
// SubType, Conversion, and the Assignability service composing them — on
// top of the graph's cached-edge primitive.
package relation

import (
	"context"

	"github.com/arkhold/typir/graph"
	"github.com/arkhold/typir/kinds"
	"github.com/arkhold/typir/types"
)

// Equality offers AreEqual plus MarkAsEqual for the explicit-alias
// strategy.
//
// The default strategy is the memoized computation: a cache miss marks the
// pair Pending, recurses into the kind's structural analyzer treating
// Pending as "equal for now" (this is what lets cyclic structures such as
// `class A { f: A }` compare equal without looping forever), then records
// the final verdict as a LinkExists/NoLink edge. Construct with
// WithExplicitAliasStrategy to switch to the alternative strategy instead,
// where equality holds only via explicit bidirectional edges the user
// marks with MarkAsEqual. Both are implemented and tested; only one is the
// default.
type Equality struct {
	g        *graph.Graph
	explicit bool
}

// EqualityOption configures an Equality service.
type EqualityOption func(*Equality)

// WithExplicitAliasStrategy switches the service to the alternative
// strategy: equality only via user-marked bidirectional edges,
// transitively.
func WithExplicitAliasStrategy() EqualityOption {
	return func(e *Equality) { e.explicit = true }
}

// NewEquality returns an Equality service backed by g, using the
// memoized-PENDING strategy unless WithExplicitAliasStrategy is given.
func NewEquality(g *graph.Graph, opts ...EqualityOption) *Equality {
	e := &Equality{g: g}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// MarkAsEqual records an explicit bidirectional equality alias between a
// and b. The memoized strategy keeps its own verdicts as EqualityEdge
// edges in one canonical direction per pair, so it reads a marked alias as
// a cached "equal" verdict too; if it has already cached a verdict for the
// pair, MarkAsEqual returns the graph's duplicate-edge error.
func (e *Equality) MarkAsEqual(ctx context.Context, a, b *types.Type) error {
	if err := e.g.AddEdge(ctx, graph.NewEdge(a.Identifier(), b.Identifier(), graph.EqualityEdge, graph.LinkExists)); err != nil {
		return err
	}
	return e.g.AddEdge(ctx, graph.NewEdge(b.Identifier(), a.Identifier(), graph.EqualityEdge, graph.LinkExists))
}

// UnmarkAsEqual removes a previously marked alias, in both directions.
func (e *Equality) UnmarkAsEqual(ctx context.Context, a, b *types.Type) error {
	if err := e.g.RemoveEdge(ctx, graph.NewEdge(a.Identifier(), b.Identifier(), graph.EqualityEdge, graph.LinkExists)); err != nil {
		return err
	}
	return e.g.RemoveEdge(ctx, graph.NewEdge(b.Identifier(), a.Identifier(), graph.EqualityEdge, graph.LinkExists))
}

// AreEqual reports whether a and b are the same type.
func (e *Equality) AreEqual(ctx context.Context, a, b *types.Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Identifier() == b.Identifier() {
		return true
	}
	if e.explicit {
		return e.reachableViaEqualityEdges(a.Identifier(), b.Identifier())
	}
	return e.memoizedAreEqual(ctx, a, b)
}

func (e *Equality) reachableViaEqualityEdges(from, to string) bool {
	visited := map[string]bool{from: true}
	queue := []string{from}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == to {
			return true
		}
		for _, edge := range e.g.OutgoingEdges(cur, graph.EqualityEdge) {
			if edge.Mode() != graph.LinkExists {
				continue
			}
			if !visited[edge.To()] {
				visited[edge.To()] = true
				queue = append(queue, edge.To())
			}
		}
	}
	return false
}

func (e *Equality) memoizedAreEqual(ctx context.Context, a, b *types.Type) bool {
	lo, hi := canonicalPair(a.Identifier(), b.Identifier())

	if edge, ok := e.g.GetEdge(lo, hi, graph.EqualityEdge); ok {
		switch edge.Mode() {
		case graph.LinkExists:
			return true
		case graph.NoLink:
			return false
		case graph.Pending:
			return true // assume-OK: already inside this pair's own recursive evaluation
		}
	}

	_ = e.g.AddEdge(ctx, graph.NewEdge(lo, hi, graph.EqualityEdge, graph.Pending))
	result := e.structuralEquality(a, b)
	_ = e.g.RemoveEdge(ctx, graph.NewEdge(lo, hi, graph.EqualityEdge, graph.Pending))

	mode := graph.NoLink
	if result {
		mode = graph.LinkExists
	}
	_ = e.g.AddEdge(ctx, graph.NewEdge(lo, hi, graph.EqualityEdge, mode))
	return result
}

func canonicalPair(x, y string) (lo, hi string) {
	if x <= y {
		return x, y
	}
	return y, x
}

// structuralEquality dispatches to the kind-specific analyzer for a and b,
// looking up the concrete node each identifier names (the graph.Node the
// kind factories registered, not just the bare *types.Type) since that is
// where the kind-specific fields live. Types of different kinds, or whose
// nodes are missing, are never equal.
func (e *Equality) structuralEquality(a, b *types.Type) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	nodeA, ok := e.g.GetNode(a.Identifier())
	if !ok {
		return false
	}
	nodeB, ok := e.g.GetNode(b.Identifier())
	if !ok {
		return false
	}

	switch na := nodeA.(type) {
	case *kinds.PrimitiveType:
		nb, ok := nodeB.(*kinds.PrimitiveType)
		return ok && (*kinds.PrimitiveFactory)(nil).AnalyzeTypeEquality(na, nb)
	case *kinds.FunctionType:
		nb, ok := nodeB.(*kinds.FunctionType)
		return ok && (*kinds.FunctionFactory)(nil).AnalyzeTypeEquality(na, nb)
	case *kinds.FixedParameterType:
		nb, ok := nodeB.(*kinds.FixedParameterType)
		return ok && (*kinds.FixedParameterFactory)(nil).AnalyzeTypeEquality(na, nb)
	case *kinds.MultiplicityType:
		nb, ok := nodeB.(*kinds.MultiplicityType)
		return ok && (*kinds.MultiplicityFactory)(nil).AnalyzeTypeEquality(na, nb)
	default:
		// Classes are nominally identified (distinct declarations are never
		// equal, reflexive identity is already handled above); Top and
		// Bottom are singletons (same reasoning). Neither needs a kind
		// analyzer here.
		return false
	}
}
