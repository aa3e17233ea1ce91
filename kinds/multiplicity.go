package kinds

import (
	"context"
	"fmt"
	"math"

	"github.com/arkhold/typir/graph"
	"github.com/arkhold/typir/internal/ident"
	"github.com/arkhold/typir/types"
)

// Unbounded represents an unbounded upper multiplicity ("*").
const Unbounded = math.MaxInt

// MultiplicityType constrains how many instances of a wrapped base type
// may appear, e.g. Person[0..1] or Person[1..*].
type MultiplicityType struct {
	*types.Type

	base   *types.Type
	lower  int
	upper  int // Unbounded for "*"
}

// Base returns the wrapped type.
func (m *MultiplicityType) Base() *types.Type {
	if m == nil {
		return nil
	}
	return m.base
}

// Lower returns the lower bound.
func (m *MultiplicityType) Lower() int {
	if m == nil {
		return 0
	}
	return m.lower
}

// Upper returns the upper bound, or [Unbounded].
func (m *MultiplicityType) Upper() int {
	if m == nil {
		return 0
	}
	return m.upper
}

// MultiplicityFactory creates and interns MultiplicityTypes in a graph.
type MultiplicityFactory struct {
	g *graph.Graph
}

// NewMultiplicityFactory returns a factory that registers types into g.
func NewMultiplicityFactory(g *graph.Graph) *MultiplicityFactory {
	return &MultiplicityFactory{g: g}
}

// Create builds base[lower..upper]. base must already be at least
// Identifiable: unlike the other kinds, a multiplicity's bounds are known
// immediately, so the only prerequisite is the base type's identifier.
func (f *MultiplicityFactory) Create(ctx context.Context, base *types.Type, lower, upper int) (*MultiplicityType, error) {
	if base == nil || base.State() == types.Invalid {
		return nil, fmt.Errorf("kinds: MultiplicityFactory.Create requires an Identifiable base type")
	}
	if lower < 0 || (upper != Unbounded && upper < lower) {
		return nil, fmt.Errorf("kinds: invalid multiplicity bounds [%d..%d]", lower, upper)
	}

	id := ident.Normalize(fmt.Sprintf("%s[%s]", base.Identifier(), boundsLabel(lower, upper)))
	if existing, ok := f.g.GetNode(id); ok {
		if em, ok := existing.(*MultiplicityType); ok {
			return em, nil
		}
	}
	m := &MultiplicityType{Type: types.New("multiplicity"), base: base, lower: lower, upper: upper}
	userRep := fmt.Sprintf("%s[%s]", base.Identifier(), boundsLabel(lower, upper))
	if err := m.SetIdentifiable(id, base.Name(), userRep); err != nil {
		return nil, err
	}
	if err := f.g.AddNode(ctx, m); err != nil {
		return nil, err
	}
	if base.State() == types.Completed {
		_ = m.SetCompleted()
	} else {
		base.AddListener(multiplicityCompletionForwarder{m})
	}
	return m, nil
}

type multiplicityCompletionForwarder struct{ m *MultiplicityType }

func (f multiplicityCompletionForwarder) OnSwitchedToIdentifiable(*types.Type) {}
func (f multiplicityCompletionForwarder) OnSwitchedToCompleted(*types.Type)    { _ = f.m.SetCompleted() }
func (f multiplicityCompletionForwarder) OnInvalidated(*types.Type, types.InitializationState) {
	f.m.Invalidate()
}

func boundsLabel(lower, upper int) string {
	if upper == Unbounded {
		return fmt.Sprintf("%d..*", lower)
	}
	if lower == upper {
		return fmt.Sprintf("%d", lower)
	}
	return fmt.Sprintf("%d..%d", lower, upper)
}

// AnalyzeTypeEquality reports whether a and b wrap the same base type with
// identical bounds.
//
// This compares a's bounds against b's bounds, not a's bounds against
// themselves — an earlier draft of this analyzer compared a multiplicity
// only to itself and therefore always reported true.
func (f *MultiplicityFactory) AnalyzeTypeEquality(a, b *MultiplicityType) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.base.Identifier() != b.base.Identifier() {
		return false
	}
	return a.lower == b.lower && a.upper == b.upper
}

// AnalyzeIsSubTypeOf reports whether sub's range is contained within
// super's range over the same base type: sub is a sub-type of super when
// every cardinality sub allows is also allowed by super.
func (f *MultiplicityFactory) AnalyzeIsSubTypeOf(sub, super *MultiplicityType) bool {
	if sub == nil || super == nil {
		return false
	}
	if sub.base.Identifier() != super.base.Identifier() {
		return false
	}
	if sub.lower < super.lower {
		return false
	}
	if super.upper == Unbounded {
		return true
	}
	if sub.upper == Unbounded {
		return false
	}
	return sub.upper <= super.upper
}
