package kinds

import (
	"context"
	"fmt"
	"strings"

	"github.com/arkhold/typir/graph"
	"github.com/arkhold/typir/internal/ident"
	"github.com/arkhold/typir/typeref"
	"github.com/arkhold/typir/types"
)

// FixedParameterType is a type parameterized by a fixed, ordered, named
// list of type arguments, e.g. Map<K, V> or List<T>.
//
// Two FixedParameterTypes are the same type if and only if they share the
// same base name and identical type arguments in the same order: Map<K,V>
// and Map<V,K> are distinct types even when K and V happen to be equal.
type FixedParameterType struct {
	*types.Type

	baseName   string
	paramNames []string
	argRefs    []*typeref.TypeReference
	strategy   FixedParameterElementStrategy
}

// BaseName returns the declared base name, e.g. "Map" for a Map<K,V>.
func (ft *FixedParameterType) BaseName() string {
	if ft == nil {
		return ""
	}
	return ft.baseName
}

// ElementStrategy reports which element-comparison strategy governs
// sub-typing for this type, set by the factory that created it.
func (ft *FixedParameterType) ElementStrategy() FixedParameterElementStrategy {
	if ft == nil {
		return ElementsMustBeEqual
	}
	return ft.strategy
}

// Arguments returns the resolved type arguments, in declaration order.
func (ft *FixedParameterType) Arguments() []*types.Type {
	if ft == nil {
		return nil
	}
	out := make([]*types.Type, 0, len(ft.argRefs))
	for _, ref := range ft.argRefs {
		if t, ok := ref.Resolve(); ok {
			out = append(out, t)
		}
	}
	return out
}

// Argument returns the resolved type argument for the named parameter
// position, e.g. Argument("K") on a Map<K,V>.
func (ft *FixedParameterType) Argument(paramName string) (*types.Type, bool) {
	if ft == nil {
		return nil, false
	}
	for i, name := range ft.paramNames {
		if name == paramName {
			return ft.argRefs[i].Resolve()
		}
	}
	return nil, false
}

// FixedParameterElementStrategy picks how a FixedParameterFactory compares
// element-wise type arguments when deciding sub-typing between two
// FixedParameterTypes of the same base name.
type FixedParameterElementStrategy uint8

const (
	// ElementsMustBeEqual requires every argument position to hold the
	// same type on both sides: Map<K,V> is never a sub-type of anything
	// but another Map<K,V> itself. Invariant, the default.
	ElementsMustBeEqual FixedParameterElementStrategy = iota
	// ElementsMaySubType allows each argument position to vary
	// covariantly: List<Dog> is a sub-type of List<Animal> whenever Dog is
	// a sub-type of Animal, argument position by argument position.
	ElementsMaySubType
)

// FixedParameterFactory creates FixedParameterTypes and adds each one to a
// graph once its arguments have resolved. Create does not look up an
// existing type: a second Create that resolves to an earlier type's
// identifier returns a distinct FixedParameterType, and that one is not
// added to the graph, since its identifier is already taken.
type FixedParameterFactory struct {
	g        *graph.Graph
	strategy FixedParameterElementStrategy
}

// FixedParameterFactoryOption configures a FixedParameterFactory.
type FixedParameterFactoryOption func(*FixedParameterFactory)

// WithElementSubTyping switches a FixedParameterFactory from the default
// ElementsMustBeEqual to ElementsMaySubType.
func WithElementSubTyping() FixedParameterFactoryOption {
	return func(f *FixedParameterFactory) { f.strategy = ElementsMaySubType }
}

// NewFixedParameterFactory returns a factory that registers types into g.
func NewFixedParameterFactory(g *graph.Graph, opts ...FixedParameterFactoryOption) *FixedParameterFactory {
	f := &FixedParameterFactory{g: g}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Create builds a new fixed-parameter type. paramNames and argSelectors
// must be the same length and are paired positionally.
func (f *FixedParameterFactory) Create(ctx context.Context, baseName string, paramNames []string, argSelectors []typeref.TypeSelector) (*FixedParameterType, error) {
	if len(paramNames) != len(argSelectors) {
		return nil, fmt.Errorf("kinds: FixedParameterFactory.Create: %d parameter names but %d arguments", len(paramNames), len(argSelectors))
	}

	ft := &FixedParameterType{
		Type:       types.New("fixed-parameter"),
		baseName:   baseName,
		paramNames: append([]string(nil), paramNames...),
		argRefs:    make([]*typeref.TypeReference, len(argSelectors)),
		strategy:   f.strategy,
	}
	for i, sel := range argSelectors {
		ft.argRefs[i] = typeref.New(sel)
	}

	identifiableWaiter := typeref.NewWaitingForIdentifiableAndCompletedTypeReferences(func() {
		f.becomeIdentifiable(ctx, ft)
	})
	completedWaiter := typeref.NewWaitingForIdentifiableAndCompletedTypeReferences(func() {
		_ = ft.SetCompleted()
	})
	for _, ref := range ft.argRefs {
		identifiableWaiter.WaitForIdentifiable(ref)
		completedWaiter.WaitForCompleted(ref)
	}
	identifiableWaiter.Ready()
	completedWaiter.Ready()

	return ft, nil
}

func (f *FixedParameterFactory) becomeIdentifiable(ctx context.Context, ft *FixedParameterType) {
	argIDs := make([]string, len(ft.argRefs))
	for i, ref := range ft.argRefs {
		t, ok := ref.Resolve()
		if !ok {
			return
		}
		argIDs[i] = t.Identifier()
	}
	id := ident.Normalize(fmt.Sprintf("%s<%s>", ft.baseName, strings.Join(argIDs, ",")))
	userRep := fmt.Sprintf("%s<%s>", ft.baseName, strings.Join(argIDs, ", "))
	if err := ft.SetIdentifiable(id, ft.baseName, userRep); err != nil {
		return
	}
	_ = f.g.AddNode(ctx, ft)
}

// AnalyzeTypeEquality reports whether a and b share the same base name and
// identical, identically-ordered type arguments. This is exact identity,
// not variance-aware comparison: Map<String,Person> and Map<String,Employee>
// are never equal even if Employee is a sub-type of Person.
func (f *FixedParameterFactory) AnalyzeTypeEquality(a, b *FixedParameterType) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.baseName != b.baseName {
		return false
	}
	aa, ba := a.Arguments(), b.Arguments()
	if len(aa) != len(ba) {
		return false
	}
	for i := range aa {
		if aa[i].Identifier() != ba[i].Identifier() {
			return false
		}
	}
	return true
}
