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

// FunctionType is a function signature: an ordered list of parameter types
// plus a return type.
//
// A function type becomes Identifiable once every parameter and the
// return type are themselves Identifiable (their identifiers are needed to
// compute the function's own identifier), and Completed once they are all
// Completed.
type FunctionType struct {
	*types.Type

	funcName     string
	paramRefs    []*typeref.TypeReference
	returnRef    *typeref.TypeReference
	enforceNames bool
}

// EnforceNames reports whether the factory that created this type compares
// function names nominally, set at Create time so relation.Equality (which
// has no access to a live FunctionFactory) can read the policy straight off
// the instance.
func (f *FunctionType) EnforceNames() bool {
	if f == nil {
		return false
	}
	return f.enforceNames
}

// Parameters returns the resolved parameter types, in declaration order.
// Only meaningful once the function type is at least Identifiable.
func (f *FunctionType) Parameters() []*types.Type {
	if f == nil {
		return nil
	}
	out := make([]*types.Type, 0, len(f.paramRefs))
	for _, ref := range f.paramRefs {
		if t, ok := ref.Resolve(); ok {
			out = append(out, t)
		}
	}
	return out
}

// ReturnType returns the resolved return type. Only meaningful once the
// function type is at least Identifiable.
func (f *FunctionType) ReturnType() *types.Type {
	if f == nil {
		return nil
	}
	t, _ := f.returnRef.Resolve()
	return t
}

// FunctionName returns the declared operator/function name, which may be
// empty for anonymous function types.
func (f *FunctionType) FunctionName() string {
	if f == nil {
		return ""
	}
	return f.funcName
}

// FunctionFactory creates FunctionTypes and adds each one to a graph once
// its signature has resolved. Create does not look up an existing type: a
// second Create whose resolved signature equals an earlier one returns a
// distinct FunctionType, and that one is not added to the graph, since its
// identifier is already taken.
type FunctionFactory struct {
	g            *graph.Graph
	enforceNames bool
}

// FunctionFactoryOption configures a FunctionFactory.
type FunctionFactoryOption func(*FunctionFactory)

// WithEnforceFunctionNames makes AnalyzeTypeEquality require the same
// funcName in addition to structural equality, turning function-type
// equality nominal. Off by default: two anonymous signatures with
// identical structure are equal regardless of name.
func WithEnforceFunctionNames() FunctionFactoryOption {
	return func(f *FunctionFactory) { f.enforceNames = true }
}

// NewFunctionFactory returns a factory that registers types into g.
func NewFunctionFactory(g *graph.Graph, opts ...FunctionFactoryOption) *FunctionFactory {
	f := &FunctionFactory{g: g}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Create builds a new function type. name may be empty for an anonymous
// function type used only for structural comparison (e.g. a validation
// constraint). Parameter and return selectors may point at types that do
// not exist yet; the resulting FunctionType becomes Identifiable and
// Completed only once they do.
func (f *FunctionFactory) Create(ctx context.Context, name string, params []typeref.TypeSelector, ret typeref.TypeSelector) (*FunctionType, error) {
	fn := &FunctionType{
		Type:         types.New("function"),
		funcName:     name,
		paramRefs:    make([]*typeref.TypeReference, len(params)),
		returnRef:    typeref.New(ret),
		enforceNames: f.enforceNames,
	}
	for i, sel := range params {
		fn.paramRefs[i] = typeref.New(sel)
	}

	identifiableWaiter := typeref.NewWaitingForIdentifiableAndCompletedTypeReferences(func() {
		f.becomeIdentifiable(ctx, fn)
	})
	completedWaiter := typeref.NewWaitingForIdentifiableAndCompletedTypeReferences(func() {
		_ = fn.SetCompleted()
	})

	for _, ref := range fn.paramRefs {
		identifiableWaiter.WaitForIdentifiable(ref)
		completedWaiter.WaitForCompleted(ref)
	}
	identifiableWaiter.WaitForIdentifiable(fn.returnRef)
	completedWaiter.WaitForCompleted(fn.returnRef)
	identifiableWaiter.Ready()
	completedWaiter.Ready()

	return fn, nil
}

func (f *FunctionFactory) becomeIdentifiable(ctx context.Context, fn *FunctionType) {
	paramIDs := make([]string, len(fn.paramRefs))
	for i, ref := range fn.paramRefs {
		t, ok := ref.Resolve()
		if !ok {
			return
		}
		paramIDs[i] = t.Identifier()
	}
	retType, ok := fn.returnRef.Resolve()
	if !ok {
		return
	}

	id := ident.Normalize(fmt.Sprintf("%s(%s):%s", fn.funcName, strings.Join(paramIDs, ","), retType.Identifier()))
	userRep := fmt.Sprintf("%s(%s): %s", fn.funcName, strings.Join(paramIDs, ", "), retType.Identifier())
	if err := fn.SetIdentifiable(id, fn.funcName, userRep); err != nil {
		return
	}
	_ = f.g.AddNode(ctx, fn)
}

// AnalyzeTypeEquality reports whether two function types have identical
// parameter lists and return type. When either type was created by a
// factory with WithEnforceFunctionNames, the funcName must also match;
// otherwise two anonymous signatures with the same structure are equal
// regardless of name. The policy is read off the instances (EnforceNames),
// not off f, so this comparison is correct even when called through a nil
// *FunctionFactory receiver, as relation.Equality does.
func (f *FunctionFactory) AnalyzeTypeEquality(a, b *FunctionType) bool {
	if a == nil || b == nil {
		return a == b
	}
	if (a.enforceNames || b.enforceNames) && a.funcName != b.funcName {
		return false
	}
	ap, bp := a.Parameters(), b.Parameters()
	if len(ap) != len(bp) {
		return false
	}
	for i := range ap {
		if ap[i].Identifier() != bp[i].Identifier() {
			return false
		}
	}
	ar, br := a.ReturnType(), b.ReturnType()
	if ar == nil || br == nil {
		return ar == br
	}
	return ar.Identifier() == br.Identifier()
}
