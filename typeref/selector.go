// Package typeref implements lazy references to types and the waiter
// mechanism that drives staged type initialization.
//
// A TypeSelector names a type without requiring it to exist yet (by value,
// by identifier, by a lazily-evaluated function, or by asking an inferrer
// to derive it from a host language node). A TypeReference wraps a
// TypeSelector and tracks whether it currently resolves to a concrete
// *types.Type, re-resolving whenever the graph or the inferrer might have
// new information. The two Waiters compose many TypeReferences into a
// single "are all my prerequisites ready" condition that a kind factory
// uses to drive a Type from Invalid to Identifiable to Completed.
package typeref

import "github.com/arkhold/typir/types"

// TypeSelector names a type that may or may not exist yet.
type TypeSelector interface {
	resolve() (*types.Type, bool)
}

type funcSelector struct {
	resolve_ func() (*types.Type, bool)
}

func (s funcSelector) resolve() (*types.Type, bool) { return s.resolve_() }

// FromType returns a selector that always resolves to t.
func FromType(t *types.Type) TypeSelector {
	return funcSelector{resolve_: func() (*types.Type, bool) { return t, t != nil }}
}

// NodeLookup resolves a graph identifier to a node, if registered.
// FromIdentifier does not use it (it takes a lookup function), and
// *graph.Graph does not satisfy it as is, since its GetNode returns a
// graph.Node rather than an any.
type NodeLookup interface {
	GetNode(identifier string) (node any, ok bool)
}

// FromIdentifier returns a selector that looks up identifier in lookup
// each time it is resolved.
func FromIdentifier(identifier string, lookup func(string) (*types.Type, bool)) TypeSelector {
	return funcSelector{resolve_: func() (*types.Type, bool) { return lookup(identifier) }}
}

// FromFunc returns a selector that lazily evaluates f and resolves
// whatever selector f returns. Useful when the target type is only known
// once some other computation (e.g. a closure over a builder) has run.
func FromFunc(f func() TypeSelector) TypeSelector {
	return funcSelector{resolve_: func() (*types.Type, bool) {
		inner := f()
		if inner == nil {
			return nil, false
		}
		return inner.resolve()
	}}
}

// Inferrer derives the type of an opaque host language node. The engine
// package adapts *infer.Collector to this interface; declared narrowly here
// to avoid an import cycle between typeref and infer.
type Inferrer interface {
	InferType(languageNode any) (*types.Type, bool)
}

// FromLanguageNode returns a selector that asks inferrer to derive the type
// of languageNode each time it is resolved.
func FromLanguageNode(languageNode any, inferrer Inferrer) TypeSelector {
	return funcSelector{resolve_: func() (*types.Type, bool) { return inferrer.InferType(languageNode) }}
}
