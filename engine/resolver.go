package engine

import (
	"context"

	"github.com/arkhold/typir/infer"
	"github.com/arkhold/typir/types"
)

// typeResolver adapts an *infer.Collector to typeref.Inferrer, so
// construction code can build a typeref.TypeSelector from an opaque host
// AST node via typeref.FromLanguageNode("this sub-expression's type,
// resolved lazily on demand") instead of only from already-known types.
//
// A failed, recursive, or not-yet-resolvable inference all collapse to
// (nil, false): typeref.TypeSelector.resolve's contract only distinguishes
// "resolved" from "not yet", not why a resolution did not happen.
type typeResolver struct {
	ctx       context.Context
	collector *infer.Collector
}

// InferType implements typeref.Inferrer.
func (r *typeResolver) InferType(languageNode any) (*types.Type, bool) {
	t, prob, err := r.collector.InferType(r.ctx, languageNode)
	if err != nil || prob != nil || t == nil {
		return nil, false
	}
	return t, true
}
