package operators

import (
	"github.com/arkhold/typir/infer"
	"github.com/arkhold/typir/kinds"
	"github.com/arkhold/typir/types"
)

// Overloads is every signature declared so far for one operator name.
type Overloads struct {
	name       string
	signatures []*kinds.FunctionType
}

// Name returns the operator name this group was declared under.
func (o *Overloads) Name() string {
	if o == nil {
		return ""
	}
	return o.name
}

// Signatures returns every overload registered for this operator, in
// declaration order.
func (o *Overloads) Signatures() []*kinds.FunctionType {
	if o == nil {
		return nil
	}
	return append([]*kinds.FunctionType(nil), o.signatures...)
}

func (o *Overloads) add(fn *kinds.FunctionType) {
	o.signatures = append(o.signatures, fn)
}

// sameReturnType reports the operator's common return type, if every
// overload declared so far shares the same one. An operator with zero
// overloads has no common return type.
func (o *Overloads) sameReturnType() (*types.Type, bool) {
	if len(o.signatures) == 0 {
		return nil, false
	}
	first := o.signatures[0].ReturnType()
	if first == nil {
		return nil, false
	}
	for _, fn := range o.signatures[1:] {
		rt := fn.ReturnType()
		if rt == nil || rt.Identifier() != first.Identifier() {
			return nil, false
		}
	}
	return first, true
}

// OperandTypesFunc resolves the actual operand types of an operator-call
// language node, e.g. by inferring each operand sub-expression's type
// through the same collector. The bool reports whether resolution
// succeeded; false means "not enough information yet", not "this node has
// no operands".
type OperandTypesFunc func(node any) ([]*types.Type, bool)

// DispatchRule returns a ZeroChildRule usable directly as an infer.Collector
// rule for operator-call nodes of this operator.
//
// When every overload shares the same return type, a fast path applies:
// the rule returns that type outright without ever calling operandTypes,
// since no overload resolution is needed to know the result. Otherwise
// every overload is tried and the one whose parameter
// types match the node's actual operand types (exactly, by identifier) wins;
// the usual CompositeRule semantics govern zero, one, or many matches.
func (o *Overloads) DispatchRule(operandTypes OperandTypesFunc) infer.ZeroChildRule {
	if common, ok := o.sameReturnType(); ok {
		return infer.ZeroChildRuleFunc(func(node any) infer.Outcome {
			return infer.TypeResult(common)
		})
	}

	subrules := make([]infer.ZeroChildRule, len(o.signatures))
	for i, fn := range o.signatures {
		subrules[i] = &overloadRule{fn: fn, operandTypes: operandTypes}
	}
	return infer.NewCompositeRule(subrules...)
}

// overloadRule matches a single overload's parameter list against a node's
// actual operand types.
type overloadRule struct {
	fn           *kinds.FunctionType
	operandTypes OperandTypesFunc
}

func (r *overloadRule) InferType(node any) infer.Outcome {
	operands, ok := r.operandTypes(node)
	if !ok {
		return infer.NotApplicable()
	}
	params := r.fn.Parameters()
	if len(params) != len(operands) {
		return infer.NotApplicable()
	}
	for i, p := range params {
		if operands[i] == nil || p.Identifier() != operands[i].Identifier() {
			return infer.NotApplicable()
		}
	}
	return infer.TypeResult(r.fn.ReturnType())
}
