package relation

import (
	"context"
	"fmt"

	"github.com/arkhold/typir/graph"
	"github.com/arkhold/typir/kinds"
	"github.com/arkhold/typir/types"
)

// ErrInheritanceCycle is returned by MarkAsSubType when adding the edge
// would close a cycle and CheckForCycles is enabled.
var ErrInheritanceCycle = fmt.Errorf("relation: marking this edge would create a sub-type cycle")

// SubType answers IsSubType by reachability over directed
// SubTypeEdge edges, plus the kind-specific structural rules (Multiplicity
// range containment, Function parameter/return variance, FixedParameter
// element-wise comparison) that do not go through stored edges at all.
type SubType struct {
	g        *graph.Graph
	equality *Equality
}

// NewSubType returns a SubType service backed by g, consulting equality
// when comparing Function parameters and returns and FixedParameter
// arguments.
func NewSubType(g *graph.Graph, equality *Equality) *SubType {
	return &SubType{g: g, equality: equality}
}

// MarkAsSubTypeOptions configures MarkAsSubType.
type MarkAsSubTypeOptions struct {
	// CheckForCycles runs a reachability search from super back to sub
	// before inserting the edge and refuses the edge (returning
	// ErrInheritanceCycle) if one would be created. The zero value leaves
	// the check off. Top and Bottom need no marked edges: IsSubType answers
	// them directly.
	CheckForCycles bool
}

// MarkAsSubType records sub as a direct sub-type of super.
func (s *SubType) MarkAsSubType(ctx context.Context, sub, super *types.Type, opts MarkAsSubTypeOptions) error {
	if opts.CheckForCycles && s.isReachable(super.Identifier(), sub.Identifier()) {
		return ErrInheritanceCycle
	}
	return s.g.AddEdge(ctx, graph.NewEdge(sub.Identifier(), super.Identifier(), graph.SubTypeEdge, graph.LinkExists))
}

// IsSubType reports whether sub is a sub-type of super, directly or
// transitively.
func (s *SubType) IsSubType(ctx context.Context, sub, super *types.Type) bool {
	if sub == nil || super == nil {
		return false
	}
	if sub.Identifier() == super.Identifier() {
		return true // a type is its own sub-type by definition, no edge needed
	}
	if kinds.IsBottom(sub) {
		return true
	}
	if kinds.IsTop(super) {
		return true
	}
	if kinds.IsBottom(super) || kinds.IsTop(sub) {
		return false // Bottom has no super-types but itself; Top has no sub-types but itself
	}

	if structural, ok := s.structuralSubType(ctx, sub, super); ok {
		return structural
	}

	return s.isReachable(sub.Identifier(), super.Identifier())
}

func (s *SubType) isReachable(from, to string) bool {
	visited := map[string]bool{from: true}
	queue := []string{from}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == to {
			return true
		}
		for _, edge := range s.g.OutgoingEdges(cur, graph.SubTypeEdge) {
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

// structuralSubType handles the three kinds whose sub-typing is computed
// structurally rather than by stored edges: Multiplicity (range
// containment), Function (contravariant parameters, covariant return) and
// FixedParameter (element-wise, per the element strategy). ok is false when
// sub and super differ in kind or are of none of these kinds, meaning the
// caller should fall back to graph reachability.
func (s *SubType) structuralSubType(ctx context.Context, sub, super *types.Type) (result, ok bool) {
	if sub.Kind() != super.Kind() {
		return false, false
	}
	switch sub.Kind() {
	case "multiplicity":
		subNode, ok1 := s.g.GetNode(sub.Identifier())
		superNode, ok2 := s.g.GetNode(super.Identifier())
		if !ok1 || !ok2 {
			return false, true
		}
		subM, ok1 := subNode.(*kinds.MultiplicityType)
		superM, ok2 := superNode.(*kinds.MultiplicityType)
		if !ok1 || !ok2 {
			return false, true
		}
		return (*kinds.MultiplicityFactory)(nil).AnalyzeIsSubTypeOf(subM, superM), true
	case "function":
		subNode, ok1 := s.g.GetNode(sub.Identifier())
		superNode, ok2 := s.g.GetNode(super.Identifier())
		if !ok1 || !ok2 {
			return false, true
		}
		subF, ok1 := subNode.(*kinds.FunctionType)
		superF, ok2 := superNode.(*kinds.FunctionType)
		if !ok1 || !ok2 {
			return false, true
		}
		return s.functionIsSubType(ctx, subF, superF), true
	case "fixed-parameter":
		subNode, ok1 := s.g.GetNode(sub.Identifier())
		superNode, ok2 := s.g.GetNode(super.Identifier())
		if !ok1 || !ok2 {
			return false, true
		}
		subFP, ok1 := subNode.(*kinds.FixedParameterType)
		superFP, ok2 := superNode.(*kinds.FixedParameterType)
		if !ok1 || !ok2 {
			return false, true
		}
		return s.fixedParameterIsSubType(ctx, subFP, superFP), true
	default:
		return false, false
	}
}

// fixedParameterIsSubType compares two FixedParameterTypes sharing the
// same base name element-wise, per sub.ElementStrategy(): either every
// argument pair must be equal (the invariant default), or each sub
// argument may be a sub-type of the corresponding super argument
// (covariant).
func (s *SubType) fixedParameterIsSubType(ctx context.Context, sub, super *kinds.FixedParameterType) bool {
	if sub.BaseName() != super.BaseName() {
		return false
	}
	subArgs, superArgs := sub.Arguments(), super.Arguments()
	if len(subArgs) != len(superArgs) {
		return false
	}
	for i := range subArgs {
		switch sub.ElementStrategy() {
		case kinds.ElementsMaySubType:
			if !s.IsSubType(ctx, subArgs[i], superArgs[i]) {
				return false
			}
		default:
			if !s.equality.AreEqual(ctx, subArgs[i], superArgs[i]) {
				return false
			}
		}
	}
	return true
}

// functionIsSubType implements the standard function sub-typing rule:
// contravariant parameters, covariant return, same arity.
func (s *SubType) functionIsSubType(ctx context.Context, sub, super *kinds.FunctionType) bool {
	subParams, superParams := sub.Parameters(), super.Parameters()
	if len(subParams) != len(superParams) {
		return false
	}
	for i := range subParams {
		if !s.IsSubType(ctx, superParams[i], subParams[i]) && !s.equality.AreEqual(ctx, superParams[i], subParams[i]) {
			return false
		}
	}
	subReturn, superReturn := sub.ReturnType(), super.ReturnType()
	if subReturn == nil || superReturn == nil {
		return subReturn == superReturn
	}
	return s.IsSubType(ctx, subReturn, superReturn) || s.equality.AreEqual(ctx, subReturn, superReturn)
}
