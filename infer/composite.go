package infer

import (
	"fmt"

	"github.com/arkhold/typir/problem"
	"github.com/arkhold/typir/types"
)

// CompositeRule combines several ZeroChildRules into one, for the case
// where a single node — an operator call, say — could plausibly be
// resolved by more than one overload. The subrules are tried in order:
//
//   - exactly one succeeds: that type wins.
//   - none succeed: the composite itself reports 'N/A'.
//   - more than one succeeds with the same resulting type: the duplicate
//     collapses and that type wins (two overloads agreeing is not an
//     ambiguity).
//   - more than one succeeds with distinct types: the composite reports
//     an InferenceProblem; the caller cannot tell which overload the host
//     meant.
//
// A subrule that itself reports an InferenceProblem ends the evaluation:
// that problem is returned and the later subrules are not tried.
type CompositeRule struct {
	subrules []ZeroChildRule
}

// NewCompositeRule returns a CompositeRule that tries the subrules in
// order and combines their outcomes per the type's documented rules.
func NewCompositeRule(subrules ...ZeroChildRule) *CompositeRule {
	return &CompositeRule{subrules: append([]ZeroChildRule(nil), subrules...)}
}

// InferType implements ZeroChildRule.
func (c *CompositeRule) InferType(node any) Outcome {
	var matches []*types.Type
	seen := make(map[string]struct{})

	for _, sub := range c.subrules {
		outcome := sub.InferType(node)
		switch outcome.kind {
		case outcomeType:
			id := outcome.typ.Identifier()
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			matches = append(matches, outcome.typ)
		case outcomeProblem:
			return outcome
		default:
			// 'N/A' and anything else: this subrule has nothing to add.
		}
	}

	switch len(matches) {
	case 0:
		return NotApplicable()
	case 1:
		return TypeResult(matches[0])
	default:
		return ProblemResult(&problem.InferenceProblem{
			LanguageNode: fmt.Sprintf("%v", node),
		})
	}
}
