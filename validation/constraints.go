package validation

import (
	"context"
	"fmt"

	"github.com/arkhold/typir/problem"
	"github.com/arkhold/typir/relation"
	"github.com/arkhold/typir/types"
)

// Constraints offers the three ready-made validation checks built directly
// on the relation services, so host rules rarely need to call
// relation.Assignability/SubType/Equality themselves: EnsureAssignable,
// EnsureSubType, EnsureTypeMatches.
type Constraints struct {
	assignability *relation.Assignability
	subType       *relation.SubType
	equality      *relation.Equality
}

// NewConstraints returns a Constraints sub-service composing the given
// relation services.
func NewConstraints(assignability *relation.Assignability, subType *relation.SubType, equality *relation.Equality) *Constraints {
	return &Constraints{assignability: assignability, subType: subType, equality: equality}
}

// EnsureAssignable reports a ValidationProblem if source is not assignable
// to target, or nil if it is.
func (c *Constraints) EnsureAssignable(ctx context.Context, languageNode string, source, target *types.Type) *problem.ValidationProblem {
	ok, assignProblem := c.assignability.CheckAssignable(ctx, source, target)
	if ok {
		return nil
	}
	return &problem.ValidationProblem{
		LanguageNode: languageNode,
		Severity:     problem.SeverityError,
		Message:      fmt.Sprintf("%s is not assignable to %s", source.UserRepresentation(), target.UserRepresentation()),
		SubProblems:  []problem.Problem{assignProblem},
	}
}

// EnsureSubType reports a ValidationProblem if sub is not a sub-type of
// super, or nil if it is.
func (c *Constraints) EnsureSubType(ctx context.Context, languageNode string, sub, super *types.Type) *problem.ValidationProblem {
	if c.subType.IsSubType(ctx, sub, super) {
		return nil
	}
	return &problem.ValidationProblem{
		LanguageNode: languageNode,
		Severity:     problem.SeverityError,
		Message:      fmt.Sprintf("%s is not a sub-type of %s", sub.UserRepresentation(), super.UserRepresentation()),
		SubProblems: []problem.Problem{&problem.SubTypeProblem{
			SubType:   sub.UserRepresentation(),
			SuperType: super.UserRepresentation(),
		}},
	}
}

// EnsureTypeMatches reports a ValidationProblem if actual is not equal to
// expected, or nil if it is.
func (c *Constraints) EnsureTypeMatches(ctx context.Context, languageNode string, actual, expected *types.Type) *problem.ValidationProblem {
	if c.equality.AreEqual(ctx, actual, expected) {
		return nil
	}
	return &problem.ValidationProblem{
		LanguageNode: languageNode,
		Severity:     problem.SeverityError,
		Message:      fmt.Sprintf("%s does not match expected type %s", actual.UserRepresentation(), expected.UserRepresentation()),
		SubProblems: []problem.Problem{&problem.TypeEqualityProblem{
			Type1: actual.UserRepresentation(),
			Type2: expected.UserRepresentation(),
		}},
	}
}
