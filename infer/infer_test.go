package infer_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arkhold/typir/infer"
	"github.com/arkhold/typir/problem"
	"github.com/arkhold/typir/types"
)

func newType(t *testing.T, id string) *types.Type {
	t.Helper()
	typ := types.New("primitive")
	require.NoError(t, typ.SetIdentifiable(id, id, id))
	return typ
}

type node struct{ name string }

func TestFirstMatchingRuleWinsInRegistrationOrder(t *testing.T) {
	stringType := newType(t, "string")
	integerType := newType(t, "integer")

	c := infer.NewCollector()
	c.AddZeroChildRule("", infer.ZeroChildRuleFunc(func(n any) infer.Outcome {
		return infer.TypeResult(stringType)
	}))
	c.AddZeroChildRule("", infer.ZeroChildRuleFunc(func(n any) infer.Outcome {
		return infer.TypeResult(integerType)
	}))

	got, prob, err := c.InferType(context.Background(), &node{name: "x"})
	require.NoError(t, err)
	assert.Nil(t, prob)
	assert.Same(t, stringType, got, "the first rule to return a Type wins; later rules are never consulted")
}

func TestZeroChildRuleFallsThroughOnNotApplicable(t *testing.T) {
	integerType := newType(t, "integer")

	c := infer.NewCollector()
	c.AddZeroChildRule("", infer.ZeroChildRuleFunc(func(n any) infer.Outcome {
		return infer.NotApplicable()
	}))
	c.AddZeroChildRule("", infer.ZeroChildRuleFunc(func(n any) infer.Outcome {
		return infer.TypeResult(integerType)
	}))

	got, prob, err := c.InferType(context.Background(), &node{name: "x"})
	require.NoError(t, err)
	assert.Nil(t, prob)
	assert.Same(t, integerType, got)
}

func TestNoRuleAppliesReportsNilWithoutError(t *testing.T) {
	c := infer.NewCollector()
	c.AddZeroChildRule("", infer.ZeroChildRuleFunc(func(n any) infer.Outcome {
		return infer.NotApplicable()
	}))

	got, prob, err := c.InferType(context.Background(), &node{name: "x"})
	require.NoError(t, err)
	assert.Nil(t, prob)
	assert.Nil(t, got, "no rule matching is not itself a failure")
}

func TestZeroChildRuleCanReportAProblem(t *testing.T) {
	c := infer.NewCollector()
	c.AddZeroChildRule("", infer.ZeroChildRuleFunc(func(n any) infer.Outcome {
		return infer.ProblemResult(&problem.InferenceProblem{LanguageNode: "x"})
	}))

	got, prob, err := c.InferType(context.Background(), &node{name: "x"})
	require.NoError(t, err)
	assert.Nil(t, got)
	require.NotNil(t, prob)
	assert.Equal(t, "x", prob.LanguageNode)
}

// sumRule infers a "sum" node's type by inferring its two children's types
// first, then combining them; it exercises the two-step ChildrenRule
// contract end to end.
type sumRule struct {
	left, right *node
	intType     *types.Type
}

func (r *sumRule) InferTypeWithoutChildren(n any) infer.Outcome {
	if n != any(&sumNode) {
		return infer.NotApplicable()
	}
	return infer.ChildrenResult(r.left, r.right)
}

func (r *sumRule) InferTypeWithChildrenTypes(n any, childTypes []*types.Type) infer.Outcome {
	for _, ct := range childTypes {
		if ct != r.intType {
			return infer.ProblemResult(&problem.InferenceProblem{LanguageNode: "sum"})
		}
	}
	return infer.TypeResult(r.intType)
}

var sumNode = node{name: "sum"}

func TestChildrenRuleInfersChildrenThenCombines(t *testing.T) {
	integerType := newType(t, "integer")
	left := &node{name: "left"}
	right := &node{name: "right"}

	c := infer.NewCollector()
	c.AddZeroChildRule("", infer.ZeroChildRuleFunc(func(n any) infer.Outcome {
		if n == any(left) || n == any(right) {
			return infer.TypeResult(integerType)
		}
		return infer.NotApplicable()
	}))
	c.AddChildrenRule("", &sumRule{left: left, right: right, intType: integerType})

	got, prob, err := c.InferType(context.Background(), &sumNode)
	require.NoError(t, err)
	assert.Nil(t, prob)
	assert.Same(t, integerType, got)
}

func TestInferTypeMemoizesPerNode(t *testing.T) {
	integerType := newType(t, "integer")
	calls := 0

	c := infer.NewCollector()
	c.AddZeroChildRule("", infer.ZeroChildRuleFunc(func(n any) infer.Outcome {
		calls++
		return infer.TypeResult(integerType)
	}))

	n := &node{name: "x"}
	_, _, err := c.InferType(context.Background(), n)
	require.NoError(t, err)
	_, _, err = c.InferType(context.Background(), n)
	require.NoError(t, err)

	assert.Equal(t, 1, calls, "the second call must be served from cache, not re-run the rule set")
}

func TestInvalidateForcesReEvaluation(t *testing.T) {
	integerType := newType(t, "integer")
	calls := 0

	c := infer.NewCollector()
	c.AddZeroChildRule("", infer.ZeroChildRuleFunc(func(n any) infer.Outcome {
		calls++
		return infer.TypeResult(integerType)
	}))

	n := &node{name: "x"}
	_, _, err := c.InferType(context.Background(), n)
	require.NoError(t, err)
	c.Invalidate(n)
	_, _, err = c.InferType(context.Background(), n)
	require.NoError(t, err)

	assert.Equal(t, 2, calls)
}

func TestRecursiveInferenceFailsFast(t *testing.T) {
	// rule asks the collector to infer n's type while n's own inference
	// (triggered by the outer InferType call below) is still pending. The
	// nested call must fail fast rather than deadlock or recurse forever.
	var c *infer.Collector
	n := &node{name: "self"}
	var nestedErr error

	c = infer.NewCollector()
	c.AddZeroChildRule("", infer.ZeroChildRuleFunc(func(inner any) infer.Outcome {
		_, _, nestedErr = c.InferType(context.Background(), n)
		return infer.NotApplicable()
	}))

	_, _, err := c.InferType(context.Background(), n)
	require.NoError(t, err, "the outer call's rule reported 'N/A'; only the nested recursive call fails")
	require.Error(t, nestedErr)
	assert.True(t, errors.Is(nestedErr, infer.ErrRecursiveInference))
}

func TestDelegateToInfersAnotherNodeInstead(t *testing.T) {
	integerType := newType(t, "integer")
	alias := &node{name: "alias"}
	target := &node{name: "target"}

	c := infer.NewCollector()
	c.AddZeroChildRule("", infer.ZeroChildRuleFunc(func(n any) infer.Outcome {
		if n == any(alias) {
			return infer.DelegateTo(target)
		}
		if n == any(target) {
			return infer.TypeResult(integerType)
		}
		return infer.NotApplicable()
	}))

	got, prob, err := c.InferType(context.Background(), alias)
	require.NoError(t, err)
	assert.Nil(t, prob)
	assert.Same(t, integerType, got)
}

func TestCompositeRuleExactlyOneSuccessWins(t *testing.T) {
	integerType := newType(t, "integer")

	composite := infer.NewCompositeRule(
		infer.ZeroChildRuleFunc(func(n any) infer.Outcome { return infer.NotApplicable() }),
		infer.ZeroChildRuleFunc(func(n any) infer.Outcome { return infer.TypeResult(integerType) }),
	)

	got := composite.InferType(&node{name: "x"})
	require.Equal(t, infer.TypeResult(integerType), got)
}

func TestCompositeRuleZeroSuccessesIsNotApplicable(t *testing.T) {
	composite := infer.NewCompositeRule(
		infer.ZeroChildRuleFunc(func(n any) infer.Outcome { return infer.NotApplicable() }),
		infer.ZeroChildRuleFunc(func(n any) infer.Outcome { return infer.NotApplicable() }),
	)

	got := composite.InferType(&node{name: "x"})
	assert.Equal(t, infer.NotApplicable(), got)
}

func TestCompositeRuleSameTypeFromMultipleSubrulesCollapses(t *testing.T) {
	integerType := newType(t, "integer")

	composite := infer.NewCompositeRule(
		infer.ZeroChildRuleFunc(func(n any) infer.Outcome { return infer.TypeResult(integerType) }),
		infer.ZeroChildRuleFunc(func(n any) infer.Outcome { return infer.TypeResult(integerType) }),
	)

	got := composite.InferType(&node{name: "x"})
	assert.Equal(t, infer.TypeResult(integerType), got)
}

func TestCompositeRuleDistinctTypesReportsProblem(t *testing.T) {
	stringType := newType(t, "string")
	integerType := newType(t, "integer")

	composite := infer.NewCompositeRule(
		infer.ZeroChildRuleFunc(func(n any) infer.Outcome { return infer.TypeResult(stringType) }),
		infer.ZeroChildRuleFunc(func(n any) infer.Outcome { return infer.TypeResult(integerType) }),
	)

	got := composite.InferType(&node{name: "x"})
	require.NotNil(t, got.Problem())
	assert.Nil(t, got.Type())
}
