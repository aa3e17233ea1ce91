package relation_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arkhold/typir/diag"
	"github.com/arkhold/typir/graph"
	"github.com/arkhold/typir/kinds"
	"github.com/arkhold/typir/relation"
	"github.com/arkhold/typir/typeref"
	"github.com/arkhold/typir/types"
)

func TestEqualityIsReflexive(t *testing.T) {
	ctx := context.Background()
	g := graph.New()
	primitives := kinds.NewPrimitiveFactory(g)
	eq := relation.NewEquality(g)

	integer, err := primitives.GetOrCreate(ctx, "integer")
	require.NoError(t, err)

	assert.True(t, eq.AreEqual(ctx, integer.Type, integer.Type))
}

func TestEqualityComparesSameKindStructurally(t *testing.T) {
	ctx := context.Background()
	g := graph.New()
	primitives := kinds.NewPrimitiveFactory(g)
	functions := kinds.NewFunctionFactory(g)
	eq := relation.NewEquality(g)

	str, err := primitives.GetOrCreate(ctx, "string")
	require.NoError(t, err)
	integer, err := primitives.GetOrCreate(ctx, "integer")
	require.NoError(t, err)

	named, err := functions.Create(ctx, "length", []typeref.TypeSelector{typeref.FromType(str.Type)}, typeref.FromType(integer.Type))
	require.NoError(t, err)
	anonymous, err := functions.Create(ctx, "", []typeref.TypeSelector{typeref.FromType(str.Type)}, typeref.FromType(integer.Type))
	require.NoError(t, err)

	assert.True(t, eq.AreEqual(ctx, named.Type, anonymous.Type), "function equality is structural, not nominal")
}

func TestEqualityHonorsEnforceFunctionNamesFromTheFunctionType(t *testing.T) {
	ctx := context.Background()
	g := graph.New()
	primitives := kinds.NewPrimitiveFactory(g)
	functions := kinds.NewFunctionFactory(g, kinds.WithEnforceFunctionNames())
	eq := relation.NewEquality(g)

	str, err := primitives.GetOrCreate(ctx, "string")
	require.NoError(t, err)
	integer, err := primitives.GetOrCreate(ctx, "integer")
	require.NoError(t, err)

	length, err := functions.Create(ctx, "length", []typeref.TypeSelector{typeref.FromType(str.Type)}, typeref.FromType(integer.Type))
	require.NoError(t, err)
	size, err := functions.Create(ctx, "size", []typeref.TypeSelector{typeref.FromType(str.Type)}, typeref.FromType(integer.Type))
	require.NoError(t, err)

	assert.False(t, eq.AreEqual(ctx, length.Type, size.Type), "relation.Equality must honor a factory's WithEnforceFunctionNames policy even though it calls AnalyzeTypeEquality through a nil *FunctionFactory receiver")
}

func TestEqualityDistinctClassesAreNeverEqual(t *testing.T) {
	ctx := context.Background()
	g := graph.New()
	collector := diag.NewCollector()
	classes := kinds.NewClassFactory(g, collector)
	eq := relation.NewEquality(g)

	a, err := classes.Create(ctx, "A", nil)
	require.NoError(t, err)
	b, err := classes.Create(ctx, "B", nil)
	require.NoError(t, err)
	classes.Settle(ctx)

	assert.False(t, eq.AreEqual(ctx, a.Type, b.Type))
	assert.True(t, eq.AreEqual(ctx, a.Type, a.Type))
}

func TestExplicitAliasStrategyRequiresMarking(t *testing.T) {
	ctx := context.Background()
	g := graph.New()
	primitives := kinds.NewPrimitiveFactory(g)
	eq := relation.NewEquality(g, relation.WithExplicitAliasStrategy())

	cents, err := primitives.GetOrCreate(ctx, "Cents")
	require.NoError(t, err)
	pennies, err := primitives.GetOrCreate(ctx, "Pennies")
	require.NoError(t, err)

	assert.False(t, eq.AreEqual(ctx, cents.Type, pennies.Type))
	require.NoError(t, eq.MarkAsEqual(ctx, cents.Type, pennies.Type))
	assert.True(t, eq.AreEqual(ctx, cents.Type, pennies.Type))

	require.NoError(t, eq.UnmarkAsEqual(ctx, cents.Type, pennies.Type))
	assert.False(t, eq.AreEqual(ctx, cents.Type, pennies.Type))
}

func TestSubTypeIsReflexive(t *testing.T) {
	ctx := context.Background()
	g := graph.New()
	primitives := kinds.NewPrimitiveFactory(g)
	eq := relation.NewEquality(g)
	st := relation.NewSubType(g, eq)

	integer, err := primitives.GetOrCreate(ctx, "integer")
	require.NoError(t, err)

	assert.True(t, st.IsSubType(ctx, integer.Type, integer.Type))
}

func TestClassInheritanceIsReachableAsSubType(t *testing.T) {
	ctx := context.Background()
	g := graph.New()
	collector := diag.NewCollector()
	classes := kinds.NewClassFactory(g, collector)
	eq := relation.NewEquality(g)
	st := relation.NewSubType(g, eq)

	animal, err := classes.Create(ctx, "Animal", nil)
	require.NoError(t, err)
	dog, err := classes.Create(ctx, "Dog", []string{"Animal"})
	require.NoError(t, err)
	classes.Settle(ctx)
	require.False(t, collector.HasFailures())

	assert.True(t, st.IsSubType(ctx, dog.Type, animal.Type))
	assert.False(t, st.IsSubType(ctx, animal.Type, dog.Type))
}

func TestTopAndBottomSingletonSubTyping(t *testing.T) {
	ctx := context.Background()
	g := graph.New()
	primitives := kinds.NewPrimitiveFactory(g)
	eq := relation.NewEquality(g)
	st := relation.NewSubType(g, eq)

	top, err := kinds.GetOrCreateTop(ctx, g)
	require.NoError(t, err)
	bottom, err := kinds.GetOrCreateBottom(ctx, g)
	require.NoError(t, err)
	integer, err := primitives.GetOrCreate(ctx, "integer")
	require.NoError(t, err)

	assert.True(t, st.IsSubType(ctx, integer.Type, top.Type))
	assert.True(t, st.IsSubType(ctx, bottom.Type, integer.Type))
	assert.False(t, st.IsSubType(ctx, top.Type, integer.Type))
}

func TestMultiplicitySubTypeDelegatesToStructuralAnalyzer(t *testing.T) {
	ctx := context.Background()
	g := graph.New()
	primitives := kinds.NewPrimitiveFactory(g)
	multiplicities := kinds.NewMultiplicityFactory(g)
	eq := relation.NewEquality(g)
	st := relation.NewSubType(g, eq)

	person, err := primitives.GetOrCreate(ctx, "Person")
	require.NoError(t, err)
	oneToOne, err := multiplicities.Create(ctx, person.Type, 1, 1)
	require.NoError(t, err)
	zeroToMany, err := multiplicities.Create(ctx, person.Type, 0, kinds.Unbounded)
	require.NoError(t, err)

	assert.True(t, st.IsSubType(ctx, oneToOne.Type, zeroToMany.Type))
	assert.False(t, st.IsSubType(ctx, zeroToMany.Type, oneToOne.Type))
}

func TestFunctionSubTypeIsContravariantInParametersAndCovariantInReturn(t *testing.T) {
	ctx := context.Background()
	g := graph.New()
	collector := diag.NewCollector()
	classes := kinds.NewClassFactory(g, collector)
	functions := kinds.NewFunctionFactory(g)
	eq := relation.NewEquality(g)
	st := relation.NewSubType(g, eq)

	animal, err := classes.Create(ctx, "Animal", nil)
	require.NoError(t, err)
	dog, err := classes.Create(ctx, "Dog", []string{"Animal"})
	require.NoError(t, err)
	classes.Settle(ctx)
	require.False(t, collector.HasFailures())

	// (Animal) -> Dog should be a sub-type of (Dog) -> Animal: the
	// parameter is accepted contravariantly (Dog is narrower, so a
	// function that can take any Animal can also be called with a Dog)
	// and the return narrows covariantly (Dog is more specific than
	// Animal).
	narrower, err := functions.Create(ctx, "f", []typeref.TypeSelector{typeref.FromType(animal.Type)}, typeref.FromType(dog.Type))
	require.NoError(t, err)
	wider, err := functions.Create(ctx, "f", []typeref.TypeSelector{typeref.FromType(dog.Type)}, typeref.FromType(animal.Type))
	require.NoError(t, err)

	assert.True(t, st.IsSubType(ctx, narrower.Type, wider.Type))
	assert.False(t, st.IsSubType(ctx, wider.Type, narrower.Type))
}

func TestConversionMarkAndQuery(t *testing.T) {
	ctx := context.Background()
	g := graph.New()
	primitives := kinds.NewPrimitiveFactory(g)
	eq := relation.NewEquality(g)
	conv := relation.NewConversion(g, eq)

	integer, err := primitives.GetOrCreate(ctx, "integer")
	require.NoError(t, err)
	str, err := primitives.GetOrCreate(ctx, "string")
	require.NoError(t, err)

	assert.Equal(t, relation.None, conv.GetConversion(ctx, integer.Type, str.Type))

	require.NoError(t, conv.MarkAsConvertible(ctx, []*types.Type{integer.Type}, []*types.Type{str.Type}, relation.Implicit))
	assert.Equal(t, relation.Implicit, conv.GetConversion(ctx, integer.Type, str.Type))
}

func TestConversionSelfIsSynthesizedNeverStored(t *testing.T) {
	ctx := context.Background()
	g := graph.New()
	primitives := kinds.NewPrimitiveFactory(g)
	eq := relation.NewEquality(g)
	conv := relation.NewConversion(g, eq)

	integer, err := primitives.GetOrCreate(ctx, "integer")
	require.NoError(t, err)

	assert.Equal(t, relation.Self, conv.GetConversion(ctx, integer.Type, integer.Type))
}

func TestAssignabilityViaImplicitConversion(t *testing.T) {
	ctx := context.Background()
	g := graph.New()
	primitives := kinds.NewPrimitiveFactory(g)
	eq := relation.NewEquality(g)
	st := relation.NewSubType(g, eq)
	conv := relation.NewConversion(g, eq)
	assignability := relation.NewAssignability(eq, st, conv)

	integer, err := primitives.GetOrCreate(ctx, "integer")
	require.NoError(t, err)
	str, err := primitives.GetOrCreate(ctx, "string")
	require.NoError(t, err)

	require.NoError(t, conv.MarkAsConvertible(ctx, []*types.Type{integer.Type}, []*types.Type{str.Type}, relation.Implicit))

	assert.True(t, assignability.IsAssignable(ctx, integer.Type, str.Type))
	assert.False(t, assignability.IsAssignable(ctx, str.Type, integer.Type))
}

func TestAssignabilityViaSubType(t *testing.T) {
	ctx := context.Background()
	g := graph.New()
	collector := diag.NewCollector()
	classes := kinds.NewClassFactory(g, collector)
	eq := relation.NewEquality(g)
	st := relation.NewSubType(g, eq)
	conv := relation.NewConversion(g, eq)
	assignability := relation.NewAssignability(eq, st, conv)

	c1, err := classes.Create(ctx, "C1", nil)
	require.NoError(t, err)
	c2, err := classes.Create(ctx, "C2", []string{"C1"})
	require.NoError(t, err)
	classes.Settle(ctx)
	require.False(t, collector.HasFailures())

	assert.True(t, assignability.IsAssignable(ctx, c2.Type, c1.Type))

	ok, prob := assignability.CheckAssignable(ctx, c1.Type, c2.Type)
	assert.False(t, ok)
	require.NotNil(t, prob)
	assert.Contains(t, prob.Summary(), "not assignable")
}

func TestSubTypeFixedParameterInvariantByDefault(t *testing.T) {
	ctx := context.Background()
	g := graph.New()
	collector := diag.NewCollector()
	classes := kinds.NewClassFactory(g, collector)
	fixedParameters := kinds.NewFixedParameterFactory(g)
	eq := relation.NewEquality(g)
	st := relation.NewSubType(g, eq)

	animal, err := classes.Create(ctx, "Animal", nil)
	require.NoError(t, err)
	dog, err := classes.Create(ctx, "Dog", []string{"Animal"})
	require.NoError(t, err)
	classes.Settle(ctx)
	require.False(t, collector.HasFailures())

	listOfDog, err := fixedParameters.Create(ctx, "List", []string{"T"}, []typeref.TypeSelector{typeref.FromType(dog.Type)})
	require.NoError(t, err)
	listOfAnimal, err := fixedParameters.Create(ctx, "List", []string{"T"}, []typeref.TypeSelector{typeref.FromType(animal.Type)})
	require.NoError(t, err)

	assert.False(t, st.IsSubType(ctx, listOfDog.Type, listOfAnimal.Type), "elements must be equal under the default strategy, even though Dog is a sub-type of Animal")
}

func TestSubTypeFixedParameterWithElementSubTypingIsCovariant(t *testing.T) {
	ctx := context.Background()
	g := graph.New()
	collector := diag.NewCollector()
	classes := kinds.NewClassFactory(g, collector)
	fixedParameters := kinds.NewFixedParameterFactory(g, kinds.WithElementSubTyping())
	eq := relation.NewEquality(g)
	st := relation.NewSubType(g, eq)

	animal, err := classes.Create(ctx, "Animal", nil)
	require.NoError(t, err)
	dog, err := classes.Create(ctx, "Dog", []string{"Animal"})
	require.NoError(t, err)
	classes.Settle(ctx)
	require.False(t, collector.HasFailures())

	listOfDog, err := fixedParameters.Create(ctx, "List", []string{"T"}, []typeref.TypeSelector{typeref.FromType(dog.Type)})
	require.NoError(t, err)
	listOfAnimal, err := fixedParameters.Create(ctx, "List", []string{"T"}, []typeref.TypeSelector{typeref.FromType(animal.Type)})
	require.NoError(t, err)

	assert.True(t, st.IsSubType(ctx, listOfDog.Type, listOfAnimal.Type))
	assert.False(t, st.IsSubType(ctx, listOfAnimal.Type, listOfDog.Type), "covariance runs one direction only")
}

func TestSubTypeFixedParameterRequiresSameBaseName(t *testing.T) {
	ctx := context.Background()
	g := graph.New()
	primitives := kinds.NewPrimitiveFactory(g)
	fixedParameters := kinds.NewFixedParameterFactory(g, kinds.WithElementSubTyping())
	eq := relation.NewEquality(g)
	st := relation.NewSubType(g, eq)

	str, err := primitives.GetOrCreate(ctx, "string")
	require.NoError(t, err)

	list, err := fixedParameters.Create(ctx, "List", []string{"T"}, []typeref.TypeSelector{typeref.FromType(str.Type)})
	require.NoError(t, err)
	set, err := fixedParameters.Create(ctx, "Set", []string{"T"}, []typeref.TypeSelector{typeref.FromType(str.Type)})
	require.NoError(t, err)

	assert.False(t, st.IsSubType(ctx, list.Type, set.Type))
}
