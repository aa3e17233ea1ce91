package typeref_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arkhold/typir/typeref"
	"github.com/arkhold/typir/types"
)

func TestTypeReferenceResolveFromType(t *testing.T) {
	target := types.New("primitive")
	require.NoError(t, target.SetIdentifiable("integer", "integer", "integer"))

	ref := typeref.New(typeref.FromType(target))
	resolved, ok := ref.Resolve()
	require.True(t, ok)
	assert.Same(t, target, resolved)
	assert.Equal(t, types.Identifiable, ref.State())
}

func TestTypeReferenceUnresolvedBeforeTargetExists(t *testing.T) {
	var target *types.Type
	ref := typeref.New(typeref.FromIdentifier("integer", func(string) (*types.Type, bool) {
		return target, target != nil
	}))

	_, ok := ref.Resolve()
	assert.False(t, ok)

	target = types.New("primitive")
	require.NoError(t, target.SetIdentifiable("integer", "integer", "integer"))

	resolved, ok := ref.Resolve()
	require.True(t, ok)
	assert.Same(t, target, resolved)
}

func TestTypeReferenceForgetsInvalidatedTarget(t *testing.T) {
	target := types.New("primitive")
	require.NoError(t, target.SetIdentifiable("integer", "integer", "integer"))

	ref := typeref.New(typeref.FromType(target))
	_, ok := ref.Resolve()
	require.True(t, ok)

	target.Invalidate()
	assert.Equal(t, types.Invalid, ref.State())
}

func TestWaitingForIdentifiableFulfillsWhenAllResolved(t *testing.T) {
	a := types.New("primitive")
	b := types.New("primitive")

	fulfilledCount := 0
	w := typeref.NewWaitingForIdentifiableAndCompletedTypeReferences(func() { fulfilledCount++ })
	w.WaitForIdentifiable(typeref.New(typeref.FromType(a)))
	w.WaitForIdentifiable(typeref.New(typeref.FromType(b)))
	w.Ready()

	assert.False(t, w.IsFulfilled())
	assert.Equal(t, 0, fulfilledCount)

	require.NoError(t, a.SetIdentifiable("a", "a", "a"))
	assert.False(t, w.IsFulfilled())

	require.NoError(t, b.SetIdentifiable("b", "b", "b"))
	assert.True(t, w.IsFulfilled())
	assert.Equal(t, 1, fulfilledCount)
}

func TestWaitingForCompletedRequiresCompletedNotJustIdentifiable(t *testing.T) {
	a := types.New("primitive")
	fulfilled := false
	w := typeref.NewWaitingForIdentifiableAndCompletedTypeReferences(func() { fulfilled = true })
	w.WaitForCompleted(typeref.New(typeref.FromType(a)))
	w.Ready()

	require.NoError(t, a.SetIdentifiable("a", "a", "a"))
	assert.False(t, fulfilled)

	require.NoError(t, a.SetCompleted())
	assert.True(t, fulfilled)
}

func TestWaiterDoesNotFulfillEarlyOnAPartiallyRegisteredBatch(t *testing.T) {
	// a is already Identifiable when its requirement is added; b is not.
	// A recheck triggered by adding a's requirement alone must not decide
	// the waiter is fulfilled just because a single, already-satisfied
	// requirement happens to be the only one registered so far.
	a := types.New("primitive")
	require.NoError(t, a.SetIdentifiable("a", "a", "a"))
	b := types.New("primitive")

	fulfilledCount := 0
	w := typeref.NewWaitingForIdentifiableAndCompletedTypeReferences(func() { fulfilledCount++ })
	w.WaitForIdentifiable(typeref.New(typeref.FromType(a)))
	assert.False(t, w.IsFulfilled(), "must not fulfill before every requirement in this batch is registered")

	w.WaitForIdentifiable(typeref.New(typeref.FromType(b)))
	w.Ready()
	assert.False(t, w.IsFulfilled(), "b is not yet Identifiable")
	assert.Equal(t, 0, fulfilledCount)

	require.NoError(t, b.SetIdentifiable("b", "b", "b"))
	assert.True(t, w.IsFulfilled())
	assert.Equal(t, 1, fulfilledCount)
}

func TestIgnoreSetBreaksInitializationCycle(t *testing.T) {
	a := types.New("class")
	require.NoError(t, a.SetIdentifiable("A", "A", "A"))

	fulfilled := false
	w := typeref.NewWaitingForIdentifiableAndCompletedTypeReferences(func() { fulfilled = true })
	w.WaitForCompleted(typeref.New(typeref.FromType(a))) // a never completes in this test
	w.Ready()

	assert.False(t, fulfilled)
	w.AddToIgnoreSet("A")
	assert.True(t, fulfilled, "ignored identifiers must satisfy their requirement regardless of state")
}

func TestWaitingForInvalidRequiresAtLeastOneWatchedReference(t *testing.T) {
	fulfilled := false
	w := typeref.NewWaitingForInvalidTypeReferences(func() { fulfilled = true })
	assert.False(t, w.IsFulfilled(), "an empty waiter is never fulfilled")
	_ = fulfilled
}

func TestWaitingForInvalidFulfillsWhenTargetInvalidated(t *testing.T) {
	a := types.New("class")
	require.NoError(t, a.SetIdentifiable("A", "A", "A"))

	fulfilled := false
	w := typeref.NewWaitingForInvalidTypeReferences(func() { fulfilled = true })
	w.Watch(typeref.New(typeref.FromType(a)))

	assert.False(t, fulfilled)
	a.Invalidate()
	assert.True(t, fulfilled)
}
