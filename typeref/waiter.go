package typeref

import (
	"sync"

	"github.com/arkhold/typir/types"
)

// requirement pairs a watched reference with the minimum state it must
// reach for this waiter's purposes.
type requirement struct {
	ref      *TypeReference
	minState types.InitializationState
}

// WaitingForIdentifiableAndCompletedTypeReferences is fulfilled once every
// watched reference resolves to a type that has reached at least its
// required state (Identifiable or Completed, per reference).
//
// A kind factory builds one of these per type under construction, adds one
// requirement per prerequisite type, and is notified via onFulfilled once
// every requirement is satisfied — exactly once, even if requirements
// become satisfied one at a time across many unrelated graph mutations.
//
// ignoreSet breaks initialization cycles: identifiers present in it are
// treated as already satisfied regardless of their actual state, letting
// e.g. two mutually-recursive classes each proceed past "wait for the
// other" once both sides have at least reached Identifiable.
type WaitingForIdentifiableAndCompletedTypeReferences struct {
	mu          sync.Mutex
	reqs        []*requirement
	ignoreSet   map[string]struct{}
	ready       bool
	fulfilled   bool
	onFulfilled func()
}

// NewWaitingForIdentifiableAndCompletedTypeReferences returns a waiter
// that calls onFulfilled exactly once, when every added requirement is
// satisfied.
func NewWaitingForIdentifiableAndCompletedTypeReferences(onFulfilled func()) *WaitingForIdentifiableAndCompletedTypeReferences {
	return &WaitingForIdentifiableAndCompletedTypeReferences{
		ignoreSet:   make(map[string]struct{}),
		onFulfilled: onFulfilled,
	}
}

// WaitForIdentifiable adds ref as a requirement that only needs to reach
// [types.Identifiable].
func (w *WaitingForIdentifiableAndCompletedTypeReferences) WaitForIdentifiable(ref *TypeReference) {
	w.addRequirement(ref, types.Identifiable)
}

// WaitForCompleted adds ref as a requirement that must reach
// [types.Completed].
func (w *WaitingForIdentifiableAndCompletedTypeReferences) WaitForCompleted(ref *TypeReference) {
	w.addRequirement(ref, types.Completed)
}

func (w *WaitingForIdentifiableAndCompletedTypeReferences) addRequirement(ref *TypeReference, minState types.InitializationState) {
	if w == nil || ref == nil {
		return
	}
	w.mu.Lock()
	w.reqs = append(w.reqs, &requirement{ref: ref, minState: minState})
	w.mu.Unlock()
	ref.AddChangeListener(w)
	w.recheck()
}

// Ready declares that every requirement this waiter will ever track has now
// been added, and performs the first evaluation.
//
// A waiter must not report itself fulfilled off a partial requirement list:
// WaitForIdentifiable/WaitForCompleted are typically called in a loop while
// building up a composite type (one requirement per parameter, say), and an
// early requirement that happens to already be satisfied must not let the
// waiter fire before the later requirements in that same loop are even
// registered. Call Ready once, after every WaitFor* call for this waiter.
func (w *WaitingForIdentifiableAndCompletedTypeReferences) Ready() {
	if w == nil {
		return
	}
	w.mu.Lock()
	w.ready = true
	w.mu.Unlock()
	w.recheck()
}

// AddToIgnoreSet marks identifiers as satisfied regardless of their actual
// state, breaking initialization cycles. Adding identifiers may fulfill
// the waiter immediately.
func (w *WaitingForIdentifiableAndCompletedTypeReferences) AddToIgnoreSet(identifiers ...string) {
	if w == nil {
		return
	}
	w.mu.Lock()
	for _, id := range identifiers {
		w.ignoreSet[id] = struct{}{}
	}
	w.mu.Unlock()
	w.recheck()
}

// OnTypeReferenceChanged implements ChangeListener.
func (w *WaitingForIdentifiableAndCompletedTypeReferences) OnTypeReferenceChanged(*TypeReference) {
	w.recheck()
}

func (w *WaitingForIdentifiableAndCompletedTypeReferences) recheck() {
	w.mu.Lock()
	if w.fulfilled || !w.ready {
		w.mu.Unlock()
		return
	}
	// Resolve may notify this waiter again, so the lock is not held while
	// the requirements are evaluated.
	reqs := append([]*requirement(nil), w.reqs...)
	ignoreSet := make(map[string]struct{}, len(w.ignoreSet))
	for id := range w.ignoreSet {
		ignoreSet[id] = struct{}{}
	}
	w.mu.Unlock()

	for _, req := range reqs {
		target, ok := req.ref.Resolve()
		if !ok {
			return
		}
		state := target.State()
		if state != types.Invalid {
			if _, ignored := ignoreSet[target.Identifier()]; ignored {
				continue
			}
		}
		if !state.IsInStateOrLater(req.minState) {
			return
		}
	}

	w.mu.Lock()
	if w.fulfilled {
		w.mu.Unlock()
		return
	}
	w.fulfilled = true
	callback := w.onFulfilled
	w.mu.Unlock()

	if callback != nil {
		callback()
	}
}

// IsFulfilled reports whether every requirement has been satisfied.
func (w *WaitingForIdentifiableAndCompletedTypeReferences) IsFulfilled() bool {
	if w == nil {
		return true
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.fulfilled
}

// WaitingForInvalidTypeReferences is fulfilled once every watched
// reference is either unresolved or points at an Invalid type, and at
// least one reference is being watched.
//
// This is the mirror image of
// [WaitingForIdentifiableAndCompletedTypeReferences]: it drives the
// reaction to invalidation (e.g. dropping cached relation edges) rather
// than to successful initialization.
type WaitingForInvalidTypeReferences struct {
	mu          sync.Mutex
	refs        []*TypeReference
	fulfilled   bool
	onFulfilled func()
}

// NewWaitingForInvalidTypeReferences returns a waiter that calls
// onFulfilled once every watched reference becomes unresolved or Invalid.
func NewWaitingForInvalidTypeReferences(onFulfilled func()) *WaitingForInvalidTypeReferences {
	return &WaitingForInvalidTypeReferences{onFulfilled: onFulfilled}
}

// Watch adds ref to the set this waiter observes.
func (w *WaitingForInvalidTypeReferences) Watch(ref *TypeReference) {
	if w == nil || ref == nil {
		return
	}
	w.mu.Lock()
	w.refs = append(w.refs, ref)
	w.mu.Unlock()
	ref.AddChangeListener(w)
	w.recheck()
}

// OnTypeReferenceChanged implements ChangeListener.
func (w *WaitingForInvalidTypeReferences) OnTypeReferenceChanged(*TypeReference) {
	w.recheck()
}

func (w *WaitingForInvalidTypeReferences) recheck() {
	w.mu.Lock()
	if w.fulfilled || len(w.refs) == 0 {
		w.mu.Unlock()
		return
	}
	// Resolve may notify this waiter again, so the lock is not held while
	// the references are evaluated.
	refs := append([]*TypeReference(nil), w.refs...)
	w.mu.Unlock()

	for _, ref := range refs {
		target, ok := ref.Resolve()
		if ok && target.State() != types.Invalid {
			return
		}
	}

	w.mu.Lock()
	if w.fulfilled {
		w.mu.Unlock()
		return
	}
	w.fulfilled = true
	callback := w.onFulfilled
	w.mu.Unlock()

	if callback != nil {
		callback()
	}
}

// IsFulfilled reports whether every watched reference is currently
// unresolved or Invalid.
func (w *WaitingForInvalidTypeReferences) IsFulfilled() bool {
	if w == nil {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.fulfilled
}
