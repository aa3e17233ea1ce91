package typeref

import (
	"sync"

	"github.com/arkhold/typir/types"
)

// ChangeListener is notified whenever a TypeReference's resolution or its
// resolved target's lifecycle state changes.
type ChangeListener interface {
	OnTypeReferenceChanged(ref *TypeReference)
}

// TypeReference lazily resolves a TypeSelector to a concrete *types.Type
// and keeps tracking the target's lifecycle so waiters observing the
// reference can react to Completed/Invalidated transitions, not just the
// initial resolution.
//
// The zero value is not usable; construct via [New].
type TypeReference struct {
	mu        sync.Mutex
	selector  TypeSelector
	target    *types.Type
	listeners []ChangeListener
}

// New returns a TypeReference wrapping selector, unresolved.
func New(selector TypeSelector) *TypeReference {
	return &TypeReference{selector: selector}
}

// Resolve attempts to resolve the reference if it has not already, and
// returns the current target and whether one is known.
//
// Once resolved, the same target is returned on every subsequent call
// until the target is invalidated, at which point the reference forgets
// it and the next Resolve call re-runs the selector.
func (r *TypeReference) Resolve() (*types.Type, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.Lock()
	if r.target != nil {
		target := r.target
		r.mu.Unlock()
		return target, true
	}
	r.mu.Unlock()

	target, ok := r.selector.resolve()
	if !ok || target == nil {
		return nil, false
	}

	r.mu.Lock()
	if r.target != nil {
		// lost a race with a concurrent Resolve; keep the first winner
		target = r.target
		r.mu.Unlock()
		return target, true
	}
	r.target = target
	r.mu.Unlock()

	target.AddListener(r)
	r.fireChanged()
	return target, true
}

// State returns the current lifecycle state of the resolved target, or
// [types.Invalid] if the reference has not resolved.
func (r *TypeReference) State() types.InitializationState {
	if r == nil {
		return types.Invalid
	}
	r.mu.Lock()
	target := r.target
	r.mu.Unlock()
	if target == nil {
		return types.Invalid
	}
	return target.State()
}

// AddChangeListener registers l for future resolution and state changes.
func (r *TypeReference) AddChangeListener(l ChangeListener) {
	if r == nil || l == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, l)
}

func (r *TypeReference) fireChanged() {
	r.mu.Lock()
	listeners := append([]ChangeListener(nil), r.listeners...)
	r.mu.Unlock()
	for _, l := range listeners {
		l.OnTypeReferenceChanged(r)
	}
}

// OnSwitchedToIdentifiable implements types.TypeStateListener.
func (r *TypeReference) OnSwitchedToIdentifiable(*types.Type) { r.fireChanged() }

// OnSwitchedToCompleted implements types.TypeStateListener.
func (r *TypeReference) OnSwitchedToCompleted(*types.Type) { r.fireChanged() }

// OnInvalidated implements types.TypeStateListener: the reference forgets
// its resolved target, so the next Resolve call re-runs the selector.
func (r *TypeReference) OnInvalidated(t *types.Type, _ types.InitializationState) {
	r.mu.Lock()
	r.target = nil
	r.mu.Unlock()
	t.RemoveListener(r)
	r.fireChanged()
}
