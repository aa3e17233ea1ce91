// Package types implements the Type value and its three-state
// initialization lifecycle.
//
// A Type moves through Invalid -> Identifiable -> Completed exactly once
// per initialization attempt; Invalidate resets it to Invalid from any
// state, after which it must be fully reinitialized. Kind packages (see
// kinds) drive these transitions as they resolve a type's prerequisites;
// this package only implements the state machine and listener mechanism,
// it has no notion of what a "kind" or a "prerequisite" is.
package types

import (
	"fmt"
	"sync"
)

// TypeStateListener observes a single Type's lifecycle transitions.
type TypeStateListener interface {
	// OnSwitchedToIdentifiable is called once, when t first becomes
	// Identifiable.
	OnSwitchedToIdentifiable(t *Type)
	// OnSwitchedToCompleted is called once, when t first becomes Completed.
	OnSwitchedToCompleted(t *Type)
	// OnInvalidated is called whenever t is reset to Invalid from a more
	// advanced state.
	OnInvalidated(t *Type, previous InitializationState)
}

// Type is a single node in the type graph.
//
// The zero value is not usable; construct via [New]. Every method except
// Identifier is safe to call on a nil *Type; Identifier panics.
type Type struct {
	mu sync.RWMutex

	kind               string
	identifier         string
	name               string
	userRepresentation string
	state              InitializationState
	listeners          []TypeStateListener
}

// New returns a fresh Type in the Invalid state for the given kind tag
// (e.g. "primitive", "function", "class").
func New(kind string) *Type {
	return &Type{kind: kind, state: Invalid}
}

// Kind returns the kind tag this type was constructed with.
func (t *Type) Kind() string {
	if t == nil {
		return ""
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.kind
}

// State returns the type's current initialization state.
func (t *Type) State() InitializationState {
	if t == nil {
		return Invalid
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.state
}

// Identifier returns the type's graph identifier.
//
// Panics if the type is still Invalid: reading a type's identity before
// it has one is a programmer error, not a content issue, exactly as
// reading an uninitialized variable would be.
func (t *Type) Identifier() string {
	if t == nil {
		panic("types: Identifier called on nil *Type")
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.state == Invalid {
		panic("types: Identifier called on a Type that is still Invalid")
	}
	return t.identifier
}

// Name returns the type's declared name, or "" if still Invalid.
func (t *Type) Name() string {
	if t == nil {
		return ""
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.name
}

// UserRepresentation returns a human-readable rendering of the type, or ""
// if still Invalid.
func (t *Type) UserRepresentation() string {
	if t == nil {
		return ""
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.userRepresentation
}

// SetIdentifiable transitions the type from Invalid to Identifiable,
// fixing its identifier, name, and user-facing representation.
//
// Returns an error if the type is not currently Invalid, or if identifier
// is empty.
func (t *Type) SetIdentifiable(identifier, name, userRepresentation string) error {
	if t == nil {
		return fmt.Errorf("types: SetIdentifiable called on nil *Type")
	}
	if identifier == "" {
		return fmt.Errorf("types: SetIdentifiable called with empty identifier")
	}

	t.mu.Lock()
	if t.state != Invalid {
		t.mu.Unlock()
		return fmt.Errorf("types: SetIdentifiable called on a type in state %s, want %s", t.state, Invalid)
	}
	t.identifier = identifier
	t.name = name
	t.userRepresentation = userRepresentation
	t.state = Identifiable
	listeners := append([]TypeStateListener(nil), t.listeners...)
	t.mu.Unlock()

	for _, l := range listeners {
		l.OnSwitchedToIdentifiable(t)
	}
	return nil
}

// SetCompleted transitions the type from Identifiable to Completed.
//
// Returns an error if the type is not currently Identifiable.
func (t *Type) SetCompleted() error {
	if t == nil {
		return fmt.Errorf("types: SetCompleted called on nil *Type")
	}

	t.mu.Lock()
	if t.state != Identifiable {
		t.mu.Unlock()
		return fmt.Errorf("types: SetCompleted called on a type in state %s, want %s", t.state, Identifiable)
	}
	t.state = Completed
	listeners := append([]TypeStateListener(nil), t.listeners...)
	t.mu.Unlock()

	for _, l := range listeners {
		l.OnSwitchedToCompleted(t)
	}
	return nil
}

// Invalidate resets the type to Invalid from any other state. A no-op if
// the type is already Invalid.
func (t *Type) Invalidate() {
	if t == nil {
		return
	}
	t.mu.Lock()
	previous := t.state
	if previous == Invalid {
		t.mu.Unlock()
		return
	}
	t.state = Invalid
	t.identifier = ""
	listeners := append([]TypeStateListener(nil), t.listeners...)
	t.mu.Unlock()

	for _, l := range listeners {
		l.OnInvalidated(t, previous)
	}
}

// AddListener registers l for future state transitions of t.
func (t *Type) AddListener(l TypeStateListener) {
	if t == nil || l == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.listeners = append(t.listeners, l)
}

// RemoveListener unregisters l. Idempotent.
func (t *Type) RemoveListener(l TypeStateListener) {
	if t == nil || l == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, existing := range t.listeners {
		if existing == l {
			t.listeners = append(t.listeners[:i], t.listeners[i+1:]...)
			return
		}
	}
}
