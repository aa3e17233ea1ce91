package types

// InitializationState describes where a Type is in its lifecycle.
//
// InitializationState is an ordered enumeration: a type only ever moves
// forward through Invalid -> Identifiable -> Completed, except that
// invalidation resets it back to Invalid from any state.
type InitializationState uint8

const (
	// Invalid is the initial state. The type's identifier, kind-specific
	// details, and relationships are not yet safe to read.
	Invalid InitializationState = iota

	// Identifiable means the type's identifier and name are fixed and
	// safe to read, but relationships to other types (super-types,
	// conversions, and so on) may not be fully established yet.
	Identifiable

	// Completed means the type and everything it depends on has finished
	// initializing; every relationship the type participates in is safe
	// to read.
	Completed
)

// String returns the canonical lowercase label for the state.
func (s InitializationState) String() string {
	switch s {
	case Invalid:
		return "invalid"
	case Identifiable:
		return "identifiable"
	case Completed:
		return "completed"
	default:
		return "unknown"
	}
}

// IsInState reports whether s equals other.
func (s InitializationState) IsInState(other InitializationState) bool {
	return s == other
}

// IsNotInState reports whether s does not equal other.
func (s InitializationState) IsNotInState(other InitializationState) bool {
	return s != other
}

// IsInStateOrLater reports whether s has reached at least other in the
// Invalid -> Identifiable -> Completed progression.
func (s InitializationState) IsInStateOrLater(other InitializationState) bool {
	return s >= other
}
