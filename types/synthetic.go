package types

import "github.com/google/uuid"

// NewSyntheticID mints a fresh, globally unique identifier string for a
// type that needs to become Identifiable before its "real" identifier (one
// derived from user-declared names or resolved structure) can be computed.
// Kind factories should prefer a derived identifier whenever one is
// available; this exists for the cases that genuinely have none, such as a
// placeholder standing in for a type that failed to resolve.
func NewSyntheticID() string {
	return "synthetic:" + uuid.NewString()
}
