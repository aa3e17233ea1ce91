// Package config loads the engine-construction policy that engine.New
// consumes: which relation strategies to use, how many validation problems
// to retain, and a handful of per-kind defaults. Values are loaded from a
// JSONC document (comments and trailing commas allowed) via
// github.com/tidwall/jsonc before being decoded with encoding/json.
package config

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/tidwall/jsonc"
)

// EqualityStrategy selects which Equality implementation an engine should
// use.
type EqualityStrategy string

const (
	// EqualityMemoizedPending is the default: a cache miss recurses into
	// the kind's structural analyzer, treating a Pending self-reference as
	// equal for now, then records the verdict once known.
	EqualityMemoizedPending EqualityStrategy = "memoizedPending"
	// EqualityExplicitAlias restricts equality to user-marked bidirectional
	// edges, transitively; see relation.WithExplicitAliasStrategy.
	EqualityExplicitAlias EqualityStrategy = "explicitAlias"
)

// valid reports whether s is one of the EqualityStrategy constants.
func (s EqualityStrategy) valid() bool {
	switch s {
	case EqualityMemoizedPending, EqualityExplicitAlias:
		return true
	default:
		return false
	}
}

// FixedParameterSubTypingStrategy selects how a FixedParameter type's
// element-wise type arguments are compared for sub-typing purposes.
type FixedParameterSubTypingStrategy string

const (
	// FixedParameterElementsEqual requires element-wise equality: a
	// FixedParameter type is invariant in its arguments. The default.
	FixedParameterElementsEqual FixedParameterSubTypingStrategy = "equal"
	// FixedParameterElementsSubType allows element-wise sub-typing:
	// List<Dog> is a sub-type of List<Animal> when Dog is a sub-type of
	// Animal.
	FixedParameterElementsSubType FixedParameterSubTypingStrategy = "subType"
)

// valid reports whether s is one of the FixedParameterSubTypingStrategy
// constants.
func (s FixedParameterSubTypingStrategy) valid() bool {
	switch s {
	case FixedParameterElementsEqual, FixedParameterElementsSubType:
		return true
	default:
		return false
	}
}

// Config is the policy an engine is built from: which strategies its
// relation services use, and how much validation output to retain.
//
// The zero Config is not valid; use Default or Load to obtain one.
type Config struct {
	// EqualityStrategy picks the Equality service's implementation.
	EqualityStrategy EqualityStrategy `json:"equalityStrategy"`

	// EnforceFunctionNames, when true, makes function-type equality
	// nominal (same funcName required) rather than purely structural.
	EnforceFunctionNames bool `json:"enforceFunctionNames"`

	// FixedParameterSubTyping picks the element-comparison strategy every
	// FixedParameter type created through this engine uses.
	FixedParameterSubTyping FixedParameterSubTypingStrategy `json:"fixedParameterSubTyping"`

	// MaxValidationProblems caps how many ValidationProblems a
	// validation.Collector retains; 0 means unlimited.
	MaxValidationProblems int `json:"maxValidationProblems"`
}

// Default returns the engine's out-of-the-box policy: memoized-PENDING
// equality, structural function comparison, no retention cap.
func Default() Config {
	return Config{
		EqualityStrategy:        EqualityMemoizedPending,
		EnforceFunctionNames:    false,
		FixedParameterSubTyping: FixedParameterElementsEqual,
		MaxValidationProblems:   0,
	}
}

// Load parses a JSONC-encoded configuration document, starting from
// Default and overriding whichever fields data sets. Unknown fields are
// rejected rather than silently ignored.
func Load(data []byte) (Config, error) {
	cfg := Default()

	dec := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: Load: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports whether c describes a usable policy.
func (c Config) Validate() error {
	if !c.EqualityStrategy.valid() {
		return fmt.Errorf("config: invalid equalityStrategy %q", c.EqualityStrategy)
	}
	if !c.FixedParameterSubTyping.valid() {
		return fmt.Errorf("config: invalid fixedParameterSubTyping %q", c.FixedParameterSubTyping)
	}
	if c.MaxValidationProblems < 0 {
		return fmt.Errorf("config: maxValidationProblems must be >= 0, got %d", c.MaxValidationProblems)
	}
	return nil
}
