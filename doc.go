// Package typir provides a host-language-agnostic type-checking engine:
// a type graph, staged type initialization, relation services (equality,
// sub-typing, conversion, assignability), and an inference collector for
// deriving the static type of a host language's AST nodes.
//
// # Architecture Overview
//
// The module is organized into layers with strict dependency ordering:
//
//	Foundation tier (no internal dependencies):
//	  - diag: structured diagnostics with severities and a thread-safe collector
//	  - internal/trace: optional low-overhead operation tracing
//	  - internal/ident: identifier normalization
//
//	Core tier:
//	  - graph: the type graph (nodes and typed edges)
//	  - types: the Type value and its three-state initialization lifecycle
//	  - typeref: lazy type references and the waiter mechanism that drives
//	    staged initialization
//	  - kinds: the concrete type kinds (Primitive, Function, Class,
//	    FixedParameter, Multiplicity, Top, Bottom) and their relation analyzers
//	  - operators: an operator factory layered on the Function kind
//	  - relation: Equality, SubType, Conversion, and Assignability services
//	  - infer: the inference collector that derives types for language nodes
//	  - problem: the stable, user-visible diagnostic shapes, and their printer
//	  - validation: the validation collector and constraint helpers
//
//	Assembly tier:
//	  - config: engine configuration, loaded from JSONC
//	  - engine: the container that wires every service above together
//
// # Entry point
//
//	import (
//		"github.com/arkhold/typir/config"
//		"github.com/arkhold/typir/engine"
//	)
//
//	eng, err := engine.New(ctx, config.Default())
//	intType, err := eng.Primitives.GetOrCreate(ctx, "integer")
//	problems := eng.Validation.Validate(someLanguageNode)
//
// The engine never parses source text and never binds to a specific host
// AST library: it operates purely on the opaque language-node handles the
// host passes it, resolved through [engine.LanguageService].
package typir
