package graph

import (
	"errors"
	"fmt"
)

// Error sentinels for internal graph failures.
// These indicate programmer errors or internal faults, never content
// issues — content issues are reported via the problem package.
var (
	// ErrInternal is the base error for internal graph failures.
	ErrInternal = errors.New("internal graph failure")

	// ErrNilGraph indicates a method was called on a nil *Graph receiver.
	ErrNilGraph = fmt.Errorf("%w: nil *Graph receiver", ErrInternal)

	// ErrDuplicateIdentifier indicates AddNode was called with an
	// identifier already occupied by a different node.
	ErrDuplicateIdentifier = fmt.Errorf("%w: duplicate identifier", ErrInternal)

	// ErrDuplicateEdge indicates AddEdge was called for a (from, to,
	// relation) tuple that already has an edge.
	ErrDuplicateEdge = fmt.Errorf("%w: duplicate edge", ErrInternal)

	// ErrNodeNotFound indicates a referenced node identifier is not
	// registered in the graph.
	ErrNodeNotFound = fmt.Errorf("%w: node not found", ErrInternal)

	// ErrEdgeNotFound indicates a referenced edge is not registered in
	// the graph.
	ErrEdgeNotFound = fmt.Errorf("%w: edge not found", ErrInternal)
)
