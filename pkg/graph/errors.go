package graph

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	ErrMalformedGraph    = errors.New("malformed graph")
	ErrEmptyGraph        = errors.New("graph has no nodes")
	ErrDisconnectedGraph = errors.New("graph is not connected")
	ErrNodeNotFound      = errors.New("node not found")
)

// Error provides structured error information for graph store operations.
type Error struct {
	Op      string // Operation that failed (e.g., "New", "Neighbors")
	Node    int64  // Offending node ID (if HasNode)
	HasNode bool
	Context string // Additional context
	Cause   error  // Underlying error
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.HasNode && e.Context != "":
		return fmt.Sprintf("%s node %d (%s): %v", e.Op, e.Node, e.Context, e.Cause)
	case e.HasNode:
		return fmt.Sprintf("%s node %d: %v", e.Op, e.Node, e.Cause)
	case e.Context != "":
		return fmt.Sprintf("%s (%s): %v", e.Op, e.Context, e.Cause)
	default:
		return fmt.Sprintf("%s: %v", e.Op, e.Cause)
	}
}

// Unwrap returns the underlying cause for error chain support.
func (e *Error) Unwrap() error {
	return e.Cause
}

func malformed(op string, node int64, context string) error {
	return &Error{Op: op, Node: node, HasNode: true, Context: context, Cause: ErrMalformedGraph}
}

// NodeNotFoundError creates a node not found error.
func NodeNotFoundError(op string, node int64) error {
	return &Error{Op: op, Node: node, HasNode: true, Cause: ErrNodeNotFound}
}

// IsMalformed returns true if the error is a structural violation at construction.
func IsMalformed(err error) bool {
	return errors.Is(err, ErrMalformedGraph)
}

// IsNotFound returns true if the error is a node not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNodeNotFound)
}
