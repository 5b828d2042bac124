package graph

import (
	"fmt"
	"strings"

	apperr "github.com/matzehuels/shadergraph/pkg/errors"
)

var (
	// ErrNodeNotFound is returned when a node id does not resolve in the graph.
	ErrNodeNotFound = apperr.New(apperr.ErrCodeNodeNotFound, "node not found")

	// ErrSocketNotFound is returned when a socket id does not resolve in the graph.
	ErrSocketNotFound = apperr.New(apperr.ErrCodeSocketNotFound, "socket not found")

	// ErrSinkNode is returned by [Graph.Remove] for the sink node.
	ErrSinkNode = apperr.New(apperr.ErrCodeSinkNode, "the output node cannot be deleted")

	// ErrDuplicateNode is returned by [Graph.Add] for a node that already
	// belongs to a graph.
	ErrDuplicateNode = apperr.New(apperr.ErrCodeInvalidInput, "node already added")

	// ErrNotInput is returned when an operation that needs an input socket
	// receives an output socket.
	ErrNotInput = apperr.New(apperr.ErrCodeInvalidInput, "socket is not an input")

	// ErrInvalidParameter is returned when a parameter value is not allowed.
	ErrInvalidParameter = apperr.New(apperr.ErrCodeInvalidParameter, "invalid parameter value")

	// ErrParameterNotFound is returned when a node has no parameter with the given label.
	ErrParameterNotFound = apperr.New(apperr.ErrCodeInvalidParameter, "parameter not found")

	// ErrLiteralType is returned when a literal's type differs from its socket's type.
	ErrLiteralType = apperr.New(apperr.ErrCodeInvalidValue, "literal type does not match socket")
)

// CycleError reports that following input connections leads back to a node
// that is still being visited. Path lists the nodes of the cycle in
// traversal order, starting and ending with the same node.
type CycleError struct {
	Path []NodeID
}

// Error implements the error interface.
func (e *CycleError) Error() string {
	if len(e.Path) == 0 {
		return "graph contains a cycle"
	}
	parts := make([]string, len(e.Path))
	for i, id := range e.Path {
		parts[i] = string(id)
	}
	return "graph contains a cycle: " + strings.Join(parts, " -> ")
}

// Code returns the error code for this error type.
func (e *CycleError) Code() apperr.Code { return apperr.ErrCodeCycle }

// RoleMismatchError reports an attempt to connect two sockets that are both
// inputs or both outputs.
type RoleMismatchError struct {
	A, B SocketID
	Role Role
}

// Error implements the error interface.
func (e *RoleMismatchError) Error() string {
	return fmt.Sprintf("can't connect %s and %s: both are %ss", e.A, e.B, e.Role)
}

// Code returns the error code for this error type.
func (e *RoleMismatchError) Code() apperr.Code { return apperr.ErrCodeRoleMismatch }
