package graph

import (
	"fmt"
	"strings"

	"github.com/matzehuels/shadergraph/pkg/glsl"
)

// SocketID identifies a socket within a graph.
type SocketID string

// Role is the direction of a socket.
type Role int

const (
	Input  Role = iota // consumes a value
	Output             // produces a value
)

func (r Role) String() string {
	if r == Output {
		return "output"
	}
	return "input"
}

// Connection is the producer side of an edge, stored on the consuming input.
type Connection struct {
	Node   NodeID    // producer node
	Socket SocketID  // producer output socket
	Type   glsl.Type // producer socket type
}

// Socket is a typed endpoint on a node.
//
// Connection is only ever set on inputs. Literal holds the value an
// unconnected input contributes; it is unused on outputs.
type Socket struct {
	ID         SocketID
	Label      string
	Type       glsl.Type
	Role       Role
	Connection *Connection
	Literal    glsl.Value
}

// Connected reports whether the socket has a producer.
func (s *Socket) Connected() bool { return s.Connection != nil }

// SetLiteral replaces the literal of an input socket. The value's type must
// match the socket type and its components must be finite.
func (s *Socket) SetLiteral(v glsl.Value) error {
	if s.Role != Input {
		return fmt.Errorf("%s: %w", s.ID, ErrNotInput)
	}
	if v.Type() != s.Type {
		return fmt.Errorf("%s: %w: got %s, want %s", s.ID, ErrLiteralType, v.Type(), s.Type)
	}
	if !v.Finite() {
		return fmt.Errorf("%s: %w", s.ID, glsl.ErrNonFinite)
	}
	s.Literal = v
	return nil
}

// VarName returns the shader variable that holds the value of a socket.
func VarName(id SocketID) string {
	return strings.ReplaceAll(string(id), "-", "")
}

func socketID(node NodeID, role Role, idx int) SocketID {
	r := "i"
	if role == Output {
		r = "o"
	}
	return SocketID(fmt.Sprintf("%s-%s-%04d", node, r, idx))
}
