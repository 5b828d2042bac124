package graph

import (
	"fmt"
	"slices"

	"github.com/matzehuels/shadergraph/pkg/glsl"
)

// NodeID identifies a node within a graph.
type NodeID string

// Class groups node kinds for display. It has no effect on compilation.
type Class string

const (
	ClassOutput    Class = "output"
	ClassInput     Class = "input"
	ClassTransform Class = "transform"
	ClassMath      Class = "math"
	ClassColor     Class = "color"
	ClassTexture   Class = "texture"
)

// Parameter is a closed-choice setting that changes what a node emits
// without changing its sockets.
type Parameter struct {
	Label       string   `json:"label"`
	Value       string   `json:"value"`
	ValidValues []string `json:"valid_values,omitempty"` // empty means any value is accepted
}

// Set changes the parameter value. Values outside ValidValues are rejected.
func (p *Parameter) Set(value string) error {
	if len(p.ValidValues) > 0 && !slices.Contains(p.ValidValues, value) {
		return fmt.Errorf("%s = %q: %w (valid: %v)", p.Label, value, ErrInvalidParameter, p.ValidValues)
	}
	p.Value = value
	return nil
}

// Definition is a shared shader-level declaration such as a helper function.
// Definitions with the same Key are emitted once per program.
type Definition struct {
	Key     string
	Snippet string
}

// Generator produces the shader code for one node variant.
//
// Both methods must be pure functions of the node's socket and parameter
// state. Code receives one expression per input socket, in input order, each
// already of that input's type, and returns statements declaring one local
// per output socket.
type Generator interface {
	Definitions(n *Node) []Definition
	Code(n *Node, args []string) string
}

// Labeler is optionally implemented by generators whose display label
// depends on parameter values.
type Labeler interface {
	Label(n *Node) string
}

// Node is a single computation in the graph.
//
// The zero value is not usable; build nodes with [NewNode] and the Add*
// methods, then insert them with [Graph.Add], which assigns the id.
type Node struct {
	ID      NodeID
	Kind    string
	Class   Class
	Inputs  []*Socket
	Outputs []*Socket
	Params  []*Parameter

	label string
	gen   Generator
}

// NewNode creates a node of the given kind without sockets.
func NewNode(kind string, class Class, label string, gen Generator) *Node {
	return &Node{Kind: kind, Class: class, label: label, gen: gen}
}

// AddInput appends an input socket whose type and default literal come from def.
func (n *Node) AddInput(label string, def glsl.Value) *Node {
	n.Inputs = append(n.Inputs, &Socket{Label: label, Type: def.Type(), Role: Input, Literal: def})
	return n
}

// AddOutput appends an output socket of type t.
func (n *Node) AddOutput(label string, t glsl.Type) *Node {
	n.Outputs = append(n.Outputs, &Socket{Label: label, Type: t, Role: Output})
	return n
}

// AddParameter appends a parameter with an initial value and its allowed values.
func (n *Node) AddParameter(label, value string, valid ...string) *Node {
	n.Params = append(n.Params, &Parameter{Label: label, Value: value, ValidValues: valid})
	return n
}

// Label returns the display label, which may depend on parameters.
func (n *Node) Label() string {
	if l, ok := n.gen.(Labeler); ok {
		if s := l.Label(n); s != "" {
			return s
		}
	}
	return n.label
}

// Param returns the parameter with the given label.
func (n *Node) Param(label string) (*Parameter, bool) {
	for _, p := range n.Params {
		if p.Label == label {
			return p, true
		}
	}
	return nil, false
}

// ParamValue returns the value of the parameter with the given label, or "".
func (n *Node) ParamValue(label string) string {
	if p, ok := n.Param(label); ok {
		return p.Value
	}
	return ""
}

// Var returns the shader variable of the i-th output socket.
func (n *Node) Var(i int) string { return VarName(n.Outputs[i].ID) }

// Decl returns "<type> <var> = " for the i-th output, the common prefix of
// every emitted statement.
func (n *Node) Decl(i int) string {
	return n.Outputs[i].Type.Keyword() + " " + n.Var(i) + " = "
}

// Definitions returns the shared declarations this node requires.
func (n *Node) Definitions() []Definition {
	if n.gen == nil {
		return nil
	}
	return n.gen.Definitions(n)
}

// Code returns the statements for this node given its resolved input expressions.
func (n *Node) Code(args []string) string {
	if n.gen == nil {
		return ""
	}
	return n.gen.Code(n, args)
}

// Socket returns the socket with the given id, searching inputs then outputs.
func (n *Node) Socket(id SocketID) (*Socket, bool) {
	for _, s := range n.Inputs {
		if s.ID == id {
			return s, true
		}
	}
	for _, s := range n.Outputs {
		if s.ID == id {
			return s, true
		}
	}
	return nil, false
}

// SocketByLabel returns the first socket of the given role with the label.
func (n *Node) SocketByLabel(role Role, label string) (*Socket, bool) {
	list := n.Inputs
	if role == Output {
		list = n.Outputs
	}
	for _, s := range list {
		if s.Label == label {
			return s, true
		}
	}
	return nil, false
}

func (n *Node) assignIDs(id NodeID) {
	n.ID = id
	for i, s := range n.Inputs {
		s.ID = socketID(id, Input, i)
	}
	for i, s := range n.Outputs {
		s.ID = socketID(id, Output, i)
	}
}
