package graph

import (
	"fmt"
	"slices"
)

// Graph owns a set of nodes and the connections between their sockets.
//
// A graph always contains its sink node, which is added by [New] and cannot
// be removed.
type Graph struct {
	nodes   map[NodeID]*Node
	order   []NodeID
	sockets map[SocketID]*Node
	sink    NodeID
	next    int
}

// New creates a graph whose sink is the given node.
func New(sink *Node) *Graph {
	g := &Graph{
		nodes:   make(map[NodeID]*Node),
		sockets: make(map[SocketID]*Node),
	}
	// sink is always the first node so the error is impossible here.
	_ = g.Add(sink)
	g.sink = sink.ID
	return g
}

// Add inserts a node and assigns its node and socket ids. The node must not
// already belong to a graph.
func (g *Graph) Add(n *Node) error {
	if n.ID != "" {
		return fmt.Errorf("%s: %w", n.ID, ErrDuplicateNode)
	}
	id := NodeID(fmt.Sprintf("n-%04d", g.next))
	g.next++
	n.assignIDs(id)
	g.insert(n, len(g.order))
	return nil
}

func (g *Graph) insert(n *Node, at int) {
	g.nodes[n.ID] = n
	g.order = slices.Insert(g.order, at, n.ID)
	for _, s := range n.Inputs {
		g.sockets[s.ID] = n
	}
	for _, s := range n.Outputs {
		g.sockets[s.ID] = n
	}
}

// Node returns the node with the given id.
func (g *Graph) Node(id NodeID) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Nodes returns every node in insertion order.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.nodes[id])
	}
	return out
}

// Len returns the number of nodes, including the sink.
func (g *Graph) Len() int { return len(g.order) }

// SinkID returns the id of the sink node.
func (g *Graph) SinkID() NodeID { return g.sink }

// Sink returns the sink node.
func (g *Graph) Sink() *Node { return g.nodes[g.sink] }

// Socket returns the socket with the given id and the node that owns it.
func (g *Graph) Socket(id SocketID) (*Socket, *Node, error) {
	n, ok := g.sockets[id]
	if !ok {
		return nil, nil, fmt.Errorf("%s: %w", id, ErrSocketNotFound)
	}
	s, _ := n.Socket(id)
	return s, n, nil
}

// Producer resolves the node and output socket feeding an input. It reports
// false for unconnected inputs and for connections whose producer no longer
// exists.
func (g *Graph) Producer(in *Socket) (*Node, *Socket, bool) {
	if in.Connection == nil {
		return nil, nil, false
	}
	n, ok := g.nodes[in.Connection.Node]
	if !ok {
		return nil, nil, false
	}
	s, ok := n.Socket(in.Connection.Socket)
	if !ok {
		return nil, nil, false
	}
	return n, s, true
}

// Connect links an output socket to an input socket. The arguments may be
// given in either order. It returns the input socket and the connection it
// held before, so the caller can restore it.
//
// Connect does not check for cycles; see the compiler package.
func (g *Graph) Connect(a, b SocketID) (*Socket, *Connection, error) {
	sa, na, err := g.Socket(a)
	if err != nil {
		return nil, nil, err
	}
	sb, nb, err := g.Socket(b)
	if err != nil {
		return nil, nil, err
	}
	if sa.Role == sb.Role {
		return nil, nil, &RoleMismatchError{A: a, B: b, Role: sa.Role}
	}
	in, out, producer := sb, sa, na
	if sa.Role == Input {
		in, out, producer = sa, sb, nb
	}
	prev := in.Connection
	in.Connection = &Connection{Node: producer.ID, Socket: out.ID, Type: out.Type}
	return in, prev, nil
}

// Disconnect clears the connection of an input socket and returns the
// connection it held, which may be nil.
func (g *Graph) Disconnect(id SocketID) (*Connection, error) {
	s, _, err := g.Socket(id)
	if err != nil {
		return nil, err
	}
	if s.Role != Input {
		return nil, fmt.Errorf("%s: %w", id, ErrNotInput)
	}
	prev := s.Connection
	s.Connection = nil
	return prev, nil
}

// Removal records what [Graph.Remove] changed.
type Removal struct {
	Node     *Node
	Detached []*Socket // inputs of other nodes that lost their connection

	g     *Graph
	index int
	conns []*Connection
}

// Undo puts the node back at its original position and restores every
// connection that was cleared by the removal.
func (r *Removal) Undo() {
	r.g.insert(r.Node, r.index)
	for i, s := range r.Detached {
		s.Connection = r.conns[i]
	}
}

// Remove deletes a node and clears every input connection in other nodes
// that referenced it. The sink node cannot be removed.
func (g *Graph) Remove(id NodeID) (*Removal, error) {
	n, ok := g.nodes[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", id, ErrNodeNotFound)
	}
	if id == g.sink {
		return nil, ErrSinkNode
	}

	r := &Removal{Node: n, g: g, index: slices.Index(g.order, id)}
	for _, other := range g.nodes {
		if other.ID == id {
			continue
		}
		for _, s := range other.Inputs {
			if s.Connection != nil && s.Connection.Node == id {
				r.Detached = append(r.Detached, s)
				r.conns = append(r.conns, s.Connection)
				s.Connection = nil
			}
		}
	}

	delete(g.nodes, id)
	g.order = slices.Delete(g.order, r.index, r.index+1)
	for _, s := range n.Inputs {
		delete(g.sockets, s.ID)
	}
	for _, s := range n.Outputs {
		delete(g.sockets, s.ID)
	}
	return r, nil
}

// Edge is a resolved connection between two nodes.
type Edge struct {
	From     NodeID
	FromSock *Socket
	To       NodeID
	ToSock   *Socket
}

// Edges returns every live connection, ordered by consumer insertion order
// and then by input position.
func (g *Graph) Edges() []Edge {
	var out []Edge
	for _, id := range g.order {
		n := g.nodes[id]
		for _, in := range n.Inputs {
			p, ps, ok := g.Producer(in)
			if !ok {
				continue
			}
			out = append(out, Edge{From: p.ID, FromSock: ps, To: n.ID, ToSock: in})
		}
	}
	return out
}
