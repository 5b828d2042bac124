// Package graph provides the node, socket and connection model of a shader
// graph.
//
// # Overview
//
// A [Graph] owns a set of [Node] values. Each node has a fixed, ordered list
// of input and output [Socket] values and optional closed-choice
// [Parameter] values. An input socket is either connected to exactly one
// output socket of another node, or it contributes its own literal value.
// Output sockets may feed any number of inputs.
//
// Every graph has a sink node that is created together with the graph and can
// never be removed. Compilation always starts there.
//
// # Identity
//
// Node ids are assigned by the graph when a node is added ("n-0000",
// "n-0001", ...) from a counter that is never rewound, so ids are never
// reused. Socket ids derive from the node id, the role and the position:
//
//	n-0003-i-0000   first input of node n-0003
//	n-0003-o-0001   second output of node n-0003
//
// [VarName] turns a socket id into the shader variable that holds its value.
//
// # Connections
//
// A [Connection] stored on an input socket records the producer node, the
// producer socket and the producer type. The producer node is an explicit
// back-reference; nothing parses socket ids to find it. Connections are
// relations, not ownership: removing a node clears every connection that
// referenced it, and a connection whose producer has disappeared is treated
// as absent.
//
// # Behavior
//
// What a node computes is provided by a [Generator]. Concrete generators live
// in the nodes package; this package only defines the contract.
//
// # Concurrency
//
// Graph instances are not safe for concurrent use. The engine package wraps
// a graph and its compiler behind a single mutex.
package graph
