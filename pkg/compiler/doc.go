// Package compiler turns a shader graph into fragment shader source.
//
// # Traversal
//
// Compilation starts at the sink node and walks input connections depth
// first. A node's statements are emitted only after every node feeding it has
// been emitted, so each variable is declared before it is read. Nodes reached
// along several paths are emitted once. Nodes that the sink does not depend on
// are not emitted at all.
//
// The walk keeps its own stack of frames instead of recursing, so graph depth
// is bounded by memory rather than by the goroutine stack. Reaching a node that
// is still on the stack is a cycle and fails with [*graph.CycleError].
//
// # Conversion
//
// Every connected input is read through [glsl.Convert] with the producer type
// first and the input type second. Unconnected inputs contribute their
// literal. Pairs the conversion matrix does not support fail the whole
// compilation with [*glsl.ConversionError].
//
// # Output
//
// The assembled program is:
//
//	precision mediump float;
//	uniform vec2 uResolution;
//
//	<definitions, first-seen order, one per key>
//
//	void main() {
//	    <statements>
//	}
//
// Failed compilations return no partial source. Compiling an unchanged graph
// always yields identical output.
package compiler
