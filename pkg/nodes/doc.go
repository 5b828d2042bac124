// Package nodes provides the built-in node catalog.
//
// Every node kind is a constructor returning a fresh [graph.Node] wired to a
// generator that emits its GLSL. Kinds are grouped by [graph.Class]:
//
//	output     output
//	input      coordinates, value, color
//	transform  separate_xy, combine_xy, separate_xyz, combine_xyz
//	math       scalar_bin_op, scalar_un_op, scalar_compare, vec2_bin_op,
//	           vec2_normalize, vec3_bin_op, vec3_normalize, vec3_scalar_op,
//	           vec3_scale
//	color      hsv_to_rgb, mix_color
//	texture    noise
//
// Look kinds up through a [Registry]:
//
//	reg := nodes.Builtin()
//	n, err := reg.New("scalar_bin_op")
//
// Nodes with an "Operation" parameter change their emitted operator and their
// display label with the parameter value, never their sockets.
package nodes
