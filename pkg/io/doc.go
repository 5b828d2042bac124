// Package io reads graph documents: declarative descriptions of a shader
// graph written in TOML or JSON.
//
// # Overview
//
// A document lists nodes by a local alias and kind, optional literal values
// for their inputs, optional parameter values, and links between sockets.
// Documents are never applied directly to a graph. [Build] replays them
// through an [engine.Engine], one mutation at a time, so every rule the
// engine enforces (roles, cycles, conversions) applies to documents too.
//
// # TOML Format
//
//	uniforms = ["vec2 uResolution"]
//
//	[[nodes]]
//	id = "x"
//	kind = "value"
//	inputs = { Value = 0.2 }
//
//	[[nodes]]
//	id = "xyz"
//	kind = "combine_xyz"
//	inputs = { Z = 0.6 }
//
//	[[nodes]]
//	id = "op"
//	kind = "scalar_bin_op"
//	params = { Operation = "pow" }
//
//	[[links]]
//	from = "x.Value"
//	to = "xyz.X"
//
//	[[links]]
//	from = "xyz.Vector"
//	to = "output.Color"
//
// The JSON format has the same fields:
//
//	{"nodes": [{"id": "x", "kind": "value", "inputs": {"Value": 0.2}}],
//	 "links": [{"from": "x.Value", "to": "output.Color"}]}
//
// # Socket References
//
// Links name sockets as "alias.socket". The socket part is either a socket
// label or a zero-based position, which disambiguates nodes whose inputs share
// a label ("op.0", "op.1"). "from" always names an output and "to" an input.
//
// The alias "output" is reserved for the sink node. A document may list it
// (with kind "output" or no kind) to set the sink's literal color.
//
// # Literal Values
//
// Input values are converted to the socket's type: numbers for floats,
// booleans for bools, arrays for vectors, and "#rrggbb[aa]" strings or
// three/four element arrays for colors.
//
// # Validation
//
// [Document.Validate] checks the document's own structure and reports every
// problem at once, combined with go.uber.org/multierr. Errors carry the
// INVALID_DOCUMENT code.
package io
