// Package glsl models the value types that flow between node sockets and the
// rules for turning one type into another inside generated shader code.
//
// # Types
//
// The set of socket types is closed: [Bool], [Float], [Vector2], [Vector3],
// [Vector4] and [Color]. Each maps to a GLSL keyword ([Type.Keyword]); Color
// shares the vec4 representation with Vector4 but is a distinct socket type.
//
// # Values
//
// [Value] is a tagged union over the same set and carries literal storage for
// its variant. [Value.Literal] renders it in constructor syntax, which is what
// an unconnected input socket contributes to the emitted code:
//
//	glsl.Vec2(0, 0).Literal()         // "vec2(0.00, 0.00)"
//	glsl.FloatValue(0.5).Literal()    // "0.50"
//
// # Conversion
//
// [Convert] wraps an expression produced by one socket type so it can be
// consumed by another. The first argument is always the producer's type and
// the second the consumer's:
//
//	expr, err := glsl.Convert(glsl.Float, glsl.Vector2, "n0001o0000")
//	// expr == "vec2(n0001o0000, n0001o0000)"
//
// Only a fixed set of pairs is supported; every other pair returns a
// [*ConversionError].
package glsl
