package nodes

import (
	"github.com/matzehuels/shadergraph/pkg/glsl"
	"github.com/matzehuels/shadergraph/pkg/graph"
)

var arithmeticLabels = map[string]string{
	"+": "Add",
	"-": "Subtract",
	"*": "Multiply",
	"/": "Divide",
}

func withLabels(base map[string]string, extra map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(extra))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}

// ScalarBinOp applies an arithmetic operator or pow to two floats.
func ScalarBinOp() *graph.Node {
	g := gen{code: binary, labels: withLabels(arithmeticLabels, map[string]string{"pow": "Power"})}
	return graph.NewNode("scalar_bin_op", graph.ClassMath, "Scalar Binary Op", g).
		AddInput("Number", glsl.FloatValue(0)).
		AddInput("Number", glsl.FloatValue(0)).
		AddOutput("Result", glsl.Float).
		AddParameter(OperationParam, "+", "+", "-", "*", "/", "pow")
}

// ScalarUnOp applies sqrt or exp to a float.
func ScalarUnOp() *graph.Node {
	g := gen{code: unary, labels: map[string]string{"sqrt": "Square Root", "exp": "Exponential"}}
	return graph.NewNode("scalar_un_op", graph.ClassMath, "Scalar Unary Op", g).
		AddInput("Number", glsl.FloatValue(0)).
		AddOutput("Result", glsl.Float).
		AddParameter(OperationParam, "sqrt", "sqrt", "exp")
}

// ScalarCompare compares two floats into a bool.
func ScalarCompare() *graph.Node {
	g := gen{code: binary, labels: map[string]string{
		"<":  "Less Than",
		"<=": "Less Equal",
		">":  "Greater Than",
		">=": "Greater Equal",
		"==": "Equal",
		"!=": "Not Equal",
	}}
	return graph.NewNode("scalar_compare", graph.ClassMath, "Scalar Compare", g).
		AddInput("Number", glsl.FloatValue(0)).
		AddInput("Number", glsl.FloatValue(0)).
		AddOutput("Result", glsl.Bool).
		AddParameter(OperationParam, "<", "<", "<=", ">", ">=", "==", "!=")
}

// Vec2BinOp combines two vector2 values component-wise or by reflection.
func Vec2BinOp() *graph.Node {
	g := gen{code: binary, labels: withLabels(arithmeticLabels, map[string]string{"reflect": "Reflect"})}
	return graph.NewNode("vec2_bin_op", graph.ClassMath, "Vector2 Binary Op", g).
		AddInput("Vector", glsl.Zero(glsl.Vector2)).
		AddInput("Vector", glsl.Zero(glsl.Vector2)).
		AddOutput("Result", glsl.Vector2).
		AddParameter(OperationParam, "+", "+", "-", "*", "/", "reflect")
}

// Vec2Normalize normalizes a vector2.
func Vec2Normalize() *graph.Node {
	return graph.NewNode("vec2_normalize", graph.ClassMath, "Vector2 Normalize", gen{code: call("normalize")}).
		AddInput("Vector", glsl.Zero(glsl.Vector2)).
		AddOutput("Result", glsl.Vector2)
}

// Vec3BinOp combines two vector3 values.
func Vec3BinOp() *graph.Node {
	g := gen{code: binary, labels: withLabels(arithmeticLabels, map[string]string{
		"reflect": "Reflect",
		"cross":   "Cross Product",
	})}
	return graph.NewNode("vec3_bin_op", graph.ClassMath, "Vector3 Binary Op", g).
		AddInput("Vector", glsl.Zero(glsl.Vector3)).
		AddInput("Vector", glsl.Zero(glsl.Vector3)).
		AddOutput("Result", glsl.Vector3).
		AddParameter(OperationParam, "+", "+", "-", "*", "/", "reflect", "cross")
}

// Vec3Normalize normalizes a vector3.
func Vec3Normalize() *graph.Node {
	return graph.NewNode("vec3_normalize", graph.ClassMath, "Vector3 Normalize", gen{code: call("normalize")}).
		AddInput("Vector", glsl.Zero(glsl.Vector3)).
		AddOutput("Result", glsl.Vector3)
}

// Vec3ScalarOp reduces two vector3 values to a float.
func Vec3ScalarOp() *graph.Node {
	g := gen{code: binary, labels: map[string]string{"dot": "Dot Product", "distance": "Distance"}}
	return graph.NewNode("vec3_scalar_op", graph.ClassMath, "Vector3 Scalar Binary Op", g).
		AddInput("Vector", glsl.Zero(glsl.Vector3)).
		AddInput("Vector", glsl.Zero(glsl.Vector3)).
		AddOutput("Result", glsl.Float).
		AddParameter(OperationParam, "dot", "dot", "distance")
}

// Vec3Scale multiplies a vector3 by a float.
func Vec3Scale() *graph.Node {
	g := gen{code: binary, labels: map[string]string{"*": "Scale"}}
	return graph.NewNode("vec3_scale", graph.ClassMath, "Vector3 Scale", g).
		AddInput("Vector", glsl.Zero(glsl.Vector3)).
		AddInput("Scale", glsl.FloatValue(1)).
		AddOutput("Result", glsl.Vector3).
		AddParameter(OperationParam, "*", "*")
}
