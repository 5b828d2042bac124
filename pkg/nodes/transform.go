package nodes

import (
	"fmt"

	"github.com/matzehuels/shadergraph/pkg/glsl"
	"github.com/matzehuels/shadergraph/pkg/graph"
)

// SeparateXY splits a vector2 into its components.
func SeparateXY() *graph.Node {
	return graph.NewNode("separate_xy", graph.ClassTransform, "Separate X Y", gen{code: swizzle}).
		AddInput("Vector", glsl.Zero(glsl.Vector2)).
		AddOutput("X", glsl.Float).
		AddOutput("Y", glsl.Float)
}

// CombineXY builds a vector2 from two floats.
func CombineXY() *graph.Node {
	g := gen{code: assign(func(a []string) string {
		return fmt.Sprintf("vec2(%s, %s)", a[0], a[1])
	})}
	return graph.NewNode("combine_xy", graph.ClassTransform, "Combine X Y", g).
		AddInput("X", glsl.FloatValue(0)).
		AddInput("Y", glsl.FloatValue(0)).
		AddOutput("Vector", glsl.Vector2)
}

// SeparateXYZ splits a vector3 into its components.
func SeparateXYZ() *graph.Node {
	return graph.NewNode("separate_xyz", graph.ClassTransform, "Separate X Y Z", gen{code: swizzle}).
		AddInput("Vector", glsl.Zero(glsl.Vector3)).
		AddOutput("X", glsl.Float).
		AddOutput("Y", glsl.Float).
		AddOutput("Z", glsl.Float)
}

// CombineXYZ builds a vector3 from three floats.
func CombineXYZ() *graph.Node {
	g := gen{code: assign(func(a []string) string {
		return fmt.Sprintf("vec3(%s, %s, %s)", a[0], a[1], a[2])
	})}
	return graph.NewNode("combine_xyz", graph.ClassTransform, "Combine X Y Z", g).
		AddInput("X", glsl.FloatValue(0)).
		AddInput("Y", glsl.FloatValue(0)).
		AddInput("Z", glsl.FloatValue(0)).
		AddOutput("Vector", glsl.Vector3)
}
