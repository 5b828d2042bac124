package nodes

import (
	"github.com/matzehuels/shadergraph/pkg/glsl"
	"github.com/matzehuels/shadergraph/pkg/graph"
)

// ResolutionUniform is the uniform the coordinates node divides by. The
// renderer must declare it.
const ResolutionUniform = "uResolution"

// Output builds the sink node. It writes its single color input to
// gl_FragColor and has no outputs.
func Output() *graph.Node {
	g := gen{code: func(_ *graph.Node, args []string) string {
		return "gl_FragColor = " + args[0] + ";"
	}}
	return graph.NewNode("output", graph.ClassOutput, "Output", g).
		AddInput("Color", glsl.Zero(glsl.Color))
}

// Coordinates builds a node producing the normalized fragment coordinate.
func Coordinates() *graph.Node {
	g := gen{code: assign(func([]string) string {
		return "gl_FragCoord.xy / " + ResolutionUniform
	})}
	return graph.NewNode("coordinates", graph.ClassInput, "Coordinates", g).
		AddOutput("Coordinates", glsl.Vector2)
}

func passthrough(args []string) string { return args[0] }

// Value builds a node that exposes a single float.
func Value() *graph.Node {
	return graph.NewNode("value", graph.ClassInput, "Value", gen{code: assign(passthrough)}).
		AddInput("Value", glsl.FloatValue(0)).
		AddOutput("Value", glsl.Float)
}

// ColorInput builds a node that exposes a single RGBA color.
func ColorInput() *graph.Node {
	return graph.NewNode("color", graph.ClassInput, "Color", gen{code: assign(passthrough)}).
		AddInput("Color", glsl.RGBA(1, 1, 1, 1)).
		AddOutput("Color", glsl.Color)
}
