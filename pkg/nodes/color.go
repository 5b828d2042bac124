package nodes

import (
	"fmt"

	"github.com/matzehuels/shadergraph/pkg/glsl"
	"github.com/matzehuels/shadergraph/pkg/graph"
)

var hsv2rgb = graph.Definition{
	Key: "hsv2rgb",
	Snippet: `vec3 hsv2rgb(vec3 c) {
    vec4 K = vec4(1.0, 2.0 / 3.0, 1.0 / 3.0, 3.0);
    vec3 p = abs(fract(c.xxx + K.xyz) * 6.0 - K.www);
    return c.z * mix(K.xxx, clamp(p - K.xxx, 0.0, 1.0), c.y);
}`,
}

// HSVToRGB builds a color from hue, saturation, value and alpha. Hue is in
// turns, so 0 and 1 are both red.
func HSVToRGB() *graph.Node {
	g := gen{
		defs: []graph.Definition{hsv2rgb},
		code: assign(func(a []string) string {
			return fmt.Sprintf("vec4(hsv2rgb(vec3(%s, %s, %s)), %s)", a[0], a[1], a[2], a[3])
		}),
	}
	return graph.NewNode("hsv_to_rgb", graph.ClassColor, "HSV to RGB", g).
		AddInput("H", glsl.FloatValue(0)).
		AddInput("S", glsl.FloatValue(1)).
		AddInput("V", glsl.FloatValue(1)).
		AddInput("Alpha", glsl.FloatValue(1)).
		AddOutput("Color", glsl.Color)
}

// MixColor linearly interpolates between two colors.
func MixColor() *graph.Node {
	g := gen{code: assign(func(a []string) string {
		return fmt.Sprintf("mix(%s, %s, %s)", a[1], a[2], a[0])
	})}
	return graph.NewNode("mix_color", graph.ClassColor, "Mix Color", g).
		AddInput("Factor", glsl.FloatValue(0.5)).
		AddInput("A", glsl.RGBA(0, 0, 0, 1)).
		AddInput("B", glsl.RGBA(1, 1, 1, 1)).
		AddOutput("Color", glsl.Color)
}
