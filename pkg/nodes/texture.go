package nodes

import (
	"fmt"

	"github.com/matzehuels/shadergraph/pkg/glsl"
	"github.com/matzehuels/shadergraph/pkg/graph"
)

var (
	hash12 = graph.Definition{
		Key: "hash12",
		Snippet: `float hash12(vec2 p) {
    vec3 p3 = fract(vec3(p.xyx) * 0.1031);
    p3 += dot(p3, p3.yzx + 33.33);
    return fract((p3.x + p3.y) * p3.z);
}`,
	}

	// valueNoise calls hash12, so it must always follow it.
	valueNoise = graph.Definition{
		Key: "value_noise",
		Snippet: `float value_noise(vec2 p) {
    vec2 i = floor(p);
    vec2 f = fract(p);
    vec2 u = f * f * (3.0 - 2.0 * f);
    float a = hash12(i);
    float b = hash12(i + vec2(1.0, 0.0));
    float c = hash12(i + vec2(0.0, 1.0));
    float d = hash12(i + vec2(1.0, 1.0));
    return mix(mix(a, b, u.x), mix(c, d, u.x), u.y);
}`,
	}
)

// Noise samples smooth value noise at a scaled position.
func Noise() *graph.Node {
	g := gen{
		defs: []graph.Definition{hash12, valueNoise},
		code: assign(func(a []string) string {
			return fmt.Sprintf("value_noise(%s * %s)", a[0], a[1])
		}),
	}
	return graph.NewNode("noise", graph.ClassTexture, "Noise", g).
		AddInput("Vector", glsl.Zero(glsl.Vector2)).
		AddInput("Scale", glsl.FloatValue(8)).
		AddOutput("Value", glsl.Float)
}
