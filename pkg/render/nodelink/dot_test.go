package nodelink

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/shadergraph/pkg/glsl"
	"github.com/matzehuels/shadergraph/pkg/graph"
	"github.com/matzehuels/shadergraph/pkg/nodes"
)

func sampleGraph(t *testing.T) *graph.Graph {
	t.Helper()
	g := graph.New(nodes.Output())
	v := nodes.Value()
	if err := g.Add(v); err != nil {
		t.Fatalf("Add: %v", err)
	}
	mix := nodes.MixColor()
	if err := g.Add(mix); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := v.Inputs[0].SetLiteral(glsl.FloatValue(0.25)); err != nil {
		t.Fatalf("SetLiteral: %v", err)
	}
	if _, _, err := g.Connect(v.Outputs[0].ID, mix.Inputs[0].ID); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if _, _, err := g.Connect(mix.Outputs[0].ID, g.Sink().Inputs[0].ID); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	return g
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(sampleGraph(t), Options{})

	for _, want := range []string{
		"digraph G {",
		`"n-0000" [label="Output\nn-0000 (output)", fillcolor=gold, penwidth=2];`,
		`"n-0001" [label="Value\nn-0001 (value)", fillcolor=lightblue];`,
		`"n-0001" -> "n-0002" [label="Value → Factor"];`,
		`"n-0002" -> "n-0000" [label="Color → Color"];`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q\n%s", want, dot)
		}
	}
	if strings.Contains(dot, "0.25") {
		t.Error("literals should only appear in detailed mode")
	}
}

func TestToDOT_Detailed(t *testing.T) {
	g := sampleGraph(t)
	dot := ToDOT(g, Options{
		Detailed: true,
		Aliases:  map[graph.NodeID]string{"n-0001": "fade"},
	})

	for _, want := range []string{
		`fade (value)`,
		`Value = 0.25`,
		`A = vec4(0.00, 0.00, 0.00, 1.00)`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q\n%s", want, dot)
		}
	}
	if strings.Contains(dot, "Factor = ") {
		t.Error("connected inputs should not list a literal")
	}
}

func TestToDOT_EscapesLabels(t *testing.T) {
	dot := ToDOT(sampleGraph(t), Options{
		Aliases: map[graph.NodeID]string{"n-0001": "a\tb \"q\" c:\\d"},
	})

	want := `"n-0001" [label="Value\na` + "\t" + `b \"q\" c:\\d (value)", fillcolor=lightblue];`
	if !strings.Contains(dot, want) {
		t.Errorf("DOT missing %q\n%s", want, dot)
	}
	if strings.Contains(dot, `\t`) {
		t.Errorf("tab should be kept literally, got Go escape\n%s", dot)
	}
}

func TestDotQuote(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", `"plain"`},
		{`say "hi"`, `"say \"hi\""`},
		{`C:\dir`, `"C:\\dir"`},
		{"two\nlines", `"two\nlines"`},
		{"tab\there", "\"tab\there\""},
		{"Value → Factor", `"Value → Factor"`},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := dotQuote(tt.in); got != tt.want {
				t.Errorf("dotQuote(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestToDOT_Deterministic(t *testing.T) {
	a := ToDOT(sampleGraph(t), Options{Detailed: true})
	b := ToDOT(sampleGraph(t), Options{Detailed: true})
	if a != b {
		t.Error("ToDOT should be deterministic")
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(context.Background(), ToDOT(sampleGraph(t), Options{}))
	if err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}
	if !strings.Contains(string(svg), `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 `) {
		t.Errorf("RenderSVG did not normalize the root tag:\n%.200s", svg)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="10pt" height="20pt" viewBox="0.00 0.00 100.50 200.00"><g/></svg>`)
	got := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.50 200.00" width="100" height="200"><g/></svg>`
	if got != want {
		t.Errorf("normalizeViewBox() = %s, want %s", got, want)
	}

	plain := []byte(`<svg><g/></svg>`)
	if string(normalizeViewBox(plain)) != string(plain) {
		t.Error("svg without viewBox should be unchanged")
	}
}
