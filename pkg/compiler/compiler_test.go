package compiler

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/shadergraph/pkg/glsl"
	"github.com/matzehuels/shadergraph/pkg/graph"
	"github.com/matzehuels/shadergraph/pkg/nodes"
	"github.com/matzehuels/shadergraph/pkg/observability"
)

func add(t *testing.T, g *graph.Graph, n *graph.Node) *graph.Node {
	t.Helper()
	if err := g.Add(n); err != nil {
		t.Fatalf("Add: %v", err)
	}
	return n
}

func connect(t *testing.T, g *graph.Graph, out, in *graph.Socket) {
	t.Helper()
	if _, _, err := g.Connect(out.ID, in.ID); err != nil {
		t.Fatalf("Connect(%s, %s): %v", out.ID, in.ID, err)
	}
}

func TestCompile_CombineXYZ(t *testing.T) {
	g := graph.New(nodes.Output())
	c := add(t, g, nodes.CombineXYZ())
	x := add(t, g, nodes.Value())
	y := add(t, g, nodes.Value())
	_ = x.Inputs[0].SetLiteral(glsl.FloatValue(0.2))
	_ = y.Inputs[0].SetLiteral(glsl.FloatValue(0.4))
	_ = c.Inputs[2].SetLiteral(glsl.FloatValue(0.6))
	connect(t, g, x.Outputs[0], c.Inputs[0])
	connect(t, g, y.Outputs[0], c.Inputs[1])
	connect(t, g, c.Outputs[0], g.Sink().Inputs[0])

	res, err := Compile(g, g.SinkID(), DefaultUniforms)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	want := `precision mediump float;
uniform vec2 uResolution;

void main() {
    float n0002o0000 = 0.20;
    float n0003o0000 = 0.40;
    vec3 n0001o0000 = vec3(n0002o0000, n0003o0000, 0.60);
    gl_FragColor = vec4(n0001o0000, 1.0);
}
`
	if res.Source != want {
		t.Errorf("Source =\n%s\nwant\n%s", res.Source, want)
	}
	if res.Stats.Nodes != 4 || res.Stats.Definitions != 0 {
		t.Errorf("Stats = %+v, want 4 nodes and 0 definitions", res.Stats)
	}
	wantOrder := []graph.NodeID{"n-0002", "n-0003", "n-0001", "n-0000"}
	if !slices.Equal(res.Order, wantOrder) {
		t.Errorf("Order = %v, want %v", res.Order, wantOrder)
	}
}

func TestCompile_FloatToVector2(t *testing.T) {
	g := graph.New(nodes.Output())
	v := add(t, g, nodes.Value())
	norm := add(t, g, nodes.Vec2Normalize())
	sep := add(t, g, nodes.SeparateXY())
	_ = v.Inputs[0].SetLiteral(glsl.FloatValue(0.5))
	connect(t, g, v.Outputs[0], norm.Inputs[0])
	connect(t, g, norm.Outputs[0], sep.Inputs[0])
	connect(t, g, sep.Outputs[0], g.Sink().Inputs[0])

	res, err := Compile(g, g.SinkID(), nil)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	if n := strings.Count(res.Source, "vec2(n0001o0000, n0001o0000)"); n != 1 {
		t.Errorf("broadcast appears %d times, want 1\n%s", n, res.Source)
	}
	if !strings.Contains(res.Source, "vec2 n0002o0000 = normalize(vec2(n0001o0000, n0001o0000));") {
		t.Errorf("missing normalize statement\n%s", res.Source)
	}
	if !strings.Contains(res.Source, "gl_FragColor = vec4(n0003o0000, n0003o0000, n0003o0000, n0003o0000);") {
		t.Errorf("missing float to color broadcast\n%s", res.Source)
	}
	if strings.Contains(res.Source, "uniform") {
		t.Errorf("no uniforms were requested\n%s", res.Source)
	}
}

func TestCompile_Diamond(t *testing.T) {
	g := graph.New(nodes.Output())
	v := add(t, g, nodes.Value())
	op := add(t, g, nodes.ScalarBinOp())
	connect(t, g, v.Outputs[0], op.Inputs[0])
	connect(t, g, v.Outputs[0], op.Inputs[1])
	connect(t, g, op.Outputs[0], g.Sink().Inputs[0])

	res, err := Compile(g, g.SinkID(), DefaultUniforms)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if n := strings.Count(res.Source, "float n0001o0000 ="); n != 1 {
		t.Errorf("shared producer emitted %d times, want 1", n)
	}
	if !strings.Contains(res.Source, "float n0002o0000 = n0001o0000 + n0001o0000;") {
		t.Errorf("missing add statement\n%s", res.Source)
	}
}

func TestCompile_TopologicalOrder(t *testing.T) {
	// coords -> separate -> combine_xyz <- value
	//                          |
	//                    hsv (H from separate.X) -> mix -> sink
	g := graph.New(nodes.Output())
	coords := add(t, g, nodes.Coordinates())
	sep := add(t, g, nodes.SeparateXY())
	hsv := add(t, g, nodes.HSVToRGB())
	mix := add(t, g, nodes.MixColor())
	comb := add(t, g, nodes.CombineXYZ())
	val := add(t, g, nodes.Value())

	connect(t, g, coords.Outputs[0], sep.Inputs[0])
	connect(t, g, sep.Outputs[0], hsv.Inputs[0])
	connect(t, g, sep.Outputs[1], comb.Inputs[0])
	connect(t, g, val.Outputs[0], comb.Inputs[1])
	connect(t, g, sep.Outputs[1], mix.Inputs[0])
	connect(t, g, hsv.Outputs[0], mix.Inputs[1])
	connect(t, g, comb.Outputs[0], mix.Inputs[2])
	connect(t, g, mix.Outputs[0], g.Sink().Inputs[0])

	res, err := Compile(g, g.SinkID(), DefaultUniforms)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if len(res.Order) != g.Len() {
		t.Fatalf("emitted %d nodes, want %d", len(res.Order), g.Len())
	}

	pos := make(map[graph.NodeID]int)
	for i, id := range res.Order {
		if _, dup := pos[id]; dup {
			t.Fatalf("%s emitted twice", id)
		}
		pos[id] = i
	}
	for _, e := range g.Edges() {
		if pos[e.From] >= pos[e.To] {
			t.Errorf("%s emitted after its dependent %s", e.From, e.To)
		}
	}
}

func TestCompile_Deterministic(t *testing.T) {
	g := graph.New(nodes.Output())
	n := add(t, g, nodes.Noise())
	c := add(t, g, nodes.Coordinates())
	connect(t, g, c.Outputs[0], n.Inputs[0])
	connect(t, g, n.Outputs[0], g.Sink().Inputs[0])

	comp := New()
	first, err := comp.Compile(context.Background(), g, g.SinkID(), DefaultUniforms)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	second, err := comp.Compile(context.Background(), g, g.SinkID(), DefaultUniforms)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if first.Source != second.Source {
		t.Errorf("recompiling changed the output:\n%s\n---\n%s", first.Source, second.Source)
	}
}

func TestCompile_SharedDefinitions(t *testing.T) {
	g := graph.New(nodes.Output())
	mix := add(t, g, nodes.MixColor())
	hsv := add(t, g, nodes.HSVToRGB())
	n1 := add(t, g, nodes.Noise())
	n2 := add(t, g, nodes.Noise())
	connect(t, g, n2.Outputs[0], mix.Inputs[0])
	connect(t, g, hsv.Outputs[0], mix.Inputs[1])
	connect(t, g, n1.Outputs[0], mix.Inputs[2])
	connect(t, g, mix.Outputs[0], g.Sink().Inputs[0])

	res, err := Compile(g, g.SinkID(), DefaultUniforms)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	for _, sig := range []string{"float hash12(", "float value_noise(", "vec3 hsv2rgb("} {
		if n := strings.Count(res.Source, sig); n != 1 {
			t.Errorf("%q defined %d times, want 1", sig, n)
		}
	}
	h := strings.Index(res.Source, "float hash12(")
	vn := strings.Index(res.Source, "float value_noise(")
	hr := strings.Index(res.Source, "vec3 hsv2rgb(")
	if !(h < vn && vn < hr) {
		t.Errorf("definitions out of first-seen order: hash12=%d value_noise=%d hsv2rgb=%d", h, vn, hr)
	}
	if res.Stats.Definitions != 3 {
		t.Errorf("Stats.Definitions = %d, want 3", res.Stats.Definitions)
	}
	if m := strings.Index(res.Source, "void main()"); hr > m {
		t.Error("definitions must precede main")
	}
}

func TestCompile_DeepChain(t *testing.T) {
	n := 50000
	if testing.Short() {
		n = 5000
	}

	// v0 -> v1 -> ... -> v(n-1) -> sink
	g := graph.New(nodes.Output())
	chain := make([]*graph.Node, n)
	for i := range chain {
		chain[i] = add(t, g, nodes.Value())
		if i > 0 {
			connect(t, g, chain[i-1].Outputs[0], chain[i].Inputs[0])
		}
	}
	connect(t, g, chain[n-1].Outputs[0], g.Sink().Inputs[0])

	res, err := Compile(g, g.SinkID(), DefaultUniforms)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if len(res.Order) != n+1 {
		t.Fatalf("emitted %d nodes, want %d", len(res.Order), n+1)
	}
	for i, id := range res.Order[:n] {
		if id != chain[i].ID {
			t.Fatalf("Order[%d] = %s, want %s", i, id, chain[i].ID)
		}
	}
	if last := res.Order[n]; last != g.SinkID() {
		t.Errorf("Order[%d] = %s, want the sink", n, last)
	}

	_, body, _ := strings.Cut(res.Source, "void main() {\n")
	statements := 0
	for _, line := range strings.Split(body, "\n") {
		if strings.HasPrefix(line, "    ") {
			statements++
		}
	}
	if statements != n+1 {
		t.Errorf("main has %d statements, want %d", statements, n+1)
	}

	// Closing the chain turns it into one cycle through every value node.
	connect(t, g, chain[n-1].Outputs[0], chain[0].Inputs[0])

	_, err = Compile(g, g.SinkID(), DefaultUniforms)
	var ce *graph.CycleError
	if !errors.As(err, &ce) {
		t.Fatalf("Compile error = %v, want CycleError", err)
	}
	if len(ce.Path) != n+1 || ce.Path[0] != ce.Path[n] {
		t.Errorf("cycle path has %d nodes (first %s, last %s), want %d closing on itself",
			len(ce.Path), ce.Path[0], ce.Path[len(ce.Path)-1], n+1)
	}
	if err := CheckAcyclic(g, chain[0].ID); !errors.As(err, &ce) {
		t.Errorf("CheckAcyclic error = %v, want CycleError", err)
	}
}

func TestCompile_Cycle(t *testing.T) {
	g := graph.New(nodes.Output())
	a := add(t, g, nodes.ScalarBinOp())
	b := add(t, g, nodes.ScalarBinOp())
	connect(t, g, a.Outputs[0], b.Inputs[0])
	connect(t, g, b.Outputs[0], a.Inputs[0])
	connect(t, g, a.Outputs[0], g.Sink().Inputs[0])

	res, err := Compile(g, g.SinkID(), DefaultUniforms)
	if res != nil {
		t.Error("Compile should not return partial output on a cycle")
	}
	var ce *graph.CycleError
	if !errors.As(err, &ce) {
		t.Fatalf("Compile error = %v, want CycleError", err)
	}
	want := []graph.NodeID{"n-0001", "n-0002", "n-0001"}
	if !slices.Equal(ce.Path, want) {
		t.Errorf("Path = %v, want %v", ce.Path, want)
	}
}

func TestCompile_SelfLoop(t *testing.T) {
	g := graph.New(nodes.Output())
	a := add(t, g, nodes.ScalarBinOp())
	connect(t, g, a.Outputs[0], a.Inputs[1])
	connect(t, g, a.Outputs[0], g.Sink().Inputs[0])

	_, err := Compile(g, g.SinkID(), nil)
	var ce *graph.CycleError
	if !errors.As(err, &ce) {
		t.Fatalf("Compile error = %v, want CycleError", err)
	}
}

func TestCompile_ConversionError(t *testing.T) {
	g := graph.New(nodes.Output())
	c := add(t, g, nodes.Coordinates())
	connect(t, g, c.Outputs[0], g.Sink().Inputs[0])

	_, err := Compile(g, g.SinkID(), DefaultUniforms)
	var ce *glsl.ConversionError
	if !errors.As(err, &ce) {
		t.Fatalf("Compile error = %v, want ConversionError", err)
	}
	if ce.From != glsl.Vector2 || ce.To != glsl.Color {
		t.Errorf("ConversionError = %s -> %s, want vector2 -> color", ce.From, ce.To)
	}
}

func TestCompile_SkipsUnreachable(t *testing.T) {
	g := graph.New(nodes.Output())
	add(t, g, nodes.Value())

	res, err := Compile(g, g.SinkID(), nil)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if strings.Contains(res.Source, "n0001") {
		t.Errorf("unconnected node should not be emitted\n%s", res.Source)
	}
	if !strings.Contains(res.Source, "gl_FragColor = vec4(0.00, 0.00, 0.00, 1.00);") {
		t.Errorf("sink should fall back to its literal\n%s", res.Source)
	}
}

func TestCompile_DanglingConnection(t *testing.T) {
	g := graph.New(nodes.Output())
	g.Sink().Inputs[0].Connection = &graph.Connection{Node: "n-0042", Socket: "n-0042-o-0000", Type: glsl.Float}

	res, err := Compile(g, g.SinkID(), nil)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if !strings.Contains(res.Source, "gl_FragColor = vec4(0.00, 0.00, 0.00, 1.00);") {
		t.Errorf("dangling connection should resolve to the literal\n%s", res.Source)
	}
}

func TestCompile_Uniforms(t *testing.T) {
	g := graph.New(nodes.Output())
	res, err := Compile(g, g.SinkID(), []string{"vec2 uResolution;", " float uTime ", ""})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	want := "precision mediump float;\nuniform vec2 uResolution;\nuniform float uTime;\n\nvoid main() {"
	if !strings.HasPrefix(res.Source, want) {
		t.Errorf("Source prefix =\n%s\nwant\n%s", res.Source, want)
	}
}

func TestCompile_UnknownSink(t *testing.T) {
	g := graph.New(nodes.Output())
	if _, err := Compile(g, "n-0099", nil); !errors.Is(err, graph.ErrNodeNotFound) {
		t.Errorf("Compile error = %v, want ErrNodeNotFound", err)
	}
}

func TestCheckAcyclic(t *testing.T) {
	g := graph.New(nodes.Output())
	a := add(t, g, nodes.ScalarBinOp())
	b := add(t, g, nodes.ScalarBinOp())
	connect(t, g, a.Outputs[0], b.Inputs[0])

	if err := CheckAcyclic(g, b.ID); err != nil {
		t.Errorf("CheckAcyclic(acyclic) = %v", err)
	}

	// Neither node is reachable from the sink, but the loop is still found.
	connect(t, g, b.Outputs[0], a.Inputs[1])
	var ce *graph.CycleError
	if err := CheckAcyclic(g, b.ID); !errors.As(err, &ce) {
		t.Errorf("CheckAcyclic(cycle) = %v, want CycleError", err)
	}
}

type recordingHooks struct {
	observability.NoopCompileHooks
	started, completed int
	lastErr            error
}

func (h *recordingHooks) OnCompileStart(context.Context, int) { h.started++ }

func (h *recordingHooks) OnCompileComplete(_ context.Context, _, _ int, _ time.Duration, err error) {
	h.completed++
	h.lastErr = err
}

func TestCompile_Hooks(t *testing.T) {
	h := &recordingHooks{}
	observability.SetCompileHooks(h)
	defer observability.Reset()

	g := graph.New(nodes.Output())
	if _, err := Compile(g, g.SinkID(), nil); err != nil {
		t.Fatalf("Compile: %v", err)
	}
	c := add(t, g, nodes.Coordinates())
	connect(t, g, c.Outputs[0], g.Sink().Inputs[0])
	_, _ = Compile(g, g.SinkID(), nil)

	if h.started != 2 || h.completed != 2 {
		t.Errorf("hooks called start=%d complete=%d, want 2 and 2", h.started, h.completed)
	}
	if h.lastErr == nil {
		t.Error("last OnCompileComplete should carry the conversion error")
	}
}
