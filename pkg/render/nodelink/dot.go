package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/shadergraph/pkg/graph"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds parameters and unconnected input literals to labels.
	Detailed bool

	// Aliases replaces node ids in labels, typically with document aliases.
	Aliases map[graph.NodeID]string
}

var classFill = map[graph.Class]string{
	graph.ClassOutput:    "gold",
	graph.ClassInput:     "lightblue",
	graph.ClassTransform: "white",
	graph.ClassMath:      "honeydew",
	graph.ClassColor:     "mistyrose",
	graph.ClassTexture:   "lavender",
}

// ToDOT converts a graph to Graphviz DOT. Nodes appear in insertion order and
// edges in consumer order, so equal graphs produce identical output.
func ToDOT(g *graph.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [fontsize=10];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	sink := g.SinkID()
	for _, n := range g.Nodes() {
		attrs := []string{"label=" + dotQuote(fmtLabel(n, opts))}
		if fill, ok := classFill[n.Class]; ok {
			attrs = append(attrs, "fillcolor="+fill)
		}
		if n.ID == sink {
			attrs = append(attrs, "penwidth=2")
		}
		fmt.Fprintf(&buf, "  %s [%s];\n", dotQuote(string(n.ID)), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		label := e.FromSock.Label + " → " + e.ToSock.Label
		fmt.Fprintf(&buf, "  %s -> %s [label=%s];\n", dotQuote(string(e.From)), dotQuote(string(e.To)), dotQuote(label))
	}

	buf.WriteString("}\n")
	return buf.String()
}

// dotEscaper escapes a DOT quoted string. Line breaks become DOT's centered
// \n; every other rune is kept as is.
var dotEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)

func dotQuote(s string) string {
	return `"` + dotEscaper.Replace(s) + `"`
}

func fmtLabel(n *graph.Node, opts Options) string {
	name := string(n.ID)
	if alias, ok := opts.Aliases[n.ID]; ok {
		name = alias
	}
	lines := []string{n.Label(), fmt.Sprintf("%s (%s)", name, n.Kind)}
	if !opts.Detailed {
		return strings.Join(lines, "\n")
	}

	for _, p := range n.Params {
		lines = append(lines, fmt.Sprintf("%s: %s", p.Label, p.Value))
	}
	for _, in := range n.Inputs {
		if in.Connected() {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s = %s", in.Label, in.Literal.Literal()))
	}
	return strings.Join(lines, "\n")
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root tag to a zero-origin viewBox with
// matching pixel dimensions.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
