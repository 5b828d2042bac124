package compiler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/matzehuels/shadergraph/pkg/glsl"
	"github.com/matzehuels/shadergraph/pkg/graph"
	"github.com/matzehuels/shadergraph/pkg/observability"
)

// Preamble is the first line of every compiled program.
const Preamble = "precision mediump float;"

// DefaultUniforms are the declarations the reference renderer provides.
var DefaultUniforms = []string{"vec2 uResolution"}

// Stats describes one compilation.
type Stats struct {
	Nodes       int           // nodes emitted
	Definitions int           // distinct shared definitions
	Duration    time.Duration // traversal plus assembly
}

// Result is a successfully compiled program.
type Result struct {
	Source string
	Order  []graph.NodeID // emission order, dependencies first
	Stats  Stats
}

// Compiler holds per-compilation traversal state. A Compiler may be reused
// for any number of compilations but not concurrently.
type Compiler struct {
	defKeys  []string
	defs     map[string]string
	visited  map[graph.NodeID]bool
	visiting map[graph.NodeID]bool
	body     []string
	order    []graph.NodeID
}

// New returns a ready Compiler.
func New() *Compiler {
	c := &Compiler{}
	c.reset()
	return c
}

func (c *Compiler) reset() {
	c.defKeys = c.defKeys[:0]
	c.defs = make(map[string]string)
	c.visited = make(map[graph.NodeID]bool)
	c.visiting = make(map[graph.NodeID]bool)
	c.body = c.body[:0]
	c.order = nil
}

// Compile compiles g with a throwaway [Compiler] and a background context.
func Compile(g *graph.Graph, sink graph.NodeID, uniforms []string) (*Result, error) {
	return New().Compile(context.Background(), g, sink, uniforms)
}

// Compile walks g from sink and assembles the program. uniforms are
// declarations such as "vec2 uResolution"; a trailing semicolon is optional.
func (c *Compiler) Compile(ctx context.Context, g *graph.Graph, sink graph.NodeID, uniforms []string) (res *Result, err error) {
	start := time.Now()
	hooks := observability.Compile()
	hooks.OnCompileStart(ctx, g.Len())
	defer func() {
		emitted, defs := 0, 0
		if res != nil {
			emitted, defs = res.Stats.Nodes, res.Stats.Definitions
		}
		hooks.OnCompileComplete(ctx, emitted, defs, time.Since(start), err)
	}()

	c.reset()
	n, ok := g.Node(sink)
	if !ok {
		return nil, fmt.Errorf("sink %s: %w", sink, graph.ErrNodeNotFound)
	}
	if err := c.walk(g, n, c.emit); err != nil {
		return nil, err
	}

	src := c.assemble(uniforms)
	return &Result{
		Source: src,
		Order:  c.order,
		Stats: Stats{
			Nodes:       len(c.order),
			Definitions: len(c.defKeys),
			Duration:    time.Since(start),
		},
	}, nil
}

// CheckAcyclic reports a [*graph.CycleError] if any path of input
// connections starting at from leads back to a node on that path. It emits
// nothing and ignores type conversions.
func CheckAcyclic(g *graph.Graph, from graph.NodeID) error {
	n, ok := g.Node(from)
	if !ok {
		return fmt.Errorf("%s: %w", from, graph.ErrNodeNotFound)
	}
	c := New()
	return c.walk(g, n, func(*graph.Graph, *graph.Node) error { return nil })
}

type frame struct {
	node *graph.Node
	next int // next input to inspect
}

// walk performs the post-order traversal, calling visit once per node after
// all of its producers have been visited.
func (c *Compiler) walk(g *graph.Graph, root *graph.Node, visit func(*graph.Graph, *graph.Node) error) error {
	if c.visited[root.ID] {
		return nil
	}
	stack := []frame{{node: root}}
	c.visiting[root.ID] = true

	for len(stack) > 0 {
		top := &stack[len(stack)-1]

		if top.next < len(top.node.Inputs) {
			in := top.node.Inputs[top.next]
			top.next++
			p, _, ok := g.Producer(in)
			if !ok || c.visited[p.ID] {
				continue
			}
			if c.visiting[p.ID] {
				return &graph.CycleError{Path: cyclePath(stack, p.ID)}
			}
			c.visiting[p.ID] = true
			stack = append(stack, frame{node: p})
			continue
		}

		n := top.node
		if err := visit(g, n); err != nil {
			return err
		}
		delete(c.visiting, n.ID)
		c.visited[n.ID] = true
		stack = stack[:len(stack)-1]
	}
	return nil
}

func cyclePath(stack []frame, back graph.NodeID) []graph.NodeID {
	i := 0
	for i < len(stack) && stack[i].node.ID != back {
		i++
	}
	path := make([]graph.NodeID, 0, len(stack)-i+1)
	for _, f := range stack[i:] {
		path = append(path, f.node.ID)
	}
	return append(path, back)
}

// emit merges the node's definitions and appends its statements.
func (c *Compiler) emit(g *graph.Graph, n *graph.Node) error {
	args, err := resolveArgs(g, n)
	if err != nil {
		return err
	}
	for _, d := range n.Definitions() {
		if _, ok := c.defs[d.Key]; ok {
			continue
		}
		c.defs[d.Key] = d.Snippet
		c.defKeys = append(c.defKeys, d.Key)
	}
	if code := strings.TrimRight(n.Code(args), "\n"); code != "" {
		c.body = append(c.body, strings.Split(code, "\n")...)
	}
	c.order = append(c.order, n.ID)
	return nil
}

// resolveArgs returns the right-hand-side expression of every input, in
// input order.
func resolveArgs(g *graph.Graph, n *graph.Node) ([]string, error) {
	args := make([]string, len(n.Inputs))
	for i, in := range n.Inputs {
		_, out, ok := g.Producer(in)
		if !ok {
			args[i] = in.Literal.Literal()
			continue
		}
		expr, err := glsl.Convert(in.Connection.Type, in.Type, graph.VarName(out.ID))
		if err != nil {
			return nil, fmt.Errorf("%s input %q: %w", n.ID, in.Label, err)
		}
		args[i] = expr
	}
	return args, nil
}

func (c *Compiler) assemble(uniforms []string) string {
	var b strings.Builder
	b.WriteString(Preamble)
	b.WriteByte('\n')
	for _, u := range uniforms {
		u = strings.TrimSuffix(strings.TrimSpace(u), ";")
		if u == "" {
			continue
		}
		fmt.Fprintf(&b, "uniform %s;\n", u)
	}
	b.WriteByte('\n')
	for _, k := range c.defKeys {
		b.WriteString(c.defs[k])
		b.WriteString("\n\n")
	}
	b.WriteString("void main() {\n")
	for _, line := range c.body {
		b.WriteString("    ")
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteString("}\n")
	return b.String()
}
