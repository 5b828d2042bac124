package io

import (
	"fmt"
	"sort"

	"github.com/matzehuels/shadergraph/pkg/engine"
	apperr "github.com/matzehuels/shadergraph/pkg/errors"
	"github.com/matzehuels/shadergraph/pkg/glsl"
	"github.com/matzehuels/shadergraph/pkg/graph"
	"github.com/matzehuels/shadergraph/pkg/nodes"
)

// Built is the result of replaying a document.
type Built struct {
	Engine *engine.Engine
	Nodes  map[string]graph.NodeID // document alias -> node id
}

// Build validates d and replays it through a new engine: nodes in document
// order, then their parameters and literals, then links in document order.
// The first rejected mutation aborts the build.
//
// The document's uniforms are applied before opts, so callers can override
// them. reg defaults to [nodes.Builtin].
func Build(d *Document, reg *nodes.Registry, opts ...engine.Option) (*Built, error) {
	if reg == nil {
		reg = nodes.Builtin()
	}
	if err := d.Validate(reg); err != nil {
		return nil, err
	}

	base := []engine.Option{engine.WithRegistry(reg)}
	if len(d.Uniforms) > 0 {
		base = append(base, engine.WithUniforms(d.Uniforms))
	}
	e := engine.New(append(base, opts...)...)

	var sink *graph.Node
	e.View(func(g *graph.Graph) { sink = g.Sink() })

	byAlias := map[string]*graph.Node{SinkAlias: sink}
	for _, spec := range d.Nodes {
		n := sink
		if spec.ID != SinkAlias {
			var err error
			if n, err = e.CreateNode(spec.Kind); err != nil {
				return nil, fmt.Errorf("node %q: %w", spec.ID, err)
			}
		}
		byAlias[spec.ID] = n

		if err := applyParams(e, n, spec); err != nil {
			return nil, err
		}
		if err := applyInputs(e, n, spec); err != nil {
			return nil, err
		}
	}

	for _, l := range d.Links {
		out, err := resolveLink(byAlias, l.From, graph.Output)
		if err != nil {
			return nil, fmt.Errorf("link %s -> %s: %w", l.From, l.To, err)
		}
		in, err := resolveLink(byAlias, l.To, graph.Input)
		if err != nil {
			return nil, fmt.Errorf("link %s -> %s: %w", l.From, l.To, err)
		}
		if err := e.CreateConnection(out.ID, in.ID); err != nil {
			return nil, fmt.Errorf("link %s -> %s: %w", l.From, l.To, err)
		}
	}

	ids := make(map[string]graph.NodeID, len(byAlias))
	for alias, n := range byAlias {
		ids[alias] = n.ID
	}
	return &Built{Engine: e, Nodes: ids}, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func applyParams(e *engine.Engine, n *graph.Node, spec NodeSpec) error {
	for _, label := range sortedKeys(spec.Params) {
		if err := e.SetParameter(n.ID, label, spec.Params[label]); err != nil {
			return fmt.Errorf("node %q: %w", spec.ID, err)
		}
	}
	return nil
}

func applyInputs(e *engine.Engine, n *graph.Node, spec NodeSpec) error {
	for _, key := range sortedKeys(spec.Inputs) {
		s, err := SocketRef{Alias: spec.ID, Socket: key}.Resolve(n, graph.Input)
		if err != nil {
			return fmt.Errorf("node %q: %w", spec.ID, err)
		}
		v, err := glsl.FromAny(s.Type, spec.Inputs[key])
		if err != nil {
			return apperr.Wrap(apperr.ErrCodeInvalidValue, err, "node %q input %q", spec.ID, key)
		}
		if err := e.SetLiteral(s.ID, v); err != nil {
			return fmt.Errorf("node %q: %w", spec.ID, err)
		}
	}
	return nil
}

func resolveLink(byAlias map[string]*graph.Node, ref string, role graph.Role) (*graph.Socket, error) {
	r, err := ParseSocketRef(ref)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrCodeInvalidDocument, err, "bad link")
	}
	n, ok := byAlias[r.Alias]
	if !ok {
		return nil, fmt.Errorf("%q: %w", r.Alias, graph.ErrNodeNotFound)
	}
	return r.Resolve(n, role)
}
