package io

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.uber.org/multierr"

	apperr "github.com/matzehuels/shadergraph/pkg/errors"
	"github.com/matzehuels/shadergraph/pkg/glsl"
	"github.com/matzehuels/shadergraph/pkg/graph"
	"github.com/matzehuels/shadergraph/pkg/nodes"
)

// SinkAlias is the reserved alias of the sink node.
const SinkAlias = "output"

// Document is a declarative shader graph.
type Document struct {
	Uniforms []string   `json:"uniforms,omitempty" toml:"uniforms"`
	Nodes    []NodeSpec `json:"nodes" toml:"nodes"`
	Links    []Link     `json:"links,omitempty" toml:"links"`
}

// NodeSpec describes one node of a document.
type NodeSpec struct {
	ID     string            `json:"id" toml:"id"`
	Kind   string            `json:"kind,omitempty" toml:"kind"`
	Inputs map[string]any    `json:"inputs,omitempty" toml:"inputs"`
	Params map[string]string `json:"params,omitempty" toml:"params"`
}

// Link connects an output socket to an input socket.
type Link struct {
	From string `json:"from" toml:"from"`
	To   string `json:"to" toml:"to"`
}

// SocketRef is a parsed "alias.socket" reference.
type SocketRef struct {
	Alias  string
	Socket string
}

func (r SocketRef) String() string { return r.Alias + "." + r.Socket }

// ParseSocketRef parses "alias.socket". Only the first dot separates the
// two parts.
func ParseSocketRef(s string) (SocketRef, error) {
	alias, sock, ok := strings.Cut(strings.TrimSpace(s), ".")
	if !ok || alias == "" || sock == "" {
		return SocketRef{}, fmt.Errorf("socket reference %q: want alias.socket", s)
	}
	return SocketRef{Alias: alias, Socket: sock}, nil
}

// Resolve finds the referenced socket of the given role on n, by label first
// and then by position.
func (r SocketRef) Resolve(n *graph.Node, role graph.Role) (*graph.Socket, error) {
	if s, ok := n.SocketByLabel(role, r.Socket); ok {
		return s, nil
	}
	list := n.Inputs
	if role == graph.Output {
		list = n.Outputs
	}
	if i, err := strconv.Atoi(r.Socket); err == nil && i >= 0 && i < len(list) {
		return list[i], nil
	}
	return nil, fmt.Errorf("%s: no %s %q on %s: %w", r, role, r.Socket, n.Kind, graph.ErrSocketNotFound)
}

// Validate checks aliases, kinds, link syntax and that every numeric input is
// finite. It does not check types or cycles; [Build] reports those as the
// engine finds them.
func (d *Document) Validate(reg *nodes.Registry) error {
	var errs error
	seen := make(map[string]bool)

	for i, n := range d.Nodes {
		switch {
		case n.ID == "":
			errs = multierr.Append(errs, fmt.Errorf("nodes[%d]: missing id", i))
			continue
		case strings.Contains(n.ID, "."):
			errs = multierr.Append(errs, fmt.Errorf("node %q: id must not contain '.'", n.ID))
		case seen[n.ID]:
			errs = multierr.Append(errs, fmt.Errorf("node %q: duplicate id", n.ID))
		}
		seen[n.ID] = true

		for _, key := range sortedKeys(n.Inputs) {
			if !finite(n.Inputs[key]) {
				errs = multierr.Append(errs, fmt.Errorf("node %q input %q: %w", n.ID, key, glsl.ErrNonFinite))
			}
		}

		if n.ID == SinkAlias {
			if n.Kind != "" && n.Kind != SinkAlias {
				errs = multierr.Append(errs, fmt.Errorf("node %q: reserved for the sink, kind must be %q", n.ID, SinkAlias))
			}
			if len(n.Params) > 0 {
				errs = multierr.Append(errs, fmt.Errorf("node %q: the sink has no parameters", n.ID))
			}
			continue
		}
		if n.Kind == "" {
			errs = multierr.Append(errs, fmt.Errorf("node %q: missing kind", n.ID))
		} else if !reg.Has(n.Kind) {
			errs = multierr.Append(errs, fmt.Errorf("node %q: %w %q", n.ID, nodes.ErrUnknownKind, n.Kind))
		}
	}

	for i, l := range d.Links {
		for _, end := range []string{l.From, l.To} {
			ref, err := ParseSocketRef(end)
			if err != nil {
				errs = multierr.Append(errs, fmt.Errorf("links[%d]: %w", i, err))
				continue
			}
			if ref.Alias != SinkAlias && !seen[ref.Alias] {
				errs = multierr.Append(errs, fmt.Errorf("links[%d]: unknown node %q", i, ref.Alias))
			}
		}
	}

	if errs != nil {
		return apperr.Wrap(apperr.ErrCodeInvalidDocument, errs, "invalid document")
	}
	return nil
}

// finite reports whether every number in a decoded input value is finite.
func finite(raw any) bool {
	switch v := raw.(type) {
	case float64:
		return !math.IsInf(v, 0) && !math.IsNaN(v)
	case float32:
		return finite(float64(v))
	case []float64:
		for _, f := range v {
			if !finite(f) {
				return false
			}
		}
	case []any:
		for _, e := range v {
			if !finite(e) {
				return false
			}
		}
	}
	return true
}

// Problems returns the individual errors of a validation failure, or nil if
// err is not one.
func Problems(err error) []error {
	var e *apperr.Error
	if !errors.As(err, &e) || e.Code != apperr.ErrCodeInvalidDocument {
		return nil
	}
	return multierr.Errors(e.Cause)
}
