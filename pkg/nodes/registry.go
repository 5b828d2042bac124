package nodes

import (
	"fmt"
	"slices"
	"sort"

	apperr "github.com/matzehuels/shadergraph/pkg/errors"
	"github.com/matzehuels/shadergraph/pkg/graph"
)

// ErrUnknownKind is returned by [Registry.New] for kinds that are not registered.
var ErrUnknownKind = apperr.New(apperr.ErrCodeInvalidNodeKind, "unknown node kind")

// Constructor builds a fresh node without ids.
type Constructor func() *graph.Node

// Info describes a registered kind.
type Info struct {
	Kind       string            `json:"kind"`
	Class      graph.Class       `json:"class"`
	Label      string            `json:"label"`
	Inputs     []SocketInfo      `json:"inputs,omitempty"`
	Outputs    []SocketInfo      `json:"outputs,omitempty"`
	Parameters []graph.Parameter `json:"parameters,omitempty"`
}

// SocketInfo describes one socket of a kind.
type SocketInfo struct {
	Label string `json:"label"`
	Type  string `json:"type"`
}

// Registry maps node kinds to constructors.
// A Registry is safe for concurrent reads once populated.
type Registry struct {
	ctors map[string]Constructor
	order []string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{ctors: make(map[string]Constructor)}
}

// Builtin returns a registry holding every built-in kind except the sink.
func Builtin() *Registry {
	r := NewRegistry()
	for _, k := range builtins {
		r.Register(k.kind, k.ctor)
	}
	return r
}

// Register adds or replaces a kind.
func (r *Registry) Register(kind string, c Constructor) {
	if _, ok := r.ctors[kind]; !ok {
		r.order = append(r.order, kind)
	}
	r.ctors[kind] = c
}

// Has reports whether kind is registered.
func (r *Registry) Has(kind string) bool {
	_, ok := r.ctors[kind]
	return ok
}

// New builds a node of the given kind.
func (r *Registry) New(kind string) (*graph.Node, error) {
	c, ok := r.ctors[kind]
	if !ok {
		return nil, fmt.Errorf("%q: %w", kind, ErrUnknownKind)
	}
	return c(), nil
}

// Kinds returns the registered kinds in registration order.
func (r *Registry) Kinds() []string {
	return slices.Clone(r.order)
}

// Describe returns catalog information for every kind, optionally restricted
// to one class, sorted by class and then kind.
func (r *Registry) Describe(class graph.Class) []Info {
	var out []Info
	for _, kind := range r.order {
		n := r.ctors[kind]()
		if class != "" && n.Class != class {
			continue
		}
		out = append(out, describe(n))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Class != out[j].Class {
			return out[i].Class < out[j].Class
		}
		return out[i].Kind < out[j].Kind
	})
	return out
}

func describe(n *graph.Node) Info {
	info := Info{Kind: n.Kind, Class: n.Class, Label: n.Label()}
	for _, s := range n.Inputs {
		info.Inputs = append(info.Inputs, SocketInfo{Label: s.Label, Type: s.Type.String()})
	}
	for _, s := range n.Outputs {
		info.Outputs = append(info.Outputs, SocketInfo{Label: s.Label, Type: s.Type.String()})
	}
	for _, p := range n.Params {
		info.Parameters = append(info.Parameters, *p)
	}
	return info
}

type builtin struct {
	kind string
	ctor Constructor
}

var builtins = []builtin{
	{"coordinates", Coordinates},
	{"value", Value},
	{"color", ColorInput},
	{"separate_xy", SeparateXY},
	{"combine_xy", CombineXY},
	{"separate_xyz", SeparateXYZ},
	{"combine_xyz", CombineXYZ},
	{"scalar_bin_op", ScalarBinOp},
	{"scalar_un_op", ScalarUnOp},
	{"scalar_compare", ScalarCompare},
	{"vec2_bin_op", Vec2BinOp},
	{"vec2_normalize", Vec2Normalize},
	{"vec3_bin_op", Vec3BinOp},
	{"vec3_normalize", Vec3Normalize},
	{"vec3_scalar_op", Vec3ScalarOp},
	{"vec3_scale", Vec3Scale},
	{"hsv_to_rgb", HSVToRGB},
	{"mix_color", MixColor},
	{"noise", Noise},
}
