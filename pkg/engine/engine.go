// Package engine owns a shader graph and keeps its compiled source current.
//
// Every mutator changes the graph and immediately recompiles it. A mutation
// that leaves the graph uncompilable (a cycle or an unsupported conversion)
// is undone before the mutator returns, so the graph and the last source
// always agree. The on-compiled callback only ever sees successful results.
//
// An Engine is safe for concurrent use. One mutex guards the graph and the
// compiler together. The callback runs after that mutex is released, one
// call at a time and in compile order: when edits race, a source that is
// already superseded is skipped, so the last delivery always matches
// [Engine.Source].
package engine

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/shadergraph/pkg/compiler"
	"github.com/matzehuels/shadergraph/pkg/glsl"
	"github.com/matzehuels/shadergraph/pkg/graph"
	"github.com/matzehuels/shadergraph/pkg/nodes"
	"github.com/matzehuels/shadergraph/pkg/observability"
)

// Option configures an [Engine].
type Option func(*Engine)

// WithUniforms sets the uniform declarations passed to every compilation.
// The default is [compiler.DefaultUniforms].
func WithUniforms(u []string) Option {
	return func(e *Engine) { e.uniforms = append([]string(nil), u...) }
}

// WithOnCompiled registers a callback receiving every successfully compiled
// source, including the initial one.
func WithOnCompiled(fn func(source string)) Option {
	return func(e *Engine) { e.onCompiled = fn }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithRegistry sets the catalog used by [Engine.CreateNode].
// The default is [nodes.Builtin].
func WithRegistry(r *nodes.Registry) Option {
	return func(e *Engine) {
		if r != nil {
			e.registry = r
		}
	}
}

// WithSessionID overrides the generated session id.
func WithSessionID(id string) Option {
	return func(e *Engine) { e.session = id }
}

// Engine is the connection manager of one graph.
type Engine struct {
	mu       sync.Mutex
	graph    *graph.Graph
	compiler *compiler.Compiler
	result   *compiler.Result

	registry   *nodes.Registry
	uniforms   []string
	onCompiled func(string)
	logger     *log.Logger
	session    string
	ctx        context.Context

	gen uint64 // successful compiles, guarded by mu
	out outbox
}

// outbox hands compiled sources to the callback. Sources are posted with
// their generation; whichever goroutine finds the outbox idle drains it,
// always delivering the newest pending source and never an older one than
// it has already delivered.
type outbox struct {
	mu         sync.Mutex
	draining   bool
	pending    string
	pendingGen uint64
	delivered  uint64
}

// post records src as generation gen and delivers it unless another
// goroutine is already delivering, in which case that goroutine picks it up.
// A callback that edits the engine therefore sees its own edit delivered
// after it returns instead of deadlocking.
func (o *outbox) post(gen uint64, src string, cb func(string)) {
	o.mu.Lock()
	if gen > o.pendingGen {
		o.pending, o.pendingGen = src, gen
	}
	if o.draining {
		o.mu.Unlock()
		return
	}
	o.draining = true
	for o.pendingGen > o.delivered {
		next, g := o.pending, o.pendingGen
		o.delivered = g
		o.mu.Unlock()
		cb(next)
		o.mu.Lock()
	}
	o.draining = false
	o.mu.Unlock()
}

// New creates an engine holding a graph with only the sink node and compiles
// it once.
func New(opts ...Option) *Engine {
	e := &Engine{
		graph:    graph.New(nodes.Output()),
		compiler: compiler.New(),
		registry: nodes.Builtin(),
		uniforms: compiler.DefaultUniforms,
		logger:   log.NewWithOptions(io.Discard, log.Options{}),
		session:  uuid.NewString(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.With("session", e.session)
	e.ctx = observability.WithSession(context.Background(), e.session)

	// A graph holding only the sink always compiles.
	if err := e.compileLocked(); err != nil {
		panic(fmt.Sprintf("engine: compiling an empty graph: %v", err))
	}
	if e.onCompiled != nil {
		e.out.post(e.gen, e.result.Source, e.onCompiled)
	}
	return e
}

// Session returns the engine's session id.
func (e *Engine) Session() string { return e.session }

// Source returns the last successfully compiled shader source.
func (e *Engine) Source() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.result.Source
}

// Result returns the last successful compilation.
func (e *Engine) Result() *compiler.Result {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.result
}

// SinkID returns the id of the sink node.
func (e *Engine) SinkID() graph.NodeID { return e.graph.SinkID() }

// View calls fn with the graph while holding the engine lock. fn must not
// modify the graph or call back into the engine.
func (e *Engine) View(fn func(g *graph.Graph)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(e.graph)
}

// CreateNode builds a node of the given catalog kind and adds it.
func (e *Engine) CreateNode(kind string) (*graph.Node, error) {
	n, err := e.registry.New(kind)
	if err != nil {
		return nil, err
	}
	if err := e.AddNode(n); err != nil {
		return nil, err
	}
	return n, nil
}

// AddNode inserts a node built by the caller. It does not connect it.
func (e *Engine) AddNode(n *graph.Node) error {
	return e.apply("add_node", func(g *graph.Graph) (func(), error) {
		if err := g.Add(n); err != nil {
			return nil, err
		}
		return func() { _, _ = g.Remove(n.ID) }, nil
	})
}

// DeleteNode removes a node and every connection that read from it. The sink
// cannot be deleted.
func (e *Engine) DeleteNode(id graph.NodeID) error {
	return e.apply("delete_node", func(g *graph.Graph) (func(), error) {
		r, err := g.Remove(id)
		if err != nil {
			return nil, err
		}
		return r.Undo, nil
	})
}

// CreateConnection connects an output and an input socket, in either order.
// It replaces any connection the input already had. If the new edge closes a
// cycle or its types cannot be converted, the input's previous connection is
// restored and the error is returned.
func (e *Engine) CreateConnection(a, b graph.SocketID) error {
	return e.apply("connect", func(g *graph.Graph) (func(), error) {
		in, prev, err := g.Connect(a, b)
		if err != nil {
			return nil, err
		}
		undo := func() { in.Connection = prev }

		// The consumer may not be reachable from the sink yet, so the
		// recompile alone would miss a cycle through it.
		_, consumer, _ := g.Socket(in.ID)
		if err := compiler.CheckAcyclic(g, consumer.ID); err != nil {
			undo()
			return nil, err
		}
		return undo, nil
	})
}

// RemoveConnection clears the connection of an input socket.
func (e *Engine) RemoveConnection(in graph.SocketID) error {
	return e.apply("disconnect", func(g *graph.Graph) (func(), error) {
		s, _, err := g.Socket(in)
		if err != nil {
			return nil, err
		}
		prev, err := g.Disconnect(in)
		if err != nil {
			return nil, err
		}
		return func() { s.Connection = prev }, nil
	})
}

// SetLiteral replaces the literal of an input socket. The value must have the
// socket's type.
func (e *Engine) SetLiteral(in graph.SocketID, v glsl.Value) error {
	return e.apply("set_literal", func(g *graph.Graph) (func(), error) {
		s, _, err := g.Socket(in)
		if err != nil {
			return nil, err
		}
		prev := s.Literal
		if err := s.SetLiteral(v); err != nil {
			return nil, err
		}
		return func() { s.Literal = prev }, nil
	})
}

// SetParameter changes a node parameter. The value must be one of the
// parameter's valid values.
func (e *Engine) SetParameter(id graph.NodeID, label, value string) error {
	return e.apply("set_parameter", func(g *graph.Graph) (func(), error) {
		n, ok := g.Node(id)
		if !ok {
			return nil, fmt.Errorf("%s: %w", id, graph.ErrNodeNotFound)
		}
		p, ok := n.Param(label)
		if !ok {
			return nil, fmt.Errorf("%s %q: %w", id, label, graph.ErrParameterNotFound)
		}
		prev := p.Value
		if err := p.Set(value); err != nil {
			return nil, err
		}
		return func() { p.Value = prev }, nil
	})
}

// Recompile compiles the graph again without changing it.
func (e *Engine) Recompile() error {
	return e.apply("recompile", func(*graph.Graph) (func(), error) { return nil, nil })
}

// apply runs one mutation followed by a recompile. mutate returns a function
// restoring the previous state; it is called if the recompile fails.
func (e *Engine) apply(op string, mutate func(g *graph.Graph) (undo func(), err error)) error {
	hooks := observability.Edit()

	e.mu.Lock()
	undo, err := mutate(e.graph)
	if err != nil {
		e.mu.Unlock()
		e.logger.Debug("edit rejected", "op", op, "err", err)
		hooks.OnEdit(e.ctx, op, err)
		return err
	}
	if err := e.compileLocked(); err != nil {
		if undo != nil {
			undo()
		}
		e.mu.Unlock()
		e.logger.Warn("recompile failed, edit rolled back", "op", op, "err", err)
		hooks.OnRollback(e.ctx, op, err)
		hooks.OnEdit(e.ctx, op, err)
		return err
	}
	src, gen, cb := e.result.Source, e.gen, e.onCompiled
	stats := e.result.Stats
	e.mu.Unlock()

	e.logger.Debug("edit applied", "op", op, "nodes", stats.Nodes, "duration", stats.Duration)
	hooks.OnEdit(e.ctx, op, nil)
	if cb != nil {
		e.out.post(gen, src, cb)
	}
	return nil
}

func (e *Engine) compileLocked() error {
	res, err := e.compiler.Compile(e.ctx, e.graph, e.graph.SinkID(), e.uniforms)
	if err != nil {
		return err
	}
	e.result = res
	e.gen++
	return nil
}
