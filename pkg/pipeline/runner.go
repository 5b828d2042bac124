package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/shadergraph/pkg/cache"
	"github.com/matzehuels/shadergraph/pkg/engine"
	"github.com/matzehuels/shadergraph/pkg/errors"
	"github.com/matzehuels/shadergraph/pkg/graph"
	sgio "github.com/matzehuels/shadergraph/pkg/io"
	"github.com/matzehuels/shadergraph/pkg/nodes"
	"github.com/matzehuels/shadergraph/pkg/render/nodelink"
)

// Runner compiles documents through a cache.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options; each
// run builds its own engine.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	TTL    time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		TTL:    cache.DefaultTTL,
	}
}

// cachedShader is the cache encoding of a compile result.
type cachedShader struct {
	Source      string `json:"source"`
	Nodes       int    `json:"nodes"`
	Definitions int    `json:"definitions"`
}

// Compile returns the shader for opts.Document, from the cache when possible.
func (r *Runner) Compile(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)
	start := time.Now()

	hash, err := documentHash(opts.Document, opts.Registry)
	if err != nil {
		return nil, err
	}
	key := r.Keyer.ShaderKey(hash, cache.ShaderKeyOpts{Uniforms: opts.EffectiveUniforms()})

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err != nil {
			r.Logger.Warn("cache read failed", "err", err)
		} else if hit {
			var cs cachedShader
			if err := json.Unmarshal(data, &cs); err == nil {
				r.Logger.Debug("shader cache hit", "hash", hash[:12])
				return &Result{
					Source:       cs.Source,
					DocumentHash: hash,
					Cached:       true,
					Stats: Stats{
						Nodes:       cs.Nodes,
						Definitions: cs.Definitions,
						CompileTime: time.Since(start),
					},
				}, nil
			}
			// undecodable entry, fall through to recompile
		}
	}

	b, err := r.build(opts)
	if err != nil {
		return nil, err
	}
	compiled := b.Engine.Result()
	res := &Result{
		Source:       compiled.Source,
		DocumentHash: hash,
		Stats: Stats{
			Nodes:       compiled.Stats.Nodes,
			Definitions: compiled.Stats.Definitions,
			CompileTime: time.Since(start),
		},
	}

	data, _ := json.Marshal(cachedShader{
		Source:      res.Source,
		Nodes:       res.Stats.Nodes,
		Definitions: res.Stats.Definitions,
	})
	if err := r.Cache.Set(ctx, key, data, r.TTL); err != nil {
		r.Logger.Warn("cache write failed", "err", err)
	}

	r.Logger.Info("compiled shader",
		"nodes", res.Stats.Nodes,
		"definitions", res.Stats.Definitions,
		"duration", res.Stats.CompileTime)
	return res, nil
}

// Diagram renders opts.Document as a node-link diagram in opts.Format.
// The document must compile; a diagram of a broken graph is an error.
func (r *Runner) Diagram(ctx context.Context, opts Options) ([]byte, error) {
	if err := opts.ValidateForDiagram(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	hash, err := documentHash(opts.Document, opts.Registry)
	if err != nil {
		return nil, err
	}
	key := r.Keyer.DiagramKey(hash, cache.DiagramKeyOpts{Format: opts.Format, Detailed: opts.Detailed})

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			return data, nil
		}
	}

	b, err := r.build(opts)
	if err != nil {
		return nil, err
	}
	data, err := Render(ctx, b, opts)
	if err != nil {
		return nil, err
	}

	if err := r.Cache.Set(ctx, key, data, cache.DiagramTTL); err != nil {
		r.Logger.Warn("cache write failed", "err", err)
	}
	return data, nil
}

func (r *Runner) build(opts Options) (*sgio.Built, error) {
	eopts := []engine.Option{engine.WithLogger(opts.Logger)}
	if len(opts.Uniforms) > 0 {
		eopts = append(eopts, engine.WithUniforms(opts.Uniforms))
	}
	return sgio.Build(opts.Document, opts.Registry, eopts...)
}

// Render draws an already built document. Format must be valid.
func Render(ctx context.Context, b *sgio.Built, opts Options) ([]byte, error) {
	aliases := make(map[graph.NodeID]string, len(b.Nodes))
	for alias, id := range b.Nodes {
		aliases[id] = alias
	}

	var dot string
	b.Engine.View(func(g *graph.Graph) {
		dot = nodelink.ToDOT(g, nodelink.Options{Detailed: opts.Detailed, Aliases: aliases})
	})

	switch opts.Format {
	case FormatDOT:
		return []byte(dot), nil
	case FormatSVG:
		return nodelink.RenderSVG(ctx, dot)
	default:
		return nil, ValidateFormat(opts.Format)
	}
}

// documentHash validates d and hashes its canonical encoding. Validation
// runs first so that documents JSON cannot encode fail with a coded error.
func documentHash(d *sgio.Document, reg *nodes.Registry) (string, error) {
	if err := d.Validate(reg); err != nil {
		return "", err
	}
	data, err := sgio.Canonical(d)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidDocument, err, "hash document")
	}
	return cache.Hash(data), nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
