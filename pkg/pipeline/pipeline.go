// Package pipeline runs graph documents through the compiler with caching.
//
// The CLI and the HTTP server both compile documents the same way: hash the
// canonical document, look the result up in a [cache.Cache], and only on a
// miss replay the document through an [engine.Engine]. Centralizing this
// keeps cache keys and defaults identical across entry points.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	res, err := runner.Compile(ctx, pipeline.Options{Document: doc})
//	if err != nil {
//	    return err
//	}
//	fmt.Print(res.Source)
//
// Diagrams are produced the same way:
//
//	svg, err := runner.Diagram(ctx, pipeline.Options{Document: doc, Format: pipeline.FormatSVG})
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/shadergraph/pkg/compiler"
	"github.com/matzehuels/shadergraph/pkg/errors"
	sgio "github.com/matzehuels/shadergraph/pkg/io"
	"github.com/matzehuels/shadergraph/pkg/nodes"
)

// Diagram output formats.
const (
	FormatDOT = "dot"
	FormatSVG = "svg"
)

// DefaultFormat is the diagram format used when none is given.
const DefaultFormat = FormatSVG

// ValidFormats is the set of supported diagram formats.
var ValidFormats = map[string]bool{
	FormatDOT: true,
	FormatSVG: true,
}

// Options configures one pipeline run.
type Options struct {
	// Document is the graph to compile. Required.
	Document *sgio.Document `json:"document"`

	// Uniforms overrides the document's uniform declarations when non-empty.
	Uniforms []string `json:"uniforms,omitempty"`

	// Refresh bypasses cache reads; results are still written.
	Refresh bool `json:"refresh,omitempty"`

	// Diagram options
	Format   string `json:"format,omitempty"`
	Detailed bool   `json:"detailed,omitempty"`

	// Runtime options (not serialized)
	Logger   *log.Logger     `json:"-"`
	Registry *nodes.Registry `json:"-"`
}

// Result is a compiled document.
type Result struct {
	// Source is the fragment shader.
	Source string `json:"source"`

	// DocumentHash is the hash of the canonical document.
	DocumentHash string `json:"document_hash"`

	// Cached reports whether Source came from the cache.
	Cached bool `json:"cached"`

	Stats Stats `json:"stats"`
}

// Stats describes the compilation that produced a result. For cached
// results they describe the original compilation, except CompileTime which
// measures the lookup.
type Stats struct {
	Nodes       int           `json:"nodes"`
	Definitions int           `json:"definitions"`
	CompileTime time.Duration `json:"compile_time"`
}

// ValidateFormat checks that a diagram format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: dot, svg)", format)
	}
	return nil
}

// ValidateAndSetDefaults checks required fields and fills defaults.
// It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Document == nil {
		return errors.New(errors.ErrCodeInvalidInput, "document is required")
	}
	if o.Registry == nil {
		o.Registry = nodes.Builtin()
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// ValidateForDiagram additionally checks and defaults the diagram format.
func (o *Options) ValidateForDiagram() error {
	if err := o.ValidateAndSetDefaults(); err != nil {
		return err
	}
	if o.Format == "" {
		o.Format = DefaultFormat
	}
	return ValidateFormat(o.Format)
}

// EffectiveUniforms returns the uniforms a compile of these options uses:
// the override, else the document's, else the compiler defaults.
func (o *Options) EffectiveUniforms() []string {
	switch {
	case len(o.Uniforms) > 0:
		return o.Uniforms
	case o.Document != nil && len(o.Document.Uniforms) > 0:
		return o.Document.Uniforms
	default:
		return compiler.DefaultUniforms
	}
}
