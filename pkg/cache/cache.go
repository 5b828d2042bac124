// Package cache stores compiled shader sources keyed by document hash.
//
// Three backends implement [Cache]:
//   - [FileCache]: JSON entries under a directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for the HTTP server
//   - [NullCache]: stores nothing, for --no-cache and tests
//
// Keys come from a [Keyer] so that callers never build key strings by hand:
//
//	keyer := cache.NewDefaultKeyer()
//	key := keyer.ShaderKey(docHash, cache.ShaderKeyOpts{Uniforms: uniforms})
//
// [Instrument] wraps any backend so hits, misses and writes reach the
// observability cache hooks.
package cache

import (
	"context"
	"time"
)

// Cache TTLs. Entries are content addressed, so these only bound disk and
// memory use.
const (
	DefaultTTL = 7 * 24 * time.Hour
	DiagramTTL = 24 * time.Hour
)

// Cache is a byte-oriented key/value store with per-entry expiry.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the stored data and true, or false on a miss. Expired
	// entries are misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// ShaderKeyOpts are the compile inputs that change the output for a given
// document.
type ShaderKeyOpts struct {
	Uniforms []string `json:"uniforms"`
}

// DiagramKeyOpts are the rendering inputs that change a diagram.
type DiagramKeyOpts struct {
	Format   string `json:"format"`
	Detailed bool   `json:"detailed"`
}

// Keyer builds cache keys.
type Keyer interface {
	// ShaderKey returns the key of a compiled shader for a document hash.
	ShaderKey(docHash string, opts ShaderKeyOpts) string

	// DiagramKey returns the key of a rendered node-link diagram.
	DiagramKey(docHash string, opts DiagramKeyOpts) string
}

// DefaultKeyer produces "shader:<sha256>" and "diagram:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ShaderKey implements Keyer.
func (DefaultKeyer) ShaderKey(docHash string, opts ShaderKeyOpts) string {
	return hashKey("shader", docHash, opts)
}

// DiagramKey implements Keyer.
func (DefaultKeyer) DiagramKey(docHash string, opts DiagramKeyOpts) string {
	return hashKey("diagram", docHash, opts)
}
