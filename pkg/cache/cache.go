// Package cache provides byte-level caching for layout and render results.
//
// Laying out a large map and converting it to PNG are the two expensive
// steps in the pipeline; both are pure functions of their inputs, so their
// outputs are cached under content-hash keys. Three backends are provided:
//   - FileCache: per-user cache directory for CLI usage
//   - RedisCache: shared cache for serve mode
//   - NullCache: caching disabled
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// Default TTLs per entry kind.
const (
	// LayoutTTL bounds cached layout JSON. Layouts are cheap to recompute
	// relative to artifacts, so the TTL is short.
	LayoutTTL = 24 * time.Hour

	// ArtifactTTL bounds rendered artifacts (SVG, PNG, PDF).
	ArtifactTTL = 7 * 24 * time.Hour
)

// Cache stores opaque byte values under string keys with optional TTL.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key
	// was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A zero ttl means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer derives cache keys from pipeline inputs. Key content is hashed, so
// arbitrary option payloads are safe to include.
type Keyer interface {
	// LayoutKey keys a computed layout by the tree content hash, surface
	// bounds, and layout options.
	LayoutKey(treeHash string, opts LayoutKeyOpts) string

	// ArtifactKey keys a rendered artifact by the layout hash and render
	// options.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts are the inputs that change layout output.
type LayoutKeyOpts struct {
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	MarginY float64 `json:"margin_y"`
}

// ArtifactKeyOpts are the inputs that change rendered output.
type ArtifactKeyOpts struct {
	Format      string   `json:"format"`
	Palette     []string `json:"palette,omitempty"`
	Background  string   `json:"background,omitempty"`
	Interactive bool     `json:"interactive,omitempty"`
	Query       string   `json:"query,omitempty"`
}

// DefaultKeyer hashes inputs into "kind:sha256" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer { return &DefaultKeyer{} }

// LayoutKey generates a key for layout caching.
func (k *DefaultKeyer) LayoutKey(treeHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", treeHash, opts)
}

// ArtifactKey generates a key for artifact caching.
func (k *DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

// ScopedKeyer wraps a Keyer with a prefix, giving each stored map its own
// namespace in a shared backend (the Redis cache in serve mode).
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// LayoutKey generates a prefixed key for layout caching.
func (k *ScopedKeyer) LayoutKey(treeHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(treeHash, opts)
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}

// hashKey builds a "kind:sha256" key from a kind and the option payloads
// that change the cached output. The kind stays in the clear so backends
// can shard layout entries apart from artifact entries.
func hashKey(kind string, parts ...any) string {
	data, _ := json.Marshal(parts)
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", kind, hex.EncodeToString(sum[:]))
}

// Hash returns the hex SHA-256 of data. It keys tree documents and
// layouts by content, so two renders of the same map share cache entries
// no matter where the input file lives.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// NullCache misses every Get and drops every Set. It backs --no-cache
// runs so the pipeline never branches on whether caching is enabled.
type NullCache struct{}

// NewNullCache creates a cache that stores nothing.
func NewNullCache() Cache {
	return &NullCache{}
}

// Get always misses.
func (c *NullCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, nil
}

// Set drops the value.
func (c *NullCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return nil
}

// Delete is a no-op.
func (c *NullCache) Delete(ctx context.Context, key string) error {
	return nil
}

// Close is a no-op.
func (c *NullCache) Close() error {
	return nil
}

// Ensure NullCache implements Cache.
var _ Cache = (*NullCache)(nil)
