// Package cache stores rendered graph artifacts between runs.
//
// A [Cache] is a byte store with per-entry expiry. Three backends are
// provided:
//
//   - [FileCache]: JSON entries under a local directory, used by the CLI
//   - [RedisCache]: a shared Redis instance, used when several servers render
//     the same graphs
//   - [NullCache]: stores nothing, used when caching is disabled
//
// Keys are produced by a [Keyer] so that every option affecting the output
// participates in the key:
//
//	k := cache.NewDefaultKeyer()
//	key := k.RenderKey(cache.Hash(graphJSON), cache.RenderKeyOpts{Format: "svg"})
//	if data, ok, _ := c.Get(ctx, key); ok {
//	    return data, nil
//	}
package cache

import (
	"context"
	"strings"
	"time"
)

// DefaultTTL is the lifetime of rendered artifacts when no TTL is configured.
const DefaultTTL = 7 * 24 * time.Hour

// Cache is a byte store with per-entry expiry.
//
// A failed Get is reported through err; a missing or expired entry is a miss
// (ok == false, err == nil).
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Keyer builds cache keys for the artifacts the module produces.
type Keyer interface {
	// LayoutKey identifies converged node positions for a graph.
	LayoutKey(graphHash string, opts LayoutKeyOpts) string
	// RenderKey identifies a rendered artifact for a graph.
	RenderKey(graphHash string, opts RenderKeyOpts) string
}

// LayoutKeyOpts holds every option that changes a converged layout.
type LayoutKeyOpts struct {
	Engine       string  `json:"engine"`
	Width        float64 `json:"width"`
	Height       float64 `json:"height"`
	LinkDistance float64 `json:"link_distance"`
	Charge       float64 `json:"charge"`
	Seed         uint64  `json:"seed"`
}

// RenderKeyOpts holds every option that changes a rendered artifact.
type RenderKeyOpts struct {
	Layout LayoutKeyOpts `json:"layout"`
	Format string        `json:"format"`
	Labels bool          `json:"labels"`
	Scale  float64       `json:"scale,omitempty"`

	Heading string `json:"heading,omitempty"`
	Caption string `json:"caption,omitempty"`
}

// DefaultKeyer hashes the options into the key.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", graphHash, opts)
}

func (DefaultKeyer) RenderKey(graphHash string, opts RenderKeyOpts) string {
	return hashKey("render", graphHash, opts)
}

// ScopedKeyer prepends a namespace to every key of an inner keyer. It keeps
// several deployments apart when they share one Redis instance.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner with prefix. A nil inner uses [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(graphHash, opts)
}

func (k *ScopedKeyer) RenderKey(graphHash string, opts RenderKeyOpts) string {
	return k.prefix + k.inner.RenderKey(graphHash, opts)
}

// KeyType returns the artifact kind encoded in key ("layout", "render"),
// skipping any scope prefix. Observability hooks are labelled with it.
func KeyType(key string) string {
	for _, kind := range []string{"layout", "render"} {
		if strings.Contains(key, kind+":") {
			return kind
		}
	}
	return "other"
}
