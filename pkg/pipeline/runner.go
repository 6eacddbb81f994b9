package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/reasongraph/pkg/cache"
	"github.com/matzehuels/reasongraph/pkg/graph"
)

// Runner executes the pipeline with caching.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil cache disables caching and a nil keyer
// uses [cache.DefaultKeyer].
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
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute runs layout and render for g.
func (r *Runner) Execute(ctx context.Context, g *graph.Graph, opts Options) (*Result, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	res := graph.Resolve(g)
	for _, l := range res.DroppedLinks {
		r.Logger.Debug("skipping link with unknown endpoint", "source", l.Source, "target", l.Target)
	}
	data, err := graph.MarshalGraph(res.Graph)
	if err != nil {
		return nil, err
	}

	result := &Result{
		GraphHash: cache.Hash(data),
		Stats: Stats{
			NodeCount:    len(res.Graph.Nodes),
			LinkCount:    len(res.Graph.Links),
			SkippedLinks: len(res.DroppedLinks),
		},
	}

	start := time.Now()
	layout, hit, err := r.layout(ctx, res.Graph, result.GraphHash, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = layout
	result.Stats.LayoutTime = time.Since(start)
	result.CacheInfo.LayoutHit = hit
	r.Logger.Debug("computed layout", "engine", layout.Engine, "ticks", layout.Ticks,
		"cached", hit, "duration", result.Stats.LayoutTime)

	start = time.Now()
	artifacts, hit, err := r.render(ctx, layout, res.Graph, result.GraphHash, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(start)
	result.CacheInfo.RenderHit = hit
	r.Logger.Debug("rendered outputs", "formats", opts.Formats, "cached", hit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

func (r *Runner) layoutKeyOpts(opts Options) cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Engine:       opts.Engine,
		Width:        opts.Force.Width,
		Height:       opts.Force.Height,
		LinkDistance: opts.Force.LinkDistance,
		Charge:       opts.Force.Charge,
		Seed:         opts.Seed,
	}
}

func (r *Runner) layout(ctx context.Context, g *graph.Graph, graphHash string, opts Options) (Layout, bool, error) {
	key := r.Keyer.LayoutKey(graphHash, r.layoutKeyOpts(opts))

	if !opts.Refresh {
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil {
			r.Logger.Warn("cache read failed", "err", err)
		} else if hit {
			if l, err := UnmarshalLayout(data); err == nil {
				return l, true, nil
			}
		}
	}

	l, err := GenerateLayout(ctx, g, opts)
	if err != nil {
		return Layout{}, false, err
	}

	if data, err := MarshalLayout(l); err == nil {
		if err := r.Cache.Set(ctx, key, data, opts.TTL); err != nil {
			r.Logger.Warn("cache write failed", "err", err)
		}
	}
	return l, false, nil
}

func (r *Runner) render(ctx context.Context, l Layout, g *graph.Graph, graphHash string, opts Options) (map[string][]byte, bool, error) {
	keyFor := func(format string) string {
		return r.Keyer.RenderKey(graphHash, cache.RenderKeyOpts{
			Layout:  r.layoutKeyOpts(opts),
			Format:  format,
			Labels:  opts.Labels,
			Scale:   opts.Scale,
			Heading: opts.Heading,
			Caption: opts.Caption,
		})
	}

	if !opts.Refresh {
		artifacts := make(map[string][]byte, len(opts.Formats))
		for _, format := range opts.Formats {
			data, hit, err := r.Cache.Get(ctx, keyFor(format))
			if err != nil || !hit {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			return artifacts, true, nil
		}
	}

	rendered, err := RenderFromLayout(ctx, l, g, opts)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		if err := r.Cache.Set(ctx, keyFor(format), data, opts.TTL); err != nil {
			r.Logger.Warn("cache write failed", "format", format, "err", err)
		}
	}
	return rendered, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
