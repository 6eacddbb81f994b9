// Package pipeline renders graphs headlessly: layout, then render, with
// both stages cached.
//
// The layout stage settles a force simulation through a [view.Component]
// (engine "force") or hands the graph to Graphviz neato (engine "graphviz").
// The render stage turns the layout into the requested formats.
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, graph.Seed(), pipeline.Options{
//	    Formats: []string{pipeline.FormatSVG, pipeline.FormatPNG},
//	    Seed:    42,
//	})
//	svg := result.Artifacts[pipeline.FormatSVG]
//
// The seed only drives the jiggle that separates coincident nodes. Every
// seed, zero included, gives a reproducible layout, so all layouts are cached.
package pipeline

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/reasongraph/pkg/force"
)

// Layout engines.
const (
	EngineForce    = "force"
	EngineGraphviz = "graphviz"
)

// Output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatDOT  = "dot"
	FormatJSON = "json"
)

// DefaultMaxTicks bounds the force layout. The default cooling schedule
// settles in about 300 ticks.
const DefaultMaxTicks = 1000

// DefaultScale is the PNG resolution multiplier.
const DefaultScale = 2.0

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatDOT:  true,
	FormatJSON: true,
}

// ValidEngines is the set of supported layout engines.
var ValidEngines = map[string]bool{
	EngineForce:    true,
	EngineGraphviz: true,
}

// Options configures a pipeline run.
type Options struct {
	Engine  string
	Formats []string

	// Force configures the simulation. Rand is replaced when Seed is set.
	Force force.Options
	// Seed feeds the jiggle for coincident nodes and is part of the cache key.
	Seed     uint64
	MaxTicks int

	Labels bool
	Scale  float64

	// Heading and Caption add text around the drawing in SVG, PNG, PDF and
	// DOT output.
	Heading string
	Caption string

	// TTL is the lifetime of cache entries. Zero never expires.
	TTL time.Duration
	// Refresh ignores cached entries but still stores new ones.
	Refresh bool

	Logger *log.Logger
}

// Result contains the outputs of a pipeline run.
type Result struct {
	GraphHash string
	Layout    Layout
	Artifacts map[string][]byte
	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount    int
	LinkCount    int
	SkippedLinks int
	LayoutTime   time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool
	RenderHit bool
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: %s)", format, keys(ValidFormats))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateEngine checks that an engine is valid.
func ValidateEngine(engine string) error {
	if !ValidEngines[engine] {
		return fmt.Errorf("invalid engine: %q (must be one of: %s)", engine, keys(ValidEngines))
	}
	return nil
}

// ValidateAndSetDefaults fills zero fields and checks the result.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Engine == "" {
		o.Engine = EngineForce
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.MaxTicks <= 0 {
		o.MaxTicks = DefaultMaxTicks
	}
	if o.Scale <= 0 {
		o.Scale = DefaultScale
	}
	if o.Force.Width <= 0 {
		o.Force.Width = force.DefaultWidth
	}
	if o.Force.Height <= 0 {
		o.Force.Height = force.DefaultHeight
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}
	if err := ValidateEngine(o.Engine); err != nil {
		return err
	}
	return ValidateFormats(o.Formats)
}

func keys(m map[string]bool) string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return strings.Join(out, ", ")
}
