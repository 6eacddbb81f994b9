package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/matzehuels/reasongraph/pkg/graph"
	"github.com/matzehuels/reasongraph/pkg/observability"
	"github.com/matzehuels/reasongraph/pkg/render"
	"github.com/matzehuels/reasongraph/pkg/render/nodelink"
)

// Document is the JSON output format.
type Document struct {
	Graph  *graph.Graph `json:"graph"`
	Layout Layout       `json:"layout"`
}

// RenderFromLayout generates every requested format without caching.
func RenderFromLayout(ctx context.Context, l Layout, g *graph.Graph, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))

	var svg []byte
	needSVG := func() error {
		if svg != nil {
			return nil
		}
		var err error
		svg, err = renderSVG(ctx, l, g, opts)
		return err
	}

	for _, format := range opts.Formats {
		start := time.Now()
		observability.Render().OnRenderStart(ctx, format)

		var data []byte
		var err error
		switch format {
		case FormatSVG:
			err = needSVG()
			data = svg
		case FormatPNG:
			if err = needSVG(); err == nil {
				data, err = render.ToPNG(ctx, svg, opts.Scale)
			}
		case FormatPDF:
			if err = needSVG(); err == nil {
				data, err = render.ToPDF(ctx, svg)
			}
		case FormatDOT:
			data = []byte(dotSource(l, g, opts))
		case FormatJSON:
			data, err = json.MarshalIndent(Document{Graph: g, Layout: l}, "", "  ")
		default:
			err = ValidateFormat(format)
		}

		observability.Render().OnRenderComplete(ctx, format, len(data), time.Since(start), err)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func renderSVG(ctx context.Context, l Layout, g *graph.Graph, opts Options) ([]byte, error) {
	if l.Engine == EngineGraphviz {
		return nodelink.RenderSVG(ctx, dotSource(l, g, opts))
	}
	scene := render.NewScene(l.Width, l.Height)
	scene.Build(g)
	scene.Sync(l.ForcePositions())
	return scene.SVG(svgOptions(opts)...), nil
}

func svgOptions(opts Options) []render.SVGOption {
	var out []render.SVGOption
	if opts.Heading != "" {
		out = append(out, render.WithHeading(opts.Heading))
	}
	if opts.Caption != "" {
		out = append(out, render.WithCaption(opts.Caption))
	}
	return out
}

// dotSource returns the layout's DOT, regenerated when text is requested
// since layouts are cached without it.
func dotSource(l Layout, g *graph.Graph, opts Options) string {
	if l.DOT != "" && opts.Heading == "" && opts.Caption == "" {
		return l.DOT
	}
	return nodelink.ToDOT(g, dotOptions(opts))
}
