package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/reasongraph/pkg/force"
	"github.com/matzehuels/reasongraph/pkg/graph"
	"github.com/matzehuels/reasongraph/pkg/render"
)

const (
	// pointsPerInch converts canvas units to Graphviz inches.
	pointsPerInch = 72.0

	// linkColor is render.LinkStroke at render.LinkStrokeOpacity in RGBA form.
	linkColor = "#99999999"

	// captionGlyph approximates the width of one label glyph in canvas units.
	captionGlyph = 7.5
)

// Options configures DOT generation.
type Options struct {
	// Labels prints each node ID as an external label.
	Labels bool

	// Width and Height bound the drawing in canvas units.
	Width  float64
	Height float64

	// Heading and Caption become the graph label above the drawing. The
	// caption is wrapped to the drawing width.
	Heading string
	Caption string
}

// ToDOT converts a graph to Graphviz DOT source for the neato engine.
func ToDOT(g *graph.Graph, opts Options) string {
	if opts.Width <= 0 {
		opts.Width = force.DefaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = force.DefaultHeight
	}
	res := graph.Resolve(g)

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  overlap=false;\n")
	buf.WriteString("  outputorder=edgesfirst;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	fmt.Fprintf(&buf, "  size=\"%s,%s\";\n", inches(opts.Width), inches(opts.Height))
	if label := graphLabel(opts); label != "" {
		fmt.Fprintf(&buf, "  label=%q;\n  labelloc=t;\n  fontname=\"sans-serif\";\n", label)
	}
	fmt.Fprintf(&buf, "  node [shape=circle, style=filled, fixedsize=true, width=%s, color=%q, penwidth=%.1f, label=\"\"];\n",
		inches(2*render.NodeRadius), render.NodeStroke, render.NodeStrokeWidth)
	fmt.Fprintf(&buf, "  edge [arrowhead=none, color=%q, penwidth=%.0f, len=%s];\n",
		linkColor, render.LinkStrokeWidth, inches(force.DefaultLinkDistance))
	buf.WriteString("\n")

	for _, n := range res.Graph.Nodes {
		fmt.Fprintf(&buf, "  %q [fillcolor=%q, tooltip=%q", n.ID, n.Color(), n.ID)
		if opts.Labels {
			fmt.Fprintf(&buf, ", xlabel=%q", n.ID)
		}
		buf.WriteString("];\n")
	}

	buf.WriteString("\n")
	for _, l := range res.Graph.Links {
		fmt.Fprintf(&buf, "  %q -> %q;\n", l.Source, l.Target)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// graphLabel joins heading and wrapped caption lines. Quoted with %q the
// newlines become \n, a centred line break in Graphviz.
func graphLabel(opts Options) string {
	var lines []string
	if opts.Heading != "" {
		lines = append(lines, opts.Heading)
	}
	lines = append(lines, render.WrapText(opts.Caption, int(opts.Width/captionGlyph))...)
	return strings.Join(lines, "\n")
}

func inches(v float64) string {
	return strconv.FormatFloat(v/pointsPerInch, 'f', 3, 64)
}

// RenderSVG lays out and renders DOT source with neato.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's root element, which carries point
// units and a transform-dependent size, with a plain pixel-sized one.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
