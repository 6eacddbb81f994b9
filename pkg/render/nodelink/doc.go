// Package nodelink renders reasoning graphs with Graphviz's force-directed
// neato engine.
//
// # Overview
//
// This is a static alternative to the built-in simulation: the graph is
// converted to DOT with the same circle sizes, colors and link distance, and
// Graphviz computes the layout and the SVG in-process.
//
//	dot := nodelink.ToDOT(g, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Options
//
//   - Labels: print node IDs next to the circles instead of tooltip-only
//   - Width, Height: canvas the drawing is scaled to fit (600x400 by default)
//
// # Malformed Graphs
//
// Links with an unknown endpoint are left out of the DOT source, matching
// the behaviour of the built-in renderer.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process rendering.
package nodelink
