// Package pkg holds the reusable libraries behind reasongraph.
//
// # Overview
//
// Reasongraph draws a small graph of reasoning nodes with a force-directed
// layout and keeps the drawing live while nodes are dragged. The packages
// split along the same lines as the running component:
//
//  1. [graph] - Nodes, links, the built-in seed graph and JSON I/O
//  2. [force] - The iterative force simulation that owns node positions
//  3. [render] - Circles and lines for one graph, SVG output, PNG/PDF conversion
//  4. [drag] - Per-node drag state that pins nodes and reheats the layout
//  5. [view] - The component tying the four together behind mount and teardown
//
// Around the component sit [live] (HTTP page and websocket stream),
// [pipeline] (headless layout and render with caching), [cache],
// [errors], [observability] and [buildinfo].
//
// # Data Flow
//
//	graph.Graph
//	     ↓
//	view.Component.SetGraph ── render.Scene.Build (one element per node and link)
//	     ↓
//	force.Simulation.Tick ── every frame until alpha < alphaMin
//	     ↓
//	render.Scene.Sync ── SVG, websocket frames, terminal grid
//
// # Quick Start
//
//	comp := view.New(view.WithFrameInterval(16 * time.Millisecond))
//	if err := comp.Mount(ctx); err != nil {
//	    return err
//	}
//	defer comp.Unmount()
//
//	comp.Settle(ctx, 1000)
//	svg := comp.SVG()
//
// Headless renders with caching go through [pipeline.Runner]:
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, nil)
//	result, err := runner.Execute(ctx, graph.Seed(), pipeline.Options{
//	    Formats: []string{pipeline.FormatSVG},
//	    Seed:    42,
//	})
package pkg
