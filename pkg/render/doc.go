// Package render draws a laid-out reasoning graph.
//
// # Scene
//
// A [Scene] holds one circle per node and one line per link. It is rebuilt
// from scratch by [Scene.Build] whenever a new graph arrives, and its
// coordinates are refreshed from the layout engine on every tick by
// [Scene.Sync]. Rebuilding clears all elements; syncing never adds or
// removes any.
//
//	scene := render.NewScene(600, 400)
//	scene.Build(g)
//	scene.Sync(sim.Positions())
//	svg := scene.SVG()
//
// Links whose endpoints are not nodes of the graph are skipped during Build.
//
// # Output
//
// [Scene.WriteSVG] writes an inline SVG document; [Scene.Frame] returns the
// same elements as a JSON-friendly [Frame] for streaming clients.
//
// # Format Conversion
//
// [ToPDF] and [ToPNG] convert SVG bytes with the external rsvg-convert tool
// (from librsvg).
//
// # Node-Link Diagrams
//
// The [nodelink] subpackage lays the graph out with Graphviz's neato engine
// instead of the built-in simulation, for static output.
//
// [nodelink]: github.com/matzehuels/reasongraph/pkg/render/nodelink
package render
