// Package graph defines the reasoning graph data model and its wire format.
//
// A [Graph] is an immutable value: a set of [Node] values, unique by ID and
// tagged with a display group, and a set of directed [Link] values between
// node IDs. Positions are not part of the graph; the layout engine in
// pkg/force owns them, keyed by node ID.
//
// # Seed
//
// [Seed] returns a fresh copy of the fixed five-node graph shown at start-up:
// two paths ("you" → "path1", "me" → "path2") converging on "sync".
//
// # Validation
//
// Two levels of checking are provided:
//
//   - [Validate] is strict and reports every problem (empty or duplicate IDs,
//     links with unknown endpoints). Use it at input boundaries.
//   - [Resolve] is lenient: it keeps the first node for each ID and drops
//     links whose endpoints do not resolve, reporting what it dropped. The
//     layout and render steps use it so a malformed graph degrades instead
//     of failing.
//
// # Serialization
//
// Graphs use the node-link JSON format common to browser force layouts:
//
//	{
//	  "nodes": [{"id": "you", "group": 1}, {"id": "sync", "group": 3}],
//	  "links": [{"source": "you", "target": "sync"}]
//	}
//
// Common operations:
//
//	g, _ := graph.ReadGraphFile("graph.json")
//	graph.WriteGraphFile(g, "output.json")
//	data, _ := graph.MarshalGraph(g)
//	parsed, _ := graph.UnmarshalGraph(data)
//
// # Concurrency
//
// Graph values are not mutated by this module after construction and are safe
// to share between goroutines.
package graph
