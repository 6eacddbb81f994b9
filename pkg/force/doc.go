// Package force implements an iterative force-directed layout engine.
//
// A [Simulation] assigns every node of a graph.Graph a [Position] and moves
// the positions each [Simulation.Tick] under four forces:
//
//   - link: pulls linked nodes toward a fixed distance (100 by default)
//   - charge: pushes every pair of nodes apart (strength -300 by default)
//   - center: translates the whole layout so its mean sits at the canvas midpoint
//   - bounds: keeps node circles inside the canvas
//
// The simulation has a temperature, alpha, that starts at 1 and decays toward
// a target (0 by default) over roughly 300 ticks. Once alpha drops below
// alphaMin the simulation stops; [Simulation.Step] then does nothing until
// [Simulation.Restart]. Raising the target with [Simulation.SetAlphaTarget]
// keeps the layout warm, which is how a drag gesture "reheats" it.
//
// # Positions
//
// Positions are owned by the simulation and keyed by node ID. They are
// separate from the immutable graph: a new graph means a new simulation.
// A pinned node ([Simulation.Pin]) stays at its fixed coordinates and has
// zero velocity until [Simulation.Unpin].
//
// # Determinism
//
// Initial placement is a fixed spiral. Randomness only enters through the tiny
// jiggle that separates coincident nodes, so a layout that never has two nodes
// on the same point is reproducible even without [Options.Rand]. Set Rand to
// make every layout reproducible.
//
// # Malformed Graphs
//
// Links whose endpoints are not nodes of the graph are skipped and reported
// by [Simulation.Skipped]; they never cause a panic.
//
// # Concurrency
//
// A Simulation is not safe for concurrent use. The owner serializes access.
package force
