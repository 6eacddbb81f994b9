// Package view holds the live state of one rendered graph.
//
// A [Component] owns the current [graph.Graph] value, the force simulation
// laying it out, the scene drawing it, and the drag controller acting on it.
// Every surface of the module (headless rendering, the terminal viewer, the
// HTTP server) drives the same component:
//
//	c := view.New(view.WithFrameInterval(16 * time.Millisecond))
//	if err := c.Mount(ctx); err != nil {
//	    return err
//	}
//	defer c.Unmount()
//
//	c.OnFrame(func(f render.Frame) { ... })
//	c.SetGraph(next) // rebuilds layout and scene
//
// Mount installs the seed graph and starts the frame loop. With a zero frame
// interval no loop runs and the owner calls [Component.Tick] itself.
//
// All methods are safe for concurrent use. They serialize on one mutex, so
// the frame loop, drag events and graph updates never interleave.
package view
