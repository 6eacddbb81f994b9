// Package live serves a [view.Component] over HTTP.
//
// The page at / shows the graph as inline SVG and keeps it moving by
// subscribing to /ws, which streams every rendered frame as JSON. Pointer
// drags in the browser travel back over the same socket. New graph values
// can be pushed with PUT /api/graph, which is how an external feed replaces
// the seed.
//
// # Routes
//
//	GET  /             page with heading, graph card, caption and refresh button
//	GET  /graph.svg    current drawing
//	GET  /api/graph    current graph as JSON
//	PUT  /api/graph    replace the graph (malformed links are skipped)
//	POST /api/refresh  reinstall the seed graph
//	GET  /ws           frame stream and drag events
//	GET  /healthz      liveness and build information
//
// # Socket messages
//
// Server to client:
//
//	{"type":"frame","frame":{"generation":1,"width":600,...}}
//	{"type":"error","code":"NODE_BUSY","message":"..."}
//
// Client to server:
//
//	{"type":"dragstart","id":"sync","x":310,"y":200}
//	{"type":"drag","id":"sync","x":320,"y":210}
//	{"type":"dragend","id":"sync"}
//	{"type":"refresh"}
package live
