package graph

// =============================================================================
// Constants
// =============================================================================

// Display groups. Any other group value renders with the default color.
const (
	GroupOrigin = 1
	GroupPath   = 2
	GroupSync   = 3
)

// Render colors, one per group.
const (
	ColorGreen = "#22c55e"
	ColorBlue  = "#3b82f6"
	ColorRed   = "#f43f5e"
)

// =============================================================================
// Graph
// =============================================================================

// Graph is a set of nodes and the directed links between them.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Links []Link `json:"links"`
}

// Node is a labeled point in the graph belonging to a display group.
type Node struct {
	ID    string `json:"id"`
	Group int    `json:"group"`
}

// Color returns the fill color for the node's group.
func (n Node) Color() string { return GroupColor(n.Group) }

// Link is a directed connection between two node IDs.
type Link struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// GroupColor maps a display group to its render color:
// green for sync nodes, blue for paths, red for everything else.
func GroupColor(group int) string {
	switch group {
	case GroupSync:
		return ColorGreen
	case GroupPath:
		return ColorBlue
	default:
		return ColorRed
	}
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.Nodes) }

// LinkCount returns the number of links.
func (g *Graph) LinkCount() int { return len(g.Links) }

// Node looks up a node by ID.
func (g *Graph) Node(id string) (Node, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// Clone returns a deep copy of g. The copy is equal to g but has a different
// identity, which makes a holder rebuild its layout.
func (g *Graph) Clone() *Graph {
	out := &Graph{
		Nodes: make([]Node, len(g.Nodes)),
		Links: make([]Link, len(g.Links)),
	}
	copy(out.Nodes, g.Nodes)
	copy(out.Links, g.Links)
	return out
}

// =============================================================================
// Seed
// =============================================================================

// Seed returns a new copy of the fixed start-up graph.
func Seed() *Graph {
	return &Graph{
		Nodes: []Node{
			{ID: "you", Group: GroupOrigin},
			{ID: "me", Group: GroupOrigin},
			{ID: "path1", Group: GroupPath},
			{ID: "path2", Group: GroupPath},
			{ID: "sync", Group: GroupSync},
		},
		Links: []Link{
			{Source: "you", Target: "path1"},
			{Source: "me", Target: "path2"},
			{Source: "path1", Target: "sync"},
			{Source: "path2", Target: "sync"},
		},
	}
}
