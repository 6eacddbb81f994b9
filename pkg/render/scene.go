package render

import (
	"github.com/matzehuels/reasongraph/pkg/force"
	"github.com/matzehuels/reasongraph/pkg/graph"
)

// Element styling shared by every output.
const (
	NodeRadius        = 12.0
	NodeStroke        = "#fff"
	NodeStrokeWidth   = 1.5
	LinkStroke        = "#999"
	LinkStrokeOpacity = 0.6
	LinkStrokeWidth   = 2.0
)

// Circle is the visual element for one node.
type Circle struct {
	ID   string  `json:"id"`
	CX   float64 `json:"cx"`
	CY   float64 `json:"cy"`
	R    float64 `json:"r"`
	Fill string  `json:"fill"`
}

// Line is the visual element for one link.
type Line struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	X1     float64 `json:"x1"`
	Y1     float64 `json:"y1"`
	X2     float64 `json:"x2"`
	Y2     float64 `json:"y2"`
}

// Scene is the drawing surface content for one graph.
// It is not safe for concurrent use.
type Scene struct {
	Width   float64
	Height  float64
	Circles []Circle
	Lines   []Line

	index      map[string]int
	generation int
}

// NewScene creates an empty drawing surface.
func NewScene(width, height float64) *Scene {
	return &Scene{Width: width, Height: height, index: map[string]int{}}
}

// Build clears the surface and creates elements for g. Malformed links and
// duplicate nodes are left out; the returned resolution says which.
func (s *Scene) Build(g *graph.Graph) graph.Resolution {
	res := graph.Resolve(g)

	s.Circles = make([]Circle, 0, len(res.Graph.Nodes))
	s.Lines = make([]Line, 0, len(res.Graph.Links))
	s.index = make(map[string]int, len(res.Graph.Nodes))
	s.generation++

	for i, n := range res.Graph.Nodes {
		s.index[n.ID] = i
		s.Circles = append(s.Circles, Circle{
			ID:   n.ID,
			R:    NodeRadius,
			Fill: n.Color(),
		})
	}
	for _, l := range res.Graph.Links {
		s.Lines = append(s.Lines, Line{Source: l.Source, Target: l.Target})
	}
	return res
}

// Sync moves every element to the given positions. Elements without a
// position keep their previous coordinates.
func (s *Scene) Sync(positions map[string]force.Position) {
	for i := range s.Circles {
		if p, ok := positions[s.Circles[i].ID]; ok {
			s.Circles[i].CX, s.Circles[i].CY = p.X, p.Y
		}
	}
	for i := range s.Lines {
		l := &s.Lines[i]
		if p, ok := positions[l.Source]; ok {
			l.X1, l.Y1 = p.X, p.Y
		}
		if p, ok := positions[l.Target]; ok {
			l.X2, l.Y2 = p.X, p.Y
		}
	}
}

// Circle returns the element for a node.
func (s *Scene) Circle(id string) (Circle, bool) {
	i, ok := s.index[id]
	if !ok {
		return Circle{}, false
	}
	return s.Circles[i], true
}

// Generation counts Build calls. It changes exactly when the surface was
// cleared and rebuilt.
func (s *Scene) Generation() int { return s.generation }

// HitTest returns the topmost node whose circle, grown by slop, contains
// (x, y). Later circles are drawn on top.
func (s *Scene) HitTest(x, y, slop float64) (string, bool) {
	for i := len(s.Circles) - 1; i >= 0; i-- {
		c := s.Circles[i]
		dx, dy := x-c.CX, y-c.CY
		r := c.R + slop
		if dx*dx+dy*dy <= r*r {
			return c.ID, true
		}
	}
	return "", false
}

// Frame is a serializable snapshot of a scene.
type Frame struct {
	Generation int      `json:"generation"`
	Width      float64  `json:"width"`
	Height     float64  `json:"height"`
	Circles    []Circle `json:"circles"`
	Lines      []Line   `json:"lines"`
}

// Frame returns a copy of the current elements.
func (s *Scene) Frame() Frame {
	f := Frame{
		Generation: s.generation,
		Width:      s.Width,
		Height:     s.Height,
		Circles:    make([]Circle, len(s.Circles)),
		Lines:      make([]Line, len(s.Lines)),
	}
	copy(f.Circles, s.Circles)
	copy(f.Lines, s.Lines)
	return f
}
