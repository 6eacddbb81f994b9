package force

import (
	"context"
	"math"

	apperr "github.com/matzehuels/reasongraph/pkg/errors"
	"github.com/matzehuels/reasongraph/pkg/graph"
)

const (
	initialRadius = 10.0
	jiggleScale   = 1e-6
)

// initialAngle spaces the start-up spiral by the golden angle.
var initialAngle = math.Pi * (3 - math.Sqrt(5))

// Position is a snapshot of one node's layout state.
type Position struct {
	X, Y   float64
	VX, VY float64

	// Pinned nodes are held at (FX, FY).
	Pinned bool
	FX, FY float64
}

// Simulation is a force-directed layout of one graph.
type Simulation struct {
	opts    Options
	bodies  []*body
	index   map[string]int
	forces  []force
	bounds  *bounds
	skipped []graph.Link

	alpha         float64
	alphaTarget   float64
	alphaMin      float64
	alphaDecay    float64
	velocityDecay float64

	running bool
	ticks   int
}

// New creates a running simulation for g. Nodes start on a spiral around
// the canvas midpoint. Duplicate nodes and links with unknown endpoints are
// skipped.
func New(g *graph.Graph, opts Options) *Simulation {
	opts = opts.withDefaults()
	res := graph.Resolve(g)

	s := &Simulation{
		opts:          opts,
		index:         make(map[string]int, len(res.Graph.Nodes)),
		skipped:       res.DroppedLinks,
		alpha:         1,
		alphaMin:      opts.AlphaMin,
		alphaDecay:    opts.AlphaDecay,
		velocityDecay: 1 - opts.VelocityDecay,
		running:       true,
	}

	cx, cy := opts.Width/2, opts.Height/2
	for i, n := range res.Graph.Nodes {
		r := initialRadius * math.Sqrt(0.5+float64(i))
		a := float64(i) * initialAngle
		s.index[n.ID] = i
		s.bodies = append(s.bodies, &body{
			id: n.ID,
			x:  cx + r*math.Cos(a),
			y:  cy + r*math.Sin(a),
		})
	}

	for _, l := range s.skipped {
		opts.Logger.Debug("skipping link with unknown endpoint", "source", l.Source, "target", l.Target)
	}

	pairs := make([][2]int, 0, len(res.Graph.Links))
	for _, l := range res.Graph.Links {
		pairs = append(pairs, [2]int{s.index[l.Source], s.index[l.Target]})
	}

	s.forces = []force{
		newLinkForce(s.bodies, pairs, opts.LinkDistance, s.jiggle),
		&chargeForce{strength: opts.Charge, distanceMin2: 1, jiggle: s.jiggle},
		&centerForce{x: cx, y: cy},
	}
	if !opts.NoBounds {
		s.bounds = &bounds{
			minX: opts.Radius,
			minY: opts.Radius,
			maxX: opts.Width - opts.Radius,
			maxY: opts.Height - opts.Radius,
		}
	}
	return s
}

func (s *Simulation) jiggle() float64 {
	return (s.opts.Rand.Float64() - 0.5) * jiggleScale
}

// =============================================================================
// Stepping
// =============================================================================

// Tick advances the layout by one iteration regardless of temperature.
func (s *Simulation) Tick() {
	s.alpha += (s.alphaTarget - s.alpha) * s.alphaDecay

	for _, f := range s.forces {
		f.apply(s.bodies, s.alpha)
	}

	for _, b := range s.bodies {
		if b.pinned {
			b.x, b.vx = b.fx, 0
			b.y, b.vy = b.fy, 0
		} else {
			b.vx *= s.velocityDecay
			b.vy *= s.velocityDecay
			b.x += b.vx
			b.y += b.vy
		}
		if s.bounds != nil {
			s.bounds.clamp(b)
		}
	}
	s.ticks++
}

// Step ticks once if the simulation is running and stops it when alpha
// falls below alphaMin. It reports whether a tick happened.
func (s *Simulation) Step() bool {
	if !s.running {
		return false
	}
	s.Tick()
	if s.alpha < s.alphaMin {
		s.running = false
	}
	return true
}

// Run steps until the simulation stops, maxTicks is reached (if positive)
// or ctx is done. It returns the number of ticks taken.
func (s *Simulation) Run(ctx context.Context, maxTicks int) (int, error) {
	n := 0
	for s.running && (maxTicks <= 0 || n < maxTicks) {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		s.Step()
		n++
	}
	return n, nil
}

// Restart resumes stepping at the current alpha.
func (s *Simulation) Restart() { s.running = true }

// Stop halts stepping until Restart.
func (s *Simulation) Stop() { s.running = false }

// Running reports whether Step will tick.
func (s *Simulation) Running() bool { return s.running }

// Alpha returns the current temperature.
func (s *Simulation) Alpha() float64 { return s.alpha }

// SetAlpha sets the current temperature.
func (s *Simulation) SetAlpha(a float64) { s.alpha = a }

// AlphaTarget returns the temperature alpha decays toward.
func (s *Simulation) AlphaTarget() float64 { return s.alphaTarget }

// SetAlphaTarget sets the temperature alpha decays toward.
func (s *Simulation) SetAlphaTarget(t float64) { s.alphaTarget = t }

// Ticks returns the number of ticks since creation.
func (s *Simulation) Ticks() int { return s.ticks }

// =============================================================================
// Positions
// =============================================================================

// Pin fixes a node at (x, y) until Unpin.
func (s *Simulation) Pin(id string, x, y float64) error {
	b, err := s.body(id)
	if err != nil {
		return err
	}
	b.pinned, b.fx, b.fy = true, x, y
	return nil
}

// Unpin releases a pinned node back to the forces.
func (s *Simulation) Unpin(id string) error {
	b, err := s.body(id)
	if err != nil {
		return err
	}
	b.pinned, b.fx, b.fy = false, 0, 0
	return nil
}

// Position returns the layout state of a node.
func (s *Simulation) Position(id string) (Position, bool) {
	i, ok := s.index[id]
	if !ok {
		return Position{}, false
	}
	return s.bodies[i].position(), true
}

// Positions returns a copy of every node's layout state keyed by ID.
func (s *Simulation) Positions() map[string]Position {
	out := make(map[string]Position, len(s.bodies))
	for _, b := range s.bodies {
		out[b.id] = b.position()
	}
	return out
}

// Has reports whether id is a node of the simulation.
func (s *Simulation) Has(id string) bool {
	_, ok := s.index[id]
	return ok
}

// NodeCount returns the number of laid out nodes.
func (s *Simulation) NodeCount() int { return len(s.bodies) }

// Skipped returns links that were ignored because an endpoint is unknown.
func (s *Simulation) Skipped() []graph.Link { return s.skipped }

func (s *Simulation) body(id string) (*body, error) {
	i, ok := s.index[id]
	if !ok {
		return nil, apperr.New(apperr.ErrCodeNodeNotFound, "unknown node %q", id)
	}
	return s.bodies[i], nil
}

func (b *body) position() Position {
	return Position{
		X: b.x, Y: b.y,
		VX: b.vx, VY: b.vy,
		Pinned: b.pinned,
		FX:     b.fx, FY: b.fy,
	}
}
