package force

import "math"

// force mutates body velocities (or positions) for one tick at the given alpha.
type force interface {
	apply(bodies []*body, alpha float64)
}

// body is the mutable per-node state of a simulation.
type body struct {
	id     string
	x, y   float64
	vx, vy float64
	pinned bool
	fx, fy float64
}

// =============================================================================
// Link force
// =============================================================================

type spring struct {
	source, target *body
	strength       float64
	bias           float64
}

type linkForce struct {
	springs  []spring
	distance float64
	jiggle   func() float64
}

// newLinkForce builds springs for resolved index pairs. Strength is the
// inverse of the smaller endpoint degree so hubs are not pulled apart; bias
// moves the lower-degree endpoint more.
func newLinkForce(bodies []*body, pairs [][2]int, distance float64, jiggle func() float64) *linkForce {
	count := make([]int, len(bodies))
	for _, p := range pairs {
		count[p[0]]++
		count[p[1]]++
	}

	f := &linkForce{distance: distance, jiggle: jiggle}
	for _, p := range pairs {
		cs, ct := float64(count[p[0]]), float64(count[p[1]])
		f.springs = append(f.springs, spring{
			source:   bodies[p[0]],
			target:   bodies[p[1]],
			strength: 1 / math.Min(cs, ct),
			bias:     cs / (cs + ct),
		})
	}
	return f
}

func (f *linkForce) apply(_ []*body, alpha float64) {
	for _, s := range f.springs {
		x := s.target.x + s.target.vx - s.source.x - s.source.vx
		if x == 0 {
			x = f.jiggle()
		}
		y := s.target.y + s.target.vy - s.source.y - s.source.vy
		if y == 0 {
			y = f.jiggle()
		}
		l := math.Sqrt(x*x + y*y)
		l = (l - f.distance) / l * alpha * s.strength
		x *= l
		y *= l
		s.target.vx -= x * s.bias
		s.target.vy -= y * s.bias
		s.source.vx += x * (1 - s.bias)
		s.source.vy += y * (1 - s.bias)
	}
}

// =============================================================================
// Many-body (charge) force
// =============================================================================

// chargeForce applies pairwise charge. The graphs shown here are small, so
// all pairs are evaluated directly instead of through a quadtree.
type chargeForce struct {
	strength     float64
	distanceMin2 float64
	jiggle       func() float64
}

func (f *chargeForce) apply(bodies []*body, alpha float64) {
	for _, b := range bodies {
		for _, o := range bodies {
			if o == b {
				continue
			}
			x := o.x - b.x
			y := o.y - b.y
			l := x*x + y*y
			if x == 0 {
				x = f.jiggle()
				l += x * x
			}
			if y == 0 {
				y = f.jiggle()
				l += y * y
			}
			if l < f.distanceMin2 {
				l = math.Sqrt(f.distanceMin2 * l)
			}
			w := f.strength * alpha / l
			b.vx += x * w
			b.vy += y * w
		}
	}
}

// =============================================================================
// Center force
// =============================================================================

type centerForce struct {
	x, y float64
}

func (f *centerForce) apply(bodies []*body, _ float64) {
	if len(bodies) == 0 {
		return
	}
	var sx, sy float64
	for _, b := range bodies {
		sx += b.x
		sy += b.y
	}
	sx = sx/float64(len(bodies)) - f.x
	sy = sy/float64(len(bodies)) - f.y
	for _, b := range bodies {
		b.x -= sx
		b.y -= sy
	}
}

// =============================================================================
// Bounds
// =============================================================================

// bounds clamps positions into [min, max] after integration.
// Pinned nodes are clamped too so a pointer dragged off-canvas cannot take
// a node with it.
type bounds struct {
	minX, minY, maxX, maxY float64
}

func (b bounds) clamp(n *body) {
	if n.x < b.minX {
		n.x, n.vx = b.minX, 0
	} else if n.x > b.maxX {
		n.x, n.vx = b.maxX, 0
	}
	if n.y < b.minY {
		n.y, n.vy = b.minY, 0
	} else if n.y > b.maxY {
		n.y, n.vy = b.maxY, 0
	}
}
