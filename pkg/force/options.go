package force

import (
	"math"
	"math/rand/v2"

	"github.com/charmbracelet/log"
)

// Defaults match the force parameters of the reference browser layout.
const (
	DefaultWidth         = 600.0
	DefaultHeight        = 400.0
	DefaultRadius        = 12.0
	DefaultLinkDistance  = 100.0
	DefaultCharge        = -300.0
	DefaultVelocityDecay = 0.4
	DefaultAlphaMin      = 0.001

	// DragAlphaTarget is the temperature a drag gesture holds the layout at.
	DragAlphaTarget = 0.3
)

// DefaultAlphaDecay cools alpha from 1 to DefaultAlphaMin in 300 ticks.
var DefaultAlphaDecay = 1 - math.Pow(DefaultAlphaMin, 1.0/300)

// Options configures a Simulation. Zero fields take their defaults.
type Options struct {
	// Canvas
	Width  float64 // default 600
	Height float64 // default 400
	Radius float64 // node radius used by the bounds force, default 12

	// Forces
	LinkDistance  float64 // default 100
	Charge        float64 // default -300, negative repels
	VelocityDecay float64 // fraction of velocity lost per tick, default 0.4

	// Cooling
	AlphaMin   float64 // default 0.001
	AlphaDecay float64 // default 1 - 0.001^(1/300)

	// NoBounds disables the bounds force.
	NoBounds bool

	// Rand drives the jiggle applied to coincident nodes.
	// A nil Rand uses a randomly seeded source.
	Rand *rand.Rand

	// Logger receives debug messages about skipped links.
	Logger *log.Logger
}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	if o.Radius <= 0 {
		o.Radius = DefaultRadius
	}
	if o.LinkDistance <= 0 {
		o.LinkDistance = DefaultLinkDistance
	}
	if o.Charge == 0 {
		o.Charge = DefaultCharge
	}
	if o.VelocityDecay <= 0 || o.VelocityDecay >= 1 {
		o.VelocityDecay = DefaultVelocityDecay
	}
	if o.AlphaMin <= 0 {
		o.AlphaMin = DefaultAlphaMin
	}
	if o.AlphaDecay <= 0 || o.AlphaDecay >= 1 {
		o.AlphaDecay = DefaultAlphaDecay
	}
	if o.Rand == nil {
		o.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}
	return o
}
