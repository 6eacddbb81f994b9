package view

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/reasongraph/pkg/drag"
	apperr "github.com/matzehuels/reasongraph/pkg/errors"
	"github.com/matzehuels/reasongraph/pkg/force"
	"github.com/matzehuels/reasongraph/pkg/graph"
	"github.com/matzehuels/reasongraph/pkg/observability"
	"github.com/matzehuels/reasongraph/pkg/render"
)

// Option configures a Component.
type Option func(*Component)

// WithForceOptions sets the simulation options used for every graph.
func WithForceOptions(opts force.Options) Option {
	return func(c *Component) { c.forceOpts = opts }
}

// WithFrameInterval sets how often the frame loop ticks. Zero disables the
// loop.
func WithFrameInterval(d time.Duration) Option {
	return func(c *Component) { c.interval = d }
}

// WithLogger sets the logger. The default is log.Default().
func WithLogger(l *log.Logger) Option {
	return func(c *Component) { c.logger = l }
}

// WithInitialGraph replaces the seed graph installed by Mount.
func WithInitialGraph(g *graph.Graph) Option {
	return func(c *Component) { c.initial = g }
}

// Listener receives rendered frames.
type Listener func(render.Frame)

// Component is the graph state holder.
type Component struct {
	forceOpts force.Options
	interval  time.Duration
	logger    *log.Logger
	initial   *graph.Graph

	mu        sync.Mutex
	graph     *graph.Graph
	sim       *force.Simulation
	scene     *render.Scene
	drags     *drag.Controller
	mounted   bool
	settled   bool
	heatedAt  time.Time
	listeners map[int]Listener
	nextID    int

	// emitMu serializes listener calls and lets Unmount wait for them.
	emitMu sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates an unmounted component.
func New(opts ...Option) *Component {
	c := &Component{listeners: make(map[int]Listener)}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = log.Default()
	}
	if c.forceOpts.Logger == nil {
		c.forceOpts.Logger = c.logger
	}
	if c.initial == nil {
		c.initial = graph.Seed()
	}
	return c
}

// Mount installs the initial graph and starts the frame loop. The loop
// stops when ctx is done or Unmount is called.
func (c *Component) Mount(ctx context.Context) error {
	c.mu.Lock()
	if c.mounted {
		c.mu.Unlock()
		return apperr.New(apperr.ErrCodeInvalidInput, "component already mounted")
	}
	c.mounted = true
	c.setGraphLocked(ctx, c.initial)

	loopCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.mu.Unlock()

	if c.interval > 0 {
		c.wg.Add(1)
		go c.loop(loopCtx)
	}
	c.logger.Debug("component mounted", "interval", c.interval)
	return nil
}

// Unmount stops the frame loop and waits for it to exit. No listener is
// called after Unmount returns.
func (c *Component) Unmount() {
	c.mu.Lock()
	if !c.mounted {
		c.mu.Unlock()
		return
	}
	c.mounted = false
	cancel := c.cancel
	c.cancel = nil
	c.mu.Unlock()

	cancel()
	c.wg.Wait()
	c.emitMu.Lock()
	c.emitMu.Unlock()

	c.mu.Lock()
	if c.drags != nil {
		c.drags.Cancel()
	}
	clear(c.listeners)
	c.mu.Unlock()
	c.logger.Debug("component unmounted")
}

// Mounted reports whether the component is between Mount and Unmount.
func (c *Component) Mounted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mounted
}

func (c *Component) loop(ctx context.Context) {
	defer c.wg.Done()
	t := time.NewTicker(c.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			c.tick(ctx)
		}
	}
}

// SetGraph replaces the rendered graph. Passing the current value is a
// no-op; any other value clears the scene, resets every position, cancels
// active drags and restarts the layout.
func (c *Component) SetGraph(g *graph.Graph) error {
	if g == nil {
		return apperr.New(apperr.ErrCodeInvalidInput, "graph is nil")
	}
	c.mu.Lock()
	if !c.mounted {
		c.mu.Unlock()
		return apperr.New(apperr.ErrCodeInvalidInput, "component is not mounted")
	}
	if g == c.graph {
		c.mu.Unlock()
		return nil
	}
	c.setGraphLocked(context.Background(), g)
	frame, listeners := c.scene.Frame(), c.listenersLocked()
	c.mu.Unlock()

	c.emit(listeners, frame)
	return nil
}

// Refresh installs a fresh copy of the seed graph.
func (c *Component) Refresh() error {
	return c.SetGraph(graph.Seed())
}

func (c *Component) setGraphLocked(ctx context.Context, g *graph.Graph) {
	if c.drags != nil {
		c.drags.Cancel()
	}
	opts := c.forceOpts
	c.graph = g
	c.sim = force.New(g, opts)
	if c.scene == nil {
		c.scene = render.NewScene(c.canvas())
	}
	res := c.scene.Build(g)
	c.scene.Sync(c.sim.Positions())
	c.drags = drag.New(c.sim)
	c.settled = false
	c.heatedAt = time.Now()

	skipped := len(res.DroppedLinks) + len(res.DroppedNodes)
	observability.Layout().OnGraphSet(ctx, len(res.Graph.Nodes), len(res.Graph.Links), skipped)
	c.logger.Debug("graph set", "nodes", len(res.Graph.Nodes), "links", len(res.Graph.Links), "skipped", skipped)
}

func (c *Component) canvas() (float64, float64) {
	w, h := c.forceOpts.Width, c.forceOpts.Height
	if w <= 0 {
		w = force.DefaultWidth
	}
	if h <= 0 {
		h = force.DefaultHeight
	}
	return w, h
}

// Graph returns the current graph value.
func (c *Component) Graph() *graph.Graph {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.graph
}

// =============================================================================
// Frames
// =============================================================================

// Tick advances the layout by one frame and notifies listeners. It reports
// false when the layout is at rest or the component is not mounted.
func (c *Component) Tick() bool {
	return c.tick(context.Background())
}

func (c *Component) tick(ctx context.Context) bool {
	c.mu.Lock()
	if !c.mounted || !c.sim.Step() {
		c.mu.Unlock()
		return false
	}
	c.scene.Sync(c.sim.Positions())
	if !c.sim.Running() && !c.settled {
		c.settled = true
		observability.Layout().OnSettled(ctx, c.sim.Ticks(), time.Since(c.heatedAt))
		c.logger.Debug("layout settled", "ticks", c.sim.Ticks(), "alpha", c.sim.Alpha())
	}
	frame, listeners := c.scene.Frame(), c.listenersLocked()
	c.mu.Unlock()

	c.emit(listeners, frame)
	return true
}

// Settle ticks until the layout rests, maxTicks is reached (if positive) or
// ctx is done. It returns the number of ticks taken.
func (c *Component) Settle(ctx context.Context, maxTicks int) (int, error) {
	n := 0
	for maxTicks <= 0 || n < maxTicks {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		if !c.tick(ctx) {
			break
		}
		n++
	}
	return n, nil
}

// Running reports whether the layout is still moving.
func (c *Component) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sim != nil && c.sim.Running()
}

// Frame returns a snapshot of the rendered elements.
func (c *Component) Frame() render.Frame {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.scene == nil {
		w, h := c.canvas()
		return render.NewScene(w, h).Frame()
	}
	return c.scene.Frame()
}

// SVG returns the current drawing as SVG markup.
func (c *Component) SVG(opts ...render.SVGOption) []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.scene == nil {
		w, h := c.canvas()
		return render.NewScene(w, h).SVG(opts...)
	}
	return c.scene.SVG(opts...)
}

// WriteSVG writes the current drawing to w.
func (c *Component) WriteSVG(w io.Writer, opts ...render.SVGOption) error {
	_, err := w.Write(c.SVG(opts...))
	return err
}

// Positions returns the layout state of every node.
func (c *Component) Positions() map[string]force.Position {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sim == nil {
		return map[string]force.Position{}
	}
	return c.sim.Positions()
}

// HitTest returns the node drawn at (x, y), allowing slop extra units.
func (c *Component) HitTest(x, y, slop float64) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.scene == nil {
		return "", false
	}
	return c.scene.HitTest(x, y, slop)
}

// OnFrame registers fn to receive every frame and returns a function that
// removes it. Listeners run on the goroutine that produced the frame and
// must not call back into the component.
func (c *Component) OnFrame(fn Listener) (remove func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.listeners, id)
	}
}

func (c *Component) listenersLocked() []Listener {
	out := make([]Listener, 0, len(c.listeners))
	for _, fn := range c.listeners {
		out = append(out, fn)
	}
	return out
}

func (c *Component) emit(listeners []Listener, f render.Frame) {
	c.emitMu.Lock()
	defer c.emitMu.Unlock()
	for _, fn := range listeners {
		fn(f)
	}
}
