package force

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	apperr "github.com/matzehuels/reasongraph/pkg/errors"
	"github.com/matzehuels/reasongraph/pkg/graph"
)

func seeded() Options {
	return Options{Rand: rand.New(rand.NewPCG(1, 2))}
}

func TestOptionsDefaults(t *testing.T) {
	o := Options{}.withDefaults()
	if o.Width != 600 || o.Height != 400 {
		t.Errorf("canvas = %vx%v, want 600x400", o.Width, o.Height)
	}
	if o.LinkDistance != 100 || o.Charge != -300 {
		t.Errorf("forces = %v/%v, want 100/-300", o.LinkDistance, o.Charge)
	}
	if o.Rand == nil || o.Logger == nil {
		t.Error("Rand and Logger should be set")
	}
	// alpha decays from 1 to alphaMin in 300 ticks
	if got := math.Pow(1-o.AlphaDecay, 300); math.Abs(got-o.AlphaMin) > 1e-9 {
		t.Errorf("(1-decay)^300 = %v, want %v", got, o.AlphaMin)
	}
}

func TestSimulationConverges(t *testing.T) {
	s := New(graph.Seed(), seeded())
	if !s.Running() {
		t.Fatal("new simulation should be running")
	}

	n, err := s.Run(context.Background(), 0)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if s.Running() {
		t.Error("simulation should have stopped")
	}
	if s.Alpha() >= DefaultAlphaMin {
		t.Errorf("alpha = %v, want < %v", s.Alpha(), DefaultAlphaMin)
	}
	if n < 250 || n > 350 {
		t.Errorf("ticks = %d, want about 300", n)
	}
	if s.Step() {
		t.Error("Step() on a stopped simulation should not tick")
	}
}

func TestSimulationStaysInBounds(t *testing.T) {
	s := New(graph.Seed(), seeded())
	for i := 0; i < 400; i++ {
		s.Tick()
		for id, p := range s.Positions() {
			if p.X < DefaultRadius || p.X > DefaultWidth-DefaultRadius ||
				p.Y < DefaultRadius || p.Y > DefaultHeight-DefaultRadius {
				t.Fatalf("tick %d: %s at (%.1f, %.1f) outside canvas", i, id, p.X, p.Y)
			}
		}
	}
}

func TestSimulationLayoutShape(t *testing.T) {
	g := graph.Seed()
	s := New(g, seeded())
	if _, err := s.Run(context.Background(), 0); err != nil {
		t.Fatalf("Run: %v", err)
	}

	pos := s.Positions()
	if len(pos) != g.NodeCount() {
		t.Fatalf("positions = %d, want %d", len(pos), g.NodeCount())
	}

	for _, l := range g.Links {
		d := dist(pos[l.Source], pos[l.Target])
		if d < 20 || d > 300 {
			t.Errorf("link %s→%s length %.1f, want near the link distance", l.Source, l.Target, d)
		}
	}

	ids := []string{"you", "me", "path1", "path2", "sync"}
	for i := range ids {
		for j := i + 1; j < len(ids); j++ {
			if d := dist(pos[ids[i]], pos[ids[j]]); d < 2*DefaultRadius {
				t.Errorf("%s and %s overlap (%.1f apart)", ids[i], ids[j], d)
			}
		}
	}
}

func TestPinAndUnpin(t *testing.T) {
	s := New(graph.Seed(), seeded())

	if err := s.Pin("sync", 100, 120); err != nil {
		t.Fatalf("Pin: %v", err)
	}
	for i := 0; i < 10; i++ {
		s.Tick()
	}
	p, ok := s.Position("sync")
	if !ok {
		t.Fatal("Position(sync) not found")
	}
	if !p.Pinned || p.X != 100 || p.Y != 120 || p.VX != 0 || p.VY != 0 {
		t.Errorf("pinned position = %+v, want fixed at (100, 120)", p)
	}

	if err := s.Unpin("sync"); err != nil {
		t.Fatalf("Unpin: %v", err)
	}
	p, _ = s.Position("sync")
	if p.Pinned || p.FX != 0 || p.FY != 0 {
		t.Errorf("after Unpin = %+v, want no pin", p)
	}

	if err := s.Pin("ghost", 0, 0); !apperr.Is(err, apperr.ErrCodeNodeNotFound) {
		t.Errorf("Pin(ghost) = %v, want NODE_NOT_FOUND", err)
	}
	if err := s.Unpin("ghost"); !apperr.Is(err, apperr.ErrCodeNodeNotFound) {
		t.Errorf("Unpin(ghost) = %v, want NODE_NOT_FOUND", err)
	}
}

func TestAlphaTargetKeepsWarm(t *testing.T) {
	s := New(graph.Seed(), seeded())
	s.SetAlphaTarget(DragAlphaTarget)

	n, err := s.Run(context.Background(), 1000)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if n != 1000 {
		t.Errorf("ticks = %d, want 1000", n)
	}
	if !s.Running() {
		t.Error("simulation held at a target above alphaMin should keep running")
	}
	if math.Abs(s.Alpha()-DragAlphaTarget) > 0.01 {
		t.Errorf("alpha = %v, want about %v", s.Alpha(), DragAlphaTarget)
	}

	s.SetAlphaTarget(0)
	if _, err := s.Run(context.Background(), 0); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if s.Running() {
		t.Error("simulation should cool down after the target is cleared")
	}

	s.Restart()
	if !s.Running() {
		t.Error("Restart() should resume")
	}
	s.Stop()
	if s.Running() {
		t.Error("Stop() should halt")
	}
}

func TestRunCancelled(t *testing.T) {
	s := New(graph.Seed(), seeded())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	n, err := s.Run(ctx, 0)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run error = %v, want context.Canceled", err)
	}
	if n != 0 {
		t.Errorf("ticks = %d, want 0", n)
	}
}

func TestMalformedLinksSkipped(t *testing.T) {
	g := &graph.Graph{
		Nodes: []graph.Node{{ID: "a"}, {ID: "b"}, {ID: "a"}},
		Links: []graph.Link{
			{Source: "a", Target: "b"},
			{Source: "a", Target: "ghost"},
		},
	}
	s := New(g, seeded())
	if s.NodeCount() != 2 {
		t.Errorf("NodeCount() = %d, want 2", s.NodeCount())
	}
	if len(s.Skipped()) != 1 {
		t.Errorf("Skipped() = %v, want one link", s.Skipped())
	}
	if s.Has("ghost") {
		t.Error("ghost should not be a node")
	}
	if _, err := s.Run(context.Background(), 0); err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func TestEmptyAndNilGraph(t *testing.T) {
	for _, g := range []*graph.Graph{nil, {}} {
		s := New(g, seeded())
		s.Tick()
		if len(s.Positions()) != 0 {
			t.Errorf("positions = %d, want 0", len(s.Positions()))
		}
	}
}

func TestNoBounds(t *testing.T) {
	o := seeded()
	o.NoBounds = true
	s := New(graph.Seed(), o)
	if s.bounds != nil {
		t.Error("bounds should be disabled")
	}
	s.Tick()
}

func dist(a, b Position) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}
