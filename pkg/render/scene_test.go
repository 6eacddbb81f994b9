package render

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/reasongraph/pkg/force"
	"github.com/matzehuels/reasongraph/pkg/graph"
)

func TestBuildSeed(t *testing.T) {
	s := NewScene(600, 400)
	res := s.Build(graph.Seed())

	if !res.Clean() {
		t.Errorf("seed should build cleanly, dropped %v / %v", res.DroppedNodes, res.DroppedLinks)
	}
	if len(s.Circles) != 5 {
		t.Errorf("circles = %d, want 5", len(s.Circles))
	}
	if len(s.Lines) != 4 {
		t.Errorf("lines = %d, want 4", len(s.Lines))
	}

	sync, ok := s.Circle("sync")
	if !ok {
		t.Fatal("no circle for sync")
	}
	if sync.Fill != graph.ColorGreen {
		t.Errorf("sync fill = %s, want %s", sync.Fill, graph.ColorGreen)
	}
	if sync.R != NodeRadius {
		t.Errorf("sync radius = %v, want %v", sync.R, NodeRadius)
	}
}

func TestBuildOneElementPerNodeAndLink(t *testing.T) {
	tests := []struct {
		name  string
		graph *graph.Graph
	}{
		{"empty", &graph.Graph{}},
		{"single", &graph.Graph{Nodes: []graph.Node{{ID: "a"}}}},
		{"seed", graph.Seed()},
		{"cycle", &graph.Graph{
			Nodes: []graph.Node{{ID: "a"}, {ID: "b"}, {ID: "c"}},
			Links: []graph.Link{{Source: "a", Target: "b"}, {Source: "b", Target: "c"}, {Source: "c", Target: "a"}},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewScene(600, 400)
			s.Build(tt.graph)
			if len(s.Circles) != tt.graph.NodeCount() {
				t.Errorf("circles = %d, want %d", len(s.Circles), tt.graph.NodeCount())
			}
			if len(s.Lines) != tt.graph.LinkCount() {
				t.Errorf("lines = %d, want %d", len(s.Lines), tt.graph.LinkCount())
			}
			for _, c := range s.Circles {
				n, _ := tt.graph.Node(c.ID)
				if c.Fill != graph.GroupColor(n.Group) {
					t.Errorf("%s fill = %s, want %s", c.ID, c.Fill, graph.GroupColor(n.Group))
				}
			}
		})
	}
}

func TestBuildSkipsMalformedLinks(t *testing.T) {
	g := graph.Seed()
	g.Links = append(g.Links, graph.Link{Source: "sync", Target: "nowhere"})

	s := NewScene(600, 400)
	res := s.Build(g)
	if len(s.Lines) != 4 {
		t.Errorf("lines = %d, want 4", len(s.Lines))
	}
	if len(res.DroppedLinks) != 1 {
		t.Errorf("dropped = %v, want one link", res.DroppedLinks)
	}
}

func TestBuildClearsPreviousContent(t *testing.T) {
	s := NewScene(600, 400)
	s.Build(graph.Seed())
	gen := s.Generation()

	s.Build(&graph.Graph{Nodes: []graph.Node{{ID: "solo", Group: 2}}})
	if s.Generation() != gen+1 {
		t.Errorf("generation = %d, want %d", s.Generation(), gen+1)
	}
	if len(s.Circles) != 1 || len(s.Lines) != 0 {
		t.Errorf("got %d circles, %d lines after rebuild", len(s.Circles), len(s.Lines))
	}
	if _, ok := s.Circle("sync"); ok {
		t.Error("old elements survived rebuild")
	}
}

func TestSync(t *testing.T) {
	g := graph.Seed()
	s := NewScene(600, 400)
	s.Build(g)
	gen := s.Generation()

	sim := force.New(g, force.Options{})
	for i := 0; i < 5; i++ {
		sim.Tick()
	}
	pos := sim.Positions()
	s.Sync(pos)

	if s.Generation() != gen {
		t.Error("Sync should not rebuild")
	}
	for _, c := range s.Circles {
		if c.CX != pos[c.ID].X || c.CY != pos[c.ID].Y {
			t.Errorf("%s at (%v, %v), want (%v, %v)", c.ID, c.CX, c.CY, pos[c.ID].X, pos[c.ID].Y)
		}
	}
	for _, l := range s.Lines {
		if l.X1 != pos[l.Source].X || l.Y2 != pos[l.Target].Y {
			t.Errorf("line %s→%s not connected to its endpoints", l.Source, l.Target)
		}
	}
}

func TestHitTest(t *testing.T) {
	s := NewScene(600, 400)
	s.Build(graph.Seed())
	s.Sync(map[string]force.Position{
		"you":  {X: 100, Y: 100},
		"sync": {X: 300, Y: 200},
	})

	if id, ok := s.HitTest(105, 98, 0); !ok || id != "you" {
		t.Errorf("HitTest near you = %q, %v", id, ok)
	}
	if _, ok := s.HitTest(300, 215, 0); ok {
		t.Error("HitTest outside radius should miss")
	}
	if id, ok := s.HitTest(300, 215, 5); !ok || id != "sync" {
		t.Errorf("HitTest with slop = %q, %v", id, ok)
	}
}

func TestFrameIsCopy(t *testing.T) {
	s := NewScene(600, 400)
	s.Build(graph.Seed())
	f := s.Frame()
	f.Circles[0].Fill = "black"
	if s.Circles[0].Fill == "black" {
		t.Error("Frame shares storage with the scene")
	}
	if f.Generation != s.Generation() || f.Width != 600 || f.Height != 400 {
		t.Errorf("frame header = %+v", f)
	}
}

type svgDoc struct {
	XMLName xml.Name `xml:"svg"`
	ID      string   `xml:"id,attr"`
	Width   string   `xml:"width,attr"`
	Height  string   `xml:"height,attr"`
	Groups  []struct {
		Lines   []struct{} `xml:"line"`
		Circles []struct {
			Fill  string `xml:"fill,attr"`
			ID    string `xml:"data-id,attr"`
			Title string `xml:"title"`
		} `xml:"circle"`
	} `xml:"g"`
}

func TestWriteSVG(t *testing.T) {
	s := NewScene(600, 400)
	s.Build(graph.Seed())

	var buf bytes.Buffer
	if err := s.WriteSVG(&buf, WithID("reasoning-graph"), WithBackground("#fff")); err != nil {
		t.Fatalf("WriteSVG: %v", err)
	}

	var doc svgDoc
	if err := xml.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("output is not XML: %v\n%s", err, buf.String())
	}
	if doc.ID != "reasoning-graph" || doc.Width != "600" || doc.Height != "400" {
		t.Errorf("root = %+v", doc)
	}

	var lines, circles int
	for _, g := range doc.Groups {
		lines += len(g.Lines)
		circles += len(g.Circles)
		for _, c := range g.Circles {
			if c.Title != c.ID {
				t.Errorf("title = %q, want %q", c.Title, c.ID)
			}
			if c.ID == "sync" && c.Fill != graph.ColorGreen {
				t.Errorf("sync fill = %s", c.Fill)
			}
		}
	}
	if lines != 4 || circles != 5 {
		t.Errorf("svg has %d lines, %d circles; want 4, 5", lines, circles)
	}
}

func TestWriteSVGEscapesIDs(t *testing.T) {
	s := NewScene(600, 400)
	s.Build(&graph.Graph{Nodes: []graph.Node{{ID: `<a&"b">`}}})
	out := string(s.SVG(WithoutTitles()))
	if strings.Contains(out, `<a&`) {
		t.Errorf("id not escaped:\n%s", out)
	}
	if strings.Contains(out, "<title>") {
		t.Error("WithoutTitles should omit titles")
	}
}

func TestWriteSVGHeadingAndCaption(t *testing.T) {
	s := NewScene(600, 400)
	s.Build(graph.Seed())
	out := string(s.SVG(WithHeading(DefaultHeading), WithCaption(DefaultCaption)))

	lines := WrapText(DefaultCaption, int(600/glyphWidth))
	if len(lines) < 2 {
		t.Fatalf("caption should wrap at 600 wide, got %d line(s)", len(lines))
	}
	wantHeight := 400 + headingBand + 2*captionPadding + float64(len(lines))*captionLine
	for _, want := range []string{
		fmt.Sprintf(`height="%.0f"`, wantHeight),
		`<text class="heading"`,
		DefaultHeading,
		`<g transform="translate(0 40)">`,
		"highlighted in green.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if got := strings.Count(out, `class="caption"`); got != len(lines) {
		t.Errorf("caption lines = %d, want %d", got, len(lines))
	}
	if got := strings.Count(out, "<circle"); got != 5 {
		t.Errorf("circles = %d, want 5", got)
	}
	if err := xml.Unmarshal([]byte(out), new(svgDoc)); err != nil {
		t.Errorf("output is not XML: %v", err)
	}

	plain := string(s.SVG())
	if strings.Contains(plain, "<text") || !strings.Contains(plain, `height="400"`) {
		t.Error("text bands should only appear when requested")
	}
}

func TestWriteSVGEscapesText(t *testing.T) {
	s := NewScene(600, 400)
	out := string(s.SVG(WithHeading("a < b"), WithCaption("x & y")))
	if strings.Contains(out, "a < b") || strings.Contains(out, "x & y") {
		t.Errorf("text not escaped:\n%s", out)
	}
}

func TestWrapText(t *testing.T) {
	tests := []struct {
		text  string
		width int
		want  []string
	}{
		{"", 10, nil},
		{"one", 10, []string{"one"}},
		{"one two three", 7, []string{"one two", "three"}},
		{"tiny enormousword", 5, []string{"tiny", "enormousword"}},
		{"  spaced   out  ", 20, []string{"spaced out"}},
	}
	for _, tt := range tests {
		got := WrapText(tt.text, tt.width)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("WrapText(%q, %d) = %q, want %q", tt.text, tt.width, got, tt.want)
		}
	}
}

func TestToPNGRequiresTool(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	if _, err := ToPNG(context.Background(), []byte("<svg/>"), 2); err == nil {
		t.Error("ToPNG without rsvg-convert should fail")
	}
	if _, err := ToPDF(context.Background(), []byte("<svg/>")); err == nil {
		t.Error("ToPDF without rsvg-convert should fail")
	}
}
