package cli

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/reasongraph/pkg/drag"
	"github.com/matzehuels/reasongraph/pkg/render"
	"github.com/matzehuels/reasongraph/pkg/view"
)

func TestPlotLine(t *testing.T) {
	tests := []struct {
		name           string
		x0, y0, x1, y1 int
		want           int
	}{
		{"point", 2, 2, 2, 2, 1},
		{"horizontal", 0, 0, 4, 0, 5},
		{"vertical", 1, 5, 1, 0, 6},
		{"diagonal", 0, 0, 3, 3, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var n int
			plotLine(tt.x0, tt.y0, tt.x1, tt.y1, func(x, y int) { n++ })
			if n != tt.want {
				t.Errorf("visited %d cells, want %d", n, tt.want)
			}
		})
	}
}

func TestDrawFrame(t *testing.T) {
	f := render.Frame{
		Width:  600,
		Height: 400,
		Circles: []render.Circle{
			{ID: "you", CX: 100, CY: 100, R: 12, Fill: "#f43f5e"},
			{ID: "sync", CX: 500, CY: 300, R: 12, Fill: "#22c55e"},
		},
		Lines: []render.Line{{Source: "you", Target: "sync", X1: 100, Y1: 100, X2: 500, Y2: 300}},
	}

	out := drawFrame(f, 60, 20, true)
	if got := strings.Count(out, "\n"); got != 20 {
		t.Errorf("rows = %d, want 20", got)
	}
	if got := strings.Count(out, "●"); got != 2 {
		t.Errorf("nodes drawn = %d, want 2", got)
	}
	for _, id := range []string{"y", "s"} {
		if !strings.Contains(out, id) {
			t.Errorf("label %q missing", id)
		}
	}
	if !strings.Contains(out, "·") {
		t.Error("link not drawn")
	}

	if drawFrame(f, 0, 0, true) != "" {
		t.Error("empty grid should draw nothing")
	}
}

func TestGraphModelDrag(t *testing.T) {
	comp := view.New()
	if err := comp.Mount(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer comp.Unmount()
	if _, err := comp.Settle(context.Background(), 0); err != nil {
		t.Fatal(err)
	}

	m := newGraphModel(comp, 0)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 43})
	m = next.(graphModel)

	f := comp.Frame()
	target := f.Circles[0]
	col := int(target.CX / f.Width * float64(m.cols))
	row := int(target.CY/f.Height*float64(m.rows)) + viewHeader

	next, _ = m.Update(tea.MouseMsg{X: col, Y: row, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m = next.(graphModel)
	id := m.dragging
	if id == "" {
		t.Fatalf("press on %q started no drag", target.ID)
	}
	if comp.DragState(id) != drag.Dragging {
		t.Error("node should be dragging")
	}
	if !comp.Running() {
		t.Error("drag should reheat the layout")
	}

	next, _ = m.Update(tea.MouseMsg{X: col + 3, Y: row + 2, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
	m = next.(graphModel)
	next, _ = m.Update(tea.MouseMsg{X: col + 3, Y: row + 2, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	m = next.(graphModel)

	if m.dragging != "" {
		t.Errorf("dragging = %q after release", m.dragging)
	}
	if comp.DragState(id) != drag.Free {
		t.Error("node should be free after release")
	}
}

func TestGraphModelKeys(t *testing.T) {
	comp := view.New()
	if err := comp.Mount(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer comp.Unmount()
	before := comp.Graph()

	m := newGraphModel(comp, 0)
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	if comp.Graph() == before {
		t.Error("r should install a fresh seed graph")
	}
	if got := next.(graphModel).status; got != "seed graph reloaded" {
		t.Errorf("status = %q", got)
	}

	_, cmd := next.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q should return a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestGraphModelView(t *testing.T) {
	comp := view.New()
	if err := comp.Mount(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer comp.Unmount()
	if _, err := comp.Settle(context.Background(), 0); err != nil {
		t.Fatal(err)
	}

	next, _ := newGraphModel(comp, 0).Update(tea.WindowSizeMsg{Width: 200, Height: 63})
	out := next.(graphModel).View()
	if !strings.Contains(out, "Live Reasoning Graph") {
		t.Error("view missing heading")
	}
	if got := strings.Count(out, "●"); got != 5 {
		t.Errorf("nodes drawn = %d, want 5", got)
	}
}
