package cli

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/reasongraph/pkg/render"
	"github.com/matzehuels/reasongraph/pkg/view"
)

const (
	// viewHeader is the number of terminal rows above the drawing.
	viewHeader = 2
	// viewFooter is the number of terminal rows below the drawing.
	viewFooter = 1
	// hitSlop grows circles for pointer hits, in canvas units.
	hitSlop = 8
)

var (
	styleLinkCell = lipgloss.NewStyle().Foreground(colorDim)
	styleLabel    = lipgloss.NewStyle().Foreground(colorGray)
)

// viewCommand creates the interactive terminal view.
func (c *CLI) viewCommand() *cobra.Command {
	var (
		frameInterval time.Duration
		noLabels      bool
	)

	cmd := &cobra.Command{
		Use:   "view [graph.json]",
		Short: "Show the graph in the terminal with draggable nodes",
		Long: `View runs the force layout live in the terminal.

Drag nodes with the mouse, press r to reload the seed graph and q to quit.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := ""
			if len(args) == 1 {
				input = args[0]
			}
			g, err := loadGraph(input, cmd.InOrStdin(), false)
			if err != nil {
				return err
			}
			if frameInterval <= 0 {
				frameInterval = c.config.Server.FrameInterval.Duration
			}

			comp := view.New(
				view.WithForceOptions(c.config.ForceOptions()),
				view.WithLogger(c.Logger),
				view.WithInitialGraph(g),
			)
			if err := comp.Mount(cmd.Context()); err != nil {
				return err
			}
			defer comp.Unmount()

			m := newGraphModel(comp, frameInterval)
			m.labels = !noLabels
			p := tea.NewProgram(m,
				tea.WithContext(cmd.Context()),
				tea.WithAltScreen(),
				tea.WithMouseCellMotion(),
			)
			_, err = p.Run()
			return err
		},
	}

	cmd.Flags().DurationVar(&frameInterval, "frame-interval", 0, "time between animation frames (default from config)")
	cmd.Flags().BoolVar(&noLabels, "no-labels", false, "hide node ids")

	return cmd
}

// =============================================================================
// graphModel - bubbletea model driving a view.Component
// =============================================================================

type frameMsg time.Time

// graphModel draws a component on a character grid. The component owns
// all layout state; the model only converts between cells and canvas
// units.
type graphModel struct {
	comp     *view.Component
	interval time.Duration
	labels   bool

	cols, rows int
	dragging   string
	status     string
}

func newGraphModel(comp *view.Component, interval time.Duration) graphModel {
	if interval <= 0 {
		interval = 16 * time.Millisecond
	}
	return graphModel{
		comp:     comp,
		interval: interval,
		labels:   true,
		cols:     80,
		rows:     24 - viewHeader - viewFooter,
	}
}

func (m graphModel) Init() tea.Cmd {
	return m.nextFrame()
}

func (m graphModel) nextFrame() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return frameMsg(t) })
}

func (m graphModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		m.comp.Tick()
		return m, m.nextFrame()

	case tea.WindowSizeMsg:
		m.cols = max(msg.Width, 10)
		m.rows = max(msg.Height-viewHeader-viewFooter, 5)

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "r":
			m.dragging = ""
			if err := m.comp.Refresh(); err != nil {
				m.status = err.Error()
			} else {
				m.status = "seed graph reloaded"
			}
		}

	case tea.MouseMsg:
		m = m.handleMouse(msg)
	}
	return m, nil
}

func (m graphModel) handleMouse(msg tea.MouseMsg) graphModel {
	f := m.comp.Frame()
	x, y := m.toCanvas(f, msg.X, msg.Y)

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m
		}
		id, ok := m.comp.HitTest(x, y, hitSlop)
		if !ok {
			return m
		}
		if err := m.comp.DragStart(id, x, y); err != nil {
			m.status = err.Error()
			return m
		}
		m.dragging = id
		m.status = "dragging " + id
	case tea.MouseActionMotion:
		if m.dragging != "" {
			_ = m.comp.DragMove(m.dragging, x, y)
		}
	case tea.MouseActionRelease:
		if m.dragging != "" {
			_ = m.comp.DragEnd(m.dragging)
			m.status = "released " + m.dragging
			m.dragging = ""
		}
	}
	return m
}

// toCanvas maps a terminal cell to canvas units, using the cell centre.
func (m graphModel) toCanvas(f render.Frame, col, row int) (float64, float64) {
	x := (float64(col) + 0.5) * f.Width / float64(m.cols)
	y := (float64(row-viewHeader) + 0.5) * f.Height / float64(m.rows)
	return x, y
}

func (m graphModel) View() string {
	var b strings.Builder
	b.WriteString(StyleTitle.Render("🧠 Live Reasoning Graph"))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("drag nodes with the mouse  r refresh sync  q quit"))
	b.WriteString("\n")
	b.WriteString(drawFrame(m.comp.Frame(), m.cols, m.rows, m.labels))

	state := "settled"
	if m.comp.Running() {
		state = "moving"
	}
	footer := state
	if m.status != "" {
		footer += " · " + m.status
	}
	b.WriteString(StyleDim.Render(footer))
	return b.String()
}

// =============================================================================
// Character Grid
// =============================================================================

type cell struct {
	r     rune
	style *lipgloss.Style
}

// drawFrame rasterizes f onto a cols x rows grid: links as dots, nodes as
// filled circles in their fill color with the id to the right.
func drawFrame(f render.Frame, cols, rows int, labels bool) string {
	if cols <= 0 || rows <= 0 || f.Width <= 0 || f.Height <= 0 {
		return ""
	}
	grid := make([][]cell, rows)
	for i := range grid {
		grid[i] = make([]cell, cols)
		for j := range grid[i] {
			grid[i][j] = cell{r: ' '}
		}
	}
	toCell := func(x, y float64) (int, int) {
		return int(x / f.Width * float64(cols)), int(y / f.Height * float64(rows))
	}
	set := func(col, row int, c cell) {
		if row >= 0 && row < rows && col >= 0 && col < cols {
			grid[row][col] = c
		}
	}

	for _, l := range f.Lines {
		x0, y0 := toCell(l.X1, l.Y1)
		x1, y1 := toCell(l.X2, l.Y2)
		plotLine(x0, y0, x1, y1, func(col, row int) {
			set(col, row, cell{r: '·', style: &styleLinkCell})
		})
	}
	if labels {
		for _, c := range f.Circles {
			col, row := toCell(c.CX, c.CY)
			for i, r := range []rune(c.ID) {
				set(col+2+i, row, cell{r: r, style: &styleLabel})
			}
		}
	}
	// Nodes go last so labels never hide them.
	for _, c := range f.Circles {
		col, row := toCell(c.CX, c.CY)
		st := nodeStyle(c.Fill)
		set(col, row, cell{r: '●', style: &st})
	}

	var b strings.Builder
	for _, line := range grid {
		for _, c := range line {
			if c.style == nil {
				b.WriteRune(c.r)
				continue
			}
			b.WriteString(c.style.Render(string(c.r)))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// plotLine visits the cells of a Bresenham line from (x0, y0) to (x1, y1).
func plotLine(x0, y0, x1, y1 int, visit func(x, y int)) {
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		visit(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
