package render

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"strings"
)

// Text shown around the drawing on the live page, available to static
// output through [WithHeading] and [WithCaption].
const (
	DefaultHeading = "Live Reasoning Graph"
	DefaultCaption = "This graph visualizes current active reasoning paths between nodes of thought. " +
		"Synced paths are highlighted in green. Interactive nodes will reflect live embeddings."
)

// Text bands added around the canvas, in canvas units.
const (
	headingBand    = 40.0
	headingSize    = 20.0
	captionLine    = 18.0
	captionSize    = 12.0
	captionPadding = 12.0
	captionColor   = "#6b7280"
	textFont       = "system-ui, sans-serif"
	// glyphWidth approximates the average caption glyph width for wrapping.
	glyphWidth = captionSize * 0.55
)

// SVGOption customizes SVG output.
type SVGOption func(*svgWriter)

type svgWriter struct {
	id         string
	background string
	titles     bool
	heading    string
	caption    string
}

// WithID sets the id attribute of the root svg element.
func WithID(id string) SVGOption { return func(w *svgWriter) { w.id = id } }

// WithBackground fills the canvas with a solid color.
func WithBackground(color string) SVGOption {
	return func(w *svgWriter) { w.background = color }
}

// WithoutTitles omits the hover tooltip on each node.
func WithoutTitles() SVGOption { return func(w *svgWriter) { w.titles = false } }

// WithHeading adds a band above the canvas with text as a bold heading.
// The canvas keeps its size and coordinates; the document grows.
func WithHeading(text string) SVGOption { return func(w *svgWriter) { w.heading = text } }

// WithCaption adds a band below the canvas with text wrapped to the
// canvas width.
func WithCaption(text string) SVGOption { return func(w *svgWriter) { w.caption = text } }

// SVG renders the scene to a byte slice.
func (s *Scene) SVG(opts ...SVGOption) []byte {
	var buf bytes.Buffer
	_ = s.WriteSVG(&buf, opts...)
	return buf.Bytes()
}

// WriteSVG writes the scene as a standalone SVG document: links first, so
// nodes are drawn over them.
func (s *Scene) WriteSVG(w io.Writer, opts ...SVGOption) error {
	sw := svgWriter{titles: true}
	for _, opt := range opts {
		opt(&sw)
	}

	top, captionLines := 0.0, WrapText(sw.caption, int(s.Width/glyphWidth))
	if sw.heading != "" {
		top = headingBand
	}
	bottom := 0.0
	if len(captionLines) > 0 {
		bottom = 2*captionPadding + float64(len(captionLines))*captionLine
	}
	total := s.Height + top + bottom

	var buf bytes.Buffer
	buf.WriteString(`<svg xmlns="http://www.w3.org/2000/svg"`)
	if sw.id != "" {
		fmt.Fprintf(&buf, ` id="%s"`, html.EscapeString(sw.id))
	}
	fmt.Fprintf(&buf, ` viewBox="0 0 %.0f %.0f" width="%.0f" height="%.0f">`+"\n",
		s.Width, total, s.Width, total)

	if sw.background != "" {
		fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", html.EscapeString(sw.background))
	}
	if sw.heading != "" {
		fmt.Fprintf(&buf, `  <text class="heading" x="%.0f" y="%.0f" text-anchor="middle" font-family="%s" font-size="%.0f" font-weight="700">%s</text>`+"\n",
			s.Width/2, top-headingBand/2+headingSize/3, textFont, headingSize, html.EscapeString(sw.heading))
	}

	indent := "  "
	if top > 0 {
		fmt.Fprintf(&buf, `  <g transform="translate(0 %.0f)">`+"\n", top)
		indent = "    "
	}

	fmt.Fprintf(&buf, `%s<g class="links" stroke="%s" stroke-opacity="%.1f">`+"\n", indent, LinkStroke, LinkStrokeOpacity)
	for _, l := range s.Lines {
		fmt.Fprintf(&buf, `%s  <line data-source="%s" data-target="%s" x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke-width="%.0f"/>`+"\n",
			indent, html.EscapeString(l.Source), html.EscapeString(l.Target), l.X1, l.Y1, l.X2, l.Y2, LinkStrokeWidth)
	}
	buf.WriteString(indent + "</g>\n")

	fmt.Fprintf(&buf, `%s<g class="nodes" stroke="%s" stroke-width="%.1f">`+"\n", indent, NodeStroke, NodeStrokeWidth)
	for _, c := range s.Circles {
		id := html.EscapeString(c.ID)
		fmt.Fprintf(&buf, `%s  <circle data-id="%s" cx="%.2f" cy="%.2f" r="%.0f" fill="%s">`, indent, id, c.CX, c.CY, c.R, c.Fill)
		if sw.titles {
			fmt.Fprintf(&buf, `<title>%s</title>`, id)
		}
		buf.WriteString("</circle>\n")
	}
	buf.WriteString(indent + "</g>\n")
	if top > 0 {
		buf.WriteString("  </g>\n")
	}

	for i, line := range captionLines {
		y := top + s.Height + captionPadding + float64(i+1)*captionLine - (captionLine-captionSize)/2
		fmt.Fprintf(&buf, `  <text class="caption" x="%.0f" y="%.0f" text-anchor="middle" font-family="%s" font-size="%.0f" fill="%s">%s</text>`+"\n",
			s.Width/2, y, textFont, captionSize, captionColor, html.EscapeString(line))
	}
	buf.WriteString("</svg>\n")

	_, err := w.Write(buf.Bytes())
	return err
}

// WrapText splits text into lines of at most width runes, breaking between
// words. A word longer than width gets a line of its own.
func WrapText(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	width = max(width, 1)
	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len([]rune(line))+1+len([]rune(w)) > width {
			lines = append(lines, line)
			line = w
			continue
		}
		line += " " + w
	}
	return append(lines, line)
}
