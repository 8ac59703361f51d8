// Package export renders recorded runs and trajectories as SVG documents.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/san-kum/vizlab/internal/series"
)

// Point is one vertex of a polyline.
type Point struct{ X, Y float64 }

// Theme colors an SVG document.
type Theme struct {
	Background string
	Axis       string
	Lines      []string
}

// DarkTheme matches the dark terminal palette.
var DarkTheme = Theme{
	Background: "#0a0a0a",
	Axis:       "#666666",
	Lines:      []string{"#ff5f5f", "#5fafff", "#5fff87"},
}

// LightTheme matches the light terminal palette.
var LightTheme = Theme{
	Background: "#ffffff",
	Axis:       "#999999",
	Lines:      []string{"#d70000", "#005fd7", "#008700"},
}

type bounds struct{ minX, maxX, minY, maxY float64 }

func boundsOf(lines [][]Point) bounds {
	b := bounds{}
	first := true
	for _, pts := range lines {
		for _, p := range pts {
			if first {
				b = bounds{p.X, p.X, p.Y, p.Y}
				first = false
				continue
			}
			b.minX = min(b.minX, p.X)
			b.maxX = max(b.maxX, p.X)
			b.minY = min(b.minY, p.Y)
			b.maxY = max(b.maxY, p.Y)
		}
	}

	rangeX := b.maxX - b.minX
	rangeY := b.maxY - b.minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	b.minX -= rangeX * 0.1
	b.maxX += rangeX * 0.1
	b.minY -= rangeY * 0.1
	b.maxY += rangeY * 0.1
	return b
}

func (b bounds) project(p Point, width, height int) (float64, float64) {
	x := (p.X - b.minX) / (b.maxX - b.minX) * float64(width)
	y := float64(height) - (p.Y-b.minY)/(b.maxY-b.minY)*float64(height)
	return x, y
}

func header(sb *strings.Builder, width, height int, bg string) {
	fmt.Fprintf(sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, bg)
}

func path(sb *strings.Builder, b bounds, pts []Point, width, height int, stroke string) {
	fmt.Fprintf(sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="M`, stroke)
	for i, p := range pts {
		x, y := b.project(p, width, height)
		if i == 0 {
			fmt.Fprintf(sb, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(sb, " L%.1f,%.1f", x, y)
		}
	}
	sb.WriteString("\"/>\n")
}

// PathToSVG draws a single polyline. Fewer than two points yield "".
func PathToSVG(points []Point, width, height int, theme Theme) string {
	if len(points) < 2 {
		return ""
	}
	b := boundsOf([][]Point{points})

	var sb strings.Builder
	header(&sb, width, height, theme.Background)
	if b.minY < 0 && b.maxY > 0 {
		_, y0 := b.project(Point{Y: 0}, width, height)
		fmt.Fprintf(&sb, `<line x1="0" y1="%.1f" x2="%d" y2="%.1f" stroke="%s" stroke-dasharray="4"/>
`, y0, width, y0, theme.Axis)
	}
	stroke := "#00ff00"
	if len(theme.Lines) > 0 {
		stroke = theme.Lines[len(theme.Lines)-1]
	}
	path(&sb, b, points, width, height, stroke)
	sb.WriteString("</svg>")
	return sb.String()
}

// SeriesToSVG draws every series of kind from rec against time, with a legend.
// It returns "" when fewer than two samples were recorded.
func SeriesToSVG(rec *series.Recorder, kind series.Kind, width, height int, theme Theme) string {
	if rec == nil || rec.Len() < 2 {
		return ""
	}
	times := rec.Times()
	n := len(rec.IDs())
	lines := make([][]Point, 0, n+1)
	for i := 0; i <= n; i++ {
		col := rec.Column(kind, i)
		pts := make([]Point, len(col))
		for j, v := range col {
			pts[j] = Point{X: times[j], Y: v}
		}
		lines = append(lines, pts)
	}
	b := boundsOf(lines)

	var sb strings.Builder
	header(&sb, width, height, theme.Background)
	fmt.Fprintf(&sb, `<text x="8" y="16" fill="%s" font-family="monospace" font-size="12">%s</text>
`, theme.Axis, kind.Title())

	legends := kind.Legends(n)
	for i, pts := range lines {
		stroke := "#00ff00"
		if len(theme.Lines) > 0 {
			stroke = theme.Lines[i%len(theme.Lines)]
		}
		if i == n && len(theme.Lines) > 0 {
			stroke = theme.Lines[len(theme.Lines)-1]
		}
		path(&sb, b, pts, width, height, stroke)
		fmt.Fprintf(&sb, `<text x="%d" y="%d" fill="%s" font-family="monospace" font-size="12">%s</text>
`, width-90, 16+14*i, stroke, legends[i])
	}
	sb.WriteString("</svg>")
	return sb.String()
}

// WriteSeries writes SeriesToSVG output to w.
func WriteSeries(w io.Writer, rec *series.Recorder, kind series.Kind, width, height int, theme Theme) error {
	doc := SeriesToSVG(rec, kind, width, height, theme)
	if doc == "" {
		return fmt.Errorf("not enough samples to plot %s", kind)
	}
	_, err := io.WriteString(w, doc)
	return err
}
