package series

import (
	"fmt"
	"strings"

	"github.com/guptarohit/asciigraph"
)

// Kind selects which quantity a chart shows.
type Kind int

const (
	Momentum Kind = iota
	Energy
)

func (k Kind) String() string {
	if k == Energy {
		return "energy"
	}
	return "momentum"
}

// Title is the y-axis caption of the chart.
func (k Kind) Title() string {
	if k == Energy {
		return "Kinetic Energy (J)"
	}
	return "Momentum (kg m/s)"
}

// Legends returns the series labels, per body then the total.
func (k Kind) Legends(n int) []string {
	prefix := "P"
	if k == Energy {
		prefix = "KE"
	}
	out := make([]string, 0, n+1)
	for i := 1; i <= n; i++ {
		out = append(out, fmt.Sprintf("%s%d", prefix, i))
	}
	return append(out, prefix+" Total")
}

// Palette colors the lines and axes of a chart.
type Palette struct {
	Bodies []asciigraph.AnsiColor
	Total  asciigraph.AnsiColor
	Axis   asciigraph.AnsiColor
	Label  asciigraph.AnsiColor
}

// Chart renders one kind of series from a recorder.
type Chart struct {
	kind    Kind
	rec     *Recorder
	palette Palette
	width   int
	height  int
	closed  bool
}

// NewChart binds a chart to rec. Width and height are in terminal cells.
func NewChart(kind Kind, rec *Recorder, palette Palette, width, height int) *Chart {
	if width < 10 {
		width = 10
	}
	if height < 3 {
		height = 3
	}
	return &Chart{kind: kind, rec: rec, palette: palette, width: width, height: height}
}

func (c *Chart) Kind() Kind { return c.kind }

// Resize changes the plot area.
func (c *Chart) Resize(width, height int) {
	if width >= 10 {
		c.width = width
	}
	if height >= 3 {
		c.height = height
	}
}

// Render draws the chart. A closed chart renders as an empty string.
func (c *Chart) Render() string {
	if c.closed || c.rec == nil {
		return ""
	}
	n := len(c.rec.IDs())
	data := make([][]float64, 0, n+1)
	for i := 0; i <= n; i++ {
		col := c.rec.Column(c.kind, i)
		if len(col) == 0 {
			col = []float64{0}
		}
		if len(col) == 1 {
			col = []float64{col[0], col[0]}
		}
		data = append(data, col)
	}

	colors := make([]asciigraph.AnsiColor, 0, n+1)
	for i := 0; i < n; i++ {
		if i < len(c.palette.Bodies) {
			colors = append(colors, c.palette.Bodies[i])
		} else {
			colors = append(colors, asciigraph.Default)
		}
	}
	colors = append(colors, c.palette.Total)

	opts := []asciigraph.Option{
		asciigraph.Height(c.height),
		asciigraph.Width(c.width),
		asciigraph.Precision(2),
		asciigraph.Caption(c.caption()),
		asciigraph.SeriesColors(colors...),
		asciigraph.SeriesLegends(c.kind.Legends(n)...),
		asciigraph.AxisColor(c.palette.Axis),
		asciigraph.LabelColor(c.palette.Label),
		asciigraph.CaptionColor(c.palette.Label),
	}
	if c.kind == Energy {
		opts = append(opts, asciigraph.LowerBound(0))
	}
	return asciigraph.PlotMany(data, opts...)
}

func (c *Chart) caption() string {
	var b strings.Builder
	b.WriteString(c.kind.Title())
	if last, ok := c.rec.Last(); ok {
		fmt.Fprintf(&b, "  t: 0.00..%.2f s", last.Time)
	}
	return b.String()
}

// Close detaches the chart from its recorder.
func (c *Chart) Close() {
	c.closed = true
	c.rec = nil
}

// Closed reports whether Close has been called.
func (c *Chart) Closed() bool { return c.closed }
