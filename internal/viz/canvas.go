package viz

import (
	"strings"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const brailleBlank = 0x2800

// Canvas is a grid of braille cells. Each cell holds 2x4 sub-pixels, and
// cells can carry a tag so a caller can color them when rendering.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
	Tags          [][]uint8
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
		Tags:   make([][]uint8, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.Tags[i] = make([]uint8, w)
	}
	c.Clear()
	return c
}

// PixelWidth and PixelHeight are the canvas size in sub-pixels.
func (c *Canvas) PixelWidth() int  { return c.Width * 2 }
func (c *Canvas) PixelHeight() int { return c.Height * 4 }

// Set turns on the sub-pixel at (x, y).
func (c *Canvas) Set(x, y int) { c.SetTagged(x, y, 0) }

// SetTagged turns on a sub-pixel and tags its cell. A non-zero tag
// overwrites the previous one.
func (c *Canvas) SetTagged(x, y int, tag uint8) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
	if tag != 0 {
		c.Tags[row][col] = tag
	}
}

// IsSet reports whether the sub-pixel at (x, y) is on.
func (c *Canvas) IsSet(x, y int) bool {
	if x < 0 || y < 0 {
		return false
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return false
	}
	return c.Grid[row][col]&rune(pixelMap[y%4][x%2]) != 0
}

// Clear resets every cell and tag.
func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBlank
			c.Tags[i][j] = 0
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) { c.DrawLineTagged(x0, y0, x1, y1, 0) }

func (c *Canvas) DrawLineTagged(x0, y0, x1, y1 int, tag uint8) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.SetTagged(x0, y0, tag)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// FillRect fills the sub-pixel rectangle [x0, x1] x [y0, y1].
func (c *Canvas) FillRect(x0, y0, x1, y1 int, tag uint8) {
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			c.SetTagged(x, y, tag)
		}
	}
}

func (c *Canvas) String() string {
	return c.Render(nil)
}

// Render joins the rows, passing tagged cells through paint.
func (c *Canvas) Render(paint func(tag uint8, cell string) string) string {
	var b strings.Builder
	for i, row := range c.Grid {
		for j, r := range row {
			cell := string(r)
			if paint != nil && c.Tags[i][j] != 0 {
				cell = paint(c.Tags[i][j], cell)
			}
			b.WriteString(cell)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
