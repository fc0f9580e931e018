package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Each cell is a braille character holding a 2x4 block of dots:
//
//	1 4
//	2 5
//	3 6
//	7 8
var dotBits = [4][2]uint8{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

const brailleBase = 0x2800

// Canvas is a dot grid of (2*Width) x (4*Height) pixels rendered with
// braille characters. Each cell remembers the colour of the last dot set in it.
type Canvas struct {
	Width, Height int
	dots          []uint8
	colors        []lipgloss.Color
}

func NewCanvas(w, h int) *Canvas {
	return &Canvas{
		Width:  w,
		Height: h,
		dots:   make([]uint8, w*h),
		colors: make([]lipgloss.Color, w*h),
	}
}

// PixelSize returns the canvas size in dots.
func (c *Canvas) PixelSize() (int, int) { return c.Width * 2, c.Height * 4 }

func (c *Canvas) cell(x, y int) (int, bool) {
	if x < 0 || y < 0 || x >= c.Width*2 || y >= c.Height*4 {
		return 0, false
	}
	return (y/4)*c.Width + x/2, true
}

// Set lights the dot at (x, y). Dots outside the canvas are ignored.
func (c *Canvas) Set(x, y int, color lipgloss.Color) {
	i, ok := c.cell(x, y)
	if !ok {
		return
	}
	c.dots[i] |= dotBits[y%4][x%2]
	c.colors[i] = color
}

func (c *Canvas) IsSet(x, y int) bool {
	i, ok := c.cell(x, y)
	return ok && c.dots[i]&dotBits[y%4][x%2] != 0
}

func (c *Canvas) Clear() {
	for i := range c.dots {
		c.dots[i] = 0
		c.colors[i] = ""
	}
}

// Line draws from (x0, y0) to (x1, y1) with Bresenham's algorithm.
func (c *Canvas) Line(x0, y0, x1, y1 int, color lipgloss.Color) {
	dx, dy := absInt(x1-x0), -absInt(y1-y0)
	sx, sy := 1, 1
	if x1 < x0 {
		sx = -1
	}
	if y1 < y0 {
		sy = -1
	}
	err := dx + dy

	for {
		c.Set(x0, y0, color)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// String renders the canvas without colour.
func (c *Canvas) String() string {
	return c.render(false)
}

// Render renders the canvas with each cell in its colour.
func (c *Canvas) Render() string {
	return c.render(true)
}

func (c *Canvas) render(colored bool) string {
	var b strings.Builder
	for row := 0; row < c.Height; row++ {
		for col := 0; col < c.Width; col++ {
			i := row*c.Width + col
			ch := string(rune(brailleBase + int(c.dots[i])))
			if colored && c.dots[i] != 0 && c.colors[i] != "" {
				ch = lipgloss.NewStyle().Foreground(c.colors[i]).Render(ch)
			}
			b.WriteString(ch)
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
