package renderer

import (
	"strings"

	"github.com/dshills/splitpad/internal/renderer/backend"
	"github.com/dshills/splitpad/internal/renderer/layout"
	"github.com/dshills/splitpad/internal/window"
)

// Surface is a rectangle of a backend. Coordinates are relative to the
// rectangle's top-left corner and drawing outside it is dropped.
type Surface struct {
	b    backend.Backend
	area window.Area
}

// NewSurface returns a surface over area of b.
func NewSurface(b backend.Backend, area window.Area) *Surface {
	return &Surface{b: b, area: area}
}

// Width returns the surface width in cells.
func (s *Surface) Width() int { return s.area.Width }

// Height returns the surface height in cells.
func (s *Surface) Height() int { return s.area.Height }

// Origin returns the absolute screen position of the surface's corner.
func (s *Surface) Origin() (x, y int) { return s.area.X, s.area.Y }

// Put draws one cluster at x, y.
func (s *Surface) Put(x, y int, text string, style backend.Style) {
	if x < 0 || y < 0 || x >= s.area.Width || y >= s.area.Height {
		return
	}
	s.b.SetCell(s.area.X+x, s.area.Y+y, text, style)
}

// Fill paints every cell of row y with a blank in style.
func (s *Surface) Fill(y int, style backend.Style) {
	for x := 0; x < s.area.Width; x++ {
		s.Put(x, y, " ", style)
	}
}

// Clear blanks the whole surface.
func (s *Surface) Clear(style backend.Style) {
	for y := 0; y < s.area.Height; y++ {
		s.Fill(y, style)
	}
}

// Text draws str at x, y and returns the column after the last cell drawn.
// Tabs expand with the default tab width.
func (s *Surface) Text(x, y int, str string, style backend.Style) int {
	return s.Line(x, y, str, 0, layout.DefaultTabWidth, style)
}

// Line draws str at x, y after skipping its first skip display columns.
// A wide cluster cut by the skip or by the right edge is replaced with
// spaces. It returns the column after the last cell drawn.
func (s *Surface) Line(x, y int, str string, skip, tabWidth int, style backend.Style) int {
	col := 0
	for _, g := range layout.Glyphs(str, 0, tabWidth) {
		start, end := col, col+g.Width
		col = end
		if end <= skip {
			continue
		}
		if x >= s.area.Width {
			break
		}
		text := g.Text
		if start < skip || x+g.Width > s.area.Width || g.Tab {
			n := min(end-max(start, skip), s.area.Width-x)
			s.blanks(x, y, n, style)
			x += n
			continue
		}
		if g.Width == 0 {
			continue
		}
		s.Put(x, y, text, style)
		x += g.Width
	}
	return x
}

func (s *Surface) blanks(x, y, n int, style backend.Style) {
	for i := 0; i < n; i++ {
		s.Put(x+i, y, " ", style)
	}
}

// RightAligned draws str so that it ends at the right edge of row y.
func (s *Surface) RightAligned(y int, str string, style backend.Style) {
	w := layout.DisplayWidth(str, layout.DefaultTabWidth)
	s.Text(max(0, s.area.Width-w), y, str, style)
}

// Pad returns str padded with spaces to width display cells.
func Pad(str string, width int) string {
	w := layout.DisplayWidth(str, layout.DefaultTabWidth)
	if w >= width {
		return str
	}
	return str + strings.Repeat(" ", width-w)
}
