package editor

import (
	"fmt"
	"strconv"

	"github.com/dshills/splitpad/internal/engine/buffer"
	"github.com/dshills/splitpad/internal/renderer"
	"github.com/dshills/splitpad/internal/renderer/layout"
)

var _ renderer.Pane = (*View)(nil)

// frame is the wrapped geometry of a buffer at the view's current width.
type frame struct {
	b     *buffer.Buffer
	width int
	cum   []int
}

func (fr frame) rows() int { return fr.cum[len(fr.cum)-1] }

// textRows is the number of rows above the status line.
func (v *View) textRows() int {
	return max(0, v.area.Height-1)
}

// gutterWidth is the width of the line number column including its
// trailing space. Panes too narrow for text next to it get no gutter.
func (v *View) gutterWidth(b *buffer.Buffer) int {
	w := max(3, len(strconv.Itoa(b.LineCount()))) + 1
	if v.area.Width < w+2 {
		return 0
	}
	return w
}

// TextWidth returns the wrap width of the view.
func (v *View) TextWidth() int {
	b, ok := v.Buffer()
	if !ok {
		return max(1, v.area.Width)
	}
	return v.textWidth(b)
}

func (v *View) textWidth(b *buffer.Buffer) int {
	return max(1, v.area.Width-v.gutterWidth(b))
}

func (v *View) frame(b *buffer.Buffer) frame {
	width := v.textWidth(b)
	return frame{b: b, width: width, cum: v.wrap.update(b, width, v.settings.Wrap)}
}

func (v *View) sublines(fr frame, line int) []string {
	return layout.Wrap(fr.b.Line(line), fr.width, v.settings.Wrap)
}

// visualCursor returns the visual row of the cursor and its display column
// within that row. Only the cursor line is wrapped.
func (v *View) visualCursor(fr frame) (row, col int) {
	line := v.cursor.Line
	if line < 0 || line >= len(fr.cum)-1 {
		return 0, 0
	}
	subs := v.sublines(fr, line)
	index, sub := layout.WrappedCursor(subs, v.cursor.Col)
	return fr.cum[line] + index, layout.DisplayColumn(subs[index], sub, v.settings.TabWidth)
}

// scroll adjusts the viewport so the cursor row is visible with up to
// ScrollOff rows of context.
func (v *View) scroll(b *buffer.Buffer) {
	v.cursor = b.Clamp(v.cursor)
	rows := v.textRows()
	if rows == 0 {
		return
	}
	fr := v.frame(b)
	row, col := v.visualCursor(fr)

	off := min(v.settings.ScrollOff, (rows-1)/2)
	if row-off < v.top {
		v.top = max(0, row-off)
	}
	if row+off >= v.top+rows {
		v.top = row + off - rows + 1
	}
	v.top = max(0, min(v.top, fr.rows()-1))

	if v.settings.Wrap != layout.WrapOff {
		v.left = 0
		return
	}
	if col < v.left {
		v.left = col
	}
	if col >= v.left+fr.width {
		v.left = col - fr.width + 1
	}
}

// Top returns the first visible visual row.
func (v *View) Top() int { return v.top }

// Draw paints the text area, gutter and status line.
func (v *View) Draw(s *renderer.Surface, theme renderer.Theme, active bool) {
	s.Clear(theme.Text)
	b, ok := v.Buffer()
	if !ok {
		return
	}
	v.scroll(b)
	fr := v.frame(b)
	gw := v.gutterWidth(b)

	v.lastRendered = -1
	if active {
		v.lastRendered = v.cursor.Line
	}

	cached, subs := -1, []string(nil)
	for r := 0; r < v.textRows(); r++ {
		row := v.top + r
		line, sub, ok := layout.LineForRow(row, fr.cum)
		if !ok {
			if gw > 0 {
				s.Text(0, r, "~", theme.Gutter)
			}
			continue
		}
		block := layout.IsWithinActiveBlock(row, v.cursor.Line, fr.cum, v.lastRendered)
		if gw > 0 {
			v.drawGutter(s, r, row, gw, fr.cum, block, theme)
		}
		if line != cached {
			cached, subs = line, v.sublines(fr, line)
		}
		s.Line(gw, r, subs[sub], v.left, v.settings.TabWidth, theme.Text)
	}
	v.drawStatus(s, b, theme, active)
}

func (v *View) drawGutter(s *renderer.Surface, r, row, gw int, cum []int, block bool, theme renderer.Theme) {
	if n, ok := layout.LineNumberForRow(row, cum); ok {
		style := theme.Gutter
		if block {
			style = theme.GutterActive
		}
		s.Text(0, r, fmt.Sprintf("%*d", gw-1, n), style)
		return
	}
	if block {
		s.Text(gw-2, r, "│", theme.ActiveBlock)
	}
}

// StatusText returns the left and right halves of the status line.
func (v *View) StatusText() (string, string) {
	b, ok := v.Buffer()
	if !ok {
		return "", ""
	}
	left := " " + b.Name()
	if b.IsDirty() {
		left += " [+]"
	}
	if b.ChangedOnDisk() {
		left += " [changed on disk]"
	}
	if v.settings.Wrap != layout.WrapOff {
		left += " (" + v.settings.Wrap.String() + ")"
	}
	right := fmt.Sprintf("%d:%d/%d ", v.cursor.Line+1, v.cursor.Col+1, b.LineCount())
	return left, right
}

func (v *View) drawStatus(s *renderer.Surface, b *buffer.Buffer, theme renderer.Theme, active bool) {
	if v.area.Height < 1 {
		return
	}
	y := v.area.Height - 1
	style := theme.Status
	if active {
		style = theme.StatusActive
	}
	s.Fill(y, style)
	left, right := v.StatusText()
	s.RightAligned(y, right, style)
	s.Text(0, y, left, style)
}

// ScreenCursor returns the cursor cell relative to the view's area.
func (v *View) ScreenCursor() (x, y int, ok bool) {
	b, found := v.Buffer()
	if !found || v.textRows() == 0 {
		return 0, 0, false
	}
	fr := v.frame(b)
	row, col := v.visualCursor(fr)
	y = row - v.top
	if y < 0 || y >= v.textRows() {
		return 0, 0, false
	}
	x = v.gutterWidth(b) + col - v.left
	return min(max(x, 0), v.area.Width-1), y, true
}
