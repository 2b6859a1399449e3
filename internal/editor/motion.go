package editor

import (
	"strings"
	"unicode/utf8"

	"github.com/dshills/splitpad/internal/engine/buffer"
	"github.com/dshills/splitpad/internal/renderer/layout"
)

// Direction is a cursor movement.
type Direction int

const (
	MoveLeft Direction = iota
	MoveRight
	MoveUp
	MoveDown
	MoveLineStart
	MoveLineEnd
	MovePageUp
	MovePageDown
)

// Move moves the cursor. Movements that cannot go further beep.
func (v *View) Move(d Direction) {
	b, ok := v.Buffer()
	if !ok {
		return
	}
	c := v.cursor
	last := b.LineCount() - 1

	switch d {
	case MoveLeft:
		switch {
		case c.Col > 0:
			v.moveTo(b, buffer.Position{Line: c.Line, Col: c.Col - 1})
		case c.Line > 0:
			v.moveTo(b, buffer.Position{Line: c.Line - 1, Col: b.LineLen(c.Line - 1)})
		default:
			v.beep()
		}
	case MoveRight:
		switch {
		case c.Col < b.LineLen(c.Line):
			v.moveTo(b, buffer.Position{Line: c.Line, Col: c.Col + 1})
		case c.Line < last:
			v.moveTo(b, buffer.Position{Line: c.Line + 1})
		default:
			v.beep()
		}
	case MoveUp:
		if c.Line == 0 {
			v.beep()
			return
		}
		v.vertical(b, c.Line-1)
	case MoveDown:
		if c.Line == last {
			v.beep()
			return
		}
		v.vertical(b, c.Line+1)
	case MoveLineStart:
		// first non-blank, then column 0
		indent := utf8.RuneCountInString(b.Line(c.Line)) - utf8.RuneCountInString(strings.TrimLeft(b.Line(c.Line), " \t"))
		col := indent
		if c.Col == indent {
			col = 0
		}
		v.moveTo(b, buffer.Position{Line: c.Line, Col: col})
	case MoveLineEnd:
		v.moveTo(b, buffer.Position{Line: c.Line, Col: b.LineLen(c.Line)})
	case MovePageUp:
		v.page(b, -1)
	case MovePageDown:
		v.page(b, 1)
	}
}

// vertical moves to line keeping the goal column.
func (v *View) vertical(b *buffer.Buffer, line int) {
	v.cursor = b.Clamp(buffer.Position{Line: line, Col: v.goalCol})
	v.scroll(b)
}

// page moves the cursor and the viewport by one screen of visual rows.
func (v *View) page(b *buffer.Buffer, dir int) {
	rows := max(1, v.textRows())
	fr := v.frame(b)
	row, _ := v.visualCursor(fr)
	target := max(0, min(row+dir*rows, fr.rows()-1))
	if target == row {
		v.beep()
		return
	}
	line, sub, _ := layout.LineForRow(target, fr.cum)
	col := layout.LogicalColumn(v.sublines(fr, line), sub, 0)
	v.top = max(0, min(v.top+dir*rows, fr.rows()-1))
	v.cursor = b.Clamp(buffer.Position{Line: line, Col: col})
	v.goalCol = v.cursor.Col
	v.scroll(b)
}
