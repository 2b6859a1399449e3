package editor

import (
	"errors"

	"github.com/dshills/splitpad/internal/engine/buffer"
)

// ErrClosed is returned by edits on a closed view or a destroyed buffer.
var ErrClosed = errors.New("view is closed")

// apply runs op and moves the cursor to where the edit leaves it. A
// failed backup write still moves the cursor; the edit itself happened.
func (v *View) apply(op buffer.Op) error {
	b, ok := v.Buffer()
	if !ok {
		return ErrClosed
	}
	pos, err := b.Mutate(op, v)
	var ioErr *buffer.IOError
	if err != nil && !errors.As(err, &ioErr) {
		return err
	}
	v.moveTo(b, pos)
	return err
}

// InsertRune types r at the cursor.
func (v *View) InsertRune(r rune) error {
	return v.InsertText(string(r))
}

// InsertText inserts text at the cursor. Text may span several lines.
func (v *View) InsertText(text string) error {
	if text == "" {
		return nil
	}
	return v.apply(buffer.Insert{At: v.cursor, Text: text})
}

// Newline splits the line at the cursor.
func (v *View) Newline() error {
	return v.apply(buffer.SplitLine{At: v.cursor})
}

// Backspace deletes the character before the cursor, joining with the
// previous line at column 0.
func (v *View) Backspace() error {
	c := v.cursor
	switch {
	case c.Col > 0:
		return v.apply(buffer.Delete{From: buffer.Position{Line: c.Line, Col: c.Col - 1}, To: c})
	case c.Line > 0:
		return v.apply(buffer.JoinLine{Line: c.Line - 1})
	}
	v.beep()
	return nil
}

// DeleteForward deletes the character under the cursor, joining with the
// next line at the end of a line.
func (v *View) DeleteForward() error {
	b, ok := v.Buffer()
	if !ok {
		return ErrClosed
	}
	c := v.cursor
	switch {
	case c.Col < b.LineLen(c.Line):
		return v.apply(buffer.Delete{From: c, To: buffer.Position{Line: c.Line, Col: c.Col + 1}})
	case c.Line < b.LineCount()-1:
		return v.apply(buffer.JoinLine{Line: c.Line})
	}
	v.beep()
	return nil
}

// Indent shifts the cursor line right by one indent unit.
func (v *View) Indent() error {
	return v.apply(buffer.Indent{From: v.cursor.Line, To: v.cursor.Line, Unit: v.settings.IndentUnit, Cursor: v.cursor})
}

// Dedent shifts the cursor line left by one indent unit.
func (v *View) Dedent() error {
	return v.apply(buffer.Indent{From: v.cursor.Line, To: v.cursor.Line, Unit: v.settings.IndentUnit, Dedent: true, Cursor: v.cursor})
}

// CopyLine puts the cursor line on the clipboard.
func (v *View) CopyLine() {
	b, ok := v.Buffer()
	if !ok {
		return
	}
	v.clipboard.Set([]string{b.Line(v.cursor.Line)})
}

// CutLine moves the cursor line to the clipboard. The last remaining line
// of a document is emptied instead.
func (v *View) CutLine() error {
	b, ok := v.Buffer()
	if !ok {
		return ErrClosed
	}
	l := v.cursor.Line
	last := b.LineCount() - 1
	v.clipboard.Set([]string{b.Line(l)})

	var op buffer.Delete
	switch {
	case l < last:
		op = buffer.Delete{From: buffer.Position{Line: l}, To: buffer.Position{Line: l + 1}}
	case l > 0:
		op = buffer.Delete{
			From: buffer.Position{Line: l - 1, Col: b.LineLen(l - 1)},
			To:   buffer.Position{Line: l, Col: b.LineLen(l)},
		}
	default:
		op = buffer.Delete{To: buffer.Position{Col: b.LineLen(0)}}
	}
	if err := v.apply(op); err != nil {
		return err
	}
	v.cursor.Col = 0
	v.goalCol = 0
	return nil
}

// PasteLines inserts the clipboard lines below the cursor line.
func (v *View) PasteLines() error {
	if v.clipboard.Empty() {
		v.beep()
		return nil
	}
	return v.apply(buffer.Paste{After: v.cursor.Line, Lines: v.clipboard.Lines()})
}

// Undo reverts the buffer to its previous snapshot. At the bottom of the
// history it beeps and changes nothing.
func (v *View) Undo() error {
	return v.travel((*buffer.Buffer).Undo)
}

// Redo re-applies an undone snapshot, or beeps.
func (v *View) Redo() error {
	return v.travel((*buffer.Buffer).Redo)
}

func (v *View) travel(step func(*buffer.Buffer, buffer.Position) (buffer.Position, error)) error {
	b, ok := v.Buffer()
	if !ok {
		return ErrClosed
	}
	// every view, this one included, is moved by CursorRestored
	_, err := step(b, v.cursor)
	if buffer.IsExhausted(err) {
		v.beep()
		return nil
	}
	return err
}

// ReplaceAll replaces every occurrence of old in the buffer.
func (v *View) ReplaceAll(old, replacement string) (int, error) {
	b, ok := v.Buffer()
	if !ok {
		return 0, ErrClosed
	}
	n, err := b.ReplaceAll(old, replacement, v.cursor, v)
	v.moveTo(b, v.cursor)
	return n, err
}
