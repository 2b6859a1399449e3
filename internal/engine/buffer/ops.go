package buffer

import (
	"fmt"
	"strings"
)

// Op is an edit that can be applied to a buffer with Mutate.
//
// apply validates before it changes anything and returns the cursor
// position that should follow the edit.
type Op interface {
	apply(b *Buffer) (Position, error)
	// span returns the first line the edit touches and how many existing
	// lines it replaces.
	span() (line, count int)
}

// Insert inserts text at a position. Text may span several lines.
type Insert struct {
	At   Position
	Text string
}

func (op Insert) span() (int, int) { return op.At.Line, 1 }

func (op Insert) apply(b *Buffer) (Position, error) {
	if !b.Valid(op.At) {
		return op.At, invalidPosition(op.At, b)
	}
	return b.insertText(op.At, op.Text), nil
}

// Delete removes the text between two positions. The order of From and
// To does not matter; the range is half-open.
type Delete struct {
	From Position
	To   Position
}

func (op Delete) span() (int, int) {
	from, to := op.From.Line, op.To.Line
	if to < from {
		from, to = to, from
	}
	return from, to - from + 1
}

func (op Delete) apply(b *Buffer) (Position, error) {
	from, to := op.From, op.To
	if to.Before(from) {
		from, to = to, from
	}
	if !b.Valid(from) {
		return from, invalidPosition(from, b)
	}
	if !b.Valid(to) {
		return from, invalidPosition(to, b)
	}
	b.deleteRange(from, to)
	return from, nil
}

// SplitLine breaks a line in two at a position.
type SplitLine struct {
	At Position
}

func (op SplitLine) span() (int, int) { return op.At.Line, 1 }

func (op SplitLine) apply(b *Buffer) (Position, error) {
	if !b.Valid(op.At) {
		return op.At, invalidPosition(op.At, b)
	}
	return b.insertText(op.At, "\n"), nil
}

// JoinLine appends the following line to Line.
type JoinLine struct {
	Line int
}

func (op JoinLine) span() (int, int) { return op.Line, 2 }

func (op JoinLine) apply(b *Buffer) (Position, error) {
	if op.Line < 0 || op.Line >= len(b.lines)-1 {
		return Position{Line: op.Line}, fmt.Errorf("%w: join line %d of %d", ErrInvalidPosition, op.Line, len(b.lines))
	}
	end := Position{Line: op.Line, Col: runeLen(b.lines[op.Line])}
	b.deleteRange(end, Position{Line: op.Line + 1})
	return end, nil
}

// Paste inserts whole lines after line After. After may be -1 to paste
// above the first line.
type Paste struct {
	After int
	Lines []string
}

func (op Paste) span() (int, int) { return op.After + 1, 0 }

func (op Paste) apply(b *Buffer) (Position, error) {
	if op.After < -1 || op.After >= len(b.lines) {
		return Position{Line: op.After}, fmt.Errorf("%w: paste after line %d of %d", ErrInvalidPosition, op.After, len(b.lines))
	}
	if len(op.Lines) == 0 {
		return Position{Line: max(op.After, 0)}, nil
	}
	at := op.After + 1
	lines := make([]string, 0, len(b.lines)+len(op.Lines))
	lines = append(lines, b.lines[:at]...)
	lines = append(lines, op.Lines...)
	lines = append(lines, b.lines[at:]...)
	b.lines = lines
	return Position{Line: at}, nil
}

// Indent shifts lines From..To (inclusive) by Unit. With Dedent set, one
// leading Unit (or a tab, or whatever leading spaces remain) is removed.
// Cursor is adjusted and returned as the new cursor.
type Indent struct {
	From   int
	To     int
	Unit   string
	Dedent bool
	Cursor Position
}

func (op Indent) span() (int, int) {
	return min(op.From, op.To), max(op.From, op.To) - min(op.From, op.To) + 1
}

func (op Indent) apply(b *Buffer) (Position, error) {
	from, to := op.From, op.To
	if to < from {
		from, to = to, from
	}
	if from < 0 || to >= len(b.lines) {
		return op.Cursor, fmt.Errorf("%w: indent lines %d-%d of %d", ErrInvalidPosition, from, to, len(b.lines))
	}
	unit := op.Unit
	if unit == "" {
		unit = "\t"
	}
	cursor := op.Cursor
	for i := from; i <= to; i++ {
		var delta int
		if op.Dedent {
			b.lines[i], delta = dedent(b.lines[i], unit)
			delta = -delta
		} else {
			if b.lines[i] == "" {
				continue
			}
			b.lines[i] = unit + b.lines[i]
			delta = runeLen(unit)
		}
		if i == cursor.Line {
			cursor.Col = max(cursor.Col+delta, 0)
		}
	}
	return b.Clamp(cursor), nil
}

func dedent(line, unit string) (string, int) {
	switch {
	case strings.HasPrefix(line, unit):
		return line[len(unit):], runeLen(unit)
	case strings.HasPrefix(line, "\t"):
		return line[1:], 1
	}
	n := 0
	for n < len(line) && n < len(unit) && line[n] == ' ' {
		n++
	}
	return line[n:], n
}

// insertText inserts text at a valid position and returns the position
// just past the inserted text.
func (b *Buffer) insertText(at Position, text string) Position {
	if text == "" {
		return at
	}
	line := b.lines[at.Line]
	off := byteOffset(line, at.Col)
	head, tail := line[:off], line[off:]

	parts := SplitLines(text)
	if len(parts) == 1 {
		b.lines[at.Line] = head + text + tail
		return Position{Line: at.Line, Col: at.Col + runeLen(text)}
	}

	last := len(parts) - 1
	end := Position{Line: at.Line + last, Col: runeLen(parts[last])}
	parts[0] = head + parts[0]
	parts[last] += tail

	lines := make([]string, 0, len(b.lines)+last)
	lines = append(lines, b.lines[:at.Line]...)
	lines = append(lines, parts...)
	lines = append(lines, b.lines[at.Line+1:]...)
	b.lines = lines
	return end
}

// deleteRange removes [from, to) where both positions are valid and ordered.
func (b *Buffer) deleteRange(from, to Position) {
	head := b.lines[from.Line][:byteOffset(b.lines[from.Line], from.Col)]
	tail := b.lines[to.Line][byteOffset(b.lines[to.Line], to.Col):]
	b.lines[from.Line] = head + tail
	if to.Line > from.Line {
		b.lines = append(b.lines[:from.Line+1], b.lines[to.Line+1:]...)
	}
}

// TextRange returns the text between two positions joined with "\n".
func (b *Buffer) TextRange(from, to Position) string {
	if to.Before(from) {
		from, to = to, from
	}
	from, to = b.Clamp(from), b.Clamp(to)
	if from.Line == to.Line {
		line := b.lines[from.Line]
		return line[byteOffset(line, from.Col):byteOffset(line, to.Col)]
	}
	var sb strings.Builder
	first := b.lines[from.Line]
	sb.WriteString(first[byteOffset(first, from.Col):])
	for i := from.Line + 1; i < to.Line; i++ {
		sb.WriteByte('\n')
		sb.WriteString(b.lines[i])
	}
	sb.WriteByte('\n')
	last := b.lines[to.Line]
	sb.WriteString(last[:byteOffset(last, to.Col)])
	return sb.String()
}
