package buffer

import (
	"fmt"
	"unicode/utf8"

	"github.com/dshills/splitpad/internal/engine/history"
)

// ID identifies a buffer within a store.
// Ids are stable for the buffer's lifetime and reused only after it is destroyed.
type ID int

// NoID is the zero ID; it never names a live buffer.
const NoID ID = 0

// Position is a logical (line, column) position in a buffer.
// Both are 0-indexed; Col counts characters (runes), not bytes.
type Position struct {
	Line int
	Col  int
}

// String returns a human-readable representation of the position.
func (p Position) String() string {
	return fmt.Sprintf("(%d:%d)", p.Line, p.Col)
}

// Before returns true if p comes before other.
func (p Position) Before(other Position) bool {
	if p.Line != other.Line {
		return p.Line < other.Line
	}
	return p.Col < other.Col
}

func (p Position) cursor() history.Cursor {
	return history.Cursor{Line: p.Line, Col: p.Col}
}

func fromCursor(c history.Cursor) Position {
	return Position{Line: c.Line, Col: c.Col}
}

// byteOffset returns the byte index of rune column col in s.
// Columns past the end map to len(s).
func byteOffset(s string, col int) int {
	if col <= 0 {
		return 0
	}
	i := 0
	for n := 0; n < col; n++ {
		if i >= len(s) {
			return len(s)
		}
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
	}
	return i
}

// runeLen returns the number of characters in s.
func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
