package layout

import (
	"sort"
	"unicode/utf8"
)

// CumLengths returns the running total of visual rows: element i is the
// first visual row of logical line i, and the final element is the total
// row count. The result has len(lines)+1 elements.
func CumLengths(lines []string, width int, mode WrapMode) []int {
	cum := make([]int, len(lines)+1)
	for i, line := range lines {
		cum[i+1] = cum[i] + RowCount(line, width, mode)
	}
	return cum
}

// WrappedCursor maps logical column x of a wrapped line to the index of
// the subline containing it and the column within that subline.
//
// A column on a subline boundary belongs to the following subline. The
// column just past the end of the line stays on the last subline.
func WrappedCursor(sublines []string, x int) (index, col int) {
	if len(sublines) <= 1 {
		return 0, x
	}
	consumed := 0
	for i, s := range sublines {
		n := utf8.RuneCountInString(s)
		if consumed+n > x {
			return i, x - consumed
		}
		consumed += n
	}
	last := len(sublines) - 1
	return last, x - (consumed - utf8.RuneCountInString(sublines[last]))
}

// LogicalColumn is the inverse of WrappedCursor.
func LogicalColumn(sublines []string, index, col int) int {
	x := 0
	for i := 0; i < index && i < len(sublines); i++ {
		x += utf8.RuneCountInString(sublines[i])
	}
	return x + col
}

// RenderedPosition returns the visual (row, col) of logical position
// (line, col). cum must come from CumLengths over the same lines.
func RenderedPosition(lines []string, width int, mode WrapMode, line, col int, cum []int) (int, int) {
	if line < 0 || line >= len(lines) || line >= len(cum) {
		return 0, 0
	}
	index, c := WrappedCursor(Wrap(lines[line], width, mode), col)
	return cum[line] + index, c
}

// LineForRow returns the logical line owning visual row row and the
// subline index of row within it.
func LineForRow(row int, cum []int) (line, subline int, ok bool) {
	if len(cum) < 2 || row < 0 || row >= cum[len(cum)-1] {
		return 0, 0, false
	}
	i := sort.Search(len(cum), func(k int) bool { return cum[k] > row }) - 1
	return i, row - cum[i], true
}

// LineNumberForRow returns the 1-based line number to show in the gutter
// for visual row row. Only the first row of a logical line gets a number;
// continuation rows and rows past the end report false.
func LineNumberForRow(row int, cum []int) (int, bool) {
	line, sub, ok := LineForRow(row, cum)
	if !ok || sub != 0 {
		return 0, false
	}
	return line + 1, true
}

// IsWithinActiveBlock returns true if row belongs to the rows of line and
// line is the last line the cursor was rendered on. Views use it to
// highlight every wrapped row of the cursor line.
func IsWithinActiveBlock(row, line int, cum []int, lastRendered int) bool {
	if line != lastRendered || line < 0 || line+1 >= len(cum) {
		return false
	}
	return cum[line] <= row && row < cum[line+1]
}
