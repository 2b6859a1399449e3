package editor

import (
	"slices"

	"github.com/dshills/splitpad/internal/engine/buffer"
	"github.com/dshills/splitpad/internal/renderer/layout"
)

// wrapCache holds the visual row count of every line of a buffer at one
// width and wrap mode, and the running totals over them. It follows the
// buffer's change log so an edit rewraps only the lines it touched.
type wrapCache struct {
	buf     *buffer.Buffer
	version uint64
	width   int
	mode    layout.WrapMode

	rows []int
	cum  []int

	// lines wrapped so far
	wrapped int
}

// update brings the cache up to date with b and returns the running
// totals, as layout.CumLengths would compute them.
func (c *wrapCache) update(b *buffer.Buffer, width int, mode layout.WrapMode) []int {
	if c.buf != b || c.width != width || c.mode != mode {
		c.rebuild(b, width, mode)
		return c.cum
	}
	if c.version == b.Version() {
		return c.cum
	}
	changes, ok := b.ChangesSince(c.version)
	if !ok {
		c.rebuild(b, width, mode)
		return c.cum
	}

	first := len(c.rows)
	for _, ch := range changes {
		if ch.Line < 0 || ch.Line+ch.Removed > len(c.rows) {
			c.rebuild(b, width, mode)
			return c.cum
		}
		// -1 marks a line to wrap once every change is applied
		c.rows = slices.Replace(c.rows, ch.Line, ch.Line+ch.Removed, slices.Repeat([]int{-1}, ch.Added)...)
		first = min(first, ch.Line)
	}
	if len(c.rows) != b.LineCount() {
		c.rebuild(b, width, mode)
		return c.cum
	}

	c.cum = c.cum[:first+1]
	for i := first; i < len(c.rows); i++ {
		if c.rows[i] < 0 {
			c.rows[i] = c.count(b.Line(i))
		}
		c.cum = append(c.cum, c.cum[i]+c.rows[i])
	}
	c.version = b.Version()
	return c.cum
}

func (c *wrapCache) rebuild(b *buffer.Buffer, width int, mode layout.WrapMode) {
	c.buf, c.width, c.mode = b, width, mode
	c.version = b.Version()
	n := b.LineCount()
	c.rows = slices.Grow(c.rows[:0], n)[:n]
	c.cum = slices.Grow(c.cum[:0], n+1)[:n+1]
	c.cum[0] = 0
	for i := range n {
		c.rows[i] = c.count(b.Line(i))
		c.cum[i+1] = c.cum[i] + c.rows[i]
	}
}

func (c *wrapCache) count(line string) int {
	c.wrapped++
	return layout.RowCount(line, c.width, c.mode)
}
