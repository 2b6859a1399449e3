package editor

import (
	"github.com/dshills/splitpad/internal/engine/buffer"
	"github.com/dshills/splitpad/internal/engine/store"
	"github.com/dshills/splitpad/internal/renderer/layout"
	"github.com/dshills/splitpad/internal/window"
)

// View is one pane's view of a buffer.
type View struct {
	store     *store.Store
	bufID     buffer.ID
	settings  Settings
	clipboard *Clipboard
	beep      func()

	area   window.Area
	cursor buffer.Position
	// column kept while moving vertically across shorter lines
	goalCol int

	// first visible visual row, and first visible display column when
	// wrapping is off
	top  int
	left int

	// row counts of the buffer's lines at the current width
	wrap wrapCache

	// line the cursor was last drawn on in a focused pane, or -1
	lastRendered int
	closed       bool
}

var (
	_ buffer.View   = (*View)(nil)
	_ window.Viewer = (*View)(nil)
)

// Buffer returns the buffer shown by the view.
func (v *View) Buffer() (*buffer.Buffer, bool) {
	if v.closed {
		return nil, false
	}
	return v.store.Get(v.bufID)
}

// BufferID returns the id of the buffer shown by the view.
func (v *View) BufferID() buffer.ID { return v.bufID }

// Path returns the buffer's path, or "" for a scratch buffer.
func (v *View) Path() string {
	if b, ok := v.Buffer(); ok {
		return b.Path()
	}
	return ""
}

// Cursor returns the logical cursor position.
func (v *View) Cursor() buffer.Position { return v.cursor }

// SetCursor moves the cursor, clamped into the buffer.
func (v *View) SetCursor(pos buffer.Position) {
	b, ok := v.Buffer()
	if !ok {
		return
	}
	v.moveTo(b, pos)
}

// Area returns the screen area of the view, status line included.
func (v *View) Area() window.Area { return v.area }

// Settings returns the view's wrap and indentation settings.
func (v *View) Settings() Settings { return v.settings }

// SetWrap changes the wrap mode of the view.
func (v *View) SetWrap(mode layout.WrapMode) {
	v.settings.Wrap = mode
	v.left = 0
	if b, ok := v.Buffer(); ok {
		v.scroll(b)
	}
}

// Resize gives the view a new area and scrolls the cursor into it.
func (v *View) Resize(area window.Area) {
	v.area = area
	if b, ok := v.Buffer(); ok {
		v.scroll(b)
	}
}

// Close detaches the view from its buffer and releases the buffer if it
// is an unmodified scratch buffer shown nowhere else.
func (v *View) Close() {
	if v.closed {
		return
	}
	if b, ok := v.store.Get(v.bufID); ok {
		b.Detach(v)
		v.store.Release(v.bufID)
	}
	v.closed = true
}

// Closed reports whether Close was called.
func (v *View) Closed() bool { return v.closed }

// BufferChanged re-clamps the cursor after another view edited the buffer.
func (v *View) BufferChanged(b *buffer.Buffer) {
	v.cursor = b.Clamp(v.cursor)
	v.goalCol = v.cursor.Col
	v.scroll(b)
}

// CursorRestored moves the cursor after undo or redo.
func (v *View) CursorRestored(b *buffer.Buffer, pos buffer.Position) {
	v.moveTo(b, pos)
}

// Rebind points the view at the buffer that absorbed its own.
func (v *View) Rebind(id buffer.ID) {
	v.bufID = id
}

// moveTo places the cursor and remembers its column as the goal.
func (v *View) moveTo(b *buffer.Buffer, pos buffer.Position) {
	v.cursor = b.Clamp(pos)
	v.goalCol = v.cursor.Col
	v.scroll(b)
}
