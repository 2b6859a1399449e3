package buffer

import (
	"path/filepath"
	"strings"

	"github.com/dshills/splitpad/internal/engine/history"
	"github.com/dshills/splitpad/internal/project/vfs"
)

// View is implemented by anything that displays a buffer.
type View interface {
	// BufferChanged is called after another view edited the buffer.
	// The view must re-clamp its cursor into the new bounds.
	BufferChanged(b *Buffer)

	// CursorRestored is called on every attached view after undo or redo
	// with the cursor recorded in the restored snapshot.
	CursorRestored(b *Buffer, pos Position)

	// Rebind is called when the view's buffer is merged into another
	// buffer; the view must reference id from now on.
	Rebind(id ID)
}

// Buffer is a single document held in memory.
//
// Buffer is not safe for concurrent use. All mutation happens on the
// editor's event loop.
type Buffer struct {
	id         ID
	path       string
	encoding   vfs.Encoding
	lineEnding vfs.LineEnding

	lines   []string
	dirty   bool
	changes changeLog

	// set when the file changed on disk behind our back
	changedOnDisk bool

	fs           vfs.VFS
	history      *history.History
	historyBytes int

	snapshotInterval   int
	backupInterval     int
	backupPrefix       string
	editsSinceSnapshot int
	editsSinceBackup   int
	lastCursor         Position

	views  []View
	onSave func(b *Buffer, oldPath string)
}

// New creates an empty scratch buffer.
func New(id ID, opts ...Option) *Buffer {
	return newBuffer(id, "", []string{""}, opts...)
}

// NewFromText creates a buffer holding text. The path may be empty.
func NewFromText(id ID, path, text string, opts ...Option) *Buffer {
	return newBuffer(id, path, SplitLines(text), opts...)
}

func newBuffer(id ID, path string, lines []string, opts ...Option) *Buffer {
	b := &Buffer{id: id, path: path}
	defaults(b)
	for _, opt := range opts {
		opt(b)
	}
	if len(lines) == 0 {
		lines = []string{""}
	}
	b.lines = lines
	b.history = history.New(b.lines, history.Cursor{}, b.historyBytes)
	return b
}

// SplitLines splits text into lines on any of "\r\n", "\n" or "\r".
// A trailing newline yields a final empty line, so JoinLines restores
// the original text exactly.
func SplitLines(text string) []string {
	if text == "" {
		return []string{""}
	}
	var lines []string
	start := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\n':
			lines = append(lines, text[start:i])
			start = i + 1
		case '\r':
			lines = append(lines, text[start:i])
			if i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
			start = i + 1
		}
	}
	return append(lines, text[start:])
}

// JoinLines joins lines with sep.
func JoinLines(lines []string, sep string) string {
	return strings.Join(lines, sep)
}

// ID returns the buffer id.
func (b *Buffer) ID() ID { return b.id }

// Path returns the absolute backing path, or "" for a scratch buffer.
func (b *Buffer) Path() string { return b.path }

// IsScratch returns true if the buffer has no backing path.
func (b *Buffer) IsScratch() bool { return b.path == "" }

// Name returns the base name of the path, or "[scratch]".
func (b *Buffer) Name() string {
	if b.path == "" {
		return "[scratch]"
	}
	return filepath.Base(b.path)
}

// Encoding returns the encoding used when saving.
func (b *Buffer) Encoding() vfs.Encoding { return b.encoding }

// LineEnding returns the newline convention used when saving.
func (b *Buffer) LineEnding() vfs.LineEnding { return b.lineEnding }

// SetLineEnding changes the newline convention and marks the buffer dirty.
func (b *Buffer) SetLineEnding(le vfs.LineEnding) {
	if le == b.lineEnding {
		return
	}
	b.lineEnding = le
	b.dirty = true
}

// IsDirty returns true if the buffer has changes not yet saved.
func (b *Buffer) IsDirty() bool { return b.dirty }

// ChangedOnDisk returns true if the file was modified externally since
// it was loaded or saved.
func (b *Buffer) ChangedOnDisk() bool { return b.changedOnDisk }

// MarkChangedOnDisk records an external modification of the backing file.
func (b *Buffer) MarkChangedOnDisk() { b.changedOnDisk = true }

// LineCount returns the number of lines. It is always at least 1.
func (b *Buffer) LineCount() int { return len(b.lines) }

// Line returns line i, or "" if i is out of range.
func (b *Buffer) Line(i int) string {
	if i < 0 || i >= len(b.lines) {
		return ""
	}
	return b.lines[i]
}

// LineLen returns the number of characters on line i.
func (b *Buffer) LineLen(i int) int {
	return runeLen(b.Line(i))
}

// Lines returns a copy of the line array.
func (b *Buffer) Lines() []string {
	return append([]string(nil), b.lines...)
}

// Text returns the document joined with the buffer's newline convention.
func (b *Buffer) Text() string {
	return JoinLines(b.lines, b.lineEnding.Separator())
}

// Clamp maps pos into the current document bounds. A position whose line
// no longer exists collapses to the origin; a column past the end of its
// line moves to the end of the line.
func (b *Buffer) Clamp(pos Position) Position {
	if pos.Line < 0 || pos.Line >= len(b.lines) {
		return Position{}
	}
	if pos.Col < 0 {
		pos.Col = 0
	}
	if n := runeLen(b.lines[pos.Line]); pos.Col > n {
		pos.Col = n
	}
	return pos
}

// Valid returns true if pos names an existing line and a column within it
// (the column just past the last character included).
func (b *Buffer) Valid(pos Position) bool {
	if pos.Line < 0 || pos.Line >= len(b.lines) || pos.Col < 0 {
		return false
	}
	return pos.Col <= runeLen(b.lines[pos.Line])
}

// Attach registers a view for notifications. Attaching twice is a no-op.
func (b *Buffer) Attach(v View) {
	for _, existing := range b.views {
		if existing == v {
			return
		}
	}
	b.views = append(b.views, v)
}

// Detach unregisters a view.
func (b *Buffer) Detach(v View) {
	for i, existing := range b.views {
		if existing == v {
			b.views = append(b.views[:i], b.views[i+1:]...)
			return
		}
	}
}

// Views returns the attached views.
func (b *Buffer) Views() []View {
	return append([]View(nil), b.views...)
}

// ViewCount returns the number of attached views.
func (b *Buffer) ViewCount() int { return len(b.views) }

// CanUndo returns true if Undo would restore an earlier state.
func (b *Buffer) CanUndo() bool {
	return b.editsSinceSnapshot > 0 || b.history.CanUndo()
}

// CanRedo returns true if Redo would restore a later state.
func (b *Buffer) CanRedo() bool {
	return b.editsSinceSnapshot == 0 && b.history.CanRedo()
}

// HistoryLen returns the number of snapshots in the undo history.
func (b *Buffer) HistoryLen() int { return b.history.Len() }

// EditsSinceSnapshot returns the edit counter for undo snapshots.
func (b *Buffer) EditsSinceSnapshot() int { return b.editsSinceSnapshot }

// EditsSinceBackup returns the edit counter for backup writes.
func (b *Buffer) EditsSinceBackup() int { return b.editsSinceBackup }

func (b *Buffer) notifyOthers(caller View) {
	for _, v := range b.Views() {
		if v != caller {
			v.BufferChanged(b)
		}
	}
}

func (b *Buffer) notifyAll() {
	for _, v := range b.Views() {
		v.BufferChanged(b)
	}
}
