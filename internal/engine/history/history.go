package history

import "errors"

// Common errors for history operations.
var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// DefaultMaxBytes is the default byte ceiling for all stored snapshots.
const DefaultMaxBytes = 4 << 20

// Cursor is the cursor position recorded with a snapshot.
type Cursor struct {
	Line int
	Col  int
}

// Snapshot is one undo/redo unit: a full copy of the line array plus cursor.
type Snapshot struct {
	Lines  []string
	Cursor Cursor
}

// Size returns the serialized size of the snapshot in bytes.
// Each line counts its bytes plus one byte for its line separator.
func (s Snapshot) Size() int {
	n := 0
	for _, line := range s.Lines {
		n += len(line) + 1
	}
	return n
}

// clone returns a deep copy of the snapshot.
func (s Snapshot) clone() Snapshot {
	lines := make([]string, len(s.Lines))
	copy(lines, s.Lines)
	return Snapshot{Lines: lines, Cursor: s.Cursor}
}

// History manages undo/redo state for a buffer.
//
// History is NOT safe for concurrent use; it is owned by a single buffer
// which is only mutated from the editor's event loop.
type History struct {
	entries []Snapshot // oldest first
	sizes   []int
	total   int

	// distance from the top of entries
	pointer int

	maxBytes int
}

// New creates a history whose bottom entry is the given initial state.
func New(lines []string, cursor Cursor, maxBytes int) *History {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	h := &History{maxBytes: maxBytes}
	h.AddChange(lines, cursor)
	return h
}

// AddChange records a new snapshot.
// Entries reachable only through Redo are discarded first.
func (h *History) AddChange(lines []string, cursor Cursor) {
	if h.pointer > 0 {
		keep := len(h.entries) - h.pointer
		for _, size := range h.sizes[keep:] {
			h.total -= size
		}
		h.entries = h.entries[:keep]
		h.sizes = h.sizes[:keep]
		h.pointer = 0
	}

	snap := Snapshot{Lines: lines, Cursor: cursor}.clone()
	size := snap.Size()
	h.entries = append(h.entries, snap)
	h.sizes = append(h.sizes, size)
	h.total += size

	h.evict()
}

// evict removes the oldest entries while the total size exceeds the ceiling.
func (h *History) evict() {
	drop := 0
	for drop < len(h.entries) && h.total > h.maxBytes {
		h.total -= h.sizes[drop]
		drop++
	}
	if drop == 0 {
		return
	}
	h.entries = append([]Snapshot(nil), h.entries[drop:]...)
	h.sizes = append([]int(nil), h.sizes[drop:]...)
	if h.pointer > len(h.entries)-1 {
		h.pointer = max(len(h.entries)-1, 0)
	}
}

// Undo moves one step toward the bottom and returns a copy of that snapshot.
func (h *History) Undo() (Snapshot, error) {
	if !h.CanUndo() {
		return Snapshot{}, ErrNothingToUndo
	}
	h.pointer++
	return h.current().clone(), nil
}

// Redo moves one step toward the top and returns a copy of that snapshot.
func (h *History) Redo() (Snapshot, error) {
	if !h.CanRedo() {
		return Snapshot{}, ErrNothingToRedo
	}
	h.pointer--
	return h.current().clone(), nil
}

func (h *History) current() Snapshot {
	return h.entries[len(h.entries)-1-h.pointer]
}

// CanUndo returns true if the pointer is above the bottom entry.
func (h *History) CanUndo() bool {
	return h.pointer < len(h.entries)-1
}

// CanRedo returns true if the pointer is below the top entry.
func (h *History) CanRedo() bool {
	return h.pointer > 0
}

// Len returns the number of stored snapshots.
func (h *History) Len() int {
	return len(h.entries)
}

// Pointer returns the distance of the current entry from the top.
func (h *History) Pointer() int {
	return h.pointer
}

// TotalBytes returns the combined size of all stored snapshots.
func (h *History) TotalBytes() int {
	return h.total
}

// MaxBytes returns the byte ceiling.
func (h *History) MaxBytes() int {
	return h.maxBytes
}

// Reset drops every entry and starts over from the given state.
func (h *History) Reset(lines []string, cursor Cursor) {
	h.entries = nil
	h.sizes = nil
	h.total = 0
	h.pointer = 0
	h.AddChange(lines, cursor)
}
