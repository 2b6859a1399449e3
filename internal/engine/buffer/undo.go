package buffer

import "github.com/dshills/splitpad/internal/engine/history"

// Undo restores the previous snapshot.
//
// Edits made since the last snapshot are recorded first, so they are the
// first thing undone. cursor is the caller's current cursor, stored with
// that pending state.
//
// Every attached view, including the one that asked, receives
// CursorRestored with the restored cursor. ErrNothingToUndo is returned
// at the bottom of the history and the buffer is unchanged.
func (b *Buffer) Undo(cursor Position) (Position, error) {
	b.flush(cursor)
	snap, err := b.history.Undo()
	if err != nil {
		return cursor, err
	}
	return b.restore(snap)
}

// Redo re-applies the next snapshot. Pending edits discard the redo
// entries, so Redo after an edit returns ErrNothingToRedo.
func (b *Buffer) Redo(cursor Position) (Position, error) {
	b.flush(cursor)
	snap, err := b.history.Redo()
	if err != nil {
		return cursor, err
	}
	return b.restore(snap)
}

func (b *Buffer) flush(cursor Position) {
	if b.editsSinceSnapshot > 0 {
		b.snapshot(cursor)
	}
}

// restore installs snap as the current state. The history pointer has
// already moved, so no new snapshot is taken; the backup is refreshed.
func (b *Buffer) restore(snap history.Snapshot) (Position, error) {
	b.lines = snap.Lines
	if len(b.lines) == 0 {
		b.lines = []string{""}
	}
	b.changes.reset()
	b.dirty = true
	b.editsSinceSnapshot = 0

	pos := b.Clamp(fromCursor(snap.Cursor))
	b.lastCursor = pos
	for _, v := range b.Views() {
		v.CursorRestored(b, pos)
	}
	return pos, b.backup()
}
