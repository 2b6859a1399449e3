// Package history provides snapshot-based undo/redo for text buffers.
//
// A History is a stack of whole-document snapshots. Each snapshot holds a
// full copy of the buffer's line array plus the cursor position at the time
// it was recorded. A pointer measures the distance from the top of the stack:
//
//	top     (distance 0)   no redo available
//	  ...   interior positions
//	bottom  (distance n-1) no undo available
//
// # Recording
//
// AddChange discards every entry above the pointer (a new edit invalidates
// the redo future), pushes the new snapshot, resets the pointer to the top
// and then evicts entries from the bottom while the total snapshot size is
// above the byte ceiling:
//
//	h := history.New(lines, history.Cursor{}, 4<<20)
//	h.AddChange(newLines, cursor)
//
// # Undo and Redo
//
// Undo moves the pointer one step toward the bottom and returns a copy of
// the snapshot found there; Redo moves it one step toward the top. Both
// return ErrNothingToUndo / ErrNothingToRedo at the boundaries.
//
// Snapshots are copies, never diffs, so memory use is bounded only by the
// byte ceiling.
package history
