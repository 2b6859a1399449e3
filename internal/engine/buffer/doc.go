// Package buffer implements the text buffer of the editing engine.
//
// A Buffer owns one document: its ordered line array, backing path,
// encoding, newline convention and dirty flag. The line array is never
// empty; an empty document is exactly one empty line.
//
// # Editing
//
// Edits are expressed as operations (Insert, Delete, SplitLine, JoinLine,
// Paste, Indent) applied with Mutate. An operation validates its positions
// before touching the line array, so a rejected operation leaves the buffer
// unchanged:
//
//	cursor, err := buf.Mutate(buffer.Insert{At: pos, Text: "x"}, view)
//
// # Checkpoints
//
// After every edit the buffer runs its checkpoint bookkeeping: it marks
// itself dirty, notifies every attached view other than the one that made
// the edit, and counts edits. Every SnapshotInterval edits the whole line
// array is recorded in the undo history; every BackupInterval edits the
// document is written to a shadow backup file next to the original:
//
//	/path/to/notes.txt  ->  /path/to/.splitpad-backup-notes.txt
//
// Bulk operations (ReplaceAll, SetLines) and undo/redo use ForceCheckpoint,
// which performs the same bookkeeping unconditionally.
//
// # Views
//
// Views reference a buffer by id and attach to receive notifications.
// A buffer never owns its views; the store owns buffers.
package buffer
