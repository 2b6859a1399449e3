package buffer

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
)

// Mutate applies op and runs checkpoint bookkeeping on success.
// caller is the view making the edit; it is not notified.
//
// The returned position is the cursor after the edit. A non-nil error
// either rejects the edit (the buffer is unchanged) or, if it is an
// *IOError, reports a failed backup write after a successful edit.
func (b *Buffer) Mutate(op Op, caller View) (Position, error) {
	line, removed := op.span()
	before := len(b.lines)
	cursor, err := op.apply(b)
	if err != nil {
		return cursor, err
	}
	b.changes.record(Change{Line: line, Removed: removed, Added: removed + len(b.lines) - before})
	return cursor, b.Checkpoint(cursor, caller)
}

// Checkpoint records that an edit happened.
//
// The buffer is marked dirty and every view but caller is notified.
// Every snapshot-interval edits the state is pushed to the undo history;
// every backup-interval edits the backup file is written.
func (b *Buffer) Checkpoint(cursor Position, caller View) error {
	b.dirty = true
	b.lastCursor = cursor
	b.notifyOthers(caller)

	b.editsSinceSnapshot++
	if b.editsSinceSnapshot >= b.snapshotInterval {
		b.snapshot(cursor)
	}

	b.editsSinceBackup++
	if b.editsSinceBackup >= b.backupInterval {
		return b.backup()
	}
	return nil
}

// ForceCheckpoint snapshots the current state unconditionally and, if
// makeBackup is set, writes the backup file. Used after bulk edits.
func (b *Buffer) ForceCheckpoint(cursor Position, caller View, makeBackup bool) error {
	b.dirty = true
	b.notifyOthers(caller)
	b.snapshot(cursor)
	if makeBackup {
		return b.backup()
	}
	return nil
}

// ReplaceAll replaces every occurrence of old with replacement on every line and
// returns the number of replacements. Occurrences never span lines.
func (b *Buffer) ReplaceAll(old, replacement string, cursor Position, caller View) (int, error) {
	if old == "" {
		return 0, nil
	}
	count := 0
	b.flush(b.lastCursor)
	for i, line := range b.lines {
		if n := strings.Count(line, old); n > 0 {
			count += n
			b.lines[i] = strings.ReplaceAll(line, old, replacement)
		}
	}
	if count == 0 {
		return 0, nil
	}
	b.changes.reset()
	if err := b.ForceCheckpoint(b.Clamp(cursor), caller, true); err != nil {
		return count, err
	}
	return count, nil
}

// SetLines replaces the whole document.
func (b *Buffer) SetLines(lines []string, cursor Position, caller View) error {
	if len(lines) == 0 {
		lines = []string{""}
	}
	b.flush(b.lastCursor)
	b.lines = append([]string(nil), lines...)
	b.changes.reset()
	return b.ForceCheckpoint(b.Clamp(cursor), caller, true)
}

func (b *Buffer) snapshot(cursor Position) {
	b.history.AddChange(b.lines, cursor.cursor())
	b.lastCursor = cursor
	b.editsSinceSnapshot = 0
}

// BackupPath returns the shadow backup location for path:
// the same directory, with the file name prefixed by "." + prefix + "-".
func BackupPath(path, prefix string) string {
	if prefix == "" {
		prefix = DefaultBackupPrefix
	}
	dir, name := filepath.Split(path)
	return filepath.Join(dir, "."+prefix+"-"+name)
}

// BackupPath returns the backup location of this buffer, or "" for a
// scratch buffer.
func (b *Buffer) BackupPath() string {
	if b.path == "" {
		return ""
	}
	return BackupPath(b.path, b.backupPrefix)
}

// HasBackup returns true if a backup file exists for this buffer.
func (b *Buffer) HasBackup() bool {
	p := b.BackupPath()
	return p != "" && b.fs.Exists(p)
}

// backup writes the document to its shadow file. Scratch buffers have
// nowhere to write and are skipped.
func (b *Buffer) backup() error {
	b.editsSinceBackup = 0
	p := b.BackupPath()
	if p == "" {
		return nil
	}
	data, _, err := b.encode()
	if err != nil {
		return &IOError{Op: "backup", Path: p, Err: err}
	}
	if err := b.fs.WriteFile(p, data, 0o600); err != nil {
		return &IOError{Op: "backup", Path: p, Err: err}
	}
	return nil
}

// RemoveBackup deletes the backup file if there is one.
func (b *Buffer) RemoveBackup() error {
	if b.path == "" {
		return nil
	}
	return b.removeBackupOf(b.path)
}

func (b *Buffer) removeBackupOf(path string) error {
	p := BackupPath(path, b.backupPrefix)
	if !b.fs.Exists(p) {
		return nil
	}
	if err := b.fs.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return &IOError{Op: "backup", Path: p, Err: err}
	}
	return nil
}
