package buffer

import (
	"errors"
	"io/fs"

	"github.com/dshills/splitpad/internal/project/vfs"
)

// Open loads the file at path into a new buffer. The buffer is bound to
// the real location of path, with symbolic links followed.
//
// A file that does not exist yields an empty buffer bound to path, so
// the first save creates it. Content that is not text is rejected with
// ErrBinary.
func Open(id ID, path string, opts ...Option) (*Buffer, error) {
	cfg := &Buffer{}
	defaults(cfg)
	for _, opt := range opts {
		opt(cfg)
	}
	fsys := cfg.fs

	abs, err := vfs.Canonical(fsys, path)
	if err != nil {
		return nil, &IOError{Op: "open", Path: path, Err: err}
	}

	content, err := fsys.ReadFile(abs)
	if errors.Is(err, fs.ErrNotExist) {
		return newBuffer(id, abs, []string{""}, opts...), nil
	}
	if err != nil {
		return nil, &IOError{Op: "open", Path: abs, Err: err}
	}

	text, enc, le, err := decode(content)
	if err != nil {
		return nil, &IOError{Op: "open", Path: abs, Err: err}
	}
	opts = append(opts, WithEncoding(enc), WithLineEnding(le))
	return newBuffer(id, abs, SplitLines(text), opts...), nil
}

// encode returns the document in its save encoding. Text that encoding
// cannot store is encoded as UTF-8 instead, and the encoding actually
// used is returned alongside.
func (b *Buffer) encode() ([]byte, vfs.Encoding, error) {
	text := b.Text()
	data, err := vfs.Encode(text, b.encoding)
	if errors.Is(err, vfs.ErrUnrepresentable) {
		data, err = vfs.Encode(text, vfs.EncodingUTF8)
		return data, vfs.EncodingUTF8, err
	}
	return data, b.encoding, err
}

func decode(content []byte) (string, vfs.Encoding, vfs.LineEnding, error) {
	if vfs.IsBinary(content) {
		return "", "", "", ErrBinary
	}
	text, enc, err := vfs.Decode(content)
	if err != nil {
		return "", "", "", err
	}
	return text, enc, vfs.DetectLineEnding(text), nil
}

// Save writes the document to path, or to the buffer's own path if path
// is empty. The write is atomic; on failure the buffer is left unchanged
// and still dirty.
//
// On success the buffer takes the new path, becomes clean, and any backup
// at the old or new location is removed. Edits not yet in the undo
// history are recorded first, so both checkpoint counters restart. The
// save hook runs last.
//
// Text the buffer's encoding cannot store is written as UTF-8, and the
// buffer keeps UTF-8 from then on; Encoding reports the switch.
func (b *Buffer) Save(path string) error {
	if path == "" {
		path = b.path
	}
	if path == "" {
		return ErrNoPath
	}
	abs, err := vfs.Canonical(b.fs, path)
	if err != nil {
		return &IOError{Op: "save", Path: path, Err: err}
	}

	data, enc, err := b.encode()
	if err != nil {
		return &IOError{Op: "save", Path: abs, Err: err}
	}
	if err := vfs.WriteFileAtomic(b.fs, abs, data, 0o644); err != nil {
		return &IOError{Op: "save", Path: abs, Err: err}
	}

	b.flush(b.lastCursor)
	oldPath := b.path
	b.path = abs
	b.encoding = enc
	b.dirty = false
	b.changedOnDisk = false
	b.editsSinceBackup = 0

	var backupErr error
	if oldPath != "" && oldPath != abs {
		backupErr = b.removeBackupOf(oldPath)
	}
	if err := b.removeBackupOf(abs); err != nil && backupErr == nil {
		backupErr = err
	}

	if b.onSave != nil {
		b.onSave(b, oldPath)
	}
	return backupErr
}

// Reload replaces the document with the current file content and marks
// the buffer clean. Used after the file changed on disk.
func (b *Buffer) Reload() error {
	if b.path == "" {
		return ErrNoPath
	}
	content, err := b.fs.ReadFile(b.path)
	if err != nil {
		return &IOError{Op: "open", Path: b.path, Err: err}
	}
	text, enc, le, err := decode(content)
	if err != nil {
		return &IOError{Op: "open", Path: b.path, Err: err}
	}
	b.lines = SplitLines(text)
	b.changes.reset()
	b.encoding = enc
	b.lineEnding = le
	b.dirty = false
	b.changedOnDisk = false
	b.editsSinceSnapshot = 0
	b.editsSinceBackup = 0
	b.history.AddChange(b.lines, Position{}.cursor())
	b.notifyAll()
	return nil
}

// RecoverBackup replaces the document with the content of its backup
// file. The buffer becomes dirty; the previous content stays reachable
// through Undo.
func (b *Buffer) RecoverBackup() error {
	p := b.BackupPath()
	if p == "" {
		return ErrNoPath
	}
	content, err := b.fs.ReadFile(p)
	if err != nil {
		return &IOError{Op: "recover", Path: p, Err: err}
	}
	text, _, _, err := decode(content)
	if err != nil {
		return &IOError{Op: "recover", Path: p, Err: err}
	}
	b.flush(b.lastCursor)
	b.lines = SplitLines(text)
	b.changes.reset()
	b.dirty = true
	b.notifyAll()
	b.snapshot(Position{})
	return nil
}

// Close releases the buffer: views are detached and the backup file is
// deleted.
func (b *Buffer) Close() error {
	b.views = nil
	return b.RemoveBackup()
}
