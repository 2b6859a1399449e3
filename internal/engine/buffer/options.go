package buffer

import (
	"github.com/dshills/splitpad/internal/engine/history"
	"github.com/dshills/splitpad/internal/project/vfs"
)

// Defaults for checkpoint bookkeeping.
const (
	DefaultSnapshotInterval = 8
	DefaultBackupInterval   = 16
	DefaultBackupPrefix     = "splitpad-backup"
)

// Option configures a Buffer.
type Option func(*Buffer)

// WithFS sets the file system used for loading, saving and backups.
func WithFS(fsys vfs.VFS) Option {
	return func(b *Buffer) {
		if fsys != nil {
			b.fs = fsys
		}
	}
}

// WithSnapshotInterval sets how many edits pass between undo snapshots.
func WithSnapshotInterval(n int) Option {
	return func(b *Buffer) {
		if n > 0 {
			b.snapshotInterval = n
		}
	}
}

// WithBackupInterval sets how many edits pass between backup writes.
func WithBackupInterval(n int) Option {
	return func(b *Buffer) {
		if n > 0 {
			b.backupInterval = n
		}
	}
}

// WithBackupPrefix sets the prefix of shadow backup file names.
func WithBackupPrefix(prefix string) Option {
	return func(b *Buffer) {
		if prefix != "" {
			b.backupPrefix = prefix
		}
	}
}

// WithHistoryLimit sets the byte ceiling of the undo history.
func WithHistoryLimit(maxBytes int) Option {
	return func(b *Buffer) {
		if maxBytes > 0 {
			b.historyBytes = maxBytes
		}
	}
}

// WithLineEnding sets the newline convention used when saving.
func WithLineEnding(le vfs.LineEnding) Option {
	return func(b *Buffer) {
		b.lineEnding = le
	}
}

// WithEncoding sets the character encoding used when saving.
func WithEncoding(enc vfs.Encoding) Option {
	return func(b *Buffer) {
		b.encoding = enc
	}
}

// WithSaveHook registers a function called after every successful save.
// The store uses it to merge buffers that now share a path.
func WithSaveHook(fn func(b *Buffer, oldPath string)) Option {
	return func(b *Buffer) {
		b.onSave = fn
	}
}

func defaults(b *Buffer) {
	b.fs = vfs.NewOSFS()
	b.encoding = vfs.EncodingUTF8
	b.lineEnding = vfs.LineEndingLF
	b.snapshotInterval = DefaultSnapshotInterval
	b.backupInterval = DefaultBackupInterval
	b.backupPrefix = DefaultBackupPrefix
	b.historyBytes = history.DefaultMaxBytes
}
