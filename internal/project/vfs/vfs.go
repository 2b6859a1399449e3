// Package vfs provides the backing store for document bytes.
//
// The VFS interface allows swapping the underlying file system implementation,
// so buffers can be exercised against an in-memory file system in tests and
// against the operating system in the editor. All operations are synchronous:
// the editor performs disk I/O inline on its event loop.
package vfs

import "io/fs"

// VFS is a virtual file system abstraction.
type VFS interface {
	// ReadFile reads the entire file content.
	ReadFile(path string) ([]byte, error)

	// WriteFile writes data to a file, creating it if necessary.
	WriteFile(path string, data []byte, perm fs.FileMode) error

	// MkdirAll creates a directory and all parent directories.
	MkdirAll(path string, perm fs.FileMode) error

	// Remove removes a file or empty directory.
	Remove(path string) error

	// Rename renames (moves) a file.
	Rename(oldPath, newPath string) error

	// Abs returns the absolute path.
	Abs(path string) (string, error)

	// Resolve returns the real location of path with symbolic links
	// followed. A path that does not exist yet resolves through its
	// directory.
	Resolve(path string) (string, error)

	// Perm returns the permission bits of an existing file.
	Perm(path string) (fs.FileMode, error)

	// Chmod sets the permission bits of a file.
	Chmod(path string, perm fs.FileMode) error

	// Exists returns true if the path exists.
	Exists(path string) bool
}

// Canonical returns the absolute real location of path, the key under
// which a file is identified regardless of the link used to reach it.
func Canonical(fsys VFS, path string) (string, error) {
	abs, err := fsys.Abs(path)
	if err != nil {
		return "", err
	}
	return fsys.Resolve(abs)
}
