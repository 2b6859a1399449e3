// Package loader reads raw configuration maps from TOML files and from
// environment variables.
package loader

import (
	"io"

	"github.com/dshills/splitpad/internal/project/vfs"
)

// Loader is the interface for configuration loaders.
type Loader interface {
	// Load reads configuration from the source and returns a map.
	// Returns nil, nil if the source doesn't exist (not an error).
	Load() (map[string]any, error)
}

// ReaderLoader is the interface for loaders that read from io.Reader.
type ReaderLoader interface {
	LoadFromReader(r io.Reader) (map[string]any, error)
}

// FileSystem is the part of the file system a loader reads through.
// vfs.OSFS and vfs.MemFS both satisfy it.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
}

// DefaultFS returns the OS file system.
func DefaultFS() FileSystem {
	return vfs.NewOSFS()
}
