package vfs

import (
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/google/uuid"
)

// WriteFileAtomic writes data next to the real location of path under a
// unique temporary name and renames it into place. Symbolic links are
// followed so the link survives and its target receives the data. An
// existing file keeps its permission bits; perm applies to new files. A
// failed write leaves the original file untouched.
func WriteFileAtomic(fsys VFS, path string, data []byte, perm fs.FileMode) error {
	target, err := fsys.Resolve(path)
	if err != nil {
		return err
	}
	if existing, err := fsys.Perm(target); err == nil {
		perm = existing
	}

	dir, base := filepath.Split(target)
	tmp := filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", base, uuid.New().String()))

	if err := fsys.WriteFile(tmp, data, perm); err != nil {
		return err
	}
	if err := fsys.Chmod(tmp, perm); err != nil {
		_ = fsys.Remove(tmp)
		return err
	}
	if err := fsys.Rename(tmp, target); err != nil {
		_ = fsys.Remove(tmp) // best-effort cleanup
		return err
	}
	return nil
}
