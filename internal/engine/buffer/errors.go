package buffer

import (
	"errors"
	"fmt"

	"github.com/dshills/splitpad/internal/engine/history"
)

// Errors returned by buffer operations.
var (
	// ErrInvalidPosition indicates an operation referenced a position outside the document.
	ErrInvalidPosition = errors.New("invalid position")

	// ErrBinary indicates the file content is not text.
	ErrBinary = errors.New("binary file")

	// ErrNoPath indicates a save was requested for a scratch buffer without a path.
	ErrNoPath = errors.New("buffer has no path")

	// ErrNothingToUndo is returned by Undo at the bottom of the history.
	ErrNothingToUndo = history.ErrNothingToUndo

	// ErrNothingToRedo is returned by Redo at the top of the history.
	ErrNothingToRedo = history.ErrNothingToRedo
)

// IOError reports a failed read or write of a document or its backup.
type IOError struct {
	Op   string // "open", "save", "backup", "recover"
	Path string
	Err  error
}

func (e *IOError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// IsExhausted returns true if err signals an undo/redo boundary.
func IsExhausted(err error) bool {
	return errors.Is(err, ErrNothingToUndo) || errors.Is(err, ErrNothingToRedo)
}

func invalidPosition(pos Position, b *Buffer) error {
	return fmt.Errorf("%w: %s in %d lines", ErrInvalidPosition, pos, len(b.lines))
}
