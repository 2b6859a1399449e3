package app

import (
	"errors"
	"fmt"
)

// Application errors.
var (
	// ErrQuit signals that the application should exit normally.
	ErrQuit = errors.New("quit requested")

	// ErrAlreadyRunning indicates the application is already running.
	ErrAlreadyRunning = errors.New("application already running")

	// ErrUnsavedChanges indicates a quit was refused because buffers have
	// unsaved changes.
	ErrUnsavedChanges = errors.New("unsaved changes")

	// ErrUnknownCommand is reported for a window command key with no
	// binding.
	ErrUnknownCommand = errors.New("unknown window command")
)

// InitError reports a component that failed to start.
type InitError struct {
	Component string
	Err       error
}

func (e *InitError) Error() string {
	return "init " + e.Component + ": " + e.Err.Error()
}

func (e *InitError) Unwrap() error { return e.Err }

// OperationError reports a failed editor command. Path is the file the
// command worked on; pane and tab commands leave it empty.
type OperationError struct {
	Op   string
	Path string
	Err  error
}

// opError wraps err for command op, or returns nil when err is nil so a
// command can return its last call's result through it.
func opError(op, path string, err error) error {
	if err == nil {
		return nil
	}
	return &OperationError{Op: op, Path: path, Err: err}
}

func (e *OperationError) Error() string {
	if e.Path == "" {
		return e.Op + ": " + e.Err.Error()
	}
	return e.Op + " " + e.Path + ": " + e.Err.Error()
}

func (e *OperationError) Unwrap() error { return e.Err }

// ComponentError reports a failure of something running beside the
// commands: the watcher, the hook script or the session file.
type ComponentError struct {
	Component string
	Action    string // may be empty
	Err       error
}

func (e *ComponentError) Error() string {
	if e.Action == "" {
		return e.Component + ": " + e.Err.Error()
	}
	return e.Component + ": " + e.Action + ": " + e.Err.Error()
}

func (e *ComponentError) Unwrap() error { return e.Err }

// panicError is a panic recovered while handling an event. Its message
// carries the stack and is meant for the log; the screen shows the value.
type panicError struct {
	value any
	stack string
}

func (e *panicError) Error() string {
	return fmt.Sprintf("panic: %v\n%s", e.value, e.stack)
}
