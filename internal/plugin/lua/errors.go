package lua

import (
	"errors"
	"fmt"
)

// Errors for Lua state operations.
var (
	// ErrStateClosed is returned when operating on a closed state.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrExecutionTimeout is returned when execution times out.
	ErrExecutionTimeout = errors.New("lua execution timeout")

	// ErrNoHook is returned when a script defines none of the known hooks.
	ErrNoHook = errors.New("script defines no hook")
)

// ScriptError reports a failure inside a script.
type ScriptError struct {
	Script string
	Hook   string
	Err    error
}

func (e *ScriptError) Error() string {
	if e.Hook == "" {
		return fmt.Sprintf("lua %s: %v", e.Script, e.Err)
	}
	return fmt.Sprintf("lua %s: %s: %v", e.Script, e.Hook, e.Err)
}

func (e *ScriptError) Unwrap() error {
	return e.Err
}
