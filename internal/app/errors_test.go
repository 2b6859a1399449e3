package app

import (
	"errors"
	"strings"
	"testing"
)

func TestOperationError_Error(t *testing.T) {
	refused := errors.New("refused")
	tests := []struct {
		name     string
		err      *OperationError
		expected string
	}{
		{"pane command", &OperationError{Op: "split", Err: refused}, "split: refused"},
		{"file command", &OperationError{Op: "save", Path: "/proj/a.txt", Err: refused}, "save /proj/a.txt: refused"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := tt.err.Error(); result != tt.expected {
				t.Errorf("expected '%s', got '%s'", tt.expected, result)
			}
		})
	}
}

func TestOpError(t *testing.T) {
	if err := opError("save", "a.txt", nil); err != nil {
		t.Errorf("expected nil for a nil cause, got %v", err)
	}

	sentinel := errors.New("disk full")
	err := opError("save", "a.txt", sentinel)
	if !errors.Is(err, sentinel) {
		t.Errorf("expected the cause to unwrap, got %v", err)
	}
	var opErr *OperationError
	if !errors.As(err, &opErr) || opErr.Path != "a.txt" {
		t.Errorf("expected an OperationError for a.txt, got %v", err)
	}
}

func TestComponentError_Error(t *testing.T) {
	inner := errors.New("inotify limit")
	tests := []struct {
		err      *ComponentError
		expected string
	}{
		{&ComponentError{Component: "watcher", Err: inner}, "watcher: inotify limit"},
		{&ComponentError{Component: "watcher", Action: "start", Err: inner}, "watcher: start: inotify limit"},
	}

	for _, tt := range tests {
		if result := tt.err.Error(); result != tt.expected {
			t.Errorf("expected '%s', got '%s'", tt.expected, result)
		}
	}

	if !errors.Is(&ComponentError{Component: "hooks", Action: "load", Err: inner}, inner) {
		t.Error("expected ComponentError to unwrap its cause")
	}
}

func TestInitError(t *testing.T) {
	inner := errors.New("no tty")
	err := &InitError{Component: "renderer", Err: inner}
	if err.Error() != "init renderer: no tty" {
		t.Errorf("expected 'init renderer: no tty', got '%s'", err.Error())
	}
	if !errors.Is(err, inner) {
		t.Error("expected InitError to unwrap its cause")
	}
}

func TestPanicError(t *testing.T) {
	tests := []struct {
		err      *panicError
		expected string
	}{
		{&panicError{value: "boom"}, "panic: boom\n"},
		{&panicError{value: 42, stack: "goroutine 1"}, "panic: 42\ngoroutine 1"},
	}

	for _, tt := range tests {
		if result := tt.err.Error(); result != tt.expected {
			t.Errorf("expected %q, got %q", tt.expected, result)
		}
	}
}

func TestSentinelErrors(t *testing.T) {
	sentinels := []error{ErrQuit, ErrAlreadyRunning, ErrUnsavedChanges, ErrUnknownCommand}
	for i, a := range sentinels {
		if strings.TrimSpace(a.Error()) == "" {
			t.Errorf("expected a message for sentinel %d", i)
		}
		for j, b := range sentinels {
			if i != j && errors.Is(a, b) {
				t.Errorf("expected %v and %v to be distinct", a, b)
			}
		}
	}
}
