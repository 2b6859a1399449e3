// Package watcher reports external changes to the files of open buffers.
//
// Directories are watched rather than files so that replacements made by
// rename (atomic saves) are seen. Only tracked files produce events, and
// only when their size or modification time differs from the last state
// recorded for them. Rapid changes to one file are coalesced.
package watcher

import (
	"context"
	"errors"
	"time"
)

// Common errors returned by watcher operations.
var (
	ErrWatcherClosed   = errors.New("watcher is closed")
	ErrAlreadyWatching = errors.New("path is already being watched")
	ErrNotWatching     = errors.New("path is not being watched")
)

// Op represents the kind of change seen on a file.
type Op uint32

const (
	// OpWrite indicates the file content changed.
	OpWrite Op = 1 << iota
	// OpRemove indicates the file disappeared.
	OpRemove
	// OpCreate indicates a missing file appeared.
	OpCreate
)

// String returns a human-readable representation of the operation.
func (op Op) String() string {
	switch op {
	case OpWrite:
		return "WRITE"
	case OpRemove:
		return "REMOVE"
	case OpCreate:
		return "CREATE"
	default:
		return "UNKNOWN"
	}
}

// Has returns true if the operation includes the given op.
func (op Op) Has(o Op) bool {
	return op&o == o
}

// Event represents an external change to a tracked file.
type Event struct {
	// Path is the absolute path of the file.
	Path string

	// Op is the change, possibly several coalesced.
	Op Op

	// Timestamp is when the last coalesced change was seen.
	Timestamp time.Time
}

// Watcher monitors tracked files.
type Watcher interface {
	// Watch starts tracking a file.
	Watch(path string) error

	// Unwatch stops tracking a file.
	Unwatch(path string) error

	// Touch records the current state of a tracked file so that the
	// change just made, typically by the editor itself, is not reported.
	Touch(path string)

	// Events returns the channel of change events.
	// The channel is closed when the watcher is closed.
	Events() <-chan Event

	// Errors returns the channel of watcher errors.
	// The channel is closed when the watcher is closed.
	Errors() <-chan error

	// Close stops the watcher and releases resources.
	Close() error
}

// Handler is a function that handles file events.
type Handler func(event Event)

// ErrorHandler is a function that handles watcher errors.
type ErrorHandler func(err error)

// Config holds watcher configuration options.
type Config struct {
	// DebounceDelay is the delay before delivering events.
	// Events within this window are coalesced.
	// Default: 100ms
	DebounceDelay time.Duration

	// BufferSize is the size of the event and error channels.
	// Default: 64
	BufferSize int
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		DebounceDelay: 100 * time.Millisecond,
		BufferSize:    64,
	}
}

// Option configures a watcher.
type Option func(*Config)

// WithDebounceDelay sets the debounce delay.
func WithDebounceDelay(d time.Duration) Option {
	return func(c *Config) {
		c.DebounceDelay = d
	}
}

// WithBufferSize sets the channel buffer size.
func WithBufferSize(size int) Option {
	return func(c *Config) {
		c.BufferSize = size
	}
}

// EventDispatcher manages event handlers and dispatches events.
type EventDispatcher struct {
	handlers      []Handler
	errorHandlers []ErrorHandler
}

// NewEventDispatcher creates a new event dispatcher.
func NewEventDispatcher() *EventDispatcher {
	return &EventDispatcher{}
}

// OnEvent registers a handler for file events.
func (d *EventDispatcher) OnEvent(handler Handler) {
	d.handlers = append(d.handlers, handler)
}

// OnError registers a handler for errors.
func (d *EventDispatcher) OnError(handler ErrorHandler) {
	d.errorHandlers = append(d.errorHandlers, handler)
}

// Dispatch sends an event to all handlers.
func (d *EventDispatcher) Dispatch(event Event) {
	for _, handler := range d.handlers {
		handler(event)
	}
}

// DispatchError sends an error to all error handlers.
func (d *EventDispatcher) DispatchError(err error) {
	for _, handler := range d.errorHandlers {
		handler(err)
	}
}

// Run dispatches events from w until ctx is cancelled or w is closed.
func (d *EventDispatcher) Run(ctx context.Context, w Watcher) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.Events():
			if !ok {
				return
			}
			d.Dispatch(event)
		case err, ok := <-w.Errors():
			if !ok {
				return
			}
			d.DispatchError(err)
		}
	}
}
