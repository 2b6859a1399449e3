// Package app wires splitpad's components together and runs the event
// loop.
//
// All editing state is owned by the goroutine running Run. The file
// watcher runs on its own goroutine and hands its events to the loop by
// posting them to the backend as interrupt events, so buffers and panes
// are never touched concurrently.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime/debug"
	"sync/atomic"

	"github.com/dshills/splitpad/internal/config"
	"github.com/dshills/splitpad/internal/editor"
	"github.com/dshills/splitpad/internal/engine/store"
	"github.com/dshills/splitpad/internal/plugin/lua"
	"github.com/dshills/splitpad/internal/project/vfs"
	"github.com/dshills/splitpad/internal/project/watcher"
	"github.com/dshills/splitpad/internal/renderer"
	"github.com/dshills/splitpad/internal/renderer/backend"
	"github.com/dshills/splitpad/internal/session"
	"github.com/dshills/splitpad/internal/window"
)

// Options configures the application.
type Options struct {
	// ConfigPath is the configuration file. Empty selects the default
	// location.
	ConfigPath string

	// Workspace is the project directory. Only panes showing files below
	// it are persisted in the session; empty falls back to the configured
	// project root.
	Workspace string

	// Files are opened on startup, one tab each. Without files the last
	// session is restored.
	Files []string

	// LogLevel overrides the configured log level.
	LogLevel string

	// The fields below replace the components New would create. Tests use
	// them to run the application on an in-memory terminal and file system.

	Backend        backend.Backend
	FS             vfs.VFS
	Config         *config.Config
	Logger         *Logger
	Watcher        watcher.Watcher
	DisableWatcher bool
}

// Application is the running editor.
type Application struct {
	opts Options
	cfg  *config.Config

	logger    *Logger
	logCloser io.Closer

	fs       vfs.VFS
	backend  backend.Backend
	store    *store.Store
	factory  *editor.Factory
	renderer *renderer.Renderer
	hooks    *lua.Hooks

	watcher    watcher.Watcher
	dispatcher *watcher.EventDispatcher

	top   *window.TopLevel
	keys  keyState
	paste pasteState

	running atomic.Bool
}

// New creates an application from opts. The terminal is not touched
// until Run.
func New(opts Options) (*Application, error) {
	app := &Application{opts: opts}
	if err := app.bootstrap(); err != nil {
		app.closeLog()
		return nil, err
	}
	return app, nil
}

// Config returns the settings in effect.
func (app *Application) Config() *config.Config { return app.cfg }

// Store returns the buffer store.
func (app *Application) Store() *store.Store { return app.store }

// Window returns the window, or nil before Run has built it.
func (app *Application) Window() *window.TopLevel { return app.top }

// Renderer returns the renderer.
func (app *Application) Renderer() *renderer.Renderer { return app.renderer }

// IsRunning reports whether Run is active.
func (app *Application) IsRunning() bool { return app.running.Load() }

// Run initializes the terminal, builds the window and processes events
// until the user quits. On quit the session is saved and every component
// is closed; failures doing so are returned.
func (app *Application) Run() error {
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	if err := app.backend.Init(); err != nil {
		return &InitError{Component: "backend", Err: err}
	}
	defer app.backend.Shutdown()

	top, err := app.buildWindow()
	if err != nil {
		return &InitError{Component: "window", Err: err}
	}
	app.top = top

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if app.watcher != nil {
		go app.dispatcher.Run(ctx, app.watcher)
	}

	app.logger.Info("started with %d tab(s)", app.top.TabCount())
	for {
		app.renderer.Render(app.top)
		err := app.safeHandle(app.backend.PollEvent())
		if errors.Is(err, ErrQuit) {
			cancel()
			return app.shutdown()
		}
		if err != nil {
			app.report(err)
		}
	}
}

// safeHandle runs handleEvent, turning a panic into an error so one bad
// event does not take the editor down with unsaved work.
func (app *Application) safeHandle(ev backend.Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &panicError{value: r, stack: string(debug.Stack())}
		}
	}()
	return app.handleEvent(ev)
}

// report shows err on the message line and logs it.
func (app *Application) report(err error) {
	var panicErr *panicError
	if errors.As(err, &panicErr) {
		app.logger.Error("%v", panicErr)
		app.renderer.SetError(fmt.Errorf("internal error: %v", panicErr.value))
		return
	}
	app.logger.Warn("%v", err)
	app.renderer.SetError(err)
}

// shutdown saves the session and releases every component.
func (app *Application) shutdown() error {
	var errs []error

	root := app.projectRoot()
	if err := session.Save(app.fs, app.cfg.SessionFile(), session.Capture(app.top, root)); err != nil {
		errs = append(errs, err)
	} else {
		app.logger.Info("session saved to %s", app.cfg.SessionFile())
	}

	app.top.Close()
	if app.hooks != nil {
		if err := app.hooks.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing hooks: %w", err))
		}
	}
	if app.watcher != nil {
		if err := app.watcher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing watcher: %w", err))
		}
	}
	for _, err := range errs {
		app.logger.Error("shutdown: %v", err)
	}
	app.logger.Info("stopped")
	app.closeLog()
	return errors.Join(errs...)
}

func (app *Application) closeLog() {
	if app.logCloser != nil {
		_ = app.logCloser.Close()
		app.logCloser = nil
	}
}

// projectRoot is the directory the session is limited to.
func (app *Application) projectRoot() string {
	root := app.opts.Workspace
	if root == "" {
		root = app.cfg.Session.ProjectRoot
	}
	if root == "" {
		return ""
	}
	if abs, err := app.fs.Abs(root); err == nil {
		return abs
	}
	return root
}
