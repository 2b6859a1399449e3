package app

import (
	"errors"

	"github.com/dshills/splitpad/internal/config"
	"github.com/dshills/splitpad/internal/editor"
	"github.com/dshills/splitpad/internal/engine/buffer"
	"github.com/dshills/splitpad/internal/engine/store"
	"github.com/dshills/splitpad/internal/plugin/lua"
	"github.com/dshills/splitpad/internal/project/vfs"
	"github.com/dshills/splitpad/internal/project/watcher"
	"github.com/dshills/splitpad/internal/renderer"
	"github.com/dshills/splitpad/internal/renderer/backend"
	"github.com/dshills/splitpad/internal/session"
	"github.com/dshills/splitpad/internal/window"
)

// bootstrap initializes all components in dependency order.
func (app *Application) bootstrap() error {
	// 1. File system
	app.fs = app.opts.FS
	if app.fs == nil {
		app.fs = vfs.NewOSFS()
	}

	// 2. Configuration
	app.cfg = app.opts.Config
	if app.cfg == nil {
		path := app.opts.ConfigPath
		if path == "" {
			path = config.DefaultPath()
		}
		cfg, err := config.Load(path, config.WithFS(app.fs))
		if err != nil {
			return &InitError{Component: "config", Err: err}
		}
		app.cfg = cfg
	}

	// 3. Logging
	if err := app.initLogger(); err != nil {
		return &InitError{Component: "log", Err: err}
	}

	// 4. Terminal and renderer
	app.backend = app.opts.Backend
	if app.backend == nil {
		term, err := backend.NewTerminal()
		if err != nil {
			return &InitError{Component: "backend", Err: err}
		}
		app.backend = term
	}
	app.renderer = renderer.New(app.backend)

	// 5. Buffers and views
	app.store = store.New(
		store.WithFS(app.fs),
		store.WithBufferOptions(app.cfg.BufferOptions()...),
	)
	app.store.OnOpen(app.bufferOpened)
	app.store.OnClose(app.bufferClosed)
	app.store.OnMerge(app.buffersMerged)

	app.factory = editor.NewFactory(app.store,
		editor.WithSettings(editor.Settings{
			Wrap:       app.cfg.WrapMode(),
			TabWidth:   app.cfg.Editor.TabWidth,
			ScrollOff:  app.cfg.Editor.ScrollOff,
			IndentUnit: app.cfg.Editor.IndentUnit,
		}),
		editor.WithBeep(app.backend.Beep),
	)

	// Hooks and the watcher are optional; the editor works without them.

	// 6. Hooks
	app.initHooks()

	// 7. File watcher
	app.initWatcher()

	return nil
}

func (app *Application) initLogger() error {
	if app.opts.Logger != nil {
		app.logger = app.opts.Logger
		return nil
	}
	level := app.cfg.Log.Level
	if app.opts.LogLevel != "" {
		level = app.opts.LogLevel
	}
	logger, closer, err := openLogFile(app.cfg.Log.File, level)
	if err != nil {
		return err
	}
	app.logger, app.logCloser = logger, closer
	return nil
}

func (app *Application) initHooks() {
	script := app.cfg.Hooks.BeforeSave
	if script == "" {
		return
	}
	log := app.logger.WithComponent("lua")
	hooks, err := lua.LoadHooks(app.fs, script, lua.WithOutput(func(s string) {
		log.Info("%s", s)
	}))
	if err != nil {
		app.logger.Warn("%v", &ComponentError{Component: "hooks", Action: "load", Err: err})
		return
	}
	log.Info("loaded %s", hooks.Script())
	app.hooks = hooks
}

func (app *Application) initWatcher() {
	switch {
	case app.opts.Watcher != nil:
		app.watcher = app.opts.Watcher
	case app.opts.DisableWatcher:
		return
	default:
		w, err := watcher.NewFSNotifyWatcher()
		if err != nil {
			app.logger.Warn("%v", &ComponentError{Component: "watcher", Action: "start", Err: err})
			return
		}
		app.watcher = w
	}

	app.dispatcher = watcher.NewEventDispatcher()
	app.dispatcher.OnEvent(func(ev watcher.Event) {
		app.post(ev)
	})
	app.dispatcher.OnError(func(err error) {
		app.post(&ComponentError{Component: "watcher", Err: err})
	})
}

// post hands a value from a background goroutine to the event loop.
func (app *Application) post(payload any) {
	if err := app.backend.PostEvent(backend.InterruptEvent(payload)); err != nil {
		app.logger.Warn("dropped %T: %v", payload, err)
	}
}

// bufferOpened starts watching a file buffer and deals with a backup
// left by an earlier run.
func (app *Application) bufferOpened(b *buffer.Buffer) {
	if b.IsScratch() {
		return
	}
	app.logger.Debug("opened %s as buffer %d", b.Path(), b.ID())
	if app.watcher != nil {
		if err := app.watcher.Watch(b.Path()); err != nil && !errors.Is(err, watcher.ErrAlreadyWatching) {
			app.logger.Warn("%v", &ComponentError{Component: "watcher", Action: "watch "+b.Path(), Err: err})
		}
	}
	if !b.HasBackup() {
		return
	}
	name := renderer.BufferName(b.Path())
	if !app.cfg.Backup.Recover {
		app.renderer.SetMessage("%s has a backup of unsaved changes; Ctrl-W b recovers it", name)
		return
	}
	if err := b.RecoverBackup(); err != nil {
		app.report(opError("recover", b.Path(), err))
		return
	}
	app.renderer.SetMessage("recovered unsaved changes of %s", name)
}

func (app *Application) bufferClosed(id buffer.ID, path string) {
	app.logger.Debug("closed buffer %d", id)
	if app.watcher == nil || path == "" {
		return
	}
	if err := app.watcher.Unwatch(path); err != nil && !errors.Is(err, watcher.ErrNotWatching) {
		app.logger.Warn("%v", &ComponentError{Component: "watcher", Action: "unwatch "+path, Err: err})
	}
}

func (app *Application) buffersMerged(survivor *buffer.Buffer, removed buffer.ID) {
	app.logger.Info("buffer %d merged into %d (%s)", removed, survivor.ID(), survivor.Path())
}

// buildWindow creates the startup window: the files named on the command
// line, else the saved session, else one scratch pane.
func (app *Application) buildWindow() (*window.TopLevel, error) {
	area := renderer.PaneArea(app.backend.Size())
	paneOpts := app.cfg.PaneOptions()

	if len(app.opts.Files) > 0 {
		if top, ok := app.openFiles(area, paneOpts); ok {
			return top, nil
		}
	} else if top, ok := app.restoreSession(area, paneOpts); ok {
		return top, nil
	}
	return window.NewTopLevel(area, app.factory, buffer.NoID, paneOpts...)
}

func (app *Application) openFiles(area window.Area, paneOpts []window.Option) (*window.TopLevel, bool) {
	var top *window.TopLevel
	for _, path := range app.opts.Files {
		b, err := app.store.Open(path)
		if err != nil {
			app.report(opError("open", path, err))
			continue
		}
		if top == nil {
			top, err = window.NewTopLevel(area, app.factory, b.ID(), paneOpts...)
		} else {
			_, err = top.NewTab(b.ID())
		}
		if err != nil {
			app.report(opError("open", path, err))
		}
	}
	if top == nil {
		return nil, false
	}
	_ = top.SetActive(0)
	return top, true
}

func (app *Application) restoreSession(area window.Area, paneOpts []window.Option) (*window.TopLevel, bool) {
	path := app.cfg.SessionFile()
	s, err := session.Load(app.fs, path)
	if errors.Is(err, session.ErrNoSession) {
		return nil, false
	}
	if err != nil {
		app.logger.Warn("%v", &ComponentError{Component: "session", Action: "load", Err: err})
		return nil, false
	}
	top, err := window.RestoreTopLevel(area, app.factory, s.Tabs, s.Active, app.openForRestore, paneOpts...)
	if err != nil {
		app.logger.Warn("%v", &ComponentError{Component: "session", Action: "restore", Err: err})
	}
	if top == nil {
		return nil, false
	}
	app.logger.Info("restored session from %s", path)
	return top, true
}

// openForRestore opens a file recorded in the session. Panes whose file
// fails to open are restored as scratch panes.
func (app *Application) openForRestore(path string) (buffer.ID, error) {
	b, err := app.store.Open(path)
	if err != nil {
		return buffer.NoID, err
	}
	return b.ID(), nil
}
