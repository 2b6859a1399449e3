package app

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/dshills/splitpad/internal/editor"
	"github.com/dshills/splitpad/internal/engine/buffer"
	"github.com/dshills/splitpad/internal/project/watcher"
	"github.com/dshills/splitpad/internal/renderer"
	"github.com/dshills/splitpad/internal/renderer/backend"
	"github.com/dshills/splitpad/internal/renderer/layout"
	"github.com/dshills/splitpad/internal/window"
)

// keyState is the state carried between key presses.
type keyState struct {
	// windowPrefix is set after Ctrl-W until the command key arrives.
	windowPrefix bool
	// quitArmed is set after a Ctrl-Q refused because of unsaved changes.
	quitArmed bool
	// prompt is the path being typed on the message line, if any.
	prompt pathPrompt
}

// handleKey runs the command bound to a key. Keys without an application
// binding go to the focused view.
func (app *Application) handleKey(ev backend.Event) error {
	if app.keys.prompt.active {
		return app.promptKey(ev)
	}
	app.renderer.ClearMessage()

	if app.keys.windowPrefix {
		app.keys.windowPrefix = false
		app.keys.quitArmed = false
		return app.windowCommand(ev)
	}

	if ev.Key == backend.KeyCtrlQ {
		return app.quit()
	}
	app.keys.quitArmed = false

	if ev.Mod.Has(backend.ModAlt) {
		if o, delta, ok := resizeKey(ev.Key); ok {
			tab := app.top.ActiveTab()
			return opError("resize", "", tab.Resize(tab.Active(), o, delta))
		}
		return nil
	}

	switch ev.Key {
	case backend.KeyCtrlW:
		app.keys.windowPrefix = true
		app.renderer.SetMessage("window: h v split, c close, w W focus, = equalize, n p q tabs, r wrap, b backup, s save as")
		return nil
	case backend.KeyCtrlS:
		return app.save()
	case backend.KeyCtrlR:
		return app.reload()
	case backend.KeyCtrlT:
		return app.newTab()
	}

	v, ok := app.activeView()
	if !ok {
		return nil
	}
	_, err := v.HandleKey(ev)
	return err
}

// resizeKey maps Alt-arrows to a divider move of the focused pane.
func resizeKey(k backend.Key) (window.Orientation, int, bool) {
	switch k {
	case backend.KeyRight:
		return window.Horizontal, 1, true
	case backend.KeyLeft:
		return window.Horizontal, -1, true
	case backend.KeyDown:
		return window.Vertical, 1, true
	case backend.KeyUp:
		return window.Vertical, -1, true
	}
	return 0, 0, false
}

// windowCommand runs the Ctrl-W command named by ev.
func (app *Application) windowCommand(ev backend.Event) error {
	if ev.Key == backend.KeyEscape {
		return nil
	}
	if ev.Key != backend.KeyRune {
		return ErrUnknownCommand
	}

	tab := app.top.ActiveTab()
	switch ev.Rune {
	case 'h':
		_, err := tab.SplitHorizontally(tab.Active(), app.activeBuffer())
		return opError("split", "", err)
	case 'v':
		_, err := tab.SplitVertically(tab.Active(), app.activeBuffer())
		return opError("split", "", err)
	case 'c':
		if _, err := tab.ClosePane(tab.Active()); err != nil {
			return opError("close pane", "", err)
		}
		app.closeUnused()
	case 'w':
		tab.FocusNext()
	case 'W':
		tab.FocusPrev()
	case '=':
		tab.Equalize()
	case 'n':
		app.top.NextTab()
	case 'p':
		app.top.PrevTab()
	case 'q':
		if err := app.top.CloseTab(app.top.ActiveIndex()); err != nil {
			return opError("close tab", "", err)
		}
		app.closeUnused()
	case 'r':
		app.cycleWrap()
	case 'b':
		return app.recoverBackup()
	case 's':
		if v, ok := app.activeView(); ok {
			app.startPrompt("save as", v.Path(), app.saveAs)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCommand, ev.Rune)
	}
	return nil
}

// activeBuffer returns the buffer shown in the focused pane.
func (app *Application) activeBuffer() buffer.ID {
	if v, ok := app.activeView(); ok {
		return v.BufferID()
	}
	return buffer.NoID
}

func (app *Application) newTab() error {
	_, err := app.top.NewTab(app.activeBuffer())
	return opError("new tab", "", err)
}

// closeUnused closes clean file buffers no pane shows any more. Buffers
// with unsaved changes stay open so their changes are not lost.
func (app *Application) closeUnused() {
	for _, b := range app.store.Buffers() {
		if b.IsScratch() || b.IsDirty() || b.ViewCount() > 0 {
			continue
		}
		if err := app.store.Close(b.ID()); err != nil {
			app.logger.Warn("%v", opError("close", b.Path(), err))
		}
	}
}

// save writes the focused buffer to its file. A scratch buffer asks for
// a path first.
func (app *Application) save() error {
	v, ok := app.activeView()
	if !ok {
		return nil
	}
	b, ok := v.Buffer()
	if !ok {
		return nil
	}
	if b.IsScratch() {
		app.startPrompt("save as", "", app.saveAs)
		return nil
	}
	return app.saveTo(v, b, "")
}

// saveAs writes the focused buffer to path, relative to the project root
// when not absolute. Saving onto a file another buffer has open merges
// that buffer into this one.
func (app *Application) saveAs(path string) error {
	v, ok := app.activeView()
	if !ok {
		return nil
	}
	b, ok := v.Buffer()
	if !ok {
		return nil
	}
	if root := app.projectRoot(); root != "" && !filepath.IsAbs(path) {
		path = filepath.Join(root, path)
	}
	return app.saveTo(v, b, path)
}

// saveTo runs the before_save hook on b and writes it to path, or to its
// own file when path is empty.
func (app *Application) saveTo(v *editor.View, b *buffer.Buffer, path string) error {
	oldPath, oldEnc := b.Path(), b.Encoding()
	if path == "" {
		path = oldPath
	}
	if app.hooks != nil {
		changed, err := app.hooks.BeforeSave(b, v.Cursor())
		if err != nil {
			return opError("save", path, fmt.Errorf("before_save hook: %w", err))
		}
		if changed {
			app.logger.Debug("before_save changed %s", path)
		}
	}
	if err := b.Save(path); err != nil {
		return opError("save", path, err)
	}
	if b.Path() != oldPath {
		app.pathChanged(oldPath, b.Path())
	}
	if app.watcher != nil {
		app.watcher.Touch(b.Path())
	}
	app.logger.Info("wrote %s", b.Path())
	name := renderer.BufferName(b.Path())
	if enc := b.Encoding(); enc != oldEnc {
		app.logger.Warn("%s: saved as %s, %s cannot store its text", b.Path(), enc, oldEnc)
		app.renderer.SetMessage("wrote %s as %s; %s cannot store some of its characters", name, enc, oldEnc)
		return nil
	}
	app.renderer.SetMessage("wrote %s", name)
	return nil
}

// pathChanged moves the file watch of a buffer saved under a new name.
// The old file stays watched while another buffer still shows it.
func (app *Application) pathChanged(oldPath, newPath string) {
	app.logger.Info("buffer moved from %q to %s", oldPath, newPath)
	if app.watcher == nil {
		return
	}
	if err := app.watcher.Watch(newPath); err != nil && !errors.Is(err, watcher.ErrAlreadyWatching) {
		app.logger.Warn("%v", &ComponentError{Component: "watcher", Action: "watch " + newPath, Err: err})
	}
	if oldPath == "" {
		return
	}
	if _, ok := app.store.FindByPath(oldPath); ok {
		return
	}
	if err := app.watcher.Unwatch(oldPath); err != nil && !errors.Is(err, watcher.ErrNotWatching) {
		app.logger.Warn("%v", &ComponentError{Component: "watcher", Action: "unwatch " + oldPath, Err: err})
	}
}

// reload replaces the focused buffer with its file's content.
func (app *Application) reload() error {
	v, ok := app.activeView()
	if !ok {
		return nil
	}
	b, ok := v.Buffer()
	if !ok {
		return nil
	}
	if err := b.Reload(); err != nil {
		return opError("reload", b.Path(), err)
	}
	app.renderer.SetMessage("reloaded %s", renderer.BufferName(b.Path()))
	return nil
}

// recoverBackup loads the backup of the focused buffer.
func (app *Application) recoverBackup() error {
	v, ok := app.activeView()
	if !ok {
		return nil
	}
	b, ok := v.Buffer()
	if !ok {
		return nil
	}
	if !b.HasBackup() {
		return opError("recover", b.Path(), errNoBackup)
	}
	if err := b.RecoverBackup(); err != nil {
		return opError("recover", b.Path(), err)
	}
	app.renderer.SetMessage("recovered unsaved changes of %s", renderer.BufferName(b.Path()))
	return nil
}

var errNoBackup = errors.New("no backup")

var wrapCycle = map[layout.WrapMode]layout.WrapMode{
	layout.WrapOff:   layout.WrapWords,
	layout.WrapWords: layout.WrapChars,
	layout.WrapChars: layout.WrapOff,
}

// cycleWrap switches every view to the next wrap mode.
func (app *Application) cycleWrap() {
	mode := wrapCycle[app.factory.Settings().Wrap]
	app.factory.SetWrap(mode)
	for _, v := range app.top.Views() {
		if ev, ok := v.(*editor.View); ok {
			ev.SetWrap(mode)
		}
	}
	app.renderer.SetMessage("wrap: %s", mode)
}

// quit returns ErrQuit. With unsaved changes the first press only warns.
func (app *Application) quit() error {
	dirty := app.store.Dirty()
	if len(dirty) > 0 && !app.keys.quitArmed {
		app.keys.quitArmed = true
		return fmt.Errorf("%w in %d buffer(s); press Ctrl-Q again to quit", ErrUnsavedChanges, len(dirty))
	}
	return ErrQuit
}
