package app

import (
	"strings"

	"github.com/dshills/splitpad/internal/editor"
	"github.com/dshills/splitpad/internal/project/watcher"
	"github.com/dshills/splitpad/internal/renderer"
	"github.com/dshills/splitpad/internal/renderer/backend"
)

// pasteState collects the keys of a bracketed paste.
type pasteState struct {
	active bool
	text   strings.Builder
}

// handleEvent processes a backend event and routes it appropriately.
// Returns ErrQuit if the application should exit.
func (app *Application) handleEvent(ev backend.Event) error {
	switch ev.Type {
	case backend.EventResize:
		return app.handleResize(ev)
	case backend.EventPaste:
		return app.handlePaste(ev)
	case backend.EventKey:
		if app.paste.active {
			app.collectPaste(ev)
			return nil
		}
		return app.handleKey(ev)
	case backend.EventInterrupt:
		return app.handleInterrupt(ev.Payload)
	default:
		return nil
	}
}

// handleResize lays the panes out again for the new terminal size.
func (app *Application) handleResize(ev backend.Event) error {
	app.top.Readjust(renderer.PaneArea(ev.Width, ev.Height))
	return nil
}

// handlePaste opens or closes a bracketed paste. The collected text is
// inserted as a single edit when the paste ends.
func (app *Application) handlePaste(ev backend.Event) error {
	if ev.PasteStart {
		app.paste.active = true
		app.paste.text.Reset()
		return nil
	}
	if !app.paste.active {
		return nil
	}
	app.paste.active = false
	text := app.paste.text.String()
	app.paste.text.Reset()
	if app.keys.prompt.active {
		app.promptPaste(text)
		return nil
	}
	v, ok := app.activeView()
	if !ok {
		return nil
	}
	return v.InsertText(text)
}

func (app *Application) collectPaste(ev backend.Event) {
	switch ev.Key {
	case backend.KeyRune:
		app.paste.text.WriteRune(ev.Rune)
	case backend.KeyEnter:
		app.paste.text.WriteByte('\n')
	case backend.KeyTab:
		app.paste.text.WriteByte('\t')
	}
}

// quitRequest is posted by RequestQuit.
type quitRequest struct{}

// RequestQuit asks the event loop to quit without confirmation. It is safe
// to call from any goroutine.
func (app *Application) RequestQuit() {
	app.post(quitRequest{})
}

// handleInterrupt processes values posted by background goroutines.
func (app *Application) handleInterrupt(payload any) error {
	switch p := payload.(type) {
	case watcher.Event:
		app.fileChanged(p)
	case quitRequest:
		app.logger.Info("quit requested from outside")
		return ErrQuit
	case error:
		return p
	}
	return nil
}

// fileChanged flags the buffer of a file changed by another program.
func (app *Application) fileChanged(ev watcher.Event) {
	b, ok := app.store.FindByPath(ev.Path)
	if !ok {
		return
	}
	app.logger.Info("%s: %s on disk", ev.Path, ev.Op)
	b.MarkChangedOnDisk()
	name := renderer.BufferName(b.Path())
	switch {
	case ev.Op.Has(watcher.OpRemove):
		app.renderer.SetMessage("%s was removed on disk", name)
	case b.IsDirty():
		app.renderer.SetMessage("%s changed on disk; Ctrl-R discards your changes and reloads", name)
	default:
		app.renderer.SetMessage("%s changed on disk; Ctrl-R reloads", name)
	}
}

// activeView returns the view of the focused pane.
func (app *Application) activeView() (*editor.View, bool) {
	v, ok := app.top.ActiveTab().ActiveView().(*editor.View)
	return v, ok
}
