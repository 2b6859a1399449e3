package app

import (
	"strings"

	"github.com/dshills/splitpad/internal/renderer/backend"
)

// pathPrompt collects a file name typed on the message line. While it is
// active every key goes to it.
type pathPrompt struct {
	active bool
	label  string
	input  []rune
	done   func(path string) error
}

// startPrompt asks for a path, starting from initial. done runs with the
// entered path when Enter is pressed on a non-empty line.
func (app *Application) startPrompt(label, initial string, done func(string) error) {
	app.keys.prompt = pathPrompt{active: true, label: label, input: []rune(initial), done: done}
	app.showPrompt()
}

func (app *Application) showPrompt() {
	app.renderer.SetMessage("%s: %s", app.keys.prompt.label, string(app.keys.prompt.input))
}

// promptKey edits the prompt line. Escape cancels and Ctrl-U clears it.
func (app *Application) promptKey(ev backend.Event) error {
	p := &app.keys.prompt
	switch ev.Key {
	case backend.KeyEscape:
		app.keys.prompt = pathPrompt{}
		app.renderer.ClearMessage()
		return nil
	case backend.KeyEnter:
		path := strings.TrimSpace(string(p.input))
		done := p.done
		app.keys.prompt = pathPrompt{}
		app.renderer.ClearMessage()
		if path == "" {
			return nil
		}
		return done(path)
	case backend.KeyBackspace:
		if n := len(p.input); n > 0 {
			p.input = p.input[:n-1]
		}
	case backend.KeyCtrlU:
		p.input = p.input[:0]
	case backend.KeyRune:
		p.input = append(p.input, ev.Rune)
	}
	app.showPrompt()
	return nil
}

// promptPaste appends pasted text to the prompt, dropping line breaks.
func (app *Application) promptPaste(text string) {
	text = strings.NewReplacer("\r", "", "\n", "").Replace(text)
	app.keys.prompt.input = append(app.keys.prompt.input, []rune(text)...)
	app.showPrompt()
}
