package editor

import "github.com/dshills/splitpad/internal/renderer/backend"

// HandleKey runs the editing command bound to ev. It reports false for
// keys the view does not handle, leaving them to the application.
func (v *View) HandleKey(ev backend.Event) (bool, error) {
	if ev.Type != backend.EventKey || ev.Mod.Has(backend.ModAlt) {
		return false, nil
	}
	switch ev.Key {
	case backend.KeyRune:
		if ev.Mod.Has(backend.ModCtrl) {
			return false, nil
		}
		return true, v.InsertRune(ev.Rune)
	case backend.KeyEnter:
		return true, v.Newline()
	case backend.KeyTab:
		return true, v.Indent()
	case backend.KeyBacktab:
		return true, v.Dedent()
	case backend.KeyBackspace:
		return true, v.Backspace()
	case backend.KeyDelete:
		return true, v.DeleteForward()
	case backend.KeyCtrlK:
		return true, v.CutLine()
	case backend.KeyCtrlC:
		v.CopyLine()
		return true, nil
	case backend.KeyCtrlU:
		return true, v.PasteLines()
	case backend.KeyCtrlZ:
		return true, v.Undo()
	case backend.KeyCtrlY:
		return true, v.Redo()
	}

	if d, ok := motions[ev.Key]; ok {
		v.Move(d)
		return true, nil
	}
	return false, nil
}

var motions = map[backend.Key]Direction{
	backend.KeyLeft:     MoveLeft,
	backend.KeyRight:    MoveRight,
	backend.KeyUp:       MoveUp,
	backend.KeyDown:     MoveDown,
	backend.KeyHome:     MoveLineStart,
	backend.KeyCtrlA:    MoveLineStart,
	backend.KeyEnd:      MoveLineEnd,
	backend.KeyCtrlE:    MoveLineEnd,
	backend.KeyPageUp:   MovePageUp,
	backend.KeyPageDown: MovePageDown,
}
