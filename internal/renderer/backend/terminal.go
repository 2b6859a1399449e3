package backend

import (
	"sync"

	"github.com/gdamore/tcell/v2"
)

// Terminal implements Backend using tcell for terminal output.
type Terminal struct {
	screen tcell.Screen
	mu     sync.Mutex
}

// NewTerminal creates a new terminal backend.
func NewTerminal() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return &Terminal{screen: screen}, nil
}

func (t *Terminal) Init() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.screen.Init(); err != nil {
		return err
	}
	t.screen.EnablePaste()
	return nil
}

func (t *Terminal) Shutdown() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Fini()
}

func (t *Terminal) Size() (int, int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.screen.Size()
}

func (t *Terminal) SetCell(x, y int, text string, style Style) {
	if text == "" {
		return
	}
	runes := []rune(text)

	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.SetContent(x, y, runes[0], runes[1:], convertStyle(style))
}

func (t *Terminal) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Clear()
}

func (t *Terminal) Show() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.Show()
}

func (t *Terminal) ShowCursor(x, y int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.ShowCursor(x, y)
}

func (t *Terminal) HideCursor() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.screen.HideCursor()
}

func (t *Terminal) PollEvent() Event {
	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return Event{Type: EventNone}
		}
		if out, ok := convertEvent(ev); ok {
			return out
		}
	}
}

// PostEvent queues ev. Interrupt events travel through tcell's own queue
// so that PollEvent wakes up for them.
func (t *Terminal) PostEvent(ev Event) error {
	var tev tcell.Event
	switch ev.Type {
	case EventKey:
		tev = tcell.NewEventKey(convertToTcellKey(ev.Key), ev.Rune, convertToTcellMod(ev.Mod))
	case EventInterrupt:
		tev = tcell.NewEventInterrupt(ev.Payload)
	default:
		return nil
	}
	if err := t.screen.PostEvent(tev); err != nil {
		return ErrQueueFull
	}
	return nil
}

func (t *Terminal) Beep() {
	t.mu.Lock()
	defer t.mu.Unlock()

	_ = t.screen.Beep() // best-effort; terminal may not support beep
}

// convertStyle converts our Style to tcell.Style.
func convertStyle(s Style) tcell.Style {
	style := tcell.StyleDefault
	if s.Fg != ColorDefault {
		style = style.Foreground(tcell.PaletteColor(s.Fg.Index()))
	}
	if s.Bg != ColorDefault {
		style = style.Background(tcell.PaletteColor(s.Bg.Index()))
	}
	if s.Has(AttrBold) {
		style = style.Bold(true)
	}
	if s.Has(AttrDim) {
		style = style.Dim(true)
	}
	if s.Has(AttrReverse) {
		style = style.Reverse(true)
	}
	if s.Has(AttrUnderline) {
		style = style.Underline(true)
	}
	return style
}

// convertEvent converts tcell events to our Event type. Events the editor
// has no use for report false.
func convertEvent(ev tcell.Event) (Event, bool) {
	switch e := ev.(type) {
	case *tcell.EventKey:
		k := convertKey(e.Key())
		r := e.Rune()
		mod := convertMod(e.Modifiers())
		if k == KeyRune && mod.Has(ModCtrl) {
			if ck := CtrlKey(r); ck != KeyNone {
				k, r = ck, 0
			}
		}
		if k == KeyNone {
			return Event{}, false
		}
		return Event{Type: EventKey, Key: k, Rune: r, Mod: mod}, true

	case *tcell.EventResize:
		w, h := e.Size()
		return Event{Type: EventResize, Width: w, Height: h}, true

	case *tcell.EventPaste:
		return Event{Type: EventPaste, PasteStart: e.Start()}, true

	case *tcell.EventInterrupt:
		return Event{Type: EventInterrupt, Payload: e.Data()}, true
	}
	return Event{}, false
}

// convertKey converts tcell key to our Key type. Named keys are matched
// before the control range because several of them share its codes.
func convertKey(k tcell.Key) Key {
	switch {
	case k == tcell.KeyRune:
		return KeyRune
	case k == tcell.KeyEscape:
		return KeyEscape
	case k == tcell.KeyEnter:
		return KeyEnter
	case k == tcell.KeyTab:
		return KeyTab
	case k == tcell.KeyBacktab:
		return KeyBacktab
	case k == tcell.KeyBackspace, k == tcell.KeyBackspace2:
		return KeyBackspace
	case k == tcell.KeyDelete:
		return KeyDelete
	case k == tcell.KeyHome:
		return KeyHome
	case k == tcell.KeyEnd:
		return KeyEnd
	case k == tcell.KeyPgUp:
		return KeyPageUp
	case k == tcell.KeyPgDn:
		return KeyPageDown
	case k == tcell.KeyUp:
		return KeyUp
	case k == tcell.KeyDown:
		return KeyDown
	case k == tcell.KeyLeft:
		return KeyLeft
	case k == tcell.KeyRight:
		return KeyRight
	case k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ:
		return KeyCtrlA + Key(k-tcell.KeyCtrlA)
	}
	return KeyNone
}

// convertToTcellKey converts our Key to tcell.Key.
func convertToTcellKey(k Key) tcell.Key {
	switch {
	case k == KeyEscape:
		return tcell.KeyEscape
	case k == KeyEnter:
		return tcell.KeyEnter
	case k == KeyTab:
		return tcell.KeyTab
	case k == KeyBacktab:
		return tcell.KeyBacktab
	case k == KeyBackspace:
		return tcell.KeyBackspace2
	case k == KeyDelete:
		return tcell.KeyDelete
	case k == KeyHome:
		return tcell.KeyHome
	case k == KeyEnd:
		return tcell.KeyEnd
	case k == KeyPageUp:
		return tcell.KeyPgUp
	case k == KeyPageDown:
		return tcell.KeyPgDn
	case k == KeyUp:
		return tcell.KeyUp
	case k == KeyDown:
		return tcell.KeyDown
	case k == KeyLeft:
		return tcell.KeyLeft
	case k == KeyRight:
		return tcell.KeyRight
	case k >= KeyCtrlA && k <= KeyCtrlZ:
		return tcell.KeyCtrlA + tcell.Key(k-KeyCtrlA)
	}
	return tcell.KeyRune
}

// convertMod converts tcell modifier mask to our ModMask.
func convertMod(m tcell.ModMask) ModMask {
	var result ModMask
	if m&tcell.ModShift != 0 {
		result |= ModShift
	}
	if m&tcell.ModCtrl != 0 {
		result |= ModCtrl
	}
	if m&tcell.ModAlt != 0 || m&tcell.ModMeta != 0 {
		result |= ModAlt
	}
	return result
}

// convertToTcellMod converts our ModMask to tcell modifier mask.
func convertToTcellMod(m ModMask) tcell.ModMask {
	var result tcell.ModMask
	if m.Has(ModShift) {
		result |= tcell.ModShift
	}
	if m.Has(ModCtrl) {
		result |= tcell.ModCtrl
	}
	if m.Has(ModAlt) {
		result |= tcell.ModAlt
	}
	return result
}
