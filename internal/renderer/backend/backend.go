// Package backend abstracts the terminal the editor draws on.
//
// Terminal drives a real screen through tcell. Memory keeps the cell grid
// in memory and is what the renderer and application tests draw on.
package backend

import "errors"

// ErrQueueFull is returned by PostEvent when the event queue cannot accept
// another event.
var ErrQueueFull = errors.New("event queue full")

// EventType identifies the type of terminal event.
type EventType int

const (
	EventNone EventType = iota
	EventKey
	EventResize
	EventPaste
	EventInterrupt
)

// Event represents a terminal event.
type Event struct {
	Type EventType

	// Key event fields
	Key  Key
	Rune rune
	Mod  ModMask

	// Resize event fields
	Width, Height int

	// PasteStart is set on the event opening a bracketed paste and cleared
	// on the one closing it. The pasted text arrives as key events between.
	PasteStart bool

	// Payload carries the value posted with an interrupt event.
	Payload any
}

// KeyEvent builds a key event.
func KeyEvent(k Key, r rune, mod ModMask) Event {
	return Event{Type: EventKey, Key: k, Rune: r, Mod: mod}
}

// RuneEvent builds a key event for a printable character.
func RuneEvent(r rune) Event {
	return Event{Type: EventKey, Key: KeyRune, Rune: r}
}

// InterruptEvent wraps a value posted from outside the event loop.
func InterruptEvent(payload any) Event {
	return Event{Type: EventInterrupt, Payload: payload}
}

// Key represents a keyboard key.
type Key int

const (
	KeyNone Key = iota
	KeyRune     // Regular character (use Rune field)
	KeyEscape
	KeyEnter
	KeyTab
	KeyBacktab
	KeyBackspace
	KeyDelete
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyCtrlA
	KeyCtrlB
	KeyCtrlC
	KeyCtrlD
	KeyCtrlE
	KeyCtrlF
	KeyCtrlG
	KeyCtrlH
	KeyCtrlI
	KeyCtrlJ
	KeyCtrlK
	KeyCtrlL
	KeyCtrlM
	KeyCtrlN
	KeyCtrlO
	KeyCtrlP
	KeyCtrlQ
	KeyCtrlR
	KeyCtrlS
	KeyCtrlT
	KeyCtrlU
	KeyCtrlV
	KeyCtrlW
	KeyCtrlX
	KeyCtrlY
	KeyCtrlZ
)

// CtrlKey returns the control key for an ASCII letter, or KeyNone.
func CtrlKey(letter rune) Key {
	switch {
	case letter >= 'a' && letter <= 'z':
		return KeyCtrlA + Key(letter-'a')
	case letter >= 'A' && letter <= 'Z':
		return KeyCtrlA + Key(letter-'A')
	}
	return KeyNone
}

// ModMask represents modifier key state.
type ModMask int

const (
	ModNone  ModMask = 0
	ModShift ModMask = 1 << iota
	ModCtrl
	ModAlt
)

// Has returns true if the mask contains the given modifier.
func (m ModMask) Has(mod ModMask) bool {
	return m&mod != 0
}

// Backend is a character-cell display with an event queue.
type Backend interface {
	// Init must be called before any other method.
	Init() error

	// Shutdown releases the display and restores terminal state.
	Shutdown()

	Size() (width, height int)

	// SetCell draws one grapheme cluster at x, y. Wide clusters cover the
	// following cell as well. Positions off screen are ignored.
	SetCell(x, y int, text string, style Style)

	// Clear blanks the whole screen with the default style.
	Clear()

	// Show flushes pending changes to the display.
	Show()

	ShowCursor(x, y int)
	HideCursor()

	// PollEvent blocks until the next event is available.
	PollEvent() Event

	// PostEvent queues an event without blocking. It is safe to call from
	// any goroutine.
	PostEvent(ev Event) error

	// Beep produces an audible or visual bell.
	Beep()
}
