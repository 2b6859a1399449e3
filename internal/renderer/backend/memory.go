package backend

import (
	"strings"

	"github.com/rivo/uniseg"
)

// Cell is one screen cell of a Memory backend. The cell after a wide
// cluster holds an empty Text.
type Cell struct {
	Text  string
	Style Style
}

var blank = Cell{Text: " "}

// Memory is a Backend that draws into an in-memory grid.
type Memory struct {
	width, height int
	cells         [][]Cell
	cursorX       int
	cursorY       int
	cursorVisible bool
	beeps         int
	shows         int
	events        chan Event
}

// NewMemory creates a memory backend with the given dimensions.
func NewMemory(width, height int) *Memory {
	m := &Memory{events: make(chan Event, 256)}
	m.alloc(width, height)
	return m
}

func (m *Memory) Init() error { return nil }
func (m *Memory) Shutdown()   {}

func (m *Memory) Size() (int, int) {
	return m.width, m.height
}

func (m *Memory) inside(x, y int) bool {
	return x >= 0 && x < m.width && y >= 0 && y < m.height
}

func (m *Memory) SetCell(x, y int, text string, style Style) {
	if !m.inside(x, y) {
		return
	}
	m.cells[y][x] = Cell{Text: text, Style: style}
	if uniseg.StringWidth(text) > 1 && m.inside(x+1, y) {
		m.cells[y][x+1] = Cell{Style: style}
	}
}

// Cell returns the cell at x, y, or a blank cell off screen.
func (m *Memory) Cell(x, y int) Cell {
	if !m.inside(x, y) {
		return blank
	}
	return m.cells[y][x]
}

// Row returns the text of screen row y with trailing blanks removed.
func (m *Memory) Row(y int) string {
	if y < 0 || y >= m.height {
		return ""
	}
	var sb strings.Builder
	for _, c := range m.cells[y] {
		sb.WriteString(c.Text)
	}
	return strings.TrimRight(sb.String(), " ")
}

// Screen returns every row joined by newlines.
func (m *Memory) Screen() string {
	rows := make([]string, m.height)
	for y := range rows {
		rows[y] = m.Row(y)
	}
	return strings.Join(rows, "\n")
}

func (m *Memory) Clear() {
	for y := range m.cells {
		for x := range m.cells[y] {
			m.cells[y][x] = blank
		}
	}
}

func (m *Memory) Show() { m.shows++ }

func (m *Memory) ShowCursor(x, y int) {
	m.cursorX = x
	m.cursorY = y
	m.cursorVisible = true
}

func (m *Memory) HideCursor() {
	m.cursorVisible = false
}

// CursorPosition returns the last cursor position and whether it is shown.
func (m *Memory) CursorPosition() (x, y int, visible bool) {
	return m.cursorX, m.cursorY, m.cursorVisible
}

func (m *Memory) PollEvent() Event {
	return <-m.events
}

func (m *Memory) PostEvent(ev Event) error {
	select {
	case m.events <- ev:
		return nil
	default:
		return ErrQueueFull
	}
}

// Pending returns the number of queued events.
func (m *Memory) Pending() int {
	return len(m.events)
}

func (m *Memory) Beep() { m.beeps++ }

// Beeps returns how many times Beep was called.
func (m *Memory) Beeps() int { return m.beeps }

// Shows returns how many frames were flushed.
func (m *Memory) Shows() int { return m.shows }

// Resize changes the grid size, blanks it and queues a resize event.
func (m *Memory) Resize(width, height int) {
	m.alloc(width, height)
	_ = m.PostEvent(Event{Type: EventResize, Width: width, Height: height})
}

func (m *Memory) alloc(width, height int) {
	m.width = width
	m.height = height
	m.cells = make([][]Cell, height)
	for y := range m.cells {
		m.cells[y] = make([]Cell, width)
	}
	m.Clear()
}
