package renderer

import (
	"fmt"
	"path/filepath"

	"github.com/dshills/splitpad/internal/renderer/backend"
	"github.com/dshills/splitpad/internal/window"
)

// Pane is a view that can paint itself.
type Pane interface {
	// Draw paints the pane onto s, which covers exactly its area.
	Draw(s *Surface, theme Theme, active bool)
	// ScreenCursor returns the cursor cell relative to the pane, or false
	// when the cursor is not visible.
	ScreenCursor() (x, y int, ok bool)
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithTheme sets the styles used for painting.
func WithTheme(t Theme) Option {
	return func(r *Renderer) {
		r.theme = t
	}
}

// Renderer paints the editor's screen.
type Renderer struct {
	b       backend.Backend
	theme   Theme
	message string
	isError bool
	frames  uint64
}

// New creates a renderer drawing on b.
func New(b backend.Backend, opts ...Option) *Renderer {
	r := &Renderer{b: b, theme: DefaultTheme()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Theme returns the renderer's styles.
func (r *Renderer) Theme() Theme { return r.theme }

// SetMessage shows msg on the message line until the next call.
func (r *Renderer) SetMessage(format string, args ...any) {
	r.message = fmt.Sprintf(format, args...)
	r.isError = false
}

// SetError shows err on the message line.
func (r *Renderer) SetError(err error) {
	if err == nil {
		r.ClearMessage()
		return
	}
	r.message = err.Error()
	r.isError = true
}

// ClearMessage empties the message line.
func (r *Renderer) ClearMessage() {
	r.message = ""
	r.isError = false
}

// Message returns the text on the message line.
func (r *Renderer) Message() string { return r.message }

// FrameCount returns the number of frames rendered.
func (r *Renderer) FrameCount() uint64 { return r.frames }

// PaneArea returns the part of a width x height screen given to panes:
// everything between the tab bar and the message line.
func PaneArea(width, height int) window.Area {
	return window.Area{Y: 1, X: 0, Height: max(0, height-2), Width: max(0, width)}
}

// Render paints top and flushes the frame.
func (r *Renderer) Render(top *window.TopLevel) {
	r.frames++
	r.b.Clear()
	width, height := r.b.Size()

	r.drawTabBar(top, width)

	tab := top.ActiveTab()
	for _, id := range tab.Leaves() {
		p, ok := tab.View(id).(Pane)
		if !ok {
			continue
		}
		p.Draw(NewSurface(r.b, tab.NodeArea(id)), r.theme, id == tab.Active())
	}
	r.drawDividers(tab)
	r.drawMessage(width, height)
	r.placeCursor(tab)

	r.b.Show()
}

func (r *Renderer) drawTabBar(top *window.TopLevel, width int) {
	s := NewSurface(r.b, window.Area{Y: 0, X: 0, Height: 1, Width: width})
	s.Fill(0, r.theme.TabBar)
	x := 0
	for i, tab := range top.Tabs() {
		style := r.theme.TabBar
		if i == top.ActiveIndex() {
			style = r.theme.TabActive
		}
		label := fmt.Sprintf(" %d:%s ", i+1, TabLabel(tab))
		x = s.Text(x, 0, label, style)
	}
}

// TabLabel names a tab after the buffer of its active pane.
func TabLabel(tab *window.Tab) string {
	v := tab.ActiveView()
	if v == nil {
		return "[empty]"
	}
	return BufferName(v.Path())
}

// BufferName returns the short name shown for a buffer path.
func BufferName(path string) string {
	if path == "" {
		return "[scratch]"
	}
	return filepath.Base(path)
}

func (r *Renderer) drawDividers(tab *window.Tab) {
	for _, id := range tab.Splits() {
		o, at, ok := tab.Divider(id)
		if !ok {
			continue
		}
		a := tab.NodeArea(id)
		if o == window.Horizontal {
			for y := a.Y; y < a.Y+a.Height; y++ {
				r.b.SetCell(at, y, "│", r.theme.Divider)
			}
			continue
		}
		for x := a.X; x < a.X+a.Width; x++ {
			r.b.SetCell(x, at, "─", r.theme.Divider)
		}
	}
}

func (r *Renderer) drawMessage(width, height int) {
	if height < 2 {
		return
	}
	s := NewSurface(r.b, window.Area{Y: height - 1, X: 0, Height: 1, Width: width})
	style := r.theme.Message
	if r.isError {
		style = r.theme.Error
	}
	s.Text(0, 0, r.message, style)
}

func (r *Renderer) placeCursor(tab *window.Tab) {
	p, ok := tab.ActiveView().(Pane)
	if !ok {
		r.b.HideCursor()
		return
	}
	x, y, visible := p.ScreenCursor()
	if !visible {
		r.b.HideCursor()
		return
	}
	a := tab.NodeArea(tab.Active())
	r.b.ShowCursor(a.X+x, a.Y+y)
}
