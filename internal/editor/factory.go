package editor

import (
	"fmt"

	"github.com/dshills/splitpad/internal/engine/buffer"
	"github.com/dshills/splitpad/internal/engine/store"
	"github.com/dshills/splitpad/internal/renderer/layout"
	"github.com/dshills/splitpad/internal/window"
)

// Default view settings.
const (
	DefaultScrollOff  = 2
	DefaultIndentUnit = "\t"
)

// Settings are shared by every view a factory creates.
type Settings struct {
	Wrap       layout.WrapMode
	TabWidth   int
	ScrollOff  int
	IndentUnit string
}

// DefaultSettings returns word wrapping with the default tab width.
func DefaultSettings() Settings {
	return Settings{
		Wrap:       layout.WrapWords,
		TabWidth:   layout.DefaultTabWidth,
		ScrollOff:  DefaultScrollOff,
		IndentUnit: DefaultIndentUnit,
	}
}

// Clipboard holds the lines cut or copied by any view.
type Clipboard struct {
	lines []string
}

// Set replaces the clipboard content.
func (c *Clipboard) Set(lines []string) {
	c.lines = append([]string(nil), lines...)
}

// Lines returns a copy of the clipboard content.
func (c *Clipboard) Lines() []string {
	return append([]string(nil), c.lines...)
}

// Empty reports whether nothing was cut or copied yet.
func (c *Clipboard) Empty() bool { return len(c.lines) == 0 }

// Option configures a Factory.
type Option func(*Factory)

// WithSettings sets the view settings.
func WithSettings(s Settings) Option {
	return func(f *Factory) {
		f.settings = s
	}
}

// WithBeep sets the function views call to signal a refused command.
func WithBeep(fn func()) Option {
	return func(f *Factory) {
		if fn != nil {
			f.beep = fn
		}
	}
}

// WithClipboard shares clip between the factory's views.
func WithClipboard(clip *Clipboard) Option {
	return func(f *Factory) {
		if clip != nil {
			f.clipboard = clip
		}
	}
}

// Factory creates views backed by a store. It implements
// window.ViewFactory.
type Factory struct {
	store     *store.Store
	settings  Settings
	clipboard *Clipboard
	beep      func()
}

// NewFactory creates a factory for views of buffers in s.
func NewFactory(s *store.Store, opts ...Option) *Factory {
	f := &Factory{
		store:     s,
		settings:  DefaultSettings(),
		clipboard: &Clipboard{},
		beep:      func() {},
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.settings.TabWidth < 1 {
		f.settings.TabWidth = layout.DefaultTabWidth
	}
	if f.settings.ScrollOff < 0 {
		f.settings.ScrollOff = 0
	}
	if f.settings.IndentUnit == "" {
		f.settings.IndentUnit = DefaultIndentUnit
	}
	return f
}

// Settings returns the settings new views get.
func (f *Factory) Settings() Settings { return f.settings }

// SetWrap changes the wrap mode of views created from now on.
func (f *Factory) SetWrap(mode layout.WrapMode) { f.settings.Wrap = mode }

// Clipboard returns the clipboard shared by the factory's views.
func (f *Factory) Clipboard() *Clipboard { return f.clipboard }

// NewView creates a view of buffer id. buffer.NoID creates a fresh
// scratch buffer for it.
func (f *Factory) NewView(id buffer.ID, area window.Area) (window.Viewer, error) {
	var b *buffer.Buffer
	if id == buffer.NoID {
		b = f.store.NewBuffer()
	} else {
		var ok bool
		if b, ok = f.store.Get(id); !ok {
			return nil, fmt.Errorf("%w: %d", store.ErrNotFound, id)
		}
	}
	v := &View{
		store:        f.store,
		bufID:        b.ID(),
		settings:     f.settings,
		clipboard:    f.clipboard,
		beep:         f.beep,
		lastRendered: -1,
	}
	b.Attach(v)
	v.Resize(area)
	return v, nil
}
