package window

import (
	"errors"
	"fmt"

	"github.com/dshills/splitpad/internal/engine/buffer"
)

// TopLevel holds the tabs of the editor and the active tab.
type TopLevel struct {
	tabs    []*Tab
	active  int
	area    Area
	factory ViewFactory
	opts    []Option
}

// NewTopLevel creates a window with a single tab showing buffer id.
func NewTopLevel(area Area, factory ViewFactory, id buffer.ID, opts ...Option) (*TopLevel, error) {
	w := &TopLevel{area: area, factory: factory, opts: opts}
	if _, err := w.NewTab(id); err != nil {
		return nil, err
	}
	return w, nil
}

// NewTab appends a tab with one pane showing buffer id and activates it.
func (w *TopLevel) NewTab(id buffer.ID) (*Tab, error) {
	t, err := NewTab(w.area, w.factory, id, w.opts...)
	if err != nil {
		return nil, err
	}
	w.tabs = append(w.tabs, t)
	w.active = len(w.tabs) - 1
	return t, nil
}

// CloseTab closes tab i and every view in it.
func (w *TopLevel) CloseTab(i int) error {
	if i < 0 || i >= len(w.tabs) {
		return fmt.Errorf("tab %d out of range", i)
	}
	if len(w.tabs) == 1 {
		return ErrLastTab
	}
	w.tabs[i].Close()
	w.tabs = append(w.tabs[:i], w.tabs[i+1:]...)
	if w.active >= len(w.tabs) || w.active > i {
		w.active--
	}
	w.active = max(w.active, 0)
	return nil
}

// Tabs returns the tabs in order.
func (w *TopLevel) Tabs() []*Tab {
	return append([]*Tab(nil), w.tabs...)
}

// TabCount returns the number of tabs.
func (w *TopLevel) TabCount() int { return len(w.tabs) }

// ActiveIndex returns the index of the active tab.
func (w *TopLevel) ActiveIndex() int { return w.active }

// ActiveTab returns the active tab.
func (w *TopLevel) ActiveTab() *Tab { return w.tabs[w.active] }

// SetActive activates tab i.
func (w *TopLevel) SetActive(i int) error {
	if i < 0 || i >= len(w.tabs) {
		return fmt.Errorf("tab %d out of range", i)
	}
	w.active = i
	return nil
}

// NextTab activates the following tab, wrapping around.
func (w *TopLevel) NextTab() {
	w.active = (w.active + 1) % len(w.tabs)
}

// PrevTab activates the preceding tab, wrapping around.
func (w *TopLevel) PrevTab() {
	w.active = (w.active - 1 + len(w.tabs)) % len(w.tabs)
}

// Area returns the area given to every tab.
func (w *TopLevel) Area() Area { return w.area }

// Readjust lays every tab out in area.
func (w *TopLevel) Readjust(area Area) {
	w.area = area
	for _, t := range w.tabs {
		t.Readjust(area)
	}
}

// Views returns the views of every tab.
func (w *TopLevel) Views() []Viewer {
	var out []Viewer
	for _, t := range w.tabs {
		out = append(out, t.Views()...)
	}
	return out
}

// Close closes every tab.
func (w *TopLevel) Close() {
	for _, t := range w.tabs {
		t.Close()
	}
	w.tabs = nil
}

// Serialize records the layout of every tab.
func (w *TopLevel) Serialize(projectRoot string) []Layout {
	out := make([]Layout, len(w.tabs))
	for i, t := range w.tabs {
		out[i] = t.Serialize(projectRoot)
	}
	return out
}

// RestoreTopLevel rebuilds tabs from persisted layouts. Tabs whose layout
// is malformed are skipped; with none left a single scratch tab is made.
// Every problem is returned joined together alongside the usable window.
func RestoreTopLevel(area Area, factory ViewFactory, layouts []Layout, active int, open BufferOpener, opts ...Option) (*TopLevel, error) {
	w := &TopLevel{area: area, factory: factory, opts: opts}
	var errs []error
	for _, l := range layouts {
		t, err := Restore(area, factory, l, open, opts...)
		if err != nil {
			errs = append(errs, err)
			if t == nil {
				continue
			}
		}
		w.tabs = append(w.tabs, t)
	}
	if len(w.tabs) == 0 {
		if _, err := w.NewTab(buffer.NoID); err != nil {
			return nil, errors.Join(append(errs, err)...)
		}
	}
	if active >= 0 && active < len(w.tabs) {
		w.active = active
	}
	return w, errors.Join(errs...)
}
