package window

import (
	"errors"
	"testing"

	"github.com/dshills/splitpad/internal/engine/buffer"
)

func TestTopLevelTabs(t *testing.T) {
	f := newFactory()
	w, err := NewTopLevel(screen, f, 1)
	if err != nil {
		t.Fatalf("NewTopLevel: %v", err)
	}
	if w.TabCount() != 1 || w.ActiveIndex() != 0 {
		t.Fatal("expected one active tab")
	}
	if err := w.CloseTab(0); !errors.Is(err, ErrLastTab) {
		t.Errorf("expected ErrLastTab, got %v", err)
	}

	if _, err := w.NewTab(buffer.NoID); err != nil {
		t.Fatalf("NewTab: %v", err)
	}
	if _, err := w.NewTab(2); err != nil {
		t.Fatalf("NewTab: %v", err)
	}
	if w.TabCount() != 3 || w.ActiveIndex() != 2 {
		t.Fatalf("expected the new tab active, got %d of %d", w.ActiveIndex(), w.TabCount())
	}

	w.NextTab()
	if w.ActiveIndex() != 0 {
		t.Errorf("expected wrap to 0, got %d", w.ActiveIndex())
	}
	w.PrevTab()
	if w.ActiveIndex() != 2 {
		t.Errorf("expected wrap to 2, got %d", w.ActiveIndex())
	}

	if err := w.CloseTab(2); err != nil {
		t.Fatalf("CloseTab: %v", err)
	}
	if w.ActiveIndex() != 1 || w.TabCount() != 2 {
		t.Errorf("expected active 1 of 2, got %d of %d", w.ActiveIndex(), w.TabCount())
	}
	if !f.views[2].closed {
		t.Error("expected the closed tab's view closed")
	}

	if err := w.SetActive(1); err != nil {
		t.Fatalf("SetActive: %v", err)
	}
	if err := w.CloseTab(0); err != nil {
		t.Fatalf("CloseTab: %v", err)
	}
	if w.ActiveIndex() != 0 || w.ActiveTab().ActiveView() != f.views[1] {
		t.Error("expected the remaining tab active")
	}
	if err := w.SetActive(5); err == nil {
		t.Error("expected out of range error")
	}
}

func TestTopLevelReadjust(t *testing.T) {
	f := newFactory()
	w, _ := NewTopLevel(screen, f, 1)
	w.NewTab(2)
	area := Area{Y: 1, Height: 10, Width: 40}
	w.Readjust(area)
	for i, v := range f.views {
		if v.area != area {
			t.Errorf("view %d: expected %v, got %v", i, area, v.area)
		}
	}
	if len(w.Views()) != 2 {
		t.Errorf("expected 2 views, got %d", len(w.Views()))
	}
}

func TestRestoreTopLevel(t *testing.T) {
	tab, _ := buildSample(t)
	layouts := []Layout{
		tab.Serialize("/proj"),
		{Kinds: []Kind{KindHorizontalSplit}},
		{Kinds: []Kind{KindEditor}, Leaves: []*LeafRecord{nil}},
	}
	open := func(path string) (buffer.ID, error) { return 1, nil }

	w, err := RestoreTopLevel(screen, newFactory(), layouts, 1, open)
	if !errors.Is(err, ErrMalformedLayout) {
		t.Errorf("expected the malformed layout reported, got %v", err)
	}
	if w.TabCount() != 2 {
		t.Fatalf("expected 2 restored tabs, got %d", w.TabCount())
	}
	if w.ActiveIndex() != 1 {
		t.Errorf("expected active tab 1, got %d", w.ActiveIndex())
	}
	if w.Tabs()[0].PaneCount() != 3 {
		t.Errorf("expected 3 panes, got %d", w.Tabs()[0].PaneCount())
	}

	empty, err := RestoreTopLevel(screen, newFactory(), nil, 0, open)
	if err != nil {
		t.Fatalf("RestoreTopLevel: %v", err)
	}
	if empty.TabCount() != 1 {
		t.Error("expected a scratch tab when nothing was restored")
	}
}
