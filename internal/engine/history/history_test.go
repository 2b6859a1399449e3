package history

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestNewHistory(t *testing.T) {
	h := New([]string{"a"}, Cursor{}, 0)
	if h.MaxBytes() != DefaultMaxBytes {
		t.Errorf("expected default max bytes %d, got %d", DefaultMaxBytes, h.MaxBytes())
	}
	if h.Len() != 1 {
		t.Errorf("expected 1 entry, got %d", h.Len())
	}
	if h.CanUndo() {
		t.Error("should not be able to undo initial state")
	}
	if h.CanRedo() {
		t.Error("should not be able to redo initial state")
	}
}

func TestUndoRedoBoundaries(t *testing.T) {
	h := New([]string{""}, Cursor{}, 1024)

	if _, err := h.Undo(); !errors.Is(err, ErrNothingToUndo) {
		t.Errorf("expected ErrNothingToUndo, got %v", err)
	}
	if _, err := h.Redo(); !errors.Is(err, ErrNothingToRedo) {
		t.Errorf("expected ErrNothingToRedo, got %v", err)
	}
}

func TestUndoRoundTrip(t *testing.T) {
	initial := []string{"hello", "world"}
	h := New(initial, Cursor{Line: 1, Col: 2}, 1<<20)

	states := [][]string{
		{"hello", "world", "!"},
		{"hello"},
		{"", "x"},
		{"final"},
	}
	for i, s := range states {
		h.AddChange(s, Cursor{Line: 0, Col: i})
	}

	var snap Snapshot
	var err error
	for range states {
		snap, err = h.Undo()
		if err != nil {
			t.Fatalf("undo failed: %v", err)
		}
	}

	if !reflect.DeepEqual(snap.Lines, initial) {
		t.Errorf("expected %v, got %v", initial, snap.Lines)
	}
	if snap.Cursor != (Cursor{Line: 1, Col: 2}) {
		t.Errorf("expected cursor (1,2), got %+v", snap.Cursor)
	}
	if h.CanUndo() {
		t.Error("should be at bottom")
	}
}

func TestUndoThenRedoRestores(t *testing.T) {
	h := New([]string{"a"}, Cursor{}, 1<<20)
	h.AddChange([]string{"ab"}, Cursor{Col: 2})
	h.AddChange([]string{"abc"}, Cursor{Col: 3})

	if _, err := h.Undo(); err != nil {
		t.Fatal(err)
	}
	snap, err := h.Redo()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(snap.Lines, []string{"abc"}) {
		t.Errorf("expected [abc], got %v", snap.Lines)
	}
	if snap.Cursor.Col != 3 {
		t.Errorf("expected cursor col 3, got %d", snap.Cursor.Col)
	}
	if h.CanRedo() {
		t.Error("should be at top after redo")
	}
}

func TestAddChangeDiscardsRedo(t *testing.T) {
	h := New([]string{"0"}, Cursor{}, 1<<20)
	h.AddChange([]string{"1"}, Cursor{})
	h.AddChange([]string{"2"}, Cursor{})

	h.Undo()
	h.Undo()
	if !h.CanRedo() {
		t.Fatal("expected redo to be available")
	}

	h.AddChange([]string{"new"}, Cursor{})
	if h.CanRedo() {
		t.Error("new change should discard redo future")
	}
	if h.Len() != 2 {
		t.Errorf("expected 2 entries, got %d", h.Len())
	}

	snap, err := h.Undo()
	if err != nil {
		t.Fatal(err)
	}
	if snap.Lines[0] != "0" {
		t.Errorf("expected 0, got %q", snap.Lines[0])
	}
}

func TestSnapshotsAreCopies(t *testing.T) {
	lines := []string{"a", "b"}
	h := New(lines, Cursor{}, 1<<20)
	lines[0] = "changed"

	h.AddChange([]string{"c"}, Cursor{})
	snap, _ := h.Undo()
	if snap.Lines[0] != "a" {
		t.Errorf("history should hold a copy, got %q", snap.Lines[0])
	}

	snap.Lines[0] = "mutated"
	h.Redo()
	again, _ := h.Undo()
	if again.Lines[0] != "a" {
		t.Errorf("returned snapshot should be a copy, got %q", again.Lines[0])
	}
}

func TestByteCeiling(t *testing.T) {
	// each snapshot is 10 bytes: 9 chars + separator
	const ceiling = 35
	h := New([]string{strings.Repeat("0", 9)}, Cursor{}, ceiling)

	for i := 1; i <= 10; i++ {
		h.AddChange([]string{strings.Repeat(string(rune('0'+i%10)), 9)}, Cursor{Col: i})
		if h.TotalBytes() > ceiling {
			t.Fatalf("total %d exceeds ceiling %d after %d changes", h.TotalBytes(), ceiling, i)
		}
	}

	if h.Len() != 3 {
		t.Fatalf("expected 3 retained entries, got %d", h.Len())
	}

	// retained entries must be the most recent ones: 8, 9, 10
	want := []int{9, 8}
	for _, col := range want {
		snap, err := h.Undo()
		if err != nil {
			t.Fatal(err)
		}
		if snap.Cursor.Col != col {
			t.Errorf("expected cursor col %d, got %d", col, snap.Cursor.Col)
		}
	}
	if h.CanUndo() {
		t.Error("oldest entries should have been evicted")
	}
}

func TestOversizedSnapshotEvictsEverything(t *testing.T) {
	h := New([]string{"ok"}, Cursor{}, 8)
	h.AddChange([]string{"this line is far too long"}, Cursor{})

	if h.TotalBytes() > 8 {
		t.Errorf("total %d exceeds ceiling", h.TotalBytes())
	}
	if h.CanUndo() || h.CanRedo() {
		t.Error("empty history should have nothing to undo or redo")
	}
}

func TestSnapshotSize(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  int
	}{
		{"empty line", []string{""}, 1},
		{"two lines", []string{"ab", "c"}, 5},
		{"multibyte", []string{"é"}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := (Snapshot{Lines: tt.lines}).Size(); got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestReset(t *testing.T) {
	h := New([]string{"a"}, Cursor{}, 1<<20)
	h.AddChange([]string{"b"}, Cursor{})
	h.Reset([]string{"c"}, Cursor{Col: 1})

	if h.Len() != 1 {
		t.Errorf("expected 1 entry, got %d", h.Len())
	}
	if h.CanUndo() {
		t.Error("reset history should not allow undo")
	}
}
