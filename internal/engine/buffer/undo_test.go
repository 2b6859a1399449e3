package buffer

import (
	"errors"
	"testing"
)

func TestUndoRedoRoundTrip(t *testing.T) {
	b := NewFromText(1, "", "start")
	a, c := &fakeView{}, &fakeView{}
	b.Attach(a)
	b.Attach(c)

	cursor := Position{0, 5}
	var err error
	for _, s := range []string{" one", " two", " three"} {
		cursor, err = b.Mutate(Insert{At: cursor, Text: s}, a)
		if err != nil {
			t.Fatalf("Mutate: %v", err)
		}
	}
	if b.Text() != "start one two three" {
		t.Fatalf("unexpected text %q", b.Text())
	}

	pos, err := b.Undo(cursor)
	if err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if b.Text() != "start" {
		t.Errorf("expected pending edits undone together, got %q", b.Text())
	}
	if pos != (Position{}) {
		t.Errorf("expected initial cursor, got %v", pos)
	}
	if len(a.restored) != 1 || len(c.restored) != 1 {
		t.Errorf("expected every view to get the restored cursor, got %d and %d", len(a.restored), len(c.restored))
	}
	if !b.IsDirty() {
		t.Error("undo should leave the buffer dirty")
	}

	if _, err := b.Undo(pos); !errors.Is(err, ErrNothingToUndo) {
		t.Errorf("expected ErrNothingToUndo, got %v", err)
	}
	if b.Text() != "start" {
		t.Errorf("failed undo changed text: %q", b.Text())
	}

	pos, err = b.Redo(pos)
	if err != nil {
		t.Fatalf("Redo: %v", err)
	}
	if b.Text() != "start one two three" {
		t.Errorf("expected redo to restore edits, got %q", b.Text())
	}
	if pos != cursor {
		t.Errorf("expected cursor %v, got %v", cursor, pos)
	}
	if _, err := b.Redo(pos); !errors.Is(err, ErrNothingToRedo) {
		t.Errorf("expected ErrNothingToRedo, got %v", err)
	}
}

func TestUndoStepsThroughSnapshots(t *testing.T) {
	b := New(1, WithSnapshotInterval(1))
	cursor := Position{}
	for _, s := range []string{"a", "b", "c"} {
		var err error
		cursor, err = b.Mutate(Insert{At: cursor, Text: s}, nil)
		if err != nil {
			t.Fatalf("Mutate: %v", err)
		}
	}

	for _, want := range []string{"ab", "a", ""} {
		var err error
		cursor, err = b.Undo(cursor)
		if err != nil {
			t.Fatalf("Undo: %v", err)
		}
		if b.Text() != want {
			t.Errorf("expected %q, got %q", want, b.Text())
		}
	}
	if b.CanUndo() {
		t.Error("expected history exhausted")
	}
	if !b.CanRedo() {
		t.Error("expected redo available")
	}
}

func TestEditAfterUndoDiscardsRedo(t *testing.T) {
	b := New(1, WithSnapshotInterval(1))
	cursor, _ := b.Mutate(Insert{Text: "a"}, nil)
	cursor, _ = b.Mutate(Insert{At: cursor, Text: "b"}, nil)

	cursor, err := b.Undo(cursor)
	if err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if _, err := b.Mutate(Insert{At: cursor, Text: "z"}, nil); err != nil {
		t.Fatalf("Mutate: %v", err)
	}
	if b.CanRedo() {
		t.Error("edit should discard redo")
	}
	if _, err := b.Redo(cursor); !errors.Is(err, ErrNothingToRedo) {
		t.Errorf("expected ErrNothingToRedo, got %v", err)
	}
	if b.Text() != "az" {
		t.Errorf("expected %q, got %q", "az", b.Text())
	}
}

func TestPendingEditsDiscardRedo(t *testing.T) {
	b := New(1, WithSnapshotInterval(4))
	cursor, _ := b.Mutate(Insert{Text: "a"}, nil)
	cursor, _ = b.Undo(cursor)

	cursor, _ = b.Mutate(Insert{At: cursor, Text: "q"}, nil)
	if b.CanRedo() {
		t.Error("pending edit should hide redo")
	}
	if _, err := b.Redo(cursor); !errors.Is(err, ErrNothingToRedo) {
		t.Errorf("expected ErrNothingToRedo, got %v", err)
	}
	if b.Text() != "q" {
		t.Errorf("redo must not drop pending edits, got %q", b.Text())
	}
}

func TestUndoClampsRestoredCursor(t *testing.T) {
	b := NewFromText(1, "", "abc")
	b.snapshot(Position{Line: 0, Col: 3})
	if _, err := b.Mutate(Delete{From: Position{0, 0}, To: Position{0, 3}}, nil); err != nil {
		t.Fatalf("Mutate: %v", err)
	}
	pos, err := b.Undo(Position{})
	if err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if pos != (Position{0, 3}) {
		t.Errorf("expected (0:3), got %v", pos)
	}
}

func TestSetLinesKeepsPendingEditsUndoable(t *testing.T) {
	b := NewFromText(1, "", "one")
	cursor, _ := b.Mutate(Insert{At: Position{0, 3}, Text: "  "}, nil)

	if err := b.SetLines([]string{"one"}, cursor, nil); err != nil {
		t.Fatalf("SetLines: %v", err)
	}
	if _, err := b.Undo(cursor); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if b.Text() != "one  " {
		t.Errorf("expected the typed spaces back, got %q", b.Text())
	}
}
