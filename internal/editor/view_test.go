package editor

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"testing"

	"github.com/dshills/splitpad/internal/engine/buffer"
	"github.com/dshills/splitpad/internal/engine/store"
	"github.com/dshills/splitpad/internal/project/vfs"
	"github.com/dshills/splitpad/internal/renderer"
	"github.com/dshills/splitpad/internal/renderer/backend"
	"github.com/dshills/splitpad/internal/renderer/layout"
	"github.com/dshills/splitpad/internal/window"
)

var testArea = window.Area{Y: 0, X: 0, Height: 6, Width: 20}

type fixture struct {
	store   *store.Store
	fs      *vfs.MemFS
	factory *Factory
	beeps   int
}

func newFixture(t *testing.T, settings Settings) *fixture {
	t.Helper()
	fx := &fixture{fs: vfs.NewMemFS()}
	if err := fx.fs.MkdirAll("/work", 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	fx.store = store.New(store.WithFS(fx.fs))
	fx.factory = NewFactory(fx.store, WithSettings(settings), WithBeep(func() { fx.beeps++ }))
	return fx
}

func (fx *fixture) scratch(t *testing.T, area window.Area) *View {
	t.Helper()
	v, err := fx.factory.NewView(buffer.NoID, area)
	if err != nil {
		t.Fatalf("NewView: %v", err)
	}
	return v.(*View)
}

func (fx *fixture) open(t *testing.T, path, content string, area window.Area) *View {
	t.Helper()
	if err := fx.fs.AddFile(path, content); err != nil {
		t.Fatalf("AddFile: %v", err)
	}
	b, err := fx.store.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	v, err := fx.factory.NewView(b.ID(), area)
	if err != nil {
		t.Fatalf("NewView: %v", err)
	}
	return v.(*View)
}

func text(t *testing.T, v *View) string {
	t.Helper()
	b, ok := v.Buffer()
	if !ok {
		t.Fatal("view has no buffer")
	}
	return strings.Join(b.Lines(), "\n")
}

func numbered(n int) string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = fmt.Sprintf("line %d", i+1)
	}
	return strings.Join(lines, "\n")
}

func TestTyping(t *testing.T) {
	fx := newFixture(t, DefaultSettings())
	v := fx.scratch(t, testArea)

	for _, r := range "hi" {
		if err := v.InsertRune(r); err != nil {
			t.Fatalf("InsertRune: %v", err)
		}
	}
	if err := v.Newline(); err != nil {
		t.Fatalf("Newline: %v", err)
	}
	if err := v.InsertText("x"); err != nil {
		t.Fatalf("InsertText: %v", err)
	}

	if got := text(t, v); got != "hi\nx" {
		t.Errorf("expected %q, got %q", "hi\nx", got)
	}
	if v.Cursor() != (buffer.Position{Line: 1, Col: 1}) {
		t.Errorf("expected cursor 1:1, got %v", v.Cursor())
	}
	if b, _ := v.Buffer(); !b.IsDirty() {
		t.Error("expected dirty buffer")
	}
}

func TestBackspaceAndDelete(t *testing.T) {
	fx := newFixture(t, DefaultSettings())
	v := fx.open(t, "/work/a.txt", "ab\ncd", testArea)

	v.SetCursor(buffer.Position{Line: 1, Col: 0})
	if err := v.Backspace(); err != nil {
		t.Fatalf("Backspace: %v", err)
	}
	if got := text(t, v); got != "abcd" {
		t.Errorf("expected joined line, got %q", got)
	}
	if v.Cursor() != (buffer.Position{Line: 0, Col: 2}) {
		t.Errorf("expected cursor 0:2, got %v", v.Cursor())
	}

	if err := v.DeleteForward(); err != nil {
		t.Fatalf("DeleteForward: %v", err)
	}
	if got := text(t, v); got != "abd" {
		t.Errorf("expected %q, got %q", "abd", got)
	}

	v.SetCursor(buffer.Position{})
	_ = v.Backspace()
	v.Move(MoveLineEnd)
	_ = v.DeleteForward()
	if fx.beeps != 2 {
		t.Errorf("expected 2 beeps at the document edges, got %d", fx.beeps)
	}
	if got := text(t, v); got != "abd" {
		t.Errorf("expected unchanged text, got %q", got)
	}
}

func TestMoveKeepsGoalColumn(t *testing.T) {
	fx := newFixture(t, DefaultSettings())
	v := fx.open(t, "/work/a.txt", "abcdef\nab\nabcdef", testArea)

	v.SetCursor(buffer.Position{Line: 0, Col: 5})
	v.Move(MoveDown)
	if v.Cursor() != (buffer.Position{Line: 1, Col: 2}) {
		t.Errorf("expected cursor clamped to 1:2, got %v", v.Cursor())
	}
	v.Move(MoveDown)
	if v.Cursor() != (buffer.Position{Line: 2, Col: 5}) {
		t.Errorf("expected goal column restored at 2:5, got %v", v.Cursor())
	}
	v.Move(MoveDown)
	if fx.beeps != 1 {
		t.Errorf("expected beep on the last line, got %d", fx.beeps)
	}
}

func TestMoveHorizontal(t *testing.T) {
	fx := newFixture(t, DefaultSettings())
	v := fx.open(t, "/work/a.txt", "ab\ncd", testArea)

	v.SetCursor(buffer.Position{Line: 0, Col: 2})
	v.Move(MoveRight)
	if v.Cursor() != (buffer.Position{Line: 1, Col: 0}) {
		t.Errorf("expected wrap to next line, got %v", v.Cursor())
	}
	v.Move(MoveLeft)
	if v.Cursor() != (buffer.Position{Line: 0, Col: 2}) {
		t.Errorf("expected wrap to previous line end, got %v", v.Cursor())
	}
	v.SetCursor(buffer.Position{})
	v.Move(MoveLeft)
	if fx.beeps != 1 {
		t.Errorf("expected beep at the start, got %d", fx.beeps)
	}
}

func TestLineStart(t *testing.T) {
	fx := newFixture(t, DefaultSettings())
	v := fx.open(t, "/work/a.txt", "  abc", testArea)

	v.SetCursor(buffer.Position{Line: 0, Col: 4})
	v.Move(MoveLineStart)
	if v.Cursor().Col != 2 {
		t.Errorf("expected first non-blank, got %v", v.Cursor())
	}
	v.Move(MoveLineStart)
	if v.Cursor().Col != 0 {
		t.Errorf("expected column 0, got %v", v.Cursor())
	}
	v.Move(MoveLineEnd)
	if v.Cursor().Col != 5 {
		t.Errorf("expected line end, got %v", v.Cursor())
	}
}

func TestIndentDedent(t *testing.T) {
	fx := newFixture(t, DefaultSettings())
	v := fx.open(t, "/work/a.txt", "abc", testArea)
	v.SetCursor(buffer.Position{Line: 0, Col: 1})

	if err := v.Indent(); err != nil {
		t.Fatalf("Indent: %v", err)
	}
	if got := text(t, v); got != "\tabc" {
		t.Errorf("expected indented line, got %q", got)
	}
	if v.Cursor().Col != 2 {
		t.Errorf("expected cursor to follow the text, got %v", v.Cursor())
	}

	if err := v.Dedent(); err != nil {
		t.Fatalf("Dedent: %v", err)
	}
	if got := text(t, v); got != "abc" {
		t.Errorf("expected dedented line, got %q", got)
	}
	if v.Cursor().Col != 1 {
		t.Errorf("expected cursor back at 1, got %v", v.Cursor())
	}
}

func TestCutAndPasteLines(t *testing.T) {
	fx := newFixture(t, DefaultSettings())
	v := fx.open(t, "/work/a.txt", "a\nb\nc", testArea)

	v.SetCursor(buffer.Position{Line: 1, Col: 1})
	if err := v.CutLine(); err != nil {
		t.Fatalf("CutLine: %v", err)
	}
	if got := text(t, v); got != "a\nc" {
		t.Errorf("expected line removed, got %q", got)
	}
	if v.Cursor() != (buffer.Position{Line: 1, Col: 0}) {
		t.Errorf("expected cursor 1:0, got %v", v.Cursor())
	}

	if err := v.PasteLines(); err != nil {
		t.Fatalf("PasteLines: %v", err)
	}
	if got := text(t, v); got != "a\nc\nb" {
		t.Errorf("expected pasted line, got %q", got)
	}
	if v.Cursor() != (buffer.Position{Line: 2, Col: 0}) {
		t.Errorf("expected cursor on pasted line, got %v", v.Cursor())
	}

	// cutting the last line joins it away
	if err := v.CutLine(); err != nil {
		t.Fatalf("CutLine: %v", err)
	}
	if got := text(t, v); got != "a\nc" {
		t.Errorf("expected last line removed, got %q", got)
	}
}

func TestCutOnlyLine(t *testing.T) {
	fx := newFixture(t, DefaultSettings())
	v := fx.open(t, "/work/a.txt", "only", testArea)
	if err := v.CutLine(); err != nil {
		t.Fatalf("CutLine: %v", err)
	}
	if got := text(t, v); got != "" {
		t.Errorf("expected empty document, got %q", got)
	}
	if lines := fx.factory.Clipboard().Lines(); len(lines) != 1 || lines[0] != "only" {
		t.Errorf("expected clipboard [only], got %v", lines)
	}
}

func TestPasteEmptyClipboardBeeps(t *testing.T) {
	fx := newFixture(t, DefaultSettings())
	v := fx.scratch(t, testArea)
	if err := v.PasteLines(); err != nil {
		t.Fatalf("PasteLines: %v", err)
	}
	if fx.beeps != 1 {
		t.Errorf("expected beep, got %d", fx.beeps)
	}
}

func TestUndoRedo(t *testing.T) {
	fx := newFixture(t, DefaultSettings())
	v := fx.scratch(t, testArea)
	_ = v.InsertText("a")

	if err := v.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if got := text(t, v); got != "" {
		t.Errorf("expected undone text, got %q", got)
	}
	if err := v.Undo(); err != nil {
		t.Fatalf("Undo at bottom should not fail: %v", err)
	}
	if fx.beeps != 1 {
		t.Errorf("expected beep at the bottom of history, got %d", fx.beeps)
	}

	if err := v.Redo(); err != nil {
		t.Fatalf("Redo: %v", err)
	}
	if got := text(t, v); got != "a" {
		t.Errorf("expected redone text, got %q", got)
	}
	if v.Cursor() != (buffer.Position{Line: 0, Col: 1}) {
		t.Errorf("expected restored cursor 0:1, got %v", v.Cursor())
	}
}

func TestSharedBuffer(t *testing.T) {
	fx := newFixture(t, DefaultSettings())
	v1 := fx.open(t, "/work/a.txt", "abc", testArea)
	w, err := fx.factory.NewView(v1.BufferID(), testArea)
	if err != nil {
		t.Fatalf("NewView: %v", err)
	}
	v2 := w.(*View)

	v1.SetCursor(buffer.Position{Line: 0, Col: 3})
	v2.SetCursor(buffer.Position{Line: 0, Col: 3})
	_ = v1.Backspace()
	if v2.Cursor() != (buffer.Position{Line: 0, Col: 2}) {
		t.Errorf("expected other view clamped to 0:2, got %v", v2.Cursor())
	}
	_ = v1.Backspace()
	_ = v1.Backspace()
	if v2.Cursor() != (buffer.Position{}) {
		t.Errorf("expected other view at origin, got %v", v2.Cursor())
	}

	// undo moves every view sharing the buffer
	if err := v1.Undo(); err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if got := text(t, v2); got != "abc" {
		t.Errorf("expected original text, got %q", got)
	}
	if v1.Cursor() != v2.Cursor() {
		t.Errorf("expected both cursors restored alike, got %v and %v", v1.Cursor(), v2.Cursor())
	}
}

func TestScrollKeepsCursorVisible(t *testing.T) {
	fx := newFixture(t, DefaultSettings())
	v := fx.open(t, "/work/a.txt", numbered(30), testArea)

	v.SetCursor(buffer.Position{Line: 10})
	if v.Top() != 8 {
		t.Errorf("expected top 8 with two rows of context, got %d", v.Top())
	}
	x, y, ok := v.ScreenCursor()
	if !ok || x != 4 || y != 2 {
		t.Errorf("expected cursor at 4,2, got %d,%d %v", x, y, ok)
	}

	v.SetCursor(buffer.Position{Line: 0})
	if v.Top() != 0 {
		t.Errorf("expected scroll back to top, got %d", v.Top())
	}
}

func TestPageDown(t *testing.T) {
	fx := newFixture(t, DefaultSettings())
	v := fx.open(t, "/work/a.txt", numbered(30), testArea)

	v.Move(MovePageDown)
	if v.Cursor().Line != 5 {
		t.Errorf("expected cursor on line 5, got %v", v.Cursor())
	}
	if _, _, ok := v.ScreenCursor(); !ok {
		t.Error("expected cursor visible after paging")
	}
	v.Move(MovePageUp)
	if v.Cursor().Line != 0 {
		t.Errorf("expected cursor back on line 0, got %v", v.Cursor())
	}
	v.Move(MovePageUp)
	if fx.beeps != 1 {
		t.Errorf("expected beep paging above the top, got %d", fx.beeps)
	}
}

func TestWrappedDraw(t *testing.T) {
	settings := DefaultSettings()
	settings.Wrap = layout.WrapChars
	fx := newFixture(t, settings)
	area := window.Area{Height: 6, Width: 14}
	v := fx.scratch(t, area)
	_ = v.InsertText("abcdefghijklmnopqrstuvwxy")
	v.SetCursor(buffer.Position{Line: 0, Col: 23})

	if v.TextWidth() != 10 {
		t.Fatalf("expected text width 10, got %d", v.TextWidth())
	}
	x, y, ok := v.ScreenCursor()
	if !ok || x != 7 || y != 2 {
		t.Errorf("expected cursor at 7,2, got %d,%d %v", x, y, ok)
	}

	m := backend.NewMemory(14, 6)
	v.Draw(renderer.NewSurface(m, area), renderer.DefaultTheme(), true)
	want := []string{
		"  1 abcdefghij",
		"  │ klmnopqrst",
		"  │ uvwxy",
		"~",
		"~",
	}
	for i, w := range want {
		if got := m.Row(i); got != w {
			t.Errorf("row %d: expected %q, got %q", i, w, got)
		}
	}
	if m.Row(5) != " [scratch] [+]" {
		t.Errorf("unexpected status line %q", m.Row(5))
	}

	// an unfocused pane shows no active block
	v.Draw(renderer.NewSurface(m, area), renderer.DefaultTheme(), false)
	if got := m.Row(1); got != "    klmnopqrst" {
		t.Errorf("expected no block marker, got %q", got)
	}
}

func TestWrapOffScrollsHorizontally(t *testing.T) {
	settings := DefaultSettings()
	settings.Wrap = layout.WrapOff
	fx := newFixture(t, settings)
	area := window.Area{Height: 6, Width: 14}
	v := fx.scratch(t, area)
	_ = v.InsertText("abcdefghijklmnopqrstuvwxy")

	x, y, ok := v.ScreenCursor()
	if !ok || x != 13 || y != 0 {
		t.Errorf("expected cursor at 13,0, got %d,%d %v", x, y, ok)
	}

	m := backend.NewMemory(14, 6)
	v.Draw(renderer.NewSurface(m, area), renderer.DefaultTheme(), true)
	if got := m.Row(0); got != "  1 qrstuvwxy" {
		t.Errorf("expected scrolled text, got %q", got)
	}
}

func TestCloseReleasesScratch(t *testing.T) {
	fx := newFixture(t, DefaultSettings())
	scratch := fx.scratch(t, testArea)
	file := fx.open(t, "/work/a.txt", "x", testArea)
	dirty := fx.scratch(t, testArea)
	_ = dirty.InsertText("keep")

	scratch.Close()
	file.Close()
	dirty.Close()

	if fx.store.Len() != 2 {
		t.Errorf("expected file and dirty scratch buffers to survive, got %d", fx.store.Len())
	}
	if _, ok := scratch.Buffer(); ok {
		t.Error("expected closed view to have no buffer")
	}
	if err := scratch.InsertText("x"); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
}

func TestMergeOnSaveRebindsView(t *testing.T) {
	fx := newFixture(t, DefaultSettings())
	fileView := fx.open(t, "/work/a.txt", "old", testArea)
	scratch := fx.scratch(t, testArea)
	_ = scratch.InsertText("new")

	b, _ := scratch.Buffer()
	if err := b.Save("/work/a.txt"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if fileView.BufferID() != scratch.BufferID() {
		t.Errorf("expected file view rebound to %d, got %d", scratch.BufferID(), fileView.BufferID())
	}
	if got := text(t, fileView); got != "new" {
		t.Errorf("expected merged content, got %q", got)
	}
	if fileView.Path() != "/work/a.txt" {
		t.Errorf("expected path kept, got %q", fileView.Path())
	}
	if fx.store.Len() != 1 {
		t.Errorf("expected one surviving buffer, got %d", fx.store.Len())
	}
}

func TestNewViewUnknownBuffer(t *testing.T) {
	fx := newFixture(t, DefaultSettings())
	if _, err := fx.factory.NewView(42, testArea); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStatusText(t *testing.T) {
	fx := newFixture(t, DefaultSettings())
	v := fx.open(t, "/work/a.txt", "abc\ndef", testArea)
	v.SetCursor(buffer.Position{Line: 1, Col: 2})
	b, _ := v.Buffer()
	b.MarkChangedOnDisk()

	left, right := v.StatusText()
	if left != " a.txt [changed on disk] (words)" {
		t.Errorf("unexpected left status %q", left)
	}
	if right != "2:3/2 " {
		t.Errorf("unexpected right status %q", right)
	}
}

func TestHandleKey(t *testing.T) {
	tests := []struct {
		name    string
		ev      backend.Event
		handled bool
	}{
		{"rune", backend.RuneEvent('a'), true},
		{"enter", backend.KeyEvent(backend.KeyEnter, 0, backend.ModNone), true},
		{"ctrl rune", backend.KeyEvent(backend.KeyRune, 'x', backend.ModCtrl), false},
		{"alt arrow", backend.KeyEvent(backend.KeyRight, 0, backend.ModAlt), false},
		{"save", backend.KeyEvent(backend.KeyCtrlS, 0, backend.ModNone), false},
		{"undo", backend.KeyEvent(backend.KeyCtrlZ, 0, backend.ModNone), true},
		{"arrow", backend.KeyEvent(backend.KeyLeft, 0, backend.ModNone), true},
		{"resize", backend.Event{Type: backend.EventResize}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newFixture(t, DefaultSettings())
			v := fx.scratch(t, testArea)
			handled, err := v.HandleKey(tt.ev)
			if err != nil {
				t.Fatalf("HandleKey: %v", err)
			}
			if handled != tt.handled {
				t.Errorf("expected handled=%v, got %v", tt.handled, handled)
			}
		})
	}
}

func checkWrapCache(t *testing.T, step string, v *View) {
	t.Helper()
	b, ok := v.Buffer()
	if !ok {
		t.Fatalf("%s: view has no buffer", step)
	}
	got := v.frame(b).cum
	expected := layout.CumLengths(b.Lines(), v.textWidth(b), v.settings.Wrap)
	if !slices.Equal(got, expected) {
		t.Errorf("%s: expected row totals %v, got %v", step, expected, got)
	}
}

func TestWrapCacheFollowsEdits(t *testing.T) {
	fx := newFixture(t, DefaultSettings())
	content := "the quick brown fox jumps over the lazy dog\nshort\n\nanother fairly long line of words here"
	v1 := fx.open(t, "/work/a.txt", content, testArea)
	w, err := fx.factory.NewView(v1.BufferID(), window.Area{Height: 8, Width: 31})
	if err != nil {
		t.Fatalf("NewView: %v", err)
	}
	v2 := w.(*View)

	steps := []struct {
		name string
		run  func() error
	}{
		{"insert lines", func() error {
			v1.SetCursor(buffer.Position{Line: 1, Col: 2})
			return v1.InsertText("one two three four five six\nseven\n")
		}},
		{"newline", v2.Newline},
		{"join", func() error {
			v1.SetCursor(buffer.Position{Line: 2, Col: 0})
			return v1.Backspace()
		}},
		{"cut", v2.CutLine},
		{"paste", v1.PasteLines},
		{"indent", v2.Indent},
		{"undo", v1.Undo},
		{"redo", v2.Redo},
		{"replace", func() error {
			_, err := v1.ReplaceAll("o", "ooooo")
			return err
		}},
		{"type after replace", func() error { return v2.InsertRune('x') }},
		{"wrap chars", func() error {
			v1.SetWrap(layout.WrapChars)
			return nil
		}},
		{"resize", func() error {
			v2.Resize(window.Area{Height: 8, Width: 12})
			return nil
		}},
	}
	for _, s := range steps {
		if err := s.run(); err != nil {
			t.Fatalf("%s: %v", s.name, err)
		}
		checkWrapCache(t, s.name, v1)
		checkWrapCache(t, s.name, v2)
	}
}

func TestTypingRewrapsOnlyTheEditedLine(t *testing.T) {
	fx := newFixture(t, DefaultSettings())
	v1 := fx.open(t, "/work/big.txt", numbered(2000), testArea)
	w, err := fx.factory.NewView(v1.BufferID(), testArea)
	if err != nil {
		t.Fatalf("NewView: %v", err)
	}
	v2 := w.(*View)
	mem := backend.NewMemory(testArea.Width, testArea.Height)
	theme := renderer.DefaultTheme()

	v1.SetCursor(buffer.Position{Line: 1000, Col: 2})
	v1.Draw(renderer.NewSurface(mem, testArea), theme, true)
	v2.Draw(renderer.NewSurface(mem, testArea), theme, false)
	before1, before2 := v1.wrap.wrapped, v2.wrap.wrapped

	for _, r := range "hello" {
		if err := v1.InsertRune(r); err != nil {
			t.Fatal(err)
		}
		v1.Draw(renderer.NewSurface(mem, testArea), theme, true)
		v2.Draw(renderer.NewSurface(mem, testArea), theme, false)
		if _, _, ok := v1.ScreenCursor(); !ok {
			t.Fatal("expected the cursor on screen")
		}
	}

	if n := v1.wrap.wrapped - before1; n != 5 {
		t.Errorf("expected 5 lines rewrapped in the editing view, got %d", n)
	}
	if n := v2.wrap.wrapped - before2; n != 5 {
		t.Errorf("expected 5 lines rewrapped in the other view, got %d", n)
	}
	checkWrapCache(t, "typed", v1)
	checkWrapCache(t, "typed", v2)
}
