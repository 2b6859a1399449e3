package buffer

import (
	"errors"
	"reflect"
	"testing"

	"github.com/dshills/splitpad/internal/project/vfs"
)

type fakeView struct {
	changed  int
	restored []Position
	rebound  ID
}

func (v *fakeView) BufferChanged(*Buffer) { v.changed++ }

func (v *fakeView) CursorRestored(_ *Buffer, pos Position) {
	v.restored = append(v.restored, pos)
}

func (v *fakeView) Rebind(id ID) { v.rebound = id }

func memBuffer(t *testing.T, path, content string, opts ...Option) (*Buffer, *vfs.MemFS) {
	t.Helper()
	fsys := vfs.NewMemFS()
	if err := fsys.AddFile(path, content); err != nil {
		t.Fatalf("AddFile: %v", err)
	}
	b, err := Open(1, path, append([]Option{WithFS(fsys)}, opts...)...)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return b, fsys
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"empty", "", []string{""}},
		{"single", "abc", []string{"abc"}},
		{"trailing newline", "abc\n", []string{"abc", ""}},
		{"lf", "a\nb", []string{"a", "b"}},
		{"crlf", "a\r\nb", []string{"a", "b"}},
		{"cr", "a\rb", []string{"a", "b"}},
		{"blank line", "a\n\nb", []string{"a", "", "b"}},
		{"mixed", "a\r\nb\nc\rd", []string{"a", "b", "c", "d"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitLines(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestNewIsSingleEmptyLine(t *testing.T) {
	b := New(1)
	if b.LineCount() != 1 || b.Line(0) != "" {
		t.Errorf("expected one empty line, got %q", b.Lines())
	}
	if !b.IsScratch() {
		t.Error("expected scratch buffer")
	}
	if b.IsDirty() {
		t.Error("new buffer should be clean")
	}
	if b.Name() != "[scratch]" {
		t.Errorf("expected [scratch], got %q", b.Name())
	}
}

func TestInsert(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		op     Insert
		want   []string
		cursor Position
	}{
		{"middle", "hello", Insert{At: Position{0, 2}, Text: "XY"}, []string{"heXYllo"}, Position{0, 4}},
		{"end", "hello", Insert{At: Position{0, 5}, Text: "!"}, []string{"hello!"}, Position{0, 6}},
		{"multiline", "hello", Insert{At: Position{0, 2}, Text: "a\nbc\nd"}, []string{"hea", "bc", "dllo"}, Position{2, 1}},
		{"newline only", "ab", Insert{At: Position{0, 1}, Text: "\n"}, []string{"a", "b"}, Position{1, 0}},
		{"unicode", "héllo", Insert{At: Position{0, 2}, Text: "ü"}, []string{"héüllo"}, Position{0, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewFromText(1, "", tt.text)
			cursor, err := b.Mutate(tt.op, nil)
			if err != nil {
				t.Fatalf("Mutate: %v", err)
			}
			if !reflect.DeepEqual(b.Lines(), tt.want) {
				t.Errorf("expected %q, got %q", tt.want, b.Lines())
			}
			if cursor != tt.cursor {
				t.Errorf("expected cursor %v, got %v", tt.cursor, cursor)
			}
			if !b.IsDirty() {
				t.Error("expected dirty after edit")
			}
		})
	}
}

func TestInvalidPositionLeavesBufferUnchanged(t *testing.T) {
	ops := []struct {
		name string
		op   Op
	}{
		{"insert past line end", Insert{At: Position{0, 10}, Text: "x"}},
		{"insert past last line", Insert{At: Position{5, 0}, Text: "x"}},
		{"insert negative", Insert{At: Position{-1, 0}, Text: "x"}},
		{"delete past end", Delete{From: Position{0, 0}, To: Position{3, 0}}},
		{"split past end", SplitLine{At: Position{0, 9}}},
		{"join last line", JoinLine{Line: 1}},
		{"paste past end", Paste{After: 2, Lines: []string{"x"}}},
		{"indent past end", Indent{From: 0, To: 2}},
	}

	for _, tt := range ops {
		t.Run(tt.name, func(t *testing.T) {
			b := NewFromText(1, "", "abc\ndef")
			_, err := b.Mutate(tt.op, nil)
			if !errors.Is(err, ErrInvalidPosition) {
				t.Fatalf("expected ErrInvalidPosition, got %v", err)
			}
			if !reflect.DeepEqual(b.Lines(), []string{"abc", "def"}) {
				t.Errorf("buffer changed: %q", b.Lines())
			}
			if b.IsDirty() {
				t.Error("rejected edit should not mark dirty")
			}
			if b.EditsSinceSnapshot() != 0 {
				t.Errorf("expected no counted edits, got %d", b.EditsSinceSnapshot())
			}
		})
	}
}

func TestDelete(t *testing.T) {
	tests := []struct {
		name string
		op   Delete
		want []string
	}{
		{"within line", Delete{From: Position{0, 1}, To: Position{0, 3}}, []string{"ad", "efgh", "ijkl"}},
		{"across lines", Delete{From: Position{0, 2}, To: Position{2, 1}}, []string{"abjkl"}},
		{"reversed", Delete{From: Position{1, 2}, To: Position{0, 2}}, []string{"abgh", "ijkl"}},
		{"line break", Delete{From: Position{0, 4}, To: Position{1, 0}}, []string{"abcdefgh", "ijkl"}},
		{"empty range", Delete{From: Position{1, 1}, To: Position{1, 1}}, []string{"abcd", "efgh", "ijkl"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewFromText(1, "", "abcd\nefgh\nijkl")
			if _, err := b.Mutate(tt.op, nil); err != nil {
				t.Fatalf("Mutate: %v", err)
			}
			if !reflect.DeepEqual(b.Lines(), tt.want) {
				t.Errorf("expected %q, got %q", tt.want, b.Lines())
			}
		})
	}
}

func TestSplitThenJoinRestoresLine(t *testing.T) {
	b := NewFromText(1, "", "hello world")
	cursor, err := b.Mutate(SplitLine{At: Position{0, 5}}, nil)
	if err != nil {
		t.Fatalf("SplitLine: %v", err)
	}
	if cursor != (Position{1, 0}) {
		t.Errorf("expected cursor (1:0), got %v", cursor)
	}
	if !reflect.DeepEqual(b.Lines(), []string{"hello", " world"}) {
		t.Fatalf("unexpected split result %q", b.Lines())
	}

	cursor, err = b.Mutate(JoinLine{Line: 0}, nil)
	if err != nil {
		t.Fatalf("JoinLine: %v", err)
	}
	if cursor != (Position{0, 5}) {
		t.Errorf("expected cursor (0:5), got %v", cursor)
	}
	if b.Text() != "hello world" {
		t.Errorf("expected original text, got %q", b.Text())
	}
}

func TestPaste(t *testing.T) {
	b := NewFromText(1, "", "a\nb")
	cursor, err := b.Mutate(Paste{After: 0, Lines: []string{"x", "y"}}, nil)
	if err != nil {
		t.Fatalf("Paste: %v", err)
	}
	if !reflect.DeepEqual(b.Lines(), []string{"a", "x", "y", "b"}) {
		t.Errorf("unexpected lines %q", b.Lines())
	}
	if cursor != (Position{1, 0}) {
		t.Errorf("expected cursor (1:0), got %v", cursor)
	}

	if _, err := b.Mutate(Paste{After: -1, Lines: []string{"top"}}, nil); err != nil {
		t.Fatalf("Paste above: %v", err)
	}
	if b.Line(0) != "top" {
		t.Errorf("expected top line, got %q", b.Line(0))
	}
}

func TestIndentDedent(t *testing.T) {
	b := NewFromText(1, "", "a\n\n  b\n\tc")
	cursor, err := b.Mutate(Indent{From: 0, To: 3, Unit: "  ", Cursor: Position{2, 3}}, nil)
	if err != nil {
		t.Fatalf("Indent: %v", err)
	}
	want := []string{"  a", "", "    b", "  \tc"}
	if !reflect.DeepEqual(b.Lines(), want) {
		t.Errorf("expected %q, got %q", want, b.Lines())
	}
	if cursor != (Position{2, 5}) {
		t.Errorf("expected cursor (2:5), got %v", cursor)
	}

	if _, err := b.Mutate(Indent{From: 0, To: 3, Unit: "  ", Dedent: true}, nil); err != nil {
		t.Fatalf("Dedent: %v", err)
	}
	want = []string{"a", "", "  b", "\tc"}
	if !reflect.DeepEqual(b.Lines(), want) {
		t.Errorf("expected %q, got %q", want, b.Lines())
	}

	if _, err := b.Mutate(Indent{From: 3, To: 3, Unit: "  ", Dedent: true}, nil); err != nil {
		t.Fatalf("Dedent tab: %v", err)
	}
	if b.Line(3) != "c" {
		t.Errorf("expected tab removed, got %q", b.Line(3))
	}
}

func TestCheckpointNotifiesOtherViews(t *testing.T) {
	b := New(1)
	editor, other := &fakeView{}, &fakeView{}
	b.Attach(editor)
	b.Attach(other)
	b.Attach(other)

	if b.ViewCount() != 2 {
		t.Fatalf("expected 2 views, got %d", b.ViewCount())
	}

	if _, err := b.Mutate(Insert{Text: "x"}, editor); err != nil {
		t.Fatalf("Mutate: %v", err)
	}
	if editor.changed != 0 {
		t.Errorf("caller should not be notified, got %d", editor.changed)
	}
	if other.changed != 1 {
		t.Errorf("expected other view notified once, got %d", other.changed)
	}

	b.Detach(other)
	if _, err := b.Mutate(Insert{Text: "y"}, editor); err != nil {
		t.Fatalf("Mutate: %v", err)
	}
	if other.changed != 1 {
		t.Errorf("detached view notified: %d", other.changed)
	}
}

func TestSnapshotInterval(t *testing.T) {
	b := New(1, WithSnapshotInterval(3))
	for i := 0; i < 2; i++ {
		if _, err := b.Mutate(Insert{At: Position{0, i}, Text: "x"}, nil); err != nil {
			t.Fatalf("Mutate: %v", err)
		}
	}
	if b.HistoryLen() != 1 {
		t.Errorf("expected 1 snapshot before interval, got %d", b.HistoryLen())
	}
	if _, err := b.Mutate(Insert{At: Position{0, 2}, Text: "x"}, nil); err != nil {
		t.Fatalf("Mutate: %v", err)
	}
	if b.HistoryLen() != 2 {
		t.Errorf("expected 2 snapshots at interval, got %d", b.HistoryLen())
	}
	if b.EditsSinceSnapshot() != 0 {
		t.Errorf("expected counter reset, got %d", b.EditsSinceSnapshot())
	}
}

func TestBackupInterval(t *testing.T) {
	b, fsys := memBuffer(t, "/work/notes.txt", "abc", WithBackupInterval(4))
	backup := "/work/.splitpad-backup-notes.txt"
	if b.BackupPath() != backup {
		t.Fatalf("expected backup path %q, got %q", backup, b.BackupPath())
	}

	for i := 0; i < 3; i++ {
		if _, err := b.Mutate(Insert{At: Position{0, 0}, Text: "x"}, nil); err != nil {
			t.Fatalf("Mutate: %v", err)
		}
	}
	if fsys.Exists(backup) {
		t.Fatal("backup written before interval")
	}

	if _, err := b.Mutate(Insert{At: Position{0, 0}, Text: "x"}, nil); err != nil {
		t.Fatalf("Mutate: %v", err)
	}
	data, err := fsys.ReadFile(backup)
	if err != nil {
		t.Fatalf("expected backup: %v", err)
	}
	if string(data) != "xxxxabc" {
		t.Errorf("expected backup content %q, got %q", "xxxxabc", data)
	}
	if !b.HasBackup() {
		t.Error("HasBackup should be true")
	}
}

func TestBackupFailureIsReported(t *testing.T) {
	b, fsys := memBuffer(t, "/work/a.txt", "abc", WithBackupInterval(1))
	fsys.FailWrites("/work/.splitpad-backup-a.txt", true)

	cursor, err := b.Mutate(Insert{Text: "x"}, nil)
	var ioErr *IOError
	if !errors.As(err, &ioErr) {
		t.Fatalf("expected IOError, got %v", err)
	}
	if cursor != (Position{0, 1}) {
		t.Errorf("edit should still apply, cursor %v", cursor)
	}
	if b.Line(0) != "xabc" {
		t.Errorf("edit should still apply, got %q", b.Line(0))
	}
}

func TestScratchBufferSkipsBackup(t *testing.T) {
	fsys := vfs.NewMemFS()
	b := New(1, WithFS(fsys), WithBackupInterval(1))
	if _, err := b.Mutate(Insert{Text: "x"}, nil); err != nil {
		t.Fatalf("Mutate: %v", err)
	}
	if len(fsys.Files()) != 0 {
		t.Errorf("expected no files, got %v", fsys.Files())
	}
}

func TestBackupPath(t *testing.T) {
	tests := []struct {
		path, prefix, want string
	}{
		{"/a/b/c.txt", "splitpad-backup", "/a/b/.splitpad-backup-c.txt"},
		{"/c.txt", "bk", "/.bk-c.txt"},
		{"/a/c.txt", "", "/a/.splitpad-backup-c.txt"},
	}
	for _, tt := range tests {
		if got := BackupPath(tt.path, tt.prefix); got != tt.want {
			t.Errorf("BackupPath(%q, %q): expected %q, got %q", tt.path, tt.prefix, tt.want, got)
		}
	}
}

func TestClamp(t *testing.T) {
	b := NewFromText(1, "", "abc\nde")
	tests := []struct {
		in, want Position
	}{
		{Position{0, 1}, Position{0, 1}},
		{Position{1, 9}, Position{1, 2}},
		{Position{5, 1}, Position{0, 0}},
		{Position{0, -3}, Position{0, 0}},
	}
	for _, tt := range tests {
		if got := b.Clamp(tt.in); got != tt.want {
			t.Errorf("Clamp(%v): expected %v, got %v", tt.in, tt.want, got)
		}
	}
}

func TestReplaceAll(t *testing.T) {
	b := NewFromText(1, "", "foo bar\nbar foo foo")
	view := &fakeView{}
	b.Attach(view)

	n, err := b.ReplaceAll("foo", "baz", Position{}, nil)
	if err != nil {
		t.Fatalf("ReplaceAll: %v", err)
	}
	if n != 3 {
		t.Errorf("expected 3 replacements, got %d", n)
	}
	if b.Text() != "baz bar\nbar baz baz" {
		t.Errorf("unexpected text %q", b.Text())
	}
	if b.HistoryLen() != 2 {
		t.Errorf("expected forced snapshot, got %d entries", b.HistoryLen())
	}
	if view.changed != 1 {
		t.Errorf("expected view notified, got %d", view.changed)
	}

	n, _ = b.ReplaceAll("nothing", "x", Position{}, nil)
	if n != 0 || b.HistoryLen() != 2 {
		t.Errorf("no-op replace should not snapshot, n=%d entries=%d", n, b.HistoryLen())
	}
}

func TestTextRange(t *testing.T) {
	b := NewFromText(1, "", "abcd\nefgh\nijkl")
	if got := b.TextRange(Position{0, 2}, Position{2, 1}); got != "cd\nefgh\ni" {
		t.Errorf("unexpected range %q", got)
	}
	if got := b.TextRange(Position{1, 3}, Position{1, 1}); got != "fg" {
		t.Errorf("unexpected range %q", got)
	}
}

func TestChangesSince(t *testing.T) {
	b := NewFromText(1, "", "a\nb\nc")
	start := b.Version()

	edits := []struct {
		op       Op
		expected Change
	}{
		{Insert{At: Position{1, 0}, Text: "x\ny\n"}, Change{Line: 1, Removed: 1, Added: 3}},
		{Delete{From: Position{3, 1}, To: Position{1, 0}}, Change{Line: 1, Removed: 3, Added: 1}},
		{SplitLine{At: Position{0, 1}}, Change{Line: 0, Removed: 1, Added: 2}},
		{JoinLine{Line: 0}, Change{Line: 0, Removed: 2, Added: 1}},
		{Paste{After: -1, Lines: []string{"p", "q"}}, Change{Line: 0, Removed: 0, Added: 2}},
		{Indent{From: 2, To: 1, Unit: "  "}, Change{Line: 1, Removed: 2, Added: 2}},
	}
	for i, e := range edits {
		if _, err := b.Mutate(e.op, nil); err != nil {
			t.Fatalf("edit %d: %v", i, err)
		}
		changes, ok := b.ChangesSince(b.Version() - 1)
		if !ok || len(changes) != 1 || changes[0] != e.expected {
			t.Errorf("edit %d: expected %+v, got %+v %v", i, e.expected, changes, ok)
		}
	}

	all, ok := b.ChangesSince(start)
	if !ok || len(all) != len(edits) {
		t.Errorf("expected %d changes, got %d %v", len(edits), len(all), ok)
	}

	if _, err := b.Mutate(Insert{At: Position{9, 0}, Text: "x"}, nil); err == nil {
		t.Fatal("expected invalid position")
	}
	if changes, _ := b.ChangesSince(b.Version()); len(changes) != 0 {
		t.Errorf("expected a rejected edit to record nothing, got %+v", changes)
	}
}

func TestChangesSinceAfterBulkEdit(t *testing.T) {
	b := NewFromText(1, "", "a\nb")
	v := b.Version()
	if err := b.SetLines([]string{"x"}, Position{}, nil); err != nil {
		t.Fatal(err)
	}
	if _, ok := b.ChangesSince(v); ok {
		t.Error("expected changes before a bulk edit to be unknown")
	}
	if changes, ok := b.ChangesSince(b.Version()); !ok || len(changes) != 0 {
		t.Errorf("expected no changes at the current version, got %+v %v", changes, ok)
	}
}

func TestChangesSinceForgetsOldEdits(t *testing.T) {
	b := New(1)
	v := b.Version()
	for i := 0; i < maxChanges+1; i++ {
		if _, err := b.Mutate(Insert{Text: "x"}, nil); err != nil {
			t.Fatal(err)
		}
	}
	if _, ok := b.ChangesSince(v); ok {
		t.Error("expected the oldest change to be forgotten")
	}
	if changes, ok := b.ChangesSince(v + 1); !ok || len(changes) != maxChanges {
		t.Errorf("expected %d changes, got %d %v", maxChanges, len(changes), ok)
	}
}
