package buffer

// Change describes one edit in whole lines: Removed lines starting at
// Line were replaced by Added lines.
type Change struct {
	Line    int
	Removed int
	Added   int
}

// maxChanges bounds the change log. Readers further behind start over.
const maxChanges = 64

// changeLog numbers every change to the text and keeps the spans of the
// most recent edits.
type changeLog struct {
	version uint64
	// entries[i] produced version-len(entries)+i+1
	entries []Change
}

func (l *changeLog) record(c Change) {
	l.version++
	if len(l.entries) == maxChanges {
		copy(l.entries, l.entries[1:])
		l.entries = l.entries[:maxChanges-1]
	}
	l.entries = append(l.entries, c)
}

// reset records a change that cannot be described as a line span.
func (l *changeLog) reset() {
	l.version++
	l.entries = l.entries[:0]
}

func (l *changeLog) since(v uint64) ([]Change, bool) {
	if v > l.version {
		return nil, false
	}
	behind := l.version - v
	if behind > uint64(len(l.entries)) {
		return nil, false
	}
	return l.entries[uint64(len(l.entries))-behind:], true
}

// Version returns a counter that grows with every change to the text.
func (b *Buffer) Version() uint64 { return b.changes.version }

// ChangesSince returns, oldest first, the changes made after version v.
// ok is false when they are no longer known, after a bulk replacement or
// when v is too old; the caller must then rescan the whole document.
func (b *Buffer) ChangesSince(v uint64) (changes []Change, ok bool) {
	return b.changes.since(v)
}
