package window

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dshills/splitpad/internal/engine/buffer"
)

// LeafRecord is the persisted state of one pane.
type LeafRecord struct {
	Path   string
	Line   int
	Column int
}

// Layout is the persisted shape of a tab: node kinds in preorder and one
// entry per editor kind. An entry is nil for panes whose buffer is a
// scratch buffer or lies outside the project root.
type Layout struct {
	Kinds  []Kind
	Leaves []*LeafRecord
}

// Serialize records the tree shape and the file and cursor of every pane
// under projectRoot. An empty projectRoot accepts every file.
func (t *Tab) Serialize(projectRoot string) Layout {
	var l Layout
	t.walk(t.root, func(id NodeID) {
		n := t.nodes[id]
		l.Kinds = append(l.Kinds, n.kind)
		if n.kind != KindEditor {
			return
		}
		path := n.view.Path()
		if path == "" || !underRoot(path, projectRoot) {
			l.Leaves = append(l.Leaves, nil)
			return
		}
		pos := n.view.Cursor()
		l.Leaves = append(l.Leaves, &LeafRecord{Path: path, Line: pos.Line, Column: pos.Col})
	})
	return l
}

func underRoot(path, root string) bool {
	if root == "" {
		return true
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel)
}

// BufferOpener returns the buffer for a persisted path.
type BufferOpener func(path string) (buffer.ID, error)

// shape is a parsed layout node.
type shape struct {
	kind     Kind
	children [2]*shape
	record   int // index into Layout.Leaves for editor shapes
}

func parseShape(l Layout) (*shape, error) {
	pos, leaves := 0, 0
	var parse func() (*shape, error)
	parse = func() (*shape, error) {
		if pos >= len(l.Kinds) {
			return nil, fmt.Errorf("%w: truncated", ErrMalformedLayout)
		}
		k := l.Kinds[pos]
		pos++
		switch k {
		case KindEditor:
			s := &shape{kind: k, record: leaves}
			leaves++
			return s, nil
		case KindHorizontalSplit, KindVerticalSplit:
			a, err := parse()
			if err != nil {
				return nil, err
			}
			b, err := parse()
			if err != nil {
				return nil, err
			}
			return &shape{kind: k, children: [2]*shape{a, b}}, nil
		default:
			return nil, fmt.Errorf("%w: %s", ErrMalformedLayout, k)
		}
	}

	s, err := parse()
	if err != nil {
		return nil, err
	}
	if pos != len(l.Kinds) {
		return nil, fmt.Errorf("%w: %d trailing kinds", ErrMalformedLayout, len(l.Kinds)-pos)
	}
	if leaves != len(l.Leaves) {
		return nil, fmt.Errorf("%w: %d panes but %d records", ErrMalformedLayout, leaves, len(l.Leaves))
	}
	return s, nil
}

func (s *shape) firstRecord() int {
	for s.kind != KindEditor {
		s = s.children[0]
	}
	return s.record
}

// Restore rebuilds a tab from a layout by replaying its splits. Buffers
// are obtained from open; a record that is nil or fails to open yields a
// scratch pane. Open failures are returned joined together alongside the
// tab, which is usable regardless. A malformed layout returns no tab.
func Restore(area Area, factory ViewFactory, l Layout, open BufferOpener, opts ...Option) (*Tab, error) {
	s, err := parseShape(l)
	if err != nil {
		return nil, err
	}

	var errs []error
	bufferFor := func(record int) buffer.ID {
		r := l.Leaves[record]
		if r == nil || open == nil {
			return buffer.NoID
		}
		id, err := open(r.Path)
		if err != nil {
			errs = append(errs, fmt.Errorf("restore %s: %w", r.Path, err))
			return buffer.NoID
		}
		return id
	}

	t, err := NewTab(area, factory, bufferFor(s.firstRecord()), opts...)
	if err != nil {
		return nil, err
	}
	if n := len(l.Leaves); n > t.maxPanes {
		t.maxPanes = n
	}

	leafOf := make(map[int]NodeID)
	var build func(s *shape, at NodeID) error
	build = func(s *shape, at NodeID) error {
		if s.kind == KindEditor {
			leafOf[s.record] = at
			return nil
		}
		second, err := t.split(at, s.kind.orientation(), bufferFor(s.children[1].firstRecord()), false)
		if err != nil {
			return err
		}
		first, _ := t.Children(at)
		if err := build(s.children[0], first); err != nil {
			return err
		}
		return build(s.children[1], second)
	}
	if err := build(s, t.root); err != nil {
		t.Close()
		return nil, err
	}

	for i, r := range l.Leaves {
		if r != nil {
			if v := t.View(leafOf[i]); v != nil && v.Path() == r.Path {
				v.SetCursor(buffer.Position{Line: r.Line, Col: r.Column})
			}
		}
	}
	t.active = t.first(t.root)
	return t, errors.Join(errs...)
}
