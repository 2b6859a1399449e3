package window

import (
	"fmt"

	"github.com/dshills/splitpad/internal/engine/buffer"
)

// SplitHorizontally divides leaf into two side-by-side panes. The existing
// view moves to the left pane; a new view of buffer id (buffer.NoID for a
// fresh scratch buffer) fills the right pane, which becomes active and is
// returned.
func (t *Tab) SplitHorizontally(leaf NodeID, id buffer.ID) (NodeID, error) {
	return t.split(leaf, Horizontal, id, true)
}

// SplitVertically divides leaf into two stacked panes, the new view below.
func (t *Tab) SplitVertically(leaf NodeID, id buffer.ID) (NodeID, error) {
	return t.split(leaf, Vertical, id, true)
}

// Split divides leaf along o.
func (t *Tab) Split(leaf NodeID, o Orientation, id buffer.ID) (NodeID, error) {
	return t.split(leaf, o, id, true)
}

func (t *Tab) split(leaf NodeID, o Orientation, id buffer.ID, enforceMin bool) (NodeID, error) {
	n, err := t.leaf(leaf)
	if err != nil {
		return NoNode, err
	}
	if t.PaneCount() >= t.maxPanes {
		return NoNode, fmt.Errorf("%w: limit is %d", ErrTooManyPanes, t.maxPanes)
	}

	area := n.area
	size := (area.Size(o) - 1) / 2
	first, second, divider := area.SplitAt(o, size)
	if enforceMin && (first.Size(o) < t.minSize(o) || second.Size(o) < t.minSize(o)) {
		return NoNode, fmt.Errorf("%w: %s", ErrAreaTooSmall, area)
	}

	v, err := t.factory.NewView(id, second)
	if err != nil {
		return NoNode, err
	}

	old := n.view
	old.Resize(first)
	c1 := t.alloc(node{kind: KindEditor, area: first, parent: leaf, view: old})
	c2 := t.alloc(node{kind: KindEditor, area: second, parent: leaf, view: v})

	// alloc may have grown the arena
	n = &t.nodes[leaf]
	n.kind = splitKind(o)
	n.view = nil
	n.children = [2]NodeID{c1, c2}
	n.offset = size
	n.divider = divider
	n.resized = false

	t.active = c2
	return c2, nil
}

func (t *Tab) minSize(o Orientation) int {
	if o == Horizontal {
		return t.minWidth
	}
	return t.minHeight
}

// MergeHorizontally closes leaf and gives its area to its sibling in a
// horizontal split. The sibling (a pane or a whole subtree) takes over
// the parent's area. The pane that should receive focus is returned.
func (t *Tab) MergeHorizontally(leaf NodeID) (NodeID, error) {
	return t.merge(leaf, KindHorizontalSplit)
}

// MergeVertically is MergeHorizontally for a vertical split.
func (t *Tab) MergeVertically(leaf NodeID) (NodeID, error) {
	return t.merge(leaf, KindVerticalSplit)
}

// ClosePane closes leaf whatever the orientation of its parent split.
// The last pane of a tab cannot be closed this way.
func (t *Tab) ClosePane(leaf NodeID) (NodeID, error) {
	return t.merge(leaf, -1)
}

// merge collapses the parent of leaf. want is the required parent kind,
// or -1 for any.
func (t *Tab) merge(leaf NodeID, want Kind) (NodeID, error) {
	n, err := t.leaf(leaf)
	if err != nil {
		return NoNode, err
	}
	pid := n.parent
	if pid == NoNode {
		return NoNode, ErrNoSibling
	}
	p := &t.nodes[pid]
	if want >= 0 && p.kind != want {
		return NoNode, fmt.Errorf("%w: parent is a %s", ErrNoSibling, p.kind)
	}

	sid := p.children[0]
	if sid == leaf {
		sid = p.children[1]
	}
	s := t.nodes[sid]

	n.view.Close()

	p.kind = s.kind
	p.view = s.view
	p.children = s.children
	p.offset = s.offset
	p.resized = s.resized
	if s.kind != KindEditor {
		for _, c := range s.children {
			t.nodes[c].parent = pid
		}
	}
	t.release(leaf)
	t.release(sid)

	// lay out from the sibling's old extent so a user-set divider scales
	area := p.area
	p.area = s.area
	t.layout(pid, area)

	focus := t.first(pid)
	if !t.valid(t.active) || t.nodes[t.active].kind != KindEditor {
		t.active = focus
	}
	return focus, nil
}

// Successor returns the pane after leaf, wrapping to the first pane.
func (t *Tab) Successor(leaf NodeID) NodeID {
	cur := leaf
	for {
		pid := t.nodes[cur].parent
		if pid == NoNode {
			return t.first(t.root)
		}
		if t.nodes[pid].children[0] == cur {
			return t.first(t.nodes[pid].children[1])
		}
		cur = pid
	}
}

// Predecessor returns the pane before leaf, wrapping to the last pane.
func (t *Tab) Predecessor(leaf NodeID) NodeID {
	cur := leaf
	for {
		pid := t.nodes[cur].parent
		if pid == NoNode {
			return t.last(t.root)
		}
		if t.nodes[pid].children[1] == cur {
			return t.last(t.nodes[pid].children[0])
		}
		cur = pid
	}
}

// FocusNext activates the successor of the active pane.
func (t *Tab) FocusNext() NodeID {
	t.active = t.Successor(t.active)
	return t.active
}

// FocusPrev activates the predecessor of the active pane.
func (t *Tab) FocusPrev() NodeID {
	t.active = t.Predecessor(t.active)
	return t.active
}

// Readjust lays the whole tree out in area, top-down.
func (t *Tab) Readjust(area Area) {
	t.layout(t.root, area)
}

func (t *Tab) layout(id NodeID, area Area) {
	n := &t.nodes[id]
	old := n.area
	n.area = area
	if n.kind == KindEditor {
		n.view.Resize(area)
		return
	}

	o := n.kind.orientation()
	size := (area.Size(o) - 1) / 2
	if n.resized {
		size = t.scaleOffset(n.offset, old.Size(o), area.Size(o), o)
	}
	first, second, divider := area.SplitAt(o, size)
	n.offset = first.Size(o)
	n.divider = divider

	c := n.children
	t.layout(c[0], first)
	t.layout(c[1], second)
}

// scaleOffset keeps a user-set divider at the same proportion when the
// split's extent changes.
func (t *Tab) scaleOffset(offset, oldExtent, newExtent int, o Orientation) int {
	if oldExtent > 1 && oldExtent != newExtent {
		offset = (offset*(newExtent-1) + (oldExtent-1)/2) / (oldExtent - 1)
	}
	return t.clampOffset(offset, newExtent, o)
}

func (t *Tab) clampOffset(offset, extent int, o Orientation) int {
	lo := t.minSize(o)
	hi := extent - 1 - t.minSize(o)
	if hi < lo {
		return (extent - 1) / 2
	}
	return max(lo, min(offset, hi))
}

// Resize moves the divider of the nearest enclosing split of orientation
// o so that leaf's side grows by delta cells (shrinks for negative delta).
// Both sides keep at least the minimum pane size.
func (t *Tab) Resize(leaf NodeID, o Orientation, delta int) error {
	if _, err := t.leaf(leaf); err != nil {
		return err
	}
	want := splitKind(o)
	cur := leaf
	for {
		pid := t.nodes[cur].parent
		if pid == NoNode {
			return fmt.Errorf("%w: %s", ErrNoSplit, o)
		}
		p := &t.nodes[pid]
		if p.kind != want {
			cur = pid
			continue
		}
		if p.children[1] == cur {
			delta = -delta
		}
		p.offset = t.clampOffset(p.offset+delta, p.area.Size(o), o)
		p.resized = true
		t.layout(pid, p.area)
		return nil
	}
}

// Equalize discards every user-set divider and lays the tree out again.
func (t *Tab) Equalize() {
	t.walk(t.root, func(id NodeID) {
		t.nodes[id].resized = false
	})
	t.Readjust(t.Area())
}
