package window

import (
	"fmt"

	"github.com/dshills/splitpad/internal/engine/buffer"
)

// Viewer is an editor view living in a pane.
type Viewer interface {
	// Resize gives the view its new area.
	Resize(area Area)
	// Close detaches the view from its buffer. The view is not used again.
	Close()
	// BufferID returns the buffer the view shows.
	BufferID() buffer.ID
	// Path returns the path of the view's buffer, or "" for a scratch buffer.
	Path() string
	// Cursor returns the logical cursor position.
	Cursor() buffer.Position
	// SetCursor moves the cursor, clamping it into the buffer.
	SetCursor(pos buffer.Position)
}

// ViewFactory creates views for new panes.
type ViewFactory interface {
	// NewView creates a view of buffer id in area. buffer.NoID asks for a
	// fresh scratch buffer.
	NewView(id buffer.ID, area Area) (Viewer, error)
}

// NodeID addresses a node in a tab's arena.
type NodeID int

// NoNode is the parent of the root.
const NoNode NodeID = -1

// Kind is the variant of a node.
type Kind int

const (
	KindEditor Kind = iota
	KindHorizontalSplit
	KindVerticalSplit
)

// String returns the kind name used in persisted layouts.
func (k Kind) String() string {
	switch k {
	case KindEditor:
		return "editor"
	case KindHorizontalSplit:
		return "hsplit"
	case KindVerticalSplit:
		return "vsplit"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind parses a name produced by Kind.String.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "editor":
		return KindEditor, nil
	case "hsplit":
		return KindHorizontalSplit, nil
	case "vsplit":
		return KindVerticalSplit, nil
	default:
		return 0, fmt.Errorf("%w: unknown node kind %q", ErrMalformedLayout, s)
	}
}

func splitKind(o Orientation) Kind {
	if o == Horizontal {
		return KindHorizontalSplit
	}
	return KindVerticalSplit
}

func (k Kind) orientation() Orientation {
	if k == KindVerticalSplit {
		return Vertical
	}
	return Horizontal
}

type node struct {
	live     bool
	kind     Kind
	area     Area
	parent   NodeID
	children [2]NodeID
	view     Viewer

	// size of the first child along the split axis
	offset  int
	divider int
	// set once the user moved the divider; halving no longer applies
	resized bool
}

// Defaults for pane limits.
const (
	DefaultMaxPanes  = 16
	DefaultMinWidth  = 8
	DefaultMinHeight = 3
)

// Option configures a Tab.
type Option func(*Tab)

// WithMaxPanes limits the number of panes in a tab.
func WithMaxPanes(n int) Option {
	return func(t *Tab) {
		if n > 0 {
			t.maxPanes = n
		}
	}
}

// WithMinSize sets the smallest pane a split or resize may produce.
func WithMinSize(width, height int) Option {
	return func(t *Tab) {
		if width > 0 {
			t.minWidth = width
		}
		if height > 0 {
			t.minHeight = height
		}
	}
}

// Tab owns one pane tree and tracks its active pane.
type Tab struct {
	nodes  []node
	free   []NodeID
	root   NodeID
	active NodeID

	factory   ViewFactory
	maxPanes  int
	minWidth  int
	minHeight int
}

// NewTab creates a tab with a single pane showing buffer id
// (buffer.NoID for a fresh scratch buffer).
func NewTab(area Area, factory ViewFactory, id buffer.ID, opts ...Option) (*Tab, error) {
	t := &Tab{
		factory:   factory,
		maxPanes:  DefaultMaxPanes,
		minWidth:  DefaultMinWidth,
		minHeight: DefaultMinHeight,
	}
	for _, opt := range opts {
		opt(t)
	}
	v, err := factory.NewView(id, area)
	if err != nil {
		return nil, err
	}
	t.root = t.alloc(node{kind: KindEditor, area: area, parent: NoNode, view: v})
	t.active = t.root
	return t, nil
}

func (t *Tab) alloc(n node) NodeID {
	n.live = true
	if len(t.free) > 0 {
		id := t.free[len(t.free)-1]
		t.free = t.free[:len(t.free)-1]
		t.nodes[id] = n
		return id
	}
	t.nodes = append(t.nodes, n)
	return NodeID(len(t.nodes) - 1)
}

func (t *Tab) release(id NodeID) {
	t.nodes[id] = node{}
	t.free = append(t.free, id)
}

func (t *Tab) valid(id NodeID) bool {
	return id >= 0 && int(id) < len(t.nodes) && t.nodes[id].live
}

func (t *Tab) leaf(id NodeID) (*node, error) {
	if !t.valid(id) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidNode, id)
	}
	n := &t.nodes[id]
	if n.kind != KindEditor {
		return nil, fmt.Errorf("%w: %d", ErrNotLeaf, id)
	}
	return n, nil
}

// Root returns the root node.
func (t *Tab) Root() NodeID { return t.root }

// Active returns the active pane.
func (t *Tab) Active() NodeID { return t.active }

// SetActive makes leaf the active pane.
func (t *Tab) SetActive(leaf NodeID) error {
	if _, err := t.leaf(leaf); err != nil {
		return err
	}
	t.active = leaf
	return nil
}

// ActiveView returns the view of the active pane.
func (t *Tab) ActiveView() Viewer {
	return t.nodes[t.active].view
}

// Area returns the area of the whole tab.
func (t *Tab) Area() Area { return t.nodes[t.root].area }

// NodeArea returns the area of a node.
func (t *Tab) NodeArea(id NodeID) Area {
	if !t.valid(id) {
		return Area{}
	}
	return t.nodes[id].area
}

// Kind returns the variant of a node.
func (t *Tab) Kind(id NodeID) Kind {
	return t.nodes[id].kind
}

// View returns the view of a leaf, or nil for a split node.
func (t *Tab) View(id NodeID) Viewer {
	if !t.valid(id) {
		return nil
	}
	return t.nodes[id].view
}

// Parent returns the parent of a node, NoNode for the root.
func (t *Tab) Parent(id NodeID) NodeID {
	return t.nodes[id].parent
}

// Children returns the two children of a split node.
func (t *Tab) Children(id NodeID) (NodeID, NodeID) {
	c := t.nodes[id].children
	return c[0], c[1]
}

// Divider returns the divider coordinate of a split node: an x for a
// horizontal split, a y for a vertical one.
func (t *Tab) Divider(id NodeID) (Orientation, int, bool) {
	if !t.valid(id) || t.nodes[id].kind == KindEditor {
		return 0, 0, false
	}
	n := t.nodes[id]
	return n.kind.orientation(), n.divider, true
}

// Leaves returns the panes from first (leftmost, topmost) to last.
func (t *Tab) Leaves() []NodeID {
	var out []NodeID
	t.walk(t.root, func(id NodeID) {
		if t.nodes[id].kind == KindEditor {
			out = append(out, id)
		}
	})
	return out
}

// Splits returns the split nodes in preorder.
func (t *Tab) Splits() []NodeID {
	var out []NodeID
	t.walk(t.root, func(id NodeID) {
		if t.nodes[id].kind != KindEditor {
			out = append(out, id)
		}
	})
	return out
}

// Views returns the views of all panes in order.
func (t *Tab) Views() []Viewer {
	leaves := t.Leaves()
	out := make([]Viewer, len(leaves))
	for i, id := range leaves {
		out[i] = t.nodes[id].view
	}
	return out
}

// PaneCount returns the number of panes.
func (t *Tab) PaneCount() int {
	return len(t.Leaves())
}

// Find returns the pane showing v.
func (t *Tab) Find(v Viewer) (NodeID, bool) {
	for _, id := range t.Leaves() {
		if t.nodes[id].view == v {
			return id, true
		}
	}
	return NoNode, false
}

// walk visits id and its descendants in preorder.
func (t *Tab) walk(id NodeID, fn func(NodeID)) {
	fn(id)
	if t.nodes[id].kind != KindEditor {
		t.walk(t.nodes[id].children[0], fn)
		t.walk(t.nodes[id].children[1], fn)
	}
}

func (t *Tab) first(id NodeID) NodeID {
	for t.nodes[id].kind != KindEditor {
		id = t.nodes[id].children[0]
	}
	return id
}

func (t *Tab) last(id NodeID) NodeID {
	for t.nodes[id].kind != KindEditor {
		id = t.nodes[id].children[1]
	}
	return id
}

// Close closes every view in the tab.
func (t *Tab) Close() {
	for _, v := range t.Views() {
		v.Close()
	}
}
