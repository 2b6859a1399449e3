package window

import "errors"

// Errors returned by pane tree operations. Any operation returning one of
// these leaves the tree unchanged.
var (
	// ErrNoSibling indicates a merge was requested where no sibling pane
	// exists in that direction (for example on the root).
	ErrNoSibling = errors.New("no sibling pane")

	// ErrTooManyPanes indicates a split beyond the pane limit.
	ErrTooManyPanes = errors.New("too many panes")

	// ErrAreaTooSmall indicates a split would leave a pane below the minimum size.
	ErrAreaTooSmall = errors.New("area too small to split")

	// ErrNoSplit indicates a resize with no enclosing split of that orientation.
	ErrNoSplit = errors.New("no split to resize")

	// ErrNotLeaf indicates an editor operation on a split node.
	ErrNotLeaf = errors.New("node is not an editor pane")

	// ErrInvalidNode indicates an id that names no live node.
	ErrInvalidNode = errors.New("invalid node")

	// ErrMalformedLayout indicates a persisted layout that does not describe a tree.
	ErrMalformedLayout = errors.New("malformed layout")

	// ErrLastTab indicates an attempt to close the only tab.
	ErrLastTab = errors.New("cannot close the last tab")
)
