// Package window lays editor panes out on the screen.
//
// A Tab holds a binary tree of nodes. Leaves hold one editor view each;
// split nodes divide their area between two children, side by side
// (Horizontal, with a one-column divider) or stacked (Vertical, with a
// one-row divider). Splitting a leaf turns it into a split node in place;
// merging collapses a split back into a leaf holding the sibling's view.
//
// Nodes live in an arena owned by the Tab and are addressed by NodeID.
// Parent links are plain ids used for upward navigation (resize bubbling,
// successor and predecessor walks); ownership always runs from a split to
// its two children.
//
// A TopLevel holds the ordered list of tabs and the active tab.
//
// Layouts persist as a preorder list of node kinds plus one optional
// record per leaf (see Layout); Restore replays the splits to rebuild an
// isomorphic tree.
package window
