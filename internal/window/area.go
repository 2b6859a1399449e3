package window

import "fmt"

// Orientation is the direction a split divides its area.
type Orientation int

const (
	// Horizontal places the children side by side, separated by a divider column.
	Horizontal Orientation = iota
	// Vertical stacks the children, separated by a divider row.
	Vertical
)

// String returns the orientation name.
func (o Orientation) String() string {
	switch o {
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	default:
		return fmt.Sprintf("Orientation(%d)", int(o))
	}
}

// Area is a screen rectangle.
type Area struct {
	Y, X          int
	Height, Width int
}

// String returns a human-readable representation of the area.
func (a Area) String() string {
	return fmt.Sprintf("%dx%d@(%d,%d)", a.Width, a.Height, a.X, a.Y)
}

// Size returns the extent of a along the axis o divides.
func (a Area) Size(o Orientation) int {
	if o == Horizontal {
		return a.Width
	}
	return a.Height
}

// Contains returns true if the cell (y, x) lies inside a.
func (a Area) Contains(y, x int) bool {
	return y >= a.Y && y < a.Y+a.Height && x >= a.X && x < a.X+a.Width
}

// IsEmpty returns true if a has no cells.
func (a Area) IsEmpty() bool {
	return a.Width <= 0 || a.Height <= 0
}

// SplitHorizontally divides a into left and right halves separated by one
// divider column. The right half receives the odd column: the widths are
// (w-1)/2 and w-1-(w-1)/2. The divider's x coordinate is returned.
func (a Area) SplitHorizontally() (Area, Area, int) {
	return a.SplitAt(Horizontal, (a.Width-1)/2)
}

// SplitVertically divides a into top and bottom halves separated by one
// divider row, the bottom half receiving the odd row. The divider's y
// coordinate is returned.
func (a Area) SplitVertically() (Area, Area, int) {
	return a.SplitAt(Vertical, (a.Height-1)/2)
}

// SplitAt divides a along o giving the first part size cells, then one
// divider, then the rest. size is clamped into the available extent.
func (a Area) SplitAt(o Orientation, size int) (first, second Area, divider int) {
	extent := a.Size(o)
	if extent < 1 {
		size = 0
	} else {
		size = max(0, min(size, extent-1))
	}
	rest := max(extent-1-size, 0)

	first, second = a, a
	if o == Horizontal {
		first.Width = size
		second.X = a.X + size + 1
		second.Width = rest
		return first, second, a.X + size
	}
	first.Height = size
	second.Y = a.Y + size + 1
	second.Height = rest
	return first, second, a.Y + size
}
