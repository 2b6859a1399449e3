package backend

// Color is a terminal palette color. The zero value is the terminal default.
type Color int

const ColorDefault Color = 0

// Palette returns the color for a 256-color palette index.
func Palette(index int) Color {
	return Color(index + 1)
}

// Standard ANSI colors.
var (
	ColorBlack   = Palette(0)
	ColorRed     = Palette(1)
	ColorGreen   = Palette(2)
	ColorYellow  = Palette(3)
	ColorBlue    = Palette(4)
	ColorMagenta = Palette(5)
	ColorCyan    = Palette(6)
	ColorWhite   = Palette(7)
	ColorGray    = Palette(8)
)

// Index returns the palette index, or -1 for the default color.
func (c Color) Index() int {
	return int(c) - 1
}

// Attribute is a set of text attributes.
type Attribute uint8

const (
	AttrNone Attribute = 0
	AttrBold Attribute = 1 << iota
	AttrDim
	AttrReverse
	AttrUnderline
)

// Style is the foreground, background and attributes of a cell.
type Style struct {
	Fg    Color
	Bg    Color
	Attrs Attribute
}

// StyleDefault draws with the terminal's own colors.
var StyleDefault = Style{}

func (s Style) Foreground(c Color) Style {
	s.Fg = c
	return s
}

func (s Style) Background(c Color) Style {
	s.Bg = c
	return s
}

func (s Style) Bold() Style {
	s.Attrs |= AttrBold
	return s
}

func (s Style) Dim() Style {
	s.Attrs |= AttrDim
	return s
}

func (s Style) Reverse() Style {
	s.Attrs |= AttrReverse
	return s
}

func (s Style) Underline() Style {
	s.Attrs |= AttrUnderline
	return s
}

// Has reports whether every attribute in a is set.
func (s Style) Has(a Attribute) bool {
	return s.Attrs&a == a
}
