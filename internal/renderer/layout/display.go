package layout

import (
	"strings"

	"github.com/rivo/uniseg"
)

// DefaultTabWidth is used when a tab width below 1 is configured.
const DefaultTabWidth = 4

// Glyph is one painted cluster of a subline.
type Glyph struct {
	Text  string // grapheme cluster, or spaces for an expanded tab
	Runes int    // logical characters consumed
	Width int    // terminal cells occupied
	Tab   bool
}

// Glyphs splits s into grapheme clusters with their on-screen widths.
// Tabs expand to the next multiple of tabWidth measured from startCol,
// the display column s begins at.
func Glyphs(s string, startCol, tabWidth int) []Glyph {
	if tabWidth < 1 {
		tabWidth = DefaultTabWidth
	}
	var out []Glyph
	col := startCol
	state := -1
	rest := s
	for len(rest) > 0 {
		var cluster string
		var width int
		cluster, rest, width, state = uniseg.FirstGraphemeClusterInString(rest, state)
		if cluster == "\t" {
			n := tabWidth - col%tabWidth
			out = append(out, Glyph{Text: strings.Repeat(" ", n), Runes: 1, Width: n, Tab: true})
			col += n
			continue
		}
		runes := 0
		for range cluster {
			runes++
		}
		out = append(out, Glyph{Text: cluster, Runes: runes, Width: width})
		col += width
	}
	return out
}

// DisplayWidth returns the painted width of s starting at column 0.
func DisplayWidth(s string, tabWidth int) int {
	w := 0
	for _, g := range Glyphs(s, 0, tabWidth) {
		w += g.Width
	}
	return w
}

// DisplayColumn returns the painted column of logical column col in s.
// A column inside a multi-rune cluster maps to the cluster's start.
func DisplayColumn(s string, col, tabWidth int) int {
	w, consumed := 0, 0
	for _, g := range Glyphs(s, 0, tabWidth) {
		if consumed+g.Runes > col {
			return w
		}
		consumed += g.Runes
		w += g.Width
	}
	return w + (col - consumed)
}
