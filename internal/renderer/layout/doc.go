// Package layout maps logical buffer lines onto the wrapped visual grid.
//
// Everything here is a pure function of its inputs: a line (or slice of
// lines), a pane width and a wrap mode. Nothing is cached; views call
// these on every render.
//
// # Soft wrap
//
// SoftWrap splits one logical line into sublines no longer than the pane
// width where possible. Cut points prefer separators (spaces and
// punctuation):
//
//  1. If the character just after the candidate slice, or the slice's
//     last character, is a separator, cut at the width.
//  2. Otherwise cut just after the last separator inside the slice.
//  3. Otherwise the slice is one long token. With breakWords it is cut at
//     the width; without, the subline runs on to just past the next
//     separator (or the end of the line).
//
// Wrapping is lossless: the sublines concatenate to the original line.
// Lengths are counted in characters (runes). Tabs count as one character
// here even though they paint wider; DisplayWidth handles the painted
// width separately.
//
// # Coordinates
//
// Views keep a running total of visual rows per logical line (see
// CumLengths). WrappedCursor, RenderedPosition, LineNumberForRow and
// IsWithinActiveBlock translate between logical positions and visual rows
// using that table.
package layout
