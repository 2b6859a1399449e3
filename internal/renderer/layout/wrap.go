package layout

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// WrapMode selects how lines wider than the pane are displayed.
type WrapMode int

const (
	// WrapOff shows each logical line on exactly one row.
	WrapOff WrapMode = iota
	// WrapWords wraps at separators and never splits a token.
	WrapWords
	// WrapChars wraps at separators but splits tokens longer than the width.
	WrapChars
)

// String returns the configuration name of the mode.
func (m WrapMode) String() string {
	switch m {
	case WrapOff:
		return "off"
	case WrapWords:
		return "words"
	case WrapChars:
		return "chars"
	default:
		return fmt.Sprintf("WrapMode(%d)", int(m))
	}
}

// ParseWrapMode parses "off", "words" or "chars".
func ParseWrapMode(s string) (WrapMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "off", "none", "":
		return WrapOff, nil
	case "words", "word", "on":
		return WrapWords, nil
	case "chars", "char":
		return WrapChars, nil
	default:
		return WrapOff, fmt.Errorf("unknown wrap mode %q", s)
	}
}

// separators are the characters a line may be wrapped after.
const separators = " \t.,;:!?-/\\|()[]{}<>\"'`=+*&^%$#@~"

// IsSeparator returns true if r is a wrap separator.
func IsSeparator(r rune) bool {
	return strings.ContainsRune(separators, r)
}

// SoftWrap splits text into sublines of at most width characters,
// preferring cuts after separators. An empty text yields one empty
// subline. A width below 1 is treated as 1.
func SoftWrap(text string, width int, breakWords bool) []string {
	if width < 1 {
		width = 1
	}
	if utf8.RuneCountInString(text) <= width {
		return []string{text}
	}

	r := []rune(text)
	var out []string
	for len(r) > width {
		cut := wrapPoint(r, width, breakWords)
		out = append(out, string(r[:cut]))
		r = r[cut:]
	}
	if len(r) > 0 {
		out = append(out, string(r))
	}
	return out
}

// wrapPoint returns the length of the next subline of r, len(r) > width.
func wrapPoint(r []rune, width int, breakWords bool) int {
	if IsSeparator(r[width]) || IsSeparator(r[width-1]) {
		return width
	}
	for i := width - 2; i >= 0; i-- {
		if IsSeparator(r[i]) {
			return i + 1
		}
	}
	if breakWords {
		return width
	}
	for i := width + 1; i < len(r); i++ {
		if IsSeparator(r[i]) {
			return i + 1
		}
	}
	return len(r)
}

// Wrap applies mode to line. WrapOff returns the line unchanged.
func Wrap(line string, width int, mode WrapMode) []string {
	switch mode {
	case WrapWords:
		return SoftWrap(line, width, false)
	case WrapChars:
		return SoftWrap(line, width, true)
	default:
		return []string{line}
	}
}

// RowCount returns how many visual rows line occupies.
func RowCount(line string, width int, mode WrapMode) int {
	if mode == WrapOff {
		return 1
	}
	return len(Wrap(line, width, mode))
}
