package renderer

import "github.com/dshills/splitpad/internal/renderer/backend"

// Theme holds the styles used for each part of the screen.
type Theme struct {
	Text         backend.Style
	Gutter       backend.Style
	GutterActive backend.Style
	ActiveBlock  backend.Style
	Status       backend.Style
	StatusActive backend.Style
	Divider      backend.Style
	TabBar       backend.Style
	TabActive    backend.Style
	Message      backend.Style
	Error        backend.Style
}

// DefaultTheme returns the built-in color scheme.
func DefaultTheme() Theme {
	return Theme{
		Text:         backend.StyleDefault,
		Gutter:       backend.StyleDefault.Foreground(backend.ColorGray),
		GutterActive: backend.StyleDefault.Foreground(backend.ColorYellow),
		ActiveBlock:  backend.StyleDefault.Foreground(backend.ColorGray).Dim(),
		Status:       backend.StyleDefault.Reverse().Dim(),
		StatusActive: backend.StyleDefault.Reverse().Bold(),
		Divider:      backend.StyleDefault.Foreground(backend.ColorGray),
		TabBar:       backend.StyleDefault.Reverse().Dim(),
		TabActive:    backend.StyleDefault.Bold().Underline(),
		Message:      backend.StyleDefault,
		Error:        backend.StyleDefault.Foreground(backend.ColorRed).Bold(),
	}
}
