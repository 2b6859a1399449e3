// Package renderer paints a window.TopLevel onto a backend.
//
// Each frame draws the tab bar on the first screen row, every pane of the
// active tab, the dividers between panes and the message line on the last
// row. Panes draw themselves through the Pane interface onto a Surface
// clipped to their area; the renderer only owns the chrome around them.
//
//	backend, _ := backend.NewTerminal()
//	r := renderer.New(backend)
//	r.Render(top)
package renderer
