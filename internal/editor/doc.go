// Package editor implements the editing view shown in every pane.
//
// A View holds a buffer id, a cursor and a scroll position. It never owns
// its buffer: the buffer is looked up in the store on every use, so a
// merge that rebinds the view to another buffer takes effect at once.
// Several views may show the same buffer; each keeps its own cursor.
//
// The view draws its text area with soft wrapping, a line number gutter
// on the left and a status line on its last row. The rows of the cursor's
// logical line form the active block and are marked in the gutter of the
// focused pane.
//
// Factory creates views for the pane tree and disposes of scratch buffers
// nobody shows any more.
package editor
