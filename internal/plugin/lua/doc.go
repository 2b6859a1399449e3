// Package lua runs user scripts that hook into buffer events.
//
// Scripts execute in a sandboxed gopher-lua state: only the base, table,
// string and math libraries are opened, and dofile, loadfile, load,
// loadstring and require are removed. Each call runs under a timeout.
//
// # Hooks
//
// A hook script defines global functions named after events. The only
// event is before_save, called with a buffer handle just before the
// buffer is written:
//
//	function before_save(buf)
//	    for i = 1, buf:line_count() do
//	        buf:set_line(i, (buf:line(i):gsub("%s+$", "")))
//	    end
//	end
//
// The handle offers line_count(), line(i), set_line(i, s), lines(),
// set_lines(t) and path(). Line numbers are 1-based. Changes are applied
// to the buffer as one undoable edit after the function returns.
package lua
