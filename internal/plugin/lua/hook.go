package lua

import (
	"fmt"
	"slices"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/splitpad/internal/engine/buffer"
)

// HookBeforeSave is the function a script defines to edit buffers before
// they are written.
const HookBeforeSave = "before_save"

const bufferTypeName = "splitpad.buffer"

// FileSystem reads hook scripts.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
}

// Hooks is a loaded hook script.
type Hooks struct {
	state  *State
	script string
}

// LoadHooks reads and runs the script at path. The script must define at
// least one known hook function.
func LoadHooks(fsys FileSystem, path string, opts ...StateOption) (*Hooks, error) {
	code, err := fsys.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading hook script: %w", err)
	}
	s := NewState(opts...)
	registerBufferType(s.L)
	if err := s.DoChunk(path, code); err != nil {
		s.Close()
		return nil, &ScriptError{Script: path, Err: err}
	}
	if !s.HasFunction(HookBeforeSave) {
		s.Close()
		return nil, &ScriptError{Script: path, Err: ErrNoHook}
	}
	return &Hooks{state: s, script: path}, nil
}

// Script returns the path the hooks were loaded from.
func (h *Hooks) Script() string { return h.script }

// BeforeSave runs before_save on b. Line changes made by the script are
// applied to b as a single undoable edit; cursor is the position recorded
// with that edit. It reports whether the buffer changed. On error b is
// left untouched.
func (h *Hooks) BeforeSave(b *buffer.Buffer, cursor buffer.Position) (bool, error) {
	handle := &bufferHandle{path: b.Path(), lines: b.Lines()}
	ud := h.state.L.NewUserData()
	ud.Value = handle
	h.state.L.SetMetatable(ud, h.state.L.GetTypeMetatable(bufferTypeName))

	if _, err := h.state.Call(HookBeforeSave, ud); err != nil {
		return false, &ScriptError{Script: h.script, Hook: HookBeforeSave, Err: err}
	}
	if !handle.dirty {
		return false, nil
	}
	lines := splitLines(handle.lines)
	if slices.Equal(lines, b.Lines()) {
		return false, nil
	}
	return true, b.SetLines(lines, cursor, nil)
}

// splitLines breaks script lines containing newlines into separate lines.
func splitLines(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		out = append(out, strings.Split(line, "\n")...)
	}
	return out
}

// Close releases the script's Lua state.
func (h *Hooks) Close() error {
	return h.state.Close()
}

// bufferHandle is the working copy of a buffer a script edits.
type bufferHandle struct {
	path  string
	lines []string
	dirty bool
}

func registerBufferType(L *lua.LState) {
	mt := L.NewTypeMetatable(bufferTypeName)
	L.SetField(mt, "__index", L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"line_count": bufLineCount,
		"line":       bufLine,
		"set_line":   bufSetLine,
		"lines":      bufLines,
		"set_lines":  bufSetLines,
		"path":       bufPath,
	}))
}

func checkBuffer(L *lua.LState) *bufferHandle {
	ud := L.CheckUserData(1)
	if h, ok := ud.Value.(*bufferHandle); ok {
		return h
	}
	L.ArgError(1, "buffer expected")
	return nil
}

// checkLine returns the 0-based index of the 1-based line argument.
func checkLine(L *lua.LState, h *bufferHandle) int {
	n := L.CheckInt(2)
	if n < 1 || n > len(h.lines) {
		L.ArgError(2, fmt.Sprintf("line %d out of range 1..%d", n, len(h.lines)))
	}
	return n - 1
}

func bufLineCount(L *lua.LState) int {
	L.Push(lua.LNumber(len(checkBuffer(L).lines)))
	return 1
}

func bufLine(L *lua.LState) int {
	h := checkBuffer(L)
	L.Push(lua.LString(h.lines[checkLine(L, h)]))
	return 1
}

func bufSetLine(L *lua.LState) int {
	h := checkBuffer(L)
	i := checkLine(L, h)
	h.lines[i] = L.CheckString(3)
	h.dirty = true
	return 0
}

func bufLines(L *lua.LState) int {
	h := checkBuffer(L)
	t := L.CreateTable(len(h.lines), 0)
	for _, line := range h.lines {
		t.Append(lua.LString(line))
	}
	L.Push(t)
	return 1
}

func bufSetLines(L *lua.LState) int {
	h := checkBuffer(L)
	t := L.CheckTable(2)
	lines := make([]string, 0, t.Len())
	for i := 1; i <= t.Len(); i++ {
		v := t.RawGetInt(i)
		s, ok := v.(lua.LString)
		if !ok {
			L.ArgError(2, fmt.Sprintf("line %d is a %s, not a string", i, v.Type()))
		}
		lines = append(lines, string(s))
	}
	if len(lines) == 0 {
		lines = []string{""}
	}
	h.lines = lines
	h.dirty = true
	return 0
}

func bufPath(L *lua.LState) int {
	L.Push(lua.LString(checkBuffer(L).path))
	return 1
}
