// Package session persists the pane layout of every tab between runs.
//
// The session file is JSON:
//
//	{
//	  "version": 1,
//	  "active": 0,
//	  "tabs": [
//	    {"kinds": ["hsplit", "editor", "editor"],
//	     "leaves": [{"path": "/src/a.go", "line": 3, "column": 0}, null]}
//	  ]
//	}
//
// A null leaf is a pane that showed a scratch buffer or a file outside
// the project root; it is restored as a scratch pane.
package session

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strconv"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/dshills/splitpad/internal/project/vfs"
	"github.com/dshills/splitpad/internal/window"
)

// Version is the session file format version.
const Version = 1

// Errors returned by session operations.
var (
	// ErrNoSession indicates no session file exists.
	ErrNoSession = errors.New("no session")

	// ErrMalformed indicates the session file cannot be understood.
	ErrMalformed = errors.New("malformed session")
)

// Session is the persisted state of the window.
type Session struct {
	Active int
	Tabs   []window.Layout
}

// Capture records the layout of every tab in top. Only files under
// projectRoot are recorded; an empty root records every file.
func Capture(top *window.TopLevel, projectRoot string) Session {
	return Session{Active: top.ActiveIndex(), Tabs: top.Serialize(projectRoot)}
}

// Encode renders s as JSON.
func Encode(s Session) ([]byte, error) {
	doc := []byte("{}")
	var err error
	set := func(path string, value any) {
		if err == nil {
			doc, err = sjson.SetBytes(doc, path, value)
		}
	}

	set("version", Version)
	set("active", s.Active)
	set("tabs", []any{})
	for i, l := range s.Tabs {
		prefix := "tabs." + strconv.Itoa(i)
		kinds := make([]string, len(l.Kinds))
		for j, k := range l.Kinds {
			kinds[j] = k.String()
		}
		set(prefix+".kinds", kinds)
		set(prefix+".leaves", []any{})
		for j, leaf := range l.Leaves {
			path := prefix + ".leaves." + strconv.Itoa(j)
			if leaf == nil {
				set(path, nil)
				continue
			}
			set(path, map[string]any{"path": leaf.Path, "line": leaf.Line, "column": leaf.Column})
		}
	}
	if err != nil {
		return nil, fmt.Errorf("encoding session: %w", err)
	}
	return doc, nil
}

// Decode parses a session produced by Encode.
func Decode(data []byte) (Session, error) {
	if !gjson.ValidBytes(data) {
		return Session{}, fmt.Errorf("%w: invalid JSON", ErrMalformed)
	}
	root := gjson.ParseBytes(data)
	if v := root.Get("version").Int(); v != Version {
		return Session{}, fmt.Errorf("%w: unsupported version %d", ErrMalformed, v)
	}

	s := Session{Active: int(root.Get("active").Int())}
	tabs := root.Get("tabs")
	if !tabs.IsArray() {
		return Session{}, fmt.Errorf("%w: tabs is not an array", ErrMalformed)
	}
	for i, tab := range tabs.Array() {
		l, err := decodeLayout(tab)
		if err != nil {
			return Session{}, fmt.Errorf("%w: tab %d: %v", ErrMalformed, i, err)
		}
		s.Tabs = append(s.Tabs, l)
	}
	return s, nil
}

func decodeLayout(tab gjson.Result) (window.Layout, error) {
	var l window.Layout
	for _, k := range tab.Get("kinds").Array() {
		kind, err := window.ParseKind(k.String())
		if err != nil {
			return l, err
		}
		l.Kinds = append(l.Kinds, kind)
	}
	for _, leaf := range tab.Get("leaves").Array() {
		if leaf.Type == gjson.Null {
			l.Leaves = append(l.Leaves, nil)
			continue
		}
		path := leaf.Get("path")
		if path.Type != gjson.String || path.String() == "" {
			return l, errors.New("leaf without a path")
		}
		l.Leaves = append(l.Leaves, &window.LeafRecord{
			Path:   path.String(),
			Line:   int(leaf.Get("line").Int()),
			Column: int(leaf.Get("column").Int()),
		})
	}
	return l, nil
}

// Save writes s to path atomically, creating the directory if needed.
func Save(fsys vfs.VFS, path string, s Session) error {
	data, err := Encode(s)
	if err != nil {
		return err
	}
	if err := fsys.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	if err := vfs.WriteFileAtomic(fsys, path, data, 0o644); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

// Load reads the session at path. A missing file returns ErrNoSession.
func Load(fsys vfs.VFS, path string) (Session, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Session{}, ErrNoSession
		}
		return Session{}, fmt.Errorf("loading session: %w", err)
	}
	return Decode(data)
}
