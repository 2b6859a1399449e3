// Package store provides the registry of open buffers.
//
// Store owns every buffer in the editor. Views hold a buffer id and look
// the buffer up here; they never keep a buffer alive on their own.
//
// A path is open in at most one buffer. Opening a path that is already
// open returns the existing buffer, and saving a buffer to a path another
// buffer owns merges the two: the saved buffer survives, the other
// buffer's views are rebound to it and the other buffer is destroyed.
//
// Store is not safe for concurrent use; it lives on the editor's event loop.
package store

import (
	"errors"
	"fmt"
	"sort"

	"github.com/dshills/splitpad/internal/engine/buffer"
	"github.com/dshills/splitpad/internal/project/vfs"
)

// ErrNotFound is returned for ids that name no live buffer.
var ErrNotFound = errors.New("buffer not found")

// Store manages open buffers.
type Store struct {
	buffers map[buffer.ID]*buffer.Buffer
	fs      vfs.VFS
	bufOpts []buffer.Option

	onOpen  []func(b *buffer.Buffer)
	onClose []func(id buffer.ID, path string)
	onMerge []func(survivor *buffer.Buffer, removed buffer.ID)
}

// Option configures a Store.
type Option func(*Store)

// WithFS sets the file system buffers are read from and written to.
func WithFS(fsys vfs.VFS) Option {
	return func(s *Store) {
		if fsys != nil {
			s.fs = fsys
		}
	}
}

// WithBufferOptions sets options applied to every buffer the store creates.
func WithBufferOptions(opts ...buffer.Option) Option {
	return func(s *Store) {
		s.bufOpts = append(s.bufOpts, opts...)
	}
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		buffers: make(map[buffer.ID]*buffer.Buffer),
		fs:      vfs.NewOSFS(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OnOpen registers a handler called when a buffer is created.
func (s *Store) OnOpen(fn func(b *buffer.Buffer)) {
	s.onOpen = append(s.onOpen, fn)
}

// OnClose registers a handler called after a buffer is destroyed.
func (s *Store) OnClose(fn func(id buffer.ID, path string)) {
	s.onClose = append(s.onClose, fn)
}

// OnMerge registers a handler called after a save merged two buffers.
func (s *Store) OnMerge(fn func(survivor *buffer.Buffer, removed buffer.ID)) {
	s.onMerge = append(s.onMerge, fn)
}

func (s *Store) options() []buffer.Option {
	opts := make([]buffer.Option, 0, len(s.bufOpts)+2)
	opts = append(opts, s.bufOpts...)
	return append(opts, buffer.WithFS(s.fs), buffer.WithSaveHook(s.merge))
}

// nextID returns the lowest id not in use.
func (s *Store) nextID() buffer.ID {
	id := buffer.ID(1)
	for {
		if _, ok := s.buffers[id]; !ok {
			return id
		}
		id++
	}
}

func (s *Store) add(b *buffer.Buffer) *buffer.Buffer {
	s.buffers[b.ID()] = b
	for _, fn := range s.onOpen {
		fn(b)
	}
	return b
}

// NewBuffer creates an empty scratch buffer.
func (s *Store) NewBuffer() *buffer.Buffer {
	return s.add(buffer.New(s.nextID(), s.options()...))
}

// Open returns the buffer for path, loading it if it is not open yet.
// A path that does not exist yields an empty buffer bound to it.
//
// Callers should check HasBackup on the result to offer recovery.
func (s *Store) Open(path string) (*buffer.Buffer, error) {
	abs, err := vfs.Canonical(s.fs, path)
	if err != nil {
		return nil, &buffer.IOError{Op: "open", Path: path, Err: err}
	}
	if b, ok := s.FindByPath(abs); ok {
		return b, nil
	}
	b, err := buffer.Open(s.nextID(), abs, s.options()...)
	if err != nil {
		return nil, err
	}
	return s.add(b), nil
}

// Get returns the buffer with the given id.
func (s *Store) Get(id buffer.ID) (*buffer.Buffer, bool) {
	b, ok := s.buffers[id]
	return b, ok
}

// FindByPath returns the buffer bound to path. A symbolic link finds the
// buffer of its target.
func (s *Store) FindByPath(path string) (*buffer.Buffer, bool) {
	if path == "" {
		return nil, false
	}
	abs, err := vfs.Canonical(s.fs, path)
	if err != nil {
		return nil, false
	}
	for _, b := range s.buffers {
		if b.Path() == abs {
			return b, true
		}
	}
	return nil, false
}

// Buffers returns all live buffers ordered by id.
func (s *Store) Buffers() []*buffer.Buffer {
	out := make([]*buffer.Buffer, 0, len(s.buffers))
	for _, b := range s.buffers {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// Len returns the number of live buffers.
func (s *Store) Len() int { return len(s.buffers) }

// Dirty returns the buffers with unsaved changes, ordered by id.
func (s *Store) Dirty() []*buffer.Buffer {
	var out []*buffer.Buffer
	for _, b := range s.Buffers() {
		if b.IsDirty() {
			out = append(out, b)
		}
	}
	return out
}

// Close destroys a buffer and deletes its backup file. Views still
// attached are detached; callers close their views first.
func (s *Store) Close(id buffer.ID) error {
	b, ok := s.buffers[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	delete(s.buffers, id)
	err := b.Close()
	for _, fn := range s.onClose {
		fn(id, b.Path())
	}
	return err
}

// Release destroys a buffer nobody needs: no views, no path and no
// unsaved content. It returns true if the buffer was destroyed.
func (s *Store) Release(id buffer.ID) bool {
	b, ok := s.buffers[id]
	if !ok || b.ViewCount() > 0 || b.IsDirty() || !b.IsScratch() {
		return false
	}
	_ = s.Close(id)
	return true
}

// merge runs after saved was written. Any other buffer bound to the same
// path hands its views over to saved and is destroyed.
func (s *Store) merge(saved *buffer.Buffer, _ string) {
	for _, other := range s.Buffers() {
		if other == saved || other.Path() != saved.Path() {
			continue
		}
		for _, v := range other.Views() {
			other.Detach(v)
			v.Rebind(saved.ID())
			saved.Attach(v)
			v.BufferChanged(saved)
		}
		delete(s.buffers, other.ID())
		// the backup at this path was removed by the save
		_ = other.Close()
		for _, fn := range s.onClose {
			fn(other.ID(), other.Path())
		}
		for _, fn := range s.onMerge {
			fn(saved, other.ID())
		}
	}
}
