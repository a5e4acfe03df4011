package export

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"squared/internal/csg"
)

// Sink receives exported files by name.
type Sink interface {
	Create(name string) (io.WriteCloser, error)
}

// Aborter is implemented by sink files that can be discarded unpublished.
type Aborter interface {
	Abort() error
}

// Discard drops a partially written file. Files without Abort are closed.
func Discard(w io.WriteCloser) error {
	if a, ok := w.(Aborter); ok {
		return a.Abort()
	}
	return w.Close()
}

// DirSink writes files beneath a directory, creating it on first use. Files
// are written to a temporary name and renamed into place on Close. A file
// whose write failed, or that is aborted, never reaches its final path.
type DirSink struct {
	dir string
}

// NewDirSink returns a sink rooted at dir.
func NewDirSink(dir string) *DirSink {
	return &DirSink{dir: dir}
}

// Dir returns the sink's root directory.
func (s *DirSink) Dir() string { return s.dir }

// Path returns where name ends up on disk.
func (s *DirSink) Path(name string) string {
	return filepath.Join(s.dir, name)
}

func (s *DirSink) Create(name string) (io.WriteCloser, error) {
	if name == "" || filepath.Base(name) != name {
		return nil, fmt.Errorf("invalid export file name %q", name)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create export directory: %w", err)
	}
	f, err := os.CreateTemp(s.dir, "."+name+".*")
	if err != nil {
		return nil, fmt.Errorf("create export file: %w", err)
	}
	return &dirFile{file: f, path: s.Path(name)}, nil
}

type dirFile struct {
	file *os.File
	path string
	err  error
	done bool
}

func (f *dirFile) Write(p []byte) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	n, err := f.file.Write(p)
	if err != nil {
		f.err = err
	}
	return n, err
}

// Abort closes and removes the temporary file.
func (f *dirFile) Abort() error {
	if f.done {
		return nil
	}
	f.done = true
	f.file.Close()
	if err := os.Remove(f.file.Name()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove export file: %w", err)
	}
	return nil
}

func (f *dirFile) Close() error {
	if f.done {
		return nil
	}
	if f.err != nil {
		f.Abort()
		return fmt.Errorf("write export file: %w", f.err)
	}
	f.done = true
	tmp := f.file.Name()
	if err := f.file.Sync(); err != nil {
		f.file.Close()
		os.Remove(tmp)
		return fmt.Errorf("sync export file: %w", err)
	}
	if err := f.file.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close export file: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("move export file into place: %w", err)
	}
	return nil
}

// MemorySink keeps exported files in memory.
type MemorySink struct {
	mu    sync.RWMutex
	files map[string][]byte
}

func NewMemorySink() *MemorySink {
	return &MemorySink{files: make(map[string][]byte)}
}

func (s *MemorySink) Create(name string) (io.WriteCloser, error) {
	if name == "" {
		return nil, fmt.Errorf("invalid export file name %q", name)
	}
	return &memoryFile{sink: s, name: name}, nil
}

// File returns a copy of the named file's contents.
func (s *MemorySink) File(name string) ([]byte, bool) {
	s.mu.RLock()
	data, ok := s.files[name]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	dup := make([]byte, len(data))
	copy(dup, data)
	return dup, true
}

// Names lists stored files in order.
func (s *MemorySink) Names() []string {
	s.mu.RLock()
	names := make([]string, 0, len(s.files))
	for name := range s.files {
		names = append(names, name)
	}
	s.mu.RUnlock()
	sort.Strings(names)
	return names
}

type memoryFile struct {
	sink    *MemorySink
	name    string
	buf     bytes.Buffer
	aborted bool
}

// Abort drops the buffered contents without storing them.
func (f *memoryFile) Abort() error {
	f.aborted = true
	f.buf.Reset()
	return nil
}

func (f *memoryFile) Write(p []byte) (int, error) {
	return f.buf.Write(p)
}

func (f *memoryFile) Close() error {
	if f.aborted {
		return nil
	}
	f.sink.mu.Lock()
	f.sink.files[f.name] = f.buf.Bytes()
	f.sink.mu.Unlock()
	return nil
}

// Solid writes the brush's surface mesh to sink under name and returns the
// number of triangles written.
func Solid(sink Sink, name string, b *csg.Brush) (int, error) {
	if b == nil {
		return 0, fmt.Errorf("export %s: %w", name, csg.ErrEmptyResult)
	}
	if err := b.Geometry().Err(); err != nil {
		return 0, fmt.Errorf("export %s: %w", name, err)
	}
	mesh := b.Mesh()

	w, err := sink.Create(name)
	if err != nil {
		return 0, err
	}
	if err := WriteSTL(w, Header(name, b.Material()), mesh.Triangles); err != nil {
		Discard(w)
		return 0, fmt.Errorf("export %s: %w", name, err)
	}
	if err := w.Close(); err != nil {
		return 0, fmt.Errorf("export %s: %w", name, err)
	}
	return len(mesh.Triangles), nil
}
