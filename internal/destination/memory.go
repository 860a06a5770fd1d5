package destination

import (
	"fmt"
	"io"
	"path"
	"sort"
	"sync"

	"photo-archive/internal/archive"
)

// OpenFunc opens a source file for reading.
type OpenFunc func(path string) (io.ReadCloser, error)

// MemoryDestination is an in-memory implementation of the Destination interface.
// Paths are slash-separated. Failures can be injected per directory or per
// file, which makes it useful for testing.
// This implementation is safe for concurrent use.
type MemoryDestination struct {
	root      string
	open      OpenFunc
	files     map[string][]byte
	dirs      map[string]bool
	dirErrs   map[string]error
	copyErrs  map[string]error
	existErrs map[string]error
	mu        sync.RWMutex
}

// NewMemoryDestination creates an empty destination rooted at root that
// reads sources through open.
func NewMemoryDestination(root string, open OpenFunc) *MemoryDestination {
	return &MemoryDestination{
		root:      root,
		open:      open,
		files:     make(map[string][]byte),
		dirs:      make(map[string]bool),
		dirErrs:   make(map[string]error),
		copyErrs:  make(map[string]error),
		existErrs: make(map[string]error),
	}
}

func (m *MemoryDestination) Root() string { return m.root }

func (m *MemoryDestination) Join(elem ...string) string { return path.Join(elem...) }

func (m *MemoryDestination) Dir(p string) string { return path.Dir(p) }

// PutFile stores content at p as if it had been archived earlier.
func (m *MemoryDestination) PutFile(p string, content []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[p] = content
}

// FailDir makes EnsureDir(dir) return err.
func (m *MemoryDestination) FailDir(dir string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dirErrs[dir] = err
}

// FailCopy makes Copy to dst return err.
func (m *MemoryDestination) FailCopy(dst string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.copyErrs[dst] = err
}

// FailExists makes Exists(p) return err.
func (m *MemoryDestination) FailExists(p string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.existErrs[p] = err
}

// Files returns the stored file paths in sorted order.
func (m *MemoryDestination) Files() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.files))
	for p := range m.files {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Content returns the bytes stored at p.
func (m *MemoryDestination) Content(p string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.files[p]
	return data, ok
}

// HasDir reports whether dir was created by EnsureDir.
func (m *MemoryDestination) HasDir(dir string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.dirs[dir]
}

func (m *MemoryDestination) Exists(p string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err, ok := m.existErrs[p]; ok {
		return false, err
	}
	_, isFile := m.files[p]
	return isFile || m.dirs[p], nil
}

func (m *MemoryDestination) EnsureDir(dir string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.dirErrs[dir]; ok {
		return err
	}
	if _, ok := m.files[dir]; ok {
		return fmt.Errorf("not a directory: %s", dir)
	}
	for d := dir; d != "/" && d != "."; d = path.Dir(d) {
		m.dirs[d] = true
	}
	return nil
}

func (m *MemoryDestination) Copy(src, dst string) error {
	m.mu.RLock()
	copyErr, failing := m.copyErrs[dst]
	_, exists := m.files[dst]
	parentOK := m.dirs[path.Dir(dst)]
	m.mu.RUnlock()

	if failing {
		return copyErr
	}
	if exists {
		return fmt.Errorf("destination file already exists: %s", dst)
	}
	if !parentOK {
		return fmt.Errorf("parent directory missing: %s", path.Dir(dst))
	}

	r, err := m.open(src)
	if err != nil {
		return fmt.Errorf("opening source: %w", err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read content: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[dst] = data
	return nil
}

// Compile-time check that MemoryDestination implements archive.Destination interface
var _ archive.Destination = (*MemoryDestination)(nil)
