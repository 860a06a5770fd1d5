package testutil

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"photo-archive/internal/archive"
)

// MockFile represents a file in the mock filesystem.
type MockFile struct {
	Content     []byte
	Permissions fs.FileMode
	ModTime     time.Time
	IsDirectory bool
}

// MockFilesystemManager is an in-memory filesystem for testing.
// Files added with AddFile get a modification time of DefaultModTime unless
// one is given explicitly.
type MockFilesystemManager struct {
	files    map[string]*MockFile
	statErrs map[string]error
	dirErrs  map[string]error
}

// DefaultModTime is the modification time given to mock files by AddFile.
var DefaultModTime = time.Date(2023, 6, 15, 12, 0, 0, 0, time.Local)

// NewMockFilesystemManager creates a new mock filesystem.
func NewMockFilesystemManager() *MockFilesystemManager {
	return &MockFilesystemManager{
		files:    make(map[string]*MockFile),
		statErrs: make(map[string]error),
		dirErrs:  make(map[string]error),
	}
}

// AddFile adds a file to the mock filesystem.
func (m *MockFilesystemManager) AddFile(path string, content []byte) {
	m.AddFileWithModTime(path, content, DefaultModTime)
}

// AddFileWithModTime adds a file with the given modification time.
func (m *MockFilesystemManager) AddFileWithModTime(path string, content []byte, modTime time.Time) {
	m.files[path] = &MockFile{
		Content:     content,
		Permissions: 0644,
		ModTime:     modTime,
	}
}

// AddDirectory adds a directory to the mock filesystem.
func (m *MockFilesystemManager) AddDirectory(path string) {
	m.files[path] = &MockFile{
		Permissions: 0755,
		ModTime:     DefaultModTime,
		IsDirectory: true,
	}
}

// FailDir makes FindFiles report dir as unreadable with err and leave out
// everything below it.
func (m *MockFilesystemManager) FailDir(dir string, err error) {
	m.AddDirectory(dir)
	m.dirErrs[dir] = err
}

// FailStat makes Stat return err for path.
func (m *MockFilesystemManager) FailStat(path string, err error) {
	m.statErrs[path] = err
}

func (m *MockFilesystemManager) Resolve(rawPath string) (*archive.Path, error) {
	absPath, err := filepath.Abs(rawPath)
	if err != nil {
		return nil, err
	}

	file, ok := m.files[absPath]
	if !ok {
		return nil, fmt.Errorf("file not found: %s", absPath)
	}

	return archive.NewPath(absPath, file.IsDirectory, newMockFileInfo(absPath, file)), nil
}

func (m *MockFilesystemManager) Stat(path *archive.Path) (fs.FileInfo, error) {
	if err, ok := m.statErrs[path.String()]; ok {
		return nil, err
	}
	file, ok := m.files[path.String()]
	if !ok {
		return nil, fmt.Errorf("file not found: %s", path.String())
	}
	return newMockFileInfo(path.String(), file), nil
}

// FindFiles returns the regular files below path in lexical order, and the
// directories registered with FailDir as skipped entries.
func (m *MockFilesystemManager) FindFiles(path *archive.Path, recursive bool) ([]*archive.Path, []archive.SkippedFile, error) {
	if !path.IsDir() {
		return nil, nil, fmt.Errorf("path is not a directory: %s", path.String())
	}

	prefix := strings.TrimSuffix(path.String(), string(filepath.Separator)) + string(filepath.Separator)
	var names []string
	for name, file := range m.files {
		if file.IsDirectory || !strings.HasPrefix(name, prefix) {
			continue
		}
		if !recursive && strings.ContainsRune(name[len(prefix):], filepath.Separator) {
			continue
		}
		if m.belowFailedDir(name) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	paths := make([]*archive.Path, 0, len(names))
	for _, name := range names {
		paths = append(paths, archive.NewPath(name, false, newMockFileInfo(name, m.files[name])))
	}

	var skipped []archive.SkippedFile
	for dir, err := range m.dirErrs {
		if strings.HasPrefix(dir, prefix) {
			skipped = append(skipped, archive.SkippedFile{Path: dir, Reason: fmt.Sprintf("unreadable directory: %v", err)})
		}
	}
	sort.Slice(skipped, func(i, j int) bool { return skipped[i].Path < skipped[j].Path })
	return paths, skipped, nil
}

func (m *MockFilesystemManager) belowFailedDir(name string) bool {
	for dir := range m.dirErrs {
		if strings.HasPrefix(name, dir+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// Open returns the content of a mock file. It matches the source opener
// expected by the in-memory destination.
func (m *MockFilesystemManager) Open(path string) (io.ReadCloser, error) {
	file, ok := m.files[path]
	if !ok {
		return nil, fmt.Errorf("file not found: %s", path)
	}
	if file.IsDirectory {
		return nil, fmt.Errorf("cannot open directory: %s", path)
	}
	return io.NopCloser(bytes.NewReader(file.Content)), nil
}

// mockFileInfo implements fs.FileInfo
type mockFileInfo struct {
	name    string
	size    int64
	mode    fs.FileMode
	modTime time.Time
	isDir   bool
}

func newMockFileInfo(path string, file *MockFile) *mockFileInfo {
	return &mockFileInfo{
		name:    filepath.Base(path),
		size:    int64(len(file.Content)),
		mode:    file.Permissions,
		modTime: file.ModTime,
		isDir:   file.IsDirectory,
	}
}

func (m *mockFileInfo) Name() string       { return m.name }
func (m *mockFileInfo) Size() int64        { return m.size }
func (m *mockFileInfo) Mode() fs.FileMode  { return m.mode }
func (m *mockFileInfo) ModTime() time.Time { return m.modTime }
func (m *mockFileInfo) IsDir() bool        { return m.isDir }
func (m *mockFileInfo) Sys() any           { return nil }

// Compile-time check
var _ archive.FilesystemManager = (*MockFilesystemManager)(nil)
