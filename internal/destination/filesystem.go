package destination

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/djherbis/times"

	"photo-archive/internal/archive"
)

// FileSystemDestination copies files into a local directory tree.
type FileSystemDestination struct {
	root string
}

// NewFileSystemDestination creates a destination rooted at root. The root
// itself is created lazily by EnsureDir.
func NewFileSystemDestination(root string) (*FileSystemDestination, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving destination root: %w", err)
	}
	if info, err := os.Stat(abs); err == nil && !info.IsDir() {
		return nil, fmt.Errorf("destination is not a directory: %s", abs)
	}
	return &FileSystemDestination{root: abs}, nil
}

func (d *FileSystemDestination) Root() string { return d.root }

func (d *FileSystemDestination) Join(elem ...string) string { return filepath.Join(elem...) }

func (d *FileSystemDestination) Dir(path string) string { return filepath.Dir(path) }

// Exists reports whether anything, file or directory, occupies path.
func (d *FileSystemDestination) Exists(path string) (bool, error) {
	_, err := os.Lstat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// EnsureDir creates dir and any missing parents.
func (d *FileSystemDestination) EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}
	return nil
}

// Copy copies src to dst byte for byte, keeping the source permission bits,
// access time and modification time. It never overwrites an existing file;
// a partially written dst is removed on failure.
func (d *FileSystemDestination) Copy(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening source: %w", err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("creating destination file: %w", err)
	}

	success := false
	defer func() {
		if !success {
			os.Remove(dst)
		}
	}()

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("writing data: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("closing destination file: %w", err)
	}

	// OpenFile applies the umask, so set the mode explicitly.
	if err := os.Chmod(dst, info.Mode().Perm()); err != nil {
		return fmt.Errorf("setting permissions: %w", err)
	}

	atime := info.ModTime()
	if ts, err := times.Stat(src); err == nil {
		atime = ts.AccessTime()
	}
	if err := os.Chtimes(dst, atime, info.ModTime()); err != nil {
		return fmt.Errorf("setting times: %w", err)
	}

	success = true
	return nil
}

// Compile-time check that FileSystemDestination implements archive.Destination interface
var _ archive.Destination = (*FileSystemDestination)(nil)
