package fs

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"photo-archive/internal/archive"
)

// IgnoreFileName is the per-source ignore file read from the root of every scanned tree.
const IgnoreFileName = ".photoarchiveignore"

// OSFilesystemManager is the real filesystem implementation of FilesystemManager.
// It performs actual filesystem operations using the os package.
type OSFilesystemManager struct {
	ignore []string
}

// NewOSFilesystemManager creates a new filesystem manager that operates on the real filesystem.
// ignore holds patterns applied to every scan in addition to the source's own ignore file.
func NewOSFilesystemManager(ignore []string) *OSFilesystemManager {
	return &OSFilesystemManager{ignore: ignore}
}

// Resolve validates a raw path and returns a Path object.
func (m *OSFilesystemManager) Resolve(rawPath string) (*archive.Path, error) {
	// Convert to absolute path
	absPath, err := filepath.Abs(rawPath)
	if err != nil {
		return nil, fmt.Errorf("resolving absolute path: %w", err)
	}

	// Stat the path
	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("stat path: %w", err)
	}

	// Check for special file types we don't support
	mode := info.Mode()
	if mode&os.ModeDevice != 0 {
		return nil, fmt.Errorf("device files not supported: %s", absPath)
	}
	if mode&os.ModeNamedPipe != 0 {
		return nil, fmt.Errorf("named pipes not supported: %s", absPath)
	}
	if mode&os.ModeSocket != 0 {
		return nil, fmt.Errorf("sockets not supported: %s", absPath)
	}

	return archive.NewPath(absPath, info.IsDir(), info), nil
}

// Stat returns fresh file info for a path.
func (m *OSFilesystemManager) Stat(path *archive.Path) (fs.FileInfo, error) {
	return os.Stat(path.String())
}

// FindFiles discovers regular files under the given directory path in lexical
// walk order. Subdirectories that cannot be read are returned as skipped
// entries and the walk continues past them.
func (m *OSFilesystemManager) FindFiles(path *archive.Path, recursive bool) ([]*archive.Path, []archive.SkippedFile, error) {
	if !path.IsDir() {
		return nil, nil, fmt.Errorf("path is not a directory: %s", path.String())
	}

	matcher, err := m.matcherFor(path.String())
	if err != nil {
		return nil, nil, err
	}

	root := path.String()
	var paths []*archive.Path
	var unreadable []archive.SkippedFile

	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p != root && d != nil && d.IsDir() {
				unreadable = append(unreadable, archive.SkippedFile{
					Path:   p,
					Reason: fmt.Sprintf("unreadable directory: %v", err),
				})
				return filepath.SkipDir
			}
			return err
		}
		if d.IsDir() {
			if p != root && !recursive {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return fmt.Errorf("computing relative path: %w", err)
		}
		if matcher.Match(rel) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return fmt.Errorf("stat %s: %w", p, err)
		}
		paths = append(paths, archive.NewPath(p, false, info))
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("walking directory: %w", err)
	}

	return paths, unreadable, nil
}

// matcherFor combines the configured patterns with the root's ignore file.
func (m *OSFilesystemManager) matcherFor(root string) (*IgnoreMatcher, error) {
	filePatterns, err := ParseIgnoreFile(filepath.Join(root, IgnoreFileName))
	if err != nil {
		return nil, err
	}
	patterns := append([]string{IgnoreFileName}, m.ignore...)
	patterns = append(patterns, filePatterns...)
	return NewIgnoreMatcher(patterns), nil
}

// Compile-time check that OSFilesystemManager implements archive.FilesystemManager interface
var _ archive.FilesystemManager = (*OSFilesystemManager)(nil)
