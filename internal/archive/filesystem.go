package archive

import "io/fs"

// FilesystemManager provides read-only access to the source tree.
// It abstracts file access to enable testing without touching the real filesystem.
type FilesystemManager interface {
	// Resolve validates a raw path and returns a Path object.
	// It resolves the path to an absolute path, stats it, and validates
	// it's a regular file or directory (not a symlink, device, etc.).
	Resolve(rawPath string) (*Path, error)

	// Stat returns fresh file info for a path.
	// Unlike path.Info() which returns cached info from when the path was resolved,
	// this always fetches current info from the filesystem.
	Stat(path *Path) (fs.FileInfo, error)

	// FindFiles discovers regular files under the given directory, in
	// directory traversal order. Ignored files are not returned.
	// Subdirectories that cannot be read are reported as skipped entries
	// and do not stop the walk.
	FindFiles(path *Path, recursive bool) ([]*Path, []SkippedFile, error)
}
