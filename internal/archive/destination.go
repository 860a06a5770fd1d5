package archive

// Destination is the tree that planned operations are copied into.
// Paths handed to a Destination are produced by its own Join method, so an
// implementation is free to use filesystem paths or object keys.
type Destination interface {
	// Root returns the root path or key prefix of the destination.
	Root() string

	// Join joins path elements using the destination's separator.
	Join(elem ...string) string

	// Dir returns all but the last element of path.
	Dir(path string) string

	// Exists reports whether something is already stored at path.
	Exists(path string) (bool, error)

	// EnsureDir makes sure dir can receive files, creating it recursively if needed.
	EnsureDir(dir string) error

	// Copy copies the local file src to dst, preserving its modification time.
	// It fails if dst already exists.
	Copy(src string, dst string) error
}
