package archive

// ReservedPathSet holds destination paths already assigned during the current
// planning pass. It is not safe for concurrent use.
type ReservedPathSet struct {
	paths map[string]struct{}
}

// NewReservedPathSet creates an empty set.
func NewReservedPathSet() *ReservedPathSet {
	return &ReservedPathSet{paths: make(map[string]struct{})}
}

// Add reserves path.
func (r *ReservedPathSet) Add(path string) {
	r.paths[path] = struct{}{}
}

// Contains reports whether path has been reserved.
func (r *ReservedPathSet) Contains(path string) bool {
	_, ok := r.paths[path]
	return ok
}

// Len returns the number of reserved paths.
func (r *ReservedPathSet) Len() int {
	return len(r.paths)
}
