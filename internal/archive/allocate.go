package archive

import (
	"fmt"
	"path/filepath"
	"strings"
)

// DefaultMaxSuffix is the highest collision counter tried before giving up.
const DefaultMaxSuffix = 10000

// PathAllocator picks collision-free destination paths.
type PathAllocator struct {
	dest      Destination
	maxSuffix int
}

// NewPathAllocator creates an allocator for dest. A non-positive maxSuffix
// selects DefaultMaxSuffix.
func NewPathAllocator(dest Destination, maxSuffix int) *PathAllocator {
	if maxSuffix <= 0 {
		maxSuffix = DefaultMaxSuffix
	}
	return &PathAllocator{dest: dest, maxSuffix: maxSuffix}
}

// Allocate returns the first of dir/name, dir/stem(1)ext, dir/stem(2)ext, ...
// that neither exists at the destination nor is held in reserved.
// reserved may be nil. Allocate only reads reserved; the caller must add the
// returned path before allocating again in the same batch.
func (a *PathAllocator) Allocate(dir, filename string, reserved *ReservedPathSet) (string, error) {
	stem, ext := splitExt(filename)

	candidate := a.dest.Join(dir, filename)
	for counter := 1; ; counter++ {
		taken, err := a.taken(candidate, reserved)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		if counter > a.maxSuffix {
			return "", fmt.Errorf("%s in %s after %d attempts: %w", filename, dir, a.maxSuffix, ErrSuffixExhausted)
		}
		candidate = a.dest.Join(dir, fmt.Sprintf("%s(%d)%s", stem, counter, ext))
	}
}

func (a *PathAllocator) taken(candidate string, reserved *ReservedPathSet) (bool, error) {
	if reserved != nil && reserved.Contains(candidate) {
		return true, nil
	}
	exists, err := a.dest.Exists(candidate)
	if err != nil {
		return false, fmt.Errorf("checking %s: %w", candidate, err)
	}
	return exists, nil
}

// splitExt splits a filename into stem and extension. Leading dots belong to
// the stem, so ".hidden" has no extension.
func splitExt(filename string) (string, string) {
	ext := filepath.Ext(strings.TrimLeft(filename, "."))
	return filename[:len(filename)-len(ext)], ext
}
