package archive

import (
	"errors"
	"fmt"
)

// ErrSuffixExhausted is returned by the path allocator when every numbered
// candidate up to the configured maximum is already taken.
var ErrSuffixExhausted = errors.New("collision suffixes exhausted")

// MetadataError reports an unreadable or corrupt image, or a capture time
// that does not match the expected layout. Only strict resolution returns it.
type MetadataError struct {
	Path string
	Err  error
}

func (e *MetadataError) Error() string {
	return fmt.Sprintf("reading capture time of %s: %v", e.Path, e.Err)
}

func (e *MetadataError) Unwrap() error { return e.Err }

// DirectoryCreationError reports a destination directory that could not be created.
// It skips the execution of a single operation.
type DirectoryCreationError struct {
	Dir string
	Err error
}

func (e *DirectoryCreationError) Error() string {
	return fmt.Sprintf("creating directory %s: %v", e.Dir, e.Err)
}

func (e *DirectoryCreationError) Unwrap() error { return e.Err }

// CopyError reports a failed copy. It skips the execution of a single operation.
type CopyError struct {
	Source      string
	Destination string
	Err         error
}

func (e *CopyError) Error() string {
	return fmt.Sprintf("copying %s -> %s: %v", e.Source, e.Destination, e.Err)
}

func (e *CopyError) Unwrap() error { return e.Err }

// UsageError reports invalid invocation. It is fatal before any planning.
type UsageError struct {
	Msg string
}

func (e *UsageError) Error() string { return e.Msg }

// NewUsageError formats a UsageError.
func NewUsageError(format string, args ...any) *UsageError {
	return &UsageError{Msg: fmt.Sprintf(format, args...)}
}
