package testutil

import (
	"fmt"

	"photo-archive/internal/archive"
)

type captureTimeResult struct {
	value string
	ok    bool
	err   error
}

// MockMetadataReader returns canned capture times keyed by path.
// Paths without an entry behave like images without a capture time.
type MockMetadataReader struct {
	results map[string]captureTimeResult
}

func NewMockMetadataReader() *MockMetadataReader {
	return &MockMetadataReader{results: make(map[string]captureTimeResult)}
}

// SetCaptureTime makes path report the raw tag value.
func (r *MockMetadataReader) SetCaptureTime(path, value string) {
	r.results[path] = captureTimeResult{value: value, ok: true}
}

// SetError makes reading path fail with err.
func (r *MockMetadataReader) SetError(path string, err error) {
	r.results[path] = captureTimeResult{err: err}
}

// SetCorrupt makes reading path fail as an undecodable image would.
func (r *MockMetadataReader) SetCorrupt(path string) {
	r.SetError(path, fmt.Errorf("decoding image: unknown format"))
}

func (r *MockMetadataReader) CaptureTime(path string) (string, bool, error) {
	res := r.results[path]
	return res.value, res.ok, res.err
}

var _ archive.MetadataReader = (*MockMetadataReader)(nil)
