// Package metadata reads capture times embedded in image files.
package metadata

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"photo-archive/internal/archive"
)

// exifFormats are the image formats goexif can find an EXIF block in.
var exifFormats = map[string]bool{"jpeg": true, "tiff": true}

// EXIFReader reads DateTimeOriginal with goexif after checking that the file
// decodes as an image.
type EXIFReader struct{}

// NewEXIFReader creates a reader for JPEG, PNG, GIF, BMP, TIFF and WebP files.
func NewEXIFReader() *EXIFReader {
	return &EXIFReader{}
}

// CaptureTime opens path, validates it as an image and returns the raw
// DateTimeOriginal value. Images without an EXIF block, or whose block lacks
// the tag, report ok == false with a nil error. Only JPEG and TIFF files are
// searched for EXIF; other valid images always report ok == false.
func (r *EXIFReader) CaptureTime(path string) (string, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", false, fmt.Errorf("opening image: %w", err)
	}
	defer f.Close()

	_, format, err := image.DecodeConfig(f)
	if err != nil {
		return "", false, fmt.Errorf("decoding image: %w", err)
	}
	if !exifFormats[format] {
		return "", false, nil
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", false, fmt.Errorf("rewinding image: %w", err)
	}

	x, err := exif.Decode(f)
	if err != nil {
		if noExif(err) {
			return "", false, nil
		}
		if exif.IsCriticalError(err) || x == nil {
			return "", false, fmt.Errorf("decoding exif: %w", err)
		}
	}

	tag, err := x.Get(exif.DateTimeOriginal)
	if err != nil {
		if exif.IsTagNotPresentError(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("reading DateTimeOriginal: %w", err)
	}

	value, err := tag.StringVal()
	if err != nil {
		return "", false, fmt.Errorf("reading DateTimeOriginal: %w", err)
	}
	return value, true, nil
}

// noExif reports whether a goexif decode error means the image simply has no
// EXIF block: either no APP1 segment at all, or an APP1 segment holding
// something else such as XMP.
func noExif(err error) bool {
	if errors.Is(err, io.EOF) {
		return true
	}
	return strings.Contains(err.Error(), "failed to find exif intro marker")
}

var _ archive.MetadataReader = (*EXIFReader)(nil)
