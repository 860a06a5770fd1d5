package archive

// MetadataReader extracts the embedded capture time from an image file.
type MetadataReader interface {
	// CaptureTime returns the raw DateTimeOriginal value stored in the image.
	// ok is false when the image is readable but carries no such value.
	// A non-nil error means the file could not be read or is not a valid image.
	CaptureTime(path string) (value string, ok bool, err error)
}
