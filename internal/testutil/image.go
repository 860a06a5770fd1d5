package testutil

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

const (
	tagMake             = 0x010F
	tagExifIFDPointer   = 0x8769
	tagDateTimeOriginal = 0x9003

	typeASCII = 2
	typeLong  = 4
)

// JPEGWithCaptureTime returns a small JPEG whose EXIF block holds value as
// DateTimeOriginal. value must be at least four bytes long.
func JPEGWithCaptureTime(t *testing.T, value string) []byte {
	t.Helper()
	if len(value) < 4 {
		t.Fatalf("capture time %q too short to be stored out of line", value)
	}
	return withAPP1(t, plainJPEG(t), exifWithCaptureTime(value))
}

// JPEGWithoutCaptureTime returns a JPEG that carries an EXIF block with a
// camera make but no DateTimeOriginal.
func JPEGWithoutCaptureTime(t *testing.T) []byte {
	t.Helper()
	return withAPP1(t, plainJPEG(t), exifWithMake("TestCam"))
}

// PlainJPEG returns a JPEG without any EXIF block.
func PlainJPEG(t *testing.T) []byte {
	t.Helper()
	return plainJPEG(t)
}

// PlainPNG returns a PNG image, which never carries EXIF here.
func PlainPNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, sampleImage()); err != nil {
		t.Fatalf("encoding png: %v", err)
	}
	return buf.Bytes()
}

func sampleImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 32), G: uint8(y * 32), B: 128, A: 255})
		}
	}
	return img
}

func plainJPEG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, sampleImage(), nil); err != nil {
		t.Fatalf("encoding jpeg: %v", err)
	}
	return buf.Bytes()
}

// withAPP1 inserts an Exif APP1 segment holding tiff right after the SOI marker.
func withAPP1(t *testing.T, jpg, tiff []byte) []byte {
	t.Helper()
	if len(jpg) < 2 || jpg[0] != 0xFF || jpg[1] != 0xD8 {
		t.Fatal("not a jpeg stream")
	}
	payload := append([]byte("Exif\x00\x00"), tiff...)

	var out bytes.Buffer
	out.Write(jpg[:2])
	out.Write([]byte{0xFF, 0xE1})
	binary.Write(&out, binary.BigEndian, uint16(len(payload)+2))
	out.Write(payload)
	out.Write(jpg[2:])
	return out.Bytes()
}

// ifdEntry is one 12-byte little-endian IFD entry.
func ifdEntry(buf *bytes.Buffer, tag, typ uint16, count, value uint32) {
	binary.Write(buf, binary.LittleEndian, tag)
	binary.Write(buf, binary.LittleEndian, typ)
	binary.Write(buf, binary.LittleEndian, count)
	binary.Write(buf, binary.LittleEndian, value)
}

func tiffHeader(buf *bytes.Buffer) {
	buf.WriteString("II")
	binary.Write(buf, binary.LittleEndian, uint16(42))
	binary.Write(buf, binary.LittleEndian, uint32(8))
}

// exifWithCaptureTime lays out IFD0 at 8 pointing at an Exif IFD at 26,
// whose single DateTimeOriginal entry points at the string stored at 44.
func exifWithCaptureTime(value string) []byte {
	var buf bytes.Buffer
	tiffHeader(&buf)

	binary.Write(&buf, binary.LittleEndian, uint16(1))
	ifdEntry(&buf, tagExifIFDPointer, typeLong, 1, 26)
	binary.Write(&buf, binary.LittleEndian, uint32(0))

	binary.Write(&buf, binary.LittleEndian, uint16(1))
	ifdEntry(&buf, tagDateTimeOriginal, typeASCII, uint32(len(value)+1), 44)
	binary.Write(&buf, binary.LittleEndian, uint32(0))

	buf.WriteString(value)
	buf.WriteByte(0)
	return buf.Bytes()
}

// exifWithMake lays out IFD0 at 8 with a single Make entry pointing at 26.
func exifWithMake(camera string) []byte {
	var buf bytes.Buffer
	tiffHeader(&buf)

	binary.Write(&buf, binary.LittleEndian, uint16(1))
	ifdEntry(&buf, tagMake, typeASCII, uint32(len(camera)+1), 26)
	binary.Write(&buf, binary.LittleEndian, uint32(0))

	buf.WriteString(camera)
	buf.WriteByte(0)
	return buf.Bytes()
}
