package archive

import (
	"fmt"
	"strings"
	"time"
)

// CaptureTimeLayout is the fixed layout of the EXIF DateTimeOriginal tag.
const CaptureTimeLayout = "2006:01:02 15:04:05"

// ResolutionOutcome tells how a Resolution was reached.
type ResolutionOutcome int

const (
	// ResolvedFromMetadata: the capture time tag was present and well-formed.
	ResolvedFromMetadata ResolutionOutcome = iota
	// ResolvedFromFallback: the image carried no capture time, so the modification time was used.
	ResolvedFromFallback
	// ResolutionError: reading or parsing the metadata failed. Time still holds
	// the modification-time fallback and Err the *MetadataError.
	ResolutionError
)

func (o ResolutionOutcome) String() string {
	switch o {
	case ResolvedFromMetadata:
		return "metadata"
	case ResolvedFromFallback:
		return "fallback"
	default:
		return "error"
	}
}

// Resolution is the result of resolving a file's capture date.
type Resolution struct {
	Time    time.Time
	Outcome ResolutionOutcome
	Err     error
}

// Source maps the outcome to the DateSource recorded in a plan.
func (r Resolution) Source() DateSource {
	if r.Outcome == ResolvedFromMetadata {
		return DateFromMetadata
	}
	return DateFromModTime
}

// DateResolver resolves the capture date of source files.
type DateResolver struct {
	fsmgr    FilesystemManager
	reader   MetadataReader
	location *time.Location
}

// NewDateResolver creates a resolver that interprets capture times and
// modification times in the local time zone.
func NewDateResolver(fsmgr FilesystemManager, reader MetadataReader) *DateResolver {
	return &DateResolver{
		fsmgr:    fsmgr,
		reader:   reader,
		location: time.Local,
	}
}

// Resolve runs the fallback chain for path: embedded capture time first,
// modification time otherwise. The returned error is non-nil only when the
// modification time itself cannot be read.
func (r *DateResolver) Resolve(path *Path) (Resolution, error) {
	value, ok, err := r.reader.CaptureTime(path.String())
	if err == nil && ok {
		t, perr := ParseCaptureTime(value, r.location)
		if perr == nil {
			return Resolution{Time: t, Outcome: ResolvedFromMetadata}, nil
		}
		err = perr
	}

	info, serr := r.fsmgr.Stat(path)
	if serr != nil {
		return Resolution{}, fmt.Errorf("stat %s: %w", path.String(), serr)
	}
	mtime := info.ModTime().In(r.location)

	if err != nil {
		return Resolution{
			Time:    mtime,
			Outcome: ResolutionError,
			Err:     &MetadataError{Path: path.String(), Err: err},
		}, nil
	}
	return Resolution{Time: mtime, Outcome: ResolvedFromFallback}, nil
}

// ResolveDate returns the capture date of path. In strict mode a metadata
// failure is returned as a *MetadataError alongside the fallback time;
// otherwise it is silently replaced by the fallback.
func (r *DateResolver) ResolveDate(path *Path, strict bool) (time.Time, error) {
	res, err := r.Resolve(path)
	if err != nil {
		return time.Time{}, err
	}
	if strict && res.Outcome == ResolutionError {
		return res.Time, res.Err
	}
	return res.Time, nil
}

// ParseCaptureTime parses a raw DateTimeOriginal value. No range validation
// is done: a well-formed year 0 is accepted.
func ParseCaptureTime(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimRight(value, "\x00 ")
	t, err := time.ParseInLocation(CaptureTimeLayout, value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("capture time %q does not match %s", value, CaptureTimeLayout)
	}
	return t, nil
}
