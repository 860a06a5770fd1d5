package archive

import "time"

// DateSource tells where a planned operation's capture date came from.
type DateSource int

const (
	// DateFromMetadata means the date was read from the image's DateTimeOriginal tag.
	DateFromMetadata DateSource = iota
	// DateFromModTime means the file's modification time was used.
	DateFromModTime
)

func (d DateSource) String() string {
	if d == DateFromMetadata {
		return "exif"
	}
	return "mtime"
}

// PlannedOperation is a single copy decided during planning.
// It is never modified after the planner creates it.
type PlannedOperation struct {
	SourcePath      string
	DestinationPath string
	CaptureDate     time.Time
	DateSource      DateSource
}

// SkippedFile is a source file the planner could not schedule, or a
// subdirectory that could not be read.
type SkippedFile struct {
	Path   string
	Reason string
}

// Plan is the ordered result of a planning pass.
type Plan struct {
	Source      string
	Destination string
	Prefix      string
	FilesFound  int
	Operations  []PlannedOperation
	Skipped     []SkippedFile
}

// IsEmpty reports whether the source contained no files at all and nothing
// was skipped.
func (p *Plan) IsEmpty() bool {
	return p.FilesFound == 0 && len(p.Skipped) == 0
}

// ScanError is one failure found by strict validation.
type ScanError struct {
	File    string
	Message string
}

// OperationFailure pairs a planned operation with the reason it was not executed.
type OperationFailure struct {
	Operation PlannedOperation
	Err       error
}

// ExecutionReport summarizes the execution of a plan.
type ExecutionReport struct {
	RunID     string
	Succeeded int
	Total     int
	Failures  []OperationFailure
}
