package model

import "time"

// Run status values.
const (
	RunStatusRunning  = "running"
	RunStatusSuccess  = "success"
	RunStatusPartial  = "partial"
	RunStatusFailed   = "failed"
	OperationCopied   = "copied"
	OperationFailed   = "failed"
	DateSourceExif    = "exif"
	DateSourceModTime = "mtime"
)

// Run represents one executed organize run.
type Run struct {
	ID          string // UUID
	StartedAt   time.Time
	FinishedAt  *time.Time // nil while the run is in progress
	Source      string     // Absolute source directory
	Destination string     // Destination root (path or s3:// URL)
	Prefix      string     // Optional sub-folder under each month
	Status      string     // running, success, partial or failed
	Planned     int        // Number of operations in the approved plan
	Succeeded   int        // Number of files copied
}

// RunOperation represents the outcome of one planned copy within a run.
type RunOperation struct {
	ID              int64
	RunID           string    // Foreign key to Run
	SourcePath      string    // Absolute source file
	DestinationPath string    // Allocated destination path or key
	CaptureDate     time.Time // Resolved capture date
	DateSource      string    // exif or mtime
	Status          string    // copied or failed
	Error           string    // Failure reason, empty on success
}
