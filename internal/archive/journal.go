package archive

import (
	"time"

	"photo-archive/internal/model"
)

// Journal records executed runs for later inspection.
// It is an audit trail only; nothing is resumed from it.
type Journal interface {
	// StartRun records the beginning of a run.
	StartRun(run *model.Run) error

	// RecordOperation records the outcome of one operation within a run.
	RecordOperation(op *model.RunOperation) error

	// FinishRun marks a run finished with its final status and counts.
	FinishRun(runID string, status string, succeeded int, finishedAt time.Time) error

	// ListRuns returns the most recent runs, newest first.
	ListRuns(limit int) ([]*model.Run, error)

	// FindRun returns a run by ID, or nil if it does not exist.
	FindRun(runID string) (*model.Run, error)

	// ListRunOperations returns the operations of a run in execution order.
	ListRunOperations(runID string) ([]*model.RunOperation, error)

	// Close closes the journal.
	Close() error
}
