package archive

import (
	"fmt"

	"photo-archive/internal/model"
)

// GetHistory returns the most recent runs, newest first.
func (s *Service) GetHistory(limit int) ([]*model.Run, error) {
	if s.journal == nil {
		return nil, fmt.Errorf("run journal is disabled")
	}
	runs, err := s.journal.ListRuns(limit)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	return runs, nil
}

// GetRun returns a run and its operations.
func (s *Service) GetRun(runID string) (*model.Run, []*model.RunOperation, error) {
	if s.journal == nil {
		return nil, nil, fmt.Errorf("run journal is disabled")
	}
	run, err := s.journal.FindRun(runID)
	if err != nil {
		return nil, nil, fmt.Errorf("finding run: %w", err)
	}
	if run == nil {
		return nil, nil, fmt.Errorf("no run with id %s", runID)
	}
	ops, err := s.journal.ListRunOperations(runID)
	if err != nil {
		return nil, nil, fmt.Errorf("listing operations: %w", err)
	}
	return run, ops, nil
}
