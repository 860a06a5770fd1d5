package archive

import (
	"photo-archive/internal/model"
)

// Execute copies every planned operation in order. A failure to create a
// directory or copy a file is logged and counted, and execution moves on to
// the next operation. Journal failures are logged as warnings: when the run
// cannot be started in the journal, copying proceeds unrecorded and the
// report carries no RunID. The error return is always nil today; it is kept
// so callers treat Execute like the other service operations.
func (s *Service) Execute(plan *Plan) (*ExecutionReport, error) {
	report := &ExecutionReport{Total: len(plan.Operations)}

	journal := s.journal
	if journal != nil {
		report.RunID = s.idgen.New()
		run := &model.Run{
			ID:          report.RunID,
			StartedAt:   s.clock.Now(),
			Source:      plan.Source,
			Destination: plan.Destination,
			Prefix:      plan.Prefix,
			Status:      model.RunStatusRunning,
			Planned:     report.Total,
		}
		if err := journal.StartRun(run); err != nil {
			s.logger.Warn("recording run failed, continuing without journal", "run", report.RunID, "error", err)
			report.RunID = ""
			journal = nil
		}
	}

	s.logger.Info("execution started", "run", report.RunID, "operations", report.Total)

	for i, op := range plan.Operations {
		err := s.executeOne(op)
		if err != nil {
			report.Failures = append(report.Failures, OperationFailure{Operation: op, Err: err})
			s.logger.Error("operation failed", "source", op.SourcePath, "destination", op.DestinationPath, "error", err)
		} else {
			report.Succeeded++
			s.logger.Info("file copied", "source", op.SourcePath, "destination", op.DestinationPath)
		}

		s.record(journal, report.RunID, op, err)

		if s.onExecute != nil {
			s.onExecute(op, i+1, report.Total, err)
		}
	}

	s.logger.Info("execution complete", "run", report.RunID, "succeeded", report.Succeeded, "total", report.Total)

	if journal != nil {
		if err := journal.FinishRun(report.RunID, runStatus(report), report.Succeeded, s.clock.Now()); err != nil {
			s.logger.Warn("finishing run failed", "run", report.RunID, "error", err)
		}
	}
	return report, nil
}

// executeOne creates the destination directory if needed and copies one file.
func (s *Service) executeOne(op PlannedOperation) error {
	dir := s.dest.Dir(op.DestinationPath)
	if err := s.dest.EnsureDir(dir); err != nil {
		return &DirectoryCreationError{Dir: dir, Err: err}
	}
	if err := s.dest.Copy(op.SourcePath, op.DestinationPath); err != nil {
		return &CopyError{Source: op.SourcePath, Destination: op.DestinationPath, Err: err}
	}
	return nil
}

// record writes one operation outcome to the journal. Journal write failures
// are logged and do not affect the batch.
func (s *Service) record(journal Journal, runID string, op PlannedOperation, opErr error) {
	if journal == nil {
		return
	}
	rec := &model.RunOperation{
		RunID:           runID,
		SourcePath:      op.SourcePath,
		DestinationPath: op.DestinationPath,
		CaptureDate:     op.CaptureDate,
		DateSource:      op.DateSource.String(),
		Status:          model.OperationCopied,
	}
	if opErr != nil {
		rec.Status = model.OperationFailed
		rec.Error = opErr.Error()
	}
	if err := journal.RecordOperation(rec); err != nil {
		s.logger.Warn("recording operation failed", "run", runID, "source", op.SourcePath, "error", err)
	}
}

func runStatus(report *ExecutionReport) string {
	switch {
	case report.Succeeded == report.Total:
		return model.RunStatusSuccess
	case report.Succeeded == 0:
		return model.RunStatusFailed
	default:
		return model.RunStatusPartial
	}
}
