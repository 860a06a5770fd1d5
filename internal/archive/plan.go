package archive

import (
	"fmt"
	"path/filepath"
	"time"
)

// Plan walks source once and decides where every file goes, without touching
// the destination. Files land in destRoot/YYYY/MM-MonthName[/prefix].
// Per-file failures are recorded in Plan.Skipped; they never abort the plan.
func (s *Service) Plan(source *Path, destRoot string, prefix string) (*Plan, error) {
	if !source.IsDir() {
		return nil, NewUsageError("source is not a directory: %s", source.String())
	}

	files, unreadable, err := s.fsmgr.FindFiles(source, true)
	if err != nil {
		return nil, fmt.Errorf("finding files: %w", err)
	}

	plan := &Plan{
		Source:      source.String(),
		Destination: destRoot,
		Prefix:      prefix,
		FilesFound:  len(files),
	}
	for _, d := range unreadable {
		s.logger.Warn("directory skipped", "path", d.Path, "error", d.Reason)
		plan.Skipped = append(plan.Skipped, d)
	}

	allocator := NewPathAllocator(s.dest, s.maxSuffix)
	reserved := NewReservedPathSet()

	for _, f := range files {
		s.scanned(f.String())

		res, err := s.resolver.Resolve(f)
		if err != nil {
			s.skip(plan, f.String(), err)
			continue
		}
		s.logResolution(f.String(), res)

		targetDir := TargetDir(s.dest, destRoot, res.Time, prefix)
		destPath, err := allocator.Allocate(targetDir, filepath.Base(f.String()), reserved)
		if err != nil {
			s.skip(plan, f.String(), err)
			continue
		}
		reserved.Add(destPath)

		plan.Operations = append(plan.Operations, PlannedOperation{
			SourcePath:      f.String(),
			DestinationPath: destPath,
			CaptureDate:     res.Time,
			DateSource:      res.Source(),
		})
	}

	s.logger.Info("plan built", "source", plan.Source, "files", plan.FilesFound,
		"operations", len(plan.Operations), "skipped", len(plan.Skipped))
	return plan, nil
}

// TargetDir returns destRoot/YYYY/MM-MonthName, with prefix appended when set.
func TargetDir(dest Destination, destRoot string, date time.Time, prefix string) string {
	elems := []string{destRoot, date.Format("2006"), date.Format("01-January")}
	if prefix != "" {
		elems = append(elems, prefix)
	}
	return dest.Join(elems...)
}

func (s *Service) skip(plan *Plan, path string, err error) {
	s.logger.Warn("file skipped", "path", path, "error", err)
	plan.Skipped = append(plan.Skipped, SkippedFile{Path: path, Reason: err.Error()})
}

func (s *Service) logResolution(path string, res Resolution) {
	switch res.Outcome {
	case ResolvedFromMetadata:
		s.logger.Debug("capture time from metadata", "path", path, "date", res.Time)
	case ResolvedFromFallback:
		s.logger.Info("no capture time, using modification time", "path", path, "date", res.Time)
	case ResolutionError:
		s.logger.Warn("unreadable metadata, using modification time", "path", path, "date", res.Time, "error", res.Err)
	}
}
