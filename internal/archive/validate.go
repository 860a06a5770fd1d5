package archive

import (
	"errors"
	"fmt"
)

// Validate walks source and resolves every file in strict mode, collecting a
// ScanError for each file whose date would have to come from the fallback
// because its metadata could not be read. Traversal never stops early.
func (s *Service) Validate(source *Path) ([]ScanError, error) {
	if !source.IsDir() {
		return nil, NewUsageError("source is not a directory: %s", source.String())
	}

	files, unreadable, err := s.fsmgr.FindFiles(source, true)
	if err != nil {
		return nil, fmt.Errorf("finding files: %w", err)
	}
	for _, d := range unreadable {
		s.logger.Warn("directory skipped", "path", d.Path, "error", d.Reason)
	}

	var scanErrors []ScanError
	for _, f := range files {
		s.scanned(f.String())

		if _, err := s.resolver.ResolveDate(f, true); err != nil {
			msg := err.Error()
			var merr *MetadataError
			if errors.As(err, &merr) {
				msg = merr.Err.Error()
			}
			scanErrors = append(scanErrors, ScanError{File: f.String(), Message: msg})
			s.logger.Warn("validation failed", "path", f.String(), "error", msg)
		}
	}

	s.logger.Info("validation complete", "source", source.String(), "files", len(files), "errors", len(scanErrors))
	return scanErrors, nil
}
