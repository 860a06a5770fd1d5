package app

import (
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"photo-archive/internal/archive"
)

// planDocument is the YAML form of a plan written by --plan-out.
type planDocument struct {
	Source      string         `yaml:"source"`
	Destination string         `yaml:"destination"`
	Prefix      string         `yaml:"prefix,omitempty"`
	FilesFound  int            `yaml:"files_found"`
	Operations  []planEntry    `yaml:"operations"`
	Skipped     []skippedEntry `yaml:"skipped,omitempty"`
}

type planEntry struct {
	Source      string `yaml:"source"`
	Destination string `yaml:"destination"`
	CaptureDate string `yaml:"capture_date"`
	DateSource  string `yaml:"date_source"`
}

type skippedEntry struct {
	Path   string `yaml:"path"`
	Reason string `yaml:"reason"`
}

func newPlanDocument(plan *archive.Plan) planDocument {
	doc := planDocument{
		Source:      plan.Source,
		Destination: plan.Destination,
		Prefix:      plan.Prefix,
		FilesFound:  plan.FilesFound,
		Operations:  make([]planEntry, 0, len(plan.Operations)),
	}
	for _, op := range plan.Operations {
		doc.Operations = append(doc.Operations, planEntry{
			Source:      op.SourcePath,
			Destination: op.DestinationPath,
			CaptureDate: op.CaptureDate.Format(time.RFC3339),
			DateSource:  op.DateSource.String(),
		})
	}
	for _, s := range plan.Skipped {
		doc.Skipped = append(doc.Skipped, skippedEntry{Path: s.Path, Reason: s.Reason})
	}
	return doc
}

// WritePlan encodes plan as YAML to w.
func WritePlan(w io.Writer, plan *archive.Plan) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(newPlanDocument(plan)); err != nil {
		return fmt.Errorf("encoding plan: %w", err)
	}
	return enc.Close()
}

// WritePlanFile writes plan as YAML to path, replacing any existing file.
func WritePlanFile(path string, plan *archive.Plan) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating plan file: %w", err)
	}
	if err := WritePlan(f, plan); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
