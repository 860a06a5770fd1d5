package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"photo-archive/internal/archive"
	"photo-archive/internal/model"
)

func TestPrintPreview(t *testing.T) {
	plan := &archive.Plan{
		Source:      "/photos",
		Destination: "/archive",
		FilesFound:  3,
		Operations: []archive.PlannedOperation{
			{
				SourcePath:      "/photos/trip/a.jpg",
				DestinationPath: "/archive/2019/08-August/a.jpg",
				CaptureDate:     time.Date(2019, 8, 17, 14, 3, 59, 0, time.Local),
				DateSource:      archive.DateFromMetadata,
			},
			{
				SourcePath:      "/photos/b.png",
				DestinationPath: "/archive/2023/06-June/b.png",
				CaptureDate:     time.Date(2023, 6, 15, 12, 0, 0, 0, time.Local),
				DateSource:      archive.DateFromModTime,
			},
		},
		Skipped: []archive.SkippedFile{{Path: "/photos/c.jpg", Reason: "stat: no such file"}},
	}

	var buf bytes.Buffer
	printPreview(&buf, plan)
	got := buf.String()

	for _, want := range []string{
		"Found 2 files to organize",
		"/photos -> /archive",
		"  [2019-08-17] trip/a.jpg -> 2019/08-August/a.jpg\n",
		"  [2023-06-15] b.png -> 2023/06-June/b.png  (mtime)",
		"Skipped 1 file:",
		"/photos/c.jpg: stat: no such file",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("preview missing %q:\n%s", want, got)
		}
	}
}

func TestPrintPreviewS3(t *testing.T) {
	plan := &archive.Plan{
		Source:      "/photos",
		Destination: "s3://bucket/family",
		Operations: []archive.PlannedOperation{{
			SourcePath:      "/photos/a.jpg",
			DestinationPath: "family/2019/08-August/a.jpg",
			CaptureDate:     time.Date(2019, 8, 17, 0, 0, 0, 0, time.Local),
		}},
	}

	var buf bytes.Buffer
	printPreview(&buf, plan)
	if want := "[2019-08-17] a.jpg -> 2019/08-August/a.jpg"; !strings.Contains(buf.String(), want) {
		t.Errorf("preview missing %q:\n%s", want, buf.String())
	}
}

func TestRelativeTo(t *testing.T) {
	tests := []struct {
		root, path, want string
	}{
		{"/photos", "/photos/a.jpg", "a.jpg"},
		{"/photos", "/photos/trip/a.jpg", "trip/a.jpg"},
		{"/photos", "/elsewhere/a.jpg", "/elsewhere/a.jpg"},
		{"", "2019/08-August/a.jpg", "2019/08-August/a.jpg"},
	}
	for _, tt := range tests {
		if got := relativeTo(tt.root, tt.path); got != tt.want {
			t.Errorf("relativeTo(%q, %q) = %q, want %q", tt.root, tt.path, got, tt.want)
		}
	}
}

func TestPrintReport(t *testing.T) {
	report := &archive.ExecutionReport{
		RunID:     "id-1",
		Succeeded: 1,
		Total:     2,
		Failures: []archive.OperationFailure{{
			Operation: archive.PlannedOperation{SourcePath: "/photos/b.jpg", DestinationPath: "/archive/2020/01-January/b.jpg"},
			Err:       &archive.CopyError{Source: "/photos/b.jpg", Destination: "/archive/2020/01-January/b.jpg", Err: errors.New("disk full")},
		}},
	}

	var buf bytes.Buffer
	printReport(&buf, report)
	got := buf.String()

	for _, want := range []string{"Failures:", "disk full", "Finished: Copied 1/2 images.", "Run id-1"} {
		if !strings.Contains(got, want) {
			t.Errorf("report missing %q:\n%s", want, got)
		}
	}
}

func TestPrintRun(t *testing.T) {
	started := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	finished := started.Add(2 * time.Second)
	run := &model.Run{
		ID: "id-1", StartedAt: started, FinishedAt: &finished,
		Source: "/photos", Destination: "/archive", Prefix: "trip",
		Status: model.RunStatusPartial, Planned: 2, Succeeded: 1,
	}
	ops := []*model.RunOperation{
		{SourcePath: "/photos/a.jpg", DestinationPath: "/archive/a.jpg", DateSource: "exif", Status: model.OperationCopied},
		{SourcePath: "/photos/b.jpg", DestinationPath: "/archive/b.jpg", DateSource: "mtime", Status: model.OperationFailed, Error: "disk full"},
	}

	var buf bytes.Buffer
	printRun(&buf, run, ops)
	got := buf.String()
	for _, want := range []string{"Prefix:      trip", "partial (1/2 copied)", "failed", "disk full", "(mtime)"} {
		if !strings.Contains(got, want) {
			t.Errorf("run output missing %q:\n%s", want, got)
		}
	}

	buf.Reset()
	printRuns(&buf, []*model.Run{run})
	if !strings.Contains(buf.String(), "1/2  /photos -> /archive  2s") {
		t.Errorf("runs output:\n%s", buf.String())
	}
}

func TestPlural(t *testing.T) {
	if got := plural(1, "file", "files"); got != "1 file" {
		t.Errorf("plural(1) = %q", got)
	}
	if got := plural(3, "file", "files"); got != "3 files" {
		t.Errorf("plural(3) = %q", got)
	}
}
