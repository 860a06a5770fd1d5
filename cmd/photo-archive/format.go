package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"

	"photo-archive/internal/archive"
	"photo-archive/internal/model"
)

var (
	successColor = color.New(color.FgGreen, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	headerColor  = color.New(color.FgBlue, color.Bold)
	dimColor     = color.New(color.FgHiBlack)
)

const (
	timeFormat = "2006-01-02 15:04:05"
	dateFormat = "2006-01-02"
)

func printSection(w io.Writer, title string) {
	fmt.Fprintln(w)
	headerColor.Fprintf(w, "%s\n", title)
}

// printScanErrors lists the files strict validation rejected.
func printScanErrors(w io.Writer, scanErrors []archive.ScanError) {
	printSection(w, fmt.Sprintf("Validation found %s:", plural(len(scanErrors), "problem", "problems")))
	for _, se := range scanErrors {
		errorColor.Fprint(w, "  ✗ ")
		fmt.Fprintf(w, "%s: %s\n", se.File, se.Message)
	}
}

// printPreview shows every planned copy with its capture date, paths
// relative to the source and destination roots. Dates taken from the
// modification time are flagged.
func printPreview(w io.Writer, plan *archive.Plan) {
	printSection(w, fmt.Sprintf("Found %s to organize", plural(len(plan.Operations), "file", "files")))
	dimColor.Fprintf(w, "  %s -> %s\n", plan.Source, plan.Destination)
	root := destinationRoot(plan.Destination)
	for _, op := range plan.Operations {
		fmt.Fprintf(w, "  [%s] %s -> %s", op.CaptureDate.Format(dateFormat),
			relativeTo(plan.Source, op.SourcePath), relativeTo(root, op.DestinationPath))
		if op.DateSource == archive.DateFromModTime {
			warningColor.Fprint(w, "  (mtime)")
		}
		fmt.Fprintln(w)
	}

	if len(plan.Skipped) > 0 {
		printSection(w, fmt.Sprintf("Skipped %s:", plural(len(plan.Skipped), "file", "files")))
		for _, s := range plan.Skipped {
			warningColor.Fprint(w, "  ! ")
			fmt.Fprintf(w, "%s: %s\n", s.Path, s.Reason)
		}
	}
}

// destinationRoot returns the directory or S3 key prefix that planned
// destination paths live below.
func destinationRoot(dest string) string {
	if rest, ok := strings.CutPrefix(dest, "s3://"); ok {
		_, prefix, _ := strings.Cut(rest, "/")
		return strings.TrimSuffix(prefix, "/")
	}
	return dest
}

// relativeTo returns p relative to root, or p itself when it is not below root.
func relativeTo(root, p string) string {
	if root == "" {
		return p
	}
	rel, err := filepath.Rel(root, p)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return p
	}
	return rel
}

// printReport prints the failures of an execution followed by the totals.
func printReport(w io.Writer, report *archive.ExecutionReport) {
	if len(report.Failures) > 0 {
		printSection(w, "Failures:")
		for _, f := range report.Failures {
			errorColor.Fprint(w, "  ✗ ")
			fmt.Fprintf(w, "%s -> %s: %v\n", f.Operation.SourcePath, f.Operation.DestinationPath, f.Err)
		}
	}

	fmt.Fprintln(w)
	c := successColor
	if report.Succeeded < report.Total {
		c = warningColor
	}
	c.Fprintf(w, "Finished: Copied %d/%d images.\n", report.Succeeded, report.Total)
	if report.RunID != "" {
		dimColor.Fprintf(w, "Run %s\n", report.RunID)
	}
}

func printRuns(w io.Writer, runs []*model.Run) {
	for _, r := range runs {
		duration := ""
		if r.FinishedAt != nil {
			duration = r.FinishedAt.Sub(r.StartedAt).Truncate(time.Millisecond).String()
		}
		fmt.Fprintf(w, "%s  %s  ", r.ID, r.StartedAt.Local().Format(timeFormat))
		statusColor(r.Status).Fprintf(w, "%-8s", r.Status)
		fmt.Fprintf(w, "  %d/%d  %s -> %s  %s\n", r.Succeeded, r.Planned, r.Source, r.Destination, duration)
	}
}

func printRun(w io.Writer, run *model.Run, ops []*model.RunOperation) {
	fmt.Fprintf(w, "Run:         %s\n", run.ID)
	fmt.Fprintf(w, "Started:     %s\n", run.StartedAt.Local().Format(timeFormat))
	if run.FinishedAt != nil {
		fmt.Fprintf(w, "Finished:    %s\n", run.FinishedAt.Local().Format(timeFormat))
	}
	fmt.Fprintf(w, "Source:      %s\n", run.Source)
	fmt.Fprintf(w, "Destination: %s\n", run.Destination)
	if run.Prefix != "" {
		fmt.Fprintf(w, "Prefix:      %s\n", run.Prefix)
	}
	fmt.Fprint(w, "Status:      ")
	statusColor(run.Status).Fprintf(w, "%s", run.Status)
	fmt.Fprintf(w, " (%d/%d copied)\n", run.Succeeded, run.Planned)

	printSection(w, "Operations:")
	for _, op := range ops {
		statusColor(op.Status).Fprintf(w, "  %-6s", op.Status)
		fmt.Fprintf(w, "  %s -> %s  %s (%s)", op.SourcePath, op.DestinationPath,
			op.CaptureDate.Format(timeFormat), op.DateSource)
		if op.Error != "" {
			errorColor.Fprintf(w, "  %s", op.Error)
		}
		fmt.Fprintln(w)
	}
}

func statusColor(status string) *color.Color {
	switch status {
	case model.RunStatusSuccess, model.OperationCopied:
		return successColor
	case model.RunStatusPartial, model.RunStatusRunning:
		return warningColor
	default:
		return errorColor
	}
}

func plural(n int, singular, pluralForm string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, singular)
	}
	return fmt.Sprintf("%d %s", n, pluralForm)
}
