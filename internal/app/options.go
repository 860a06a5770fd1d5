package app

import (
	"path/filepath"
	"strings"

	"photo-archive/internal/archive"
)

// Options holds the settings of a single organize invocation.
// They are resolved once from the command line and never change afterwards.
type Options struct {
	Source      string
	Destination string
	Prefix      string
	Force       bool // proceed even when strict validation finds errors
	Yes         bool // skip the confirmation prompt
	DryRun      bool // stop after the preview
	PlanOut     string
	Verbose     bool
}

// NewOptions builds Options from the positional arguments SOURCE DEST [PREFIX].
func NewOptions(args []string) (Options, error) {
	if len(args) < 2 || len(args) > 3 {
		return Options{}, archive.NewUsageError("expected SOURCE DEST [PREFIX], got %d argument(s)", len(args))
	}
	opts := Options{Source: args[0], Destination: args[1]}
	if len(args) == 3 {
		opts.Prefix = args[2]
	}
	return opts, opts.Validate()
}

// Validate reports invalid combinations as *archive.UsageError.
func (o Options) Validate() error {
	if strings.TrimSpace(o.Source) == "" {
		return archive.NewUsageError("source directory is required")
	}
	if strings.TrimSpace(o.Destination) == "" {
		return archive.NewUsageError("destination is required")
	}
	return validatePrefix(o.Prefix)
}

// validatePrefix accepts a relative directory path such as "trip" or
// "trip/day1". Each segment becomes one directory below the month folder.
func validatePrefix(prefix string) error {
	if prefix == "" {
		return nil
	}
	if filepath.IsAbs(prefix) || strings.HasPrefix(prefix, "/") {
		return archive.NewUsageError("prefix must be a relative path, got %q", prefix)
	}
	for _, seg := range strings.Split(strings.ReplaceAll(prefix, `\`, "/"), "/") {
		switch seg {
		case "":
			return archive.NewUsageError("prefix %q has an empty path segment", prefix)
		case ".", "..":
			return archive.NewUsageError("prefix %q must not contain %q", prefix, seg)
		}
	}
	return nil
}
