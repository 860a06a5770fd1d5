package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/pflag"

	"photo-archive/internal/app"
	"photo-archive/internal/archive"
	"photo-archive/internal/testutil"
)

func init() {
	color.NoColor = true
}

// setupEnv points config and data directories at a temp dir.
func setupEnv(t *testing.T) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("PHOTO_ARCHIVE_CONFIG", filepath.Join(home, "photo-archive.toml"))
	t.Setenv("PHOTO_ARCHIVE_HOME", home)
}

// run executes the root command with args and stdin, resetting flags left
// over from earlier runs.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	for _, fs := range []*pflag.FlagSet{organizeCmd.Flags(), historyCmd.Flags(), decryptCmd.Flags(), rootCmd.PersistentFlags()} {
		resetFlags(fs)
	}
	var out bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetOut(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	err := rootCmd.Execute()
	return out.String(), err
}

func resetFlags(fs *pflag.FlagSet) {
	fs.VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
}

func sourceTree(t *testing.T, corrupt bool) string {
	t.Helper()
	src := t.TempDir()
	files := map[string][]byte{
		"a.jpg": testutil.JPEGWithCaptureTime(t, "2019:08:17 14:03:59"),
		"b.jpg": testutil.JPEGWithCaptureTime(t, "2020:01:05 08:00:00"),
	}
	if corrupt {
		files["broken.jpg"] = []byte("not an image")
	}
	for name, data := range files {
		if err := os.WriteFile(filepath.Join(src, name), data, 0644); err != nil {
			t.Fatal(err)
		}
	}
	return src
}

func countFiles(t *testing.T, root string) int {
	t.Helper()
	n := 0
	filepath.WalkDir(root, func(_ string, d os.DirEntry, err error) error {
		if err == nil && !d.IsDir() {
			n++
		}
		return nil
	})
	return n
}

func TestOrganize(t *testing.T) {
	setupEnv(t)
	src := sourceTree(t, false)
	dst := t.TempDir()

	out, err := run(t, "", "organize", src, dst, "--yes")
	if err != nil {
		t.Fatalf("organize error = %v\n%s", err, out)
	}
	if !strings.Contains(out, "Finished: Copied 2/2 images.") {
		t.Errorf("output missing summary:\n%s", out)
	}
	if _, err := os.Stat(filepath.Join(dst, "2019", "08-August", "a.jpg")); err != nil {
		t.Errorf("a.jpg not archived: %v", err)
	}

	out, err = run(t, "", "history")
	if err != nil {
		t.Fatalf("history error = %v", err)
	}
	if !strings.Contains(out, "success") || !strings.Contains(out, "2/2") {
		t.Errorf("history output:\n%s", out)
	}
}

func TestOrganize_JournalUnavailable(t *testing.T) {
	setupEnv(t)
	// The journal directory is taken by a regular file.
	dbPath := filepath.Join(os.Getenv("PHOTO_ARCHIVE_HOME"), "db")
	if err := os.WriteFile(dbPath, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	src := sourceTree(t, false)
	dst := t.TempDir()

	out, err := run(t, "", "organize", src, dst, "--yes")
	if err != nil {
		t.Fatalf("organize error = %v\n%s", err, out)
	}
	if !strings.Contains(out, "run journal unavailable") {
		t.Errorf("output missing journal warning:\n%s", out)
	}
	if !strings.Contains(out, "Finished: Copied 2/2 images.") {
		t.Errorf("output missing summary:\n%s", out)
	}
	if n := countFiles(t, dst); n != 2 {
		t.Errorf("%d files copied, want 2", n)
	}

	if _, err := run(t, "", "history"); err == nil {
		t.Error("history should fail when the journal cannot be opened")
	}
}

func TestOrganize_ValidationGate(t *testing.T) {
	setupEnv(t)
	src := sourceTree(t, true)
	dst := t.TempDir()

	out, err := run(t, "", "organize", src, dst, "--yes")
	if err == nil {
		t.Fatal("organize without --force should fail on validation errors")
	}
	if !strings.Contains(out, "broken.jpg") {
		t.Errorf("scan error not reported:\n%s", out)
	}
	if n := countFiles(t, dst); n != 0 {
		t.Errorf("%d files copied despite failed validation", n)
	}

	out, err = run(t, "", "organize", src, dst, "--yes", "--force")
	if err != nil {
		t.Fatalf("organize --force error = %v\n%s", err, out)
	}
	if !strings.Contains(out, "Finished: Copied 3/3 images.") {
		t.Errorf("output missing summary:\n%s", out)
	}
}

func TestOrganize_Declined(t *testing.T) {
	setupEnv(t)
	src := sourceTree(t, false)
	dst := t.TempDir()

	_, err := run(t, "n\n", "organize", src, dst)
	if !errors.Is(err, app.ErrDeclined) {
		t.Fatalf("organize error = %v, want ErrDeclined", err)
	}
	if n := countFiles(t, dst); n != 0 {
		t.Errorf("%d files copied after declining", n)
	}
}

func TestOrganize_EmptySource(t *testing.T) {
	setupEnv(t)

	out, err := run(t, "", "organize", t.TempDir(), t.TempDir())
	if err != nil {
		t.Fatalf("organize error = %v", err)
	}
	if !strings.Contains(out, "No files found in source directory.") {
		t.Errorf("output:\n%s", out)
	}
}

func TestOrganize_DryRunWritesPlan(t *testing.T) {
	setupEnv(t)
	src := sourceTree(t, false)
	dst := filepath.Join(t.TempDir(), "archive")
	planPath := filepath.Join(t.TempDir(), "plan.yaml")

	out, err := run(t, "", "organize", src, dst, "--dry-run", "--plan-out", planPath)
	if err != nil {
		t.Fatalf("organize error = %v", err)
	}
	if !strings.Contains(out, "Dry run: nothing copied.") {
		t.Errorf("output:\n%s", out)
	}
	if _, err := os.Stat(dst); !os.IsNotExist(err) {
		t.Errorf("dry run created the destination: %v", err)
	}
	data, err := os.ReadFile(planPath)
	if err != nil {
		t.Fatalf("plan file: %v", err)
	}
	if !strings.Contains(string(data), "files_found: 2") {
		t.Errorf("plan file:\n%s", data)
	}
}

func TestOrganize_UsageError(t *testing.T) {
	setupEnv(t)

	_, err := run(t, "", "organize", t.TempDir())
	var uerr *archive.UsageError
	if !errors.As(err, &uerr) {
		t.Errorf("organize error = %v, want *archive.UsageError", err)
	}
}

func TestConfigInitAndList(t *testing.T) {
	setupEnv(t)

	out, err := run(t, "", "config", "init")
	if err != nil {
		t.Fatalf("config init error = %v", err)
	}
	wantJournal := filepath.Join(os.Getenv("PHOTO_ARCHIVE_HOME"), "db")
	if !strings.Contains(out, "Journal:  "+wantJournal) {
		t.Errorf("config init output:\n%s", out)
	}
	if _, err := run(t, "", "config", "init"); err == nil {
		t.Error("second config init should fail")
	}

	out, err = run(t, "", "config", "list")
	if err != nil {
		t.Fatalf("config list error = %v", err)
	}
	if !strings.Contains(out, "max_suffix = 10000") {
		t.Errorf("config list output:\n%s", out)
	}
}
