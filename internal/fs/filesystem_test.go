package fs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("creating dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func relPaths(t *testing.T, root string, m *OSFilesystemManager, recursive bool) []string {
	t.Helper()
	dir, err := m.Resolve(root)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	files, _, err := m.FindFiles(dir, recursive)
	if err != nil {
		t.Fatalf("FindFiles() error = %v", err)
	}
	var out []string
	for _, f := range files {
		rel, err := filepath.Rel(dir.String(), f.String())
		if err != nil {
			t.Fatalf("Rel() error = %v", err)
		}
		out = append(out, filepath.ToSlash(rel))
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestOSFilesystemManager_Resolve(t *testing.T) {
	m := NewOSFilesystemManager(nil)

	t.Run("directory", func(t *testing.T) {
		dir := t.TempDir()
		p, err := m.Resolve(dir)
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if !p.IsDir() {
			t.Error("expected directory")
		}
		if !filepath.IsAbs(p.String()) {
			t.Errorf("expected absolute path, got %s", p.String())
		}
	})

	t.Run("file", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "a.jpg")
		writeFile(t, file, "x")
		p, err := m.Resolve(file)
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if p.IsDir() {
			t.Error("expected regular file")
		}
		if p.Info().Size() != 1 {
			t.Errorf("size = %d, want 1", p.Info().Size())
		}
	})

	t.Run("missing", func(t *testing.T) {
		if _, err := m.Resolve(filepath.Join(t.TempDir(), "nope")); err == nil {
			t.Error("expected error for missing path")
		}
	})
}

func TestOSFilesystemManager_FindFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "b.jpg"), "b")
	writeFile(t, filepath.Join(root, "a.jpg"), "a")
	writeFile(t, filepath.Join(root, "album", "c.png"), "c")
	writeFile(t, filepath.Join(root, "album", "nested", "d.jpg"), "d")
	writeFile(t, filepath.Join(root, "album", "c.xmp"), "sidecar")

	t.Run("recursive walk in lexical order", func(t *testing.T) {
		got := relPaths(t, root, NewOSFilesystemManager(nil), true)
		want := []string{"a.jpg", "album/c.png", "album/c.xmp", "album/nested/d.jpg", "b.jpg"}
		if !equalStrings(got, want) {
			t.Errorf("FindFiles() = %v, want %v", got, want)
		}
	})

	t.Run("non-recursive stays at the top level", func(t *testing.T) {
		got := relPaths(t, root, NewOSFilesystemManager(nil), false)
		want := []string{"a.jpg", "b.jpg"}
		if !equalStrings(got, want) {
			t.Errorf("FindFiles() = %v, want %v", got, want)
		}
	})

	t.Run("configured patterns", func(t *testing.T) {
		got := relPaths(t, root, NewOSFilesystemManager([]string{"*.xmp", "album/nested/**"}), true)
		want := []string{"a.jpg", "album/c.png", "b.jpg"}
		if !equalStrings(got, want) {
			t.Errorf("FindFiles() = %v, want %v", got, want)
		}
	})

	t.Run("not a directory", func(t *testing.T) {
		m := NewOSFilesystemManager(nil)
		file, err := m.Resolve(filepath.Join(root, "a.jpg"))
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if _, _, err := m.FindFiles(file, true); err == nil {
			t.Error("expected error for file path")
		}
	})
}

func TestOSFilesystemManager_FindFilesIgnoreFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, IgnoreFileName), "# sidecars\n*.aae\n")
	writeFile(t, filepath.Join(root, "IMG_1.HEIC"), "h")
	writeFile(t, filepath.Join(root, "IMG_1.aae"), "a")

	got := relPaths(t, root, NewOSFilesystemManager(nil), true)
	want := []string{"IMG_1.HEIC"}
	if !equalStrings(got, want) {
		t.Errorf("FindFiles() = %v, want %v", got, want)
	}
}

func TestOSFilesystemManager_FindFilesSkipsSymlinks(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "real.jpg"), "r")
	if err := os.Symlink(filepath.Join(root, "real.jpg"), filepath.Join(root, "link.jpg")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	got := relPaths(t, root, NewOSFilesystemManager(nil), true)
	want := []string{"real.jpg"}
	if !equalStrings(got, want) {
		t.Errorf("FindFiles() = %v, want %v", got, want)
	}
}

func TestOSFilesystemManager_FindFilesReportsUnreadableDirs(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root can read directories without permission bits")
	}
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.jpg"), "a")
	writeFile(t, filepath.Join(root, "private", "b.jpg"), "b")
	private := filepath.Join(root, "private")
	if err := os.Chmod(private, 0); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chmod(private, 0755) })

	m := NewOSFilesystemManager(nil)
	dir, err := m.Resolve(root)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	files, skipped, err := m.FindFiles(dir, true)
	if err != nil {
		t.Fatalf("FindFiles() error = %v", err)
	}
	if len(files) != 1 || filepath.Base(files[0].String()) != "a.jpg" {
		t.Errorf("files = %v, want only a.jpg", files)
	}
	if len(skipped) != 1 || skipped[0].Path != private {
		t.Fatalf("skipped = %+v, want %s", skipped, private)
	}
	if !strings.Contains(skipped[0].Reason, "unreadable directory") {
		t.Errorf("Reason = %q", skipped[0].Reason)
	}
}
