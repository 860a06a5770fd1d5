package fs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewIgnoreMatcher(t *testing.T) {
	t.Run("drops blank lines and comments", func(t *testing.T) {
		t.Parallel()
		m := NewIgnoreMatcher([]string{"", "   ", "# thumbnails", "*.thm"})
		if len(m.patterns) != 1 {
			t.Fatalf("expected 1 pattern, got %d", len(m.patterns))
		}
		if m.patterns[0].pattern != "*.thm" {
			t.Errorf("expected *.thm, got %s", m.patterns[0].pattern)
		}
	})

	t.Run("patterns with a slash match the relative path", func(t *testing.T) {
		t.Parallel()
		m := NewIgnoreMatcher([]string{"Thumbs.db", "exports/**"})
		if m.patterns[0].matchPath {
			t.Error("Thumbs.db should match the basename")
		}
		if !m.patterns[1].matchPath {
			t.Error("exports/** should match the relative path")
		}
	})
}

func TestIgnoreMatcher_Match(t *testing.T) {
	tests := []struct {
		name         string
		patterns     []string
		relativePath string
		want         bool
	}{
		{"extension glob at root", []string{"*.xmp"}, "IMG_0001.xmp", true},
		{"extension glob in album", []string{"*.xmp"}, filepath.Join("2019", "trip", "IMG_0001.xmp"), true},
		{"extension glob leaves images alone", []string{"*.xmp"}, "IMG_0001.jpg", false},
		{"exact basename anywhere", []string{".DS_Store"}, filepath.Join("album", ".DS_Store"), true},
		{"path pattern", []string{"exports/web"}, filepath.Join("exports", "web"), true},
		{"path pattern wrong parent", []string{"exports/web"}, filepath.Join("raw", "web"), false},
		{"double star crosses levels", []string{"exports/**/*.jpg"}, filepath.Join("exports", "a", "b", "small.jpg"), true},
		{"double star at any depth", []string{"**/@eaDir/**"}, filepath.Join("2020", "@eaDir", "IMG.jpg"), true},
		{"single star stays on one level", []string{"exports/*.jpg"}, filepath.Join("exports", "a", "small.jpg"), false},
		{"brace alternatives", []string{"*.{thm,lrv}"}, "GOPR0001.lrv", true},
		{"character class", []string{"IMG_000[12].jpg"}, "IMG_0002.jpg", true},
		{"question mark is one char", []string{"?.png"}, "ab.png", false},
		{"no patterns", nil, "IMG_0001.jpg", false},
		{"second pattern matches", []string{"*.xmp", "*.aae"}, "IMG_0001.aae", true},
		{"malformed pattern is ignored", []string{"[", "*.aae"}, "IMG_0001.aae", true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m := NewIgnoreMatcher(tt.patterns)
			if got := m.Match(tt.relativePath); got != tt.want {
				t.Errorf("Match(%q) = %v, want %v", tt.relativePath, got, tt.want)
			}
		})
	}
}

func TestParseIgnoreFile(t *testing.T) {
	t.Run("returns raw lines", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), IgnoreFileName)
		content := "*.xmp\n# sidecars\n\n*.aae\nexports/**\n"
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("writing ignore file: %v", err)
		}

		patterns, err := ParseIgnoreFile(path)
		if err != nil {
			t.Fatalf("ParseIgnoreFile() error = %v", err)
		}
		if len(patterns) != 5 {
			t.Fatalf("expected 5 raw lines, got %d", len(patterns))
		}
		if m := NewIgnoreMatcher(patterns); len(m.patterns) != 3 {
			t.Errorf("expected 3 parsed patterns, got %d", len(m.patterns))
		}
	})

	t.Run("missing file yields nothing", func(t *testing.T) {
		t.Parallel()
		patterns, err := ParseIgnoreFile(filepath.Join(t.TempDir(), IgnoreFileName))
		if err != nil {
			t.Fatalf("ParseIgnoreFile() error = %v", err)
		}
		if patterns != nil {
			t.Errorf("expected nil patterns, got %v", patterns)
		}
	})
}
