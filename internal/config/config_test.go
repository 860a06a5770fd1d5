package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestManager_ReadWrite(t *testing.T) {
	original := NewConfig("/home/user/.local/share/photo-archive")
	original.Planner.MaxSuffix = 50
	original.S3 = S3Config{Region: "eu-west-1", Endpoint: "http://localhost:9000", UsePathStyle: true}
	original.Encryption.Enabled = true
	original.Filesystem.Ignore = []string{"*.xmp", "exports/**"}

	var buf bytes.Buffer
	m := &Manager{}
	if err := m.Write(&buf, original); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	got, err := m.Read(&buf)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if got.BaseDir != original.BaseDir {
		t.Errorf("BaseDir = %q, want %q", got.BaseDir, original.BaseDir)
	}
	if got.Planner.MaxSuffix != 50 {
		t.Errorf("Planner.MaxSuffix = %d, want 50", got.Planner.MaxSuffix)
	}
	if got.S3.Endpoint != "http://localhost:9000" || !got.S3.UsePathStyle {
		t.Errorf("S3 = %+v, want endpoint and path style kept", got.S3)
	}
	if !got.Encryption.Enabled {
		t.Error("Encryption.Enabled = false, want true")
	}
	if len(got.Filesystem.Ignore) != 2 {
		t.Errorf("len(Filesystem.Ignore) = %d, want 2", len(got.Filesystem.Ignore))
	}
}

func TestNewConfig(t *testing.T) {
	cfg := NewConfig("/data/pa")

	checks := map[string][2]string{
		"LogDir":         {cfg.LogDir, "/data/pa/log"},
		"Database.Type":  {cfg.Database.Type, "sqlite"},
		"Database.Dir":   {cfg.Database.DataDir, "/data/pa/db"},
		"PublicKeyPath":  {cfg.Encryption.PublicKeyPath, "/data/pa/keys/photo-archive.pub"},
		"PrivateKeyPath": {cfg.Encryption.PrivateKeyPath, "/data/pa/keys/photo-archive.key"},
	}
	for name, c := range checks {
		if c[0] != c[1] {
			t.Errorf("%s = %q, want %q", name, c[0], c[1])
		}
	}
	if cfg.Planner.MaxSuffix != DefaultMaxSuffix {
		t.Errorf("Planner.MaxSuffix = %d, want %d", cfg.Planner.MaxSuffix, DefaultMaxSuffix)
	}
	if cfg.Encryption.Enabled {
		t.Error("encryption should be off by default")
	}
}

func TestLoad(t *testing.T) {
	t.Run("missing file yields defaults", func(t *testing.T) {
		dir := t.TempDir()
		cfg, err := Load(filepath.Join(dir, "absent.toml"), dir)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.BaseDir != dir {
			t.Errorf("BaseDir = %q, want %q", cfg.BaseDir, dir)
		}
		if cfg.Database.Type != "sqlite" {
			t.Errorf("Database.Type = %q, want sqlite", cfg.Database.Type)
		}
	})

	t.Run("partial file is completed", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "photo-archive.toml")
		content := "[planner]\nmax_suffix = 3\n\n[database]\ntype = \"memory\"\n"
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("writing config: %v", err)
		}

		cfg, err := Load(path, dir)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.Planner.MaxSuffix != 3 {
			t.Errorf("Planner.MaxSuffix = %d, want 3", cfg.Planner.MaxSuffix)
		}
		if cfg.Database.Type != "memory" || cfg.Database.DataDir != "" {
			t.Errorf("Database = %+v, want memory without data dir", cfg.Database)
		}
		if cfg.LogDir != filepath.Join(dir, "log") {
			t.Errorf("LogDir = %q, want default", cfg.LogDir)
		}
	})

	t.Run("invalid values are rejected", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "photo-archive.toml")
		if err := os.WriteFile(path, []byte("[database]\ntype = \"postgres\"\n"), 0644); err != nil {
			t.Fatalf("writing config: %v", err)
		}
		_, err := Load(path, dir)
		if err == nil || !strings.Contains(err.Error(), "postgres") {
			t.Errorf("Load() error = %v, want unknown database type", err)
		}
	})

	t.Run("malformed toml", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "photo-archive.toml")
		if err := os.WriteFile(path, []byte("[planner\n"), 0644); err != nil {
			t.Fatalf("writing config: %v", err)
		}
		if _, err := Load(path, dir); err == nil {
			t.Error("Load() expected error for malformed file")
		}
	})
}

func TestInit(t *testing.T) {
	t.Run("creates config file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "nested", "photo-archive.toml")

		if err := Init(path, NewConfig(dir)); err != nil {
			t.Fatalf("Init() error = %v", err)
		}

		got, err := ReadFromFile(path)
		if err != nil {
			t.Fatalf("ReadFromFile() error = %v", err)
		}
		if got.BaseDir != dir {
			t.Errorf("BaseDir = %q, want %q", got.BaseDir, dir)
		}
	})

	t.Run("fails if file already exists", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "photo-archive.toml")

		if err := Init(path, NewConfig(dir)); err != nil {
			t.Fatalf("first Init() error = %v", err)
		}
		if err := Init(path, NewConfig(dir)); err == nil {
			t.Fatal("second Init() expected error")
		}
	})
}
