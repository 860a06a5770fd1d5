package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// DefaultMaxSuffix bounds the collision counter when the config leaves it unset.
const DefaultMaxSuffix = 10000

// Config represents the main configuration for photo-archive.
type Config struct {
	BaseDir    string           `toml:"base_dir"`
	LogDir     string           `toml:"log_dir"`
	Planner    PlannerConfig    `toml:"planner"`
	Database   DatabaseConfig   `toml:"database"`
	S3         S3Config         `toml:"s3"`
	Encryption EncryptionConfig `toml:"encryption"`
	Filesystem FilesystemConfig `toml:"filesystem"`
}

// PlannerConfig holds settings for building plans.
type PlannerConfig struct {
	MaxSuffix int `toml:"max_suffix"` // highest "(n)" tried before a file is skipped
}

// DatabaseConfig represents configuration for the run journal.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type DatabaseConfig struct {
	Type    string `toml:"type"`               // "sqlite", "memory" or "none"
	DataDir string `toml:"data_dir,omitempty"` // only used for type=sqlite
}

// S3Config holds connection settings used when the destination is an s3:// URL.
// Empty fields fall back to the default AWS credential chain.
type S3Config struct {
	Region          string `toml:"region,omitempty"`
	Endpoint        string `toml:"endpoint,omitempty"`
	AccessKeyID     string `toml:"access_key_id,omitempty"`
	SecretAccessKey string `toml:"secret_access_key,omitempty"`
	UsePathStyle    bool   `toml:"use_path_style,omitempty"`
	PartSize        int64  `toml:"part_size,omitempty"` // multipart chunk size in bytes
}

// EncryptionConfig holds paths to the age key pair used for encrypted S3 copies.
type EncryptionConfig struct {
	Type           string `toml:"type"` // "age" (default) or "test"
	Enabled        bool   `toml:"enabled"`
	PublicKeyPath  string `toml:"public_key_path"`
	PrivateKeyPath string `toml:"private_key_path"`
}

// FilesystemConfig holds filesystem-related settings.
type FilesystemConfig struct {
	Ignore []string `toml:"ignore"`
}

// NewConfig creates a Config with every path placed below baseDir.
func NewConfig(baseDir string) *Config {
	cfg := &Config{BaseDir: baseDir}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults fills in every field the file left empty.
func (c *Config) applyDefaults() {
	if c.LogDir == "" {
		c.LogDir = filepath.Join(c.BaseDir, "log")
	}
	if c.Planner.MaxSuffix == 0 {
		c.Planner.MaxSuffix = DefaultMaxSuffix
	}
	if c.Database.Type == "" {
		c.Database.Type = "sqlite"
	}
	if c.Database.Type == "sqlite" && c.Database.DataDir == "" {
		c.Database.DataDir = filepath.Join(c.BaseDir, "db")
	}
	if c.Encryption.PublicKeyPath == "" {
		c.Encryption.PublicKeyPath = filepath.Join(c.BaseDir, "keys", "photo-archive.pub")
	}
	if c.Encryption.PrivateKeyPath == "" {
		c.Encryption.PrivateKeyPath = filepath.Join(c.BaseDir, "keys", "photo-archive.key")
	}
}

// Validate checks the values a user can get wrong in the file.
func (c *Config) Validate() error {
	switch c.Database.Type {
	case "sqlite", "memory", "none":
	default:
		return fmt.Errorf("unknown database type: %q", c.Database.Type)
	}
	if c.Planner.MaxSuffix < 0 {
		return fmt.Errorf("planner.max_suffix must not be negative, got %d", c.Planner.MaxSuffix)
	}
	if c.S3.PartSize < 0 {
		return fmt.Errorf("s3.part_size must not be negative, got %d", c.S3.PartSize)
	}
	return nil
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from the specified file path.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

// Load reads the config at path and fills unset fields with defaults rooted
// at baseDir. A missing file is not an error: the defaults are returned.
func Load(path, baseDir string) (*Config, error) {
	cfg, err := ReadFromFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		cfg = &Config{}
	}
	if cfg.BaseDir == "" {
		cfg.BaseDir = baseDir
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// writeToFile writes a Config to the specified file path.
func writeToFile(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init writes cfg to path. It fails if a config file already exists there.
func Init(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
