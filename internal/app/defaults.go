package app

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths locates the files photo-archive keeps between runs. The journal,
// the key pair and the session logs all live below Home unless the config
// file moves them.
type Paths struct {
	ConfigFile string
	Home       string
}

// ResolvePaths reads PHOTO_ARCHIVE_CONFIG and PHOTO_ARCHIVE_HOME, falling back
// to ~/.config/photo-archive.toml and ~/.local/share/photo-archive.
func ResolvePaths() (Paths, error) {
	var p Paths
	var err error
	if p.ConfigFile, err = fromEnv("PHOTO_ARCHIVE_CONFIG", ".config", "photo-archive.toml"); err != nil {
		return Paths{}, err
	}
	if p.Home, err = fromEnv("PHOTO_ARCHIVE_HOME", ".local", "share", "photo-archive"); err != nil {
		return Paths{}, err
	}
	return p, nil
}

// fromEnv returns the variable's value, or homeRel joined below the user's
// home directory when it is unset.
func fromEnv(name string, homeRel ...string) (string, error) {
	if v := os.Getenv(name); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory for %s: %w", name, err)
	}
	return filepath.Join(append([]string{home}, homeRel...)...), nil
}
