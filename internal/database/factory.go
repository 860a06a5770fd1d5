package database

import (
	"fmt"
	"path/filepath"

	"photo-archive/internal/archive"
	"photo-archive/internal/config"
)

// JournalFileName is the SQLite file created below database.data_dir.
const JournalFileName = "journal.db"

// NewJournalFromConfig creates a Journal based on the database config type.
// Type "none" disables journaling and returns a nil Journal.
func NewJournalFromConfig(cfg config.DatabaseConfig) (archive.Journal, error) {
	switch cfg.Type {
	case "sqlite":
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("data_dir required for sqlite database")
		}
		return openJournal(filepath.Join(cfg.DataDir, JournalFileName))
	case "memory":
		return openJournal(":memory:")
	case "none":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown database type: %s", cfg.Type)
	}
}

func openJournal(path string) (archive.Journal, error) {
	j, err := NewSQLiteJournal(path)
	if err != nil {
		return nil, err
	}
	return j, nil
}
