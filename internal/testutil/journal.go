package testutil

import (
	"fmt"
	"testing"
	"time"

	"photo-archive/internal/archive"
	"photo-archive/internal/database"
)

// NewTestJournal opens an in-memory SQLite journal with migrations applied.
// It is closed when the test completes.
func NewTestJournal(t *testing.T) archive.Journal {
	t.Helper()
	journal, err := database.NewSQLiteJournal(":memory:")
	if err != nil {
		t.Fatalf("failed to open journal: %v", err)
	}
	t.Cleanup(func() { journal.Close() })
	return journal
}

// ArchiveEpoch is the instant FixedClock reports. Journal rows written under
// it have predictable started_at and finished_at values.
var ArchiveEpoch = time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

// StubClock is an archive.Clock that only moves when told to.
type StubClock struct {
	now time.Time
}

// FixedClock returns a StubClock set to ArchiveEpoch.
func FixedClock() *StubClock {
	return &StubClock{now: ArchiveEpoch}
}

func (c *StubClock) Now() time.Time { return c.now }

// Set moves the clock, typically between two organize runs so the journal
// can order them.
func (c *StubClock) Set(t time.Time) { c.now = t }

// StubIDGenerator hands out run IDs "id-1", "id-2" and so on, and remembers
// them so tests can tell whether a run ID was drawn.
type StubIDGenerator struct {
	issued []string
}

func NewStubIDGenerator() *StubIDGenerator {
	return &StubIDGenerator{}
}

func (g *StubIDGenerator) New() string {
	id := fmt.Sprintf("id-%d", len(g.issued)+1)
	g.issued = append(g.issued, id)
	return id
}

// Issued returns every run ID handed out so far.
func (g *StubIDGenerator) Issued() []string {
	return g.issued
}

var (
	_ archive.Clock       = (*StubClock)(nil)
	_ archive.IDGenerator = (*StubIDGenerator)(nil)
)
