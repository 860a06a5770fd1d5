package testutil

import (
	"photo-archive/internal/destination"
)

// TestDestinationRoot is the root of destinations built by NewTestDestination.
const TestDestinationRoot = "/archive"

// NewTestDestination creates an in-memory destination that reads source
// files from fsmgr.
func NewTestDestination(fsmgr *MockFilesystemManager) *destination.MemoryDestination {
	return destination.NewMemoryDestination(TestDestinationRoot, fsmgr.Open)
}
