package archive_test

import (
	"testing"

	"photo-archive/internal/archive"
	"photo-archive/internal/destination"
	"photo-archive/internal/testutil"
)

// fixture bundles a service with the fakes behind it.
type fixture struct {
	svc     *archive.Service
	fsmgr   *testutil.MockFilesystemManager
	reader  *testutil.MockMetadataReader
	dest    *destination.MemoryDestination
	journal archive.Journal
	clock   *testutil.StubClock
	ids     *testutil.StubIDGenerator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	fsmgr := testutil.NewMockFilesystemManager()
	reader := testutil.NewMockMetadataReader()
	dest := testutil.NewTestDestination(fsmgr)
	journal := testutil.NewTestJournal(t)
	clock := testutil.FixedClock()
	ids := testutil.NewStubIDGenerator()
	svc := archive.NewService(fsmgr, reader, dest, journal, archive.NewNopLogger(), clock, ids)
	return &fixture{svc: svc, fsmgr: fsmgr, reader: reader, dest: dest, journal: journal, clock: clock, ids: ids}
}

func (f *fixture) resolve(t *testing.T, path string) *archive.Path {
	t.Helper()
	p, err := f.fsmgr.Resolve(path)
	if err != nil {
		t.Fatalf("Resolve(%s) error = %v", path, err)
	}
	return p
}

// addPhoto adds a source file whose capture time tag holds value.
func (f *fixture) addPhoto(path, value string) {
	f.fsmgr.AddFile(path, []byte("image:"+path))
	f.reader.SetCaptureTime(path, value)
}

func (f *fixture) plan(t *testing.T, source, prefix string) *archive.Plan {
	t.Helper()
	plan, err := f.svc.Plan(f.resolve(t, source), testutil.TestDestinationRoot, prefix)
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	return plan
}

func destinations(plan *archive.Plan) []string {
	out := make([]string, len(plan.Operations))
	for i, op := range plan.Operations {
		out[i] = op.DestinationPath
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
