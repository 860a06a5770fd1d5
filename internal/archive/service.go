package archive

// ScanFunc is called for every file visited by Plan and Validate.
type ScanFunc func(path string)

// ExecuteFunc is called after every operation Execute attempts.
// done counts attempted operations so far; err is nil on success.
type ExecuteFunc func(op PlannedOperation, done, total int, err error)

// Service is the orchestration layer that coordinates the resolver, the
// allocator, the destination and the journal to plan and execute runs.
type Service struct {
	fsmgr     FilesystemManager
	resolver  *DateResolver
	dest      Destination
	journal   Journal
	logger    Logger
	clock     Clock
	idgen     IDGenerator
	maxSuffix int
	onScan    ScanFunc
	onExecute ExecuteFunc
}

// NewService creates a new Service with the provided dependencies.
// journal may be nil, in which case executed runs are not recorded.
func NewService(fsmgr FilesystemManager, reader MetadataReader, dest Destination, journal Journal, logger Logger, clock Clock, idgen IDGenerator) *Service {
	return &Service{
		fsmgr:     fsmgr,
		resolver:  NewDateResolver(fsmgr, reader),
		dest:      dest,
		journal:   journal,
		logger:    logger,
		clock:     clock,
		idgen:     idgen,
		maxSuffix: DefaultMaxSuffix,
	}
}

// SetMaxSuffix bounds the collision counter used by the path allocator.
func (s *Service) SetMaxSuffix(n int) {
	if n > 0 {
		s.maxSuffix = n
	}
}

// SetScanCallback registers a function called for each scanned file.
func (s *Service) SetScanCallback(fn ScanFunc) {
	s.onScan = fn
}

// SetExecuteCallback registers a function called after each executed operation.
func (s *Service) SetExecuteCallback(fn ExecuteFunc) {
	s.onExecute = fn
}

// Resolver returns the service's date resolver.
func (s *Service) Resolver() *DateResolver {
	return s.resolver
}

func (s *Service) scanned(path string) {
	if s.onScan != nil {
		s.onScan(path)
	}
}
