package app

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"photo-archive/internal/archive"
	"photo-archive/internal/config"
	"photo-archive/internal/database"
	"photo-archive/internal/destination"
	"photo-archive/internal/encryption"
	"photo-archive/internal/fs"
	"photo-archive/internal/metadata"
	"photo-archive/internal/model"
)

// ArchiveApp is the application layer between the CLI and archive.Service.
// It constructs all dependencies from config, exposes high-level operations
// that accept raw string paths, and closes the journal and log file on Close.
type ArchiveApp struct {
	cfg     *config.Config
	opts    Options
	fsmgr   archive.FilesystemManager
	dest    archive.Destination
	journal archive.Journal
	// journalErr is set when the journal could not be opened.
	journalErr error
	encryptor  archive.Encryptor
	service    *archive.Service
	logFile    *os.File
}

// NewArchiveApp creates a fully wired ArchiveApp from the given config.
// opts.Destination may be empty for commands that never plan or copy
// (history, keys, decrypt). The caller must call Close when done.
func NewArchiveApp(ctx context.Context, cfg *config.Config, opts Options) (*ArchiveApp, error) {
	fsmgr := fs.NewOSFilesystemManager(cfg.Filesystem.Ignore)

	enc, err := encryption.NewEncryptorFromConfig(cfg.Encryption)
	if err != nil {
		return nil, fmt.Errorf("creating encryptor: %w", err)
	}

	var dest archive.Destination
	if opts.Destination != "" {
		var destEnc archive.Encryptor
		if cfg.Encryption.Enabled && destination.IsS3URL(opts.Destination) {
			if !enc.IsConfigured() {
				return nil, fmt.Errorf("encryption is enabled but no keys exist: run `photo-archive keys init`")
			}
			destEnc = enc
		}
		dest, err = destination.NewDestination(ctx, opts.Destination, cfg.S3, destEnc)
		if err != nil {
			return nil, fmt.Errorf("opening destination: %w", err)
		}
	}

	sessionID := time.Now().UTC().Format("20060102T150405Z")
	logger, logFile, err := newLogger(cfg.LogDir, sessionID, opts.Verbose)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	// Copying never depends on the journal. Only history needs it.
	journal, journalErr := database.NewJournalFromConfig(cfg.Database)
	if journalErr != nil {
		logger.Warn("run journal unavailable, continuing without it", "error", journalErr)
		journal = nil
	}

	svc := archive.NewService(fsmgr, metadata.NewEXIFReader(), dest, journal,
		&slogAdapter{l: logger}, archive.RealClock{}, archive.UUIDGenerator{})
	svc.SetMaxSuffix(cfg.Planner.MaxSuffix)

	return &ArchiveApp{
		cfg:        cfg,
		opts:       opts,
		fsmgr:      fsmgr,
		dest:       dest,
		journal:    journal,
		journalErr: journalErr,
		encryptor:  enc,
		service:    svc,
		logFile:    logFile,
	}, nil
}

// SetScanCallback forwards fn to the service; it is called once per file walked.
func (a *ArchiveApp) SetScanCallback(fn archive.ScanFunc) {
	a.service.SetScanCallback(fn)
}

// SetExecuteCallback forwards fn to the service; it is called after each operation.
func (a *ArchiveApp) SetExecuteCallback(fn archive.ExecuteFunc) {
	a.service.SetExecuteCallback(fn)
}

// resolveSource turns the source argument into a directory path. Every
// failure here is a usage error.
func (a *ArchiveApp) resolveSource() (*archive.Path, error) {
	p, err := a.fsmgr.Resolve(a.opts.Source)
	if err != nil {
		return nil, archive.NewUsageError("source directory %s: %v", a.opts.Source, err)
	}
	if !p.IsDir() {
		return nil, archive.NewUsageError("source is not a directory: %s", p.String())
	}
	return p, nil
}

func (a *ArchiveApp) requireDestination() error {
	if a.dest == nil {
		return archive.NewUsageError("no destination given")
	}
	return nil
}

// Validate runs strict validation over the source tree.
func (a *ArchiveApp) Validate() ([]archive.ScanError, error) {
	source, err := a.resolveSource()
	if err != nil {
		return nil, err
	}
	return a.service.Validate(source)
}

// Plan builds the copy plan for the source tree. Nothing is written.
func (a *ArchiveApp) Plan() (*archive.Plan, error) {
	if err := a.requireDestination(); err != nil {
		return nil, err
	}
	source, err := a.resolveSource()
	if err != nil {
		return nil, err
	}
	plan, err := a.service.Plan(source, a.dest.Root(), a.opts.Prefix)
	if err != nil {
		return nil, err
	}
	if u, ok := a.dest.(interface{ URL() string }); ok {
		plan.Destination = u.URL()
	}
	return plan, nil
}

// Execute copies an approved plan.
func (a *ArchiveApp) Execute(plan *archive.Plan) (*archive.ExecutionReport, error) {
	if err := a.requireDestination(); err != nil {
		return nil, err
	}
	return a.service.Execute(plan)
}

// JournalError returns the error from opening the journal, or nil.
func (a *ArchiveApp) JournalError() error {
	return a.journalErr
}

// History returns the most recent runs.
func (a *ArchiveApp) History(limit int) ([]*model.Run, error) {
	if a.journalErr != nil {
		return nil, fmt.Errorf("opening journal: %w", a.journalErr)
	}
	return a.service.GetHistory(limit)
}

// GetRun returns one run and its operations.
func (a *ArchiveApp) GetRun(runID string) (*model.Run, []*model.RunOperation, error) {
	if a.journalErr != nil {
		return nil, nil, fmt.Errorf("opening journal: %w", a.journalErr)
	}
	return a.service.GetRun(runID)
}

// KeysConfigured reports whether an encryption key pair already exists.
func (a *ArchiveApp) KeysConfigured() bool {
	return a.encryptor.IsConfigured()
}

// SetupKeys generates the encryption key pair protected by passphrase.
func (a *ArchiveApp) SetupKeys(passphrase string) error {
	if err := a.encryptor.Setup(passphrase); err != nil {
		return fmt.Errorf("setting up keys: %w", err)
	}
	return nil
}

// Decrypt restores the plaintext of an encrypted archive copy at inPath.
// When outPath is empty the ".age" suffix is stripped from inPath.
// An existing output file is never replaced. Returns the path written.
func (a *ArchiveApp) Decrypt(inPath, outPath, passphrase string) (string, error) {
	if outPath == "" {
		if !strings.HasSuffix(inPath, destination.EncryptedSuffix) {
			return "", archive.NewUsageError("cannot derive output name for %s: pass -o", inPath)
		}
		outPath = strings.TrimSuffix(inPath, destination.EncryptedSuffix)
	}

	dc, err := a.encryptor.Unlock(passphrase)
	if err != nil {
		return "", fmt.Errorf("unlocking private key: %w", err)
	}

	in, err := os.Open(inPath)
	if err != nil {
		return "", fmt.Errorf("opening encrypted file: %w", err)
	}
	defer in.Close()

	out, err := os.OpenFile(outPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return "", fmt.Errorf("creating output file: %w", err)
	}
	if err := dc.Decrypt(in, out); err != nil {
		out.Close()
		os.Remove(outPath)
		return "", fmt.Errorf("decrypting %s: %w", inPath, err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("closing output file: %w", err)
	}
	return outPath, nil
}

// Close releases the journal and the log file.
func (a *ArchiveApp) Close() error {
	var firstErr error
	if a.journal != nil {
		if err := a.journal.Close(); err != nil {
			firstErr = fmt.Errorf("closing journal: %w", err)
		}
	}
	if a.logFile != nil {
		a.logFile.Close()
	}
	return firstErr
}
