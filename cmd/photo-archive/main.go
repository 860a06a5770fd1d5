package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"photo-archive/internal/app"
	"photo-archive/internal/archive"
	"photo-archive/internal/config"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, app.ErrDeclined) {
			fmt.Fprintln(os.Stderr, "Aborted.")
		} else {
			errorColor.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// loadConfig reads the config file, falling back to defaults when it does not exist.
func loadConfig() (*config.Config, string, error) {
	paths, err := app.ResolvePaths()
	if err != nil {
		return nil, "", fmt.Errorf("locating config: %w", err)
	}
	cfg, err := config.Load(paths.ConfigFile, paths.Home)
	if err != nil {
		return nil, "", fmt.Errorf("reading config: %w", err)
	}
	return cfg, paths.ConfigFile, nil
}

// newApp reads the config and creates an ArchiveApp. The caller must defer app.Close().
func newApp(cmd *cobra.Command, opts app.Options) (*app.ArchiveApp, error) {
	cfg, _, err := loadConfig()
	if err != nil {
		return nil, err
	}
	opts.Verbose, _ = cmd.Flags().GetBool("verbose")

	a, err := app.NewArchiveApp(cmd.Context(), cfg, opts)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}
	return a, nil
}

// newSpinner returns an indeterminate progress indicator on stderr, or nil
// when stderr is not a terminal.
func newSpinner(description string) *progressbar.ProgressBar {
	if !term.IsTerminal(int(os.Stderr.Fd())) {
		return nil
	}
	return progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

func finishSpinner(bar *progressbar.ProgressBar) {
	if bar != nil {
		_ = bar.Finish()
	}
}

// passphraseReader prompts on stderr and reads passphrases without echo when
// the input is a terminal, or one plain line per call otherwise.
type passphraseReader struct {
	in  io.Reader
	buf *bufio.Reader
}

func newPassphraseReader(in io.Reader) *passphraseReader {
	return &passphraseReader{in: in, buf: bufio.NewReader(in)}
}

func (p *passphraseReader) read(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	if f, ok := p.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("reading passphrase: %w", err)
		}
		return string(b), nil
	}
	line, err := p.buf.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading passphrase: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

var rootCmd = &cobra.Command{
	Use:           "photo-archive",
	Short:         "Organize photos into a date-structured archive",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// organize command
var organizeCmd = &cobra.Command{
	Use:   "organize SOURCE DEST [PREFIX]",
	Short: "Copy images into DEST/YYYY/MM-Month by capture date",
	Long: `Copy every file below SOURCE into DEST/<year>/<MM-Month>/[PREFIX/] using the
EXIF capture time, or the file's modification time when no capture time is
available. Name collisions get a "(n)" suffix. Nothing is ever overwritten or
deleted. DEST may be a directory or an s3://bucket/prefix URL.`,
	RunE: runOrganize,
}

func runOrganize(cmd *cobra.Command, args []string) error {
	opts, err := app.NewOptions(args)
	if err != nil {
		return err
	}
	opts.Force, _ = cmd.Flags().GetBool("force")
	opts.Yes, _ = cmd.Flags().GetBool("yes")
	opts.DryRun, _ = cmd.Flags().GetBool("dry-run")
	opts.PlanOut, _ = cmd.Flags().GetString("plan-out")

	a, err := newApp(cmd, opts)
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()
	if err := a.JournalError(); err != nil {
		warningColor.Fprintf(out, "Warning: run journal unavailable, this run will not be recorded: %v\n", err)
	}

	bar := newSpinner("Validating")
	a.SetScanCallback(func(string) {
		if bar != nil {
			_ = bar.Add(1)
		}
	})
	scanErrors, err := a.Validate()
	finishSpinner(bar)
	if err != nil {
		return err
	}
	if len(scanErrors) > 0 {
		printScanErrors(out, scanErrors)
		if !opts.Force {
			return fmt.Errorf("%s failed validation; rerun with --force to copy them using their modification time",
				plural(len(scanErrors), "file", "files"))
		}
		warningColor.Fprintln(out, "Continuing because of --force.")
	}

	bar = newSpinner("Planning")
	plan, err := a.Plan()
	finishSpinner(bar)
	if err != nil {
		return err
	}
	if plan.IsEmpty() {
		fmt.Fprintln(out, "No files found in source directory.")
		return nil
	}

	printPreview(out, plan)

	if opts.PlanOut != "" {
		if err := app.WritePlanFile(opts.PlanOut, plan); err != nil {
			return err
		}
		fmt.Fprintf(out, "\nPlan written to %s\n", opts.PlanOut)
	}
	if opts.DryRun {
		fmt.Fprintln(out, "\nDry run: nothing copied.")
		return nil
	}
	if len(plan.Operations) == 0 {
		fmt.Fprintln(out, "\nNothing to copy.")
		return nil
	}

	if !opts.Yes {
		fmt.Fprintln(out)
		ok, err := app.Confirm(cmd.InOrStdin(), out, fmt.Sprintf("Copy %s?", plural(len(plan.Operations), "file", "files")))
		if err != nil {
			return err
		}
		if !ok {
			return app.ErrDeclined
		}
	}

	bar = newSpinner("Copying")
	a.SetExecuteCallback(func(_ archive.PlannedOperation, _, _ int, _ error) {
		if bar != nil {
			_ = bar.Add(1)
		}
	})
	report, err := a.Execute(plan)
	finishSpinner(bar)
	if report != nil {
		printReport(out, report)
	}
	return err
}

// history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View past organize runs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := newApp(cmd, app.Options{})
		if err != nil {
			return err
		}
		defer a.Close()

		runs, err := a.History(limit)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded.")
			return nil
		}
		printRuns(cmd.OutOrStdout(), runs)
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show RUN_ID",
	Short: "Show the operations of one run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, app.Options{})
		if err != nil {
			return err
		}
		defer a.Close()

		run, ops, err := a.GetRun(args[0])
		if err != nil {
			return err
		}
		printRun(cmd.OutOrStdout(), run, ops)
		return nil
	},
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, err := app.ResolvePaths()
		if err != nil {
			return fmt.Errorf("locating config: %w", err)
		}

		cfg := config.NewConfig(paths.Home)
		if err := config.Init(paths.ConfigFile, cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Configuration initialized at %s\n", paths.ConfigFile)
		fmt.Fprintf(out, "Journal:  %s\n", cfg.Database.DataDir)
		fmt.Fprintf(out, "Keys:     %s\n", filepath.Dir(cfg.Encryption.PrivateKeyPath))
		fmt.Fprintf(out, "Logs:     %s\n", cfg.LogDir)
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, path, err := loadConfig()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "# Configuration from %s\n\n", path)
		m := &config.Manager{}
		return m.Write(cmd.OutOrStdout(), cfg)
	},
}

// keys command
var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Manage encryption keys for S3 archives",
}

var keysInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate the age key pair",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, app.Options{})
		if err != nil {
			return err
		}
		defer a.Close()

		if a.KeysConfigured() {
			return fmt.Errorf("keys already exist; remove them first to generate a new pair")
		}

		pr := newPassphraseReader(cmd.InOrStdin())
		pass, err := pr.read("New passphrase: ")
		if err != nil {
			return err
		}
		again, err := pr.read("Repeat passphrase: ")
		if err != nil {
			return err
		}
		if pass != again {
			return fmt.Errorf("passphrases do not match")
		}

		if err := a.SetupKeys(pass); err != nil {
			return err
		}
		successColor.Fprintln(cmd.OutOrStdout(), "Keys generated. Set encryption.enabled = true to encrypt S3 copies.")
		return nil
	},
}

// decrypt command
var decryptCmd = &cobra.Command{
	Use:   "decrypt FILE",
	Short: "Decrypt an encrypted archive copy",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		outPath, _ := cmd.Flags().GetString("output")

		a, err := newApp(cmd, app.Options{})
		if err != nil {
			return err
		}
		defer a.Close()

		pass, err := newPassphraseReader(cmd.InOrStdin()).read("Passphrase: ")
		if err != nil {
			return err
		}
		written, err := a.Decrypt(args[0], outPath, pass)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Decrypted to %s\n", written)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Mirror the log to stderr")

	rootCmd.AddCommand(organizeCmd)
	organizeCmd.Flags().Bool("force", false, "Proceed even if strict validation finds unreadable metadata")
	organizeCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
	organizeCmd.Flags().Bool("dry-run", false, "Print the plan and exit without copying")
	organizeCmd.Flags().String("plan-out", "", "Write the plan as YAML to this file")

	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntP("limit", "n", 20, "Maximum number of runs to show (0 for all)")
	historyCmd.AddCommand(historyShowCmd)

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)
	rootCmd.AddCommand(configCmd)

	keysCmd.AddCommand(keysInitCmd)
	rootCmd.AddCommand(keysCmd)

	rootCmd.AddCommand(decryptCmd)
	decryptCmd.Flags().StringP("output", "o", "", "Output path (default: FILE without .age)")
}
