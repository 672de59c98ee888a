package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	mdwerror "github.com/msto63/transync/foundation/core/error"
	"github.com/msto63/transync/internal/history"
	"github.com/msto63/transync/internal/report"
	"github.com/msto63/transync/pkg/core/config"
	"github.com/msto63/transync/pkg/core/logging"
)

// ErrFindings is returned when a command reported error-severity issues
var ErrFindings = errors.New("error-severity issues found")

var (
	cfgFile   string
	verbose   bool
	transFile string
	format    string
	noColor   bool
	noHistory bool
)

// session is the state every command runs with
type session struct {
	cfg    *config.Config
	logger *logging.Logger
	runID  string
}

var current *session

var rootCmd = &cobra.Command{
	Use:   "transync",
	Short: "transync - Translation File Synchronization",
	Long: `transync keeps an XML translation file in sync with the source code.

It scans sources for translatable strings, merges the discovered keys into
the translation file without touching human-written translations, marks
entries that are no longer used and checks the file for structural problems.

Commands:
  sync          - scan sources and merge keys into the translation file
  lint          - check the translation file for structural issues
  deprecated    - list entries marked deprecated
  untranslated  - list entries missing translations
  deploy        - write a comment-free copy for shipping
  lookup        - resolve a key the way the runtime library does
  history       - browse recorded runs
  view          - interactive report viewer
  watch         - re-lint whenever the file changes`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if current != nil {
			current.logger.Close()
		}
	},
}

// Execute runs the root command until it finishes or the process is
// interrupted
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

// ExitCode maps an error returned by Execute to the process exit code:
// 0 success, 1 findings or runtime failure, 2 usage or configuration error.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	if errors.Is(err, ErrFindings) {
		return 1
	}
	var e *mdwerror.Error
	if errors.As(err, &e) {
		return e.Code().ExitCode()
	}
	return 1
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: search TRANSYNC_CONFIG, ./transync.toml, ./.transync.yaml)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	flags.StringVarP(&transFile, "file", "f", "", "translation file (overrides translations.file)")
	flags.StringVar(&format, "format", "", "report format: text, json or yaml")
	flags.BoolVar(&noColor, "no-color", false, "plain text output")
	flags.BoolVar(&noHistory, "no-history", false, "do not record the run")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageError(err)
	})
}

func usageError(err error) error {
	return mdwerror.Wrap(err, "invalid usage").WithCode(mdwerror.CodeInvalidInput)
}

// usageArgs turns argument validation failures into usage errors
func usageArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return usageError(err)
		}
		return nil
	}
}

// setup loads the configuration, applies flag overrides and creates the
// run logger
func setup(cmd *cobra.Command, args []string) error {
	var (
		cfg *config.Config
		err error
	)
	if cfgFile != "" {
		cfg, err = config.Load(cfgFile)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("file") {
		cfg.Translations.File = transFile
	}
	if flags.Changed("format") {
		cfg.Report.Format = format
	}
	if noColor || os.Getenv("NO_COLOR") != "" {
		cfg.Report.NoColor = true
	}
	if noHistory {
		cfg.History.Disabled = true
	}
	if verbose {
		cfg.General.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.NewLogger(logging.LoggerConfig{
		Name:   cfg.General.Name,
		Level:  cfg.General.LogLevel,
		Format: cfg.General.LogFormat,
		File:   cfg.General.LogFile,
		Output: cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}

	runID := history.NewRunID()
	current = &session{
		cfg:    cfg,
		logger: logger.WithRunID(runID),
		runID:  runID,
	}
	current.logger.Debug("configuration loaded", "source", cfg.Source, "command", cmd.Name())
	return nil
}

// finish records the run, renders the report and turns error-severity
// issues into ErrFindings
func (s *session) finish(cmd *cobra.Command, rep *report.Report, started time.Time, runErr error) error {
	rep.RunID = s.runID
	s.record(cmd.Context(), rep, started, runErr)

	if runErr != nil {
		s.logger.LogError(runErr)
		return runErr
	}
	if err := s.render(cmd, rep); err != nil {
		return err
	}
	if rep.HasErrors() {
		return ErrFindings
	}
	return nil
}

func (s *session) render(cmd *cobra.Command, rep *report.Report) error {
	return report.Render(cmd.OutOrStdout(), rep, report.Options{
		Format:  s.cfg.Report.Format,
		NoColor: s.cfg.Report.NoColor,
	})
}

// record stores the run in the history database. History failures are
// logged and never fail the command.
func (s *session) record(ctx context.Context, rep *report.Report, started time.Time, runErr error) {
	if s.cfg.History.Disabled {
		return
	}
	store, err := s.openHistory()
	if err != nil {
		s.logger.Warn("run history unavailable", "error", err)
		return
	}
	defer store.Close()

	if err := store.Record(ctx, history.FromReport(rep, started, runErr)); err != nil {
		s.logger.Warn("failed to record run", "error", err)
		return
	}
	if n, err := store.Prune(ctx, s.cfg.History.KeepRuns); err != nil {
		s.logger.Warn("failed to prune run history", "error", err)
	} else if n > 0 {
		s.logger.Debug("pruned run history", "deleted", n)
	}
}

func (s *session) openHistory() (*history.SQLiteStore, error) {
	return history.NewSQLiteStore(history.SQLiteConfig{Path: s.cfg.History.Path})
}

// requireFile fails with CodeNotFound when path does not exist
func requireFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		return mdwerror.Wrap(err, "translation file not found").
			WithCode(mdwerror.CodeNotFound).
			WithDetail("path", path)
	}
	return nil
}
