package cmd

import (
	"context"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/msto63/transync/internal/analysis"
	"github.com/msto63/transync/internal/engine"
	"github.com/msto63/transync/internal/report"
	"github.com/msto63/transync/internal/scanner"
)

var (
	syncDryRun        bool
	syncKeepFounding  bool
	syncNoOrdinal     bool
	syncNoDeprecation bool
	syncFunctions     []string
	syncCtxFunctions  []string
)

var syncCmd = &cobra.Command{
	Use:   "sync [roots...]",
	Short: "Scan sources and merge discovered keys into the translation file",
	Long: `Scans the source roots for translatable strings and merges every
discovered key into the translation file.

Steps:
  1. scan roots (default: scan.roots) for tr("key") and trc("ctx", "key")
  2. remove existing "Found in" comments (unless --keep-founding)
  3. add missing contexts and entries, refresh "Found in" comments
  4. mark entries no longer found as DEPRECATED (unless --no-deprecation)
  5. write the file atomically (unless --dry-run)

Examples:
  transync sync
  transync sync ./src ./lib --dry-run
  transync sync --function T --context-function TC`,
	RunE: runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)

	syncCmd.Flags().BoolVarP(&syncDryRun, "dry-run", "n", false, "report changes without writing the file")
	syncCmd.Flags().BoolVar(&syncKeepFounding, "keep-founding", false, "keep existing \"Found in\" comments")
	syncCmd.Flags().BoolVar(&syncNoOrdinal, "no-ordinal", false, "omit line numbers from \"Found in\" comments")
	syncCmd.Flags().BoolVar(&syncNoDeprecation, "no-deprecation", false, "do not mark unmatched entries")
	syncCmd.Flags().StringArrayVar(&syncFunctions, "function", nil, "additional translation function name")
	syncCmd.Flags().StringArrayVar(&syncCtxFunctions, "context-function", nil, "additional context translation function name")
}

func runSync(cmd *cobra.Command, args []string) error {
	s := current
	started := time.Now()

	roots := args
	if len(roots) == 0 {
		roots = s.cfg.Scan.Roots
	}

	rep := &report.Report{Kind: report.KindSync, File: s.cfg.Translations.File}
	err := s.synchronize(cmd.Context(), roots, rep)
	return s.finish(cmd, rep, started, err)
}

// synchronize runs the scan and merge pipeline and fills rep
func (s *session) synchronize(ctx context.Context, roots []string, rep *report.Report) error {
	cfg := s.cfg
	sc, err := scanner.New(afero.NewOsFs(), scanner.Config{
		Include:          cfg.Scan.Include,
		Exclude:          cfg.Scan.Exclude,
		Functions:        append(append([]string{}, cfg.Scan.Functions...), syncFunctions...),
		ContextFunctions: append(append([]string{}, cfg.Scan.ContextFunctions...), syncCtxFunctions...),
	}, s.logger)
	if err != nil {
		return err
	}
	scanned, err := sc.Scan(ctx, roots)
	if err != nil {
		return err
	}

	e := engine.New(s.logger)
	if err := e.Load(cfg.Translations.File); err != nil {
		return err
	}

	res := &report.SyncResult{
		Files:   scanned.Files,
		Matches: scanned.Matches,
		DryRun:  syncDryRun,
	}
	rep.Sync = res

	if !cfg.Sync.KeepFoundingComments && !syncKeepFounding {
		if res.FoundingRemoved, err = e.DeleteFoundingComments(); err != nil {
			return err
		}
	}

	withOrdinal := !cfg.Sync.OmitLineOrdinal && !syncNoOrdinal
	if res.Entries, err = e.CreateEntries(scanned.Tree, withOrdinal); err != nil {
		return err
	}

	if !cfg.Sync.SkipDeprecation && !syncNoDeprecation {
		if res.Deprecation, err = e.CreateDeprecationComments(); err != nil {
			return err
		}
	}

	if a, err := analysis.New(e.Document()); err == nil {
		sum := a.Summary()
		rep.Summary = &sum
	}

	if syncDryRun {
		s.logger.Info("dry run, translation file not written", "path", cfg.Translations.File)
		return nil
	}
	return e.WriteFile(cfg.Translations.File)
}
