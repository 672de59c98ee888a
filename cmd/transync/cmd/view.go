package cmd

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	mdwerror "github.com/msto63/transync/foundation/core/error"
	"github.com/msto63/transync/internal/report"
	"github.com/msto63/transync/internal/tui/reportviewer"
	"github.com/msto63/transync/internal/watch"
)

var viewWatch bool

var viewCmd = &cobra.Command{
	Use:   "view [lint|deprecated|untranslated]",
	Short: "Browse a report in the terminal viewer",
	Long: `Opens the interactive report viewer. The default report is lint.

Shortcuts:
  1 / 2       toggle errors / warnings
  0           show all severities
  r           reload
  g / G       top / bottom
  PgUp/PgDn   scroll
  q, Ctrl+C   quit

With --watch the report reloads whenever the translation file changes.`,
	Args:      usageArgs(cobra.MaximumNArgs(1)),
	ValidArgs: []string{"lint", "deprecated", "untranslated"},
	RunE:      runView,
}

func init() {
	rootCmd.AddCommand(viewCmd)

	viewCmd.Flags().BoolVarP(&viewWatch, "watch", "w", false, "reload when the translation file changes")
	viewCmd.Flags().StringArrayVarP(&queryInclude, "include", "i", nil, "context path pattern to include (regexp)")
	viewCmd.Flags().StringArrayVarP(&queryExclude, "exclude", "e", nil, "context path pattern to exclude (regexp)")
	viewCmd.Flags().StringArrayVarP(&queryLanguages, "lang", "l", nil, "required language for untranslated")
}

// loader returns the report builder for kind
func (s *session) loader(kind string) (reportviewer.Loader, error) {
	switch kind {
	case "", string(report.KindLint):
		return s.lintReport, nil
	case string(report.KindDeprecated), string(report.KindUntranslated):
		k := report.Kind(kind)
		return func() (*report.Report, error) { return s.queryReport(k) }, nil
	default:
		return nil, mdwerror.Newf("unknown report %q", kind).WithCode(mdwerror.CodeInvalidInput)
	}
}

func runView(cmd *cobra.Command, args []string) error {
	s := current
	kind := ""
	if len(args) > 0 {
		kind = args[0]
	}
	loader, err := s.loader(kind)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	p := reportviewer.NewProgram(loader, tea.WithContext(ctx))
	if viewWatch {
		w, err := watch.New([]string{s.cfg.Translations.File}, s.cfg.Watch.Debounce.Duration,
			func(ctx context.Context, path string) error {
				p.Send(reportviewer.RefreshMsg{})
				return nil
			}, s.logger)
		if err != nil {
			return err
		}
		go func() {
			if err := w.Run(ctx); err != nil {
				s.logger.Warn("file watch stopped", "error", err)
			}
		}()
	}

	_, err = p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
