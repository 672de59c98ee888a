package cmd

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	mdwerror "github.com/msto63/transync/foundation/core/error"
	"github.com/msto63/transync/internal/history"
	"github.com/msto63/transync/internal/report"
)

var (
	historyKind  string
	historyFile  string
	historySince time.Duration
	historyLimit int
	historyKeep  int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse recorded runs",
	Long: `Every sync, lint, query and deploy run is recorded in the history
database (history.path). Use the subcommands to list, inspect and prune it.`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded runs, newest first",
	Long: `Lists recorded runs, newest first.

Examples:
  transync history list
  transync history list --kind sync --since 24h --limit 5`,
	Args: usageArgs(cobra.NoArgs),
	RunE: runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show one run with its findings",
	Long:  `Shows a run with its statistics and findings. A unique prefix of the run ID is enough.`,
	Args:  usageArgs(cobra.ExactArgs(1)),
	RunE:  runHistoryShow,
}

var historyStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Count recorded runs per command",
	Args:  usageArgs(cobra.NoArgs),
	RunE:  runHistoryStats,
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete all but the newest runs",
	Args:  usageArgs(cobra.NoArgs),
	RunE:  runHistoryPrune,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd, historyShowCmd, historyStatsCmd, historyPruneCmd)

	historyListCmd.Flags().StringVar(&historyKind, "kind", "", "only runs of this command (sync, lint, ...)")
	historyListCmd.Flags().StringVar(&historyFile, "for", "", "only runs on this translation file")
	historyListCmd.Flags().DurationVar(&historySince, "since", 0, "only runs younger than this, e.g. 24h")
	historyListCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum number of runs")

	historyPruneCmd.Flags().IntVar(&historyKeep, "keep", 0, "runs to keep (default: history.keep_runs)")
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	s := current
	store, err := s.openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	filter := history.RunFilter{Kind: historyKind, File: historyFile, Limit: historyLimit}
	if historySince > 0 {
		filter.Since = time.Now().Add(-historySince)
	}
	runs, err := store.List(cmd.Context(), filter)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if s.cfg.Report.Format != report.FormatText {
		return report.Encode(out, runs, s.cfg.Report.Format)
	}
	if len(runs) == 0 {
		fmt.Fprintln(out, "no runs recorded")
		return nil
	}

	st := report.NewStyles(s.cfg.Report.NoColor)
	fmt.Fprintf(out, "%-8s  %-12s  %-19s  %9s  %-6s  %s\n", "ID", "KIND", "STARTED", "DURATION", "STATUS", "FILE")
	for _, run := range runs {
		fmt.Fprintf(out, "%-8s  %-12s  %-19s  %9s  %s  %s\n",
			shortID(run.ID),
			run.Kind,
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			run.Duration.Round(time.Millisecond),
			runStatus(st, run),
			st.Path.Render(run.File),
		)
	}
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	s := current
	store, err := s.openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	run, err := store.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if s.cfg.Report.Format != report.FormatText {
		return report.Encode(out, run, s.cfg.Report.Format)
	}
	writeRun(out, report.NewStyles(s.cfg.Report.NoColor), run)
	return nil
}

func runHistoryStats(cmd *cobra.Command, args []string) error {
	s := current
	store, err := s.openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	stats, err := store.Stats(cmd.Context())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if s.cfg.Report.Format != report.FormatText {
		return report.Encode(out, stats, s.cfg.Report.Format)
	}
	for _, kind := range sortedKeys(stats) {
		fmt.Fprintf(out, "  %-12s %d\n", kind, stats[kind])
	}
	return nil
}

func runHistoryPrune(cmd *cobra.Command, args []string) error {
	s := current
	keep := historyKeep
	if keep == 0 {
		keep = s.cfg.History.KeepRuns
	}
	if keep < 0 {
		return mdwerror.New("--keep must not be negative").WithCode(mdwerror.CodeInvalidInput)
	}

	store, err := s.openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	deleted, err := store.Prune(cmd.Context(), keep)
	if err != nil {
		return err
	}
	if err := store.Vacuum(cmd.Context()); err != nil {
		s.logger.Warn("vacuum failed", "error", err)
	}
	s.logger.Info("run history pruned", "deleted", deleted, "kept", keep)
	fmt.Fprintf(cmd.OutOrStdout(), "deleted %d runs\n", deleted)
	return nil
}

func writeRun(w io.Writer, st report.Styles, run *history.Run) {
	fmt.Fprintf(w, "%s %s\n", st.Title.Render("run "+run.ID), runStatus(st, run))
	fmt.Fprintf(w, "  %-9s %s\n", "kind", run.Kind)
	fmt.Fprintf(w, "  %-9s %s\n", "file", st.Path.Render(run.File))
	fmt.Fprintf(w, "  %-9s %s\n", "started", run.StartedAt.Local().Format(time.RFC3339))
	fmt.Fprintf(w, "  %-9s %s\n", "duration", run.Duration.Round(time.Millisecond))
	if run.Error != "" {
		fmt.Fprintf(w, "  %-9s %s\n", "error", st.Error.Render(run.Error))
	}

	if len(run.Stats) > 0 {
		parts := make([]string, 0, len(run.Stats))
		for _, k := range sortedKeys(run.Stats) {
			parts = append(parts, fmt.Sprintf("%s=%d", k, run.Stats[k]))
		}
		fmt.Fprintf(w, "  %-9s %s\n", "stats", strings.Join(parts, " "))
	}

	if len(run.Findings) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s\n", st.Title.Render("findings"))
	for _, f := range run.Findings {
		text := f.Message
		if f.Key != "" {
			text = fmt.Sprintf("%q", f.Key)
		}
		fmt.Fprintf(w, "  %5d  %s  %s: %s\n", f.Line, st.Path.Render(f.Context), f.Kind, text)
	}
}

func runStatus(st report.Styles, run *history.Run) string {
	if run.Success {
		return st.Success.Render("ok    ")
	}
	return st.Error.Render("failed")
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
