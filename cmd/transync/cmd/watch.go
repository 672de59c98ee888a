package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/msto63/transync/internal/report"
	"github.com/msto63/transync/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-lint the translation file whenever it changes",
	Long: `Lints the translation file once and again after every change until
interrupted. Bursts of writes are coalesced (watch.debounce, default 500ms).
Every lint run is recorded in the history.`,
	Args: usageArgs(cobra.NoArgs),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	s := current
	file := s.cfg.Translations.File

	relint := func(ctx context.Context, path string) error {
		started := time.Now()
		rep, err := s.lintReport()
		if rep == nil {
			rep = &report.Report{Kind: report.KindLint, File: file}
		}
		s.record(ctx, rep, started, err)
		if err != nil {
			return err
		}
		return s.render(cmd, rep)
	}

	w, err := watch.New([]string{file}, s.cfg.Watch.Debounce.Duration, relint, s.logger)
	if err != nil {
		return err
	}

	if err := relint(cmd.Context(), file); err != nil {
		s.logger.LogError(err)
	}
	s.logger.Info("watching translation file", "path", file, "debounce", s.cfg.Watch.Debounce.Duration)

	err = w.Run(cmd.Context())
	if cmd.Context().Err() != nil {
		return nil
	}
	return err
}
