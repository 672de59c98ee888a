package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/msto63/transync/internal/analysis"
	"github.com/msto63/transync/internal/document"
	"github.com/msto63/transync/internal/report"
)

var (
	queryInclude   []string
	queryExclude   []string
	queryLanguages []string
)

var lintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Check the translation file for structural issues",
	Long: `Checks the translation file for entries without keys, values without
languages, contexts without ids and unknown elements.

Exits with code 1 when an error-severity issue is found.`,
	Args: usageArgs(cobra.NoArgs),
	RunE: runLint,
}

var deprecatedCmd = &cobra.Command{
	Use:   "deprecated",
	Short: "List entries marked DEPRECATED",
	Long: `Lists entries carrying a DEPRECATED comment.

--include and --exclude take regular expressions matched against the
context path ("/", "/Menu", "/Menu/File"). An entry is listed when its path
matches any include (or no include is given) and no exclude.

Examples:
  transync deprecated
  transync deprecated --include '^/Menu.*' --exclude '^/Menu/Debug'`,
	Args: usageArgs(cobra.NoArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runQuery(cmd, report.KindDeprecated)
	},
}

var untranslatedCmd = &cobra.Command{
	Use:   "untranslated",
	Short: "List entries missing a translation",
	Long: `Lists entries that have no value in any of the requested languages.
An entry translated into at least one of them is not listed.

Without --lang (and without translations.languages in the config) an entry
is listed when it has no value at all.

Examples:
  transync untranslated --lang de --lang fr
  transync untranslated --include '^/Dialogs'`,
	Args: usageArgs(cobra.NoArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runQuery(cmd, report.KindUntranslated)
	},
}

func init() {
	rootCmd.AddCommand(lintCmd)
	rootCmd.AddCommand(deprecatedCmd)
	rootCmd.AddCommand(untranslatedCmd)

	for _, c := range []*cobra.Command{deprecatedCmd, untranslatedCmd} {
		c.Flags().StringArrayVarP(&queryInclude, "include", "i", nil, "context path pattern to include (regexp)")
		c.Flags().StringArrayVarP(&queryExclude, "exclude", "e", nil, "context path pattern to exclude (regexp)")
	}
	untranslatedCmd.Flags().StringArrayVarP(&queryLanguages, "lang", "l", nil, "required language (default: translations.languages)")
}

func runLint(cmd *cobra.Command, args []string) error {
	s := current
	started := time.Now()
	rep, err := s.lintReport()
	if rep == nil {
		rep = &report.Report{Kind: report.KindLint, File: s.cfg.Translations.File}
	}
	return s.finish(cmd, rep, started, err)
}

func runQuery(cmd *cobra.Command, kind report.Kind) error {
	s := current
	started := time.Now()
	rep, err := s.queryReport(kind)
	if rep == nil {
		rep = &report.Report{Kind: kind, File: s.cfg.Translations.File}
	}
	return s.finish(cmd, rep, started, err)
}

func (s *session) analyzer() (*analysis.Analyzer, error) {
	path := s.cfg.Translations.File
	if err := requireFile(path); err != nil {
		return nil, err
	}
	doc, err := document.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return analysis.New(doc)
}

// lintReport loads the translation file and collects its issues
func (s *session) lintReport() (*report.Report, error) {
	a, err := s.analyzer()
	if err != nil {
		return nil, err
	}
	sum := a.Summary()
	rep := &report.Report{
		Kind:    report.KindLint,
		File:    s.cfg.Translations.File,
		Issues:  a.FileIssues(),
		Summary: &sum,
	}
	errors, warnings := rep.Counts()
	s.logger.Info("lint finished", "path", rep.File, "errors", errors, "warnings", warnings)
	return rep, nil
}

// queryReport runs the deprecated or untranslated query
func (s *session) queryReport(kind report.Kind) (*report.Report, error) {
	a, err := s.analyzer()
	if err != nil {
		return nil, err
	}

	var refs []analysis.EntryRef
	switch kind {
	case report.KindDeprecated:
		refs, err = a.DeprecatedEntries(queryInclude, queryExclude)
	default:
		langs := queryLanguages
		if len(langs) == 0 {
			langs = s.cfg.Translations.Languages
		}
		refs, err = a.NoTranslationEntries(langs, queryInclude, queryExclude)
	}
	if err != nil {
		return nil, err
	}
	return &report.Report{Kind: kind, File: s.cfg.Translations.File, Entries: refs}, nil
}
