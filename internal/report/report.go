// Package report renders the results of a command as styled text, JSON or
// YAML.
package report

import (
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"

	mdwerror "github.com/msto63/transync/foundation/core/error"
	"github.com/msto63/transync/internal/analysis"
	"github.com/msto63/transync/internal/engine"
)

// Kind names the command that produced a report
type Kind string

const (
	KindLint         Kind = "lint"
	KindDeprecated   Kind = "deprecated"
	KindUntranslated Kind = "untranslated"
	KindSync         Kind = "sync"
	KindDeploy       Kind = "deploy"
)

// Formats
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// SyncResult describes one synchronization run
type SyncResult struct {
	Files           int                     `json:"files" yaml:"files"`
	Matches         int                     `json:"matches" yaml:"matches"`
	FoundingRemoved int                     `json:"founding_removed" yaml:"founding_removed"`
	Entries         engine.Stats            `json:"entries" yaml:"entries"`
	Deprecation     engine.DeprecationStats `json:"deprecation" yaml:"deprecation"`
	DryRun          bool                    `json:"dry_run,omitempty" yaml:"dry_run,omitempty"`
}

// DeployResult describes one deploy run
type DeployResult struct {
	Output          string `json:"output" yaml:"output"`
	CommentsRemoved int    `json:"comments_removed" yaml:"comments_removed"`
}

// Report is the result of one command
type Report struct {
	Kind    Kind                `json:"kind" yaml:"kind"`
	File    string              `json:"file" yaml:"file"`
	RunID   string              `json:"run_id,omitempty" yaml:"run_id,omitempty"`
	Issues  []analysis.Issue    `json:"issues,omitempty" yaml:"issues,omitempty"`
	Entries []analysis.EntryRef `json:"entries,omitempty" yaml:"entries,omitempty"`
	Sync    *SyncResult         `json:"sync,omitempty" yaml:"sync,omitempty"`
	Deploy  *DeployResult       `json:"deploy,omitempty" yaml:"deploy,omitempty"`
	Summary *analysis.Summary   `json:"summary,omitempty" yaml:"summary,omitempty"`
}

// Counts returns the number of error and warning issues
func (r *Report) Counts() (errors, warnings int) {
	for _, i := range r.Issues {
		if i.IsError() {
			errors++
		} else {
			warnings++
		}
	}
	return errors, warnings
}

// HasErrors reports whether any issue has error severity
func (r *Report) HasErrors() bool {
	errors, _ := r.Counts()
	return errors > 0
}

// Options control rendering
type Options struct {
	Format  string
	NoColor bool
}

// Render writes r to w in the requested format
func Render(w io.Writer, r *Report, opts Options) error {
	if opts.Format == "" || opts.Format == FormatText {
		if err := renderText(w, r, NewStyles(opts.NoColor)); err != nil {
			return mdwerror.Wrap(err, "render report").
				WithCode(mdwerror.CodeIO).
				WithOperation("report.Render")
		}
		return nil
	}
	return Encode(w, r, opts.Format)
}

// Encode writes v as JSON or YAML
func Encode(w io.Writer, v interface{}, format string) error {
	var err error
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		err = enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err = enc.Encode(v); err == nil {
			err = enc.Close()
		}
	default:
		return mdwerror.Newf("unknown report format %q", format).
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("report.Render")
	}
	if err != nil {
		return mdwerror.Wrap(err, "render report").
			WithCode(mdwerror.CodeIO).
			WithOperation("report.Render")
	}
	return nil
}
