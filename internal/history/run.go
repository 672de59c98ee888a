package history

import (
	"time"

	"github.com/msto63/transync/internal/report"
)

// FromReport converts a command report into a run. err is the error that
// ended the command, if any.
func FromReport(rep *report.Report, started time.Time, err error) *Run {
	run := &Run{
		ID:        rep.RunID,
		Kind:      string(rep.Kind),
		File:      rep.File,
		StartedAt: started,
		Duration:  time.Since(started),
		Success:   err == nil && !rep.HasErrors(),
		Stats:     make(map[string]int),
	}
	if err != nil {
		run.Error = err.Error()
	}

	for _, i := range rep.Issues {
		run.Findings = append(run.Findings, Finding{
			Line:     i.Line,
			Context:  i.Context,
			Kind:     i.Kind,
			Severity: string(i.Severity),
			Message:  i.Message,
		})
	}
	for _, e := range rep.Entries {
		f := Finding{Line: e.Line, Context: e.Path, Kind: string(rep.Kind), Key: e.Key}
		if !e.HasKey {
			f.Message = "entry has no key"
		}
		run.Findings = append(run.Findings, f)
	}

	errors, warnings := rep.Counts()
	if len(rep.Issues) > 0 {
		run.Stats["errors"] = errors
		run.Stats["warnings"] = warnings
	}
	if len(rep.Entries) > 0 {
		run.Stats["entries"] = len(rep.Entries)
	}
	if s := rep.Sync; s != nil {
		run.Stats["files"] = s.Files
		run.Stats["matches"] = s.Matches
		run.Stats["new_contexts"] = s.Entries.NewContexts
		run.Stats["new_entries"] = s.Entries.NewEntries
		run.Stats["new_founding_comments"] = s.Entries.NewFoundingComments
		run.Stats["matched_entries"] = s.Entries.MatchedEntries
		run.Stats["founding_removed"] = s.FoundingRemoved
		run.Stats["deprecated"] = s.Deprecation.Deprecated
		run.Stats["revived"] = s.Deprecation.Revived
	}
	if d := rep.Deploy; d != nil {
		run.Stats["comments_removed"] = d.CommentsRemoved
	}
	if sum := rep.Summary; sum != nil {
		run.Stats["total_entries"] = sum.Entries
		run.Stats["total_contexts"] = sum.Contexts
	}
	return run
}
