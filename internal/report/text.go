package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/msto63/transync/internal/analysis"
)

func renderText(w io.Writer, r *Report, s Styles) error {
	var b strings.Builder

	b.WriteString(s.Title.Render("transync "+string(r.Kind)) + " " + s.Path.Render(r.File) + "\n")

	switch r.Kind {
	case KindLint:
		writeIssues(&b, r, s)
	case KindDeprecated, KindUntranslated:
		writeEntries(&b, r.Entries, s)
	case KindSync:
		writeSync(&b, r.Sync, s)
	case KindDeploy:
		if r.Deploy != nil {
			fmt.Fprintf(&b, "  %-11s %d removed\n", "comments", r.Deploy.CommentsRemoved)
			fmt.Fprintf(&b, "  %-11s %s\n", "written", s.Path.Render(r.Deploy.Output))
		}
	}
	if r.Summary != nil {
		writeSummary(&b, r.Summary, s)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeIssues(b *strings.Builder, r *Report, s Styles) {
	if len(r.Issues) == 0 {
		b.WriteString("  " + s.Success.Render("no issues found") + "\n")
		return
	}
	for _, i := range r.Issues {
		sev := fmt.Sprintf("%-7s", i.Severity)
		if i.IsError() {
			sev = s.Error.Render(sev)
		} else {
			sev = s.Warning.Render(sev)
		}
		fmt.Fprintf(b, "  %s %s  %s  %s: %s\n",
			sev, s.Line.Render(lineText(i.Line)), s.Path.Render(i.Context), i.Kind, i.Message)
	}

	errors, warnings := r.Counts()
	fmt.Fprintf(b, "\n%s: %s, %s\n",
		plural(len(r.Issues), "issue", "issues"),
		s.Error.Render(plural(errors, "error", "errors")),
		s.Warning.Render(plural(warnings, "warning", "warnings")))
}

func writeEntries(b *strings.Builder, refs []analysis.EntryRef, s Styles) {
	if len(refs) == 0 {
		b.WriteString("  " + s.Success.Render("no entries") + "\n")
		return
	}
	for _, ref := range refs {
		key := s.Muted.Render("<no key>")
		if ref.HasKey {
			key = s.Key.Render(strconv.Quote(ref.Key))
		}
		fmt.Fprintf(b, "  %s  %s  %s\n", s.Line.Render(lineText(ref.Line)), s.Path.Render(ref.Path), key)
	}
	fmt.Fprintf(b, "\n%s\n", plural(len(refs), "entry", "entries"))
}

func writeSync(b *strings.Builder, res *SyncResult, s Styles) {
	if res == nil {
		return
	}
	rows := [][2]string{
		{"scanned", fmt.Sprintf("%s, %s", plural(res.Files, "file", "files"), plural(res.Matches, "match", "matches"))},
		{"contexts", fmt.Sprintf("%d new", res.Entries.NewContexts)},
		{"entries", fmt.Sprintf("%d new, %d matched", res.Entries.NewEntries, res.Entries.MatchedEntries)},
		{"founding", fmt.Sprintf("%d new, %d removed", res.Entries.NewFoundingComments, res.FoundingRemoved)},
		{"deprecated", fmt.Sprintf("%d marked, %d revived", res.Deprecation.Deprecated, res.Deprecation.Revived)},
	}
	for _, row := range rows {
		fmt.Fprintf(b, "  %-11s %s\n", row[0], row[1])
	}
	if res.DryRun {
		b.WriteString("  " + s.Muted.Render("dry run, file not written") + "\n")
	}
}

func writeSummary(b *strings.Builder, sum *analysis.Summary, s Styles) {
	fmt.Fprintf(b, "\n%s contexts %d, entries %d, deprecated %d, keyless %d\n",
		s.Title.Render("summary"), sum.Contexts, sum.Entries, sum.Deprecated, sum.Keyless)

	langs := sum.Languages()
	if len(langs) == 0 {
		return
	}
	parts := make([]string, 0, len(langs))
	for _, lang := range langs {
		parts = append(parts, fmt.Sprintf("%s=%d", lang, sum.Values[lang]))
	}
	fmt.Fprintf(b, "%s %s\n", s.Title.Render("values"), strings.Join(parts, " "))
}

func lineText(line int) string {
	if line <= 0 {
		return fmt.Sprintf("%5s", "-")
	}
	return fmt.Sprintf("%5d", line)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return "1 " + one
	}
	return strconv.Itoa(n) + " " + many
}
