// ============================================================================
// transync - Translation File Synchronization
// ============================================================================
//
// Package:     analysis
// Description: Read-only queries over a loaded translation document
// Author:      Mike Stoffels
// Created:     2025-12-08
// License:     MIT
// ============================================================================

// Package analysis answers questions about a translation document without
// changing it: structural issues, deprecated entries and entries that lack
// translations. Results carry the context path and source line of every
// finding.
package analysis

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	mdwerror "github.com/msto63/transync/foundation/core/error"
	"github.com/msto63/transync/internal/document"
)

// Severity tells whether an issue makes an entry unusable
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue kinds
const (
	KindMissingKey       = "missing_key"
	KindMultipleKeys     = "multiple_keys"
	KindEmptyKey         = "empty_key"
	KindMissingLang      = "missing_lang"
	KindEmptyLang        = "empty_lang"
	KindDuplicateLang    = "duplicate_lang"
	KindEmptyValue       = "empty_value"
	KindMissingContextID = "missing_context_id"
	KindEmptyContextID   = "empty_context_id"
	KindUnknownElement   = "unknown_element"
)

// Issue is one structural finding
type Issue struct {
	Line     int      `json:"line" yaml:"line"`
	Context  string   `json:"context" yaml:"context"`
	Kind     string   `json:"kind" yaml:"kind"`
	Message  string   `json:"message" yaml:"message"`
	Severity Severity `json:"severity" yaml:"severity"`
}

// IsError reports whether the issue has error severity
func (i Issue) IsError() bool {
	return i.Severity == SeverityError
}

// EntryRef locates an entry. HasKey is false for entries without a key
// element.
type EntryRef struct {
	Line   int    `json:"line" yaml:"line"`
	Path   string `json:"path" yaml:"path"`
	Key    string `json:"key,omitempty" yaml:"key,omitempty"`
	HasKey bool   `json:"has_key" yaml:"has_key"`
}

// Summary counts the content of a document
type Summary struct {
	Contexts   int `json:"contexts" yaml:"contexts"`
	Entries    int `json:"entries" yaml:"entries"`
	Deprecated int `json:"deprecated" yaml:"deprecated"`
	Keyless    int `json:"keyless" yaml:"keyless"`
	// Values counts non-empty values per language
	Values map[string]int `json:"values" yaml:"values"`
}

// Languages returns the languages of s.Values, sorted
func (s Summary) Languages() []string {
	langs := make([]string, 0, len(s.Values))
	for lang := range s.Values {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

// Analyzer runs queries over one document
type Analyzer struct {
	doc *document.Document
}

// New returns an analyzer for doc
func New(doc *document.Document) (*Analyzer, error) {
	if doc == nil {
		return nil, mdwerror.New("no document loaded").
			WithCode(mdwerror.CodeInvalidState).
			WithOperation("analysis.New")
	}
	return &Analyzer{doc: doc}, nil
}

// FileIssues reports every structural anomaly, depth-first with the entries
// of a context before its nested contexts.
func (a *Analyzer) FileIssues() []Issue {
	var issues []Issue
	a.contextIssues(a.doc.Root, nil, &issues)
	return issues
}

func (a *Analyzer) contextIssues(ctx *document.Context, path []string, issues *[]Issue) {
	p := Path(path)
	add := func(line int, kind string, sev Severity, msg string) {
		*issues = append(*issues, Issue{Line: line, Context: p, Kind: kind, Message: msg, Severity: sev})
	}

	if len(path) > 0 {
		switch {
		case !ctx.HasID:
			add(ctx.Line, KindMissingContextID, SeverityError, "context has no id attribute")
		case strings.TrimSpace(ctx.ID) == "":
			add(ctx.Line, KindEmptyContextID, SeverityError, "context has an empty id")
		}
	}

	for _, n := range ctx.Children() {
		switch child := n.(type) {
		case *document.Entry:
			entryIssues(child, add)
		case *document.Raw:
			add(child.Line, KindUnknownElement, SeverityWarning, unknownMessage(child))
		}
	}

	for _, child := range ctx.Contexts() {
		childPath := append(append([]string(nil), path...), child.ID)
		a.contextIssues(child, childPath, issues)
	}
}

func entryIssues(e *document.Entry, add func(int, string, Severity, string)) {
	switch len(e.Keys) {
	case 0:
		add(e.Line, KindMissingKey, SeverityError, "entry has no key")
	case 1:
	default:
		add(e.Keys[1].Line, KindMultipleKeys, SeverityError, "entry has "+strconv.Itoa(len(e.Keys))+" keys")
	}
	if len(e.Keys) > 0 && e.Keys[0].Raw == "" {
		add(e.Keys[0].Line, KindEmptyKey, SeverityError, "entry has an empty key")
	}

	seen := make(map[string]bool)
	for _, v := range e.Values {
		switch {
		case !v.HasLang:
			add(v.Line, KindMissingLang, SeverityError, "value has no lang attribute")
		case strings.TrimSpace(v.Lang) == "":
			add(v.Line, KindEmptyLang, SeverityError, "value has an empty lang attribute")
		case seen[v.Lang]:
			add(v.Line, KindDuplicateLang, SeverityWarning, "duplicate value for language "+v.Lang)
		default:
			seen[v.Lang] = true
		}
		if v.Raw == "" {
			add(v.Line, KindEmptyValue, SeverityWarning, "value is empty")
		}
	}

	for _, r := range e.Unknown {
		add(r.Line, KindUnknownElement, SeverityWarning, unknownMessage(r))
	}
}

func unknownMessage(r *document.Raw) string {
	if r.Name == "" {
		return "unexpected text"
	}
	return "unknown element <" + r.Name + ">"
}

// DeprecatedEntries returns the entries carrying a deprecation marker whose
// context path passes the include and exclude patterns.
func (a *Analyzer) DeprecatedEntries(include, exclude []string) ([]EntryRef, error) {
	f, err := NewPathFilter(include, exclude)
	if err != nil {
		return nil, err
	}
	return a.collect(f, (*document.Entry).IsDeprecated), nil
}

// NoTranslationEntries returns the entries for which none of languages has a
// value. With no languages it returns the entries without any value.
func (a *Analyzer) NoTranslationEntries(languages, include, exclude []string) ([]EntryRef, error) {
	f, err := NewPathFilter(include, exclude)
	if err != nil {
		return nil, err
	}
	return a.collect(f, func(e *document.Entry) bool {
		if len(languages) == 0 {
			return len(e.Values) == 0
		}
		for _, lang := range languages {
			if _, ok := e.Value(lang); ok {
				return false
			}
		}
		return true
	}), nil
}

func (a *Analyzer) collect(f *PathFilter, match func(*document.Entry) bool) []EntryRef {
	var refs []EntryRef
	a.doc.Walk(func(path []string, ctx *document.Context) {
		p := Path(path)
		if !f.Match(p) {
			return
		}
		for _, e := range ctx.Entries() {
			if !match(e) {
				continue
			}
			ref := EntryRef{Line: e.Line, Path: p}
			if k, ok := e.Key(); ok {
				ref.Key = k.Text()
				ref.HasKey = true
			}
			refs = append(refs, ref)
		}
	})
	return refs
}

// Summary counts contexts, entries and translated values
func (a *Analyzer) Summary() Summary {
	s := Summary{Values: make(map[string]int)}
	a.doc.Walk(func(path []string, ctx *document.Context) {
		if len(path) > 0 {
			s.Contexts++
		}
		for _, e := range ctx.Entries() {
			s.Entries++
			if e.IsDeprecated() {
				s.Deprecated++
			}
			if !e.HasKey() {
				s.Keyless++
			}
			for _, v := range e.Values {
				if v.HasLang && v.Lang != "" && v.Raw != "" {
					s.Values[v.Lang]++
				}
			}
		}
	})
	return s
}

// Path renders a context path; the root is "/"
func Path(segments []string) string {
	return "/" + strings.Join(segments, "/")
}

// PathFilter selects context paths by regular expression
type PathFilter struct {
	include []*regexp.Regexp
	exclude []*regexp.Regexp
}

// NewPathFilter compiles the patterns. An empty include list matches every
// path; an empty exclude list excludes none.
func NewPathFilter(include, exclude []string) (*PathFilter, error) {
	f := &PathFilter{}
	var err error
	if f.include, err = compile(include); err != nil {
		return nil, err
	}
	if f.exclude, err = compile(exclude); err != nil {
		return nil, err
	}
	return f, nil
}

// Match reports whether path is included and not excluded
func (f *PathFilter) Match(path string) bool {
	if len(f.include) > 0 && !anyMatch(f.include, path) {
		return false
	}
	return !anyMatch(f.exclude, path)
}

func compile(patterns []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, mdwerror.Wrap(err, "invalid context pattern").
				WithCode(mdwerror.CodeInvalidPattern).
				WithDetail("pattern", p)
		}
		out = append(out, re)
	}
	return out, nil
}

func anyMatch(res []*regexp.Regexp, s string) bool {
	for _, re := range res {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}
