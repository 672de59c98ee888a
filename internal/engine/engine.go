// Package engine reconciles the keys discovered in source code with a
// translation document without destroying human-authored content.
//
// The operations are meant to run in this order, each one optional except
// CreateEntries:
//
//	DeleteFoundingComments
//	CreateEntries
//	CreateDeprecationComments
//	DeleteAllComments
//
// Nothing is persisted until Write or WriteFile.
package engine

import (
	"io"
	"strings"

	mdwerror "github.com/msto63/transync/foundation/core/error"
	"github.com/msto63/transync/internal/document"
	"github.com/msto63/transync/internal/tree"
	"github.com/msto63/transync/pkg/core/logging"
)

// Stats summarizes one CreateEntries run
type Stats struct {
	NewContexts         int `json:"new_contexts" yaml:"new_contexts"`
	NewEntries          int `json:"new_entries" yaml:"new_entries"`
	NewFoundingComments int `json:"new_founding_comments" yaml:"new_founding_comments"`
	MatchedEntries      int `json:"matched_entries" yaml:"matched_entries"`
}

// DeprecationStats summarizes one CreateDeprecationComments run
type DeprecationStats struct {
	Deprecated int `json:"deprecated" yaml:"deprecated"`
	Revived    int `json:"revived" yaml:"revived"`
}

// Engine holds one document and mutates it. It is not safe for concurrent use.
type Engine struct {
	logger *logging.Logger
	doc    *document.Document

	// Entries matched by the most recent CreateEntries
	touched map[*document.Entry]bool
}

// New creates an engine without a document. A nil logger disables logging.
func New(logger *logging.Logger) *Engine {
	return &Engine{
		logger:  logger,
		touched: make(map[*document.Entry]bool),
	}
}

// Load replaces the document with the file at path; a missing file loads an
// empty document.
func (e *Engine) Load(path string) error {
	doc, err := document.LoadFile(path)
	if err != nil {
		return err
	}
	e.SetDocument(doc)
	e.logger.Debug("Document loaded", "path", path)
	return nil
}

// LoadReader replaces the document with the one read from r
func (e *Engine) LoadReader(r io.Reader) error {
	doc, err := document.Load(r)
	if err != nil {
		return err
	}
	e.SetDocument(doc)
	return nil
}

// SetDocument replaces the document and forgets previous matches
func (e *Engine) SetDocument(doc *document.Document) {
	e.doc = doc
	e.touched = make(map[*document.Entry]bool)
}

// Document returns the current document, nil before loading
func (e *Engine) Document() *document.Document {
	return e.doc
}

// Write serializes the document to w
func (e *Engine) Write(w io.Writer) error {
	if err := e.requireDocument("Write"); err != nil {
		return err
	}
	return document.Write(e.doc, w)
}

// WriteFile atomically replaces path with the serialized document
func (e *Engine) WriteFile(path string) error {
	if err := e.requireDocument("WriteFile"); err != nil {
		return err
	}
	if err := document.WriteFile(e.doc, path); err != nil {
		return err
	}
	e.logger.Audit("Translation file written", "path", path)
	return nil
}

// DeleteFoundingComments removes every founding comment and returns how
// many were removed.
func (e *Engine) DeleteFoundingComments() (int, error) {
	if err := e.requireDocument("DeleteFoundingComments"); err != nil {
		return 0, err
	}

	removed := 0
	e.doc.Walk(func(_ []string, ctx *document.Context) {
		for _, entry := range ctx.Entries() {
			removed += entry.RemoveComments(func(c *document.Comment) bool {
				return c.Kind == document.CommentFounding
			})
		}
	})
	e.logger.Debug("Founding comments deleted", "count", removed)
	return removed, nil
}

// CreateEntries merges the discovered keys of root into the document.
// Missing contexts and entries are appended after their existing siblings;
// every provenance record gets a founding comment unless an equal one
// exists. Keyless entries never match.
func (e *Engine) CreateEntries(root *tree.Context, includeLineOrdinal bool) (Stats, error) {
	var stats Stats
	if err := e.requireDocument("CreateEntries"); err != nil {
		return stats, err
	}
	if root == nil {
		return stats, mdwerror.New("discovered-key tree is nil").
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("engine.CreateEntries")
	}

	timer := e.logger.StartTimer("create_entries")
	e.touched = make(map[*document.Entry]bool)
	e.merge(e.doc.Root, root, nil, includeLineOrdinal, &stats)
	timer.Stop()

	e.logger.Info("Entries merged",
		"new_contexts", stats.NewContexts,
		"new_entries", stats.NewEntries,
		"new_founding_comments", stats.NewFoundingComments,
		"matched_entries", stats.MatchedEntries)
	return stats, nil
}

func (e *Engine) merge(ctx *document.Context, node *tree.Context, path []string, withOrdinal bool, stats *Stats) {
	for _, key := range node.Keys() {
		entry := ctx.FindEntry(key)
		if entry == nil {
			entry = document.NewEntry(key)
			ctx.Append(entry)
			stats.NewEntries++
			e.logger.Debug("Entry created", "context", contextPath(path), "key", key)
		} else {
			stats.MatchedEntries++
		}
		e.touched[entry] = true

		for _, p := range node.Matches(key) {
			c := document.FoundingComment(p.Locator, p.Ordinal, withOrdinal)
			if entry.HasFounding(c) {
				continue
			}
			entry.InsertFounding(c)
			stats.NewFoundingComments++
		}
	}

	for _, name := range node.Contexts() {
		child := ctx.FindContext(name)
		if child == nil {
			child = document.NewContext(name)
			ctx.Append(child)
			stats.NewContexts++
		}
		sub, _ := node.Lookup(name)
		childPath := append(append([]string(nil), path...), name)
		e.merge(child, sub, childPath, withOrdinal, stats)
	}
}

// CreateDeprecationComments marks every entry not matched by the most recent
// CreateEntries as deprecated, once. Matched entries that still carry a
// marker lose it.
func (e *Engine) CreateDeprecationComments() (DeprecationStats, error) {
	var stats DeprecationStats
	if err := e.requireDocument("CreateDeprecationComments"); err != nil {
		return stats, err
	}

	e.doc.Walk(func(path []string, ctx *document.Context) {
		for _, entry := range ctx.Entries() {
			switch {
			case !e.touched[entry] && !entry.IsDeprecated():
				entry.AddComment(document.DeprecationComment())
				stats.Deprecated++
				if k, ok := entry.Key(); ok {
					e.logger.Debug("Entry deprecated", "context", contextPath(path), "key", k.Raw)
				}
			case e.touched[entry] && entry.IsDeprecated():
				entry.RemoveComments(func(c *document.Comment) bool {
					return c.Kind == document.CommentDeprecation
				})
				stats.Revived++
			}
		}
	})

	e.logger.Info("Deprecation markers updated", "deprecated", stats.Deprecated, "revived", stats.Revived)
	return stats, nil
}

// DeleteAllComments strips every comment from the document and returns how
// many were removed.
func (e *Engine) DeleteAllComments() (int, error) {
	if err := e.requireDocument("DeleteAllComments"); err != nil {
		return 0, err
	}

	removed := len(e.doc.Leading) + len(e.doc.Trailing)
	e.doc.Leading = nil
	e.doc.Trailing = nil
	e.doc.Walk(func(_ []string, ctx *document.Context) {
		removed += len(ctx.Comments())
		ctx.RemoveComments()
		for _, entry := range ctx.Entries() {
			removed += entry.RemoveComments(func(*document.Comment) bool { return true })
		}
	})
	e.logger.Debug("Comments deleted", "count", removed)
	return removed, nil
}

func (e *Engine) requireDocument(op string) error {
	if e.doc != nil {
		return nil
	}
	return mdwerror.New("no document loaded").
		WithCode(mdwerror.CodeInvalidState).
		WithOperation("engine." + op)
}

func contextPath(path []string) string {
	return "/" + strings.Join(path, "/")
}
