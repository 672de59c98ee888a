// ============================================================================
// transync - Translation File Synchronization
// ============================================================================
//
// Package:     lookup
// Description: Runtime translation table with language and context fallback
// Author:      Mike Stoffels
// Created:     2025-12-10
// License:     MIT
// ============================================================================

// Package lookup resolves keys against a loaded translation file at runtime.
//
// Usage:
//
//	table, err := lookup.LoadTable("translations.xml")
//	if err != nil {
//	    return err
//	}
//	tr := lookup.NewTranslator(table, "de-AT", nil)
//	label := tr.Translate("Menu/File", "Open")
//
// A Table is immutable after construction and a Translator is safe for
// concurrent use.
package lookup

import (
	"sort"
	"strings"

	"github.com/msto63/transync/internal/document"
)

// Table holds decoded translations by context path, key and language
type Table struct {
	// context path ("" for the root, "A/B" nested) -> key -> lang -> text
	contexts map[string]map[string]map[string]string
	langs    map[string]bool
}

// NewTable builds a table from doc. Entries without a key and values without
// a language or text are skipped; the first value of a language wins.
func NewTable(doc *document.Document) *Table {
	t := &Table{
		contexts: make(map[string]map[string]map[string]string),
		langs:    make(map[string]bool),
	}
	if doc == nil {
		return t
	}

	doc.Walk(func(path []string, ctx *document.Context) {
		for _, e := range ctx.Entries() {
			k, ok := e.Key()
			if !ok {
				continue
			}
			for _, v := range e.Values {
				if !v.HasLang || v.Lang == "" || v.Raw == "" {
					continue
				}
				t.add(strings.Join(path, "/"), k.Text(), v.Lang, v.Text())
			}
		}
	})
	return t
}

// LoadTable loads the translation file at path
func LoadTable(path string) (*Table, error) {
	doc, err := document.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return NewTable(doc), nil
}

func (t *Table) add(ctx, key, lang, text string) {
	keys, ok := t.contexts[ctx]
	if !ok {
		keys = make(map[string]map[string]string)
		t.contexts[ctx] = keys
	}
	langs, ok := keys[key]
	if !ok {
		langs = make(map[string]string)
		keys[key] = langs
	}
	if _, exists := langs[lang]; !exists {
		langs[lang] = text
		t.langs[lang] = true
	}
}

// Get returns the text stored for exactly this context, key and language
func (t *Table) Get(ctx, key, lang string) (string, bool) {
	text, ok := t.contexts[normalizeContext(ctx)][key][lang]
	return text, ok
}

// Languages returns every language with at least one text, sorted
func (t *Table) Languages() []string {
	out := make([]string, 0, len(t.langs))
	for lang := range t.langs {
		out = append(out, lang)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of keys over all contexts
func (t *Table) Len() int {
	n := 0
	for _, keys := range t.contexts {
		n += len(keys)
	}
	return n
}

func normalizeContext(ctx string) string {
	var segs []string
	for _, s := range strings.Split(ctx, "/") {
		if s != "" {
			segs = append(segs, s)
		}
	}
	return strings.Join(segs, "/")
}
