package lookup

import (
	"strings"
	"sync"

	"golang.org/x/text/language"

	"github.com/msto63/transync/pkg/core/logging"
)

// Translator resolves keys for one target language
type Translator struct {
	table      *Table
	lang       string
	candidates []string
	logger     *logging.Logger

	// context+"\x00"+key of every miss already logged
	missing sync.Map
}

// NewTranslator returns a translator for lang. Missing keys are logged once
// each at debug level; a nil logger disables that.
func NewTranslator(table *Table, lang string, logger *logging.Logger) *Translator {
	return &Translator{
		table:      table,
		lang:       lang,
		candidates: Candidates(lang),
		logger:     logger,
	}
}

// Language returns the target language
func (t *Translator) Language() string {
	return t.lang
}

// Candidates lists the designators tried for lang, most specific first:
// the designator as given, its canonical form, the tag without variants and
// extensions, the language with region, then the base language.
func Candidates(lang string) []string {
	out := []string{lang}
	add := func(s string) {
		for _, existing := range out {
			if existing == s {
				return
			}
		}
		out = append(out, s)
	}

	tag, err := language.Parse(lang)
	if err != nil {
		// Still strip a region suffix from designators like "xx_YY"
		if i := strings.IndexAny(lang, "-_"); i > 0 {
			add(lang[:i])
		}
		return out
	}

	add(tag.String())
	base, script, region := tag.Raw()
	if stripped, err := language.Compose(base, script, region); err == nil {
		add(stripped.String())
	}
	if withRegion, err := language.Compose(base, region); err == nil {
		add(withRegion.String())
	}
	add(base.String())
	return out
}

// Lookup resolves key in the context path ctx ("A/B", "" for the root).
// Each context from ctx up to the root is tried with every language
// candidate before moving to its parent.
func (t *Translator) Lookup(ctx, key string) (string, bool) {
	segs := strings.Split(normalizeContext(ctx), "/")
	if segs[0] == "" {
		segs = nil
	}
	for n := len(segs); n >= 0; n-- {
		path := strings.Join(segs[:n], "/")
		for _, lang := range t.candidates {
			if text, ok := t.table.Get(path, key, lang); ok {
				return text, true
			}
		}
	}
	return "", false
}

// Translate resolves key like Lookup and falls back to the key itself when
// nothing matches.
func (t *Translator) Translate(ctx, key string) string {
	if text, ok := t.Lookup(ctx, key); ok {
		return text
	}
	if _, seen := t.missing.LoadOrStore(ctx+"\x00"+key, struct{}{}); !seen {
		t.logger.Debug("Missing translation", "lang", t.lang, "context", ctx, "key", key)
	}
	return key
}
