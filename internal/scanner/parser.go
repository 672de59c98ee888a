// Package scanner finds translatable string literals in source files and
// records them in a discovered-key tree.
//
// Recognized calls:
//
//	tr("key")             key in the root context
//	_("key")              key in the root context
//	trc("Menu/File", "key")  key in context Menu, nested File
//
// Further function names can be added for both forms. Keys are kept exactly
// as written between the quotes, escapes included. The provenance ordinal of
// a match is its 1-based line number.
package scanner

import (
	"bufio"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/spf13/afero"

	mdwerror "github.com/msto63/transync/foundation/core/error"
	"github.com/msto63/transync/internal/tree"
)

// Default function names
var (
	DefaultFunctions        = []string{"tr", "_"}
	DefaultContextFunctions = []string{"trc"}
)

// A double-quoted literal with escapes, no raw newlines
const stringLiteral = `"((?:[^"\\\n]|\\.)*)"`

// Parser extracts keys from single files
type Parser struct {
	plain   *regexp.Regexp
	context *regexp.Regexp
}

// NewParser returns a parser recognizing the default function names plus
// the given extra ones.
func NewParser(functions, contextFunctions []string) *Parser {
	p := &Parser{
		plain: callPattern(append(append([]string(nil), DefaultFunctions...), functions...),
			`\s*\(\s*`+stringLiteral),
	}
	ctxNames := append(append([]string(nil), DefaultContextFunctions...), contextFunctions...)
	p.context = callPattern(ctxNames, `\s*\(\s*`+stringLiteral+`\s*,\s*`+stringLiteral)
	return p
}

func callPattern(names []string, args string) *regexp.Regexp {
	quoted := make([]string, 0, len(names))
	seen := make(map[string]bool)
	for _, n := range names {
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		quoted = append(quoted, regexp.QuoteMeta(n))
	}
	// A name must not be the tail of a longer identifier
	return regexp.MustCompile(`(?:^|[^\w])(?:` + strings.Join(quoted, "|") + `)` + args)
}

// ParseFile reads path from fs and adds every match to t. extraFunctionNames
// are recognized alongside tr and _.
func ParseFile(fs afero.Fs, path string, extraFunctionNames []string, t *tree.Context) error {
	_, err := NewParser(extraFunctionNames, nil).ParseFile(fs, path, t)
	return err
}

// ParseFile reads path from fs, adds every match to t and returns the number
// of matches.
func (p *Parser) ParseFile(fs afero.Fs, path string, t *tree.Context) (int, error) {
	f, err := fs.Open(path)
	if err != nil {
		return 0, mdwerror.Wrap(err, "open source file").
			WithCode(mdwerror.CodeIO).
			WithOperation("scanner.ParseFile").
			WithDetail("path", path)
	}
	defer f.Close()

	locator := filepath.ToSlash(path)
	matches := 0
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		matches += p.parseLine(sc.Text(), tree.Provenance{Locator: locator, Ordinal: line}, t)
	}
	if err := sc.Err(); err != nil {
		return matches, mdwerror.Wrap(err, "read source file").
			WithCode(mdwerror.CodeIO).
			WithOperation("scanner.ParseFile").
			WithDetail("path", path)
	}
	return matches, nil
}

// parseLine records the matches of one line in source order
func (p *Parser) parseLine(text string, prov tree.Provenance, t *tree.Context) int {
	type hit struct {
		pos     int
		context string
		key     string
	}
	var hits []hit
	for _, m := range p.context.FindAllStringSubmatchIndex(text, -1) {
		hits = append(hits, hit{pos: m[0], context: text[m[2]:m[3]], key: text[m[4]:m[5]]})
	}
	for _, m := range p.plain.FindAllStringSubmatchIndex(text, -1) {
		hits = append(hits, hit{pos: m[0], key: text[m[2]:m[3]]})
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })

	for _, h := range hits {
		t.Descend(ContextPath(h.context)).AddMatch(h.key, prov)
	}
	return len(hits)
}

// ContextPath splits a "A/B" context argument into its segments. Empty
// segments are dropped, so "" addresses the root.
func ContextPath(s string) []string {
	var out []string
	for _, seg := range strings.Split(s, "/") {
		if seg = strings.TrimSpace(seg); seg != "" {
			out = append(out, seg)
		}
	}
	return out
}
