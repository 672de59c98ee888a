package document

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	mdwerror "github.com/msto63/transync/foundation/core/error"
)

// Header is the XML declaration written at the top of every document
const Header = `<?xml version="1.0" encoding="UTF-8"?>`

const indentUnit = "  "

var (
	// Line breaks are normalized by XML parsers unless written as
	// character references.
	textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", "\r", "&#13;")
	attrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;",
		"\r", "&#13;", "\n", "&#10;", "\t", "&#9;")
)

// Write serializes doc to w. The output is deterministic: writing a loaded
// copy of the output reproduces it byte for byte.
func Write(doc *Document, w io.Writer) error {
	bw := bufio.NewWriter(w)
	dw := &docWriter{w: bw}

	dw.line(0, Header)
	for _, c := range doc.Leading {
		dw.comment(0, c)
	}
	dw.context(0, RootElement, doc.Root)
	for _, c := range doc.Trailing {
		dw.comment(0, c)
	}

	if err := bw.Flush(); err != nil {
		return mdwerror.Wrap(err, "write translation document").
			WithCode(mdwerror.CodeIO).
			WithOperation("document.Write")
	}
	return nil
}

// WriteFile writes doc to path atomically: the document is written to a
// temporary file in the same directory which then replaces path.
func WriteFile(doc *Document, path string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return ioError(err, "create temporary file", path)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := Write(doc, tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return ioError(err, "sync temporary file", path)
	}
	if err := tmp.Close(); err != nil {
		return ioError(err, "close temporary file", path)
	}

	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		return ioError(err, "set file mode", path)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return ioError(err, "replace translation file", path)
	}
	return nil
}

func ioError(err error, msg, path string) error {
	return mdwerror.Wrap(err, msg).
		WithCode(mdwerror.CodeIO).
		WithOperation("document.WriteFile").
		WithDetail("path", path)
}

type docWriter struct {
	w *bufio.Writer
}

func (dw *docWriter) line(depth int, s string) {
	for i := 0; i < depth; i++ {
		dw.w.WriteString(indentUnit)
	}
	dw.w.WriteString(s)
	dw.w.WriteByte('\n')
}

func (dw *docWriter) context(depth int, name string, ctx *Context) {
	attrs := sortedAttrs(ctx.Attrs)
	if name == ContextElement && ctx.HasID {
		attrs = append([]Attr{{Name: IDAttr, Value: ctx.ID}}, attrs...)
	}
	open := "<" + name + formatAttrs(attrs)

	if len(ctx.children) == 0 {
		dw.line(depth, open+"/>")
		return
	}
	dw.line(depth, open+">")
	for _, n := range ctx.children {
		switch child := n.(type) {
		case *Entry:
			dw.entry(depth+1, child)
		case *Context:
			dw.context(depth+1, ContextElement, child)
		case *Comment:
			dw.comment(depth+1, child)
		case *Raw:
			dw.line(depth+1, child.XML)
		}
	}
	dw.line(depth, "</"+name+">")
}

func (dw *docWriter) entry(depth int, e *Entry) {
	open := "<" + EntryElement + formatAttrs(sortedAttrs(e.Attrs))
	if len(e.Comments)+len(e.Keys)+len(e.Values)+len(e.Unknown) == 0 {
		dw.line(depth, open+"/>")
		return
	}

	var elems []string
	for _, k := range e.Keys {
		elems = append(elems, textElement(KeyElement, sortedAttrs(k.Attrs), k.Raw))
	}
	for _, v := range e.Values {
		attrs := sortedAttrs(v.Attrs)
		if v.HasLang {
			attrs = append([]Attr{{Name: LangAttr, Value: v.Lang}}, attrs...)
		}
		elems = append(elems, textElement(ValueElement, attrs, v.Raw))
	}
	for _, r := range e.Unknown {
		elems = append(elems, r.XML)
	}

	dw.line(depth, open+">")
	i := 0
	for _, c := range e.Comments {
		for ; i < len(elems) && i < c.After; i++ {
			dw.line(depth+1, elems[i])
		}
		dw.comment(depth+1, c)
	}
	for ; i < len(elems); i++ {
		dw.line(depth+1, elems[i])
	}
	dw.line(depth, "</"+EntryElement+">")
}

func textElement(name string, attrs []Attr, text string) string {
	return "<" + name + formatAttrs(attrs) + ">" + textEscaper.Replace(text) + "</" + name + ">"
}

func (dw *docWriter) comment(depth int, c *Comment) {
	dw.line(depth, "<!--"+commentText(c.Text)+"-->")
}

// commentText makes text legal inside <!-- -->, which forbids "--" and a
// trailing "-".
func commentText(text string) string {
	text = splitDashes(text)
	if strings.HasSuffix(text, "-") {
		text += " "
	}
	return text
}

// splitDashes rewrites every "--" as "- -". The result is stable, so a
// string and its written-and-reloaded form split to the same value.
func splitDashes(s string) string {
	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "- -")
	}
	return s
}

func sortedAttrs(attrs []Attr) []Attr {
	out := make([]Attr, len(attrs))
	copy(out, attrs)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func formatAttrs(attrs []Attr) string {
	var b strings.Builder
	for _, a := range attrs {
		b.WriteString(" ")
		b.WriteString(a.Name)
		b.WriteString(`="`)
		b.WriteString(attrEscaper.Replace(a.Value))
		b.WriteString(`"`)
	}
	return b.String()
}
