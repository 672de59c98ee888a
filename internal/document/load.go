package document

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"os"
	"regexp"
	"strings"

	"golang.org/x/text/encoding/htmlindex"

	mdwerror "github.com/msto63/transync/foundation/core/error"
)

// Parse error kinds, stored in the "kind" detail of CodeParse errors
const (
	KindMalformed   = "malformed"
	KindRootElement = "root_element"
)

var (
	utf8BOM       = []byte("\xEF\xBB\xBF")
	declEncoding  = regexp.MustCompile(`^<\?xml[^>]*encoding\s*=\s*["']([A-Za-z0-9._:-]+)["']`)
	errUnexpected = errors.New("unexpected end of input")
)

// LoadFile reads the document at path. A missing file yields an empty
// document.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return New(), nil
	}
	if err != nil {
		return nil, mdwerror.Wrap(err, "read translation file").
			WithCode(mdwerror.CodeIO).
			WithOperation("document.LoadFile").
			WithDetail("path", path)
	}
	doc, err := LoadBytes(data)
	if err != nil {
		return nil, mdwerror.Wrap(err, path)
	}
	return doc, nil
}

// Load reads a document from r
func Load(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, mdwerror.Wrap(err, "read translation document").
			WithCode(mdwerror.CodeIO).
			WithOperation("document.Load")
	}
	return LoadBytes(data)
}

// LoadBytes parses data. Empty or whitespace-only input yields an empty
// document; anything else must have a single <translations> root.
func LoadBytes(data []byte) (*Document, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if len(bytes.TrimSpace(data)) == 0 {
		return New(), nil
	}

	data, err := toUTF8(data)
	if err != nil {
		return nil, err
	}

	p := &parser{data: data}
	p.dec = xml.NewDecoder(bytes.NewReader(data))
	// Input is already UTF-8; the declaration may still name the original charset.
	p.dec.CharsetReader = func(_ string, r io.Reader) (io.Reader, error) { return r, nil }
	return p.document()
}

func toUTF8(data []byte) ([]byte, error) {
	m := declEncoding.FindSubmatch(data)
	if m == nil {
		return data, nil
	}
	label := strings.ToLower(string(m[1]))
	if label == "utf-8" || label == "utf8" {
		return data, nil
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, parseError(KindMalformed, 1, "unsupported encoding "+label)
	}
	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return nil, parseError(KindMalformed, 1, "cannot decode "+label+" input")
	}
	return decoded, nil
}

func parseError(kind string, line int, msg string) *mdwerror.Error {
	return mdwerror.New(msg).
		WithCode(mdwerror.CodeParse).
		WithOperation("document.Load").
		WithDetail("kind", kind).
		WithDetail("line", line)
}

// ParseErrorKind returns the kind of a parse error, or "" for other errors
func ParseErrorKind(err error) string {
	var e *mdwerror.Error
	if !errors.As(err, &e) || e.Code() != mdwerror.CodeParse {
		return ""
	}
	kind, _ := e.Detail("kind")
	s, _ := kind.(string)
	return s
}

type parser struct {
	dec  *xml.Decoder
	data []byte
}

type position struct {
	line   int
	offset int64
}

func (p *parser) next() (xml.Token, position, error) {
	line, _ := p.dec.InputPos()
	pos := position{line: line, offset: p.dec.InputOffset()}
	tok, err := p.dec.RawToken()
	if err != nil {
		return nil, pos, err
	}
	return xml.CopyToken(tok), pos, nil
}

func (p *parser) malformed(err error, pos position) *mdwerror.Error {
	line := pos.line
	var syn *xml.SyntaxError
	if errors.As(err, &syn) {
		line = syn.Line
	}
	msg := "malformed document"
	if err != nil {
		msg += ": " + err.Error()
	}
	return parseError(KindMalformed, line, msg)
}

func (p *parser) document() (*Document, error) {
	doc := New()
	rootSeen := false

	for {
		tok, pos, err := p.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, p.malformed(err, pos)
		}

		switch t := tok.(type) {
		case xml.CharData:
			if len(bytes.TrimSpace(t)) > 0 {
				return nil, p.malformed(errors.New("text outside the root element"), pos)
			}
		case xml.Comment:
			c := NewComment(string(t))
			c.Line = pos.line
			if rootSeen {
				doc.Trailing = append(doc.Trailing, c)
			} else {
				doc.Leading = append(doc.Leading, c)
			}
		case xml.StartElement:
			name := rawName(t.Name)
			if rootSeen {
				return nil, p.malformed(errors.New("content after the root element"), pos)
			}
			if name != RootElement {
				return nil, parseError(KindRootElement, pos.line, "unexpected root element <"+name+">").
					WithDetail("element", name)
			}
			doc.Root.Line = pos.line
			doc.Root.Attrs = otherAttrs(t.Attr, "")
			if err := p.context(doc.Root, name); err != nil {
				return nil, err
			}
			rootSeen = true
		case xml.EndElement:
			return nil, p.malformed(errors.New("unexpected </"+rawName(t.Name)+">"), pos)
		}
	}

	if !rootSeen {
		return nil, parseError(KindMalformed, 1, "missing root element <"+RootElement+">")
	}
	return doc, nil
}

func (p *parser) context(ctx *Context, name string) error {
	for {
		tok, pos, err := p.next()
		if err == io.EOF {
			err = errUnexpected
		}
		if err != nil {
			return p.malformed(err, pos)
		}

		switch t := tok.(type) {
		case xml.CharData:
			if raw := p.strayText(t, pos); raw != nil {
				ctx.Append(raw)
			}
		case xml.Comment:
			c := NewComment(string(t))
			c.Line = pos.line
			ctx.Append(c)
		case xml.StartElement:
			switch rawName(t.Name) {
			case EntryElement:
				e := &Entry{Line: pos.line, Attrs: otherAttrs(t.Attr, "")}
				if err := p.entry(e); err != nil {
					return err
				}
				ctx.Append(e)
			case ContextElement:
				child := &Context{Line: pos.line, Attrs: otherAttrs(t.Attr, IDAttr)}
				child.ID, child.HasID = attr(t.Attr, IDAttr)
				if err := p.context(child, ContextElement); err != nil {
					return err
				}
				ctx.Append(child)
			default:
				raw, err := p.skip(t, pos)
				if err != nil {
					return err
				}
				ctx.Append(raw)
			}
		case xml.EndElement:
			if got := rawName(t.Name); got != name {
				return p.malformed(errors.New("</"+got+"> closes <"+name+">"), pos)
			}
			return nil
		}
	}
}

func (p *parser) entry(e *Entry) error {
	for {
		tok, pos, err := p.next()
		if err == io.EOF {
			err = errUnexpected
		}
		if err != nil {
			return p.malformed(err, pos)
		}

		switch t := tok.(type) {
		case xml.CharData:
			if raw := p.strayText(t, pos); raw != nil {
				e.Unknown = append(e.Unknown, raw)
			}
		case xml.Comment:
			c := NewComment(string(t))
			c.Line = pos.line
			c.After = len(e.Keys) + len(e.Values) + len(e.Unknown)
			e.Comments = append(e.Comments, c)
		case xml.StartElement:
			switch rawName(t.Name) {
			case KeyElement:
				text, err := p.text(KeyElement)
				if err != nil {
					return err
				}
				e.Keys = append(e.Keys, Key{Raw: text, Line: pos.line, Attrs: otherAttrs(t.Attr, "")})
			case ValueElement:
				text, err := p.text(ValueElement)
				if err != nil {
					return err
				}
				v := Value{Raw: text, Line: pos.line, Attrs: otherAttrs(t.Attr, LangAttr)}
				v.Lang, v.HasLang = attr(t.Attr, LangAttr)
				e.Values = append(e.Values, v)
			default:
				raw, err := p.skip(t, pos)
				if err != nil {
					return err
				}
				e.Unknown = append(e.Unknown, raw)
			}
		case xml.EndElement:
			if got := rawName(t.Name); got != EntryElement {
				return p.malformed(errors.New("</"+got+"> closes <entry>"), pos)
			}
			return nil
		}
	}
}

// text collects the character data of a key or value element. Markup nested
// inside it is not part of the model.
func (p *parser) text(name string) (string, error) {
	var b strings.Builder
	depth := 0
	for {
		tok, pos, err := p.next()
		if err == io.EOF {
			err = errUnexpected
		}
		if err != nil {
			return "", p.malformed(err, pos)
		}
		switch t := tok.(type) {
		case xml.CharData:
			b.Write(t)
		case xml.StartElement:
			depth++
		case xml.EndElement:
			if depth == 0 {
				if got := rawName(t.Name); got != name {
					return "", p.malformed(errors.New("</"+got+"> closes <"+name+">"), pos)
				}
				return b.String(), nil
			}
			depth--
		}
	}
}

// skip consumes the element started by start and returns its source text
func (p *parser) skip(start xml.StartElement, pos position) (*Raw, error) {
	names := []string{rawName(start.Name)}
	for len(names) > 0 {
		tok, tpos, err := p.next()
		if err == io.EOF {
			err = errUnexpected
		}
		if err != nil {
			return nil, p.malformed(err, tpos)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			names = append(names, rawName(t.Name))
		case xml.EndElement:
			top := names[len(names)-1]
			if got := rawName(t.Name); got != top {
				return nil, p.malformed(errors.New("</"+got+"> closes <"+top+">"), tpos)
			}
			names = names[:len(names)-1]
		}
	}
	end := p.dec.InputOffset()
	return &Raw{
		XML:  string(p.data[pos.offset:end]),
		Name: rawName(start.Name),
		Line: pos.line,
	}, nil
}

func (p *parser) strayText(t xml.CharData, pos position) *Raw {
	if len(bytes.TrimSpace(t)) == 0 {
		return nil
	}
	src := bytes.TrimSpace(p.data[pos.offset:p.dec.InputOffset()])
	return &Raw{XML: string(src), Line: pos.line}
}

func rawName(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}

func attr(attrs []xml.Attr, name string) (string, bool) {
	for _, a := range attrs {
		if rawName(a.Name) == name {
			return a.Value, true
		}
	}
	return "", false
}

func otherAttrs(attrs []xml.Attr, skip string) []Attr {
	var out []Attr
	for _, a := range attrs {
		name := rawName(a.Name)
		if name == skip {
			continue
		}
		out = append(out, Attr{Name: name, Value: a.Value})
	}
	return out
}
