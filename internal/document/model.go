package document

import (
	"strconv"
	"strings"
)

// Element and attribute names of the persisted format
const (
	RootElement    = "translations"
	ContextElement = "context"
	EntryElement   = "entry"
	KeyElement     = "key"
	ValueElement   = "value"

	IDAttr   = "id"
	LangAttr = "lang"
)

// Node is a child of a Context: *Entry, *Context, *Comment or *Raw
type Node interface {
	node()
}

// Attr is an attribute the model does not interpret
type Attr struct {
	Name  string
	Value string
}

// Document is a loaded translation file
type Document struct {
	// Comments before the root element
	Leading []*Comment
	// Comments after the root element
	Trailing []*Comment
	Root     *Context
}

// New returns an empty document
func New() *Document {
	return &Document{Root: &Context{}}
}

// Walk visits every context depth-first, parents before children. path holds
// the IDs of the contexts below the root leading to ctx.
func (d *Document) Walk(fn func(path []string, ctx *Context)) {
	d.Root.walk(nil, fn)
}

// IsEmpty reports whether the document has no content at all
func (d *Document) IsEmpty() bool {
	return len(d.Leading) == 0 && len(d.Trailing) == 0 && len(d.Root.children) == 0
}

// Context is the root element or a <context> element
type Context struct {
	ID    string
	HasID bool
	Line  int
	Attrs []Attr

	children []Node
}

func (*Context) node() {}

// NewContext returns a context with the given id
func NewContext(id string) *Context {
	return &Context{ID: id, HasID: true}
}

// Children returns all children in stored order
func (c *Context) Children() []Node {
	out := make([]Node, len(c.children))
	copy(out, c.children)
	return out
}

// Entries returns the entries of c in stored order
func (c *Context) Entries() []*Entry {
	var out []*Entry
	for _, n := range c.children {
		if e, ok := n.(*Entry); ok {
			out = append(out, e)
		}
	}
	return out
}

// Contexts returns the nested contexts of c in stored order
func (c *Context) Contexts() []*Context {
	var out []*Context
	for _, n := range c.children {
		if ctx, ok := n.(*Context); ok {
			out = append(out, ctx)
		}
	}
	return out
}

// Comments returns the comments directly inside c in stored order
func (c *Context) Comments() []*Comment {
	var out []*Comment
	for _, n := range c.children {
		if cm, ok := n.(*Comment); ok {
			out = append(out, cm)
		}
	}
	return out
}

// Unknown returns the raw elements directly inside c
func (c *Context) Unknown() []*Raw {
	var out []*Raw
	for _, n := range c.children {
		if r, ok := n.(*Raw); ok {
			out = append(out, r)
		}
	}
	return out
}

// Append adds n after all existing children
func (c *Context) Append(n Node) {
	c.children = append(c.children, n)
}

// FindEntry returns the first entry whose key matches rawKey. Keyless
// entries never match.
func (c *Context) FindEntry(rawKey string) *Entry {
	for _, n := range c.children {
		if e, ok := n.(*Entry); ok && e.HasKey() && e.Keys[0].Raw == rawKey {
			return e
		}
	}
	return nil
}

// FindContext returns the first nested context with the given id
func (c *Context) FindContext(id string) *Context {
	for _, n := range c.children {
		if ctx, ok := n.(*Context); ok && ctx.HasID && ctx.ID == id {
			return ctx
		}
	}
	return nil
}

// RemoveComments drops the comments directly inside c
func (c *Context) RemoveComments() {
	kept := c.children[:0]
	for _, n := range c.children {
		if _, ok := n.(*Comment); !ok {
			kept = append(kept, n)
		}
	}
	c.children = kept
}

func (c *Context) walk(path []string, fn func([]string, *Context)) {
	fn(path, c)
	for _, child := range c.Contexts() {
		childPath := append(append([]string(nil), path...), child.ID)
		child.walk(childPath, fn)
	}
}

// Entry is an <entry> element
type Entry struct {
	Keys     []Key
	Values   []Value
	Comments []*Comment
	Unknown  []*Raw
	Line     int
	Attrs    []Attr
}

func (*Entry) node() {}

// NewEntry returns an entry with one key holding rawKey
func NewEntry(rawKey string) *Entry {
	return &Entry{Keys: []Key{{Raw: rawKey}}}
}

// HasKey reports whether the entry has at least one key element
func (e *Entry) HasKey() bool {
	return len(e.Keys) > 0
}

// Key returns the first key element; ok is false for keyless entries
func (e *Entry) Key() (Key, bool) {
	if len(e.Keys) == 0 {
		return Key{}, false
	}
	return e.Keys[0], true
}

// Value returns the first value for lang
func (e *Entry) Value(lang string) (Value, bool) {
	for _, v := range e.Values {
		if v.HasLang && v.Lang == lang {
			return v, true
		}
	}
	return Value{}, false
}

// IsDeprecated reports whether the entry carries a deprecation marker
func (e *Entry) IsDeprecated() bool {
	for _, c := range e.Comments {
		if c.Kind == CommentDeprecation {
			return true
		}
	}
	return false
}

// FoundingComments returns the founding comments in stored order
func (e *Entry) FoundingComments() []*Comment {
	var out []*Comment
	for _, c := range e.Comments {
		if c.Kind == CommentFounding {
			out = append(out, c)
		}
	}
	return out
}

// HasFounding reports whether a founding comment equal to c exists
func (e *Entry) HasFounding(c *Comment) bool {
	for _, existing := range e.Comments {
		if existing.Kind == CommentFounding && existing.sameFounding(c) {
			return true
		}
	}
	return false
}

// InsertFounding places c after the last founding comment, or at the end
// of the comments preceding the first element when the entry has none.
func (e *Entry) InsertFounding(c *Comment) {
	for i := len(e.Comments) - 1; i >= 0; i-- {
		if e.Comments[i].Kind == CommentFounding {
			c.After = e.Comments[i].After
			e.insertComment(i+1, c)
			return
		}
	}
	e.AddComment(c)
}

// AddComment places c at the end of the comments preceding the first
// element.
func (e *Entry) AddComment(c *Comment) {
	pos := 0
	for pos < len(e.Comments) && e.Comments[pos].After == 0 {
		pos++
	}
	c.After = 0
	e.insertComment(pos, c)
}

func (e *Entry) insertComment(pos int, c *Comment) {
	e.Comments = append(e.Comments, nil)
	copy(e.Comments[pos+1:], e.Comments[pos:])
	e.Comments[pos] = c
}

// RemoveComments drops every comment for which drop returns true and
// reports how many were removed.
func (e *Entry) RemoveComments(drop func(*Comment) bool) int {
	kept := e.Comments[:0]
	removed := 0
	for _, c := range e.Comments {
		if drop(c) {
			removed++
			continue
		}
		kept = append(kept, c)
	}
	for i := len(kept); i < len(e.Comments); i++ {
		e.Comments[i] = nil
	}
	e.Comments = kept
	return removed
}

// Key is a <key> element. Raw keeps backslash escapes undecoded.
type Key struct {
	Raw   string
	Line  int
	Attrs []Attr
}

// Text returns the key with escapes decoded
func (k Key) Text() string {
	return Unescape(k.Raw)
}

// Value is a <value> element
type Value struct {
	Lang    string
	HasLang bool
	Raw     string
	Line    int
	Attrs   []Attr
}

// NewValue returns a value for lang
func NewValue(lang, raw string) Value {
	return Value{Lang: lang, HasLang: true, Raw: raw}
}

// Text returns the value with escapes decoded
func (v Value) Text() string {
	return Unescape(v.Raw)
}

// Raw is an element the model does not know, or stray text, kept verbatim
type Raw struct {
	// XML is the exact source text of the element
	XML  string
	Name string
	Line int
}

func (*Raw) node() {}

// CommentKind classifies a comment
type CommentKind int

const (
	CommentOther CommentKind = iota
	CommentFounding
	CommentDeprecation
)

func (k CommentKind) String() string {
	switch k {
	case CommentFounding:
		return "founding"
	case CommentDeprecation:
		return "deprecation"
	default:
		return "other"
	}
}

const (
	foundingPrefix    = "Found in:"
	ordinalSeparator  = " @ "
	deprecationMarker = "DEPRECATED"
)

// Comment is an XML comment. Text is everything between <!-- and -->.
type Comment struct {
	Text string
	Kind CommentKind
	Line int

	// After counts the key, value and unknown elements of the enclosing
	// entry that precede the comment
	After int

	// Set for founding comments
	Locator    string
	Ordinal    int
	HasOrdinal bool
}

func (*Comment) node() {}

// NewComment classifies text and returns the comment
func NewComment(text string) *Comment {
	c := &Comment{Text: text}
	c.classify()
	return c
}

// FoundingComment returns "Found in: <locator> @ <ordinal>", or without the
// ordinal when withOrdinal is false.
func FoundingComment(locator string, ordinal int, withOrdinal bool) *Comment {
	text := foundingPrefix + " " + locator
	if withOrdinal {
		text += ordinalSeparator + strconv.Itoa(ordinal)
	}
	return NewComment(" " + text + " ")
}

// DeprecationComment returns a new deprecation marker
func DeprecationComment() *Comment {
	return NewComment(" " + deprecationMarker + " ")
}

func (c *Comment) classify() {
	t := strings.TrimSpace(c.Text)
	if t == deprecationMarker {
		c.Kind = CommentDeprecation
		return
	}
	if !strings.HasPrefix(t, foundingPrefix) {
		c.Kind = CommentOther
		return
	}
	rest := strings.TrimSpace(strings.TrimPrefix(t, foundingPrefix))
	if rest == "" {
		c.Kind = CommentOther
		return
	}
	c.Kind = CommentFounding
	c.Locator = rest
	if i := strings.LastIndex(rest, ordinalSeparator); i >= 0 {
		if n, err := strconv.Atoi(strings.TrimSpace(rest[i+len(ordinalSeparator):])); err == nil {
			c.Locator = strings.TrimSpace(rest[:i])
			c.Ordinal = n
			c.HasOrdinal = true
		}
	}
}

// sameFounding compares locators the way they read back after a write,
// since "--" cannot be stored in a comment.
func (c *Comment) sameFounding(other *Comment) bool {
	if splitDashes(c.Locator) != splitDashes(other.Locator) || c.HasOrdinal != other.HasOrdinal {
		return false
	}
	return !c.HasOrdinal || c.Ordinal == other.Ordinal
}
