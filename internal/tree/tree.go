// Package tree holds the keys discovered in source code, grouped by
// disambiguation context. A tree is built once per run by the scanner and
// then only read.
package tree

// Provenance records where a key was found
type Provenance struct {
	Locator string
	Ordinal int
}

// Context is one node of the discovered-key tree. Keys and nested contexts
// iterate in discovery order.
type Context struct {
	keys    []string
	matches map[string][]Provenance

	childNames []string
	children   map[string]*Context
}

// New creates an empty root context
func New() *Context {
	return &Context{
		matches:  make(map[string][]Provenance),
		children: make(map[string]*Context),
	}
}

// AddMatch records that key was found at p
func (c *Context) AddMatch(key string, p Provenance) {
	if _, ok := c.matches[key]; !ok {
		c.keys = append(c.keys, key)
	}
	c.matches[key] = append(c.matches[key], p)
}

// Child returns the nested context name, creating it when absent
func (c *Context) Child(name string) *Context {
	if child, ok := c.children[name]; ok {
		return child
	}
	child := New()
	c.children[name] = child
	c.childNames = append(c.childNames, name)
	return child
}

// Descend returns the context reached by following path from c, creating
// missing nodes. An empty path returns c.
func (c *Context) Descend(path []string) *Context {
	node := c
	for _, name := range path {
		node = node.Child(name)
	}
	return node
}

// Lookup returns the nested context name without creating it
func (c *Context) Lookup(name string) (*Context, bool) {
	child, ok := c.children[name]
	return child, ok
}

// Keys returns the keys of this context in discovery order
func (c *Context) Keys() []string {
	out := make([]string, len(c.keys))
	copy(out, c.keys)
	return out
}

// Matches returns the provenance records of key in discovery order
func (c *Context) Matches(key string) []Provenance {
	m := c.matches[key]
	out := make([]Provenance, len(m))
	copy(out, m)
	return out
}

// Contexts returns the names of the nested contexts in discovery order
func (c *Context) Contexts() []string {
	out := make([]string, len(c.childNames))
	copy(out, c.childNames)
	return out
}

// Walk calls fn for c and every nested context, depth-first, parents before
// children. path is the list of context names leading to the node.
func (c *Context) Walk(fn func(path []string, node *Context)) {
	c.walk(nil, fn)
}

func (c *Context) walk(path []string, fn func([]string, *Context)) {
	fn(path, c)
	for _, name := range c.childNames {
		childPath := append(append([]string(nil), path...), name)
		c.children[name].walk(childPath, fn)
	}
}

// Counts returns the number of keys and nested contexts below and including c
func (c *Context) Counts() (keys, contexts int) {
	c.Walk(func(path []string, node *Context) {
		keys += len(node.keys)
		if len(path) > 0 {
			contexts++
		}
	})
	return keys, contexts
}
