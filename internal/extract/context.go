package extract

// Context carries the transient state of one extractor's single-file
// traversal: the stack of enclosing parent symbol IDs, the default
// visibility, and language-specific flags. A Context is owned exclusively
// by the traversal that created it and must never be shared across files
// or goroutines.
type Context struct {
	parents    []string
	defaultVis Visibility
	flags      map[string]bool
}

// NewContext returns a fresh traversal context with Public as the default
// visibility.
func NewContext() *Context {
	return &Context{
		defaultVis: VisibilityPublic,
		flags:      make(map[string]bool),
	}
}

// Push records sym as the enclosing parent for symbols created until the
// matching Pop. Callers pair Push/Pop around entry and exit of every
// scope-introducing node (class bodies, function bodies, modules).
func (c *Context) Push(symbolID string) {
	c.parents = append(c.parents, symbolID)
}

// Pop removes the innermost enclosing parent. Popping an empty stack is a
// no-op so unbalanced extractors degrade instead of faulting.
func (c *Context) Pop() {
	if len(c.parents) > 0 {
		c.parents = c.parents[:len(c.parents)-1]
	}
}

// Parent returns the ID of the innermost enclosing symbol, or "" at the
// top level.
func (c *Context) Parent() string {
	if len(c.parents) == 0 {
		return ""
	}
	return c.parents[len(c.parents)-1]
}

// Depth returns the current nesting depth.
func (c *Context) Depth() int {
	return len(c.parents)
}

// SetDefaultVisibility overrides the visibility assigned when neither the
// syntax nor the naming convention says otherwise.
func (c *Context) SetDefaultVisibility(v Visibility) {
	c.defaultVis = v
}

// DefaultVisibility returns the current default visibility.
func (c *Context) DefaultVisibility() Visibility {
	return c.defaultVis
}

// SetFlag sets a language-specific traversal flag (e.g. "in_interface").
func (c *Context) SetFlag(name string, value bool) {
	c.flags[name] = value
}

// Flag reads a traversal flag; unset flags are false.
func (c *Context) Flag(name string) bool {
	return c.flags[name]
}
