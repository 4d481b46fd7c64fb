package crys

import "sort"

// Namespace is a class or module open for definitions: `def` inside its
// body adds an instance method, constants land in its constants context.
type Namespace interface {
	Name() string
	SetInstanceMethod(name string, fn Value)
	Constants() *Context
}

// Context is one frame of the lexical environment chain. Module is the class
// or module whose body is being evaluated, Self the active receiver; both
// are inherited from the parent frame unless overwritten.
type Context struct {
	parent *Context
	values map[string]Value

	Module Namespace
	Self   Value
}

// NewContext creates a frame below parent. A nil parent makes a root frame.
func NewContext(parent *Context) *Context {
	ctx := &Context{parent: parent, values: make(map[string]Value)}
	if parent != nil {
		ctx.Module = parent.Module
		ctx.Self = parent.Self
	}
	return ctx
}

// Parent returns the enclosing frame, or nil for a root frame.
func (c *Context) Parent() *Context {
	return c.parent
}

// Get resolves name in this frame or the nearest ancestor binding it.
func (c *Context) Get(name string) (Value, bool) {
	for frame := c; frame != nil; frame = frame.parent {
		if val, ok := frame.values[name]; ok {
			return val, true
		}
	}
	return Value{}, false
}

// SetLocal binds name in this frame, shadowing any ancestor binding.
func (c *Context) SetLocal(name string, val Value) {
	c.values[name] = val
}

// Has reports whether this frame itself binds name.
func (c *Context) Has(name string) bool {
	_, ok := c.values[name]
	return ok
}

// Names lists the names bound in this frame, sorted.
func (c *Context) Names() []string {
	names := make([]string, 0, len(c.values))
	for name := range c.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Root walks up to the outermost frame.
func (c *Context) Root() *Context {
	frame := c
	for frame.parent != nil {
		frame = frame.parent
	}
	return frame
}
