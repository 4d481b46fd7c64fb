package crys

// ClassObject is a user-defined class. Each class owns exactly one
// metaclass holding its class-level methods.
type ClassObject struct {
	name       string
	superclass *ClassObject
	methods    map[string]Value
	constants  *Context
	meta       *Metaclass
	ivars      map[string]Value
	classVars  map[string]Value
}

// Metaclass holds the class-level methods of one class. It has no
// superclass pointer: class-method lookup walks the owner's superclass chain
// and consults each metaclass in turn.
type Metaclass struct {
	owner   *ClassObject
	methods map[string]Value
}

// ModuleObject is a named bag of functions and constants. Modules have no
// superclass and cannot be instantiated.
type ModuleObject struct {
	name      string
	methods   map[string]Value
	constants *Context
	ivars     map[string]Value
	classVars map[string]Value
}

// Instance is an object created by a class's `new`.
type Instance struct {
	class *ClassObject
	vars  map[string]Value
}

// NewClass creates a class and its metaclass. The metaclass starts with
// `new`, which allocates an instance and runs `initialize` when the class
// chain defines one.
func NewClass(name string, superclass *ClassObject) *ClassObject {
	cls := &ClassObject{
		name:       name,
		superclass: superclass,
		methods:    make(map[string]Value),
		constants:  NewContext(nil),
	}
	cls.meta = &Metaclass{owner: cls, methods: make(map[string]Value)}
	cls.meta.SetInstanceMethod("new", NewBuiltin(name+".new", func(in *Interpreter, _ Value, args []Value) (Value, error) {
		return in.instantiate(cls, args)
	}))
	return cls
}

func (c *ClassObject) Name() string { return c.name }

func (c *ClassObject) Superclass() *ClassObject { return c.superclass }

func (c *ClassObject) Metaclass() *Metaclass { return c.meta }

func (c *ClassObject) Constants() *Context { return c.constants }

// InstanceMethod resolves name starting at c and walking up the superclass
// chain.
func (c *ClassObject) InstanceMethod(name string) (Value, bool) {
	for cls := c; cls != nil; cls = cls.superclass {
		if fn, ok := cls.methods[name]; ok {
			return fn, true
		}
	}
	return Value{}, false
}

func (c *ClassObject) SetInstanceMethod(name string, fn Value) {
	c.methods[name] = fn
}

// ClassMethod resolves a class-level method through the metaclasses of c
// and its ancestors.
func (c *ClassObject) ClassMethod(name string) (Value, bool) {
	for cls := c; cls != nil; cls = cls.superclass {
		if fn, ok := cls.meta.methods[name]; ok {
			return fn, true
		}
	}
	return Value{}, false
}

func (c *ClassObject) SetClassMethod(name string, fn Value) {
	c.meta.SetInstanceMethod(name, fn)
}

// IsSubclassOf reports whether other appears in c's superclass chain,
// including c itself.
func (c *ClassObject) IsSubclassOf(other *ClassObject) bool {
	for cls := c; cls != nil; cls = cls.superclass {
		if cls == other {
			return true
		}
	}
	return false
}

// ClassVar reads a class variable, which subclasses share with the ancestor
// that first assigned it.
func (c *ClassObject) ClassVar(name string) Value {
	for cls := c; cls != nil; cls = cls.superclass {
		if val, ok := cls.classVars[name]; ok {
			return val
		}
	}
	return Value{}
}

func (c *ClassObject) SetClassVar(name string, val Value) {
	for cls := c; cls != nil; cls = cls.superclass {
		if _, ok := cls.classVars[name]; ok {
			cls.classVars[name] = val
			return
		}
	}
	if c.classVars == nil {
		c.classVars = make(map[string]Value)
	}
	c.classVars[name] = val
}

func (c *ClassObject) Var(name string) Value {
	return c.ivars[name]
}

func (c *ClassObject) SetVar(name string, val Value) {
	if c.ivars == nil {
		c.ivars = make(map[string]Value)
	}
	c.ivars[name] = val
}

func (m *Metaclass) Owner() *ClassObject { return m.owner }

func (m *Metaclass) Name() string { return m.owner.name }

func (m *Metaclass) InstanceMethod(name string) (Value, bool) {
	fn, ok := m.methods[name]
	return fn, ok
}

func (m *Metaclass) SetInstanceMethod(name string, fn Value) {
	m.methods[name] = fn
}

// NewModule creates an empty module.
func NewModule(name string) *ModuleObject {
	return &ModuleObject{
		name:      name,
		methods:   make(map[string]Value),
		constants: NewContext(nil),
	}
}

func (m *ModuleObject) Name() string { return m.name }

func (m *ModuleObject) Constants() *Context { return m.constants }

func (m *ModuleObject) InstanceMethod(name string) (Value, bool) {
	fn, ok := m.methods[name]
	return fn, ok
}

func (m *ModuleObject) SetInstanceMethod(name string, fn Value) {
	m.methods[name] = fn
}

func (m *ModuleObject) ClassVar(name string) Value {
	return m.classVars[name]
}

func (m *ModuleObject) SetClassVar(name string, val Value) {
	if m.classVars == nil {
		m.classVars = make(map[string]Value)
	}
	m.classVars[name] = val
}

func (m *ModuleObject) Var(name string) Value {
	return m.ivars[name]
}

func (m *ModuleObject) SetVar(name string, val Value) {
	if m.ivars == nil {
		m.ivars = make(map[string]Value)
	}
	m.ivars[name] = val
}

// NewInstance allocates an object of cls without running `initialize`.
func NewInstance(cls *ClassObject) *Instance {
	return &Instance{class: cls}
}

func (i *Instance) Class() *ClassObject { return i.class }

// Var reads an instance variable; unset variables read as nil.
func (i *Instance) Var(name string) Value {
	return i.vars[name]
}

func (i *Instance) SetVar(name string, val Value) {
	if i.vars == nil {
		i.vars = make(map[string]Value)
	}
	i.vars[name] = val
}

// VarNames lists the instance variables set so far.
func (i *Instance) VarNames() []string {
	names := make([]string, 0, len(i.vars))
	for name := range i.vars {
		names = append(names, name)
	}
	return names
}

type varStore interface {
	Var(name string) Value
	SetVar(name string, val Value)
}

type classVarStore interface {
	ClassVar(name string) Value
	SetClassVar(name string, val Value)
}

// instanceVarsOf resolves the store backing `@name` for receiver self.
func instanceVarsOf(self Value) (varStore, bool) {
	switch self.kind {
	case KindInstance:
		return self.Instance(), true
	case KindClass:
		return self.Class(), true
	case KindMetaclass:
		return self.Metaclass().Owner(), true
	case KindModule:
		return self.Module(), true
	default:
		return nil, false
	}
}

// classVarsOf resolves the store backing `@@name`: the receiver's class for
// instances, the owner for metaclasses, the class or module itself otherwise.
func classVarsOf(self Value) (classVarStore, bool) {
	switch self.kind {
	case KindInstance:
		return self.Instance().Class(), true
	case KindClass:
		return self.Class(), true
	case KindMetaclass:
		return self.Metaclass().Owner(), true
	case KindModule:
		return self.Module(), true
	default:
		return nil, false
	}
}
