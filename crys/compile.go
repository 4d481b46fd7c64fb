package crys

import (
	"io"
	"log/slog"
	"strings"
)

// DefaultRequirePath is the module the generated code imports the runtime
// library from.
const DefaultRequirePath = "crysjs"

// runtimeAlias names the local binding of the imported runtime library.
const runtimeAlias = "$crysjs"

// CompileOptions controls JavaScript generation.
type CompileOptions struct {
	// RequirePath is the module passed to require() for runtime library
	// functions. Defaults to DefaultRequirePath.
	RequirePath string
	// Library lists the functions the runtime exports. Defaults to
	// DefaultLibrary.
	Library *Library
	// Logger receives debug events for hoisted names and aliases.
	Logger *slog.Logger
}

// Compiler turns whole programs into JavaScript.
type Compiler struct {
	opts CompileOptions
}

// NewCompiler applies defaults for unset options.
func NewCompiler(opts CompileOptions) *Compiler {
	if opts.RequirePath == "" {
		opts.RequirePath = DefaultRequirePath
	}
	if opts.Library == nil {
		opts.Library = DefaultLibrary()
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Compiler{opts: opts}
}

// Compile is shorthand for NewCompiler(opts).Compile(source).
func Compile(source string, opts CompileOptions) (string, error) {
	return NewCompiler(opts).Compile(source)
}

// Compile reads statements until the parser runs dry, compiles each one and
// prepends the declarations they need: `var` for every declared name and a
// require plus alias for each runtime library function called.
func (c *Compiler) Compile(source string) (string, error) {
	ps := NewParser(source)
	var (
		stmts    []string
		bindings = newBindingSet()
	)
	for {
		parsed, err := ps.Parse(RuleStatement)
		if err != nil {
			return "", err
		}
		if parsed == nil {
			break
		}
		if parsed.Node == nil {
			continue
		}
		code, err := CompileNode(parsed.Node)
		if err != nil {
			return "", err
		}
		stmts = append(stmts, terminate(asStatement(code)))
		bindings.scan(parsed.Node, c.opts.Library)
	}
	return c.preamble(bindings) + strings.Join(stmts, " "), nil
}

func (c *Compiler) preamble(bindings *bindingSet) string {
	var b strings.Builder
	imported := false
	for _, name := range bindings.order {
		if bindings.isLibraryRef(name, c.opts.Library) {
			if !imported {
				b.WriteString("var " + runtimeAlias + " = require(" + jsonString(c.opts.RequirePath) + "); ")
				imported = true
			}
			b.WriteString("var " + name + " = " + runtimeAlias + "." + name + "; ")
			c.opts.Logger.Debug("runtime alias", "name", name, "require", c.opts.RequirePath)
			continue
		}
		if !bindings.declared[name] {
			continue
		}
		b.WriteString("var " + name + "; ")
		c.opts.Logger.Debug("hoisted", "name", name)
	}
	return b.String()
}

// bindingSet gathers, in first-seen order, the names a compiled unit needs
// bound before its first statement.
type bindingSet struct {
	order    []string
	seen     map[string]bool
	declared map[string]bool
	assigned map[string]bool
	called   map[string]bool
	defined  map[string]bool
}

func newBindingSet() *bindingSet {
	return &bindingSet{
		seen:     make(map[string]bool),
		declared: make(map[string]bool),
		assigned: make(map[string]bool),
		called:   make(map[string]bool),
		defined:  make(map[string]bool),
	}
}

func (s *bindingSet) note(name string) {
	if !s.seen[name] {
		s.seen[name] = true
		s.order = append(s.order, name)
	}
}

func (s *bindingSet) scan(stmt Node, lib *Library) {
	if def, ok := stmt.(*DefExpr); ok {
		s.defined[def.Name] = true
	}
	collectDeclared(stmt, func(name string, assigned bool) {
		s.declared[name] = true
		if assigned {
			s.assigned[name] = true
		}
		s.note(name)
	})
	collectCalled(stmt, func(name string) {
		s.called[name] = true
		s.note(name)
	})
	collectReferenced(stmt, func(name string) {
		if lib.Has(name) {
			s.called[name] = true
			s.note(name)
		}
	})
}

// isLibraryRef reports whether name should be bound to the runtime export:
// it is called or referenced, the library has it, and the unit neither
// assigns it nor defines a function of that name.
func (s *bindingSet) isLibraryRef(name string, lib *Library) bool {
	if s.assigned[name] || s.defined[name] || !lib.Has(name) {
		return false
	}
	return s.called[name] || s.declared[name]
}

// collectDeclared reports the names a statement binds at its own level,
// descending into loop bodies and sequences but not into function bodies.
func collectDeclared(n Node, add func(name string, assigned bool)) {
	switch n := n.(type) {
	case *NameExpr:
		add(n.Name, false)
	case *AssignExpr:
		if name := DeclaredName(n); name != "" {
			add(name, true)
		}
		collectDeclared(n.Value, func(name string, assigned bool) {
			if assigned {
				add(name, true)
			}
		})
	case *WhileExpr:
		collectDeclared(n.Body, add)
	case *UntilExpr:
		collectDeclared(n.Body, add)
	case *CompositeExpr:
		for _, expr := range n.Exprs {
			collectDeclared(expr, add)
		}
	}
}

// collectCalled reports every free call in n, including those nested in
// arguments, loop conditions, loop bodies and function bodies.
func collectCalled(n Node, add func(name string)) {
	if n == nil {
		return
	}
	if call, ok := n.(*CallExpr); ok {
		add(call.Name)
	}
	for _, child := range childNodes(n) {
		collectCalled(child, add)
	}
}

// collectReferenced reports every bare name read anywhere in n, such as a
// library function passed or stored as a value.
func collectReferenced(n Node, add func(name string)) {
	if n == nil {
		return
	}
	if name, ok := n.(*NameExpr); ok {
		add(name.Name)
	}
	for _, child := range childNodes(n) {
		collectReferenced(child, add)
	}
}

// functionLocals lists the names a function body assigns, other than its
// parameters, in first-seen order.
func functionLocals(def *DefExpr) []string {
	skip := make(map[string]bool, len(def.Params))
	for _, p := range def.Params {
		skip[p] = true
	}
	var locals []string
	collectDeclared(def.Body, func(name string, assigned bool) {
		if !assigned || skip[name] {
			return
		}
		skip[name] = true
		locals = append(locals, name)
	})
	return locals
}

// childNodes returns the direct children of n.
func childNodes(n Node) []Node {
	switch n := n.(type) {
	case *ConstantExpr, *KeywordExpr, *NameExpr, *SelfExpr, *InstanceVarExpr,
		*ClassVarExpr, *GlobalVarExpr, *JSNamespaceExpr:
		return nil
	case *AssignExpr:
		return []Node{n.Target, n.Value}
	case *CallExpr:
		return n.Args
	case *QualifiedCallExpr:
		return append([]Node{n.Target}, n.Args...)
	case *JSMemberExpr:
		return []Node{n.Target}
	case *JSCallExpr:
		return append([]Node{n.Member}, n.Args...)
	case *IfExpr:
		return nonNil(n.Cond, n.Then, n.Else)
	case *UnlessExpr:
		return nonNil(n.Cond, n.Then, n.Else)
	case *WhileExpr:
		return []Node{n.Cond, n.Body}
	case *UntilExpr:
		return []Node{n.Cond, n.Body}
	case *CompositeExpr:
		return n.Exprs
	case *DefExpr:
		return []Node{n.Body}
	case *DefNamedExpr:
		return []Node{n.Body}
	case *ClassExpr:
		return []Node{n.Body}
	case *ModuleExpr:
		return []Node{n.Body}
	case *ArrayExpr:
		return n.Elements
	case *IndexedExpr:
		return append([]Node{n.Target}, n.Indexes...)
	case *BinaryExpr:
		return []Node{n.Left, n.Right}
	case *UnaryExpr:
		return []Node{n.Operand}
	}
	return nil
}

func nonNil(nodes ...Node) []Node {
	out := nodes[:0]
	for _, n := range nodes {
		if n != nil {
			out = append(out, n)
		}
	}
	return out
}
