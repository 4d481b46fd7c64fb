package crys

import (
	"fmt"
	"unicode"
	"unicode/utf8"
)

func (in *Interpreter) eval(n Node, env *Context) (Value, error) {
	switch n := n.(type) {
	case *ConstantExpr:
		return n.Value, nil
	case *KeywordExpr:
		return NewString(n.Name), nil
	case *NameExpr:
		return in.evalName(n, env)
	case *SelfExpr:
		return env.Self, nil
	case *InstanceVarExpr:
		store, ok := instanceVarsOf(env.Self)
		if !ok {
			return Value{}, &TypeError{Message: fmt.Sprintf("instance variable @%s used outside an object", n.Name), Pos: n.position}
		}
		return store.Var(n.Name), nil
	case *ClassVarExpr:
		store, ok := classVarsOf(env.Self)
		if !ok {
			return Value{}, &TypeError{Message: fmt.Sprintf("class variable @@%s used outside a class", n.Name), Pos: n.position}
		}
		return store.ClassVar(n.Name), nil
	case *GlobalVarExpr:
		return in.globals[n.Name], nil
	case *AssignExpr:
		val, err := in.eval(n.Value, env)
		if err != nil {
			return Value{}, err
		}
		if err := in.assign(n.Target, val, env); err != nil {
			return Value{}, err
		}
		return val, nil
	case *CallExpr:
		return in.evalCall(n, env)
	case *QualifiedCallExpr:
		return in.evalQualifiedCall(n, env)
	case *JSNamespaceExpr:
		return in.hostLookup(nil, n.position)
	case *JSMemberExpr:
		return in.hostLookup(jsPath(n), n.position)
	case *JSCallExpr:
		args, err := in.evalArgs(n.Args, env)
		if err != nil {
			return Value{}, err
		}
		if err := in.step(); err != nil {
			return Value{}, err
		}
		val, err := in.host.Invoke(jsPath(n.Member), args)
		if err != nil {
			return Value{}, in.wrapError(err, n.position)
		}
		return val, nil
	case *IfExpr:
		return in.evalBranch(n.Cond, n.Then, n.Else, true, env)
	case *UnlessExpr:
		return in.evalBranch(n.Cond, n.Then, n.Else, false, env)
	case *WhileExpr:
		return in.evalLoop(n.Cond, n.Body, true, env)
	case *UntilExpr:
		return in.evalLoop(n.Cond, n.Body, false, env)
	case *CompositeExpr:
		result := NewNil()
		for _, expr := range n.Exprs {
			val, err := in.eval(expr, env)
			if err != nil {
				return Value{}, err
			}
			result = val
		}
		return result, nil
	case *DefExpr:
		fn := NewFunctionValue(&Function{Name: n.Name, Params: n.Params, Body: n.Body, Env: env})
		if env.Module != nil {
			env.Module.SetInstanceMethod(n.Name, fn)
		} else {
			env.SetLocal(n.Name, fn)
		}
		return fn, nil
	case *DefNamedExpr:
		return in.evalDefNamed(n, env)
	case *ClassExpr:
		return in.evalClass(n, env)
	case *ModuleExpr:
		return in.evalModule(n, env)
	case *ArrayExpr:
		elems, err := in.evalArgs(n.Elements, env)
		if err != nil {
			return Value{}, err
		}
		return NewArray(elems), nil
	case *IndexedExpr:
		return in.evalIndexed(n, env)
	case *BinaryExpr:
		return in.evalBinary(n, env)
	case *UnaryExpr:
		return in.evalUnary(n, env)
	default:
		return Value{}, &UnsupportedError{Node: fmt.Sprintf("%T", n), Capability: "evaluation", Pos: n.Pos()}
	}
}

// evalName resolves a bare identifier: the context chain first, then a
// method on self. Zero-argument functions and auto-invoking builtins are
// called rather than returned.
func (in *Interpreter) evalName(n *NameExpr, env *Context) (Value, error) {
	val, ok := env.Get(n.Name)
	if !ok {
		val, ok = methodOnSelf(env.Self, n.Name)
	}
	if !ok {
		return Value{}, &UnboundNameError{Name: n.Name, Pos: n.position}
	}
	if val.autoInvokes() {
		return in.invoke(val, env.Self, nil, n.Name, n.position)
	}
	return val, nil
}

func (in *Interpreter) assign(target Node, val Value, env *Context) error {
	switch t := target.(type) {
	case *NameExpr:
		in.define(env, t.Name, val)
	case *InstanceVarExpr:
		store, ok := instanceVarsOf(env.Self)
		if !ok {
			return &TypeError{Message: fmt.Sprintf("instance variable @%s assigned outside an object", t.Name), Pos: t.position}
		}
		store.SetVar(t.Name, val)
	case *ClassVarExpr:
		store, ok := classVarsOf(env.Self)
		if !ok {
			return &TypeError{Message: fmt.Sprintf("class variable @@%s assigned outside a class", t.Name), Pos: t.position}
		}
		store.SetClassVar(t.Name, val)
	case *GlobalVarExpr:
		in.globals[t.Name] = val
	default:
		return &UnsupportedError{Node: describeNode(target), Capability: "assignment", Pos: target.Pos()}
	}
	return nil
}

// define binds name in env. Constants bound inside a class or module body
// are also recorded on that namespace so `Outer.NAME` can reach them.
func (in *Interpreter) define(env *Context, name string, val Value) {
	env.SetLocal(name, val)
	if env.Module != nil && isConstantName(name) {
		env.Module.Constants().SetLocal(name, val)
	}
}

func (in *Interpreter) evalArgs(nodes []Node, env *Context) ([]Value, error) {
	vals := make([]Value, len(nodes))
	for i, n := range nodes {
		val, err := in.eval(n, env)
		if err != nil {
			return nil, err
		}
		vals[i] = val
	}
	return vals, nil
}

func (in *Interpreter) evalBranch(cond, then, otherwise Node, want bool, env *Context) (Value, error) {
	test, err := in.eval(cond, env)
	if err != nil {
		return Value{}, err
	}
	if test.Truthy() == want {
		return in.eval(then, env)
	}
	if otherwise == nil {
		return NewNil(), nil
	}
	return in.eval(otherwise, env)
}

// evalLoop runs body while cond's truthiness equals want. Loops evaluate to
// nil.
func (in *Interpreter) evalLoop(cond, body Node, want bool, env *Context) (Value, error) {
	for {
		if err := in.step(); err != nil {
			return Value{}, err
		}
		test, err := in.eval(cond, env)
		if err != nil {
			return Value{}, err
		}
		if test.Truthy() != want {
			return NewNil(), nil
		}
		if _, err := in.eval(body, env); err != nil {
			return Value{}, err
		}
	}
}

func (in *Interpreter) evalDefNamed(n *DefNamedExpr, env *Context) (Value, error) {
	var target Value
	if n.Target == "self" {
		target = env.Self
	} else {
		val, ok := env.Get(n.Target)
		if !ok {
			return Value{}, &UnboundNameError{Name: n.Target, Pos: n.position}
		}
		target = val
	}

	fn := NewFunctionValue(&Function{Name: n.Target + "." + n.Name, Params: n.Params, Body: n.Body, Env: env})
	switch target.Kind() {
	case KindMetaclass:
		target.Metaclass().SetInstanceMethod(n.Name, fn)
	case KindClass:
		target.Class().SetClassMethod(n.Name, fn)
	case KindModule:
		target.Module().SetInstanceMethod(n.Name, fn)
	default:
		return Value{}, &TypeError{
			Message: fmt.Sprintf("cannot define %s on %s", n.Name, target.Kind()),
			Pos:     n.position,
		}
	}
	return fn, nil
}

// evalClass creates the class, or reopens one already bound under the same
// name, then evaluates the body with the class open and its metaclass as
// self.
func (in *Interpreter) evalClass(n *ClassExpr, env *Context) (Value, error) {
	var superclass *ClassObject
	if n.SuperName != "" {
		val, ok := env.Get(n.SuperName)
		if !ok {
			return Value{}, &UnboundNameError{Name: n.SuperName, Pos: n.position}
		}
		if superclass = val.Class(); superclass == nil {
			return Value{}, &TypeError{Message: fmt.Sprintf("superclass must be a class, got %s", val.Kind()), Pos: n.position}
		}
	}

	var cls *ClassObject
	if existing, ok := env.Get(n.Name); ok && existing.Kind() == KindClass {
		cls = existing.Class()
		if superclass != nil && cls.Superclass() != superclass {
			return Value{}, &TypeError{Message: fmt.Sprintf("superclass mismatch for class %s", n.Name), Pos: n.position}
		}
	} else {
		cls = NewClass(n.Name, superclass)
		in.define(env, n.Name, NewClassValue(cls))
		in.logger.Debug("class defined", "name", n.Name, "superclass", n.SuperName)
	}

	body := NewContext(env)
	body.Module = cls
	body.Self = NewMetaclassValue(cls.Metaclass())
	if _, err := in.eval(n.Body, body); err != nil {
		return Value{}, err
	}
	return NewClassValue(cls), nil
}

func (in *Interpreter) evalModule(n *ModuleExpr, env *Context) (Value, error) {
	var mod *ModuleObject
	if existing, ok := env.Get(n.Name); ok && existing.Kind() == KindModule {
		mod = existing.Module()
	} else {
		mod = NewModule(n.Name)
		in.define(env, n.Name, NewModuleValue(mod))
		in.logger.Debug("module defined", "name", n.Name)
	}

	body := NewContext(env)
	body.Module = mod
	body.Self = NewModuleValue(mod)
	if _, err := in.eval(n.Body, body); err != nil {
		return Value{}, err
	}
	return NewModuleValue(mod), nil
}

func (in *Interpreter) evalIndexed(n *IndexedExpr, env *Context) (Value, error) {
	cur, err := in.eval(n.Target, env)
	if err != nil {
		return Value{}, err
	}
	for _, idxNode := range n.Indexes {
		idx, err := in.eval(idxNode, env)
		if err != nil {
			return Value{}, err
		}
		cur, err = indexValue(cur, idx)
		if err != nil {
			return Value{}, &TypeError{Message: err.Error(), Pos: idxNode.Pos()}
		}
	}
	return cur, nil
}

// indexValue reads one subscript. Out of range reads give nil; negative
// indexes count from the end.
func indexValue(target, idx Value) (Value, error) {
	switch target.Kind() {
	case KindArray:
		if idx.Kind() != KindInt {
			return Value{}, fmt.Errorf("array index must be an integer, got %s", idx.Kind())
		}
		elems := target.Array()
		i := int(idx.Int())
		if i < 0 {
			i += len(elems)
		}
		if i < 0 || i >= len(elems) {
			return NewNil(), nil
		}
		return elems[i], nil
	case KindString:
		if idx.Kind() != KindInt {
			return Value{}, fmt.Errorf("string index must be an integer, got %s", idx.Kind())
		}
		runes := []rune(target.Str())
		i := int(idx.Int())
		if i < 0 {
			i += len(runes)
		}
		if i < 0 || i >= len(runes) {
			return NewNil(), nil
		}
		return NewString(string(runes[i])), nil
	case KindHost:
		table, ok := target.Host().(map[string]any)
		if !ok || idx.Kind() != KindString {
			return Value{}, fmt.Errorf("cannot index host value with %s", idx.Kind())
		}
		entry, ok := table[idx.Str()]
		if !ok {
			return NewUndefined(), nil
		}
		return hostToValue([]string{idx.Str()}, entry), nil
	default:
		return Value{}, fmt.Errorf("cannot index %s", target.Kind())
	}
}

func (in *Interpreter) hostLookup(path []string, pos Position) (Value, error) {
	val, err := in.host.Lookup(path)
	if err != nil {
		return Value{}, in.wrapError(err, pos)
	}
	return val, nil
}

// jsPath flattens a `js.a.b` chain into its property names.
func jsPath(n *JSMemberExpr) []string {
	if inner, ok := n.Target.(*JSMemberExpr); ok {
		return append(jsPath(inner), n.Name)
	}
	return []string{n.Name}
}

func isConstantName(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	return unicode.IsUpper(r)
}
