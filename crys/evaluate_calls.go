package crys

import "fmt"

// evalCall resolves the callee by name, falling back to a method on self,
// then applies it to the evaluated arguments.
func (in *Interpreter) evalCall(n *CallExpr, env *Context) (Value, error) {
	fn, ok := env.Get(n.Name)
	if !ok {
		fn, ok = methodOnSelf(env.Self, n.Name)
	}
	if !ok {
		if in.library.Has(n.Name) {
			return Value{}, &TypeError{
				Message: fmt.Sprintf("%s is only available to compiled code", n.Name),
				Pos:     n.position,
			}
		}
		return Value{}, &UnboundNameError{Name: n.Name, Pos: n.position}
	}
	if !fn.Callable() {
		return Value{}, &TypeError{Message: fmt.Sprintf("%s is a %s, not a function", n.Name, fn.Kind()), Pos: n.position}
	}

	args, err := in.evalArgs(n.Args, env)
	if err != nil {
		return Value{}, err
	}
	return in.invoke(fn, env.Self, args, n.Name, n.position)
}

func (in *Interpreter) evalQualifiedCall(n *QualifiedCallExpr, env *Context) (Value, error) {
	target, err := in.eval(n.Target, env)
	if err != nil {
		return Value{}, err
	}

	if ns := namespaceOf(target); ns != nil && len(n.Args) == 0 && isConstantName(n.Name) {
		if val, ok := ns.Constants().Get(n.Name); ok {
			return val, nil
		}
	}

	args, err := in.evalArgs(n.Args, env)
	if err != nil {
		return Value{}, err
	}

	method, ok := dispatch(target, n.Name)
	if !ok {
		prim, found := lookupPrimitive(target, n.Name)
		if !found {
			return Value{}, &DispatchError{Receiver: describeReceiver(target), Method: n.Name, Pos: n.position}
		}
		method = NewBuiltin(n.Name, prim)
	}
	return in.invoke(method, target, args, describeReceiver(target)+"."+n.Name, n.position)
}

// dispatch finds a user-defined method for receiver: instances through their
// class chain, classes and metaclasses through the metaclass chain, modules
// through their own table.
func dispatch(receiver Value, name string) (Value, bool) {
	switch receiver.Kind() {
	case KindInstance:
		return receiver.Instance().Class().InstanceMethod(name)
	case KindClass:
		return receiver.Class().ClassMethod(name)
	case KindMetaclass:
		return receiver.Metaclass().Owner().ClassMethod(name)
	case KindModule:
		return receiver.Module().InstanceMethod(name)
	default:
		return Value{}, false
	}
}

// methodOnSelf backs implicit-receiver calls such as `area` inside a method.
func methodOnSelf(self Value, name string) (Value, bool) {
	return dispatch(self, name)
}

func namespaceOf(v Value) Namespace {
	switch v.Kind() {
	case KindClass:
		return v.Class()
	case KindModule:
		return v.Module()
	default:
		return nil
	}
}

func describeReceiver(v Value) string {
	switch v.Kind() {
	case KindInstance:
		return v.Instance().Class().Name()
	case KindClass:
		return v.Class().Name()
	case KindMetaclass:
		return v.Metaclass().Owner().Name()
	case KindModule:
		return v.Module().Name()
	default:
		return v.Kind().String()
	}
}
