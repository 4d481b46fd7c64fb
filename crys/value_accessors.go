package crys

func (v Value) Kind() ValueKind { return v.kind }

func (v Value) IsNil() bool { return v.kind == KindNil }

func (v Value) IsUndefined() bool { return v.kind == KindUndefined }

func (v Value) Bool() bool {
	if v.kind == KindBool {
		return v.data.(bool)
	}
	return false
}

func (v Value) Int() int64 {
	switch v.kind {
	case KindInt:
		return v.data.(int64)
	case KindFloat:
		return int64(v.data.(float64))
	default:
		return 0
	}
}

func (v Value) Float() float64 {
	switch v.kind {
	case KindFloat:
		return v.data.(float64)
	case KindInt:
		return float64(v.data.(int64))
	default:
		return 0
	}
}

func (v Value) Str() string {
	if v.kind != KindString {
		return ""
	}
	return v.data.(string)
}

func (v Value) Array() []Value {
	if v.kind != KindArray {
		return nil
	}
	return v.data.([]Value)
}

func (v Value) Function() *Function {
	if v.kind != KindFunction {
		return nil
	}
	return v.data.(*Function)
}

func (v Value) Builtin() *Builtin {
	if v.kind != KindBuiltin {
		return nil
	}
	return v.data.(*Builtin)
}

func (v Value) Class() *ClassObject {
	if v.kind != KindClass {
		return nil
	}
	return v.data.(*ClassObject)
}

func (v Value) Metaclass() *Metaclass {
	if v.kind != KindMetaclass {
		return nil
	}
	return v.data.(*Metaclass)
}

func (v Value) Module() *ModuleObject {
	if v.kind != KindModule {
		return nil
	}
	return v.data.(*ModuleObject)
}

func (v Value) Instance() *Instance {
	if v.kind != KindInstance {
		return nil
	}
	return v.data.(*Instance)
}

func (v Value) Host() any {
	if v.kind != KindHost {
		return nil
	}
	return v.data
}

// IsNumber reports whether v is an int or a float.
func (v Value) IsNumber() bool {
	return v.kind == KindInt || v.kind == KindFloat
}

// Callable reports whether v can be applied to arguments.
func (v Value) Callable() bool {
	return v.kind == KindFunction || v.kind == KindBuiltin
}

// autoInvokes reports whether naming v without arguments calls it.
func (v Value) autoInvokes() bool {
	switch v.kind {
	case KindFunction:
		return len(v.Function().Params) == 0
	case KindBuiltin:
		return v.Builtin().AutoInvoke
	default:
		return false
	}
}
