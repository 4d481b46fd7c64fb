package crys

func NewNil() Value            { return Value{kind: KindNil} }
func NewUndefined() Value      { return Value{kind: KindUndefined} }
func NewBool(b bool) Value     { return Value{kind: KindBool, data: b} }
func NewInt(i int64) Value     { return Value{kind: KindInt, data: i} }
func NewFloat(f float64) Value { return Value{kind: KindFloat, data: f} }
func NewString(s string) Value { return Value{kind: KindString, data: s} }
func NewArray(a []Value) Value { return Value{kind: KindArray, data: a} }

// NewHost wraps an opaque value handed out by a HostBridge.
func NewHost(v any) Value { return Value{kind: KindHost, data: v} }

func NewClassValue(c *ClassObject) Value    { return Value{kind: KindClass, data: c} }
func NewMetaclassValue(m *Metaclass) Value  { return Value{kind: KindMetaclass, data: m} }
func NewModuleValue(m *ModuleObject) Value  { return Value{kind: KindModule, data: m} }
func NewInstanceValue(inst *Instance) Value { return Value{kind: KindInstance, data: inst} }
func NewFunctionValue(fn *Function) Value   { return Value{kind: KindFunction, data: fn} }
func newBuiltinValue(b *Builtin) Value      { return Value{kind: KindBuiltin, data: b} }

func NewBuiltin(name string, fn BuiltinFunc) Value {
	return newBuiltinValue(&Builtin{Name: name, Fn: fn})
}

func NewAutoBuiltin(name string, fn BuiltinFunc) Value {
	return newBuiltinValue(&Builtin{Name: name, Fn: fn, AutoInvoke: true})
}

