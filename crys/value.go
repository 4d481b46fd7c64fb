package crys

type ValueKind int

const (
	KindNil ValueKind = iota
	KindUndefined
	KindBool
	KindInt
	KindFloat
	KindString
	KindArray
	KindFunction
	KindBuiltin
	KindClass
	KindMetaclass
	KindModule
	KindInstance
	KindHost
)

// Value is a runtime value. The zero Value is nil.
type Value struct {
	kind ValueKind
	data any
}

// Function is a user-defined function or method closing over the context it
// was defined in.
type Function struct {
	Name   string
	Params []string
	Body   Node
	Env    *Context
}

// Builtin is a Go implemented function. AutoInvoke builtins run when named
// without arguments, like zero-parameter functions.
type Builtin struct {
	Name       string
	Fn         BuiltinFunc
	AutoInvoke bool
}

type BuiltinFunc func(in *Interpreter, receiver Value, args []Value) (Value, error)
