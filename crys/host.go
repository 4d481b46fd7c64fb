package crys

import (
	"fmt"
	"io"
	"math"
	"strings"
)

// HostBridge exposes the embedding host's global namespace to `js.`
// expressions. Paths are property names below the namespace root; an empty
// path names the root itself.
type HostBridge interface {
	Lookup(path []string) (Value, error)
	Invoke(path []string, args []Value) (Value, error)
}

// HostFunc is a host function reachable through a MapBridge.
type HostFunc func(args []Value) (Value, error)

// MapBridge is a HostBridge over nested maps. Leaves may be Values,
// HostFuncs, nested maps or plain Go scalars.
type MapBridge map[string]any

func (b MapBridge) Lookup(path []string) (Value, error) {
	entry, err := b.walk(path)
	if err != nil {
		return Value{}, err
	}
	return hostToValue(path, entry), nil
}

func (b MapBridge) Invoke(path []string, args []Value) (Value, error) {
	entry, err := b.walk(path)
	if err != nil {
		return Value{}, err
	}
	switch fn := entry.(type) {
	case HostFunc:
		return fn(args)
	case func([]Value) (Value, error):
		return fn(args)
	case Value:
		if b := fn.Builtin(); b != nil {
			return b.Fn(nil, Value{}, args)
		}
	}
	return Value{}, &TypeError{Message: fmt.Sprintf("%s is not a function", hostPath(path))}
}

func (b MapBridge) walk(path []string) (any, error) {
	var cur any = map[string]any(b)
	for i, name := range path {
		var table map[string]any
		switch m := cur.(type) {
		case map[string]any:
			table = m
		case MapBridge:
			table = m
		default:
			return nil, &TypeError{Message: fmt.Sprintf("%s has no property %s", hostPath(path[:i]), name)}
		}
		next, ok := table[name]
		if !ok {
			return nil, &UnboundNameError{Name: hostPath(path[:i+1])}
		}
		cur = next
	}
	return cur, nil
}

func hostPath(path []string) string {
	if len(path) == 0 {
		return "js"
	}
	return "js." + strings.Join(path, ".")
}

// hostToValue converts a host entry into a script value. Functions become
// builtins so they can be stored and called later.
func hostToValue(path []string, entry any) Value {
	switch v := entry.(type) {
	case nil:
		return NewNil()
	case Value:
		return v
	case bool:
		return NewBool(v)
	case int:
		return NewInt(int64(v))
	case int64:
		return NewInt(v)
	case float64:
		return NewFloat(v)
	case string:
		return NewString(v)
	case []any:
		elems := make([]Value, len(v))
		for i, e := range v {
			elems[i] = hostToValue(path, e)
		}
		return NewArray(elems)
	case HostFunc:
		return NewBuiltin(hostPath(path), func(_ *Interpreter, _ Value, args []Value) (Value, error) {
			return v(args)
		})
	case func([]Value) (Value, error):
		return NewBuiltin(hostPath(path), func(_ *Interpreter, _ Value, args []Value) (Value, error) {
			return v(args)
		})
	default:
		return NewHost(entry)
	}
}

// newDefaultHost provides the slice of a JavaScript global object scripts
// tend to use: Math and console.log.
func newDefaultHost(out io.Writer) MapBridge {
	unary := func(name string, fn func(float64) float64) HostFunc {
		return func(args []Value) (Value, error) {
			if len(args) != 1 || !args[0].IsNumber() {
				return Value{}, &TypeError{Message: fmt.Sprintf("Math.%s expects one number", name)}
			}
			return numberValue(fn(args[0].Float())), nil
		}
	}
	fold := func(name string, seed float64, pick func(a, b float64) float64) HostFunc {
		return func(args []Value) (Value, error) {
			acc := seed
			for _, arg := range args {
				if !arg.IsNumber() {
					return Value{}, &TypeError{Message: fmt.Sprintf("Math.%s expects numbers", name)}
				}
				acc = pick(acc, arg.Float())
			}
			return numberValue(acc), nil
		}
	}

	return MapBridge{
		"Math": map[string]any{
			"PI":    math.Pi,
			"E":     math.E,
			"sqrt":  unary("sqrt", math.Sqrt),
			"floor": unary("floor", math.Floor),
			"ceil":  unary("ceil", math.Ceil),
			"abs":   unary("abs", math.Abs),
			"round": unary("round", func(f float64) float64 { return math.Floor(f + 0.5) }),
			"max":   fold("max", math.Inf(-1), math.Max),
			"min":   fold("min", math.Inf(1), math.Min),
			"pow": HostFunc(func(args []Value) (Value, error) {
				if len(args) != 2 || !args[0].IsNumber() || !args[1].IsNumber() {
					return Value{}, &TypeError{Message: "Math.pow expects two numbers"}
				}
				return numberValue(math.Pow(args[0].Float(), args[1].Float())), nil
			}),
		},
		"console": map[string]any{
			"log": HostFunc(func(args []Value) (Value, error) {
				parts := make([]string, len(args))
				for i, arg := range args {
					parts[i] = arg.String()
				}
				_, err := fmt.Fprintln(out, strings.Join(parts, " "))
				return NewUndefined(), err
			}),
		},
	}
}

// numberValue narrows integral floats back to ints, matching how the
// evaluator keeps exact results integral.
func numberValue(f float64) Value {
	if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return NewInt(int64(f))
	}
	return NewFloat(f)
}
