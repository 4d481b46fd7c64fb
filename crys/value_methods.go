package crys

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
)

func (k ValueKind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindUndefined:
		return "undefined"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindFunction:
		return "function"
	case KindBuiltin:
		return "builtin"
	case KindClass:
		return "class"
	case KindMetaclass:
		return "metaclass"
	case KindModule:
		return "module"
	case KindInstance:
		return "instance"
	case KindHost:
		return "host"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// String renders v the way puts prints it.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.data.(string)
	case KindNil, KindUndefined:
		return ""
	case KindBool:
		if v.Bool() {
			return "true"
		}
		return "false"
	case KindInt:
		return strconv.FormatInt(v.data.(int64), 10)
	case KindFloat:
		return formatNumber(v.data.(float64))
	case KindArray:
		return v.Inspect()
	case KindFunction:
		return fmt.Sprintf("<function %s>", v.Function().Name)
	case KindBuiltin:
		return fmt.Sprintf("<builtin %s>", v.Builtin().Name)
	case KindClass:
		return v.Class().Name()
	case KindMetaclass:
		return fmt.Sprintf("#<Class:%s>", v.Metaclass().Owner().Name())
	case KindModule:
		return v.Module().Name()
	case KindInstance:
		return fmt.Sprintf("#<%s>", v.Instance().Class().Name())
	case KindHost:
		return fmt.Sprintf("%v", v.data)
	default:
		return fmt.Sprintf("<%v>", v.kind)
	}
}

// Inspect renders v the way p prints it: strings quoted, nil spelled out.
func (v Value) Inspect() string {
	switch v.kind {
	case KindNil:
		return "nil"
	case KindUndefined:
		return "undefined"
	case KindString:
		return strconv.Quote(v.data.(string))
	case KindArray:
		elems := v.data.([]Value)
		parts := make([]string, len(elems))
		for i, e := range elems {
			parts[i] = e.Inspect()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return v.String()
	}
}

// Truthy reports whether v counts as true in a condition. Only nil, false
// and undefined are false; 0 and "" are true.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindNil, KindUndefined:
		return false
	case KindBool:
		return v.Bool()
	default:
		return true
	}
}

// Equal reports strict equality: same kind and same value, arrays compared
// element by element, objects by identity.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNil, KindUndefined:
		return true
	case KindBool:
		return v.Bool() == other.Bool()
	case KindInt:
		return v.data.(int64) == other.data.(int64)
	case KindFloat:
		return v.data.(float64) == other.data.(float64)
	case KindString:
		return v.data.(string) == other.data.(string)
	case KindArray:
		left, right := v.Array(), other.Array()
		if len(left) != len(right) {
			return false
		}
		for i := range left {
			if !left[i].Equal(right[i]) {
				return false
			}
		}
		return true
	case KindHost:
		return sameHostValue(v.data, other.data)
	default:
		return v.data == other.data
	}
}

func sameHostValue(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ra, rb := reflect.ValueOf(a), reflect.ValueOf(b)
	if ra.Type() != rb.Type() {
		return false
	}
	switch ra.Kind() {
	case reflect.Map, reflect.Pointer, reflect.Func, reflect.Slice, reflect.Chan, reflect.UnsafePointer:
		return ra.Pointer() == rb.Pointer()
	}
	if ra.Type().Comparable() {
		return a == b
	}
	return false
}

// formatNumber prints a float the way JavaScript's Number#toString does.
func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	abs := math.Abs(f)
	if abs != 0 && (abs >= 1e21 || abs < 1e-6) {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		mantissa, exp, _ := strings.Cut(s, "e")
		sign := exp[:1]
		digits := strings.TrimLeft(exp[1:], "0")
		return mantissa + "e" + sign + digits
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
