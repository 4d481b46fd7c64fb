package crys

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

func (in *Interpreter) evalBinary(n *BinaryExpr, env *Context) (Value, error) {
	left, err := in.eval(n.Left, env)
	if err != nil {
		return Value{}, err
	}

	// && and || return the deciding operand without evaluating the other
	switch n.Op {
	case OpAnd:
		if !left.Truthy() {
			return left, nil
		}
		return in.eval(n.Right, env)
	case OpOr:
		if left.Truthy() {
			return left, nil
		}
		return in.eval(n.Right, env)
	}

	right, err := in.eval(n.Right, env)
	if err != nil {
		return Value{}, err
	}
	val, err := binaryOp(n.Op, left, right)
	if err != nil {
		return Value{}, &TypeError{Message: err.Error(), Pos: n.position}
	}
	return val, nil
}

func (in *Interpreter) evalUnary(n *UnaryExpr, env *Context) (Value, error) {
	operand, err := in.eval(n.Operand, env)
	if err != nil {
		return Value{}, err
	}
	val, err := unaryOp(n.Op, operand)
	if err != nil {
		return Value{}, &TypeError{Message: err.Error(), Pos: n.position}
	}
	return val, nil
}

// binaryOp applies a non-short-circuit binary operator. Arithmetic follows
// the JavaScript host: ints stay ints while results are exact, mixed
// primitive operands are coerced to numbers and + concatenates strings.
func binaryOp(op Operator, left, right Value) (Value, error) {
	switch op {
	case OpEq:
		return NewBool(looseEqual(left, right)), nil
	case OpNotEq:
		return NewBool(!looseEqual(left, right)), nil
	case OpLess, OpLessEq, OpGreater, OpGreaterEq:
		cmp, ok := compareValues(left, right)
		if !ok {
			return NewBool(false), nil
		}
		switch op {
		case OpLess:
			return NewBool(cmp < 0), nil
		case OpLessEq:
			return NewBool(cmp <= 0), nil
		case OpGreater:
			return NewBool(cmp > 0), nil
		default:
			return NewBool(cmp >= 0), nil
		}
	case OpCompare:
		cmp, _ := compareValues(left, right)
		return NewInt(int64(cmp)), nil
	case OpBitAnd, OpBitOr, OpBitXor, OpShl, OpShr:
		return bitwiseOp(op, left, right)
	case OpAdd:
		if left.Kind() == KindString || right.Kind() == KindString {
			return NewString(jsString(left) + jsString(right)), nil
		}
		if left.Kind() == KindArray && right.Kind() == KindArray {
			joined := make([]Value, 0, len(left.Array())+len(right.Array()))
			joined = append(joined, left.Array()...)
			return NewArray(append(joined, right.Array()...)), nil
		}
	}
	return arithmeticOp(op, left, right)
}

func arithmeticOp(op Operator, left, right Value) (Value, error) {
	if left.Kind() == KindInt && right.Kind() == KindInt {
		return intArithmetic(op, left.Int(), right.Int()), nil
	}
	if !isPrimitive(left) || !isPrimitive(right) {
		return Value{}, fmt.Errorf("unsupported operand types for %s: %s and %s", op, left.Kind(), right.Kind())
	}
	return NewFloat(floatArithmetic(op, toNumber(left), toNumber(right))), nil
}

func intArithmetic(op Operator, l, r int64) Value {
	switch op {
	case OpAdd:
		sum := l + r
		if (sum > l) != (r > 0) {
			return NewFloat(float64(l) + float64(r))
		}
		return NewInt(sum)
	case OpSub:
		diff := l - r
		if (diff < l) != (r > 0) {
			return NewFloat(float64(l) - float64(r))
		}
		return NewInt(diff)
	case OpMul:
		if l == 0 || r == 0 {
			return NewInt(0)
		}
		product := l * r
		if product/r != l || (l == -1 && r == math.MinInt64) || (r == -1 && l == math.MinInt64) {
			return NewFloat(float64(l) * float64(r))
		}
		return NewInt(product)
	case OpDiv:
		if l == math.MinInt64 && r == -1 {
			return NewFloat(-float64(l))
		}
		if r != 0 && l%r == 0 {
			return NewInt(l / r)
		}
		return NewFloat(float64(l) / float64(r))
	case OpMod:
		if r == 0 {
			return NewFloat(math.NaN())
		}
		return NewInt(l % r)
	case OpPow:
		f := math.Pow(float64(l), float64(r))
		if r >= 0 && math.Abs(f) < 1<<53 {
			return NewInt(int64(f))
		}
		return NewFloat(f)
	}
	return NewFloat(math.NaN())
}

func floatArithmetic(op Operator, l, r float64) float64 {
	switch op {
	case OpAdd:
		return l + r
	case OpSub:
		return l - r
	case OpMul:
		return l * r
	case OpDiv:
		return l / r
	case OpMod:
		return math.Mod(l, r)
	case OpPow:
		return math.Pow(l, r)
	}
	return math.NaN()
}

func bitwiseOp(op Operator, left, right Value) (Value, error) {
	if !isPrimitive(left) || !isPrimitive(right) {
		return Value{}, fmt.Errorf("unsupported operand types for %s: %s and %s", op, left.Kind(), right.Kind())
	}
	l, r := toInt32(toNumber(left)), toInt32(toNumber(right))
	var result int32
	switch op {
	case OpBitAnd:
		result = l & r
	case OpBitOr:
		result = l | r
	case OpBitXor:
		result = l ^ r
	case OpShl:
		result = l << (uint32(r) & 31)
	case OpShr:
		result = l >> (uint32(r) & 31)
	}
	return NewInt(int64(result)), nil
}

func unaryOp(op Operator, operand Value) (Value, error) {
	switch op {
	case OpNot:
		return NewBool(!operand.Truthy()), nil
	case OpNeg:
		switch operand.Kind() {
		case KindInt:
			if operand.Int() == math.MinInt64 {
				return NewFloat(-float64(operand.Int())), nil
			}
			return NewInt(-operand.Int()), nil
		case KindFloat:
			return NewFloat(-operand.Float()), nil
		}
		if !isPrimitive(operand) {
			return Value{}, fmt.Errorf("unsupported operand type for -: %s", operand.Kind())
		}
		return NewFloat(-toNumber(operand)), nil
	case OpBitNot:
		if !isPrimitive(operand) {
			return Value{}, fmt.Errorf("unsupported operand type for ~: %s", operand.Kind())
		}
		return NewInt(int64(^toInt32(toNumber(operand)))), nil
	}
	return Value{}, fmt.Errorf("unknown unary operator %s", op)
}

// looseEqual implements == with JavaScript coercions between primitives:
// nil equals undefined, numbers compare with numeric strings and booleans
// compare as 0 and 1. Arrays compare element-wise, objects by identity.
func looseEqual(a, b Value) bool {
	aNullish := a.Kind() == KindNil || a.Kind() == KindUndefined
	bNullish := b.Kind() == KindNil || b.Kind() == KindUndefined
	if aNullish || bNullish {
		return aNullish && bNullish
	}
	if a.IsNumber() && b.IsNumber() {
		if a.Kind() == KindInt && b.Kind() == KindInt {
			return a.Int() == b.Int()
		}
		return a.Float() == b.Float()
	}
	if a.Kind() == b.Kind() {
		return a.Equal(b)
	}
	if a.Kind() == KindBool {
		return looseEqual(NewInt(boolToInt(a.Bool())), b)
	}
	if b.Kind() == KindBool {
		return looseEqual(a, NewInt(boolToInt(b.Bool())))
	}
	if (a.IsNumber() && b.Kind() == KindString) || (a.Kind() == KindString && b.IsNumber()) {
		return toNumber(a) == toNumber(b)
	}
	return false
}

// compareValues orders two strings lexically or two coercible primitives
// numerically. ok is false when the operands have no order (including NaN).
func compareValues(a, b Value) (int, bool) {
	if a.Kind() == KindString && b.Kind() == KindString {
		return strings.Compare(a.Str(), b.Str()), true
	}
	if a.Kind() == KindInt && b.Kind() == KindInt {
		switch {
		case a.Int() < b.Int():
			return -1, true
		case a.Int() > b.Int():
			return 1, true
		default:
			return 0, true
		}
	}
	if !isPrimitive(a) || !isPrimitive(b) {
		return 0, false
	}
	l, r := toNumber(a), toNumber(b)
	switch {
	case l < r:
		return -1, true
	case l > r:
		return 1, true
	case l == r:
		return 0, true
	default:
		return 0, false
	}
}

func isPrimitive(v Value) bool {
	switch v.Kind() {
	case KindNil, KindUndefined, KindBool, KindInt, KindFloat, KindString:
		return true
	default:
		return false
	}
}

// toNumber converts a primitive the way JavaScript's Number() does.
func toNumber(v Value) float64 {
	switch v.Kind() {
	case KindInt, KindFloat:
		return v.Float()
	case KindNil:
		return 0
	case KindBool:
		return float64(boolToInt(v.Bool()))
	case KindString:
		s := strings.TrimSpace(v.Str())
		if s == "" {
			return 0
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
		if i, err := strconv.ParseInt(s, 0, 64); err == nil {
			return float64(i)
		}
		return math.NaN()
	default:
		return math.NaN()
	}
}

// toInt32 is JavaScript's ToInt32: truncate, wrap modulo 2^32.
func toInt32(f float64) int32 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int32(uint32(int64(math.Mod(math.Trunc(f), 1<<32))))
}

// jsString renders a value for string concatenation.
func jsString(v Value) string {
	switch v.Kind() {
	case KindNil:
		return "null"
	case KindUndefined:
		return "undefined"
	default:
		return v.String()
	}
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
