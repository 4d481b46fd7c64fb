package crys

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Methods callable on values that are not objects. Object receivers fall back
// to objectMethods once their class chain has no match.
var (
	numberMethods = map[string]BuiltinFunc{
		"to_s":  primitiveToS,
		"to_i":  numberToI,
		"to_f":  numberToF,
		"abs":   numberUnary(math.Abs),
		"floor": numberUnary(math.Floor),
		"ceil":  numberUnary(math.Ceil),
		"round": numberUnary(func(f float64) float64 { return math.Floor(f + 0.5) }),
	}
	stringMethods = map[string]BuiltinFunc{
		"to_s":       primitiveToS,
		"to_i":       stringToI,
		"to_f":       stringToF,
		"length":     stringLength,
		"size":       stringLength,
		"upcase":     stringTransform(func(s string) string { return cases.Upper(language.Und).String(s) }),
		"downcase":   stringTransform(func(s string) string { return cases.Lower(language.Und).String(s) }),
		"capitalize": stringTransform(capitalize),
		"titlecase":  stringTransform(func(s string) string { return cases.Title(language.Und).String(s) }),
		"strip":      stringTransform(strings.TrimSpace),
		"reverse":    stringTransform(reverseString),
		"include?":   stringInclude,
	}
	arrayMethods = map[string]BuiltinFunc{
		"length":   arrayLength,
		"size":     arrayLength,
		"first":    arrayAt(0),
		"last":     arrayAt(-1),
		"join":     arrayJoin,
		"include?": arrayInclude,
	}
	objectMethods = map[string]BuiltinFunc{
		"nil?":    primitiveIsNil,
		"to_s":    primitiveToS,
		"inspect": primitiveInspect,
		"class":   objectClass,
		"is_a?":   objectIsA,
	}
)

// lookupPrimitive finds a built-in method for receiver.
func lookupPrimitive(receiver Value, name string) (BuiltinFunc, bool) {
	var table map[string]BuiltinFunc
	switch receiver.Kind() {
	case KindInt, KindFloat:
		table = numberMethods
	case KindString:
		table = stringMethods
	case KindArray:
		table = arrayMethods
	}
	if fn, ok := table[name]; ok {
		return fn, true
	}
	fn, ok := objectMethods[name]
	return fn, ok
}

func expectArgs(name string, args []Value, n int) error {
	if len(args) != n {
		return fmt.Errorf("wrong number of arguments for %s (given %d, expected %d)", name, len(args), n)
	}
	return nil
}

func primitiveToS(_ *Interpreter, receiver Value, args []Value) (Value, error) {
	if err := expectArgs("to_s", args, 0); err != nil {
		return Value{}, err
	}
	return NewString(receiver.String()), nil
}

func primitiveInspect(_ *Interpreter, receiver Value, args []Value) (Value, error) {
	if err := expectArgs("inspect", args, 0); err != nil {
		return Value{}, err
	}
	return NewString(receiver.Inspect()), nil
}

func primitiveIsNil(_ *Interpreter, receiver Value, args []Value) (Value, error) {
	if err := expectArgs("nil?", args, 0); err != nil {
		return Value{}, err
	}
	return NewBool(receiver.Kind() == KindNil || receiver.Kind() == KindUndefined), nil
}

func objectClass(_ *Interpreter, receiver Value, args []Value) (Value, error) {
	if err := expectArgs("class", args, 0); err != nil {
		return Value{}, err
	}
	if inst := receiver.Instance(); inst != nil {
		return NewClassValue(inst.Class()), nil
	}
	return NewString(receiver.Kind().String()), nil
}

func objectIsA(_ *Interpreter, receiver Value, args []Value) (Value, error) {
	if err := expectArgs("is_a?", args, 1); err != nil {
		return Value{}, err
	}
	cls := args[0].Class()
	if cls == nil {
		return Value{}, fmt.Errorf("is_a? expects a class, got %s", args[0].Kind())
	}
	inst := receiver.Instance()
	return NewBool(inst != nil && inst.Class().IsSubclassOf(cls)), nil
}

func numberToI(_ *Interpreter, receiver Value, args []Value) (Value, error) {
	if err := expectArgs("to_i", args, 0); err != nil {
		return Value{}, err
	}
	f := receiver.Float()
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Value{}, fmt.Errorf("cannot convert %s to an integer", formatNumber(f))
	}
	if receiver.Kind() == KindInt {
		return receiver, nil
	}
	return NewInt(int64(math.Trunc(f))), nil
}

func numberToF(_ *Interpreter, receiver Value, args []Value) (Value, error) {
	if err := expectArgs("to_f", args, 0); err != nil {
		return Value{}, err
	}
	return NewFloat(receiver.Float()), nil
}

func numberUnary(fn func(float64) float64) BuiltinFunc {
	return func(_ *Interpreter, receiver Value, args []Value) (Value, error) {
		if err := expectArgs("number method", args, 0); err != nil {
			return Value{}, err
		}
		if receiver.Kind() == KindInt {
			return NewInt(int64(fn(float64(receiver.Int())))), nil
		}
		return NewFloat(fn(receiver.Float())), nil
	}
}

var (
	leadingInt   = regexp.MustCompile(`^[+-]?\d+`)
	leadingFloat = regexp.MustCompile(`^[+-]?(?:\d+\.?\d*(?:[eE][+-]?\d+)?|\.\d+(?:[eE][+-]?\d+)?)`)
)

// stringToI parses a leading integer like JavaScript's parseInt; a string
// without one gives NaN.
func stringToI(_ *Interpreter, receiver Value, args []Value) (Value, error) {
	if err := expectArgs("to_i", args, 0); err != nil {
		return Value{}, err
	}
	match := leadingInt.FindString(strings.TrimLeft(receiver.Str(), " \t\n\r"))
	if match == "" {
		return NewFloat(math.NaN()), nil
	}
	i, err := strconv.ParseInt(match, 10, 64)
	if err != nil {
		f, _ := strconv.ParseFloat(match, 64)
		return NewFloat(f), nil
	}
	return NewInt(i), nil
}

// stringToF parses a leading decimal like JavaScript's parseFloat.
func stringToF(_ *Interpreter, receiver Value, args []Value) (Value, error) {
	if err := expectArgs("to_f", args, 0); err != nil {
		return Value{}, err
	}
	match := leadingFloat.FindString(strings.TrimLeft(receiver.Str(), " \t\n\r"))
	if match == "" {
		return NewFloat(math.NaN()), nil
	}
	f, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return NewFloat(math.NaN()), nil
	}
	return NewFloat(f), nil
}

func stringLength(_ *Interpreter, receiver Value, args []Value) (Value, error) {
	if err := expectArgs("length", args, 0); err != nil {
		return Value{}, err
	}
	return NewInt(int64(utf8.RuneCountInString(receiver.Str()))), nil
}

func stringTransform(fn func(string) string) BuiltinFunc {
	return func(_ *Interpreter, receiver Value, args []Value) (Value, error) {
		if err := expectArgs("string method", args, 0); err != nil {
			return Value{}, err
		}
		return NewString(fn(receiver.Str())), nil
	}
}

func stringInclude(_ *Interpreter, receiver Value, args []Value) (Value, error) {
	if err := expectArgs("include?", args, 1); err != nil {
		return Value{}, err
	}
	if args[0].Kind() != KindString {
		return Value{}, fmt.Errorf("include? expects a string, got %s", args[0].Kind())
	}
	return NewBool(strings.Contains(receiver.Str(), args[0].Str())), nil
}

// capitalize upper-cases the first letter and lower-cases the rest.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	_, width := utf8.DecodeRuneInString(s)
	return cases.Upper(language.Und).String(s[:width]) + cases.Lower(language.Und).String(s[width:])
}

func reverseString(s string) string {
	runes := []rune(s)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return string(runes)
}

func arrayLength(_ *Interpreter, receiver Value, args []Value) (Value, error) {
	if err := expectArgs("length", args, 0); err != nil {
		return Value{}, err
	}
	return NewInt(int64(len(receiver.Array()))), nil
}

func arrayAt(i int64) BuiltinFunc {
	return func(_ *Interpreter, receiver Value, args []Value) (Value, error) {
		if err := expectArgs("first/last", args, 0); err != nil {
			return Value{}, err
		}
		return indexValue(receiver, NewInt(i))
	}
}

func arrayJoin(_ *Interpreter, receiver Value, args []Value) (Value, error) {
	sep := ""
	switch len(args) {
	case 0:
	case 1:
		if args[0].Kind() != KindString {
			return Value{}, fmt.Errorf("join expects a string separator, got %s", args[0].Kind())
		}
		sep = args[0].Str()
	default:
		return Value{}, expectArgs("join", args, 1)
	}
	elems := receiver.Array()
	parts := make([]string, len(elems))
	for i, e := range elems {
		parts[i] = e.String()
	}
	return NewString(strings.Join(parts, sep)), nil
}

func arrayInclude(_ *Interpreter, receiver Value, args []Value) (Value, error) {
	if err := expectArgs("include?", args, 1); err != nil {
		return Value{}, err
	}
	for _, e := range receiver.Array() {
		if looseEqual(e, args[0]) {
			return NewBool(true), nil
		}
	}
	return NewBool(false), nil
}
