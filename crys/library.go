package crys

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// Library is the runtime library: functions scripts call by bare name. The
// compiler only checks names against it; the interpreter also runs the Go
// implementations. Declared names have no implementation and exist only for
// the compiler.
type Library struct {
	entries map[string]*Builtin
}

// NewLibrary returns an empty library.
func NewLibrary() *Library {
	return &Library{entries: make(map[string]*Builtin)}
}

// DefaultLibrary returns a library with puts, print and p.
func DefaultLibrary() *Library {
	lib := NewLibrary()
	lib.Register("puts", builtinPuts)
	lib.Register("print", builtinPrint)
	lib.Register("p", builtinP)
	return lib
}

// Register adds a Go implemented function under name.
func (l *Library) Register(name string, fn BuiltinFunc) {
	l.entries[name] = &Builtin{Name: name, Fn: fn}
}

// Declare adds names the compiled runtime exports without a Go
// implementation. Already registered names are left alone.
func (l *Library) Declare(names ...string) {
	for _, name := range names {
		if _, ok := l.entries[name]; !ok {
			l.entries[name] = nil
		}
	}
}

// Has reports whether name is part of the library.
func (l *Library) Has(name string) bool {
	if l == nil {
		return false
	}
	_, ok := l.entries[name]
	return ok
}

// Lookup returns the Go implementation of name, if it has one.
func (l *Library) Lookup(name string) (*Builtin, bool) {
	if l == nil {
		return nil, false
	}
	b := l.entries[name]
	return b, b != nil
}

// Names lists every library name, sorted.
func (l *Library) Names() []string {
	if l == nil {
		return nil
	}
	names := make([]string, 0, len(l.entries))
	for name := range l.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns an independent copy.
func (l *Library) Clone() *Library {
	clone := NewLibrary()
	if l == nil {
		return clone
	}
	for name, b := range l.entries {
		clone.entries[name] = b
	}
	return clone
}

func builtinPuts(in *Interpreter, _ Value, args []Value) (Value, error) {
	if len(args) == 0 {
		_, err := io.WriteString(in.out, "\n")
		return NewNil(), err
	}
	var b strings.Builder
	var writeLines func(v Value)
	writeLines = func(v Value) {
		if v.Kind() == KindArray {
			for _, elem := range v.Array() {
				writeLines(elem)
			}
			return
		}
		line := v.String()
		b.WriteString(line)
		if !strings.HasSuffix(line, "\n") {
			b.WriteByte('\n')
		}
	}
	for _, arg := range args {
		writeLines(arg)
	}
	_, err := io.WriteString(in.out, b.String())
	return NewNil(), err
}

func builtinPrint(in *Interpreter, _ Value, args []Value) (Value, error) {
	for _, arg := range args {
		if _, err := io.WriteString(in.out, arg.String()); err != nil {
			return NewNil(), err
		}
	}
	return NewNil(), nil
}

func builtinP(in *Interpreter, _ Value, args []Value) (Value, error) {
	for _, arg := range args {
		if _, err := fmt.Fprintln(in.out, arg.Inspect()); err != nil {
			return NewNil(), err
		}
	}
	switch len(args) {
	case 0:
		return NewNil(), nil
	case 1:
		return args[0], nil
	default:
		return NewArray(args), nil
	}
}
