package crys

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

func runScript(t *testing.T, source string) (Value, string) {
	t.Helper()
	var out bytes.Buffer
	in := NewInterpreter(Config{Out: &out})
	val, err := in.Run(context.Background(), source)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	return val, out.String()
}

func runError(t *testing.T, cfg Config, source string) error {
	t.Helper()
	in := NewInterpreter(cfg)
	_, err := in.Run(context.Background(), source)
	if err == nil {
		t.Fatalf("expected error running %q", source)
	}
	return err
}

func TestConditionals(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{`if nil then 1 else 2 end`, "2"},
		{`if false then 1 else 2 end`, "2"},
		{`if false then 1 end`, "nil"},
		{`if 0 then "yes" else "no" end`, `"yes"`},
		{`if "" then "yes" else "no" end`, `"yes"`},
		{`if [] then "yes" end`, `"yes"`},
		{`unless nil then "ran" end`, `"ran"`},
		{`unless true then "ran" else "skipped" end`, `"skipped"`},
		{"x = 5\nif x < 3\n  \"small\"\nelsif x < 10\n  \"medium\"\nelse\n  \"large\"\nend", `"medium"`},
		{"x = 1\nx = 2 if false\nx", "1"},
		{"x = 1\nx = 2 unless false\nx", "2"},
	}
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			val, _ := runScript(t, tt.source)
			if got := val.Inspect(); got != tt.want {
				t.Fatalf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestLoops(t *testing.T) {
	val, _ := runScript(t, "i = 0\nwhile i < 5\n  i = i + 1\nend\ni")
	if val.Int() != 5 {
		t.Fatalf("while: expected 5, got %s", val.Inspect())
	}

	val, _ = runScript(t, "i = 10\nuntil i <= 0 do\n  i = i - 3\nend\ni")
	if val.Int() != -2 {
		t.Fatalf("until: expected -2, got %s", val.Inspect())
	}

	val, _ = runScript(t, "y = 0\ny = y + 1 while y < 4\ny")
	if val.Int() != 4 {
		t.Fatalf("while modifier: expected 4, got %s", val.Inspect())
	}

	val, _ = runScript(t, "i = 0\nwhile i < 2\n  i = i + 1\nend")
	if !val.IsNil() {
		t.Fatalf("loops evaluate to nil, got %s", val.Inspect())
	}
}

func TestFunctions(t *testing.T) {
	val, _ := runScript(t, "def add(a, b)\n  a + b\nend\nadd(2, 3)")
	if val.Int() != 5 {
		t.Fatalf("expected 5, got %s", val.Inspect())
	}

	val, _ = runScript(t, "def answer\n  42\nend\nanswer + 1")
	if val.Int() != 43 {
		t.Fatalf("zero-argument functions auto-invoke, got %s", val.Inspect())
	}

	val, _ = runScript(t, "def fact(n)\n  if n <= 1\n    1\n  else\n    n * fact(n - 1)\n  end\nend\nfact(10)")
	if val.Int() != 3628800 {
		t.Fatalf("expected 3628800, got %s", val.Inspect())
	}
}

func TestLexicalScoping(t *testing.T) {
	val, _ := runScript(t, "x = 10\ndef show\n  x\nend\nshow")
	if val.Int() != 10 {
		t.Fatalf("functions see their definition scope, got %s", val.Inspect())
	}

	val, _ = runScript(t, "x = 1\ndef change\n  x = 2\nend\nchange\nx")
	if val.Int() != 1 {
		t.Fatalf("assignment inside a function must stay local, got %s", val.Inspect())
	}

	err := runError(t, Config{}, "def define_local\n  hidden = 1\nend\ndefine_local\nhidden")
	var unbound *UnboundNameError
	if !errors.As(err, &unbound) || unbound.Name != "hidden" {
		t.Fatalf("expected unbound hidden, got %v", err)
	}
}

const animalsSource = `class Animal
  def initialize(name)
    @name = name
  end

  def name
    @name
  end

  def speak
    "..."
  end

  def describe
    name + " says " + speak
  end
end

class Dog < Animal
  def speak
    "woof"
  end
end
`

func TestClassesAndInheritance(t *testing.T) {
	val, _ := runScript(t, animalsSource+`Dog.new("rex").describe`)
	if val.Str() != "rex says woof" {
		t.Fatalf("unexpected result %s", val.Inspect())
	}

	val, _ = runScript(t, animalsSource+`Animal.new("cat").describe`)
	if val.Str() != "cat says ..." {
		t.Fatalf("overriding must not change the ancestor, got %s", val.Inspect())
	}

	val, _ = runScript(t, animalsSource+`Dog.new("rex").is_a?(Animal)`)
	if !val.Bool() {
		t.Fatalf("expected Dog instance to be an Animal")
	}

	val, _ = runScript(t, animalsSource+`Dog.new("rex").class`)
	if val.Kind() != KindClass || val.Class().Name() != "Dog" {
		t.Fatalf("unexpected class %s", val.Inspect())
	}
}

func TestReopenedClassKeepsMethods(t *testing.T) {
	source := "class Box\n  def a\n    1\n  end\nend\nclass Box\n  def b\n    2\n  end\nend\nbox = Box.new\nbox.a + box.b"
	val, _ := runScript(t, source)
	if val.Int() != 3 {
		t.Fatalf("expected 3, got %s", val.Inspect())
	}
}

func TestClassMethodsAndClassVariables(t *testing.T) {
	source := `class Counter
  @@count = 0

  def self.increment
    @@count = @@count + 1
  end

  def self.count
    @@count
  end

  def count
    @@count
  end
end

class SubCounter < Counter
end

Counter.increment
SubCounter.increment
[Counter.count, SubCounter.new.count]`
	val, _ := runScript(t, source)
	if got := val.Inspect(); got != "[2, 2]" {
		t.Fatalf("class variables are shared with subclasses, got %s", got)
	}
}

func TestModules(t *testing.T) {
	source := `module Util
  FACTOR = 6

  def self.double(x)
    x * 2
  end
end

Util.double(Util.FACTOR)`
	val, _ := runScript(t, source)
	if val.Int() != 12 {
		t.Fatalf("expected 12, got %s", val.Inspect())
	}

	err := runError(t, Config{}, "module M\nend\nM.new")
	var dispatch *DispatchError
	if !errors.As(err, &dispatch) || dispatch.Method != "new" {
		t.Fatalf("modules cannot be instantiated, got %v", err)
	}
}

func TestInstanceVariablesDefaultToNil(t *testing.T) {
	val, _ := runScript(t, "class Empty\n  def peek\n    @missing\n  end\nend\nEmpty.new.peek")
	if !val.IsNil() {
		t.Fatalf("expected nil, got %s", val.Inspect())
	}
}

func TestGlobals(t *testing.T) {
	in := NewInterpreter(Config{})
	val, err := in.Run(context.Background(), "$count = 3\ndef bump\n  $count = $count + 1\nend\nbump\n$count")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if val.Int() != 4 || in.Global("count").Int() != 4 {
		t.Fatalf("unexpected global %s", val.Inspect())
	}
	if !in.Global("unset").IsNil() {
		t.Fatalf("unset globals read as nil")
	}
}

func TestIndexing(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{"a = [1, [2, 3]]\na[1][0]", "2"},
		{"a = [1, 2, 3]\na[-1]", "3"},
		{"a = [1, 2, 3]\na[5]", "nil"},
		{`"hello"[1]`, `"e"`},
		{`[1, 2] + [3]`, "[1, 2, 3]"},
	}
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			val, _ := runScript(t, tt.source)
			if got := val.Inspect(); got != tt.want {
				t.Fatalf("got %s, want %s", got, tt.want)
			}
		})
	}

	err := runError(t, Config{}, `5[0]`)
	var typeErr *TypeError
	if !errors.As(err, &typeErr) || typeErr.Message != "cannot index int" {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestLibraryOutput(t *testing.T) {
	_, out := runScript(t, "puts \"a\", 1\nputs([2, [3]])\nprint \"x\", \"y\"\np \"q\"\nputs nil")
	want := "a\n1\n2\n3\nxy\"q\"\n\n"
	if out != want {
		t.Fatalf("output = %q, want %q", out, want)
	}
}

func TestStatePersistsAcrossRuns(t *testing.T) {
	in := NewInterpreter(Config{})
	ctx := context.Background()
	if _, err := in.Run(ctx, "x = 41\ndef inc(n)\n  n + 1\nend"); err != nil {
		t.Fatalf("first run: %v", err)
	}
	val, err := in.Run(ctx, "inc(x)")
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if val.Int() != 42 {
		t.Fatalf("expected 42, got %s", val.Inspect())
	}

	in.Reset()
	if _, err := in.Run(ctx, "x"); err == nil {
		t.Fatalf("expected Reset to drop definitions")
	}
}

func TestEvalAndCall(t *testing.T) {
	in := NewInterpreter(Config{})
	nodes, err := ParseProgram("a + 1")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	env := NewContext(in.Root())
	env.SetLocal("a", NewInt(41))
	val, err := in.Eval(context.Background(), nodes[0], env)
	if err != nil {
		t.Fatalf("eval: %v", err)
	}
	if val.Int() != 42 {
		t.Fatalf("expected 42, got %s", val.Inspect())
	}

	if _, err := in.Run(context.Background(), "def add(a, b)\n  a + b\nend"); err != nil {
		t.Fatalf("run: %v", err)
	}
	fn, ok := in.Root().Get("add")
	if !ok {
		t.Fatalf("add not bound in root context")
	}
	val, err = in.Call(context.Background(), fn, NewNil(), []Value{NewInt(1), NewInt(2)})
	if err != nil {
		t.Fatalf("call: %v", err)
	}
	if val.Int() != 3 {
		t.Fatalf("expected 3, got %s", val.Inspect())
	}
}

func TestRuntimeErrors(t *testing.T) {
	err := runError(t, Config{}, "x = 1\ny = missing")
	var unbound *UnboundNameError
	if !errors.As(err, &unbound) {
		t.Fatalf("expected UnboundNameError, got %T", err)
	}
	var re *RuntimeError
	if !errors.As(err, &re) {
		t.Fatalf("expected RuntimeError, got %T", err)
	}
	msg := err.Error()
	for _, want := range []string{"undefined name missing", "line 2, column 5", "y = missing", "at <script> (2:5)"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("error %q missing %q", msg, want)
		}
	}

	err = runError(t, Config{}, `5.frobnicate`)
	var dispatch *DispatchError
	if !errors.As(err, &dispatch) || err.(*RuntimeError).Message != "undefined method frobnicate for int" {
		t.Fatalf("unexpected dispatch error %v", err)
	}

	err = runError(t, Config{}, "class A\nend\nA.new.zap")
	if !errors.As(err, &dispatch) || dispatch.Receiver != "A" {
		t.Fatalf("unexpected dispatch error %v", err)
	}

	err = runError(t, Config{}, "def f(a)\n  a\nend\nf(1, 2)")
	var typeErr *TypeError
	if !errors.As(err, &typeErr) || typeErr.Message != "wrong number of arguments for f (given 2, expected 1)" {
		t.Fatalf("unexpected arity error %v", err)
	}

	lib := DefaultLibrary()
	lib.Declare("format")
	err = runError(t, Config{Library: lib}, `format(1)`)
	if !errors.As(err, &typeErr) || typeErr.Message != "format is only available to compiled code" {
		t.Fatalf("unexpected library error %v", err)
	}
}

func TestRuntimeErrorStackFrames(t *testing.T) {
	err := runError(t, Config{}, "def inner\n  missing\nend\ndef outer\n  inner\nend\nouter")
	msg := err.Error()
	for _, want := range []string{"at inner (2:3)", "at inner (5:3)", "at outer (7:1)"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("error %q missing frame %q", msg, want)
		}
	}
}

func TestExecutionLimits(t *testing.T) {
	err := runError(t, Config{RecursionLimit: 3}, "def r(n)\n  r(n + 1)\nend\nr(0)")
	if !errors.Is(err, ErrStackTooDeep) {
		t.Fatalf("expected ErrStackTooDeep, got %v", err)
	}

	err = runError(t, Config{StepQuota: 100}, "while true\nend")
	if !errors.Is(err, ErrStepQuotaExceeded) {
		t.Fatalf("expected ErrStepQuotaExceeded, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	in := NewInterpreter(Config{})
	_, err = in.Run(ctx, "while true\nend")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
