package crys

import (
	"errors"
	"strings"
	"testing"
)

func parseOne(t *testing.T, source string) Node {
	t.Helper()
	nodes, err := ParseProgram(source)
	if err != nil {
		t.Fatalf("parse %q: %v", source, err)
	}
	if len(nodes) != 1 {
		t.Fatalf("parse %q: expected one statement, got %d", source, len(nodes))
	}
	return nodes[0]
}

func TestParsePrecedence(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{"1 + 2 * 3", "(1 + (2 * 3))"},
		{"(1 + 2) * 3", "((1 + 2) * 3)"},
		{"a = b = 1", "a = b = 1"},
		{"1 < 2 == true", "((1 < 2) == true)"},
		{"a || b && c", "(a || (b && c))"},
		{"-a ** 2", "(-(Math.pow(a, 2)))"},
		{"x | y & z", "(x | (y & z))"},
		{"1 << 2 + 3", "(1 << (2 + 3))"},
		{"!a == b", "((!a) == b)"},
	}
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			code, err := CompileNode(parseOne(t, tt.source))
			if err != nil {
				t.Fatalf("compile: %v", err)
			}
			if code != tt.want {
				t.Fatalf("got %s, want %s", code, tt.want)
			}
		})
	}
}

func TestParseKeywordLogicBindsLoosest(t *testing.T) {
	n := parseOne(t, "a = x and y")
	bin, ok := n.(*BinaryExpr)
	if !ok || bin.Op != OpAnd {
		t.Fatalf("expected && at the top, got %T", n)
	}
	if _, ok := bin.Left.(*AssignExpr); !ok {
		t.Fatalf("expected assignment on the left, got %T", bin.Left)
	}

	n = parseOne(t, "not a == b")
	un, ok := n.(*UnaryExpr)
	if !ok || un.Op != OpNot {
		t.Fatalf("expected not at the top, got %T", n)
	}
	if _, ok := un.Operand.(*BinaryExpr); !ok {
		t.Fatalf("not should apply to the comparison, got %T", un.Operand)
	}
}

func TestParseCommandCalls(t *testing.T) {
	call, ok := parseOne(t, `puts "a", b + 1`).(*CallExpr)
	if !ok || call.Name != "puts" || len(call.Args) != 2 {
		t.Fatalf("unexpected node %#v", call)
	}
	if _, ok := call.Args[1].(*BinaryExpr); !ok {
		t.Fatalf("second argument should be b + 1, got %T", call.Args[1])
	}

	if _, ok := parseOne(t, "puts").(*NameExpr); !ok {
		t.Fatalf("bare identifier should stay a name")
	}
	if _, ok := parseOne(t, "a - 1").(*BinaryExpr); !ok {
		t.Fatalf("a - 1 should be subtraction")
	}

	qc, ok := parseOne(t, `list.push 1, 2`).(*QualifiedCallExpr)
	if !ok || qc.Name != "push" || len(qc.Args) != 2 {
		t.Fatalf("unexpected node %#v", qc)
	}
}

func TestParseMethodChainsAcrossLines(t *testing.T) {
	qc, ok := parseOne(t, "list\n  .first\n  .to_s").(*QualifiedCallExpr)
	if !ok || qc.Name != "to_s" {
		t.Fatalf("unexpected node %T", qc)
	}
	inner, ok := qc.Target.(*QualifiedCallExpr)
	if !ok || inner.Name != "first" {
		t.Fatalf("unexpected target %T", qc.Target)
	}
}

func TestParseNewlineEndsBinaryExpression(t *testing.T) {
	nodes, err := ParseProgram("a\n- 1")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(nodes) != 2 {
		t.Fatalf("expected two statements, got %d", len(nodes))
	}

	nodes, err = ParseProgram("total = (1 +\n  2)")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(nodes) != 1 {
		t.Fatalf("parentheses should join lines, got %d statements", len(nodes))
	}
}

func TestParseDefinitions(t *testing.T) {
	def, ok := parseOne(t, "def add a, b\n  a + b\nend").(*DefExpr)
	if !ok || def.Name != "add" || strings.Join(def.Params, ",") != "a,b" {
		t.Fatalf("unexpected def %#v", def)
	}

	named, ok := parseOne(t, "def self.build\n  new\nend").(*DefNamedExpr)
	if !ok || named.Target != "self" || named.Name != "build" || len(named.Params) != 0 {
		t.Fatalf("unexpected def %#v", named)
	}

	cls, ok := parseOne(t, "class Dog < Animal\n  def speak\n    1\n  end\nend").(*ClassExpr)
	if !ok || cls.Name != "Dog" || cls.SuperName != "Animal" {
		t.Fatalf("unexpected class %#v", cls)
	}
	if _, ok := cls.Body.(*DefExpr); !ok {
		t.Fatalf("single-method class body should be the def, got %T", cls.Body)
	}

	mod, ok := parseOne(t, "module Util; end").(*ModuleExpr)
	if !ok || mod.Name != "Util" {
		t.Fatalf("unexpected module %#v", mod)
	}
	if body, ok := mod.Body.(*CompositeExpr); !ok || len(body.Exprs) != 0 {
		t.Fatalf("empty body should be an empty sequence, got %#v", mod.Body)
	}
}

func TestParseStatementModifiers(t *testing.T) {
	n := parseOne(t, "x = 1 if ready unless done")
	outer, ok := n.(*UnlessExpr)
	if !ok {
		t.Fatalf("expected unless at the top, got %T", n)
	}
	if _, ok := outer.Then.(*IfExpr); !ok {
		t.Fatalf("expected if inside unless, got %T", outer.Then)
	}

	if _, ok := parseOne(t, "i = i + 1 until i > 3").(*UntilExpr); !ok {
		t.Fatalf("expected until loop")
	}
}

func TestParserStatementStream(t *testing.T) {
	ps := NewParser("a = 1;; b = 2\n\nc")
	var kinds []string
	for {
		parsed, err := ps.Parse(RuleStatement)
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		if parsed == nil {
			break
		}
		if parsed.Node == nil {
			kinds = append(kinds, "empty")
			continue
		}
		kinds = append(kinds, describeNode(parsed.Node))
	}
	want := "assignment,empty,assignment,name c"
	if got := strings.Join(kinds, ","); got != want {
		t.Fatalf("got %s, want %s", got, want)
	}
}

func TestParseExpressionRule(t *testing.T) {
	ps := NewParser("x if y")
	parsed, err := ps.Parse(RuleExpression)
	if err == nil {
		t.Fatalf("expected modifiers to be rejected by the expression rule, got %T", parsed.Node)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{"1 +", "parse error at 1:3: unexpected end of input"},
		{"def 1\nend", "parse error at 1:5: expected method name, got integer"},
		{"def f(a, a)\nend", "parse error at 1:10: duplicate parameter a"},
		{"if x\n  1", "parse error at 2:3: expected 'end', got end of input"},
		{"1 = 2", "parse error at 1:3: invalid assignment target"},
		{"x = 1 2", "parse error at 1:7: unexpected integer"},
		{"(1)(2)", "parse error at 1:4: expression is not callable"},
		{`"open`, "parse error at 1:1: unexpected unterminated string"},
	}
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			_, err := ParseProgram(tt.source)
			if err == nil {
				t.Fatalf("expected parse error")
			}
			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("expected ParseError, got %T", err)
			}
			if first := strings.SplitN(err.Error(), "\n", 2)[0]; first != tt.want {
				t.Fatalf("got %q, want %q", first, tt.want)
			}
		})
	}
}

func TestParseErrorCodeFrame(t *testing.T) {
	_, err := ParseProgram("x = 1\ny = (2 + )")
	if err == nil {
		t.Fatalf("expected parse error")
	}
	if !strings.Contains(err.Error(), " 2 | y = (2 + )") {
		t.Fatalf("missing code frame in %q", err.Error())
	}
}
