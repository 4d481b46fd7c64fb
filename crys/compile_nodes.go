package crys

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// CompileNode translates one node into JavaScript source. Nodes that only
// the interpreter understands (classes, modules, if/unless, until, instance,
// class and global variables) fail with *UnsupportedError.
func CompileNode(n Node) (string, error) {
	switch n := n.(type) {
	case *ConstantExpr:
		return compileConstant(n)
	case *KeywordExpr:
		return "(" + jsonString(n.Name) + ")", nil
	case *NameExpr:
		return n.Name, nil
	case *SelfExpr:
		return "this", nil
	case *AssignExpr:
		if _, ok := n.Target.(*NameExpr); !ok {
			return "", unsupported(n.Target, "compilation")
		}
		lhs, err := CompileNode(n.Target)
		if err != nil {
			return "", err
		}
		rhs, err := CompileNode(n.Value)
		if err != nil {
			return "", err
		}
		return lhs + " = " + asStatement(rhs), nil
	case *CallExpr:
		args, err := compileArgs(n.Args)
		if err != nil {
			return "", err
		}
		return n.Name + "(" + args + ")", nil
	case *QualifiedCallExpr:
		target, err := compileReceiver(n.Target)
		if err != nil {
			return "", err
		}
		args, err := compileArgs(n.Args)
		if err != nil {
			return "", err
		}
		return target + "." + n.Name + "(" + args + ")", nil
	case *JSNamespaceExpr:
		return "globalThis", nil
	case *JSMemberExpr:
		return hostChain(jsPath(n)), nil
	case *JSCallExpr:
		args, err := compileArgs(n.Args)
		if err != nil {
			return "", err
		}
		return hostChain(jsPath(n.Member)) + "(" + args + ")", nil
	case *WhileExpr:
		cond, err := CompileNode(n.Cond)
		if err != nil {
			return "", err
		}
		body, err := compileBody(n.Body)
		if err != nil {
			return "", err
		}
		return "while (" + asStatement(cond) + ") " + body, nil
	case *CompositeExpr:
		return compileComposite(n, false, nil)
	case *DefExpr:
		return compileDef(n)
	case *ArrayExpr:
		elems, err := compileArgs(n.Elements)
		if err != nil {
			return "", err
		}
		return "([" + elems + "])", nil
	case *IndexedExpr:
		target, err := compileOperand(n.Target)
		if err != nil {
			return "", err
		}
		var b strings.Builder
		b.WriteString("(")
		b.WriteString(target)
		for _, idx := range n.Indexes {
			code, err := CompileNode(idx)
			if err != nil {
				return "", err
			}
			b.WriteString("[")
			b.WriteString(asStatement(code))
			b.WriteString("]")
		}
		b.WriteString(")")
		return b.String(), nil
	case *BinaryExpr:
		return compileBinary(n)
	case *UnaryExpr:
		operand, err := compileOperand(n.Operand)
		if err != nil {
			return "", err
		}
		return "(" + n.Op.String() + operand + ")", nil
	case *InstanceVarExpr, *ClassVarExpr, *GlobalVarExpr, *IfExpr, *UnlessExpr,
		*UntilExpr, *DefNamedExpr, *ClassExpr, *ModuleExpr:
		return "", unsupported(n, "compilation")
	}
	return "", unsupported(n, "compilation")
}

// hostChain addresses a `js.a.b` path on the global object.
func hostChain(path []string) string {
	return strings.Join(append([]string{"globalThis"}, path...), ".")
}

func unsupported(n Node, capability string) error {
	return &UnsupportedError{Node: describeNode(n), Capability: capability, Pos: n.Pos()}
}

func compileConstant(n *ConstantExpr) (string, error) {
	v := n.Value
	switch v.Kind() {
	case KindNil, KindUndefined:
		return "null", nil
	case KindBool:
		return strconv.FormatBool(v.Bool()), nil
	case KindInt:
		return strconv.FormatInt(v.Int(), 10), nil
	case KindFloat:
		f := v.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return "", unsupported(n, "JSON encoding of "+formatNumber(f))
		}
		return formatNumber(f), nil
	case KindString:
		return jsonString(v.Str()), nil
	default:
		return "", unsupported(n, "compilation")
	}
}

// jsonString quotes s as a JSON string literal, leaving <, > and & as is.
func jsonString(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return strconv.Quote(s)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

func compileArgs(nodes []Node) (string, error) {
	parts := make([]string, len(nodes))
	for i, n := range nodes {
		code, err := CompileNode(n)
		if err != nil {
			return "", err
		}
		parts[i] = asStatement(code)
	}
	return strings.Join(parts, ", "), nil
}

// compileOperand compiles a child of an operator, parenthesizing anything
// that is not a name, a literal or already wholly parenthesized.
func compileOperand(n Node) (string, error) {
	code, err := CompileNode(n)
	if err != nil {
		return "", err
	}
	switch n.(type) {
	case *NameExpr, *ConstantExpr, *SelfExpr:
		if c, ok := n.(*ConstantExpr); ok && c.Value.IsNumber() && strings.HasPrefix(code, "-") {
			return "(" + code + ")", nil
		}
		return code, nil
	}
	if isWhollyParenthesized(code) {
		return code, nil
	}
	return "(" + code + ")", nil
}

// compileReceiver compiles the target of a method call. Calls, member
// chains and subscripts chain without extra parentheses; numeric literals
// need them so the dot is not read as a decimal point.
func compileReceiver(n Node) (string, error) {
	switch t := n.(type) {
	case *ConstantExpr:
		code, err := CompileNode(t)
		if err != nil {
			return "", err
		}
		if t.Value.IsNumber() {
			return "(" + code + ")", nil
		}
		return code, nil
	case *QualifiedCallExpr, *CallExpr, *JSCallExpr, *JSMemberExpr, *IndexedExpr, *ArrayExpr:
		return CompileNode(n)
	}
	return compileOperand(n)
}

func compileBinary(n *BinaryExpr) (string, error) {
	if n.Op == OpCompare {
		return "", unsupported(n, "compilation")
	}
	left, err := compileOperand(n.Left)
	if err != nil {
		return "", err
	}
	right, err := compileOperand(n.Right)
	if err != nil {
		return "", err
	}
	if n.Op == OpPow {
		return "(Math.pow(" + left + ", " + right + "))", nil
	}
	return "(" + left + " " + n.Op.String() + " " + right + ")", nil
}

// compileBody compiles a loop body: composites keep their braces, a single
// statement ends with a semicolon.
func compileBody(body Node) (string, error) {
	if c, ok := body.(*CompositeExpr); ok {
		return compileComposite(c, false, nil)
	}
	code, err := CompileNode(body)
	if err != nil {
		return "", err
	}
	return terminate(asStatement(code)), nil
}

// compileComposite emits a statement sequence. With more than one statement,
// or when the last value is returned, the sequence is braced. locals are
// declared at the top of the block.
func compileComposite(n *CompositeExpr, useReturn bool, locals []string) (string, error) {
	braced := useReturn || len(n.Exprs) > 1 || len(locals) > 0
	parts := make([]string, 0, len(n.Exprs)+len(locals))
	for _, name := range locals {
		parts = append(parts, "var "+name+";")
	}
	for i, expr := range n.Exprs {
		code, err := CompileNode(expr)
		if err != nil {
			return "", err
		}
		code = asStatement(code)
		last := i == len(n.Exprs)-1
		if useReturn && last && returnsValue(expr) {
			code = "return " + code
		}
		parts = append(parts, terminate(code))
	}
	if !braced {
		return strings.Join(parts, " "), nil
	}
	if len(parts) == 0 {
		return "{ }", nil
	}
	return "{ " + strings.Join(parts, " ") + " }", nil
}

// returnsValue reports whether a statement can follow `return`.
func returnsValue(n Node) bool {
	switch n.(type) {
	case *WhileExpr, *DefExpr:
		return false
	default:
		return true
	}
}

func compileDef(n *DefExpr) (string, error) {
	locals := functionLocals(n)
	head := "function " + n.Name + "(" + strings.Join(n.Params, ", ") + ") "

	if c, ok := n.Body.(*CompositeExpr); ok {
		body, err := compileComposite(c, true, locals)
		if err != nil {
			return "", err
		}
		return head + body, nil
	}

	code, err := CompileNode(n.Body)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString(head)
	b.WriteString("{ ")
	for _, name := range locals {
		b.WriteString("var " + name + "; ")
	}
	if returnsValue(n.Body) {
		b.WriteString("return " + code)
	} else {
		b.WriteString(terminate(code))
	}
	b.WriteString(" }")
	return b.String(), nil
}

func terminate(code string) string {
	if strings.HasSuffix(code, ";") || strings.HasSuffix(code, "}") {
		return code
	}
	return code + ";"
}

// asStatement strips one pair of parentheses enclosing the whole fragment,
// so `(a + 1)` becomes `a + 1` but `(a) + (b)` is left alone.
func asStatement(code string) string {
	if isWhollyParenthesized(code) {
		return code[1 : len(code)-1]
	}
	return code
}

// isWhollyParenthesized reports whether the opening parenthesis at the start
// of code is closed by its final character. String literals are skipped.
func isWhollyParenthesized(code string) bool {
	if len(code) < 2 || code[0] != '(' || code[len(code)-1] != ')' {
		return false
	}
	depth := 0
	var quote byte
	for i := 0; i < len(code); i++ {
		c := code[i]
		if quote != 0 {
			switch c {
			case '\\':
				i++
			case quote:
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			quote = c
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 && i != len(code)-1 {
				return false
			}
		}
	}
	return depth == 0
}
