package crys

import (
	"strconv"
)

func (p *parser) parseExpression(precedence int) Node {
	prefix := p.prefixFns[p.curToken.Type]
	if prefix == nil {
		p.errorUnexpected(p.curToken)
		return nil
	}

	left := prefix()
	if left == nil {
		return nil
	}

	for p.peekToken.Type != tokenEOF && precedence < p.peekPrecedence() {
		// a line break ends the expression unless it continues a method chain
		if !p.peekOnSameLine() && p.peekToken.Type != tokenDot {
			return left
		}
		infix := p.infixFns[p.peekToken.Type]
		if infix == nil {
			return left
		}
		p.nextToken()
		left = infix(left)
		if left == nil {
			return nil
		}
	}

	return left
}

func (p *parser) parseIdentifier() Node {
	tok := p.curToken
	if tok.Literal == "js" {
		return &JSNamespaceExpr{position: tok.Pos}
	}
	if p.startsCommandArgs() {
		args := p.parseCommandArgs()
		if args == nil {
			return nil
		}
		return &CallExpr{Name: tok.Literal, Args: args, position: tok.Pos}
	}
	return &NameExpr{Name: tok.Literal, position: tok.Pos}
}

// startsCommandArgs reports whether the peek token opens the argument list of
// a call written without parentheses.
func (p *parser) startsCommandArgs() bool {
	return !p.peekToken.NewlineBefore && commandArgStart[p.peekToken.Type]
}

func (p *parser) parseCommandArgs() []Node {
	args := []Node{}
	p.nextToken()
	arg := p.parseExpression(precKeywordLogic)
	if arg == nil {
		return nil
	}
	args = append(args, arg)
	for p.peekToken.Type == tokenComma {
		p.nextToken()
		p.nextToken()
		arg := p.parseExpression(precKeywordLogic)
		if arg == nil {
			return nil
		}
		args = append(args, arg)
	}
	return args
}

func (p *parser) parseIntegerLiteral() Node {
	value, err := strconv.ParseInt(p.curToken.Literal, 10, 64)
	if err != nil {
		p.addParseError(p.curToken.Pos, "invalid integer literal")
		return nil
	}
	return &ConstantExpr{Value: NewInt(value), position: p.curToken.Pos}
}

func (p *parser) parseFloatLiteral() Node {
	value, err := strconv.ParseFloat(p.curToken.Literal, 64)
	if err != nil {
		p.addParseError(p.curToken.Pos, "invalid float literal")
		return nil
	}
	return &ConstantExpr{Value: NewFloat(value), position: p.curToken.Pos}
}

func (p *parser) parseStringLiteral() Node {
	return &ConstantExpr{Value: NewString(p.curToken.Literal), position: p.curToken.Pos}
}

func (p *parser) parseBooleanLiteral() Node {
	return &ConstantExpr{Value: NewBool(p.curToken.Type == tokenTrue), position: p.curToken.Pos}
}

func (p *parser) parseNilLiteral() Node {
	return &ConstantExpr{Value: NewNil(), position: p.curToken.Pos}
}

func (p *parser) parseSymbolLiteral() Node {
	return &KeywordExpr{Name: p.curToken.Literal, position: p.curToken.Pos}
}

func (p *parser) parseSelf() Node {
	return &SelfExpr{position: p.curToken.Pos}
}

func (p *parser) parseIvar() Node {
	return &InstanceVarExpr{Name: p.curToken.Literal, position: p.curToken.Pos}
}

func (p *parser) parseClassVar() Node {
	return &ClassVarExpr{Name: p.curToken.Literal, position: p.curToken.Pos}
}

func (p *parser) parseGlobal() Node {
	return &GlobalVarExpr{Name: p.curToken.Literal, position: p.curToken.Pos}
}

func (p *parser) parseGroupedExpression() Node {
	p.nesting++
	defer func() {
		p.nesting--
	}()
	p.nextToken()
	expr := p.parseExpression(lowestPrec)
	if expr == nil {
		return nil
	}
	if !p.expectPeek(tokenRParen) {
		return nil
	}
	return expr
}

func (p *parser) parseArrayLiteral() Node {
	pos := p.curToken.Pos
	elements := p.parseExpressionList(tokenRBracket)
	if elements == nil {
		return nil
	}
	return &ArrayExpr{Elements: elements, position: pos}
}

// parseExpressionList reads comma separated expressions after an opening
// delimiter, leaving the closing delimiter current.
func (p *parser) parseExpressionList(end TokenType) []Node {
	p.nesting++
	defer func() {
		p.nesting--
	}()

	list := []Node{}
	if p.peekToken.Type == end {
		p.nextToken()
		return list
	}

	p.nextToken()
	first := p.parseExpression(lowestPrec)
	if first == nil {
		return nil
	}
	list = append(list, first)

	for p.peekToken.Type == tokenComma {
		p.nextToken()
		p.nextToken()
		expr := p.parseExpression(lowestPrec)
		if expr == nil {
			return nil
		}
		list = append(list, expr)
	}

	if !p.expectPeek(end) {
		return nil
	}
	return list
}

func (p *parser) parsePrefixExpression() Node {
	tok := p.curToken
	var op Operator
	prec := precPrefix
	switch tok.Type {
	case tokenMinus:
		op = OpNeg
	case tokenTilde:
		op = OpBitNot
	case tokenKwNot:
		op = OpNot
		prec = precNot
	default:
		op = OpNot
	}

	p.nextToken()
	operand := p.parseExpression(prec)
	if operand == nil {
		return nil
	}
	return &UnaryExpr{Op: op, Operand: operand, position: tok.Pos}
}

func (p *parser) parseInfixExpression(left Node) Node {
	tok := p.curToken
	prec := p.curPrecedence()
	p.nextToken()
	right := p.parseExpression(prec)
	if right == nil {
		return nil
	}
	return &BinaryExpr{Op: binaryOperators[tok.Type], Left: left, Right: right, position: tok.Pos}
}

// parsePowerExpression binds to the right: 2 ** 3 ** 2 is 2 ** 9.
func (p *parser) parsePowerExpression(left Node) Node {
	pos := p.curToken.Pos
	p.nextToken()
	right := p.parseExpression(precPower - 1)
	if right == nil {
		return nil
	}
	return &BinaryExpr{Op: OpPow, Left: left, Right: right, position: pos}
}

func (p *parser) parseAssignExpression(left Node) Node {
	pos := p.curToken.Pos
	if !isAssignable(left) {
		p.addParseError(pos, "invalid assignment target")
		return nil
	}
	p.nextToken()
	value := p.parseExpression(precAssign - 1)
	if value == nil {
		return nil
	}
	return &AssignExpr{Target: left, Value: value, position: pos}
}

func (p *parser) parseCallExpression(callee Node) Node {
	pos := p.curToken.Pos
	switch callee := callee.(type) {
	case *NameExpr:
		args := p.parseExpressionList(tokenRParen)
		if args == nil {
			return nil
		}
		return &CallExpr{Name: callee.Name, Args: args, position: callee.position}
	case *JSMemberExpr:
		args := p.parseExpressionList(tokenRParen)
		if args == nil {
			return nil
		}
		return &JSCallExpr{Member: callee, Args: args, position: callee.position}
	default:
		p.addParseError(pos, "expression is not callable")
		return nil
	}
}

func (p *parser) parseMemberExpression(target Node) Node {
	pos := p.curToken.Pos
	p.nextToken()
	if !isMethodName(p.curToken) {
		p.errorExpected(p.curToken, "method name")
		return nil
	}
	name := p.curToken.Literal

	var args []Node
	called := false
	switch {
	case p.peekToken.Type == tokenLParen && !p.peekToken.NewlineBefore:
		p.nextToken()
		args = p.parseExpressionList(tokenRParen)
		if args == nil {
			return nil
		}
		called = true
	case p.startsCommandArgs():
		args = p.parseCommandArgs()
		if args == nil {
			return nil
		}
		called = true
	}

	switch target.(type) {
	case *JSNamespaceExpr, *JSMemberExpr:
		member := &JSMemberExpr{Target: target, Name: name, position: pos}
		if !called {
			return member
		}
		return &JSCallExpr{Member: member, Args: args, position: pos}
	}
	if args == nil {
		args = []Node{}
	}
	return &QualifiedCallExpr{Target: target, Name: name, Args: args, position: pos}
}

func (p *parser) parseIndexExpression(target Node) Node {
	pos := p.curToken.Pos
	indexes := p.parseExpressionList(tokenRBracket)
	if indexes == nil {
		return nil
	}
	if len(indexes) == 0 {
		p.addParseError(pos, "index expected")
		return nil
	}
	return &IndexedExpr{Target: target, Indexes: indexes, position: pos}
}
