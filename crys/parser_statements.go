package crys

func (p *parser) parseStatement() Node {
	stmt := p.parseExpression(lowestPrec)
	if stmt == nil {
		return nil
	}

	for !p.peekToken.NewlineBefore {
		pos := p.peekToken.Pos
		switch p.peekToken.Type {
		case tokenIf, tokenUnless, tokenWhile, tokenUntil:
		default:
			return stmt
		}
		p.nextToken()
		modifier := p.curToken.Type
		p.nextToken()
		cond := p.parseExpression(lowestPrec)
		if cond == nil {
			return nil
		}
		switch modifier {
		case tokenIf:
			stmt = &IfExpr{Cond: cond, Then: stmt, position: pos}
		case tokenUnless:
			stmt = &UnlessExpr{Cond: cond, Then: stmt, position: pos}
		case tokenWhile:
			stmt = &WhileExpr{Cond: cond, Body: stmt, position: pos}
		case tokenUntil:
			stmt = &UntilExpr{Cond: cond, Body: stmt, position: pos}
		}
	}
	return stmt
}

// parseBlock parses statements up to one of the stop tokens and leaves the
// stop token current. A single statement is returned as is; anything else
// becomes a CompositeExpr.
func (p *parser) parseBlock(stop ...TokenType) Node {
	pos := p.curToken.Pos
	saved := p.nesting
	p.nesting = 0
	defer func() {
		p.nesting = saved
	}()

	isStop := func(tt TokenType) bool {
		for _, s := range stop {
			if tt == s {
				return true
			}
		}
		return false
	}

	exprs := make([]Node, 0)
	for {
		for p.curToken.Type == tokenSemicolon {
			p.nextToken()
		}
		if isStop(p.curToken.Type) {
			break
		}
		if p.curToken.Type == tokenEOF {
			p.errorExpected(p.curToken, typeLabel(stop[len(stop)-1]))
			return nil
		}

		stmt := p.parseStatement()
		if stmt == nil {
			return nil
		}
		exprs = append(exprs, stmt)
		p.nextToken()

		tt := p.curToken.Type
		if tt != tokenSemicolon && tt != tokenEOF && !isStop(tt) && !p.curToken.NewlineBefore {
			p.errorUnexpected(p.curToken)
			return nil
		}
	}

	if len(exprs) == 1 {
		return exprs[0]
	}
	return &CompositeExpr{Exprs: exprs, position: pos}
}

// beginBody moves past a block header onto the first body token. The header
// ends with the optional keyword (`then`, `do`), a semicolon or a line break.
func (p *parser) beginBody(keyword TokenType) bool {
	switch {
	case keyword != "" && p.peekToken.Type == keyword:
		p.nextToken()
	case p.peekToken.Type == tokenSemicolon, p.peekToken.Type == tokenEOF, p.peekToken.NewlineBefore:
	default:
		p.errorUnexpected(p.peekToken)
		return false
	}
	p.nextToken()
	return true
}

func (p *parser) parseIfExpression() Node {
	pos := p.curToken.Pos
	p.nextToken()
	cond := p.parseExpression(lowestPrec)
	if cond == nil || !p.beginBody(tokenThen) {
		return nil
	}

	then := p.parseBlock(tokenElsif, tokenElse, tokenEnd)
	if then == nil {
		return nil
	}
	expr := &IfExpr{Cond: cond, Then: then, position: pos}

	switch p.curToken.Type {
	case tokenElsif:
		// elsif nests a fresh if that consumes the shared `end`
		expr.Else = p.parseIfExpression()
		if expr.Else == nil {
			return nil
		}
	case tokenElse:
		p.nextToken()
		expr.Else = p.parseBlock(tokenEnd)
		if expr.Else == nil {
			return nil
		}
	}
	return expr
}

func (p *parser) parseUnlessExpression() Node {
	pos := p.curToken.Pos
	p.nextToken()
	cond := p.parseExpression(lowestPrec)
	if cond == nil || !p.beginBody(tokenThen) {
		return nil
	}

	then := p.parseBlock(tokenElse, tokenEnd)
	if then == nil {
		return nil
	}
	expr := &UnlessExpr{Cond: cond, Then: then, position: pos}
	if p.curToken.Type == tokenElse {
		p.nextToken()
		expr.Else = p.parseBlock(tokenEnd)
		if expr.Else == nil {
			return nil
		}
	}
	return expr
}

func (p *parser) parseLoop() (Node, Node) {
	p.nextToken()
	cond := p.parseExpression(lowestPrec)
	if cond == nil || !p.beginBody(tokenDo) {
		return nil, nil
	}
	body := p.parseBlock(tokenEnd)
	if body == nil {
		return nil, nil
	}
	return cond, body
}

func (p *parser) parseWhileExpression() Node {
	pos := p.curToken.Pos
	cond, body := p.parseLoop()
	if cond == nil {
		return nil
	}
	return &WhileExpr{Cond: cond, Body: body, position: pos}
}

func (p *parser) parseUntilExpression() Node {
	pos := p.curToken.Pos
	cond, body := p.parseLoop()
	if cond == nil {
		return nil
	}
	return &UntilExpr{Cond: cond, Body: body, position: pos}
}

func (p *parser) parseDefExpression() Node {
	pos := p.curToken.Pos
	p.nextToken()

	target := ""
	if (p.curToken.Type == tokenSelf || p.curToken.Type == tokenIdent) && p.peekToken.Type == tokenDot {
		target = p.curToken.Literal
		p.nextToken()
		p.nextToken()
	}
	if !isMethodName(p.curToken) {
		p.errorExpected(p.curToken, "method name")
		return nil
	}
	name := p.curToken.Literal

	params, ok := p.parseParams()
	if !ok {
		return nil
	}

	p.nextToken()
	body := p.parseBlock(tokenEnd)
	if body == nil {
		return nil
	}

	if target != "" {
		return &DefNamedExpr{Target: target, Name: name, Params: params, Body: body, position: pos}
	}
	return &DefExpr{Name: name, Params: params, Body: body, position: pos}
}

func (p *parser) parseParams() ([]string, bool) {
	params := []string{}
	seen := make(map[string]struct{})
	add := func() bool {
		if p.curToken.Type != tokenIdent {
			p.errorExpected(p.curToken, "parameter name")
			return false
		}
		if _, dup := seen[p.curToken.Literal]; dup {
			p.addParseError(p.curToken.Pos, "duplicate parameter "+p.curToken.Literal)
			return false
		}
		seen[p.curToken.Literal] = struct{}{}
		params = append(params, p.curToken.Literal)
		return true
	}

	switch {
	case p.peekToken.Type == tokenLParen && !p.peekToken.NewlineBefore:
		p.nextToken()
		if p.peekToken.Type == tokenRParen {
			p.nextToken()
			return params, true
		}
		p.nextToken()
		if !add() {
			return nil, false
		}
		for p.peekToken.Type == tokenComma {
			p.nextToken()
			p.nextToken()
			if !add() {
				return nil, false
			}
		}
		if !p.expectPeek(tokenRParen) {
			return nil, false
		}
	case p.peekToken.Type == tokenIdent && !p.peekToken.NewlineBefore:
		p.nextToken()
		if !add() {
			return nil, false
		}
		for p.peekToken.Type == tokenComma {
			p.nextToken()
			p.nextToken()
			if !add() {
				return nil, false
			}
		}
	}
	return params, true
}

func (p *parser) parseClassExpression() Node {
	pos := p.curToken.Pos
	if !p.expectPeek(tokenIdent) {
		return nil
	}
	name := p.curToken.Literal

	superName := ""
	if p.peekToken.Type == tokenLT && !p.peekToken.NewlineBefore {
		p.nextToken()
		if !p.expectPeek(tokenIdent) {
			return nil
		}
		superName = p.curToken.Literal
	}

	if !p.beginBody("") {
		return nil
	}
	body := p.parseBlock(tokenEnd)
	if body == nil {
		return nil
	}
	return &ClassExpr{Name: name, SuperName: superName, Body: body, position: pos}
}

func (p *parser) parseModuleExpression() Node {
	pos := p.curToken.Pos
	if !p.expectPeek(tokenIdent) {
		return nil
	}
	name := p.curToken.Literal
	if !p.beginBody("") {
		return nil
	}
	body := p.parseBlock(tokenEnd)
	if body == nil {
		return nil
	}
	return &ModuleExpr{Name: name, Body: body, position: pos}
}

// isMethodName accepts identifiers and keywords used as method names, as in
// `def class` or `obj.end`.
func isMethodName(tok Token) bool {
	if tok.Type == tokenIdent {
		return true
	}
	_, ok := keywords[tok.Literal]
	return ok
}
