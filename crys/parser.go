package crys

type (
	prefixParseFn func() Node
	infixParseFn  func(Node) Node
)

// Rule selects the grammar production Parse reads next.
type Rule int

const (
	// RuleStatement reads one statement, including trailing `if`/`unless`/
	// `while`/`until` modifiers.
	RuleStatement Rule = iota
	// RuleExpression reads a single expression.
	RuleExpression
)

// Parsed wraps one parse result. A nil Node marks an empty statement.
type Parsed struct {
	Node Node
}

// Parser reads statements from source text one at a time.
type Parser struct {
	p *parser
}

// NewParser prepares a parser positioned at the start of source.
func NewParser(source string) *Parser {
	return &Parser{p: newParser(source)}
}

// Parse reads the next statement or expression. It returns a nil *Parsed at
// end of input. Once a parse error is reported every later call returns it.
func (ps *Parser) Parse(rule Rule) (*Parsed, error) {
	p := ps.p
	if len(p.errors) > 0 {
		return nil, p.errors[0]
	}
	if p.curToken.Type == tokenEOF {
		return nil, nil
	}
	if p.curToken.Type == tokenSemicolon {
		p.nextToken()
		return &Parsed{}, nil
	}

	var n Node
	if rule == RuleExpression {
		n = p.parseExpression(lowestPrec)
	} else {
		n = p.parseStatement()
	}
	if len(p.errors) > 0 {
		return nil, p.errors[0]
	}

	p.nextToken()
	switch {
	case p.curToken.Type == tokenSemicolon:
		p.nextToken()
	case p.curToken.Type == tokenEOF, p.curToken.NewlineBefore:
	default:
		p.errorUnexpected(p.curToken)
		return nil, p.errors[0]
	}
	return &Parsed{Node: n}, nil
}

// ParseProgram parses every statement in source, dropping empty ones.
func ParseProgram(source string) ([]Node, error) {
	ps := NewParser(source)
	nodes := make([]Node, 0)
	for {
		parsed, err := ps.Parse(RuleStatement)
		if err != nil {
			return nil, err
		}
		if parsed == nil {
			return nodes, nil
		}
		if parsed.Node != nil {
			nodes = append(nodes, parsed.Node)
		}
	}
}

type parser struct {
	l *lexer

	curToken  Token
	peekToken Token

	errors []error

	// nesting counts open parentheses and brackets; line breaks inside
	// them do not end an expression.
	nesting int

	prefixFns map[TokenType]prefixParseFn
	infixFns  map[TokenType]infixParseFn
}

func newParser(input string) *parser {
	l := newLexer(input)
	p := &parser{l: l}

	p.prefixFns = make(map[TokenType]prefixParseFn)
	p.infixFns = make(map[TokenType]infixParseFn)

	p.registerPrefix(tokenIdent, p.parseIdentifier)
	p.registerPrefix(tokenInt, p.parseIntegerLiteral)
	p.registerPrefix(tokenFloat, p.parseFloatLiteral)
	p.registerPrefix(tokenString, p.parseStringLiteral)
	p.registerPrefix(tokenTrue, p.parseBooleanLiteral)
	p.registerPrefix(tokenFalse, p.parseBooleanLiteral)
	p.registerPrefix(tokenNil, p.parseNilLiteral)
	p.registerPrefix(tokenSymbol, p.parseSymbolLiteral)
	p.registerPrefix(tokenSelf, p.parseSelf)
	p.registerPrefix(tokenIvar, p.parseIvar)
	p.registerPrefix(tokenClassVar, p.parseClassVar)
	p.registerPrefix(tokenGlobal, p.parseGlobal)
	p.registerPrefix(tokenLParen, p.parseGroupedExpression)
	p.registerPrefix(tokenLBracket, p.parseArrayLiteral)
	p.registerPrefix(tokenBang, p.parsePrefixExpression)
	p.registerPrefix(tokenMinus, p.parsePrefixExpression)
	p.registerPrefix(tokenTilde, p.parsePrefixExpression)
	p.registerPrefix(tokenKwNot, p.parsePrefixExpression)
	p.registerPrefix(tokenIf, p.parseIfExpression)
	p.registerPrefix(tokenUnless, p.parseUnlessExpression)
	p.registerPrefix(tokenWhile, p.parseWhileExpression)
	p.registerPrefix(tokenUntil, p.parseUntilExpression)
	p.registerPrefix(tokenDef, p.parseDefExpression)
	p.registerPrefix(tokenClass, p.parseClassExpression)
	p.registerPrefix(tokenModule, p.parseModuleExpression)

	for tt := range binaryOperators {
		p.infixFns[tt] = p.parseInfixExpression
	}
	p.infixFns[tokenPower] = p.parsePowerExpression
	p.infixFns[tokenAssign] = p.parseAssignExpression
	p.infixFns[tokenLParen] = p.parseCallExpression
	p.infixFns[tokenDot] = p.parseMemberExpression
	p.infixFns[tokenLBracket] = p.parseIndexExpression

	p.nextToken()
	p.nextToken()

	return p
}

func (p *parser) registerPrefix(tt TokenType, fn prefixParseFn) {
	p.prefixFns[tt] = fn
}

func (p *parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

func (p *parser) expectPeek(tt TokenType) bool {
	if p.peekToken.Type == tt {
		p.nextToken()
		return true
	}
	p.errorExpected(p.peekToken, typeLabel(tt))
	return false
}

func (p *parser) peekPrecedence() int {
	if prec, ok := precedences[p.peekToken.Type]; ok {
		return prec
	}
	return lowestPrec
}

func (p *parser) curPrecedence() int {
	if prec, ok := precedences[p.curToken.Type]; ok {
		return prec
	}
	return lowestPrec
}

// peekOnSameLine reports whether the next token continues the current line.
func (p *parser) peekOnSameLine() bool {
	return !p.peekToken.NewlineBefore || p.nesting > 0
}
