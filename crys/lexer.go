package crys

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

type lexer struct {
	input string

	offset int
	width  int

	line   int
	column int

	ch rune
}

func newLexer(input string) *lexer {
	l := &lexer{input: input, line: 1, column: 0}
	l.readRune()
	return l
}

func (l *lexer) readRune() {
	if l.ch == '\n' || (l.ch == '\r' && l.peekRune() != '\n') {
		l.line++
		l.column = 0
	}

	if l.offset >= len(l.input) {
		l.width = 0
		l.ch = 0
		return
	}

	r, w := utf8.DecodeRuneInString(l.input[l.offset:])
	l.width = w
	l.offset += w
	l.column++
	l.ch = r
}

func (l *lexer) peekRune() rune {
	if l.offset >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.offset:])
	return r
}

func (l *lexer) peekRuneN(n int) rune {
	idx := l.offset
	for i := 0; ; i++ {
		if idx >= len(l.input) {
			return 0
		}
		r, w := utf8.DecodeRuneInString(l.input[idx:])
		if i == n {
			return r
		}
		idx += w
	}
}

// NextToken scans the next token, recording whether a line break was
// crossed to reach it.
func (l *lexer) NextToken() Token {
	newline := l.skipWhitespaceAndComments()

	tok := l.scan()
	tok.NewlineBefore = newline
	return tok
}

func (l *lexer) scan() Token {
	tok := Token{Pos: Position{Line: l.line, Column: l.column}}

	switch l.ch {
	case 0:
		tok.Type = tokenEOF
		return tok
	case '+':
		return l.single(tokenPlus)
	case '-':
		return l.single(tokenMinus)
	case '~':
		return l.single(tokenTilde)
	case '^':
		return l.single(tokenBitXor)
	case '/':
		return l.single(tokenSlash)
	case '%':
		return l.single(tokenPercent)
	case '(':
		return l.single(tokenLParen)
	case ')':
		return l.single(tokenRParen)
	case '[':
		return l.single(tokenLBracket)
	case ']':
		return l.single(tokenRBracket)
	case ',':
		return l.single(tokenComma)
	case ';':
		return l.single(tokenSemicolon)
	case '.':
		return l.single(tokenDot)
	case '*':
		if l.peekRune() == '*' {
			return l.double(tokenPower)
		}
		return l.single(tokenAsterisk)
	case '!':
		if l.peekRune() == '=' {
			return l.double(tokenNotEQ)
		}
		return l.single(tokenBang)
	case '=':
		if l.peekRune() == '=' {
			return l.double(tokenEQ)
		}
		return l.single(tokenAssign)
	case '>':
		switch l.peekRune() {
		case '=':
			return l.double(tokenGTE)
		case '>':
			return l.double(tokenShr)
		}
		return l.single(tokenGT)
	case '<':
		switch l.peekRune() {
		case '=':
			if l.peekRuneN(1) == '>' {
				tok = l.makeToken(tokenCompare, "<=>")
				l.readRune()
				l.readRune()
				l.readRune()
				return tok
			}
			return l.double(tokenLTE)
		case '<':
			return l.double(tokenShl)
		}
		return l.single(tokenLT)
	case '&':
		if l.peekRune() == '&' {
			return l.double(tokenAnd)
		}
		return l.single(tokenBitAnd)
	case '|':
		if l.peekRune() == '|' {
			return l.double(tokenOr)
		}
		return l.single(tokenBitOr)
	case ':':
		if isIdentifierStart(l.peekRune()) {
			l.readRune()
			tok.Type = tokenSymbol
			tok.Literal = l.readIdentifier()
			return tok
		}
		return l.single(tokenIllegal)
	case '"', '\'':
		literal, err := l.readString(l.ch)
		if err != "" {
			tok.Type = tokenIllegal
			tok.Literal = err
		} else {
			tok.Type = tokenString
			tok.Literal = literal
		}
		return tok
	case '@':
		tok.Type = tokenIvar
		l.readRune()
		if l.ch == '@' {
			tok.Type = tokenClassVar
			l.readRune()
		}
		if !isIdentifierStart(l.ch) {
			tok.Type = tokenIllegal
			tok.Literal = "@"
			return tok
		}
		tok.Literal = l.readName()
		return tok
	case '$':
		l.readRune()
		if !isIdentifierStart(l.ch) {
			tok.Type = tokenIllegal
			tok.Literal = "$"
			return tok
		}
		tok.Type = tokenGlobal
		tok.Literal = l.readName()
		return tok
	}

	switch {
	case isIdentifierStart(l.ch):
		literal := l.readIdentifier()
		tok.Type = lookupIdent(literal)
		tok.Literal = literal
	case unicode.IsDigit(l.ch):
		literal, isFloat := l.readNumber()
		tok.Literal = literal
		if isFloat {
			tok.Type = tokenFloat
		} else {
			tok.Type = tokenInt
		}
	default:
		tok = l.single(tokenIllegal)
	}
	return tok
}

func (l *lexer) single(tt TokenType) Token {
	tok := l.makeToken(tt, string(l.ch))
	l.readRune()
	return tok
}

func (l *lexer) double(tt TokenType) Token {
	first := l.ch
	tok := l.makeToken(tt, "")
	l.readRune()
	tok.Literal = string(first) + string(l.ch)
	l.readRune()
	return tok
}

func (l *lexer) currentOffset() int {
	return l.offset - l.width
}

func (l *lexer) makeToken(tt TokenType, literal string) Token {
	return Token{Type: tt, Literal: literal, Pos: Position{Line: l.line, Column: l.column}}
}

// skipWhitespaceAndComments reports whether it crossed a line break.
func (l *lexer) skipWhitespaceAndComments() bool {
	newline := false
	for {
		switch l.ch {
		case '\n', '\r':
			newline = true
			l.readRune()
		case ' ', '\t':
			l.readRune()
		case '\\':
			// line continuation
			if l.peekRune() == '\n' || l.peekRune() == '\r' {
				l.readRune()
				if l.ch == '\r' && l.peekRune() == '\n' {
					l.readRune()
				}
				l.readRune()
				continue
			}
			return newline
		case '#':
			l.skipComment()
		default:
			return newline
		}
	}
}

func (l *lexer) skipComment() {
	for l.ch != 0 && l.ch != '\n' && l.ch != '\r' {
		l.readRune()
	}
}

// readName consumes an identifier body without the method suffixes ? and !.
func (l *lexer) readName() string {
	start := l.currentOffset()
	for isIdentifierRune(l.peekRune()) {
		l.readRune()
	}
	literal := l.input[start:l.offset]
	l.readRune()
	return literal
}

func (l *lexer) readIdentifier() string {
	start := l.currentOffset()
	for isIdentifierRune(l.peekRune()) {
		l.readRune()
	}
	if next := l.peekRune(); (next == '?' || next == '!') && l.peekRuneN(1) != '=' {
		l.readRune()
	}
	literal := l.input[start:l.offset]
	l.readRune()
	return literal
}

func (l *lexer) readNumber() (string, bool) {
	var sb strings.Builder
	hasDot, hasExp := false, false

	sb.WriteRune(l.ch)

	for {
		r := l.peekRune()
		switch {
		case r == '_':
			if unicode.IsDigit(l.ch) && unicode.IsDigit(l.peekRuneN(1)) {
				l.readRune()
				continue
			}
			goto done
		case r == '.' && !hasDot && unicode.IsDigit(l.peekRuneN(1)):
			hasDot = true
			l.readRune()
			sb.WriteRune('.')
		case (r == 'e' || r == 'E') && !hasExp && l.exponentFollows():
			hasExp, hasDot = true, true
			l.readRune()
			sb.WriteRune(r)
			if sign := l.peekRune(); sign == '+' || sign == '-' {
				l.readRune()
				sb.WriteRune(sign)
			}
		case unicode.IsDigit(r):
			l.readRune()
			sb.WriteRune(r)
		default:
			goto done
		}
	}

done:
	literal := sb.String()
	l.readRune()
	return literal, hasDot
}

// exponentFollows reports whether the pending e or E starts an exponent:
// digits, optionally after a sign.
func (l *lexer) exponentFollows() bool {
	next := l.peekRuneN(1)
	if next == '+' || next == '-' {
		next = l.peekRuneN(2)
	}
	return unicode.IsDigit(next)
}

func (l *lexer) readString(quote rune) (string, string) {
	var sb strings.Builder

	for {
		l.readRune()
		switch l.ch {
		case 0:
			return "", "unterminated string"
		case quote:
			l.readRune()
			return sb.String(), ""
		case '\\':
			next := l.peekRune()
			if quote == '\'' {
				if next == '\'' || next == '\\' {
					l.readRune()
					sb.WriteRune(next)
				} else {
					sb.WriteRune('\\')
				}
				continue
			}
			l.readRune()
			switch next {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			case '0':
				sb.WriteByte(0)
			case 'e':
				sb.WriteByte(0x1b)
			case 0:
				return "", "unterminated string"
			default:
				sb.WriteRune(next)
			}
		default:
			sb.WriteRune(l.ch)
		}
	}
}

func isIdentifierStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isIdentifierRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}
