package crys

import (
	"fmt"
	"strings"
)

// ParseError reports malformed source at a position.
type ParseError struct {
	Pos     Position
	Message string
	source  string
}

func (e *ParseError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "parse error at %d:%d: %s", e.Pos.Line, e.Pos.Column, e.Message)
	if frame := formatCodeFrame(e.source, e.Pos); frame != "" {
		b.WriteString("\n")
		b.WriteString(frame)
	}
	return b.String()
}

func (p *parser) errorExpected(tok Token, expected string) {
	p.addParseError(tok.Pos, fmt.Sprintf("expected %s, got %s", expected, tokenLabel(tok)))
}

func (p *parser) errorUnexpected(tok Token) {
	p.addParseError(tok.Pos, fmt.Sprintf("unexpected %s", tokenLabel(tok)))
}

func (p *parser) addParseError(pos Position, msg string) {
	p.errors = append(p.errors, &ParseError{Pos: pos, Message: msg, source: p.l.input})
}

func tokenLabel(tok Token) string {
	if tok.Type == tokenIllegal {
		if tok.Literal == "unterminated string" {
			return tok.Literal
		}
		return fmt.Sprintf("invalid token %q", tok.Literal)
	}
	return typeLabel(tok.Type)
}

func typeLabel(tt TokenType) string {
	switch tt {
	case tokenEOF:
		return "end of input"
	case tokenIdent:
		return "identifier"
	case tokenInt:
		return "integer"
	case tokenFloat:
		return "float"
	case tokenString:
		return "string"
	case tokenSymbol:
		return "symbol"
	case tokenIvar:
		return "instance variable"
	case tokenClassVar:
		return "class variable"
	case tokenGlobal:
		return "global variable"
	}
	if lower := strings.ToLower(string(tt)); keywords[lower] == tt {
		return "'" + lower + "'"
	}
	return fmt.Sprintf("%q", string(tt))
}
