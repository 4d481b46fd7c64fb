package crys

// TokenType identifies the lexical category of a token.
type TokenType string

const (
	tokenIllegal TokenType = "ILLEGAL"
	tokenEOF     TokenType = "EOF"

	tokenIdent    TokenType = "IDENT"
	tokenInt      TokenType = "INT"
	tokenFloat    TokenType = "FLOAT"
	tokenString   TokenType = "STRING"
	tokenSymbol   TokenType = "SYMBOL"
	tokenIvar     TokenType = "IVAR"
	tokenClassVar TokenType = "CLASSVAR"
	tokenGlobal   TokenType = "GLOBAL"

	tokenAssign   TokenType = "="
	tokenPlus     TokenType = "+"
	tokenMinus    TokenType = "-"
	tokenBang     TokenType = "!"
	tokenTilde    TokenType = "~"
	tokenAsterisk TokenType = "*"
	tokenPower    TokenType = "**"
	tokenSlash    TokenType = "/"
	tokenPercent  TokenType = "%"
	tokenLT       TokenType = "<"
	tokenGT       TokenType = ">"
	tokenLTE      TokenType = "<="
	tokenGTE      TokenType = ">="
	tokenCompare  TokenType = "<=>"
	tokenEQ       TokenType = "=="
	tokenNotEQ    TokenType = "!="
	tokenAnd      TokenType = "&&"
	tokenOr       TokenType = "||"
	tokenBitAnd   TokenType = "&"
	tokenBitOr    TokenType = "|"
	tokenBitXor   TokenType = "^"
	tokenShl      TokenType = "<<"
	tokenShr      TokenType = ">>"

	tokenComma     TokenType = ","
	tokenSemicolon TokenType = ";"
	tokenDot       TokenType = "."
	tokenLParen    TokenType = "("
	tokenRParen    TokenType = ")"
	tokenLBracket  TokenType = "["
	tokenRBracket  TokenType = "]"

	tokenDef    TokenType = "DEF"
	tokenClass  TokenType = "CLASS"
	tokenModule TokenType = "MODULE"
	tokenSelf   TokenType = "SELF"
	tokenEnd    TokenType = "END"
	tokenIf     TokenType = "IF"
	tokenUnless TokenType = "UNLESS"
	tokenElsif  TokenType = "ELSIF"
	tokenElse   TokenType = "ELSE"
	tokenThen   TokenType = "THEN"
	tokenWhile  TokenType = "WHILE"
	tokenUntil  TokenType = "UNTIL"
	tokenDo     TokenType = "DO"
	tokenTrue   TokenType = "TRUE"
	tokenFalse  TokenType = "FALSE"
	tokenNil    TokenType = "NIL"
	tokenKwAnd  TokenType = "AND"
	tokenKwOr   TokenType = "OR"
	tokenKwNot  TokenType = "NOT"
)

// Token captures lexical information for the parser.
type Token struct {
	Type    TokenType
	Literal string
	Pos     Position

	// NewlineBefore reports whether a line break separated this token from
	// the previous one. Statements end at line breaks.
	NewlineBefore bool
}

// Position identifies a line and column in the source text.
type Position struct {
	Line   int
	Column int
}

var keywords = map[string]TokenType{
	"def":    tokenDef,
	"class":  tokenClass,
	"module": tokenModule,
	"self":   tokenSelf,
	"end":    tokenEnd,
	"if":     tokenIf,
	"unless": tokenUnless,
	"elsif":  tokenElsif,
	"else":   tokenElse,
	"then":   tokenThen,
	"while":  tokenWhile,
	"until":  tokenUntil,
	"do":     tokenDo,
	"true":   tokenTrue,
	"false":  tokenFalse,
	"nil":    tokenNil,
	"and":    tokenKwAnd,
	"or":     tokenKwOr,
	"not":    tokenKwNot,
}

func lookupIdent(ident string) TokenType {
	if tt, ok := keywords[ident]; ok {
		return tt
	}
	return tokenIdent
}
