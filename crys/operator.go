package crys

// Operator identifies a binary or unary operator.
type Operator int

const (
	OpAdd Operator = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpPow
	OpEq
	OpNotEq
	OpLess
	OpLessEq
	OpGreater
	OpGreaterEq
	OpCompare
	OpAnd
	OpOr
	OpBitAnd
	OpBitOr
	OpBitXor
	OpShl
	OpShr

	OpNeg
	OpNot
	OpBitNot
)

var operatorSymbols = map[Operator]string{
	OpAdd:       "+",
	OpSub:       "-",
	OpMul:       "*",
	OpDiv:       "/",
	OpMod:       "%",
	OpPow:       "**",
	OpEq:        "==",
	OpNotEq:     "!=",
	OpLess:      "<",
	OpLessEq:    "<=",
	OpGreater:   ">",
	OpGreaterEq: ">=",
	OpCompare:   "<=>",
	OpAnd:       "&&",
	OpOr:        "||",
	OpBitAnd:    "&",
	OpBitOr:     "|",
	OpBitXor:    "^",
	OpShl:       "<<",
	OpShr:       ">>",
	OpNeg:       "-",
	OpNot:       "!",
	OpBitNot:    "~",
}

func (op Operator) String() string {
	if sym, ok := operatorSymbols[op]; ok {
		return sym
	}
	return "?"
}

var binaryOperators = map[TokenType]Operator{
	tokenPlus:     OpAdd,
	tokenMinus:    OpSub,
	tokenAsterisk: OpMul,
	tokenSlash:    OpDiv,
	tokenPercent:  OpMod,
	tokenPower:    OpPow,
	tokenEQ:       OpEq,
	tokenNotEQ:    OpNotEq,
	tokenLT:       OpLess,
	tokenLTE:      OpLessEq,
	tokenGT:       OpGreater,
	tokenGTE:      OpGreaterEq,
	tokenCompare:  OpCompare,
	tokenAnd:      OpAnd,
	tokenKwAnd:    OpAnd,
	tokenOr:       OpOr,
	tokenKwOr:     OpOr,
	tokenBitAnd:   OpBitAnd,
	tokenBitOr:    OpBitOr,
	tokenBitXor:   OpBitXor,
	tokenShl:      OpShl,
	tokenShr:      OpShr,
}
