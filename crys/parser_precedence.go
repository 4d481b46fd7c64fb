package crys

func isAssignable(n Node) bool {
	switch n.(type) {
	case *NameExpr, *InstanceVarExpr, *ClassVarExpr, *GlobalVarExpr:
		return true
	default:
		return false
	}
}

const (
	lowestPrec = iota
	precKeywordLogic
	precNot
	precAssign
	precOr
	precAnd
	precEquality
	precComparison
	precBitOr
	precBitAnd
	precShift
	precSum
	precProduct
	precPrefix
	precPower
	precCall
)

var precedences = map[TokenType]int{
	tokenKwAnd:    precKeywordLogic,
	tokenKwOr:     precKeywordLogic,
	tokenAssign:   precAssign,
	tokenOr:       precOr,
	tokenAnd:      precAnd,
	tokenEQ:       precEquality,
	tokenNotEQ:    precEquality,
	tokenCompare:  precEquality,
	tokenLT:       precComparison,
	tokenLTE:      precComparison,
	tokenGT:       precComparison,
	tokenGTE:      precComparison,
	tokenBitOr:    precBitOr,
	tokenBitXor:   precBitOr,
	tokenBitAnd:   precBitAnd,
	tokenShl:      precShift,
	tokenShr:      precShift,
	tokenPlus:     precSum,
	tokenMinus:    precSum,
	tokenSlash:    precProduct,
	tokenAsterisk: precProduct,
	tokenPercent:  precProduct,
	tokenPower:    precPower,
	tokenLParen:   precCall,
	tokenDot:      precCall,
	tokenLBracket: precCall,
}

// commandArgStart lists tokens that begin the first argument of a call
// written without parentheses, as in `puts "hi"`.
var commandArgStart = map[TokenType]bool{
	tokenIdent:    true,
	tokenInt:      true,
	tokenFloat:    true,
	tokenString:   true,
	tokenSymbol:   true,
	tokenIvar:     true,
	tokenClassVar: true,
	tokenGlobal:   true,
	tokenSelf:     true,
	tokenTrue:     true,
	tokenFalse:    true,
	tokenNil:      true,
	tokenKwNot:    true,
	tokenBang:     true,
	tokenTilde:    true,
}
