package lexer

import "fmt"

type TokenType string

const (
	// Keywords
	TokenLet   TokenType = "LET"
	TokenPrint TokenType = "PRINT"
	TokenIf    TokenType = "IF"
	TokenElse  TokenType = "ELSE"
	TokenAnd   TokenType = "AND"
	TokenOr    TokenType = "OR"

	// Literals
	TokenTrue   TokenType = "TRUE"
	TokenFalse  TokenType = "FALSE"
	TokenNil    TokenType = "NIL"
	TokenIdent  TokenType = "IDENT"
	TokenString TokenType = "STRING"
	TokenNumber TokenType = "NUMBER"

	// Symbols
	TokenLParen      TokenType = "("
	TokenRParen      TokenType = ")"
	TokenLBrace      TokenType = "{"
	TokenRBrace      TokenType = "}"
	TokenSemicolon   TokenType = ";"
	TokenPlus        TokenType = "+"
	TokenMinus       TokenType = "-"
	TokenStar        TokenType = "*"
	TokenSlash       TokenType = "/"
	TokenNot         TokenType = "!"
	TokenNotEqual    TokenType = "!="
	TokenEqual       TokenType = "="
	TokenDoubleEqual TokenType = "=="
	TokenGT          TokenType = ">"
	TokenGE          TokenType = ">="
	TokenLT          TokenType = "<"
	TokenLE          TokenType = "<="
	TokenEOF         TokenType = "EOF"
)

var keywords = map[string]TokenType{
	"let":   TokenLet,
	"print": TokenPrint,
	"if":    TokenIf,
	"else":  TokenElse,
	"and":   TokenAnd,
	"or":    TokenOr,
	"true":  TokenTrue,
	"false": TokenFalse,
	"nil":   TokenNil,
}

// Token is one classified lexical unit. Literal holds the decoded payload
// of NUMBER (float64) and STRING (string) tokens and is nil otherwise.
type Token struct {
	Type    TokenType
	Lexeme  string
	Literal any
	Line    int
}

func (t Token) String() string {
	return fmt.Sprintf("[%s] '%s'", t.Type, t.Lexeme)
}

// IsKeyword reports whether name is reserved.
func IsKeyword(name string) bool {
	_, ok := keywords[name]
	return ok
}
