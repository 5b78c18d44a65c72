package evaluator

import "fmt"

// TokenType represents the type of a token.
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenError

	TokenNumber    // 42, 3.14, 1e-3
	TokenImaginary // 2i, 0.5i
	TokenIdent     // x, sinh

	TokenPlus   // +
	TokenMinus  // -
	TokenStar   // *
	TokenSlash  // /
	TokenCaret  // ^ or **
	TokenLParen // (
	TokenRParen // )
	TokenComma  // ,

	TokenLt  // <
	TokenLe  // <=
	TokenGt  // >
	TokenGe  // >=
	TokenEq  // ==
	TokenNeq // !=
)

var tokenNames = map[TokenType]string{
	TokenEOF:       "EOF",
	TokenError:     "ERROR",
	TokenNumber:    "NUMBER",
	TokenImaginary: "IMAGINARY",
	TokenIdent:     "IDENT",
	TokenPlus:      "+",
	TokenMinus:     "-",
	TokenStar:      "*",
	TokenSlash:     "/",
	TokenCaret:     "^",
	TokenLParen:    "(",
	TokenRParen:    ")",
	TokenComma:     ",",
	TokenLt:        "<",
	TokenLe:        "<=",
	TokenGt:        ">",
	TokenGe:        ">=",
	TokenEq:        "==",
	TokenNeq:       "!=",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Token(%d)", t)
}

// Token represents a lexical token.
type Token struct {
	Type    TokenType
	Literal string
	Pos     Position
}

func (t Token) String() string {
	switch t.Type {
	case TokenEOF:
		return "EOF"
	case TokenError:
		return fmt.Sprintf("ERROR(%s)", t.Literal)
	}
	return fmt.Sprintf("%s(%q)", t.Type, t.Literal)
}
