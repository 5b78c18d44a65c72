package evaluator

import "fmt"

// Lexer tokenizes infix expressions. Input is ASCII; anything else is an
// error token.
type Lexer struct {
	input string
	pos   int
}

// NewLexer creates a new lexer for the given input.
func NewLexer(input string) *Lexer {
	return &Lexer{input: input}
}

func (l *Lexer) peek(off int) byte {
	if l.pos+off >= len(l.input) {
		return 0
	}
	return l.input[l.pos+off]
}

func (l *Lexer) position() Position {
	return Position{Offset: l.pos, Column: l.pos + 1}
}

// NextToken returns the next token.
func (l *Lexer) NextToken() Token {
	for l.peek(0) == ' ' || l.peek(0) == '\t' || l.peek(0) == '\n' || l.peek(0) == '\r' {
		l.pos++
	}
	pos := l.position()
	ch := l.peek(0)

	single := func(t TokenType) Token {
		l.pos++
		return Token{Type: t, Literal: string(ch), Pos: pos}
	}
	double := func(t TokenType, lit string) Token {
		l.pos += 2
		return Token{Type: t, Literal: lit, Pos: pos}
	}

	switch {
	case ch == 0:
		return Token{Type: TokenEOF, Pos: pos}
	case ch == '+':
		return single(TokenPlus)
	case ch == '-':
		return single(TokenMinus)
	case ch == '*' && l.peek(1) == '*':
		return double(TokenCaret, "**")
	case ch == '*':
		return single(TokenStar)
	case ch == '/':
		return single(TokenSlash)
	case ch == '^':
		return single(TokenCaret)
	case ch == '(':
		return single(TokenLParen)
	case ch == ')':
		return single(TokenRParen)
	case ch == ',':
		return single(TokenComma)
	case ch == '<' && l.peek(1) == '=':
		return double(TokenLe, "<=")
	case ch == '<':
		return single(TokenLt)
	case ch == '>' && l.peek(1) == '=':
		return double(TokenGe, ">=")
	case ch == '>':
		return single(TokenGt)
	case ch == '=' && l.peek(1) == '=':
		return double(TokenEq, "==")
	case ch == '!' && l.peek(1) == '=':
		return double(TokenNeq, "!=")
	case isDigit(ch) || (ch == '.' && isDigit(l.peek(1))):
		return l.readNumber(pos)
	case isLetter(ch):
		start := l.pos
		for isLetter(l.peek(0)) || isDigit(l.peek(0)) {
			l.pos++
		}
		return Token{Type: TokenIdent, Literal: l.input[start:l.pos], Pos: pos}
	}
	l.pos++
	return Token{Type: TokenError, Literal: fmt.Sprintf("unexpected character: %q", ch), Pos: pos}
}

// readNumber reads a decimal literal with optional fraction, exponent and
// imaginary suffix.
func (l *Lexer) readNumber(pos Position) Token {
	start := l.pos
	for isDigit(l.peek(0)) {
		l.pos++
	}
	if l.peek(0) == '.' {
		l.pos++
		for isDigit(l.peek(0)) {
			l.pos++
		}
	}
	if c := l.peek(0); c == 'e' || c == 'E' {
		off := 1
		if s := l.peek(1); s == '+' || s == '-' {
			off = 2
		}
		if isDigit(l.peek(off)) {
			l.pos += off
			for isDigit(l.peek(0)) {
				l.pos++
			}
		}
	}
	lit := l.input[start:l.pos]
	// A trailing i makes the literal imaginary unless it starts an identifier.
	if l.peek(0) == 'i' && !isLetter(l.peek(1)) && !isDigit(l.peek(1)) {
		l.pos++
		return Token{Type: TokenImaginary, Literal: lit, Pos: pos}
	}
	return Token{Type: TokenNumber, Literal: lit, Pos: pos}
}

func isLetter(c byte) bool {
	return c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

// Tokenize returns all tokens in input, ending with EOF.
func Tokenize(input string) []Token {
	l := NewLexer(input)
	var tokens []Token
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Type == TokenEOF {
			return tokens
		}
	}
}
