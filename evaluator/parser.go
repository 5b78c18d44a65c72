package evaluator

import (
	"fmt"
	"strconv"
	"strings"
)

// Parser is a recursive descent parser for infix expressions:
//
//	expr    := sum [cmpop sum]
//	sum     := product {("+" | "-") product}
//	product := unary {("*" | "/") unary}
//	unary   := "-" unary | power
//	power   := primary ["^" unary]
//	primary := number | ident | ident "(" [expr {"," expr}] ")" | "(" expr ")"
type Parser struct {
	lexer     *Lexer
	curToken  Token
	peekToken Token
	errors    []string
}

// NewParser creates a new parser for the given input.
func NewParser(input string) *Parser {
	p := &Parser{lexer: NewLexer(input)}
	p.nextToken()
	p.nextToken()
	return p
}

// ParseError collects every error found while parsing one input.
type ParseError struct {
	Input  string
	Errors []string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %q: %s", e.Input, strings.Join(e.Errors, "; "))
}

// Parse parses a complete expression.
func Parse(input string) (Expr, error) {
	p := NewParser(input)
	e := p.ParseExpression()
	if !p.curTokenIs(TokenEOF) {
		p.errorf("unexpected %s after expression", p.curToken)
	}
	if len(p.errors) > 0 {
		return nil, &ParseError{Input: input, Errors: p.errors}
	}
	return e, nil
}

// MustParse is like Parse but panics on error.
func MustParse(input string) Expr {
	e, err := Parse(input)
	if err != nil {
		panic(err)
	}
	return e
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.lexer.NextToken()
}

func (p *Parser) curTokenIs(t TokenType) bool {
	return p.curToken.Type == t
}

func (p *Parser) expect(t TokenType) bool {
	if p.curTokenIs(t) {
		p.nextToken()
		return true
	}
	p.errorf("expected %s, got %s", t, p.curToken)
	return false
}

func (p *Parser) errorf(format string, args ...any) {
	msg := fmt.Sprintf("col %d: %s", p.curToken.Pos.Column, fmt.Sprintf(format, args...))
	p.errors = append(p.errors, msg)
}

// Errors returns accumulated parse errors.
func (p *Parser) Errors() []string {
	return p.errors
}

var comparisons = map[TokenType]string{
	TokenLt:  "<",
	TokenLe:  "<=",
	TokenGt:  ">",
	TokenGe:  ">=",
	TokenEq:  "==",
	TokenNeq: "!=",
}

// ParseExpression parses a single expression.
func (p *Parser) ParseExpression() Expr {
	x := p.parseSum()
	if op, ok := comparisons[p.curToken.Type]; ok {
		pos := p.curToken.Pos
		p.nextToken()
		y := p.parseSum()
		return &Binary{At: pos, Op: op, X: x, Y: y}
	}
	return x
}

func (p *Parser) parseSum() Expr {
	x := p.parseProduct()
	for p.curTokenIs(TokenPlus) || p.curTokenIs(TokenMinus) {
		tok := p.curToken
		p.nextToken()
		x = &Binary{At: tok.Pos, Op: tok.Literal, X: x, Y: p.parseProduct()}
	}
	return x
}

func (p *Parser) parseProduct() Expr {
	x := p.parseUnary()
	for p.curTokenIs(TokenStar) || p.curTokenIs(TokenSlash) {
		tok := p.curToken
		p.nextToken()
		x = &Binary{At: tok.Pos, Op: tok.Literal, X: x, Y: p.parseUnary()}
	}
	return x
}

func (p *Parser) parseUnary() Expr {
	if p.curTokenIs(TokenMinus) {
		pos := p.curToken.Pos
		p.nextToken()
		return &Neg{At: pos, X: p.parseUnary()}
	}
	return p.parsePower()
}

// parsePower is right associative: x^y^z is x^(y^z), and -x^2 is -(x^2).
func (p *Parser) parsePower() Expr {
	x := p.parsePrimary()
	if p.curTokenIs(TokenCaret) {
		pos := p.curToken.Pos
		p.nextToken()
		return &Binary{At: pos, Op: "^", X: x, Y: p.parseUnary()}
	}
	return x
}

func (p *Parser) parsePrimary() Expr {
	tok := p.curToken
	switch tok.Type {
	case TokenNumber, TokenImaginary:
		p.nextToken()
		v, err := strconv.ParseFloat(tok.Literal, 64)
		if err != nil {
			p.errorf("invalid number: %s", tok.Literal)
		}
		if tok.Type == TokenImaginary {
			return &Number{At: tok.Pos, Value: complex(0, v)}
		}
		return &Number{At: tok.Pos, Value: complex(v, 0)}

	case TokenIdent:
		p.nextToken()
		if !p.curTokenIs(TokenLParen) {
			return &Var{At: tok.Pos, Sym: Intern(tok.Literal)}
		}
		p.nextToken()
		call := &Call{At: tok.Pos, Func: Intern(tok.Literal)}
		if p.curTokenIs(TokenRParen) {
			p.nextToken()
			return call
		}
		for {
			call.Args = append(call.Args, p.ParseExpression())
			if !p.curTokenIs(TokenComma) {
				break
			}
			p.nextToken()
		}
		p.expect(TokenRParen)
		return call

	case TokenLParen:
		p.nextToken()
		x := p.ParseExpression()
		p.expect(TokenRParen)
		return x

	case TokenError:
		p.errorf("%s", tok.Literal)
	default:
		p.errorf("unexpected token: %s", tok)
	}
	p.nextToken()
	return &Number{At: tok.Pos}
}
