package evaluator

import (
	"fmt"
	"strings"
)

// Position represents a source location in a single-line expression.
type Position struct {
	Offset int // byte offset
	Column int // 1-based column number
}

// Expr is a node of a parsed expression.
type Expr interface {
	Pos() Position
	String() string
	expr() // marker method
}

// Number is a numeric literal. Imaginary literals have a zero real part.
type Number struct {
	At    Position
	Value complex128
}

// Var references a symbol, normally a parameter.
type Var struct {
	At  Position
	Sym Symbol
}

// Neg is unary minus.
type Neg struct {
	At Position
	X  Expr
}

// Binary is an infix operation. Op is one of + - * / ^ < <= > >= == !=.
type Binary struct {
	At   Position
	Op   string
	X, Y Expr
}

// Call applies a function symbol to arguments.
type Call struct {
	At   Position
	Func Symbol
	Args []Expr
}

func (n *Number) Pos() Position { return n.At }
func (n *Var) Pos() Position    { return n.At }
func (n *Neg) Pos() Position    { return n.At }
func (n *Binary) Pos() Position { return n.At }
func (n *Call) Pos() Position   { return n.At }

func (*Number) expr() {}
func (*Var) expr()    {}
func (*Neg) expr()    {}
func (*Binary) expr() {}
func (*Call) expr()   {}

func (n *Number) String() string {
	re, im := real(n.Value), imag(n.Value)
	switch {
	case im == 0:
		return fmt.Sprint(re)
	case re == 0:
		return fmt.Sprintf("%vi", im)
	}
	return fmt.Sprint(n.Value)
}

func (n *Var) String() string    { return n.Sym.Name() }
func (n *Neg) String() string    { return "-" + n.X.String() }
func (n *Binary) String() string { return fmt.Sprintf("(%s %s %s)", n.X, n.Op, n.Y) }

func (n *Call) String() string {
	args := make([]string, len(n.Args))
	for i, a := range n.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", n.Func, strings.Join(args, ", "))
}
