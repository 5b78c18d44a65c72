package evaluator

import (
	"errors"
	"fmt"
)

// Coeff is the coefficient type of an evaluator.
type Coeff interface {
	float64 | complex128
}

// Lowering errors.
var (
	ErrUnknownParam    = errors.New("unknown parameter")
	ErrUnknownFunction = errors.New("unknown function")
	ErrArity           = errors.New("wrong number of arguments")
)

// ExpressionEvaluator holds a lowered list of expressions together with
// the constant pool its instructions refer to.
type ExpressionEvaluator[T Coeff] struct {
	params []Symbol
	exprs  []Expr
	fm     *FunctionMap

	instrs []Instruction
	temps  int
	consts []T

	// constOf maps every literal node to its pool index.
	constOf map[*Number]int
}

// NewEvaluator lowers exprs, one output per expression, over params.
// Coefficients start out complex; use MapCoeff to narrow them.
func NewEvaluator(exprs []Expr, fm *FunctionMap, params []Symbol) (*ExpressionEvaluator[complex128], error) {
	if fm == nil {
		fm = NewFunctionMap()
	}
	lw := newLowerer(fm, params)
	for k, e := range exprs {
		s, err := lw.lower(e)
		if err != nil {
			return nil, fmt.Errorf("output %d: %w", k, err)
		}
		lw.emit(Assign{Dst: Out(uint32(k)), Src: s})
	}
	log.Debugf("lowered %d expressions into %d instructions, %d constants, %d temps",
		len(exprs), len(lw.instrs), len(lw.consts), lw.temps)

	return &ExpressionEvaluator[complex128]{
		params:  params,
		exprs:   exprs,
		fm:      fm,
		instrs:  lw.instrs,
		temps:   lw.temps,
		consts:  lw.consts,
		constOf: lw.constOf,
	}, nil
}

// MapCoeff returns a copy of ev whose constants are converted by f.
func MapCoeff[T, U Coeff](ev *ExpressionEvaluator[T], f func(T) U) *ExpressionEvaluator[U] {
	consts := make([]U, len(ev.consts))
	for i, c := range ev.consts {
		consts[i] = f(c)
	}
	return &ExpressionEvaluator[U]{
		params:  ev.params,
		exprs:   ev.exprs,
		fm:      ev.fm,
		instrs:  ev.instrs,
		temps:   ev.temps,
		consts:  consts,
		constOf: ev.constOf,
	}
}

// RealPart narrows a complex coefficient to its real part.
func RealPart(z complex128) float64 { return real(z) }

// ExportInstructions returns the instruction stream, the number of
// temporaries it uses and the constant pool.
func (ev *ExpressionEvaluator[T]) ExportInstructions() ([]Instruction, int, []T) {
	instrs := make([]Instruction, len(ev.instrs))
	copy(instrs, ev.instrs)
	consts := make([]T, len(ev.consts))
	copy(consts, ev.consts)
	return instrs, ev.temps, consts
}

// ParamCount returns the number of parameters.
func (ev *ExpressionEvaluator[T]) ParamCount() int { return len(ev.params) }

// OutputCount returns the number of outputs.
func (ev *ExpressionEvaluator[T]) OutputCount() int { return len(ev.exprs) }

// Params returns the parameter symbols in slot order.
func (ev *ExpressionEvaluator[T]) Params() []Symbol { return ev.params }
