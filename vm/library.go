package vm

import (
	"math"
	"math/cmplx"

	"github.com/chazu/symjit/pkg/bytecode"
)

// libFunc holds the implementation of one library function. Exactly one
// of the fields is set, matching the function's arity.
type libFunc[T Number] struct {
	f1 func(T) T
	f2 func(T, T) T
	f3 func(T, T, T) T
}

func (f libFunc[T]) arity() int {
	switch {
	case f.f1 != nil:
		return 1
	case f.f2 != nil:
		return 2
	case f.f3 != nil:
		return 3
	}
	return 0
}

func boolf(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func boolc(b bool) complex128 {
	if b {
		return 1
	}
	return 0
}

func sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return x // keeps 0, -0 and NaN
}

var realLib = []libFunc[float64]{
	bytecode.FuncSin:    {f1: math.Sin},
	bytecode.FuncCos:    {f1: math.Cos},
	bytecode.FuncTan:    {f1: math.Tan},
	bytecode.FuncSinh:   {f1: math.Sinh},
	bytecode.FuncCosh:   {f1: math.Cosh},
	bytecode.FuncTanh:   {f1: math.Tanh},
	bytecode.FuncAsin:   {f1: math.Asin},
	bytecode.FuncAcos:   {f1: math.Acos},
	bytecode.FuncAtan:   {f1: math.Atan},
	bytecode.FuncAsinh:  {f1: math.Asinh},
	bytecode.FuncAcosh:  {f1: math.Acosh},
	bytecode.FuncAtanh:  {f1: math.Atanh},
	bytecode.FuncExp:    {f1: math.Exp},
	bytecode.FuncExp2:   {f1: math.Exp2},
	bytecode.FuncExpm1:  {f1: math.Expm1},
	bytecode.FuncLog:    {f1: math.Log},
	bytecode.FuncLog2:   {f1: math.Log2},
	bytecode.FuncLog10:  {f1: math.Log10},
	bytecode.FuncLog1p:  {f1: math.Log1p},
	bytecode.FuncSqrt:   {f1: math.Sqrt},
	bytecode.FuncCbrt:   {f1: math.Cbrt},
	bytecode.FuncAbs:    {f1: math.Abs},
	bytecode.FuncSign:   {f1: sign},
	bytecode.FuncFloor:  {f1: math.Floor},
	bytecode.FuncCeil:   {f1: math.Ceil},
	bytecode.FuncRound:  {f1: math.Round},
	bytecode.FuncTrunc:  {f1: math.Trunc},
	bytecode.FuncRecip:  {f1: func(x float64) float64 { return 1 / x }},
	bytecode.FuncSquare: {f1: func(x float64) float64 { return x * x }},
	bytecode.FuncCube:   {f1: func(x float64) float64 { return x * x * x }},
	bytecode.FuncNeg:    {f1: func(x float64) float64 { return -x }},
	bytecode.FuncConj:   {f1: func(x float64) float64 { return x }},
	bytecode.FuncNot:    {f1: func(x float64) float64 { return boolf(x == 0) }},
	bytecode.FuncPow:    {f2: math.Pow},
	bytecode.FuncAtan2:  {f2: math.Atan2},
	bytecode.FuncHypot:  {f2: math.Hypot},
	bytecode.FuncMin:    {f2: math.Min},
	bytecode.FuncMax:    {f2: math.Max},
	bytecode.FuncLt:     {f2: func(x, y float64) float64 { return boolf(x < y) }},
	bytecode.FuncLe:     {f2: func(x, y float64) float64 { return boolf(x <= y) }},
	bytecode.FuncGt:     {f2: func(x, y float64) float64 { return boolf(x > y) }},
	bytecode.FuncGe:     {f2: func(x, y float64) float64 { return boolf(x >= y) }},
	bytecode.FuncEq:     {f2: func(x, y float64) float64 { return boolf(x == y) }},
	bytecode.FuncNeq:    {f2: func(x, y float64) float64 { return boolf(x != y) }},
	bytecode.FuncAnd:    {f2: func(x, y float64) float64 { return boolf(x != 0 && y != 0) }},
	bytecode.FuncOr:     {f2: func(x, y float64) float64 { return boolf(x != 0 || y != 0) }},
	bytecode.FuncXor:    {f2: func(x, y float64) float64 { return boolf((x != 0) != (y != 0)) }},
	bytecode.FuncIfElse: {f3: func(c, x, y float64) float64 {
		if c != 0 {
			return x
		}
		return y
	}},
}

// Complex logic and orderings look at real parts only, like conditions.
var complexLib = []libFunc[complex128]{
	bytecode.FuncSin:    {f1: cmplx.Sin},
	bytecode.FuncCos:    {f1: cmplx.Cos},
	bytecode.FuncTan:    {f1: cmplx.Tan},
	bytecode.FuncSinh:   {f1: cmplx.Sinh},
	bytecode.FuncCosh:   {f1: cmplx.Cosh},
	bytecode.FuncTanh:   {f1: cmplx.Tanh},
	bytecode.FuncAsin:   {f1: cmplx.Asin},
	bytecode.FuncAcos:   {f1: cmplx.Acos},
	bytecode.FuncAtan:   {f1: cmplx.Atan},
	bytecode.FuncAsinh:  {f1: cmplx.Asinh},
	bytecode.FuncAcosh:  {f1: cmplx.Acosh},
	bytecode.FuncAtanh:  {f1: cmplx.Atanh},
	bytecode.FuncExp:    {f1: cmplx.Exp},
	bytecode.FuncLog:    {f1: cmplx.Log},
	bytecode.FuncLog10:  {f1: cmplx.Log10},
	bytecode.FuncSqrt:   {f1: cmplx.Sqrt},
	bytecode.FuncAbs:    {f1: func(z complex128) complex128 { return complex(cmplx.Abs(z), 0) }},
	bytecode.FuncRecip:  {f1: func(z complex128) complex128 { return 1 / z }},
	bytecode.FuncSquare: {f1: func(z complex128) complex128 { return z * z }},
	bytecode.FuncCube:   {f1: func(z complex128) complex128 { return z * z * z }},
	bytecode.FuncNeg:    {f1: func(z complex128) complex128 { return -z }},
	bytecode.FuncConj:   {f1: cmplx.Conj},
	bytecode.FuncNot:    {f1: func(z complex128) complex128 { return boolc(real(z) == 0) }},
	bytecode.FuncPow:    {f2: cmplx.Pow},
	bytecode.FuncLt:     {f2: func(z, w complex128) complex128 { return boolc(real(z) < real(w)) }},
	bytecode.FuncLe:     {f2: func(z, w complex128) complex128 { return boolc(real(z) <= real(w)) }},
	bytecode.FuncGt:     {f2: func(z, w complex128) complex128 { return boolc(real(z) > real(w)) }},
	bytecode.FuncGe:     {f2: func(z, w complex128) complex128 { return boolc(real(z) >= real(w)) }},
	bytecode.FuncEq:     {f2: func(z, w complex128) complex128 { return boolc(z == w) }},
	bytecode.FuncNeq:    {f2: func(z, w complex128) complex128 { return boolc(z != w) }},
	bytecode.FuncAnd:    {f2: func(z, w complex128) complex128 { return boolc(real(z) != 0 && real(w) != 0) }},
	bytecode.FuncOr:     {f2: func(z, w complex128) complex128 { return boolc(real(z) != 0 || real(w) != 0) }},
	bytecode.FuncXor:    {f2: func(z, w complex128) complex128 { return boolc((real(z) != 0) != (real(w) != 0)) }},
	bytecode.FuncIfElse: {f3: func(c, z, w complex128) complex128 {
		if real(c) != 0 {
			return z
		}
		return w
	}},
}

// lookup returns the implementation of f in lib, or false when the domain
// has none.
func lookup[T Number](lib []libFunc[T], f bytecode.FuncID) (libFunc[T], bool) {
	if int(f) >= len(lib) {
		return libFunc[T]{}, false
	}
	fn := lib[f]
	return fn, fn.arity() == f.Info().Arity
}
