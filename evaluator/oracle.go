package evaluator

import (
	"fmt"
	"math"
	"math/cmplx"
)

// Evaluate computes the outputs for one row by walking the expression
// trees directly. It does not use the instruction stream, which makes it a
// reference for checking compiled code.
func (ev *ExpressionEvaluator[T]) Evaluate(args, outs []T) error {
	if len(args) < len(ev.params) {
		return fmt.Errorf("need %d args, got %d", len(ev.params), len(args))
	}
	if len(outs) < len(ev.exprs) {
		return fmt.Errorf("need room for %d outputs, got %d", len(ev.exprs), len(outs))
	}
	w := walker[T]{ev: ev, args: args}
	for k, e := range ev.exprs {
		v, err := w.eval(e)
		if err != nil {
			return fmt.Errorf("output %d: %w", k, err)
		}
		outs[k] = v
	}
	return nil
}

type walker[T Coeff] struct {
	ev   *ExpressionEvaluator[T]
	args []T
}

func (w walker[T]) eval(e Expr) (T, error) {
	switch n := e.(type) {
	case *Number:
		return w.ev.consts[w.ev.constOf[n]], nil

	case *Var:
		for i, p := range w.ev.params {
			if p == n.Sym {
				return w.args[i], nil
			}
		}
		return 0, fmt.Errorf("%w: %s", ErrUnknownParam, n.Sym)

	case *Neg:
		x, err := w.eval(n.X)
		return -x, err

	case *Binary:
		x, err := w.eval(n.X)
		if err != nil {
			return 0, err
		}
		if n.Op == "^" {
			if k, ok := integerExponent(n.Y); ok {
				return refPowi(x, k), nil
			}
		}
		y, err := w.eval(n.Y)
		if err != nil {
			return 0, err
		}
		switch n.Op {
		case "+":
			return x + y, nil
		case "-":
			return x - y, nil
		case "*":
			return x * y, nil
		case "/":
			return x / y, nil
		case "^":
			return refPow(x, y), nil
		}
		return refCompare(n.Op, x, y)

	case *Call:
		if n.Func.Name() == "if" && len(n.Args) == 3 {
			c, err := w.eval(n.Args[0])
			if err != nil {
				return 0, err
			}
			if truth(c) {
				return w.eval(n.Args[1])
			}
			return w.eval(n.Args[2])
		}
		args := make([]T, len(n.Args))
		for i, a := range n.Args {
			v, err := w.eval(a)
			if err != nil {
				return 0, err
			}
			args[i] = v
		}
		name := n.Func.Name()
		if ext, ok := w.ev.fm.External(n.Func); ok {
			name = ext
		}
		return refCall(name, args)
	}
	return 0, fmt.Errorf("unsupported expression %T", e)
}

func truth[T Coeff](v T) bool {
	switch x := any(v).(type) {
	case float64:
		return x != 0
	case complex128:
		return real(x) != 0
	}
	return false
}

// refPowi multiplies out small integer powers; large ones go through the
// library pow.
func refPowi[T Coeff](x T, k int64) T {
	if k < 0 {
		return 1 / refPowi(x, -k)
	}
	if k > 64 {
		return refPow(x, fromFloat[T](float64(k)))
	}
	acc := T(1)
	for range k {
		acc *= x
	}
	return acc
}

// fromFloat converts a real value to the coefficient type.
func fromFloat[T Coeff](v float64) T {
	var zero T
	if _, ok := any(zero).(complex128); ok {
		return any(complex(v, 0)).(T)
	}
	return any(v).(T)
}

func refPow[T Coeff](x, y T) T {
	switch a := any(x).(type) {
	case float64:
		return any(math.Pow(a, any(y).(float64))).(T)
	case complex128:
		return any(cmplx.Pow(a, any(y).(complex128))).(T)
	}
	return 0
}

func b2f(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func realOf[T Coeff](x T) float64 {
	switch v := any(x).(type) {
	case float64:
		return v
	case complex128:
		return real(v)
	}
	return 0
}

func refCompare[T Coeff](op string, x, y T) (T, error) {
	switch op {
	case "==":
		return fromFloat[T](b2f(x == y)), nil
	case "!=":
		return fromFloat[T](b2f(x != y)), nil
	}
	// Orderings look at real parts, like conditions.
	a, b := realOf(x), realOf(y)
	var r bool
	switch op {
	case "<":
		r = a < b
	case "<=":
		r = a <= b
	case ">":
		r = a > b
	case ">=":
		r = a >= b
	default:
		return 0, fmt.Errorf("unsupported operator %q", op)
	}
	return fromFloat[T](b2f(r)), nil
}

var refReal1 = map[string]func(float64) float64{
	"exp": math.Exp, "log": math.Log, "sin": math.Sin, "cos": math.Cos,
	"sqrt": math.Sqrt, "abs": math.Abs, "conj": func(x float64) float64 { return x },
	"tan": math.Tan, "sinh": math.Sinh, "cosh": math.Cosh, "tanh": math.Tanh,
	"asin": math.Asin, "acos": math.Acos, "atan": math.Atan,
	"floor": math.Floor, "ceil": math.Ceil, "cbrt": math.Cbrt,
}

var refReal2 = map[string]func(float64, float64) float64{
	"atan2": math.Atan2, "hypot": math.Hypot, "min": math.Min, "max": math.Max, "pow": math.Pow,
}

var refComplex1 = map[string]func(complex128) complex128{
	"exp": cmplx.Exp, "log": cmplx.Log, "sin": cmplx.Sin, "cos": cmplx.Cos,
	"sqrt": cmplx.Sqrt, "abs": func(z complex128) complex128 { return complex(cmplx.Abs(z), 0) },
	"conj": cmplx.Conj, "tan": cmplx.Tan, "sinh": cmplx.Sinh, "cosh": cmplx.Cosh,
	"tanh": cmplx.Tanh, "asin": cmplx.Asin, "acos": cmplx.Acos, "atan": cmplx.Atan,
}

// refCall evaluates a function with the standard library. It covers the
// builtins and the external functions tests use.
func refCall[T Coeff](name string, args []T) (T, error) {
	switch len(args) {
	case 1:
		switch x := any(args[0]).(type) {
		case float64:
			if f, ok := refReal1[name]; ok {
				return any(f(x)).(T), nil
			}
		case complex128:
			if f, ok := refComplex1[name]; ok {
				return any(f(x)).(T), nil
			}
		}
	case 2:
		x, ok1 := any(args[0]).(float64)
		y, ok2 := any(args[1]).(float64)
		if f, ok := refReal2[name]; ok && ok1 && ok2 {
			return any(f(x, y)).(T), nil
		}
	}
	return 0, fmt.Errorf("%w: no reference for %s/%d", ErrUnknownFunction, name, len(args))
}
