package bridge

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/chazu/symjit/evaluator"
)

// complexEval lowers one expression per source over params.
func complexEval(t testing.TB, fm *evaluator.FunctionMap, params []string, srcs ...string) *evaluator.ExpressionEvaluator[complex128] {
	t.Helper()
	exprs := make([]evaluator.Expr, len(srcs))
	for i, src := range srcs {
		e, err := evaluator.Parse(src)
		if err != nil {
			t.Fatalf("Parse(%q): %v", src, err)
		}
		exprs[i] = e
	}
	ev, err := evaluator.NewEvaluator(exprs, fm, evaluator.Symbols(params...))
	if err != nil {
		t.Fatalf("NewEvaluator: %v", err)
	}
	return ev
}

func realEval(t testing.TB, fm *evaluator.FunctionMap, params []string, srcs ...string) *evaluator.ExpressionEvaluator[float64] {
	t.Helper()
	return evaluator.MapCoeff(complexEval(t, fm, params, srcs...), evaluator.RealPart)
}

func xy() []string { return []string{"x", "y"} }

func near(a, b float64) bool {
	if a == b {
		return true
	}
	return math.Abs(a-b) <= 1e-9*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}

func nearC(a, b complex128) bool {
	return near(real(a), real(b)) && near(imag(a), imag(b)) || cmplx.Abs(a-b) <= 1e-9*math.Max(1, cmplx.Abs(b))
}

// rows returns n row-major rows of width params filled by f(row, param).
func rows(n, width int, f func(r, p int) float64) []float64 {
	out := make([]float64, n*width)
	for r := range n {
		for p := range width {
			out[r*width+p] = f(r, p)
		}
	}
	return out
}
