package evaluator

import (
	"errors"
	"math"
	"math/cmplx"
	"strings"
	"testing"
)

func lowerStrings(t *testing.T, src string, params ...string) []string {
	t.Helper()
	ev, err := NewEvaluator([]Expr{MustParse(src)}, nil, Symbols(params...))
	if err != nil {
		t.Fatalf("NewEvaluator(%q): %v", src, err)
	}
	instrs, _, _ := ev.ExportInstructions()
	out := make([]string, len(instrs))
	for i, in := range instrs {
		out[i] = in.String()
	}
	return out
}

func TestBuiltinSymbolIDs(t *testing.T) {
	tests := []struct {
		sym  Symbol
		want uint32
	}{
		{SymExp, 0},
		{SymLog, 1},
		{SymSin, 2},
		{SymCos, 3},
		{SymSqrt, 4},
		{SymAbs, 5},
		{SymConj, 6},
	}
	for _, tt := range tests {
		if tt.sym.ID() != tt.want {
			t.Errorf("%s.ID() = %d, want %d", tt.sym, tt.sym.ID(), tt.want)
		}
	}
	if Intern("x").ID() < 7 {
		t.Error("user symbols must not collide with builtins")
	}
}

func TestLowering(t *testing.T) {
	tests := []struct {
		src  string
		want []string
	}{
		{"x + y^2", []string{"t0 = p1^2", "t1 = p0 + t0", "o0 = t1"}},
		{"x - y^2", []string{"t0 = p1^2", "t1 = c0 * t0", "t2 = p0 + t1", "o0 = t2"}},
		{"x / y", []string{"t0 = p1^-1", "t1 = p0 * t0", "o0 = t1"}},
		{"x^y", []string{"t0 = p0^p1", "o0 = t0"}},
		{"x*2*y", []string{"t0 = c0 * p0 * p1", "o0 = t0"}},
		{"sin(x) + sin(x)", []string{"t0 = sin(p0)", "t1 = sin(p0)", "t2 = t0 + t1", "o0 = t2"}},
		{"if(x, y, 2)", []string{"t0 = p0 ? p1 : c0", "o0 = t0"}},
		{"if(x < y, exp(x), y)", []string{
			"t0 = lt(p0, p1)",
			"if t0 == 0 goto L0",
			"t2 = exp(p0)",
			"t1 = t2",
			"goto L1",
			"L0:",
			"t1 = p1",
			"L1:",
			"o0 = t1",
		}},
	}
	for _, tt := range tests {
		got := lowerStrings(t, tt.src, "x", "y")
		if strings.Join(got, "; ") != strings.Join(tt.want, "; ") {
			t.Errorf("lower(%q) =\n  %s\nwant\n  %s", tt.src, strings.Join(got, "; "), strings.Join(tt.want, "; "))
		}
	}
}

func TestLoweringRealOperandsFirst(t *testing.T) {
	ev, err := NewEvaluator([]Expr{MustParse("x*2i*3")}, nil, Symbols("x"))
	if err != nil {
		t.Fatal(err)
	}
	instrs, temps, consts := ev.ExportInstructions()
	mul, ok := instrs[0].(Mul)
	if !ok {
		t.Fatalf("instrs[0] = %T, want Mul", instrs[0])
	}
	// 3 is the only real operand; it moves to the front.
	if mul.NumReals != 1 || mul.Args[0] != Const(1) {
		t.Errorf("Mul = %s with %d reals, want c1 first and 1 real", mul, mul.NumReals)
	}
	if temps != 1 {
		t.Errorf("temps = %d, want 1", temps)
	}
	if len(consts) != 2 || consts[0] != 2i || consts[1] != 3 {
		t.Errorf("consts = %v, want [2i 3]", consts)
	}
}

func TestConstantsDeduplicated(t *testing.T) {
	ev, err := NewEvaluator([]Expr{MustParse("2*x + 2*y - 2")}, nil, Symbols("x", "y"))
	if err != nil {
		t.Fatal(err)
	}
	_, _, consts := ev.ExportInstructions()
	if len(consts) != 2 {
		t.Errorf("consts = %v, want [2 -1]", consts)
	}
}

func TestLoweringErrors(t *testing.T) {
	tests := []struct {
		src  string
		want error
	}{
		{"x + z", ErrUnknownParam},
		{"frob(x)", ErrUnknownFunction},
		{"sin(x, y)", ErrArity},
		{"if(x, y)", ErrArity},
	}
	for _, tt := range tests {
		_, err := NewEvaluator([]Expr{MustParse(tt.src)}, nil, Symbols("x", "y"))
		if !errors.Is(err, tt.want) {
			t.Errorf("NewEvaluator(%q) error = %v, want %v", tt.src, err, tt.want)
		}
	}
}

func TestExternalFunctions(t *testing.T) {
	fm := NewFunctionMap()
	if err := fm.AddExternalFunction(Intern("sinh"), "sinh"); err != nil {
		t.Fatal(err)
	}
	if err := fm.AddExternalFunction(Intern("sinh"), "cosh"); err == nil {
		t.Error("remapping an external should fail")
	}
	if err := fm.AddExternalFunction(SymSin, "sin"); err == nil {
		t.Error("mapping a builtin should fail")
	}

	ev, err := NewEvaluator([]Expr{MustParse("sinh(x+y)")}, fm, Symbols("x", "y"))
	if err != nil {
		t.Fatal(err)
	}
	instrs, _, _ := ev.ExportInstructions()
	ext, ok := instrs[1].(ExternalFun)
	if !ok || ext.Name != "sinh" || len(ext.Args) != 1 || ext.Args[0] != Temp(0) {
		t.Errorf("instrs[1] = %v, want t1 = sinh(t0)", instrs[1])
	}

	rev := MapCoeff(ev, RealPart)
	outs := make([]float64, 1)
	if err := rev.Evaluate([]float64{2, -3}, outs); err != nil {
		t.Fatal(err)
	}
	if outs[0] != math.Sinh(-1) {
		t.Errorf("sinh(2-3) = %v, want %v", outs[0], math.Sinh(-1))
	}
}

func TestOracle(t *testing.T) {
	ev, err := NewEvaluator([]Expr{MustParse("x + y^3"), MustParse("if(x - 2, 1/y, x)")}, nil, Symbols("x", "y"))
	if err != nil {
		t.Fatal(err)
	}
	if ev.ParamCount() != 2 || ev.OutputCount() != 2 {
		t.Fatalf("counts = %d/%d, want 2/2", ev.ParamCount(), ev.OutputCount())
	}

	outs := make([]complex128, 2)
	if err := ev.Evaluate([]complex128{2 + 1i, -2 + 4i}, outs); err != nil {
		t.Fatal(err)
	}
	if outs[0] != 90-15i {
		t.Errorf("x + y^3 = %v, want (90-15i)", outs[0])
	}
	// real(x - 2) is zero, so the else branch is taken.
	if outs[1] != 2+1i {
		t.Errorf("if = %v, want (2+1i)", outs[1])
	}

	rev := MapCoeff(ev, RealPart)
	routs := make([]float64, 2)
	if err := rev.Evaluate([]float64{3, 5}, routs); err != nil {
		t.Fatal(err)
	}
	if routs[0] != 128 || routs[1] != 0.2 {
		t.Errorf("outs = %v, want [128 0.2]", routs)
	}
	if cmplx.IsNaN(outs[0]) {
		t.Error("unexpected NaN")
	}
}
