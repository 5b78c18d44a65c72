package vm

import (
	"testing"

	"github.com/chazu/symjit/pkg/bytecode"
)

// mustOK fails the test on a translation error.
func mustOK(t testing.TB, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// sumWithPower compiles out0 = p0 + p1^exp.
func sumWithPower(t testing.TB, cfg Config, exp int64) *Artifact {
	t.Helper()
	tr := NewTranslator(cfg)
	mustOK(t, tr.AppendPow(bytecode.Temp(0), bytecode.Param(1), exp, false))
	mustOK(t, tr.AppendAdd(bytecode.Out(0), []bytecode.Slot{bytecode.Param(0), bytecode.Temp(0)}, 0))
	a, err := tr.Compile()
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	return a
}

// diffOfSquare compiles out0 = p0 - p1^2 as p0 + (-1)*p1^2.
func diffOfSquare(t testing.TB, cfg Config) *Artifact {
	t.Helper()
	tr := NewTranslator(cfg)
	mustOK(t, tr.AppendConstant(-1))
	mustOK(t, tr.AppendPow(bytecode.Temp(0), bytecode.Param(1), 2, false))
	mustOK(t, tr.AppendMul(bytecode.Temp(1), []bytecode.Slot{bytecode.Const(0), bytecode.Temp(0)}, 1))
	mustOK(t, tr.AppendAdd(bytecode.Out(0), []bytecode.Slot{bytecode.Param(0), bytecode.Temp(1)}, 0))
	a, err := tr.Compile()
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	return a
}

// piecewise compiles
//
//	out0 = p0 > 0 ? sin(p1) + 1 : p1^-2
//	out1 = p0 > 0 ? p1 : p0
//
// with explicit jumps for out0 and a branchless select for out1.
func piecewise(t testing.TB, cfg Config) *Artifact {
	t.Helper()
	tr := NewTranslator(cfg)
	mustOK(t, tr.AppendConstant(0))
	mustOK(t, tr.AppendConstant(1))
	mustOK(t, tr.AppendExternalFun(bytecode.Temp(0), "gt", []bytecode.Slot{bytecode.Param(0), bytecode.Const(0)}))
	mustOK(t, tr.AppendIfElse(bytecode.Temp(0), 0))
	mustOK(t, tr.AppendFun(bytecode.Temp(1), bytecode.BuiltinSin, bytecode.Param(1), true))
	mustOK(t, tr.AppendAdd(bytecode.Out(0), []bytecode.Slot{bytecode.Const(1), bytecode.Temp(1)}, 2))
	mustOK(t, tr.AppendGoto(1))
	mustOK(t, tr.AppendLabel(0))
	mustOK(t, tr.AppendPow(bytecode.Out(0), bytecode.Param(1), -2, true))
	mustOK(t, tr.AppendLabel(1))
	mustOK(t, tr.AppendJoin(bytecode.Out(1), bytecode.Temp(0), bytecode.Param(1), bytecode.Param(0)))
	a, err := tr.Compile()
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	return a
}
