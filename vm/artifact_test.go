package vm

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/chazu/symjit/pkg/bytecode"
)

func TestEvaluateSingleReal(t *testing.T) {
	a := sumWithPower(t, DefaultConfig(), 2)
	got := a.EvaluateSingle([]float64{3, 4})
	if len(got) != 1 || got[0] != 19 {
		t.Errorf("EvaluateSingle = %v, want [19]", got)
	}
}

func TestEvaluateSingleComplex(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Complex = true
	a := sumWithPower(t, cfg, 3)

	if a.CountParams() != 4 || a.CountObs() != 2 {
		t.Fatalf("counts = %d/%d, want 4/2", a.CountParams(), a.CountObs())
	}
	// x = 2+i, y = -2+4i
	got := a.EvaluateSingle([]float64{2, 1, -2, 4})
	if got[0] != 90 || got[1] != -15 {
		t.Errorf("EvaluateSingle = %v, want [90 -15]", got)
	}
}

func TestEvaluateMatrixRows(t *testing.T) {
	a := sumWithPower(t, DefaultConfig(), 3)
	args := []float64{3, 5, 0, 1, 2, 3}
	outs := make([]float64, 3)
	a.EvaluateMatrix(args, outs, 3)

	want := []float64{128, 1, 29}
	for i := range want {
		if outs[i] != want[i] {
			t.Errorf("outs[%d] = %v, want %v", i, outs[i], want[i])
		}
	}
}

func TestEvaluateMatrixSIMD(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SIMD = true
	a := sumWithPower(t, cfg, 3)

	args := []float64{1, 2, 3, 4, 5, 4, 3, 2}
	outs := make([]float64, 4)
	a.EvaluateMatrixSIMD(args, outs, 1)

	want := []float64{126, 66, 30, 12}
	for i := range want {
		if outs[i] != want[i] {
			t.Errorf("lane %d = %v, want %v", i, outs[i], want[i])
		}
	}
}

func TestEvaluateMatrixSIMDComplex(t *testing.T) {
	cfg := Config{Complex: true, SIMD: true}
	a := diffOfSquare(t, cfg)

	args := []float64{
		1, 2, 3, 4, // x re
		2, 3, 4, 5, // x im
		0, 1, 2, 3, // y re
		-5, -4, -3, -2, // y im
	}
	outs := make([]float64, 8)
	a.EvaluateMatrixSIMD(args, outs, 1)

	want := []float64{26, 17, 8, -1, 2, 11, 16, 17}
	for i := range want {
		if outs[i] != want[i] {
			t.Errorf("outs[%d] = %v, want %v", i, outs[i], want[i])
		}
	}
}

func TestThreadedMatchesSequential(t *testing.T) {
	for _, backend := range []Backend{BackendCompiled, BackendInterpreted} {
		t.Run(string(backend), func(t *testing.T) {
			cfg := Config{Backend: backend, UseThreads: true, Workers: 3}
			a := piecewise(t, cfg)

			const n = 101
			args := make([]float64, 2*n)
			for i := range args {
				args[i] = float64(i%13) - 6.5
			}
			seq := make([]float64, 2*n)
			par := make([]float64, 2*n)
			a.EvaluateMatrix(args, seq, n)
			a.EvaluateMatrixThreaded(args, par, n)

			for i := range seq {
				if math.Float64bits(seq[i]) != math.Float64bits(par[i]) {
					t.Fatalf("row %d output %d: threaded %v, sequential %v", i/2, i%2, par[i], seq[i])
				}
			}
		})
	}
}

func TestThreadedSIMDMatchesSequential(t *testing.T) {
	cfg := Config{SIMD: true, Workers: 4}
	a := sumWithPower(t, cfg, 5)

	const blocks = 9
	args := make([]float64, 2*Lanes*blocks)
	for i := range args {
		args[i] = float64(i) / 7
	}
	seq := make([]float64, Lanes*blocks)
	par := make([]float64, Lanes*blocks)
	a.EvaluateMatrixSIMD(args, seq, blocks)
	a.EvaluateMatrixThreadedSIMD(args, par, blocks)
	for i := range seq {
		if seq[i] != par[i] {
			t.Fatalf("unit %d: threaded %v, sequential %v", i, par[i], seq[i])
		}
	}
}

func TestBackendsAgree(t *testing.T) {
	compiled := piecewise(t, Config{Backend: BackendCompiled})
	interpreted := piecewise(t, Config{Backend: BackendInterpreted})

	rows := [][]float64{
		{1, 0.5},
		{-1, 0.5},
		{0, 2},
		{3, -4},
		{-2, -4},
	}
	for _, row := range rows {
		c := compiled.EvaluateSingle(row)
		i := interpreted.EvaluateSingle(row)
		for k := range c {
			if c[k] != i[k] {
				t.Errorf("row %v output %d: compiled %v, interpreted %v", row, k, c[k], i[k])
			}
		}
	}

	got := compiled.EvaluateSingle([]float64{1, 0.5})
	if want := math.Sin(0.5) + 1; got[0] != want || got[1] != 0.5 {
		t.Errorf("taken branch = %v, want [%v 0.5]", got, want)
	}
	got = compiled.EvaluateSingle([]float64{-1, 0.5})
	if got[0] != 4 || got[1] != -1 {
		t.Errorf("skipped branch = %v, want [4 -1]", got)
	}
}

func TestOutputsResetPerRow(t *testing.T) {
	// out0 is only written when p0 is nonzero.
	tr := NewTranslator(DefaultConfig())
	mustOK(t, tr.AppendIfElse(bytecode.Param(0), 0))
	mustOK(t, tr.AppendAssign(bytecode.Out(0), bytecode.Param(0)))
	mustOK(t, tr.AppendLabel(0))
	a, err := tr.Compile()
	mustOK(t, err)

	outs := make([]float64, 2)
	a.EvaluateMatrix([]float64{5, 0}, outs, 2)
	if outs[0] != 5 || outs[1] != 0 {
		t.Errorf("outs = %v, want [5 0]", outs)
	}
}

func TestCompileRejectsMismatchedConfig(t *testing.T) {
	b := bytecode.NewBuilder(bytecode.FlagComplex)
	mustOK(t, b.AppendAssign(bytecode.Out(0), bytecode.Param(0)))
	p, err := b.Finish()
	mustOK(t, err)

	if _, err := Compile(p, DefaultConfig()); !errors.Is(err, ErrMismatch) {
		t.Errorf("Compile error = %v, want ErrMismatch", err)
	}
	if _, err := Compile(p, Config{Complex: true, Backend: "jit"}); !errors.Is(err, ErrBackend) {
		t.Errorf("Compile error = %v, want ErrBackend", err)
	}
}

func TestCompileRejectsUnflaggedJump(t *testing.T) {
	p := &bytecode.Program{
		Version:    bytecode.BytecodeVersion,
		ParamCount: 1,
		OutCount:   1,
		Code: []bytecode.Instr{
			{Op: bytecode.OpJump, Imm: 2},
			{Op: bytecode.OpMove, Dst: bytecode.Out(0), Args: []bytecode.Slot{bytecode.Param(0)}},
			{Op: bytecode.OpLabel},
		},
	}
	for _, backend := range []Backend{BackendCompiled, BackendInterpreted} {
		if _, err := Compile(p, Config{Backend: backend}); !errors.Is(err, bytecode.ErrUnsupported) {
			t.Errorf("Compile(%s) error = %v, want ErrUnsupported", backend, err)
		}
	}
}

func TestCompileNormalizesBackend(t *testing.T) {
	a := sumWithPower(t, Config{}, 2)
	if a.Config().Backend != BackendCompiled {
		t.Errorf("Backend = %q, want %q", a.Config().Backend, BackendCompiled)
	}
}

func TestContractViolationsPanic(t *testing.T) {
	a := sumWithPower(t, DefaultConfig(), 2)

	tests := []struct {
		name string
		call func()
		want string
	}{
		{"short args", func() { a.EvaluateMatrix([]float64{1}, make([]float64, 1), 1) }, "args"},
		{"short outs", func() { a.EvaluateMatrix([]float64{1, 2, 3, 4}, make([]float64, 1), 2) }, "outs"},
		{"simd on scalar", func() { a.EvaluateMatrixSIMD(make([]float64, 8), make([]float64, 4), 1) }, "lanes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				r := recover()
				msg, _ := r.(string)
				if !strings.Contains(msg, tt.want) {
					t.Errorf("panic = %v, want it to mention %q", r, tt.want)
				}
			}()
			tt.call()
		})
	}
}

func TestWorkers(t *testing.T) {
	a := sumWithPower(t, Config{Workers: 8}, 2)
	if got := a.workers(3); got != 3 {
		t.Errorf("workers(3) = %d, want 3", got)
	}
	if got := a.workers(100); got != 8 {
		t.Errorf("workers(100) = %d, want 8", got)
	}
	if got := a.workers(0); got != 1 {
		t.Errorf("workers(0) = %d, want 1", got)
	}
}

func TestChunkRows(t *testing.T) {
	tests := []struct {
		name  string
		a     *Artifact
		lanes int
	}{
		{"real rows", sumWithPower(t, DefaultConfig(), 2), 1},
		{"complex blocks", diffOfSquare(t, Config{Complex: true, SIMD: true}), Lanes},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stride := tt.a.countObs * tt.lanes * 8
			for _, nw := range [][2]int{{1, 1}, {7, 3}, {100, 8}, {1000, 6}} {
				n, w := nw[0], nw[1]
				chunk := tt.a.chunkRows(n, w, tt.lanes)
				if least := (n + w - 1) / w; chunk < least {
					t.Errorf("chunkRows(%d, %d) = %d, want at least %d", n, w, chunk, least)
				}
				if stride < cacheLineSize && chunk*stride%cacheLineSize != 0 {
					t.Errorf("chunkRows(%d, %d) = %d rows of %d bytes, not a multiple of %d",
						n, w, chunk, stride, cacheLineSize)
				}
			}
		})
	}
}

func BenchmarkEvaluateMatrix(b *testing.B) {
	for _, backend := range []Backend{BackendCompiled, BackendInterpreted} {
		b.Run(string(backend), func(b *testing.B) {
			a := piecewise(b, Config{Backend: backend})
			const n = 1024
			args := make([]float64, 2*n)
			for i := range args {
				args[i] = float64(i%17) - 8
			}
			outs := make([]float64, 2*n)
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				a.EvaluateMatrix(args, outs, n)
			}
		})
	}
}
