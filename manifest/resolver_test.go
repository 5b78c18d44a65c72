package manifest

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/chazu/symjit/bridge"
	"github.com/chazu/symjit/vm"
)

func TestKernelEvaluator(t *testing.T) {
	k := &Kernel{Name: "k", Params: []string{"x", "y"}, Exprs: []string{"x + y^2", "sh(y)"}, External: map[string]string{"sh": "sinh"}}
	ev, err := k.Evaluator()
	if err != nil {
		t.Fatal(err)
	}
	if ev.ParamCount() != 2 || ev.OutputCount() != 2 {
		t.Errorf("counts = %d/%d, want 2/2", ev.ParamCount(), ev.OutputCount())
	}

	bad := []*Kernel{
		{Name: "parse", Exprs: []string{"x +"}, Params: []string{"x"}},
		{Name: "param", Exprs: []string{"z"}, Params: []string{"x"}},
		{Name: "builtin", Exprs: []string{"sin(x)"}, Params: []string{"x"}, External: map[string]string{"sin": "cos"}},
	}
	for _, k := range bad {
		if _, err := k.Evaluator(); err == nil {
			t.Errorf("kernel %q should fail", k.Name)
		}
	}
}

func TestCacheKey(t *testing.T) {
	k := &Kernel{Name: "k", Params: []string{"x"}, Exprs: []string{"x^2"}}
	rcfg := vm.DefaultConfig()
	cplx := vm.Config{Complex: true, Backend: vm.BackendCompiled}

	if k.CacheKey(rcfg) != k.CacheKey(rcfg) {
		t.Error("CacheKey is not deterministic")
	}
	if k.CacheKey(rcfg) == k.CacheKey(cplx) {
		t.Error("CacheKey must depend on config")
	}
	other := &Kernel{Name: "other", Params: []string{"x"}, Exprs: []string{"x^2"}}
	if k.CacheKey(rcfg) != other.CacheKey(rcfg) {
		t.Error("CacheKey must not depend on the kernel name")
	}
	ext := &Kernel{Name: "k", Params: []string{"x"}, Exprs: []string{"x^2"}, External: map[string]string{"f": "sinh"}}
	if k.CacheKey(rcfg) == ext.CacheKey(rcfg) {
		t.Error("CacheKey must depend on externals")
	}
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, TOMLName), tomlContent)
	m, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}

	first, err := NewResolver(m, false).Resolve()
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(first) != 2 {
		t.Fatalf("resolved %d kernels, want 2", len(first))
	}
	for _, rk := range first {
		if rk.Cached {
			t.Errorf("%s cached on first resolve", rk.Kernel.Name)
		}
	}

	second, err := NewResolver(m, false).Resolve()
	if err != nil {
		t.Fatalf("second Resolve: %v", err)
	}
	for i, rk := range second {
		if !rk.Cached {
			t.Errorf("%s not cached on second resolve", rk.Kernel.Name)
		}
		if rk.Artifact.ID() != first[i].Artifact.ID() {
			t.Errorf("%s id = %s, want %s", rk.Kernel.Name, rk.Artifact.ID(), first[i].Artifact.ID())
		}
	}

	lf, err := ReadLock(m.LockFilePath())
	if err != nil || lf == nil {
		t.Fatalf("ReadLock = %v, %v", lf, err)
	}
	if lk := lf.FindLockedKernel("poly"); lk == nil || lk.ID != first[0].Artifact.ID().String() {
		t.Errorf("lock entry for poly = %+v", lk)
	}

	r, err := bridge.ComplexRows(m.Runner, second[1].Artifact)
	if err != nil {
		t.Fatal(err)
	}
	outs := make([]complex128, 1)
	r.Evaluate([]complex128{0.5}, outs)
	if math.Abs(real(outs[0])-math.Sinh(0.5)) > 1e-12 || imag(outs[0]) != 0 {
		t.Errorf("sh(0.5) = %v, want %v", outs[0], math.Sinh(0.5))
	}
}

func TestCompileReal(t *testing.T) {
	k := &Kernel{Name: "k", Params: []string{"x", "y"}, Exprs: []string{"x + y^3"}}
	a, err := Compile(k, vm.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if got := a.EvaluateSingle([]float64{3, 5}); got[0] != 128 {
		t.Errorf("x + y^3 at (3, 5) = %v, want 128", got[0])
	}
}
