package vm

import (
	"math"
	"testing"

	"github.com/chazu/symjit/pkg/bytecode"
)

func TestPowi(t *testing.T) {
	tests := []struct {
		x    float64
		n    int64
		want float64
	}{
		{2, 0, 1},
		{2, 1, 2},
		{2, 10, 1024},
		{3, 5, 243},
		{19, 5, 2476099},
		{2, -2, 0.25},
		{-2, 3, -8},
		{0, -1, math.Inf(1)},
	}
	for _, tt := range tests {
		if got := powi(tt.x, tt.n); got != tt.want {
			t.Errorf("powi(%v, %d) = %v, want %v", tt.x, tt.n, got, tt.want)
		}
	}

	if got := powi(complex(0, 1), 3); got != complex(0, -1) {
		t.Errorf("powi(i, 3) = %v, want -i", got)
	}
	if got := powi(complex(-2, 3), 3); got != complex(46, 9) {
		t.Errorf("powi(-2+3i, 3) = %v, want (46+9i)", got)
	}
}

func TestLibraryMatchesFunctionTable(t *testing.T) {
	for id := bytecode.FuncID(0); int(id) < bytecode.FuncCount(); id++ {
		info := id.Info()
		if _, ok := lookup(realLib, id); !ok {
			t.Errorf("%s: no real implementation with arity %d", info.Name, info.Arity)
		}
		_, ok := lookup(complexLib, id)
		if ok != info.Complex {
			t.Errorf("%s: complex implementation present = %v, table says %v", info.Name, ok, info.Complex)
		}
	}
}

func TestComplexTruthUsesRealPart(t *testing.T) {
	if complexDomain.truth(complex(0, 1)) {
		t.Error("0+1i should be false")
	}
	if !complexDomain.truth(complex(-1, 0)) {
		t.Error("-1+0i should be true")
	}
}

func TestComplexOrderingUsesRealPart(t *testing.T) {
	tests := []struct {
		f    bytecode.FuncID
		z, w complex128
		want complex128
	}{
		{bytecode.FuncLt, 1 + 5i, 2 - 5i, 1},
		{bytecode.FuncLt, 2, 2 + 1i, 0},
		{bytecode.FuncLe, 2, 2 + 1i, 1},
		{bytecode.FuncGt, 3 - 1i, 2 + 9i, 1},
		{bytecode.FuncGe, 1i, 0, 1},
		{bytecode.FuncGe, -1, 0, 0},
	}
	for _, tt := range tests {
		fn, ok := lookup(complexLib, tt.f)
		if !ok {
			t.Fatalf("%s: no complex implementation", tt.f)
		}
		if got := fn.f2(tt.z, tt.w); got != tt.want {
			t.Errorf("%s(%v, %v) = %v, want %v", tt.f, tt.z, tt.w, got, tt.want)
		}
	}
}

func TestDomainLoadStore(t *testing.T) {
	// Two complex registers, 4 lanes: re0 lanes, im0 lanes, re1 lanes, im1 lanes.
	flat := make([]float64, 16)
	for i := range flat {
		flat[i] = float64(i)
	}
	if got := complexDomain.load(flat, 2, 1, Lanes); got != complex(10, 14) {
		t.Errorf("load lane 2 of register 1 = %v, want (10+14i)", got)
	}
	complexDomain.store(flat, 3, 0, Lanes, complex(-1, -2))
	if flat[3] != -1 || flat[7] != -2 {
		t.Errorf("store wrote %v, %v; want -1, -2", flat[3], flat[7])
	}
	if got := realDomain.load(flat, 0, 2, 1); got != 2 {
		t.Errorf("real load = %v, want 2", got)
	}
}
