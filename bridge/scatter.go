package bridge

import "github.com/chazu/symjit/vm"

// ScatteredRealRunner takes ordinary row-major real rows and runs them
// through the vector kernel Lanes rows at a time.
type ScatteredRealRunner struct{ core }

// CompileScatteredRealRunner compiles ev as a real, vector, compiled
// artifact.
func CompileScatteredRealRunner(ev Evaluator[float64], cfg vm.Config) (*ScatteredRealRunner, error) {
	c, err := compileCore(simdRealKind, ev, cfg)
	if err != nil {
		return nil, err
	}
	return &ScatteredRealRunner{c}, nil
}

// NewScatteredRealRunner wraps an existing artifact.
func NewScatteredRealRunner(a *vm.Artifact) (*ScatteredRealRunner, error) {
	c, err := newCore(simdRealKind, a)
	if err != nil {
		return nil, err
	}
	return &ScatteredRealRunner{c}, nil
}

// LoadScatteredRealRunner loads a real vector artifact.
func LoadScatteredRealRunner(path string) (*ScatteredRealRunner, error) {
	c, err := loadCore(simdRealKind, path)
	if err != nil {
		return nil, err
	}
	return &ScatteredRealRunner{c}, nil
}

// Evaluate fills outs for every row of args. Rows are laid out as for
// RealRunner.
func (r *ScatteredRealRunner) Evaluate(args, outs []float64) {
	r.scattered(args, outs)
}

// ScatteredComplexRunner takes ordinary row-major complex rows and runs
// them through the vector kernel Lanes rows at a time.
type ScatteredComplexRunner struct{ core }

// CompileScatteredComplexRunner compiles ev as a complex, vector, compiled
// artifact.
func CompileScatteredComplexRunner(ev Evaluator[complex128], cfg vm.Config) (*ScatteredComplexRunner, error) {
	c, err := compileCore(simdComplexKind, ev, cfg)
	if err != nil {
		return nil, err
	}
	return &ScatteredComplexRunner{c}, nil
}

// NewScatteredComplexRunner wraps an existing artifact.
func NewScatteredComplexRunner(a *vm.Artifact) (*ScatteredComplexRunner, error) {
	c, err := newCore(simdComplexKind, a)
	if err != nil {
		return nil, err
	}
	return &ScatteredComplexRunner{c}, nil
}

// LoadScatteredComplexRunner loads a complex vector artifact.
func LoadScatteredComplexRunner(path string) (*ScatteredComplexRunner, error) {
	c, err := loadCore(simdComplexKind, path)
	if err != nil {
		return nil, err
	}
	return &ScatteredComplexRunner{c}, nil
}

// Evaluate fills outs for every row of args. Rows are laid out as for
// ComplexRunner.
func (r *ScatteredComplexRunner) Evaluate(args, outs []complex128) {
	r.scattered(flatten(args), flatten(outs))
}

// scattered gathers row-major rows into lane-major blocks, runs the vector
// kernel and scatters the results back. Unit u of row r sits at
// r*width + u in row-major form and at b*width*Lanes + u*Lanes + l in
// block b = r/Lanes, lane l = r%Lanes. Lanes past the last row are zero and
// their results are dropped.
func (c *core) scattered(args, outs []float64) {
	a := c.artifact
	cp, co := a.CountParams(), a.CountObs()
	n := rowCount(len(args), len(outs), cp, co)
	if n == 0 {
		return
	}
	blocks := (n + vm.Lanes - 1) / vm.Lanes

	in := make([]float64, blocks*cp*vm.Lanes)
	out := make([]float64, blocks*co*vm.Lanes)

	for r := range n {
		b, l := r/vm.Lanes, r%vm.Lanes
		for u := range cp {
			in[b*cp*vm.Lanes+u*vm.Lanes+l] = args[r*cp+u]
		}
	}

	c.runSIMD(in, out, blocks)

	for r := range n {
		b, l := r/vm.Lanes, r%vm.Lanes
		for u := range co {
			outs[r*co+u] = out[b*co*vm.Lanes+u*vm.Lanes+l]
		}
	}
}
