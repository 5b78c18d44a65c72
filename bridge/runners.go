package bridge

import "github.com/chazu/symjit/vm"

// RealRunner evaluates real rows with compiled code.
type RealRunner struct{ core }

// CompileRealRunner compiles ev as a real, scalar, compiled artifact.
func CompileRealRunner(ev Evaluator[float64], cfg vm.Config) (*RealRunner, error) {
	c, err := compileCore(realKind, ev, cfg)
	if err != nil {
		return nil, err
	}
	return &RealRunner{c}, nil
}

// NewRealRunner wraps an existing artifact.
func NewRealRunner(a *vm.Artifact) (*RealRunner, error) {
	c, err := newCore(realKind, a)
	if err != nil {
		return nil, err
	}
	return &RealRunner{c}, nil
}

// LoadRealRunner loads an artifact saved by a RealRunner.
func LoadRealRunner(path string) (*RealRunner, error) {
	c, err := loadCore(realKind, path)
	if err != nil {
		return nil, err
	}
	return &RealRunner{c}, nil
}

// Evaluate fills outs for every row of args. Rows are CountParams values
// wide; outs must hold CountObs values per row.
func (r *RealRunner) Evaluate(args, outs []float64) {
	r.evaluate(args, outs)
}

// ComplexRunner evaluates complex rows with compiled code.
type ComplexRunner struct{ core }

// CompileComplexRunner compiles ev as a complex, scalar, compiled artifact.
func CompileComplexRunner(ev Evaluator[complex128], cfg vm.Config) (*ComplexRunner, error) {
	c, err := compileCore(complexKind, ev, cfg)
	if err != nil {
		return nil, err
	}
	return &ComplexRunner{c}, nil
}

// NewComplexRunner wraps an existing artifact.
func NewComplexRunner(a *vm.Artifact) (*ComplexRunner, error) {
	c, err := newCore(complexKind, a)
	if err != nil {
		return nil, err
	}
	return &ComplexRunner{c}, nil
}

// LoadComplexRunner loads an artifact saved by a ComplexRunner.
func LoadComplexRunner(path string) (*ComplexRunner, error) {
	c, err := loadCore(complexKind, path)
	if err != nil {
		return nil, err
	}
	return &ComplexRunner{c}, nil
}

// Evaluate fills outs for every row of args.
func (r *ComplexRunner) Evaluate(args, outs []complex128) {
	r.evaluate(flatten(args), flatten(outs))
}

// SimdRealRunner evaluates lane-packed real blocks: args[p] holds
// parameter p of Lanes consecutive rows.
type SimdRealRunner struct{ core }

// CompileSimdRealRunner compiles ev as a real, vector, compiled artifact.
func CompileSimdRealRunner(ev Evaluator[float64], cfg vm.Config) (*SimdRealRunner, error) {
	c, err := compileCore(simdRealKind, ev, cfg)
	if err != nil {
		return nil, err
	}
	return &SimdRealRunner{c}, nil
}

// NewSimdRealRunner wraps an existing artifact.
func NewSimdRealRunner(a *vm.Artifact) (*SimdRealRunner, error) {
	c, err := newCore(simdRealKind, a)
	if err != nil {
		return nil, err
	}
	return &SimdRealRunner{c}, nil
}

// LoadSimdRealRunner loads an artifact saved by a SimdRealRunner.
func LoadSimdRealRunner(path string) (*SimdRealRunner, error) {
	c, err := loadCore(simdRealKind, path)
	if err != nil {
		return nil, err
	}
	return &SimdRealRunner{c}, nil
}

// Evaluate fills outs for every block of args.
func (r *SimdRealRunner) Evaluate(args, outs []F64x4) {
	r.evaluateSIMD(flatten(args), flatten(outs))
}

// SimdComplexRunner evaluates lane-packed complex blocks.
type SimdComplexRunner struct{ core }

// CompileSimdComplexRunner compiles ev as a complex, vector, compiled
// artifact.
func CompileSimdComplexRunner(ev Evaluator[complex128], cfg vm.Config) (*SimdComplexRunner, error) {
	c, err := compileCore(simdComplexKind, ev, cfg)
	if err != nil {
		return nil, err
	}
	return &SimdComplexRunner{c}, nil
}

// NewSimdComplexRunner wraps an existing artifact.
func NewSimdComplexRunner(a *vm.Artifact) (*SimdComplexRunner, error) {
	c, err := newCore(simdComplexKind, a)
	if err != nil {
		return nil, err
	}
	return &SimdComplexRunner{c}, nil
}

// LoadSimdComplexRunner loads an artifact saved by a SimdComplexRunner.
func LoadSimdComplexRunner(path string) (*SimdComplexRunner, error) {
	c, err := loadCore(simdComplexKind, path)
	if err != nil {
		return nil, err
	}
	return &SimdComplexRunner{c}, nil
}

// Evaluate fills outs for every block of args.
func (r *SimdComplexRunner) Evaluate(args, outs []ComplexF64x4) {
	r.evaluateSIMD(flatten(args), flatten(outs))
}

// InterpretedRealRunner evaluates real rows with the bytecode interpreter.
type InterpretedRealRunner struct{ core }

// CompileInterpretedRealRunner translates ev for the interpreter.
func CompileInterpretedRealRunner(ev Evaluator[float64], cfg vm.Config) (*InterpretedRealRunner, error) {
	c, err := compileCore(interpretedRealKind, ev, cfg)
	if err != nil {
		return nil, err
	}
	return &InterpretedRealRunner{c}, nil
}

// NewInterpretedRealRunner wraps an existing artifact.
func NewInterpretedRealRunner(a *vm.Artifact) (*InterpretedRealRunner, error) {
	c, err := newCore(interpretedRealKind, a)
	if err != nil {
		return nil, err
	}
	return &InterpretedRealRunner{c}, nil
}

// LoadInterpretedRealRunner loads an artifact saved by an
// InterpretedRealRunner.
func LoadInterpretedRealRunner(path string) (*InterpretedRealRunner, error) {
	c, err := loadCore(interpretedRealKind, path)
	if err != nil {
		return nil, err
	}
	return &InterpretedRealRunner{c}, nil
}

// Evaluate fills outs for every row of args.
func (r *InterpretedRealRunner) Evaluate(args, outs []float64) {
	r.evaluate(args, outs)
}

// InterpretedComplexRunner evaluates complex rows with the bytecode
// interpreter.
type InterpretedComplexRunner struct{ core }

// CompileInterpretedComplexRunner translates ev for the interpreter.
func CompileInterpretedComplexRunner(ev Evaluator[complex128], cfg vm.Config) (*InterpretedComplexRunner, error) {
	c, err := compileCore(interpretedComplexKind, ev, cfg)
	if err != nil {
		return nil, err
	}
	return &InterpretedComplexRunner{c}, nil
}

// NewInterpretedComplexRunner wraps an existing artifact.
func NewInterpretedComplexRunner(a *vm.Artifact) (*InterpretedComplexRunner, error) {
	c, err := newCore(interpretedComplexKind, a)
	if err != nil {
		return nil, err
	}
	return &InterpretedComplexRunner{c}, nil
}

// LoadInterpretedComplexRunner loads an artifact saved by an
// InterpretedComplexRunner.
func LoadInterpretedComplexRunner(path string) (*InterpretedComplexRunner, error) {
	c, err := loadCore(interpretedComplexKind, path)
	if err != nil {
		return nil, err
	}
	return &InterpretedComplexRunner{c}, nil
}

// Evaluate fills outs for every row of args.
func (r *InterpretedComplexRunner) Evaluate(args, outs []complex128) {
	r.evaluate(flatten(args), flatten(outs))
}
