package bridge

import (
	"fmt"

	"github.com/chazu/symjit/evaluator"
	"github.com/chazu/symjit/vm"
)

// Coefficient is a supported coefficient type.
type Coefficient interface {
	float64 | complex128
}

// Number widens a coefficient to a complex value.
type Number[T Coefficient] interface {
	AsComplex(T) complex128
}

type realNumber struct{}

func (realNumber) AsComplex(x float64) complex128 { return complex(x, 0) }

type complexNumber struct{}

func (complexNumber) AsComplex(z complex128) complex128 { return z }

// numberFor returns the Number implementation of T.
func numberFor[T Coefficient]() Number[T] {
	var zero T
	switch any(zero).(type) {
	case float64:
		return any(realNumber{}).(Number[T])
	default:
		return any(complexNumber{}).(Number[T])
	}
}

// Evaluator is the source of an instruction stream.
type Evaluator[T Coefficient] interface {
	// ExportInstructions returns the instructions, the temporary count and
	// the constant pool.
	ExportInstructions() ([]evaluator.Instruction, int, []T)
	ParamCount() int
}

// Compile translates ev under cfg and builds the artifact.
func Compile[T Coefficient](ev Evaluator[T], cfg vm.Config) (*vm.Artifact, error) {
	instrs, temps, consts := ev.ExportInstructions()

	num := numberFor[T]()
	zs := make([]complex128, len(consts))
	for i, c := range consts {
		zs[i] = num.AsComplex(c)
	}

	tr, err := Translate(instrs, zs, cfg)
	if err != nil {
		return nil, err
	}
	tr.DeclareParams(ev.ParamCount())

	a, err := tr.Compile()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCompile, err)
	}
	log.Debugf("compiled %d instructions (%d temps, %d constants) under %s",
		len(instrs), temps, len(consts), a.Config())
	return a, nil
}

// EvaluateSingle evaluates one row of coefficients and returns every
// output.
func EvaluateSingle[T Coefficient](a *vm.Artifact, args []T) []T {
	units := 1
	if a.Config().Complex {
		units = 2
	}
	flatArgs := flattenCoeff(args)
	if len(flatArgs) != a.CountParams() || unitsOf[T]() != units {
		panic(fmt.Sprintf("bridge: %d %T args do not fit an artifact with %d param units", len(args), *new(T), a.CountParams()))
	}
	outs := make([]T, a.CountObs()/units)
	a.EvaluateMatrix(flatArgs, flattenCoeff(outs), 1)
	return outs
}
