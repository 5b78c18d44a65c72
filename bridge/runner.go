package bridge

import (
	"fmt"
	"maps"
	"os"
	"slices"

	"github.com/chazu/symjit/vm"
)

// Runner evaluates batches of rows stored as elements of type E.
type Runner[E any] interface {
	Evaluate(args, outs []E)
	Save(path string) error
	Config() vm.Config
	Artifact() *vm.Artifact
}

// kind is the config a runner type forces before compiling and requires
// when loading.
type kind struct {
	name    string
	complex bool
	simd    bool
	backend vm.Backend
}

var (
	realKind               = kind{"real", false, false, vm.BackendCompiled}
	complexKind            = kind{"complex", true, false, vm.BackendCompiled}
	simdRealKind           = kind{"simd real", false, true, vm.BackendCompiled}
	simdComplexKind        = kind{"simd complex", true, true, vm.BackendCompiled}
	interpretedRealKind    = kind{"interpreted real", false, false, vm.BackendInterpreted}
	interpretedComplexKind = kind{"interpreted complex", true, false, vm.BackendInterpreted}
)

// kindsByName maps the runner kind names used by project files and the
// CLI. Scattered runners share the vector artifacts.
var kindsByName = map[string]kind{
	"real":                realKind,
	"complex":             complexKind,
	"simd-real":           simdRealKind,
	"simd-complex":        simdComplexKind,
	"scattered-real":      simdRealKind,
	"scattered-complex":   simdComplexKind,
	"interpreted-real":    interpretedRealKind,
	"interpreted-complex": interpretedComplexKind,
}

// KindNames returns the runner kind names, sorted.
func KindNames() []string {
	return slices.Sorted(maps.Keys(kindsByName))
}

// ConfigFor returns cfg with the domain, layout and backend the named
// runner kind requires.
func ConfigFor(name string, cfg vm.Config) (vm.Config, error) {
	k, ok := kindsByName[name]
	if !ok {
		return cfg, fmt.Errorf("%w: unknown runner kind %q", ErrIncompatible, name)
	}
	return k.force(cfg), nil
}

func (k kind) force(cfg vm.Config) vm.Config {
	cfg.Complex = k.complex
	cfg.SIMD = k.simd
	cfg.Backend = k.backend
	return cfg
}

func (k kind) accepts(cfg vm.Config) bool {
	return cfg.Complex == k.complex && cfg.SIMD == k.simd && cfg.Backend == k.backend
}

// core is the state shared by every runner: the artifact and the config
// it was compiled under.
type core struct {
	config   vm.Config
	artifact *vm.Artifact
}

func newCore(k kind, a *vm.Artifact) (core, error) {
	if a == nil {
		return core{}, fmt.Errorf("%w: nil artifact", ErrIncompatible)
	}
	if !k.accepts(a.Config()) {
		return core{}, fmt.Errorf("%w: %s runner cannot run a %s artifact", ErrIncompatible, k.name, a.Config())
	}
	return core{config: a.Config(), artifact: a}, nil
}

func compileCore[T Coefficient](k kind, ev Evaluator[T], cfg vm.Config) (core, error) {
	a, err := Compile(ev, k.force(cfg))
	if err != nil {
		return core{}, err
	}
	return newCore(k, a)
}

func loadCore(k kind, path string) (core, error) {
	f, err := os.Open(path)
	if err != nil {
		return core{}, fmt.Errorf("load %s: %w", path, err)
	}
	defer f.Close()

	a, err := vm.Load(f)
	if err != nil {
		return core{}, fmt.Errorf("load %s: %w", path, err)
	}
	return newCore(k, a)
}

// Config returns the config the artifact was compiled under.
func (c *core) Config() vm.Config { return c.config }

// Artifact returns the underlying artifact.
func (c *core) Artifact() *vm.Artifact { return c.artifact }

// Save writes the artifact to path.
func (c *core) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	if err := c.artifact.Save(f); err != nil {
		f.Close()
		return fmt.Errorf("save %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// evaluate runs row-major flat buffers.
func (c *core) evaluate(args, outs []float64) {
	a := c.artifact
	n := rowCount(len(args), len(outs), a.CountParams(), a.CountObs())
	if c.config.UseThreads {
		a.EvaluateMatrixThreaded(args, outs, n)
	} else {
		a.EvaluateMatrix(args, outs, n)
	}
}

// evaluateSIMD runs lane-major flat buffers.
func (c *core) evaluateSIMD(args, outs []float64) {
	a := c.artifact
	n := rowCount(len(args), len(outs), a.CountParams()*vm.Lanes, a.CountObs()*vm.Lanes)
	c.runSIMD(args, outs, n)
}

func (c *core) runSIMD(args, outs []float64, blocks int) {
	if c.config.UseThreads {
		c.artifact.EvaluateMatrixThreadedSIMD(args, outs, blocks)
	} else {
		c.artifact.EvaluateMatrixSIMD(args, outs, blocks)
	}
}

// RealRows returns a runner of the named real kind over a that takes
// row-major rows. Vector kinds are served by the scattered runner.
func RealRows(name string, a *vm.Artifact) (Runner[float64], error) {
	var k kind
	switch name {
	case "real":
		k = realKind
	case "simd-real", "scattered-real":
		k = simdRealKind
	case "interpreted-real":
		k = interpretedRealKind
	default:
		return nil, fmt.Errorf("%w: %q is not a real runner kind", ErrIncompatible, name)
	}
	c, err := newCore(k, a)
	if err != nil {
		return nil, err
	}
	switch k {
	case simdRealKind:
		return &ScatteredRealRunner{c}, nil
	case interpretedRealKind:
		return &InterpretedRealRunner{c}, nil
	}
	return &RealRunner{c}, nil
}

// ComplexRows is RealRows for complex kinds.
func ComplexRows(name string, a *vm.Artifact) (Runner[complex128], error) {
	var k kind
	switch name {
	case "complex":
		k = complexKind
	case "simd-complex", "scattered-complex":
		k = simdComplexKind
	case "interpreted-complex":
		k = interpretedComplexKind
	default:
		return nil, fmt.Errorf("%w: %q is not a complex runner kind", ErrIncompatible, name)
	}
	c, err := newCore(k, a)
	if err != nil {
		return nil, err
	}
	switch k {
	case simdComplexKind:
		return &ScatteredComplexRunner{c}, nil
	case interpretedComplexKind:
		return &InterpretedComplexRunner{c}, nil
	}
	return &ComplexRunner{c}, nil
}
