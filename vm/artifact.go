package vm

import (
	"fmt"

	"github.com/chazu/symjit/pkg/bytecode"
	"github.com/google/uuid"
)

// Artifact is an executable program. It is immutable once built and safe
// to evaluate from many goroutines at once.
type Artifact struct {
	id     uuid.UUID
	config Config
	prog   *bytecode.Program
	engine rowEngine

	countParams int
	countObs    int
}

// Compile builds an artifact from a finished program.
func Compile(p *bytecode.Program, cfg Config) (*Artifact, error) {
	return compileWithID(p, cfg, uuid.New())
}

func compileWithID(p *bytecode.Program, cfg Config, id uuid.UUID) (*Artifact, error) {
	cfg, err := cfg.normalize()
	if err != nil {
		return nil, err
	}
	if p.Version > bytecode.BytecodeVersion {
		return nil, fmt.Errorf("%w: program version %d, supported %d", ErrVersion, p.Version, bytecode.BytecodeVersion)
	}
	if p.IsComplex() != cfg.Complex || p.IsSIMD() != cfg.SIMD {
		return nil, fmt.Errorf("%w: program flags 0x%04X, config %s", ErrMismatch, p.Flags, cfg)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	a := &Artifact{id: id, config: cfg, prog: p}
	if cfg.Complex {
		a.engine, err = newEngine[complex128](p, cfg.Backend)
		a.countParams = 2 * int(p.ParamCount)
		a.countObs = 2 * int(p.OutCount)
	} else {
		a.engine, err = newEngine[float64](p, cfg.Backend)
		a.countParams = int(p.ParamCount)
		a.countObs = int(p.OutCount)
	}
	if err != nil {
		return nil, err
	}

	log.Debugf("compiled artifact %s: %s, %d instructions, %d params, %d outs",
		a.id, cfg, len(p.Code), a.countParams, a.countObs)
	return a, nil
}

// ID returns the artifact's identity, preserved across save and load.
func (a *Artifact) ID() uuid.UUID { return a.id }

// Config returns the config the artifact was compiled under.
func (a *Artifact) Config() Config { return a.config }

// Program returns the underlying program. Callers must not modify it.
func (a *Artifact) Program() *bytecode.Program { return a.prog }

// CountParams returns the number of float64 units per input row
// (doubled for complex artifacts).
func (a *Artifact) CountParams() int { return a.countParams }

// CountObs returns the number of float64 units per output row
// (doubled for complex artifacts).
func (a *Artifact) CountObs() int { return a.countObs }

// EvaluateSingle evaluates one row and returns its outputs in float64
// units.
func (a *Artifact) EvaluateSingle(args []float64) []float64 {
	outs := make([]float64, a.countObs)
	a.EvaluateMatrix(args, outs, 1)
	return outs
}
