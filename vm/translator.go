package vm

import "github.com/chazu/symjit/pkg/bytecode"

// Translator accumulates a program under a fixed config. The Append*
// methods come from the embedded builder; Compile finishes the program and
// builds the artifact.
type Translator struct {
	*bytecode.Builder
	config Config
}

// NewTranslator creates a translator whose program flags follow cfg.
func NewTranslator(cfg Config) *Translator {
	var flags bytecode.ProgramFlags
	if cfg.Complex {
		flags |= bytecode.FlagComplex
	}
	if cfg.SIMD {
		flags |= bytecode.FlagSIMD
	}
	return &Translator{Builder: bytecode.NewBuilder(flags), config: cfg}
}

// Config returns the config the translator was created with.
func (t *Translator) Config() Config { return t.config }

// Compile finishes the program and turns it into an artifact.
func (t *Translator) Compile() (*Artifact, error) {
	p, err := t.Finish()
	if err != nil {
		return nil, err
	}
	return Compile(p, t.config)
}
