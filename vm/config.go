package vm

import "fmt"

// Lanes is the fixed vector width of SIMD artifacts.
const Lanes = 4

// Backend selects how a program is turned into a kernel.
type Backend string

const (
	// BackendCompiled turns every instruction into a specialized closure.
	BackendCompiled Backend = "compiled"

	// BackendInterpreted decodes and dispatches instructions per row.
	BackendInterpreted Backend = "interpreted"
)

// Config holds the options an artifact is compiled under. It is passed by
// value and never mutated once an artifact exists.
type Config struct {
	// Complex interprets buffers as interleaved real/imaginary pairs.
	Complex bool `toml:"complex" yaml:"complex" cbor:"1,keyasint"`

	// SIMD lays buffers out in blocks of Lanes independent rows.
	SIMD bool `toml:"simd" yaml:"simd" cbor:"2,keyasint"`

	// UseThreads lets runners fan batches out over worker goroutines.
	UseThreads bool `toml:"use_threads" yaml:"use_threads" cbor:"3,keyasint"`

	// Workers caps the number of goroutines (0 = GOMAXPROCS).
	Workers int `toml:"workers" yaml:"workers" cbor:"4,keyasint,omitempty"`

	Backend Backend `toml:"backend" yaml:"backend" cbor:"5,keyasint"`
}

// DefaultConfig returns a real, scalar, single-threaded compiled config.
func DefaultConfig() Config {
	return Config{Backend: BackendCompiled}
}

// normalize fills in defaults and rejects unknown values.
func (c Config) normalize() (Config, error) {
	switch c.Backend {
	case "":
		c.Backend = BackendCompiled
	case BackendCompiled, BackendInterpreted:
	default:
		return c, fmt.Errorf("%w: %q", ErrBackend, c.Backend)
	}
	if c.Workers < 0 {
		return c, fmt.Errorf("invalid worker count %d", c.Workers)
	}
	return c, nil
}

func (c Config) String() string {
	domain := "real"
	if c.Complex {
		domain = "complex"
	}
	layout := "scalar"
	if c.SIMD {
		layout = fmt.Sprintf("simd%d", Lanes)
	}
	return fmt.Sprintf("%s/%s/%s threads=%v", domain, layout, c.Backend, c.UseThreads)
}
