package vm

import (
	"fmt"

	"github.com/chazu/symjit/pkg/bytecode"
)

// kernel executes a program over one register frame.
type kernel[T Number] interface {
	exec(regs []T)
}

// engine couples a kernel with the frame layout and constant template of
// its program. It is read-only after construction and shared by workers.
type engine[T Number] struct {
	dom    *domain[T]
	layout frameLayout
	consts []T
	params int
	outs   int
	kernel kernel[T]
}

// rowEngine is the register-type-erased view of an engine used by Artifact.
type rowEngine interface {
	// run evaluates rows [lo, hi). With lanes > 1 a row is a block of
	// lanes independent rows stored lane-major.
	run(args, outs []float64, lo, hi, lanes int)
}

func newEngine[T Number](p *bytecode.Program, backend Backend) (*engine[T], error) {
	dom := domainOf[T]()
	e := &engine[T]{
		dom:    dom,
		layout: newFrameLayout(p),
		params: int(p.ParamCount),
		outs:   int(p.OutCount),
	}
	e.consts = make([]T, len(p.Constants))
	for i, c := range p.Constants {
		e.consts[i] = dom.fromConst(c.Value())
	}

	// Every called function must exist in this domain.
	for pc, in := range p.Code {
		if !in.Op.IsCall() {
			continue
		}
		if _, ok := lookup(dom.lib, in.Func); !ok {
			return nil, fmt.Errorf("%w: %s at %04d", ErrUnavailable, in.Func, pc)
		}
	}

	switch backend {
	case BackendCompiled:
		e.kernel = compileClosures(p, &e.layout, dom)
	case BackendInterpreted:
		e.kernel = newInterpreter(p, &e.layout, dom)
	default:
		return nil, fmt.Errorf("%w: %q", ErrBackend, backend)
	}
	return e, nil
}

// newFrame allocates a register file with the constants in place.
func (e *engine[T]) newFrame() []T {
	regs := make([]T, e.layout.size)
	copy(regs[e.layout.base[bytecode.SlotConst]:], e.consts)
	return regs
}

func (e *engine[T]) run(args, outs []float64, lo, hi, lanes int) {
	regs := e.newFrame()
	outBase := e.layout.base[bytecode.SlotOut]
	constBase := e.layout.base[bytecode.SlotConst]
	tempBase := e.layout.base[bytecode.SlotTemp]
	cp := e.params * e.dom.units
	co := e.outs * e.dom.units

	for r := lo; r < hi; r++ {
		for l := 0; l < lanes; l++ {
			in := r*cp*lanes + l
			out := r*co*lanes + l

			for p := 0; p < e.params; p++ {
				regs[p] = e.dom.load(args, in, p, lanes)
			}
			clear(regs[outBase:constBase])
			clear(regs[tempBase:])

			e.kernel.exec(regs)

			for k := 0; k < e.outs; k++ {
				e.dom.store(outs, out, k, lanes, regs[outBase+k])
			}
		}
	}
}
