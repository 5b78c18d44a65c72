package vm

import "github.com/chazu/symjit/pkg/bytecode"

// closureKernel is the compiled backend. Each instruction becomes a
// closure with its register indices and function pointer captured, so no
// decoding happens per row.
type closureKernel[T Number] struct {
	// straight holds the steps of a branch-free program.
	straight []func(r []T)
	// steps holds the steps of a program with jumps. Each returns the
	// next program counter.
	steps []func(r []T, pc int) int
}

func compileClosures[T Number](p *bytecode.Program, l *frameLayout, dom *domain[T]) *closureKernel[T] {
	k := &closureKernel[T]{}
	if !p.HasBranches() {
		for _, in := range p.Code {
			if f := compileStep(in, l, dom); f != nil {
				k.straight = append(k.straight, f)
			}
		}
		return k
	}

	k.steps = make([]func(r []T, pc int) int, len(p.Code))
	for pc, in := range p.Code {
		switch in.Op {
		case bytecode.OpJump:
			target := int(in.Imm)
			k.steps[pc] = func(r []T, pc int) int { return target }
		case bytecode.OpJumpFalse:
			target := int(in.Imm)
			c := l.index(in.Args[0])
			truth := dom.truth
			k.steps[pc] = func(r []T, pc int) int {
				if truth(r[c]) {
					return pc + 1
				}
				return target
			}
		default:
			f := compileStep(in, l, dom)
			if f == nil {
				k.steps[pc] = func(r []T, pc int) int { return pc + 1 }
				continue
			}
			k.steps[pc] = func(r []T, pc int) int {
				f(r)
				return pc + 1
			}
		}
	}
	return k
}

func (k *closureKernel[T]) exec(r []T) {
	if k.steps == nil {
		for _, f := range k.straight {
			f(r)
		}
		return
	}
	for pc := 0; pc < len(k.steps); {
		pc = k.steps[pc](r, pc)
	}
}

// compileStep specializes one non-jump instruction. Markers compile to nil.
func compileStep[T Number](in bytecode.Instr, l *frameLayout, dom *domain[T]) func(r []T) {
	switch in.Op {
	case bytecode.OpNop, bytecode.OpLabel:
		return nil

	case bytecode.OpMove:
		d, a := l.index(in.Dst), l.index(in.Args[0])
		return func(r []T) { r[d] = r[a] }

	case bytecode.OpAdd:
		d := l.index(in.Dst)
		args := l.indices(in.Args)
		switch len(args) {
		case 1:
			a := args[0]
			return func(r []T) { r[d] = r[a] }
		case 2:
			a, b := args[0], args[1]
			return func(r []T) { r[d] = r[a] + r[b] }
		}
		return func(r []T) {
			acc := r[args[0]]
			for _, a := range args[1:] {
				acc += r[a]
			}
			r[d] = acc
		}

	case bytecode.OpMul:
		d := l.index(in.Dst)
		args := l.indices(in.Args)
		switch len(args) {
		case 1:
			a := args[0]
			return func(r []T) { r[d] = r[a] }
		case 2:
			a, b := args[0], args[1]
			return func(r []T) { r[d] = r[a] * r[b] }
		}
		return func(r []T) {
			acc := r[args[0]]
			for _, a := range args[1:] {
				acc *= r[a]
			}
			r[d] = acc
		}

	case bytecode.OpPow:
		d, a, n := l.index(in.Dst), l.index(in.Args[0]), in.Imm
		switch n {
		case 0:
			return func(r []T) { r[d] = 1 }
		case 1:
			return func(r []T) { r[d] = r[a] }
		case 2:
			return func(r []T) { x := r[a]; r[d] = x * x }
		case -1:
			return func(r []T) { r[d] = 1 / r[a] }
		}
		return func(r []T) { r[d] = powi(r[a], n) }

	case bytecode.OpPowf:
		d, a, b := l.index(in.Dst), l.index(in.Args[0]), l.index(in.Args[1])
		powf := dom.powf
		return func(r []T) { r[d] = powf(r[a], r[b]) }

	case bytecode.OpCall, bytecode.OpCallExt:
		d := l.index(in.Dst)
		args := l.indices(in.Args)
		fn, _ := lookup(dom.lib, in.Func)
		switch {
		case fn.f1 != nil:
			f, a := fn.f1, args[0]
			return func(r []T) { r[d] = f(r[a]) }
		case fn.f2 != nil:
			f, a, b := fn.f2, args[0], args[1]
			return func(r []T) { r[d] = f(r[a], r[b]) }
		default:
			f, a, b, c := fn.f3, args[0], args[1], args[2]
			return func(r []T) { r[d] = f(r[a], r[b], r[c]) }
		}

	case bytecode.OpSelect:
		d := l.index(in.Dst)
		c, t, f := l.index(in.Args[0]), l.index(in.Args[1]), l.index(in.Args[2])
		truth := dom.truth
		return func(r []T) {
			if truth(r[c]) {
				r[d] = r[t]
			} else {
				r[d] = r[f]
			}
		}
	}
	panic("vm: unhandled opcode " + in.Op.String())
}
