package vm

import "github.com/chazu/symjit/pkg/bytecode"

// interpreter is the interpreted backend: it decodes every instruction on
// every row.
type interpreter[T Number] struct {
	code   []bytecode.Instr
	layout *frameLayout
	dom    *domain[T]
}

func newInterpreter[T Number](p *bytecode.Program, l *frameLayout, dom *domain[T]) *interpreter[T] {
	return &interpreter[T]{code: p.Code, layout: l, dom: dom}
}

func (it *interpreter[T]) exec(r []T) {
	code := it.code
	l := it.layout

	for pc := 0; pc < len(code); pc++ {
		in := &code[pc]

		switch in.Op {
		case bytecode.OpNop, bytecode.OpLabel:
			// Markers

		case bytecode.OpMove:
			r[l.index(in.Dst)] = r[l.index(in.Args[0])]

		case bytecode.OpAdd:
			acc := r[l.index(in.Args[0])]
			for _, s := range in.Args[1:] {
				acc += r[l.index(s)]
			}
			r[l.index(in.Dst)] = acc

		case bytecode.OpMul:
			acc := r[l.index(in.Args[0])]
			for _, s := range in.Args[1:] {
				acc *= r[l.index(s)]
			}
			r[l.index(in.Dst)] = acc

		case bytecode.OpPow:
			r[l.index(in.Dst)] = powi(r[l.index(in.Args[0])], in.Imm)

		case bytecode.OpPowf:
			r[l.index(in.Dst)] = it.dom.powf(r[l.index(in.Args[0])], r[l.index(in.Args[1])])

		case bytecode.OpCall, bytecode.OpCallExt:
			fn := it.dom.lib[in.Func]
			var v T
			switch len(in.Args) {
			case 1:
				v = fn.f1(r[l.index(in.Args[0])])
			case 2:
				v = fn.f2(r[l.index(in.Args[0])], r[l.index(in.Args[1])])
			default:
				v = fn.f3(r[l.index(in.Args[0])], r[l.index(in.Args[1])], r[l.index(in.Args[2])])
			}
			r[l.index(in.Dst)] = v

		case bytecode.OpSelect:
			if it.dom.truth(r[l.index(in.Args[0])]) {
				r[l.index(in.Dst)] = r[l.index(in.Args[1])]
			} else {
				r[l.index(in.Dst)] = r[l.index(in.Args[2])]
			}

		case bytecode.OpJumpFalse:
			if !it.dom.truth(r[l.index(in.Args[0])]) {
				pc = int(in.Imm) // lands on the label; the loop steps past it
			}

		case bytecode.OpJump:
			pc = int(in.Imm)
		}
	}
}
