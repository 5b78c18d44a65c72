package vm

import "github.com/chazu/symjit/pkg/bytecode"

// frameLayout places the four slot classes in one register file:
//
//	[params | outs | consts | temps]
type frameLayout struct {
	base [4]int // indexed by bytecode.SlotKind
	size int
}

func newFrameLayout(p *bytecode.Program) frameLayout {
	var l frameLayout
	off := 0
	for _, k := range []bytecode.SlotKind{bytecode.SlotParam, bytecode.SlotOut, bytecode.SlotConst, bytecode.SlotTemp} {
		l.base[k] = off
		off += p.SlotCount(k)
	}
	l.size = off
	return l
}

// index returns the register that holds slot s.
func (l *frameLayout) index(s bytecode.Slot) int {
	return l.base[s.Kind] + int(s.Index)
}

func (l *frameLayout) indices(ss []bytecode.Slot) []int {
	out := make([]int, len(ss))
	for i, s := range ss {
		out[i] = l.index(s)
	}
	return out
}
