package bridge

import (
	"github.com/chazu/symjit/evaluator"
	"github.com/chazu/symjit/pkg/bytecode"
)

// mapSlot converts an evaluator slot to the code generator's slot of the
// same class and index.
func mapSlot(s evaluator.Slot) bytecode.Slot {
	switch s.Kind {
	case evaluator.SlotParam:
		return bytecode.Param(s.Index)
	case evaluator.SlotOut:
		return bytecode.Out(s.Index)
	case evaluator.SlotConst:
		return bytecode.Const(s.Index)
	default:
		return bytecode.Temp(s.Index)
	}
}

// mapSlots converts a slot list, preserving order and length.
func mapSlots(ss []evaluator.Slot) []bytecode.Slot {
	out := make([]bytecode.Slot, len(ss))
	for i, s := range ss {
		out[i] = mapSlot(s)
	}
	return out
}

// builtin re-tags an evaluator builtin symbol by its id.
func builtin(sym evaluator.Symbol) bytecode.BuiltinSymbol {
	return bytecode.BuiltinSymbol(sym.ID())
}
