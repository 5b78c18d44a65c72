package bridge

import (
	"fmt"

	"github.com/chazu/symjit/evaluator"
	"github.com/chazu/symjit/vm"
)

// Translate feeds constants and instructions, in order, into a new
// translator scoped to cfg. The first append error aborts translation and
// the partial translator is dropped.
func Translate(instrs []evaluator.Instruction, consts []complex128, cfg vm.Config) (*vm.Translator, error) {
	tr := vm.NewTranslator(cfg)

	for i, z := range consts {
		if err := tr.AppendConstant(z); err != nil {
			return nil, fmt.Errorf("%w: constant %d: %w", ErrCompile, i, err)
		}
	}

	for i, in := range instrs {
		if err := appendInstruction(tr, in); err != nil {
			return nil, fmt.Errorf("%w: instruction %d (%s): %w", ErrCompile, i, in, err)
		}
	}
	return tr, nil
}

func appendInstruction(tr *vm.Translator, in evaluator.Instruction) error {
	switch in := in.(type) {
	case evaluator.Add:
		return tr.AppendAdd(mapSlot(in.Dst), mapSlots(in.Args), in.NumReals)
	case evaluator.Mul:
		return tr.AppendMul(mapSlot(in.Dst), mapSlots(in.Args), in.NumReals)
	case evaluator.Pow:
		return tr.AppendPow(mapSlot(in.Dst), mapSlot(in.Base), in.Exp, in.IsReal)
	case evaluator.Powf:
		return tr.AppendPowf(mapSlot(in.Dst), mapSlot(in.Base), mapSlot(in.Exp), in.IsReal)
	case evaluator.Assign:
		return tr.AppendAssign(mapSlot(in.Dst), mapSlot(in.Src))
	case evaluator.Fun:
		return tr.AppendFun(mapSlot(in.Dst), builtin(in.Func), mapSlot(in.Arg), in.IsReal)
	case evaluator.ExternalFun:
		return tr.AppendExternalFun(mapSlot(in.Dst), in.Name, mapSlots(in.Args))
	case evaluator.Join:
		return tr.AppendJoin(mapSlot(in.Dst), mapSlot(in.Cond), mapSlot(in.True), mapSlot(in.False))
	case evaluator.Label:
		return tr.AppendLabel(in.ID)
	case evaluator.IfElse:
		return tr.AppendIfElse(mapSlot(in.Cond), in.Label)
	case evaluator.Goto:
		return tr.AppendGoto(in.Label)
	}
	panic(fmt.Sprintf("bridge: unhandled instruction %T", in))
}
