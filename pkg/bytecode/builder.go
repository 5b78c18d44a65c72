package bytecode

import (
	"fmt"
	"maps"
	"math"
	"slices"
)

// Builder accumulates a Program one evaluator instruction at a time.
//
// Appends are validated against the program flags as they arrive. The first
// failure is sticky: every later append and Finish return it, so callers can
// abort on the first error without leaving a half-usable builder around.
type Builder struct {
	prog *Program

	// Label management
	labels  map[int]int   // label id -> offset of its OpLabel
	pending map[int][]int // label id -> offsets of jumps awaiting the label

	// Slot counts observed so far (max index + 1 per class)
	declaredParams uint32
	params         uint32
	outs           uint32
	temps          uint32

	externals map[string]bool

	finished bool
	err      error
}

// NewBuilder creates an empty builder for a program with the given flags.
// Only FlagComplex and FlagSIMD are meaningful to callers; the remaining
// flags are derived from the appended instructions.
func NewBuilder(flags ProgramFlags) *Builder {
	return &Builder{
		prog: &Program{
			Version:   BytecodeVersion,
			Flags:     flags & (FlagComplex | FlagSIMD),
			Constants: make([]Constant, 0, 8),
			Code:      make([]Instr, 0, 64),
		},
		labels:    make(map[int]int),
		pending:   make(map[int][]int),
		externals: make(map[string]bool),
	}
}

// IsComplex reports whether the builder targets the complex domain.
func (b *Builder) IsComplex() bool { return b.prog.IsComplex() }

// DeclareParams records the evaluator's parameter count. The final count is
// the larger of the declared count and the highest referenced parameter.
func (b *Builder) DeclareParams(n int) {
	if n > 0 {
		b.declaredParams = uint32(n)
	}
}

// fail records the first error and returns it.
func (b *Builder) fail(err error) error {
	if b.err == nil {
		b.err = err
	}
	return b.err
}

// ready returns the sticky error, if any.
func (b *Builder) ready() error {
	if b.err != nil {
		return b.err
	}
	if b.finished {
		return ErrFinished
	}
	return nil
}

// AppendConstant adds z to the constant pool. Constants are indexed by
// position, so they are never deduplicated.
func (b *Builder) AppendConstant(z complex128) error {
	if err := b.ready(); err != nil {
		return err
	}
	if !b.IsComplex() && imag(z) != 0 {
		return b.fail(fmt.Errorf("%w: complex constant %v in real program", ErrUnsupported, z))
	}
	if len(b.prog.Constants) >= MaxSlots {
		return b.fail(fmt.Errorf("%w: more than %d constants", ErrCapacity, MaxSlots))
	}
	b.prog.Constants = append(b.prog.Constants, Constant{Re: real(z), Im: imag(z)})
	return nil
}

// use validates a slot operand and tracks the per-class counts.
func (b *Builder) use(s Slot) error {
	if s.Index >= MaxSlots {
		return fmt.Errorf("%w: %s", ErrCapacity, s)
	}
	switch s.Kind {
	case SlotParam:
		b.params = max(b.params, s.Index+1)
	case SlotOut:
		b.outs = max(b.outs, s.Index+1)
	case SlotTemp:
		b.temps = max(b.temps, s.Index+1)
	case SlotConst:
		if int(s.Index) >= len(b.prog.Constants) {
			return fmt.Errorf("%w: %s but only %d constants", ErrBadSlot, s, len(b.prog.Constants))
		}
	default:
		return fmt.Errorf("%w: %s", ErrBadSlot, s)
	}
	return nil
}

// emit validates the operands of in and appends it.
func (b *Builder) emit(in Instr) error {
	if err := b.ready(); err != nil {
		return err
	}
	if GetOpcodeInfo(in.Op).HasDst {
		if !in.Dst.Writable() {
			return b.fail(fmt.Errorf("%w: %s cannot write %s", ErrBadSlot, in.Op, in.Dst))
		}
		if err := b.use(in.Dst); err != nil {
			return b.fail(err)
		}
	}
	for _, s := range in.Args {
		if err := b.use(s); err != nil {
			return b.fail(err)
		}
	}
	b.prog.Code = append(b.prog.Code, in)
	return nil
}

func (b *Builder) appendNary(op Opcode, dst Slot, args []Slot, numReals int) error {
	if len(args) == 0 {
		return b.fail(fmt.Errorf("%w: %s without operands", ErrUnsupported, op))
	}
	if numReals < 0 || numReals > len(args) {
		return b.fail(fmt.Errorf("%w: %s with %d operands, %d real", ErrUnsupported, op, len(args), numReals))
	}
	return b.emit(Instr{Op: op, Dst: dst, Args: append([]Slot(nil), args...), Imm: int64(numReals)})
}

// AppendAdd emits dst = sum(args). The first numReals operands are known
// to be real.
func (b *Builder) AppendAdd(dst Slot, args []Slot, numReals int) error {
	return b.appendNary(OpAdd, dst, args, numReals)
}

// AppendMul emits dst = product(args). The first numReals operands are known
// to be real.
func (b *Builder) AppendMul(dst Slot, args []Slot, numReals int) error {
	return b.appendNary(OpMul, dst, args, numReals)
}

// AppendPow emits dst = base^exp for an integer exponent.
func (b *Builder) AppendPow(dst, base Slot, exp int64, isReal bool) error {
	if exp == math.MinInt64 {
		return b.fail(fmt.Errorf("%w: exponent %d", ErrUnsupported, exp))
	}
	return b.emit(Instr{Op: OpPow, Dst: dst, Args: []Slot{base}, Imm: exp, Real: isReal})
}

// AppendPowf emits dst = base^exp for a slot-valued exponent.
func (b *Builder) AppendPowf(dst, base, exp Slot, isReal bool) error {
	return b.emit(Instr{Op: OpPowf, Dst: dst, Args: []Slot{base, exp}, Real: isReal})
}

// AppendAssign emits dst = src.
func (b *Builder) AppendAssign(dst, src Slot) error {
	return b.emit(Instr{Op: OpMove, Dst: dst, Args: []Slot{src}})
}

// checkFunc verifies that f exists, takes n arguments and is available in
// the program's domain.
func (b *Builder) checkFunc(f FuncID, n int) error {
	info := f.Info()
	if info.Arity != n {
		return fmt.Errorf("%w: %s takes %d, got %d", ErrArity, info.Name, info.Arity, n)
	}
	if b.IsComplex() && !info.Complex {
		return fmt.Errorf("%w: %s has no complex implementation", ErrUnsupported, info.Name)
	}
	return nil
}

// AppendFun emits dst = sym(arg) for an evaluator builtin symbol.
func (b *Builder) AppendFun(dst Slot, sym BuiltinSymbol, arg Slot, isReal bool) error {
	if err := b.ready(); err != nil {
		return err
	}
	f, ok := sym.Func()
	if !ok {
		return b.fail(fmt.Errorf("%w: builtin symbol %d", ErrUnknownFunction, sym))
	}
	if err := b.checkFunc(f, 1); err != nil {
		return b.fail(err)
	}
	return b.emit(Instr{Op: OpCall, Dst: dst, Args: []Slot{arg}, Func: f, Real: isReal})
}

// AppendExternalFun emits dst = name(args...) where name is resolved
// against the function library.
func (b *Builder) AppendExternalFun(dst Slot, name string, args []Slot) error {
	if err := b.ready(); err != nil {
		return err
	}
	f, ok := LookupFunc(name)
	if !ok {
		return b.fail(fmt.Errorf("%w: %q", ErrUnknownFunction, name))
	}
	if err := b.checkFunc(f, len(args)); err != nil {
		return b.fail(err)
	}
	if err := b.emit(Instr{Op: OpCallExt, Dst: dst, Args: append([]Slot(nil), args...), Func: f}); err != nil {
		return err
	}
	if !b.externals[name] {
		b.externals[name] = true
		b.prog.Externals = append(b.prog.Externals, name)
	}
	b.prog.Flags |= FlagHasExternals
	return nil
}

// AppendJoin emits a branchless select: dst = cond ? t : f.
func (b *Builder) AppendJoin(dst, cond, t, f Slot) error {
	return b.emit(Instr{Op: OpSelect, Dst: dst, Args: []Slot{cond, t, f}})
}

// AppendLabel places label id at the current offset and patches every
// jump already waiting for it.
func (b *Builder) AppendLabel(id int) error {
	if err := b.ready(); err != nil {
		return err
	}
	if id < 0 {
		return b.fail(fmt.Errorf("%w: negative label %d", ErrUndefinedLabel, id))
	}
	if _, ok := b.labels[id]; ok {
		return b.fail(fmt.Errorf("%w: %d", ErrDuplicateLabel, id))
	}
	target := len(b.prog.Code)
	b.labels[id] = target
	for _, at := range b.pending[id] {
		b.prog.Code[at].Imm = int64(target)
	}
	delete(b.pending, id)
	return b.emit(Instr{Op: OpLabel, Imm: int64(id)})
}

// emitJump appends a jump to a label that must not be placed yet.
func (b *Builder) emitJump(in Instr, id int) error {
	if err := b.ready(); err != nil {
		return err
	}
	if id < 0 {
		return b.fail(fmt.Errorf("%w: negative label %d", ErrUndefinedLabel, id))
	}
	if _, ok := b.labels[id]; ok {
		return b.fail(fmt.Errorf("%w: label %d is already placed", ErrBackwardJump, id))
	}
	at := len(b.prog.Code)
	in.Imm = -1 // Placeholder until the label is placed
	if err := b.emit(in); err != nil {
		return err
	}
	b.pending[id] = append(b.pending[id], at)
	b.prog.Flags |= FlagHasBranches
	return nil
}

// AppendIfElse emits a conditional skip to label id, taken when cond is
// zero.
func (b *Builder) AppendIfElse(cond Slot, id int) error {
	return b.emitJump(Instr{Op: OpJumpFalse, Args: []Slot{cond}}, id)
}

// AppendGoto emits an unconditional skip to label id.
func (b *Builder) AppendGoto(id int) error {
	return b.emitJump(Instr{Op: OpJump}, id)
}

// Finish resolves the slot counts and returns the program. It fails if a
// referenced label was never placed or if any earlier append failed.
func (b *Builder) Finish() (*Program, error) {
	if err := b.ready(); err != nil {
		return nil, err
	}
	if len(b.pending) > 0 {
		ids := slices.Sorted(maps.Keys(b.pending))
		return nil, b.fail(fmt.Errorf("%w: %d", ErrUndefinedLabel, ids[0]))
	}
	b.finished = true

	p := b.prog
	p.ParamCount = max(b.params, b.declaredParams)
	p.OutCount = b.outs
	p.TempCount = b.temps
	return p, nil
}
