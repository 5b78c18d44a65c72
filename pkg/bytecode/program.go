package bytecode

import "fmt"

// BytecodeVersion is the current program format version.
// Increment when making incompatible changes to the format.
const BytecodeVersion uint16 = 1

// ProgramFlags contains compilation flags for a program.
type ProgramFlags uint16

const (
	// FlagComplex marks a program whose registers hold complex values.
	FlagComplex ProgramFlags = 1 << 0

	// FlagSIMD marks a program laid out for fixed-width vector lanes.
	FlagSIMD ProgramFlags = 1 << 1

	// FlagHasBranches indicates the program contains jumps.
	FlagHasBranches ProgramFlags = 1 << 2

	// FlagHasExternals indicates the program calls external functions.
	FlagHasExternals ProgramFlags = 1 << 3
)

// Constant is a complex constant stored as two float64 halves.
type Constant struct {
	Re float64 `cbor:"1,keyasint"`
	Im float64 `cbor:"2,keyasint"`
}

// Value returns the constant as a complex128.
func (c Constant) Value() complex128 { return complex(c.Re, c.Im) }

// Instr is a single register instruction.
//
// Imm carries the integer exponent of OpPow, the real operand count of
// OpAdd/OpMul, the label id of OpLabel and the target offset of jumps.
type Instr struct {
	Op   Opcode `cbor:"1,keyasint"`
	Dst  Slot   `cbor:"2,keyasint"`
	Args []Slot `cbor:"3,keyasint,omitempty"`
	Imm  int64  `cbor:"4,keyasint,omitempty"`
	Func FuncID `cbor:"5,keyasint,omitempty"`
	Real bool   `cbor:"6,keyasint,omitempty"` // operand known to be real
}

// Program is a finished, validated instruction list.
// It is the unit the VM turns into an executable kernel.
type Program struct {
	Version uint16       `cbor:"1,keyasint"`
	Flags   ProgramFlags `cbor:"2,keyasint"`

	// Slot counts per class
	ParamCount uint32 `cbor:"3,keyasint"`
	OutCount   uint32 `cbor:"4,keyasint"`
	TempCount  uint32 `cbor:"5,keyasint"`

	Constants []Constant `cbor:"6,keyasint"`
	Code      []Instr    `cbor:"7,keyasint"`

	// External function names in order of first use (for reflection)
	Externals []string `cbor:"8,keyasint,omitempty"`
}

// IsComplex reports whether the program computes in the complex domain.
func (p *Program) IsComplex() bool { return p.Flags&FlagComplex != 0 }

// IsSIMD reports whether the program was built for vector lanes.
func (p *Program) IsSIMD() bool { return p.Flags&FlagSIMD != 0 }

// HasBranches reports whether the program contains jumps.
func (p *Program) HasBranches() bool { return p.Flags&FlagHasBranches != 0 }

// ConstantCount returns the number of constants in the pool.
func (p *Program) ConstantCount() int { return len(p.Constants) }

// ConstantAt returns constant i as a complex128.
// Panics if the index is out of bounds.
func (p *Program) ConstantAt(i int) complex128 { return p.Constants[i].Value() }

// SlotCount returns the number of slots in class k.
func (p *Program) SlotCount(k SlotKind) int {
	switch k {
	case SlotParam:
		return int(p.ParamCount)
	case SlotOut:
		return int(p.OutCount)
	case SlotConst:
		return len(p.Constants)
	case SlotTemp:
		return int(p.TempCount)
	}
	return 0
}

// Validate checks the structural invariants the VM relies on: known
// opcodes and functions, in-range slots, writable destinations, flags that
// match the code and forward jumps that land on a label. Programs produced by Builder always
// validate; Validate exists for programs decoded from storage.
func (p *Program) Validate() error {
	if p.Version > BytecodeVersion {
		return fmt.Errorf("program version %d is newer than supported version %d", p.Version, BytecodeVersion)
	}
	if !p.IsComplex() {
		for i, c := range p.Constants {
			if c.Im != 0 {
				return fmt.Errorf("%w: complex constant %d in real program", ErrUnsupported, i)
			}
		}
	}
	checkSlot := func(pc int, s Slot) error {
		if int(s.Index) >= p.SlotCount(s.Kind) {
			return fmt.Errorf("%w: %s out of range at %04d", ErrBadSlot, s, pc)
		}
		return nil
	}

	for pc, in := range p.Code {
		info := GetOpcodeInfo(in.Op)
		if !in.Op.Valid() {
			return fmt.Errorf("invalid opcode %s at %04d", info.Name, pc)
		}
		if info.Args >= 0 && len(in.Args) != info.Args {
			return fmt.Errorf("%w: %s at %04d takes %d operands, has %d", ErrArity, info.Name, pc, info.Args, len(in.Args))
		}
		if info.HasDst {
			if !in.Dst.Writable() {
				return fmt.Errorf("%w: %s at %04d writes %s", ErrBadSlot, info.Name, pc, in.Dst)
			}
			if err := checkSlot(pc, in.Dst); err != nil {
				return err
			}
		}
		for _, s := range in.Args {
			if err := checkSlot(pc, s); err != nil {
				return err
			}
		}

		switch in.Op {
		case OpAdd, OpMul:
			if len(in.Args) == 0 || in.Imm < 0 || in.Imm > int64(len(in.Args)) {
				return fmt.Errorf("%w: %s at %04d with %d operands, %d real", ErrUnsupported, info.Name, pc, len(in.Args), in.Imm)
			}
		case OpCall, OpCallExt:
			if !in.Func.Valid() {
				return fmt.Errorf("%w: function %d at %04d", ErrUnknownFunction, in.Func, pc)
			}
			if in.Func.Info().Arity != len(in.Args) {
				return fmt.Errorf("%w: %s at %04d", ErrArity, in.Func, pc)
			}
			if p.IsComplex() && !in.Func.Info().Complex {
				return fmt.Errorf("%w: %s in complex program", ErrUnsupported, in.Func)
			}
		case OpJump, OpJumpFalse:
			if !p.HasBranches() {
				return fmt.Errorf("%w: %s at %04d in program without branch flag", ErrUnsupported, info.Name, pc)
			}
			if in.Imm <= int64(pc) || in.Imm >= int64(len(p.Code)) || p.Code[in.Imm].Op != OpLabel {
				return fmt.Errorf("%w: %s at %04d targets %04d", ErrUndefinedLabel, info.Name, pc, in.Imm)
			}
		}
	}
	return nil
}
