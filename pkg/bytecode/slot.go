package bytecode

import "fmt"

// SlotKind identifies one of the four storage classes.
type SlotKind uint8

const (
	// SlotParam is an input value, read-only during execution.
	SlotParam SlotKind = 0

	// SlotOut is an output value, written by the program.
	SlotOut SlotKind = 1

	// SlotConst is an entry of the constant pool, read-only.
	SlotConst SlotKind = 2

	// SlotTemp is a scratch register.
	SlotTemp SlotKind = 3
)

// String returns a human-readable name for SlotKind.
func (k SlotKind) String() string {
	switch k {
	case SlotParam:
		return "param"
	case SlotOut:
		return "out"
	case SlotConst:
		return "const"
	case SlotTemp:
		return "temp"
	default:
		return fmt.Sprintf("SlotKind(%d)", k)
	}
}

// prefix is the disassembly sigil for a slot kind.
func (k SlotKind) prefix() string {
	switch k {
	case SlotParam:
		return "$p"
	case SlotOut:
		return "$o"
	case SlotConst:
		return "$c"
	case SlotTemp:
		return "$t"
	default:
		return "$?"
	}
}

// MaxSlots is the largest number of slots allowed in a single class.
const MaxSlots = 1 << 24

// Slot addresses a value in one of the four storage classes.
type Slot struct {
	Kind  SlotKind `cbor:"1,keyasint"`
	Index uint32   `cbor:"2,keyasint"`
}

// Param returns the slot of input i.
func Param(i uint32) Slot { return Slot{Kind: SlotParam, Index: i} }

// Out returns the slot of output i.
func Out(i uint32) Slot { return Slot{Kind: SlotOut, Index: i} }

// Const returns the slot of constant i.
func Const(i uint32) Slot { return Slot{Kind: SlotConst, Index: i} }

// Temp returns the slot of temporary i.
func Temp(i uint32) Slot { return Slot{Kind: SlotTemp, Index: i} }

// Writable reports whether instructions may store into the slot.
func (s Slot) Writable() bool {
	return s.Kind == SlotOut || s.Kind == SlotTemp
}

func (s Slot) String() string {
	return fmt.Sprintf("%s%d", s.Kind.prefix(), s.Index)
}
