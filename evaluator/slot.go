package evaluator

import "fmt"

// SlotKind is the storage class of a slot.
type SlotKind uint8

const (
	SlotParam SlotKind = iota
	SlotOut
	SlotConst
	SlotTemp
)

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
	}
	return fmt.Sprintf("SlotKind(%d)", k)
}

// Slot addresses a value: an input, an output, a constant or a temporary.
// Indices are dense within each class.
type Slot struct {
	Kind  SlotKind
	Index uint32
}

func Param(i uint32) Slot { return Slot{SlotParam, i} }
func Out(i uint32) Slot   { return Slot{SlotOut, i} }
func Const(i uint32) Slot { return Slot{SlotConst, i} }
func Temp(i uint32) Slot  { return Slot{SlotTemp, i} }

func (s Slot) String() string {
	switch s.Kind {
	case SlotParam:
		return fmt.Sprintf("p%d", s.Index)
	case SlotOut:
		return fmt.Sprintf("o%d", s.Index)
	case SlotConst:
		return fmt.Sprintf("c%d", s.Index)
	case SlotTemp:
		return fmt.Sprintf("t%d", s.Index)
	}
	return fmt.Sprintf("?%d", s.Index)
}
