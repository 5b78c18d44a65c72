package evaluator

import (
	"fmt"
	"strings"
)

// Instruction is one step of the register machine. The set of variants is
// closed: every implementation lives in this file.
type Instruction interface {
	fmt.Stringer
	instruction() // marker method
}

// Add computes Dst = sum(Args). The first NumReals operands are known to
// be real.
type Add struct {
	Dst      Slot
	Args     []Slot
	NumReals int
}

// Mul computes Dst = product(Args). The first NumReals operands are known
// to be real.
type Mul struct {
	Dst      Slot
	Args     []Slot
	NumReals int
}

// Pow computes Dst = Base^Exp for an integer exponent.
type Pow struct {
	Dst    Slot
	Base   Slot
	Exp    int64
	IsReal bool
}

// Powf computes Dst = Base^Exp for a slot-valued exponent.
type Powf struct {
	Dst    Slot
	Base   Slot
	Exp    Slot
	IsReal bool
}

// Assign copies Src into Dst.
type Assign struct {
	Dst Slot
	Src Slot
}

// Fun applies a builtin function symbol to one argument.
type Fun struct {
	Dst    Slot
	Func   Symbol
	Arg    Slot
	IsReal bool
}

// ExternalFun calls a function by name.
type ExternalFun struct {
	Dst  Slot
	Name string
	Args []Slot
}

// Join selects True when Cond is nonzero and False otherwise.
type Join struct {
	Dst   Slot
	Cond  Slot
	True  Slot
	False Slot
}

// Label marks a jump target.
type Label struct {
	ID int
}

// IfElse falls through when Cond is nonzero and skips forward to Label
// when it is zero.
type IfElse struct {
	Cond  Slot
	Label int
}

// Goto skips forward to Label.
type Goto struct {
	Label int
}

func (Add) instruction()         {}
func (Mul) instruction()         {}
func (Pow) instruction()         {}
func (Powf) instruction()        {}
func (Assign) instruction()      {}
func (Fun) instruction()         {}
func (ExternalFun) instruction() {}
func (Join) instruction()        {}
func (Label) instruction()       {}
func (IfElse) instruction()      {}
func (Goto) instruction()        {}

func joinSlots(ss []Slot, sep string) string {
	parts := make([]string, len(ss))
	for i, s := range ss {
		parts[i] = s.String()
	}
	return strings.Join(parts, sep)
}

func (in Add) String() string { return fmt.Sprintf("%s = %s", in.Dst, joinSlots(in.Args, " + ")) }
func (in Mul) String() string { return fmt.Sprintf("%s = %s", in.Dst, joinSlots(in.Args, " * ")) }
func (in Pow) String() string { return fmt.Sprintf("%s = %s^%d", in.Dst, in.Base, in.Exp) }
func (in Powf) String() string {
	return fmt.Sprintf("%s = %s^%s", in.Dst, in.Base, in.Exp)
}
func (in Assign) String() string { return fmt.Sprintf("%s = %s", in.Dst, in.Src) }
func (in Fun) String() string    { return fmt.Sprintf("%s = %s(%s)", in.Dst, in.Func, in.Arg) }
func (in ExternalFun) String() string {
	return fmt.Sprintf("%s = %s(%s)", in.Dst, in.Name, joinSlots(in.Args, ", "))
}
func (in Join) String() string {
	return fmt.Sprintf("%s = %s ? %s : %s", in.Dst, in.Cond, in.True, in.False)
}
func (in Label) String() string  { return fmt.Sprintf("L%d:", in.ID) }
func (in IfElse) String() string { return fmt.Sprintf("if %s == 0 goto L%d", in.Cond, in.Label) }
func (in Goto) String() string   { return fmt.Sprintf("goto L%d", in.Label) }
