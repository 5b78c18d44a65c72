package evaluator

import (
	"fmt"
	"math"
	"slices"
)

// lowerer turns expression trees into instructions. It never looks at two
// nodes at once, so equal subtrees are lowered twice.
type lowerer struct {
	fm     *FunctionMap
	params map[Symbol]uint32

	instrs  []Instruction
	temps   int
	labels  int
	consts  []complex128
	constAt map[complex128]uint32
	constOf map[*Number]int
}

func newLowerer(fm *FunctionMap, params []Symbol) *lowerer {
	lw := &lowerer{
		fm:      fm,
		params:  make(map[Symbol]uint32, len(params)),
		constAt: make(map[complex128]uint32),
		constOf: make(map[*Number]int),
	}
	for i, p := range params {
		lw.params[p] = uint32(i)
	}
	return lw
}

func (lw *lowerer) emit(in Instruction) {
	lw.instrs = append(lw.instrs, in)
}

func (lw *lowerer) temp() Slot {
	s := Temp(uint32(lw.temps))
	lw.temps++
	return s
}

func (lw *lowerer) label() int {
	id := lw.labels
	lw.labels++
	return id
}

// constant returns the pool slot holding z, adding it on first use.
func (lw *lowerer) constant(z complex128) Slot {
	if i, ok := lw.constAt[z]; ok {
		return Const(i)
	}
	i := uint32(len(lw.consts))
	lw.consts = append(lw.consts, z)
	lw.constAt[z] = i
	return Const(i)
}

// isReal reports whether s is known to hold a real value: only constants
// with a zero imaginary part qualify.
func (lw *lowerer) isReal(s Slot) bool {
	return s.Kind == SlotConst && imag(lw.consts[s.Index]) == 0
}

// nary emits an Add or Mul with the real operands moved to the front.
func (lw *lowerer) nary(op string, args []Slot) Slot {
	sorted := slices.Clone(args)
	slices.SortStableFunc(sorted, func(a, b Slot) int {
		ra, rb := lw.isReal(a), lw.isReal(b)
		switch {
		case ra && !rb:
			return -1
		case rb && !ra:
			return 1
		}
		return 0
	})
	n := 0
	for _, s := range sorted {
		if lw.isReal(s) {
			n++
		}
	}
	dst := lw.temp()
	if op == "+" {
		lw.emit(Add{Dst: dst, Args: sorted, NumReals: n})
	} else {
		lw.emit(Mul{Dst: dst, Args: sorted, NumReals: n})
	}
	return dst
}

// flatten collects the operands of a chain of the same associative op.
func flatten(op string, e Expr, out []Expr) []Expr {
	if b, ok := e.(*Binary); ok && b.Op == op {
		out = flatten(op, b.X, out)
		return flatten(op, b.Y, out)
	}
	return append(out, e)
}

func (lw *lowerer) lowerAll(es []Expr) ([]Slot, error) {
	out := make([]Slot, len(es))
	for i, e := range es {
		s, err := lw.lower(e)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

var comparisonFuncs = map[string]string{
	"<":  "lt",
	"<=": "le",
	">":  "gt",
	">=": "ge",
	"==": "eq",
	"!=": "neq",
}

// lower emits the instructions computing e and returns the slot holding
// its value.
func (lw *lowerer) lower(e Expr) (Slot, error) {
	switch n := e.(type) {
	case *Number:
		s := lw.constant(n.Value)
		lw.constOf[n] = int(s.Index)
		return s, nil

	case *Var:
		i, ok := lw.params[n.Sym]
		if !ok {
			return Slot{}, fmt.Errorf("%w: %s at col %d", ErrUnknownParam, n.Sym, n.At.Column)
		}
		return Param(i), nil

	case *Neg:
		x, err := lw.lower(n.X)
		if err != nil {
			return Slot{}, err
		}
		return lw.nary("*", []Slot{lw.constant(-1), x}), nil

	case *Binary:
		return lw.lowerBinary(n)

	case *Call:
		return lw.lowerCall(n)
	}
	return Slot{}, fmt.Errorf("unsupported expression %T", e)
}

func (lw *lowerer) lowerBinary(n *Binary) (Slot, error) {
	switch n.Op {
	case "+", "*":
		args, err := lw.lowerAll(flatten(n.Op, n, nil))
		if err != nil {
			return Slot{}, err
		}
		return lw.nary(n.Op, args), nil

	case "-":
		// x - y is x + (-1)*y
		x, err := lw.lower(n.X)
		if err != nil {
			return Slot{}, err
		}
		y, err := lw.lower(n.Y)
		if err != nil {
			return Slot{}, err
		}
		neg := lw.nary("*", []Slot{lw.constant(-1), y})
		return lw.nary("+", []Slot{x, neg}), nil

	case "/":
		// x / y is x * y^-1
		x, err := lw.lower(n.X)
		if err != nil {
			return Slot{}, err
		}
		y, err := lw.lower(n.Y)
		if err != nil {
			return Slot{}, err
		}
		inv := lw.temp()
		lw.emit(Pow{Dst: inv, Base: y, Exp: -1, IsReal: lw.isReal(y)})
		return lw.nary("*", []Slot{x, inv}), nil

	case "^":
		base, err := lw.lower(n.X)
		if err != nil {
			return Slot{}, err
		}
		if k, ok := integerExponent(n.Y); ok {
			dst := lw.temp()
			lw.emit(Pow{Dst: dst, Base: base, Exp: k, IsReal: lw.isReal(base)})
			return dst, nil
		}
		exp, err := lw.lower(n.Y)
		if err != nil {
			return Slot{}, err
		}
		dst := lw.temp()
		lw.emit(Powf{Dst: dst, Base: base, Exp: exp, IsReal: lw.isReal(base) && lw.isReal(exp)})
		return dst, nil
	}

	if name, ok := comparisonFuncs[n.Op]; ok {
		args, err := lw.lowerAll([]Expr{n.X, n.Y})
		if err != nil {
			return Slot{}, err
		}
		dst := lw.temp()
		lw.emit(ExternalFun{Dst: dst, Name: name, Args: args})
		return dst, nil
	}
	return Slot{}, fmt.Errorf("unsupported operator %q", n.Op)
}

// integerExponent recognizes literal integer exponents, including negated
// ones.
func integerExponent(e Expr) (int64, bool) {
	sign := int64(1)
	if neg, ok := e.(*Neg); ok {
		sign, e = -1, neg.X
	}
	n, ok := e.(*Number)
	if !ok || imag(n.Value) != 0 {
		return 0, false
	}
	v := real(n.Value)
	if v != math.Trunc(v) || math.Abs(v) > 1<<53 {
		return 0, false
	}
	return sign * int64(v), true
}

// isLeaf reports whether e lowers to an existing slot without emitting
// instructions.
func isLeaf(e Expr) bool {
	switch e.(type) {
	case *Number, *Var:
		return true
	}
	return false
}

func (lw *lowerer) lowerCall(n *Call) (Slot, error) {
	name := n.Func.Name()

	if name == "if" {
		if len(n.Args) != 3 {
			return Slot{}, fmt.Errorf("%w: if takes 3, got %d", ErrArity, len(n.Args))
		}
		return lw.lowerIf(n.Args[0], n.Args[1], n.Args[2])
	}

	if sym, ok := Builtin(name); ok {
		if len(n.Args) != 1 {
			return Slot{}, fmt.Errorf("%w: %s takes 1, got %d", ErrArity, name, len(n.Args))
		}
		arg, err := lw.lower(n.Args[0])
		if err != nil {
			return Slot{}, err
		}
		dst := lw.temp()
		lw.emit(Fun{Dst: dst, Func: sym, Arg: arg, IsReal: lw.isReal(arg)})
		return dst, nil
	}

	if ext, ok := lw.fm.External(n.Func); ok {
		args, err := lw.lowerAll(n.Args)
		if err != nil {
			return Slot{}, err
		}
		dst := lw.temp()
		lw.emit(ExternalFun{Dst: dst, Name: ext, Args: args})
		return dst, nil
	}
	return Slot{}, fmt.Errorf("%w: %s at col %d", ErrUnknownFunction, name, n.At.Column)
}

// lowerIf emits a branchless Join when both branches are leaves and
// explicit control flow otherwise, so only the taken branch is computed.
func (lw *lowerer) lowerIf(cond, then, els Expr) (Slot, error) {
	c, err := lw.lower(cond)
	if err != nil {
		return Slot{}, err
	}

	if isLeaf(then) && isLeaf(els) {
		t, err := lw.lower(then)
		if err != nil {
			return Slot{}, err
		}
		f, err := lw.lower(els)
		if err != nil {
			return Slot{}, err
		}
		dst := lw.temp()
		lw.emit(Join{Dst: dst, Cond: c, True: t, False: f})
		return dst, nil
	}

	dst := lw.temp()
	elseLabel, endLabel := lw.label(), lw.label()

	lw.emit(IfElse{Cond: c, Label: elseLabel})
	t, err := lw.lower(then)
	if err != nil {
		return Slot{}, err
	}
	lw.emit(Assign{Dst: dst, Src: t})
	lw.emit(Goto{Label: endLabel})

	lw.emit(Label{ID: elseLabel})
	f, err := lw.lower(els)
	if err != nil {
		return Slot{}, err
	}
	lw.emit(Assign{Dst: dst, Src: f})
	lw.emit(Label{ID: endLabel})
	return dst, nil
}
