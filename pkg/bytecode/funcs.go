package bytecode

import "fmt"

// FuncID indexes the function library shared by the builder and the VM.
type FuncID uint16

// Function library. The order is part of the program format: append new
// entries at the end and bump BytecodeVersion when removing any.
const (
	FuncSin FuncID = iota
	FuncCos
	FuncTan
	FuncSinh
	FuncCosh
	FuncTanh
	FuncAsin
	FuncAcos
	FuncAtan
	FuncAsinh
	FuncAcosh
	FuncAtanh
	FuncExp
	FuncExp2
	FuncExpm1
	FuncLog
	FuncLog2
	FuncLog10
	FuncLog1p
	FuncSqrt
	FuncCbrt
	FuncAbs
	FuncSign
	FuncFloor
	FuncCeil
	FuncRound
	FuncTrunc
	FuncRecip
	FuncSquare
	FuncCube
	FuncNeg
	FuncConj
	FuncNot
	FuncPow
	FuncAtan2
	FuncHypot
	FuncMin
	FuncMax
	FuncLt
	FuncLe
	FuncGt
	FuncGe
	FuncEq
	FuncNeq
	FuncAnd
	FuncOr
	FuncXor
	FuncIfElse

	funcCount
)

// FuncInfo describes one library function.
type FuncInfo struct {
	Name    string
	Arity   int
	Complex bool // has a complex implementation
}

var funcTable = [funcCount]FuncInfo{
	FuncSin:    {"sin", 1, true},
	FuncCos:    {"cos", 1, true},
	FuncTan:    {"tan", 1, true},
	FuncSinh:   {"sinh", 1, true},
	FuncCosh:   {"cosh", 1, true},
	FuncTanh:   {"tanh", 1, true},
	FuncAsin:   {"asin", 1, true},
	FuncAcos:   {"acos", 1, true},
	FuncAtan:   {"atan", 1, true},
	FuncAsinh:  {"asinh", 1, true},
	FuncAcosh:  {"acosh", 1, true},
	FuncAtanh:  {"atanh", 1, true},
	FuncExp:    {"exp", 1, true},
	FuncExp2:   {"exp2", 1, false},
	FuncExpm1:  {"expm1", 1, false},
	FuncLog:    {"log", 1, true},
	FuncLog2:   {"log2", 1, false},
	FuncLog10:  {"log10", 1, true},
	FuncLog1p:  {"log1p", 1, false},
	FuncSqrt:   {"sqrt", 1, true},
	FuncCbrt:   {"cbrt", 1, false},
	FuncAbs:    {"abs", 1, true},
	FuncSign:   {"sign", 1, false},
	FuncFloor:  {"floor", 1, false},
	FuncCeil:   {"ceil", 1, false},
	FuncRound:  {"round", 1, false},
	FuncTrunc:  {"trunc", 1, false},
	FuncRecip:  {"recip", 1, true},
	FuncSquare: {"square", 1, true},
	FuncCube:   {"cube", 1, true},
	FuncNeg:    {"neg", 1, true},
	FuncConj:   {"conj", 1, true},
	FuncNot:    {"not", 1, true},
	FuncPow:    {"pow", 2, true},
	FuncAtan2:  {"atan2", 2, false},
	FuncHypot:  {"hypot", 2, false},
	FuncMin:    {"min", 2, false},
	FuncMax:    {"max", 2, false},
	FuncLt:     {"lt", 2, true},
	FuncLe:     {"le", 2, true},
	FuncGt:     {"gt", 2, true},
	FuncGe:     {"ge", 2, true},
	FuncEq:     {"eq", 2, true},
	FuncNeq:    {"neq", 2, true},
	FuncAnd:    {"and", 2, true},
	FuncOr:     {"or", 2, true},
	FuncXor:    {"xor", 2, true},
	FuncIfElse: {"ifelse", 3, true},
}

var funcByName = func() map[string]FuncID {
	m := make(map[string]FuncID, len(funcTable))
	for id, info := range funcTable {
		m[info.Name] = FuncID(id)
	}
	return m
}()

// FuncCount returns the number of library functions.
func FuncCount() int { return int(funcCount) }

// LookupFunc resolves a library function by name.
func LookupFunc(name string) (FuncID, bool) {
	id, ok := funcByName[name]
	return id, ok
}

// Info returns the metadata of a library function.
// Unknown ids yield a FuncInfo with an empty name.
func (f FuncID) Info() FuncInfo {
	if f >= funcCount {
		return FuncInfo{}
	}
	return funcTable[f]
}

// Valid reports whether f names a library function.
func (f FuncID) Valid() bool { return f < funcCount }

func (f FuncID) String() string {
	if f >= funcCount {
		return fmt.Sprintf("FuncID(%d)", f)
	}
	return funcTable[f].Name
}

// BuiltinSymbol is the evaluator's builtin function symbol id, re-tagged
// into the code generator's vocabulary without interpretation.
type BuiltinSymbol uint32

// Builtin symbol ids. These are the ids the evaluator assigns to its
// builtin function symbols, which it registers before any user symbol.
const (
	BuiltinExp BuiltinSymbol = iota
	BuiltinLog
	BuiltinSin
	BuiltinCos
	BuiltinSqrt
	BuiltinAbs
	BuiltinConj
)

var builtinFuncs = map[BuiltinSymbol]FuncID{
	BuiltinExp:  FuncExp,
	BuiltinLog:  FuncLog,
	BuiltinSin:  FuncSin,
	BuiltinCos:  FuncCos,
	BuiltinSqrt: FuncSqrt,
	BuiltinAbs:  FuncAbs,
	BuiltinConj: FuncConj,
}

// Func resolves a builtin symbol to its library function.
func (b BuiltinSymbol) Func() (FuncID, bool) {
	id, ok := builtinFuncs[b]
	return id, ok
}
