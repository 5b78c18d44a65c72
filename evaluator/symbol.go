package evaluator

import (
	"fmt"
	"sync"
)

// Symbol is an interned name. Its id is stable for the life of the process.
type Symbol struct {
	id   uint32
	name string
}

// ID returns the interned id.
func (s Symbol) ID() uint32 { return s.id }

// Name returns the symbol's text.
func (s Symbol) Name() string { return s.name }

func (s Symbol) String() string { return s.name }

type symbolTable struct {
	sync.Mutex
	byName map[string]Symbol
	next   uint32
}

// builtinNames are interned when the table is created, so builtin symbol
// ids are 0 through 6 in this order.
var builtinNames = [...]string{"exp", "log", "sin", "cos", "sqrt", "abs", "conj"}

var symbols = newSymbolTable()

func newSymbolTable() *symbolTable {
	t := &symbolTable{byName: make(map[string]Symbol)}
	for _, name := range builtinNames {
		t.byName[name] = Symbol{id: t.next, name: name}
		t.next++
	}
	return t
}

// Intern returns the symbol for name, creating it on first use.
func Intern(name string) Symbol {
	symbols.Lock()
	defer symbols.Unlock()
	if s, ok := symbols.byName[name]; ok {
		return s
	}
	s := Symbol{id: symbols.next, name: name}
	symbols.next++
	symbols.byName[name] = s
	return s
}

// Symbols interns each name in order.
func Symbols(names ...string) []Symbol {
	out := make([]Symbol, len(names))
	for i, n := range names {
		out[i] = Intern(n)
	}
	return out
}

// Builtin function symbols.
var (
	SymExp  = Intern("exp")
	SymLog  = Intern("log")
	SymSin  = Intern("sin")
	SymCos  = Intern("cos")
	SymSqrt = Intern("sqrt")
	SymAbs  = Intern("abs")
	SymConj = Intern("conj")
)

var builtins = map[string]Symbol{
	"exp":  SymExp,
	"log":  SymLog,
	"sin":  SymSin,
	"cos":  SymCos,
	"sqrt": SymSqrt,
	"abs":  SymAbs,
	"conj": SymConj,
}

// Builtin returns the builtin function symbol called name.
func Builtin(name string) (Symbol, bool) {
	s, ok := builtins[name]
	return s, ok
}

// FunctionMap declares the functions an expression may call beyond the
// builtins. External functions are emitted by name and resolved by the
// code generator.
type FunctionMap struct {
	external map[Symbol]string
}

// NewFunctionMap returns an empty function map.
func NewFunctionMap() *FunctionMap {
	return &FunctionMap{external: make(map[Symbol]string)}
}

// AddExternalFunction makes calls to sym emit an external call to name.
func (fm *FunctionMap) AddExternalFunction(sym Symbol, name string) error {
	if _, ok := builtins[sym.name]; ok {
		return fmt.Errorf("%s is a builtin function", sym)
	}
	if prev, ok := fm.external[sym]; ok {
		return fmt.Errorf("%s is already mapped to external %q", sym, prev)
	}
	fm.external[sym] = name
	return nil
}

// External returns the external name registered for sym.
func (fm *FunctionMap) External(sym Symbol) (string, bool) {
	if fm == nil {
		return "", false
	}
	name, ok := fm.external[sym]
	return name, ok
}
