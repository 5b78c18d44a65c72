package bytecode

import (
	"strings"
	"testing"
)

func TestAllOpcodesHaveMetadata(t *testing.T) {
	for _, op := range AllOpcodes() {
		info := GetOpcodeInfo(op)
		if info.Name == "" || strings.HasPrefix(info.Name, "UNKNOWN") {
			t.Errorf("Opcode 0x%02X has no metadata", byte(op))
		}
	}
}

func TestOpcodeString(t *testing.T) {
	tests := []struct {
		op   Opcode
		want string
	}{
		{OpNop, "NOP"},
		{OpMove, "MOVE"},
		{OpAdd, "ADD"},
		{OpMul, "MUL"},
		{OpPow, "POW"},
		{OpPowf, "POWF"},
		{OpCall, "CALL"},
		{OpCallExt, "CALL_EXT"},
		{OpSelect, "SELECT"},
		{OpLabel, "LABEL"},
		{OpJumpFalse, "JUMP_FALSE"},
		{OpJump, "JUMP"},
	}

	for _, tt := range tests {
		got := tt.op.String()
		if got != tt.want {
			t.Errorf("Opcode(0x%02X).String() = %q, want %q", byte(tt.op), got, tt.want)
		}
	}
}

func TestUnknownOpcode(t *testing.T) {
	op := Opcode(0xEE)
	if !strings.HasPrefix(op.String(), "UNKNOWN") {
		t.Errorf("Unknown opcode should return UNKNOWN, got %q", op.String())
	}
	if op.Valid() {
		t.Error("0xEE should not be valid")
	}
}

func TestOpcodeCategories(t *testing.T) {
	if !OpJump.IsJump() || !OpJumpFalse.IsJump() {
		t.Error("jumps should report IsJump")
	}
	if OpLabel.IsJump() {
		t.Error("OpLabel is a marker, not a jump")
	}
	if !OpCall.IsCall() || !OpCallExt.IsCall() {
		t.Error("calls should report IsCall")
	}
}

func TestFuncLibrary(t *testing.T) {
	if FuncCount() != int(funcCount) {
		t.Fatalf("FuncCount() = %d, want %d", FuncCount(), funcCount)
	}
	for id := FuncID(0); int(id) < FuncCount(); id++ {
		info := id.Info()
		if info.Name == "" {
			t.Errorf("FuncID %d has no name", id)
			continue
		}
		if info.Arity < 1 || info.Arity > 3 {
			t.Errorf("%s arity = %d", info.Name, info.Arity)
		}
		got, ok := LookupFunc(info.Name)
		if !ok || got != id {
			t.Errorf("LookupFunc(%q) = %d, %v, want %d", info.Name, got, ok, id)
		}
	}
	if _, ok := LookupFunc("frobnicate"); ok {
		t.Error("LookupFunc should not find unknown names")
	}
}

func TestBuiltinSymbols(t *testing.T) {
	tests := []struct {
		sym  BuiltinSymbol
		want FuncID
	}{
		{BuiltinExp, FuncExp},
		{BuiltinLog, FuncLog},
		{BuiltinSin, FuncSin},
		{BuiltinCos, FuncCos},
		{BuiltinSqrt, FuncSqrt},
		{BuiltinAbs, FuncAbs},
		{BuiltinConj, FuncConj},
	}
	for _, tt := range tests {
		got, ok := tt.sym.Func()
		if !ok || got != tt.want {
			t.Errorf("BuiltinSymbol(%d).Func() = %s, %v, want %s", tt.sym, got, ok, tt.want)
		}
	}
	if _, ok := BuiltinSymbol(999).Func(); ok {
		t.Error("unknown builtin symbol should not resolve")
	}
}
