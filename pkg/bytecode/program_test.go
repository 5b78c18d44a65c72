package bytecode

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestProgramSerializeRoundTrip(t *testing.T) {
	b := NewBuilder(FlagComplex | FlagSIMD)
	b.AppendConstant(complex(math.Pi, -0.25))
	b.AppendConstant(complex(math.Inf(1), 0))
	b.AppendMul(Temp(0), []Slot{Const(0), Param(0)}, 1)
	b.AppendFun(Temp(1), BuiltinSin, Temp(0), false)
	b.AppendIfElse(Param(1), 3)
	b.AppendPowf(Temp(1), Temp(1), Param(1), false)
	b.AppendLabel(3)
	b.AppendAssign(Out(0), Temp(1))
	p, err := b.Finish()
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}

	data, err := p.Serialize()
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if string(data[:4]) != "SJBC" {
		t.Errorf("magic = %q, want SJBC", data[:4])
	}

	got, err := Deserialize(data)
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	if got.Flags != p.Flags {
		t.Errorf("Flags = %v, want %v", got.Flags, p.Flags)
	}
	if got.ParamCount != p.ParamCount || got.OutCount != p.OutCount || got.TempCount != p.TempCount {
		t.Errorf("slot counts = %d/%d/%d, want %d/%d/%d",
			got.ParamCount, got.OutCount, got.TempCount, p.ParamCount, p.OutCount, p.TempCount)
	}
	for i := range p.Constants {
		if math.Float64bits(got.Constants[i].Re) != math.Float64bits(p.Constants[i].Re) ||
			math.Float64bits(got.Constants[i].Im) != math.Float64bits(p.Constants[i].Im) {
			t.Errorf("constant %d = %v, want %v", i, got.Constants[i], p.Constants[i])
		}
	}
	if len(got.Code) != len(p.Code) {
		t.Fatalf("len(Code) = %d, want %d", len(got.Code), len(p.Code))
	}
	for i := range p.Code {
		if got.Code[i].String() != p.Code[i].String() {
			t.Errorf("Code[%d] = %s, want %s", i, got.Code[i], p.Code[i])
		}
	}
}

func TestDeserializeErrors(t *testing.T) {
	p := buildXPlusYSquared(t, 0)
	good, err := p.Serialize()
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"short", []byte("SJ"), "too short"},
		{"magic", append([]byte("XXXX"), good[4:]...), "magic"},
		{"version", append(append([]byte{}, good[:4]...), append([]byte{0xFF, 0xFF}, good[6:]...)...), "newer"},
		{"body", append(append([]byte{}, good[:6]...), 0xFF), "unmarshal"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Deserialize(tt.data)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Deserialize error = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestValidateRejectsBadPrograms(t *testing.T) {
	tests := []struct {
		name string
		prog Program
		want error
	}{
		{
			name: "param out of range",
			prog: Program{OutCount: 1, Code: []Instr{{Op: OpMove, Dst: Out(0), Args: []Slot{Param(0)}}}},
			want: ErrBadSlot,
		},
		{
			name: "jump to non-label",
			prog: Program{Flags: FlagHasBranches, ParamCount: 1, Code: []Instr{{Op: OpJump, Imm: 1}, {Op: OpNop}}},
			want: ErrUndefinedLabel,
		},
		{
			name: "backward jump",
			prog: Program{Flags: FlagHasBranches, Code: []Instr{{Op: OpLabel}, {Op: OpJump, Imm: 0}}},
			want: ErrUndefinedLabel,
		},
		{
			name: "jump without branch flag",
			prog: Program{ParamCount: 1, OutCount: 1, Code: []Instr{
				{Op: OpJump, Imm: 2},
				{Op: OpMove, Dst: Out(0), Args: []Slot{Param(0)}},
				{Op: OpLabel},
			}},
			want: ErrUnsupported,
		},
		{
			name: "conditional jump without branch flag",
			prog: Program{ParamCount: 1, Code: []Instr{
				{Op: OpJumpFalse, Args: []Slot{Param(0)}, Imm: 1},
				{Op: OpLabel},
			}},
			want: ErrUnsupported,
		},
		{
			name: "bad arity",
			prog: Program{ParamCount: 1, OutCount: 1, Code: []Instr{{Op: OpSelect, Dst: Out(0), Args: []Slot{Param(0)}}}},
			want: ErrArity,
		},
		{
			name: "complex constant in real program",
			prog: Program{Constants: []Constant{{Re: 1, Im: 1}}},
			want: ErrUnsupported,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.prog.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDisassemble(t *testing.T) {
	p := buildXPlusYSquared(t, 0)
	out := p.DisassembleWithName("x + y^2")

	for _, want := range []string{
		"; === x + y^2 ===",
		"; Slots: 2 params, 1 outs, 1 temps",
		"POW",
		"$t0 <- $p1 ^ 2",
		"ADD",
		"$o0 <- $p0, $t0 ; 0 real",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("disassembly missing %q:\n%s", want, out)
		}
	}
}
