package bytecode

import (
	"fmt"
	"strings"
)

// Disassemble returns a human-readable listing for the program.
func (p *Program) Disassemble() string {
	return p.DisassembleWithName("")
}

// DisassembleWithName returns a human-readable listing with a name header.
func (p *Program) DisassembleWithName(name string) string {
	var sb strings.Builder

	// Header
	if name != "" {
		sb.WriteString(fmt.Sprintf("; === %s ===\n", name))
	}
	sb.WriteString(fmt.Sprintf("; symjit bytecode v%d\n", p.Version))
	sb.WriteString(fmt.Sprintf("; Flags: 0x%04X", p.Flags))
	if p.Flags&FlagComplex != 0 {
		sb.WriteString(" [COMPLEX]")
	}
	if p.Flags&FlagSIMD != 0 {
		sb.WriteString(" [SIMD]")
	}
	if p.Flags&FlagHasBranches != 0 {
		sb.WriteString(" [BRANCHES]")
	}
	if p.Flags&FlagHasExternals != 0 {
		sb.WriteString(" [EXTERNALS]")
	}
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("; Slots: %d params, %d outs, %d temps\n", p.ParamCount, p.OutCount, p.TempCount))
	if len(p.Externals) > 0 {
		sb.WriteString(fmt.Sprintf("; Externals: %s\n", strings.Join(p.Externals, ", ")))
	}
	sb.WriteString("\n")

	// Constants
	if len(p.Constants) > 0 {
		sb.WriteString("; Constants:\n")
		for i, c := range p.Constants {
			if p.IsComplex() {
				sb.WriteString(fmt.Sprintf(";   [%3d] %v\n", i, c.Value()))
			} else {
				sb.WriteString(fmt.Sprintf(";   [%3d] %v\n", i, c.Re))
			}
		}
		sb.WriteString("\n")
	}

	// Code section
	sb.WriteString("; Code:\n")
	for pc, in := range p.Code {
		sb.WriteString(fmt.Sprintf("%04d  %s\n", pc, in.String()))
	}

	return sb.String()
}

// String formats a single instruction.
func (in Instr) String() string {
	info := GetOpcodeInfo(in.Op)

	args := make([]string, len(in.Args))
	for i, s := range in.Args {
		args[i] = s.String()
	}
	operands := strings.Join(args, ", ")

	switch in.Op {
	case OpNop:
		return info.Name
	case OpLabel:
		return fmt.Sprintf("%s L%d", info.Name, in.Imm)
	case OpJump:
		return fmt.Sprintf("%-10s -> %04d", info.Name, in.Imm)
	case OpJumpFalse:
		return fmt.Sprintf("%-10s %s -> %04d", info.Name, operands, in.Imm)
	case OpAdd, OpMul:
		return fmt.Sprintf("%-10s %s <- %s ; %d real", info.Name, in.Dst, operands, in.Imm)
	case OpPow:
		return fmt.Sprintf("%-10s %s <- %s ^ %d%s", info.Name, in.Dst, operands, in.Imm, realTag(in.Real))
	case OpCall, OpCallExt:
		return fmt.Sprintf("%-10s %s <- %s(%s)%s", info.Name, in.Dst, in.Func, operands, realTag(in.Real))
	default:
		return fmt.Sprintf("%-10s %s <- %s%s", info.Name, in.Dst, operands, realTag(in.Real))
	}
}

func realTag(isReal bool) string {
	if isReal {
		return " ; real"
	}
	return ""
}
