package bytecode

import "fmt"

// Opcode represents a register instruction.
// Opcodes are organized into ranges by category for easy identification.
type Opcode byte

const (
	// ========================================================================
	// Data movement (0x00-0x0F)
	// ========================================================================

	OpNop  Opcode = 0x00 // No operation
	OpMove Opcode = 0x01 // Copy: Dst = Args[0]

	// ========================================================================
	// Arithmetic (0x10-0x1F)
	// ========================================================================

	OpAdd  Opcode = 0x10 // Dst = sum(Args); Imm = number of real operands
	OpMul  Opcode = 0x11 // Dst = product(Args); Imm = number of real operands
	OpPow  Opcode = 0x12 // Dst = Args[0] ^ Imm (integer exponent)
	OpPowf Opcode = 0x13 // Dst = Args[0] ^ Args[1]

	// ========================================================================
	// Function calls (0x20-0x2F)
	// ========================================================================

	OpCall    Opcode = 0x20 // Builtin symbol call: Dst = Func(Args[0])
	OpCallExt Opcode = 0x21 // External call by name: Dst = Func(Args...)

	// ========================================================================
	// Selection (0x30-0x3F)
	// ========================================================================

	OpSelect Opcode = 0x30 // Dst = Args[0] != 0 ? Args[1] : Args[2]

	// ========================================================================
	// Control flow (0x80-0x8F)
	// ========================================================================

	OpLabel     Opcode = 0x80 // Jump target marker: Imm = label id
	OpJumpFalse Opcode = 0x81 // Skip to Imm when Args[0] is zero
	OpJump      Opcode = 0x82 // Skip to Imm unconditionally
)

// OpcodeInfo provides metadata about each opcode for debugging and validation.
type OpcodeInfo struct {
	Name    string // Human-readable name
	Args    int    // Number of operand slots (-1 = variable)
	HasDst  bool   // Whether the instruction writes Dst
	UsesImm bool   // Whether Imm is meaningful
}

// opcodeInfoTable maps opcodes to their metadata.
var opcodeInfoTable = map[Opcode]OpcodeInfo{
	OpNop:  {"NOP", 0, false, false},
	OpMove: {"MOVE", 1, true, false},

	OpAdd:  {"ADD", -1, true, true},
	OpMul:  {"MUL", -1, true, true},
	OpPow:  {"POW", 1, true, true},
	OpPowf: {"POWF", 2, true, false},

	OpCall:    {"CALL", 1, true, false},
	OpCallExt: {"CALL_EXT", -1, true, false},

	OpSelect: {"SELECT", 3, true, false},

	OpLabel:     {"LABEL", 0, false, true},
	OpJumpFalse: {"JUMP_FALSE", 1, false, true},
	OpJump:      {"JUMP", 0, false, true},
}

// GetOpcodeInfo returns metadata for an opcode.
// Returns a zero OpcodeInfo with name "UNKNOWN" if the opcode is not recognized.
func GetOpcodeInfo(op Opcode) OpcodeInfo {
	if info, ok := opcodeInfoTable[op]; ok {
		return info
	}
	return OpcodeInfo{Name: fmt.Sprintf("UNKNOWN(0x%02X)", byte(op))}
}

// String returns the human-readable name of an opcode.
func (op Opcode) String() string {
	return GetOpcodeInfo(op).Name
}

// Valid reports whether op is a defined opcode.
func (op Opcode) Valid() bool {
	_, ok := opcodeInfoTable[op]
	return ok
}

// IsJump returns true if this opcode transfers control.
func (op Opcode) IsJump() bool {
	return op == OpJump || op == OpJumpFalse
}

// IsCall returns true if this opcode calls into the function library.
func (op Opcode) IsCall() bool {
	return op == OpCall || op == OpCallExt
}

// AllOpcodes returns a slice of all defined opcodes.
func AllOpcodes() []Opcode {
	opcodes := make([]Opcode, 0, len(opcodeInfoTable))
	for op := range opcodeInfoTable {
		opcodes = append(opcodes, op)
	}
	return opcodes
}
