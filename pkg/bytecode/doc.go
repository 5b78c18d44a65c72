// Package bytecode is the code generator's program representation for
// symjit kernels. A Builder accepts one append call per evaluator
// instruction and produces a Program: a register-addressed instruction list
// over four independent slot classes plus a complex constant pool.
//
// The program format is designed for:
//   - One instruction per evaluator operation (no re-ordering, no fusion)
//   - Slot operands that keep their class tag until the VM lays out frames
//   - Easy serialization (CBOR, see wire.go) so compiled artifacts can be
//     stored on disk or in the artifact cache
//
// # Architecture Overview
//
//   - Opcodes: a closed set of register instructions covering n-ary
//     arithmetic, integer and general powers, copies, function calls,
//     branchless selection and forward control flow
//
//   - Slots: Param, Out, Const and Temp, each densely indexed from zero.
//     Params and Consts are read-only; instructions write Outs and Temps.
//
//   - Functions: a fixed library of named real and complex functions.
//     Builtin symbols coming from the evaluator are re-tagged into
//     BuiltinSymbol and resolved against the same library.
//
//   - Builder: validates every append against the program flags (real or
//     complex, scalar or SIMD), resolves labels to instruction offsets and
//     rejects backward or dangling jumps.
//
// # Control Flow
//
// Labels are placed with OpLabel, which is a no-op at run time. OpJumpFalse
// skips forward to its label when the condition's real part is zero and
// OpJump skips forward unconditionally. Every jump target is strictly after
// the jump, so every program terminates after at most len(Code) steps.
//
// Execution lives in package vm, which offers a closure-compiled backend and
// a decode-and-dispatch interpreter over the same Program.
package bytecode
