// Package evaluator is a small symbolic front end that produces the
// register-machine instruction stream consumed by the bridge.
//
// Expressions are parsed from infix text and lowered one node at a time:
// there is no simplification and no common-subexpression elimination, so
// the instruction stream mirrors the expression tree. Every computed value
// gets a fresh temporary slot.
package evaluator
