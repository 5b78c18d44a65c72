package vm

import "errors"

// Code generation and persistence errors.
var (
	ErrBackend     = errors.New("unknown backend")
	ErrMismatch    = errors.New("program does not match config")
	ErrUnavailable = errors.New("function unavailable in domain")
	ErrCorrupt     = errors.New("corrupt artifact")
	ErrVersion     = errors.New("artifact version mismatch")
)
