package bridge

import "errors"

var (
	// ErrCompile wraps every translation and code generation failure.
	ErrCompile = errors.New("compile failed")

	// ErrIncompatible reports an artifact whose config does not fit the
	// runner it is loaded into.
	ErrIncompatible = errors.New("incompatible artifact")
)
