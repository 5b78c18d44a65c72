package bytecode

import "errors"

// Translation errors reported by Builder and Program.Validate.
var (
	ErrBadSlot         = errors.New("bad slot")
	ErrUnsupported     = errors.New("unsupported operation")
	ErrUnknownFunction = errors.New("unknown function")
	ErrArity           = errors.New("wrong number of arguments")
	ErrDuplicateLabel  = errors.New("duplicate label")
	ErrBackwardJump    = errors.New("backward jump")
	ErrUndefinedLabel  = errors.New("undefined label")
	ErrCapacity        = errors.New("slot capacity exceeded")
	ErrFinished        = errors.New("builder already finished")
)
