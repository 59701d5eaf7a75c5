package vm

import (
	"errors"
	"fmt"

	"github.com/GruelingPine185/Toy/opcodes"
)

// Sentinel errors for every failure kind spec.md §7 names. Handlers return
// these directly or wrapped in *Error; callers compare with errors.Is.
var (
	ErrUnknownOpcode  = errors.New("vm: unknown opcode")
	ErrBadArithmetic  = errors.New("vm: bad arithmetic operand types")
	ErrDivideByZero   = errors.New("vm: divide by zero")
	ErrStringOverflow = errors.New("vm: string concatenation exceeds max length")
	ErrBadType        = errors.New("vm: bad type in cast or comparison")
	ErrBadCast        = errors.New("vm: cannot cast a null value")
	ErrUndeclared     = errors.New("vm: undeclared identifier")
	ErrRedeclared     = errors.New("vm: identifier already declared")
	ErrTypeMismatch   = errors.New("vm: value does not match declared type")
	ErrConstViolation = errors.New("vm: cannot assign to a const variable")
	ErrBadCall        = errors.New("vm: bad function call")
	ErrTooManyReturns = errors.New("vm: too many values returned")
	ErrJumpOutOfRange = errors.New("vm: jump target out of range")
	ErrNullCompare    = errors.New("vm: null detected in comparison")
	ErrAssertionFailed = errors.New("vm: assertion failed")
	ErrStackOverflow  = errors.New("vm: grouping/call recursion too deep")
)

// Error decorates a sentinel failure with the instruction pointer and
// opcode active when it occurred, mirroring wudi-hey/vm.VMError's
// Type/Context/IP/Opcode fields and its Unwrap/Is pair.
type Error struct {
	Kind    error
	Message string
	IP      int
	Opcode  opcodes.Opcode
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("vm: %s at ip=%d opcode=%s: %s", e.Kind, e.IP, e.Opcode, e.Message)
	}
	return fmt.Sprintf("vm: %s at ip=%d opcode=%s", e.Kind, e.IP, e.Opcode)
}

func (e *Error) Unwrap() error { return e.Kind }

func (e *Error) Is(target error) bool { return errors.Is(e.Kind, target) }

// newError builds an *Error decorated with the interpreter's current
// instruction pointer and opcode.
func (in *Interpreter) newError(kind error, format string, args ...any) *Error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		IP:      in.ip,
		Opcode:  in.currentOpcode,
	}
}
