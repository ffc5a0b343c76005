package engine

import (
	"errors"
	"fmt"
)

// ErrorKind is the closed set of outcomes a decode or encode call can fail with.
type ErrorKind uint8

const (
	// UnknownInstruction means no table entry matches the opcode or mnemonic.
	UnknownInstruction ErrorKind = iota + 1
	// OperandNotAllowed means the mnemonic exists but no entry accepts the operands.
	OperandNotAllowed
	// OverflowRange means a value does not fit any compatible encoding, or a read ran past memory.
	OverflowRange
	// IllegalConstant means a numeric literal could not be evaluated.
	IllegalConstant
)

func (k ErrorKind) String() string {
	switch k {
	case UnknownInstruction:
		return "unknown instruction"
	case OperandNotAllowed:
		return "operand not allowed"
	case OverflowRange:
		return "overflow range"
	case IllegalConstant:
		return "illegal constant"
	default:
		return fmt.Sprintf("ErrorKind(%d)", uint8(k))
	}
}

// Error makes a kind usable as a sentinel with errors.Is.
func (k ErrorKind) Error() string {
	return k.String()
}

// Error is a failure carrying its kind and the address it happened at.
type Error struct {
	Kind ErrorKind
	Addr uint32
	Msg  string
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("%s at $%04X", e.Kind, e.Addr)
	}
	return fmt.Sprintf("%s at $%04X: %s", e.Kind, e.Addr, e.Msg)
}

// Unwrap exposes the kind.
func (e *Error) Unwrap() error {
	return e.Kind
}

// Errorf builds an *Error of the given kind.
func Errorf(kind ErrorKind, addr uint32, format string, args ...any) error {
	return &Error{Kind: kind, Addr: addr, Msg: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of err, or 0 if err carries none.
func KindOf(err error) ErrorKind {
	var k ErrorKind
	if errors.As(err, &k) {
		return k
	}
	return 0
}
