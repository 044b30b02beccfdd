package cpu

import (
	"github.com/ezrec/mipsim/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrPcEmpty          = translate.Error("pc past end of code")
	ErrOutOfBounds      = translate.Error("out of bounds")
	ErrMisalignedAccess = translate.Error("misaligned access")

	// Assembler errors
	ErrEquateSyntax       = translate.Error(".equ syntax")
	ErrEquateDuplicate    = translate.Error(".equ duplicated")
	ErrLabelDuplicate     = translate.Error("label duplicated")
	ErrOpcodeExtraArgs    = translate.Error("excessive arguments")
	ErrOpcodeValueMissing = translate.Error("value missing")
	ErrRegisterInvalid    = translate.Error("register invalid")
	ErrImmediateRange     = translate.Error("immediate out of range")
	ErrTargetInvalid      = translate.Error("target invalid")
	ErrInstructionInvalid = translate.Error("instruction invalid")
	ErrCodeLimit          = translate.Error("program exceeds code limit")
)

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

type ErrOpcode Code

func (eo ErrOpcode) Error() string {
	return f("bad opcode 0x%08x %v", uint32(eo), Code(eo).String())
}

func (eo ErrOpcode) Is(err error) (ok bool) {
	_, ok = err.(ErrOpcode)
	return
}

// ErrAddress records the memory address of a failed access.
type ErrAddress struct {
	Address int
	Err     error
}

func (err *ErrAddress) Error() string {
	return f("address %d %v", err.Address, err.Err)
}

func (err *ErrAddress) Unwrap() error {
	return err.Err
}

// ErrRegister records the register index of a failed access.
type ErrRegister struct {
	Index int
	Err   error
}

func (err *ErrRegister) Error() string {
	return f("register %d %v", err.Index, err.Err)
}

func (err *ErrRegister) Unwrap() error {
	return err.Err
}

// ErrPc records the program counter of a failed fetch.
type ErrPc struct {
	Pc  int
	Err error
}

func (err *ErrPc) Error() string {
	return f("pc %d %v", err.Pc, err.Err)
}

func (err *ErrPc) Unwrap() error {
	return err.Err
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}
