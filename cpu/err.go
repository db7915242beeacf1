package cpu

import (
	"errors"

	"github.com/ezrec/ls8/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrDivisionByZero  = errors.New(f("division by zero"))
	ErrHalted          = errors.New(f("cpu halted"))
	ErrErrored         = errors.New(f("cpu stopped on error"))
	ErrProgramTooLarge = errors.New(f("program too large"))
	ErrNoOutput        = errors.New(f("no output channel"))

	// Loader and assembler errors
	ErrEquateSyntax       = errors.New(f(".equ syntax"))
	ErrEquateDuplicate    = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate     = errors.New(f("label duplicated"))
	ErrLabelSyntax        = errors.New(f("label syntax"))
	ErrOpcodeInvalid      = errors.New(f("opcode invalid"))
	ErrOpcodeExtraArgs    = errors.New(f("excessive arguments"))
	ErrOpcodeValueMissing = errors.New(f("value missing"))
	ErrRegisterInvalid    = errors.New(f("register invalid"))
	ErrValueRange         = errors.New(f("value out of range"))
)

// ErrUnknownOpcode is returned when the byte at PC is not in the dispatch table.
type ErrUnknownOpcode struct {
	Pc     byte
	Opcode byte
}

func (err ErrUnknownOpcode) Error() string {
	return f("unknown opcode %#02x at address %d", err.Opcode, err.Pc)
}

// ErrInstruction locates the instruction that failed.
type ErrInstruction struct {
	Pc     byte
	Opcode Opcode
}

func (err ErrInstruction) Error() string {
	return f("%v at address %d", err.Opcode.String(), err.Pc)
}

type ErrAluUnsupported AluOp

func (err ErrAluUnsupported) Error() string {
	return f("unsupported alu operation %v", AluOp(err).String())
}

type ErrMemoryRange int

func (err ErrMemoryRange) Error() string {
	return f("memory address %d out of range", int(err))
}

type ErrRegisterRange byte

func (err ErrRegisterRange) Error() string {
	return f("register %d out of range", int(err))
}

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
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

type ErrParseBinary string

func (err ErrParseBinary) Error() string {
	return f("'%v' is not an 8-bit binary literal", string(err))
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}
