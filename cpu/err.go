package cpu

import (
	"errors"
	"strconv"

	"github.com/ezrec/mipsim/translate"
)

var f = translate.From

var (
	// Execution errors
	ErrIllegalInstruction = errors.New(f("illegal instruction"))
	ErrIllegalOpcode      = errors.New(f("illegal opcode"))
	ErrIllegalFunct       = errors.New(f("illegal R-type function"))
	ErrInvalidAddress     = errors.New(f("invalid address"))

	// Assembler errors
	ErrEquateSyntax       = errors.New(f(".equ syntax"))
	ErrEquateDuplicate    = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate     = errors.New(f("label duplicated"))
	ErrLabelUnreachable   = errors.New(f("label unreachable"))
	ErrOpcodeExtraArgs    = errors.New(f("excessive arguments"))
	ErrOpcodeValueMissing = errors.New(f("value missing"))
	ErrRegisterInvalid    = errors.New(f("register invalid"))
	ErrInstructionInvalid = errors.New(f("instruction invalid"))
	ErrValueRange         = errors.New(f("value out of range"))
)

// AddressSpace names the storage an address refers to.
type AddressSpace int

const (
	SPACE_REGISTER = AddressSpace(0) // register
	SPACE_MEMORY   = AddressSpace(1) // memory
)

func (as AddressSpace) String() string {
	if as == SPACE_REGISTER {
		return "register"
	}
	return "memory"
}

// ErrAddress is an out of range register or memory index.
type ErrAddress struct {
	Space AddressSpace
	Index int
}

func (err *ErrAddress) Error() string {
	return f("invalid %v address %v", err.Space.String(), strconv.Itoa(err.Index))
}

func (err *ErrAddress) Is(target error) bool {
	return target == ErrInvalidAddress
}

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

type ErrOpcode Code

func (eo ErrOpcode) Error() string {
	return f("bad opcode 0x%08x", uint32(eo))
}

func (eo ErrOpcode) Is(err error) (ok bool) {
	_, ok = err.(ErrOpcode)
	return
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err *ErrSyntax) Error() string {
	return f("line %v '%v' %v", strconv.Itoa(err.LineNo), err.Line, err.Err)
}

func (err *ErrSyntax) Unwrap() error {
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
