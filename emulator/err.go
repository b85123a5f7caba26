package emulator

import (
	"errors"
	"strconv"

	"github.com/ezrec/mipsim/translate"
)

var f = translate.From

var (
	ErrUserQuit            = errors.New(f("user quit"))
	ErrPcInvalid           = errors.New(f("program counter before start of program"))
	ErrModeInvalid         = errors.New(f("mode must be Single_Step or Run_All"))
	ErrPolicyInvalid       = errors.New(f("report policy must be auto, verbose or silent"))
	ErrContinuationMissing = errors.New(f("single step mode requires a continuation source"))
)

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	Pc     int // Program index of the failing instruction.
	LineNo int // Source line, if the program was assembled.
	Err    error
}

func (err *ErrRuntime) Error() string {
	if err.LineNo != 0 {
		return f("pc %v line %v %v", strconv.Itoa(err.Pc), strconv.Itoa(err.LineNo), err.Err)
	}
	return f("pc %v %v", strconv.Itoa(err.Pc), err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
