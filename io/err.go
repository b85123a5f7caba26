package io

import (
	"errors"
	"strconv"

	"github.com/ezrec/mipsim/translate"
)

var f = translate.From

var (
	ErrTooManyValues = errors.New(f("too many values"))
	ErrHexValue      = errors.New(f("not a 32-bit hexadecimal value"))
)

// ErrHexLine indicates the location of a load error.
type ErrHexLine struct {
	LineNo int // Line number, counting from 1.
	Line   string
	Err    error
}

func (err *ErrHexLine) Error() string {
	return f("line %v '%v' %v", strconv.Itoa(err.LineNo), err.Line, err.Err)
}

func (err *ErrHexLine) Unwrap() error {
	return err.Err
}

// ErrFile indicates the file a load error came from.
type ErrFile struct {
	Name string
	Err  error
}

func (err *ErrFile) Error() string {
	return f("%v: %v", err.Name, err.Err)
}

func (err *ErrFile) Unwrap() error {
	return err.Err
}
