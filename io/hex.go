package io

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"strconv"
	"strings"

	"github.com/ezrec/mipsim/cpu"
)

// HexLine is a value parsed from a hexadecimal image.
type HexLine struct {
	Index int    // Line index, counting from 0 and including blank lines.
	Value uint32 // Parsed value.
}

// ParseHex parses a single hexadecimal word. An optional sign and 0x
// prefix are accepted; negative values are stored in two's complement.
func ParseHex(text string) (value uint32, err error) {
	text = strings.TrimSpace(text)

	negative := false
	switch {
	case strings.HasPrefix(text, "-"):
		negative = true
		text = text[1:]
	case strings.HasPrefix(text, "+"):
		text = text[1:]
	}

	if len(text) > 2 && (text[:2] == "0x" || text[:2] == "0X") {
		text = text[2:]
	}

	u64, err := strconv.ParseUint(text, 16, 32)
	if err != nil || (negative && u64 > 0x80000000) {
		err = ErrHexValue
		return
	}

	value = uint32(u64)
	if negative {
		value = -value
	}

	return
}

// ReadHex returns an iterator over the values of a hexadecimal image,
// one per line. Blank lines are skipped but still counted.
//
// The iterator stops at the first malformed line, yielding an
// *ErrHexLine.
func ReadHex(input io.Reader) iter.Seq2[HexLine, error] {
	return func(yield func(line HexLine, err error) bool) {
		scanner := bufio.NewScanner(input)
		index := -1
		for scanner.Scan() {
			index++
			text := strings.TrimSpace(scanner.Text())
			if len(text) == 0 {
				continue
			}

			value, err := ParseHex(text)
			if err != nil {
				yield(HexLine{Index: index}, &ErrHexLine{LineNo: index + 1, Line: text, Err: err})
				return
			}

			if !yield(HexLine{Index: index, Value: value}, nil) {
				return
			}
		}

		err := scanner.Err()
		if err != nil {
			yield(HexLine{Index: index}, err)
		}
	}
}

// loadWords fills dst from a hexadecimal image, where line i sets dst[i].
// Values parsed before an error are kept.
func loadWords(dst []int32, input io.Reader) (err error) {
	for line, err := range ReadHex(input) {
		if err != nil {
			return err
		}
		if line.Index >= len(dst) {
			return &ErrHexLine{
				LineNo: line.Index + 1,
				Line:   fmt.Sprintf("%X", line.Value),
				Err:    ErrTooManyValues,
			}
		}
		dst[line.Index] = int32(line.Value)
	}

	return
}

// LoadRegisters initializes registers from a hexadecimal image.
// Registers without a line keep their value.
func LoadRegisters(regs *cpu.RegisterFile, input io.Reader) (err error) {
	return loadWords(regs[:], input)
}

// LoadMemory initializes memory from a hexadecimal image.
// Words without a line keep their value.
func LoadMemory(mem *cpu.Memory, input io.Reader) (err error) {
	return loadWords(mem[:], input)
}

// LoadProgram reads a program image, one instruction word per non-blank
// line. On error, the instructions read so far are still returned.
func LoadProgram(input io.Reader) (prog *cpu.Program, err error) {
	var words []uint32
	for line, line_err := range ReadHex(input) {
		if line_err != nil {
			err = line_err
			break
		}
		words = append(words, line.Value)
	}

	prog = cpu.NewProgram(words...)

	return
}

// WriteHex writes a program image, one instruction word per line.
func WriteHex(output io.Writer, prog *cpu.Program) (err error) {
	for _, code := range prog.Codes() {
		_, err = fmt.Fprintf(output, "%08X\n", uint32(code))
		if err != nil {
			return
		}
	}

	return
}
