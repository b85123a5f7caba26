// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO": "0",
}

// Assembler is a single pass assembler for the instruction subset.
//
// Branch and jump labels are resolved against the program counter
// policy of the machine: a taken branch or jump adds four times its
// immediate to the program index, so a label is only reachable when
// its distance from the instruction is a multiple of four.
type Assembler struct {
	Verbose bool     // If set, verbosely logs the assembler actions.
	Opcode  []Opcode // List of generated opcodes.

	predefine map[string]string // Predefines
	Label     map[string]int    // Map of labels to program indexes.
	Equate    map[string]string // Map of equates.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// valueOf returns the value of a simple numeric word.
func (asm *Assembler) valueOf(word string) (value int64, err error) {
	value, err = strconv.ParseInt(strings.ReplaceAll(word, "_", ""), 0, 64)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	return
}

// rangeOf returns the value of a word, checked against [lo, hi].
func (asm *Assembler) rangeOf(word string, lo, hi int64) (value int64, err error) {
	value, err = asm.valueOf(word)
	if err != nil {
		return
	}

	if value < lo || value > hi {
		err = fmt.Errorf("%w: %v", ErrValueRange, word)
		return
	}

	return
}

var reRegister = regexp.MustCompile(`^(\$|r)([0-9]+)$`)

// registerOf returns the register index of a word.
func (asm *Assembler) registerOf(word string) (reg int, err error) {
	match := reRegister.FindStringSubmatch(word)
	if match == nil {
		err = fmt.Errorf("%w: %v", ErrRegisterInvalid, word)
		return
	}

	reg, err = strconv.Atoi(match[2])
	if err != nil || reg >= REGISTER_COUNT {
		err = fmt.Errorf("%w: %v", ErrRegisterInvalid, word)
		return
	}

	return
}

var reMemory = regexp.MustCompile(`^([^(]*)\(([^)]+)\)$`)

// memoryOf decodes an 'offset(base)' operand.
func (asm *Assembler) memoryOf(word string) (base int, offset uint16, err error) {
	match := reMemory.FindStringSubmatch(word)
	if match == nil {
		err = fmt.Errorf("%w: %v", ErrRegisterInvalid, word)
		return
	}

	if len(match[1]) != 0 {
		var value int64
		value, err = asm.rangeOf(asm.equate(match[1]), -0x8000, 0xffff)
		if err != nil {
			return
		}
		offset = uint16(value)
	}

	base, err = asm.registerOf(asm.equate(match[2]))
	return
}

// equate substitutes an equate for a word, if one is defined.
func (asm *Assembler) equate(word string) string {
	equate, ok := asm.Equate[word]
	if ok {
		return equate
	}
	return word
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int64, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		var value64 int64
		value64, err = asm.valueOf(str)
		if err != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			err = nil
			continue
		}
		pred[key] = starlark.MakeInt64(value64)
	}
	for key, index := range asm.Label {
		pred[key] = starlark.MakeInt(index)
	}
	pred["PC"] = starlark.MakeInt(len(asm.Opcode))

	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value, ok = st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	return
}

var reParen = regexp.MustCompile(`\$\([^\$]*\)`)

// parseLine splits a single line into words, handling equates, labels,
// and expressions.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do $() evaluations
	line = reParen.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%v", value)
	})
	if err != nil {
		return
	}

	words = strings.Fields(strings.ReplaceAll(line, ",", " "))
	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for len(words) > 0 && strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}

		if asm.Label == nil {
			asm.Label = make(map[string]int, 16)
		}
		asm.Label[label] = len(asm.Opcode)
		words = words[1:]
	}

	for n, word := range words {
		if n == 0 {
			continue
		}
		words[n] = asm.equate(word)
	}

	return
}

// Parse parses an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	clear(asm.Label)
	asm.Opcode = asm.Opcode[:0]
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			logrus.WithField("line", lineno).Debug(text)
		}

		if cut := strings.IndexAny(text, ";#"); cut >= 0 {
			text = text[:cut]
		}
		line = strings.TrimSpace(text)

		var words []string
		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	// Final linking of labels.
	line = ""
	for n := range asm.Opcode {
		op := &asm.Opcode[n]

		if len(op.LinkLabel) == 0 {
			continue
		}
		lineno = op.LineNo
		err = asm.link(op)
		if err != nil {
			return
		}
	}

	prog = &Program{
		Opcodes: slices.Clone(asm.Opcode),
	}

	return
}

// link resolves the label of a branch or jump.
func (asm *Assembler) link(op *Opcode) (err error) {
	label := op.LinkLabel
	index, ok := asm.Label[label]
	if !ok {
		err = ErrLabelMissing(label)
		return
	}

	delta := index - op.Index
	if delta%WORD_SIZE != 0 {
		err = fmt.Errorf("%w: %v", ErrLabelUnreachable, label)
		return
	}
	count := delta / WORD_SIZE

	fields := Decode(op.Code)
	switch fields.Opcode {
	case OP_BEQ:
		if count < -0x8000 || count > 0x7fff {
			err = fmt.Errorf("%w: %v", ErrLabelUnreachable, label)
			return
		}
		op.Code = MakeCodeI(OP_BEQ, fields.Rs, fields.Rt, uint16(count))
	case OP_J:
		if count < 0 || count > 0x3ffffff {
			err = fmt.Errorf("%w: %v", ErrLabelUnreachable, label)
			return
		}
		op.Code = MakeCodeJ(OP_J, uint32(count))
	default:
		err = ErrInstructionInvalid
	}

	return
}

// isLabel returns true if the word must be resolved as a label.
func isLabel(word string) bool {
	_, err := strconv.ParseInt(strings.ReplaceAll(word, "_", ""), 0, 64)
	return err != nil
}

// aluMap maps register-register operation names.
var aluMap = map[string]CodeFunct{
	"add": FUNCT_ADD,
	"sub": FUNCT_SUB,
	"and": FUNCT_AND,
	"or":  FUNCT_OR,
}

// shiftMap maps shift operation names.
var shiftMap = map[string]CodeFunct{
	"sll": FUNCT_SLL,
	"srl": FUNCT_SRL,
}

// memMap maps load and store operation names.
var memMap = map[string]CodeOp{
	"lw": OP_LW,
	"sw": OP_SW,
}

// argCount checks that an instruction has exactly count operands.
func argCount(words []string, count int) (err error) {
	switch {
	case len(words) < count+1:
		err = ErrOpcodeValueMissing
	case len(words) > count+1:
		err = ErrOpcodeExtraArgs
	}
	return
}

// parseWords evaluates the words in a line of assembly text.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	var code Code
	var label string

	// no-op
	if len(words) == 0 {
		return
	}

	defer func() {
		if err != nil {
			return
		}
		opcode := Opcode{LineNo: lineno, Index: len(asm.Opcode), Words: words, Code: code, LinkLabel: label}
		asm.Opcode = append(asm.Opcode, opcode)
	}()

	name := words[0]

	if funct, ok := aluMap[name]; ok {
		err = argCount(words, 3)
		if err != nil {
			return
		}
		var regs [3]int
		for n := range regs {
			regs[n], err = asm.registerOf(words[1+n])
			if err != nil {
				return
			}
		}
		code = MakeCodeR(funct, regs[0], regs[1], regs[2], 0)
		return
	}

	if funct, ok := shiftMap[name]; ok {
		err = argCount(words, 3)
		if err != nil {
			return
		}
		var rd, rt int
		rd, err = asm.registerOf(words[1])
		if err != nil {
			return
		}
		rt, err = asm.registerOf(words[2])
		if err != nil {
			return
		}
		var shamt int64
		shamt, err = asm.rangeOf(words[3], 0, 31)
		if err != nil {
			return
		}
		code = MakeCodeR(funct, rd, 0, rt, int(shamt))
		return
	}

	if op, ok := memMap[name]; ok {
		err = argCount(words, 2)
		if err != nil {
			return
		}
		var rt, base int
		var offset uint16
		rt, err = asm.registerOf(words[1])
		if err != nil {
			return
		}
		base, offset, err = asm.memoryOf(words[2])
		if err != nil {
			return
		}
		code = MakeCodeI(op, base, rt, offset)
		return
	}

	switch name {
	case "nop":
		err = argCount(words, 0)
		if err != nil {
			return
		}
		code = MakeCodeR(FUNCT_SLL, 0, 0, 0, 0)
	case ".word":
		err = argCount(words, 1)
		if err != nil {
			return
		}
		var value int64
		value, err = asm.rangeOf(words[1], -0x80000000, 0xffffffff)
		if err != nil {
			return
		}
		code = Code(uint32(value))
	case "beq":
		err = argCount(words, 3)
		if err != nil {
			return
		}
		var rs, rt int
		rs, err = asm.registerOf(words[1])
		if err != nil {
			return
		}
		rt, err = asm.registerOf(words[2])
		if err != nil {
			return
		}
		var imm int64
		if isLabel(words[3]) {
			label = words[3]
		} else {
			imm, err = asm.rangeOf(words[3], -0x8000, 0xffff)
			if err != nil {
				return
			}
		}
		code = MakeCodeI(OP_BEQ, rs, rt, uint16(imm))
	case "j":
		err = argCount(words, 1)
		if err != nil {
			return
		}
		var target int64
		if isLabel(words[1]) {
			label = words[1]
		} else {
			target, err = asm.rangeOf(words[1], 0, 0x3ffffff)
			if err != nil {
				return
			}
		}
		code = MakeCodeJ(OP_J, uint32(target))
	default:
		err = fmt.Errorf("%w: %v", ErrInstructionInvalid, name)
		return
	}

	return
}
