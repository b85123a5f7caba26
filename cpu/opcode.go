package cpu

import (
	"fmt"
)

// CodeOp is the primary opcode, bits 31-26 of an instruction word.
type CodeOp int

const (
	OP_SPECIAL = CodeOp(0)  // R-type, selected by funct
	OP_J       = CodeOp(2)  // j
	OP_BEQ     = CodeOp(4)  // beq
	OP_LW      = CodeOp(35) // lw
	OP_SW      = CodeOp(43) // sw
)

// CodeFunct is the R-type function selector, bits 5-0 of an instruction word.
type CodeFunct int

const (
	FUNCT_SLL = CodeFunct(0)  // sll
	FUNCT_SRL = CodeFunct(2)  // srl
	FUNCT_ADD = CodeFunct(32) // add
	FUNCT_SUB = CodeFunct(34) // sub
	FUNCT_AND = CodeFunct(36) // and
	FUNCT_OR  = CodeFunct(37) // or
)

var functNames = map[CodeFunct]string{
	FUNCT_SLL: "sll",
	FUNCT_SRL: "srl",
	FUNCT_ADD: "add",
	FUNCT_SUB: "sub",
	FUNCT_AND: "and",
	FUNCT_OR:  "or",
}

var opNames = map[CodeOp]string{
	OP_J:   "j",
	OP_BEQ: "beq",
	OP_LW:  "lw",
	OP_SW:  "sw",
}

func (op CodeOp) String() string {
	name, ok := opNames[op]
	if !ok {
		return fmt.Sprintf("CodeOp(%d)", int(op))
	}
	return name
}

func (fn CodeFunct) String() string {
	name, ok := functNames[fn]
	if !ok {
		return fmt.Sprintf("CodeFunct(%d)", int(fn))
	}
	return name
}

// CodeFormat is the encoding format of an instruction.
type CodeFormat int

const (
	FORMAT_UNKNOWN = CodeFormat(0)
	FORMAT_R       = CodeFormat(1) // R-Type
	FORMAT_I       = CodeFormat(2) // I-Type
	FORMAT_J       = CodeFormat(3) // J-Type
)

func (cf CodeFormat) String() string {
	switch cf {
	case FORMAT_R:
		return "R-Type"
	case FORMAT_I:
		return "I-Type"
	case FORMAT_J:
		return "J-Type"
	}
	return "Unknown"
}

// Code is a single 32-bit instruction word.
type Code uint32

// Fields are the bit fields of an instruction word. All fields are
// extracted for every word; which ones matter depends on the opcode.
type Fields struct {
	Opcode CodeOp
	Rs     int
	Rt     int
	Rd     int
	Shamt  int
	Funct  CodeFunct
	Imm    uint16 // I-type immediate, raw.
	Target uint32 // J-type 26 bit address.
}

// Decode splits an instruction word into its fields.
func Decode(code Code) (fields Fields) {
	word := uint32(code)
	fields = Fields{
		Opcode: CodeOp((word >> 26) & 0x3f),
		Rs:     int((word >> 21) & 0x1f),
		Rt:     int((word >> 16) & 0x1f),
		Rd:     int((word >> 11) & 0x1f),
		Shamt:  int((word >> 6) & 0x1f),
		Funct:  CodeFunct(word & 0x3f),
		Imm:    uint16(word & 0xffff),
		Target: word & 0x3ffffff,
	}
	return
}

// SignedImm returns the immediate sign extended from 16 bits.
func (fields Fields) SignedImm() int {
	return int(int16(fields.Imm))
}

// Makers for the three formats. Out of range fields are masked.

// MakeCodeR creates an R-type instruction.
func MakeCodeR(funct CodeFunct, rd, rs, rt, shamt int) Code {
	return Code((uint32(rs&0x1f) << 21) |
		(uint32(rt&0x1f) << 16) |
		(uint32(rd&0x1f) << 11) |
		(uint32(shamt&0x1f) << 6) |
		uint32(funct&0x3f))
}

// MakeCodeI creates an I-type instruction.
func MakeCodeI(op CodeOp, rs, rt int, imm uint16) Code {
	return Code((uint32(op&0x3f) << 26) |
		(uint32(rs&0x1f) << 21) |
		(uint32(rt&0x1f) << 16) |
		uint32(imm))
}

// MakeCodeJ creates a J-type instruction.
func MakeCodeJ(op CodeOp, target uint32) Code {
	return Code((uint32(op&0x3f) << 26) | (target & 0x3ffffff))
}

// Format returns the encoding format implied by the opcode.
func (code Code) Format() CodeFormat {
	switch Decode(code).Opcode {
	case OP_SPECIAL:
		return FORMAT_R
	case OP_LW, OP_SW, OP_BEQ:
		return FORMAT_I
	case OP_J:
		return FORMAT_J
	}
	return FORMAT_UNKNOWN
}

// Mnemonic returns the operation name, and false if the word is not a
// recognized instruction.
func (code Code) Mnemonic() (name string, ok bool) {
	fields := Decode(code)
	if fields.Opcode == OP_SPECIAL {
		name, ok = functNames[fields.Funct]
		return
	}
	name, ok = opNames[fields.Opcode]
	return
}

// Legal returns true if the word decodes to a supported instruction.
func (code Code) Legal() bool {
	_, ok := code.Mnemonic()
	return ok
}

// String returns the assembly language representation of this instruction.
func (code Code) String() (out string) {
	name, ok := code.Mnemonic()
	if !ok {
		return fmt.Sprintf(".word 0x%08x", uint32(code))
	}

	fields := Decode(code)
	switch fields.Opcode {
	case OP_SPECIAL:
		switch fields.Funct {
		case FUNCT_SLL, FUNCT_SRL:
			out = fmt.Sprintf("%v $%d, $%d, %d", name, fields.Rd, fields.Rt, fields.Shamt)
		default:
			out = fmt.Sprintf("%v $%d, $%d, $%d", name, fields.Rd, fields.Rs, fields.Rt)
		}
	case OP_LW, OP_SW:
		out = fmt.Sprintf("%v $%d, %d($%d)", name, fields.Rt, fields.Imm, fields.Rs)
	case OP_BEQ:
		out = fmt.Sprintf("%v $%d, $%d, %d", name, fields.Rs, fields.Rt, fields.SignedImm())
	case OP_J:
		out = fmt.Sprintf("%v %#x", name, fields.Target)
	}

	return
}
