package cpu

import (
	"iter"
)

// Opcode is one instruction of a program, with its source location
// when it was assembled from text.
type Opcode struct {
	LineNo    int      // Source line, or 0 if loaded from a binary image.
	Index     int      // Program index.
	Words     []string // Source words.
	Code      Code     // Encoded instruction.
	LinkLabel string   // Label to resolve at link time.
}

// Program is an ordered, index addressed list of instructions.
type Program struct {
	Opcodes []Opcode
}

// NewProgram creates a program from raw instruction words.
func NewProgram(words ...uint32) (prog *Program) {
	prog = &Program{
		Opcodes: make([]Opcode, len(words)),
	}
	for n, word := range words {
		prog.Opcodes[n] = Opcode{Index: n, Code: Code(word)}
	}

	return
}

// Len returns the number of instructions in the program.
func (prog *Program) Len() int {
	return len(prog.Opcodes)
}

// Fetch returns the instruction at pc, and false if pc is outside
// the program.
func (prog *Program) Fetch(pc int) (code Code, ok bool) {
	if pc < 0 || pc >= len(prog.Opcodes) {
		return
	}

	return prog.Opcodes[pc].Code, true
}

// Debug returns the opcode at pc, or nil.
func (prog *Program) Debug(pc int) (op *Opcode) {
	if pc < 0 || pc >= len(prog.Opcodes) {
		return
	}

	return &prog.Opcodes[pc]
}

// Binary returns the program as raw instruction words.
func (prog *Program) Binary() (bins []uint32) {
	for _, code := range prog.Codes() {
		bins = append(bins, uint32(code))
	}

	return
}

// Codes returns an iterator over program index and instruction.
func (prog *Program) Codes() iter.Seq2[int, Code] {
	return func(yield func(pc int, code Code) bool) {
		for n, op := range prog.Opcodes {
			if !yield(n, op.Code) {
				return
			}
		}
	}
}
