package emulator

import (
	"fmt"
	"io"

	"github.com/ezrec/mipsim/cpu"
)

// WriteStatus writes the single step status line: the next program
// counter, the instruction just executed, and the register bank.
func WriteStatus(output io.Writer, pc int, code cpu.Code, cp *cpu.Cpu) (err error) {
	_, err = fmt.Fprintf(output, "PC: %d, Instruction: 0x%08X, Registers: %v\n", pc, uint32(code), cp.String())
	return
}

// WriteState writes the final contents of every register and memory word.
// Memory words are labelled by byte address.
func WriteState(output io.Writer, cp *cpu.Cpu) (err error) {
	_, err = fmt.Fprintf(output, "Final Register Values:\n")
	if err != nil {
		return
	}
	for n, value := range cp.Register.All() {
		_, err = fmt.Fprintf(output, "R%d: %d\n", n, value)
		if err != nil {
			return
		}
	}

	_, err = fmt.Fprintf(output, "\nFinal Memory Contents:\n")
	if err != nil {
		return
	}
	for n, value := range cp.Memory.All() {
		_, err = fmt.Fprintf(output, "Memory[%d]: %d\n", n*cpu.WORD_SIZE, value)
		if err != nil {
			return
		}
	}

	return
}
