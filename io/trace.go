package io

import (
	"fmt"
	"io"

	"github.com/ezrec/mipsim/cpu"
)

// TraceWriter writes the human readable trace report, one block per
// executed instruction. Blocks are written as they arrive, so the
// report is complete up to the last executed instruction.
type TraceWriter struct {
	Output io.Writer
}

// Header starts a new report.
func (tw *TraceWriter) Header() (err error) {
	_, err = fmt.Fprintf(tw.Output, "MIPS Simulation Results\n\n")
	return
}

// Trace writes the block for a single instruction.
func (tw *TraceWriter) Trace(trace *cpu.Trace) (err error) {
	_, err = fmt.Fprintf(tw.Output, "Instruction: 0x%08X, Type: %v, Operation: %v\n",
		uint32(trace.Code), trace.Format, trace.Operation)
	if err != nil {
		return
	}

	// Jumps only report the instruction.
	if trace.Format != cpu.FORMAT_J {
		_, err = fmt.Fprintf(tw.Output, "Relevant register values:\n")
		if err != nil {
			return
		}
		for _, cell := range trace.Registers {
			_, err = fmt.Fprintf(tw.Output, "$r%d (Address %d): %d\n", cell.Index, cell.Index, cell.Value)
			if err != nil {
				return
			}
		}

		if len(trace.Memory) != 0 {
			_, err = fmt.Fprintf(tw.Output, "Relevant memory values:\n")
			if err != nil {
				return
			}
			for _, cell := range trace.Memory {
				_, err = fmt.Fprintf(tw.Output, "Memory[%d] (Address %d): %d\n", cell.Index, cell.Index*cpu.WORD_SIZE, cell.Value)
				if err != nil {
					return
				}
			}
		}
	}

	_, err = fmt.Fprintf(tw.Output, "\n")

	return
}
