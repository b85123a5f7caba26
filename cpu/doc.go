// Package cpu implements the instruction decoder, the register file
// and memory, the per-instruction execution semantics, and an
// assembler for a small 32-bit load/store instruction set.
//
// The machine has thirty-two 32-bit general-purpose registers (none
// hard-wired to zero) and 256 words of word-addressed memory. Ten
// instructions are supported: the R-type add, sub, and, or, sll and srl;
// the I-type lw, sw and beq; and the J-type j.
//
// The Cpu holds no program counter. Execute returns a Directive that the
// caller applies to its own program counter, together with a Trace of the
// registers and memory words the instruction used.
package cpu
