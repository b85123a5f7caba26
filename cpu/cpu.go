package cpu

import (
	"errors"
	"fmt"
	"iter"
	"maps"
	"strings"

	"github.com/sirupsen/logrus"
)

var _cpu_defines = map[string]string{
	"REGISTER_COUNT": fmt.Sprintf("%d", REGISTER_COUNT),
	"MEMORY_WORDS":   fmt.Sprintf("%d", MEMORY_WORDS),
	"WORD_SIZE":      fmt.Sprintf("%d", WORD_SIZE),
}

// Effect is the outcome of a successfully executed instruction.
type Effect struct {
	Directive Directive // How the program counter advances.
	Trace     *Trace    // Architectural effects, for the trace sink.
}

// Cpu is the simulation context: the register file and memory, and
// the per-instruction semantics that mutate them. The Cpu has no
// program counter; control flow is returned as a Directive.
type Cpu struct {
	Verbose bool           // Set to enable verbose logging.
	Log     *logrus.Logger // Destination of verbose logging.

	Register RegisterFile // Register bank.
	Memory   Memory       // Data memory.
}

// NewCpu creates a new CPU with zeroed state.
func NewCpu() (cpu *Cpu) {
	cpu = &Cpu{
		Log: logrus.StandardLogger(),
	}

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// Reset clears the registers and memory.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		cpu.Log.Debug("cpu: reset")
	}

	cpu.Register.Reset()
	cpu.Memory.Reset()
}

// String returns the register bank as a string.
func (cpu *Cpu) String() (text string) {
	regs := make([]string, 0, len(cpu.Register))
	for _, val := range cpu.Register.All() {
		regs = append(regs, fmt.Sprintf("%d", val))
	}

	return "[" + strings.Join(regs, ", ") + "]"
}

// Execute executes a single instruction word.
//
// An unrecognized opcode or function fails with ErrIllegalInstruction,
// and an out of range memory access with ErrInvalidAddress. In both
// cases the registers and memory are left unmodified and no trace is
// produced.
func (cpu *Cpu) Execute(code Code) (effect Effect, err error) {
	defer func() {
		if err != nil {
			err = errors.Join(ErrOpcode(code), err)
		}
	}()

	fields := Decode(code)

	name, ok := code.Mnemonic()
	if !ok {
		if fields.Opcode == OP_SPECIAL {
			err = errors.Join(ErrIllegalInstruction, ErrIllegalFunct)
		} else {
			err = errors.Join(ErrIllegalInstruction, ErrIllegalOpcode)
		}
		return
	}

	if cpu.Verbose {
		cpu.Log.WithFields(logrus.Fields{
			"code": fmt.Sprintf("0x%08X", uint32(code)),
			"op":   code.String(),
		}).Debug("cpu: execute")
	}

	regs := &cpu.Register
	mem := &cpu.Memory

	trace := &Trace{
		Code:      code,
		Format:    code.Format(),
		Operation: name,
	}
	directive := Sequential

	switch fields.Opcode {
	case OP_SPECIAL:
		var rs, rt int32
		rt, err = regs.Read(fields.Rt)
		if err != nil {
			return
		}
		var result int32
		switch fields.Funct {
		case FUNCT_SLL:
			result = int32(uint32(rt) << fields.Shamt)
			trace.touchRegisters(fields.Rt, fields.Rd)
		case FUNCT_SRL:
			result = int32(uint32(rt) >> fields.Shamt)
			trace.touchRegisters(fields.Rt, fields.Rd)
		default:
			rs, err = regs.Read(fields.Rs)
			if err != nil {
				return
			}
			result = doAlu(fields.Funct, rs, rt)
			trace.touchRegisters(fields.Rs, fields.Rt, fields.Rd)
		}
		err = regs.Write(fields.Rd, result)
		if err != nil {
			return
		}
	case OP_LW:
		var index int
		index, err = cpu.address(fields)
		if err != nil {
			return
		}
		var value int32
		value, err = mem.Read(index)
		if err != nil {
			return
		}
		err = regs.Write(fields.Rt, value)
		if err != nil {
			return
		}
		trace.touchRegisters(fields.Rs, fields.Rt)
		trace.touchMemory(index)
	case OP_SW:
		var index int
		index, err = cpu.address(fields)
		if err != nil {
			return
		}
		var value int32
		value, err = regs.Read(fields.Rt)
		if err != nil {
			return
		}
		err = mem.Write(index, value)
		if err != nil {
			return
		}
		trace.touchRegisters(fields.Rs, fields.Rt)
		trace.touchMemory(index)
	case OP_J:
		// Touches no registers or memory.
		directive = AbsoluteJump(int(fields.Target) * WORD_SIZE)
	case OP_BEQ:
		var rs, rt int32
		rs, err = regs.Read(fields.Rs)
		if err != nil {
			return
		}
		rt, err = regs.Read(fields.Rt)
		if err != nil {
			return
		}
		trace.touchRegisters(fields.Rs, fields.Rt)
		if rs == rt {
			directive = RelativeBranch(fields.SignedImm() * WORD_SIZE)
		} else {
			directive = NoBranch
		}
	}

	err = trace.capture(regs, mem)
	if err != nil {
		return
	}

	effect = Effect{
		Directive: directive,
		Trace:     trace,
	}

	return
}

// address computes the memory word index for a load or store.
// The immediate is not sign extended.
func (cpu *Cpu) address(fields Fields) (index int, err error) {
	base, err := cpu.Register.Read(fields.Rs)
	if err != nil {
		return
	}

	index = int(WordIndex(int64(base) + int64(fields.Imm)))
	if index < 0 || index >= len(cpu.Memory) {
		err = &ErrAddress{Space: SPACE_MEMORY, Index: index}
		return
	}

	return
}

// doAlu performs a register-register operation.
func doAlu(funct CodeFunct, rs int32, rt int32) (output int32) {
	switch funct {
	case FUNCT_ADD:
		output = rs + rt
	case FUNCT_SUB:
		output = rs - rt
	case FUNCT_AND:
		output = rs & rt
	case FUNCT_OR:
		output = rs | rt
	}

	return
}
