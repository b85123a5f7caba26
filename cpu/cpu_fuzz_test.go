package cpu

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func FuzzExecute(f *testing.F) {
	seeds := []uint32{
		0x00221820, 0x8C230010, 0x10220003, 0xFC000000,
		0x00000000, 0xFFFFFFFF, 0x08000001, 0xAC220004,
	}
	for _, seed := range seeds {
		f.Add(seed, int64(seed))
	}

	f.Fuzz(func(t *testing.T, word uint32, seed int64) {
		assert := assert.New(t)

		rng := rand.New(rand.NewSource(seed))

		cpu := NewCpu()
		for n := range cpu.Register {
			cpu.Register[n] = int32(rng.Intn(MEMORY_WORDS * WORD_SIZE))
		}
		for n := range cpu.Memory {
			cpu.Memory[n] = int32(rng.Uint32())
		}
		before := *cpu

		code := Code(word)
		fields := Decode(code)

		effect, err := cpu.Execute(code)
		if err != nil {
			// Failed instructions have no side effects.
			assert.Nil(effect.Trace)
			assert.Equal(before.Register, cpu.Register)
			assert.Equal(before.Memory, cpu.Memory)
			assert.True(errors.Is(err, ErrIllegalInstruction) || errors.Is(err, ErrInvalidAddress))
			assert.Equal(!code.Legal(), errors.Is(err, ErrIllegalInstruction))
			return
		}

		assert.True(code.Legal())
		if !assert.NotNil(effect.Trace) {
			return
		}
		assert.Equal(code, effect.Trace.Code)
		assert.Equal(code.Format(), effect.Trace.Format)

		// Every traced cell reports the current state.
		for _, cell := range effect.Trace.Registers {
			assert.Equal(cpu.Register[cell.Index], cell.Value)
		}
		for _, cell := range effect.Trace.Memory {
			assert.Equal(cpu.Memory[cell.Index], cell.Value)
		}

		switch fields.Opcode {
		case OP_J:
			assert.Equal(DIRECTIVE_JUMP, effect.Directive.Kind)
			assert.Empty(effect.Trace.Registers)
		case OP_BEQ:
			if before.Register[fields.Rs] == before.Register[fields.Rt] {
				assert.Equal(DIRECTIVE_BRANCH, effect.Directive.Kind)
			} else {
				assert.Equal(DIRECTIVE_NONE, effect.Directive.Kind)
			}
			assert.Equal(before.Register, cpu.Register)
			assert.Equal(before.Memory, cpu.Memory)
		case OP_LW:
			assert.Equal(before.Memory, cpu.Memory)
			assert.Len(effect.Trace.Memory, 1)
		case OP_SW:
			assert.Equal(before.Register, cpu.Register)
			assert.Len(effect.Trace.Memory, 1)
		default:
			assert.Equal(Sequential, effect.Directive)
			assert.Equal(before.Memory, cpu.Memory)
			assert.Empty(effect.Trace.Memory)
		}
	})
}
