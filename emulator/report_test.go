package emulator

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/mipsim/cpu"
)

func TestWriteStatus(t *testing.T) {
	assert := assert.New(t)

	cp := cpu.NewCpu()
	cp.Register[1] = 5
	cp.Register[31] = -1

	buff := &bytes.Buffer{}
	err := WriteStatus(buff, 3, 0x00221820, cp)
	assert.NoError(err)

	regs := make([]string, cpu.REGISTER_COUNT)
	for n := range regs {
		regs[n] = "0"
	}
	regs[1] = "5"
	regs[31] = "-1"

	assert.Equal(fmt.Sprintf("PC: 3, Instruction: 0x00221820, Registers: [%s]\n", strings.Join(regs, ", ")), buff.String())
}

func TestWriteState(t *testing.T) {
	assert := assert.New(t)

	cp := cpu.NewCpu()
	cp.Register[2] = 7
	cp.Memory[3] = -9
	cp.Memory[cpu.MEMORY_WORDS-1] = 1

	buff := &bytes.Buffer{}
	err := WriteState(buff, cp)
	assert.NoError(err)

	lines := strings.Split(buff.String(), "\n")
	// Header, registers, blank, header, memory, and the final newline.
	assert.Len(lines, 1+cpu.REGISTER_COUNT+1+1+cpu.MEMORY_WORDS+1)

	assert.Equal("Final Register Values:", lines[0])
	assert.Equal("R0: 0", lines[1])
	assert.Equal("R2: 7", lines[3])
	assert.Equal("R31: 0", lines[32])
	assert.Equal("", lines[33])
	assert.Equal("Final Memory Contents:", lines[34])
	assert.Equal("Memory[0]: 0", lines[35])
	assert.Equal("Memory[12]: -9", lines[38])
	assert.Equal("Memory[1020]: 1", lines[35+cpu.MEMORY_WORDS-1])
	assert.Equal("", lines[len(lines)-1])
}
