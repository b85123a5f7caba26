package cpu

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewProgram(t *testing.T) {
	assert := assert.New(t)

	prog := NewProgram(0x00221820, 0x8C230010)
	assert.Equal(2, prog.Len())
	assert.Equal([]uint32{0x00221820, 0x8C230010}, prog.Binary())
	assert.Equal(1, prog.Opcodes[1].Index)
	assert.Equal(0, prog.Opcodes[1].LineNo)

	empty := NewProgram()
	assert.Equal(0, empty.Len())
	assert.Nil(empty.Binary())
}

func TestProgram_Fetch(t *testing.T) {
	assert := assert.New(t)

	prog := NewProgram(0x00221820, 0x8C230010)

	code, ok := prog.Fetch(0)
	assert.True(ok)
	assert.Equal(Code(0x00221820), code)

	code, ok = prog.Fetch(1)
	assert.True(ok)
	assert.Equal(Code(0x8C230010), code)

	_, ok = prog.Fetch(2)
	assert.False(ok)

	_, ok = prog.Fetch(-1)
	assert.False(ok)
}

func TestProgram_Debug(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	prog, err := asm.Parse(strings.NewReader("; header\nadd $3, $1, $2\n\nlw $3, 16($1)\n"))
	assert.NoError(err)

	dbg := prog.Debug(0)
	if assert.NotNil(dbg) {
		assert.Equal(2, dbg.LineNo)
		assert.Equal(0, dbg.Index)
	}

	dbg = prog.Debug(1)
	if assert.NotNil(dbg) {
		assert.Equal(4, dbg.LineNo)
		assert.Equal([]string{"lw", "$3", "16($1)"}, dbg.Words)
	}

	assert.Nil(prog.Debug(2))
	assert.Nil(prog.Debug(-1))
}

func TestProgram_Codes(t *testing.T) {
	assert := assert.New(t)

	prog := NewProgram(1, 2, 3)

	var pcs []int
	for pc, code := range prog.Codes() {
		pcs = append(pcs, pc)
		if code == 2 {
			break
		}
	}
	assert.Equal([]int{0, 1}, pcs)
}
