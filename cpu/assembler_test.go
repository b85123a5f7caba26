package cpu

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func assemble(t *testing.T, program ...string) (prog *Program, err error) {
	asm := &Assembler{}
	return asm.Parse(strings.NewReader(strings.Join(program, "\n")))
}

func TestAssembler(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}

	prog, err := asm.Parse(strings.NewReader(""))
	assert.NoError(err)
	assert.Equal(0, prog.Len())
	assert.Equal("0", asm.Equate["LINENO"])
}

func TestAssemblerInstructions(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		"add $3, $1, $2",
		"sub r4, r5, r6",
		"and $7,$8,$9",
		"or $31, $0, $1",
		"sll $2, $3, 2",
		"srl $2, $3, 31",
		"lw $3, 16($1)",
		"sw $4, ($0)",
		"lw $5, 0x10($2)",
		"beq $1, $2, 3",
		"beq $1, $2, -1",
		"j 0x10",
		"nop",
		".word 0xfc000000",
	}

	prog, err := assemble(t, program...)
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
	}

	expected := []Code{
		0x00221820,
		MakeCodeR(FUNCT_SUB, 4, 5, 6, 0),
		MakeCodeR(FUNCT_AND, 7, 8, 9, 0),
		MakeCodeR(FUNCT_OR, 31, 0, 1, 0),
		MakeCodeR(FUNCT_SLL, 2, 0, 3, 2),
		MakeCodeR(FUNCT_SRL, 2, 0, 3, 31),
		0x8C230010,
		MakeCodeI(OP_SW, 0, 4, 0),
		MakeCodeI(OP_LW, 2, 5, 0x10),
		0x10220003,
		MakeCodeI(OP_BEQ, 1, 2, 0xffff),
		MakeCodeJ(OP_J, 0x10),
		0x00000000,
		0xFC000000,
	}

	assert.Equal(len(expected), prog.Len())
	for n, code := range prog.Codes() {
		assert.Equal(expected[n], code, program[n])
		assert.Equal(n+1, prog.Opcodes[n].LineNo, program[n])
	}
}

func TestAssemblerDisassembly(t *testing.T) {
	assert := assert.New(t)

	// Disassembled text assembles back to the same words.
	words := []Code{
		0x00221820, 0x8C230010, 0x10220003, 0xFC000000,
		MakeCodeR(FUNCT_SRL, 9, 0, 10, 17),
		MakeCodeI(OP_SW, 31, 30, 0xfffc),
		MakeCodeJ(OP_J, 0x3ffffff),
	}

	var lines []string
	for _, code := range words {
		lines = append(lines, code.String())
	}

	prog, err := assemble(t, lines...)
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
	}

	for n, code := range prog.Codes() {
		assert.Equal(words[n], code, lines[n])
	}
}

func TestAssemblerLabels(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		"start:  beq $1, $2, done ; pc 0, done is 4 ahead",
		"        nop",
		"        nop",
		"        nop",
		"done:   j start2         ; pc 4, start2 is pc 8",
		"        nop",
		"        nop",
		"        nop",
		"start2: beq $0, $0, done ; pc 8 back to 4",
	}

	prog, err := assemble(t, program...)
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(MakeCodeI(OP_BEQ, 1, 2, 1), prog.Opcodes[0].Code)
	assert.Equal(MakeCodeJ(OP_J, 1), prog.Opcodes[4].Code)
	assert.Equal(MakeCodeI(OP_BEQ, 0, 0, 0xffff), prog.Opcodes[8].Code)
	assert.Equal("done", prog.Opcodes[0].LinkLabel)
}

func TestAssemblerLabelErrors(t *testing.T) {
	assert := assert.New(t)

	_, err := assemble(t, "beq $1, $2, nowhere")
	var missing ErrLabelMissing
	assert.ErrorAs(err, &missing)
	assert.Equal(ErrLabelMissing("nowhere"), missing)

	_, err = assemble(t, "beq $1, $2, next", "next: nop")
	assert.ErrorIs(err, ErrLabelUnreachable)

	_, err = assemble(t, "back: nop", "nop", "nop", "nop", "j back")
	assert.ErrorIs(err, ErrLabelUnreachable)

	_, err = assemble(t, "here: nop", "here: nop")
	assert.ErrorIs(err, ErrLabelDuplicate)

	var syntax *ErrSyntax
	_, err = assemble(t, "nop", "beq $1, $2, far")
	if assert.ErrorAs(err, &syntax) {
		assert.Equal(2, syntax.LineNo)
	}
}

func TestAssemblerEquates(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	asm.Predefine("MEMORY_WORDS", "256")
	asm.Predefine("BASE", "$1")

	program := []string{
		".equ OFFSET 8",
		".equ RESULT $3",
		"lw RESULT, OFFSET(BASE)",
		"sw RESULT, $(MEMORY_WORDS * 4 - 4)($0)",
		"sll $2, $2, $(LINENO)",
		"beq $0, $0, $(PC * 4)",
	}

	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
	}

	assert.Equal(MakeCodeI(OP_LW, 1, 3, 8), prog.Opcodes[0].Code)
	assert.Equal(MakeCodeI(OP_SW, 0, 3, 1020), prog.Opcodes[1].Code)
	assert.Equal(MakeCodeR(FUNCT_SLL, 2, 0, 2, 5), prog.Opcodes[2].Code)
	assert.Equal(MakeCodeI(OP_BEQ, 0, 0, 12), prog.Opcodes[3].Code)

	_, err = asm.Parse(strings.NewReader(".equ X 1\n.equ X 2"))
	assert.ErrorIs(err, ErrEquateDuplicate)

	_, err = asm.Parse(strings.NewReader(".equ X"))
	assert.ErrorIs(err, ErrEquateSyntax)

	// Predefines survive a second parse; equates do not.
	prog, err = asm.Parse(strings.NewReader("lw $2, OFFSET(BASE)"))
	assert.Error(err)
	assert.Nil(prog)
}

func TestAssemblerErrors(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		line string
		err  error
	}){
		{"add $1, $2", ErrOpcodeValueMissing},
		{"add $1, $2, $3, $4", ErrOpcodeExtraArgs},
		{"add $1, $2, $32", ErrRegisterInvalid},
		{"add $1, $2, x3", ErrRegisterInvalid},
		{"sll $1, $2, 32", ErrValueRange},
		{"lw $1, 16", ErrRegisterInvalid},
		{"lw $1, 0x10000($2)", ErrValueRange},
		{"j -1", ErrValueRange},
		{"j 0x4000000", ErrValueRange},
		{"nop $1", ErrOpcodeExtraArgs},
		{"jal 4", ErrInstructionInvalid},
		{"beq $1, $2, 0x10000", ErrValueRange},
		{".word 0x100000000", ErrValueRange},
	}

	for _, entry := range table {
		_, err := assemble(t, entry.line)
		assert.ErrorIs(err, entry.err, entry.line)
		var syntax *ErrSyntax
		if assert.ErrorAs(err, &syntax, entry.line) {
			assert.Equal(1, syntax.LineNo, entry.line)
			assert.Equal(entry.line, syntax.Line, entry.line)
		}
	}

	_, err := assemble(t, "sll $1, $2, $(1 +)")
	assert.Error(err)

	_, err = assemble(t, `sll $1, $2, $("a")`)
	var expr ErrParseExpression
	assert.True(errors.As(err, &expr))

	_, err = assemble(t, "sll $1, $2, zz")
	var number ErrParseNumber
	assert.True(errors.As(err, &number))
}
