package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgram_Debug(t *testing.T) {
	assert := assert.New(t)

	prog := &Program{
		Opcodes: []Opcode{
			{LineNo: 1, Pc: 0, Words: []string{"addi", "r1", "r0", "5"},
				Code: MakeCodeI(OP_ADDI, 1, REG_ZERO, 5)},
			{LineNo: 3, Pc: 1, Words: []string{"addi", "r2", "r0", "3"},
				Code: MakeCodeI(OP_ADDI, 2, REG_ZERO, 3)},
			{LineNo: 4, Pc: 2, Words: []string{"add", "r3", "r1", "r2"},
				Code: MakeCodeR(FUNCT_ADD, 3, 1, 2, 0)},
		},
	}

	dbg := prog.Debug(0)
	assert.NotNil(dbg.Opcode)
	assert.Equal(1, dbg.LineNo)

	dbg = prog.Debug(1)
	assert.NotNil(dbg.Opcode)
	assert.Equal(3, dbg.LineNo)

	dbg = prog.Debug(2)
	assert.NotNil(dbg.Opcode)
	assert.Equal(4, dbg.LineNo)
	assert.Equal(MakeCodeR(FUNCT_ADD, 3, 1, 2, 0), dbg.Code)
}

func TestProgram_Debug_NotFound(t *testing.T) {
	assert := assert.New(t)

	prog := &Program{
		Opcodes: []Opcode{
			{LineNo: 1, Pc: 0, Words: []string{"nop"}},
		},
	}

	dbg := prog.Debug(10)
	assert.Nil(dbg.Opcode)

	dbg = prog.Debug(-1)
	assert.Nil(dbg.Opcode)
}

func TestProgram_Binary(t *testing.T) {
	assert := assert.New(t)

	prog := &Program{}
	assert.Len(prog.Binary(), 0)

	prog.Opcodes = []Opcode{
		{LineNo: 1, Pc: 0, Code: MakeCodeI(OP_ADDI, 1, REG_ZERO, 5)},
		{LineNo: 2, Pc: 1, Code: MakeCodeJ(OP_J, -2)},
	}
	assert.Equal([]Code{MakeCodeI(OP_ADDI, 1, REG_ZERO, 5), MakeCodeJ(OP_J, -2)}, prog.Binary())

	count := 0
	for pc, code := range prog.Codes() {
		assert.Equal(count, pc)
		assert.Equal(prog.Opcodes[pc].Code, code)
		count++
		break
	}
	assert.Equal(1, count)
}
