package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeFormat(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		op     CodeOp
		format CodeFormat
	}{
		{OP_SPECIAL, FORMAT_R},
		{OP_REGIMM, FORMAT_I},
		{OP_J, FORMAT_J},
		{OP_JAL, FORMAT_J},
		{OP_BEQ, FORMAT_I},
		{OP_LW, FORMAT_I},
		{CodeOp(0x3f), FORMAT_I},
	}

	for _, entry := range table {
		code := Code(uint32(entry.op) << 26)
		assert.Equal(entry.op, code.Opcode(), entry.op.String())
		assert.Equal(entry.format, code.Format(), entry.op.String())
	}
}

func TestCodeDecodeR(t *testing.T) {
	assert := assert.New(t)

	// add r3 r1 r2
	code := Code(0b000000_00001_00010_00011_00000_100000)
	assert.Equal(MakeCodeR(FUNCT_ADD, 3, 1, 2, 0), code)

	inst := code.Decode()
	assert.Equal(Instruction{
		Format: FORMAT_R,
		Opcode: OP_SPECIAL,
		Funct:  FUNCT_ADD,
		Rd:     3,
		Rs:     1,
		Rt:     2,
	}, inst)

	code = MakeCodeR(FUNCT_SRA, 31, 0, 30, 17)
	assert.Equal(CodeReg(31), code.Rd())
	assert.Equal(CodeReg(30), code.Rt())
	assert.Equal(uint32(17), code.Shamt())
	assert.Equal(FUNCT_SRA, code.Funct())
}

func TestCodeDecodeI(t *testing.T) {
	assert := assert.New(t)

	// lw r2 -4(r1)
	code := Code(0b100011_00001_00010_1111111111111100)
	assert.Equal(MakeCodeI(OP_LW, 2, 1, -4), code)

	inst := code.Decode()
	assert.Equal(Instruction{
		Format:    FORMAT_I,
		Opcode:    OP_LW,
		Rt:        2,
		Rs:        1,
		Immediate: -4,
	}, inst)

	assert.Equal(int32(0x7fff), MakeCodeI(OP_ADDI, 0, 0, 0x7fff).Immediate())
	assert.Equal(int32(-0x8000), MakeCodeI(OP_ADDI, 0, 0, 0x8000).Immediate())
}

func TestCodeDecodeJ(t *testing.T) {
	assert := assert.New(t)

	code := MakeCodeJ(OP_JAL, 5)
	assert.Equal(Code(0x0c000005), code)
	assert.Equal(Instruction{Format: FORMAT_J, Opcode: OP_JAL, Target: 5}, code.Decode())

	code = MakeCodeJ(OP_J, -1)
	assert.Equal(Code(0x0bffffff), code)
	assert.Equal(int32(-1), code.Target())
}

func TestCodeString(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		code Code
		text string
	}{
		{MakeCodeR(FUNCT_ADD, 3, 1, 2, 0), "add r3 r1 r2"},
		{MakeCodeR(FUNCT_SLL, 3, 0, 2, 4), "sll r3 r2 4"},
		{MakeCodeR(FUNCT_SRAV, 3, 1, 2, 0), "srav r3 r2 r1"},
		{MakeCodeR(FUNCT_JR, 0, 31, 0, 0), "jr r31"},
		{MakeCodeI(OP_ADDI, 2, 1, -5), "addi r2 r1 -5"},
		{MakeCodeI(OP_LUI, 2, 0, 16), "lui r2 16"},
		{MakeCodeI(OP_SW, 2, 1, 8), "sw r2 8(r1)"},
		{MakeCodeI(OP_BEQ, 2, 1, -3), "beq r1 r2 -3"},
		{MakeCodeI(OP_BGTZ, 0, 4, 2), "bgtz r4 2"},
		{MakeCodeRegimm(REGIMM_BGEZAL, 4, 2), "bgezal r4 2"},
		{MakeCodeJ(OP_J, -2), "j -2"},
		{MakeCodeR(CodeFunct(0x18), 3, 1, 2, 0), ".word 0x00221818"},
		{Code(0xfc000000), ".word 0xfc000000"},
	}

	for _, entry := range table {
		assert.Equal(entry.text, entry.code.String())
	}
}

func TestCodeNames(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("R", FORMAT_R.String())
	assert.Equal("J", FORMAT_J.String())
	assert.Equal("CodeFormat(9)", CodeFormat(9).String())
	assert.Equal("sltiu", OP_SLTIU.String())
	assert.Equal("CodeOp(63)", CodeOp(63).String())
	assert.Equal("nor", FUNCT_NOR.String())
	assert.Equal("CodeFunct(24)", CodeFunct(24).String())
	assert.Equal("bltzal", REGIMM_BLTZAL.String())
	assert.Equal("CodeRegimm(5)", CodeRegimm(5).String())
	assert.Equal("r31", REG_LINK.String())
}
