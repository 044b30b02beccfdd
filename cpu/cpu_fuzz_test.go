package cpu

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func FuzzCpu(f *testing.F) {
	for op := range 0x40 {
		f.Add(uint32(op)<<26, int32(0), false)
		f.Add(uint32(op)<<26|0x00221820, int32(-4), false)
		f.Add(uint32(op)<<26|0x03ffffff, int32(8), true)
	}
	for fn := range 0x40 {
		f.Add(uint32(0x00221800|fn), int32(3), false)
		f.Add(uint32(0x00221800|fn), int32(-7), true)
	}

	f.Fuzz(func(t *testing.T, word uint32, seed int32, shamtField bool) {
		assert := assert.New(t)

		code := Code(word)

		cpu := NewCpu()
		cpu.ShamtField = shamtField
		for n := 1; n < REGISTER_COUNT; n++ {
			cpu.Register[n] = seed * int32(n)
		}
		for n := range cpu.Memory {
			cpu.Memory[n] = int32(n) ^ seed
		}
		cpu.Pc = 100

		preRegister := cpu.Register
		preMemory := cpu.Memory

		report, err := cpu.Execute(code)

		code_str := fmt.Sprintf("0x%08x (%v) seed:%v shamt:%v\ncpu:%v", word, code, seed, shamtField, cpu.String())

		assert.Equal(int32(0), cpu.Register[0], code_str)

		if err != nil {
			assert.ErrorIs(err, ErrOpcode(code), code_str)
			ok := errors.Is(err, ErrMisalignedAccess) || errors.Is(err, ErrOutOfBounds)
			assert.True(ok, code_str)
			op := code.Opcode()
			assert.True(op == OP_LW || op == OP_SW, code_str)
			assert.Equal(preRegister, cpu.Register, code_str)
			assert.Equal(preMemory, cpu.Memory, code_str)
			assert.Equal(100, cpu.Pc, code_str)
			return
		}

		if report.Outcome == OUTCOME_UNKNOWN {
			assert.Equal(preRegister, cpu.Register, code_str)
			assert.Equal(preMemory, cpu.Memory, code_str)
			assert.Equal(100, cpu.Pc, code_str)
			assert.False(report.MemoryAccessed, code_str)
			assert.False(report.RegisterWritten, code_str)
			return
		}

		op := code.Opcode()
		assert.Equal(op == OP_LW || op == OP_SW, report.MemoryAccessed, code_str)

		if op != OP_SW {
			assert.Equal(preMemory, cpu.Memory, code_str)
		}

		switch code.Format() {
		case FORMAT_J:
			assert.Equal(100+int(code.Target()), cpu.Pc, code_str)
		case FORMAT_I:
			switch op {
			case OP_BEQ, OP_BNE, OP_BLEZ, OP_BGTZ, OP_REGIMM:
				assert.Contains([]int{100, 100 + int(code.Immediate())}, cpu.Pc, code_str)
			default:
				assert.Equal(100, cpu.Pc, code_str)
			}
		case FORMAT_R:
			switch code.Funct() {
			case FUNCT_JR, FUNCT_JALR:
				assert.Equal(int(preRegister[code.Rs()]), cpu.Pc, code_str)
			default:
				assert.Equal(100, cpu.Pc, code_str)
			}
		}
	})
}
