package io

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/mipsim/cpu"
)

func TestLoad(t *testing.T) {
	assert := assert.New(t)

	config := []string{
		"REGISTERS",
		"R1 5",
		"r2 -3 ; comment",
		"",
		"31 7",
		"MEMORY",
		"0 42",
		"996 -1",
		"CODE",
		"00000000001000100001100000100000",
		"10101100000000010000000000000000 ; sw r1 0(r0)",
	}

	state, err := Load(strings.NewReader(strings.Join(config, "\n")))
	assert.NoError(err)

	assert.Equal(map[int]int32{1: 5, 2: -3, 31: 7}, state.Registers)
	assert.Equal(map[int]int32{0: 42, 996: -1}, state.Memory)
	assert.Equal([]cpu.Code{
		cpu.MakeCodeR(cpu.FUNCT_ADD, 3, 1, 2, 0),
		cpu.MakeCodeI(cpu.OP_SW, 1, 0, 0),
	}, state.Code)
}

func TestLoadPartial(t *testing.T) {
	assert := assert.New(t)

	state, err := Load(strings.NewReader("REGISTERS\n"))
	assert.NoError(err)
	assert.Empty(state.Registers)
	assert.Empty(state.Memory)
	assert.Empty(state.Code)

	state, err = Load(strings.NewReader("registers\nR4 1\ncode\n11111111111111111111111111111111\n"))
	assert.NoError(err)
	assert.Equal(map[int]int32{4: 1}, state.Registers)
	assert.Equal([]cpu.Code{cpu.Code(0xffffffff)}, state.Code)
}

func TestLoadErrors(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		name   string
		config []string
		lineno int
		err    error
	}{
		{"no_header", []string{"R1 5"}, 1, ErrSectionMissing},
		{"memory_first", []string{"MEMORY", "0 1"}, 1, ErrSectionMissing},
		{"order", []string{"REGISTERS", "MEMORY", "REGISTERS"}, 3, ErrSectionOrder},
		{"repeat", []string{"REGISTERS", "REGISTERS"}, 2, ErrSectionOrder},
		{"reg_words", []string{"REGISTERS", "R1"}, 2, ErrRegisterLine},
		{"reg_name", []string{"REGISTERS", "RX 1"}, 2, ErrRegisterLine},
		{"reg_value", []string{"REGISTERS", "R1 five"}, 2, ErrRegisterLine},
		{"reg_range", []string{"REGISTERS", "R32 1"}, 2, cpu.ErrOutOfBounds},
		{"reg_overflow", []string{"REGISTERS", "R1 4294967296"}, 2, ErrRegisterLine},
		{"mem_words", []string{"REGISTERS", "MEMORY", "0 1 2"}, 3, ErrMemoryLine},
		{"mem_align", []string{"REGISTERS", "MEMORY", "2 1"}, 3, cpu.ErrMisalignedAccess},
		{"mem_range", []string{"REGISTERS", "MEMORY", "1000 1"}, 3, cpu.ErrOutOfBounds},
		{"mem_negative", []string{"REGISTERS", "MEMORY", "-4 1"}, 3, cpu.ErrOutOfBounds},
		{"code_short", []string{"REGISTERS", "CODE", "0101"}, 3, ErrCodeLine},
		{"code_digit", []string{"REGISTERS", "CODE", "00000000001000100001100000100002"}, 3, ErrCodeLine},
	}

	for _, entry := range table {
		_, err := Load(strings.NewReader(strings.Join(entry.config, "\n")))
		assert.ErrorIs(err, entry.err, entry.name)

		var syntax *ErrSyntax
		assert.True(errors.As(err, &syntax), entry.name)
		if syntax != nil {
			assert.Equal(entry.lineno, syntax.LineNo, entry.name)
		}
	}
}

func TestLoadCodeLimit(t *testing.T) {
	assert := assert.New(t)

	word := strings.Repeat("0", 32)
	config := []string{"REGISTERS", "CODE"}
	for range cpu.CODE_LIMIT {
		config = append(config, word)
	}

	state, err := Load(strings.NewReader(strings.Join(config, "\n")))
	assert.NoError(err)
	assert.Len(state.Code, cpu.CODE_LIMIT)

	config = append(config, word)
	_, err = Load(strings.NewReader(strings.Join(config, "\n")))
	assert.ErrorIs(err, cpu.ErrCodeLimit)
	assert.ErrorIs(err, cpu.ErrOutOfBounds)
}
