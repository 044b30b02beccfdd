package io

import (
	"bufio"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/ezrec/mipsim/cpu"
)

// section is the position of the loader in the configuration.
type section int

const (
	sectionNone = section(iota)
	sectionRegisters
	sectionMemory
	sectionCode
)

var sectionMap = map[string]section{
	SECTION_REGISTERS: sectionRegisters,
	SECTION_MEMORY:    sectionMemory,
	SECTION_CODE:      sectionCode,
}

// Load parses a text configuration into an initial state.
func Load(input io.Reader) (state State, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	state.Registers = map[int]int32{}
	state.Memory = map[int]int32{}

	current := sectionNone
	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		text_comment := strings.Split(text, ";")
		line = strings.TrimSpace(text_comment[0])
		words := strings.Fields(line)
		if len(words) == 0 {
			continue
		}

		next, is_header := sectionMap[strings.ToUpper(words[0])]
		if is_header && len(words) == 1 {
			if next <= current {
				err = ErrSectionOrder
				return
			}
			if current == sectionNone && next != sectionRegisters {
				err = ErrSectionMissing
				return
			}
			current = next
			continue
		}

		switch current {
		case sectionNone:
			err = ErrSectionMissing
		case sectionRegisters:
			err = loadRegister(&state, words)
		case sectionMemory:
			err = loadMemory(&state, words)
		case sectionCode:
			err = loadCode(&state, words)
		}
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	return
}

// parseValue parses a signed 32-bit decimal value.
func parseValue(word string) (value int32, err error) {
	v64, err := strconv.ParseInt(word, 10, 32)
	if err != nil {
		return
	}

	value = int32(v64)
	return
}

func loadRegister(state *State, words []string) (err error) {
	if len(words) != 2 {
		err = ErrRegisterLine
		return
	}

	name := strings.TrimPrefix(strings.ToUpper(words[0]), "R")
	index, err := strconv.Atoi(name)
	if err != nil {
		err = errors.Join(ErrRegisterLine, err)
		return
	}
	if index < 0 || index >= cpu.REGISTER_COUNT {
		err = &cpu.ErrRegister{Index: index, Err: cpu.ErrOutOfBounds}
		return
	}

	value, err := parseValue(words[1])
	if err != nil {
		err = errors.Join(ErrRegisterLine, err)
		return
	}

	state.Registers[index] = value
	return
}

func loadMemory(state *State, words []string) (err error) {
	if len(words) != 2 {
		err = ErrMemoryLine
		return
	}

	address, err := strconv.Atoi(words[0])
	if err != nil {
		err = errors.Join(ErrMemoryLine, err)
		return
	}
	if address%cpu.WORD_SIZE != 0 {
		err = &cpu.ErrAddress{Address: address, Err: cpu.ErrMisalignedAccess}
		return
	}
	if address < 0 || address > cpu.MEMORY_LIMIT {
		err = &cpu.ErrAddress{Address: address, Err: cpu.ErrOutOfBounds}
		return
	}

	value, err := parseValue(words[1])
	if err != nil {
		err = errors.Join(ErrMemoryLine, err)
		return
	}

	state.Memory[address] = value
	return
}

func loadCode(state *State, words []string) (err error) {
	if len(words) != 1 || len(words[0]) != 32 {
		err = ErrCodeLine
		return
	}

	word, err := strconv.ParseUint(words[0], 2, 32)
	if err != nil {
		err = errors.Join(ErrCodeLine, err)
		return
	}

	if len(state.Code) >= cpu.CODE_LIMIT {
		err = errors.Join(cpu.ErrCodeLimit, cpu.ErrOutOfBounds)
		return
	}

	state.Code = append(state.Code, cpu.Code(word))
	return
}
