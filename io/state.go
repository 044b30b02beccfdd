// Package io provides the external collaborators of the emulator: the
// loader for the text configuration of an initial architectural state,
// and the writer for the final register and memory dump.
//
// The configuration has three sections, in order:
//
//	REGISTERS
//	R1 5
//	MEMORY
//	0 42
//	CODE
//	00000000001000100001100000100000
//
// Register lines are an index (0-31, optionally prefixed by 'R') and a
// value. Memory lines are a byte address (a multiple of 4, 0-996) and a
// value. Code lines are one 32 digit binary instruction word each.
// Blank lines and text after ';' are ignored.
package io

import (
	"github.com/ezrec/mipsim/cpu"
)

// Section headers.
const (
	SECTION_REGISTERS = "REGISTERS"
	SECTION_MEMORY    = "MEMORY"
	SECTION_CODE      = "CODE"
)

// State is an architectural state snapshot.
type State struct {
	Registers map[int]int32 // Register index to value.
	Memory    map[int]int32 // Byte address to value.
	Code      []cpu.Code    // Instruction words, in PC order.
}
