// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/mipsim/cpu"
	"github.com/ezrec/mipsim/internal"
	"github.com/ezrec/mipsim/io"
)

// RunState is the run loop state.
type RunState int

const (
	STATE_RUNNING = RunState(0) // running
	STATE_HALTED  = RunState(1) // halted
)

func (rs RunState) String() string {
	switch rs {
	case STATE_RUNNING:
		return "running"
	case STATE_HALTED:
		return "halted"
	}
	return fmt.Sprintf("RunState(%d)", int(rs))
}

var _emulator_defines = map[string]string{
	"LINK_REGISTER": fmt.Sprintf("%d", int(cpu.REG_LINK)),
}

// Emulator state. CPU + cycle trace.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // If set, the assembled program replacing the loaded code.

	Tracer Tracer   // Cycle trace.
	State  RunState // Run loop state.
}

// NewEmulator creates a new emulator.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Cpu: cpu.NewCpu(),
	}

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_emulator_defines),
		emu.Cpu.Defines(),
	)
}

// Reset the emulator to an initial architectural state.
func (emu *Emulator) Reset(state io.State) (err error) {
	emu.Cpu.Verbose = emu.Verbose
	emu.Cpu.Reset()
	emu.Tracer.Reset()
	emu.State = STATE_RUNNING

	for index, value := range state.Registers {
		err = emu.Cpu.SetRegister(index, value)
		if err != nil {
			return
		}
	}

	for address, value := range state.Memory {
		err = emu.Cpu.StoreWord(address, value)
		if err != nil {
			return
		}
	}

	code := state.Code
	if emu.Program != nil {
		code = emu.Program.Binary()
	}

	err = emu.Cpu.Load(code)
	if err != nil {
		return
	}

	return
}

// Pc returns the current program counter.
func (emu *Emulator) Pc() int {
	return emu.Cpu.Pc
}

// Code returns the code word at the program counter.
func (emu *Emulator) Code() cpu.Code {
	if emu.Cpu.Pc < 0 || emu.Cpu.Pc >= len(emu.Cpu.Code) {
		return cpu.Code(0)
	}

	return emu.Cpu.Code[emu.Cpu.Pc]
}

// LineNo returns the source line number for the code word at pc, or 0
// if there is no assembled program.
func (emu *Emulator) LineNo(pc int) int {
	if emu.Program == nil {
		return 0
	}

	dbg := emu.Program.Debug(pc)
	if dbg.Opcode == nil {
		return 0
	}

	return dbg.LineNo
}

// Tick performs a single instruction of the emulator.
func (emu *Emulator) Tick() (done bool, err error) {
	if emu.State == STATE_HALTED {
		done = true
		return
	}

	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	pc := emu.Cpu.Pc
	lineno := emu.LineNo(pc)
	defer func() {
		if err != nil {
			err = &ErrRuntime{Pc: pc, LineNo: lineno, Err: err}
		}
	}()

	report, err := emu.Cpu.Tick()
	if errors.Is(err, cpu.ErrPcEmpty) {
		err = nil
		done = true
		emu.State = STATE_HALTED
		if emu.Verbose {
			log.Printf("emulator: halted at pc %d after %d instructions", pc, emu.Tracer.Instruction)
		}
		return
	}
	if err != nil {
		return
	}

	err = emu.Tracer.Trace(report)
	if err != nil {
		return
	}

	return
}

// Run ticks the emulator until it halts.
func (emu *Emulator) Run() (err error) {
	for done, err := emu.Tick(); !done; done, err = emu.Tick() {
		if err != nil {
			return err
		}
	}

	return
}

// Dump returns the non-zero registers and memory words.
func (emu *Emulator) Dump() (state io.State) {
	state.Registers = map[int]int32{}
	state.Memory = map[int]int32{}

	for index, value := range internal.NonZero(emu.Cpu.Register[:]) {
		state.Registers[index] = value
	}

	for index, value := range internal.NonZero(emu.Cpu.Memory[:]) {
		state.Memory[index*cpu.WORD_SIZE] = value
	}

	return
}
