// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"
)

// Architectural limits.
const (
	REGISTER_COUNT = 32                             // Register file slots.
	WORD_SIZE      = 4                              // Bytes per memory word.
	MEMORY_WORDS   = 250                            // Memory word slots.
	MEMORY_LIMIT   = (MEMORY_WORDS - 1) * WORD_SIZE // Highest valid byte address.
	CODE_LIMIT     = 1024                           // Maximum loaded code words.
)

var _cpu_defines = map[string]string{
	"REGISTER_COUNT": fmt.Sprintf("%d", REGISTER_COUNT),
	"WORD_SIZE":      fmt.Sprintf("%d", WORD_SIZE),
	"MEMORY_WORDS":   fmt.Sprintf("%d", MEMORY_WORDS),
	"MEMORY_LIMIT":   fmt.Sprintf("%d", MEMORY_LIMIT),
	"CODE_LIMIT":     fmt.Sprintf("%d", CODE_LIMIT),
}

// Outcome classifies how Execute dispatched an instruction.
type Outcome int

const (
	OUTCOME_EXECUTED = Outcome(0) // executed
	OUTCOME_UNKNOWN  = Outcome(1) // unknown
)

func (oc Outcome) String() string {
	switch oc {
	case OUTCOME_EXECUTED:
		return "executed"
	case OUTCOME_UNKNOWN:
		return "unknown"
	}
	return fmt.Sprintf("Outcome(%d)", int(oc))
}

// Report is the stage activity of one executed instruction.
type Report struct {
	Outcome         Outcome // Dispatch outcome.
	MemoryAccessed  bool    // Set if the memory stage was active.
	RegisterWritten bool    // Set if the write-back stage was active.
}

// Cpu is the simulation context for the processor.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	// If set, SLL, SRL and SRA take their amount from the instruction shamt
	// field, and SRL/SRLV are logical. Otherwise the amount is read from the
	// register indexed by the funct field, and all right shifts are
	// arithmetic.
	ShamtField bool

	Pc       int                   // Index of the next code word to fetch.
	Register [REGISTER_COUNT]int32 // Register bank.
	Memory   [MEMORY_WORDS]int32   // Main memory, in words.
	Code     []Code                // Loaded program.
}

// NewCpu creates a new CPU with cleared state.
func NewCpu() (cpu *Cpu) {
	cpu = &Cpu{}

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	text = fmt.Sprintf("% 5s: %04d\n", "pc", cpu.Pc)
	for n, val := range cpu.Register {
		text += fmt.Sprintf("% 5s: %04X_%04X\n", CodeReg(n).String(), uint32(val)>>16, uint32(val)&0xffff)
	}

	return
}

// Reset the CPU state.
// - Clears the registers and memory.
// - Unloads the program.
// - Sets the PC to the first code word.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	clear(cpu.Register[:])
	clear(cpu.Memory[:])
	cpu.Code = nil
	cpu.Pc = 0
}

// Load the program code.
func (cpu *Cpu) Load(code []Code) (err error) {
	if len(code) > CODE_LIMIT {
		err = errors.Join(ErrCodeLimit, ErrOutOfBounds)
		return
	}

	cpu.Code = append([]Code(nil), code...)

	if cpu.Verbose {
		log.Printf("cpu: loaded %d code words", len(code))
	}

	return
}

// GetRegister returns the value of a register.
func (cpu *Cpu) GetRegister(index int) (value int32, err error) {
	if index < 0 || index >= REGISTER_COUNT {
		err = &ErrRegister{Index: index, Err: ErrOutOfBounds}
		return
	}

	value = cpu.Register[index]
	return
}

// SetRegister sets the value of a register. Writes to r0 are discarded.
func (cpu *Cpu) SetRegister(index int, value int32) (err error) {
	if index < 0 || index >= REGISTER_COUNT {
		err = &ErrRegister{Index: index, Err: ErrOutOfBounds}
		return
	}

	cpu.writeRegister(CodeReg(index), value)
	return
}

// writeRegister updates a register, keeping r0 at zero.
func (cpu *Cpu) writeRegister(reg CodeReg, value int32) {
	if reg == REG_ZERO {
		return
	}
	cpu.Register[reg] = value
}

// wordIndex converts a byte address to a memory word index.
func wordIndex(address int) (index int, err error) {
	if address%WORD_SIZE != 0 {
		err = &ErrAddress{Address: address, Err: ErrMisalignedAccess}
		return
	}
	if address < 0 || address > MEMORY_LIMIT {
		err = &ErrAddress{Address: address, Err: ErrOutOfBounds}
		return
	}

	index = address / WORD_SIZE
	return
}

// LoadWord reads the memory word at a byte address.
func (cpu *Cpu) LoadWord(address int) (value int32, err error) {
	index, err := wordIndex(address)
	if err != nil {
		return
	}

	value = cpu.Memory[index]
	return
}

// StoreWord writes the memory word at a byte address.
func (cpu *Cpu) StoreWord(address int, value int32) (err error) {
	index, err := wordIndex(address)
	if err != nil {
		return
	}

	cpu.Memory[index] = value
	return
}

// Fetch returns the code word at the PC, and advances the PC.
// Returns ErrPcEmpty once the PC has run past the loaded code.
func (cpu *Cpu) Fetch() (code Code, err error) {
	if cpu.Pc >= len(cpu.Code) {
		err = ErrPcEmpty
		return
	}
	if cpu.Pc < 0 {
		err = &ErrPc{Pc: cpu.Pc, Err: ErrOutOfBounds}
		return
	}

	code = cpu.Code[cpu.Pc]
	cpu.Pc++

	return
}

// Tick fetches and executes a single instruction.
func (cpu *Cpu) Tick() (report Report, err error) {
	code, err := cpu.Fetch()
	if err != nil {
		return
	}

	report, err = cpu.Execute(code)
	return
}

// Execute executes a single instruction word.
// The PC must already refer to the following instruction.
func (cpu *Cpu) Execute(code Code) (report Report, err error) {
	defer func() {
		if err != nil {
			err = errors.Join(ErrOpcode(code), err)
		}
	}()
	if cpu.Verbose {
		log.Printf("%03d: %08x %v", cpu.Pc-1, uint32(code), code)
	}

	switch code.Format() {
	case FORMAT_R:
		report = cpu.executeR(code)
	case FORMAT_J:
		report = cpu.executeJ(code)
	default:
		report, err = cpu.executeI(code)
	}

	if report.Outcome == OUTCOME_UNKNOWN && cpu.Verbose {
		log.Printf("%03d: %08x ignored, unknown %v instruction", cpu.Pc-1, uint32(code), code.Format())
	}

	return
}

// boolWord converts a condition to 0 or 1.
func boolWord(cond bool) int32 {
	if cond {
		return 1
	}
	return 0
}

// shiftAmount returns the amount for the fixed shift instructions.
func (cpu *Cpu) shiftAmount(code Code) uint32 {
	if cpu.ShamtField {
		return code.Shamt()
	}
	return uint32(cpu.Register[code.Funct()]) & 0x1f
}

// shiftRight shifts right, logically only if ShamtField is set.
func (cpu *Cpu) shiftRight(value int32, amount uint32, logical bool) int32 {
	amount &= 0x1f // clamp to 31 bits of shift
	if logical && cpu.ShamtField {
		return int32(uint32(value) >> amount)
	}
	return value >> amount
}

// executeR executes an R format instruction.
func (cpu *Cpu) executeR(code Code) (report Report) {
	rs := cpu.Register[code.Rs()]
	rt := cpu.Register[code.Rt()]

	var value int32
	switch code.Funct() {
	case FUNCT_ADD:
		value = rs + rt
	case FUNCT_SUB:
		value = rs - rt
	case FUNCT_ADDU:
		value = int32(uint32(rs) + uint32(rt))
	case FUNCT_SUBU:
		value = int32(uint32(rs) - uint32(rt))
	case FUNCT_AND:
		// Logical, not bitwise.
		value = boolWord(rs != 0 && rt != 0)
	case FUNCT_OR:
		value = rs | rt
	case FUNCT_XOR:
		value = rs ^ rt
	case FUNCT_NOR:
		value = ^(rs | rt)
	case FUNCT_SLT:
		value = boolWord(rs < rt)
	case FUNCT_SLTU:
		value = boolWord(uint32(rs) < uint32(rt))
	case FUNCT_SLL:
		value = rt << cpu.shiftAmount(code)
	case FUNCT_SLLV:
		value = rt << (uint32(rs) & 0x1f)
	case FUNCT_SRL:
		value = cpu.shiftRight(rt, cpu.shiftAmount(code), true)
	case FUNCT_SRA:
		value = cpu.shiftRight(rt, cpu.shiftAmount(code), false)
	case FUNCT_SRLV:
		value = cpu.shiftRight(rt, uint32(rs), true)
	case FUNCT_SRAV:
		value = cpu.shiftRight(rt, uint32(rs), false)
	case FUNCT_JR:
		cpu.Pc = int(rs)
		return
	case FUNCT_JALR:
		cpu.writeRegister(REG_LINK, int32(cpu.Pc))
		cpu.Pc = int(rs)
		return
	default:
		report.Outcome = OUTCOME_UNKNOWN
		return
	}

	cpu.writeRegister(code.Rd(), value)
	report.RegisterWritten = true

	return
}

// branch moves the PC relative to the instruction after the branch.
func (cpu *Cpu) branch(offset int32) {
	cpu.Pc += int(offset)
}

// executeI executes an I format instruction.
func (cpu *Cpu) executeI(code Code) (report Report, err error) {
	rs := cpu.Register[code.Rs()]
	rt := code.Rt()
	imm := code.Immediate()

	var value int32
	switch code.Opcode() {
	case OP_ADDI:
		value = rs + imm
	case OP_ADDIU:
		value = int32(uint32(rs) + uint32(imm))
	case OP_ANDI:
		value = boolWord(rs != 0 && imm != 0)
	case OP_ORI:
		value = rs | imm
	case OP_XORI:
		value = rs ^ imm
	case OP_SLTI:
		value = boolWord(rs < imm)
	case OP_SLTIU:
		value = boolWord(uint32(rs) < uint32(imm))
	case OP_LUI:
		value = imm << 16
	case OP_LW:
		value, err = cpu.LoadWord(int(rs) + int(imm))
		if err != nil {
			return
		}
		report.MemoryAccessed = true
	case OP_SW:
		err = cpu.StoreWord(int(rs)+int(imm), cpu.Register[rt])
		if err != nil {
			return
		}
		report.MemoryAccessed = true
		return
	case OP_BEQ:
		if rs == cpu.Register[rt] {
			cpu.branch(imm)
		}
		return
	case OP_BNE:
		if rs != cpu.Register[rt] {
			cpu.branch(imm)
		}
		return
	case OP_BGTZ:
		if rs > 0 {
			cpu.branch(imm)
		}
		return
	case OP_BLEZ:
		if rs <= 0 {
			cpu.branch(imm)
		}
		return
	case OP_REGIMM:
		report = cpu.executeRegimm(code)
		return
	default:
		report.Outcome = OUTCOME_UNKNOWN
		return
	}

	cpu.writeRegister(rt, value)
	report.RegisterWritten = true

	return
}

// executeRegimm executes the OP_REGIMM branch family, selected by rt.
func (cpu *Cpu) executeRegimm(code Code) (report Report) {
	rs := cpu.Register[code.Rs()]

	var taken bool
	var link bool
	switch CodeRegimm(code.Rt()) {
	case REGIMM_BLTZ:
		taken = rs < 0
	case REGIMM_BGEZ:
		taken = rs >= 0
	case REGIMM_BLTZAL:
		taken = rs < 0
		link = true
	case REGIMM_BGEZAL:
		taken = rs >= 0
		link = true
	default:
		report.Outcome = OUTCOME_UNKNOWN
		return
	}

	// The link register is written whether or not the branch is taken.
	if link {
		cpu.writeRegister(REG_LINK, int32(cpu.Pc))
		report.RegisterWritten = true
	}

	if taken {
		cpu.branch(code.Immediate())
	}

	return
}

// executeJ executes a J format instruction.
func (cpu *Cpu) executeJ(code Code) (report Report) {
	switch code.Opcode() {
	case OP_J:
		cpu.Pc += int(code.Target())
	case OP_JAL:
		cpu.writeRegister(REG_LINK, int32(cpu.Pc))
		report.RegisterWritten = true
		cpu.Pc += int(code.Target())
	default:
		report.Outcome = OUTCOME_UNKNOWN
	}

	return
}
