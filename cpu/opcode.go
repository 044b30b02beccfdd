package cpu

import (
	"fmt"
)

// CodeFormat is the bit layout of an instruction word.
type CodeFormat int

const (
	FORMAT_R = CodeFormat(0) // R
	FORMAT_I = CodeFormat(1) // I
	FORMAT_J = CodeFormat(2) // J
)

var _CodeFormat_name = map[CodeFormat]string{
	FORMAT_R: "R",
	FORMAT_I: "I",
	FORMAT_J: "J",
}

func (cf CodeFormat) String() string {
	name, ok := _CodeFormat_name[cf]
	if !ok {
		return fmt.Sprintf("CodeFormat(%d)", int(cf))
	}
	return name
}

// CodeOp is the 6-bit primary opcode.
type CodeOp int

const (
	OP_SPECIAL = CodeOp(0x00) // special
	OP_REGIMM  = CodeOp(0x01) // regimm
	OP_J       = CodeOp(0x02) // j
	OP_JAL     = CodeOp(0x03) // jal
	OP_BEQ     = CodeOp(0x04) // beq
	OP_BNE     = CodeOp(0x05) // bne
	OP_BLEZ    = CodeOp(0x06) // blez
	OP_BGTZ    = CodeOp(0x07) // bgtz
	OP_ADDI    = CodeOp(0x08) // addi
	OP_ADDIU   = CodeOp(0x09) // addiu
	OP_SLTI    = CodeOp(0x0a) // slti
	OP_SLTIU   = CodeOp(0x0b) // sltiu
	OP_ANDI    = CodeOp(0x0c) // andi
	OP_ORI     = CodeOp(0x0d) // ori
	OP_XORI    = CodeOp(0x0e) // xori
	OP_LUI     = CodeOp(0x0f) // lui
	OP_LW      = CodeOp(0x23) // lw
	OP_SW      = CodeOp(0x2b) // sw
)

var _CodeOp_name = map[CodeOp]string{
	OP_SPECIAL: "special",
	OP_REGIMM:  "regimm",
	OP_J:       "j",
	OP_JAL:     "jal",
	OP_BEQ:     "beq",
	OP_BNE:     "bne",
	OP_BLEZ:    "blez",
	OP_BGTZ:    "bgtz",
	OP_ADDI:    "addi",
	OP_ADDIU:   "addiu",
	OP_SLTI:    "slti",
	OP_SLTIU:   "sltiu",
	OP_ANDI:    "andi",
	OP_ORI:     "ori",
	OP_XORI:    "xori",
	OP_LUI:     "lui",
	OP_LW:      "lw",
	OP_SW:      "sw",
}

func (op CodeOp) String() string {
	name, ok := _CodeOp_name[op]
	if !ok {
		return fmt.Sprintf("CodeOp(%d)", int(op))
	}
	return name
}

// CodeFunct is the 6-bit function field of an R format word.
type CodeFunct int

const (
	FUNCT_SLL  = CodeFunct(0x00) // sll
	FUNCT_SRL  = CodeFunct(0x02) // srl
	FUNCT_SRA  = CodeFunct(0x03) // sra
	FUNCT_SLLV = CodeFunct(0x04) // sllv
	FUNCT_SRLV = CodeFunct(0x06) // srlv
	FUNCT_SRAV = CodeFunct(0x07) // srav
	FUNCT_JR   = CodeFunct(0x08) // jr
	FUNCT_JALR = CodeFunct(0x09) // jalr
	FUNCT_ADD  = CodeFunct(0x20) // add
	FUNCT_ADDU = CodeFunct(0x21) // addu
	FUNCT_SUB  = CodeFunct(0x22) // sub
	FUNCT_SUBU = CodeFunct(0x23) // subu
	FUNCT_AND  = CodeFunct(0x24) // and
	FUNCT_OR   = CodeFunct(0x25) // or
	FUNCT_XOR  = CodeFunct(0x26) // xor
	FUNCT_NOR  = CodeFunct(0x27) // nor
	FUNCT_SLT  = CodeFunct(0x2a) // slt
	FUNCT_SLTU = CodeFunct(0x2b) // sltu
)

var _CodeFunct_name = map[CodeFunct]string{
	FUNCT_SLL:  "sll",
	FUNCT_SRL:  "srl",
	FUNCT_SRA:  "sra",
	FUNCT_SLLV: "sllv",
	FUNCT_SRLV: "srlv",
	FUNCT_SRAV: "srav",
	FUNCT_JR:   "jr",
	FUNCT_JALR: "jalr",
	FUNCT_ADD:  "add",
	FUNCT_ADDU: "addu",
	FUNCT_SUB:  "sub",
	FUNCT_SUBU: "subu",
	FUNCT_AND:  "and",
	FUNCT_OR:   "or",
	FUNCT_XOR:  "xor",
	FUNCT_NOR:  "nor",
	FUNCT_SLT:  "slt",
	FUNCT_SLTU: "sltu",
}

func (fn CodeFunct) String() string {
	name, ok := _CodeFunct_name[fn]
	if !ok {
		return fmt.Sprintf("CodeFunct(%d)", int(fn))
	}
	return name
}

// CodeRegimm selects a branch of the OP_REGIMM family through the rt field.
type CodeRegimm int

const (
	REGIMM_BLTZ   = CodeRegimm(0x00) // bltz
	REGIMM_BGEZ   = CodeRegimm(0x01) // bgez
	REGIMM_BLTZAL = CodeRegimm(0x10) // bltzal
	REGIMM_BGEZAL = CodeRegimm(0x11) // bgezal
)

var _CodeRegimm_name = map[CodeRegimm]string{
	REGIMM_BLTZ:   "bltz",
	REGIMM_BGEZ:   "bgez",
	REGIMM_BLTZAL: "bltzal",
	REGIMM_BGEZAL: "bgezal",
}

func (ri CodeRegimm) String() string {
	name, ok := _CodeRegimm_name[ri]
	if !ok {
		return fmt.Sprintf("CodeRegimm(%d)", int(ri))
	}
	return name
}

// CodeReg is a register file index.
type CodeReg int

const (
	REG_ZERO = CodeReg(0)  // r0
	REG_LINK = CodeReg(31) // r31
)

func (reg CodeReg) String() string {
	return fmt.Sprintf("r%d", int(reg))
}

// Code is a single 32-bit instruction word.
type Code uint32

// Instruction is a decoded instruction word. Only the fields of its
// Format are meaningful.
type Instruction struct {
	Format    CodeFormat
	Opcode    CodeOp
	Funct     CodeFunct
	Shamt     uint32
	Rd        CodeReg
	Rt        CodeReg
	Rs        CodeReg
	Immediate int32
	Target    int32
}

// MakeCodeR creates an R format instruction.
func MakeCodeR(funct CodeFunct, rd, rs, rt CodeReg, shamt uint32) Code {
	return Code((uint32(rs&0x1f) << 21) | (uint32(rt&0x1f) << 16) | (uint32(rd&0x1f) << 11) | ((shamt & 0x1f) << 6) | uint32(funct&0x3f))
}

// MakeCodeI creates an I format instruction.
func MakeCodeI(op CodeOp, rt, rs CodeReg, imm int32) Code {
	return Code((uint32(op&0x3f) << 26) | (uint32(rs&0x1f) << 21) | (uint32(rt&0x1f) << 16) | (uint32(imm) & 0xffff))
}

// MakeCodeRegimm creates an OP_REGIMM branch instruction.
func MakeCodeRegimm(ri CodeRegimm, rs CodeReg, imm int32) Code {
	return MakeCodeI(OP_REGIMM, CodeReg(ri), rs, imm)
}

// MakeCodeJ creates a J format instruction.
func MakeCodeJ(op CodeOp, target int32) Code {
	return Code((uint32(op&0x3f) << 26) | (uint32(target) & 0x03ffffff))
}

// Opcode returns bits 31..26 of the instruction word.
func (code Code) Opcode() CodeOp {
	return CodeOp((uint32(code) >> 26) & 0x3f)
}

// Format classifies the instruction word by its opcode.
func (code Code) Format() CodeFormat {
	op := code.Opcode()
	switch {
	case op == OP_SPECIAL:
		return FORMAT_R
	case op == OP_J || op == OP_JAL:
		return FORMAT_J
	default:
		return FORMAT_I
	}
}

// Rs returns bits 25..21.
func (code Code) Rs() CodeReg {
	return CodeReg((uint32(code) >> 21) & 0x1f)
}

// Rt returns bits 20..16.
func (code Code) Rt() CodeReg {
	return CodeReg((uint32(code) >> 16) & 0x1f)
}

// Rd returns bits 15..11.
func (code Code) Rd() CodeReg {
	return CodeReg((uint32(code) >> 11) & 0x1f)
}

// Shamt returns bits 10..6.
func (code Code) Shamt() uint32 {
	return (uint32(code) >> 6) & 0x1f
}

// Funct returns bits 5..0.
func (code Code) Funct() CodeFunct {
	return CodeFunct(uint32(code) & 0x3f)
}

// Immediate returns the sign extended low 16 bits.
func (code Code) Immediate() int32 {
	return int32(int16(uint32(code) & 0xffff))
}

// Target returns the sign extended low 26 bits.
func (code Code) Target() int32 {
	return int32(uint32(code)<<6) >> 6
}

// Decode splits the instruction word into the fields of its format.
func (code Code) Decode() (inst Instruction) {
	inst.Format = code.Format()
	inst.Opcode = code.Opcode()

	switch inst.Format {
	case FORMAT_R:
		inst.Funct = code.Funct()
		inst.Shamt = code.Shamt()
		inst.Rd = code.Rd()
		inst.Rt = code.Rt()
		inst.Rs = code.Rs()
	case FORMAT_I:
		inst.Immediate = code.Immediate()
		inst.Rt = code.Rt()
		inst.Rs = code.Rs()
	case FORMAT_J:
		inst.Target = code.Target()
	}

	return
}

// String returns the assembly language representation of this instruction.
func (code Code) String() (out string) {
	word := fmt.Sprintf(".word 0x%08x", uint32(code))

	switch code.Format() {
	case FORMAT_R:
		fn := code.Funct()
		name, ok := _CodeFunct_name[fn]
		if !ok {
			return word
		}
		switch fn {
		case FUNCT_SLL, FUNCT_SRL, FUNCT_SRA:
			out = fmt.Sprintf("%v %v %v %d", name, code.Rd(), code.Rt(), code.Shamt())
		case FUNCT_SLLV, FUNCT_SRLV, FUNCT_SRAV:
			out = fmt.Sprintf("%v %v %v %v", name, code.Rd(), code.Rt(), code.Rs())
		case FUNCT_JR, FUNCT_JALR:
			out = fmt.Sprintf("%v %v", name, code.Rs())
		default:
			out = fmt.Sprintf("%v %v %v %v", name, code.Rd(), code.Rs(), code.Rt())
		}
	case FORMAT_J:
		out = fmt.Sprintf("%v %d", code.Opcode(), code.Target())
	case FORMAT_I:
		op := code.Opcode()
		imm := code.Immediate()
		switch op {
		case OP_REGIMM:
			ri := CodeRegimm(code.Rt())
			name, ok := _CodeRegimm_name[ri]
			if !ok {
				return word
			}
			out = fmt.Sprintf("%v %v %d", name, code.Rs(), imm)
		case OP_BEQ, OP_BNE:
			out = fmt.Sprintf("%v %v %v %d", op, code.Rs(), code.Rt(), imm)
		case OP_BLEZ, OP_BGTZ:
			out = fmt.Sprintf("%v %v %d", op, code.Rs(), imm)
		case OP_LUI:
			out = fmt.Sprintf("%v %v %d", op, code.Rt(), imm)
		case OP_LW, OP_SW:
			out = fmt.Sprintf("%v %v %d(%v)", op, code.Rt(), imm, code.Rs())
		case OP_ADDI, OP_ADDIU, OP_SLTI, OP_SLTIU, OP_ANDI, OP_ORI, OP_XORI:
			out = fmt.Sprintf("%v %v %v %d", op, code.Rt(), code.Rs(), imm)
		default:
			return word
		}
	}

	return
}
