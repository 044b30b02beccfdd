// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO": "0",
}

// Assembler is a single pass assembler for the instruction set.
type Assembler struct {
	Verbose bool     // If set, verbosely logs the assembler actions.
	Opcode  []Opcode // List of generated opcodes.

	predefine map[string]string // Predefines
	Label     map[string]int    // Map of jump labels to code indexes.
	Equate    map[string]string // Map of equates.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// regAlias maps register aliases to register indexes.
var regAlias = map[string]CodeReg{
	"zero": REG_ZERO,
	"ra":   REG_LINK,
}

// regOf returns the register for r0..r31, $0..$31, or an alias.
func (asm *Assembler) regOf(word string) (reg CodeReg, err error) {
	if equate, ok := asm.Equate[word]; ok {
		word = equate
	}

	reg, ok := regAlias[word]
	if ok {
		return
	}

	if len(word) < 2 || (word[0] != 'r' && word[0] != '$') {
		err = ErrRegisterInvalid
		return
	}

	index, perr := strconv.Atoi(word[1:])
	if perr != nil || index < 0 || index >= REGISTER_COUNT {
		err = ErrRegisterInvalid
		return
	}

	reg = CodeReg(index)
	return
}

// valueOf returns the value of a simple word.
func (asm *Assembler) valueOf(word string) (value int64, err error) {
	if equate, ok := asm.Equate[word]; ok {
		word = equate
	}

	value, err = strconv.ParseInt(word, 0, 64)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	return
}

// immOf returns the value of a word that must fit a field of 'bits' width.
// Both signed and unsigned renderings of the field are accepted.
func (asm *Assembler) immOf(word string, bits int) (value int32, err error) {
	v64, err := asm.valueOf(word)
	if err != nil {
		return
	}

	if v64 < -(int64(1)<<(bits-1)) || v64 >= (int64(1)<<bits) {
		err = ErrImmediateRange
		return
	}

	value = int32(v64)
	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int64, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key := range asm.Equate {
		var v64 int64
		v64, err = asm.valueOf(key)
		if err != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			err = nil
			continue
		}
		pred[key] = starlark.MakeInt64(v64)
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value, ok = st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	return
}

var reParen = regexp.MustCompile(`\$\([^\$]*\)`)

// parseLine parses a single line into words, handling equates and labels.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do $() evaluations
	line = reParen.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%d", value)
	})
	if err != nil {
		return
	}

	words = strings.FieldsFunc(line, func(r rune) bool {
		return r == ' ' || r == '\t' || r == ','
	})

	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}

		if asm.Label == nil {
			asm.Label = make(map[string]int, 16)
		}
		asm.Label[label] = asm.currentPc()
		words = words[1:]
		if len(words) == 0 {
			return
		}
	}

	return
}

// currentPc gets the PC of the next generated code word.
func (asm *Assembler) currentPc() int {
	return len(asm.Opcode)
}

// Parse parses an input stream into a Program containing opcodes.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {

	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	clear(asm.Label)
	asm.Opcode = asm.Opcode[:0]
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		text_comment := strings.Split(text, ";")
		line = strings.TrimSpace(text_comment[0])

		var words []string
		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}

		if len(asm.Opcode) > CODE_LIMIT {
			err = ErrCodeLimit
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	// Final linking of branch and jump labels.
	for n := range asm.Opcode {
		op := &asm.Opcode[n]

		if len(op.LinkLabel) == 0 {
			continue
		}
		label := op.LinkLabel
		pc, ok := asm.Label[label]
		if !ok {
			lineno = op.LineNo
			line = strings.Join(op.Words, " ")
			err = ErrLabelMissing(label)
			return
		}

		// Offsets are relative to the instruction after the branch.
		offset := int64(pc - (op.Pc + 1))
		bits := 16
		if op.Code.Format() == FORMAT_J {
			bits = 26
		}
		if !offsetFits(offset, bits) {
			lineno = op.LineNo
			line = strings.Join(op.Words, " ")
			err = ErrTargetInvalid
			return
		}
		mask := uint32(1)<<bits - 1
		op.Code = Code((uint32(op.Code) &^ mask) | (uint32(offset) & mask))
	}

	prog = &Program{
		Opcodes: slices.Clone(asm.Opcode),
	}

	return
}

// opR3 is the R format 'op rd rs rt' group.
var opR3 = map[string]CodeFunct{
	"add":  FUNCT_ADD,
	"addu": FUNCT_ADDU,
	"sub":  FUNCT_SUB,
	"subu": FUNCT_SUBU,
	"and":  FUNCT_AND,
	"or":   FUNCT_OR,
	"xor":  FUNCT_XOR,
	"nor":  FUNCT_NOR,
	"slt":  FUNCT_SLT,
	"sltu": FUNCT_SLTU,
}

// opShift is the R format 'op rd rt shamt' group.
var opShift = map[string]CodeFunct{
	"sll": FUNCT_SLL,
	"srl": FUNCT_SRL,
	"sra": FUNCT_SRA,
}

// opShiftV is the R format 'op rd rt rs' group.
var opShiftV = map[string]CodeFunct{
	"sllv": FUNCT_SLLV,
	"srlv": FUNCT_SRLV,
	"srav": FUNCT_SRAV,
}

// opJumpR is the R format 'op rs' group.
var opJumpR = map[string]CodeFunct{
	"jr":   FUNCT_JR,
	"jalr": FUNCT_JALR,
}

// opImm is the I format 'op rt rs imm' group.
var opImm = map[string]CodeOp{
	"addi":  OP_ADDI,
	"addiu": OP_ADDIU,
	"slti":  OP_SLTI,
	"sltiu": OP_SLTIU,
	"andi":  OP_ANDI,
	"ori":   OP_ORI,
	"xori":  OP_XORI,
}

// opMem is the I format 'op rt offset(rs)' group.
var opMem = map[string]CodeOp{
	"lw": OP_LW,
	"sw": OP_SW,
}

// opBranch1 is the I format 'op rs target' group.
var opBranch1 = map[string]Code{
	"blez":   MakeCodeI(OP_BLEZ, REG_ZERO, REG_ZERO, 0),
	"bgtz":   MakeCodeI(OP_BGTZ, REG_ZERO, REG_ZERO, 0),
	"bltz":   MakeCodeRegimm(REGIMM_BLTZ, REG_ZERO, 0),
	"bgez":   MakeCodeRegimm(REGIMM_BGEZ, REG_ZERO, 0),
	"bltzal": MakeCodeRegimm(REGIMM_BLTZAL, REG_ZERO, 0),
	"bgezal": MakeCodeRegimm(REGIMM_BGEZAL, REG_ZERO, 0),
}

// offsetFits checks that a PC-relative offset fits a signed field of 'bits' width.
func offsetFits(offset int64, bits int) bool {
	return offset >= -(int64(1)<<(bits-1)) && offset < (int64(1)<<(bits-1))
}

var reMem = regexp.MustCompile(`^([^()]*)\(([^()]+)\)$`)

// wantArgs checks the operand count of an instruction.
func wantArgs(args []string, count int) (err error) {
	switch {
	case len(args) < count:
		err = ErrOpcodeValueMissing
	case len(args) > count:
		err = ErrOpcodeExtraArgs
	}
	return
}

// target returns a signed numeric offset, or a label to link.
func (asm *Assembler) target(word string, bits int) (offset int32, label string, err error) {
	if v64, perr := asm.valueOf(word); perr == nil {
		if !offsetFits(v64, bits) {
			err = ErrTargetInvalid
			return
		}
		offset = int32(v64)
		return
	}

	if len(word) == 0 || strings.ContainsAny(word, "()$") {
		err = ErrTargetInvalid
		return
	}

	label = word
	return
}

// parseWords evaluates the words in a line of assembly text.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	var code Code
	var label string

	// no-op
	if len(words) == 0 {
		return
	}

	defer func() {
		if err != nil {
			return
		}
		opcode := Opcode{LineNo: lineno, Pc: asm.currentPc(), Words: words, Code: code, LinkLabel: label}
		asm.Opcode = append(asm.Opcode, opcode)
	}()

	name := words[0]
	args := words[1:]

	// Pseudo-instruction substitutions
	switch {
	case name == "nop" && len(args) == 0:
		name, args = "sll", []string{"r0", "r0", "0"}
	case name == "move" && len(args) == 2:
		name, args = "addu", []string{args[0], args[1], "r0"}
	case name == "li" && len(args) == 2:
		name, args = "addiu", []string{args[0], "r0", args[1]}
	case name == "b" && len(args) == 1:
		name, args = "beq", []string{"r0", "r0", args[0]}
	default:
		// unchanged
	}

	regs := func(count int) (out []CodeReg, err error) {
		out = make([]CodeReg, count)
		for n := range count {
			out[n], err = asm.regOf(args[n])
			if err != nil {
				return
			}
		}
		return
	}

	var reg []CodeReg

	if fn, ok := opR3[name]; ok {
		if err = wantArgs(args, 3); err != nil {
			return
		}
		if reg, err = regs(3); err != nil {
			return
		}
		code = MakeCodeR(fn, reg[0], reg[1], reg[2], 0)
		return
	}

	if fn, ok := opShift[name]; ok {
		if err = wantArgs(args, 3); err != nil {
			return
		}
		if reg, err = regs(2); err != nil {
			return
		}
		var shamt int32
		shamt, err = asm.immOf(args[2], 5)
		if err != nil {
			return
		}
		if shamt < 0 {
			err = ErrImmediateRange
			return
		}
		code = MakeCodeR(fn, reg[0], REG_ZERO, reg[1], uint32(shamt))
		return
	}

	if fn, ok := opShiftV[name]; ok {
		if err = wantArgs(args, 3); err != nil {
			return
		}
		if reg, err = regs(3); err != nil {
			return
		}
		code = MakeCodeR(fn, reg[0], reg[2], reg[1], 0)
		return
	}

	if fn, ok := opJumpR[name]; ok {
		if err = wantArgs(args, 1); err != nil {
			return
		}
		if reg, err = regs(1); err != nil {
			return
		}
		code = MakeCodeR(fn, REG_ZERO, reg[0], REG_ZERO, 0)
		return
	}

	if op, ok := opImm[name]; ok {
		if err = wantArgs(args, 3); err != nil {
			return
		}
		if reg, err = regs(2); err != nil {
			return
		}
		var imm int32
		imm, err = asm.immOf(args[2], 16)
		if err != nil {
			return
		}
		code = MakeCodeI(op, reg[0], reg[1], imm)
		return
	}

	if op, ok := opMem[name]; ok {
		if err = wantArgs(args, 2); err != nil {
			return
		}
		if reg, err = regs(1); err != nil {
			return
		}
		match := reMem.FindStringSubmatch(args[1])
		if match == nil {
			err = ErrOpcodeValueMissing
			return
		}
		var base CodeReg
		base, err = asm.regOf(match[2])
		if err != nil {
			return
		}
		var imm int32
		if len(match[1]) != 0 {
			imm, err = asm.immOf(match[1], 16)
			if err != nil {
				return
			}
		}
		code = MakeCodeI(op, reg[0], base, imm)
		return
	}

	if base, ok := opBranch1[name]; ok {
		if err = wantArgs(args, 2); err != nil {
			return
		}
		if reg, err = regs(1); err != nil {
			return
		}
		var imm int32
		imm, label, err = asm.target(args[1], 16)
		if err != nil {
			return
		}
		code = base | MakeCodeI(OP_SPECIAL, REG_ZERO, reg[0], imm)
		return
	}

	switch name {
	case "lui":
		if err = wantArgs(args, 2); err != nil {
			return
		}
		if reg, err = regs(1); err != nil {
			return
		}
		var imm int32
		imm, err = asm.immOf(args[1], 16)
		if err != nil {
			return
		}
		code = MakeCodeI(OP_LUI, reg[0], REG_ZERO, imm)
	case "beq", "bne":
		if err = wantArgs(args, 3); err != nil {
			return
		}
		if reg, err = regs(2); err != nil {
			return
		}
		var imm int32
		imm, label, err = asm.target(args[2], 16)
		if err != nil {
			return
		}
		op := OP_BEQ
		if name == "bne" {
			op = OP_BNE
		}
		code = MakeCodeI(op, reg[1], reg[0], imm)
	case "j", "jal":
		if err = wantArgs(args, 1); err != nil {
			return
		}
		var offset int32
		offset, label, err = asm.target(args[0], 26)
		if err != nil {
			return
		}
		op := OP_J
		if name == "jal" {
			op = OP_JAL
		}
		code = MakeCodeJ(op, offset)
	case ".word":
		if err = wantArgs(args, 1); err != nil {
			return
		}
		var v64 int64
		v64, err = asm.valueOf(args[0])
		if err != nil {
			return
		}
		if v64 < -(int64(1)<<31) || v64 > 0xffffffff {
			err = ErrImmediateRange
			return
		}
		code = Code(uint32(v64))
	default:
		err = ErrInstructionInvalid
	}

	return
}
