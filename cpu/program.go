package cpu

import (
	"iter"
)

// Opcode represents a line of assembled code with its source location and generated instruction.
type Opcode struct {
	LineNo    int
	Pc        int
	Words     []string
	Code      Code
	LinkLabel string
}

// Program is the assembled output of an Assembler, in PC order.
type Program struct {
	Opcodes []Opcode
}

// Debug locates the source of a code word.
type Debug struct {
	*Opcode
}

// Debug returns the source line that generated the code word at pc.
func (prog *Program) Debug(pc int) (dbg Debug) {
	for n, op := range prog.Opcodes {
		if pc == op.Pc {
			dbg = Debug{
				Opcode: &prog.Opcodes[n],
			}
			break
		}
	}

	return
}

// Binary returns the code words of the program, in PC order.
func (prog *Program) Binary() (bins []Code) {
	for _, code := range prog.Codes() {
		bins = append(bins, code)
	}

	return
}

// Codes iterates over the code words of the program, keyed by PC.
func (prog *Program) Codes() iter.Seq2[int, Code] {
	return func(yield func(pc int, code Code) bool) {
		for _, op := range prog.Opcodes {
			if !yield(op.Pc, op.Code) {
				return
			}
		}
	}
}
