package emulator

import (
	"fmt"
	"io"

	"github.com/ezrec/mipsim/cpu"
)

// Stage is a conceptual pipeline stage of one instruction.
type Stage int

const (
	STAGE_IF  = Stage(0) // IF
	STAGE_ID  = Stage(1) // ID
	STAGE_EX  = Stage(2) // EX
	STAGE_MEM = Stage(3) // MEM
	STAGE_WB  = Stage(4) // WB
)

var _Stage_name = [...]string{"IF", "ID", "EX", "MEM", "WB"}

func (st Stage) String() string {
	if st < 0 || int(st) >= len(_Stage_name) {
		return fmt.Sprintf("Stage(%d)", int(st))
	}
	return _Stage_name[st]
}

// Stages returns the stages an instruction passed through.
func Stages(report cpu.Report) (stages []Stage) {
	stages = []Stage{STAGE_IF, STAGE_ID, STAGE_EX}
	if report.MemoryAccessed {
		stages = append(stages, STAGE_MEM)
	}
	if report.RegisterWritten {
		stages = append(stages, STAGE_WB)
	}
	return
}

// Tracer logs one line per active stage of each executed instruction.
type Tracer struct {
	Output io.Writer // Trace destination. If nil, only the counters advance.

	Cycle       int // Last emitted cycle number.
	Instruction int // Last traced instruction number.
}

// Reset the cycle and instruction counters.
func (tr *Tracer) Reset() {
	tr.Cycle = 0
	tr.Instruction = 0
}

// Trace emits the stage lines for the next instruction.
func (tr *Tracer) Trace(report cpu.Report) (err error) {
	tr.Instruction++

	for _, stage := range Stages(report) {
		tr.Cycle++
		if tr.Output == nil {
			continue
		}
		_, err = fmt.Fprintf(tr.Output, "c#%d I%d-%v\n", tr.Cycle, tr.Instruction, stage)
		if err != nil {
			return
		}
	}

	return
}
