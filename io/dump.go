package io

import (
	"fmt"
	"io"
	"maps"
	"slices"
)

// WriteDump writes the non-zero registers and memory words of a state,
// each in ascending order. The output is itself a loadable configuration.
func WriteDump(output io.Writer, state State) (err error) {
	_, err = fmt.Fprintln(output, SECTION_REGISTERS)
	if err != nil {
		return
	}

	for _, index := range slices.Sorted(maps.Keys(state.Registers)) {
		value := state.Registers[index]
		if value == 0 {
			continue
		}
		_, err = fmt.Fprintf(output, "R%d %d\n", index, value)
		if err != nil {
			return
		}
	}

	_, err = fmt.Fprintln(output, SECTION_MEMORY)
	if err != nil {
		return
	}

	for _, address := range slices.Sorted(maps.Keys(state.Memory)) {
		value := state.Memory[address]
		if value == 0 {
			continue
		}
		_, err = fmt.Fprintf(output, "%d %d\n", address, value)
		if err != nil {
			return
		}
	}

	return
}
