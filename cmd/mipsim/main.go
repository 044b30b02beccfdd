// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/ezrec/mipsim/cpu"
	"github.com/ezrec/mipsim/emulator"
	"github.com/ezrec/mipsim/io"
	"github.com/ezrec/mipsim/translate"
)

// prompt asks for a file name on stdin.
func prompt(in *bufio.Reader, question string) (answer string) {
	fmt.Print(translate.From(question))
	answer, err := in.ReadString('\n')
	if err != nil && len(answer) == 0 {
		log.Fatalf("%v: %v", os.Args[0], err)
	}

	return strings.TrimSpace(answer)
}

func main() {
	var input string
	var output string
	var assemble string
	var shamt bool
	var verbose bool
	var lang string

	flag.StringVar(&input, "i", "", "Configuration input file")
	flag.StringVar(&output, "o", "", "Trace and dump output file ('-' for stdout)")
	flag.StringVar(&assemble, "a", "", ".s file to assemble in place of the CODE section")
	flag.BoolVar(&shamt, "shamt", false, "Shift by the instruction shamt field")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.StringVar(&lang, "lang", "", "Message locale (default: user locale)")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	if len(lang) != 0 {
		translate.Set(lang)
	}

	stdin := bufio.NewReader(os.Stdin)
	if len(input) == 0 {
		input = prompt(stdin, "Input File: ")
	}
	if len(output) == 0 {
		output = prompt(stdin, "Output File: ")
	}

	emu := emulator.NewEmulator()
	emu.Verbose = verbose
	emu.Cpu.ShamtField = shamt

	inf, err := os.Open(input)
	if err != nil {
		log.Fatalf("%v: %v", input, err)
	}
	defer inf.Close()

	state, err := io.Load(inf)
	if err != nil {
		log.Fatalf("%v: %v", input, err)
	}

	// Assemble a new instruction stream.
	if len(assemble) != 0 {
		asf, err := os.Open(assemble)
		if err != nil {
			log.Fatalf("%v: %v", assemble, err)
		}
		defer asf.Close()

		asm := &cpu.Assembler{Verbose: verbose}
		for key, value := range emu.Defines() {
			asm.Predefine(key, value)
		}
		emu.Program, err = asm.Parse(asf)
		if err != nil {
			log.Fatalf("%v: %v", assemble, err)
		}
	}

	ouf := os.Stdout
	if output != "-" {
		ouf, err = os.Create(output)
		if err != nil {
			log.Fatalf("%v: %v", output, err)
		}
		defer ouf.Close()
	}

	out := bufio.NewWriter(ouf)
	emu.Tracer.Output = out

	err = emu.Reset(state)
	if err != nil {
		log.Fatalf("%v: %v", input, err)
	}

	err = emu.Run()
	if err != nil {
		out.Flush()
		log.Fatal(err)
	}

	err = io.WriteDump(out, emu.Dump())
	if err == nil {
		err = out.Flush()
	}
	if err != nil {
		log.Fatalf("%v: %v", output, err)
	}
}
