// Package cpu implements a non-pipelined processor for a MIPS-like
// instruction subset, and an assembler for it.
//
// The CPU consists of a program counter (PC) indexing the loaded code in
// instruction words, thirty-two signed 32-bit registers (r0-r31, r0 always
// reads as zero), and 250 words of memory addressed by byte offset in
// multiples of four.
//
// Instruction words follow one of three formats (R, I, J) selected by the
// opcode in bits 31..26. Execution of each word reports whether memory was
// accessed and whether a register was written back, which drives the
// per-stage cycle trace kept by the emulator.
//
// The assembler provides a plain text syntax for the instruction set,
// supporting labels, equates, and compile-time expression evaluation.
package cpu
