// Package cpu implements the processor, loader and assembler for the LS-8 system.
//
// The LS-8 is an 8-bit register machine: eight general-purpose registers
// (R0-R7, with R7 reserved as the stack pointer), 256 bytes of memory shared
// by program, data and a downward-growing stack, a program counter (PC) and a
// flags register (FL) holding the result of the last comparison.
//
// Instructions are one opcode byte followed by zero, one or two operand
// bytes. Each opcode is bound to a handler in a dispatch table built once at
// startup; the handler reads its own operands and sets the next PC.
//
// Programs are supplied either as a binary listing (one 8-digit binary literal
// per line) parsed by the Loader, or as mnemonic source translated by the
// Assembler.
package cpu
