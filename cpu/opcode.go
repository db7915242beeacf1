package cpu

import (
	"fmt"
)

// Opcode is the first byte of an instruction.
type Opcode byte

const (
	OP_NOP  = Opcode(0b00000000)
	OP_HLT  = Opcode(0b00000001)
	OP_RET  = Opcode(0b00010001)
	OP_PUSH = Opcode(0b01000101)
	OP_POP  = Opcode(0b01000110)
	OP_PRN  = Opcode(0b01000111)
	OP_PRA  = Opcode(0b01001000)
	OP_CALL = Opcode(0b01010000)
	OP_JMP  = Opcode(0b01010100)
	OP_JEQ  = Opcode(0b01010101)
	OP_JNE  = Opcode(0b01010110)
	OP_JGT  = Opcode(0b01010111)
	OP_JLT  = Opcode(0b01011000)
	OP_JLE  = Opcode(0b01011001)
	OP_JGE  = Opcode(0b01011010)
	OP_INC  = Opcode(0b01100101)
	OP_DEC  = Opcode(0b01100110)
	OP_NOT  = Opcode(0b01101001)
	OP_LDI  = Opcode(0b10000010)
	OP_LD   = Opcode(0b10000011)
	OP_ST   = Opcode(0b10000100)
	OP_ADD  = Opcode(0b10100000)
	OP_SUB  = Opcode(0b10100001)
	OP_MUL  = Opcode(0b10100010)
	OP_DIV  = Opcode(0b10100011)
	OP_MOD  = Opcode(0b10100100)
	OP_CMP  = Opcode(0b10100111)
	OP_AND  = Opcode(0b10101000)
	OP_OR   = Opcode(0b10101010)
	OP_XOR  = Opcode(0b10101011)
	OP_SHL  = Opcode(0b10101100)
	OP_SHR  = Opcode(0b10101101)
)

// String returns the mnemonic, or the hex value of an unassigned opcode.
func (op Opcode) String() string {
	inst, ok := Lookup(byte(op))
	if !ok {
		return fmt.Sprintf("%#02x", byte(op))
	}
	return inst.Name
}

// Operand kinds, one letter per operand byte in Instruction.Args.
const (
	ARG_REGISTER  = 'r'
	ARG_IMMEDIATE = 'i'
)

// Instruction describes one entry of the dispatch table.
type Instruction struct {
	Opcode  Opcode
	Name    string  // Mnemonic.
	Args    string  // Operand kinds; its length is the operand byte count.
	Handler Handler // Executes the instruction and sets the next PC.
}

// Width is the size in bytes of the encoded instruction.
func (inst *Instruction) Width() int {
	return 1 + len(inst.Args)
}

// Format renders the instruction with the given operand bytes.
func (inst *Instruction) Format(args ...byte) (text string) {
	text = inst.Name
	for n, kind := range []byte(inst.Args) {
		if n >= len(args) {
			break
		}
		sep := ","
		if n == 0 {
			sep = " "
		}
		switch kind {
		case ARG_REGISTER:
			text += fmt.Sprintf("%vR%d", sep, args[n])
		case ARG_IMMEDIATE:
			text += fmt.Sprintf("%v%d", sep, args[n])
		}
	}
	return
}

// Disassemble the instruction at pc, returning its text and width in bytes.
// Unassigned opcodes are rendered as a single .byte.
func Disassemble(mem *Memory, pc byte) (text string, width int) {
	inst, ok := Lookup(mem[pc])
	if !ok {
		return fmt.Sprintf(".byte %#02x", mem[pc]), 1
	}

	var args []byte
	for n := range len(inst.Args) {
		value, err := mem.Read(int(pc) + 1 + n)
		if err != nil {
			break
		}
		args = append(args, value)
	}

	return inst.Format(args...), inst.Width()
}
