package cpu

// AluOp is an ALU operation.
type AluOp int

const (
	ALU_OP_ADD = AluOp(iota)
	ALU_OP_SUB
	ALU_OP_MUL
	ALU_OP_DIV
	ALU_OP_MOD
	ALU_OP_AND
	ALU_OP_OR
	ALU_OP_XOR
	ALU_OP_NOT
	ALU_OP_SHL
	ALU_OP_SHR
	ALU_OP_INC
	ALU_OP_DEC
	ALU_OP_CMP
)

var aluOpName = [...]string{
	ALU_OP_ADD: "add",
	ALU_OP_SUB: "sub",
	ALU_OP_MUL: "mul",
	ALU_OP_DIV: "div",
	ALU_OP_MOD: "mod",
	ALU_OP_AND: "and",
	ALU_OP_OR:  "or",
	ALU_OP_XOR: "xor",
	ALU_OP_NOT: "not",
	ALU_OP_SHL: "shl",
	ALU_OP_SHR: "shr",
	ALU_OP_INC: "inc",
	ALU_OP_DEC: "dec",
	ALU_OP_CMP: "cmp",
}

func (op AluOp) String() string {
	if op < 0 || int(op) >= len(aluOpName) {
		return "alu?"
	}
	return aluOpName[op]
}

// doAlu performs op on register values a and b. The result is returned
// unmasked; the register file wraps it to 8 bits on write.
func doAlu(op AluOp, a, b int) (output int, err error) {
	switch op {
	case ALU_OP_ADD:
		output = a + b
	case ALU_OP_SUB:
		output = a - b
	case ALU_OP_MUL:
		output = a * b
	case ALU_OP_DIV:
		if b == 0 {
			err = ErrDivisionByZero
			return
		}
		output = a / b
	case ALU_OP_MOD:
		if b == 0 {
			err = ErrDivisionByZero
			return
		}
		output = a % b
	case ALU_OP_AND:
		output = a & b
	case ALU_OP_OR:
		output = a | b
	case ALU_OP_XOR:
		output = a ^ b
	case ALU_OP_NOT:
		output = ^a
	case ALU_OP_SHL:
		if b >= 8 {
			output = 0
		} else {
			output = a << b
		}
	case ALU_OP_SHR:
		output = a >> b
	case ALU_OP_INC:
		// Destination is a, source is b.
		output = b + 1
	case ALU_OP_DEC:
		output = b - 1
	default:
		err = ErrAluUnsupported(op)
	}

	return
}

// alu applies op to registers reg_a and reg_b, writing the result to reg_a.
// CMP updates FL instead.
func (cpu *Cpu) alu(op AluOp, reg_a, reg_b byte) (err error) {
	a, err := cpu.Register.Get(reg_a)
	if err != nil {
		return
	}
	b, err := cpu.Register.Get(reg_b)
	if err != nil {
		return
	}

	if op == ALU_OP_CMP {
		cpu.Fl = compare(a, b)
		return
	}

	output, err := doAlu(op, int(a), int(b))
	if err != nil {
		return
	}

	err = cpu.Register.Set(reg_a, output)
	return
}
