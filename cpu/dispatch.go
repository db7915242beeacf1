package cpu

// Handler executes one instruction. It reads its own operand bytes, applies
// its effect and sets the next PC; there is no automatic PC advance.
type Handler func(cpu *Cpu) (err error)

// instructions is the instruction set of the LS-8.
var instructions = []Instruction{
	{OP_NOP, "NOP", "", opNop},
	{OP_HLT, "HLT", "", opHlt},
	{OP_LDI, "LDI", "ri", opLdi},
	{OP_LD, "LD", "rr", opLd},
	{OP_ST, "ST", "rr", opSt},
	{OP_PRN, "PRN", "r", opPrn},
	{OP_PRA, "PRA", "r", opPra},
	{OP_PUSH, "PUSH", "r", opPush},
	{OP_POP, "POP", "r", opPop},
	{OP_CALL, "CALL", "r", opCall},
	{OP_RET, "RET", "", opRet},
	{OP_JMP, "JMP", "r", jumpIf(func(Flags) bool { return true })},
	{OP_JEQ, "JEQ", "r", jumpIf(Flags.Equal)},
	{OP_JNE, "JNE", "r", jumpIf(func(fl Flags) bool { return !fl.Equal() })},
	{OP_JGT, "JGT", "r", jumpIf(Flags.Greater)},
	{OP_JLT, "JLT", "r", jumpIf(Flags.Less)},
	{OP_JLE, "JLE", "r", jumpIf(func(fl Flags) bool { return fl.Less() || fl.Equal() })},
	{OP_JGE, "JGE", "r", jumpIf(func(fl Flags) bool { return fl.Greater() || fl.Equal() })},
	{OP_ADD, "ADD", "rr", aluOp(ALU_OP_ADD)},
	{OP_SUB, "SUB", "rr", aluOp(ALU_OP_SUB)},
	{OP_MUL, "MUL", "rr", aluOp(ALU_OP_MUL)},
	{OP_DIV, "DIV", "rr", aluOp(ALU_OP_DIV)},
	{OP_MOD, "MOD", "rr", aluOp(ALU_OP_MOD)},
	{OP_AND, "AND", "rr", aluOp(ALU_OP_AND)},
	{OP_OR, "OR", "rr", aluOp(ALU_OP_OR)},
	{OP_XOR, "XOR", "rr", aluOp(ALU_OP_XOR)},
	{OP_NOT, "NOT", "rr", aluOp(ALU_OP_NOT)},
	{OP_SHL, "SHL", "rr", aluOp(ALU_OP_SHL)},
	{OP_SHR, "SHR", "rr", aluOp(ALU_OP_SHR)},
	{OP_INC, "INC", "rr", aluOp(ALU_OP_INC)},
	{OP_DEC, "DEC", "rr", aluOp(ALU_OP_DEC)},
	{OP_CMP, "CMP", "rr", aluOp(ALU_OP_CMP)},
}

// dispatch is indexed by opcode byte. Immutable after init.
var dispatch [256]*Instruction

// mnemonic maps an instruction name to its table entry.
var mnemonic = map[string]*Instruction{}

func init() {
	for n := range instructions {
		inst := &instructions[n]
		if dispatch[inst.Opcode] != nil {
			panic("duplicate opcode " + inst.Name)
		}
		dispatch[inst.Opcode] = inst
		mnemonic[inst.Name] = inst
	}
}

// Lookup returns the dispatch table entry for an opcode byte.
func Lookup(opcode byte) (inst *Instruction, ok bool) {
	inst = dispatch[opcode]
	ok = inst != nil
	return
}

// LookupName returns the dispatch table entry for a mnemonic.
func LookupName(name string) (inst *Instruction, ok bool) {
	inst, ok = mnemonic[name]
	return
}

func opNop(cpu *Cpu) (err error) {
	cpu.Pc += 1
	return
}

func opHlt(cpu *Cpu) (err error) {
	cpu.State = STATE_HALTED
	cpu.Pc += 1
	return
}

func opLdi(cpu *Cpu) (err error) {
	reg, value, err := cpu.operands()
	if err != nil {
		return
	}

	err = cpu.Register.Set(reg, int(value))
	if err != nil {
		return
	}

	cpu.Pc += 3
	return
}

func opLd(cpu *Cpu) (err error) {
	reg_a, reg_b, err := cpu.operands()
	if err != nil {
		return
	}

	address, err := cpu.Register.Get(reg_b)
	if err != nil {
		return
	}
	value, err := cpu.Memory.Read(int(address))
	if err != nil {
		return
	}
	err = cpu.Register.Set(reg_a, int(value))
	if err != nil {
		return
	}

	cpu.Pc += 3
	return
}

func opSt(cpu *Cpu) (err error) {
	reg_a, reg_b, err := cpu.operands()
	if err != nil {
		return
	}

	address, err := cpu.Register.Get(reg_a)
	if err != nil {
		return
	}
	value, err := cpu.Register.Get(reg_b)
	if err != nil {
		return
	}
	err = cpu.Memory.Write(int(address), value)
	if err != nil {
		return
	}

	cpu.Pc += 3
	return
}

func opPrn(cpu *Cpu) (err error) {
	value, err := cpu.registerOperand()
	if err != nil {
		return
	}

	if cpu.Output == nil {
		err = ErrNoOutput
		return
	}
	err = cpu.Output.Number(value)
	if err != nil {
		return
	}

	cpu.Pc += 2
	return
}

func opPra(cpu *Cpu) (err error) {
	value, err := cpu.registerOperand()
	if err != nil {
		return
	}

	if cpu.Output == nil {
		err = ErrNoOutput
		return
	}
	err = cpu.Output.Char(value)
	if err != nil {
		return
	}

	cpu.Pc += 2
	return
}

func opPush(cpu *Cpu) (err error) {
	value, err := cpu.registerOperand()
	if err != nil {
		return
	}

	err = cpu.push(value)
	if err != nil {
		return
	}

	cpu.Pc += 2
	return
}

func opPop(cpu *Cpu) (err error) {
	reg, err := cpu.operand()
	if err != nil {
		return
	}

	value, err := cpu.pop()
	if err != nil {
		return
	}

	err = cpu.Register.Set(reg, int(value))
	if err != nil {
		return
	}

	cpu.Pc += 2
	return
}

func opCall(cpu *Cpu) (err error) {
	target, err := cpu.registerOperand()
	if err != nil {
		return
	}

	err = cpu.push(cpu.Pc + 2)
	if err != nil {
		return
	}

	cpu.Pc = target
	return
}

func opRet(cpu *Cpu) (err error) {
	target, err := cpu.pop()
	if err != nil {
		return
	}

	cpu.Pc = target
	return
}

// jumpIf creates a handler that jumps to the address in its register
// operand when taken(FL) holds, and otherwise falls through.
func jumpIf(taken func(fl Flags) bool) Handler {
	return func(cpu *Cpu) (err error) {
		target, err := cpu.registerOperand()
		if err != nil {
			return
		}

		if taken(cpu.Fl) {
			cpu.Pc = target
		} else {
			cpu.Pc += 2
		}
		return
	}
}

// aluOp creates a handler that delegates to the ALU.
func aluOp(op AluOp) Handler {
	return func(cpu *Cpu) (err error) {
		reg_a, reg_b, err := cpu.operands()
		if err != nil {
			return
		}

		err = cpu.alu(op, reg_a, reg_b)
		if err != nil {
			return
		}

		cpu.Pc += 3
		return
	}
}
