package cpu

import (
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/ls8/io"
)

// Channel is the output channel written by PRN and PRA.
type Channel io.Channel

// State is the execution state of the CPU.
type State int

const (
	STATE_RUNNING = State(0)
	STATE_HALTED  = State(1)
	STATE_ERRORED = State(2)
)

func (state State) String() string {
	switch state {
	case STATE_RUNNING:
		return "running"
	case STATE_HALTED:
		return "halted"
	case STATE_ERRORED:
		return "errored"
	}
	return fmt.Sprintf("state(%d)", int(state))
}

var _cpu_defines = map[string]string{
	"SP":         fmt.Sprintf("R%d", REG_SP),
	"STACK_BASE": fmt.Sprintf("%#x", STACK_BASE),
	"FL_EQUAL":   fmt.Sprintf("%#x", byte(FL_EQUAL)),
	"FL_GREATER": fmt.Sprintf("%#x", byte(FL_GREATER)),
	"FL_LESS":    fmt.Sprintf("%#x", byte(FL_LESS)),
}

// Cpu is the simulation context for the LS-8 processor.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Output Channel // Destination of PRN and PRA.

	Memory   Memory    // Program, data and stack.
	Register Registers // Register bank, R7 is SP.
	Pc       byte      // Address of the next opcode.
	Fl       Flags     // Result of the last CMP.
	State    State     // Running, halted or errored.

	Ticks int // Instructions executed since reset.
}

// NewCpu creates a reset CPU writing to output.
func NewCpu(output Channel) (cpu *Cpu) {
	cpu = &Cpu{
		Output: output,
	}
	cpu.Reset()

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// Reset the CPU state.
// - Clears memory and the registers, and sets SP to STACK_BASE.
// - Clears PC and FL.
// - Zeros the tick counter.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	cpu.Memory.Reset()
	cpu.Register.Reset()
	cpu.Pc = 0
	cpu.Fl = 0
	cpu.State = STATE_RUNNING
	cpu.Ticks = 0
}

// Load copies program into memory starting at address 0.
func (cpu *Cpu) Load(program []byte) (err error) {
	if len(program) > len(cpu.Memory) {
		err = ErrProgramTooLarge
		return
	}

	copy(cpu.Memory[:], program)

	if cpu.Verbose {
		log.Printf("cpu: loaded %d bytes", len(program))
	}

	return
}

// String returns the current CPU state as a trace line.
func (cpu *Cpu) String() (text string) {
	text = fmt.Sprintf("TRACE: %02X | %02X %02X %02X | %v |",
		cpu.Pc,
		cpu.Memory[cpu.Pc],
		cpu.Memory[cpu.Pc+1],
		cpu.Memory[cpu.Pc+2],
		cpu.Fl,
	)

	for _, value := range cpu.Register {
		text += fmt.Sprintf(" %02X", value)
	}

	return
}

// operand reads the operand byte at PC+1.
func (cpu *Cpu) operand() (a byte, err error) {
	a, err = cpu.Memory.Read(int(cpu.Pc) + 1)
	return
}

// operands reads the operand bytes at PC+1 and PC+2.
func (cpu *Cpu) operands() (a, b byte, err error) {
	a, err = cpu.Memory.Read(int(cpu.Pc) + 1)
	if err != nil {
		return
	}
	b, err = cpu.Memory.Read(int(cpu.Pc) + 2)
	return
}

// registerOperand returns the value of the register named at PC+1.
func (cpu *Cpu) registerOperand() (value byte, err error) {
	reg, err := cpu.operand()
	if err != nil {
		return
	}

	value, err = cpu.Register.Get(reg)
	return
}

// push decrements SP and stores value at the new top of stack.
// The stack is not bounds checked; it shares memory with the program.
func (cpu *Cpu) push(value byte) (err error) {
	cpu.Register[REG_SP]--
	err = cpu.Memory.Write(int(cpu.Register[REG_SP]), value)
	return
}

// pop reads the top of stack and increments SP.
func (cpu *Cpu) pop() (value byte, err error) {
	value, err = cpu.Memory.Read(int(cpu.Register[REG_SP]))
	if err != nil {
		return
	}
	cpu.Register[REG_SP]++
	return
}

// Tick fetches, decodes and executes a single instruction.
// Any error is fatal: the CPU moves to STATE_ERRORED.
func (cpu *Cpu) Tick() (err error) {
	switch cpu.State {
	case STATE_HALTED:
		return ErrHalted
	case STATE_ERRORED:
		return ErrErrored
	}

	pc := cpu.Pc
	defer func() {
		if err != nil {
			cpu.State = STATE_ERRORED
		}
	}()

	opcode, err := cpu.Memory.Read(int(pc))
	if err != nil {
		return
	}

	inst, ok := Lookup(opcode)
	if !ok {
		err = ErrUnknownOpcode{Pc: pc, Opcode: opcode}
		return
	}

	if cpu.Verbose {
		text, _ := Disassemble(&cpu.Memory, pc)
		log.Printf("%v %v", cpu.String(), text)
	}

	err = inst.Handler(cpu)
	if err != nil {
		err = errors.Join(ErrInstruction{Pc: pc, Opcode: inst.Opcode}, err)
		return
	}

	cpu.Ticks++

	return
}

// Run executes instructions until the CPU halts or fails.
func (cpu *Cpu) Run() (err error) {
	for cpu.State == STATE_RUNNING {
		err = cpu.Tick()
		if err != nil {
			return
		}
	}

	return
}
