package emulator

import (
	"bytes"
	"errors"
	"maps"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/ls8/cpu"
)

func TestEmulator(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	assert.False(emu.Verbose)
	assert.NotNil(emu.Cpu)
	assert.Equal(0, emu.Program.Size())
}

func doAssemble(emu *Emulator, program []string, t *testing.T) (output *bytes.Buffer) {
	asm := &cpu.Assembler{}
	for key, value := range emu.Defines() {
		asm.Predefine(key, value)
	}
	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(t, err)
	if err != nil {
		t.Fatal(err)
	}
	emu.Program = prog

	err = emu.Reset()
	assert.NoError(t, err)

	output = &bytes.Buffer{}
	emu.Tape.Output = output
	return
}

func TestEmulatorPrint(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	program := []string{
		"LDI R0, 8",
		"PRN R0",
		"HLT",
	}
	output := doAssemble(emu, program, t)

	for n := range 2 {
		assert.Equal(n+1, emu.LineNo())
		done, err := emu.Tick()
		assert.NoError(err)
		assert.False(done)
	}

	done, err := emu.Tick()
	assert.NoError(err)
	assert.True(done)

	assert.Equal("8\n", output.String())
	assert.Equal(3, emu.Ticks())
	assert.Equal(1, emu.Tape.Lines)
}

func TestEmulatorSubroutine(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	program := []string{
		"        LDI R0, 1",
		"        LDI R1, 5",
		"        LDI R2, double",
		"loop:   CALL R2",
		"        PRN R0",
		"        DEC R1, R1",
		"        LDI R3, 0",
		"        CMP R1, R3",
		"        LDI R3, loop",
		"        JNE R3",
		"        LDI R0, 'H'",
		"        PRA R0",
		"        LDI R0, 'i'",
		"        PRA R0",
		"        LDI R0, NEWLINE",
		"        PRA R0",
		"        HLT",
		"double: PUSH R1",
		"        LDI R1, 2",
		"        MUL R0, R1",
		"        POP R1",
		"        RET",
	}
	output := doAssemble(emu, program, t)

	assert.NoError(emu.Run())
	assert.Equal("2\n4\n8\n16\n32\nHi\n", output.String())
	assert.Equal(byte(cpu.STACK_BASE), emu.Cpu.Register[cpu.REG_SP])
}

func TestEmulatorRuntimeError(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	program := []string{
		"LDI R0, 10",
		"LDI R1, 0",
		"",
		"DIV R0, R1",
		"HLT",
	}
	doAssemble(emu, program, t)

	err := emu.Run()
	assert.ErrorIs(err, cpu.ErrDivisionByZero)

	var rt *ErrRuntime
	assert.True(errors.As(err, &rt))
	assert.Equal(4, rt.LineNo)
	assert.Equal(byte(6), rt.Pc)
}

func TestEmulatorUnknownOpcode(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	program := []string{
		"LDI R0, 1",
		".byte 0x52",
	}
	doAssemble(emu, program, t)

	err := emu.Run()

	var unknown cpu.ErrUnknownOpcode
	assert.True(errors.As(err, &unknown))
	assert.Equal(cpu.ErrUnknownOpcode{Pc: 3, Opcode: 0x52}, unknown)
	assert.Equal(cpu.STATE_ERRORED, emu.Cpu.State)

	var rt *ErrRuntime
	assert.True(errors.As(err, &rt))
	assert.Equal(2, rt.LineNo)
}

func TestEmulatorLoader(t *testing.T) {
	assert := assert.New(t)

	listing := []string{
		"# mult.ls8",
		"10000010 # LDI R0,8",
		"00000000",
		"00001000",
		"10000010 # LDI R1,9",
		"00000001",
		"00001001",
		"10100010 # MUL R0,R1",
		"00000000",
		"00000001",
		"01000111 # PRN R0",
		"00000000",
		"00000001 # HLT",
	}

	ld := &cpu.Loader{}
	prog, err := ld.Parse(strings.NewReader(strings.Join(listing, "\n")))
	assert.NoError(err)

	emu := NewEmulator()
	emu.Program = prog
	assert.NoError(emu.Reset())

	output := &bytes.Buffer{}
	emu.Tape.Output = output

	assert.NoError(emu.Run())
	assert.Equal("72\n", output.String())
}

func TestEmulatorDefines(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	defines := maps.Collect(emu.Defines())

	assert.Equal("R7", defines["SP"])
	assert.Equal("10", defines["NEWLINE"])
}

func TestErrRuntime(t *testing.T) {
	assert := assert.New(t)

	err := &ErrRuntime{LineNo: 3, Pc: 9, Err: cpu.ErrDivisionByZero}
	assert.Equal("line 3 address 9 division by zero", err.Error())

	err = &ErrRuntime{Pc: 9, Err: cpu.ErrDivisionByZero}
	assert.Equal("address 9 division by zero", err.Error())
}
