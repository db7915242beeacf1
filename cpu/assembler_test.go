package cpu

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func assemble(t *testing.T, program []string) (prog *Program) {
	asm := &Assembler{}
	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(t, err)
	if err != nil {
		t.Fatal(err)
	}
	return
}

func TestAssembler(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		"; print eight",
		"        LDI R0, 8",
		"        PRN R0     # show it",
		"        HLT",
	}

	prog := assemble(t, program)

	assert.Equal([]byte{0x82, 0x00, 0x08, 0x47, 0x00, 0x01}, prog.Binary())

	expected := []Line{
		{LineNo: 2, Address: 0, Text: "LDI R0, 8", Bytes: []byte{0x82, 0x00, 0x08}},
		{LineNo: 3, Address: 3, Text: "PRN R0", Bytes: []byte{0x47, 0x00}},
		{LineNo: 4, Address: 5, Text: "HLT", Bytes: []byte{0x01}},
	}
	assert.Equal(expected, prog.Lines)
}

func TestAssemblerLabels(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		".equ VALUE 42",
		"start:  LDI R1, sub",
		"        CALL R1",
		"        PRN R0",
		"        HLT",
		"sub:    LDI R0, VALUE",
		"        RET",
	}

	asm := &Assembler{}
	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	assert.NoError(err)

	assert.Equal([]byte{
		0x82, 0x01, 0x08,
		0x50, 0x01,
		0x47, 0x00,
		0x01,
		0x82, 0x00, 0x2a,
		0x11,
	}, prog.Binary())

	assert.Equal(0, asm.Label["start"])
	assert.Equal(8, asm.Label["sub"])
	assert.Equal("sub", prog.Lines[0].LinkLabel)
}

func TestAssemblerExpressions(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		".equ VALUE 42",
		"ldi r0, $(VALUE * 2)",
		"ldi r1, 'A'",
		".byte ';' '\\n' $(1 + 1) 0b101 -1 0xff",
		"push SP",
		"ldi r2, STACK_BASE",
		"here: ldi r3, 0",
		"ldi r4, $(here + 1)",
	}

	prog := assemble(t, program)

	assert.Equal([]byte{
		0x82, 0x00, 84,
		0x82, 0x01, 65,
		59, 10, 2, 5, 0xff, 0xff,
		0x45, 0x07,
		0x82, 0x02, 0xf4,
		0x82, 0x03, 0x00,
		0x82, 0x04, 18,
	}, prog.Binary())
}

func TestAssemblerPredefine(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	asm.Predefine("COUNT", "7")
	asm.Predefine("COUNT", "9")

	prog, err := asm.Parse(strings.NewReader("LDI R0, COUNT\n.byte LINENO"))
	assert.NoError(err)
	assert.Equal([]byte{0x82, 0x00, 0x09, 0x02}, prog.Binary())
}

func TestAssemblerErrors(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		program []string
		lineno  int
		err     error
	}{
		{[]string{"FOO R0"}, 1, ErrOpcodeInvalid},
		{[]string{"HLT", "LDI R0"}, 2, ErrOpcodeValueMissing},
		{[]string{"PRN R0, R1"}, 1, ErrOpcodeExtraArgs},
		{[]string{"PRN R8"}, 1, ErrRegisterInvalid},
		{[]string{"PRN 3"}, 1, ErrRegisterInvalid},
		{[]string{"LDI R0, 300"}, 1, ErrValueRange},
		{[]string{"LDI R0, R1"}, 1, ErrOpcodeInvalid},
		{[]string{"LDI R0, 1x"}, 1, ErrParseNumber("1x")},
		{[]string{"HLT", "LDI R0, nowhere"}, 2, ErrLabelMissing("nowhere")},
		{[]string{"a: HLT", "a: HLT"}, 2, ErrLabelDuplicate},
		{[]string{"9a: HLT"}, 1, ErrLabelSyntax},
		{[]string{".equ A 1", ".equ A 2"}, 2, ErrEquateDuplicate},
		{[]string{".equ A"}, 1, ErrEquateSyntax},
		{[]string{".byte"}, 1, ErrOpcodeValueMissing},
		{[]string{".byte x 1"}, 1, ErrOpcodeInvalid},
		{[]string{"LDI R0, $(1 +)"}, 1, ErrParseExpression("1 +")},
		{[]string{"LDI R0, $(\"a\")"}, 1, ErrParseExpression("\"a\"")},
		{[]string{"LDI R0, $(1000)"}, 1, ErrValueRange},
		{[]string{".byte " + strings.Repeat("0 ", MEMORY_SIZE+1)}, 1, ErrProgramTooLarge},
	}

	for _, entry := range table {
		asm := &Assembler{}
		_, err := asm.Parse(strings.NewReader(strings.Join(entry.program, "\n")))
		assert.ErrorIs(err, entry.err, entry.program)

		syntax, ok := err.(*ErrSyntax)
		assert.True(ok, entry.program)
		if ok {
			assert.Equal(entry.lineno, syntax.LineNo, entry.program)
		}
	}
}

func TestAssemblerListing(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		"LDI R0, 8",
		"PRN R0",
		"HLT",
	}

	prog := assemble(t, program)

	listing := &bytes.Buffer{}
	assert.NoError(prog.Listing(listing))

	assert.Equal(strings.Join([]string{
		"10000010 # LDI R0, 8",
		"00000000",
		"00001000",
		"01000111 # PRN R0",
		"00000000",
		"00000001 # HLT",
		"",
	}, "\n"), listing.String())

	ld := &Loader{}
	loaded, err := ld.Parse(listing)
	assert.NoError(err)
	assert.Equal(prog.Binary(), loaded.Binary())
}
