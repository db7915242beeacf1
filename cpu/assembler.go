// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO":      "0",
	"MEMORY_SIZE": fmt.Sprintf("%v", MEMORY_SIZE),
}

// Assembler is a single pass assembler for LS-8 mnemonic source.
//
//	; comment              # also a comment
//	.equ COUNT 3
//	start:  LDI R0, COUNT
//	        LDI R1, loop   ; labels are usable as immediates
//	loop:   PRN R0
//	        DEC R0, R0
//	        .byte 0x01 $(COUNT * 2)
type Assembler struct {
	Verbose bool   // If set, verbosely logs the assembler actions.
	Lines   []Line // List of generated lines.

	predefine map[string]string // Predefines
	Label     map[string]int    // Map of labels to addresses.
	Equate    map[string]string // Map of equates.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

var reIdentifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
var reCharacter = regexp.MustCompile(`'\\?[^']'`)
var reParen = regexp.MustCompile(`\$\([^\$]*\)`)

// valueOf returns the byte value of a numeric word. Negative values down
// to -128 are stored in two's complement.
func (asm *Assembler) valueOf(word string) (value byte, err error) {
	v64, err := strconv.ParseInt(word, 0, 16)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	if v64 < -128 || v64 > 0xff {
		err = ErrValueRange
		return
	}

	value = byte(v64 & 0xff)
	return
}

// immediate returns the value of an immediate word, or the label it names.
func (asm *Assembler) immediate(word string) (value byte, label string, err error) {
	value, err = asm.valueOf(word)
	if err == nil {
		return
	}

	if reIdentifier.MatchString(word) {
		// Registers are not immediates.
		if _, regErr := asm.register(word); regErr == nil {
			err = ErrOpcodeInvalid
			return
		}
		err = nil
		label = word
	}

	return
}

// register returns the register index for R0 through R7.
func (asm *Assembler) register(word string) (index byte, err error) {
	if len(word) != 2 || (word[0] != 'R' && word[0] != 'r') {
		err = ErrRegisterInvalid
		return
	}
	if word[1] < '0' || word[1] >= '0'+REGISTER_COUNT {
		err = ErrRegisterInvalid
		return
	}

	index = word[1] - '0'
	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value byte, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		var value8 byte
		value8, err = asm.valueOf(str)
		if err != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			continue
		}
		pred[key] = starlark.MakeInt(int(value8))
	}
	for key, address := range asm.Label {
		pred[key] = starlark.MakeInt(address)
	}
	err = nil

	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		err = ErrParseExpression(expr)
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok || st_int64 < -128 || st_int64 > 0xff {
		err = ErrValueRange
		return
	}
	value = byte(st_int64 & 0xff)
	return
}

// currentAddress gets the address of the next byte to assemble.
func (asm *Assembler) currentAddress() int {
	if len(asm.Lines) == 0 {
		return 0
	}

	last := asm.Lines[len(asm.Lines)-1]

	return last.Address + len(last.Bytes)
}

// parseLine expands a single line into words, handling character
// constants, $() expressions, .equ, equates and labels.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do $() evaluations
	line = reParen.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%d", value)
	})
	if err != nil {
		return
	}

	words = strings.FieldsFunc(line, func(r rune) bool {
		return r == ' ' || r == '\t' || r == ','
	})

	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 || !reIdentifier.MatchString(words[1]) {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for n, word := range words {
		// Check for equate next
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	for len(words) > 0 && strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		if !reIdentifier.MatchString(label) {
			err = ErrLabelSyntax
			return
		}
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}

		asm.Label[label] = asm.currentAddress()
		words = words[1:]
	}

	return
}

// parseWords encodes an instruction or .byte directive.
func (asm *Assembler) parseWords(words []string, lineno int, text string) (err error) {
	if len(words) == 0 {
		return
	}

	line := Line{
		LineNo:  lineno,
		Address: asm.currentAddress(),
		Text:    text,
	}

	if words[0] == ".byte" {
		if len(words) == 1 {
			err = ErrOpcodeValueMissing
			return
		}
		for n, word := range words[1:] {
			var value byte
			var label string
			value, label, err = asm.immediate(word)
			if err != nil {
				return
			}
			if len(label) != 0 {
				if n != len(words)-2 {
					err = ErrOpcodeInvalid
					return
				}
				line.LinkLabel = label
			}
			line.Bytes = append(line.Bytes, value)
		}
	} else {
		inst, ok := LookupName(strings.ToUpper(words[0]))
		if !ok {
			err = ErrOpcodeInvalid
			return
		}

		args := words[1:]
		if len(args) < len(inst.Args) {
			err = ErrOpcodeValueMissing
			return
		}
		if len(args) > len(inst.Args) {
			err = ErrOpcodeExtraArgs
			return
		}

		line.Bytes = append(line.Bytes, byte(inst.Opcode))
		for n, kind := range []byte(inst.Args) {
			var value byte
			switch kind {
			case ARG_REGISTER:
				value, err = asm.register(args[n])
			case ARG_IMMEDIATE:
				var label string
				value, label, err = asm.immediate(args[n])
				line.LinkLabel = label
			}
			if err != nil {
				return
			}
			line.Bytes = append(line.Bytes, value)
		}
	}

	if line.Address+len(line.Bytes) > MEMORY_SIZE {
		err = ErrProgramTooLarge
		return
	}

	asm.Lines = append(asm.Lines, line)
	return
}

// Parse parses an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	asm.Lines = asm.Lines[:0]
	asm.Label = make(map[string]int, 16)
	asm.Equate = maps.Clone(sysEquate)
	for attr, val := range _cpu_defines {
		asm.Equate[attr] = val
	}
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		// Do 'x' evaluations
		text = reCharacter.ReplaceAllStringFunc(text, func(word string) string {
			str := word[1 : len(word)-1]
			if str[0] == '\\' {
				switch str[1:] {
				case "\\":
					str = "\\"
				case "n":
					str = "\n"
				case "t":
					str = "\t"
				case "0":
					str = "\x00"
				default:
					return word
				}
			}
			return fmt.Sprintf("%d", str[0])
		})

		text, _, _ = strings.Cut(text, ";")
		text, _, _ = strings.Cut(text, "#")
		line = strings.TrimSpace(text)

		var words []string
		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno, line)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	// Final linking of labels.
	for n := range asm.Lines {
		ln := &asm.Lines[n]

		if len(ln.LinkLabel) == 0 {
			continue
		}
		address, ok := asm.Label[ln.LinkLabel]
		if !ok {
			lineno = ln.LineNo
			line = ln.Text
			err = ErrLabelMissing(ln.LinkLabel)
			return
		}
		ln.Bytes[len(ln.Bytes)-1] = byte(address)
	}

	prog = &Program{
		Lines: slices.Clone(asm.Lines),
	}

	return
}
