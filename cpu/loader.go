package cpu

import (
	"bufio"
	"io"
	"log"
	"strconv"
	"strings"
)

// Loader parses binary program listings.
//
// Each line holds an 8-digit binary literal as its first word; anything after
// it is ignored. Blank lines and lines whose first word starts with '#' are
// skipped and take no address.
type Loader struct {
	Verbose bool // If set, logs each loaded byte.
}

// Parse parses an input stream into a Program.
func (ld *Loader) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var text string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: text, Err: err}
		}
	}()

	prog = &Program{}
	address := 0

	for scanner.Scan() {
		text = scanner.Text()
		lineno++

		words := strings.Fields(text)
		if len(words) == 0 || strings.HasPrefix(words[0], "#") {
			continue
		}

		var value byte
		value, err = parseBinary(words[0])
		if err != nil {
			return
		}

		if address >= MEMORY_SIZE {
			err = ErrProgramTooLarge
			return
		}

		if ld.Verbose {
			log.Printf("%v: %02x: %08b", lineno, address, value)
		}

		prog.Lines = append(prog.Lines, Line{
			LineNo:  lineno,
			Address: address,
			Text:    strings.TrimSpace(text),
			Bytes:   []byte{value},
		})
		address++
	}

	err = scanner.Err()
	return
}

// parseBinary parses an 8-digit binary literal.
func parseBinary(word string) (value byte, err error) {
	if len(word) != 8 {
		err = ErrParseBinary(word)
		return
	}

	v64, err := strconv.ParseUint(word, 2, 8)
	if err != nil {
		err = ErrParseBinary(word)
		return
	}

	value = byte(v64)
	return
}
