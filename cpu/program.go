package cpu

import (
	"fmt"
	"io"
	"iter"
)

// Line is one source line of a program and the bytes it produced.
type Line struct {
	LineNo    int    // Source line number, from 1.
	Address   int    // Memory address of the first byte.
	Text      string // Source text, comments removed.
	Bytes     []byte // Encoded bytes.
	LinkLabel string // Label whose address patches the last byte.
}

type Program struct {
	Lines []Line
}

// Size is the total number of bytes in the program.
func (prog *Program) Size() (size int) {
	for _, line := range prog.Lines {
		size += len(line.Bytes)
	}
	return
}

// Binary returns the memory image of the program, starting at address 0.
func (prog *Program) Binary() (bins []byte) {
	for _, value := range prog.Bytes() {
		bins = append(bins, value)
	}

	return
}

// Bytes iterates over each address and byte of the program.
func (prog *Program) Bytes() iter.Seq2[int, byte] {
	return func(yield func(address int, value byte) bool) {
		for _, line := range prog.Lines {
			for n, value := range line.Bytes {
				if !yield(line.Address+n, value) {
					return
				}
			}
		}
	}
}

// Debug returns the line that produced the byte at address.
func (prog *Program) Debug(address int) (line *Line, ok bool) {
	for n := range prog.Lines {
		line = &prog.Lines[n]
		if address >= line.Address && address < line.Address+len(line.Bytes) {
			ok = true
			return
		}
	}

	line = nil
	return
}

// LineNo returns the source line number for address, or 0 if unknown.
func (prog *Program) LineNo(address int) int {
	line, ok := prog.Debug(address)
	if !ok {
		return 0
	}
	return line.LineNo
}

// Listing writes the program as a binary listing that the Loader accepts.
// The source text of each line follows its first byte as a comment.
func (prog *Program) Listing(output io.Writer) (err error) {
	for _, line := range prog.Lines {
		for n, value := range line.Bytes {
			if n == 0 && len(line.Text) != 0 {
				_, err = fmt.Fprintf(output, "%08b # %v\n", value, line.Text)
			} else {
				_, err = fmt.Fprintf(output, "%08b\n", value)
			}
			if err != nil {
				return
			}
		}
	}

	return
}
