package io

import (
	"fmt"
	"io"
	"iter"
	"maps"
)

// Tape provides sequential output to a byte stream. Nothing is buffered:
// every Number or Char reaches Output before the call returns.
type Tape struct {
	Output io.Writer

	Lines int // Number of PRN lines written.
	Bytes int // Number of bytes written.
}

var _ Channel = (*Tape)(nil)

// Defines returns an iter of defines for the channel.
func (tc *Tape) Defines() iter.Seq2[string, string] {
	return maps.All(map[string]string{
		"NEWLINE": "10",
		"SPACE":   "32",
	})
}

// Rewind resets the output counters.
func (tc *Tape) Rewind() {
	tc.Lines = 0
	tc.Bytes = 0
}

// Number writes value in decimal followed by a newline.
func (tc *Tape) Number(value byte) (err error) {
	if tc.Output == nil {
		err = ErrChannelClosed
		return
	}

	n, err := fmt.Fprintf(tc.Output, "%d\n", value)
	tc.Bytes += n
	if err != nil {
		return
	}

	tc.Lines++
	return
}

// Char writes value as a raw byte.
func (tc *Tape) Char(value byte) (err error) {
	if tc.Output == nil {
		err = ErrChannelClosed
		return
	}

	n, err := tc.Output.Write([]byte{value})
	tc.Bytes += n
	return
}
