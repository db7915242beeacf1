// Package io provides the output channels for the LS-8 emulator.
// The processor prints through a Channel; Tape implements it over an
// io.Writer.
package io

// Channel defines the interface for the LS-8 output device.
type Channel interface {
	// Number writes value as a decimal number on its own line.
	Number(value byte) error
	// Char writes value as a single character.
	Char(value byte) error
}
