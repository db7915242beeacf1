// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/ezrec/ls8/cpu"
	"github.com/ezrec/ls8/emulator"
)

// defines collects repeated -D NAME=VALUE flags.
type defines map[string]string

func (d defines) String() string {
	var list []string
	for key, value := range d {
		list = append(list, key+"="+value)
	}
	return strings.Join(list, ",")
}

func (d defines) Set(text string) error {
	key, value, ok := strings.Cut(text, "=")
	if !ok || len(key) == 0 {
		return fmt.Errorf("%q: expected NAME=VALUE", text)
	}
	d[key] = value
	return nil
}

var red = color.New(color.FgRed).SprintFunc()

// fatal prints a diagnostic to stderr and exits with status 1.
func fatal(format string, args ...any) {
	fmt.Fprintln(os.Stderr, red(fmt.Sprintf(format, args...)))
	os.Exit(1)
}

// parse reads a program as a binary listing, or as assembly source.
func parse(input io.Reader, assembly bool, predefine defines, emu *emulator.Emulator, verbose bool) (prog *cpu.Program, err error) {
	if !assembly {
		ld := &cpu.Loader{Verbose: verbose}
		prog, err = ld.Parse(input)
		return
	}

	asm := &cpu.Assembler{Verbose: verbose}
	for key, value := range emu.Defines() {
		asm.Predefine(key, value)
	}
	for key, value := range predefine {
		asm.Predefine(key, value)
	}
	prog, err = asm.Parse(input)
	return
}

func main() {
	var assembly bool
	var save bool
	var output string
	var verbose bool
	predefine := defines{}

	flag.BoolVar(&assembly, "a", false, "Program is assembly source, not a binary listing")
	flag.BoolVar(&save, "s", false, "Save the program as a binary listing, do not execute")
	flag.StringVar(&output, "o", "-", "Program output")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.Var(predefine, "D", "Assembler define NAME=VALUE (repeatable)")

	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %v [options] program\n", os.Args[0])
		flag.PrintDefaults()
	}

	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	file := flag.Arg(0)

	if verbose {
		log.SetFlags(0)
		log.SetPrefix(color.New(color.FgCyan).Sprint("ls8: "))
	}

	inf, err := os.Open(file)
	if err != nil {
		fatal("%v: %v", file, err)
	}
	defer inf.Close()

	emu := emulator.NewEmulator()
	emu.Verbose = verbose

	prog, err := parse(inf, assembly, predefine, emu, verbose)
	if err != nil {
		fatal("%v: %v", file, err)
	}

	var out io.Writer = os.Stdout
	if output != "-" {
		ouf, err := os.Create(output)
		if err != nil {
			fatal("%v: %v", output, err)
		}
		defer ouf.Close()
		out = ouf
	}

	if save {
		err = prog.Listing(out)
		if err != nil {
			fatal("%v: %v", output, err)
		}
		return
	}

	emu.Program = prog
	emu.Tape.Output = out

	err = emu.Reset()
	if err != nil {
		fatal("%v: %v", file, err)
	}

	err = emu.Run()
	if err != nil {
		fatal("%v: %v", file, strings.ReplaceAll(err.Error(), "\n", ": "))
	}
}
