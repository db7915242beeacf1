package cpu

const (
	REGISTER_COUNT = 8    // General purpose registers.
	REG_SP         = 7    // Register reserved as the stack pointer.
	STACK_BASE     = 0xf4 // Initial stack pointer; the stack is empty here.
)

// Registers is the register file, R0 to R7.
type Registers [REGISTER_COUNT]byte

// Get returns the value of register index.
func (reg *Registers) Get(index byte) (value byte, err error) {
	if int(index) >= len(reg) {
		err = ErrRegisterRange(index)
		return
	}

	value = reg[index]
	return
}

// Set register index to value, modulo 256.
func (reg *Registers) Set(index byte, value int) (err error) {
	if int(index) >= len(reg) {
		err = ErrRegisterRange(index)
		return
	}

	reg[index] = byte(value & 0xff)
	return
}

// Reset clears the registers and points SP at the empty stack.
func (reg *Registers) Reset() {
	clear(reg[:])
	reg[REG_SP] = STACK_BASE
}

// Flags is the FL register, laid out as 00000LGE.
type Flags byte

const (
	FL_EQUAL   = Flags(0b001)
	FL_GREATER = Flags(0b010)
	FL_LESS    = Flags(0b100)
)

// compare returns the flags for comparing a to b. Exactly one flag is set.
func compare(a, b byte) Flags {
	switch {
	case a < b:
		return FL_LESS
	case a > b:
		return FL_GREATER
	default:
		return FL_EQUAL
	}
}

func (fl Flags) Equal() bool {
	return fl&FL_EQUAL != 0
}

func (fl Flags) Less() bool {
	return fl&FL_LESS != 0
}

func (fl Flags) Greater() bool {
	return fl&FL_GREATER != 0
}

func (fl Flags) String() string {
	text := []byte("-----LGE")
	for n, flag := range []Flags{FL_LESS, FL_GREATER, FL_EQUAL} {
		if fl&flag == 0 {
			text[5+n] = '-'
		}
	}
	return string(text)
}
