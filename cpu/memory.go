package cpu

const (
	MEMORY_SIZE = 256 // Bytes of addressable memory.
)

// Memory is the byte-addressed storage shared by program, data and stack.
type Memory [MEMORY_SIZE]byte

// Read the byte at address.
func (mem *Memory) Read(address int) (value byte, err error) {
	if address < 0 || address >= len(mem) {
		err = ErrMemoryRange(address)
		return
	}

	value = mem[address]
	return
}

// Write value to address.
func (mem *Memory) Write(address int, value byte) (err error) {
	if address < 0 || address >= len(mem) {
		err = ErrMemoryRange(address)
		return
	}

	mem[address] = value
	return
}

// Reset clears all of memory to zero.
func (mem *Memory) Reset() {
	clear(mem[:])
}
