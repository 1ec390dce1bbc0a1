package cpu

import (
	"math"
	"slices"
)

const (
	DEFAULT_MEMORY_LIMIT = 1 << 24 // Default maximum number of cells.

	// MAX_MEMORY_LIMIT is the most cells a memory can back, even when
	// Limit is 0.
	MAX_MEMORY_LIMIT = min(math.MaxInt>>3, 1<<45)
)

// Memory is the zero initialized tape of a machine. It grows to include
// any non-negative address touched, and never shrinks.
type Memory struct {
	Data  []int64
	Limit int64 // Growth past Limit cells is out of range. 0 is MAX_MEMORY_LIMIT.
}

// NewMemory creates a memory holding a copy of image.
func NewMemory(image []int64) *Memory {
	return &Memory{
		Data:  slices.Clone(image),
		Limit: DEFAULT_MEMORY_LIMIT,
	}
}

// Len returns the number of cells currently backed.
func (mem *Memory) Len() int64 {
	return int64(len(mem.Data))
}

// ExtendToInclude grows the memory with zeros until addr is backed.
func (mem *Memory) ExtendToInclude(addr int64) (err error) {
	if addr < 0 {
		err = ErrAddress(addr)
		return
	}

	size := mem.Len()
	if addr < size {
		return
	}

	limit := int64(MAX_MEMORY_LIMIT)
	if mem.Limit > 0 && mem.Limit < limit {
		limit = mem.Limit
	}
	if addr >= limit {
		err = ErrAddressLimit(addr)
		return
	}

	mem.Data = slices.Grow(mem.Data, int(addr+1-size))
	mem.Data = mem.Data[:addr+1]
	clear(mem.Data[size:])

	return
}

// Read the value at addr.
func (mem *Memory) Read(addr int64) (value int64, err error) {
	err = mem.ExtendToInclude(addr)
	if err != nil {
		return
	}

	value = mem.Data[addr]
	return
}

// Write value to addr.
func (mem *Memory) Write(addr int64, value int64) (err error) {
	err = mem.ExtendToInclude(addr)
	if err != nil {
		return
	}

	mem.Data[addr] = value
	return
}

// Peek returns the value at addr if it is backed, without growing.
func (mem *Memory) Peek(addr int64) (value int64, ok bool) {
	if addr < 0 || addr >= mem.Len() {
		return
	}

	return mem.Data[addr], true
}

// Slice returns a copy of the backed cells.
func (mem *Memory) Slice() []int64 {
	return slices.Clone(mem.Data)
}

// Clone returns an independent copy of the memory.
func (mem *Memory) Clone() *Memory {
	return &Memory{
		Data:  slices.Clone(mem.Data),
		Limit: mem.Limit,
	}
}

// ResolveValue returns the value of parameter raw under mode.
func (mem *Memory) ResolveValue(raw int64, mode CodeMode, base int64) (value int64, err error) {
	switch mode {
	case MODE_IMMEDIATE:
		value = raw
	case MODE_POSITION:
		value, err = mem.Read(raw)
	case MODE_RELATIVE:
		value, err = mem.Read(raw + base)
	default:
		err = ErrOpcodeInvalid
	}

	return
}

// ResolveWriteAddress returns the address written by parameter raw under mode.
func (mem *Memory) ResolveWriteAddress(raw int64, mode CodeMode, base int64) (addr int64, err error) {
	switch mode {
	case MODE_POSITION:
		addr = raw
	case MODE_RELATIVE:
		addr = raw + base
	case MODE_IMMEDIATE:
		err = ErrWriteTarget
		return
	default:
		err = ErrOpcodeInvalid
		return
	}

	if addr < 0 {
		err = ErrAddress(addr)
	}

	return
}
