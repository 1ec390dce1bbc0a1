// Package cpu implements the Intcode virtual machine.
//
// A machine executes a program image, a flat array of signed 64-bit
// integers, held in a memory that grows with zeros on demand. Each
// instruction word selects an opcode with its two low decimal digits and
// an addressing mode per parameter with the digits above them: position,
// immediate, or relative to the machine's relative base register.
//
// Execution suspends when an input instruction finds the input queue
// empty. The caller pushes more input and calls Run again, which resumes
// at the same instruction. Values are int64; programs whose arithmetic
// leaves that range wrap silently.
//
// Memory addresses are non-negative. A memory grows to at most Limit
// cells (DEFAULT_MEMORY_LIMIT unless changed, MAX_MEMORY_LIMIT when 0);
// an address past that faults with ErrMemoryLimit, which is also an
// ErrMemoryAccess. A negative address faults with ErrAddress.
package cpu
