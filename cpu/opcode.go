package cpu

import (
	"fmt"
	"strings"
)

// CodeOp is an operation selected by the low two decimal digits of an
// instruction word.
type CodeOp int

//go:generate go tool stringer -linecomment -type=CodeOp
const (
	OP_ADD = CodeOp(1)  // add
	OP_MUL = CodeOp(2)  // mul
	OP_IN  = CodeOp(3)  // in
	OP_OUT = CodeOp(4)  // out
	OP_JT  = CodeOp(5)  // jt
	OP_JF  = CodeOp(6)  // jf
	OP_LT  = CodeOp(7)  // lt
	OP_EQ  = CodeOp(8)  // eq
	OP_ARB = CodeOp(9)  // arb
	OP_HLT = CodeOp(99) // hlt
)

// CodeMode is a parameter addressing mode.
type CodeMode int

//go:generate go tool stringer -linecomment -type=CodeMode
const (
	MODE_POSITION  = CodeMode(0) // position
	MODE_IMMEDIATE = CodeMode(1) // immediate
	MODE_RELATIVE  = CodeMode(2) // relative
)

// MAX_ARITY is the largest parameter count of any opcode.
const MAX_ARITY = 3

var _arity = map[CodeOp]int{
	OP_ADD: 3,
	OP_MUL: 3,
	OP_IN:  1,
	OP_OUT: 1,
	OP_JT:  2,
	OP_JF:  2,
	OP_LT:  3,
	OP_EQ:  3,
	OP_ARB: 1,
	OP_HLT: 0,
}

// Valid returns true if the opcode is one the machine executes.
func (op CodeOp) Valid() bool {
	_, ok := _arity[op]
	return ok
}

// Arity returns the number of parameters the opcode consumes.
func (op CodeOp) Arity() int {
	return _arity[op]
}

// Writes returns true if the parameter at index is a write target.
func (op CodeOp) Writes(index int) bool {
	switch op {
	case OP_ADD, OP_MUL, OP_LT, OP_EQ:
		return index == 2
	case OP_IN:
		return index == 0
	}

	return false
}

// Valid returns true for the three addressing modes.
func (mode CodeMode) Valid() bool {
	return mode >= MODE_POSITION && mode <= MODE_RELATIVE
}

// prefix returns the assembly operand prefix of the mode.
func (mode CodeMode) prefix() string {
	switch mode {
	case MODE_IMMEDIATE:
		return "#"
	case MODE_RELATIVE:
		return "~"
	}
	return ""
}

// Instruction is a decoded instruction word.
type Instruction struct {
	Word  int64      // Raw instruction word.
	Op    CodeOp     // Operation.
	Modes []CodeMode // Addressing mode of each parameter, arity-many.
}

// Decode decodes an instruction word.
//
//	ABCDE
//	 1002
//
//	DE - opcode, 02 == mul
//	 C - 1st parameter mode, 0 == position
//	 B - 2nd parameter mode, 1 == immediate
//	 A - 3rd parameter mode, elided leading zero == position
//
// A word with no mode digits decodes to arity-many position modes. Digits
// past the arity of the opcode are not read.
func Decode(word int64) (inst Instruction, err error) {
	if word < 0 {
		err = ErrOpcode(word)
		return
	}

	op := CodeOp(word % 100)
	if !op.Valid() {
		err = ErrOpcode(word)
		return
	}

	inst = Instruction{
		Word:  word,
		Op:    op,
		Modes: make([]CodeMode, op.Arity()),
	}

	digits := word / 100
	for n := range inst.Modes {
		mode := CodeMode(digits % 10)
		if !mode.Valid() {
			err = ErrMode{Word: word, Param: n + 1}
			return
		}
		inst.Modes[n] = mode
		digits /= 10
	}

	return
}

// Encode encodes an opcode and parameter modes into an instruction word.
func Encode(op CodeOp, modes ...CodeMode) (word int64) {
	scale := int64(100)
	for _, mode := range modes {
		word += int64(mode) * scale
		scale *= 10
	}
	word += int64(op)
	return
}

// Len returns the number of memory cells the instruction occupies.
func (inst Instruction) Len() int64 {
	return 1 + int64(len(inst.Modes))
}

// Format returns the assembly representation of the instruction given
// its raw parameters.
func (inst Instruction) Format(params ...int64) string {
	words := []string{inst.Op.String()}
	for n, mode := range inst.Modes {
		if n >= len(params) {
			words = append(words, "?")
			continue
		}
		words = append(words, fmt.Sprintf("%s%d", mode.prefix(), params[n]))
	}
	return strings.Join(words, " ")
}

// String returns the mnemonic and modes of the instruction.
func (inst Instruction) String() (out string) {
	out = inst.Op.String()
	for _, mode := range inst.Modes {
		out += "." + mode.String()
	}
	return
}
