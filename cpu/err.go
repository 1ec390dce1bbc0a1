package cpu

import (
	"errors"
	"slices"

	"github.com/ezrec/intcode/translate"
)

var f = translate.From

var (
	// Machine errors
	ErrOpcodeInvalid = errors.New(f("opcode invalid"))
	ErrWriteTarget   = errors.New(f("immediate write target"))
	ErrMemoryAccess  = errors.New(f("memory access"))
	ErrStepLimit     = errors.New(f("step limit exceeded"))
	ErrOpcodeParams  = errors.Join(ErrOpcodeInvalid, errors.New(f("parameter count")))
	ErrMemoryLimit   = errors.New(f("memory limit exceeded"))

	// Diagnostic errors
	ErrDiagnostic      = errors.New(f("diagnostic failed"))
	ErrDiagnosticEmpty = errors.Join(ErrDiagnostic, errors.New(f("no output")))
)

// ErrOpcode is an instruction word with an unknown opcode.
type ErrOpcode int64

func (eo ErrOpcode) Error() string {
	return f("bad opcode %v", int64(eo))
}

func (eo ErrOpcode) Is(err error) bool {
	return err == ErrOpcodeInvalid
}

// ErrMode is an instruction word with an unknown parameter mode.
type ErrMode struct {
	Word  int64 // Instruction word.
	Param int   // Parameter number, starting at 1.
}

func (em ErrMode) Error() string {
	return f("bad mode in %v parameter %v", em.Word, em.Param)
}

func (em ErrMode) Is(err error) bool {
	return err == ErrOpcodeInvalid
}

// ErrAddress is a negative memory address.
type ErrAddress int64

func (ea ErrAddress) Error() string {
	return f("address %v out of range", int64(ea))
}

func (ea ErrAddress) Is(err error) bool {
	return err == ErrMemoryAccess
}

// ErrAddressLimit is an address past the cells a memory may grow to.
type ErrAddressLimit int64

func (ea ErrAddressLimit) Error() string {
	return f("address %v past memory limit", int64(ea))
}

func (ea ErrAddressLimit) Is(err error) bool {
	return err == ErrMemoryLimit || err == ErrMemoryAccess
}

// ErrDiagnosticOutput is the output of a failed diagnostic program.
type ErrDiagnosticOutput []int64

func (ed ErrDiagnosticOutput) Error() string {
	return f("diagnostic outputs %v", []int64(ed))
}

func (ed ErrDiagnosticOutput) Is(err error) bool {
	return err == ErrDiagnostic
}

// ErrFault is a fatal error raised by the instruction at Pc.
type ErrFault struct {
	Pc           int64 // Address of the failing instruction.
	RelativeBase int64 // Relative base at the time of failure.
	Word         int64 // Instruction word at Pc.
	Err          error
}

func (err *ErrFault) Error() string {
	return f("pc %v word %v rb %v: %v", err.Pc, err.Word, err.RelativeBase, err.Err)
}

func (err *ErrFault) Unwrap() error {
	return err.Err
}

// Faulted returns the fault of err, if it has one.
func Faulted(err error) (fault *ErrFault, ok bool) {
	ok = errors.As(err, &fault)
	return
}

// nonZero returns the non-zero values of outputs.
func nonZero(outputs []int64) []int64 {
	return slices.DeleteFunc(slices.Clone(outputs), func(v int64) bool { return v == 0 })
}
