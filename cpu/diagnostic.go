package cpu

// TakeDiagnosticCode returns the last of outputs as the diagnostic code,
// and the outputs preceding it. Every preceding output must be zero.
func TakeDiagnosticCode(outputs []int64) (code int64, rest []int64, err error) {
	if len(outputs) == 0 {
		err = ErrDiagnosticEmpty
		return
	}

	last := len(outputs) - 1
	if failed := nonZero(outputs[:last]); len(failed) != 0 {
		err = ErrDiagnosticOutput(failed)
		return
	}

	code = outputs[last]
	rest = outputs[:last]
	return
}

// TakeDiagnosticCode removes the last output of the machine and returns
// it as the diagnostic code. On success the output queue keeps the zeros
// that preceded it; on failure the queue is left untouched.
func (cpu *Cpu) TakeDiagnosticCode() (code int64, err error) {
	code, rest, err := TakeDiagnosticCode(cpu.Output.Data)
	if err != nil {
		return
	}

	cpu.Output.Data = rest
	return
}
