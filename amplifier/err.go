package amplifier

import (
	"errors"

	"github.com/ezrec/intcode/translate"
)

var f = translate.From

var (
	// Amplifier errors
	ErrPhasesEmpty = errors.New(f("no phase settings"))
	ErrNoSignal    = errors.New(f("no output signal"))
)

// ErrAmplifier is an error raised by one amplifier of an array.
type ErrAmplifier struct {
	Index int   // Index of the amplifier in the array.
	Phase int64 // Phase setting of the amplifier.
	Err   error
}

func (err *ErrAmplifier) Error() string {
	return f("amplifier %d phase %d: %v", err.Index, err.Phase, err.Err)
}

func (err *ErrAmplifier) Unwrap() error {
	return err.Err
}
