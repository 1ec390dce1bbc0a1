// Package amplifier runs arrays of Intcode machines, each feeding its
// output signal to the input of the next.
package amplifier

import (
	"log"
	"runtime"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/ezrec/intcode/cpu"
	"github.com/ezrec/intcode/internal"
)

// Config is the machine configuration of every amplifier of an array.
type Config struct {
	Verbose   bool
	StepLimit int64 // Per amplifier step limit. 0 is unlimited.
}

// DefaultConfig runs each amplifier with the default step limit.
var DefaultConfig = Config{StepLimit: cpu.DEFAULT_STEP_LIMIT}

// Array is a series of amplifiers running the same image.
type Array struct {
	Config
	Phases     []int64    // Phase setting of each amplifier.
	Amplifiers []*cpu.Cpu // Machine of each amplifier.
}

// NewArray creates an amplifier per phase, with the phase as its first
// input.
func (config Config) NewArray(image []int64, phases []int64) (array *Array, err error) {
	if len(phases) == 0 {
		err = ErrPhasesEmpty
		return
	}

	array = &Array{
		Config:     config,
		Phases:     slices.Clone(phases),
		Amplifiers: make([]*cpu.Cpu, len(phases)),
	}

	// Load the image once, and clone it into each amplifier.
	proto := cpu.NewCpu(image)
	proto.Verbose = config.Verbose
	proto.StepLimit = config.StepLimit
	for n, phase := range phases {
		amp := proto.Clone()
		amp.PushInput(phase)
		array.Amplifiers[n] = amp
	}

	return
}

// NewArray creates an array with the DefaultConfig.
func NewArray(image []int64, phases []int64) (array *Array, err error) {
	return DefaultConfig.NewArray(image, phases)
}

// Halted returns true once the last amplifier has halted.
func (array *Array) Halted() bool {
	return array.Amplifiers[len(array.Amplifiers)-1].Status == cpu.STATUS_HALTED
}

// Pass sends signal through each amplifier in turn, and returns the
// signal from the last one. Each amplifier runs until it halts, or
// suspends waiting for its next signal.
func (array *Array) Pass(signal int64) (output int64, err error) {
	for n, amp := range array.Amplifiers {
		amp.PushInput(signal)

		_, err = amp.Run()
		if err != nil {
			err = &ErrAmplifier{Index: n, Phase: array.Phases[n], Err: err}
			return
		}

		outputs := amp.DrainOutput()
		if len(outputs) == 0 {
			err = &ErrAmplifier{Index: n, Phase: array.Phases[n], Err: ErrNoSignal}
			return
		}

		signal = outputs[len(outputs)-1]
		if array.Verbose {
			log.Printf("amplifier: %d: %v -> %d", n, amp.Status, signal)
		}
	}

	output = signal
	return
}

// Chain runs a single pass of the amplifiers, starting from a zero signal.
func (config Config) Chain(image []int64, phases []int64) (signal int64, err error) {
	array, err := config.NewArray(image, phases)
	if err != nil {
		return
	}

	signal, err = array.Pass(0)
	return
}

// Feedback runs the amplifiers in a loop, feeding the last signal back to
// the first amplifier, until the last amplifier halts.
func (config Config) Feedback(image []int64, phases []int64) (signal int64, err error) {
	array, err := config.NewArray(image, phases)
	if err != nil {
		return
	}

	for !array.Halted() {
		signal, err = array.Pass(signal)
		if err != nil {
			return
		}
	}

	return
}

// MaxSignal tries every ordering of phases, and returns the largest signal
// along with the ordering that produced it.
func (config Config) MaxSignal(image []int64, phases []int64, feedback bool) (best int64, order []int64, err error) {
	if len(phases) == 0 {
		err = ErrPhasesEmpty
		return
	}

	run := config.Chain
	if feedback {
		run = config.Feedback
	}

	var lock sync.Mutex
	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())

	for perm := range internal.Permutations(phases) {
		g.Go(func() error {
			signal, err := run(image, perm)
			if err != nil {
				return err
			}

			lock.Lock()
			defer lock.Unlock()
			if order == nil || signal > best || (signal == best && slices.Compare(perm, order) < 0) {
				best = signal
				order = perm
			}
			return nil
		})
	}

	err = g.Wait()
	if err != nil {
		best = 0
		order = nil
	}

	return
}

// Chain runs Config.Chain with the DefaultConfig.
func Chain(image []int64, phases []int64) (signal int64, err error) {
	return DefaultConfig.Chain(image, phases)
}

// Feedback runs Config.Feedback with the DefaultConfig.
func Feedback(image []int64, phases []int64) (signal int64, err error) {
	return DefaultConfig.Feedback(image, phases)
}

// MaxSignal runs Config.MaxSignal with the DefaultConfig.
func MaxSignal(image []int64, phases []int64, feedback bool) (best int64, order []int64, err error) {
	return DefaultConfig.MaxSignal(image, phases, feedback)
}
