// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package emulator runs an Intcode machine against an I/O channel.
package emulator

import (
	"fmt"
	"io"
	"iter"
	"log"
	"maps"
	"slices"

	"github.com/ezrec/intcode/asm"
	"github.com/ezrec/intcode/cpu"
	ic_io "github.com/ezrec/intcode/io"
)

var _emulator_defines = map[string]string{
	"STEP_LIMIT":   fmt.Sprintf("%v", cpu.DEFAULT_STEP_LIMIT),
	"MEMORY_LIMIT": fmt.Sprintf("%v", cpu.DEFAULT_MEMORY_LIMIT),
}

// Emulator state. CPU + program listing + IO channel.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *asm.Program // Listing of the running program, if assembled.
	Image    []int64      // Image loaded on Reset.

	Channel ic_io.Channel // Source of input, and sink of output.

	next func() (int64, bool)
	stop func()
}

// NewEmulator creates a new emulator running image against channel.
func NewEmulator(image []int64, channel ic_io.Channel) (emu *Emulator) {
	emu = &Emulator{
		Channel: channel,
	}
	emu.Load(image)

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return maps.All(_emulator_defines)
}

// Load an unassembled image, and reset the emulator.
func (emu *Emulator) Load(image []int64) {
	emu.Program = nil
	emu.Image = slices.Clone(image)
	emu.Reset()
}

// Assemble source into the emulator's image, and reset the emulator.
func (emu *Emulator) Assemble(source io.Reader) (err error) {
	assembler := &asm.Assembler{Verbose: emu.Verbose}
	for equ, value := range emu.Defines() {
		assembler.Predefine(equ, value)
	}

	prog, err := assembler.Parse(source)
	if err != nil {
		return
	}

	emu.Load(prog.Image())
	emu.Program = prog

	return
}

// Close the emulator's input.
func (emu *Emulator) Close() (err error) {
	if emu.stop != nil {
		emu.stop()
	}
	emu.next = nil
	emu.stop = nil

	return
}

// Reset the machine to the loaded image, and rewind the channel.
// The step and memory limits of the previous machine are kept.
func (emu *Emulator) Reset() {
	emu.Close()

	machine := cpu.NewCpu(emu.Image)
	if emu.Cpu != nil {
		machine.StepLimit = emu.Cpu.StepLimit
		machine.Memory.Limit = emu.Cpu.Memory.Limit
	}
	emu.Cpu = machine

	if emu.Channel != nil {
		emu.Channel.Rewind()
	}
}

// LineNo returns the source line number of pc, or 0 if it is unknown.
func (emu *Emulator) LineNo(pc int64) int {
	if emu.Program == nil {
		return 0
	}

	return emu.Program.LineNo(pc)
}

// receive pulls the next input from the channel.
func (emu *Emulator) receive() (value int64, ok bool) {
	if emu.Channel == nil {
		return
	}

	if emu.next == nil {
		emu.next, emu.stop = iter.Pull(emu.Channel.Receive())
	}

	return emu.next()
}

// flush sends all pending output to the channel.
func (emu *Emulator) flush() (err error) {
	for _, value := range emu.Cpu.DrainOutput() {
		if emu.Channel == nil {
			continue
		}
		err = emu.Channel.Send(value)
		if err != nil {
			return
		}
	}

	return
}

// service handles the machine state after it stops running.
func (emu *Emulator) service(runErr error) (done bool, err error) {
	defer func() {
		if err != nil && emu.Program != nil {
			if fault, ok := cpu.Faulted(err); ok {
				err = &ErrRuntime{LineNo: emu.LineNo(fault.Pc), Err: err}
			}
		}
	}()

	err = emu.flush()
	if err != nil {
		return
	}

	if runErr != nil {
		err = runErr
		return
	}

	switch emu.Cpu.Status {
	case cpu.STATUS_HALTED:
		done = true
	case cpu.STATUS_SUSPENDED:
		value, ok := emu.receive()
		if !ok {
			err = ErrInputExhausted
			return
		}
		if emu.Verbose {
			log.Printf("emulator: input %d", value)
		}
		emu.Cpu.PushInput(value)
	}

	return
}

// Tick performs a single instruction of the emulator.
func (emu *Emulator) Tick() (done bool, err error) {
	emu.Cpu.Verbose = emu.Verbose

	return emu.service(emu.Cpu.Step())
}

// Run the emulator until the machine halts.
func (emu *Emulator) Run() (err error) {
	emu.Cpu.Verbose = emu.Verbose

	for {
		var done bool
		_, err = emu.Cpu.Run()
		done, err = emu.service(err)
		if err != nil || done {
			return
		}
	}
}
