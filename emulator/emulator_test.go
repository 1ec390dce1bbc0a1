package emulator

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/intcode/cpu"
	ic_io "github.com/ezrec/intcode/io"
)

func newDuplex(input ...int64) (duplex *ic_io.Duplex, output *ic_io.Temporary) {
	output = &ic_io.Temporary{Capacity: 64}
	duplex = &ic_io.Duplex{
		Input:  &ic_io.Rom{Data: input},
		Output: output,
	}
	return
}

func TestEmulator(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator([]int64{99}, nil)

	assert.False(emu.Verbose)
	assert.NotNil(emu.Cpu)
	assert.Nil(emu.Program)
	assert.NoError(emu.Run())
	assert.Equal(cpu.STATUS_HALTED, emu.Status)
}

func TestEmulatorRun(t *testing.T) {
	// Outputs 1 if the input is equal to 8.
	image := []int64{3, 9, 8, 9, 10, 9, 4, 9, 99, -1, 8}

	table := [](struct {
		input  int64
		output int64
	}){
		{8, 1},
		{7, 0},
		{9, 0},
	}

	for _, entry := range table {
		assert := assert.New(t)

		duplex, output := newDuplex(entry.input)
		emu := NewEmulator(image, duplex)
		err := emu.Run()
		assert.NoError(err)
		assert.Equal([]int64{entry.output}, ic_io.ReceiveAll(output))
	}
}

func TestEmulatorInputExhausted(t *testing.T) {
	assert := assert.New(t)

	duplex, output := newDuplex(5)
	emu := NewEmulator([]int64{3, 0, 4, 0, 3, 0, 99}, duplex)

	err := emu.Run()
	assert.ErrorIs(err, ErrInputExhausted)
	assert.Equal(cpu.STATUS_SUSPENDED, emu.Status)
	assert.Equal(int64(4), emu.Pc)
	assert.Equal([]int64{5}, ic_io.ReceiveAll(output))

	// Rewinding the input replays it.
	emu.Reset()
	assert.Equal(0, output.Size)
	err = emu.Run()
	assert.ErrorIs(err, ErrInputExhausted)
	assert.Equal([]int64{5}, ic_io.ReceiveAll(output))
}

func TestEmulatorTick(t *testing.T) {
	assert := assert.New(t)

	duplex, output := newDuplex(42)
	emu := NewEmulator([]int64{3, 0, 4, 0, 99}, duplex)

	expected := []int64{0, 2, 4, 4}
	for n, pc := range expected {
		done, err := emu.Tick()
		assert.NoError(err)
		assert.Equal(n == len(expected)-1, done)
		assert.Equal(pc, emu.Pc)
	}

	assert.Equal(int64(2), emu.Steps)
	assert.Equal([]int64{42}, ic_io.ReceiveAll(output))
}

func TestEmulatorAssemble(t *testing.T) {
	assert := assert.New(t)

	source := []string{
		"        out #1",
		"        jt #1 #-5 ; bad jump",
	}

	duplex, output := newDuplex()
	emu := NewEmulator(nil, duplex)
	err := emu.Assemble(strings.NewReader(strings.Join(source, "\n")))
	assert.NoError(err)
	assert.NotNil(emu.Program)
	assert.Equal([]int64{104, 1, 1105, 1, -5}, emu.Image)

	err = emu.Run()
	assert.ErrorIs(err, cpu.ErrMemoryAccess)
	var runtime *ErrRuntime
	if assert.True(errors.As(err, &runtime)) {
		assert.Equal(2, runtime.LineNo)
	}
	assert.Equal(cpu.STATUS_FAULTED, emu.Status)
	assert.Equal([]int64{1}, ic_io.ReceiveAll(output))

	// Unassembled images have no line numbers.
	emu.Load([]int64{98})
	assert.Nil(emu.Program)
	err = emu.Run()
	assert.ErrorIs(err, cpu.ErrOpcodeInvalid)
	assert.False(errors.As(err, &runtime))
}

func TestEmulatorDefines(t *testing.T) {
	assert := assert.New(t)

	defines := map[string]string{}
	emu := NewEmulator(nil, nil)
	for equ, value := range emu.Defines() {
		defines[equ] = value
	}
	assert.Contains(defines, "STEP_LIMIT")
	assert.Contains(defines, "MEMORY_LIMIT")

	err := emu.Assemble(strings.NewReader(".data STEP_LIMIT"))
	assert.NoError(err)
	assert.Equal([]int64{cpu.DEFAULT_STEP_LIMIT}, emu.Image)
}

func TestEmulatorAscii(t *testing.T) {
	assert := assert.New(t)

	source := []string{
		"        in  ch",
		"        out ch",
		"        out #'\\n'",
		"        out #1000",
		"        hlt",
		"ch:     .data 0",
	}

	output := &bytes.Buffer{}
	ascii := &ic_io.Ascii{Input: strings.NewReader("A"), Output: output}

	emu := NewEmulator(nil, ascii)
	err := emu.Assemble(strings.NewReader(strings.Join(source, "\n")))
	assert.NoError(err)

	err = emu.Run()
	assert.NoError(err)
	assert.Equal("A\n1000\n", output.String())
}

func TestEmulatorLimits(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator([]int64{1105, 1, 0}, nil)
	emu.Cpu.StepLimit = 100
	err := emu.Run()
	assert.ErrorIs(err, cpu.ErrStepLimit)
	assert.Equal(int64(100), emu.Steps)

	// Limits survive a reset.
	emu.Reset()
	assert.Equal(int64(0), emu.Steps)
	assert.Equal(int64(100), emu.Cpu.StepLimit)
	err = emu.Run()
	assert.ErrorIs(err, cpu.ErrStepLimit)
}
