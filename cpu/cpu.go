package cpu

import (
	"fmt"
	"iter"
	"log"
)

// Status is the run state of a machine.
type Status int

//go:generate go tool stringer -linecomment -type=Status
const (
	STATUS_RUNNING   = Status(0) // running
	STATUS_SUSPENDED = Status(1) // suspended
	STATUS_HALTED    = Status(2) // halted
	STATUS_FAULTED   = Status(3) // faulted
)

const (
	DEFAULT_STEP_LIMIT = 100_000_000 // Default instruction budget of a machine.
)

// Cpu is the execution state of one Intcode machine.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Memory       *Memory // Program memory.
	Pc           int64   // Address of the next instruction.
	RelativeBase int64   // Base of relative mode parameters.
	Input        Queue   // Pending input values.
	Output       Queue   // Produced output values.
	Status       Status  // Current run state.

	Steps     int64 // Instructions executed.
	StepLimit int64 // Maximum instructions executed. 0 is unlimited.

	fault error // Fatal error that stopped the machine.
}

// NewCpu creates a machine running a copy of image.
func NewCpu(image []int64) (cpu *Cpu) {
	cpu = &Cpu{
		Memory:    NewMemory(image),
		StepLimit: DEFAULT_STEP_LIMIT,
	}

	return
}

// Clone returns an independent copy of the machine.
func (cpu *Cpu) Clone() (clone *Cpu) {
	clone = &Cpu{}
	*clone = *cpu
	clone.Memory = cpu.Memory.Clone()
	clone.Input = cpu.Input.Clone()
	clone.Output = cpu.Output.Clone()

	return
}

// String returns the current machine state as a string.
func (cpu *Cpu) String() (text string) {
	regs := []string{
		"status",
		"pc",
		"rb",
		"word",
		"steps",
		"input",
		"output",
	}
	for _, reg := range regs {
		var strval string
		switch reg {
		case "status":
			strval = cpu.Status.String()
		case "pc":
			strval = fmt.Sprintf("%d", cpu.Pc)
		case "rb":
			strval = fmt.Sprintf("%d", cpu.RelativeBase)
		case "word":
			strval = "-"
			if word, ok := cpu.Memory.Peek(cpu.Pc); ok {
				strval = fmt.Sprintf("%d", word)
				inst, err := Decode(word)
				if err == nil {
					strval += " (" + inst.String() + ")"
				}
			}
		case "steps":
			strval = fmt.Sprintf("%d", cpu.Steps)
		case "input":
			strval = fmt.Sprintf("%v", cpu.Input.Data)
		case "output":
			strval = fmt.Sprintf("%v", cpu.Output.Data)
		}
		text += fmt.Sprintf("% 6s: %v\n", reg, strval)
	}

	return
}

// Fault returns the error that stopped a faulted machine.
func (cpu *Cpu) Fault() error {
	return cpu.fault
}

// PushInput appends values to the input queue.
func (cpu *Cpu) PushInput(values ...int64) {
	cpu.Input.Push(values...)
}

// DrainOutput removes and returns all produced output.
func (cpu *Cpu) DrainOutput() []int64 {
	return cpu.Output.Drain()
}

// PeekOutput returns the oldest output, without removing it.
func (cpu *Cpu) PeekOutput() (value int64, ok bool) {
	return cpu.Output.Peek()
}

// PopOutput removes and returns the oldest output.
func (cpu *Cpu) PopOutput() (value int64, ok bool) {
	return cpu.Output.Pop()
}

// Outputs returns an iterator over the produced output, oldest first.
func (cpu *Cpu) Outputs() iter.Seq[int64] {
	return cpu.Output.All()
}

// PeekMemory reads memory at addr.
func (cpu *Cpu) PeekMemory(addr int64) (value int64, err error) {
	return cpu.Memory.Read(addr)
}

// PokeMemory writes value to memory at addr.
func (cpu *Cpu) PokeMemory(addr int64, value int64) (err error) {
	return cpu.Memory.Write(addr, value)
}

// Fetch decodes the instruction at the program counter, and returns it
// along with its raw parameters.
func (cpu *Cpu) Fetch() (inst Instruction, params []int64, err error) {
	word, err := cpu.Memory.Read(cpu.Pc)
	if err != nil {
		return
	}

	inst, err = Decode(word)
	if err != nil {
		return
	}

	params = make([]int64, len(inst.Modes))
	for n := range params {
		params[n], err = cpu.Memory.Read(cpu.Pc + 1 + int64(n))
		if err != nil {
			return
		}
	}

	return
}

// Run executes instructions until the machine halts, or suspends waiting
// for input. A suspended machine resumes at the same input instruction.
func (cpu *Cpu) Run() (status Status, err error) {
	for {
		err = cpu.Step()
		if err != nil || cpu.Status != STATUS_RUNNING {
			break
		}
	}

	status = cpu.Status
	return
}

// Step executes a single instruction.
//
// An input instruction with an empty input queue suspends the machine
// without side effects. Stepping a halted machine does nothing, and
// stepping a faulted machine returns its fault.
func (cpu *Cpu) Step() (err error) {
	switch cpu.Status {
	case STATUS_HALTED:
		return
	case STATUS_FAULTED:
		err = cpu.fault
		return
	}

	defer func() {
		if err != nil {
			word, _ := cpu.Memory.Peek(cpu.Pc)
			err = &ErrFault{Pc: cpu.Pc, RelativeBase: cpu.RelativeBase, Word: word, Err: err}
			cpu.fault = err
			cpu.Status = STATUS_FAULTED
			if cpu.Verbose {
				log.Printf("cpu: %v", err)
			}
		}
	}()

	cpu.Status = STATUS_RUNNING

	if cpu.StepLimit > 0 && cpu.Steps >= cpu.StepLimit {
		err = ErrStepLimit
		return
	}

	inst, params, err := cpu.Fetch()
	if err != nil {
		return
	}

	if cpu.Verbose {
		log.Printf("cpu: %04d: %v", cpu.Pc, inst.Format(params...))
	}

	err = cpu.Execute(inst, params)
	return
}

// Execute executes a decoded instruction at the program counter.
func (cpu *Cpu) Execute(inst Instruction, params []int64) (err error) {
	if len(params) != len(inst.Modes) {
		err = ErrOpcodeParams
		return
	}

	mem := cpu.Memory
	base := cpu.RelativeBase
	next_pc := cpu.Pc + inst.Len()

	value := func(n int) (int64, error) {
		return mem.ResolveValue(params[n], inst.Modes[n], base)
	}
	target := func(n int) (int64, error) {
		return mem.ResolveWriteAddress(params[n], inst.Modes[n], base)
	}

	switch inst.Op {
	case OP_HLT:
		cpu.Status = STATUS_HALTED
		if cpu.Verbose {
			log.Printf("cpu: halted after %d steps", cpu.Steps)
		}
		return
	case OP_ADD, OP_MUL, OP_LT, OP_EQ:
		var a, b, addr int64
		a, err = value(0)
		if err != nil {
			return
		}
		b, err = value(1)
		if err != nil {
			return
		}
		addr, err = target(2)
		if err != nil {
			return
		}
		var result int64
		switch inst.Op {
		case OP_ADD:
			result = a + b
		case OP_MUL:
			result = a * b
		case OP_LT:
			result = flag(a < b)
		case OP_EQ:
			result = flag(a == b)
		}
		err = mem.Write(addr, result)
		if err != nil {
			return
		}
	case OP_IN:
		var addr int64
		addr, err = target(0)
		if err != nil {
			return
		}
		if cpu.Input.Empty() {
			// Wait for input at this instruction.
			cpu.Status = STATUS_SUSPENDED
			if cpu.Verbose {
				log.Printf("cpu: %04d: waiting for input", cpu.Pc)
			}
			return
		}
		err = mem.ExtendToInclude(addr)
		if err != nil {
			return
		}
		input, _ := cpu.Input.Pop()
		mem.Data[addr] = input
	case OP_OUT:
		var out int64
		out, err = value(0)
		if err != nil {
			return
		}
		cpu.Output.Push(out)
	case OP_JT, OP_JF:
		var cond, dest int64
		cond, err = value(0)
		if err != nil {
			return
		}
		dest, err = value(1)
		if err != nil {
			return
		}
		if (inst.Op == OP_JT) == (cond != 0) {
			if dest < 0 {
				err = ErrAddress(dest)
				return
			}
			next_pc = dest
		}
	case OP_ARB:
		var adjust int64
		adjust, err = value(0)
		if err != nil {
			return
		}
		cpu.RelativeBase += adjust
	default:
		err = ErrOpcode(inst.Word)
		return
	}

	cpu.Pc = next_pc
	cpu.Steps++

	return
}

func flag(cond bool) int64 {
	if cond {
		return 1
	}
	return 0
}
