// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/ezrec/intcode/amplifier"
	"github.com/ezrec/intcode/cpu"
	"github.com/ezrec/intcode/emulator"
	ic_io "github.com/ezrec/intcode/io"
	"github.com/ezrec/intcode/translate"
)

// patch is a single addr=value memory patch.
type patch struct {
	Addr  int64
	Value int64
}

// patchList collects repeated -p flags.
type patchList []patch

func (pl *patchList) String() string {
	words := make([]string, len(*pl))
	for n, p := range *pl {
		words[n] = fmt.Sprintf("%d=%d", p.Addr, p.Value)
	}
	return strings.Join(words, ",")
}

func (pl *patchList) Set(text string) (err error) {
	addr, value, ok := strings.Cut(text, "=")
	if !ok {
		err = fmt.Errorf("%v: expected addr=value", text)
		return
	}

	var p patch
	p.Addr, err = strconv.ParseInt(strings.TrimSpace(addr), 0, 64)
	if err != nil {
		return
	}
	p.Value, err = strconv.ParseInt(strings.TrimSpace(value), 0, 64)
	if err != nil {
		return
	}

	*pl = append(*pl, p)
	return
}

// parseValues parses a list of comma separated values.
func parseValues(text string) (values []int64, err error) {
	tape := &ic_io.Tape{Input: strings.NewReader(text)}
	values = ic_io.ReceiveAll(tape)
	err = tape.Err()
	return
}

func main() {
	var compile string
	var image string
	var patches patchList
	var input string
	var ascii bool
	var diag bool
	var limit int64
	var dump bool
	var list bool
	var amp string
	var feedback bool
	var search bool
	var verbose bool

	flag.StringVar(&compile, "c", "", ".ica file to assemble")
	flag.StringVar(&image, "i", "-", "Image file")
	flag.Var(&patches, "p", "Patch memory with addr=value before running (repeatable)")
	flag.StringVar(&input, "in", "", "Comma separated input values, instead of standard input")
	flag.BoolVar(&ascii, "ascii", false, "ASCII input and output")
	flag.BoolVar(&diag, "diag", false, "Print the diagnostic code, instead of the outputs")
	flag.Int64Var(&limit, "limit", cpu.DEFAULT_STEP_LIMIT, "Step limit, 0 for unlimited")
	flag.BoolVar(&dump, "dump", false, "Print the image, do not execute")
	flag.BoolVar(&list, "list", false, "Print the assembly listing, do not execute")
	flag.StringVar(&amp, "amp", "", "Comma separated amplifier phases")
	flag.BoolVar(&feedback, "feedback", false, "Run the amplifiers in a feedback loop")
	flag.BoolVar(&search, "max", false, "Search all orderings of the amplifier phases")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	if verbose {
		log.Printf("%v: language %v", os.Args[0], translate.Language())
	}

	emu := emulator.NewEmulator(nil, nil)
	emu.Verbose = verbose

	stdinUsed := false
	if len(compile) != 0 {
		// Assemble a new instruction stream.
		inf, err := os.Open(compile)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		defer inf.Close()

		err = emu.Assemble(inf)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
	} else {
		inf := os.Stdin
		if image == "-" {
			stdinUsed = true
		} else {
			var err error
			inf, err = os.Open(image)
			if err != nil {
				log.Fatalf("%v: %v", image, err)
			}
			defer inf.Close()
		}

		values, err := ic_io.ParseImage(inf)
		if err != nil {
			log.Fatalf("%v: %v", image, err)
		}
		emu.Load(values)
	}

	emu.Cpu.StepLimit = limit
	for _, p := range patches {
		err := emu.PokeMemory(p.Addr, p.Value)
		if err != nil {
			log.Fatalf("-p %d=%d: %v", p.Addr, p.Value, err)
		}
	}

	if list {
		if emu.Program == nil {
			log.Fatalf("%v: -list requires -c", os.Args[0])
		}
		err := emu.Program.Listing(os.Stdout)
		if err != nil {
			log.Fatal(err)
		}
		return
	}

	if dump {
		err := ic_io.FormatImage(os.Stdout, emu.Memory.Slice())
		if err != nil {
			log.Fatal(err)
		}
		return
	}

	if len(amp) != 0 {
		phases, err := parseValues(amp)
		if err != nil {
			log.Fatalf("-amp %v: %v", amp, err)
		}
		program := emu.Memory.Slice()
		config := amplifier.Config{Verbose: verbose, StepLimit: limit}
		if search {
			best, order, err := config.MaxSignal(program, phases, feedback)
			if err != nil {
				log.Fatal(err)
			}
			fmt.Printf("%d %v\n", best, order)
			return
		}
		run := config.Chain
		if feedback {
			run = config.Feedback
		}
		signal, err := run(program, phases)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(signal)
		return
	}

	var source ic_io.Channel = &ic_io.Rom{}
	switch {
	case len(input) != 0:
		values, err := parseValues(input)
		if err != nil {
			log.Fatalf("-in %v: %v", input, err)
		}
		source = &ic_io.Rom{Data: values}
	case stdinUsed:
	case ascii:
		source = &ic_io.Ascii{Input: os.Stdin}
	default:
		source = &ic_io.Tape{Input: os.Stdin}
	}

	var sink ic_io.Channel = &ic_io.Tape{Output: os.Stdout}
	var outputs *ic_io.Temporary
	switch {
	case diag:
		outputs = &ic_io.Temporary{Capacity: 1 << 16}
		sink = outputs
	case ascii:
		sink = &ic_io.Ascii{Output: os.Stdout}
	}

	emu.Channel = &ic_io.Duplex{Input: source, Output: sink}
	defer emu.Close()

	err := emu.Run()
	if err != nil {
		if verbose {
			log.Print(emu.Cpu.String())
		}
		log.Fatal(err)
	}

	if diag {
		code, _, err := cpu.TakeDiagnosticCode(ic_io.ReceiveAll(outputs))
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(code)
	}
}
