package asm

import (
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/ezrec/intcode/cpu"
)

// Line is a line of assembled source, with the words it generated.
type Line struct {
	LineNo int      // Source line number.
	Pc     int64    // Address of the first generated word.
	Words  []string // Source words.
	Codes  []int64  // Generated words.
	Links  []Link   // Label references to resolve in Codes.
}

// Link is a reference from a generated word to a label.
type Link struct {
	Index int    // Index into Codes.
	Label string // Label name.
}

// Program is an assembled listing.
type Program struct {
	Lines []Line
}

// Debug locates a program counter in the listing.
type Debug struct {
	*Line
	Index int
}

// Debug returns the line holding pc. The Line is nil if pc is outside the
// listing.
func (prog *Program) Debug(pc int64) (dbg Debug) {
	for n, line := range prog.Lines {
		if pc >= line.Pc && pc < line.Pc+int64(len(line.Codes)) {
			dbg = Debug{
				Line:  &prog.Lines[n],
				Index: int(pc - line.Pc),
			}
			break
		}
	}

	return
}

// LineNo returns the source line number for pc, or 0 if it is unknown.
func (prog *Program) LineNo(pc int64) int {
	dbg := prog.Debug(pc)
	if dbg.Line == nil {
		return 0
	}
	return dbg.LineNo
}

// Codes iterates over each generated word and its address.
func (prog *Program) Codes() iter.Seq2[int64, int64] {
	return func(yield func(pc int64, code int64) bool) {
		for _, line := range prog.Lines {
			for n, code := range line.Codes {
				if !yield(line.Pc+int64(n), code) {
					return
				}
			}
		}
	}
}

// Image returns the program image.
func (prog *Program) Image() (image []int64) {
	for pc, code := range prog.Codes() {
		for int64(len(image)) < pc {
			image = append(image, 0)
		}
		image = append(image, code)
	}

	return
}

// Listing writes the assembled words beside their disassembly.
func (prog *Program) Listing(w io.Writer) (err error) {
	for _, line := range prog.Lines {
		codes := make([]string, len(line.Codes))
		for n, code := range line.Codes {
			codes[n] = fmt.Sprintf("%d", code)
		}
		text := strings.Join(line.Words, " ")
		if inst, ierr := cpu.Decode(line.Codes[0]); ierr == nil && len(line.Codes) == int(inst.Len()) && line.Words[0] != ".data" {
			text = inst.Format(line.Codes[1:]...)
		}
		_, err = fmt.Fprintf(w, "%04d: %-24s ; %4d: %v\n", line.Pc, strings.Join(codes, ","), line.LineNo, text)
		if err != nil {
			return
		}
	}

	return
}
