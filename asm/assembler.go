// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package asm is a macro assembler for Intcode programs.
//
// Each source line is an optional set of labels, followed by a mnemonic
// and its operands:
//
//	loop:   in  x          ; read into the cell labelled x
//	        mul x #2 x     ; double it
//	        out ~-1        ; relative mode
//	        jt  #1 #loop
//	x:      .data 0
//
// Operands are position mode by default, immediate with a '#' prefix, and
// relative with a '~' prefix. Values are numbers, 'c' characters, labels,
// equates, or $(...) compile-time expressions.
package asm

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/intcode/cpu"
	"github.com/ezrec/intcode/internal"
)

// Macro represents a macro definition in the assembly language.
type Macro struct {
	LineNo int      // Line number of the macro definition.
	Args   []string // Arguments for the macro.
	Lines  []string // Lines of macro text to expand.
}

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO":  "0",
	"MAX_PC":  fmt.Sprintf("%d", cpu.DEFAULT_MEMORY_LIMIT-1),
	"OP_HALT": fmt.Sprintf("%d", cpu.OP_HLT),
}

// opMap maps mnemonics to opcodes.
var opMap = map[string]cpu.CodeOp{}

func init() {
	for _, op := range []cpu.CodeOp{
		cpu.OP_ADD, cpu.OP_MUL, cpu.OP_IN, cpu.OP_OUT, cpu.OP_JT,
		cpu.OP_JF, cpu.OP_LT, cpu.OP_EQ, cpu.OP_ARB, cpu.OP_HLT,
	} {
		opMap[op.String()] = op
	}
}

var modePrefix = map[byte]cpu.CodeMode{
	'#': cpu.MODE_IMMEDIATE,
	'~': cpu.MODE_RELATIVE,
}

var (
	reLabel = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.]*$`)
	reChar  = regexp.MustCompile(`'\\?[^']'`)
	reParen = regexp.MustCompile(`\$\([^\$]*\)`)
)

// Assembler is a single pass macro assembler for Intcode.
type Assembler struct {
	Verbose bool   // If set, verbosely logs the assembler actions.
	Lines   []Line // List of generated lines.

	predefine map[string]string   // Predefines
	Label     map[string]int64    // Map of labels to addresses.
	Equate    map[string]string   // Map of equates.
	Macro     map[string](*Macro) // Map of macros.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// Defines returns an iterator over the system equates and predefines.
func (asm *Assembler) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(sysEquate), maps.All(asm.predefine))
}

// valueOf returns the value of a simple word. Words that name a label
// are returned as label, to be linked after the whole source is read.
func (asm *Assembler) valueOf(word string) (value int64, label string, err error) {
	if equate, ok := asm.Equate[word]; ok {
		word = equate
	}

	if len(word) == 0 {
		err = ErrOpcodeValueMissing
		return
	}

	value, err = strconv.ParseInt(word, 0, 64)
	if err == nil {
		return
	}
	err = nil

	if reLabel.MatchString(word) {
		label = word
		return
	}

	err = ErrParseNumber(word)
	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int64, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		v64, perr := strconv.ParseInt(str, 0, 64)
		if perr != nil {
			// Ignore non-integer equates.
			continue
		}
		pred[key] = starlark.MakeInt64(v64)
	}
	for key, pc := range asm.Label {
		pred[key] = starlark.MakeInt64(pc)
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value, ok = st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	return
}

// parseLine parses a single line into words.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do 'x' evaluations
	line = reChar.ReplaceAllStringFunc(line, func(word string) string {
		str := word[1 : len(word)-1]
		if str[0] == '\\' {
			str = str[1:]
			switch str {
			case "\\":
				str = "\\"
			case "n":
				str = "\n"
			case "t":
				str = "\t"
			case "s":
				str = " "
			default:
				return word
			}
		} else if len(str) != 1 {
			return word
		}
		return fmt.Sprintf("%v", str[0])
	})

	// Do $() evaluations
	line = reParen.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%d", value)
	})
	if err != nil {
		return
	}

	words = strings.Fields(line)

	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		if !reLabel.MatchString(label) {
			err = ErrLabelInvalid
			return
		}
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}

		asm.Label[label] = asm.currentPc()
		words = words[1:]
		if len(words) == 0 {
			return
		}
	}

	// .macro processing
	macro, ok := asm.Macro[words[0]]
	if ok {
		name := words[0]

		args := words[1:]
		if len(args) != len(macro.Args) {
			err = ErrMacroSyntax
			return
		}
		// Turn args into equs
		old_equate := maps.Clone(asm.Equate)
		for n, arg := range macro.Args {
			asm.Equate[arg] = args[n]
		}
		defer func() { asm.Equate = old_equate }()

		local := fmt.Sprintf("%v_%v_", name, asm.currentPc())
		for n, line := range macro.Lines {
			lineno := macro.LineNo + n

			line = strings.ReplaceAll(line, "@", local)
			words, err = asm.parseLine(line, lineno)
			if err != nil {
				err = &ErrMacro{Macro: name, Line: lineno, Err: err}
				return
			}

			err = asm.parseWords(words, lineno)
			if err != nil {
				err = &ErrMacro{Macro: name, Line: lineno, Err: err}
				return
			}
		}

		words = nil
		return
	}

	return
}

// currentPc gets the address of the next generated word.
func (asm *Assembler) currentPc() int64 {
	if len(asm.Lines) == 0 {
		return 0
	}

	last := asm.Lines[len(asm.Lines)-1]

	return last.Pc + int64(len(last.Codes))
}

// Parse parses an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int
	var macro *Macro

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	asm.Lines = asm.Lines[:0]
	asm.Label = make(map[string]int64, 16)
	asm.Macro = make(map[string](*Macro))
	asm.Equate = maps.Collect(asm.Defines())

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("asm: %v: %v", lineno, text)
		}

		line = strings.TrimSpace(strings.SplitN(text, ";", 2)[0])
		words := strings.Fields(line)

		// .macro NAME arg...
		if len(words) > 0 && words[0] == ".macro" {
			if macro != nil {
				err = ErrMacroNesting
				return
			}
			if len(words) < 2 {
				err = ErrMacroSyntax
				return
			}
			_, ok := asm.Macro[words[1]]
			if ok {
				err = ErrMacroDuplicate
				return
			}
			macro = &Macro{
				LineNo: lineno + 1,
				Args:   words[2:],
			}
			asm.Macro[words[1]] = macro
			continue
		}

		if len(words) > 0 && words[0] == ".endm" {
			if macro == nil {
				err = ErrMacroLonelyEndm
				return
			}
			macro = nil
			continue
		}

		if macro != nil {
			macro.Lines = append(macro.Lines, line)
			continue
		}

		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	if macro != nil {
		err = ErrMacroLonely
		return
	}

	// Final linking of labels.
	for n := range asm.Lines {
		op := &asm.Lines[n]
		for _, link := range op.Links {
			pc, ok := asm.Label[link.Label]
			if !ok {
				lineno = op.LineNo
				line = strings.Join(op.Words, " ")
				err = ErrLabelMissing(link.Label)
				return
			}
			op.Codes[link.Index] += pc
		}
	}

	prog = &Program{
		Lines: slices.Clone(asm.Lines),
	}

	return
}

// parseOperand parses a single operand into its mode and value.
func (asm *Assembler) parseOperand(word string) (mode cpu.CodeMode, value int64, label string, err error) {
	mode = cpu.MODE_POSITION
	if equate, ok := asm.Equate[word]; ok {
		word = equate
	}
	if len(word) > 0 {
		if prefixed, ok := modePrefix[word[0]]; ok {
			mode = prefixed
			word = word[1:]
		}
	}

	value, label, err = asm.valueOf(word)
	return
}

// parseWords generates the words of a single instruction or directive.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	var codes []int64
	var links []Link

	// no-op
	if len(words) == 0 {
		return
	}

	defer func() {
		if err != nil || len(codes) == 0 {
			return
		}
		line := Line{LineNo: lineno, Pc: asm.currentPc(), Words: words, Codes: codes, Links: links}
		asm.Lines = append(asm.Lines, line)
	}()

	if words[0] == ".data" {
		for _, word := range words[1:] {
			var value int64
			var label string
			value, label, err = asm.valueOf(word)
			if err != nil {
				return
			}
			if len(label) != 0 {
				links = append(links, Link{Index: len(codes), Label: label})
			}
			codes = append(codes, value)
		}
		return
	}

	op, ok := opMap[words[0]]
	if !ok {
		err = ErrOpcodeInvalid
		return
	}

	args := words[1:]
	switch {
	case len(args) < op.Arity():
		err = ErrOpcodeValueMissing
		return
	case len(args) > op.Arity():
		err = ErrOpcodeExtraArgs
		return
	}

	modes := make([]cpu.CodeMode, len(args))
	params := make([]int64, len(args))
	for n, arg := range args {
		var label string
		modes[n], params[n], label, err = asm.parseOperand(arg)
		if err != nil {
			return
		}
		if modes[n] == cpu.MODE_IMMEDIATE && op.Writes(n) {
			err = ErrTargetInvalid
			return
		}
		if len(label) != 0 {
			links = append(links, Link{Index: 1 + n, Label: label})
		}
	}

	codes = append([]int64{cpu.Encode(op, modes...)}, params...)

	return
}
