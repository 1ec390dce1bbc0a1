package io

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"strconv"
	"strings"
)

// Tape provides sequential decimal I/O. Input values are separated by
// whitespace or commas, and each output value is written on its own line.
type Tape struct {
	Input  io.Reader
	Output io.Writer

	scanner *bufio.Scanner
	pending []int64
	err     error
}

var _ Channel = (*Tape)(nil)

// Rewind is not possible on a tape.
func (tc *Tape) Rewind() {
}

// Err returns the error that ended the input, if any.
func (tc *Tape) Err() error {
	return tc.err
}

// Receive returns an iterator that yields values from the input stream,
// reading words as needed.
func (tc *Tape) Receive() iter.Seq[int64] {
	return func(yield func(value int64) bool) {
		if tc.Input == nil {
			return
		}
		if tc.scanner == nil {
			tc.scanner = bufio.NewScanner(tc.Input)
			tc.scanner.Split(bufio.ScanWords)
		}
		for {
			for len(tc.pending) > 0 {
				value := tc.pending[0]
				tc.pending = tc.pending[1:]
				if !yield(value) {
					return
				}
			}
			if tc.err != nil || !tc.scanner.Scan() {
				if tc.err == nil {
					tc.err = tc.scanner.Err()
				}
				return
			}
			for n, word := range strings.Split(tc.scanner.Text(), ",") {
				if len(word) == 0 {
					continue
				}
				value, err := strconv.ParseInt(word, 10, 64)
				if err != nil {
					tc.err = &ErrImageValue{Index: n, Text: word}
					break
				}
				tc.pending = append(tc.pending, value)
			}
		}
	}
}

// Send writes a value to the output stream.
func (tc *Tape) Send(value int64) (err error) {
	if tc.Output == nil {
		err = ErrChannelReadOnly
		return
	}

	_, err = fmt.Fprintln(tc.Output, value)
	return
}
