package io

import (
	"bufio"
	"fmt"
	"io"
	"iter"
)

// Ascii is a channel of text. Each input byte is a value, and output values
// in the ASCII range are written as characters. Other output values are
// written in decimal on their own line.
type Ascii struct {
	Input  io.Reader
	Output io.Writer

	reader *bufio.Reader
}

var _ Channel = (*Ascii)(nil)

// Rewind is not possible on a text stream.
func (ac *Ascii) Rewind() {
}

// Receive yields each byte of the input stream.
func (ac *Ascii) Receive() iter.Seq[int64] {
	return func(yield func(value int64) bool) {
		if ac.Input == nil {
			return
		}
		if ac.reader == nil {
			ac.reader = bufio.NewReader(ac.Input)
		}
		for {
			b, err := ac.reader.ReadByte()
			if err != nil {
				return
			}
			if !yield(int64(b)) {
				return
			}
		}
	}
}

// Send writes a value to the output stream.
func (ac *Ascii) Send(value int64) (err error) {
	if ac.Output == nil {
		err = ErrChannelReadOnly
		return
	}

	if value >= 0 && value < 128 {
		_, err = ac.Output.Write([]byte{byte(value)})
	} else {
		_, err = fmt.Fprintf(ac.Output, "%d\n", value)
	}

	return
}
