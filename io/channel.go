// Package io provides value channels and image files for Intcode machines.
// Channels feed the input instructions of a machine, and collect the values
// of its output instructions.
package io

import (
	"iter"
)

// Channel defines the interface for all value channels.
type Channel interface {
	// Rewind resets the channel to its initial state.
	Rewind()
	// Receive returns an iterator that yields values from the channel.
	Receive() iter.Seq[int64]
	// Send writes a single value to the channel.
	Send(value int64) error
}

// Duplex is a channel that receives from Input, and sends to Output.
type Duplex struct {
	Input  Channel
	Output Channel
}

var _ Channel = (*Duplex)(nil)

// Rewind both sides of the channel.
func (dc *Duplex) Rewind() {
	dc.Input.Rewind()
	dc.Output.Rewind()
}

func (dc *Duplex) Receive() iter.Seq[int64] {
	return dc.Input.Receive()
}

func (dc *Duplex) Send(value int64) error {
	return dc.Output.Send(value)
}
