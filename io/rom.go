package io

import (
	"iter"
)

// Rom is a read only channel of preset values.
type Rom struct {
	Data []int64

	readIndex int
}

var _ Channel = (*Rom)(nil)

// Rewind restarts the values from the beginning.
func (rc *Rom) Rewind() {
	rc.readIndex = 0
}

// Receive yields each value not yet received.
func (rc *Rom) Receive() iter.Seq[int64] {
	return func(yield func(value int64) bool) {
		for rc.readIndex < len(rc.Data) {
			value := rc.Data[rc.readIndex]
			rc.readIndex++
			if !yield(value) {
				return
			}
		}
	}
}

func (rc *Rom) Send(value int64) error {
	return ErrChannelReadOnly
}
