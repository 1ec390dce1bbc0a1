package io

import (
	"iter"
)

// Temporary implements a circular buffer of values.
// It operates as a FIFO queue with a fixed capacity and separate read/write positions.
type Temporary struct {
	Capacity int // Capacity in values.

	ReadIndex  int
	WriteIndex int
	Size       int
	Data       []int64
}

var _ Channel = (*Temporary)(nil)

// Rewind resets the temporary storage to empty.
func (temp *Temporary) Rewind() {
	temp.ReadIndex = 0
	temp.WriteIndex = 0
	temp.Size = 0
	temp.Data = make([]int64, temp.Capacity)
}

// Receive returns an iterator that yields values from the buffer until empty.
func (temp *Temporary) Receive() iter.Seq[int64] {
	return func(yield func(value int64) bool) {
		for temp.Size > 0 {
			value := temp.Data[temp.ReadIndex]
			temp.ReadIndex++
			if temp.ReadIndex == temp.Capacity {
				temp.ReadIndex = 0
			}
			temp.Size--
			if !yield(value) {
				return
			}
		}
	}
}

// Send writes a value to the buffer.
// Returns ErrChannelFull if the buffer has reached capacity.
func (temp *Temporary) Send(value int64) (err error) {
	if temp.Data == nil {
		temp.Rewind()
	}

	if temp.Size >= temp.Capacity {
		err = ErrChannelFull
		return
	}

	temp.Data[temp.WriteIndex] = value

	temp.WriteIndex++
	if temp.WriteIndex == temp.Capacity {
		temp.WriteIndex = 0
	}
	temp.Size++

	return
}
