package io

import (
	"iter"
	"slices"
)

// SendValues sends each value to the channel, in order.
func SendValues(ch Channel, values ...int64) (err error) {
	for _, value := range values {
		err = ch.Send(value)
		if err != nil {
			return
		}
	}
	return
}

// SendString sends each byte of text to the channel.
func SendString(ch Channel, text string) (err error) {
	for _, b := range []byte(text) {
		err = ch.Send(int64(b))
		if err != nil {
			return
		}
	}
	return
}

// ReceiveAll collects every value available from the channel.
func ReceiveAll(ch Channel) []int64 {
	return slices.Collect(ch.Receive())
}

// ReceiveAsString returns an iterator that yields runs of ASCII text from
// the channel. Each value outside the ASCII range ends a run, and is
// yielded after it as a non-nil value.
func ReceiveAsString(ch Channel) iter.Seq2[string, *int64] {
	return func(yield func(text string, value *int64) bool) {
		var text []byte
		for value := range ch.Receive() {
			if value >= 0 && value < 128 {
				text = append(text, byte(value))
				continue
			}
			if !yield(string(text), &value) {
				return
			}
			text = text[:0]
		}
		if len(text) > 0 {
			yield(string(text), nil)
		}
	}
}
