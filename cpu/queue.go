package cpu

import (
	"iter"
	"slices"
)

// Queue is a first-in first-out queue of values.
type Queue struct {
	Data []int64
}

// Push appends values to the back of the queue.
func (q *Queue) Push(values ...int64) {
	q.Data = append(q.Data, values...)
}

// Pop removes the value at the front of the queue.
func (q *Queue) Pop() (value int64, ok bool) {
	value, ok = q.Peek()
	if !ok {
		return
	}

	q.Data = q.Data[1:]
	if len(q.Data) == 0 {
		// Release the consumed prefix.
		q.Data = nil
	}
	return
}

// Peek returns the value at the front of the queue.
func (q *Queue) Peek() (value int64, ok bool) {
	if q.Empty() {
		return
	}

	return q.Data[0], true
}

func (q *Queue) Empty() bool {
	return len(q.Data) == 0
}

func (q *Queue) Len() int {
	return len(q.Data)
}

// Drain removes and returns all queued values.
func (q *Queue) Drain() (values []int64) {
	values = q.Data
	q.Data = nil
	return
}

// All returns an iterator over the queued values, without removing them.
func (q *Queue) All() iter.Seq[int64] {
	return slices.Values(q.Data)
}

// Clone returns an independent copy of the queue.
func (q *Queue) Clone() Queue {
	return Queue{Data: slices.Clone(q.Data)}
}

func (q *Queue) Reset() {
	q.Data = nil
}
