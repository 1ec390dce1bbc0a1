package cpu

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueue(t *testing.T) {
	assert := assert.New(t)

	q := &Queue{}
	assert.True(q.Empty())

	_, ok := q.Peek()
	assert.False(ok)
	_, ok = q.Pop()
	assert.False(ok)

	q.Push(1, 2)
	q.Push(3)
	assert.Equal(3, q.Len())

	value, ok := q.Peek()
	assert.True(ok)
	assert.Equal(int64(1), value)
	assert.Equal(3, q.Len())

	value, ok = q.Pop()
	assert.True(ok)
	assert.Equal(int64(1), value)

	assert.Equal([]int64{2, 3}, slices.Collect(q.All()))

	assert.Equal([]int64{2, 3}, q.Drain())
	assert.True(q.Empty())
}

func TestQueueRelease(t *testing.T) {
	assert := assert.New(t)

	q := &Queue{}
	for n := range 100 {
		q.Push(int64(n), int64(n+1))
		value, ok := q.Pop()
		assert.True(ok)
		assert.Equal(int64(n), value)
		value, ok = q.Pop()
		assert.True(ok)
		assert.Equal(int64(n+1), value)

		// An empty queue holds no consumed values.
		assert.Nil(q.Data)
	}

	q.Push(1, 2, 3)
	q.Pop()
	assert.Equal(2, q.Len())
}

func TestQueueClone(t *testing.T) {
	assert := assert.New(t)

	q := &Queue{}
	q.Push(5, 6)

	c := q.Clone()
	c.Push(7)
	q.Data[0] = 50

	assert.Equal([]int64{50, 6}, q.Data)
	assert.Equal([]int64{5, 6, 7}, c.Data)

	q.Reset()
	assert.True(q.Empty())
	assert.Equal(3, c.Len())
}
