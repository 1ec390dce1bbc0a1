package cpu

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecode(t *testing.T) {
	assert := assert.New(t)

	P := MODE_POSITION
	I := MODE_IMMEDIATE
	R := MODE_RELATIVE

	table := [](struct {
		word  int64
		op    CodeOp
		modes []CodeMode
	}){
		{1002, OP_MUL, []CodeMode{P, I, P}},
		{1, OP_ADD, []CodeMode{P, P, P}},
		{2, OP_MUL, []CodeMode{P, P, P}},
		{3, OP_IN, []CodeMode{P}},
		{203, OP_IN, []CodeMode{R}},
		{104, OP_OUT, []CodeMode{I}},
		{1105, OP_JT, []CodeMode{I, I}},
		{6, OP_JF, []CodeMode{P, P}},
		{1107, OP_LT, []CodeMode{I, I, P}},
		{21108, OP_EQ, []CodeMode{I, I, R}},
		{109, OP_ARB, []CodeMode{I}},
		{99, OP_HLT, []CodeMode{}},
		{10099, OP_HLT, []CodeMode{}},
		{11104, OP_OUT, []CodeMode{I}},
	}

	for _, entry := range table {
		inst, err := Decode(entry.word)
		assert.NoError(err, entry.word)
		assert.Equal(entry.word, inst.Word)
		assert.Equal(entry.op, inst.Op, entry.word)
		assert.Equal(entry.modes, inst.Modes, entry.word)
		assert.Equal(int64(1+len(entry.modes)), inst.Len())
	}
}

func TestDecodeInvalid(t *testing.T) {
	assert := assert.New(t)

	for _, word := range []int64{0, 10, 98, 100, 1000, -1, -1002} {
		_, err := Decode(word)
		assert.ErrorIs(err, ErrOpcodeInvalid, word)

		var eo ErrOpcode
		assert.True(errors.As(err, &eo), word)
		assert.Equal(word, int64(eo))
	}

	_, err := Decode(301)
	assert.ErrorIs(err, ErrOpcodeInvalid)
	var em ErrMode
	assert.True(errors.As(err, &em))
	assert.Equal(ErrMode{Word: 301, Param: 1}, em)

	_, err = Decode(91001)
	assert.True(errors.As(err, &em))
	assert.Equal(3, em.Param)
}

func TestEncode(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(int64(1002), Encode(OP_MUL, MODE_POSITION, MODE_IMMEDIATE, MODE_POSITION))
	assert.Equal(int64(21101), Encode(OP_ADD, MODE_IMMEDIATE, MODE_IMMEDIATE, MODE_RELATIVE))
	assert.Equal(int64(99), Encode(OP_HLT))
	assert.Equal(int64(204), Encode(OP_OUT, MODE_RELATIVE))
}

func TestArity(t *testing.T) {
	assert := assert.New(t)

	table := map[CodeOp]int{
		OP_ADD: 3, OP_MUL: 3, OP_IN: 1, OP_OUT: 1, OP_JT: 2,
		OP_JF: 2, OP_LT: 3, OP_EQ: 3, OP_ARB: 1, OP_HLT: 0,
	}
	for op, arity := range table {
		assert.True(op.Valid(), op.String())
		assert.Equal(arity, op.Arity(), op.String())
	}

	assert.False(CodeOp(0).Valid())
	assert.False(CodeOp(10).Valid())

	assert.True(OP_ADD.Writes(2))
	assert.False(OP_ADD.Writes(0))
	assert.True(OP_IN.Writes(0))
	assert.False(OP_OUT.Writes(0))
	assert.False(OP_JT.Writes(1))
}

func TestInstructionString(t *testing.T) {
	assert := assert.New(t)

	inst, err := Decode(1002)
	assert.NoError(err)
	assert.Equal("mul.position.immediate.position", inst.String())
	assert.Equal("mul 4 #3 4", inst.Format(4, 3, 4))
	assert.Equal("mul 4 ? ?", inst.Format(4))

	inst, err = Decode(204)
	assert.NoError(err)
	assert.Equal("out ~-1", inst.Format(-1))

	inst, err = Decode(99)
	assert.NoError(err)
	assert.Equal("hlt", inst.String())

	assert.Equal("CodeOp(42)", CodeOp(42).String())
	assert.Equal("CodeMode(7)", CodeMode(7).String())
}

func FuzzDecode(f *testing.F) {
	for _, word := range []int64{1, 2, 99, 1002, 21101, 109, 204, 0, -5, 301} {
		f.Add(word)
	}

	f.Fuzz(func(t *testing.T, word int64) {
		assert := assert.New(t)

		inst, err := Decode(word)
		if err != nil {
			assert.ErrorIs(err, ErrOpcodeInvalid)
			return
		}

		assert.True(inst.Op.Valid())
		assert.Equal(inst.Op.Arity(), len(inst.Modes))

		scale := int64(100)
		for range inst.Modes {
			scale *= 10
		}
		assert.Equal(word%scale, Encode(inst.Op, inst.Modes...))
	})
}
