package io

import (
	"errors"

	"github.com/ezrec/intcode/translate"
)

var f = translate.From

var (
	// Channel errors
	ErrChannelFull     = errors.New(f("channel full"))
	ErrChannelReadOnly = errors.New(f("channel read only"))

	// Image errors
	ErrImageEmpty  = errors.New(f("image empty"))
	ErrImageSyntax = errors.New(f("image syntax"))
)

// ErrImageValue is an image field that is not an integer.
type ErrImageValue struct {
	Index int    // Index of the field.
	Text  string // Text of the field.
}

func (err *ErrImageValue) Error() string {
	return f("image field %d '%v' is not an integer", err.Index, err.Text)
}

func (err *ErrImageValue) Is(target error) bool {
	return target == ErrImageSyntax
}
