package io

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ParseImage reads a comma separated program image. Whitespace around
// fields is ignored.
func ParseImage(input io.Reader) (image []int64, err error) {
	data, err := io.ReadAll(input)
	if err != nil {
		return
	}

	text := strings.TrimSpace(string(data))
	if len(text) == 0 {
		err = ErrImageEmpty
		return
	}

	fields := strings.Split(text, ",")
	image = make([]int64, len(fields))
	for n, field := range fields {
		field = strings.TrimSpace(field)
		image[n], err = strconv.ParseInt(field, 10, 64)
		if err != nil {
			err = &ErrImageValue{Index: n, Text: field}
			image = nil
			return
		}
	}

	return
}

// FormatImage writes a program image in the format read by ParseImage.
func FormatImage(output io.Writer, image []int64) (err error) {
	words := make([]string, len(image))
	for n, value := range image {
		words[n] = strconv.FormatInt(value, 10)
	}

	_, err = fmt.Fprintln(output, strings.Join(words, ","))
	return
}
