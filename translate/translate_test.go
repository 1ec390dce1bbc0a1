package translate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrom(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("bad opcode add", From("bad opcode %v", "add"))
	assert.Equal("plain", From("plain"))
	assert.NotEqual("", Language().String())
}
