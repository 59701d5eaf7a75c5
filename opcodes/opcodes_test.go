package opcodes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringKnownAndUnknown(t *testing.T) {
	assert.Equal(t, "ADDITION", OP_ADDITION.String())
	assert.Equal(t, "UNKNOWN", Opcode(255).String())
}

func TestIsCompoundAssign(t *testing.T) {
	plain, ok := IsCompoundAssign(OP_VAR_MODULO_ASSIGN)
	assert.True(t, ok)
	assert.Equal(t, OP_MODULO, plain)

	_, ok = IsCompoundAssign(OP_ADDITION)
	assert.False(t, ok)
}
