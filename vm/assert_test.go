package vm

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/GruelingPine185/Toy/opcodes"
)

func TestAssertPass(t *testing.T) {
	b := newImageBuilder()
	cond := b.pushBool(true)
	msg := b.pushString("boom")
	b.op(opcodes.OP_LITERAL).idx(cond)
	b.op(opcodes.OP_LITERAL).idx(msg)
	b.op(opcodes.OP_ASSERT)
	b.op(opcodes.OP_EOF)

	cfg := NewConfig()
	var failures []string
	cfg.AssertFail = func(message string) { failures = append(failures, message) }

	err := RunInterpreter(b.build(), cfg)
	require.NoError(t, err)
	require.Empty(t, failures)
}

func TestAssertFail(t *testing.T) {
	b := newImageBuilder()
	cond := b.pushBool(false)
	msg := b.pushString("boom")
	b.op(opcodes.OP_LITERAL).idx(cond)
	b.op(opcodes.OP_LITERAL).idx(msg)
	b.op(opcodes.OP_ASSERT)
	b.op(opcodes.OP_EOF)

	cfg := NewConfig()
	var failures []string
	cfg.AssertFail = func(message string) { failures = append(failures, message) }

	err := RunInterpreter(b.build(), cfg)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrAssertionFailed)
	require.Equal(t, []string{"boom"}, failures)
}
