package vm

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/GruelingPine185/Toy/opcodes"
)

func capturingConfig() (*Config, *[]string) {
	cfg := NewConfig()
	printed := []string{}
	cfg.Print = func(line string) { printed = append(printed, line) }
	return cfg, &printed
}

func TestAddition(t *testing.T) {
	b := newImageBuilder()
	two := b.pushInt(2)
	three := b.pushInt(3)
	b.op(opcodes.OP_LITERAL).idx(two)
	b.op(opcodes.OP_LITERAL).idx(three)
	b.op(opcodes.OP_ADDITION)
	b.op(opcodes.OP_PRINT)
	b.op(opcodes.OP_EOF)

	cfg, printed := capturingConfig()
	err := RunInterpreter(b.build(), cfg)
	require.NoError(t, err)
	require.Equal(t, []string{"5"}, *printed)
}

func TestStringConcat(t *testing.T) {
	b := newImageBuilder()
	foo := b.pushString("foo")
	bar := b.pushString("bar")
	b.op(opcodes.OP_LITERAL).idx(foo)
	b.op(opcodes.OP_LITERAL).idx(bar)
	b.op(opcodes.OP_ADDITION)
	b.op(opcodes.OP_PRINT)
	b.op(opcodes.OP_EOF)

	cfg, printed := capturingConfig()
	err := RunInterpreter(b.build(), cfg)
	require.NoError(t, err)
	require.Equal(t, []string{"foobar"}, *printed)
}

func TestStringOverflow(t *testing.T) {
	big := make([]byte, 3000)
	for i := range big {
		big[i] = 'x'
	}
	longString := string(big)

	b := newImageBuilder()
	a := b.pushString(longString)
	c := b.pushString(longString)
	b.op(opcodes.OP_LITERAL).idx(a)
	b.op(opcodes.OP_LITERAL).idx(c)
	b.op(opcodes.OP_ADDITION)
	b.op(opcodes.OP_PRINT)
	b.op(opcodes.OP_EOF)

	cfg, printed := capturingConfig()
	err := RunInterpreter(b.build(), cfg)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrStringOverflow)
	require.Empty(t, *printed)
}

func TestDivideByZero(t *testing.T) {
	b := newImageBuilder()
	one := b.pushInt(1)
	zero := b.pushInt(0)
	b.op(opcodes.OP_LITERAL).idx(one)
	b.op(opcodes.OP_LITERAL).idx(zero)
	b.op(opcodes.OP_DIVISION)
	b.op(opcodes.OP_PRINT)
	b.op(opcodes.OP_EOF)

	cfg, printed := capturingConfig()
	err := RunInterpreter(b.build(), cfg)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrDivideByZero)
	require.Empty(t, *printed)
}

func TestFloatModuloRejected(t *testing.T) {
	b := newImageBuilder()
	a := b.pushFloat(1.5)
	c := b.pushFloat(2.0)
	b.op(opcodes.OP_LITERAL).idx(a)
	b.op(opcodes.OP_LITERAL).idx(c)
	b.op(opcodes.OP_MODULO)
	b.op(opcodes.OP_EOF)

	cfg, _ := capturingConfig()
	err := RunInterpreter(b.build(), cfg)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrBadArithmetic)
}
