package scope

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GruelingPine185/Toy/literal"
)

func TestDeclareAndSet(t *testing.T) {
	s := New()
	require.NoError(t, s.Declare("x", literal.Type{Of: literal.KindInteger}))
	require.NoError(t, s.Set("x", literal.Int(5), false))

	v, err := s.Get("x")
	require.NoError(t, err)
	assert.Equal(t, int32(5), v.AsInteger())
}

func TestRedeclareSameFrameFails(t *testing.T) {
	s := New()
	require.NoError(t, s.Declare("x", literal.Type{Of: literal.KindInteger}))
	assert.ErrorIs(t, s.Declare("x", literal.Type{Of: literal.KindInteger}), ErrRedeclared)
}

func TestShadowingInnerFrameAllowed(t *testing.T) {
	outer := New()
	require.NoError(t, outer.Declare("x", literal.Type{Of: literal.KindInteger}))
	require.NoError(t, outer.Set("x", literal.Int(1), false))

	inner := Push(outer)
	require.NoError(t, inner.Declare("x", literal.Type{Of: literal.KindInteger}))
	require.NoError(t, inner.Set("x", literal.Int(2), false))

	v, err := inner.Get("x")
	require.NoError(t, err)
	assert.Equal(t, int32(2), v.AsInteger())

	back := Pop(inner)
	v, err = back.Get("x")
	require.NoError(t, err)
	assert.Equal(t, int32(1), v.AsInteger())
}

func TestSetUndeclaredFails(t *testing.T) {
	s := New()
	assert.ErrorIs(t, s.Set("missing", literal.Int(1), false), ErrUndeclared)
}

func TestSetTypeMismatchFails(t *testing.T) {
	s := New()
	require.NoError(t, s.Declare("x", literal.Type{Of: literal.KindInteger}))
	assert.ErrorIs(t, s.Set("x", literal.MustStr("nope"), false), ErrTypeMismatch)
}

func TestSetOnNullTypedBindingAcceptsAnyKind(t *testing.T) {
	s := New()
	require.NoError(t, s.Declare("x", literal.Type{Of: literal.KindNull}))
	require.NoError(t, s.Set("x", literal.Int(1), false))
	require.NoError(t, s.Set("x", literal.MustStr("now a string"), false))

	v, err := s.Get("x")
	require.NoError(t, err)
	assert.Equal(t, "now a string", v.AsString())
}

func TestConstViolation(t *testing.T) {
	s := New()
	require.NoError(t, s.Declare("x", literal.Type{Of: literal.KindInteger, Constant: true}))
	require.NoError(t, s.Set("x", literal.Int(1), true))
	assert.ErrorIs(t, s.Set("x", literal.Int(2), false), ErrConstViolation)
	require.NoError(t, s.Set("x", literal.Int(3), true))
}

func TestScopeNeutralityOfBlocks(t *testing.T) {
	root := New()
	before := root
	inner := Push(root)
	after := Pop(inner)
	assert.Same(t, before, after)
}
