package literal

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsTruthy(t *testing.T) {
	assert.False(t, Null().IsTruthy())
	assert.False(t, Bool(false).IsTruthy())
	assert.True(t, Bool(true).IsTruthy())
	assert.True(t, Int(0).IsTruthy())
	assert.True(t, MustStr("").IsTruthy())
}

func TestEqualReflexive(t *testing.T) {
	values := []Value{
		Null(), Bool(true), Int(5), Float(1.5), MustStr("hi"),
		Ident("x"), TypeVal(Type{Of: KindInteger}),
	}
	for _, v := range values {
		assert.True(t, Equal(v, v))
	}
}

func TestEqualStringContent(t *testing.T) {
	assert.True(t, Equal(MustStr("foo"), MustStr("foo")))
	assert.False(t, Equal(MustStr("foo"), MustStr("bar")))
}

func TestEqualNumericWidening(t *testing.T) {
	assert.True(t, Equal(Int(2), Float(2.0)))
	assert.False(t, Equal(Int(2), Float(2.5)))
}

func TestStringOverflow(t *testing.T) {
	_, err := Str(strings.Repeat("a", MaxStringLength+1))
	require.Error(t, err)

	_, err = Str(strings.Repeat("a", MaxStringLength))
	require.NoError(t, err)
}

func TestArrayCopyIsDeep(t *testing.T) {
	inner := NewArray(1)
	inner.Push(Int(1))

	outer := NewArray(1)
	outer.Push(ArrayVal(inner))

	cloned := Copy(ArrayVal(outer)).AsArray()
	cloned.At(0).AsArray().Set(0, Int(99))

	assert.Equal(t, int32(1), outer.At(0).AsArray().At(0).AsInteger())
}

func TestDictSetGet(t *testing.T) {
	d := NewDict()
	d.Set(MustStr("a"), Int(1))
	d.Set(MustStr("b"), Int(2))

	v, ok := d.Get(MustStr("a"))
	require.True(t, ok)
	assert.Equal(t, int32(1), v.AsInteger())

	_, ok = d.Get(MustStr("missing"))
	assert.False(t, ok)
}

func TestDictEqualIgnoresInsertionOrder(t *testing.T) {
	a := NewDict()
	a.Set(MustStr("a"), Int(1))
	a.Set(MustStr("b"), Int(2))

	b := NewDict()
	b.Set(MustStr("b"), Int(2))
	b.Set(MustStr("a"), Int(1))

	assert.True(t, Equal(DictVal(a), DictVal(b)))
}

func TestRenderPrimitives(t *testing.T) {
	assert.Equal(t, "null", Render(Null()))
	assert.Equal(t, "true", Render(Bool(true)))
	assert.Equal(t, "5", Render(Int(5)))
	assert.Equal(t, "foobar", Render(MustStr("foobar")))
}
