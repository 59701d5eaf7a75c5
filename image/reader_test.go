package image

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/GruelingPine185/Toy/literal"
	"github.com/GruelingPine185/Toy/opcodes"
)

func putU16(buf *bytes.Buffer, v uint16) {
	var tmp [2]byte
	binary.LittleEndian.PutUint16(tmp[:], v)
	buf.Write(tmp[:])
}

// buildImage assembles a minimal valid image: header, a literal section
// containing one integer and one function (back-patched from fnBody), an
// empty code section.
func buildImage(t *testing.T, version Version, fnBody []byte) []byte {
	t.Helper()

	var literals bytes.Buffer
	literals.WriteByte(tagInteger)
	var n [4]byte
	binary.LittleEndian.PutUint32(n[:], 7)
	literals.Write(n[:])

	literals.WriteByte(tagFunction)
	putU16(&literals, 0)

	var out bytes.Buffer
	out.WriteByte(version.Major)
	out.WriteByte(version.Minor)
	out.WriteByte(version.Patch)
	out.WriteString("test")
	out.WriteByte(0)
	out.WriteByte(SectionEnd)

	putU16(&out, 2) // literal count
	out.Write(literals.Bytes())
	out.WriteByte(SectionEnd)

	putU16(&out, 1) // function count
	putU16(&out, 0) // function size, informational
	putU16(&out, uint16(len(fnBody)))
	out.Write(fnBody)
	out.WriteByte(SectionEnd)

	out.WriteByte(byte(opcodes.OP_EOF))
	return out.Bytes()
}

func TestLoadRoundTrip(t *testing.T) {
	version := Version{Major: 0, Minor: 1, Patch: 0}
	body := []byte{byte(opcodes.OP_FN_END)}

	img := buildImage(t, version, body)
	r := NewReader(version)
	result, err := r.Load(img)
	require.NoError(t, err)

	require.Equal(t, 2, result.Pool.Len())
	require.True(t, result.Pool.At(0).IsInteger())
	require.Equal(t, int32(7), result.Pool.At(0).AsInteger())
	require.True(t, result.Pool.At(1).IsFunction())
	require.Equal(t, body, result.Pool.At(1).AsFunction().Bytecode)
}

func TestLoadVersionMismatch(t *testing.T) {
	body := []byte{byte(opcodes.OP_FN_END)}
	img := buildImage(t, Version{Major: 0, Minor: 1, Patch: 0}, body)

	r := NewReader(Version{Major: 0, Minor: 2, Patch: 0})
	_, err := r.Load(img)
	require.Error(t, err)
}

func TestLoadFunctionMissingFnEnd(t *testing.T) {
	version := Version{Major: 0, Minor: 1, Patch: 0}
	img := buildImage(t, version, []byte{byte(opcodes.OP_PRINT)})

	r := NewReader(version)
	_, err := r.Load(img)
	require.Error(t, err)
}

func TestOnLiteralLoadedHook(t *testing.T) {
	version := Version{Major: 0, Minor: 1, Patch: 0}
	body := []byte{byte(opcodes.OP_FN_END)}
	img := buildImage(t, version, body)

	r := NewReader(version)
	var seen []literal.Value
	r.OnLiteralLoaded = func(index int, v literal.Value) { seen = append(seen, v) }

	_, err := r.Load(img)
	require.NoError(t, err)
	require.Len(t, seen, 2)
}
