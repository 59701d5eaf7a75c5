package vm

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/GruelingPine185/Toy/literal"
	"github.com/GruelingPine185/Toy/opcodes"
)

// Wire tags mirroring the image package's private literal tags. Duplicated
// here because these tests hand-assemble bytecode images directly — there
// is no compiler in this repository to produce them instead.
const (
	wireTagNull byte = iota
	wireTagBoolean
	wireTagInteger
	wireTagFloat
	wireTagString
	wireTagArray
	wireTagDictionary
	wireTagFunction
	wireTagIdentifier
	wireTagType
)

// imageBuilder assembles a minimal valid Toy bytecode image: header,
// literal section, (empty or populated) function section, code section.
type imageBuilder struct {
	literals  bytes.Buffer
	litCount  int
	funcBodies [][]byte
	code      bytes.Buffer
}

func newImageBuilder() *imageBuilder { return &imageBuilder{} }

func (b *imageBuilder) next() int {
	idx := b.litCount
	b.litCount++
	return idx
}

func putU16(buf *bytes.Buffer, v uint16) {
	var tmp [2]byte
	binary.LittleEndian.PutUint16(tmp[:], v)
	buf.Write(tmp[:])
}

func (b *imageBuilder) pushNull() int {
	b.literals.WriteByte(wireTagNull)
	return b.next()
}

func (b *imageBuilder) pushBool(v bool) int {
	b.literals.WriteByte(wireTagBoolean)
	if v {
		b.literals.WriteByte(1)
	} else {
		b.literals.WriteByte(0)
	}
	return b.next()
}

func (b *imageBuilder) pushInt(n int32) int {
	b.literals.WriteByte(wireTagInteger)
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], uint32(n))
	b.literals.Write(tmp[:])
	return b.next()
}

func (b *imageBuilder) pushFloat(f float32) int {
	b.literals.WriteByte(wireTagFloat)
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], math.Float32bits(f))
	b.literals.Write(tmp[:])
	return b.next()
}

func (b *imageBuilder) pushString(s string) int {
	b.literals.WriteByte(wireTagString)
	b.literals.WriteString(s)
	b.literals.WriteByte(0)
	return b.next()
}

func (b *imageBuilder) pushIdentifier(name string) int {
	b.literals.WriteByte(wireTagIdentifier)
	b.literals.WriteString(name)
	b.literals.WriteByte(0)
	return b.next()
}

func (b *imageBuilder) pushType(kind literal.Kind, constant bool) int {
	b.literals.WriteByte(wireTagType)
	b.literals.WriteByte(byte(kind))
	if constant {
		b.literals.WriteByte(1)
	} else {
		b.literals.WriteByte(0)
	}
	return b.next()
}

func (b *imageBuilder) pushArray(elems []int) int {
	b.literals.WriteByte(wireTagArray)
	putU16(&b.literals, uint16(len(elems)))
	for _, e := range elems {
		putU16(&b.literals, uint16(e))
	}
	return b.next()
}

// pushFunction reserves a literal-pool slot for a function and queues its
// body for the function section. body must already end in OP_FN_END.
func (b *imageBuilder) pushFunction(body []byte) int {
	b.literals.WriteByte(wireTagFunction)
	putU16(&b.literals, 0) // placeholder index, unused by image.Reader
	b.funcBodies = append(b.funcBodies, body)
	return b.next()
}

func (b *imageBuilder) op(o opcodes.Opcode) *imageBuilder {
	b.code.WriteByte(byte(o))
	return b
}

func (b *imageBuilder) u8(v byte) *imageBuilder {
	b.code.WriteByte(v)
	return b
}

func (b *imageBuilder) idx(v int) *imageBuilder {
	b.code.WriteByte(byte(v))
	return b
}

func (b *imageBuilder) u16(v int) *imageBuilder {
	putU16(&b.code, uint16(v))
	return b
}

func (b *imageBuilder) build() []byte {
	var out bytes.Buffer

	out.WriteByte(ImageVersion.Major)
	out.WriteByte(ImageVersion.Minor)
	out.WriteByte(ImageVersion.Patch)
	out.WriteString("test")
	out.WriteByte(0)
	out.WriteByte(0xFF)

	putU16(&out, uint16(b.litCount))
	out.Write(b.literals.Bytes())
	out.WriteByte(0xFF)

	putU16(&out, uint16(len(b.funcBodies)))
	putU16(&out, 0) // functionSize, informational only
	for _, body := range b.funcBodies {
		putU16(&out, uint16(len(body)))
		out.Write(body)
	}
	out.WriteByte(0xFF)

	out.Write(b.code.Bytes())
	return out.Bytes()
}

// fnBody assembles a function body: param-descriptor pool index,
// return-descriptor pool index, then opcodes, terminated with OP_FN_END.
func fnBody(paramsIdx, returnsIdx int, code func(*imageBuilder)) []byte {
	b := newImageBuilder()
	b.u16(paramsIdx)
	b.u16(returnsIdx)
	if code != nil {
		code(b)
	}
	b.op(opcodes.OP_FN_END)
	return b.code.Bytes()
}
