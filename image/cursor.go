package image

import (
	"encoding/binary"
	"errors"
	"math"
)

var errTruncated = errors.New("image: unexpected end of bytecode")

// cursor is a small forward-only byte reader over an image buffer, reading
// the little-endian unaligned fields the Toy binary format uses.
type cursor struct {
	buf       []byte
	pos       int
	lastBuild string
}

func (c *cursor) u8() (byte, error) {
	if c.pos+1 > len(c.buf) {
		return 0, errTruncated
	}
	b := c.buf[c.pos]
	c.pos++
	return b, nil
}

func (c *cursor) u16() (uint16, error) {
	if c.pos+2 > len(c.buf) {
		return 0, errTruncated
	}
	v := binary.LittleEndian.Uint16(c.buf[c.pos : c.pos+2])
	c.pos += 2
	return v, nil
}

func (c *cursor) i32() (int32, error) {
	if c.pos+4 > len(c.buf) {
		return 0, errTruncated
	}
	v := binary.LittleEndian.Uint32(c.buf[c.pos : c.pos+4])
	c.pos += 4
	return int32(v), nil
}

func (c *cursor) f32() (float32, error) {
	if c.pos+4 > len(c.buf) {
		return 0, errTruncated
	}
	v := binary.LittleEndian.Uint32(c.buf[c.pos : c.pos+4])
	c.pos += 4
	return math.Float32frombits(v), nil
}

func (c *cursor) bytes(n int) ([]byte, error) {
	if n < 0 || c.pos+n > len(c.buf) {
		return nil, errTruncated
	}
	b := c.buf[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

// cstring reads a NUL-terminated UTF-8 string.
func (c *cursor) cstring() (string, error) {
	start := c.pos
	for c.pos < len(c.buf) {
		if c.buf[c.pos] == 0 {
			s := string(c.buf[start:c.pos])
			c.pos++
			return s, nil
		}
		c.pos++
	}
	return "", errTruncated
}
