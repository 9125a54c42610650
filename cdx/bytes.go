package cdx

import (
	"errors"
	"math"
)

// Reading bytes from a document's binary representation. CDX is
// little-endian throughout.

var errBufferBounds = errors.New("internal inconsistency: buffer bounds error")

func u16(b []byte) uint16 {
	_ = b[1] // Bounds check hint to compiler
	return uint16(b[0]) | uint16(b[1])<<8
}

func u32(b []byte) uint32 {
	_ = b[3] // Bounds check hint to compiler
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

func u64(b []byte) uint64 {
	_ = b[7] // Bounds check hint to compiler
	return uint64(u32(b)) | uint64(u32(b[4:]))<<32
}

func putU16(b []byte, v uint16) {
	_ = b[1]
	b[0] = byte(v)
	b[1] = byte(v >> 8)
}

func putU32(b []byte, v uint32) {
	_ = b[3]
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}

func u16Bytes(v uint16) []byte {
	return []byte{byte(v), byte(v >> 8)}
}

func u32Bytes(v uint32) []byte {
	return []byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)}
}

func f64Bytes(v float64) []byte {
	bits := math.Float64bits(v)
	b := make([]byte, 8)
	putU32(b, uint32(bits))
	putU32(b[4:], uint32(bits>>32))
	return b
}

// binarySegm is a segment of byte data. We use it throughout this package
// to navigate the document's binary data.
type binarySegm []byte

func (b binarySegm) Size() int {
	return len(b)
}

// view returns n bytes at the given offset.
// The byte segment returned is a sub-slice of b.
func (b binarySegm) view(offset, n int) (binarySegm, error) {
	if offset < 0 || n < 0 || offset+n > len(b) {
		return nil, errBufferBounds
	}
	return b[offset : offset+n], nil
}

// u16 returns the uint16 in b at the relative offset i.
func (b binarySegm) u16(i int) (uint16, error) {
	buf, err := b.view(i, 2)
	if err != nil {
		return 0, err
	}
	return u16(buf), nil
}

// u32 returns the uint32 in b at the relative offset i.
func (b binarySegm) u32(i int) (uint32, error) {
	buf, err := b.view(i, 4)
	if err != nil {
		return 0, err
	}
	return u32(buf), nil
}

// cursor walks a byte segment front to back. The current position doubles
// as the byte offset reported in decode errors.
type cursor struct {
	data binarySegm
	pos  int
}

func (c *cursor) remaining() int {
	return len(c.data) - c.pos
}

func (c *cursor) atEnd() bool {
	return c.pos >= len(c.data)
}

func (c *cursor) take(n int) (binarySegm, error) {
	seg, err := c.data.view(c.pos, n)
	if err != nil {
		return nil, err
	}
	c.pos += n
	return seg, nil
}

func (c *cursor) u16() (uint16, error) {
	v, err := c.data.u16(c.pos)
	if err != nil {
		return 0, err
	}
	c.pos += 2
	return v, nil
}

func (c *cursor) u32() (uint32, error) {
	v, err := c.data.u32(c.pos)
	if err != nil {
		return 0, err
	}
	c.pos += 4
	return v, nil
}

// peekU16 reads without advancing the cursor.
func (c *cursor) peekU16() (uint16, error) {
	return c.data.u16(c.pos)
}
