// Package svarint implements the SQLite variable-length integer encoding.
//
// A varint is 1 to 9 bytes, most significant group first.
// The first eight bytes carry seven bits each, with the high bit set on every byte but the last;
// a ninth byte, if present, carries a full eight bits.
package svarint

import (
	"math/bits"

	"golang.org/x/exp/constraints"
)

// MaxLen is the longest possible encoding.
const MaxLen = 9

// Length returns the number of bytes Put would write for x.
func Length[T constraints.Integer](x T) int {
	xl := 64 - bits.LeadingZeros64(uint64(x))
	if xl > 56 {
		return 9
	}
	if xl == 0 {
		return 1
	}
	return (xl + 6) / 7
}

// Put writes x to the start of buf, which must have room for Length(x) bytes,
// and returns the number of bytes written.
func Put[T constraints.Integer](buf []byte, x T) int {
	v := uint64(x)
	n := Length(x)
	if n == 9 {
		buf[8] = byte(v)
		v >>= 8
		for i := 7; i >= 0; i-- {
			buf[i] = byte(v) | 0x80
			v >>= 7
		}
		return 9
	}

	buf[n-1] = byte(v) &^ 0x80
	v >>= 7
	for i := n - 2; i >= 0; i-- {
		buf[i] = byte(v) | 0x80
		v >>= 7
	}
	return n
}

// Append appends the encoding of x to buf.
func Append[T constraints.Integer](buf []byte, x T) []byte {
	var tmp [MaxLen]byte
	n := Put(tmp[:], x)
	return append(buf, tmp[:n]...)
}

// Get decodes a varint from the start of buf,
// returning the value and the number of bytes consumed.
// If buf ends before the varint does, Get returns n == 0.
func Get(buf []byte) (v uint64, n int) {
	for i := 0; i < 8; i++ {
		if i >= len(buf) {
			return 0, 0
		}
		b := buf[i]
		v = v<<7 | uint64(b&0x7f)
		if b&0x80 == 0 {
			return v, i + 1
		}
	}
	if len(buf) < 9 {
		return 0, 0
	}
	return v<<8 | uint64(buf[8]), 9
}

// Get32 is Get for values expected to fit in 32 bits, such as serial types and header lengths.
// Larger values are truncated.
func Get32(buf []byte) (v uint32, n int) {
	if len(buf) > 0 && buf[0] < 0x80 {
		return uint32(buf[0]), 1
	}
	v64, n := Get(buf)
	return uint32(v64), n
}
