package value

import (
	"encoding/binary"
	"math"
)

// Serial types 0 through 11 have fixed meanings;
// 12 and up encode blobs (even) and text (odd) along with their length.
const (
	SerialNull    = 0
	SerialInt8    = 1
	SerialInt16   = 2
	SerialInt24   = 3
	SerialInt32   = 4
	SerialInt48   = 5
	SerialInt64   = 6
	SerialFloat64 = 7
	SerialZero    = 8
	SerialOne     = 9
	SerialBlob    = 12
	SerialText    = 13
)

// MinConstIntFormat is the first file format in which SerialZero and SerialOne may be written.
const MinConstIntFormat = 4

const maxInt48 = 1<<47 - 1

// MaxLength is the longest text or blob whose length a serial type can describe.
const MaxLength = (math.MaxUint32 - SerialText) / 2

// SerialType returns the serial type v would be stored as under file format version format.
// Integers get the narrowest width that holds them;
// text and blob lengths are taken from the bytes v holds, in its own encoding.
func (v Value) SerialType(format int) uint32 {
	switch v.typ {
	case TypeInteger:
		u := uint64(v.i)
		if v.i < 0 {
			u = uint64(^v.i)
		}
		switch {
		case u <= 0x7f:
			if format >= MinConstIntFormat && (v.i == 0 || v.i == 1) {
				return SerialZero + uint32(v.i)
			}
			return SerialInt8
		case u <= 0x7fff:
			return SerialInt16
		case u <= 0x7f_ffff:
			return SerialInt24
		case u <= 0x7fff_ffff:
			return SerialInt32
		case u <= maxInt48:
			return SerialInt48
		default:
			return SerialInt64
		}
	case TypeReal:
		return SerialFloat64
	case TypeText:
		return uint32(len(v.b))*2 + SerialText
	case TypeBlob:
		return uint32(len(v.b))*2 + SerialBlob
	default:
		return SerialNull
	}
}

// SerialTypeLen returns the payload length of serial type t.
func SerialTypeLen(t uint32) int {
	switch t {
	case SerialInt8:
		return 1
	case SerialInt16:
		return 2
	case SerialInt24:
		return 3
	case SerialInt32:
		return 4
	case SerialInt48:
		return 6
	case SerialInt64, SerialFloat64:
		return 8
	}
	if t >= SerialBlob {
		return int((t - SerialBlob) / 2)
	}
	return 0
}

// SerialPut writes the payload for v.SerialType(format) to buf,
// which must be large enough, and returns the number of bytes written.
func (v Value) SerialPut(buf []byte, format int) int {
	t := v.SerialType(format)
	switch {
	case t == SerialFloat64:
		binary.BigEndian.PutUint64(buf, math.Float64bits(v.r))
		return 8
	case t >= SerialBlob:
		return copy(buf, v.b)
	}

	n := SerialTypeLen(t)
	x := uint64(v.i)
	for i := n - 1; i >= 0; i-- {
		buf[i] = byte(x)
		x >>= 8
	}
	return n
}

// AppendSerial appends the payload for v.SerialType(format) to buf.
func (v Value) AppendSerial(buf []byte, format int) []byte {
	n := SerialTypeLen(v.SerialType(format))
	buf = append(buf, make([]byte, n)...)
	v.SerialPut(buf[len(buf)-n:], format)
	return buf
}

// SerialGet decodes a value of serial type t from the start of buf.
// Text is tagged with encoding enc.
// The returned Value does not refer to buf.
func SerialGet(buf []byte, t uint32, enc Encoding) (Value, error) {
	n := SerialTypeLen(t)
	if len(buf) < n {
		return Null(), Corruptf(-1, "serial type %d needs %d bytes, have %d", t, n, len(buf))
	}

	switch t {
	case SerialNull, 10, 11:
		return Null(), nil
	case SerialInt8:
		return Int(int64(int8(buf[0]))), nil
	case SerialInt16:
		return Int(int64(int16(binary.BigEndian.Uint16(buf)))), nil
	case SerialInt24:
		return Int(int64(int32(uint32(buf[0])<<24|uint32(buf[1])<<16|uint32(buf[2])<<8) >> 8)), nil
	case SerialInt32:
		return Int(int64(int32(binary.BigEndian.Uint32(buf)))), nil
	case SerialInt48:
		x := uint64(buf[0])<<56 | uint64(buf[1])<<48 | uint64(buf[2])<<40 |
			uint64(buf[3])<<32 | uint64(buf[4])<<24 | uint64(buf[5])<<16
		return Int(int64(x) >> 16), nil
	case SerialInt64:
		return Int(int64(binary.BigEndian.Uint64(buf))), nil
	case SerialFloat64:
		return Float(math.Float64frombits(binary.BigEndian.Uint64(buf))), nil
	case SerialZero:
		return Int(0), nil
	case SerialOne:
		return Int(1), nil
	}

	b := make([]byte, n)
	copy(b, buf)
	if t%2 == 1 {
		return TextBytes(b, enc), nil
	}
	return Blob(b), nil
}
