package value

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerialTypeIntegers(t *testing.T) {
	cases := []struct {
		i      int64
		format int
		want   uint32
	}{
		{0, 4, SerialZero},
		{1, 4, SerialOne},
		{0, 1, SerialInt8},
		{1, 3, SerialInt8},
		{-1, 4, SerialInt8},
		{127, 4, SerialInt8},
		{-128, 4, SerialInt8},
		{128, 4, SerialInt16},
		{-129, 4, SerialInt16},
		{32767, 4, SerialInt16},
		{32768, 4, SerialInt24},
		{8388607, 4, SerialInt24},
		{8388608, 4, SerialInt32},
		{2147483647, 4, SerialInt32},
		{2147483648, 4, SerialInt48},
		{1<<47 - 1, 4, SerialInt48},
		{1 << 47, 4, SerialInt64},
		{math.MinInt64, 4, SerialInt64},
		{math.MaxInt64, 4, SerialInt64},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Int(c.i).SerialType(c.format), "%d under format %d", c.i, c.format)
	}
}

func TestSerialTypeOthers(t *testing.T) {
	assert.Equal(t, uint32(0), Null().SerialType(4))
	assert.Equal(t, uint32(7), Float(0.5).SerialType(4))
	assert.Equal(t, uint32(13), Text("").SerialType(4))
	assert.Equal(t, uint32(17), Text("hi").SerialType(4))
	assert.Equal(t, uint32(12), Blob(nil).SerialType(4))
	assert.Equal(t, uint32(18), Blob([]byte{1, 2, 3}).SerialType(4))
}

func TestSerialTypeLen(t *testing.T) {
	want := map[uint32]int{0: 0, 1: 1, 2: 2, 3: 3, 4: 4, 5: 6, 6: 8, 7: 8, 8: 0, 9: 0, 10: 0, 11: 0, 12: 0, 13: 0, 14: 1, 15: 1, 200: 94}
	for st, n := range want {
		assert.Equal(t, n, SerialTypeLen(st), "serial type %d", st)
	}
}

func TestSerialRoundTrip(t *testing.T) {
	ints := []int64{-1, 0, 1, 2, 127, 128, 32767, 32768, 8388607, 8388608,
		2147483647, 2147483648, -2147483649, 1<<47 - 1, -(1 << 47), math.MinInt64, math.MaxInt64}
	var vals []Value
	for _, i := range ints {
		vals = append(vals, Int(i))
	}
	vals = append(vals, Null(), Float(3.5), Float(-0.0), Float(math.Inf(1)), Text("héllo"), Blob([]byte{0, 1, 2}), Blob(nil))

	for _, format := range []int{1, 4} {
		for _, v := range vals {
			st := v.SerialType(format)
			buf := make([]byte, SerialTypeLen(st))
			n := v.SerialPut(buf, format)
			require.Equal(t, len(buf), n)

			got, err := SerialGet(buf, st, UTF8)
			require.NoError(t, err)
			assert.True(t, v.Equal(got), "format %d: %v -> %v", format, v, got)
			assert.Equal(t, v.Type(), got.Type())
		}
	}
}

func TestSerialPutBigEndian(t *testing.T) {
	assert.Equal(t, []byte{0x01, 0x00}, Int(256).AppendSerial(nil, 4))
	assert.Equal(t, []byte{0xff, 0x7f, 0xff}, Int(-32769).AppendSerial(nil, 4))
	assert.Equal(t, []byte{0x40, 0x0c, 0, 0, 0, 0, 0, 0}, Float(3.5).AppendSerial(nil, 4))
	assert.Empty(t, Int(1).AppendSerial(nil, 4))
	assert.Equal(t, []byte{1}, Int(1).AppendSerial(nil, 1))
}

func TestSerialGetCopies(t *testing.T) {
	buf := []byte("abc")
	v, err := SerialGet(buf, 19, UTF8)
	require.NoError(t, err)
	buf[0] = 'z'
	assert.Equal(t, []byte("abc"), v.Bytes())
}

func TestSerialGetTruncated(t *testing.T) {
	_, err := SerialGet([]byte{1, 2}, SerialInt32, UTF8)
	assert.True(t, IsCorrupt(err))
	_, err = SerialGet([]byte("ab"), 19, UTF8)
	assert.True(t, IsCorrupt(err))
}

func TestSerialGetReserved(t *testing.T) {
	for _, st := range []uint32{10, 11} {
		v, err := SerialGet(nil, st, UTF8)
		require.NoError(t, err)
		assert.True(t, v.IsNull())
	}
}
