package value

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructors(t *testing.T) {
	assert.True(t, Null().IsNull())
	assert.True(t, Value{}.IsNull())
	assert.True(t, Int(7).IsInteger())
	assert.True(t, Int(7).IsNumeric())
	assert.True(t, Float(1.5).IsReal())
	assert.True(t, Float(1.5).IsNumeric())
	assert.True(t, Text("x").IsText())
	assert.False(t, Text("x").IsNumeric())
	assert.True(t, Blob(nil).IsBlob())
	assert.True(t, Float(math.NaN()).IsNull(), "NaN must collapse to NULL")
}

func TestFromAny(t *testing.T) {
	cases := []struct {
		in   any
		want Value
	}{
		{nil, Null()},
		{true, Int(1)},
		{false, Int(0)},
		{42, Int(42)},
		{int8(-3), Int(-3)},
		{uint32(7), Int(7)},
		{2.5, Float(2.5)},
		{"hi", Text("hi")},
		{[]byte{1, 2}, Blob([]byte{1, 2})},
	}
	for _, c := range cases {
		got, err := FromAny(c.in)
		require.NoError(t, err, "%T", c.in)
		assert.True(t, c.want.Equal(got), "FromAny(%#v) = %v", c.in, got)
	}

	_, err := FromAny(struct{}{})
	assert.True(t, IsInvalidArgument(err))
	_, err = FromAny(uint64(math.MaxUint64))
	assert.True(t, IsInvalidArgument(err))
}

func TestAsInt(t *testing.T) {
	cases := []struct {
		v    Value
		want int64
	}{
		{Null(), 0},
		{Int(-9), -9},
		{Float(3.99), 3},
		{Float(-3.99), -3},
		{Float(1e30), math.MaxInt64},
		{Float(-1e30), math.MinInt64},
		{Text("123abc"), 123},
		{Text("  -45"), -45},
		{Text("abc"), 0},
		{Text(""), 0},
		{Text("99999999999999999999"), math.MaxInt64},
		{Blob([]byte("17")), 17},
		{TextBytes(Transcode([]byte("88"), UTF8, UTF16LE), UTF16LE), 88},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, c.v.AsInt(), "%v", c.v)
	}
}

func TestAsFloat(t *testing.T) {
	cases := []struct {
		v    Value
		want float64
	}{
		{Null(), 0},
		{Int(3), 3},
		{Float(2.25), 2.25},
		{Text("2.5e2xyz"), 250},
		{Text(".5"), 0.5},
		{Text("1e"), 1},
		{Text("-"), 0},
		{Text("nope"), 0},
		{Blob([]byte("4.5")), 4.5},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, c.v.AsFloat(), "%v", c.v)
	}
}

func TestAsText(t *testing.T) {
	cases := []struct {
		v    Value
		want string
	}{
		{Int(-12), "-12"},
		{Int(math.MinInt64), "-9223372036854775808"},
		{Float(3.5), "3.5"},
		{Float(100), "100.0"},
		{Float(0.1 + 0.2), "0.3"},
		{Float(1e15), "1.0e+15"},
		{Float(1.5e-7), "1.5e-07"},
		{Float(math.Inf(1)), "Inf"},
		{Float(math.Inf(-1)), "-Inf"},
		{Text("héllo"), "héllo"},
		{Blob([]byte("raw")), "raw"},
	}
	for _, c := range cases {
		b, ok := c.v.AsText(UTF8)
		require.True(t, ok)
		assert.Equal(t, c.want, string(b), "%v", c.v)
	}

	_, ok := Null().AsText(UTF8)
	assert.False(t, ok)
}

func TestAsTextTranscodes(t *testing.T) {
	b, ok := Text("ab").AsText(UTF16LE)
	require.True(t, ok)
	assert.Equal(t, []byte{'a', 0, 'b', 0}, b)

	b, ok = Int(5).AsText(UTF16BE)
	require.True(t, ok)
	assert.Equal(t, []byte{0, '5'}, b)

	v := TextBytes([]byte{0, 'h', 0, 'i'}, UTF16BE)
	b, _ = v.AsText(UTF8)
	assert.Equal(t, "hi", string(b))
	assert.True(t, v.Equal(Text("hi")))
}

func TestAsBlob(t *testing.T) {
	assert.Equal(t, []byte("12"), Int(12).AsBlob())
	assert.Equal(t, []byte("x"), Text("x").AsBlob())
	assert.Nil(t, Null().AsBlob())
}

func TestMarshalJSON(t *testing.T) {
	cases := []struct {
		v    Value
		want string
	}{
		{Null(), "null"},
		{Int(42), "42"},
		{Float(3.5), "3.5"},
		{Float(math.Inf(1)), `"Inf"`},
		{Text("hi"), `"hi"`},
		{Blob([]byte{1, 2, 3}), `"AQID"`},
	}
	for _, c := range cases {
		b, err := c.v.MarshalJSON()
		require.NoError(t, err)
		assert.Equal(t, c.want, string(b))
	}
}
