package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAffinityFromType(t *testing.T) {
	cases := map[string]Affinity{
		"INTEGER":          AffinityInteger,
		"bigint":           AffinityInteger,
		"VARCHAR(100)":     AffinityText,
		"CLOB":             AffinityText,
		"BLOB":             AffinityNone,
		"":                 AffinityNone,
		"DOUBLE PRECISION": AffinityReal,
		"float":            AffinityReal,
		"DECIMAL(10,2)":    AffinityNumeric,
		"BOOLEAN":          AffinityNumeric,
		"CHARINT":          AffinityInteger,
	}
	for decl, want := range cases {
		assert.Equal(t, want, AffinityFromType(decl), "%q", decl)
	}
}

func TestApplyAffinity(t *testing.T) {
	cases := []struct {
		name string
		in   Value
		aff  Affinity
		want Value
	}{
		{"text of integer", Int(12), AffinityText, Text("12")},
		{"text of real", Float(2.0), AffinityText, Text("2.0")},
		{"text leaves text", Text("x"), AffinityText, Text("x")},
		{"text leaves blob", Blob([]byte("1")), AffinityText, Blob([]byte("1"))},
		{"numeric integer literal", Text("42"), AffinityNumeric, Int(42)},
		{"numeric signed literal", Text("-7"), AffinityNumeric, Int(-7)},
		{"numeric real literal", Text("4.25"), AffinityNumeric, Float(4.25)},
		{"numeric exponent literal", Text("1e3"), AffinityNumeric, Float(1000)},
		{"numeric huge integer", Text("99999999999999999999"), AffinityNumeric, Float(1e20)},
		{"numeric leaves words", Text("12abc"), AffinityNumeric, Text("12abc")},
		{"numeric leaves spaces", Text(" 12"), AffinityNumeric, Text(" 12")},
		{"numeric leaves bare dot", Text("1."), AffinityNumeric, Text("1.")},
		{"numeric leaves blob", Blob([]byte("12")), AffinityNumeric, Blob([]byte("12"))},
		{"numeric keeps real", Float(3.0), AffinityNumeric, Float(3.0)},
		{"integer of exact real", Float(3.0), AffinityInteger, Int(3)},
		{"integer of real literal", Text("3.0"), AffinityInteger, Int(3)},
		{"integer keeps fraction", Float(3.5), AffinityInteger, Float(3.5)},
		{"real coerces like numeric", Text("8"), AffinityReal, Int(8)},
		{"none is a no-op", Text("8"), AffinityNone, Text("8")},
		{"null stays null", Null(), AffinityInteger, Null()},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := ApplyAffinity(c.in, c.aff, UTF8)
			assert.True(t, c.want.Equal(got), "got %v (%v), want %v (%v)", got, got.Type(), c.want, c.want.Type())
		})
	}
}

func TestApplyAffinityIdempotent(t *testing.T) {
	inputs := []Value{Text("42"), Text("4.5"), Text("abc"), Text("1e400"), Int(3), Float(2.5), Null(), Blob([]byte("9"))}
	for _, aff := range []Affinity{AffinityText, AffinityNumeric, AffinityInteger, AffinityReal, AffinityNone} {
		for _, in := range inputs {
			once := ApplyAffinity(in, aff, UTF8)
			twice := ApplyAffinity(once, aff, UTF8)
			assert.True(t, once.Equal(twice), "%v under %v: %v then %v", in, aff, once, twice)
		}
	}
}

func TestApplyAffinityUTF16(t *testing.T) {
	in := TextBytes(Transcode([]byte("15"), UTF8, UTF16LE), UTF16LE)
	assert.True(t, Int(15).Equal(ApplyAffinity(in, AffinityNumeric, UTF16LE)))

	got := ApplyAffinity(Int(15), AffinityText, UTF16BE)
	assert.Equal(t, UTF16BE, got.Encoding())
	assert.Equal(t, []byte{0, '1', 0, '5'}, got.Bytes())
}
