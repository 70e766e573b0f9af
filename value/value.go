// Package value implements the in-memory representation of a single SQL value
// as stored in a SQLite record: NULL, a 64-bit integer, a double, text, or a blob.
//
// Values are immutable once constructed.
// Conversions between representations never fail;
// text that does not parse as a number converts to zero.
package value

import (
	"fmt"
	"math"

	"github.com/goccy/go-json"
)

// Type is the storage class of a Value.
type Type uint8

const (
	TypeNull Type = iota
	TypeInteger
	TypeReal
	TypeText
	TypeBlob
)

func (t Type) String() string {
	switch t {
	case TypeNull:
		return "null"
	case TypeInteger:
		return "integer"
	case TypeReal:
		return "real"
	case TypeText:
		return "text"
	case TypeBlob:
		return "blob"
	default:
		return fmt.Sprintf("Type(%d)", uint8(t))
	}
}

// Value is one SQL value. The zero Value is NULL.
type Value struct {
	typ Type
	enc Encoding // text only
	i   int64
	r   float64
	b   []byte
}

// Null returns the NULL value.
func Null() Value { return Value{} }

// Int returns an integer value.
func Int(i int64) Value { return Value{typ: TypeInteger, i: i} }

// Float returns a real value. NaN is not a storable real and becomes NULL.
func Float(f float64) Value {
	if math.IsNaN(f) {
		return Value{}
	}
	return Value{typ: TypeReal, r: f}
}

// Text returns a UTF-8 text value.
func Text(s string) Value {
	return Value{typ: TypeText, enc: UTF8, b: []byte(s)}
}

// TextBytes returns a text value holding b in encoding enc.
// The Value refers to b; do not modify b afterwards.
func TextBytes(b []byte, enc Encoding) Value {
	return Value{typ: TypeText, enc: enc.normalize(), b: b}
}

// Blob returns a blob value. The Value refers to b; do not modify b afterwards.
func Blob(b []byte) Value {
	if b == nil {
		b = []byte{}
	}
	return Value{typ: TypeBlob, b: b}
}

// Bool returns 1 or 0, which is how SQL stores booleans.
func Bool(b bool) Value {
	if b {
		return Int(1)
	}
	return Int(0)
}

// FromAny converts a Go value to a Value.
// Unsupported types return an error wrapping ErrInvalidArgument.
func FromAny(x any) (Value, error) {
	switch x := x.(type) {
	case nil:
		return Null(), nil
	case Value:
		return x, nil
	case bool:
		return Bool(x), nil
	case int:
		return Int(int64(x)), nil
	case int8:
		return Int(int64(x)), nil
	case int16:
		return Int(int64(x)), nil
	case int32:
		return Int(int64(x)), nil
	case int64:
		return Int(x), nil
	case uint:
		return fromUint(uint64(x))
	case uint8:
		return Int(int64(x)), nil
	case uint16:
		return Int(int64(x)), nil
	case uint32:
		return Int(int64(x)), nil
	case uint64:
		return fromUint(x)
	case float32:
		return Float(float64(x)), nil
	case float64:
		return Float(x), nil
	case string:
		return Text(x), nil
	case []byte:
		return Blob(x), nil
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return Int(i), nil
		}
		f, err := x.Float64()
		if err != nil {
			return Null(), fmt.Errorf("%w: number %q", ErrInvalidArgument, string(x))
		}
		return Float(f), nil
	default:
		return Null(), fmt.Errorf("%w: unsupported type %T", ErrInvalidArgument, x)
	}
}

func fromUint(u uint64) (Value, error) {
	if u > math.MaxInt64 {
		return Null(), fmt.Errorf("%w: %d overflows a 64-bit signed integer", ErrInvalidArgument, u)
	}
	return Int(int64(u)), nil
}

func (v Value) Type() Type         { return v.typ }
func (v Value) IsNull() bool       { return v.typ == TypeNull }
func (v Value) IsInteger() bool    { return v.typ == TypeInteger }
func (v Value) IsReal() bool       { return v.typ == TypeReal }
func (v Value) IsNumeric() bool    { return v.typ == TypeInteger || v.typ == TypeReal }
func (v Value) IsText() bool       { return v.typ == TypeText }
func (v Value) IsBlob() bool       { return v.typ == TypeBlob }
func (v Value) Encoding() Encoding { return v.enc }

// Bytes returns the raw bytes of a text or blob value, and nil otherwise.
// Text is in the value's own encoding.
func (v Value) Bytes() []byte {
	if v.typ == TypeText || v.typ == TypeBlob {
		return v.b
	}
	return nil
}

// Equal reports whether v and w have the same type and the same content.
// Text values in different encodings are equal if they hold the same characters.
func (v Value) Equal(w Value) bool {
	if v.typ != w.typ {
		return false
	}
	switch v.typ {
	case TypeNull:
		return true
	case TypeInteger:
		return v.i == w.i
	case TypeReal:
		return v.r == w.r
	case TypeText:
		return string(v.b) == string(Transcode(w.b, w.enc, v.enc))
	default:
		return string(v.b) == string(w.b)
	}
}

func (v Value) String() string {
	switch v.typ {
	case TypeNull:
		return "NULL"
	case TypeText:
		s, _ := v.AsText(UTF8)
		return fmt.Sprintf("%q", s)
	case TypeBlob:
		return fmt.Sprintf("x'%x'", v.b)
	default:
		s, _ := v.AsText(UTF8)
		return string(s)
	}
}

// MarshalJSON renders NULL as null, numbers as numbers, text as a string,
// and blobs as base64 strings. Infinite reals render as strings.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.typ {
	case TypeNull:
		return []byte("null"), nil
	case TypeInteger:
		return json.Marshal(v.i)
	case TypeReal:
		if math.IsInf(v.r, 0) {
			return json.Marshal(formatReal(v.r))
		}
		return json.Marshal(v.r)
	case TypeText:
		s, _ := v.AsText(UTF8)
		return json.Marshal(string(s))
	default:
		return json.Marshal(v.b)
	}
}
