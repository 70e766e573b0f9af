package value

import (
	"math"
	"strconv"
	"strings"
)

// Affinity is a column's preferred storage class.
// The byte values are the ones used in index affinity strings.
type Affinity byte

const (
	AffinityText    Affinity = 'a'
	AffinityNone    Affinity = 'b'
	AffinityNumeric Affinity = 'c'
	AffinityInteger Affinity = 'd'
	AffinityReal    Affinity = 'e'

	// AffinityBlob is the modern name for AffinityNone.
	AffinityBlob = AffinityNone
)

func (a Affinity) String() string {
	switch a {
	case AffinityText:
		return "TEXT"
	case AffinityNone:
		return "NONE"
	case AffinityNumeric:
		return "NUMERIC"
	case AffinityInteger:
		return "INTEGER"
	case AffinityReal:
		return "REAL"
	default:
		return "Affinity(" + strconv.Itoa(int(a)) + ")"
	}
}

// AffinityFromType derives the affinity of a column from its declared type name.
// The first matching rule wins:
// "INT" gives INTEGER; "CHAR", "CLOB" or "TEXT" give TEXT;
// "BLOB" or no type at all gives NONE; "REAL", "FLOA" or "DOUB" give REAL;
// anything else is NUMERIC.
func AffinityFromType(declared string) Affinity {
	t := strings.ToUpper(declared)
	switch {
	case strings.Contains(t, "INT"):
		return AffinityInteger
	case strings.Contains(t, "CHAR"), strings.Contains(t, "CLOB"), strings.Contains(t, "TEXT"):
		return AffinityText
	case strings.Contains(t, "BLOB"), strings.TrimSpace(t) == "":
		return AffinityNone
	case strings.Contains(t, "REAL"), strings.Contains(t, "FLOA"), strings.Contains(t, "DOUB"):
		return AffinityReal
	default:
		return AffinityNumeric
	}
}

// ApplyAffinity returns v coerced toward aff.
//
// TEXT affinity renders numbers as text in encoding enc.
// NUMERIC, INTEGER and REAL affinity convert text that is entirely a numeric literal,
// preferring an integer when the literal has no fraction or exponent and fits in 64 bits;
// other text is left alone.
// INTEGER affinity also turns a real holding an exact integer into an integer.
// NONE affinity, and any value already of a preferred class, is returned unchanged.
func ApplyAffinity(v Value, aff Affinity, enc Encoding) Value {
	switch aff {
	case AffinityText:
		if v.IsNumeric() {
			b, _ := v.AsText(enc)
			return TextBytes(b, enc)
		}
		return v
	case AffinityNumeric, AffinityInteger, AffinityReal:
	default:
		return v
	}

	if v.typ == TypeText {
		s := Transcode(v.b, v.enc, UTF8)
		ok, realnum := isNumber(s)
		if !ok {
			return v
		}
		if !realnum {
			if i, err := strconv.ParseInt(string(s), 10, 64); err == nil {
				return Int(i)
			}
		}
		v = Float(parseFloatPrefix(s))
	}

	if aff == AffinityInteger && v.typ == TypeReal {
		if i := floatToInt(v.r); float64(i) == v.r && i > math.MinInt64 && i < math.MaxInt64 {
			return Int(i)
		}
	}
	return v
}

// ApplyAffinity is the method form of the package function.
func (v Value) ApplyAffinity(aff Affinity, enc Encoding) Value {
	return ApplyAffinity(v, aff, enc)
}
