package value

import (
	"bytes"
)

// Compare orders a and b, returning -1, 0 or +1.
//
// Storage classes order NULL < numbers < text < blobs.
// Numbers compare by real value, exactly even when an integer has no exact double.
// Texts compare with coll, after b is brought into a's encoding.
// Blobs compare with memcmp, a shorter blob sorting before any blob it prefixes.
func Compare(a, b Value, coll Collation) int {
	if a.typ == TypeNull || b.typ == TypeNull {
		switch {
		case a.typ == b.typ:
			return 0
		case a.typ == TypeNull:
			return -1
		default:
			return 1
		}
	}

	if a.IsNumeric() || b.IsNumeric() {
		switch {
		case !a.IsNumeric():
			return 1
		case !b.IsNumeric():
			return -1
		case a.typ == TypeInteger && b.typ == TypeInteger:
			return cmp3(a.i < b.i, a.i > b.i)
		case a.typ == TypeInteger:
			return compareIntFloat(a.i, b.r)
		case b.typ == TypeInteger:
			return -compareIntFloat(b.i, a.r)
		default:
			return cmp3(a.r < b.r, a.r > b.r)
		}
	}

	if a.typ == TypeText || b.typ == TypeText {
		switch {
		case a.typ != TypeText:
			return 1
		case b.typ != TypeText:
			return -1
		}
		if coll == nil {
			return sign(bytes.Compare(a.b, Transcode(b.b, b.enc, a.enc)))
		}
		return sign(coll(Transcode(a.b, a.enc, UTF8), Transcode(b.b, b.enc, UTF8)))
	}

	return bytes.Compare(a.b, b.b)
}

// Compare orders v and w using the BINARY collation.
func (v Value) Compare(w Value) int {
	return Compare(v, w, Binary)
}

// compareIntFloat orders i against r without rounding i to a double.
func compareIntFloat(i int64, r float64) int {
	switch {
	case r < -9223372036854775808.0:
		return 1
	case r >= 9223372036854775808.0:
		return -1
	}
	// r is in int64 range, so its integer part converts exactly.
	whole := int64(r)
	if i != whole {
		return cmp3(i < whole, i > whole)
	}
	f := float64(whole)
	return cmp3(f < r, f > r)
}

func cmp3(less, greater bool) int {
	switch {
	case less:
		return -1
	case greater:
		return 1
	default:
		return 0
	}
}

func sign(c int) int {
	return cmp3(c < 0, c > 0)
}
