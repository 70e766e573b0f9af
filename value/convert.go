package value

import (
	"math"
	"strconv"
	"strings"
)

// AsInt returns v as an integer.
// Reals are truncated toward zero and saturate at the int64 range.
// Text and blobs are parsed as a leading integer literal, 0 if there is none.
func (v Value) AsInt() int64 {
	switch v.typ {
	case TypeInteger:
		return v.i
	case TypeReal:
		return floatToInt(v.r)
	case TypeText:
		return parseIntPrefix(Transcode(v.b, v.enc, UTF8))
	case TypeBlob:
		return parseIntPrefix(v.b)
	default:
		return 0
	}
}

// AsFloat returns v as a double.
// Text and blobs are parsed as a leading numeric literal, 0.0 if there is none.
func (v Value) AsFloat() float64 {
	switch v.typ {
	case TypeInteger:
		return float64(v.i)
	case TypeReal:
		return v.r
	case TypeText:
		return parseFloatPrefix(Transcode(v.b, v.enc, UTF8))
	case TypeBlob:
		return parseFloatPrefix(v.b)
	default:
		return 0
	}
}

// AsText returns the text form of v in encoding enc.
// Numbers are rendered the way SQLite renders them,
// text is transcoded, and blob bytes are reinterpreted as text as is.
// The second result is false only for NULL.
func (v Value) AsText(enc Encoding) ([]byte, bool) {
	switch v.typ {
	case TypeInteger:
		return Transcode(strconv.AppendInt(nil, v.i, 10), UTF8, enc), true
	case TypeReal:
		return Transcode([]byte(formatReal(v.r)), UTF8, enc), true
	case TypeText:
		return Transcode(v.b, v.enc, enc), true
	case TypeBlob:
		return v.b, true
	default:
		return nil, false
	}
}

// AsBlob returns the raw bytes of text and blobs, and the UTF-8 text form of anything else.
// NULL yields nil.
func (v Value) AsBlob() []byte {
	switch v.typ {
	case TypeText, TypeBlob:
		return v.b
	default:
		b, _ := v.AsText(UTF8)
		return b
	}
}

func floatToInt(r float64) int64 {
	switch {
	case math.IsNaN(r):
		return 0
	case r <= math.MinInt64:
		return math.MinInt64
	case r >= math.MaxInt64:
		return math.MaxInt64
	default:
		return int64(r)
	}
}

// formatReal matches the "%!.15g" conversion:
// 15 significant digits, and a decimal point even when the value is integral.
func formatReal(r float64) string {
	switch {
	case math.IsInf(r, 1):
		return "Inf"
	case math.IsInf(r, -1):
		return "-Inf"
	}

	s := strconv.FormatFloat(r, 'g', 15, 64)
	if strings.IndexByte(s, '.') >= 0 {
		return s
	}
	if i := strings.IndexByte(s, 'e'); i >= 0 {
		return s[:i] + ".0" + s[i:]
	}
	return s + ".0"
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\f' || c == '\r' || c == '\v'
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// parseIntPrefix reads an optionally signed run of digits after leading whitespace.
// Anything after the digits is ignored.
func parseIntPrefix(b []byte) int64 {
	i := 0
	for i < len(b) && isSpace(b[i]) {
		i++
	}
	neg := false
	if i < len(b) && (b[i] == '-' || b[i] == '+') {
		neg = b[i] == '-'
		i++
	}

	var u uint64
	overflow := false
	for ; i < len(b) && isDigit(b[i]); i++ {
		d := uint64(b[i] - '0')
		if u > (math.MaxUint64-d)/10 {
			overflow = true
			continue
		}
		u = u*10 + d
	}

	switch {
	case neg && (overflow || u > 1<<63):
		return math.MinInt64
	case neg:
		return -int64(u)
	case overflow || u > math.MaxInt64:
		return math.MaxInt64
	default:
		return int64(u)
	}
}

// scanFloatPrefix returns the bounds of the numeric literal at the start of b,
// after any leading whitespace. start == end if there is none.
func scanFloatPrefix(b []byte) (start, end int) {
	i := 0
	for i < len(b) && isSpace(b[i]) {
		i++
	}
	start = i
	if i < len(b) && (b[i] == '-' || b[i] == '+') {
		i++
	}

	digits := 0
	for i < len(b) && isDigit(b[i]) {
		i++
		digits++
	}
	if i < len(b) && b[i] == '.' {
		j := i + 1
		frac := 0
		for j < len(b) && isDigit(b[j]) {
			j++
			frac++
		}
		if digits+frac > 0 {
			i = j
			digits += frac
		}
	}
	if digits == 0 {
		return start, start
	}

	if i < len(b) && (b[i] == 'e' || b[i] == 'E') {
		j := i + 1
		if j < len(b) && (b[j] == '-' || b[j] == '+') {
			j++
		}
		if j < len(b) && isDigit(b[j]) {
			for j < len(b) && isDigit(b[j]) {
				j++
			}
			i = j
		}
	}
	return start, i
}

func parseFloatPrefix(b []byte) float64 {
	start, end := scanFloatPrefix(b)
	if start == end {
		return 0
	}
	// Out-of-range literals come back as ±Inf with a range error, which is what we want.
	f, _ := strconv.ParseFloat(string(b[start:end]), 64)
	return f
}

// isNumber reports whether s, in full, is a numeric literal:
// an optional sign, at least one digit, an optional fraction, and an optional exponent.
// realnum reports whether a fraction or exponent was present.
func isNumber(s []byte) (ok, realnum bool) {
	i := 0
	if i < len(s) && (s[i] == '-' || s[i] == '+') {
		i++
	}
	if i >= len(s) || !isDigit(s[i]) {
		return false, false
	}
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	if i < len(s) && s[i] == '.' {
		i++
		if i >= len(s) || !isDigit(s[i]) {
			return false, false
		}
		for i < len(s) && isDigit(s[i]) {
			i++
		}
		realnum = true
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < len(s) && (s[i] == '-' || s[i] == '+') {
			i++
		}
		if i >= len(s) || !isDigit(s[i]) {
			return false, false
		}
		for i < len(s) && isDigit(s[i]) {
			i++
		}
		realnum = true
	}
	return i == len(s), realnum
}
