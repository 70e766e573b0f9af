package value

import (
	"bytes"
	"strings"
)

// Collation orders two UTF-8 strings, returning a negative number, zero, or a positive number.
//
// The nil Collation is BINARY: texts are compared with memcmp
// in the encoding of the left operand, without converting to UTF-8 first.
type Collation func(a, b []byte) int

// Binary is the default collation.
var Binary Collation

// NoCase folds the 26 ASCII letters to lower case before comparing.
func NoCase(a, b []byte) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		ca, cb := foldASCII(a[i]), foldASCII(b[i])
		if ca != cb {
			return int(ca) - int(cb)
		}
	}
	return len(a) - len(b)
}

// RTrim ignores trailing spaces.
func RTrim(a, b []byte) int {
	return bytes.Compare(bytes.TrimRight(a, " "), bytes.TrimRight(b, " "))
}

func foldASCII(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + 'a' - 'A'
	}
	return c
}

// LookupCollation returns the built-in collation with the given name, ignoring case.
// BINARY is reported as found and returned as nil.
func LookupCollation(name string) (Collation, bool) {
	switch strings.ToUpper(name) {
	case "BINARY":
		return Binary, true
	case "NOCASE":
		return NoCase, true
	case "RTRIM":
		return RTrim, true
	}
	return nil, false
}
