package value

import (
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
)

// Encoding is a text encoding, numbered as in the database file header.
type Encoding uint8

const (
	UTF8    Encoding = 1
	UTF16LE Encoding = 2
	UTF16BE Encoding = 3
)

// Valid reports whether e is one of the three known encodings.
func (e Encoding) Valid() bool { return e >= UTF8 && e <= UTF16BE }

func (e Encoding) String() string {
	switch e {
	case UTF8:
		return "UTF-8"
	case UTF16LE:
		return "UTF-16le"
	case UTF16BE:
		return "UTF-16be"
	default:
		return "unknown"
	}
}

// ParseEncoding accepts the names used by PRAGMA encoding.
func ParseEncoding(s string) (Encoding, bool) {
	switch s {
	case "UTF-8", "UTF8", "utf-8", "utf8", "":
		return UTF8, true
	case "UTF-16le", "UTF16LE", "utf-16le", "utf16le":
		return UTF16LE, true
	case "UTF-16be", "UTF16BE", "utf-16be", "utf16be":
		return UTF16BE, true
	}
	return 0, false
}

// normalize maps the zero Encoding to UTF8.
func (e Encoding) normalize() Encoding {
	if !e.Valid() {
		return UTF8
	}
	return e
}

func (e Encoding) codec() encoding.Encoding {
	switch e {
	case UTF16LE:
		return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)
	case UTF16BE:
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)
	default:
		return nil
	}
}

// Transcode converts text bytes from one encoding to another.
// Malformed input is replaced with U+FFFD rather than rejected.
// If from and to are the same, b is returned as is.
func Transcode(b []byte, from, to Encoding) []byte {
	from, to = from.normalize(), to.normalize()
	if from == to {
		return b
	}

	utf8 := b
	if from != UTF8 {
		out, err := from.codec().NewDecoder().Bytes(b)
		if err != nil {
			// An odd trailing byte is the only way the decoder fails; drop it.
			out, _ = from.codec().NewDecoder().Bytes(b[:len(b)&^1])
		}
		utf8 = out
	}
	if to == UTF8 {
		return utf8
	}

	out, err := to.codec().NewEncoder().Bytes(utf8)
	if err != nil {
		return nil
	}
	return out
}
