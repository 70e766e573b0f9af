package record

import (
	"slices"

	"github.com/jordanwade90/litestore/value"
)

// KeyInfo describes how an index orders its keys.
// It is immutable once built.
type KeyInfo struct {
	enc   value.Encoding
	desc  []bool
	colls []value.Collation
}

// NewKeyInfo returns a KeyInfo for len(desc) columns,
// each descending where desc is true, all using the BINARY collation.
func NewKeyInfo(enc value.Encoding, desc ...bool) *KeyInfo {
	return &KeyInfo{
		enc:   enc,
		desc:  slices.Clone(desc),
		colls: make([]value.Collation, len(desc)),
	}
}

// WithCollations returns a copy of ki using colls for its leading columns.
// A nil entry means BINARY. Collations may extend past NumFields;
// those columns still sort ascending.
func (ki *KeyInfo) WithCollations(colls ...value.Collation) *KeyInfo {
	out := &KeyInfo{enc: ki.enc, desc: ki.desc, colls: slices.Clone(ki.colls)}
	if len(colls) > len(out.colls) {
		out.colls = append(out.colls, make([]value.Collation, len(colls)-len(out.colls))...)
	}
	copy(out.colls, colls)
	return out
}

// NumFields returns the number of columns the KeyInfo describes.
func (ki *KeyInfo) NumFields() int { return len(ki.desc) }

func (ki *KeyInfo) Encoding() value.Encoding { return ki.enc }

// Desc reports whether column i sorts in descending order.
// Columns past NumFields are ascending.
func (ki *KeyInfo) Desc(i int) bool {
	return i < len(ki.desc) && ki.desc[i]
}

// Collation returns the collation for column i.
// Columns past NumFields use BINARY.
func (ki *KeyInfo) Collation(i int) value.Collation {
	if i < len(ki.colls) {
		return ki.colls[i]
	}
	return value.Binary
}

// Flags adjust how a probe compares once every probe column is equal.
type Flags uint8

const (
	// IgnoreRowid drops the stored key's trailing rowid column from the comparison.
	IgnoreRowid Flags = 1 << iota
	// PrefixMatch treats a stored key as equal if the probe is a prefix of it.
	PrefixMatch
	// IncrKey makes the probe sort after every stored key it is a prefix of,
	// for seeking to the first key strictly greater than the probe.
	IncrKey
)

// Has reports whether every flag in x is set in f.
func (f Flags) Has(x Flags) bool { return f&x == x }

// UnpackedRecord is a probe key: decoded values compared against stored records
// during a B-tree search.
type UnpackedRecord struct {
	keyInfo *KeyInfo
	values  []value.Value
	flags   Flags
}

// NewUnpackedRecord returns a probe comparing values under ki.
// The probe may have fewer values than ki has fields.
func NewUnpackedRecord(ki *KeyInfo, flags Flags, values ...value.Value) *UnpackedRecord {
	return &UnpackedRecord{keyInfo: ki, values: slices.Clone(values), flags: flags}
}

// UnpackKey decodes a stored key into a probe.
func UnpackKey(ki *KeyInfo, p Payload, flags Flags) (*UnpackedRecord, error) {
	row, err := Unpack(p, Options{Encoding: ki.enc})
	if err != nil {
		return nil, err
	}
	vals, err := row.Values()
	if err != nil {
		return nil, err
	}
	return &UnpackedRecord{keyInfo: ki, values: vals, flags: flags}, nil
}

func (u *UnpackedRecord) KeyInfo() *KeyInfo { return u.keyInfo }
func (u *UnpackedRecord) Flags() Flags     { return u.flags }
func (u *UnpackedRecord) Len() int         { return len(u.values) }

// Value returns probe column i.
func (u *UnpackedRecord) Value(i int) value.Value { return u.values[i] }

// WithFlags returns a copy of u with its flags replaced.
func (u *UnpackedRecord) WithFlags(flags Flags) *UnpackedRecord {
	return &UnpackedRecord{keyInfo: u.keyInfo, values: u.values, flags: flags}
}
