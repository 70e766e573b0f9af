package record

import (
	"github.com/jordanwade90/litestore/value"
)

// Compare orders the record stored in p against probe.
// The result is negative if the stored record sorts before the probe,
// zero if they are equal, and positive if it sorts after.
//
// Columns are compared in order with the probe's KeyInfo collations,
// and the first difference decides, negated for a descending column.
// When every probe column matches:
// IncrKey makes the stored record sort first;
// PrefixMatch makes them equal;
// otherwise a stored record with further columns sorts after the probe.
// With IgnoreRowid the stored record's last column does not count as a further column.
//
// Only the columns needed are read from p.
// Compare fails only if the stored record is corrupt.
func Compare(p Payload, probe *UnpackedRecord) (int, error) {
	row, err := Unpack(p, Options{Encoding: probe.keyInfo.enc})
	if err != nil {
		return 0, err
	}

	stored := row.Len()
	if probe.flags.Has(IgnoreRowid) && stored > 0 {
		stored--
	}
	return probe.compare(stored, func(i int) (value.Value, bool, error) {
		if row.offsets[i] >= row.size && value.SerialTypeLen(row.types[i]) > 0 {
			return value.Null(), false, nil
		}
		v, err := row.Column(i)
		return v, true, err
	})
}

// CompareBytes is Compare for a record held in memory.
func CompareBytes(stored []byte, probe *UnpackedRecord) (int, error) {
	return Compare(Bytes(stored), probe)
}

// CompareValues is Compare for a stored record that has already been decoded.
func (u *UnpackedRecord) CompareValues(stored []value.Value) int {
	n := len(stored)
	if u.flags.Has(IgnoreRowid) && n > 0 {
		n--
	}
	c, _ := u.compare(n, func(i int) (value.Value, bool, error) {
		return stored[i], true, nil
	})
	return c
}

// compare walks the first min(stored, u.Len()) columns.
// column returns ok == false if the stored record ran out of payload early.
func (u *UnpackedRecord) compare(stored int, column func(i int) (v value.Value, ok bool, err error)) (int, error) {
	ki := u.keyInfo
	i, c := 0, 0
	for ; i < stored && i < len(u.values); i++ {
		v, ok, err := column(i)
		if err != nil {
			return 0, err
		}
		if !ok {
			break
		}
		if c = value.Compare(v, u.values[i], ki.Collation(i)); c != 0 {
			break
		}
	}

	if c != 0 {
		if ki.Desc(i) {
			c = -c
		}
		return c, nil
	}
	switch {
	case u.flags.Has(IncrKey):
		return -1, nil
	case u.flags.Has(PrefixMatch):
		return 0, nil
	case i < stored:
		return 1, nil
	default:
		return 0, nil
	}
}
