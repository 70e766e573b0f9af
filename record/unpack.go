package record

import (
	"math"

	"github.com/jordanwade90/litestore/internal/svarint"
	"github.com/jordanwade90/litestore/value"
)

// Row is a decoded record.
// Unpack reads only the header; each column's payload is fetched
// from the Payload the first time the column is requested.
//
// A Row reads through the Payload it was unpacked from,
// so columns not yet loaded must be requested before the cursor moves.
// A Row is not safe for concurrent use.
type Row struct {
	src     Payload
	size    int
	enc     value.Encoding
	types   []uint32
	offsets []int
	cells   []value.Value
	loaded  []bool
}

// header is the decoded header of a record.
type header struct {
	size    int // total payload size
	types   []uint32
	offsets []int // payload offset of each column
}

// readHeader decodes and validates the header of the record in p.
func readHeader(p Payload, maxColumns int) (header, error) {
	size, err := p.Size()
	if err != nil || size == 0 {
		return header{}, err
	}

	local := p.Fetch(size)
	if len(local) > size {
		local = local[:size]
	}
	hdrLen, n := svarint.Get(local)
	if n == 0 {
		first, err := p.ReadRange(0, min(size, svarint.MaxLen))
		if err != nil {
			return header{}, err
		}
		hdrLen, n = svarint.Get(first)
		if n == 0 {
			return header{}, value.Corruptf(0, "truncated header length")
		}
	}
	if hdrLen < uint64(n) || hdrLen > uint64(size) {
		return header{}, value.Corruptf(0, "header length %d exceeds payload size %d", hdrLen, size)
	}

	hl := int(hdrLen)
	hdr := local
	if len(hdr) < hl {
		if hdr, err = p.ReadRange(0, hl); err != nil {
			return header{}, err
		}
		if len(hdr) < hl {
			return header{}, value.Corruptf(0, "short header read: %d of %d bytes", len(hdr), hl)
		}
	}
	hdr = hdr[:hl]

	h := header{size: size}
	offset := hl
	for idx := n; idx < hl; {
		if len(h.types) >= maxColumns {
			return header{}, value.Corruptf(idx, "more than %d columns", maxColumns)
		}
		st, m := svarint.Get(hdr[idx:])
		if m == 0 || st > math.MaxUint32 {
			return header{}, value.Corruptf(idx, "serial type overruns header of %d bytes", hl)
		}
		idx += m

		h.types = append(h.types, uint32(st))
		h.offsets = append(h.offsets, offset)
		offset += value.SerialTypeLen(uint32(st))
		if offset > size {
			return header{}, value.Corruptf(idx, "column %d ends at %d, past payload size %d", len(h.types)-1, offset, size)
		}
	}
	if offset != size {
		return header{}, value.Corruptf(hl, "columns cover %d bytes of a %d byte payload", offset, size)
	}
	return h, nil
}

// Unpack decodes the header of the record in p.
// An empty payload yields a Row with no columns.
// Headers that overrun the payload, declare more than opts.MaxColumns columns,
// or do not account for every payload byte fail with value.ErrCorrupt.
func Unpack(p Payload, opts Options) (*Row, error) {
	opts = opts.withDefaults()
	h, err := readHeader(p, opts.MaxColumns)
	if err != nil {
		return nil, err
	}
	return &Row{
		src:     p,
		size:    h.size,
		enc:     opts.Encoding,
		types:   h.types,
		offsets: h.offsets,
		cells:   make([]value.Value, len(h.types)),
		loaded:  make([]bool, len(h.types)),
	}, nil
}

// Len returns the number of columns in the record.
func (r *Row) Len() int { return len(r.types) }

// SerialType returns the serial type of column i.
func (r *Row) SerialType(i int) uint32 { return r.types[i] }

// Column returns column i, reading its payload if it has not been read yet.
// Columns past the end of the record are NULL,
// which is how rows written before an ADD COLUMN read back.
func (r *Row) Column(i int) (value.Value, error) {
	if i < 0 || i >= len(r.types) {
		return value.Null(), nil
	}
	if r.loaded[i] {
		return r.cells[i], nil
	}

	t := r.types[i]
	var buf []byte
	if n := value.SerialTypeLen(t); n > 0 {
		var err error
		if buf, err = r.fetch(r.offsets[i], n); err != nil {
			return value.Null(), err
		}
	}
	v, err := value.SerialGet(buf, t, r.enc)
	if err != nil {
		return value.Null(), err
	}
	r.cells[i], r.loaded[i] = v, true
	return v, nil
}

// ColumnAffinity returns column i with affinity aff applied.
// REAL affinity also widens a stored integer to a real,
// since writers may store integral reals as integers.
func (r *Row) ColumnAffinity(i int, aff value.Affinity) (value.Value, error) {
	v, err := r.Column(i)
	if err != nil {
		return v, err
	}
	v = value.ApplyAffinity(v, aff, r.enc)
	if aff == value.AffinityReal && v.IsInteger() {
		v = value.Float(v.AsFloat())
	}
	return v, nil
}

// Values returns every column.
func (r *Row) Values() ([]value.Value, error) {
	vals := make([]value.Value, len(r.types))
	for i := range vals {
		v, err := r.Column(i)
		if err != nil {
			return nil, err
		}
		vals[i] = v
	}
	return vals, nil
}

func (r *Row) fetch(offset, n int) ([]byte, error) {
	if local := r.src.Fetch(offset + n); len(local) >= offset+n {
		return local[offset : offset+n], nil
	}
	b, err := r.src.ReadRange(offset, n)
	if err != nil {
		return nil, err
	}
	if len(b) < n {
		return nil, value.Corruptf(offset, "short read: %d of %d bytes", len(b), n)
	}
	return b, nil
}
