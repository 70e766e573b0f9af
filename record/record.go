// Package record encodes rows and index keys in the SQLite record format
// and decodes them again, lazily, from a B-tree cursor.
//
// A record is a header followed by a body.
// The header starts with its own length as a varint,
// then holds one serial type varint per column;
// the body holds each column's payload in the same order.
// See https://sqlite.org/fileformat2.html#record_format.
package record

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/jordanwade90/litestore/internal/svarint"
	"github.com/jordanwade90/litestore/value"
)

func headerLen(l int) int {
	return l + headerLenLen(l)
}

func headerLenLen(l int) int {
	// This unpleasant arithmetic is to handle the case where the header length varint
	// is long enough that it has to be extended a byte to hold the real length.
	return svarint.Length(l + svarint.Length(l))
}

// Record builds one encoded record a column at a time.
// The zero Record is ready to use with DefaultOptions.
//
// Errors are sticky: once an Append fails, later Appends are ignored
// and AppendTo reports the first error.
type Record struct {
	header  []byte
	payload []byte
	columns int
	opts    Options
	optsSet bool
	err     error
}

// NewRecord returns an empty Record that encodes with opts.
func NewRecord(opts Options) *Record {
	return &Record{opts: opts.withDefaults(), optsSet: true}
}

func (record *Record) options() Options {
	if !record.optsSet {
		record.opts = DefaultOptions()
		record.optsSet = true
	}
	return record.opts
}

// Append appends one column.
// Text is transcoded to the record's encoding first.
func (record *Record) Append(v value.Value) error {
	if record.err != nil {
		return record.err
	}
	opts := record.options()
	if err := opts.validate(); err != nil {
		record.err = err
		return err
	}

	if v.IsText() && v.Encoding() != opts.Encoding {
		b, _ := v.AsText(opts.Encoding)
		v = value.TextBytes(b, opts.Encoding)
	}
	if n := len(v.Bytes()); n > opts.MaxLength {
		record.err = fmt.Errorf("%w: column %d is %d bytes, limit is %d", value.ErrInvalidArgument, record.columns, n, opts.MaxLength)
		return record.err
	}
	if record.columns >= opts.MaxColumns {
		record.err = fmt.Errorf("%w: more than %d columns", value.ErrInvalidArgument, opts.MaxColumns)
		return record.err
	}

	record.header = svarint.Append(record.header, v.SerialType(opts.FileFormat))
	record.payload = v.AppendSerial(record.payload, opts.FileFormat)
	record.columns++
	return nil
}

// AppendAny appends a Go value converted with value.FromAny.
func (record *Record) AppendAny(x any) error {
	v, err := value.FromAny(x)
	if err != nil {
		if record.err == nil {
			record.err = err
		}
		return err
	}
	return record.Append(v)
}

func (record *Record) AppendBlob(b []byte) {
	_ = record.Append(value.Blob(b))
}

func (record *Record) AppendBool(b bool) {
	_ = record.Append(value.Bool(b))
}

func (record *Record) AppendFloat(f float64) {
	_ = record.Append(value.Float(f))
}

func (record *Record) AppendInt(i int64) {
	_ = record.Append(value.Int(i))
}

func (record *Record) AppendNull() {
	_ = record.Append(value.Null())
}

// AppendJSON appends v marshaled to JSON as a text column.
func (record *Record) AppendJSON(v any) error {
	s, err := json.Marshal(v)
	if err != nil {
		if record.err == nil {
			record.err = err
		}
		return err
	}
	return record.Append(value.TextBytes(s, value.UTF8))
}

func (record *Record) AppendString(s string) {
	_ = record.Append(value.Text(s))
}

// AppendStringSlice appends UTF-8 text held in a byte slice without copying it first.
func (record *Record) AppendStringSlice(s []byte) {
	_ = record.Append(value.TextBytes(s, value.UTF8))
}

// AppendUint appends an unsigned integer.
// Values above math.MaxInt64 cannot be stored and make the Record fail.
func (record *Record) AppendUint(i uint64) {
	_ = record.AppendAny(i)
}

// Len returns the number of columns appended so far.
func (record *Record) Len() int {
	return record.columns
}

// Size returns the encoded size of the record.
func (record *Record) Size() int {
	return headerLen(len(record.header)) + len(record.payload)
}

// Err returns the first error encountered while appending, if any.
func (record *Record) Err() error {
	return record.err
}

// AppendTo appends the encoded record to p.
func (record *Record) AppendTo(p []byte) ([]byte, error) {
	if record.err != nil {
		return p, record.err
	}
	p = svarint.Append(p, headerLen(len(record.header)))
	p = append(p, record.header...)
	p = append(p, record.payload...)
	return p, nil
}

// Reset empties the Record, keeping its options and buffers.
func (record *Record) Reset() {
	record.header = record.header[:0]
	record.payload = record.payload[:0]
	record.columns = 0
	record.err = nil
}

// Pack encodes values as one record.
func Pack(values []value.Value, opts Options) ([]byte, error) {
	rec := NewRecord(opts)
	for _, v := range values {
		if err := rec.Append(v); err != nil {
			return nil, err
		}
	}
	return rec.AppendTo(nil)
}
