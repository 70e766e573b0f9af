package record

import (
	"fmt"

	"github.com/jordanwade90/litestore/value"
)

const (
	// DefaultFileFormat is the schema format number this package writes by default.
	// Format 4 permits the constant serial types for 0 and 1.
	DefaultFileFormat = 4

	// DefaultMaxColumns matches the default SQLITE_MAX_COLUMN.
	DefaultMaxColumns = 2000

	// DefaultMaxLength matches the default SQLITE_MAX_LENGTH.
	DefaultMaxLength = 1_000_000_000
)

// Options control how records are encoded and how much a decoder will trust.
// Zero fields take their defaults.
type Options struct {
	FileFormat int            // schema format number, 1 through 4
	Encoding   value.Encoding // text encoding of the database
	MaxColumns int            // a header with more entries is corrupt
	MaxLength  int            // longest text or blob Append accepts
}

// DefaultOptions returns format 4, UTF-8, and the default limits.
func DefaultOptions() Options {
	return Options{
		FileFormat: DefaultFileFormat,
		Encoding:   value.UTF8,
		MaxColumns: DefaultMaxColumns,
		MaxLength:  DefaultMaxLength,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.FileFormat == 0 {
		o.FileFormat = d.FileFormat
	}
	if o.Encoding == 0 {
		o.Encoding = d.Encoding
	}
	if o.MaxColumns <= 0 {
		o.MaxColumns = d.MaxColumns
	}
	if o.MaxLength <= 0 {
		o.MaxLength = d.MaxLength
	}
	return o
}

func (o Options) validate() error {
	if o.FileFormat < 1 || o.FileFormat > 4 {
		return fmt.Errorf("%w: unsupported file format %d", value.ErrInvalidArgument, o.FileFormat)
	}
	if !o.Encoding.Valid() {
		return fmt.Errorf("%w: unsupported text encoding %d", value.ErrInvalidArgument, o.Encoding)
	}
	if o.MaxLength > value.MaxLength {
		return fmt.Errorf("%w: max length %d exceeds %d", value.ErrInvalidArgument, o.MaxLength, value.MaxLength)
	}
	return nil
}
