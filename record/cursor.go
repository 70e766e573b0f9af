package record

import (
	"fmt"

	"github.com/jordanwade90/litestore/value"
)

// Cursor is the view of a B-tree cursor this package needs.
// Index B-trees store records in the key; table B-trees store them in the data.
//
// Slices returned by a Cursor are only valid until the cursor moves.
type Cursor interface {
	KeySize() (int64, error)
	DataSize() (int64, error)

	// KeyFetch and DataFetch return as much of the payload, up to max bytes,
	// as is available without further I/O. The result may be shorter than max.
	KeyFetch(max int) []byte
	DataFetch(max int) []byte

	// ReadKeyRange and ReadDataRange return exactly n bytes starting at offset,
	// following overflow pages as needed.
	ReadKeyRange(offset, n int) ([]byte, error)
	ReadDataRange(offset, n int) ([]byte, error)
}

// Payload is one side of a Cursor, or any other source of record bytes.
type Payload interface {
	Size() (int, error)
	Fetch(max int) []byte
	ReadRange(offset, n int) ([]byte, error)
}

// KeyPayload reads records from the key side of c.
func KeyPayload(c Cursor) Payload { return keyPayload{c} }

// DataPayload reads records from the data side of c.
func DataPayload(c Cursor) Payload { return dataPayload{c} }

type keyPayload struct{ c Cursor }

func (p keyPayload) Size() (int, error)                      { return payloadSize(p.c.KeySize()) }
func (p keyPayload) Fetch(max int) []byte                    { return p.c.KeyFetch(max) }
func (p keyPayload) ReadRange(offset, n int) ([]byte, error) { return p.c.ReadKeyRange(offset, n) }

type dataPayload struct{ c Cursor }

func (p dataPayload) Size() (int, error)                      { return payloadSize(p.c.DataSize()) }
func (p dataPayload) Fetch(max int) []byte                    { return p.c.DataFetch(max) }
func (p dataPayload) ReadRange(offset, n int) ([]byte, error) { return p.c.ReadDataRange(offset, n) }

func payloadSize(n int64, err error) (int, error) {
	if err != nil {
		return 0, err
	}
	if n < 0 || n > maxPayload {
		return 0, value.Corruptf(-1, "payload size %d out of range", n)
	}
	return int(n), nil
}

// maxPayload bounds the payload sizes this package accepts from a cursor.
const maxPayload = 1<<31 - 1

// Bytes is a Payload held entirely in memory.
type Bytes []byte

func (b Bytes) Size() (int, error) { return len(b), nil }

func (b Bytes) Fetch(max int) []byte {
	if max < len(b) {
		return b[:max]
	}
	return b
}

func (b Bytes) ReadRange(offset, n int) ([]byte, error) {
	if offset < 0 || n < 0 || offset+n > len(b) {
		return nil, fmt.Errorf("%w: read of %d bytes at %d from a %d byte payload", value.ErrCorrupt, n, offset, len(b))
	}
	return b[offset : offset+n], nil
}
