package pagebuf

import (
	"bytes"
	"encoding/binary"

	"github.com/jordanwade90/litestore/value"
)

const headerMagic = "SQLite format 3\000"

// FileHeader holds the fields of the 100-byte database header this library reads or writes.
type FileHeader struct {
	PageSize     int
	Reserved     int // bytes reserved at the end of each page
	SchemaFormat int
	TextEncoding value.Encoding
}

// UsableSize returns the usable size of each page.
func (h FileHeader) UsableSize() int { return h.PageSize - h.Reserved }

// ParseFileHeader parses the start of page 1.
func ParseFileHeader(b []byte) (FileHeader, error) {
	if len(b) < DatabaseHeaderSize || !bytes.Equal(b[:16], []byte(headerMagic)) {
		return FileHeader{}, value.Corruptf(0, "not a database file")
	}

	h := FileHeader{
		PageSize:     int(binary.BigEndian.Uint16(b[16:])),
		Reserved:     int(b[20]),
		SchemaFormat: int(binary.BigEndian.Uint32(b[44:])),
	}
	enc := binary.BigEndian.Uint32(b[56:])
	if h.PageSize == 1 {
		h.PageSize = 65536
	}
	if h.PageSize < 512 || h.PageSize&(h.PageSize-1) != 0 {
		return FileHeader{}, value.Corruptf(16, "invalid page size %d", h.PageSize)
	}
	if h.UsableSize() < 480 {
		return FileHeader{}, value.Corruptf(20, "usable page size %d too small", h.UsableSize())
	}
	if h.SchemaFormat == 0 {
		// An empty database has no schema format yet.
		h.SchemaFormat = 1
	}
	switch {
	case enc == 0:
		h.TextEncoding = value.UTF8
	case enc <= uint32(value.UTF16BE):
		h.TextEncoding = value.Encoding(enc)
	default:
		return FileHeader{}, value.Corruptf(56, "unknown text encoding %d", enc)
	}
	return h, nil
}

// DatabaseHeader helps write the database header page.
// Its schema root page is always a leaf node.
type DatabaseHeader struct {
	tablePage
	SchemaFormat int
	TextEncoding value.Encoding
}

// NewDatabaseHeader returns an empty DatabaseHeader.
func NewDatabaseHeader(pageSize int, schemaFormat int, enc value.Encoding) *DatabaseHeader {
	return &DatabaseHeader{
		tablePage: tablePage{
			page:         make([]byte, pageSize),
			hdrOffset:    DatabaseHeaderSize,
			headerSize:   TableLeafHeaderSize,
			contentStart: pageSize,
		},
		SchemaFormat: schemaFormat,
		TextEncoding: enc,
	}
}

// Finish finishes writing page 1, returning a page-sized slice with its contents.
// The DatabaseHeader is emptied and ready to reuse after Finish returns.
//
// Note that Finish returns a reference to the DatabaseHeader's internal buffer;
// do not modify the return value.
func (p *DatabaseHeader) Finish() []byte {
	copy(p.page, headerMagic)
	if len(p.page) == 65536 {
		binary.BigEndian.PutUint32(p.page[16:], 0x010101)
	} else {
		binary.BigEndian.PutUint32(p.page[16:], uint32(len(p.page)<<16)|0x0101)
	}
	// No reserved bytes; payload fractions 64, 32, 32.
	binary.BigEndian.PutUint32(p.page[20:], 0x00402020)
	binary.BigEndian.PutUint32(p.page[44:], uint32(p.SchemaFormat))
	binary.BigEndian.PutUint32(p.page[48:], uint32(2048000/len(p.page)))
	binary.BigEndian.PutUint32(p.page[56:], uint32(p.TextEncoding))
	binary.BigEndian.PutUint32(p.page[96:], 3003000)

	p.writeHeader(PageTableLeaf, 0)
	return p.page
}
