package pagebuf

import (
	"encoding/binary"

	"github.com/jordanwade90/litestore/internal/svarint"
	"github.com/jordanwade90/litestore/value"
)

// PageHeader is a parsed B-tree page header.
type PageHeader struct {
	Type         byte
	NumCells     int
	ContentStart int
	RightMost    PageNumber // interior pages only

	offset int // where the header starts within the page
	size   int
}

// IsLeaf reports whether the page is a leaf node.
func (h PageHeader) IsLeaf() bool { return h.Type == PageTableLeaf || h.Type == PageIndexLeaf }

// ParsePageHeader parses the B-tree page header starting at hdrOffset,
// which is DatabaseHeaderSize for page 1 and 0 otherwise.
func ParsePageHeader(page []byte, hdrOffset int) (PageHeader, error) {
	if len(page) < hdrOffset+TableLeafHeaderSize {
		return PageHeader{}, value.Corruptf(hdrOffset, "page too short for a B-tree header")
	}
	b := page[hdrOffset:]
	h := PageHeader{
		Type:         b[0],
		NumCells:     int(binary.BigEndian.Uint16(b[3:])),
		ContentStart: int(binary.BigEndian.Uint16(b[5:])),
		offset:       hdrOffset,
		size:         TableLeafHeaderSize,
	}
	if h.ContentStart == 0 {
		h.ContentStart = 65536
	}

	switch h.Type {
	case PageTableLeaf, PageIndexLeaf:
	case PageTableInterior, PageIndexInterior:
		h.size = TableInteriorHeaderSize
		if len(b) < h.size {
			return PageHeader{}, value.Corruptf(hdrOffset, "page too short for an interior header")
		}
		h.RightMost = PageNumber(binary.BigEndian.Uint32(b[8:]))
	default:
		return PageHeader{}, value.Corruptf(hdrOffset, "unknown page type %d", h.Type)
	}

	if hdrOffset+h.size+2*h.NumCells > len(page) {
		return PageHeader{}, value.Corruptf(hdrOffset+3, "%d cell pointers overrun the page", h.NumCells)
	}
	return h, nil
}

// CellOffset returns the offset of cell i within page.
func (h PageHeader) CellOffset(page []byte, i int) (int, error) {
	ptr := h.offset + h.size + 2*i
	off := int(binary.BigEndian.Uint16(page[ptr:]))
	if off < ptr || off >= len(page) {
		return 0, value.Corruptf(ptr, "cell %d at offset %d is outside the content area", i, off)
	}
	return off, nil
}

// LeafCell is a parsed table B-tree leaf cell.
type LeafCell struct {
	PayloadSize int64
	Rowid       int64
	Local       []byte     // the part of the payload stored on the page
	Overflow    PageNumber // first overflow page, or 0
}

// ParseTableLeafCell parses the table leaf cell at off.
// usable is the usable page size from the file header.
func ParseTableLeafCell(page []byte, off, usable int) (LeafCell, error) {
	size, n := svarint.Get(page[off:])
	if n == 0 || size > 1<<31-1 {
		return LeafCell{}, value.Corruptf(off, "bad payload size")
	}
	off += n
	rowid, n := svarint.Get(page[off:])
	if n == 0 {
		return LeafCell{}, value.Corruptf(off, "bad rowid")
	}
	off += n

	cell := LeafCell{PayloadSize: int64(size), Rowid: int64(rowid)}
	local := TableLeafPayloadOnPage(usable, int(size))
	end := off + local
	if local < int(size) {
		end += 4
	}
	if end > len(page) {
		return LeafCell{}, value.Corruptf(off, "cell of %d bytes overruns the page", local)
	}

	cell.Local = page[off : off+local]
	if local < int(size) {
		cell.Overflow = PageNumber(binary.BigEndian.Uint32(page[off+local:]))
		if cell.Overflow == 0 {
			return LeafCell{}, value.Corruptf(off+local, "missing overflow page")
		}
	}
	return cell, nil
}

// ParseTableInteriorCell parses the table interior cell at off.
func ParseTableInteriorCell(page []byte, off int) (child PageNumber, rowid int64, err error) {
	if off+4 > len(page) {
		return 0, 0, value.Corruptf(off, "interior cell overruns the page")
	}
	child = PageNumber(binary.BigEndian.Uint32(page[off:]))
	key, n := svarint.Get(page[off+4:])
	if n == 0 {
		return 0, 0, value.Corruptf(off+4, "bad rowid")
	}
	return child, int64(key), nil
}

// TableLeafPayloadOnPage returns how many bytes of a payload of payloadSize bytes
// are stored on a table leaf page; the rest spill to overflow pages.
func TableLeafPayloadOnPage(usable int, payloadSize int) int {
	// See the "alternative description" of the payload overflow calculation
	// from https://sqlite.org/fileformat2.html
	X := usable - 35
	M := ((usable - 12) * 32 / 255) - 23
	K := M + ((payloadSize - M) % (usable - 4))
	switch {
	case payloadSize <= X:
		return payloadSize
	case K <= X:
		return K
	default:
		return M
	}
}
