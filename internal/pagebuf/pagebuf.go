// Package pagebuf formats and parses table B-tree pages and the database header.
//
// See https://sqlite.org/fileformat2.html#b_tree_pages.
package pagebuf

import (
	"encoding/binary"

	"github.com/jordanwade90/litestore/internal/svarint"
)

const (
	DatabaseHeaderSize      = 100
	TableLeafHeaderSize     = 8
	TableInteriorHeaderSize = 12
)

// B-tree page type flags, the first byte of every B-tree page header.
const (
	PageIndexInterior = 2
	PageTableInterior = 5
	PageIndexLeaf     = 10
	PageTableLeaf     = 13
)

// PageNumber annotates uint32s that are actually page numbers.
type PageNumber uint32

// tablePage accumulates cells back-to-front in a page-sized buffer.
// hdrOffset is where the B-tree page header starts: 0, or 100 on page 1.
type tablePage struct {
	page         []byte
	hdrOffset    int
	headerSize   int
	contentStart int
	numCells     int
}

func (p *tablePage) Add(cell []byte) bool {
	// We write back-to-front, so, confusingly,
	// contentStart should be the larger number.
	start := p.contentStart - len(cell)
	ptr := p.hdrOffset + p.headerSize + 2*p.numCells
	if start < ptr+2 {
		return false
	}

	binary.BigEndian.PutUint16(p.page[ptr:], uint16(start))
	copy(p.page[start:], cell)
	p.contentStart = start
	p.numCells++
	return true
}

// writeHeader fills in the B-tree page header and empties the page for reuse.
func (p *tablePage) writeHeader(pageType byte, rightMost PageNumber) {
	h := p.page[p.hdrOffset:]
	h[0] = pageType
	h[1], h[2] = 0, 0 // no freeblocks
	binary.BigEndian.PutUint16(h[3:], uint16(p.numCells))
	// A content area starting at 65536 is written as 0.
	binary.BigEndian.PutUint16(h[5:], uint16(p.contentStart))
	h[7] = 0
	if pageType == PageTableInterior {
		binary.BigEndian.PutUint32(h[8:], uint32(rightMost))
	}

	p.contentStart = len(p.page)
	p.numCells = 0
}

// TableLeaf helps write table B-tree leaf nodes.
type TableLeaf struct{ tablePage }

// NewTableLeaf returns an empty TableLeaf.
func NewTableLeaf(pageSize int) *TableLeaf {
	return &TableLeaf{tablePage{
		page:         make([]byte, pageSize),
		headerSize:   TableLeafHeaderSize,
		contentStart: pageSize,
	}}
}

// Finish finishes writing the node, returning a page-sized slice with its contents.
// The TableLeaf is emptied and ready to reuse after Finish returns.
//
// Note that Finish returns a reference to the TableLeaf's internal buffer;
// do not modify the return value.
func (p *TableLeaf) Finish() []byte {
	p.writeHeader(PageTableLeaf, 0)
	return p.page
}

// IsEmpty returns whether the TableLeaf is empty.
func (p *TableLeaf) IsEmpty() bool { return p.numCells == 0 }

// TableInterior helps write table B-tree interior nodes.
// It buffers child pointers until a page's worth has accumulated,
// tracking how many cells overflow the page being filled.
type TableInterior struct {
	children     []PageNumber
	rowids       []int64
	pageSize     int
	contentStart int
	excessCells  int
}

// NewTableInterior returns an empty TableInterior.
func NewTableInterior(pageSize int) *TableInterior {
	return &TableInterior{
		pageSize:     pageSize,
		contentStart: pageSize,
	}
}

func interiorCellLen(rowid int64) int {
	return 4 + svarint.Length(rowid)
}

func (ti *TableInterior) account(numCells int, cellLen int) {
	if ti.excessCells > 0 {
		ti.excessCells++
		return
	}
	start := ti.contentStart - cellLen
	// One extra pointer slot: the last child becomes the right-most pointer.
	if start < TableInteriorHeaderSize+2*numCells+2 {
		ti.excessCells = 1
		return
	}
	ti.contentStart = start
}

// Add adds a cell to a TableInterior.
// If Add returns false, a full page of cells has been buffered;
// call Put to write the page and make room for more.
func (ti *TableInterior) Add(child PageNumber, rowid int64) (ok bool) {
	ti.children = append(ti.children, child)
	ti.rowids = append(ti.rowids, rowid)
	ti.account(len(ti.children), interiorCellLen(rowid))
	return ti.excessCells < 2
}

// Length returns the number of children in the node, including excess cells.
func (ti *TableInterior) Length() int {
	return len(ti.children)
}

// Put writes an interior B-tree page to p and removes all cells used from the buffer.
//
// If the table is open, call Put once whenever Add returns false and ignore empty.
// If the table has been closed, keep calling Put until empty is true.
func (ti *TableInterior) Put(p []byte) (rightmostRowid int64, empty bool) {
	if len(ti.children) < 2 {
		panic("degenerate node")
	}

	limit := len(ti.children) - ti.excessCells
	if ti.excessCells == 1 {
		limit--
	}

	page := tablePage{page: p, headerSize: TableInteriorHeaderSize, contentStart: len(p)}
	cell := make([]byte, 0, 4+svarint.MaxLen)
	for page.numCells < limit-1 {
		i := page.numCells
		cell = binary.BigEndian.AppendUint32(cell[:0], uint32(ti.children[i]))
		cell = svarint.Append(cell, ti.rowids[i])
		if !page.Add(cell) {
			// NOTE(jw): either Add messed up the contentStart/excessCells bookkeeping
			// or Put messed up the cell offsets.
			panic("internal bug")
		}
	}
	used := page.numCells
	rightmostRowid = ti.rowids[used]
	page.writeHeader(PageTableInterior, ti.children[used])

	ti.children = append(ti.children[:0], ti.children[used+1:]...)
	ti.rowids = append(ti.rowids[:0], ti.rowids[used+1:]...)
	ti.contentStart = ti.pageSize
	ti.excessCells = 0
	for i, rowid := range ti.rowids {
		ti.account(i, interiorCellLen(rowid))
	}

	return rightmostRowid, len(ti.children) == 0
}

// Remove removes the most recent cell added with Add.
func (ti *TableInterior) Remove() (child PageNumber, rowid int64) {
	if len(ti.children) == 0 {
		panic("empty node")
	}

	last := len(ti.children) - 1
	child, rowid = ti.children[last], ti.rowids[last]
	ti.children = ti.children[:last]
	ti.rowids = ti.rowids[:last]

	if ti.excessCells > 0 {
		ti.excessCells--
	} else {
		ti.contentStart += interiorCellLen(rowid)
	}

	return
}
