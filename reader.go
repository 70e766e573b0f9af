package litestore

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/jordanwade90/litestore/internal/pagebuf"
	"github.com/jordanwade90/litestore/record"
	"github.com/jordanwade90/litestore/value"
)

// maxDepth bounds B-tree descent so that a page cycle is reported as corruption.
const maxDepth = 20

// Reader reads tables from a SQLite database file.
type Reader struct {
	file       io.ReaderAt
	hdr        pagebuf.FileHeader
	recordOpts record.Options
	logger     *slog.Logger
}

// OpenReader reads the database header from file.
// Record limits come from the configuration;
// the text encoding and file format come from the header.
func OpenReader(file io.ReaderAt, opts ...Option) (*Reader, error) {
	o, err := buildOptions(opts)
	if err != nil {
		return nil, err
	}

	buf := make([]byte, pagebuf.DatabaseHeaderSize)
	if _, err := file.ReadAt(buf, 0); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, value.Corruptf(0, "file too short for a database header")
		}
		return nil, fmt.Errorf("failed to read database header: %w", err)
	}
	hdr, err := pagebuf.ParseFileHeader(buf)
	if err != nil {
		return nil, err
	}

	recordOpts := o.cfg.RecordOptions()
	recordOpts.FileFormat = hdr.SchemaFormat
	recordOpts.Encoding = hdr.TextEncoding

	r := &Reader{
		file:       file,
		hdr:        hdr,
		recordOpts: recordOpts,
		logger:     o.logger.With("component", "reader"),
	}
	r.logger.Debug("database opened",
		"page_size", hdr.PageSize,
		"schema_format", hdr.SchemaFormat,
		"encoding", hdr.TextEncoding.String())
	return r, nil
}

// Header returns the parsed database header.
func (r *Reader) Header() pagebuf.FileHeader { return r.hdr }

// RecordOptions returns the options rows are decoded with.
func (r *Reader) RecordOptions() record.Options { return r.recordOpts }

func (r *Reader) readPage(n pagebuf.PageNumber) ([]byte, error) {
	if n == 0 {
		return nil, value.Corruptf(-1, "page number 0")
	}
	page := make([]byte, r.hdr.PageSize)
	read, err := r.file.ReadAt(page, int64(n-1)*int64(r.hdr.PageSize))
	if read == len(page) {
		return page, nil
	}
	if err == nil || errors.Is(err, io.EOF) {
		return nil, value.Corruptf(-1, "page %d is past the end of the file", n)
	}
	return nil, fmt.Errorf("failed to read page %d: %w", n, err)
}

// Schema returns the rows of the sqlite_schema table.
func (r *Reader) Schema() ([]SchemaEntry, error) {
	var entries []SchemaEntry
	c := r.OpenTable(1)
	ok, err := c.First()
	for ; ok && err == nil; ok, err = c.Next() {
		row, err := c.Row()
		if err != nil {
			return nil, err
		}
		entry, err := r.schemaEntry(row)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, err
}

func (r *Reader) schemaEntry(row *record.Row) (SchemaEntry, error) {
	text := func(i int) (string, error) {
		v, err := row.Column(i)
		if err != nil {
			return "", err
		}
		b, _ := v.AsText(value.UTF8)
		return string(b), nil
	}

	var e SchemaEntry
	var err error
	if e.Type, err = text(0); err != nil {
		return e, err
	}
	if e.Name, err = text(1); err != nil {
		return e, err
	}
	if e.TableName, err = text(2); err != nil {
		return e, err
	}
	root, err := row.Column(3)
	if err != nil {
		return e, err
	}
	e.RootPage = pagebuf.PageNumber(root.AsInt())
	if e.SQL, err = text(4); err != nil {
		return e, err
	}
	return e, nil
}

// Table opens a cursor on the table called name.
func (r *Reader) Table(name string) (*TableCursor, error) {
	entries, err := r.Schema()
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if e.Type == "table" && e.Name == name {
			return r.OpenTable(e.RootPage), nil
		}
	}
	return nil, fmt.Errorf("no such table: %s", name)
}

// OpenTable opens a cursor on the table B-tree rooted at root.
// The cursor is unpositioned until First is called.
func (r *Reader) OpenTable(root pagebuf.PageNumber) *TableCursor {
	return &TableCursor{r: r, root: root}
}

type frame struct {
	page []byte
	hdr  pagebuf.PageHeader
	idx  int
}

// TableCursor walks the rows of a table B-tree in rowid order.
// It implements record.Cursor: records live in the data side of each cell,
// and the key side is always empty.
type TableCursor struct {
	r     *Reader
	root  pagebuf.PageNumber
	stack []frame
	cell  pagebuf.LeafCell
	valid bool
}

var _ record.Cursor = (*TableCursor)(nil)

// First positions the cursor on the first row. It returns false if the table is empty.
func (c *TableCursor) First() (bool, error) {
	c.stack = c.stack[:0]
	c.valid = false
	if err := c.descend(c.root); err != nil {
		return false, err
	}
	return c.settle()
}

// Next moves to the following row. It returns false past the last row.
func (c *TableCursor) Next() (bool, error) {
	if !c.valid {
		return false, nil
	}
	c.stack[len(c.stack)-1].idx++
	return c.settle()
}

// Valid reports whether the cursor is on a row.
func (c *TableCursor) Valid() bool { return c.valid }

// Rowid returns the rowid of the current row.
func (c *TableCursor) Rowid() int64 { return c.cell.Rowid }

// Row unpacks the record of the current row.
// Columns are read lazily, so request them before moving the cursor.
func (c *TableCursor) Row() (*record.Row, error) {
	if !c.valid {
		return nil, errors.New("cursor is not on a row")
	}
	return record.Unpack(record.DataPayload(c), c.r.recordOpts)
}

func (c *TableCursor) descend(pg pagebuf.PageNumber) error {
	for {
		if len(c.stack) >= maxDepth {
			return value.Corruptf(-1, "B-tree deeper than %d pages at page %d", maxDepth, pg)
		}
		page, err := c.r.readPage(pg)
		if err != nil {
			return err
		}
		hdrOffset := 0
		if pg == 1 {
			hdrOffset = pagebuf.DatabaseHeaderSize
		}
		hdr, err := pagebuf.ParsePageHeader(page, hdrOffset)
		if err != nil {
			return err
		}
		switch hdr.Type {
		case pagebuf.PageTableLeaf, pagebuf.PageTableInterior:
		default:
			return value.Corruptf(hdrOffset, "page %d is not a table B-tree page", pg)
		}

		c.stack = append(c.stack, frame{page: page, hdr: hdr})
		if hdr.IsLeaf() {
			return nil
		}
		if pg, err = c.child(&c.stack[len(c.stack)-1]); err != nil {
			return err
		}
	}
}

func (c *TableCursor) child(f *frame) (pagebuf.PageNumber, error) {
	if f.idx == f.hdr.NumCells {
		return f.hdr.RightMost, nil
	}
	off, err := f.hdr.CellOffset(f.page, f.idx)
	if err != nil {
		return 0, err
	}
	child, _, err := pagebuf.ParseTableInteriorCell(f.page, off)
	return child, err
}

// settle moves up and across the tree until the top frame is a leaf with a cell at idx.
func (c *TableCursor) settle() (bool, error) {
	for {
		top := &c.stack[len(c.stack)-1]
		if top.hdr.IsLeaf() && top.idx < top.hdr.NumCells {
			break
		}
		c.stack = c.stack[:len(c.stack)-1]
		if len(c.stack) == 0 {
			c.valid = false
			return false, nil
		}

		parent := &c.stack[len(c.stack)-1]
		parent.idx++
		if parent.idx > parent.hdr.NumCells {
			continue
		}
		pg, err := c.child(parent)
		if err != nil {
			return false, err
		}
		if err := c.descend(pg); err != nil {
			return false, err
		}
	}

	top := &c.stack[len(c.stack)-1]
	off, err := top.hdr.CellOffset(top.page, top.idx)
	if err != nil {
		return false, err
	}
	if c.cell, err = pagebuf.ParseTableLeafCell(top.page, off, c.r.hdr.UsableSize()); err != nil {
		return false, err
	}
	c.valid = true
	return true, nil
}

func (c *TableCursor) KeySize() (int64, error) { return 0, nil }

func (c *TableCursor) KeyFetch(int) []byte { return nil }

func (c *TableCursor) ReadKeyRange(offset, n int) ([]byte, error) {
	if offset == 0 && n == 0 {
		return nil, nil
	}
	return nil, value.Corruptf(offset, "table cursors have no key payload")
}

func (c *TableCursor) DataSize() (int64, error) { return c.cell.PayloadSize, nil }

func (c *TableCursor) DataFetch(max int) []byte {
	if max < len(c.cell.Local) {
		return c.cell.Local[:max]
	}
	return c.cell.Local
}

// ReadDataRange returns n payload bytes at offset,
// reading overflow pages only when the range extends past the local part of the cell.
func (c *TableCursor) ReadDataRange(offset, n int) ([]byte, error) {
	end := offset + n
	if offset < 0 || n < 0 || int64(end) > c.cell.PayloadSize {
		return nil, value.Corruptf(offset, "read of %d bytes past payload of %d bytes", n, c.cell.PayloadSize)
	}
	local := c.cell.Local
	if end <= len(local) {
		return local[offset:end], nil
	}

	out := make([]byte, 0, n)
	if offset < len(local) {
		out = append(out, local[offset:]...)
	}
	chunk := c.r.hdr.UsableSize() - 4
	pos := len(local)
	for pg := c.cell.Overflow; pos < end; pos += chunk {
		if pg == 0 {
			return nil, value.Corruptf(pos, "overflow chain ends %d bytes early", end-pos)
		}
		page, err := c.r.readPage(pg)
		if err != nil {
			return nil, err
		}
		lo, hi := max(offset, pos)-pos, min(end, pos+chunk)-pos
		if lo < hi {
			out = append(out, page[4+lo:4+hi]...)
		}
		pg = pagebuf.PageNumber(binary.BigEndian.Uint32(page))
	}
	return out, nil
}
