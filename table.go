package litestore

import (
	"context"
	"encoding/binary"
	"log/slog"
	"sync"

	"github.com/jordanwade90/litestore/internal/pagebuf"
	"github.com/jordanwade90/litestore/internal/svarint"
	"github.com/jordanwade90/litestore/record"
	"github.com/jordanwade90/litestore/value"
	"golang.org/x/sync/errgroup"
)

const (
	pageSize       = 65536
	minRowSize     = 4
	maxRowsPerPage = pageSize / minRowSize
)

// Table represents a table being created.
type Table struct {
	parent *Database
	logger *slog.Logger

	// interiorLock protects interiorNodes.
	interiorLock  sync.Mutex
	interiorNodes []*pagebuf.TableInterior
	interiorPage  []byte
	closed        bool
}

// OpenStream opens a TableStream for writing to this table.
func (tbl *Table) OpenStream() *TableStream {
	return &TableStream{
		parent: tbl,
		page:   pagebuf.NewTableLeaf(pageSize),
		cell:   make([]byte, 0, pageSize),
		rec:    record.NewRecord(tbl.parent.recordOpts),
	}
}

// WriteParallel writes each batch of rows through its own TableStream,
// running at most database.workers streams at once.
// Rows within a batch get increasing rowids; batches are not ordered relative to each other.
func (tbl *Table) WriteParallel(ctx context.Context, batches [][][]value.Value) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(tbl.parent.cfg.Database.Workers)

	for i, batch := range batches {
		g.Go(func() error {
			s := tbl.OpenStream()
			for _, row := range batch {
				if err := ctx.Err(); err != nil {
					return err
				}
				if _, err := s.WriteRow(row...); err != nil {
					return err
				}
			}
			if err := s.Close(); err != nil {
				return err
			}
			tbl.logger.Debug("batch written", "batch", i, "rows", len(batch))
			return nil
		})
	}
	return g.Wait()
}

// Close closes the B-tree and informs the Database of the root page number.
func (tbl *Table) Close(name, sql string) error {
	tbl.interiorLock.Lock()
	defer tbl.interiorLock.Unlock()

	if tbl.closed {
		panic("table closed")
	}
	tbl.closed = true

	rootPage, err := tbl.finishInteriorNodes()
	if err != nil {
		return err
	}
	tbl.parent.addTableSchemaRecord(name, sql, rootPage)
	tbl.logger.Info("table closed", "name", name, "root", rootPage, "depth", len(tbl.interiorNodes))
	return nil
}

// finishInteriorNodes writes out every buffered interior node, bottom up,
// and returns the root page.
func (tbl *Table) finishInteriorNodes() (pagebuf.PageNumber, error) {
	for i := 0; i < len(tbl.interiorNodes); i++ {
		node := tbl.interiorNodes[i]
		if node.Length() == 1 {
			rootPage, _ := node.Remove()
			return rootPage, nil
		}

		for {
			pageNum := tbl.parent.allocPage()
			rightmostRowid, empty := node.Put(tbl.interiorPage)
			if err := tbl.parent.writePage(pageNum, tbl.interiorPage); err != nil {
				return 0, err
			}

			if i+1 == len(tbl.interiorNodes) {
				if empty {
					// We just wrote the root page.
					return pageNum, nil
				}

				tbl.interiorNodes = append(tbl.interiorNodes, pagebuf.NewTableInterior(pageSize))
			}
			tbl.interiorNodes[i+1].Add(pageNum, rightmostRowid)

			if empty {
				break
			}
		}
	}

	// If there were no interior nodes the table must be empty.
	rootPage := tbl.parent.allocPage()
	return rootPage, tbl.parent.writePage(rootPage, pagebuf.NewTableLeaf(pageSize).Finish())
}

func (tbl *Table) allocRowidBlock() (int64, error) {
	tbl.interiorLock.Lock()
	defer tbl.interiorLock.Unlock()

	if tbl.closed {
		panic("table closed")
	}

	if len(tbl.interiorNodes) == 0 {
		tbl.interiorNodes = append(tbl.interiorNodes, pagebuf.NewTableInterior(pageSize))
	}

	pageNum := tbl.parent.allocPage()
	firstRowid := int64(pageNum) * maxRowsPerPage
	rightmostRowid := firstRowid + maxRowsPerPage - 1

	for i := 0; i < len(tbl.interiorNodes); i++ {
		if tbl.interiorNodes[i].Add(pageNum, rightmostRowid) {
			return firstRowid, nil
		}

		pageNum = tbl.parent.allocPage()
		rightmostRowid, _ = tbl.interiorNodes[i].Put(tbl.interiorPage)
		if err := tbl.parent.writePage(pageNum, tbl.interiorPage); err != nil {
			return 0, err
		}
	}

	tbl.interiorNodes = append(tbl.interiorNodes, pagebuf.NewTableInterior(pageSize))
	tbl.interiorNodes[len(tbl.interiorNodes)-1].Add(pageNum, rightmostRowid)
	return firstRowid, nil
}

func (tbl *Table) writeLeaf(lastRowid int64, page []byte) error {
	childPointer := pagebuf.PageNumber(lastRowid / maxRowsPerPage)
	return tbl.parent.writePage(childPointer, page)
}

// TableStream represents one stream of data being written to a Table.
// TableStreams are not thread-safe; open one TableStream per worker goroutine.
type TableStream struct {
	parent *Table
	// page helps write leaf pages
	page *pagebuf.TableLeaf
	// cell is a reusable buffer for formatting cells
	cell []byte
	// rec and payload are reusable buffers for encoding rows
	rec     *record.Record
	payload []byte
	// The rowid of the next cell written.
	nextRowid int64
}

// Close informs the parent Table that this TableStream is finished writing,
// passing it any bookkeeping information required to construct the B-tree.
func (s *TableStream) Close() error {
	return s.Flush()
}

// Flush flushes any buffered pages.
// WriteRow will begin with a new page if called after Flush.
func (s *TableStream) Flush() error {
	if s.page.IsEmpty() {
		return nil
	}

	err := s.parent.writeLeaf(s.nextRowid-1, s.page.Finish())
	s.nextRowid = 0
	return err
}

// WriteRow encodes values as a record in the database's text encoding and file format,
// and writes it as one row, returning the rowid assigned to the row.
// Values the record codec cannot represent fail with value.ErrInvalidArgument
// and leave the stream unchanged.
func (s *TableStream) WriteRow(values ...value.Value) (rowid int64, err error) {
	s.rec.Reset()
	for _, v := range values {
		if err := s.rec.Append(v); err != nil {
			return 0, err
		}
	}
	if s.payload, err = s.rec.AppendTo(s.payload[:0]); err != nil {
		return 0, err
	}
	return s.WriteRecord(s.payload)
}

// WriteRecord writes one row to the table whose contents are the encoded record payload,
// returning the rowid assigned to the row
// and any error resulting from writing pages to the database.
//
// WriteRecord does not retain payload.
func (s *TableStream) WriteRecord(payload []byte) (rowid int64, err error) {
	if s.nextRowid == 0 {
		if s.nextRowid, err = s.parent.allocRowidBlock(); err != nil {
			return 0, err
		}
	}

	payloadLen := len(payload)
	overflowPointer, payload, err := s.parent.parent.writeOverflowPages(payload)
	if err != nil {
		return 0, err
	}

	for {
		rowid = s.nextRowid
		s.cell = appendTableRow(s.cell[:0], int64(payloadLen), rowid, payload, overflowPointer)
		if s.page.Add(s.cell) {
			s.nextRowid++
			return
		}
		if err = s.Flush(); err != nil {
			return 0, err
		}
		if s.nextRowid, err = s.parent.allocRowidBlock(); err != nil {
			return 0, err
		}
	}
}

func appendTableRow(buf []byte, payloadLen, rowid int64, payload []byte, overflowPointer pagebuf.PageNumber) []byte {
	buf = svarint.Append(buf, payloadLen)
	buf = svarint.Append(buf, rowid)
	buf = append(buf, payload...)
	if overflowPointer != 0 {
		buf = binary.BigEndian.AppendUint32(buf, uint32(overflowPointer))
	}
	return buf
}
