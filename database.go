package litestore

import (
	"encoding/binary"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/jordanwade90/litestore/config"
	"github.com/jordanwade90/litestore/internal/pagebuf"
	"github.com/jordanwade90/litestore/record"
)

// SchemaEntry is one row of the sqlite_schema table.
type SchemaEntry struct {
	Type      string             `json:"type"`
	Name      string             `json:"name"`
	TableName string             `json:"tbl_name"`
	RootPage  pagebuf.PageNumber `json:"rootpage"`
	SQL       string             `json:"sql"`
}

// Option configures a Database or a Reader.
type Option func(*options)

type options struct {
	cfg    *config.Config
	logger *slog.Logger
}

// WithConfig replaces the default configuration.
func WithConfig(cfg *config.Config) Option {
	return func(o *options) { o.cfg = cfg }
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

func buildOptions(opts []Option) (options, error) {
	o := options{cfg: config.Default(), logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.cfg == nil {
		o.cfg = config.Default()
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if err := o.cfg.Validate(); err != nil {
		return options{}, err
	}
	return o, nil
}

// Database represents a database file being created.
type Database struct {
	file           io.WriterAt
	nextPageNumber *atomic.Uint32
	cfg            *config.Config
	recordOpts     record.Options
	logger         *slog.Logger

	// schemaLock protects schemaRecords and closed
	schemaLock    sync.Mutex
	schemaRecords []SchemaEntry
	closed        bool
}

// OpenDatabase prepares to write a SQLite database to file.
func OpenDatabase(file io.WriterAt, opts ...Option) (*Database, error) {
	o, err := buildOptions(opts)
	if err != nil {
		return nil, err
	}

	db := &Database{
		file:           file,
		nextPageNumber: &atomic.Uint32{},
		cfg:            o.cfg,
		recordOpts:     o.cfg.RecordOptions(),
		logger:         o.logger.With("component", "database"),
	}
	db.nextPageNumber.Store(2)
	db.logger.Debug("database opened",
		"file_format", db.recordOpts.FileFormat,
		"encoding", db.recordOpts.Encoding.String())
	return db, nil
}

// Close writes the SQLite file header and the sqlite_schema table
// pointing to the root nodes of each Table.
// It does not close the file the database was opened on.
func (db *Database) Close() error {
	db.schemaLock.Lock()
	defer db.schemaLock.Unlock()

	if db.closed {
		panic("database closed")
	}
	db.closed = true

	hdr := pagebuf.NewDatabaseHeader(pageSize, db.recordOpts.FileFormat, db.recordOpts.Encoding)

	// Simple case: everything fits in a single leaf node
	for i, entry := range db.schemaRecords {
		row, err := db.writeSchemaRecord(i, entry)
		if err != nil {
			return err
		}
		if !hdr.Add(row) {
			return fmt.Errorf("schema of %d tables does not fit on page 1", len(db.schemaRecords))
		}
	}

	if _, err := db.file.WriteAt(hdr.Finish(), 0); err != nil {
		return err
	}
	db.logger.Info("database closed", "tables", len(db.schemaRecords), "pages", db.nextPageNumber.Load()-1)
	return nil
}

// OpenTable prepares the database for TableStreams to begin work on a new table.
func (db *Database) OpenTable() *Table {
	return &Table{
		parent:       db,
		interiorPage: make([]byte, pageSize),
		logger:       db.logger.With("component", "table"),
	}
}

// addSchemaRecord adds a row to the sqlite_schema table.
func (db *Database) addSchemaRecord(schema SchemaEntry) {
	db.schemaLock.Lock()
	defer db.schemaLock.Unlock()

	if db.closed {
		panic("database closed")
	}

	db.schemaRecords = append(db.schemaRecords, schema)
}

func (db *Database) addTableSchemaRecord(name, sql string, rootPage pagebuf.PageNumber) {
	db.addSchemaRecord(SchemaEntry{
		Type:      "table",
		Name:      name,
		TableName: name,
		RootPage:  rootPage,
		SQL:       sql,
	})
}

// allocPage allocates a page from the database file.
func (db *Database) allocPage() pagebuf.PageNumber {
	for {
		p := db.nextPageNumber.Add(1) - 1
		if p == 0 {
			panic("database too large")
		}
		if !isLockBytePage(p) {
			return pagebuf.PageNumber(p)
		}
	}
}

func isLockBytePage(pageNumber uint32) bool {
	return int64(pageNumber-1)*pageSize == 1073741824
}

func (db *Database) writePage(pageNumber pagebuf.PageNumber, page []byte) error {
	_, err := db.file.WriteAt(page, int64(pageNumber-1)*pageSize)
	return err
}

// writeOverflowPages spills the part of payload that does not fit in a leaf cell
// and returns the first overflow page and the part that stays on the leaf.
func (db *Database) writeOverflowPages(payload []byte) (overflowPointer pagebuf.PageNumber, onPage []byte, err error) {
	local := pagebuf.TableLeafPayloadOnPage(pageSize, len(payload))
	if len(payload) <= local {
		return 0, payload, nil
	}

	page := make([]byte, pageSize)
	overflow := payload[local:]
	overflowPointer = db.allocPage()
	thisPage := overflowPointer
	nextPage := pagebuf.PageNumber(0)

	for len(overflow) > pageSize-4 {
		nextPage = db.allocPage()
		binary.BigEndian.PutUint32(page, uint32(nextPage))
		copy(page[4:], overflow)
		overflow = overflow[pageSize-4:]
		if err = db.writePage(thisPage, page); err != nil {
			return 0, nil, err
		}
		thisPage = nextPage
	}

	binary.BigEndian.PutUint32(page, 0)
	copy(page[4:], overflow)
	clear(page[4+len(overflow):])
	if err = db.writePage(thisPage, page); err != nil {
		return 0, nil, err
	}
	return overflowPointer, payload[:local], nil
}

func (db *Database) writeSchemaRecord(rowid int, entry SchemaEntry) (row []byte, err error) {
	rec := record.NewRecord(db.recordOpts)
	rec.AppendString(entry.Type)
	rec.AppendString(entry.Name)
	rec.AppendString(entry.TableName)
	rec.AppendUint(uint64(entry.RootPage))
	rec.AppendString(entry.SQL)

	payload, err := rec.AppendTo(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to encode schema for %s: %w", entry.Name, err)
	}
	payloadLen := len(payload)
	overflowPointer, payload, err := db.writeOverflowPages(payload)
	if err != nil {
		return nil, err
	}
	return appendTableRow(nil, int64(payloadLen), int64(rowid+1), payload, overflowPointer), nil
}
