// Package litestore reads and writes SQLite database files without SQLite,
// built on a standalone implementation of SQLite's record format.
//
// The record format is the heart of the file format:
// every table row and index entry is a record,
// a header of serial types followed by the column bodies.
// Package value holds the dynamically typed cell values, affinities and collations.
// Package record encodes records, decodes them lazily through a cursor,
// and compares index keys the way SQLite's B-tree layer does.
// See https://sqlite.org/fileformat2.html#record_format.
//
// This package supplies the B-tree around those records.
// Writing is streaming and parallel:
// many TableStreams each generate leaf nodes independently,
// and a single-threaded fixup phase at the end generates interior nodes and the file header.
// The library arranges rowids so that the independent streams of leaf nodes
// can always be merged into a valid B-tree.
// Closing a Table creates the interior nodes of the B-tree.
// Closing a Database creates the `sqlite_schema` table pointing to the root nodes of each table.
//
// Reading goes through a TableCursor, which walks a table B-tree in rowid order
// and serves as the record.Cursor that rows are unpacked from.
// Overflow pages are only read when a requested column lies on them.
package litestore
