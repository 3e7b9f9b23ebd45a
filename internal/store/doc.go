// Package store provides durable storage for survey records in one CSV file.
//
// The store owns exactly one backing file: a header line followed by zero or
// more data lines, each newline-terminated. It offers five operations:
//
//   - EnsureHeader: create the file with only the header if it is missing
//   - Append: read the whole file, add one encoded row, write it all back
//   - LoadAll: decode every row in file order (oldest first)
//   - Clear: delete the file and immediately re-create the header
//   - ExportText: the full file content, failing with NO_DATA when empty
//
// # File Format
//
//   - UTF-8, "\n" on write; "\r\n" and a missing final terminator accepted on read
//   - Header: the sixteen record.Columns joined by ","
//   - Rows: encoded by package codec
//
// # Failure Policy
//
// Format drift inside the file degrades instead of failing. A header that
// does not match the schema is reported as a HEADER_MISMATCH diagnostic on the
// LoadResult (and logged at WARN) but never blocks the load. A row with fewer
// than sixteen columns is skipped and recorded in LoadResult.Skipped. I/O
// failures are wrapped in an *Error with code IO and returned unchanged in
// meaning; they are never retried.
//
// # Concurrency
//
// Every operation holds the store mutex for its whole read-modify-write, so
// concurrent Appends on one Store never lose rows. Nothing protects the file
// from other processes or from a second Store over the same file.
package store
