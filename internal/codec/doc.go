// Package codec converts survey records to and from CSV text lines.
//
// The codec is pure: no I/O, no logging. It implements the minimal quoting
// rule of the backing file:
//
//   - A free-text value is wrapped in double quotes only when it contains a
//     comma, a double quote or a newline; inner quotes are doubled.
//   - Boolean columns render as Y or N and never need quoting.
//   - SplitLine is the exact inverse of EncodeRow, so
//     DecodeRow(SplitLine(EncodeRow(r)), DefaultHeaderIndex()) == r.
//
// Decoding is lenient by contract. Malformed quoting never fails (an
// unterminated quote swallows the rest of the line), a boolean is true only
// for "Y" (case-insensitive, trimmed), and an unparsable id decodes to
// InvalidID instead of raising an error. Only a short row fails, with
// ErrMalformedRow.
package codec
