// Package packed implements the zero-copy binary interchange format the
// engine uses to hand a fully parsed table to a host language: a fixed
// 24-byte header, a row-offset index, and a length-prefixed UTF-8 field
// zone, all integers little-endian. See Serialize and Deserialize.
package packed

import (
	"encoding/binary"
	"fmt"
)

// Magic identifies a packed buffer. The four bytes spell "VSCO" when read
// as little-endian ASCII, chosen to round-trip through Header.Magic
// unambiguously on read.
const Magic uint32 = 0x4F435356

// Version is the only packed-buffer layout this codec understands.
const Version uint32 = 1

// HeaderSize is the fixed byte length of the packed-buffer header.
const HeaderSize = 24

// maxFieldLen is the largest field length the u16 length prefix can hold.
const maxFieldLen = 1<<16 - 1

// ErrorKind identifies why a packed-buffer operation failed.
type ErrorKind int

const (
	// ErrFieldTooLong: a field's UTF-8 byte length exceeds 65535.
	ErrFieldTooLong ErrorKind = iota
	// ErrInconsistentFieldCount: rows disagree on field count during serialize.
	ErrInconsistentFieldCount
	// ErrMalformedBuffer: bad magic, bad version, size mismatch, or an
	// out-of-bounds offset/length during deserialize.
	ErrMalformedBuffer
)

func (k ErrorKind) String() string {
	switch k {
	case ErrFieldTooLong:
		return "field exceeds maximum packed length"
	case ErrInconsistentFieldCount:
		return "rows disagree on field count"
	case ErrMalformedBuffer:
		return "malformed packed buffer"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Error reports a packed-buffer serialize/deserialize failure.
type Error struct {
	Kind ErrorKind
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("csvengine/packed: %s: %s", e.Kind, e.Msg)
}

// Header mirrors the 24-byte packed-buffer header.
type Header struct {
	Magic      uint32
	Version    uint32
	RowCount   uint32
	FieldCount uint32
	TotalBytes uint64
}

// Serialize encodes rows into a packed buffer. Every row must have the
// same number of fields; a field longer than 65535 UTF-8 bytes or a
// ragged row set fails with an *Error.
func Serialize(rows [][]string) ([]byte, error) {
	var fieldCount int
	if len(rows) > 0 {
		fieldCount = len(rows[0])
	}
	for i, row := range rows {
		if len(row) != fieldCount {
			return nil, &Error{Kind: ErrInconsistentFieldCount, Msg: fmt.Sprintf("row %d has %d fields, want %d", i, len(row), fieldCount)}
		}
	}

	total := uint64(HeaderSize) + uint64(len(rows))*4
	for _, row := range rows {
		for _, f := range row {
			if len(f) > maxFieldLen {
				return nil, &Error{Kind: ErrFieldTooLong, Msg: fmt.Sprintf("field of %d bytes exceeds %d", len(f), maxFieldLen)}
			}
			total += 2 + uint64(len(f))
		}
	}

	buf := make([]byte, total)
	binary.LittleEndian.PutUint32(buf[0:4], Magic)
	binary.LittleEndian.PutUint32(buf[4:8], Version)
	binary.LittleEndian.PutUint32(buf[8:12], uint32(len(rows)))
	binary.LittleEndian.PutUint32(buf[12:16], uint32(fieldCount))
	binary.LittleEndian.PutUint64(buf[16:24], total)

	offsetsStart := HeaderSize
	fieldsStart := offsetsStart + len(rows)*4

	pos := fieldsStart
	for i, row := range rows {
		binary.LittleEndian.PutUint32(buf[offsetsStart+i*4:offsetsStart+i*4+4], uint32(pos))
		for _, f := range row {
			binary.LittleEndian.PutUint16(buf[pos:pos+2], uint16(len(f)))
			pos += 2
			copy(buf[pos:pos+len(f)], f)
			pos += len(f)
		}
	}
	return buf, nil
}

// Deserialize validates and decodes a packed buffer produced by
// Serialize. Every bounds check happens before any byte beyond the
// reported size is touched.
func Deserialize(buf []byte) ([][]string, error) {
	if len(buf) < HeaderSize {
		return nil, &Error{Kind: ErrMalformedBuffer, Msg: "buffer shorter than header"}
	}
	h := Header{
		Magic:      binary.LittleEndian.Uint32(buf[0:4]),
		Version:    binary.LittleEndian.Uint32(buf[4:8]),
		RowCount:   binary.LittleEndian.Uint32(buf[8:12]),
		FieldCount: binary.LittleEndian.Uint32(buf[12:16]),
		TotalBytes: binary.LittleEndian.Uint64(buf[16:24]),
	}
	if h.Magic != Magic {
		return nil, &Error{Kind: ErrMalformedBuffer, Msg: "bad magic"}
	}
	if h.Version != Version {
		return nil, &Error{Kind: ErrMalformedBuffer, Msg: fmt.Sprintf("unsupported version %d", h.Version)}
	}
	if h.TotalBytes != uint64(len(buf)) {
		return nil, &Error{Kind: ErrMalformedBuffer, Msg: "declared total_bytes does not match buffer length"}
	}

	offsetsStart := HeaderSize
	offsetsEnd := offsetsStart + int(h.RowCount)*4
	if offsetsEnd > len(buf) || offsetsEnd < offsetsStart {
		return nil, &Error{Kind: ErrMalformedBuffer, Msg: "row-offset array out of bounds"}
	}

	rows := make([][]string, h.RowCount)
	for i := 0; i < int(h.RowCount); i++ {
		off := binary.LittleEndian.Uint32(buf[offsetsStart+i*4 : offsetsStart+i*4+4])
		pos := int(off)
		if pos < offsetsEnd || pos > len(buf) {
			return nil, &Error{Kind: ErrMalformedBuffer, Msg: fmt.Sprintf("row %d offset out of bounds", i)}
		}
		row := make([]string, h.FieldCount)
		for j := 0; j < int(h.FieldCount); j++ {
			if pos+2 > len(buf) {
				return nil, &Error{Kind: ErrMalformedBuffer, Msg: fmt.Sprintf("row %d field %d length prefix out of bounds", i, j)}
			}
			flen := int(binary.LittleEndian.Uint16(buf[pos : pos+2]))
			pos += 2
			if pos+flen > len(buf) {
				return nil, &Error{Kind: ErrMalformedBuffer, Msg: fmt.Sprintf("row %d field %d out of bounds", i, j)}
			}
			row[j] = string(buf[pos : pos+flen])
			pos += flen
		}
		rows[i] = row
	}
	return rows, nil
}
