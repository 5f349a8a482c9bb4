// Package engine implements the RFC 4180 state machine and the Parser
// Context that owns a parse's buffers: the field accumulator, the
// completed rows, and the line counter. It is the core of the core —
// every other package in this module (streaming, packed, ffi, pkg/csv)
// builds on top of a Context.
package engine

import (
	"github.com/shapestone/csvengine/internal/scanner"
)

const initialFieldCapacity = 1024 // >= 1 KiB, per the distilled spec's accumulator sizing.

// Context owns a growable field accumulator, the fields collected for the
// record in progress, the rows completed so far, and the state-machine's
// position. It is not safe for concurrent use; a context is mutated only
// by FeedChunk/Parse and must not be shared between goroutines running
// parses at the same time. Separate contexts are fully independent.
type Context struct {
	Config Config

	// OnError, if set, is invoked at the point a structural error is
	// detected, strict or relaxed. Its return value is not consulted: a
	// strict parse stops at the error (or, with SkipLinesWithError, drops
	// the record and continues), and a relaxed parse always continues.
	OnError func(*ParseError) bool

	state         State
	inComment     bool
	inDiscard     bool
	fieldWasQuoted bool
	rowTooLarge   bool

	field []byte
	row   []string
	rows  [][]string

	line         int
	column       int
	recordNumber int
	rowBytes     int
}

// NewContext constructs a Context with the given configuration and
// preallocated buffers.
func NewContext(cfg Config) *Context {
	c := &Context{Config: cfg}
	c.Reset()
	return c
}

// Reset releases prior rows and returns the context to its initial state,
// as happens implicitly at the start of every Parse call.
func (c *Context) Reset() {
	c.state = FieldStart
	c.inComment = false
	c.inDiscard = false
	c.fieldWasQuoted = false
	c.rowTooLarge = false
	if cap(c.field) < initialFieldCapacity {
		c.field = make([]byte, 0, initialFieldCapacity)
	} else {
		c.field = c.field[:0]
	}
	c.row = make([]string, 0, 8)
	c.rows = nil
	c.line = 1
	c.column = 1
	c.recordNumber = 1
	c.rowBytes = 0
}

// RowCount returns the number of rows retained by the last parse.
func (c *Context) RowCount() int { return len(c.rows) }

// FieldCount returns the number of fields in row, or -1 if out of range.
func (c *Context) FieldCount(row int) int {
	if row < 0 || row >= len(c.rows) {
		return -1
	}
	return len(c.rows[row])
}

// Field returns the stored field string, or ("", false) if out of range.
// The returned string is a view into context-owned storage invalidated by
// the next Parse or Reset.
func (c *Context) Field(row, field int) (string, bool) {
	if row < 0 || row >= len(c.rows) {
		return "", false
	}
	r := c.rows[row]
	if field < 0 || field >= len(r) {
		return "", false
	}
	return r[field], true
}

// Rows returns the full row set retained by the last parse. Callers must
// not mutate the returned slices; they are owned by the context.
func (c *Context) Rows() [][]string { return c.rows }

// Parse resets the context, runs the state machine over data to
// completion, and returns the first error encountered in strict mode (nil
// on success, including on an empty input).
func (c *Context) Parse(data []byte) error {
	c.Reset()
	_, err := c.FeedChunk(data, true)
	return err
}

// FeedChunk runs the state machine over data starting at position 0.
// When final is false and the state machine cannot safely decide how to
// interpret a trailing lone '\r' (it might start a CRLF terminator
// completed by the next chunk), FeedChunk stops short of that byte and
// returns the number of bytes actually consumed; the caller must retain
// data[consumed:] and prepend it to the next chunk. When final is true,
// FeedChunk always consumes the entire input and additionally finalizes
// any pending field/row and resolves any still-open quoted field.
func (c *Context) FeedChunk(data []byte, final bool) (consumed int, err error) {
	pos := 0
	n := len(data)

	for pos < n {
		if c.inComment {
			newPos, terminated := c.consumeToTerminator(data, pos)
			pos = newPos
			if !terminated {
				if final {
					c.inComment = false
				}
				break
			}
			c.inComment = false
			c.line++
			continue
		}
		if c.inDiscard {
			newPos, terminated := c.consumeToTerminator(data, pos)
			pos = newPos
			if !terminated {
				if final {
					c.inDiscard = false
				}
				break
			}
			c.inDiscard = false
			c.line++
			c.recordNumber++
			c.state = FieldStart
			continue
		}

		switch c.state {
		case FieldStart:
			b := data[pos]

			if c.Config.Comment != 0 && b == c.Config.Comment && len(c.row) == 0 && len(c.field) == 0 {
				c.inComment = true
				pos++
				continue
			}
			if b == c.Config.Quote {
				c.fieldWasQuoted = true
				c.state = InQuotedField
				pos++
				continue
			}
			if b == c.Config.Delimiter {
				c.commitField()
				pos++
				continue
			}
			if b == '\n' {
				c.commitField()
				c.commitRow()
				c.line++
				pos++
				continue
			}
			if b == '\r' {
				newPos, needMore := c.consumeTerminator(data, pos, final)
				if needMore {
					return pos, nil
				}
				c.commitField()
				c.commitRow()
				c.line++
				pos = newPos
				continue
			}
			c.state = InField
			continue

		case InField:
			pos = c.bulkAppendUnquoted(data, pos)
			if handled, err := c.checkRowTooLarge(); handled {
				if err != nil {
					return pos, err
				}
				continue
			}
			if pos >= n {
				break
			}
			b := data[pos]
			switch {
			case b == c.Config.Delimiter:
				c.commitField()
				c.state = FieldStart
				pos++
			case b == '\n':
				c.commitField()
				c.commitRow()
				c.line++
				c.state = FieldStart
				pos++
			case b == '\r':
				newPos, needMore := c.consumeTerminator(data, pos, final)
				if needMore {
					return pos, nil
				}
				c.commitField()
				c.commitRow()
				c.line++
				c.state = FieldStart
				pos = newPos
			case b == c.Config.Quote:
				if err := c.handleUnexpectedQuote(data, &pos); err != nil {
					return pos, err
				}
			}

		case InQuotedField:
			newPos, hitEOF := c.bulkAppendQuoted(data, pos)
			pos = newPos
			if handled, err := c.checkRowTooLarge(); handled {
				if err != nil {
					return pos, err
				}
				continue
			}
			if hitEOF {
				break
			}
			// data[pos] == quote
			pos++
			c.state = QuoteInQuote

		case QuoteInQuote:
			b := data[pos]
			switch {
			case b == c.Config.Quote:
				c.appendByte('"')
				c.state = InQuotedField
				pos++
			case b == c.Config.Delimiter:
				c.commitField()
				c.state = FieldStart
				pos++
			case b == '\n':
				c.commitField()
				c.commitRow()
				c.line++
				c.state = FieldStart
				pos++
			case b == '\r':
				newPos, needMore := c.consumeTerminator(data, pos, final)
				if needMore {
					return pos, nil
				}
				c.commitField()
				c.commitRow()
				c.line++
				c.state = FieldStart
				pos = newPos
			case isASCIISpace(b) && c.Config.Relaxed:
				pos++
			default:
				if err := c.handleStrayData(data, &pos); err != nil {
					return pos, err
				}
			}
		}
	}

	if final {
		c.inComment = false
		if c.inDiscard {
			c.inDiscard = false
			c.line++
			c.recordNumber++
		}
		if err := c.finish(); err != nil {
			return n, err
		}
	}
	return n, nil
}

// bulkAppendUnquoted advances pos over a run of ordinary unquoted-field
// bytes starting at pos, appending them (with '\r' filtered out, per
// bulk_append_no_cr) to the field accumulator. It stops at the first
// delimiter, quote, '\n', or '\r', or at the end of data.
func (c *Context) bulkAppendUnquoted(data []byte, pos int) int {
	n := len(data)
	special, _ := scanner.FindAnySpecial(data, c.Config.Delimiter, c.Config.Quote, pos)
	cr := scanner.FindByte(data, '\r', pos)
	boundary := n
	if special != scanner.NotFound && special < boundary {
		boundary = special
	}
	if cr != scanner.NotFound && cr < boundary {
		boundary = cr
	}
	if boundary > pos {
		c.field = scanner.BulkAppendNoCR(c.field, data, pos, boundary)
		c.accountBytes(boundary - pos)
	}
	return boundary
}

// bulkAppendQuoted advances pos over a run of quoted-field bytes,
// appending every byte verbatim (no '\r' filtering — quoted content
// preserves every byte) and counting embedded newlines toward the line
// counter. It stops at the next quote byte, returning hitEOF=true if the
// chunk ends before a quote is found.
func (c *Context) bulkAppendQuoted(data []byte, pos int) (newPos int, hitEOF bool) {
	q := scanner.FindByte(data, c.Config.Quote, pos)
	end := len(data)
	if q != scanner.NotFound {
		end = q
	}
	if end > pos {
		chunk := data[pos:end]
		c.field = append(c.field, chunk...)
		c.accountBytes(end - pos)
		for _, b := range chunk {
			if b == '\n' {
				c.line++
			}
		}
	}
	if q == scanner.NotFound {
		return len(data), true
	}
	return end, false
}

// consumeTerminator resolves a '\r' at data[pos]: if followed by '\n' in
// this chunk, both are consumed as one terminator; if followed by any
// other byte, the '\r' alone is the terminator; if pos is the last byte
// of a non-final chunk, it cannot be resolved yet and needMore is true
// (the caller must leave the '\r' as carryover).
func (c *Context) consumeTerminator(data []byte, pos int, final bool) (newPos int, needMore bool) {
	if pos+1 < len(data) {
		if data[pos+1] == '\n' {
			return pos + 2, false
		}
		return pos + 1, false
	}
	if final {
		return pos + 1, false
	}
	return pos, true
}

// consumeToTerminator advances pos past a skipped (comment or discarded)
// line's bytes up to and including its terminator, without touching the
// field/row accumulators. It returns terminated=false if the chunk ends
// without finding one, in which case skip-mode must persist across the
// next FeedChunk call.
func (c *Context) consumeToTerminator(data []byte, pos int) (newPos int, terminated bool) {
	for pos < len(data) {
		b := data[pos]
		if b == '\n' {
			return pos + 1, true
		}
		if b == '\r' {
			if pos+1 < len(data) && data[pos+1] == '\n' {
				return pos + 2, true
			}
			return pos + 1, true
		}
		pos++
	}
	return pos, false
}

// handleUnexpectedQuote processes a quote byte encountered while InField.
// In relaxed mode the quote is appended literally. In strict mode, either
// the whole record is discarded and resynced (SkipLinesWithError) or the
// parse is aborted with a ParseError.
func (c *Context) handleUnexpectedQuote(data []byte, pos *int) error {
	if c.Config.Relaxed {
		c.reportError(ErrUnexpectedQuote, true)
		c.appendByte(data[*pos])
		*pos++
		return nil
	}
	c.reportError(ErrUnexpectedQuote, false)
	if c.Config.SkipLinesWithError {
		c.discardRecord()
		*pos++
		return nil
	}
	return &ParseError{Line: c.line, Column: c.column, Kind: ErrUnexpectedQuote}
}

// handleStrayData processes a non-terminator byte encountered while
// QuoteInQuote (relaxed mode reaches here only for non-whitespace, since
// the caller consumes whitespace; strict mode reaches here for any byte).
func (c *Context) handleStrayData(data []byte, pos *int) error {
	if c.Config.Relaxed {
		c.reportError(ErrStrayDataAfterQuote, true)
		c.appendByte(data[*pos])
		c.state = InField
		*pos++
		return nil
	}
	c.reportError(ErrStrayDataAfterQuote, false)
	if c.Config.SkipLinesWithError {
		c.discardRecord()
		*pos++
		return nil
	}
	return &ParseError{Line: c.line, Column: c.column, Kind: ErrStrayDataAfterQuote}
}

// discardRecord drops the record in progress and enters skip-to-newline
// mode so the caller can keep parsing from the next record.
func (c *Context) discardRecord() {
	c.field = c.field[:0]
	c.row = c.row[:0]
	c.rowBytes = 0
	c.rowTooLarge = false
	c.fieldWasQuoted = false
	c.state = FieldStart
	c.inDiscard = true
}

// reportError builds a ParseError and invokes OnError if set. It returns
// true when OnError returned false; no caller acts on that result.
func (c *Context) reportError(kind ErrorKind, recovered bool) (abort bool) {
	if c.OnError == nil {
		return false
	}
	pe := &ParseError{Line: c.line, Column: c.column, Kind: kind, Recovered: recovered}
	cont := c.OnError(pe)
	return !cont
}

// appendByte appends a single byte to the field accumulator, enforcing
// MaxRowSize.
func (c *Context) appendByte(b byte) {
	c.field = append(c.field, b)
	c.accountBytes(1)
}

// accountBytes tracks the record's accumulated size and reports
// RowTooLarge once, per the distilled spec's "checked on each append"
// rule. Relaxed mode logs the condition (if OnError is set) but does not
// stop accumulating.
func (c *Context) accountBytes(n int) {
	c.rowBytes += n
	if c.rowBytes > c.Config.MaxRowSize && !c.rowTooLarge {
		c.rowTooLarge = true
		c.reportError(ErrRowTooLarge, c.Config.Relaxed)
	}
}

// checkRowTooLarge consumes a pending RowTooLarge condition raised by
// accountBytes. In relaxed mode accumulation simply continues (handled is
// false). In strict mode the record is either resynced
// (SkipLinesWithError) or the parse aborts; handled is true in both cases
// so the caller skips further processing of the byte that triggered it.
func (c *Context) checkRowTooLarge() (handled bool, err error) {
	if !c.rowTooLarge || c.Config.Relaxed {
		return false, nil
	}
	if c.Config.SkipLinesWithError {
		c.discardRecord()
		return true, nil
	}
	return true, &ParseError{Line: c.line, Column: c.column, Kind: ErrRowTooLarge}
}

// commitField moves the field accumulator into the current row, applying
// Trim when the field was not quoted.
func (c *Context) commitField() {
	val := c.field
	if c.Config.Trim && !c.fieldWasQuoted {
		val = trimASCIISpace(val)
	}
	c.row = append(c.row, string(val))
	c.field = c.field[:0]
	c.fieldWasQuoted = false
}

// commitRow finalizes the record in progress: applies SkipEmptyLines and
// the FromLine/ToLine window, then resets for the next record.
func (c *Context) commitRow() {
	if c.rowInWindow() && !c.rowIsSkippedEmpty() {
		stored := make([]string, len(c.row))
		copy(stored, c.row)
		c.rows = append(c.rows, stored)
	}
	c.row = c.row[:0]
	c.rowBytes = 0
	c.rowTooLarge = false
	c.recordNumber++
}

func (c *Context) rowIsSkippedEmpty() bool {
	return c.Config.SkipEmptyLines && len(c.row) == 1 && c.row[0] == ""
}

func (c *Context) rowInWindow() bool {
	if c.Config.FromLine != 0 && c.recordNumber < c.Config.FromLine {
		return false
	}
	if c.Config.ToLine != -1 && c.recordNumber >= c.Config.ToLine {
		return false
	}
	return true
}

// finish performs end-of-input handling: emits any pending field/row and
// resolves a still-open quoted field per Relaxed.
func (c *Context) finish() error {
	switch c.state {
	case InQuotedField, QuoteInQuote:
		if !c.Config.Relaxed {
			c.reportError(ErrUnterminatedQuotedField, false)
			if c.Config.SkipLinesWithError {
				c.discardRecord()
				c.inDiscard = false
				c.state = FieldStart
				return nil
			}
			return &ParseError{Line: c.line, Column: c.column, Kind: ErrUnterminatedQuotedField}
		}
		c.reportError(ErrUnterminatedQuotedField, true)
		c.commitField()
		c.commitRow()
	case FieldStart:
		if len(c.row) > 0 || len(c.field) > 0 {
			c.commitField()
			c.commitRow()
		}
	case InField:
		c.commitField()
		c.commitRow()
	}
	c.state = FieldStart
	return nil
}

func isASCIISpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\v' || b == '\f'
}

func trimASCIISpace(b []byte) []byte {
	start, end := 0, len(b)
	for start < end && isASCIISpace(b[start]) {
		start++
	}
	for end > start && isASCIISpace(b[end-1]) {
		end--
	}
	return b[start:end]
}
