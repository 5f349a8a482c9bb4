// Package ffi implements the stable, language-neutral surface the engine
// exposes to host processes: create/destroy a parser, feed it a byte
// slice, read back row/field counts and field content, and serialize the
// parsed table to a packed buffer. The pure-Go logic lives here, fully
// testable without cgo; cgo_exports.go is the thin, untestable C-ABI
// skin built only with the cgo tag (see that file's doc comment).
package ffi

import (
	"runtime/cgo"

	"github.com/shapestone/csvengine/internal/engine"
	"github.com/shapestone/csvengine/internal/packed"
)

// Parser is the object an opaque FFI handle resolves to. It owns one
// engine.Context and is not safe for concurrent use from multiple
// threads without host-side synchronization, matching the distilled
// spec's single-threaded-per-context concurrency model.
type Parser struct {
	ctx *engine.Context
}

// NewParser allocates a Parser with the RFC 4180 default configuration.
func NewParser() *Parser {
	return &Parser{ctx: engine.NewContext(engine.DefaultConfig())}
}

// ParseString parses data as a complete input, replacing any rows from a
// prior parse.
func (p *Parser) ParseString(data []byte) error {
	return p.ctx.Parse(data)
}

// RowCount returns the number of rows retained from the last parse.
func (p *Parser) RowCount() int { return p.ctx.RowCount() }

// FieldCount returns the field count of row, or -1 if out of range.
func (p *Parser) FieldCount(row int) int { return p.ctx.FieldCount(row) }

// Field returns the field string at (row, field), or ("", false) if out
// of range.
func (p *Parser) Field(row, field int) (string, bool) { return p.ctx.Field(row, field) }

// PackedBuffer serializes the current rows to the packed binary format.
func (p *Parser) PackedBuffer() ([]byte, error) {
	return packed.Serialize(p.ctx.Rows())
}

// NewHandle wraps p in a runtime/cgo.Handle so the FFI boundary carries
// an opaque, GC-safe integer identity instead of a raw Go pointer.
func NewHandle(p *Parser) cgo.Handle { return cgo.NewHandle(p) }

// Lookup resolves a handle back to its Parser. It panics if h does not
// refer to a live Parser handle; callers at the cgo boundary must guard
// against a forged or already-deleted handle before calling this.
func Lookup(h cgo.Handle) *Parser { return h.Value().(*Parser) }

// Release invalidates h. The underlying Parser becomes eligible for
// garbage collection once no other reference remains.
func Release(h cgo.Handle) { h.Delete() }
