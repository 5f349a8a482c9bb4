// Package csv is the Go-native public entry point to the CSV engine: an
// in-memory Parse/ParseReader pair plus an incremental Scanner for
// bounded-memory parsing of large inputs. It is a thin, friendly face
// over internal/engine and internal/streaming — it owns no parsing logic
// of its own.
package csv

import "github.com/shapestone/csvengine/internal/engine"

// Options controls how Parse, ParseReader, and NewScanner interpret
// input. The zero value is equivalent to DefaultOptions: a zero
// Delimiter, Quote or MaxRowSize selects the default, and a zero ToLine
// means no upper bound.
type Options struct {
	// Delimiter separates fields. Default: ','.
	Delimiter byte
	// Quote opens and closes quoted fields. Default: '"'.
	Quote byte
	// Comment, if nonzero, marks lines to skip entirely when they begin
	// a record. Default: 0 (disabled).
	Comment byte
	// SkipEmptyLines discards a record consisting of exactly one empty
	// field instead of emitting it as a row.
	SkipEmptyLines bool
	// Trim removes leading/trailing ASCII whitespace from unquoted
	// fields.
	Trim bool
	// Relaxed permits RFC 4180 structural violations without failing
	// the parse.
	Relaxed bool
	// MaxRowSize bounds the accumulated bytes of a single record. Zero
	// means DefaultOptions' value.
	MaxRowSize int
	// FromLine is the inclusive lower bound (1-indexed) of the record
	// window; 0 means no lower bound.
	FromLine int
	// ToLine is the exclusive upper bound (1-indexed) of the record
	// window; 0 means no upper bound (note: internally represented as
	// -1; this package translates zero so the Options zero value stays
	// meaningful for FromLine/ToLine together).
	ToLine int
	// SkipLinesWithError discards a record that hits a structural error
	// in strict mode instead of aborting the whole parse.
	SkipLinesWithError bool
}

// DefaultOptions returns the RFC 4180 defaults.
func DefaultOptions() Options {
	d := engine.DefaultConfig()
	return Options{
		Delimiter:          d.Delimiter,
		Quote:              d.Quote,
		Comment:            d.Comment,
		SkipEmptyLines:     d.SkipEmptyLines,
		Trim:               d.Trim,
		Relaxed:            d.Relaxed,
		MaxRowSize:         d.MaxRowSize,
		FromLine:           d.FromLine,
		ToLine:             0,
		SkipLinesWithError: d.SkipLinesWithError,
	}
}

func (o Options) toConfig() engine.Config {
	cfg := engine.DefaultConfig()
	if o.Delimiter != 0 {
		cfg.Delimiter = o.Delimiter
	}
	if o.Quote != 0 {
		cfg.Quote = o.Quote
		cfg.Escape = o.Quote
	}
	cfg.Comment = o.Comment
	cfg.SkipEmptyLines = o.SkipEmptyLines
	cfg.Trim = o.Trim
	cfg.Relaxed = o.Relaxed
	if o.MaxRowSize > 0 {
		cfg.MaxRowSize = o.MaxRowSize
	}
	cfg.FromLine = o.FromLine
	if o.ToLine > 0 {
		cfg.ToLine = o.ToLine
	} else {
		cfg.ToLine = -1
	}
	cfg.SkipLinesWithError = o.SkipLinesWithError
	return cfg
}
