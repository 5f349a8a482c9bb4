package engine

import "fmt"

// DefaultMaxRowSize is the default upper bound, in bytes, on a single
// record's accumulated field content.
const DefaultMaxRowSize = 1 << 20 // 1 MiB

// Config holds the recognized parse options and their effects. Config is
// immutable for the duration of one parse: every field is a plain value,
// never a pointer shared with the caller, mirroring the teacher's own
// ReaderOptions / DefaultReaderOptions pair.
type Config struct {
	// Delimiter separates fields. Default: ','.
	Delimiter byte
	// Quote opens and closes quoted fields. Default: '"'.
	Quote byte
	// Escape, when doubled inside a quoted field, represents a literal
	// quote. v1 supports only Escape == Quote.
	Escape byte
	// Comment, if nonzero, marks lines beginning with this byte at the
	// true start of a record (not merely at FieldStart after a
	// delimiter) for skipping, including their terminator.
	Comment byte
	// SkipEmptyLines causes a record consisting of exactly one empty
	// field to be discarded rather than emitted as a row.
	SkipEmptyLines bool
	// Trim removes leading and trailing ASCII whitespace from unquoted
	// fields. Quoted fields are never trimmed.
	Trim bool
	// Relaxed permits RFC 4180 structural violations without failing
	// the parse; offending bytes are treated as literal content.
	Relaxed bool
	// MaxRowSize bounds the accumulated bytes of a single record.
	MaxRowSize int
	// FromLine is the inclusive lower bound (1-indexed) of the record
	// window; 0 means no lower bound.
	FromLine int
	// ToLine is the exclusive upper bound (1-indexed) of the record
	// window; -1 means no upper bound.
	ToLine int
	// SkipLinesWithError discards a record that hits a local structural
	// error (in strict mode) instead of aborting the whole parse.
	SkipLinesWithError bool
}

// DefaultConfig returns the RFC 4180 default configuration.
func DefaultConfig() Config {
	return Config{
		Delimiter:          ',',
		Quote:              '"',
		Escape:             '"',
		Comment:            0,
		SkipEmptyLines:     false,
		Trim:               false,
		Relaxed:            false,
		MaxRowSize:         DefaultMaxRowSize,
		FromLine:           0,
		ToLine:             -1,
		SkipLinesWithError: false,
	}
}

// Validate rejects configurations the engine cannot support.
func (c Config) Validate() error {
	if c.Delimiter >= 0x80 {
		return fmt.Errorf("csvengine: delimiter must be a single-byte ASCII character")
	}
	if c.Quote >= 0x80 {
		return fmt.Errorf("csvengine: quote must be a single-byte ASCII character")
	}
	if c.Delimiter == c.Quote {
		return fmt.Errorf("csvengine: delimiter and quote must differ")
	}
	if c.Delimiter == '\n' || c.Delimiter == '\r' {
		return fmt.Errorf("csvengine: delimiter cannot be a newline byte")
	}
	if c.Quote == '\n' || c.Quote == '\r' {
		return fmt.Errorf("csvengine: quote cannot be a newline byte")
	}
	if c.Escape != c.Quote {
		return fmt.Errorf("csvengine: escape must equal quote; decoupled escape bytes are not supported in v1")
	}
	if c.Comment != 0 {
		if c.Comment >= 0x80 {
			return fmt.Errorf("csvengine: comment must be a single-byte ASCII character")
		}
		if c.Comment == c.Delimiter {
			return fmt.Errorf("csvengine: comment character same as delimiter")
		}
		if c.Comment == c.Quote {
			return fmt.Errorf("csvengine: comment character same as quote")
		}
	}
	if c.MaxRowSize <= 0 {
		return fmt.Errorf("csvengine: MaxRowSize must be positive")
	}
	if c.ToLine != -1 && c.ToLine < 0 {
		return fmt.Errorf("csvengine: ToLine must be -1 or non-negative")
	}
	if c.FromLine < 0 {
		return fmt.Errorf("csvengine: FromLine must be non-negative")
	}
	return nil
}
