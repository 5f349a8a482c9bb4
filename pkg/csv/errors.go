package csv

import "github.com/shapestone/csvengine/internal/engine"

// ParseError and ErrorKind are re-exported from internal/engine so
// callers of this package never need to import the internal package
// directly to use errors.As/errors.Is against a parse failure.
type (
	ParseError = engine.ParseError
	ErrorKind  = engine.ErrorKind
)

// Error kinds a ParseError.Kind may hold, re-exported from internal/engine.
const (
	ErrUnterminatedQuotedField = engine.ErrUnterminatedQuotedField
	ErrStrayDataAfterQuote     = engine.ErrStrayDataAfterQuote
	ErrUnexpectedQuote         = engine.ErrUnexpectedQuote
	ErrRowTooLarge             = engine.ErrRowTooLarge
	ErrStreamFinalized         = engine.ErrStreamFinalized
)
