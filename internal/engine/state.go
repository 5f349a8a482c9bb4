package engine

// State is the parse state sum type driving the RFC 4180 state machine.
type State uint8

const (
	// FieldStart is the position right before a field begins: a quote
	// opens a quoted field, a delimiter ends an empty field, a newline
	// ends an empty record, anything else begins an unquoted field.
	FieldStart State = iota
	// InField is inside an unquoted field's content.
	InField
	// InQuotedField is inside a quoted field's content, between the
	// opening quote and whatever follows the next quote byte.
	InQuotedField
	// QuoteInQuote has just seen a quote while InQuotedField; the next
	// byte decides whether it was an escape (doubled quote) or the
	// field's closing quote.
	QuoteInQuote
	// FieldEnd is transient: it is never retained between bytes, only
	// used to describe the action taken at a delimiter/terminator.
	FieldEnd
)

func (s State) String() string {
	switch s {
	case FieldStart:
		return "FieldStart"
	case InField:
		return "InField"
	case InQuotedField:
		return "InQuotedField"
	case QuoteInQuote:
		return "QuoteInQuote"
	case FieldEnd:
		return "FieldEnd"
	default:
		return "Unknown"
	}
}
