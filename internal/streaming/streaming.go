// Package streaming adapts the engine's chunk-at-a-time state machine to
// callers that receive CSV data incrementally (a socket, a growing file,
// an FFI host feeding bytes across a language boundary). It owns the one
// piece of state the engine itself does not retain across calls: a
// single trailing byte of carryover for an unresolved bare '\r'.
package streaming

import (
	"github.com/google/uuid"

	"github.com/shapestone/csvengine/internal/engine"
)

// Context is a streaming parse in progress. It is not safe for
// concurrent use.
type Context struct {
	id uuid.UUID

	eng       *engine.Context
	carryover []byte

	emitted int // index into eng.Rows() of the next row not yet returned by CompleteRows.

	finalized bool
}

// New creates a streaming Context over the given configuration. Each
// Context has a unique ID, stable for its lifetime, that callers can use
// to correlate a parse in progress with their own bookkeeping.
func New(cfg engine.Config) *Context {
	return &Context{
		id:  uuid.New(),
		eng: engine.NewContext(cfg),
	}
}

// ID returns the context's identity, stable for its lifetime.
func (c *Context) ID() string { return c.id.String() }

// ProcessChunk feeds the next slice of input into the parser. It may be
// called any number of times before Finalize. chunk is not retained
// beyond this call except for at most one trailing carryover byte.
func (c *Context) ProcessChunk(chunk []byte) error {
	if c.finalized {
		return &engine.ParseError{Kind: engine.ErrStreamFinalized}
	}
	var buf []byte
	if len(c.carryover) > 0 {
		buf = make([]byte, 0, len(c.carryover)+len(chunk))
		buf = append(buf, c.carryover...)
		buf = append(buf, chunk...)
	} else {
		buf = chunk
	}

	consumed, err := c.eng.FeedChunk(buf, false)
	if err != nil {
		return err
	}
	if consumed < len(buf) {
		c.carryover = append(c.carryover[:0], buf[consumed:]...)
	} else {
		c.carryover = c.carryover[:0]
	}
	return nil
}

// Finalize signals end of input: any carryover byte and any field/row in
// progress are resolved. After Finalize, ProcessChunk must not be called
// again; CompleteRows/ClearRows remain usable to drain the last rows.
func (c *Context) Finalize() error {
	if c.finalized {
		return nil
	}
	c.finalized = true
	_, err := c.eng.FeedChunk(c.carryover, true)
	c.carryover = nil
	return err
}

// CompleteRows returns the rows produced since the last call to
// CompleteRows or ClearRows. The returned slice is a view into
// engine-owned storage; copy any row retained past the next ProcessChunk.
func (c *Context) CompleteRows() [][]string {
	all := c.eng.Rows()
	if c.emitted >= len(all) {
		return nil
	}
	fresh := all[c.emitted:]
	c.emitted = len(all)
	return fresh
}

// ClearRows marks all rows seen so far as delivered, including ones
// CompleteRows has not yet returned, so CompleteRows skips them. It does
// not affect the state machine's position, and the rows stay stored in
// the engine context (RowCount still counts them).
func (c *Context) ClearRows() {
	c.emitted = len(c.eng.Rows())
}

// RowCount returns the total number of rows accumulated, whether or not
// they have been drained via CompleteRows.
func (c *Context) RowCount() int { return c.eng.RowCount() }

// SetOnError installs the engine-level structural error callback for this
// streaming context.
func (c *Context) SetOnError(fn func(*engine.ParseError) bool) {
	c.eng.OnError = fn
}
