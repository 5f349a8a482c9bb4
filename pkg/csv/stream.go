package csv

import (
	"io"

	"github.com/shapestone/csvengine/internal/bufpool"
	"github.com/shapestone/csvengine/internal/streaming"
)

// defaultChunkSize is the read buffer Scanner feeds to the streaming
// context per Read call.
const defaultChunkSize = 64 * 1024

// Scanner incrementally parses CSV from an io.Reader, in the style of
// bufio.Scanner: call Scan in a loop, read the current row with Row, and
// check Err once Scan returns false. Unlike Parse/ParseReader, a Scanner
// reads the input one chunk at a time and never holds the raw input in
// memory all at once. Every parsed row, drained or not, stays stored in
// the underlying streaming context for the Scanner's lifetime, so memory
// use still grows with the number of rows.
type Scanner struct {
	r   io.Reader
	ctx *streaming.Context
	buf []byte

	pending [][]string
	idx     int

	err  error
	done bool
}

// NewScanner constructs a Scanner reading from r under opts. Its read
// buffer comes from a shared pool (see internal/bufpool); call Close
// once done to return it, which matters most for short-lived scanners
// created in a hot loop (one per uploaded file, say).
func NewScanner(r io.Reader, opts Options) (*Scanner, error) {
	cfg := opts.toConfig()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Scanner{
		r:   r,
		ctx: streaming.New(cfg),
		buf: bufpool.GetLen(defaultChunkSize),
	}, nil
}

// Close returns the Scanner's read buffer to the shared pool. The
// Scanner must not be used afterward.
func (s *Scanner) Close() {
	bufpool.Put(s.buf)
	s.buf = nil
}

// OnError installs the structural-error callback forwarded to the
// underlying engine context; see engine.ParseError and Config.Relaxed.
func (s *Scanner) OnError(fn func(*ParseError) bool) {
	s.ctx.SetOnError(fn)
}

// Scan advances to the next row. It returns false once the input is
// exhausted or an error occurs; check Err to distinguish the two.
func (s *Scanner) Scan() bool {
	for s.idx >= len(s.pending) {
		if s.done {
			return false
		}
		n, rerr := s.r.Read(s.buf)
		if n > 0 {
			if err := s.ctx.ProcessChunk(s.buf[:n]); err != nil {
				s.err = err
				return false
			}
		}
		switch {
		case rerr == io.EOF:
			if err := s.ctx.Finalize(); err != nil {
				s.err = err
				return false
			}
			s.done = true
		case rerr != nil:
			s.err = rerr
			return false
		}
		s.pending = s.ctx.CompleteRows()
		s.idx = 0
		if len(s.pending) == 0 && s.done {
			return false
		}
	}
	s.idx++
	return true
}

// Row returns the row Scan most recently advanced to. The returned slice
// is a view into Scanner-owned storage; copy it to retain across the
// next Scan call.
func (s *Scanner) Row() []string {
	if s.idx == 0 || s.idx > len(s.pending) {
		return nil
	}
	return s.pending[s.idx-1]
}

// Err returns the first error Scan encountered, or nil if Scan returned
// false because the input was exhausted.
func (s *Scanner) Err() error { return s.err }
