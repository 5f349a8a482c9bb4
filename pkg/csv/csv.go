package csv

import (
	"io"

	"github.com/shapestone/csvengine/internal/engine"
)

// Parse parses a complete, in-memory CSV document and returns its rows.
// NewScanner reads input in chunks instead of all at once, though it too
// keeps every parsed row in memory.
func Parse(data []byte, opts Options) ([][]string, error) {
	cfg := opts.toConfig()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	ctx := engine.NewContext(cfg)
	if err := ctx.Parse(data); err != nil {
		return nil, err
	}
	return ctx.Rows(), nil
}

// ParseReader reads r to completion and parses it, holding the whole
// input in memory while it does; NewScanner reads r in chunks instead.
func ParseReader(r io.Reader, opts Options) ([][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Parse(data, opts)
}
