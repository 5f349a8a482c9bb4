package engine

import (
	"testing"
)

func parseAll(t *testing.T, cfg Config, input string) [][]string {
	t.Helper()
	c := NewContext(cfg)
	if err := c.Parse([]byte(input)); err != nil {
		t.Fatalf("Parse(%q) unexpected error: %v", input, err)
	}
	out := make([][]string, c.RowCount())
	for i := range out {
		n := c.FieldCount(i)
		row := make([]string, n)
		for j := 0; j < n; j++ {
			row[j], _ = c.Field(i, j)
		}
		out[i] = row
	}
	return out
}

func equalRows(a, b [][]string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if len(a[i]) != len(b[i]) {
			return false
		}
		for j := range a[i] {
			if a[i][j] != b[i][j] {
				return false
			}
		}
	}
	return true
}

func TestParseBasic(t *testing.T) {
	got := parseAll(t, DefaultConfig(), "a,b,c\n1,2,3\n")
	want := [][]string{{"a", "b", "c"}, {"1", "2", "3"}}
	if !equalRows(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParseNoTrailingNewline(t *testing.T) {
	got := parseAll(t, DefaultConfig(), "a,b,c")
	want := [][]string{{"a", "b", "c"}}
	if !equalRows(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParseEmptyInput(t *testing.T) {
	got := parseAll(t, DefaultConfig(), "")
	if len(got) != 0 {
		t.Errorf("got %v, want zero rows", got)
	}
}

func TestParseQuotedField(t *testing.T) {
	got := parseAll(t, DefaultConfig(), `"hello, world","a ""quoted"" word"` + "\n")
	want := [][]string{{"hello, world", `a "quoted" word`}}
	if !equalRows(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParseQuotedFieldWithEmbeddedNewline(t *testing.T) {
	got := parseAll(t, DefaultConfig(), "\"line1\nline2\",b\n")
	want := [][]string{{"line1\nline2", "b"}}
	if !equalRows(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParseCRLF(t *testing.T) {
	got := parseAll(t, DefaultConfig(), "a,b\r\nc,d\r\n")
	want := [][]string{{"a", "b"}, {"c", "d"}}
	if !equalRows(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParseBareCR(t *testing.T) {
	got := parseAll(t, DefaultConfig(), "a,b\rc,d\r")
	want := [][]string{{"a", "b"}, {"c", "d"}}
	if !equalRows(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParseComment(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Comment = '#'
	got := parseAll(t, cfg, "# a header comment\na,b\n# trailing note\nc,d\n")
	want := [][]string{{"a", "b"}, {"c", "d"}}
	if !equalRows(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParseCommentAdvancesLineCounter(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Comment = '#'
	c := NewContext(cfg)
	if err := c.Parse([]byte("# header\nname,age\nAlice,30\n")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := [][]string{{"name", "age"}, {"Alice", "30"}}
	got := make([][]string, c.RowCount())
	for i := range got {
		n := c.FieldCount(i)
		row := make([]string, n)
		for j := 0; j < n; j++ {
			row[j], _ = c.Field(i, j)
		}
		got[i] = row
	}
	if !equalRows(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	// Three physical lines consumed; the line counter must reflect raw
	// line positions even though the comment line never became a record.
	if c.line != 4 {
		t.Errorf("got line=%d, want 4", c.line)
	}
}

func TestParseSkipEmptyLines(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SkipEmptyLines = true
	got := parseAll(t, cfg, "a,b\n\nc,d\n")
	want := [][]string{{"a", "b"}, {"c", "d"}}
	if !equalRows(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParseTrim(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Trim = true
	got := parseAll(t, cfg, "  a  , b ,\"  c  \"\n")
	want := [][]string{{"a", "b", "  c  "}}
	if !equalRows(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParseFromToLineWindow(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FromLine = 2
	cfg.ToLine = 3
	got := parseAll(t, cfg, "a\nb\nc\nd\n")
	want := [][]string{{"b"}}
	if !equalRows(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParseStrictUnterminatedQuote(t *testing.T) {
	c := NewContext(DefaultConfig())
	err := c.Parse([]byte(`"unterminated`))
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	pe, ok := err.(*ParseError)
	if !ok {
		t.Fatalf("expected *ParseError, got %T", err)
	}
	if pe.Kind != ErrUnterminatedQuotedField {
		t.Errorf("got kind %v, want ErrUnterminatedQuotedField", pe.Kind)
	}
}

func TestParseRelaxedUnterminatedQuote(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Relaxed = true
	c := NewContext(cfg)
	if err := c.Parse([]byte(`"trailing`)); err != nil {
		t.Fatalf("unexpected error in relaxed mode: %v", err)
	}
	if c.RowCount() != 1 {
		t.Fatalf("got %d rows, want 1", c.RowCount())
	}
}

func TestParseSkipLinesWithError(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SkipLinesWithError = true
	got := parseAll(t, cfg, "a,b\nc\"bad,x\nd,e\n")
	want := [][]string{{"a", "b"}, {"d", "e"}}
	if !equalRows(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParseStrictRowTooLarge(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxRowSize = 8
	c := NewContext(cfg)
	err := c.Parse([]byte("a,bcdefghijklmnop\n"))
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	pe, ok := err.(*ParseError)
	if !ok {
		t.Fatalf("expected *ParseError, got %T", err)
	}
	if pe.Kind != ErrRowTooLarge {
		t.Errorf("got kind %v, want ErrRowTooLarge", pe.Kind)
	}
}

func TestParseRelaxedRowTooLarge(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxRowSize = 8
	cfg.Relaxed = true
	got := parseAll(t, cfg, "a,bcdefghijklmnop\nq,r\n")
	want := [][]string{{"a", "bcdefghijklmnop"}, {"q", "r"}}
	if !equalRows(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParseSkipLinesWithErrorRowTooLarge(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxRowSize = 8
	cfg.SkipLinesWithError = true
	got := parseAll(t, cfg, "a,bcdefghijklmnop\nq,r\n")
	want := [][]string{{"q", "r"}}
	if !equalRows(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestFeedChunkCarriesOverBareCR(t *testing.T) {
	c := NewContext(DefaultConfig())
	consumed, err := c.FeedChunk([]byte("a,b\r"), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if consumed != 3 {
		t.Fatalf("got consumed=%d, want 3 (leaving the bare CR for the next chunk)", consumed)
	}
	if _, err := c.FeedChunk([]byte("\nc,d\n"), true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.RowCount() != 2 {
		t.Fatalf("got %d rows, want 2", c.RowCount())
	}
}

func TestFeedChunkAcrossQuotedFieldBoundary(t *testing.T) {
	c := NewContext(DefaultConfig())
	if _, err := c.FeedChunk([]byte(`"hello `), false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := c.FeedChunk([]byte("world\",b\n"), true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := [][]string{{"hello world", "b"}}
	got := make([][]string, c.RowCount())
	for i := range got {
		n := c.FieldCount(i)
		row := make([]string, n)
		for j := 0; j < n; j++ {
			row[j], _ = c.Field(i, j)
		}
		got[i] = row
	}
	if !equalRows(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Delimiter = cfg.Quote
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for delimiter == quote")
	}
}

func FuzzParse(f *testing.F) {
	f.Add("a,b,c\n1,2,3\n")
	f.Add(`"q","r""s"` + "\n")
	f.Add("a,b\r\nc,d\r")
	f.Add("# comment\na,b\n")
	f.Fuzz(func(t *testing.T, input string) {
		cfg := DefaultConfig()
		cfg.Relaxed = true
		c := NewContext(cfg)
		if err := c.Parse([]byte(input)); err != nil {
			t.Fatalf("relaxed mode must never fail: %v", err)
		}
	})
}
