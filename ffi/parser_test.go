package ffi

import "testing"

func TestParserLifecycle(t *testing.T) {
	p := NewParser()
	h := NewHandle(p)
	defer Release(h)

	resolved := Lookup(h)
	if resolved != p {
		t.Fatal("Lookup did not resolve to the original Parser")
	}

	if err := resolved.ParseString([]byte("a,b\n1,2\n")); err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	if got := resolved.RowCount(); got != 2 {
		t.Fatalf("RowCount = %d, want 2", got)
	}
	if got := resolved.FieldCount(0); got != 2 {
		t.Fatalf("FieldCount(0) = %d, want 2", got)
	}
	field, ok := resolved.Field(1, 0)
	if !ok || field != "1" {
		t.Fatalf("Field(1,0) = (%q, %v), want (\"1\", true)", field, ok)
	}
}

func TestParserPackedBuffer(t *testing.T) {
	p := NewParser()
	if err := p.ParseString([]byte("a,b\n1,2\n")); err != nil {
		t.Fatalf("ParseString: %v", err)
	}
	buf, err := p.PackedBuffer()
	if err != nil {
		t.Fatalf("PackedBuffer: %v", err)
	}
	if len(buf) == 0 {
		t.Fatal("expected non-empty packed buffer")
	}
}

func TestParserOutOfRangeAccess(t *testing.T) {
	p := NewParser()
	if got := p.FieldCount(0); got != -1 {
		t.Errorf("FieldCount on empty parser = %d, want -1", got)
	}
	if _, ok := p.Field(0, 0); ok {
		t.Error("Field on empty parser should report ok=false")
	}
}
