package packed

import (
	"encoding/binary"
	"testing"
)

func TestSerializeDeserializeRoundTrip(t *testing.T) {
	rows := [][]string{
		{"name", "age"},
		{"Alice", "30"},
		{"Bob", "25"},
	}
	buf, err := Serialize(rows)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if got := binary.LittleEndian.Uint32(buf[0:4]); got != Magic {
		t.Errorf("magic = %#x, want %#x", got, Magic)
	}
	if got := binary.LittleEndian.Uint32(buf[4:8]); got != Version {
		t.Errorf("version = %d, want %d", got, Version)
	}
	if got := binary.LittleEndian.Uint32(buf[8:12]); got != 3 {
		t.Errorf("row_count = %d, want 3", got)
	}
	if got := binary.LittleEndian.Uint32(buf[12:16]); got != 2 {
		t.Errorf("field_count = %d, want 2", got)
	}

	got, err := Deserialize(buf)
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	if len(got) != len(rows) {
		t.Fatalf("got %d rows, want %d", len(got), len(rows))
	}
	for i := range rows {
		for j := range rows[i] {
			if got[i][j] != rows[i][j] {
				t.Errorf("row %d field %d = %q, want %q", i, j, got[i][j], rows[i][j])
			}
		}
	}
}

func TestSerializeEmpty(t *testing.T) {
	buf, err := Serialize(nil)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	rows, err := Deserialize(buf)
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("got %d rows, want 0", len(rows))
	}
}

func TestSerializeInconsistentFieldCount(t *testing.T) {
	_, err := Serialize([][]string{{"a", "b"}, {"c"}})
	pe, ok := err.(*Error)
	if !ok || pe.Kind != ErrInconsistentFieldCount {
		t.Fatalf("got %v, want ErrInconsistentFieldCount", err)
	}
}

func TestSerializeFieldTooLong(t *testing.T) {
	huge := make([]byte, maxFieldLen+1)
	_, err := Serialize([][]string{{string(huge)}})
	pe, ok := err.(*Error)
	if !ok || pe.Kind != ErrFieldTooLong {
		t.Fatalf("got %v, want ErrFieldTooLong", err)
	}
}

func TestDeserializeBadMagic(t *testing.T) {
	buf := make([]byte, HeaderSize)
	binary.LittleEndian.PutUint32(buf[0:4], 0xDEADBEEF)
	binary.LittleEndian.PutUint64(buf[16:24], uint64(HeaderSize))
	_, err := Deserialize(buf)
	pe, ok := err.(*Error)
	if !ok || pe.Kind != ErrMalformedBuffer {
		t.Fatalf("got %v, want ErrMalformedBuffer", err)
	}
}

func TestDeserializeTruncated(t *testing.T) {
	_, err := Deserialize([]byte{1, 2, 3})
	if err == nil {
		t.Fatal("expected error for truncated buffer")
	}
}

func TestDeserializeSizeMismatch(t *testing.T) {
	rows := [][]string{{"a", "b"}}
	buf, _ := Serialize(rows)
	truncated := buf[:len(buf)-1]
	_, err := Deserialize(truncated)
	pe, ok := err.(*Error)
	if !ok || pe.Kind != ErrMalformedBuffer {
		t.Fatalf("got %v, want ErrMalformedBuffer", err)
	}
}

// FuzzDeserialize exercises Deserialize against arbitrary byte regions,
// including ones that pass the magic/version/size checks but carry bad
// offsets or lengths. Deserialize must never dereference beyond the
// buffer it was given, regardless of what the header or offset array
// claims; a panic (including an out-of-range slice index) is a bug.
func FuzzDeserialize(f *testing.F) {
	rows := [][]string{{"name", "age"}, {"Alice", "30"}, {"Bob", "25"}}
	roundTrip, err := Serialize(rows)
	if err != nil {
		f.Fatalf("Serialize: %v", err)
	}
	f.Add(roundTrip)
	f.Add(roundTrip[:len(roundTrip)-1])
	f.Add([]byte{1, 2, 3})
	f.Add([]byte{})
	badMagic := make([]byte, HeaderSize)
	binary.LittleEndian.PutUint32(badMagic[0:4], 0xDEADBEEF)
	binary.LittleEndian.PutUint64(badMagic[16:24], uint64(HeaderSize))
	f.Add(badMagic)
	badOffset := append([]byte(nil), roundTrip...)
	binary.LittleEndian.PutUint32(badOffset[HeaderSize:HeaderSize+4], 0xFFFFFFFF)
	f.Add(badOffset)

	f.Fuzz(func(t *testing.T, buf []byte) {
		got, err := Deserialize(buf)
		if err != nil {
			if got != nil {
				t.Fatalf("Deserialize returned both rows and an error: %v", err)
			}
			return
		}
		reserialized, serr := Serialize(got)
		if serr != nil {
			return
		}
		if _, derr := Deserialize(reserialized); derr != nil {
			t.Fatalf("re-Deserialize of a freshly Serialized result failed: %v", derr)
		}
	})
}
