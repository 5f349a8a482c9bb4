// Package scanner implements the byte-level search primitives the CSV
// engine's state machine leans on for its fast paths: finding the next
// delimiter, quote, or newline, and bulk-copying ordinary field bytes.
//
// Every exported function here is pure and has no failure mode beyond
// "no match" (reported as NotFound). A wide-register path is selected at
// runtime on amd64 (see scanner_amd64.go); scanner_other.go aliases the
// scalar implementation on every other architecture. Both paths must
// produce byte-identical results.
package scanner

// NotFound is returned in place of a byte index when no match exists.
const NotFound = -1

// FindByte returns the index of the first occurrence of target in
// data[start:], or NotFound if none exists.
func FindByte(data []byte, target byte, start int) int {
	return findByte(data, target, start)
}

// FindAnySpecial scans data[start:] for the first occurrence of any of
// delim, quote, or '\n'. It returns the index of the match and the byte
// that matched, or (NotFound, 0) if none of the three appear.
func FindAnySpecial(data []byte, delim, quote byte, start int) (int, byte) {
	return findAnySpecial(data, delim, quote, start)
}

// BulkAppendNoCR appends data[start:end] to dest, dropping any '\r' bytes
// in the range. It takes a single-scan-then-copy fast path: one pass to
// check whether '\r' appears at all, then either a single contiguous
// append or a filtering copy.
func BulkAppendNoCR(dest, data []byte, start, end int) []byte {
	chunk := data[start:end]
	if findByteScalar(chunk, '\r', 0) == NotFound {
		return append(dest, chunk...)
	}
	for _, b := range chunk {
		if b != '\r' {
			dest = append(dest, b)
		}
	}
	return dest
}

func findByteScalar(data []byte, target byte, start int) int {
	for i := start; i < len(data); i++ {
		if data[i] == target {
			return i
		}
	}
	return NotFound
}

func findAnySpecialScalar(data []byte, delim, quote byte, start int) (int, byte) {
	for i := start; i < len(data); i++ {
		c := data[i]
		if c == delim || c == quote || c == '\n' {
			return i, c
		}
	}
	return NotFound, 0
}
