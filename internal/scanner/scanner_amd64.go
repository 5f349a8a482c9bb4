//go:build amd64

package scanner

import (
	"encoding/binary"
	"sync"

	"golang.org/x/sys/cpu"
)

// wideEnabled reports whether the unrolled word-at-a-time ("wide
// register") path should be taken on this CPU. Detection happens once;
// the result never changes for the lifetime of the process, so there is
// no mutable global state beyond this one-time cache.
var (
	wideEnabled    bool
	wideDetectOnce sync.Once
)

func detectWide() {
	wideDetectOnce.Do(func() {
		// SSE4.2 is a reasonable floor for "this core has fast unaligned
		// 64-bit loads and bit-manipulation instructions worth the extra
		// unrolling"; AVX2 cores qualify too since they imply SSE4.2.
		wideEnabled = cpu.X86.HasSSE42 || cpu.X86.HasAVX2
	})
}

const wordSize = 8
const unroll = 4 // 4 x 8 bytes = 32 bytes per iteration

const (
	loMask = 0x0101010101010101
	hiMask = 0x8080808080808080
)

// hasZeroByte reports whether any byte of w is zero, using the classic
// SWAR null-byte detection trick.
func hasZeroByte(w uint64) bool {
	return (w-loMask)&^w&hiMask != 0
}

func broadcast(b byte) uint64 {
	return uint64(b) * loMask
}

func findByte(data []byte, target byte, start int) int {
	detectWide()
	if !wideEnabled || start < 0 {
		return findByteScalar(data, target, start)
	}

	pos := start
	n := len(data)
	needle := broadcast(target)

	for pos+wordSize*unroll <= n {
		allClear := true
		for u := 0; u < unroll; u++ {
			off := pos + u*wordSize
			w := binary.LittleEndian.Uint64(data[off : off+wordSize])
			if hasZeroByte(w ^ needle) {
				allClear = false
				break
			}
		}
		if allClear {
			pos += wordSize * unroll
			continue
		}
		// A match lies within this 32-byte span; resolve it byte-by-byte.
		end := pos + wordSize*unroll
		if idx := findByteScalar(data[:end], target, pos); idx != NotFound {
			return idx
		}
		pos = end
	}

	return findByteScalar(data, target, pos)
}

func findAnySpecial(data []byte, delim, quote byte, start int) (int, byte) {
	detectWide()
	if !wideEnabled || start < 0 {
		return findAnySpecialScalar(data, delim, quote, start)
	}

	pos := start
	n := len(data)
	dNeedle := broadcast(delim)
	qNeedle := broadcast(quote)
	lfNeedle := broadcast('\n')

	for pos+wordSize*unroll <= n {
		allClear := true
		for u := 0; u < unroll; u++ {
			off := pos + u*wordSize
			w := binary.LittleEndian.Uint64(data[off : off+wordSize])
			if hasZeroByte(w^dNeedle) || hasZeroByte(w^qNeedle) || hasZeroByte(w^lfNeedle) {
				allClear = false
				break
			}
		}
		if allClear {
			pos += wordSize * unroll
			continue
		}
		end := pos + wordSize*unroll
		if idx, b := findAnySpecialScalar(data[:end], delim, quote, pos); idx != NotFound {
			return idx, b
		}
		pos = end
	}

	return findAnySpecialScalar(data, delim, quote, pos)
}
