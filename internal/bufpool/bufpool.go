// Package bufpool pools the []byte read buffers short-lived parses churn
// through — a server handling many small CSV uploads allocates and frees
// one chunk buffer per request without this. Adapted from the teacher's
// field/buffer sync.Pool pair for quoted-field accumulation; the shape
// (a capped sync.Pool with a capacity ceiling on what gets returned) is
// the same idea applied to the new streaming Scanner's chunk buffer.
package bufpool

import "sync"

// maxCapacity bounds what Put will return to the pool, so one
// unusually large buffer doesn't pin an oversized allocation in the pool
// for the life of the process.
const maxCapacity = 1 << 20 // 1 MiB

var pool = sync.Pool{
	New: func() any {
		b := make([]byte, 0, 64*1024)
		return &b
	},
}

// Get returns a pooled buffer with length 0 and capacity at least 64 KiB.
func Get() []byte {
	p := pool.Get().(*[]byte)
	return (*p)[:0]
}

// GetLen returns a pooled buffer resized to exactly n bytes, growing a
// fresh allocation only if the pooled buffer's capacity falls short.
func GetLen(n int) []byte {
	buf := Get()
	if cap(buf) < n {
		return make([]byte, n)
	}
	return buf[:n]
}

// Put returns buf to the pool for reuse. Buffers over maxCapacity are
// dropped instead of pooled.
func Put(buf []byte) {
	if cap(buf) > maxCapacity {
		return
	}
	buf = buf[:0]
	pool.Put(&buf)
}
