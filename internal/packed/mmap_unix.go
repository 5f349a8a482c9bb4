//go:build unix

package packed

import (
	"fmt"
	"os"
	"syscall"
)

// mapFile memory-maps a file read-only so a persisted packed buffer can be
// validated and decoded without a copy into a freshly allocated []byte.
// The returned cleanup function must be called once the mapping is no
// longer needed; the returned slice must not be used after that call.
func mapFile(filename string) (data []byte, cleanup func(), err error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, nil, fmt.Errorf("csvengine/packed: open: %w", err)
	}

	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("csvengine/packed: stat: %w", err)
	}

	size := stat.Size()
	if size == 0 {
		return []byte{}, func() { f.Close() }, nil
	}

	mapped, err := syscall.Mmap(int(f.Fd()), 0, int(size), syscall.PROT_READ, syscall.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("csvengine/packed: mmap: %w", err)
	}

	return mapped, func() {
		_ = syscall.Munmap(mapped)
		f.Close()
	}, nil
}
