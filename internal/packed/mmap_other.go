//go:build !unix

package packed

import (
	"fmt"
	"os"
)

// mapFile reads a file into memory on platforms without mmap support. It
// provides the same signature as the unix mapping so OpenFile has one
// implementation regardless of platform.
func mapFile(filename string) (data []byte, cleanup func(), err error) {
	data, err = os.ReadFile(filename)
	if err != nil {
		return nil, nil, fmt.Errorf("csvengine/packed: read: %w", err)
	}
	return data, func() {}, nil
}
