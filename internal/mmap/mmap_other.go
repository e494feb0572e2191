//go:build !(linux || darwin || freebsd || netbsd || openbsd || dragonfly)

package mmap

// Alloc falls back to the Go heap where anonymous mappings are unavailable.
func Alloc(size int) ([]byte, error) {
	if size <= 0 {
		return nil, nil
	}
	return make([]byte, size), nil
}

// Free is a no-op for heap-backed blocks.
func Free(b []byte) error {
	return nil
}
