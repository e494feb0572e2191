//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package mmap

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Alloc maps at least size bytes and returns a slice of exactly size bytes.
// The mapping is rounded up to whole pages; the slice capacity covers it.
func Alloc(size int) ([]byte, error) {
	if size <= 0 {
		return nil, nil
	}
	n := roundUp(size, unix.Getpagesize())
	m, err := unix.Mmap(-1, 0, n, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, fmt.Errorf("mmap %d bytes: %w", n, err)
	}
	return m[:size], nil
}

// Free unmaps a slice returned by Alloc.
func Free(b []byte) error {
	if cap(b) == 0 {
		return nil
	}
	if err := unix.Munmap(b[:cap(b)]); err != nil {
		return fmt.Errorf("munmap %d bytes: %w", cap(b), err)
	}
	return nil
}
