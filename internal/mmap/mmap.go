// Package mmap hands out anonymous, private, read-write memory mappings.
package mmap

func roundUp(n, to int) int {
	return (n + to - 1) / to * to
}
