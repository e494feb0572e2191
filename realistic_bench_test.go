package dynamic

import (
	"io"
	"runtime"
	"testing"
	"unsafe"
)

// BenchmarkRealisticUsage compares scoped lists against builtin slices
func BenchmarkRealisticUsage(b *testing.B) {

	// Many short-lived lists per request
	b.Run("ScopedLists/Stack", func(b *testing.B) {
		st := NewStack(Config{Output: io.Discard})
		defer st.Close()
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			st.Do(func() {
				for j := 0; j < 20; j++ {
					l := New[int](st, 0)
					for k := 0; k < 16; k++ {
						l = l.Append(k)
					}
				}
			})
		}
	})

	b.Run("ScopedLists/Builtin", func(b *testing.B) {
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			lists := make([][]int, 20)
			for j := range lists {
				for k := 0; k < 16; k++ {
					lists[j] = append(lists[j], k)
				}
			}
			if i%10 == 0 {
				runtime.GC()
			}
		}
	})

	// Raw buffers released at the end of each scope
	b.Run("BufferScope/Heap", func(b *testing.B) {
		st := NewStack(Config{Output: io.Discard})
		defer st.Close()
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			st.Do(func() {
				for j := 0; j < 10; j++ {
					buf := st.Malloc(1024)
					buf[0] = byte(j)
				}
			})
		}
	})

	b.Run("BufferScope/Mmap", func(b *testing.B) {
		st := NewStack(Config{Allocator: AllocatorMmap, Output: io.Discard})
		defer st.Close()
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			st.Do(func() {
				for j := 0; j < 10; j++ {
					buf := st.Malloc(1024)
					buf[0] = byte(j)
				}
			})
		}
	})

	// Text building
	b.Run("Stringify", func(b *testing.B) {
		st := NewStack(Config{Output: io.Discard})
		defer st.Close()
		nums := Of(st, 1.0, 3.0, 5.0, 7.0, 9.0)
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			st.Do(func() {
				Stringify(nums, "%.2lf")
			})
		}
	})
}

func BenchmarkTrackCollect(b *testing.B) {
	st := NewStack(Config{Output: io.Discard})
	defer st.Close()
	p := addrs(64)
	noop := func(unsafe.Pointer) {}
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		st.PushFrame()
		for _, a := range p {
			st.Track(a, noop)
		}
		st.Collect(p[0])
		st.Keep(p[0])
	}
}
