package dynamic

import (
	"sync"
	"unsafe"
)

// SafeStack is a mutex-protected wrapper around Stack for hosts that share
// one stack between goroutines. Every operation is serialised; list and
// text operations must run inside Do so they hold the lock too.
type SafeStack struct {
	mu sync.Mutex
	st *Stack
}

// NewSafeStack creates a new thread-safe stack.
func NewSafeStack(cfg Config) *SafeStack {
	return &SafeStack{st: NewStack(cfg)}
}

// Do thread-safely runs fn in a fresh frame that is collected when fn returns.
func (s *SafeStack) Do(fn func(st *Stack)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.st.Enter().Exit()
	fn(s.st)
}

// PushFrame thread-safely opens a new frame.
func (s *SafeStack) PushFrame() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.PushFrame()
}

// Track thread-safely records addr in the top frame.
func (s *SafeStack) Track(addr unsafe.Pointer, release ReleaseFunc) unsafe.Pointer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.Track(addr, release)
}

// Keep thread-safely untracks addr from the top frame.
func (s *SafeStack) Keep(addr unsafe.Pointer) unsafe.Pointer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.Keep(addr)
}

// Collect thread-safely collects the top frame, promoting keep.
func (s *SafeStack) Collect(keep unsafe.Pointer) unsafe.Pointer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.Collect(keep)
}

// Malloc thread-safely allocates size tracked bytes.
func (s *SafeStack) Malloc(size int) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.Malloc(size)
}

// Calloc thread-safely allocates count*size zeroed tracked bytes.
func (s *SafeStack) Calloc(count, size int) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.Calloc(count, size)
}

// Realloc thread-safely resizes a raw block.
func (s *SafeStack) Realloc(b []byte, size int) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.Realloc(b, size)
}

// Depth thread-safely returns the number of frames.
func (s *SafeStack) Depth() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.Depth()
}

// Close thread-safely drains every frame.
func (s *SafeStack) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.Close()
}
