package dynamic

import (
	"fmt"
	"unsafe"

	"github.com/charmbracelet/log"
)

// ReleaseFunc releases the allocation at addr. It is invoked at most once
// per tracked record, when the owning frame is collected.
type ReleaseFunc func(addr unsafe.Pointer)

// record is one tracked allocation.
type record struct {
	addr    unsafe.Pointer
	release ReleaseFunc
}

type counters struct {
	tracked       uint64
	untracked     uint64
	freed         uint64
	relocated     uint64
	allocFailures uint64
}

// Stack is a LIFO of frames, each recording the allocations made while it
// was on top. Collecting a frame releases everything it still records.
//
// A Stack is not safe for concurrent use; give each goroutine its own
// Stack or use SafeStack.
type Stack struct {
	// frames and every frame are untracked lists: the tracker never
	// tracks its own storage.
	frames   List[List[record]]
	frameCap int

	alloc Allocator
	raw   map[unsafe.Pointer][]byte
	limit int64
	inUse int64

	log    *log.Logger
	closed bool
	stats  counters
}

// NewStack returns a stack holding one root frame.
func NewStack(cfg Config) *Stack {
	cfg = cfg.withDefaults()
	st := &Stack{
		frameCap: cfg.FrameCapacity,
		alloc:    cfg.allocator(),
		raw:      make(map[unsafe.Pointer][]byte),
		limit:    cfg.MemoryLimit,
		log:      newLogger(cfg),
	}
	st.frames = newRawList[List[record]](cfg.RootCapacity)
	st.frames = st.frames.Append(newRawList[record](st.frameCap))
	return st
}

var defaultStack = NewStack(DefaultConfig())

// Default returns the process-wide stack, created with its root frame
// before main runs.
func Default() *Stack {
	return defaultStack
}

// Shutdown drains every frame of the default stack. Call it once, at the
// end of main.
func Shutdown() {
	defaultStack.Close()
}

// Logger returns the stack's logger.
func (st *Stack) Logger() *log.Logger {
	return st.log
}

// SetLogger replaces the stack's logger.
func (st *Stack) SetLogger(l *log.Logger) {
	st.log = l
}

func (st *Stack) top() (List[record], bool) {
	n := st.frames.Len()
	if n == 0 {
		return List[record]{}, false
	}
	return st.frames.b.data[n-1], true
}

// setTop stores a frame handle that may have relocated while growing.
func (st *Stack) setTop(f List[record]) {
	st.frames.b.data[st.frames.Len()-1] = f
}

// Depth returns the number of frames on the stack, root included.
func (st *Stack) Depth() int {
	return st.frames.Len()
}

// FrameLen returns the number of records in the top frame.
func (st *Stack) FrameLen() int {
	f, ok := st.top()
	if !ok {
		return 0
	}
	return f.Len()
}

// Tracked reports whether addr is recorded in the top frame.
func (st *Stack) Tracked(addr unsafe.Pointer) bool {
	f, ok := st.top()
	if !ok {
		return false
	}
	return f.ContainsFunc(func(r record) bool { return r.addr == addr })
}

// PushFrame opens a new, empty frame on top of the stack.
func (st *Stack) PushFrame() {
	if st.closed {
		panicUsage("PushFrame", "stack closed")
	}
	st.frames = st.frames.Append(newRawList[record](st.frameCap))
	st.log.Debug("push frame", "depth", st.Depth())
}

// Track records addr in the top frame, to be released with release when the
// frame is collected. A nil release frees raw memory obtained from Malloc,
// Calloc or Realloc. Track returns addr so allocations can be wrapped
// inline. With no frame on the stack it does nothing.
func (st *Stack) Track(addr unsafe.Pointer, release ReleaseFunc) unsafe.Pointer {
	if addr == nil {
		return addr
	}
	f, ok := st.top()
	if !ok {
		return addr
	}
	if release == nil {
		release = st.freeRaw
	}
	st.setTop(f.Append(record{addr: addr, release: release}))
	st.stats.tracked++
	st.log.Debug("tracking", "frame", st.Depth(), "addr", addr)
	return addr
}

// Keep removes addr from the top frame. The caller becomes responsible for
// releasing it. Keep is a no-op if addr is not tracked there.
func (st *Stack) Keep(addr unsafe.Pointer) unsafe.Pointer {
	if st.forget(addr) {
		st.stats.untracked++
		st.log.Debug("untracking", "frame", st.Depth(), "addr", addr)
	}
	return addr
}

// forget drops the record for addr from the top frame without releasing it.
func (st *Stack) forget(addr unsafe.Pointer) bool {
	if addr == nil {
		return false
	}
	f, ok := st.top()
	if !ok {
		return false
	}
	i := f.FindFunc(func(r record) bool { return r.addr == addr })
	if i < 0 {
		return false
	}
	f.Remove(i)
	return true
}

// rewrite repoints a top-frame record after its allocation moved.
func (st *Stack) rewrite(old, moved unsafe.Pointer) {
	f, ok := st.top()
	if !ok {
		return
	}
	recs := f.Elems()
	for i := range recs {
		if recs[i].addr == old {
			recs[i].addr = moved
			st.stats.relocated++
			st.log.Debug("relocated", "frame", st.Depth(), "from", old, "to", moved)
		}
	}
}

// Collect releases every record of the top frame except the one for keep,
// then pops the frame. If keep was found it is re-registered in the new top
// frame, promoting it to the caller's scope. A nil keep collects the whole
// frame. Collect returns keep.
func (st *Stack) Collect(keep unsafe.Pointer) unsafe.Pointer {
	f, ok := st.top()
	if !ok {
		return keep
	}
	depth := st.Depth()
	// Detach first: release callbacks see the enclosing frame as the top.
	st.frames.Pop()
	if depth == 1 {
		st.log.Warn("collecting root frame")
	}

	var kept record
	found := false
	for _, r := range f.Elems() {
		if keep != nil && !found && r.addr == keep {
			kept, found = r, true
			continue
		}
		st.release(r)
	}
	st.log.Debug("collected", "frame", depth, "released", f.Len()-btoi(found))
	f.Free()

	if found {
		if nf, ok := st.top(); ok {
			st.setTop(nf.Append(kept))
			st.log.Debug("promoted", "frame", st.Depth(), "addr", keep)
		} else {
			st.stats.untracked++
		}
	}
	return keep
}

func (st *Stack) release(r record) {
	r.release(r.addr)
	st.stats.freed++
}

// Close drains every remaining frame bottom to top, releasing all records,
// and frees the frame storage. It is the leak backstop for scopes that were
// never collected. Close is idempotent; PushFrame panics afterwards.
func (st *Stack) Close() {
	if st.closed {
		return
	}
	st.closed = true
	frames := st.frames
	st.frames = List[List[record]]{}
	for _, f := range frames.Elems() {
		for _, r := range f.Elems() {
			st.release(r)
		}
		f.Free()
	}
	frames.Free()
	st.log.Debug("final stats",
		"tracked", st.stats.tracked,
		"untracked", st.stats.untracked,
		"freed", st.stats.freed)
}

// reserve accounts n bytes against the memory limit.
func (st *Stack) reserve(n int) error {
	if st.limit > 0 && st.inUse+int64(n) > st.limit {
		return fmt.Errorf("reserve %d bytes with %d of %d in use: %w", n, st.inUse, st.limit, ErrOutOfMemory)
	}
	st.inUse += int64(n)
	return nil
}

func (st *Stack) unreserve(n int) {
	st.inUse -= int64(n)
}

// fail records an allocation failure and returns err.
func (st *Stack) fail(op string, err error) error {
	st.stats.allocFailures++
	st.log.Warn("allocation failed", "op", op, "err", err)
	return err
}

func btoi(b bool) int {
	if b {
		return 1
	}
	return 0
}
