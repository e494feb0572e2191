package dynamic

import "unsafe"

// Handle is implemented by every tracked value: List[T] and Text.
type Handle interface {
	Addr() unsafe.Pointer
}

// Guard collects the frames opened since the matching Enter.
type Guard struct {
	st    *Stack
	depth int
}

// Enter pushes a frame and returns a guard for it. Pair it with a deferred
// Exit so the frame is collected on every return path, panics included:
//
//	defer st.Enter().Exit()
func (st *Stack) Enter() Guard {
	st.PushFrame()
	return Guard{st: st, depth: st.Depth()}
}

// Exit collects the guarded frame and any frame left open above it. Frames
// already collected, for example by Promote, are skipped.
func (g Guard) Exit() {
	for g.depth > 0 && g.st.Depth() >= g.depth {
		g.st.Collect(nil)
	}
}

// Promote collects the top frame of st, keeping h alive in the enclosing
// frame.
func Promote[H Handle](st *Stack, h H) H {
	st.Collect(h.Addr())
	return h
}

// Detach untracks h from the top frame; the caller must Free it.
func Detach[H Handle](st *Stack, h H) H {
	st.Keep(h.Addr())
	return h
}

// Run calls fn in a fresh frame and promotes its result to the caller's
// frame. Everything else fn allocated is released.
func Run[H Handle](st *Stack, fn func() H) H {
	g := st.Enter()
	defer g.Exit()
	return Promote(st, fn())
}

// Do calls fn in a fresh frame and collects it afterwards.
func (st *Stack) Do(fn func()) {
	defer st.Enter().Exit()
	fn()
}
