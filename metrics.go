package dynamic

// TotalRecords returns the number of records across all frames.
func (st *Stack) TotalRecords() int {
	sum := 0
	for _, f := range st.frames.Elems() {
		sum += f.Len()
	}
	return sum
}

// BytesInUse returns the bytes held by live tracked lists and raw blocks,
// including list headers.
func (st *Stack) BytesInUse() int64 {
	return st.inUse
}

// MemoryLimit returns the configured limit in bytes, 0 if unlimited.
func (st *Stack) MemoryLimit() int64 {
	return st.limit
}

// Utilization returns the ratio of bytes in use to the memory limit
// (0.0 to 1.0). Returns 0.0 if the stack is unlimited.
func (st *Stack) Utilization() float64 {
	if st.limit == 0 {
		return 0
	}
	return float64(st.inUse) / float64(st.limit)
}

// Metrics returns a snapshot of stack statistics.
func (st *Stack) Metrics() StackMetrics {
	return StackMetrics{
		Depth:         st.Depth(),
		FrameRecords:  st.FrameLen(),
		TotalRecords:  st.TotalRecords(),
		Tracked:       st.stats.tracked,
		Untracked:     st.stats.untracked,
		Freed:         st.stats.freed,
		Relocated:     st.stats.relocated,
		AllocFailures: st.stats.allocFailures,
		BytesInUse:    st.BytesInUse(),
		MemoryLimit:   st.MemoryLimit(),
		Utilization:   st.Utilization(),
	}
}

// StackMetrics contains statistical information about a stack.
type StackMetrics struct {
	Depth         int     // Frames on the stack, root included
	FrameRecords  int     // Records in the top frame
	TotalRecords  int     // Records across all frames
	Tracked       uint64  // Records ever tracked
	Untracked     uint64  // Records removed by Keep
	Freed         uint64  // Release callbacks run plus List.Free and Stack.Free calls that released a block
	Relocated     uint64  // Records rewritten after a move
	AllocFailures uint64  // Allocations refused
	BytesInUse    int64   // Bytes held by live allocations
	MemoryLimit   int64   // Configured limit, 0 if unlimited
	Utilization   float64 // BytesInUse / MemoryLimit (0.0-1.0)
}

// Metrics thread-safely returns a snapshot of stack statistics.
func (s *SafeStack) Metrics() StackMetrics {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.Metrics()
}
