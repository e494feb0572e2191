// Package dynamic implements growable lists and a scope-based ownership
// tracker (frame stack) that releases allocations in bulk when a scope ends.
//
// # Overview
//
// Every tracked allocation is recorded in the frame that was on top of the
// stack when it was made. Collecting a frame releases everything it still
// records, except an optional value that is promoted to the enclosing
// frame. This is useful for:
//
//   - Off-heap buffers (see MmapAllocator) that must be unmapped explicitly
//   - Resources that need deterministic release at the end of a scope
//   - Returning one value from a scope while discarding its temporaries
//
// # Basic Usage
//
//	st := dynamic.NewStack(dynamic.DefaultConfig())
//	defer st.Close() // drains every frame left open
//
//	upper := dynamic.Run(st, func() dynamic.Text {
//		s := dynamic.NewText(st, "abcd1234")
//		return s.Upper() // s is released, the result is promoted
//	})
//
//	nums := dynamic.Of(st, 1.0, 3.0, 5.0, 7.0, 9.0)
//	nums = nums.Append(11) // always keep the returned handle
//	fmt.Println(dynamic.Stringify(nums.Slice(0, 5, 2), "%.2lf"))
//
// # Scopes
//
// Enter pushes a frame and returns a Guard whose Exit collects it, so a
// deferred Exit releases the scope on every return path, panics included:
//
//	func build(st *dynamic.Stack) dynamic.List[int] {
//		defer st.Enter().Exit()
//		tmp := dynamic.New[int](st, 0)
//		...
//		return dynamic.Promote(st, result)
//	}
//
// Keep (or Detach) removes a value from tracking; the caller must then Free
// it.
//
// # Relocation
//
// A List is a handle, like a slice header. Append, Insert, Extend and Resize
// may move the list to a new block, in which case the old handle is released
// and the record in the top frame is rewritten to the new address. Only the
// top frame is rewritten: grow a list in the scope that tracks it.
//
// # Thread Safety
//
// The Stack type is not thread-safe. Give each goroutine its own Stack or
// use SafeStack, which serialises every operation:
//
//	s := dynamic.NewSafeStack(dynamic.DefaultConfig())
//	s.Do(func(st *dynamic.Stack) {
//		buf := st.Malloc(1024)
//		...
//	})
//
// # Errors
//
// Allocation failure (a configured MemoryLimit or an allocator error) is not
// fatal: New returns the null list, Resize returns ErrOutOfMemory with the
// original handle, and Append keeps the original handle. Bounds violations
// and other programmer errors panic with *BoundsError or *UsageError.
//
// # Metrics and Monitoring
//
//	m := st.Metrics()
//	fmt.Printf("Depth: %d, records: %d\n", m.Depth, m.TotalRecords)
//	prometheus.MustRegister(dynamic.NewCollector(safeStack, nil))
package dynamic
