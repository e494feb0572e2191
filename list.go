package dynamic

import (
	"fmt"
	"iter"
	"math"
	"slices"
	"unsafe"
)

// DefaultCapacity is the minimum starting capacity of lists built from
// existing elements, so that early appends do not reallocate immediately.
const DefaultCapacity = 10

// header is the bookkeeping stored with every list block.
type header struct {
	capacity int     // elements the storage can hold before relocation
	length   int     // live elements, 0 <= length <= capacity
	elemSize uintptr // byte width of one element, fixed at creation
}

const headerSize = int(unsafe.Sizeof(header{}))

// block is one list allocation: header plus element storage.
// len(data) is always equal to capacity.
type block[T any] struct {
	header
	data  []T
	st    *Stack // owning stack; nil for untracked bookkeeping lists
	freed bool
}

// List is a handle to a growable, element-homogeneous buffer.
//
// Like a slice returned by append, a List value may be invalidated by any
// operation that grows it: always keep the handle returned by Append,
// Insert, Extend and Resize. The zero List is the null handle.
type List[T any] struct {
	b *block[T]
}

func blockBytes(elemSize uintptr, capacity int) int {
	return headerSize + int(elemSize)*capacity
}

// maxCapacity is the largest capacity whose block size fits in an int.
func maxCapacity(elemSize uintptr) int {
	if elemSize == 0 {
		return math.MaxInt
	}
	return (math.MaxInt - headerSize) / int(elemSize)
}

// allocBlock reserves and allocates a block with the given capacity. When st
// is nil the block is untracked and exempt from the memory limit.
func allocBlock[T any](st *Stack, capacity int) (*block[T], error) {
	if capacity < 0 {
		capacity = 0
	}
	var zero T
	size := unsafe.Sizeof(zero)
	if capacity > maxCapacity(size) {
		return nil, fmt.Errorf("allocate %d elements of %d bytes: %w", capacity, size, ErrOutOfMemory)
	}
	n := blockBytes(size, capacity)
	if st != nil {
		if err := st.reserve(n); err != nil {
			return nil, err
		}
	}
	data, err := makeData[T](capacity)
	if err != nil {
		if st != nil {
			st.unreserve(n)
		}
		return nil, err
	}
	return &block[T]{
		header: header{capacity: capacity, elemSize: size},
		data:   data,
		st:     st,
	}, nil
}

// makeData turns the runtime's refusal of an impossible slice length into
// ErrOutOfMemory.
func makeData[T any](n int) (data []T, err error) {
	defer func() {
		if r := recover(); r != nil {
			data, err = nil, fmt.Errorf("allocate %d elements: %v: %w", n, r, ErrOutOfMemory)
		}
	}()
	return make([]T, n), nil
}

// dispose releases the block's storage. It reports false if the block was
// already released.
func (b *block[T]) dispose() bool {
	if b.freed {
		return false
	}
	if b.st != nil {
		b.st.unreserve(blockBytes(b.elemSize, b.capacity))
	}
	b.freed = true
	b.data = nil
	b.capacity = 0
	b.length = 0
	return true
}

// releaseList is the ReleaseFunc registered for every tracked list of T.
func releaseList[T any](p unsafe.Pointer) {
	(*block[T])(p).dispose()
}

// newRawList builds an untracked list. Only the frame stack's own storage
// is built this way, so tracking never recurses into the tracker.
func newRawList[T any](capacity int) List[T] {
	b, _ := allocBlock[T](nil, capacity)
	return List[T]{b: b}
}

// New returns an empty list with the given starting capacity, tracked in the
// current frame of st (the default stack if st is nil). It returns the null
// list if the allocation fails.
func New[T any](st *Stack, capacity int) List[T] {
	if st == nil {
		st = Default()
	}
	b, err := allocBlock[T](st, capacity)
	if err != nil {
		st.fail("New", err)
		return List[T]{}
	}
	l := List[T]{b: b}
	st.Track(l.Addr(), releaseList[T])
	return l
}

// FromSlice returns a tracked list holding a copy of src. The starting
// capacity is max(len(src), DefaultCapacity).
func FromSlice[T any](st *Stack, src []T) List[T] {
	l := New[T](st, max(len(src), DefaultCapacity))
	if l.b == nil {
		return l
	}
	l.b.length = copy(l.b.data, src)
	return l
}

// Of returns a tracked list holding vs.
func Of[T any](st *Stack, vs ...T) List[T] {
	return FromSlice(st, vs)
}

// sibling allocates a list on the same stack as l, tracked unless l itself
// is bookkeeping storage.
func (l List[T]) sibling(capacity int) List[T] {
	if l.b.st == nil {
		return newRawList[T](capacity)
	}
	return New[T](l.b.st, capacity)
}

// live returns the block behind l, panicking on a null or freed handle.
func (l List[T]) live(op string) *block[T] {
	if l.b == nil {
		panicUsage(op, "nil list")
	}
	if l.b.freed {
		panicUsage(op, "use after Free")
	}
	return l.b
}

// Addr returns the address identifying l in its frame.
func (l List[T]) Addr() unsafe.Pointer {
	return unsafe.Pointer(l.b)
}

// IsNil reports whether l is the null handle.
func (l List[T]) IsNil() bool {
	return l.b == nil
}

// Valid reports whether l refers to storage that has not been released.
func (l List[T]) Valid() bool {
	return l.b != nil && !l.b.freed
}

// Len returns the number of live elements. The null list has length 0.
func (l List[T]) Len() int {
	if l.b == nil {
		return 0
	}
	return l.live("Len").length
}

// Cap returns the number of elements l can hold before it relocates.
func (l List[T]) Cap() int {
	if l.b == nil {
		return 0
	}
	return l.live("Cap").capacity
}

// ElemSize returns the byte width of one element.
func (l List[T]) ElemSize() uintptr {
	var zero T
	return unsafe.Sizeof(zero)
}

// Stack returns the stack l is tracked against, or nil for untracked storage.
func (l List[T]) Stack() *Stack {
	return l.live("Stack").st
}

// Resize moves l into a new block of the given capacity and returns the new
// handle. The old handle is released. If l is registered in the top frame of
// its stack, the record is rewritten to the new address.
//
// On allocation failure Resize returns l unchanged together with an error
// wrapping ErrOutOfMemory. Shrinking below the length truncates.
func (l List[T]) Resize(capacity int) (List[T], error) {
	l.live("Resize")
	return l.relocate(capacity)
}

func (l List[T]) relocate(capacity int) (List[T], error) {
	b := l.b
	nb, err := allocBlock[T](b.st, capacity)
	if err != nil {
		if b.st != nil {
			return l, b.st.fail("Resize", err)
		}
		return l, err
	}
	nb.length = copy(nb.data, b.data[:b.length])
	b.dispose()
	if b.st != nil {
		b.st.rewrite(unsafe.Pointer(b), unsafe.Pointer(nb))
	}
	return List[T]{b: nb}, nil
}

// grow makes room for n more elements, doubling the capacity at least.
// It reports false if the list could not grow.
func (l *List[T]) grow(n int) bool {
	b := l.b
	if b.length+n <= b.capacity {
		return true
	}
	grown, err := l.relocate(max(2*b.capacity, b.length+n, 1))
	if err != nil {
		return false
	}
	*l = grown
	return true
}

// Append writes v after the last element and returns the possibly relocated
// handle. If the list is full and cannot grow, l is returned unchanged.
func (l List[T]) Append(v T) List[T] {
	l.live("Append")
	if !l.grow(1) {
		return l
	}
	b := l.b
	b.data[b.length] = v
	b.length++
	return l
}

// Insert places v at idx, shifting the tail right by one. idx is resolved
// against the length after insertion, so Len() inserts at the end.
func (l List[T]) Insert(idx int, v T) List[T] {
	i := resolveIndex("Insert", idx, l.live("Insert").length+1)
	if !l.grow(1) {
		return l
	}
	b := l.b
	copy(b.data[i+1:b.length+1], b.data[i:b.length])
	b.data[i] = v
	b.length++
	return l
}

// Extend appends every element of other.
func (l List[T]) Extend(other List[T]) List[T] {
	l.live("Extend")
	src := other.live("Extend")
	vals := src.data[:src.length]
	if !l.grow(len(vals)) {
		return l
	}
	b := l.b
	copy(b.data[b.length:], vals)
	b.length += len(vals)
	return l
}

// Remove deletes the element at idx, shifting the tail left, and returns it.
func (l List[T]) Remove(idx int) T {
	b := l.live("Remove")
	i := resolveIndex("Remove", idx, b.length)
	v := b.data[i]
	copy(b.data[i:], b.data[i+1:b.length])
	b.length--
	var zero T
	b.data[b.length] = zero
	return v
}

// Pop removes and returns the last element.
func (l List[T]) Pop() T {
	b := l.live("Pop")
	if b.length == 0 {
		panicUsage("Pop", "empty list")
	}
	return l.Remove(b.length - 1)
}

// resolveIndex converts a possibly negative index into an offset in
// [0, length), panicking with a BoundsError otherwise.
func resolveIndex(op string, idx, length int) int {
	i := idx
	if i < 0 {
		i += length
	}
	if i < 0 || i >= length {
		panicBounds(op, idx, length)
	}
	return i
}

// Index resolves idx (negative counts from the end) to an offset.
func (l List[T]) Index(idx int) int {
	return resolveIndex("Index", idx, l.live("Index").length)
}

// At returns the element at idx. Negative indices count from the end.
func (l List[T]) At(idx int) T {
	b := l.live("At")
	return b.data[resolveIndex("At", idx, b.length)]
}

// Set overwrites the element at idx.
func (l List[T]) Set(idx int, v T) {
	b := l.live("Set")
	b.data[resolveIndex("Set", idx, b.length)] = v
}

// Elems returns the live elements. The returned slice aliases the list and
// is only valid until the list is resized or released.
func (l List[T]) Elems() []T {
	if l.b == nil {
		return nil
	}
	b := l.live("Elems")
	return b.data[:b.length:b.length]
}

// Values returns a copy of the live elements.
func (l List[T]) Values() []T {
	return slices.Clone(l.Elems())
}

// All iterates over index/element pairs.
func (l List[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i, v := range l.Elems() {
			if !yield(i, v) {
				return
			}
		}
	}
}

// Find returns the position of the first element equal to v, or -1.
func Find[T comparable](l List[T], v T) int {
	return slices.Index(l.Elems(), v)
}

// Contains reports whether v is in l.
func Contains[T comparable](l List[T], v T) bool {
	return Find(l, v) >= 0
}

// FindFunc returns the position of the first element satisfying match, or -1.
func (l List[T]) FindFunc(match func(T) bool) int {
	return slices.IndexFunc(l.Elems(), match)
}

// ContainsFunc reports whether any element satisfies match.
func (l List[T]) ContainsFunc(match func(T) bool) bool {
	return l.FindFunc(match) >= 0
}

// Repeat returns a new list holding the elements of l repeated count times.
func (l List[T]) Repeat(count int) List[T] {
	b := l.live("Repeat")
	count = max(count, 0)
	if b.length > 0 && count > math.MaxInt/b.length {
		err := fmt.Errorf("repeat %d elements %d times: %w", b.length, count, ErrOutOfMemory)
		if b.st != nil {
			b.st.fail("Repeat", err)
		}
		return List[T]{}
	}
	n := b.length * count
	out := l.sibling(max(n, DefaultCapacity))
	if out.b == nil {
		return out
	}
	for i := 0; i < count; i++ {
		copy(out.b.data[i*b.length:], b.data[:b.length])
	}
	out.b.length = n
	return out
}

// Copy returns an independent list with the same capacity and elements.
func (l List[T]) Copy() List[T] {
	b := l.live("Copy")
	out := l.sibling(b.capacity)
	if out.b == nil {
		return out
	}
	out.b.length = copy(out.b.data, b.data[:b.length])
	return out
}

// Slice returns a new list with the elements from start up to stop taken
// every step. Negative bounds count from the end; a negative step walks
// from stop-1 down to start. start == stop yields an empty list.
func (l List[T]) Slice(start, stop, step int) List[T] {
	b := l.live("Slice")
	start, stop, ok := resolveSlice("Slice", start, stop, step, b.length)
	if !ok {
		return l.sibling(DefaultCapacity)
	}
	k := step
	if k < 0 {
		k = -k
	}
	out := l.sibling((stop - start + k - 1) / k)
	if out.b == nil {
		return out
	}
	j := 0
	if step > 0 {
		for i := start; i < stop; i += step {
			out.b.data[j] = b.data[i]
			j++
		}
	} else {
		for i := stop - 1; i >= start; i += step {
			out.b.data[j] = b.data[i]
			j++
		}
	}
	out.b.length = j
	return out
}

// resolveSlice validates slice bounds. It reports false when the slice is
// empty because start == stop after resolution.
func resolveSlice(op string, start, stop, step, length int) (int, int, bool) {
	if step == 0 {
		panicUsage(op, "slice step cannot be zero")
	}
	if start < 0 {
		start += length
	}
	if stop < 0 {
		stop += length
	}
	if start == stop {
		return start, stop, false
	}
	if start < 0 || start >= length {
		panicBounds(op, start, length)
	}
	if stop <= 0 || stop > length {
		panicBounds(op, stop, length)
	}
	if stop < start {
		panicUsage(op, fmt.Sprintf("slice stop %d before start %d", stop, start))
	}
	return start, stop, true
}

// Sort sorts l in place using cmp, which returns a negative number when
// a < b, zero when equal and a positive number when a > b.
func (l List[T]) Sort(cmp func(a, b T) int) {
	l.live("Sort")
	slices.SortFunc(l.Elems(), cmp)
}

// Clear sets the length to zero, keeping the storage.
func (l List[T]) Clear() {
	b := l.live("Clear")
	clear(b.data[:b.length])
	b.length = 0
}

// Free releases l immediately and removes it from the current frame, so the
// frame will not release it again. l must not be used afterwards.
func (l List[T]) Free() {
	b := l.live("Free")
	if b.st != nil {
		b.st.forget(l.Addr())
	}
	if b.dispose() && b.st != nil {
		b.st.stats.freed++
	}
}

// String renders the live elements with %v.
func (l List[T]) String() string {
	if !l.Valid() {
		return "<nil>"
	}
	return fmt.Sprint(l.Elems())
}
