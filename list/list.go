// Copyright 2025 cloudeng llc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package list provides a doubly linked list whose algorithms are
// independent of how its nodes are allocated. Nodes are obtained from,
// and returned to, an alloc.Allocator supplied when the list is created,
// so the same list code runs over the Go heap, a fixed capacity pool or
// any other strategy.
//
// Insertions report allocation and value construction failures as errors
// and leave the list unchanged. Removals cannot fail. Accessors return
// a bool to indicate whether the requested element was returned; when it
// was not, because it does not exist or could not be copied out, the value
// returned is the list's scratch value, that is, whatever was last
// returned by an accessor.
//
// Lists are not safe for concurrent use.
package list

import (
	"fmt"

	"cloudeng.io/errors"
	"cloudeng.io/linked/alloc"
	"cloudeng.io/linked/internal/assert"
	"cloudeng.io/linked/ring"
)

var (
	// ErrNotEmpty is returned by Close for a list that still has elements.
	ErrNotEmpty = errors.New("list is not empty")
	// ErrForeignAllocator is returned when splicing lists that do not
	// share an allocator.
	ErrForeignAllocator = errors.New("lists do not share an allocator")
	// ErrSelfSplice is returned when splicing a list into itself.
	ErrSelfSplice = errors.New("list cannot be spliced into itself")
	// ErrInvalidPosition is returned when inserting relative to an
	// iterator whose current element has been removed.
	ErrInvalidPosition = errors.New("invalid iterator position")
)

// List is a doubly linked list of T whose nodes are allocated by A.
type List[T any, A alloc.Allocator[T]] struct {
	ring    ring.Ring[T]
	alloc   A
	life    discipline[T]
	len     int
	scratch T
}

// New returns a list that copies values into and out of its nodes by
// plain assignment.
func New[T any, A alloc.Allocator[T]](a A) *List[T, A] {
	return newList[T](a, rawCopy[T]{})
}

// NewConstructed returns a list for values that must be assigned and
// released via their Resource methods.
func NewConstructed[T any, PT Resource[T], A alloc.Allocator[T]](a A) *List[T, A] {
	return newList[T](a, constructed[T, PT]{})
}

// NewHeap is like New but uses a newly created alloc.Heap.
func NewHeap[T any](opts ...alloc.HeapOption) *List[T, *alloc.Heap[T]] {
	return New[T](alloc.NewHeap[T](opts...))
}

func newList[T any, A alloc.Allocator[T]](a A, life discipline[T]) *List[T, A] {
	l := &List[T, A]{alloc: a, life: life}
	l.ring.Init(a)
	return l
}

// Allocator returns the list's allocator.
func (l *List[T, A]) Allocator() A {
	return l.alloc
}

// Len returns the number of elements in the list.
func (l *List[T, A]) Len() int {
	return l.len
}

// IsEmpty returns true if the list has no elements.
func (l *List[T, A]) IsEmpty() bool {
	return l.len == 0
}

func (l *List[T, A]) add(v T, pos ring.Handle, before bool) error {
	h, err := l.alloc.Allocate()
	if err != nil {
		return fmt.Errorf("list: allocation failed: %w", err)
	}
	n := l.alloc.Node(h)
	if err := l.life.construct(&n.Value, &v); err != nil {
		l.alloc.Deallocate(h)
		return fmt.Errorf("list: value construction failed: %w", err)
	}
	var ok bool
	if before {
		ok = l.ring.LinkBefore(h, pos)
	} else {
		ok = l.ring.LinkAfter(h, pos)
	}
	if !ok {
		assert.True(false, "insertion relative to stale position %v", pos)
		l.life.destroy(&n.Value)
		l.alloc.Deallocate(h)
		return ErrInvalidPosition
	}
	l.len++
	return nil
}

// Append adds v to the end of the list.
func (l *List[T, A]) Append(v T) error {
	return l.add(v, ring.Sentinel, true)
}

// Insert adds v to the front of the list.
func (l *List[T, A]) Insert(v T) error {
	return l.add(v, ring.Sentinel, false)
}

// AppendAt adds v immediately after the iterator's current element. An
// exhausted iterator denotes the sentinel, so v becomes the first element.
// ErrInvalidPosition is returned if the iterator does not belong to l or
// its current element has been removed.
func (l *List[T, A]) AppendAt(v T, it *Iterator[T]) error {
	if err := l.owns(it); err != nil {
		return err
	}
	return l.add(v, it.cur, false)
}

// InsertAt adds v immediately before the iterator's current element. An
// exhausted iterator denotes the sentinel, so v becomes the last element.
// Errors are as for AppendAt.
func (l *List[T, A]) InsertAt(v T, it *Iterator[T]) error {
	if err := l.owns(it); err != nil {
		return err
	}
	return l.add(v, it.cur, true)
}

// owns rejects iterators for other lists. Lists that share an allocator
// resolve each other's handles, so linking relative to a foreign position
// would join the two rings.
func (l *List[T, A]) owns(it *Iterator[T]) error {
	if it.ring != &l.ring {
		assert.True(false, "insertion via an iterator for a different list")
		return fmt.Errorf("%w: iterator belongs to a different list", ErrInvalidPosition)
	}
	return nil
}

// free unlinks and destroys the node h.
func (l *List[T, A]) free(h ring.Handle, n *ring.Node[T]) {
	l.ring.Unlink(h)
	l.len--
	l.life.destroy(&n.Value)
	l.alloc.Deallocate(h)
}

func (l *List[T, A]) value(h ring.Handle, remove bool) (T, bool) {
	n := l.ring.Node(h)
	if n == nil {
		return l.scratch, false
	}
	if err := l.life.assign(&l.scratch, &n.Value); err != nil {
		return l.scratch, false
	}
	if remove {
		l.free(h, n)
	}
	return l.scratch, true
}

func (l *List[T, A]) handleAt(i int) ring.Handle {
	if i < 0 || i >= l.len {
		return ring.Sentinel
	}
	if i < l.len/2 {
		h := l.ring.Front()
		for ; i > 0; i-- {
			h = l.ring.Next(h)
		}
		return h
	}
	h := l.ring.Back()
	for i = l.len - 1 - i; i > 0; i-- {
		h = l.ring.Prev(h)
	}
	return h
}

// At returns the element at index i. It returns the scratch value and
// false if i is out of range. The returned value shares any storage
// owned by the scratch value and is only valid until the next accessor
// call on the list.
//
// For lists created by NewConstructed, false is also returned if Assign
// fails to copy the element into the scratch value. The element is then
// left in place, so RemoveAt and the other removing accessors do not
// remove it and Len is unchanged.
func (l *List[T, A]) At(i int) (T, bool) {
	return l.value(l.handleAt(i), false)
}

// RemoveAt is like At but also removes the element.
func (l *List[T, A]) RemoveAt(i int) (T, bool) {
	return l.value(l.handleAt(i), true)
}

// First returns the first element, see At.
func (l *List[T, A]) First() (T, bool) {
	return l.value(l.ring.Front(), false)
}

// Last returns the last element, see At.
func (l *List[T, A]) Last() (T, bool) {
	return l.value(l.ring.Back(), false)
}

// RemoveFirst returns and removes the first element, see At.
func (l *List[T, A]) RemoveFirst() (T, bool) {
	return l.value(l.ring.Front(), true)
}

// RemoveLast returns and removes the last element, see At.
func (l *List[T, A]) RemoveLast() (T, bool) {
	return l.value(l.ring.Back(), true)
}

// Equal can be used with RemoveOne and RemoveAll for comparable types.
func Equal[T comparable](a, b T) bool {
	return a == b
}

// RemoveOne removes the first element for which eq(element, v) is true.
// It returns true if an element was removed.
func (l *List[T, A]) RemoveOne(v T, eq func(a, b T) bool) bool {
	for h := l.ring.Front(); h != ring.Sentinel; {
		n, next := l.ring.Node(h), l.ring.Next(h)
		if eq(n.Value, v) {
			l.free(h, n)
			return true
		}
		h = next
	}
	return false
}

// RemoveAll removes every element for which eq(element, v) is true and
// returns the number removed.
func (l *List[T, A]) RemoveAll(v T, eq func(a, b T) bool) int {
	removed := 0
	for h := l.ring.Front(); h != ring.Sentinel; {
		n, next := l.ring.Node(h), l.ring.Next(h)
		if eq(n.Value, v) {
			l.free(h, n)
			removed++
		}
		h = next
	}
	return removed
}

// Remove removes the iterator's current element. The iterator may still
// be advanced with Next. It returns false if the iterator does not
// belong to l, is exhausted or its current element was already removed.
func (l *List[T, A]) Remove(it *Iterator[T]) bool {
	if it.ring != &l.ring {
		assert.True(false, "remove via an iterator for a different list")
		return false
	}
	n := l.ring.Node(it.cur)
	if n == nil {
		assert.True(false, "remove via an invalid iterator at %v", it.cur)
		return false
	}
	l.free(it.cur, n)
	return true
}

// Clear removes every element. The list may be reused.
func (l *List[T, A]) Clear() {
	for h := l.ring.Front(); h != ring.Sentinel; {
		next := l.ring.Next(h)
		if n := l.ring.Node(h); n != nil {
			l.life.destroy(&n.Value)
		}
		l.alloc.Deallocate(h)
		h = next
	}
	l.ring.Reset()
	l.len = 0
}

// Abandon empties the list without destroying or deallocating its nodes.
// It is only needed to tear down lists that share nodes following
// SpliceAppendShared or SpliceInsertShared.
func (l *List[T, A]) Abandon() {
	l.ring.Reset()
	l.len = 0
}

// Close releases the scratch value. Closing a non-empty list is a
// programming error, ErrNotEmpty is returned and the list is unchanged.
func (l *List[T, A]) Close() error {
	assert.True(l.len == 0, "closing a list with %d elements", l.len)
	if l.len != 0 {
		return fmt.Errorf("%w: %d elements remain", ErrNotEmpty, l.len)
	}
	l.life.destroy(&l.scratch)
	var zero T
	l.scratch = zero
	return nil
}

// Verify checks the list's links and count, see ring.Verify.
func (l *List[T, A]) Verify() error {
	return ring.Verify(&l.ring, l.len)
}
