// Copyright 2025 cloudeng llc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package list

import (
	"iter"

	"cloudeng.io/linked/internal/assert"
	"cloudeng.io/linked/ring"
)

// Iterator visits the elements of a list from front to back. It records
// both its current element and the one that follows, so removing the
// current element via List.Remove does not prevent it from advancing.
// Any other change to the list's structure while an iterator is in use
// invalidates it. Iterators cannot be restarted.
//
//	for it := l.Begin(); it.Valid(); it.Next() {
//		if drop(it.Value()) {
//			l.Remove(it)
//		}
//	}
type Iterator[T any] struct {
	ring *ring.Ring[T]
	life discipline[T]
	cur  ring.Handle
	next ring.Handle
}

// Begin returns an iterator positioned at the first element.
func (l *List[T, A]) Begin() *Iterator[T] {
	it := &Iterator[T]{ring: &l.ring, life: l.life, cur: l.ring.Front()}
	if it.cur != ring.Sentinel {
		it.next = l.ring.Next(it.cur)
	}
	return it
}

// Valid returns true until the iterator has moved past the last element.
func (it *Iterator[T]) Valid() bool {
	return it.cur != ring.Sentinel
}

// Next advances to the element that followed the current one when the
// current one was reached.
func (it *Iterator[T]) Next() {
	it.cur = it.next
	if it.cur != ring.Sentinel {
		it.next = it.ring.Next(it.cur)
	}
}

// Ptr returns a pointer to the current element, or nil if the iterator
// is exhausted or its element has been removed.
func (it *Iterator[T]) Ptr() *T {
	n := it.ring.Node(it.cur)
	if n == nil {
		return nil
	}
	return &n.Value
}

// Value returns the current element. The zero value is returned if the
// iterator is exhausted or its element has been removed.
func (it *Iterator[T]) Value() T {
	p := it.Ptr()
	if p == nil {
		assert.True(!it.Valid(), "value of removed element at %v", it.cur)
		var zero T
		return zero
	}
	return *p
}

// Set replaces the current element with v, using Assign for lists
// created by NewConstructed.
func (it *Iterator[T]) Set(v T) error {
	p := it.Ptr()
	if p == nil {
		assert.True(false, "set of removed or exhausted element at %v", it.cur)
		return ErrInvalidPosition
	}
	return it.life.assign(p, &v)
}

// Positions returns an iterator over the positions in the list, it is
// safe to Remove the yielded position.
func (l *List[T, A]) Positions() iter.Seq[*Iterator[T]] {
	return func(yield func(*Iterator[T]) bool) {
		for it := l.Begin(); it.Valid(); it.Next() {
			if !yield(it) {
				return
			}
		}
	}
}

// Forward returns an iterator over the elements from front to back. The
// yielded element may be removed, e.g. with RemoveOne, during iteration.
func (l *List[T, A]) Forward() iter.Seq[T] {
	return func(yield func(T) bool) {
		for h := l.ring.Front(); h != ring.Sentinel; {
			n, next := l.ring.Node(h), l.ring.Next(h)
			if n == nil || !yield(n.Value) {
				return
			}
			h = next
		}
	}
}

// Reverse returns an iterator over the elements from back to front.
func (l *List[T, A]) Reverse() iter.Seq[T] {
	return func(yield func(T) bool) {
		for h := l.ring.Back(); h != ring.Sentinel; {
			n, prev := l.ring.Node(h), l.ring.Prev(h)
			if n == nil || !yield(n.Value) {
				return
			}
			h = prev
		}
	}
}
