// Copyright 2025 cloudeng llc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package ring provides the node storage model for doubly linked lists
// whose nodes live in a Store and are named by Handles rather than
// pointers. A Ring holds the links of its sentinel, the first node's
// previous link and the last node's next link are Sentinel, so that
// conceptually the list is circular:
//
//	sentinel -> first -> ... -> last -> sentinel
//
// All operations are O(1) apart from Verify. Rings that are spliced
// together must share the same Store.
package ring

// Ring represents a circular doubly linked list of nodes held in a Store.
type Ring[T any] struct {
	store Store[T]
	next  Handle // first node, or Sentinel when empty.
	prev  Handle // last node, or Sentinel when empty.
}

// New returns an empty ring whose nodes are held in store.
func New[T any](store Store[T]) *Ring[T] {
	r := &Ring[T]{}
	r.Init(store)
	return r
}

// Init sets the ring's store and resets it to be empty.
func (r *Ring[T]) Init(store Store[T]) {
	r.store = store
	r.Reset()
}

// Reset points the sentinel at itself. Nodes that were linked into the
// ring are not modified.
func (r *Ring[T]) Reset() {
	r.next = Sentinel
	r.prev = Sentinel
}

// Store returns the ring's store.
func (r *Ring[T]) Store() Store[T] {
	return r.store
}

// Empty returns true if no nodes are linked into the ring.
func (r *Ring[T]) Empty() bool {
	return r.next == Sentinel
}

// Front returns the first node, or Sentinel if the ring is empty.
func (r *Ring[T]) Front() Handle {
	return r.next
}

// Back returns the last node, or Sentinel if the ring is empty.
func (r *Ring[T]) Back() Handle {
	return r.prev
}

// Node returns the node for h, or nil if h is Sentinel or stale.
func (r *Ring[T]) Node(h Handle) *Node[T] {
	if h == Sentinel {
		return nil
	}
	return r.store.Node(h)
}

// Next returns the handle following h. Next(Sentinel) is the first node.
// Sentinel is returned for a stale handle.
func (r *Ring[T]) Next(h Handle) Handle {
	if h == Sentinel {
		return r.next
	}
	if n := r.store.Node(h); n != nil {
		return n.next
	}
	return Sentinel
}

// Prev returns the handle preceding h. Prev(Sentinel) is the last node.
// Sentinel is returned for a stale handle.
func (r *Ring[T]) Prev(h Handle) Handle {
	if h == Sentinel {
		return r.prev
	}
	if n := r.store.Node(h); n != nil {
		return n.prev
	}
	return Sentinel
}

func (r *Ring[T]) setNext(h, to Handle) {
	if h == Sentinel {
		r.next = to
		return
	}
	r.store.Node(h).next = to
}

func (r *Ring[T]) setPrev(h, to Handle) {
	if h == Sentinel {
		r.prev = to
		return
	}
	r.store.Node(h).prev = to
}

func (r *Ring[T]) valid(h Handle) bool {
	return h == Sentinel || r.store.Node(h) != nil
}

func (r *Ring[T]) link(h, prev, next Handle) bool {
	n := r.Node(h)
	if n == nil || !r.valid(prev) || !r.valid(next) {
		return false
	}
	n.prev = prev
	n.next = next
	r.setNext(prev, h)
	r.setPrev(next, h)
	return true
}

// LinkAfter links the detached node h immediately after pos. Linking after
// Sentinel makes h the first node. It returns false, without modifying
// the ring, if either h or pos is stale.
func (r *Ring[T]) LinkAfter(h, pos Handle) bool {
	if !r.valid(pos) {
		return false
	}
	return r.link(h, pos, r.Next(pos))
}

// LinkBefore links the detached node h immediately before pos. Linking
// before Sentinel makes h the last node. It returns false, without
// modifying the ring, if either h or pos is stale.
func (r *Ring[T]) LinkBefore(h, pos Handle) bool {
	if !r.valid(pos) {
		return false
	}
	return r.link(h, r.Prev(pos), pos)
}

// Unlink removes h from the ring and clears its links. It returns false
// if h is Sentinel or stale.
func (r *Ring[T]) Unlink(h Handle) bool {
	n := r.Node(h)
	if n == nil {
		return false
	}
	r.setNext(n.prev, n.next)
	r.setPrev(n.next, n.prev)
	n.prev, n.next = Sentinel, Sentinel
	return true
}

// SpliceBack links every node in r onto the back of dst by relinking the
// boundary nodes only. If detach is true r is left empty. If detach is
// false r's sentinel continues to refer to the spliced nodes, which are
// then reachable from both rings; see list.List.SpliceAppendShared.
func (r *Ring[T]) SpliceBack(dst *Ring[T], detach bool) {
	if r.Empty() {
		return
	}
	first, last := r.next, r.prev
	at := dst.prev
	r.store.Node(first).prev = at
	dst.setNext(at, first)
	r.store.Node(last).next = Sentinel
	dst.prev = last
	if detach {
		r.Reset()
	}
}

// SpliceFront is like SpliceBack except that r's nodes are linked onto
// the front of dst.
func (r *Ring[T]) SpliceFront(dst *Ring[T], detach bool) {
	if r.Empty() {
		return
	}
	first, last := r.next, r.prev
	at := dst.next
	r.store.Node(last).next = at
	dst.setPrev(at, last)
	r.store.Node(first).prev = Sentinel
	dst.next = first
	if detach {
		r.Reset()
	}
}
