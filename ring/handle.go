// Copyright 2025 cloudeng llc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package ring

import "fmt"

// Handle names a node slot within a Store. The low 32 bits hold the
// slot index plus one and the high 32 bits hold the slot's generation
// at the time the handle was issued, so that a handle to a freed, and
// possibly reused, slot no longer resolves.
type Handle uint64

// Sentinel is the handle of a ring's sentinel. It is never issued by a
// Store and never resolves to a node.
const Sentinel Handle = 0

// MakeHandle returns the handle for the specified zero-based slot and
// generation.
func MakeHandle(slot int, gen uint32) Handle {
	return Handle(uint64(gen)<<32 | uint64(uint32(slot+1)))
}

// Slot returns the zero-based slot index, or -1 for Sentinel.
func (h Handle) Slot() int {
	return int(uint32(h)) - 1
}

// Generation returns the generation recorded in the handle.
func (h Handle) Generation() uint32 {
	return uint32(h >> 32)
}

func (h Handle) String() string {
	if h == Sentinel {
		return "sentinel"
	}
	return fmt.Sprintf("%d/%d", h.Slot(), h.Generation())
}

// Node holds a single value and the links that place it within a ring.
type Node[T any] struct {
	Value T
	prev  Handle
	next  Handle
	gen   uint32
}

// Generation returns the node's current generation.
func (n *Node[T]) Generation() uint32 {
	return n.gen
}

// Matches returns true if h was issued for n's current generation.
func (n *Node[T]) Matches(h Handle) bool {
	return n != nil && h != Sentinel && n.gen == h.Generation()
}

// Reset zeroes the node, including its value, and sets its generation.
func (n *Node[T]) Reset(gen uint32) {
	*n = Node[T]{gen: gen}
}

// Recycle zeroes the node and advances its generation so that
// outstanding handles to it become stale. It returns the new generation.
func (n *Node[T]) Recycle() uint32 {
	n.Reset(n.gen + 1)
	return n.gen
}

// Store resolves handles to nodes. Node must return nil for Sentinel,
// for handles outside of the store and for handles whose generation does
// not match the slot's current generation.
type Store[T any] interface {
	Node(h Handle) *Node[T]
}
