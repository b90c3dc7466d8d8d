// Copyright 2025 cloudeng llc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package alloc

import "cloudeng.io/linked/ring"

type heapOptions struct {
	limit        int
	initialSlots int
}

// HeapOption represents an option to NewHeap.
type HeapOption func(*heapOptions)

// WithLimit bounds the number of live nodes, Allocate returns ErrExhausted
// once the limit is reached. A limit of zero, the default, is unbounded.
func WithLimit(n int) HeapOption {
	return func(o *heapOptions) {
		o.limit = n
	}
}

// WithInitialSlots sets the initial capacity of the slot table. It does
// not allocate any nodes.
func WithInitialSlots(n int) HeapOption {
	return func(o *heapOptions) {
		o.initialSlots = n
	}
}

// Heap is a general purpose allocator. Every node is a separate Go
// allocation recorded in a slot table; freed slots are reused and their
// generation advanced so that old handles become stale. Freed nodes are
// dropped so that the garbage collector can reclaim them.
type Heap[T any] struct {
	slots []*ring.Node[T] // nil when free.
	gens  []uint32
	free  []int
	stats Stats
}

// NewHeap returns a new heap allocator.
func NewHeap[T any](opts ...HeapOption) *Heap[T] {
	var o heapOptions
	for _, fn := range opts {
		fn(&o)
	}
	return &Heap[T]{
		slots: make([]*ring.Node[T], 0, o.initialSlots),
		gens:  make([]uint32, 0, o.initialSlots),
		stats: Stats{Capacity: max(o.limit, 0)},
	}
}

// Allocate implements Allocator.
func (h *Heap[T]) Allocate() (ring.Handle, error) {
	if h.stats.Capacity > 0 && h.stats.Live >= h.stats.Capacity {
		return ring.Sentinel, h.stats.exhausted()
	}
	var slot int
	if l := len(h.free); l > 0 {
		slot = h.free[l-1]
		h.free = h.free[:l-1]
	} else {
		slot = len(h.slots)
		h.slots = append(h.slots, nil)
		h.gens = append(h.gens, 0)
	}
	n := new(ring.Node[T])
	n.Reset(h.gens[slot])
	h.slots[slot] = n
	h.stats.allocated()
	return ring.MakeHandle(slot, n.Generation()), nil
}

// Deallocate implements Allocator.
func (h *Heap[T]) Deallocate(hdl ring.Handle) {
	if hdl == ring.Sentinel {
		return
	}
	n := h.Node(hdl)
	if n == nil {
		h.stats.freed(false)
		return
	}
	slot := hdl.Slot()
	h.gens[slot] = n.Recycle()
	h.slots[slot] = nil
	h.free = append(h.free, slot)
	h.stats.freed(true)
}

// Node implements ring.Store.
func (h *Heap[T]) Node(hdl ring.Handle) *ring.Node[T] {
	i := hdl.Slot()
	if i < 0 || i >= len(h.slots) {
		return nil
	}
	if n := h.slots[i]; n.Matches(hdl) {
		return n
	}
	return nil
}

// Stats implements Allocator.
func (h *Heap[T]) Stats() Stats {
	return h.stats
}
