// Copyright 2025 cloudeng llc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package alloc

import (
	"cloudeng.io/algo/container/bitmap"
	"cloudeng.io/linked/ring"
)

// Pool is a fixed capacity allocator. All nodes are allocated up front as
// a single slice and handed out from a LIFO free list, so allocation and
// deallocation are O(1) and never call into the Go allocator. Allocate
// returns ErrExhausted once every node is in use.
type Pool[T any] struct {
	nodes []ring.Node[T]
	free  []int32
	live  bitmap.T
	stats Stats
}

// NewPool returns a pool of capacity nodes.
func NewPool[T any](capacity int) *Pool[T] {
	capacity = max(capacity, 0)
	p := &Pool[T]{
		nodes: make([]ring.Node[T], capacity),
		free:  make([]int32, capacity),
		live:  bitmap.New(capacity),
		stats: Stats{Capacity: capacity},
	}
	for i := range p.free {
		p.free[i] = int32(capacity - 1 - i)
	}
	return p
}

// Allocate implements Allocator.
func (p *Pool[T]) Allocate() (ring.Handle, error) {
	l := len(p.free)
	if l == 0 {
		return ring.Sentinel, p.stats.exhausted()
	}
	slot := int(p.free[l-1])
	p.free = p.free[:l-1]
	p.live.SetUnsafe(slot)
	p.stats.allocated()
	return ring.MakeHandle(slot, p.nodes[slot].Generation()), nil
}

// Deallocate implements Allocator.
func (p *Pool[T]) Deallocate(h ring.Handle) {
	if h == ring.Sentinel {
		return
	}
	n := p.Node(h)
	if n == nil {
		p.stats.freed(false)
		return
	}
	slot := h.Slot()
	n.Recycle()
	p.live.ClearUnsafe(slot)
	p.free = append(p.free, int32(slot))
	p.stats.freed(true)
}

// Node implements ring.Store.
func (p *Pool[T]) Node(h ring.Handle) *ring.Node[T] {
	i := h.Slot()
	if i < 0 || i >= len(p.nodes) || !p.live.IsSetUnsafe(i) {
		return nil
	}
	if n := &p.nodes[i]; n.Matches(h) {
		return n
	}
	return nil
}

// Stats implements Allocator.
func (p *Pool[T]) Stats() Stats {
	return p.stats
}

// Available returns the number of nodes that can still be allocated.
func (p *Pool[T]) Available() int {
	return len(p.free)
}
