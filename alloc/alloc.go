// Copyright 2025 cloudeng llc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package alloc provides node allocation strategies for lists built on
// cloudeng.io/linked/ring. A strategy owns the storage for nodes, issues
// handles to them and resolves those handles. Allocation may fail,
// deallocation never does.
package alloc

import (
	"fmt"

	"cloudeng.io/errors"
	"cloudeng.io/linked/ring"
)

// ErrExhausted is returned by Allocate when no node can be provided.
var ErrExhausted = errors.New("allocator exhausted")

// Allocator is the node allocation extension point.
//
// Allocate returns the handle of a zeroed, detached node or an error
// wrapping ErrExhausted. It must not panic.
//
// Deallocate returns a node to the allocator. It must never fail or
// panic; deallocating Sentinel is a no-op and deallocating a stale handle
// is ignored and counted in Stats.BadFrees.
//
// Implementations must be pointer types since lists compare allocators
// to determine whether they share storage.
type Allocator[T any] interface {
	ring.Store[T]
	Allocate() (ring.Handle, error)
	Deallocate(ring.Handle)
	Stats() Stats
}

// Stats records an allocator's activity.
type Stats struct {
	Capacity int // Maximum number of live nodes, 0 if unbounded.
	Live     int
	Allocs   int64
	Frees    int64
	Failures int64 // Allocations that returned ErrExhausted.
	BadFrees int64 // Deallocations of stale or unknown handles.
}

func (s Stats) String() string {
	return fmt.Sprintf("capacity: %d, live: %d, allocs: %d, frees: %d, failures: %d, bad frees: %d",
		s.Capacity, s.Live, s.Allocs, s.Frees, s.Failures, s.BadFrees)
}

func (s *Stats) exhausted() error {
	s.Failures++
	if s.Capacity > 0 {
		return fmt.Errorf("%w: %d of %d nodes in use", ErrExhausted, s.Live, s.Capacity)
	}
	return ErrExhausted
}

func (s *Stats) allocated() {
	s.Allocs++
	s.Live++
}

func (s *Stats) freed(ok bool) {
	if !ok {
		s.BadFrees++
		return
	}
	s.Frees++
	s.Live--
}
