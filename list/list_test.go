// Copyright 2025 cloudeng llc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package list_test

import (
	"errors"
	"math/rand/v2"
	"slices"
	"testing"

	"cloudeng.io/linked/alloc"
	"cloudeng.io/linked/internal/assert"
	"cloudeng.io/linked/list"
	"cloudeng.io/linked/ring"
)

func forward[T any, A alloc.Allocator[T]](l *list.List[T, A]) []T {
	var res []T
	for v := range l.Forward() {
		res = append(res, v)
	}
	return res
}

func reverse[T any, A alloc.Allocator[T]](l *list.List[T, A]) []T {
	var res []T
	for v := range l.Reverse() {
		res = append(res, v)
	}
	return res
}

func testDL[T comparable, A alloc.Allocator[T]](t *testing.T, l *list.List[T, A], fwd []T) {
	t.Helper()
	if got, want := forward(l), fwd; !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	if got, want := l.Len(), len(fwd); got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if got, want := l.IsEmpty(), len(fwd) == 0; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if len(fwd) > 0 {
		if got, ok := l.First(); !ok || got != fwd[0] {
			t.Errorf("got %v, %v, want %v", got, ok, fwd[0])
		}
		if got, ok := l.Last(); !ok || got != fwd[len(fwd)-1] {
			t.Errorf("got %v, %v, want %v", got, ok, fwd[len(fwd)-1])
		}
	}
	rev := slices.Clone(fwd)
	slices.Reverse(rev)
	if got, want := reverse(l), rev; !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	if err := l.Verify(); err != nil {
		t.Errorf("verify: %v", err)
	}
}

func appendAll[T any, A alloc.Allocator[T]](t *testing.T, l *list.List[T, A], vals ...T) {
	t.Helper()
	for _, v := range vals {
		if err := l.Append(v); err != nil {
			t.Fatalf("append %v: %v", v, err)
		}
	}
}

func TestDL(t *testing.T) {
	dl := list.NewHeap[int]()
	testDL(t, dl, []int{})
	if _, ok := dl.First(); ok {
		t.Errorf("empty list has a first element")
	}

	appendAll(t, dl, 1)
	testDL(t, dl, []int{1})
	appendAll(t, dl, 2, 3, 4, 50, 6)
	testDL(t, dl, []int{1, 2, 3, 4, 50, 6})

	if !dl.RemoveOne(1, list.Equal) {
		t.Errorf("failed to remove 1")
	}
	testDL(t, dl, []int{2, 3, 4, 50, 6})
	if dl.RemoveOne(100, list.Equal) {
		t.Errorf("removed a missing element")
	}
	if v, ok := dl.RemoveLast(); !ok || v != 6 {
		t.Errorf("got %v, %v, want 6", v, ok)
	}
	testDL(t, dl, []int{2, 3, 4, 50})
	if err := dl.Insert(34); err != nil {
		t.Fatal(err)
	}
	testDL(t, dl, []int{34, 2, 3, 4, 50})
	if v, ok := dl.RemoveFirst(); !ok || v != 34 {
		t.Errorf("got %v, %v, want 34", v, ok)
	}
	if v, ok := dl.RemoveAt(2); !ok || v != 4 {
		t.Errorf("got %v, %v, want 4", v, ok)
	}
	testDL(t, dl, []int{2, 3, 50})

	dl.Clear()
	testDL(t, dl, []int{})
	dl.Clear()
	testDL(t, dl, []int{})
	if err := dl.Insert(1); err != nil {
		t.Fatal(err)
	}
	if err := dl.Insert(3); err != nil {
		t.Fatal(err)
	}
	testDL(t, dl, []int{3, 1})
	dl.Clear()
	if err := dl.Close(); err != nil {
		t.Fatal(err)
	}
	if got, want := dl.Allocator().Stats().Live, 0; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestRoundTrip(t *testing.T) {
	vals := []string{"a", "b", "c", "d", "e"}
	for _, tc := range []struct {
		name string
		l    *list.List[string, alloc.Allocator[string]]
	}{
		{"heap", list.New[string, alloc.Allocator[string]](alloc.NewHeap[string]())},
		{"pool", list.New[string, alloc.Allocator[string]](alloc.NewPool[string](len(vals)))},
	} {
		t.Run(tc.name, func(t *testing.T) {
			l := tc.l
			appendAll(t, l, vals...)
			testDL(t, l, vals)
			l.Clear()
			for _, v := range vals {
				if err := l.Insert(v); err != nil {
					t.Fatal(err)
				}
			}
			rev := slices.Clone(vals)
			slices.Reverse(rev)
			testDL(t, l, rev)
			l.Clear()
		})
	}
}

func TestAt(t *testing.T) {
	l := list.NewHeap[int]()
	if _, ok := l.At(0); ok {
		t.Errorf("empty list has an element 0")
	}
	appendAll(t, l, 10, 11, 12, 13, 14)
	for i := range 5 {
		if got, ok := l.At(i); !ok || got != 10+i {
			t.Errorf("%v: got %v, %v, want %v", i, got, ok, 10+i)
		}
	}
	// Out of range accesses return the scratch value, which is whatever
	// was last returned.
	if got, ok := l.At(5); ok || got != 14 {
		t.Errorf("got %v, %v, want 14, false", got, ok)
	}
	if _, ok := l.At(-1); ok {
		t.Errorf("negative index should not be found")
	}
	if _, ok := l.RemoveAt(5); ok {
		t.Errorf("out of range removal should fail")
	}
	testDL(t, l, []int{10, 11, 12, 13, 14})
	l.Clear()
}

func TestRemoveOneAndAll(t *testing.T) {
	l := list.NewHeap[string]()
	appendAll(t, l, "a", "b", "b", "c")
	if !l.RemoveOne("b", list.Equal) {
		t.Errorf("failed to remove b")
	}
	testDL(t, l, []string{"a", "b", "c"})

	l.Clear()
	appendAll(t, l, "a", "b", "b", "c")
	if got, want := l.RemoveAll("b", list.Equal), 2; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	testDL(t, l, []string{"a", "c"})
	if got, want := l.RemoveAll("z", list.Equal), 0; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	l.Clear()
}

func TestIterator(t *testing.T) {
	l := list.NewHeap[int]()
	appendAll(t, l, 1, 2, 3)
	var visited []int
	for it := l.Begin(); it.Valid(); it.Next() {
		visited = append(visited, it.Value())
		if it.Value() == 2 {
			if !l.Remove(it) {
				t.Errorf("failed to remove via iterator")
			}
		}
	}
	if got, want := visited, []int{1, 2, 3}; !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	testDL(t, l, []int{1, 3})

	// Remove every element while iterating.
	for it := range l.Positions() {
		l.Remove(it)
	}
	testDL(t, l, []int{})

	it := l.Begin()
	if it.Valid() {
		t.Errorf("iterator over an empty list is valid")
	}
	it.Next()
	if it.Valid() {
		t.Errorf("exhausted iterator became valid")
	}
	if got, want := it.Value(), 0; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestIteratorInsert(t *testing.T) {
	l := list.NewHeap[int]()
	appendAll(t, l, 10, 20, 30)
	for it := l.Begin(); it.Valid(); it.Next() {
		v := it.Value()
		if err := l.InsertAt(v-1, it); err != nil {
			t.Fatal(err)
		}
		if err := l.AppendAt(v+1, it); err != nil {
			t.Fatal(err)
		}
	}
	// The lookahead iterator does not visit elements appended after the
	// current one.
	testDL(t, l, []int{9, 10, 11, 19, 20, 21, 29, 30, 31})

	it := l.Begin()
	if err := it.Set(100); err != nil {
		t.Fatal(err)
	}
	if got, want := *it.Ptr(), 100; got != want {
		t.Errorf("got %v, want %v", got, want)
	}

	// An exhausted iterator denotes the sentinel.
	for ; it.Valid(); it.Next() {
	}
	if err := l.AppendAt(0, it); err != nil {
		t.Fatal(err)
	}
	if err := l.InsertAt(1000, it); err != nil {
		t.Fatal(err)
	}
	testDL(t, l, []int{0, 100, 10, 11, 19, 20, 21, 29, 30, 31, 1000})
	l.Clear()
}

func TestStaleIterator(t *testing.T) {
	if assert.Enabled {
		t.Skip("assertions are enabled")
	}
	l := list.NewHeap[int]()
	appendAll(t, l, 1, 2)
	it := l.Begin()
	l.Remove(it)
	if l.Remove(it) {
		t.Errorf("removed the same element twice")
	}
	if err := l.AppendAt(3, it); !errors.Is(err, list.ErrInvalidPosition) {
		t.Errorf("got %v, want %v", err, list.ErrInvalidPosition)
	}
	if err := it.Set(3); !errors.Is(err, list.ErrInvalidPosition) {
		t.Errorf("got %v, want %v", err, list.ErrInvalidPosition)
	}
	other := list.NewHeap[int]()
	if other.Remove(l.Begin()) {
		t.Errorf("removed via an iterator for a different list")
	}

	shared := alloc.NewHeap[int]()
	a, b := list.New[int](shared), list.New[int](shared)
	appendAll(t, a, 1)
	appendAll(t, b, 10, 20)
	bit := b.Begin()
	bit.Next()
	if err := a.AppendAt(99, bit); !errors.Is(err, list.ErrInvalidPosition) {
		t.Errorf("got %v, want %v", err, list.ErrInvalidPosition)
	}
	if err := a.InsertAt(99, bit); !errors.Is(err, list.ErrInvalidPosition) {
		t.Errorf("got %v, want %v", err, list.ErrInvalidPosition)
	}
	if err := b.InsertAt(99, a.Begin()); !errors.Is(err, list.ErrInvalidPosition) {
		t.Errorf("got %v, want %v", err, list.ErrInvalidPosition)
	}
	testDL(t, a, []int{1})
	testDL(t, b, []int{10, 20})
	for _, sl := range []*list.List[int, *alloc.Heap[int]]{a, b} {
		if err := sl.Verify(); err != nil {
			t.Error(err)
		}
	}
	if got, want := shared.Stats().Live, 3; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	a.Clear()
	b.Clear()
	testDL(t, l, []int{2})
	stats := l.Allocator().Stats()
	if got, want := stats.Live, 1; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if err := l.Close(); !errors.Is(err, list.ErrNotEmpty) {
		t.Errorf("got %v, want %v", err, list.ErrNotEmpty)
	}
	l.Clear()
	if err := l.Close(); err != nil {
		t.Fatal(err)
	}
}

// flaky fails the failOn'th call to Allocate.
type flaky[T any] struct {
	*alloc.Heap[T]
	calls, failOn int
}

func (f *flaky[T]) Allocate() (ring.Handle, error) {
	f.calls++
	if f.calls == f.failOn {
		return ring.Sentinel, alloc.ErrExhausted
	}
	return f.Heap.Allocate()
}

func TestAllocationFailure(t *testing.T) {
	l := list.New[string](&flaky[string]{Heap: alloc.NewHeap[string](), failOn: 3})
	appendAll(t, l, "a", "b")
	err := l.Append("c")
	if !errors.Is(err, alloc.ErrExhausted) {
		t.Errorf("got %v, want %v", err, alloc.ErrExhausted)
	}
	testDL(t, l, []string{"a", "b"})
	appendAll(t, l, "c")
	testDL(t, l, []string{"a", "b", "c"})
	l.Clear()

	p := list.New[int](alloc.NewPool[int](2))
	appendAll(t, p, 1, 2)
	if err := p.Insert(0); !errors.Is(err, alloc.ErrExhausted) {
		t.Errorf("got %v, want %v", err, alloc.ErrExhausted)
	}
	it := p.Begin()
	if err := p.AppendAt(0, it); !errors.Is(err, alloc.ErrExhausted) {
		t.Errorf("got %v, want %v", err, alloc.ErrExhausted)
	}
	testDL(t, p, []int{1, 2})
	p.RemoveFirst()
	appendAll(t, p, 3)
	testDL(t, p, []int{2, 3})
	if got, want := p.Allocator().Stats().Failures, int64(2); got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	p.Clear()
}

func TestSplice(t *testing.T) {
	heap := alloc.NewHeap[int]()
	fill := func(vals ...int) *list.List[int, *alloc.Heap[int]] {
		l := list.New[int](heap)
		appendAll(t, l, vals...)
		return l
	}

	a, b := fill(1, 2, 3), fill(10, 20)
	if err := a.SpliceAppend(b); err != nil {
		t.Fatal(err)
	}
	testDL(t, a, []int{})
	testDL(t, b, []int{10, 20, 1, 2, 3})
	// a remains usable.
	appendAll(t, a, 7)
	testDL(t, a, []int{7})

	if err := a.SpliceInsert(b); err != nil {
		t.Fatal(err)
	}
	testDL(t, a, []int{})
	testDL(t, b, []int{7, 10, 20, 1, 2, 3})

	// Splicing an empty list is a no-op.
	if err := a.SpliceAppend(b); err != nil {
		t.Fatal(err)
	}
	testDL(t, b, []int{7, 10, 20, 1, 2, 3})

	if err := b.SpliceAppend(b); !errors.Is(err, list.ErrSelfSplice) {
		t.Errorf("got %v, want %v", err, list.ErrSelfSplice)
	}
	foreign := list.NewHeap[int]()
	appendAll(t, foreign, 99)
	if err := foreign.SpliceInsert(b); !errors.Is(err, list.ErrForeignAllocator) {
		t.Errorf("got %v, want %v", err, list.ErrForeignAllocator)
	}
	testDL(t, foreign, []int{99})
	testDL(t, b, []int{7, 10, 20, 1, 2, 3})

	b.Clear()
	foreign.Clear()
	if got, want := heap.Stats().Live, 0; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestSpliceShared(t *testing.T) {
	pool := alloc.NewPool[int](8)
	a, b := list.New[int](pool), list.New[int](pool)
	appendAll(t, a, 1, 2)
	appendAll(t, b, 3)
	if err := a.SpliceAppendShared(b); err != nil { //nolint:staticcheck // testing the deprecated mode.
		t.Fatal(err)
	}
	testDL(t, b, []int{3, 1, 2})
	if got, want := forward(a), []int{1, 2}; !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	if got, want := a.Len(), 2; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	a.Abandon()
	testDL(t, a, []int{})
	b.Clear()
	stats := pool.Stats()
	if got, want := stats.Live, 0; got != want {
		t.Errorf("got %v, want %v", got, want)
	}
	if got, want := stats.BadFrees, int64(0); got != want {
		t.Errorf("got %v, want %v", got, want)
	}

	c := list.New[int](pool)
	appendAll(t, a, 1)
	appendAll(t, c, 2)
	if err := a.SpliceInsertShared(c); err != nil { //nolint:staticcheck // testing the deprecated mode.
		t.Fatal(err)
	}
	testDL(t, c, []int{1, 2})
	a.Abandon()
	c.Clear()
}

// TestRandomOps compares a list against a slice for a random sequence of
// operations.
func TestRandomOps(t *testing.T) {
	rnd := rand.New(rand.NewPCG(1, 2))
	for _, tc := range []struct {
		name string
		new  func() *list.List[int, alloc.Allocator[int]]
	}{
		{"heap", func() *list.List[int, alloc.Allocator[int]] {
			return list.New[int, alloc.Allocator[int]](alloc.NewHeap[int]())
		}},
		{"pool", func() *list.List[int, alloc.Allocator[int]] {
			return list.New[int, alloc.Allocator[int]](alloc.NewPool[int](64))
		}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			l := tc.new()
			var model []int
			for i := range 2000 {
				v := rnd.IntN(10)
				switch op := rnd.IntN(6); {
				case op == 0 || op == 1:
					if err := l.Append(v); err == nil {
						model = append(model, v)
					} else if !errors.Is(err, alloc.ErrExhausted) {
						t.Fatal(err)
					}
				case op == 2:
					if err := l.Insert(v); err == nil {
						model = slices.Insert(model, 0, v)
					} else if !errors.Is(err, alloc.ErrExhausted) {
						t.Fatal(err)
					}
				case op == 3:
					removed := l.RemoveOne(v, list.Equal)
					idx := slices.Index(model, v)
					if got, want := removed, idx >= 0; got != want {
						t.Fatalf("%v: got %v, want %v", i, got, want)
					}
					if idx >= 0 {
						model = slices.Delete(model, idx, idx+1)
					}
				case op == 4:
					l.RemoveAll(v, list.Equal)
					model = slices.DeleteFunc(model, func(e int) bool { return e == v })
				case op == 5 && len(model) > 0:
					idx := rnd.IntN(len(model))
					got, ok := l.RemoveAt(idx)
					if !ok || got != model[idx] {
						t.Fatalf("%v: got %v, %v, want %v", i, got, ok, model[idx])
					}
					model = slices.Delete(model, idx, idx+1)
				}
				if got, want := l.Len(), len(model); got != want {
					t.Fatalf("%v: got %v, want %v", i, got, want)
				}
				if err := l.Verify(); err != nil {
					t.Fatalf("%v: %v", i, err)
				}
			}
			if got, want := forward(l), model; !slices.Equal(got, want) {
				t.Errorf("got %v, want %v", got, want)
			}
			l.Clear()
			if got, want := l.Allocator().Stats().Live, 0; got != want {
				t.Errorf("got %v, want %v", got, want)
			}
		})
	}
}
