// Copyright 2025 cloudeng llc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package ring

import (
	"fmt"

	"cloudeng.io/errors"
)

// ErrCorrupt is wrapped by every error returned by Verify.
var ErrCorrupt = errors.New("corrupt ring")

// Verify walks r forwards and backwards and checks that every handle
// resolves, that each node's links are mirrored by its neighbours and that
// both walks visit exactly count nodes. Walks are bounded by count+1 steps
// so that a premature cycle is reported rather than looping forever. All
// violations found are returned.
func Verify[T any](r *Ring[T], count int) error {
	var errs errors.M
	errs.Append(walk(r, count, "forward", r.Next, r.Prev))
	errs.Append(walk(r, count, "backward", r.Prev, r.Next))
	return errs.Err()
}

func walk[T any](r *Ring[T], count int, dir string, step, back func(Handle) Handle) error {
	var errs errors.M
	prev := Sentinel
	n := 0
	for h := step(Sentinel); h != Sentinel; h = step(h) {
		if n > count {
			errs.Append(fmt.Errorf("%w: %v walk did not return to the sentinel after %d nodes", ErrCorrupt, dir, n))
			return errs.Err()
		}
		if r.Node(h) == nil {
			errs.Append(fmt.Errorf("%w: %v walk reached stale handle %v after %d nodes", ErrCorrupt, dir, h, n))
			return errs.Err()
		}
		if got := back(h); got != prev {
			errs.Append(fmt.Errorf("%w: %v walk: node %v links back to %v, not %v", ErrCorrupt, dir, h, got, prev))
		}
		prev = h
		n++
	}
	if got := back(Sentinel); got != prev {
		errs.Append(fmt.Errorf("%w: %v walk: sentinel links back to %v, not %v", ErrCorrupt, dir, got, prev))
	}
	if n != count {
		errs.Append(fmt.Errorf("%w: %v walk visited %d nodes, expected %d", ErrCorrupt, dir, n, count))
	}
	return errs.Err()
}
