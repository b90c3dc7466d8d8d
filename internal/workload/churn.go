// Copyright 2025 cloudeng llc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package workload

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strconv"
	"time"

	"cloudeng.io/errors"
	"cloudeng.io/linked/alloc"
	"cloudeng.io/linked/list"
	"cloudeng.io/logging/ctxlog"
)

// ChurnResult is the outcome of running Churn.
type ChurnResult struct {
	Allocator Allocator
	Ops       int
	Appends   int
	Removes   int
	Failures  int // Appends that failed because the allocator was exhausted.
	MaxLen    int
	Elapsed   time.Duration
	Stats     alloc.Stats
}

func (r ChurnResult) String() string {
	return fmt.Sprintf("%v: %d ops in %v: appends: %d, removes: %d, failures: %d, max length: %d, %v",
		r.Allocator, r.Ops, r.Elapsed, r.Appends, r.Removes, r.Failures, r.MaxLen, r.Stats)
}

// Churn performs ops randomly chosen appends and removals against a
// single list whose nodes are allocated as described by a. Half of the
// operations are appends, the remainder remove the first element or one
// at a random position. An append that exhausts the allocator is counted
// as a failure and followed by a removal. The same seed always produces
// the same sequence of operations.
func Churn(ctx context.Context, a Allocator, ops int, seed uint64) (ChurnResult, error) {
	al, err := a.New()
	if err != nil {
		return ChurnResult{}, err
	}
	l := list.New[string](al)
	rng := rand.New(rand.NewPCG(seed, seed))
	res := ChurnResult{Allocator: a}
	logger := ctxlog.Logger(ctx)

	start := time.Now()
	for i := 0; i < ops; i++ {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				l.Clear()
				return res, errors.NewM(err, l.Close())
			}
		}
		res.Ops++
		switch rng.IntN(4) {
		case 0, 1:
			err := l.Append(strconv.Itoa(i))
			if err == nil {
				res.Appends++
				break
			}
			if !errors.Is(err, alloc.ErrExhausted) {
				l.Clear()
				return res, errors.NewM(err, l.Close())
			}
			res.Failures++
			if _, ok := l.RemoveFirst(); ok {
				res.Removes++
			}
		case 2:
			if _, ok := l.RemoveFirst(); ok {
				res.Removes++
			}
		default:
			if l.IsEmpty() {
				continue
			}
			if _, ok := l.RemoveAt(rng.IntN(l.Len())); ok {
				res.Removes++
			}
		}
		res.MaxLen = max(res.MaxLen, l.Len())
	}
	res.Elapsed = time.Since(start)
	res.Stats = al.Stats()
	logger.Info("churn", "allocator", a.String(), "ops", res.Ops, "elapsed", res.Elapsed, "length", l.Len())

	var errs errors.M
	errs.Append(l.Verify())
	l.Clear()
	errs.Append(l.Close())
	if live := al.Stats().Live; live != 0 {
		errs.Append(fmt.Errorf("%w: %d", ErrLeak, live))
	}
	return res, errs.Err()
}
