// Copyright 2025 cloudeng llc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package workload

import (
	"context"
	"fmt"
	"slices"

	"cloudeng.io/errors"
	"cloudeng.io/linked/alloc"
	"cloudeng.io/linked/list"
	"cloudeng.io/logging/ctxlog"
	"cloudeng.io/sync/errgroup"
)

// DefaultList is the name of the list that every workload starts with.
const DefaultList = "main"

var (
	// ErrExpectation is returned when an expect step, or the optional
	// expected value of an accessor step, is not satisfied.
	ErrExpectation = errors.New("expectation not met")
	// ErrLeak is returned when a workload's allocator still has live
	// nodes once all of its lists have been cleared.
	ErrLeak = errors.New("nodes leaked")
)

type stringList = list.List[string, alloc.Allocator[string]]

// Contents records the final contents of a list.
type Contents struct {
	Name   string
	Values []string
}

// Result is the outcome of running a workload.
type Result struct {
	Name      string
	Allocator Allocator
	Lists     []Contents  // In order of creation.
	Stats     alloc.Stats // Allocator statistics before the lists are cleared.
}

type runner struct {
	alloc alloc.Allocator[string]
	lists map[string]*stringList
	names []string
	cur   *stringList
}

func (r *runner) list(name string) *stringList {
	if l, ok := r.lists[name]; ok {
		return l
	}
	l := list.New[string](r.alloc)
	r.lists[name] = l
	r.names = append(r.names, name)
	return l
}

// Run runs the workload w using a newly created allocator described by a.
// All lists are cleared and closed before Run returns, even on error.
func Run(ctx context.Context, a Allocator, w Workload) (Result, error) {
	al, err := a.New()
	if err != nil {
		return Result{}, fmt.Errorf("%v: %w", w.Name, err)
	}
	r := &runner{alloc: al, lists: map[string]*stringList{}}
	r.cur = r.list(DefaultList)
	logger := ctxlog.Logger(ctx).With("workload", w.Name, "allocator", a.String())
	ctx = ctxlog.WithLogger(ctx, logger)

	var errs errors.M
	for _, step := range w.Steps {
		if err := ctx.Err(); err != nil {
			errs.Append(err)
			break
		}
		logger.Debug("step", "line", step.Line, "op", step.Op, "args", step.Args)
		if err := r.exec(ctx, step); err != nil {
			errs.Append(fmt.Errorf("%v: line %d: %v: %w", w.Name, step.Line, step, err))
			break
		}
	}

	res := Result{Name: w.Name, Allocator: a, Stats: al.Stats()}
	for _, name := range r.names {
		l := r.lists[name]
		if err := l.Verify(); err != nil {
			errs.Append(fmt.Errorf("%v: list %v: %w", w.Name, name, err))
		}
		res.Lists = append(res.Lists, Contents{Name: name, Values: slices.Collect(l.Forward())})
	}
	for _, name := range r.names {
		l := r.lists[name]
		l.Clear()
		errs.Append(l.Close())
	}
	if live := al.Stats().Live; live != 0 {
		errs.Append(fmt.Errorf("%v: %w: %d", w.Name, ErrLeak, live))
	}
	return res, errs.Err()
}

// RunAll runs all of the workloads in cfg concurrently. The results are
// returned in the same order as the workloads, errors from all of the
// workloads are combined.
func RunAll(ctx context.Context, cfg Config) ([]Result, error) {
	results := make([]Result, len(cfg.Workloads))
	var g errgroup.T
	for i, w := range cfg.Workloads {
		g.Go(func() error {
			var err error
			results[i], err = Run(ctx, cfg.AllocatorFor(w), w)
			return err
		})
	}
	return results, g.Wait()
}

func expectation(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrExpectation}, args...)...)
}

func (r *runner) access(ctx context.Context, s Step, v string, ok bool) error {
	want, expected := s.Expected()
	if !ok {
		ctxlog.Logger(ctx).Info("no such element", "op", s.Op)
		if expected {
			return expectation("no element, want %q", want)
		}
		return nil
	}
	ctxlog.Logger(ctx).Info("element", "op", s.Op, "value", v)
	if expected && v != want {
		return expectation("got %q, want %q", v, want)
	}
	return nil
}

func (r *runner) exec(ctx context.Context, s Step) error {
	l := r.cur
	switch s.Op {
	case Append:
		for _, v := range s.Args {
			if err := l.Append(v); err != nil {
				return err
			}
		}
	case Insert:
		for _, v := range s.Args {
			if err := l.Insert(v); err != nil {
				return err
			}
		}
	case RemoveOne:
		found := l.RemoveOne(s.Args[0], list.Equal[string])
		ctxlog.Logger(ctx).Info("remove-one", "value", s.Args[0], "found", found)
	case RemoveAll:
		n := l.RemoveAll(s.Args[0], list.Equal[string])
		ctxlog.Logger(ctx).Info("remove-all", "value", s.Args[0], "removed", n)
	case First:
		v, ok := l.First()
		return r.access(ctx, s, v, ok)
	case Last:
		v, ok := l.Last()
		return r.access(ctx, s, v, ok)
	case PopFirst:
		v, ok := l.RemoveFirst()
		return r.access(ctx, s, v, ok)
	case PopLast:
		v, ok := l.RemoveLast()
		return r.access(ctx, s, v, ok)
	case At:
		v, ok := l.At(s.Index())
		return r.access(ctx, s, v, ok)
	case RemoveAt:
		v, ok := l.RemoveAt(s.Index())
		return r.access(ctx, s, v, ok)
	case Clear:
		l.Clear()
	case SpliceAppend:
		return l.SpliceAppend(r.list(s.Args[0]))
	case SpliceInsert:
		return l.SpliceInsert(r.list(s.Args[0]))
	case Use:
		r.cur = r.list(s.Args[0])
	case Expect:
		got := slices.Collect(l.Forward())
		if !slices.Equal(got, s.Args) {
			return expectation("got %v, want %v", got, s.Args)
		}
		rev := slices.Collect(l.Reverse())
		slices.Reverse(rev)
		if !slices.Equal(rev, s.Args) {
			return expectation("reverse traversal: got %v, want %v", rev, s.Args)
		}
	case ExpectLen:
		if got, want := l.Len(), s.Index(); got != want {
			return expectation("length: got %d, want %d", got, want)
		}
	case ExpectFail:
		before := slices.Collect(l.Forward())
		err := r.exec(ctx, Step{Op: Op(s.Args[0]), Args: s.Args[1:], Line: s.Line})
		if err == nil {
			return expectation("%v succeeded", s.Args[0])
		}
		ctxlog.Logger(ctx).Info("failed as expected", "op", s.Args[0], "error", err)
		if after := slices.Collect(l.Forward()); !slices.Equal(before, after) {
			return expectation("failed %v modified the list: %v became %v", s.Args[0], before, after)
		}
	default:
		return fmt.Errorf("unrecognised verb: %q", s.Op)
	}
	return nil
}
