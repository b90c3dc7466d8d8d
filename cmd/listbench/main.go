// Copyright 2025 cloudeng llc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Command listbench runs scripted workloads and churn benchmarks against
// lists backed by the heap or pool allocators.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"cloudeng.io/cmdutil"
	"cloudeng.io/cmdutil/subcmd"
	"cloudeng.io/linked/internal/workload"
	"cloudeng.io/logging/ctxlog"
	"cloudeng.io/sync/errgroup"
)

var cmdSet *subcmd.CommandSet

type runFlags struct {
	cmdutil.LoggingFlags
}

type churnFlags struct {
	cmdutil.LoggingFlags
	Allocator string `subcmd:"allocator,pool,'allocator to use: heap or pool'"`
	Capacity  int    `subcmd:"capacity,1024,'pool capacity or heap limit, 0 for an unlimited heap'"`
	Ops       int    `subcmd:"ops,1000000,number of append and remove operations"`
	Seed      uint64 `subcmd:"seed,1,seed for the random sequence of operations"`
}

func init() {
	runFlagSet := subcmd.NewFlagSet()
	runFlagSet.MustRegisterFlagStruct(&runFlags{}, nil, nil)
	churnFlagSet := subcmd.NewFlagSet()
	churnFlagSet.MustRegisterFlagStruct(&churnFlags{}, nil, nil)

	runCmd := subcmd.NewCommand("run", runFlagSet, run, subcmd.AtLeastNArguments(1))
	runCmd.Document("run the workloads in the specified yaml files", "<workload.yaml>...")

	churnCmd := subcmd.NewCommand("churn", churnFlagSet, churn, subcmd.WithoutArguments())
	churnCmd.Document("run a random sequence of appends and removals against a single list")

	cmdSet = subcmd.NewCommandSet(runCmd, churnCmd)
	cmdSet.Document(`exercise linked lists and their allocators.

Workload files describe an allocator and a set of named workloads, each
a sequence of steps such as 'append a b c' or 'expect a b c' that are
run against lists sharing that allocator.`)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := cmdSet.Dispatch(ctx); err != nil {
		cmdutil.Exit("%v", err)
	}
}

func withLogger(ctx context.Context, lf cmdutil.LoggingFlags) (context.Context, func(), error) {
	logger, err := lf.LoggingConfig().NewLogger()
	if err != nil {
		return ctx, nil, err
	}
	return ctxlog.WithLogger(ctx, logger.Logger), func() { logger.Close() }, nil
}

func run(ctx context.Context, values any, args []string) error {
	fv := values.(*runFlags)
	ctx, done, err := withLogger(ctx, fv.LoggingFlags)
	if err != nil {
		return err
	}
	defer done()
	return runFiles(ctx, os.Stdout, args)
}

// runFiles runs all of the workloads in all of the named files concurrently.
// The results are printed in the order in which the files were named.
func runFiles(ctx context.Context, out io.Writer, filenames []string) error {
	results := make([][]workload.Result, len(filenames))
	var g errgroup.T
	for i, filename := range filenames {
		g.Go(func() error {
			cfg, err := workload.ParseFile(ctx, filename)
			if err != nil {
				return err
			}
			ctxlog.Logger(ctx).Info("running", "file", filename, "workloads", len(cfg.Workloads))
			results[i], err = workload.RunAll(ctx, cfg)
			if err != nil {
				return fmt.Errorf("%v: %w", filename, err)
			}
			return nil
		})
	}
	err := g.Wait()
	for i, filename := range filenames {
		for _, res := range results[i] {
			printResult(out, filename, res)
		}
	}
	return err
}

func printResult(out io.Writer, filename string, res workload.Result) {
	fmt.Fprintf(out, "%v: %v: %v\n", filename, res.Name, res.Allocator)
	for _, c := range res.Lists {
		fmt.Fprintf(out, "  %v: [%v]\n", c.Name, strings.Join(c.Values, " "))
	}
	fmt.Fprintf(out, "  %v\n", res.Stats)
}

func churn(ctx context.Context, values any, _ []string) error {
	fv := values.(*churnFlags)
	ctx, done, err := withLogger(ctx, fv.LoggingFlags)
	if err != nil {
		return err
	}
	defer done()
	kind, err := workload.ParseKind(fv.Allocator)
	if err != nil {
		return err
	}
	res, err := workload.Churn(ctx, workload.Allocator{Kind: kind, Capacity: fv.Capacity}, fv.Ops, fv.Seed)
	fmt.Println(res)
	return err
}
