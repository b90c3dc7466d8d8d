// Copyright 2025 cloudeng llc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package workload provides scripted workloads for exercising lists
// and their allocators. A workload is a named sequence of steps, each a
// single line of the form '<verb> <args>...', that is run against a set
// of lists sharing one allocator. For example:
//
//	allocator:
//	  kind: pool
//	  capacity: 16
//	workloads:
//	  - name: fifo
//	    steps:
//	      - append a b c
//	      - insert z
//	      - remove-one b
//	      - expect z a c
package workload

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"cloudeng.io/cmdutil/cmdyaml"
	"cloudeng.io/errors"
	"cloudeng.io/linked/alloc"
	"gopkg.in/yaml.v3"
)

// Kind names an allocation strategy.
type Kind string

const (
	Heap Kind = "heap"
	Pool Kind = "pool"
)

// UnmarshalYAML implements yaml.Unmarshaler.
func (k *Kind) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	kind, err := ParseKind(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*k = kind
	return nil
}

// ParseKind parses the name of an allocation strategy, the empty string
// is treated as Heap.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case "":
		return Heap, nil
	case Heap, Pool:
		return k, nil
	}
	return "", fmt.Errorf("unsupported allocator %q: must be %v or %v", s, Heap, Pool)
}

// Allocator describes the allocator to be shared by a workload's lists.
type Allocator struct {
	Kind     Kind `yaml:"kind"`
	Capacity int  `yaml:"capacity"` // Pool capacity or heap limit, zero for an unlimited heap.
}

// New creates the allocator described by a.
func (a Allocator) New() (alloc.Allocator[string], error) {
	switch a.Kind {
	case Heap, "":
		if a.Capacity < 0 {
			return nil, fmt.Errorf("heap limit must not be negative: %d", a.Capacity)
		}
		return alloc.NewHeap[string](alloc.WithLimit(a.Capacity)), nil
	case Pool:
		if a.Capacity <= 0 {
			return nil, fmt.Errorf("pool capacity must be positive: %d", a.Capacity)
		}
		return alloc.NewPool[string](a.Capacity), nil
	}
	return nil, fmt.Errorf("unsupported allocator %q", a.Kind)
}

func (a Allocator) String() string {
	if a.Kind == "" {
		a.Kind = Heap
	}
	return fmt.Sprintf("%v(%d)", a.Kind, a.Capacity)
}

// Config represents a workload file.
type Config struct {
	Allocator Allocator  `yaml:"allocator"`
	Workloads []Workload `yaml:"workloads"`
}

// Workload is a named sequence of steps. Its allocator, if set,
// overrides the one in the enclosing Config.
type Workload struct {
	Name      string     `yaml:"name"`
	Allocator *Allocator `yaml:"allocator,omitempty"`
	Steps     []Step     `yaml:"steps"`
}

// Parse parses a workload file held in memory.
func Parse(spec []byte) (Config, error) {
	var cfg Config
	if err := cmdyaml.ParseConfigStrict(spec, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, cfg.validate()
}

// ParseFile reads and parses the named workload file.
func ParseFile(ctx context.Context, filename string) (Config, error) {
	var cfg Config
	if err := cmdyaml.ParseConfigFileStrict(ctx, filename, &cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("%v: %w", filename, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	var errs errors.M
	seen := map[string]bool{}
	for i, w := range c.Workloads {
		switch {
		case len(w.Name) == 0:
			errs.Append(fmt.Errorf("workload %d has no name", i))
		case seen[w.Name]:
			errs.Append(fmt.Errorf("duplicate workload: %v", w.Name))
		}
		seen[w.Name] = true
	}
	return errs.Err()
}

// AllocatorFor returns the allocator to be used for w.
func (c Config) AllocatorFor(w Workload) Allocator {
	if w.Allocator != nil {
		return *w.Allocator
	}
	return c.Allocator
}

// Op is a step's verb.
type Op string

const (
	Append       Op = "append"
	Insert       Op = "insert"
	RemoveOne    Op = "remove-one"
	RemoveAll    Op = "remove-all"
	First        Op = "first"
	Last         Op = "last"
	PopFirst     Op = "pop-first"
	PopLast      Op = "pop-last"
	At           Op = "at"
	RemoveAt     Op = "remove-at"
	Clear        Op = "clear"
	SpliceAppend Op = "splice-append"
	SpliceInsert Op = "splice-insert"
	Use          Op = "use"
	Expect       Op = "expect"
	ExpectLen    Op = "expect-len"
	ExpectFail   Op = "expect-fail"
)

type arity struct {
	min, max int // max < 0 for no limit.
	index    bool
}

var verbs = map[Op]arity{
	Append:       {1, -1, false},
	Insert:       {1, -1, false},
	RemoveOne:    {1, 1, false},
	RemoveAll:    {1, 1, false},
	First:        {0, 1, false},
	Last:         {0, 1, false},
	PopFirst:     {0, 1, false},
	PopLast:      {0, 1, false},
	At:           {1, 2, true},
	RemoveAt:     {1, 2, true},
	Clear:        {0, 0, false},
	SpliceAppend: {1, 1, false},
	SpliceInsert: {1, 1, false},
	Use:          {1, 1, false},
	Expect:       {0, -1, false},
	ExpectLen:    {1, 1, true},
	ExpectFail:   {2, 2, false},
}

// Step is a single operation within a workload.
type Step struct {
	Op   Op
	Args []string
	Line int // Line within the workload file, if known.
}

func (s Step) String() string {
	return strings.Join(append([]string{string(s.Op)}, s.Args...), " ")
}

// Index returns the step's integer argument for the at, remove-at and
// expect-len verbs.
func (s Step) Index() int {
	i, _ := strconv.Atoi(s.Args[0])
	return i
}

// Expected returns the optional expected value supplied to the first,
// last, pop-first, pop-last, at and remove-at verbs.
func (s Step) Expected() (string, bool) {
	n := verbs[s.Op].min
	if len(s.Args) > n {
		return s.Args[n], true
	}
	return "", false
}

// ParseStep parses a single step.
func ParseStep(line string) (Step, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Step{}, fmt.Errorf("empty step")
	}
	s := Step{Op: Op(fields[0]), Args: fields[1:]}
	a, ok := verbs[s.Op]
	if !ok {
		return Step{}, fmt.Errorf("unrecognised verb: %q", fields[0])
	}
	if len(s.Args) < a.min || (a.max >= 0 && len(s.Args) > a.max) {
		return Step{}, fmt.Errorf("%q: wrong number of arguments: %d", line, len(s.Args))
	}
	if a.index {
		if _, err := strconv.Atoi(s.Args[0]); err != nil {
			return Step{}, fmt.Errorf("%q: %q is not an integer", line, s.Args[0])
		}
	}
	if s.Op == ExpectFail {
		switch Op(s.Args[0]) {
		case Append, Insert, SpliceAppend, SpliceInsert:
		default:
			return Step{}, fmt.Errorf("%q: %v cannot be expected to fail", line, s.Args[0])
		}
		if _, err := ParseStep(strings.Join(s.Args, " ")); err != nil {
			return Step{}, err
		}
	}
	return s, nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *Step) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: a step must be a string", node.Line)
	}
	step, err := ParseStep(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	step.Line = node.Line
	*s = step
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (s Step) MarshalYAML() (any, error) {
	return s.String(), nil
}
