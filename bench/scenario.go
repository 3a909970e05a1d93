// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package bench

import (
	"context"
	"time"

	"github.com/db47h/counter4/counter"
	"github.com/pkg/errors"
)

// A Step drives a control word for a number of edges.
//
// If Expect is not empty, one edge is applied per value and the output is
// checked after each of them. Otherwise Edges edges are applied unchecked.
//
type Step struct {
	Control counter.Control
	Edges   int
	Expect  []uint8
}

func (s *Step) edges() int {
	if len(s.Expect) > 0 {
		return len(s.Expect)
	}
	return s.Edges
}

// Scenario is a named test sequence run right after a reset.
//
type Scenario struct {
	Name         string
	Description  string
	ControlWidth int // 3 for designs without a CLR line
	Steps        []Step
}

// Edges returns the number of edges applied by the scenario after reset.
//
func (s *Scenario) Edges() int {
	var n int
	for i := range s.Steps {
		n += s.Steps[i].edges()
	}
	return n
}

func seq(from, to uint8) []uint8 {
	r := make([]uint8, 0, int(to)-int(from)+1)
	for i := from; i <= to; i++ {
		r = append(r, i)
	}
	return r
}

// CountScenario counts from 0 to 15 with a 3 bit control word.
//
func CountScenario() Scenario {
	return Scenario{
		Name:         "count",
		Description:  "Test counting 0 to 15",
		ControlWidth: 3,
		Steps:        []Step{{Control: counter.Counting, Expect: seq(0, 15)}},
	}
}

// CountWithClearScenario counts from 0 to 15 with CLR held high.
//
func CountWithClearScenario() Scenario {
	return Scenario{
		Name:         "count_clr",
		Description:  "Test counting 0 to 15 with CLR high",
		ControlWidth: 4,
		Steps:        []Step{{Control: counter.Counting.WithCLR(true), Expect: seq(0, 15)}},
	}
}

// ClearToggleScenario counts to 7, drops CLR for one edge, then raises it
// again. The counter still counts to 8 on the low edge and clears on the
// next one.
//
func ClearToggleScenario() Scenario {
	run := counter.Counting.WithCLR(true)
	return Scenario{
		Name:         "clear_toggle",
		Description:  "Test clear after toggling CLR",
		ControlWidth: 4,
		Steps: []Step{
			{Control: run, Expect: seq(0, 7)},
			{Control: counter.Counting, Expect: []uint8{8}},
			{Control: run, Expect: seq(0, 6)},
		},
	}
}

// Scenarios returns the built-in scenarios.
//
func Scenarios() []Scenario {
	return []Scenario{CountScenario(), CountWithClearScenario(), ClearToggleScenario()}
}

// Lookup returns the built-in scenario with the given name.
//
func Lookup(name string) (Scenario, error) {
	for _, s := range Scenarios() {
		if s.Name == name {
			return s, nil
		}
	}
	return Scenario{}, errors.Errorf("unknown scenario %q", name)
}

// Run resets the design and runs s. It stops at the first mismatch. The
// context is checked between edges. The control word width is restored on
// return.
//
func (b *Bench) Run(ctx context.Context, s Scenario) error {
	b.scenario = s.Name
	defer func(width int) {
		b.scenario = ""
		b.width = width
	}(b.width)
	if s.ControlWidth > 0 {
		b.SetControlWidth(s.ControlWidth)
	}

	b.log.Info("Start", "scenario", s.Name)
	b.Reset(b.cfg.ResetCycles)
	if s.Description != "" {
		b.log.Info(s.Description)
	}
	for i := range s.Steps {
		st := &s.Steps[i]
		b.SetControl(st.Control)
		for e := 0; e < st.edges(); e++ {
			if err := ctx.Err(); err != nil {
				return errors.Wrapf(err, "%s: interrupted at edge %d", s.Name, b.edge)
			}
			b.ClockCycles(1)
			if len(st.Expect) == 0 {
				continue
			}
			if err := b.Expect(st.Expect[e]); err != nil {
				b.log.Error(err, "assertion failed", "scenario", s.Name, "edge", b.edge)
				return err
			}
		}
	}
	return nil
}

// Result is the outcome of one scenario run.
//
type Result struct {
	Scenario string
	Edges    int
	Elapsed  time.Duration
	Err      error
}

// Passed reports whether the scenario ran to completion without error.
//
func (r *Result) Passed() bool { return r.Err == nil }

// RunAll runs every scenario on a fresh bench built from cfg, so that a
// failing scenario cannot affect the next one. It runs all of them even if
// some fail; only a setup error or ctx cancellation stops it early.
//
func RunAll(ctx context.Context, cfg Config, scenarios ...Scenario) ([]Result, error) {
	rs := make([]Result, 0, len(scenarios))
	for _, s := range scenarios {
		if err := ctx.Err(); err != nil {
			return rs, err
		}
		b, err := New(cfg)
		if err != nil {
			return rs, err
		}
		start := time.Now()
		err = b.Run(ctx, s)
		rs = append(rs, Result{Scenario: s.Name, Edges: b.Edge() + 1, Elapsed: time.Since(start), Err: err})
		b.Close()
		if err != nil && !IsMismatch(err) {
			return rs, err
		}
	}
	return rs, nil
}
