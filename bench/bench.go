// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package bench drives the counter design through a hwsim circuit the way a
// hardware testbench drives a simulated chip: set inputs, wait for clock edges,
// sample the output and compare it against expected values.
//
package bench

import (
	"time"

	"github.com/db47h/counter4/counter"
	"github.com/db47h/counter4/dut"
	"github.com/db47h/counter4/hwlib"
	"github.com/db47h/counter4/hwsim"
	"github.com/go-logr/logr"
	"github.com/pkg/errors"
)

// DefaultResetCycles is the number of clock cycles rst_n is held low by Reset
// when called with a non-positive cycle count.
//
const DefaultResetCycles = 10

// DefaultClockPeriod is the simulated clock period: 10µs (100 KHz).
//
const DefaultClockPeriod = 10 * time.Microsecond

// Sample is the state of the bench right after a clock edge.
//
type Sample struct {
	Scenario string        `json:"scenario,omitempty"`
	Cycle    uint          `json:"cycle"`
	Time     time.Duration `json:"time"`
	Edge     int           `json:"edge"` // edge index since reset release, -1 while in reset
	RstN     bool          `json:"rst_n"`
	Ena      bool          `json:"ena"`
	Control  uint8         `json:"ui_in"`
	Data     uint8         `json:"uio_in"`
	Output   uint8         `json:"uio_out"`
}

// An Observer receives every sample taken by a Bench.
//
type Observer interface {
	Observe(s Sample)
}

// ObserverFunc adapts a function to the Observer interface.
//
type ObserverFunc func(s Sample)

// Observe calls f(s).
//
func (f ObserverFunc) Observe(s Sample) { f(s) }

// Config configures a Bench.
//
type Config struct {
	DUT           dut.Config
	StepsPerCycle uint          // defaults to dut.MinSPC
	Workers       int           // see hwsim.NewCircuit
	ResetCycles   int           // defaults to DefaultResetCycles
	ClockPeriod   time.Duration // defaults to DefaultClockPeriod
	ControlWidth  int           // width of the control word, defaults to counter.Width
	Logger        logr.Logger
	Observer      Observer
}

// Bench is a testbench wrapped around a single design instance. A Bench is not
// safe for concurrent use.
//
type Bench struct {
	cfg Config
	log logr.Logger
	c   *hwsim.Circuit

	scenario string
	width    int
	rstN     bool
	ena      bool
	ctl      uint8
	data     uint8
	out      int64
	edge     int
}

// New mounts the design selected by cfg.DUT in a new circuit and returns a
// bench driving it. Inputs start with ena high and everything else low.
//
func New(cfg Config) (*Bench, error) {
	if cfg.StepsPerCycle < dut.MinSPC {
		cfg.StepsPerCycle = dut.MinSPC
	}
	if cfg.ResetCycles <= 0 {
		cfg.ResetCycles = DefaultResetCycles
	}
	if cfg.ClockPeriod <= 0 {
		cfg.ClockPeriod = DefaultClockPeriod
	}
	if cfg.ControlWidth <= 0 || cfg.ControlWidth > counter.Width {
		cfg.ControlWidth = counter.Width
	}
	part, err := dut.New(cfg.DUT)
	if err != nil {
		return nil, errors.Wrap(err, "build design")
	}

	b := &Bench{cfg: cfg, log: cfg.Logger, width: cfg.ControlWidth, ena: true, edge: -1}
	b.c, err = hwsim.NewCircuit(cfg.Workers, cfg.StepsPerCycle,
		hwlib.Input(func() bool { return b.rstN })("out=rst_n"),
		hwlib.Input(func() bool { return b.ena })("out=ena"),
		hwlib.InputN(dut.BusWidth, func() int64 { return int64(b.ctl) })("out=ui_in"),
		hwlib.InputN(dut.BusWidth, func() int64 { return int64(b.data) })("out=uio_in"),
		part("rst_n=rst_n, ena=ena, ui_in=ui_in, uio_in=uio_in, uio_out=uio_out"),
		hwlib.OutputN(dut.BusWidth, func(v int64) { b.out = v })("in=uio_out"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "create circuit")
	}
	b.log.V(1).Info("circuit ready", "components", b.c.Size(), "spc", b.c.SPC(), "netlist", cfg.DUT.Netlist)
	return b, nil
}

// Close stops the circuit workers.
//
func (b *Bench) Close() {
	b.c.Dispose()
}

// Config returns the bench configuration with defaults applied.
//
func (b *Bench) Config() Config { return b.cfg }

// Reset holds rst_n low for the given number of clock cycles with ena high and
// all other inputs low, then releases it. No edge is applied after the
// release: the next edge is the release edge, Edge 0.
//
func (b *Bench) Reset(cycles int) {
	if cycles <= 0 {
		cycles = b.cfg.ResetCycles
	}
	b.log.Info("Reset", "cycles", cycles)
	b.ena = true
	b.ctl = 0
	b.data = 0
	b.SetRstN(false)
	b.ClockCycles(cycles)
	b.rstN = true
}

// SetControl drives the control word on ui_in, truncated to the bench's
// control word width.
//
func (b *Bench) SetControl(ctl counter.Control) {
	b.ctl = ctl.EncodeWidth(b.width)
}

// SetControlWidth changes the width of the control word. A width of 3 leaves
// the CLR line low.
//
func (b *Bench) SetControlWidth(bits int) {
	if bits <= 0 || bits > counter.Width {
		bits = counter.Width
	}
	b.width = bits
	b.ctl &= 1<<uint(bits) - 1
}

// SetLoadData drives uio_in.
//
func (b *Bench) SetLoadData(d uint8) { b.data = d }

// SetEnable drives ena.
//
func (b *Bench) SetEnable(ena bool) { b.ena = ena }

// SetRstN drives rst_n. Driving it low restarts edge numbering.
//
func (b *Bench) SetRstN(rstN bool) {
	b.rstN = rstN
	if !rstN {
		b.edge = -1
	}
}

// ClockCycles waits for n raising edges of the clock. Inputs set before the
// call are the ones sampled at the first edge.
//
func (b *Bench) ClockCycles(n int) {
	for i := 0; i < n; i++ {
		b.c.TickTock()
		if b.rstN {
			b.edge++
		}
		if o := b.cfg.Observer; o != nil {
			o.Observe(b.Sample())
		}
		if v := b.log.V(1); v.Enabled() {
			s := b.Sample()
			v.Info("edge", "cycle", s.Cycle, "edge", s.Edge, "ui_in", s.Control, "uio_out", s.Output)
		}
	}
}

// Output returns the counter value on uio_out[0..3].
//
func (b *Bench) Output() uint8 {
	return uint8(b.out) & counter.Mask
}

// Edge returns the index of the last edge since reset release, or -1 if no
// edge has been applied since.
//
func (b *Bench) Edge() int { return b.edge }

// Sample returns the current bench state.
//
func (b *Bench) Sample() Sample {
	cycles := b.c.Cycles()
	return Sample{
		Scenario: b.scenario,
		Cycle:    cycles,
		Time:     time.Duration(cycles) * b.cfg.ClockPeriod,
		Edge:     b.edge,
		RstN:     b.rstN,
		Ena:      b.ena,
		Control:  b.ctl,
		Data:     b.data,
		Output:   uint8(b.out),
	}
}

// Expect checks that the counter output equals want. On mismatch, it returns
// an *AssertionMismatch with a stack trace attached.
//
func (b *Bench) Expect(want uint8) error {
	got := b.Output()
	if got == want {
		return nil
	}
	return errors.WithStack(&AssertionMismatch{
		Scenario: b.scenario,
		Edge:     b.edge,
		Expected: want,
		Actual:   got,
	})
}
