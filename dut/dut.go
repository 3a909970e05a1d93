// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package dut provides the 4-bit counter as a mountable hwsim part, the design
// under test of the bench package.
//
// Two implementations share the same pinout: a gate-level netlist built from
// hwlib parts, and the behavioural counter.Core wrapped as a clocked
// component. Both sample their inputs on the raising edge of clk only.
//
// Pinout:
//
//	Inputs: rst_n, ena, ui_in[8], uio_in[8]
//	Outputs: uio_out[8]
//
// ui_in[0..3] carry the control word {LP, CP, EP, CLR}, uio_in[0..3] the load
// data and uio_out[0..3] the counter value. uio_out[4..7] are always low.
//
package dut

import (
	"github.com/db47h/counter4/counter"
	"github.com/db47h/counter4/hwlib"
	"github.com/db47h/counter4/hwsim"
)

// Pin names.
//
const (
	Name = "tt_um_counter4"

	RstN   = "rst_n"
	Ena    = "ena"
	UIIn   = "ui_in"
	UIOIn  = "uio_in"
	UIOOut = "uio_out"

	Inputs  = "rst_n, ena, ui_in[8], uio_in[8]"
	Outputs = "uio_out[8]"

	// BusWidth is the width of the ui_in, uio_in and uio_out buses.
	BusWidth = 8
)

// MinSPC is the minimum number of steps per cycle for which the netlist
// settles between two clock edges.
//
const MinSPC = 16

// Config configures the design.
//
type Config struct {
	ClearMode counter.ClearMode
	LoadPort  bool // wire uio_in[0..3] as load data
	Netlist   bool // use the gate-level implementation
}

// NewCore returns a behavioural core configured like the design.
//
func (cfg Config) NewCore() *counter.Core {
	return counter.New(counter.WithClearMode(cfg.ClearMode), counter.WithLoadPort(cfg.LoadPort))
}

// New returns the implementation selected by cfg.Netlist.
//
func New(cfg Config) (hwsim.NewPartFn, error) {
	if cfg.Netlist {
		return Netlist(cfg)
	}
	return Model(cfg), nil
}

// Netlist returns the gate-level implementation of the counter.
//
func Netlist(cfg Config) (hwsim.NewPartFn, error) {
	w := counter.Width
	ld := hwsim.False
	if cfg.LoadPort {
		ld = "ui_in[0]"
	}
	parts := hwsim.Parts{
		// reset release is registered: the first edge with rst_n high only
		// sets running.
		hwlib.DFF("in=rst_n, out=running"),
		hwlib.And("a=rst_n, b=running, out=run"),
		hwlib.And("a=ui_in[1], b=ui_in[2], out=count"),
		hwlib.IncN(w)("in=uio_out[0..3], out=inc"),
		hwlib.MuxN(w)("a=uio_out[0..3], b=inc, sel=count, out=counted"),
		hwlib.MuxN(w)("a=counted, b=uio_in[0..3], sel=" + ld + ", out=loaded"),
		hwlib.MuxN(w)("a=loaded, sel=" + clearWire(cfg.ClearMode) + ", out=cleared"),
		hwlib.MuxN(w)("a=uio_out[0..3], b=cleared, sel=ena, out=enabled"),
		hwlib.MuxN(w)("b=enabled, sel=run, out=next"),
		hwlib.DFFN(w)("in=next, out=uio_out[0..3]"),
	}
	switch cfg.ClearMode {
	case counter.ClearRising:
		parts = append(parts,
			hwlib.DFF("in=ui_in[3], out=clr_prev"),
			hwlib.Not("in=clr_prev, out=clr_prev_n"),
			hwlib.And("a=ui_in[3], b=clr_prev_n, out=clear"))
	case counter.ClearActiveLow:
		parts = append(parts, hwlib.Not("in=ui_in[3], out=clear"))
	}
	return hwsim.Chip(Name, Inputs, Outputs, parts...)
}

func clearWire(m counter.ClearMode) string {
	switch m {
	case counter.ClearRising, counter.ClearActiveLow:
		return "clear"
	case counter.ClearActiveHigh:
		return "ui_in[3]"
	}
	return hwsim.False
}

type model struct {
	RstN   int           `hw:"in,rst_n"`
	Ena    int           `hw:"in"`
	UIIn   [BusWidth]int `hw:"in,ui_in"`
	UIOIn  [BusWidth]int `hw:"in,uio_in"`
	UIOOut [BusWidth]int `hw:"out,uio_out"`

	cfg  Config
	core *counter.Core
}

func (m *model) Init() {
	m.core = m.cfg.NewCore()
}

func (m *model) Update(c *hwsim.Circuit) {
	if c.AtEdge() {
		m.core.Tick(counter.Inputs{
			RstN:    c.Get(m.RstN),
			Ena:     c.Get(m.Ena),
			Control: counter.Decode(uint8(hwlib.Int64(c, m.UIIn[:]))),
			Data:    uint8(hwlib.Int64(c, m.UIOIn[:])),
		})
	}
	hwlib.SetInt64(c, m.UIOOut[:], int64(m.core.Read()))
}

// Model returns the behavioural implementation of the counter. Every mounted
// instance owns its own counter.Core.
//
func Model(cfg Config) hwsim.NewPartFn {
	sp := hwsim.MakePart(&model{cfg: cfg})
	sp.Name = Name + "_model"
	return sp.NewPart
}
