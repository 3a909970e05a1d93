package dut_test

import (
	"math/rand"
	"testing"

	"github.com/db47h/counter4/counter"
	"github.com/db47h/counter4/dut"
	"github.com/db47h/counter4/hwlib"
	"github.com/db47h/counter4/hwsim"
	"github.com/db47h/counter4/hwtest"
)

// biased keeps the counter out of reset and enabled most of the time so that
// random runs actually count.
func biased(rnd *rand.Rand, name string, cycle int) bool {
	switch name {
	case dut.RstN:
		return cycle > 2 && rnd.Intn(32) != 0
	case dut.Ena:
		return rnd.Intn(8) != 0
	case "ui_in[1]", "ui_in[2]":
		return rnd.Intn(4) != 0
	}
	return hwtest.RandomInputs(rnd, name, cycle)
}

func TestNetlist_matchesModel(t *testing.T) {
	modes := []counter.ClearMode{counter.ClearRising, counter.ClearNone, counter.ClearActiveLow, counter.ClearActiveHigh}
	for _, m := range modes {
		for _, lp := range []bool{false, true} {
			cfg := dut.Config{ClearMode: m, LoadPort: lp}
			name := m.String()
			if lp {
				name += "_load"
			}
			t.Run(name, func(t *testing.T) {
				n, err := dut.Netlist(cfg)
				if err != nil {
					t.Fatal(err)
				}
				hwtest.ComparePartWith(t, dut.MinSPC, 2000, biased, n, dut.Model(cfg))
			})
		}
	}
}

func TestModel_count(t *testing.T) {
	for _, netlist := range []bool{false, true} {
		var (
			rstN bool
			ctl  int64
			out  int64
		)
		part, err := dut.New(dut.Config{Netlist: netlist})
		if err != nil {
			t.Fatal(err)
		}
		c, err := hwsim.NewCircuit(0, dut.MinSPC,
			hwlib.Input(func() bool { return rstN })("out=rst_n"),
			hwlib.InputN(dut.BusWidth, func() int64 { return ctl })("out=ui"),
			part("rst_n=rst_n, ena=true, ui_in=ui, uio_out=out"),
			hwlib.OutputN(dut.BusWidth, func(v int64) { out = v })("in=out"),
		)
		if err != nil {
			t.Fatal(err)
		}

		c.ClockCycles(10)
		if out != 0 {
			t.Fatalf("netlist=%v: expected 0 during reset, got %d", netlist, out)
		}
		rstN = true
		ctl = int64(counter.Counting.Encode())
		for i := int64(0); i < 20; i++ {
			c.TickTock()
			if exp := i % 16; out != exp {
				t.Fatalf("netlist=%v: edge %d: expected %d, got %d", netlist, i, exp, out)
			}
		}
		c.Dispose()
	}
}

// Transient changes of CLR between two edges must not be seen by the counter.
func TestModel_transientClear(t *testing.T) {
	for _, netlist := range []bool{false, true} {
		var ctl, out int64
		part, err := dut.New(dut.Config{Netlist: netlist})
		if err != nil {
			t.Fatal(err)
		}
		c, err := hwsim.NewCircuit(0, dut.MinSPC,
			hwlib.InputN(dut.BusWidth, func() int64 { return ctl })("out=ui"),
			part("rst_n=true, ena=true, ui_in=ui, uio_out=out"),
			hwlib.OutputN(dut.BusWidth, func(v int64) { out = v })("in=out"),
		)
		if err != nil {
			t.Fatal(err)
		}

		run := int64(counter.Counting.WithCLR(true).Encode())
		ctl = run
		c.ClockCycles(4) // release + 3 counts
		if out != 3 {
			t.Fatalf("netlist=%v: expected 3, got %d", netlist, out)
		}

		// toggle CLR low then high again within the low half of the cycle
		ctl = int64(counter.Counting.Encode())
		c.Step()
		c.Step()
		ctl = run
		c.TickTock()
		if out != 4 {
			t.Fatalf("netlist=%v: transient CLR pulse: expected 4, got %d", netlist, out)
		}
		c.Dispose()
	}
}
