// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package hwtest provides utility functions for testing circuits.
//
package hwtest

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/db47h/counter4/hwlib"
	"github.com/db47h/counter4/hwsim"
)

// An InputFn returns the value to drive on input pin name for the given clock
// cycle.
//
type InputFn func(rnd *rand.Rand, name string, cycle int) bool

// RandomInputs drives every input with a random value.
//
func RandomInputs(rnd *rand.Rand, _ string, _ int) bool {
	return rnd.Int63()&(1<<62) != 0
}

func connString(prefix string, in, out []string) string {
	var b strings.Builder
	for _, n := range in {
		if b.Len() > 0 {
			b.WriteRune(',')
		}
		b.WriteString(n)
		b.WriteRune('=')
		b.WriteString(n)
	}
	for _, n := range out {
		if b.Len() > 0 {
			b.WriteRune(',')
		}
		b.WriteString(n)
		b.WriteRune('=')
		b.WriteString(prefix)
		b.WriteString(n)
	}
	return b.String()
}

// ComparePart takes two parts and compares their outputs given the same random
// inputs. Both parts must have the same Input/Output interface.
//
func ComparePart(t *testing.T, spc uint, part1 hwsim.NewPartFn, part2 hwsim.NewPartFn) {
	t.Helper()
	ComparePartWith(t, spc, 0, RandomInputs, part1, part2)
}

// ComparePartWith is like ComparePart but inputs are driven by f for the given
// number of clock cycles. If cycles is 0, it is computed from the input count.
//
// Outputs are compared at the end of every clock cycle, so clocked parts are
// compared edge by edge.
//
func ComparePartWith(t *testing.T, spc uint, cycles int, f InputFn, part1 hwsim.NewPartFn, part2 hwsim.NewPartFn) {
	t.Helper()

	seed := time.Now().UnixNano()
	rnd := rand.New(rand.NewSource(seed))

	ps1, ps2 := part1(""), part2("")

	// compare specs
	if len(ps1.Inputs) != len(ps2.Inputs) {
		t.Fatal("len(ps1.Inputs) != len(ps2.Inputs)")
	}
	if len(ps1.Outputs) != len(ps2.Outputs) {
		t.Fatal("len(ps1.Outputs) != len(ps2.Outputs)")
	}
	for i := range ps1.Inputs {
		if ps1.Inputs[i] != ps2.Inputs[i] {
			t.Fatalf("ps1.Inputs[i] = %q != ps2.Inputs[i] = %q", ps1.Inputs[i], ps2.Inputs[i])
		}
	}
	for i := range ps1.Outputs {
		if ps1.Outputs[i] != ps2.Outputs[i] {
			t.Fatalf("ps1.Outputs[i] = %q != ps2.Outputs[i] = %q", ps1.Outputs[i], ps2.Outputs[i])
		}
	}

	inputs := make([]bool, len(ps1.Inputs))
	outputs := make([][2]bool, len(ps1.Outputs))

	var parts hwsim.Parts
	for i, n := range ps1.Inputs {
		k := i
		parts = append(parts, hwlib.Input(func() bool { return inputs[k] })("out="+n))
	}
	for i, o := range ps1.Outputs {
		n := i
		parts = append(parts,
			hwlib.Output(func(b bool) { outputs[n][0] = b })("in=x_"+o),
			hwlib.Output(func(b bool) { outputs[n][1] = b })("in=y_"+o))
	}
	parts = append(parts,
		part1(connString("x_", ps1.Inputs, ps1.Outputs)),
		part2(connString("y_", ps2.Inputs, ps2.Outputs)))

	c, err := hwsim.NewCircuit(0, spc, parts...)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Dispose()

	errString := func(cycle int, oname string, ex, got bool) string {
		var b strings.Builder
		for i, n := range ps1.Inputs {
			if b.Len() > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%s=%v", n, inputs[i])
		}
		return fmt.Sprintf("\ncycle %d (seed %d): %s\nExpected %s=%v\nGot %v", cycle, seed, b.String(), oname, ex, got)
	}

	if cycles <= 0 {
		cycles = len(ps1.Inputs)
		if cycles > 12 {
			cycles = 12
		}
		cycles = 1 << uint(cycles)
	}

	start := time.Now()
	for i := 0; i < cycles; i++ {
		for in := range inputs {
			inputs[in] = f(rnd, ps1.Inputs[in], i)
		}
		c.TickTock()
		for o, out := range outputs {
			if out[0] != out[1] {
				t.Fatal(errString(i, ps1.Outputs[o], out[0], out[1]))
			}
		}
	}

	elapsed := time.Since(start)
	t.Logf("%d components. %d steps in %v. %d clock cycles => %.2f Hz", c.Size(), c.Steps(), elapsed, c.Cycles(), float64(c.Cycles())/elapsed.Seconds())
}
