// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package counter implements the behavioural model of a 4-bit synchronous
// up-counter with synchronous clear, load and enable controls.
//
// The model advances exactly one step per call to Tick, which stands for a
// raising clock edge. Inputs passed to Tick are the ones sampled at that edge.
//
package counter

// Width is the counter width in bits.
//
const Width = 4

// Mask masks a value to Width bits.
//
const Mask = 1<<Width - 1

// State is the lifecycle state of a Core.
//
type State int

// Core states.
//
const (
	Held    State = iota // reset asserted, value pinned to 0
	Running              // reset released, counting protocol applies
)

func (s State) String() string {
	if s == Running {
		return "RUNNING"
	}
	return "HELD"
}

// Inputs are the input signals sampled at a clock edge.
//
type Inputs struct {
	RstN    bool // active low reset
	Ena     bool // global enable
	Control Control
	Data    uint8 // load data, only bits 0..3 are used
}

// An Option configures a Core.
//
type Option func(*Core)

// WithClearMode sets the CLR decoding mode. The default is ClearRising.
//
func WithClearMode(m ClearMode) Option {
	return func(c *Core) { c.mode = m }
}

// WithLoadPort wires the load data port. Without it, LP has no effect.
//
func WithLoadPort(wired bool) Option {
	return func(c *Core) { c.loadPort = wired }
}

// Core is the counter state machine. The zero value is not usable, use New.
//
type Core struct {
	value    uint8
	state    State
	prevCLR  bool
	edges    uint64
	mode     ClearMode
	loadPort bool
}

// New returns a new Core in the Held state.
//
func New(opts ...Option) *Core {
	c := &Core{state: Held}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Reset forces the counter to 0 and back to the Held state.
//
func (c *Core) Reset() {
	c.value = 0
	c.state = Held
}

// Tick applies one raising clock edge with the given sampled inputs and
// returns the new counter value.
//
// While RstN is low, the counter is held at 0. The first edge where RstN is
// high releases it without counting. On the following edges, with Ena high:
//
//	clear      → 0
//	LP         → Data (only if the load port is wired)
//	CP && EP   → value + 1 mod 16
//	otherwise  → value
//
// Ena low holds the value. The previous CLR sample is updated on every edge.
//
func (c *Core) Tick(in Inputs) uint8 {
	c.edges++
	ctl := in.Control
	clear := c.mode.clear(ctl.CLR, c.prevCLR)
	c.prevCLR = ctl.CLR

	switch {
	case !in.RstN:
		c.Reset()
	case c.state == Held:
		c.state = Running
	case !in.Ena:
	case clear:
		c.value = 0
	case ctl.LP && c.loadPort:
		c.value = in.Data & Mask
	case ctl.CP && ctl.EP:
		c.value = (c.value + 1) & Mask
	}
	return c.value
}

// Read returns the current counter value.
//
func (c *Core) Read() uint8 { return c.value }

// State returns the current lifecycle state.
//
func (c *Core) State() State { return c.state }

// Edges returns the number of edges applied since creation.
//
func (c *Core) Edges() uint64 { return c.edges }

// ClearMode returns the CLR decoding mode.
//
func (c *Core) ClearMode() ClearMode { return c.mode }

// LoadPort reports whether the load data port is wired.
//
func (c *Core) LoadPort() bool { return c.loadPort }
