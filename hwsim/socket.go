// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwsim

// Constant input pin names.
//
const (
	True  = "true"
	False = "false"
	GND   = "false"
	Clk   = "clk"
)

const (
	cstFalse = iota
	cstTrue
	cstClk
	cstCount
)

func isConstant(name string) bool {
	return name == True || name == False || name == Clk
}

// A Socket maps a part's pin names to pin numbers in a circuit.
//
type Socket struct {
	m map[string]int
	c *Circuit
}

func newSocket(c *Circuit) *Socket {
	return &Socket{
		m: map[string]int{False: cstFalse, True: cstTrue, Clk: cstClk},
		c: c,
	}
}

// clone returns a copy of s that shares its pin numbers but not its namespace.
//
func (s *Socket) clone() *Socket {
	m := make(map[string]int, len(s.m))
	for k, v := range s.m {
		m[k] = v
	}
	return &Socket{m: m, c: s.c}
}

// mount mounts part p, wiring its pins to pins in s. New internal pins are
// allocated as needed. Unconnected inputs are wired to False and unconnected
// outputs to a fresh pin that nothing reads.
//
func (s *Socket) mount(p Part) []Component {
	sub := newSocket(s.c)
	for _, in := range p.Inputs {
		if w, ok := p.Wires[in]; ok {
			sub.m[in] = s.PinOrNew(w)
		} else {
			sub.m[in] = cstFalse
		}
	}
	for _, out := range p.Outputs {
		if w, ok := p.Wires[out]; ok {
			sub.m[out] = s.PinOrNew(w)
		} else {
			sub.m[out] = s.c.allocPin()
		}
	}
	return p.Mount(sub)
}

// Pin returns the pin number allocated to the given pin name.
// This function panics if the pin does not exist.
//
func (s *Socket) Pin(name string) int {
	n, ok := s.m[name]
	if !ok {
		panic("pin " + name + " does not exist")
	}
	return n
}

// PinOrNew returns the pin number allocated to the given pin name.
// If no such pin exists a new one is allocated.
//
func (s *Socket) PinOrNew(name string) int {
	n, ok := s.m[name]
	if !ok {
		n = s.c.allocPin()
		s.m[name] = n
	}
	return n
}

// Bus returns the pin numbers allocated to the given bus name.
// This function panics if any of the bus pins does not exist.
//
func (s *Socket) Bus(name string, bits int) []int {
	out := make([]int, bits)
	for i := range out {
		out[i] = s.Pin(BusPinName(name, i))
	}
	return out
}
