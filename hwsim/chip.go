// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwsim

import (
	"github.com/pkg/errors"
)

// Chip composes existing parts into a new part packaged into a chip.
// The pin names specified as inputs and outputs will be the inputs
// and outputs of the chip.
//
// An Xor gate could be created like this:
//
//	xor, err := Chip("XOR", "a, b", "out",
//		hwlib.Nand("a=a, b=b, out=nandAB"),
//		hwlib.Nand("a=a, b=nandAB, out=w0"),
//		hwlib.Nand("a=b, b=nandAB, out=w1"),
//		hwlib.Nand("a=w0, b=w1, out=out"),
//	)
//
// The returned value is a NewPartFn that can be used to compose the new part
// with others into other chips:
//
//	xnor, err := Chip("XNOR", "a, b", "out",
//		xor("a=a, b=b, out=xorAB"),
//		hwlib.Not("in=xorAB, out=out"),
//	)
//
// Chip checks that every wire read by a part is either a chip input, a constant
// or driven by exactly one part output.
//
func Chip(name string, inputs, outputs string, parts ...Part) (NewPartFn, error) {
	ins, err := IO(inputs)
	if err != nil {
		return nil, errors.Wrap(err, name+" inputs")
	}
	outs, err := IO(outputs)
	if err != nil {
		return nil, errors.Wrap(err, name+" outputs")
	}
	isIn := make(map[string]bool, len(ins))
	for _, i := range ins {
		isIn[i] = true
	}

	driven := make(map[string]string)
	for _, p := range parts {
		for _, o := range p.Outputs {
			w, ok := p.Wires[o]
			if !ok {
				continue
			}
			pn := p.Name + "." + o
			switch {
			case w == Clk:
				return nil, errors.New(name + ": output pin " + pn + " connected to clock signal")
			case isConstant(w):
				return nil, errors.New(name + ": output pin " + pn + " connected to constant " + w)
			case isIn[w]:
				return nil, errors.New(name + ": output pin " + pn + " connected to chip input " + w)
			}
			if d, ok := driven[w]; ok {
				return nil, errors.New(name + ": wire " + w + " driven by both " + d + " and " + pn)
			}
			driven[w] = pn
		}
	}
	for _, p := range parts {
		for _, i := range p.Inputs {
			w, ok := p.Wires[i]
			if !ok || isConstant(w) || isIn[w] {
				continue
			}
			if _, ok := driven[w]; !ok {
				return nil, errors.New(name + ": pin " + p.Name + "." + i + " not connected to any output")
			}
		}
	}

	sp := &PartSpec{
		Name:    name,
		Inputs:  ins,
		Outputs: outs,
	}
	sp.Mount = func(s *Socket) []Component {
		// chip local namespace
		inner := s.clone()
		var cs []Component
		for _, p := range parts {
			cs = append(cs, inner.mount(p)...)
		}
		return cs
	}
	return sp.NewPart, nil
}
