// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwsim

import (
	"github.com/pkg/errors"
)

// W is a set of wires, connecting a part's I/O pins (the map key) to wires in
// its container.
//
type W map[string]string

// busWidth returns the number of pins in bus name of part p, or 0 if p has no
// such bus.
//
func (p *PartSpec) busWidth(name string) int {
	n := 0
	for p.hasPin(BusPinName(name, n)) {
		n++
	}
	return n
}

func (p *PartSpec) hasPin(name string) bool {
	for _, i := range p.Inputs {
		if i == name {
			return true
		}
	}
	for _, o := range p.Outputs {
		if o == name {
			return true
		}
	}
	return false
}

// wire builds the wire map of p by expanding bus ranges in conns.
//
func (p *PartSpec) wire(conns []Connection) (W, error) {
	w := make(W)
	for _, c := range conns {
		ks, err := expandRange(c.PP)
		if err != nil {
			return nil, errors.Wrap(err, "expand key "+c.PP)
		}
		vs, err := expandRange(c.CP)
		if err != nil {
			return nil, errors.Wrap(err, "expand value "+c.CP)
		}
		if len(ks) == 1 && !p.hasPin(ks[0]) {
			// whole bus
			if n := p.busWidth(ks[0]); n > 0 {
				bus := ks[0]
				ks = make([]string, n)
				for i := range ks {
					ks[i] = BusPinName(bus, i)
				}
				if len(vs) == 1 && !isConstant(vs[0]) {
					wb := vs[0]
					vs = make([]string, n)
					for i := range vs {
						vs[i] = BusPinName(wb, i)
					}
				}
			}
		}
		switch {
		case len(ks) == len(vs):
		case len(vs) == 1:
			// many to one
			v := vs[0]
			vs = make([]string, len(ks))
			for i := range vs {
				vs[i] = v
			}
		default:
			return nil, errors.New("pin count mismatch in pin mapping: " + c.PP + "=" + c.CP)
		}
		for i, k := range ks {
			if !p.hasPin(k) {
				return nil, errors.New("invalid pin name " + k + " for part " + p.Name)
			}
			if _, ok := w[k]; ok {
				return nil, errors.New("pin " + k + " of part " + p.Name + " connected more than once")
			}
			w[k] = vs[i]
		}
	}
	return w, nil
}
