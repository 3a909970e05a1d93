// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwsim

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// A Connection connects pin PP of a part to wire CP of its container.
// Either side may be a bus range like "bus[0..3]".
//
type Connection struct {
	PP string
	CP string
}

// BusPinName returns the name of pin i of the given bus.
//
func BusPinName(bus string, i int) string {
	return bus + "[" + strconv.Itoa(i) + "]"
}

// IO parses a pin specification string and returns individual pin
// names in a slice, also expanding bus declarations to individual pin names.
// For example:
//
//	IO("in[2], sel") // returns []string{"in[0]", "in[1]", "sel"}
//
func IO(spec string) ([]string, error) {
	var out []string
	for _, f := range strings.Split(spec, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		i := strings.IndexByte(f, '[')
		if i < 0 {
			if !isIdent(f) {
				return nil, parseError(spec, f, "invalid pin name")
			}
			out = append(out, f)
			continue
		}
		name := f[:i]
		if !isIdent(name) {
			return nil, parseError(spec, f, "invalid bus name")
		}
		if !strings.HasSuffix(f, "]") {
			return nil, parseError(spec, f, "missing close bracket")
		}
		n, err := strconv.Atoi(f[i+1 : len(f)-1])
		if err != nil || n <= 0 {
			return nil, parseError(spec, f, "invalid bus size")
		}
		for j := 0; j < n; j++ {
			out = append(out, BusPinName(name, j))
		}
	}
	return out, nil
}

// ParseConnections parses a connection configuration like "partPin1=chipPin1,
// partPin2=chipPin2, ..." into a []Connection.
//
// Buses can be connected pin by pin with ranges, or as a whole by using the bus
// name alone on either side:
//
//	a[0..3]=data[4..7], sel=true, out=result
//
func ParseConnections(c string) ([]Connection, error) {
	var conns []Connection
	for _, f := range strings.Split(c, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		i := strings.IndexByte(f, '=')
		if i < 0 {
			return nil, parseError(c, f, "expected '='")
		}
		pp, cp := strings.TrimSpace(f[:i]), strings.TrimSpace(f[i+1:])
		if pp == "" || cp == "" {
			return nil, parseError(c, f, "invalid pin mapping")
		}
		conns = append(conns, Connection{PP: pp, CP: cp})
	}
	return conns, nil
}

// expandRange expands a bus range like "bus[2..4]" into individual pin names.
// Any other name is returned as is.
//
func expandRange(name string) ([]string, error) {
	i := strings.IndexByte(name, '[')
	if i < 0 {
		return []string{name}, nil
	}
	bus := name[:i]
	if bus == "" {
		return nil, errors.New("empty bus name")
	}
	n := name[i+1:]
	i = strings.Index(n, "..")
	if i < 0 {
		return []string{name}, nil
	}
	start, err := strconv.Atoi(n[:i])
	if err != nil {
		return nil, err
	}
	n = n[i+2:]
	i = strings.IndexByte(n, ']')
	if i < 0 {
		return nil, errors.New("no terminating ] in bus range")
	}
	end, err := strconv.Atoi(n[:i])
	if err != nil {
		return nil, err
	}
	if end < start {
		return nil, errors.Errorf("invalid bus range %s", name)
	}
	r := make([]string, 0, end-start+1)
	for i := start; i <= end; i++ {
		r = append(r, BusPinName(bus, i))
	}
	return r, nil
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', 'a' <= r && r <= 'z', 'A' <= r && r <= 'Z':
		case i > 0 && '0' <= r && r <= '9':
		default:
			return false
		}
	}
	return true
}

func parseError(in, item, msg string) error {
	return errors.Errorf("in %q at %q: %s", in, item, msg)
}
