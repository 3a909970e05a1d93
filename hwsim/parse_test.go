package hwsim_test

import (
	"reflect"
	"testing"

	hl "github.com/db47h/counter4/hwlib"
	"github.com/db47h/counter4/hwsim"
)

func TestIO(t *testing.T) {
	td := []struct {
		in  string
		out []string
		err bool
	}{
		{"", nil, false},
		{"a", []string{"a"}, false},
		{"a, b , sel", []string{"a", "b", "sel"}, false},
		{"ui_in[3], rst_n", []string{"ui_in[0]", "ui_in[1]", "ui_in[2]", "rst_n"}, false},
		{"a[0]", nil, true},
		{"a[2", nil, true},
		{"2a", nil, true},
		{"a-b", nil, true},
	}
	for _, d := range td {
		out, err := hwsim.IO(d.in)
		if d.err {
			if err == nil {
				t.Errorf("IO(%q): expected error", d.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("IO(%q): %v", d.in, err)
			continue
		}
		if !reflect.DeepEqual(out, d.out) {
			t.Errorf("IO(%q) = %v, expected %v", d.in, out, d.out)
		}
	}
}

func TestParseConnections(t *testing.T) {
	c, err := hwsim.ParseConnections(" a=x,b[0..1] = y[2..3], ")
	if err != nil {
		t.Fatal(err)
	}
	exp := []hwsim.Connection{{PP: "a", CP: "x"}, {PP: "b[0..1]", CP: "y[2..3]"}}
	if !reflect.DeepEqual(c, exp) {
		t.Fatalf("got %v, expected %v", c, exp)
	}
	for _, s := range []string{"a", "a=", "=b"} {
		if _, err := hwsim.ParseConnections(s); err == nil {
			t.Errorf("ParseConnections(%q): expected error", s)
		}
	}
}

func TestPart_wires(t *testing.T) {
	p := hl.MuxN(4)("a[0..1]=x[2..3], a[2..3]=false, b=y, sel=s, out=z")
	exp := hwsim.W{
		"a[0]": "x[2]", "a[1]": "x[3]", "a[2]": "false", "a[3]": "false",
		"b[0]": "y[0]", "b[1]": "y[1]", "b[2]": "y[2]", "b[3]": "y[3]",
		"sel":    "s",
		"out[0]": "z[0]", "out[1]": "z[1]", "out[2]": "z[2]", "out[3]": "z[3]",
	}
	if !reflect.DeepEqual(p.Wires, exp) {
		t.Fatalf("got %v, expected %v", p.Wires, exp)
	}

	// whole bus to a constant
	p = hl.MuxN(2)("a=true")
	if p.Wires["a[0]"] != "true" || p.Wires["a[1]"] != "true" {
		t.Fatalf("bad wires %v", p.Wires)
	}
}
