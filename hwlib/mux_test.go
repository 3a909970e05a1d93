package hwlib_test

import (
	"testing"

	hl "github.com/db47h/counter4/hwlib"
	hw "github.com/db47h/counter4/hwsim"
	"github.com/db47h/counter4/hwtest"
)

func TestMuxN(t *testing.T) {
	m, err := hw.Chip("myMux4", "a[4], b[4], sel", "out[4]",
		hl.Mux("a=a[0], b=b[0], sel=sel, out=out[0]"),
		hl.Mux("a=a[1], b=b[1], sel=sel, out=out[1]"),
		hl.Mux("a=a[2], b=b[2], sel=sel, out=out[2]"),
		hl.Mux("a=a[3], b=b[3], sel=sel, out=out[3]"),
	)
	if err != nil {
		t.Fatal(err)
	}

	hwtest.ComparePart(t, testSPC, hl.MuxN(4), m)
}

// MuxN with an unconnected input acts as an enable gate.
func TestMuxN_gate(t *testing.T) {
	var in, out int64
	var en bool
	c, err := hw.NewCircuit(0, testSPC,
		hl.InputN(4, func() int64 { return in })("out=in"),
		hl.Input(func() bool { return en })("out=en"),
		hl.MuxN(4)("b=in, sel=en, out=out"),
		hl.OutputN(4, func(v int64) { out = v })("in=out"),
	)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Dispose()

	in = 9
	c.TickTock()
	if out != 0 {
		t.Fatalf("disabled: got %d", out)
	}
	en = true
	c.TickTock()
	if out != 9 {
		t.Fatalf("enabled: got %d, expected 9", out)
	}
}
