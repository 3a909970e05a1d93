package hwlib_test

import (
	"testing"

	hl "github.com/db47h/counter4/hwlib"
	hw "github.com/db47h/counter4/hwsim"
	"github.com/db47h/counter4/hwtest"
)

func TestFullAdder(t *testing.T) {
	h, err := hw.Chip("myHalfAdder", "a, b", "s, c",
		hl.Xor("a=a, b=b, out=s"),
		hl.And("a=a, b=b, out=c"),
	)
	if err != nil {
		t.Fatal(err)
	}
	hwtest.ComparePart(t, testSPC, hl.HalfAdder, h)

	adder, err := hw.Chip("myFullAdder", "a, b, cin", "s, cout",
		h("a=a, b=b, s=s0, c=c0"),
		h("a=s0, b=cin, s=s, c=c1"),
		hl.Or("a=c0, b=c1, out=cout"),
	)
	if err != nil {
		t.Fatal(err)
	}
	hwtest.ComparePart(t, testSPC, hl.FullAdder, adder)
}

func TestAdderN(t *testing.T) {
	add4, err := hw.Chip("Adder4", "a[4], b[4]", "out[4], c",
		hl.HalfAdder("a=a[0], b=b[0], s=out[0], c=c0"),
		hl.FullAdder("a=a[1], b=b[1], cin=c0, s=out[1], cout=c1"),
		hl.FullAdder("a=a[2], b=b[2], cin=c1, s=out[2], cout=c2"),
		hl.FullAdder("a=a[3], b=b[3], cin=c2, s=out[3], cout=c"),
	)
	if err != nil {
		t.Fatal(err)
	}
	hwtest.ComparePart(t, 16, hl.AdderN(4), add4)
}

func TestIncN(t *testing.T) {
	inc4, err := hw.Chip("Inc4", "in[4]", "out[4]",
		hl.AdderN(4)("a=in, b[0]=true, out=out"),
	)
	if err != nil {
		t.Fatal(err)
	}
	hwtest.ComparePart(t, testSPC, hl.IncN(4), inc4)
}
