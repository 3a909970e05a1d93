package hwsim_test

import (
	"testing"

	hl "github.com/db47h/counter4/hwlib"
	"github.com/db47h/counter4/hwsim"
	"github.com/db47h/counter4/hwtest"
)

type testPart struct {
	A   [4]int `hw:"in"`
	B   [4]int `hw:"in"`
	Sel int    `hw:"in"`
	Out [4]int `hw:"out"`
}

func (t *testPart) Update(c *hwsim.Circuit) {
	src := t.A
	if c.Get(t.Sel) {
		src = t.B
	}
	for i, p := range src {
		c.Set(t.Out[i], c.Get(p))
	}
}

func Test_MakePart(t *testing.T) {
	p := hwsim.MakePart((*testPart)(nil))
	if p.Name != "testPart" {
		t.Fatalf("bad part name %q", p.Name)
	}
	if len(p.Inputs) != 9 || p.Inputs[8] != "sel" || len(p.Outputs) != 4 || p.Outputs[3] != "out[3]" {
		t.Fatalf("bad pinout %v / %v", p.Inputs, p.Outputs)
	}
	hwtest.ComparePart(t, testSPC, hl.MuxN(4), p.NewPart)
}

// accumulator adds Step to an internal sum on every raising edge where In is
// high. Start and Step are copied from the prototype.
type accumulator struct {
	In  int    `hw:"in"`
	Out [8]int `hw:"out,sum"`

	Start int64
	Step  int64
	sum   int64
}

func (a *accumulator) Init() { a.sum = a.Start }

func (a *accumulator) Update(c *hwsim.Circuit) {
	if c.AtEdge() && c.Get(a.In) {
		a.sum += a.Step
	}
	hl.SetInt64(c, a.Out[:], a.sum)
}

func Test_MakePart_prototype(t *testing.T) {
	acc := hwsim.MakePart(&accumulator{Start: 1, Step: 3}).NewPart
	var s1, s2 int64
	c, err := hwsim.NewCircuit(0, testSPC,
		acc("in=true, sum=s1"),
		acc("in=false, sum=s2"),
		hl.OutputN(8, func(v int64) { s1 = v })("in=s1"),
		hl.OutputN(8, func(v int64) { s2 = v })("in=s2"),
	)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Dispose()

	c.ClockCycles(5)
	if s1 != 16 || s2 != 1 {
		t.Fatalf("s1 = %d, s2 = %d, expected 16 and 1", s1, s2)
	}
}
