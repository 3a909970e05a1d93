package bench_test

import (
	"context"

	"github.com/db47h/counter4/bench"
	"github.com/db47h/counter4/counter"
	"github.com/db47h/counter4/dut"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/pkg/errors"
	"go.uber.org/mock/gomock"
)

func newBench(cfg bench.Config) *bench.Bench {
	cfg.Logger = GinkgoLogr
	b, err := bench.New(cfg)
	Expect(err).ToNot(HaveOccurred())
	DeferCleanup(b.Close)
	return b
}

var _ = Describe("Bench", func() {
	var (
		mockCtrl *gomock.Controller
		observer *MockObserver
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		observer = NewMockObserver(mockCtrl)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should hold the output low during reset", func() {
		b := newBench(bench.Config{})
		Expect(b.Edge()).To(Equal(-1))

		b.Reset(0)
		Expect(b.Output()).To(Equal(uint8(0)))
		Expect(b.Edge()).To(Equal(-1))
		Expect(b.Sample().Cycle).To(Equal(uint(bench.DefaultResetCycles)))
		Expect(b.Sample().Time).To(Equal(10 * bench.DefaultClockPeriod))
	})

	It("should report every edge to the observer", func() {
		var samples []bench.Sample
		observer.EXPECT().Observe(gomock.Any()).
			Do(func(s bench.Sample) { samples = append(samples, s) }).
			Times(13)
		b := newBench(bench.Config{Observer: observer})

		b.Reset(10)
		b.SetControl(counter.Counting)
		b.ClockCycles(3)

		Expect(samples).To(HaveLen(13))
		for _, s := range samples[:10] {
			Expect(s.RstN).To(BeFalse())
			Expect(s.Edge).To(Equal(-1))
			Expect(s.Output).To(Equal(uint8(0)))
		}
		Expect(samples[10].Edge).To(Equal(0))
		Expect(samples[10].Output).To(Equal(uint8(0)))
		Expect(samples[12].Edge).To(Equal(2))
		Expect(samples[12].Output).To(Equal(uint8(2)))
		Expect(samples[12].Control).To(Equal(uint8(0x6)))
	})

	It("should load data when the load port is wired", func() {
		b := newBench(bench.Config{DUT: dut.Config{LoadPort: true}})
		b.Reset(10)
		b.SetControl(counter.Counting)
		b.ClockCycles(3)
		Expect(b.Output()).To(Equal(uint8(2)))

		b.SetLoadData(0xfc)
		b.SetControl(counter.Counting.WithLP(true))
		b.ClockCycles(1)
		Expect(b.Output()).To(Equal(uint8(0xc)))
	})

	It("should hold the value while ena is low", func() {
		b := newBench(bench.Config{})
		b.Reset(10)
		b.SetControl(counter.Counting)
		b.ClockCycles(5)
		b.SetEnable(false)
		b.ClockCycles(5)
		Expect(b.Expect(4)).To(Succeed())
	})

	It("should return an assertion mismatch", func() {
		b := newBench(bench.Config{})
		b.Reset(10)
		b.SetControl(counter.Counting)
		b.ClockCycles(4)

		err := b.Expect(7)
		Expect(bench.IsMismatch(err)).To(BeTrue())
		m, _ := bench.AsMismatch(err)
		Expect(*m).To(Equal(bench.AssertionMismatch{Edge: 3, Expected: 7, Actual: 3}))
		Expect(err.Error()).To(Equal("edge 3: expected 7, got 3"))

		_, ok := err.(interface{ StackTrace() errors.StackTrace })
		Expect(ok).To(BeTrue())
		Expect(bench.IsMismatch(errors.New("edge 3"))).To(BeFalse())
	})

	DescribeTable("built-in scenarios",
		func(netlist bool, s bench.Scenario) {
			b := newBench(bench.Config{DUT: dut.Config{Netlist: netlist}})
			Expect(b.Run(context.Background(), s)).To(Succeed())
			Expect(b.Edge() + 1).To(Equal(s.Edges()))
		},
		Entry("count/model", false, bench.CountScenario()),
		Entry("count/netlist", true, bench.CountScenario()),
		Entry("count_clr/model", false, bench.CountWithClearScenario()),
		Entry("count_clr/netlist", true, bench.CountWithClearScenario()),
		Entry("clear_toggle/model", false, bench.ClearToggleScenario()),
		Entry("clear_toggle/netlist", true, bench.ClearToggleScenario()),
	)

	It("should fail fast on the first mismatch", func() {
		b := newBench(bench.Config{DUT: dut.Config{ClearMode: counter.ClearNone}})
		err := b.Run(context.Background(), bench.ClearToggleScenario())

		m, ok := bench.AsMismatch(err)
		Expect(ok).To(BeTrue())
		Expect(*m).To(Equal(bench.AssertionMismatch{
			Scenario: "clear_toggle", Edge: 9, Expected: 0, Actual: 9,
		}))
		Expect(b.Edge()).To(Equal(9))
	})

	It("should restore the control word width after a scenario", func() {
		b := newBench(bench.Config{})
		Expect(b.Run(context.Background(), bench.CountScenario())).To(Succeed())

		b.SetControl(counter.Counting.WithCLR(true))
		Expect(b.Sample().Control).To(Equal(uint8(0xe)))
	})

	It("should stop when the context is canceled", func() {
		b := newBench(bench.Config{})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := b.Run(ctx, bench.CountScenario())
		Expect(errors.Cause(err)).To(Equal(context.Canceled))
		Expect(bench.IsMismatch(err)).To(BeFalse())
	})

	It("should lookup scenarios by name", func() {
		for _, s := range bench.Scenarios() {
			l, err := bench.Lookup(s.Name)
			Expect(err).ToNot(HaveOccurred())
			Expect(l.Name).To(Equal(s.Name))
		}
		_, err := bench.Lookup("nope")
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("RunAll", func() {
	It("should run every scenario on a fresh design", func() {
		cfg := bench.Config{
			DUT:    dut.Config{ClearMode: counter.ClearNone},
			Logger: GinkgoLogr,
		}
		rs, err := bench.RunAll(context.Background(), cfg, bench.Scenarios()...)
		Expect(err).ToNot(HaveOccurred())
		Expect(rs).To(HaveLen(3))

		Expect(rs[0].Passed()).To(BeTrue())
		Expect(rs[0].Edges).To(Equal(16))
		Expect(rs[1].Passed()).To(BeTrue())
		Expect(rs[2].Passed()).To(BeFalse())
		Expect(bench.IsMismatch(rs[2].Err)).To(BeTrue())
	})

	It("should pass all scenarios with the default design", func() {
		rs, err := bench.RunAll(context.Background(), bench.Config{Logger: GinkgoLogr}, bench.Scenarios()...)
		Expect(err).ToNot(HaveOccurred())
		for _, r := range rs {
			Expect(r.Err).ToNot(HaveOccurred(), r.Scenario)
		}
	})
})
