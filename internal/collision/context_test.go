package collision_test

import (
	"context"

	"github.com/guptarohit/asciigraph"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/vizlab/internal/collision"
	"github.com/san-kum/vizlab/internal/config"
	"github.com/san-kum/vizlab/internal/engine"
	"github.com/san-kum/vizlab/internal/logging"
	"github.com/san-kum/vizlab/internal/series"
)

func newContext(p collision.Params) *collision.Context {
	c, err := collision.New(p, collision.Options{Log: logging.Discard()})
	Expect(err).NotTo(HaveOccurred())
	DeferCleanup(c.Close)
	return c
}

func run(c *collision.Context, seconds float64) {
	_, err := c.Run(context.Background(), seconds)
	Expect(err).NotTo(HaveOccurred())
}

var _ = Describe("Context", func() {
	It("starts paused with a t = 0 sample", func() {
		c := newContext(collision.Params{Mass1: 2, Velocity1: 3, Mass2: 1, TimeScale: 1})

		Expect(c.Paused()).To(BeTrue())
		Expect(c.Time()).To(BeZero())
		Expect(c.Series().Len()).To(Equal(1))
		Expect(c.Series().Times()[0]).To(BeZero())
		Expect(c.Bodies()).To(HaveLen(2))

		q := c.Quantities()
		Expect(q.TotalMomentum).To(BeNumerically("~", 6, 1e-9))
		Expect(q.TotalKineticEnergy).To(BeNumerically("~", 9, 1e-9))

		moved, err := c.Tick()
		Expect(err).NotTo(HaveOccurred())
		Expect(moved).To(BeFalse())
	})

	It("places the boxes at a quarter and three quarters of the track", func() {
		c := newContext(collision.Params{Mass1: 1, Mass2: 1, TimeScale: 1})
		bodies := c.Bodies()
		Expect(bodies[0].Position).To(BeNumerically("~", 2.5, 1e-9))
		Expect(bodies[1].Position).To(BeNumerically("~", 7.5, 1e-9))
	})

	It("merges 2 kg at 3 m/s into 1 kg at rest", func() {
		c := newContext(collision.Params{Mass1: 2, Velocity1: 3, Mass2: 1, Velocity2: 0, Mode: collision.Inelastic, TimeScale: 1})
		before := c.Quantities()

		run(c, 3)

		Expect(c.Bodies()).To(HaveLen(1))
		merged := c.Bodies()[0]
		Expect(merged.Mass).To(BeNumerically("~", 3, 1e-9))
		Expect(merged.Velocity).To(BeNumerically("~", 2, 1e-6))

		n, state := c.Merges()
		Expect(n).To(Equal(1))
		Expect(state).To(Equal(collision.MergeIdle))
		Expect(c.LastMerge()).To(Equal(collision.MergeApplied))

		after := c.Quantities()
		Expect(before.TotalMomentum).To(BeNumerically("~", 6, 1e-9))
		Expect(after.TotalMomentum).To(BeNumerically("~", 6, 1e-6))
		Expect(before.TotalKineticEnergy).To(BeNumerically("~", 9, 1e-9))
		Expect(after.TotalKineticEnergy).To(BeNumerically("~", 6, 1e-5))
		Expect(after.Present()).To(Equal(1))

		vals := c.Metrics()
		Expect(vals["energy_loss"]).To(BeNumerically("~", 1.0/3.0, 1e-5))
		Expect(vals["survivors"]).To(Equal(1.0))
	})

	It("swaps velocities of equal masses in elastic mode", func() {
		c := newContext(collision.Params{Mass1: 1, Velocity1: 5, Mass2: 1, Velocity2: -5, Mode: collision.Elastic, TimeScale: 1})

		run(c, 1)

		Expect(c.Bodies()).To(HaveLen(2))
		a, b := c.Bodies()[0], c.Bodies()[1]
		Expect(a.Velocity).To(BeNumerically("~", -5, 0.05))
		Expect(b.Velocity).To(BeNumerically("~", 5, 0.05))

		q := c.Quantities()
		Expect(q.TotalMomentum).To(BeNumerically("~", 0, 1e-6))
		Expect(q.TotalKineticEnergy).To(BeNumerically("~", 25, 0.5))

		n, _ := c.Merges()
		Expect(n).To(BeZero())
	})

	It("records strictly increasing times", func() {
		c := newContext(collision.Params{Mass1: 1, Velocity1: 2, Mass2: 3, Velocity2: -1, Mode: collision.Inelastic, TimeScale: 2.5})
		run(c, 2)

		times := c.Series().Times()
		Expect(len(times)).To(BeNumerically(">", 10))
		for i := 1; i < len(times); i++ {
			Expect(times[i]).To(BeNumerically(">", times[i-1]))
		}
	})

	It("applies the time scale to each tick", func() {
		c := newContext(collision.Params{Mass1: 1, Mass2: 1, TimeScale: 1})
		Expect(c.SetTimeScale(5)).To(Equal(engine.MaxTimeScale))
		Expect(c.SetTimeScale(2)).To(Equal(2.0))

		Expect(c.Toggle()).To(BeTrue())
		moved, err := c.Tick()
		Expect(err).NotTo(HaveOccurred())
		Expect(moved).To(BeTrue())
		Expect(c.Time()).To(BeNumerically("~", 2*engine.DefaultTick, 1e-12))

		c.Pause()
		moved, _ = c.Tick()
		Expect(moved).To(BeFalse())
	})

	It("closes the previous world on reset", func() {
		c := newContext(collision.Params{Mass1: 2, Velocity1: 3, Mass2: 1, Mode: collision.Inelastic, TimeScale: 1})
		oldWorld := c.World()
		oldMomentum, oldEnergy := c.Charts()
		c.Start()
		for i := 0; i < 10; i++ {
			_, err := c.Tick()
			Expect(err).NotTo(HaveOccurred())
		}

		Expect(c.Reset(collision.Params{Mass1: 1, Velocity1: 1, Mass2: 1, TimeScale: 1})).To(Succeed())

		Expect(oldWorld.Closed()).To(BeTrue())
		Expect(oldWorld.Len()).To(BeZero())
		Expect(oldMomentum.Closed()).To(BeTrue())
		Expect(oldEnergy.Closed()).To(BeTrue())

		Expect(c.World()).NotTo(BeIdenticalTo(oldWorld))
		Expect(c.Paused()).To(BeTrue())
		Expect(c.Time()).To(BeZero())
		Expect(c.Series().Len()).To(Equal(1))
		Expect(c.Bodies()).To(HaveLen(2))
	})

	It("rebuilds on restyle", func() {
		c := newContext(collision.Params{Mass1: 1, Mass2: 1, TimeScale: 1.5})
		oldWorld := c.World()
		Expect(c.Restyle(series.Palette{Total: asciigraph.Green})).To(Succeed())
		Expect(oldWorld.Closed()).To(BeTrue())
		Expect(c.TimeScale()).To(Equal(1.5))
	})

	It("is safe to close twice and refuses ticks afterwards", func() {
		c := newContext(collision.Params{Mass1: 1, Mass2: 1, TimeScale: 1})
		c.Close()
		c.Close()
		Expect(c.Closed()).To(BeTrue())
		_, err := c.Tick()
		Expect(err).To(MatchError(collision.ErrClosed))
	})
})

var _ = Describe("Params", func() {
	DescribeTable("ParseMass",
		func(in string, want float64) {
			Expect(collision.ParseMass(in)).To(Equal(want))
		},
		Entry("number", "2.5", 2.5),
		Entry("below floor", "0.2", 1.0),
		Entry("negative", "-4", 1.0),
		Entry("empty", "", 1.0),
		Entry("garbage", "abc", 1.0),
		Entry("NaN", "NaN", 1.0),
		Entry("Inf", "Inf", 1.0),
	)

	DescribeTable("ParseVelocity",
		func(in string, want float64) {
			Expect(collision.ParseVelocity(in)).To(Equal(want))
		},
		Entry("positive", "3", 3.0),
		Entry("negative", " -5 ", -5.0),
		Entry("garbage", "fast", 0.0),
		Entry("NaN", "nan", 0.0),
	)

	It("parses modes", func() {
		m, err := collision.ParseMode("Inelastic")
		Expect(err).NotTo(HaveOccurred())
		Expect(m).To(Equal(collision.Inelastic))
		Expect(m.Restitution()).To(BeZero())
		Expect(m.Toggle()).To(Equal(collision.Elastic))
		_, err = collision.ParseMode("sticky")
		Expect(err).To(HaveOccurred())
	})

	It("builds from config", func() {
		p, err := collision.FromConfig(config.GetPreset("collision", "chase").Collision)
		Expect(err).NotTo(HaveOccurred())
		Expect(p.Mode).To(Equal(collision.Inelastic))
		Expect(p.Mass1).To(Equal(2.0))
		Expect(p.TimeScale).To(Equal(1.0))
	})
})
