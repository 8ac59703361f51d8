package series

import (
	"math"
	"strings"
	"testing"

	"github.com/guptarohit/asciigraph"
	. "github.com/onsi/gomega"

	"github.com/san-kum/vizlab/internal/engine"
	"github.com/san-kum/vizlab/internal/metrics"
)

var ids = []engine.BodyID{"A", "B"}

func quantities(pa, pb, ka, kb float64) metrics.Quantities {
	return metrics.Quantities{
		Bodies: []metrics.BodyQuantities{
			{ID: "A", Present: true, Momentum: pa, KineticEnergy: ka},
			{ID: "B", Present: true, Momentum: pb, KineticEnergy: kb},
		},
		TotalMomentum:      pa + pb,
		TotalKineticEnergy: ka + kb,
	}
}

func TestRecorder_Monotonic(t *testing.T) {
	g := NewWithT(t)
	r := NewRecorder(ids)
	q := quantities(6, 0, 9, 0)

	g.Expect(r.Record(0, q)).To(BeTrue())
	g.Expect(r.Record(0, q)).To(BeFalse())
	g.Expect(r.Record(0.1, q)).To(BeTrue())
	g.Expect(r.Record(0.05, q)).To(BeFalse())
	g.Expect(r.Record(math.NaN(), q)).To(BeFalse())
	g.Expect(r.Record(0.2, q)).To(BeTrue())
	g.Expect(r.Len()).To(Equal(3))

	times := r.Times()
	for i := 1; i < len(times); i++ {
		g.Expect(times[i]).To(BeNumerically(">", times[i-1]))
	}
}

func TestRecorder_Columns(t *testing.T) {
	r := NewRecorder(ids)
	r.Record(0, quantities(6, 0, 9, 0))
	r.Record(1, quantities(6, 0, 6, 0))

	if got := r.Column(Momentum, 0); got[0] != 6 || got[1] != 6 {
		t.Errorf("P1 column = %v", got)
	}
	if got := r.Column(Energy, 2); got[0] != 9 || got[1] != 6 {
		t.Errorf("KE total column = %v", got)
	}
	if got := r.Column(Energy, 1); got[0] != 0 {
		t.Errorf("KE2 column = %v", got)
	}

	last, ok := r.Last()
	if !ok || last.Time != 1 {
		t.Errorf("last = %+v", last)
	}

	r.Reset()
	if r.Len() != 0 {
		t.Errorf("expected empty recorder after reset")
	}
	if _, ok := r.Last(); ok {
		t.Error("expected no last sample")
	}
}

func TestRecorder_AbsentBodyRecordsZero(t *testing.T) {
	r := NewRecorder(ids)
	q := metrics.Quantities{
		Bodies: []metrics.BodyQuantities{
			{ID: "A", Present: true, Momentum: 6, KineticEnergy: 6},
			{ID: "B"},
		},
		TotalMomentum:      6,
		TotalKineticEnergy: 6,
	}
	r.Record(0.5, q)

	s, _ := r.Last()
	if s.Momentum[1] != 0 || s.Energy[1] != 0 {
		t.Errorf("absent body recorded non-zero values: %+v", s)
	}
}

func TestChart_Render(t *testing.T) {
	g := NewWithT(t)
	r := NewRecorder(ids)
	palette := Palette{
		Bodies: []asciigraph.AnsiColor{asciigraph.Red, asciigraph.Blue},
		Total:  asciigraph.Green,
		Axis:   asciigraph.Gray,
		Label:  asciigraph.Default,
	}
	c := NewChart(Momentum, r, palette, 40, 6)

	g.Expect(c.Render()).NotTo(BeEmpty())

	for i := 0; i < 20; i++ {
		r.Record(float64(i)*0.1, quantities(6-float64(i)*0.1, float64(i)*0.1, 9, 0))
	}
	out := c.Render()
	g.Expect(out).To(ContainSubstring("Momentum (kg m/s)"))
	g.Expect(out).To(ContainSubstring("P Total"))

	c.Close()
	g.Expect(c.Closed()).To(BeTrue())
	g.Expect(c.Render()).To(BeEmpty())
}

func TestKind_Legends(t *testing.T) {
	got := strings.Join(Energy.Legends(2), ",")
	if got != "KE1,KE2,KE Total" {
		t.Errorf("legends = %s", got)
	}
	if Momentum.Title() != "Momentum (kg m/s)" {
		t.Errorf("title = %s", Momentum.Title())
	}
}
