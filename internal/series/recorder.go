// Package series records collision bookkeeping over time and feeds charts.
package series

import (
	"math"

	"github.com/san-kum/vizlab/internal/engine"
	"github.com/san-kum/vizlab/internal/metrics"
)

// Sample is one recorded point of the momentum and energy series.
// Momentum and Energy hold one entry per tracked body, in tracking order.
type Sample struct {
	Time          float64
	Momentum      []float64
	TotalMomentum float64
	Energy        []float64
	TotalEnergy   float64
}

// Recorder keeps parallel time series for a fixed list of tracked bodies.
// Times are strictly increasing: a sample whose time does not exceed the
// last recorded one is dropped.
type Recorder struct {
	ids     []engine.BodyID
	samples []Sample
}

// NewRecorder returns an empty recorder for ids.
func NewRecorder(ids []engine.BodyID) *Recorder {
	owned := make([]engine.BodyID, len(ids))
	copy(owned, ids)
	return &Recorder{ids: owned, samples: make([]Sample, 0, 1024)}
}

// Record appends the quantities observed at time t and reports whether the
// sample was kept.
func (r *Recorder) Record(t float64, q metrics.Quantities) bool {
	if math.IsNaN(t) || math.IsInf(t, 0) {
		return false
	}
	if n := len(r.samples); n > 0 && t <= r.samples[n-1].Time {
		return false
	}

	s := Sample{
		Time:          t,
		Momentum:      make([]float64, len(r.ids)),
		Energy:        make([]float64, len(r.ids)),
		TotalMomentum: q.TotalMomentum,
		TotalEnergy:   q.TotalKineticEnergy,
	}
	for i, id := range r.ids {
		b := q.Body(id)
		s.Momentum[i] = b.Momentum
		s.Energy[i] = b.KineticEnergy
	}
	r.samples = append(r.samples, s)
	return true
}

// Append adds a fully formed sample under the same ordering rule as Record.
// It is used when loading stored runs.
func (r *Recorder) Append(s Sample) bool {
	if n := len(r.samples); n > 0 && s.Time <= r.samples[n-1].Time {
		return false
	}
	r.samples = append(r.samples, s)
	return true
}

func (r *Recorder) IDs() []engine.BodyID { return r.ids }
func (r *Recorder) Len() int             { return len(r.samples) }
func (r *Recorder) Samples() []Sample    { return r.samples }

// Last returns the most recent sample.
func (r *Recorder) Last() (Sample, bool) {
	if len(r.samples) == 0 {
		return Sample{}, false
	}
	return r.samples[len(r.samples)-1], true
}

// Times returns the recorded time axis.
func (r *Recorder) Times() []float64 {
	out := make([]float64, len(r.samples))
	for i, s := range r.samples {
		out[i] = s.Time
	}
	return out
}

// Column returns one series of kind. Index len(IDs()) selects the total.
func (r *Recorder) Column(kind Kind, index int) []float64 {
	out := make([]float64, len(r.samples))
	total := index >= len(r.ids)
	for i, s := range r.samples {
		switch {
		case kind == Momentum && total:
			out[i] = s.TotalMomentum
		case kind == Momentum:
			out[i] = s.Momentum[index]
		case total:
			out[i] = s.TotalEnergy
		default:
			out[i] = s.Energy[index]
		}
	}
	return out
}

// Reset drops every sample.
func (r *Recorder) Reset() {
	r.samples = r.samples[:0]
}
