package metrics

import (
	"github.com/san-kum/vizlab/internal/engine"
)

// Source exposes the bodies of a simulation by id.
type Source interface {
	Body(id engine.BodyID) (engine.BodyState, bool)
}

// BodyQuantities holds the bookkeeping values of one tracked body.
// An absent body has Present false and all values zero.
type BodyQuantities struct {
	ID            engine.BodyID
	Present       bool
	Mass          float64
	Velocity      float64
	Momentum      float64
	KineticEnergy float64
}

// Quantities is the momentum and kinetic energy of a set of tracked bodies.
type Quantities struct {
	Bodies             []BodyQuantities
	TotalMomentum      float64
	TotalKineticEnergy float64
}

// Momentum returns m*v.
func Momentum(mass, velocity float64) float64 { return mass * velocity }

// KineticEnergy returns m*v^2/2.
func KineticEnergy(mass, velocity float64) float64 { return 0.5 * mass * velocity * velocity }

// Measure computes per-body and total quantities for the tracked ids from the
// current state of src. It keeps no history: every call reflects src as it is.
func Measure(src Source, tracked []engine.BodyID) Quantities {
	q := Quantities{Bodies: make([]BodyQuantities, len(tracked))}
	for i, id := range tracked {
		bq := BodyQuantities{ID: id}
		if st, ok := src.Body(id); ok {
			bq.Present = true
			bq.Mass = st.Mass
			bq.Velocity = st.Velocity
			bq.Momentum = Momentum(st.Mass, st.Velocity)
			bq.KineticEnergy = KineticEnergy(st.Mass, st.Velocity)
		}
		q.Bodies[i] = bq
		q.TotalMomentum += bq.Momentum
		q.TotalKineticEnergy += bq.KineticEnergy
	}
	return q
}

// Body returns the quantities of id, or zero values when id is not tracked.
func (q Quantities) Body(id engine.BodyID) BodyQuantities {
	for _, b := range q.Bodies {
		if b.ID == id {
			return b
		}
	}
	return BodyQuantities{ID: id}
}

// Present returns how many tracked bodies still exist.
func (q Quantities) Present() int {
	n := 0
	for _, b := range q.Bodies {
		if b.Present {
			n++
		}
	}
	return n
}
