package metrics

import "math"

// Metric summarizes a run from the quantities observed after every step.
type Metric interface {
	Name() string
	Observe(q Quantities, t float64)
	Value() float64
	Reset()
}

// MomentumDrift reports the largest absolute change of total momentum
// relative to the first observation.
type MomentumDrift struct {
	initial  float64
	maxDrift float64
	samples  int
}

func NewMomentumDrift() *MomentumDrift { return &MomentumDrift{} }

func (m *MomentumDrift) Name() string { return "momentum_drift" }

func (m *MomentumDrift) Observe(q Quantities, t float64) {
	if m.samples == 0 {
		m.initial = q.TotalMomentum
	}
	m.samples++
	m.maxDrift = math.Max(m.maxDrift, math.Abs(q.TotalMomentum-m.initial))
}

func (m *MomentumDrift) Value() float64 { return m.maxDrift }

func (m *MomentumDrift) Reset() {
	m.initial = 0
	m.maxDrift = 0
	m.samples = 0
}

// EnergyLoss reports the fraction of the initial kinetic energy missing at
// the latest observation. Elastic runs stay near zero; a perfectly inelastic
// merge loses m_A*m_B*(v_A-v_B)^2 / (2*(m_A+m_B)).
type EnergyLoss struct {
	initial float64
	current float64
	samples int
}

func NewEnergyLoss() *EnergyLoss { return &EnergyLoss{} }

func (e *EnergyLoss) Name() string { return "energy_loss" }

func (e *EnergyLoss) Observe(q Quantities, t float64) {
	if e.samples == 0 {
		e.initial = q.TotalKineticEnergy
	}
	e.current = q.TotalKineticEnergy
	e.samples++
}

func (e *EnergyLoss) Value() float64 {
	if e.initial == 0 {
		return 0
	}
	return (e.initial - e.current) / e.initial
}

func (e *EnergyLoss) Reset() {
	e.initial = 0
	e.current = 0
	e.samples = 0
}

// Survivors reports how many tracked bodies exist at the latest observation.
type Survivors struct {
	count int
}

func NewSurvivors() *Survivors { return &Survivors{} }

func (s *Survivors) Name() string                    { return "survivors" }
func (s *Survivors) Observe(q Quantities, t float64) { s.count = q.Present() }
func (s *Survivors) Value() float64                  { return float64(s.count) }
func (s *Survivors) Reset()                          { s.count = 0 }

// Defaults returns the metrics recorded for every collision run.
func Defaults() []Metric {
	return []Metric{NewMomentumDrift(), NewEnergyLoss(), NewSurvivors()}
}

// Collect maps metric names to their current values.
func Collect(ms []Metric) map[string]float64 {
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		out[m.Name()] = m.Value()
	}
	return out
}
