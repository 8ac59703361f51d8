package collision

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/san-kum/vizlab/internal/engine"
)

// ErrInvalidMerge is returned when the masses of a colliding pair cannot
// produce a merged body.
var ErrInvalidMerge = errors.New("invalid merge")

// MergeState is the phase of the inelastic merge policy.
type MergeState int

const (
	MergeIdle MergeState = iota
	MergePending
)

func (s MergeState) String() string {
	if s == MergePending {
		return "pending"
	}
	return "idle"
}

// PendingMerge is a merge detected during a step and applied after it.
type PendingMerge struct {
	Keep          engine.BodyID
	Absorb        engine.BodyID
	FinalVelocity float64
	TotalMass     float64
}

// ComputeMerge returns the perfectly inelastic outcome of keep absorbing
// absorb. Momentum is conserved.
func ComputeMerge(keep, absorb engine.BodyState) (PendingMerge, error) {
	total := keep.Mass + absorb.Mass
	if math.IsNaN(keep.Mass) || math.IsNaN(absorb.Mass) || total == 0 {
		return PendingMerge{}, fmt.Errorf("%w: masses %v and %v", ErrInvalidMerge, keep.Mass, absorb.Mass)
	}
	return PendingMerge{
		Keep:          keep.ID,
		Absorb:        absorb.ID,
		FinalVelocity: (keep.Mass*keep.Velocity + absorb.Mass*absorb.Velocity) / total,
		TotalMass:     total,
	}, nil
}

// Outcome reports what OnStepComplete did.
type Outcome int

const (
	NoMerge Outcome = iota
	MergeApplied
	MergeDiscarded
)

func (o Outcome) String() string {
	switch o {
	case MergeApplied:
		return "applied"
	case MergeDiscarded:
		return "discarded"
	}
	return "none"
}

// BodyStore is the part of the engine the merger reads and mutates.
type BodyStore interface {
	Body(id engine.BodyID) (engine.BodyState, bool)
	Remove(id engine.BodyID) error
	SetMass(id engine.BodyID, mass float64) error
	SetVelocity(id engine.BodyID, v float64) error
}

// Merger is the two-phase merge state machine. A merge is detected in the
// collision callback, while the engine is locked, and applied on the next
// step completion. At most one merge is pending at a time.
type Merger struct {
	store   BodyStore
	a, b    engine.BodyID
	mode    Mode
	log     *slog.Logger
	state   MergeState
	pending PendingMerge
	applied int
}

// NewMerger tracks the pair a, b inside store.
func NewMerger(store BodyStore, a, b engine.BodyID, mode Mode, log *slog.Logger) *Merger {
	if log == nil {
		log = slog.Default()
	}
	return &Merger{store: store, a: a, b: b, mode: mode, log: log}
}

func (m *Merger) State() MergeState { return m.state }
func (m *Merger) Mode() Mode        { return m.mode }
func (m *Merger) Applied() int      { return m.applied }

// Pending returns the scheduled merge, if any.
func (m *Merger) Pending() (PendingMerge, bool) {
	return m.pending, m.state == MergePending
}

// OnCollision handles a collision-start event and reports whether a merge
// was scheduled. The first body of the pair is kept.
func (m *Merger) OnCollision(ev engine.CollisionEvent) bool {
	if m.mode != Inelastic || m.state != MergeIdle {
		return false
	}
	if !(ev.A == m.a && ev.B == m.b) && !(ev.A == m.b && ev.B == m.a) {
		return false
	}

	keep, okKeep := m.store.Body(ev.A)
	absorb, okAbsorb := m.store.Body(ev.B)
	if !okKeep || !okAbsorb {
		return false
	}

	pm, err := ComputeMerge(keep, absorb)
	if err != nil {
		m.log.Warn("merge aborted", "error", err, "time", ev.Time)
		return false
	}

	m.pending = pm
	m.state = MergePending
	m.log.Debug("merge scheduled",
		"keep", pm.Keep, "absorb", pm.Absorb,
		"velocity", pm.FinalVelocity, "mass", pm.TotalMass)
	return true
}

// OnStepComplete applies the pending merge if both bodies still exist and
// discards it otherwise. The machine is idle afterwards in every case.
func (m *Merger) OnStepComplete() Outcome {
	if m.state != MergePending {
		return NoMerge
	}
	pm := m.pending
	m.pending = PendingMerge{}
	m.state = MergeIdle

	_, okKeep := m.store.Body(pm.Keep)
	_, okAbsorb := m.store.Body(pm.Absorb)
	if !okKeep || !okAbsorb {
		m.log.Warn("merge discarded: body missing", "keep", pm.Keep, "absorb", pm.Absorb)
		return MergeDiscarded
	}

	if err := m.apply(pm); err != nil {
		m.log.Warn("merge discarded", "error", err)
		return MergeDiscarded
	}
	m.applied++
	m.log.Info("merge applied", "keep", pm.Keep, "absorb", pm.Absorb,
		"velocity", pm.FinalVelocity, "mass", pm.TotalMass)
	return MergeApplied
}

func (m *Merger) apply(pm PendingMerge) error {
	if err := m.store.Remove(pm.Absorb); err != nil {
		return fmt.Errorf("remove %s: %w", pm.Absorb, err)
	}
	if err := m.store.SetMass(pm.Keep, pm.TotalMass); err != nil {
		return fmt.Errorf("set mass of %s: %w", pm.Keep, err)
	}
	if err := m.store.SetVelocity(pm.Keep, pm.FinalVelocity); err != nil {
		return fmt.Errorf("set velocity of %s: %w", pm.Keep, err)
	}
	return nil
}

// Reset clears any pending merge.
func (m *Merger) Reset() {
	m.pending = PendingMerge{}
	m.state = MergeIdle
}
