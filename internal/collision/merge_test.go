package collision_test

import (
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/vizlab/internal/collision"
	"github.com/san-kum/vizlab/internal/engine"
	"github.com/san-kum/vizlab/internal/logging"
)

// memStore is an in-memory BodyStore that can simulate a locked engine.
type memStore struct {
	bodies map[engine.BodyID]engine.BodyState
	locked bool
}

func newMemStore(states ...engine.BodyState) *memStore {
	s := &memStore{bodies: make(map[engine.BodyID]engine.BodyState)}
	for _, st := range states {
		s.bodies[st.ID] = st
	}
	return s
}

func (s *memStore) Body(id engine.BodyID) (engine.BodyState, bool) {
	st, ok := s.bodies[id]
	return st, ok
}

func (s *memStore) Remove(id engine.BodyID) error {
	if s.locked {
		return engine.ErrWorldLocked
	}
	if _, ok := s.bodies[id]; !ok {
		return engine.ErrUnknownBody
	}
	delete(s.bodies, id)
	return nil
}

func (s *memStore) SetMass(id engine.BodyID, m float64) error {
	if s.locked {
		return engine.ErrWorldLocked
	}
	st := s.bodies[id]
	st.Mass = m
	s.bodies[id] = st
	return nil
}

func (s *memStore) SetVelocity(id engine.BodyID, v float64) error {
	st := s.bodies[id]
	st.Velocity = v
	s.bodies[id] = st
	return nil
}

var _ = Describe("ComputeMerge", func() {
	It("conserves momentum for positive mass pairs", func() {
		masses := []float64{0.1, 1, 2, 3.5, 10, 250}
		velocities := []float64{-7, -1, 0, 0.5, 3, 40}
		for _, ma := range masses {
			for _, mb := range masses {
				for _, va := range velocities {
					for _, vb := range velocities {
						pm, err := collision.ComputeMerge(
							engine.BodyState{ID: "A", Mass: ma, Velocity: va},
							engine.BodyState{ID: "B", Mass: mb, Velocity: vb},
						)
						Expect(err).NotTo(HaveOccurred())
						before := ma*va + mb*vb
						after := pm.TotalMass * pm.FinalVelocity
						Expect(after).To(BeNumerically("~", before, 1e-9*math.Max(1, math.Abs(before))))
						Expect(pm.TotalMass).To(Equal(ma + mb))
					}
				}
			}
		}
	})

	It("rejects NaN and zero total masses", func() {
		_, err := collision.ComputeMerge(
			engine.BodyState{Mass: math.NaN()},
			engine.BodyState{Mass: 1},
		)
		Expect(errors.Is(err, collision.ErrInvalidMerge)).To(BeTrue())

		_, err = collision.ComputeMerge(engine.BodyState{}, engine.BodyState{})
		Expect(err).To(MatchError(collision.ErrInvalidMerge))
	})
})

var _ = Describe("Merger", func() {
	var (
		store  *memStore
		merger *collision.Merger
	)

	BeforeEach(func() {
		store = newMemStore(
			engine.BodyState{ID: "A", Mass: 2, Velocity: 3},
			engine.BodyState{ID: "B", Mass: 1, Velocity: 0},
		)
		merger = collision.NewMerger(store, "A", "B", collision.Inelastic, logging.Discard())
	})

	It("starts idle", func() {
		Expect(merger.State()).To(Equal(collision.MergeIdle))
		_, ok := merger.Pending()
		Expect(ok).To(BeFalse())
		Expect(merger.OnStepComplete()).To(Equal(collision.NoMerge))
	})

	It("defers the merge to step completion", func() {
		store.locked = true
		Expect(merger.OnCollision(engine.CollisionEvent{A: "A", B: "B"})).To(BeTrue())
		Expect(merger.State()).To(Equal(collision.MergePending))
		Expect(store.bodies).To(HaveLen(2))

		pm, ok := merger.Pending()
		Expect(ok).To(BeTrue())
		Expect(pm.Keep).To(Equal(engine.BodyID("A")))
		Expect(pm.Absorb).To(Equal(engine.BodyID("B")))
		Expect(pm.FinalVelocity).To(BeNumerically("~", 2, 1e-12))
		Expect(pm.TotalMass).To(BeNumerically("~", 3, 1e-12))

		store.locked = false
		Expect(merger.OnStepComplete()).To(Equal(collision.MergeApplied))
		Expect(merger.State()).To(Equal(collision.MergeIdle))
		Expect(merger.Applied()).To(Equal(1))

		a, ok := store.Body("A")
		Expect(ok).To(BeTrue())
		Expect(a.Mass).To(BeNumerically("~", 3, 1e-12))
		Expect(a.Velocity).To(BeNumerically("~", 2, 1e-12))
		_, ok = store.Body("B")
		Expect(ok).To(BeFalse())
	})

	It("keeps the first body of the pair", func() {
		Expect(merger.OnCollision(engine.CollisionEvent{A: "B", B: "A"})).To(BeTrue())
		pm, _ := merger.Pending()
		Expect(pm.Keep).To(Equal(engine.BodyID("B")))
		Expect(pm.Absorb).To(Equal(engine.BodyID("A")))
	})

	It("holds at most one pending merge", func() {
		Expect(merger.OnCollision(engine.CollisionEvent{A: "A", B: "B"})).To(BeTrue())
		Expect(merger.OnCollision(engine.CollisionEvent{A: "B", B: "A"})).To(BeFalse())
		pm, _ := merger.Pending()
		Expect(pm.Keep).To(Equal(engine.BodyID("A")))
	})

	It("ignores the ground and untracked bodies", func() {
		Expect(merger.OnCollision(engine.CollisionEvent{A: "A", B: engine.GroundID})).To(BeFalse())
		Expect(merger.OnCollision(engine.CollisionEvent{A: "C", B: "B"})).To(BeFalse())
		Expect(merger.State()).To(Equal(collision.MergeIdle))
	})

	It("never merges in elastic mode", func() {
		elastic := collision.NewMerger(store, "A", "B", collision.Elastic, logging.Discard())
		Expect(elastic.OnCollision(engine.CollisionEvent{A: "A", B: "B"})).To(BeFalse())
		Expect(elastic.State()).To(Equal(collision.MergeIdle))
	})

	It("stays idle on invalid masses", func() {
		store.bodies["B"] = engine.BodyState{ID: "B", Mass: math.NaN()}
		Expect(merger.OnCollision(engine.CollisionEvent{A: "A", B: "B"})).To(BeFalse())
		Expect(merger.State()).To(Equal(collision.MergeIdle))
	})

	It("discards and clears when a body vanished before apply", func() {
		Expect(merger.OnCollision(engine.CollisionEvent{A: "A", B: "B"})).To(BeTrue())
		delete(store.bodies, "B")

		Expect(merger.OnStepComplete()).To(Equal(collision.MergeDiscarded))
		Expect(merger.State()).To(Equal(collision.MergeIdle))
		_, ok := merger.Pending()
		Expect(ok).To(BeFalse())
		Expect(merger.Applied()).To(BeZero())

		a, _ := store.Body("A")
		Expect(a.Mass).To(Equal(2.0))
	})

	It("discards when the store rejects the mutation", func() {
		Expect(merger.OnCollision(engine.CollisionEvent{A: "A", B: "B"})).To(BeTrue())
		store.locked = true
		Expect(merger.OnStepComplete()).To(Equal(collision.MergeDiscarded))
		Expect(merger.State()).To(Equal(collision.MergeIdle))
	})
})
