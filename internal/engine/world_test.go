package engine

import (
	"context"
	"errors"
	"math"
	"testing"

	. "github.com/onsi/gomega"
)

func headOn(t *testing.T, restitution float64) *World {
	t.Helper()
	w := NewWorld(DefaultWorldConfig())
	if err := w.AddBox(BoxSpec{ID: "A", Mass: 1, Velocity: 5, Position: 2.5, Size: 0.4, Restitution: restitution}); err != nil {
		t.Fatalf("add A: %v", err)
	}
	if err := w.AddBox(BoxSpec{ID: "B", Mass: 1, Velocity: -5, Position: 7.5, Size: 0.4, Restitution: restitution}); err != nil {
		t.Fatalf("add B: %v", err)
	}
	return w
}

func stepN(t *testing.T, w *World, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		if err := w.Step(DefaultTick); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
}

func TestWorld_ElasticSwap(t *testing.T) {
	g := NewWithT(t)
	w := headOn(t, 1)
	defer w.Close()

	stepN(t, w, 60)

	a, _ := w.Body("A")
	b, _ := w.Body("B")
	g.Expect(a.Velocity).To(BeNumerically("~", -5, 0.05))
	g.Expect(b.Velocity).To(BeNumerically("~", 5, 0.05))

	p := a.Mass*a.Velocity + b.Mass*b.Velocity
	g.Expect(p).To(BeNumerically("~", 0, 1e-6))

	ke := 0.5*a.Mass*a.Velocity*a.Velocity + 0.5*b.Mass*b.Velocity*b.Velocity
	g.Expect(ke).To(BeNumerically("~", 25, 0.5))
}

func TestWorld_CollisionEventsOnlyForBoxes(t *testing.T) {
	w := headOn(t, 1)
	defer w.Close()

	var events []CollisionEvent
	w.OnCollisionStart(func(ev CollisionEvent) { events = append(events, ev) })
	stepN(t, w, 60)

	if len(events) != 1 {
		t.Fatalf("expected 1 collision event, got %d", len(events))
	}
	ids := map[BodyID]bool{events[0].A: true, events[0].B: true}
	if !ids["A"] || !ids["B"] {
		t.Errorf("unexpected pair %v", events[0])
	}
}

func TestWorld_LockedDuringCollision(t *testing.T) {
	w := headOn(t, 0)
	defer w.Close()

	var removeErr, massErr error
	w.OnCollisionStart(func(ev CollisionEvent) {
		removeErr = w.Remove(ev.B)
		massErr = w.SetMass(ev.A, 2)
	})
	stepN(t, w, 60)

	if !errors.Is(removeErr, ErrWorldLocked) {
		t.Errorf("expected ErrWorldLocked from Remove, got %v", removeErr)
	}
	if !errors.Is(massErr, ErrWorldLocked) {
		t.Errorf("expected ErrWorldLocked from SetMass, got %v", massErr)
	}
	if w.Len() != 2 {
		t.Errorf("bodies must survive a rejected removal, got %d", w.Len())
	}
}

func TestWorld_StepEventOrder(t *testing.T) {
	w := headOn(t, 1)
	defer w.Close()

	var order []string
	w.OnBeforeStep(func(ev StepEvent) { order = append(order, "before") })
	w.OnAfterStep(func(ev StepEvent) { order = append(order, "after1") })
	w.OnAfterStep(func(ev StepEvent) {
		order = append(order, "after2")
		if w.Locked() {
			t.Error("world must be unlocked in after-step listeners")
		}
	})
	stepN(t, w, 1)

	want := []string{"before", "after1", "after2"}
	if len(order) != len(want) {
		t.Fatalf("got %v", order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %s, want %s", i, order[i], want[i])
		}
	}
	if math.Abs(w.Time()-DefaultTick) > 1e-12 {
		t.Errorf("time = %f", w.Time())
	}
}

func TestWorld_Mutations(t *testing.T) {
	g := NewWithT(t)
	w := headOn(t, 1)

	g.Expect(w.SetMass("A", 3)).To(Succeed())
	g.Expect(w.SetVelocity("A", 2)).To(Succeed())
	a, ok := w.Body("A")
	g.Expect(ok).To(BeTrue())
	g.Expect(a.Mass).To(BeNumerically("~", 3, 1e-12))
	g.Expect(a.Velocity).To(BeNumerically("~", 2, 1e-12))

	g.Expect(w.SetMass("A", 0)).To(MatchError(ErrInvalidMass))
	g.Expect(w.SetMass("A", math.NaN())).To(MatchError(ErrInvalidMass))
	g.Expect(w.Remove("nope")).To(MatchError(ErrUnknownBody))
	g.Expect(w.AddBox(BoxSpec{ID: "A", Mass: 1})).To(MatchError(ErrDuplicateBody))

	g.Expect(w.Remove("B")).To(Succeed())
	g.Expect(w.Has("B")).To(BeFalse())
	g.Expect(w.Bodies()).To(HaveLen(1))

	w.Close()
	g.Expect(w.Closed()).To(BeTrue())
	g.Expect(w.Len()).To(BeZero())
	g.Expect(w.Step(DefaultTick)).To(MatchError(ErrWorldClosed))
	w.Close()
}

func TestRunner_PauseAndScale(t *testing.T) {
	g := NewWithT(t)
	w := headOn(t, 1)
	defer w.Close()
	r := NewRunner(w, 0)

	g.Expect(r.Paused()).To(BeTrue())
	moved, err := r.Advance()
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(moved).To(BeFalse())
	g.Expect(w.Time()).To(BeZero())

	r.Start()
	g.Expect(r.SetTimeScale(2)).To(Equal(2.0))
	moved, err = r.Advance()
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(moved).To(BeTrue())
	g.Expect(w.Time()).To(BeNumerically("~", 2*DefaultTick, 1e-12))

	g.Expect(r.SetTimeScale(100)).To(Equal(MaxTimeScale))
	g.Expect(r.SetTimeScale(0)).To(Equal(MinTimeScale))
	g.Expect(ClampTimeScale(math.NaN())).To(Equal(1.0))

	r.Stop()
	_, err = r.Advance()
	g.Expect(err).To(MatchError(ErrWorldClosed))
}

func TestRunner_RunFor(t *testing.T) {
	w := headOn(t, 1)
	defer w.Close()
	r := NewRunner(w, 0.01)

	steps, err := r.RunFor(context.Background(), 1.0)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if steps != 100 {
		t.Errorf("expected 100 steps, got %d", steps)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := r.RunFor(ctx, 2.0); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if _, err := r.RunFor(context.Background(), 0); err == nil {
		t.Error("expected error for zero duration")
	}
}
