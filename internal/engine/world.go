package engine

import (
	"math"
	"sort"

	"github.com/jakecoffman/cp"
)

// BodyID is the stable identifier of a body inside a World.
type BodyID string

// GroundID identifies the static track in collision events.
const GroundID BodyID = "ground"

const (
	boxCollision    cp.CollisionType = 1
	groundCollision cp.CollisionType = 2

	// gap between the track surface and the bottom of each box
	groundGap = 0.25
)

// BodyState is a read-only snapshot of a body along the track axis.
type BodyState struct {
	ID       BodyID
	Mass     float64
	Velocity float64
	Position float64
	Size     float64
}

// BoxSpec describes a box to add to a World.
type BoxSpec struct {
	ID          BodyID
	Mass        float64
	Velocity    float64
	Position    float64
	Size        float64
	Restitution float64
}

// WorldConfig sets the geometry of the track.
type WorldConfig struct {
	TrackLength float64
}

// DefaultWorldConfig returns a 10 m track.
func DefaultWorldConfig() WorldConfig {
	return WorldConfig{TrackLength: 10}
}

// StepEvent is delivered before and after every step.
type StepEvent struct {
	Time float64
	Dt   float64
}

// CollisionEvent is delivered when two shapes first touch.
type CollisionEvent struct {
	A, B BodyID
	Time float64
}

type box struct {
	body  *cp.Body
	shape *cp.Shape
	size  float64
}

// World is a zero-gravity space of boxes on a straight track.
// Not safe for concurrent use.
type World struct {
	cfg    WorldConfig
	space  *cp.Space
	ground *cp.Shape
	bodies map[BodyID]*box

	time     float64
	stepping bool
	closed   bool

	beforeStep []func(StepEvent)
	afterStep  []func(StepEvent)
	collision  []func(CollisionEvent)
}

// NewWorld creates an empty world with a static ground segment.
func NewWorld(cfg WorldConfig) *World {
	if cfg.TrackLength <= 0 {
		cfg = DefaultWorldConfig()
	}

	space := cp.NewSpace()
	space.SetGravity(cp.Vector{})

	ground := cp.NewSegment(space.StaticBody, cp.Vector{X: 0, Y: 0}, cp.Vector{X: cfg.TrackLength, Y: 0}, 0)
	ground.SetFriction(0)
	ground.SetElasticity(1)
	ground.SetCollisionType(groundCollision)
	space.AddShape(ground)

	w := &World{
		cfg:    cfg,
		space:  space,
		ground: ground,
		bodies: make(map[BodyID]*box),
	}

	boxes := space.NewCollisionHandler(boxCollision, boxCollision)
	boxes.BeginFunc = w.onBegin
	floor := space.NewCollisionHandler(boxCollision, groundCollision)
	floor.BeginFunc = w.onBegin

	return w
}

func (w *World) onBegin(arb *cp.Arbiter, _ *cp.Space, _ interface{}) bool {
	a, b := arb.Bodies()
	ev := CollisionEvent{A: bodyID(a), B: bodyID(b), Time: w.time}
	for _, fn := range w.collision {
		fn(ev)
	}
	return true
}

func bodyID(b *cp.Body) BodyID {
	if id, ok := b.UserData.(BodyID); ok {
		return id
	}
	return GroundID
}

// Config returns the track geometry.
func (w *World) Config() WorldConfig { return w.cfg }

// AddBox inserts a dynamic box resting above the track.
func (w *World) AddBox(spec BoxSpec) error {
	if err := w.mutable(); err != nil {
		return err
	}
	if _, ok := w.bodies[spec.ID]; ok || spec.ID == GroundID {
		return &BodyError{ID: spec.ID, Wrapped: ErrDuplicateBody}
	}
	if !validMass(spec.Mass) {
		return &BodyError{ID: spec.ID, Wrapped: ErrInvalidMass}
	}
	size := spec.Size
	if size <= 0 {
		size = 0.4
	}

	body := cp.NewBody(spec.Mass, cp.INFINITY)
	body.UserData = spec.ID
	body.SetPosition(cp.Vector{X: spec.Position, Y: groundGap + size/2})
	w.space.AddBody(body)
	body.SetVelocity(spec.Velocity, 0)

	shape := cp.NewBox(body, size, size, 0)
	shape.SetElasticity(spec.Restitution)
	shape.SetFriction(0)
	shape.SetCollisionType(boxCollision)
	w.space.AddShape(shape)

	w.bodies[spec.ID] = &box{body: body, shape: shape, size: size}
	return nil
}

// Body returns the current state of id.
func (w *World) Body(id BodyID) (BodyState, bool) {
	b, ok := w.bodies[id]
	if !ok {
		return BodyState{}, false
	}
	return snapshot(id, b), true
}

func snapshot(id BodyID, b *box) BodyState {
	return BodyState{
		ID:       id,
		Mass:     b.body.Mass(),
		Velocity: b.body.Velocity().X,
		Position: b.body.Position().X,
		Size:     b.size,
	}
}

// Has reports whether id is present.
func (w *World) Has(id BodyID) bool {
	_, ok := w.bodies[id]
	return ok
}

// Bodies returns all present bodies ordered by id.
func (w *World) Bodies() []BodyState {
	out := make([]BodyState, 0, len(w.bodies))
	for id, b := range w.bodies {
		out = append(out, snapshot(id, b))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Len returns the number of present bodies.
func (w *World) Len() int { return len(w.bodies) }

// Remove takes id out of the space.
func (w *World) Remove(id BodyID) error {
	if err := w.mutable(); err != nil {
		return err
	}
	b, ok := w.bodies[id]
	if !ok {
		return &BodyError{ID: id, Wrapped: ErrUnknownBody}
	}
	w.space.RemoveShape(b.shape)
	w.space.RemoveBody(b.body)
	delete(w.bodies, id)
	return nil
}

// SetMass replaces the mass of id.
func (w *World) SetMass(id BodyID, mass float64) error {
	if err := w.mutable(); err != nil {
		return err
	}
	b, ok := w.bodies[id]
	if !ok {
		return &BodyError{ID: id, Wrapped: ErrUnknownBody}
	}
	if !validMass(mass) {
		return &BodyError{ID: id, Wrapped: ErrInvalidMass}
	}
	b.body.SetMass(mass)
	return nil
}

// SetVelocity replaces the track-axis velocity of id.
func (w *World) SetVelocity(id BodyID, v float64) error {
	if err := w.mutable(); err != nil {
		return err
	}
	b, ok := w.bodies[id]
	if !ok {
		return &BodyError{ID: id, Wrapped: ErrUnknownBody}
	}
	b.body.SetVelocity(v, 0)
	return nil
}

// Step advances the space by dt seconds and fires step events.
// Listeners run in registration order.
func (w *World) Step(dt float64) error {
	if w.closed {
		return ErrWorldClosed
	}
	if w.stepping {
		return ErrWorldLocked
	}
	if dt <= 0 || math.IsNaN(dt) || math.IsInf(dt, 0) {
		return ErrInvalidStep
	}

	for _, fn := range w.beforeStep {
		fn(StepEvent{Time: w.time, Dt: dt})
	}

	w.stepping = true
	w.space.Step(dt)
	w.stepping = false
	w.time += dt

	for _, fn := range w.afterStep {
		fn(StepEvent{Time: w.time, Dt: dt})
	}
	return nil
}

// Time returns the simulated time in seconds.
func (w *World) Time() float64 { return w.time }

// Locked reports whether a step is in progress.
func (w *World) Locked() bool { return w.stepping }

func (w *World) OnBeforeStep(fn func(StepEvent))          { w.beforeStep = append(w.beforeStep, fn) }
func (w *World) OnAfterStep(fn func(StepEvent))           { w.afterStep = append(w.afterStep, fn) }
func (w *World) OnCollisionStart(fn func(CollisionEvent)) { w.collision = append(w.collision, fn) }

// ClearListeners detaches every registered listener.
func (w *World) ClearListeners() {
	w.beforeStep = nil
	w.afterStep = nil
	w.collision = nil
}

// Close detaches listeners and removes every shape and body from the space.
// Calling Close more than once is a no-op.
func (w *World) Close() {
	if w.closed {
		return
	}
	w.ClearListeners()
	for id, b := range w.bodies {
		w.space.RemoveShape(b.shape)
		w.space.RemoveBody(b.body)
		delete(w.bodies, id)
	}
	if w.ground != nil {
		w.space.RemoveShape(w.ground)
		w.ground = nil
	}
	w.closed = true
}

// Closed reports whether Close has been called.
func (w *World) Closed() bool { return w.closed }

func (w *World) mutable() error {
	if w.closed {
		return ErrWorldClosed
	}
	if w.stepping {
		return ErrWorldLocked
	}
	return nil
}

func validMass(m float64) bool {
	return m > 0 && !math.IsNaN(m) && !math.IsInf(m, 0)
}
