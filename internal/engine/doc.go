// Package engine adapts the Chipmunk2D rigid-body engine to the collision demo.
//
// The package owns everything the physics library needs and nothing more:
//
//   - [World]: a zero-gravity space holding box bodies keyed by [BodyID]
//   - [Runner]: advances a world by a fixed base tick scaled by a time factor
//   - step and collision events delivered to registered listeners
//
// Integration and collision resolution stay inside the library. Bodies
// are created with infinite moment of inertia and zero friction so they
// only translate along the track; the restitution of each box decides
// whether contacts bounce.
//
// # Locking
//
// Listeners registered with [World.OnCollisionStart] run while the
// underlying space is mid-step. Any mutation attempted from there
// ([World.Remove], [World.SetMass], [World.SetVelocity]) fails with
// [ErrWorldLocked]. Work that must change bodies in response to a
// contact is deferred to an [World.OnAfterStep] listener.
package engine
