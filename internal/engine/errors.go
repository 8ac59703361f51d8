package engine

import "errors"

// Domain errors for world operations.
var (
	// ErrWorldLocked indicates a mutation attempted while a step is in progress.
	ErrWorldLocked = errors.New("engine: world is locked during step")

	// ErrWorldClosed indicates use of a world after Close.
	ErrWorldClosed = errors.New("engine: world is closed")

	// ErrUnknownBody indicates an id that is not present in the world.
	ErrUnknownBody = errors.New("engine: unknown body")

	// ErrDuplicateBody indicates an id that is already present in the world.
	ErrDuplicateBody = errors.New("engine: duplicate body id")

	// ErrInvalidMass indicates a mass that is not a positive finite number.
	ErrInvalidMass = errors.New("engine: mass must be positive and finite")

	// ErrInvalidStep indicates a non-positive or non-finite timestep.
	ErrInvalidStep = errors.New("engine: timestep must be positive and finite")
)

// BodyError wraps an error with the id of the body involved.
type BodyError struct {
	ID      BodyID
	Wrapped error
}

func (e *BodyError) Error() string {
	return e.Wrapped.Error() + ": " + string(e.ID)
}

func (e *BodyError) Unwrap() error {
	return e.Wrapped
}
