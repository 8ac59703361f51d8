// Package integrators advances small ODE systems in fixed steps.
package integrators

import (
	"fmt"
	"sort"
)

// State is a flat state vector.
type State []float64

// System yields the time derivative of a state.
type System interface {
	Derive(x State, t float64) State
}

// Integrator advances x by dt.
type Integrator interface {
	Step(sys System, x State, t, dt float64) State
}

var registry = map[string]func() Integrator{
	"euler": func() Integrator { return NewEuler() },
	"rk4":   func() Integrator { return NewRK4() },
}

// Get returns a fresh integrator by name.
func Get(name string) (Integrator, error) {
	fn, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator %q (have %v)", name, Names())
	}
	return fn(), nil
}

// Names lists the registered integrators.
func Names() []string {
	out := make([]string, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
