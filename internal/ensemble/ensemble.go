// Package ensemble holds particle phase-space collections in the openPMD
// column layout: one slice per coordinate, index-aligned across columns.
package ensemble

import "fmt"

// ParticleGroup is a structured collection of particle phase-space
// coordinates. All populated columns must have the same length.
//
// Positions are in meters, momenta in eV/c, time in seconds. Weight is the
// per-particle macroparticle charge; Status flags alive (1) vs lost
// particles, matching the openPMD-beamphysics convention.
type ParticleGroup struct {
	X  []float64
	Px []float64
	Y  []float64
	Py []float64
	Z  []float64
	Pz []float64

	T      []float64
	Weight []float64
	Status []int64

	Species string
}

// phaseSpaceColumns are required on every ensemble.
var phaseSpaceColumns = []string{"x", "px", "y", "py", "z", "pz"}

// FromColumns builds a ParticleGroup from named coordinate columns.
// The six phase-space columns are required; t, weight, and status are
// optional and default to zeros / all-alive. Unknown column names and
// length mismatches are rejected.
func FromColumns(cols map[string][]float64, species string) (*ParticleGroup, error) {
	for name := range cols {
		switch name {
		case "x", "px", "y", "py", "z", "pz", "t", "weight":
		default:
			return nil, fmt.Errorf("unknown particle column %q", name)
		}
	}
	for _, name := range phaseSpaceColumns {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("missing particle column %q", name)
		}
	}

	n := len(cols["x"])
	g := &ParticleGroup{
		X:       cols["x"],
		Px:      cols["px"],
		Y:       cols["y"],
		Py:      cols["py"],
		Z:       cols["z"],
		Pz:      cols["pz"],
		T:       cols["t"],
		Weight:  cols["weight"],
		Species: species,
	}
	if g.T == nil {
		g.T = make([]float64, n)
	}
	if g.Weight == nil {
		g.Weight = make([]float64, n)
	}
	g.Status = make([]int64, n)
	for i := range g.Status {
		g.Status[i] = 1
	}

	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// Len returns the number of particles.
func (g *ParticleGroup) Len() int { return len(g.X) }

// Validate checks that the ensemble is non-empty and that every column
// has the same length.
func (g *ParticleGroup) Validate() error {
	n := len(g.X)
	if n == 0 {
		return fmt.Errorf("particle ensemble is empty")
	}
	cols := map[string]int{
		"px":     len(g.Px),
		"y":      len(g.Y),
		"py":     len(g.Py),
		"z":      len(g.Z),
		"pz":     len(g.Pz),
		"t":      len(g.T),
		"weight": len(g.Weight),
		"status": len(g.Status),
	}
	for name, l := range cols {
		if l != n {
			return fmt.Errorf("particle column %q has length %d, want %d", name, l, n)
		}
	}
	return nil
}

// Columns returns the float64 columns in a fixed order, keyed by their
// openPMD names. Status is excluded (integer typed).
func (g *ParticleGroup) Columns() map[string][]float64 {
	return map[string][]float64{
		"x":      g.X,
		"px":     g.Px,
		"y":      g.Y,
		"py":     g.Py,
		"z":      g.Z,
		"pz":     g.Pz,
		"t":      g.T,
		"weight": g.Weight,
	}
}
