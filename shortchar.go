// Copyright ©2026 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package shortchar solves the 1D plane-parallel radiative transfer equation
// with the short-characteristics method and provides iterative methods for the
// two-level-atom scattering problem
//
//	S = (1-ε) J[S] + ε B,
//
// where J[S] is the mean intensity produced by the source function S, ε is the
// destruction probability and B is the Planck function.
//
// The formal solver (Sweep) integrates the transfer equation along a pair of
// rays ±μ with a parabolic approximation of the source function between grid
// points. The iterative methods (Lambda, Jacobi, GaussSeidel, BiCGSTAB, GMRES)
// are driven by Solve through a reverse-communication interface in which the
// caller performs formal solutions on request.
package shortchar

import (
	"fmt"
	"math"
)

// Medium is a slab sampled on a spatial grid.
type Medium struct {
	// Z holds the depth of each grid point.
	// It must be strictly increasing and
	// contain at least two points.
	Z []float64

	// Chi holds the absorption coefficient
	// at each point of Z. Entries must be
	// non-negative.
	Chi []float64
}

// Len returns the number of grid points.
func (m Medium) Len() int { return len(m.Z) }

func (m Medium) validate() error {
	n := len(m.Z)
	if n < 2 {
		return fmt.Errorf("%w: grid has %d points, need at least 2", ErrInvalidInput, n)
	}
	if len(m.Chi) != n {
		return fmt.Errorf("%w: opacity has %d points, grid has %d", ErrInvalidInput, len(m.Chi), n)
	}
	for i, z := range m.Z {
		if math.IsNaN(z) || math.IsInf(z, 0) {
			return fmt.Errorf("%w: grid point %d is %v", ErrInvalidInput, i, z)
		}
		if i > 0 && z <= m.Z[i-1] {
			return fmt.Errorf("%w: grid not strictly increasing at point %d", ErrInvalidInput, i)
		}
	}
	for i, c := range m.Chi {
		if !(c >= 0) || math.IsInf(c, 1) {
			return fmt.Errorf("%w: opacity at point %d is %v", ErrInvalidInput, i, c)
		}
	}
	return nil
}

// Boundary holds the radiation incident on the slab from outside.
type Boundary struct {
	Upper float64 // Incident at Z[0].
	Lower float64 // Incident at Z[len(Z)-1].
}

// Direction is one node of the angular quadrature. Each Direction stands for
// the pair of rays with direction cosines +|Mu| and -|Mu|, and Weight is
// applied to both of them.
type Direction struct {
	Mu     float64
	Weight float64
}

// TwoStream returns the single direction of the two-stream (Eddington)
// approximation, μ = 1/√3 with weight 1/2.
func TwoStream() Direction {
	return Direction{Mu: 1 / math.Sqrt(3), Weight: 0.5}
}

func (d Direction) validate() error {
	if d.Mu == 0 || math.IsNaN(d.Mu) || math.IsInf(d.Mu, 0) {
		return fmt.Errorf("%w: direction cosine is %v", ErrInvalidInput, d.Mu)
	}
	if !(d.Weight >= 0) || math.IsInf(d.Weight, 1) {
		return fmt.Errorf("%w: quadrature weight is %v", ErrInvalidInput, d.Weight)
	}
	return nil
}

// Problem describes a scattering problem in a slab.
type Problem struct {
	Medium
	Boundary Boundary

	// Directions is the angular quadrature.
	// It must not be empty.
	Directions []Direction

	// Eps is the destruction probability.
	// It must satisfy 0 <= Eps <= 1.
	Eps float64

	// B is the Planck function at each
	// grid point.
	B []float64
}

// Validate reports whether p describes a well-formed problem. The returned
// error wraps ErrInvalidInput.
func (p *Problem) Validate() error {
	if err := p.Medium.validate(); err != nil {
		return err
	}
	if len(p.Directions) == 0 {
		return fmt.Errorf("%w: no directions", ErrInvalidInput)
	}
	for _, d := range p.Directions {
		if err := d.validate(); err != nil {
			return err
		}
	}
	if !(0 <= p.Eps && p.Eps <= 1) {
		return fmt.Errorf("%w: destruction probability %v outside [0,1]", ErrInvalidInput, p.Eps)
	}
	if len(p.B) != p.Len() {
		return fmt.Errorf("%w: Planck function has %d points, grid has %d", ErrInvalidInput, len(p.B), p.Len())
	}
	return nil
}

func checkLen(name string, v []float64, n int) error {
	if len(v) != n {
		return fmt.Errorf("%w: %s has %d points, grid has %d", ErrInvalidInput, name, len(v), n)
	}
	return nil
}

func reuse(v []float64, n int) []float64 {
	if cap(v) < n {
		return make([]float64, n)
	}
	return v[:n]
}

func zero(v []float64) {
	for i := range v {
		v[i] = 0
	}
}
