// Copyright ©2026 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shortchar

import (
	"fmt"
	"math"
)

// LogGrid returns a depth grid for a semi-infinite slab. The first point is
// at zero, the first step is dtau1 and every following step is larger by the
// factor 10^(1/perDecade). Points are added until the depth reaches taumax.
func LogGrid(dtau1, taumax float64, perDecade int) ([]float64, error) {
	if !(dtau1 > 0) || math.IsInf(dtau1, 1) {
		return nil, fmt.Errorf("%w: first step %v", ErrInvalidInput, dtau1)
	}
	if !(taumax > 0) || math.IsInf(taumax, 1) {
		return nil, fmt.Errorf("%w: slab depth %v", ErrInvalidInput, taumax)
	}
	if perDecade <= 0 {
		return nil, fmt.Errorf("%w: %d points per decade", ErrInvalidInput, perDecade)
	}
	fac := math.Pow(10, 1/float64(perDecade))

	z := []float64{0}
	for dtau, t := dtau1, 0.0; t < taumax; dtau *= fac {
		t += dtau
		z = append(z, t)
	}
	return z, nil
}

// Eddington returns the exact solution of the two-stream problem in a
// semi-infinite slab with unit Planck function and no incident radiation,
//
//	S(τ) = 1 - (1-√ε) exp(-√(3ε) τ),
//
// evaluated at the optical depths tau. The result is stored in dst if it has
// enough capacity.
func Eddington(dst, tau []float64, eps float64) []float64 {
	dst = reuse(dst, len(tau))
	for i, t := range tau {
		dst[i] = 1 - (1-math.Sqrt(eps))*math.Exp(-math.Sqrt(3*eps)*t)
	}
	return dst
}

// SemiInfinite returns the benchmark problem of a semi-infinite slab with
// unit opacity and Planck function on LogGrid(dtau1, taumax, perDecade), in
// the two-stream approximation, with no radiation incident at the surface and
// thermal radiation B = 1 incident at the bottom.
func SemiInfinite(dtau1, taumax float64, perDecade int, eps float64) (*Problem, error) {
	z, err := LogGrid(dtau1, taumax, perDecade)
	if err != nil {
		return nil, err
	}
	n := len(z)
	chi := make([]float64, n)
	b := make([]float64, n)
	for i := range chi {
		chi[i] = 1
		b[i] = 1
	}
	p := &Problem{
		Medium:     Medium{Z: z, Chi: chi},
		Boundary:   Boundary{Upper: 0, Lower: 1},
		Directions: []Direction{TwoStream()},
		Eps:        eps,
		B:          b,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}
