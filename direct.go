// Copyright ©2026 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shortchar

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Operator returns the dense matrix I - (1-ε)Λ of p, where column k of Λ is
// the mean intensity produced by a unit source function at point k and no
// incident radiation. Assembling it costs one formal solution per grid point
// and direction.
func (p *Problem) Operator() (*mat.Dense, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p.operator(), nil
}

func (p *Problem) operator() *mat.Dense {
	n := p.Len()
	a := mat.NewDense(n, n, nil)
	unit := make([]float64, n)
	var col []float64
	for k := 0; k < n; k++ {
		unit[k] = 1
		col = p.jbar(col, unit, Boundary{}, Intensity)
		unit[k] = 0
		for l, v := range col {
			v *= -(1 - p.Eps)
			if l == k {
				v++
			}
			a.Set(l, k, v)
		}
	}
	return a
}

// DirectSolve solves the scattering problem p by LU factorization of its
// dense operator,
//
//	S = (I - (1-ε)Λ)^-1 (ε B + (1-ε) J0),
//
// where J0 is the mean intensity produced by the boundary conditions alone.
// It is the reference against which the iterative methods can be checked and
// is practical only for small grids.
func DirectSolve(p *Problem) ([]float64, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	n := p.Len()
	a := p.operator()

	rhs := p.jbar(nil, make([]float64, n), p.Boundary, Intensity)
	for i := range rhs {
		rhs[i] = p.Eps*p.B[i] + (1-p.Eps)*rhs[i]
	}

	var s mat.VecDense
	err := s.SolveVec(a, mat.NewVecDense(n, rhs))
	if err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) {
			return nil, fmt.Errorf("shortchar: direct solve: %w", err)
		}
		// An ill-conditioned operator still yields the LU solution.
	}
	return mat.Col(nil, 0, &s), nil
}
