// Copyright ©2026 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shortchar

import "gonum.org/v1/gonum/floats"

// Lambda implements the Lambda (Picard) iteration
//
//	S_{i+1} = (1-ε) J[S_i] + ε B.
//
// It converges slowly when ε is small and serves as a baseline for the
// accelerated methods.
//
// Lambda needs the ComputeResidual operation.
type Lambda struct {
	resume int
}

// Init implements the Method interface.
func (l *Lambda) Init(dim int) {
	if dim <= 0 {
		panic("shortchar: dimension not positive")
	}
	l.resume = 1
}

// Iterate implements the Method interface.
func (l *Lambda) Iterate(ctx *Context) (Operation, error) {
	switch l.resume {
	case 1:
		l.resume = 2
		return ComputeResidual, nil
		// r = (1-ε) J[S] + ε B - S
	case 2:
		ctx.ResidualNorm = floats.Norm(ctx.Residual, 2)
		floats.Add(ctx.S, ctx.Residual) // S = (1-ε) J[S] + ε B
		l.resume = 1
		return EndIteration, nil

	default:
		panic("shortchar: Lambda.Init not called")
	}
}

// Jacobi implements accelerated Lambda iteration with the diagonal
// approximate operator (Olson, Auer & Buchler 1986):
//
//	S_{i+1} = S_i + (I - (1-ε)Λ*)^-1 ((1-ε) J[S_i] + ε B - S_i).
//
// All points are corrected simultaneously from the same formal solution.
//
// Jacobi needs ComputeResidual and PSolve operations.
type Jacobi struct {
	resume int
	ds     []float64
}

// Init implements the Method interface.
func (j *Jacobi) Init(dim int) {
	if dim <= 0 {
		panic("shortchar: dimension not positive")
	}
	j.ds = reuse(j.ds, dim)
	j.resume = 1
}

// Iterate implements the Method interface.
func (j *Jacobi) Iterate(ctx *Context) (Operation, error) {
	switch j.resume {
	case 1:
		j.resume = 2
		return ComputeResidual, nil
	case 2:
		ctx.ResidualNorm = floats.Norm(ctx.Residual, 2)
		ctx.Src = ctx.Residual
		ctx.Dst = j.ds
		j.resume = 3
		return PSolve, nil
		// Solve M δS = r.
	case 3:
		floats.Add(ctx.S, j.ds)
		ctx.Src = nil
		ctx.Dst = nil
		j.resume = 1
		return EndIteration, nil

	default:
		panic("shortchar: Jacobi.Init not called")
	}
}

// GaussSeidel implements the Gauss-Seidel and successive over-relaxation
// iterations of Trujillo Bueno & Fabiani Bendicho (1995). Each iteration is a
// single accelerated sweep that corrects the source function point by point
// as the outward rays reach it.
//
// The residual norm reported for GaussSeidel is the norm of the corrections
// (I - (1-ε)Λ*)^-1 r computed during the sweep.
//
// GaussSeidel needs the Accelerate operation.
type GaussSeidel struct {
	// Omega is the relaxation factor.
	// Omega == 1 gives Gauss-Seidel and
	// 1 < Omega < 2 over-relaxation.
	// If it is 0, it will be set to 1.
	Omega float64

	omega  float64
	resume int
}

// Init implements the Method interface.
func (g *GaussSeidel) Init(dim int) {
	if dim <= 0 {
		panic("shortchar: dimension not positive")
	}
	g.omega = g.Omega
	if g.omega == 0 {
		g.omega = 1
	}
	g.resume = 1
}

// Iterate implements the Method interface.
func (g *GaussSeidel) Iterate(ctx *Context) (Operation, error) {
	switch g.resume {
	case 1:
		ctx.Omega = g.omega
		g.resume = 2
		return Accelerate, nil
	case 2:
		g.resume = 1
		return EndIteration, nil

	default:
		panic("shortchar: GaussSeidel.Init not called")
	}
}
