// Copyright ©2017 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shortchar

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/floats"
)

// BiCGSTAB implements the BiConjugate Gradient STABilized iterative method with
// preconditioning for solving the scattering problem
//
//	(I - (1-ε)Λ) S = ε B + (1-ε) J0.
//
// The transfer operator Λ is not symmetric and every product with it costs one
// formal solution per direction. With the default preconditioner this is the
// Krylov counterpart of the Jacobi method.
//
// BiCGSTAB needs MatVec and PSolve operations.
type BiCGSTAB struct {
	first  bool
	resume int

	rho, rhoPrev float64
	alpha        float64
	omega        float64

	rt   []float64 // Shadow residual.
	p    []float64 // Search direction.
	v    []float64 // A*phat.
	t    []float64 // A*shat.
	phat []float64 // M^-1 p.
	s    []float64 // Intermediate residual.
	shat []float64 // M^-1 s.
}

// Init implements the Method interface.
func (b *BiCGSTAB) Init(dim int) {
	if dim <= 0 {
		panic("shortchar: dimension not positive")
	}
	for _, v := range []*[]float64{&b.rt, &b.p, &b.v, &b.t, &b.phat, &b.s, &b.shat} {
		*v = reuse(*v, dim)
	}
	b.first = true
	b.resume = 1
}

// Iterate implements the Method interface.
func (b *BiCGSTAB) Iterate(ctx *Context) (Operation, error) {
	switch b.resume {
	case 1:
		if b.first {
			copy(b.rt, ctx.Residual)
		}
		b.rho = floats.Dot(b.rt, ctx.Residual) // ρ_i = r~ · r_{i-1}
		if math.Abs(b.rho) < dlamchE*dlamchE {
			b.resume = 0
			return NoOperation, errors.New("shortchar: BiCGSTAB rho breakdown")
		}
		if b.first {
			copy(b.p, ctx.Residual)
		} else {
			beta := (b.rho / b.rhoPrev) * (b.alpha / b.omega)
			floats.AddScaled(b.p, -b.omega, b.v) // p = p - ω v
			floats.Scale(beta, b.p)              // p = β p
			floats.Add(b.p, ctx.Residual)        // p = r + p
		}
		ctx.Src = b.p
		ctx.Dst = b.phat
		b.resume = 2
		return PSolve, nil
		// Solve M p^ = p.
	case 2:
		ctx.Src = b.phat
		ctx.Dst = b.v
		b.resume = 3
		return MatVec, nil
		// v = A p^
	case 3:
		b.alpha = b.rho / floats.Dot(b.rt, b.v) // α = ρ_i / (r~ · v)
		floats.AddScaled(ctx.Residual, -b.alpha, b.v)
		copy(b.s, ctx.Residual) // s = r - α v
		ctx.Src = nil
		ctx.Dst = nil
		ctx.ResidualNorm = floats.Norm(b.s, 2)
		ctx.Converged = false
		b.resume = 4
		return CheckResidualNorm, nil
	case 4:
		if ctx.Converged {
			floats.AddScaled(ctx.S, b.alpha, b.phat)
			b.resume = 0
			return EndIteration, nil
		}
		ctx.Src = b.s
		ctx.Dst = b.shat
		b.resume = 5
		return PSolve, nil
		// Solve M s^ = s.
	case 5:
		ctx.Src = b.shat
		ctx.Dst = b.t
		b.resume = 6
		return MatVec, nil
		// t = A s^
	case 6:
		tt := floats.Dot(b.t, b.t)
		if tt == 0 {
			b.resume = 0
			return NoOperation, errors.New("shortchar: BiCGSTAB t breakdown")
		}
		// ω = (t · s) / (t · t)
		b.omega = floats.Dot(b.t, b.s) / tt
		// S = S + α p^ + ω s^, r = s - ω t
		floats.AddScaled(ctx.S, b.alpha, b.phat)
		floats.AddScaled(ctx.S, b.omega, b.shat)
		floats.AddScaled(ctx.Residual, -b.omega, b.t)
		ctx.Src = nil
		ctx.Dst = nil
		ctx.ResidualNorm = floats.Norm(ctx.Residual, 2)
		ctx.Converged = false
		b.resume = 7
		return CheckResidualNorm, nil
	case 7:
		if ctx.Converged {
			b.resume = 0
			return EndIteration, nil
		}
		if math.Abs(b.omega) < dlamchE*dlamchE {
			b.resume = 0
			return NoOperation, errors.New("shortchar: BiCGSTAB omega breakdown")
		}
		b.rhoPrev = b.rho
		b.first = false
		b.resume = 1
		return EndIteration, nil

	default:
		panic("shortchar: BiCGSTAB.Init not called")
	}
}
