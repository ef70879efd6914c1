// Copyright ©2017 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shortchar

import (
	"math"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/floats"
)

// GMRES implements the restarted Generalized Minimal RESidual method with left
// preconditioning for solving the scattering problem
//
//	(I - (1-ε)Λ) S = ε B + (1-ε) J0.
//
// Each inner iteration costs one formal solution per direction. One call to
// EndIteration is made per restart cycle.
//
// GMRES needs MatVec, PSolve and ComputeResidual operations.
type GMRES struct {
	// Restart is the restart parameter.
	// It must be 0 <= Restart <= dim.
	// If it is 0, it will be set to dim.
	Restart int

	resume int
	i      int // Inner iteration counter.
	k      int // Restart used in the current solve.

	s  []float64 // Right-hand side of the least-squares problem.
	w  []float64
	y  []float64
	av []float64

	v   []float64 // Krylov basis, column-major.
	ldv int
	h   []float64 // Upper Hessenberg matrix, column-major.
	ldh int

	givs []givens
}

type givens struct {
	c, s float64
}

// Init implements the Method interface.
func (g *GMRES) Init(dim int) {
	if dim <= 0 {
		panic("shortchar: dimension not positive")
	}
	g.k = g.Restart
	if g.k == 0 {
		g.k = dim
	}
	if g.k < 0 || dim < g.k {
		panic("shortchar: invalid GMRES.Restart")
	}

	g.s = reuse(g.s, g.k+1)
	g.w = reuse(g.w, dim)
	g.y = reuse(g.y, g.k)
	g.av = reuse(g.av, dim)

	g.ldv = dim
	g.v = reuse(g.v, g.ldv*(g.k+1))
	g.ldh = g.k + 1
	g.h = reuse(g.h, g.ldh*g.k)
	zero(g.h)
	if cap(g.givs) < g.k {
		g.givs = make([]givens, g.k)
	} else {
		g.givs = g.givs[:g.k]
	}

	g.resume = 1
}

// Iterate implements the Method interface.
func (g *GMRES) Iterate(ctx *Context) (Operation, error) {
	n := len(ctx.S)
	ldv := g.ldv
	switch g.resume {
	case 1:
		ctx.Src = ctx.Residual
		ctx.Dst = g.v[:n]
		g.resume = 2
		return PSolve, nil
		// Solve M V[:,0] = r.
	case 2:
		rnorm := floats.Norm(g.v[:n], 2)
		floats.Scale(1/rnorm, g.v[:n])
		zero(g.s)
		g.s[0] = rnorm
		g.i = 0
		fallthrough
	case 3:
		if g.i == g.k {
			ctx.Src = nil
			ctx.Dst = nil
			g.resume = 7
			return NoOperation, nil
		}
		ctx.Src = g.v[g.i*ldv : g.i*ldv+n]
		ctx.Dst = g.av
		g.resume = 4
		return MatVec, nil
		// av = A V[:,i]
	case 4:
		ctx.Src = g.av
		ctx.Dst = g.w
		g.resume = 5
		return PSolve, nil
		// Solve M w = av.
	case 5:
		i := g.i
		ldh := g.ldh

		// Orthogonalize w against V[:,0:i+1] (modified Gram-Schmidt)
		// and store the coefficients in H[:,i].
		for k := 0; k <= i; k++ {
			vk := g.v[k*ldv : k*ldv+n]
			hki := floats.Dot(vk, g.w)
			g.h[k+i*ldh] = hki
			floats.AddScaled(g.w, -hki, vk)
		}
		wnorm := floats.Norm(g.w, 2)
		hi := g.h[i*ldh : i*ldh+ldh]
		hi[i+1] = wnorm
		vip1 := g.v[(i+1)*ldv : (i+1)*ldv+n]
		copy(vip1, g.w)
		if wnorm != 0 {
			floats.Scale(1/wnorm, vip1)
		}

		// Reduce H[:,i] to upper triangular form with the rotations
		// found so far and a new one that zeroes H[i+1,i].
		for j := 0; j < i; j++ {
			hi[j], hi[j+1] = rotvec(hi[j], hi[j+1], g.givs[j])
		}
		g.givs[i] = drotg(hi[i], hi[i+1])
		hi[i], hi[i+1] = rotvec(hi[i], hi[i+1], g.givs[i])
		g.s[i], g.s[i+1] = rotvec(g.s[i], g.s[i+1], g.givs[i])

		// |s[i+1]| is the norm of the preconditioned residual.
		ctx.ResidualNorm = math.Abs(g.s[i+1])
		ctx.Src = nil
		ctx.Dst = nil
		ctx.Converged = false
		g.resume = 6
		return CheckResidualNorm, nil
	case 6:
		if ctx.Converged {
			g.update(ctx.S)
			g.resume = 0
			return EndIteration, nil
		}
		g.i++
		g.resume = 3
		return NoOperation, nil
	case 7:
		g.i--
		g.update(ctx.S)
		g.resume = 8
		return ComputeResidual, nil
	case 8:
		ctx.ResidualNorm = floats.Norm(ctx.Residual, 2)
		ctx.Converged = false
		g.resume = 9
		return CheckResidualNorm, nil
	case 9:
		if ctx.Converged {
			g.resume = 0
			return EndIteration, nil
		}
		g.resume = 1
		return EndIteration, nil

	default:
		panic("shortchar: GMRES.Init not called")
	}
}

// update adds V[:,0:i+1]*y to x, where y solves the triangular system
// H[0:i+1,0:i+1]*y = s[0:i+1].
func (g *GMRES) update(x []float64) {
	m := g.i + 1
	y := g.y[:m]
	copy(y, g.s[:m])
	// H is stored column-major, so its upper triangle is the lower
	// triangle of a row-major matrix and the solve uses its transpose.
	bi := blas64.Implementation()
	bi.Dtrsv(blas.Lower, blas.Trans, blas.NonUnit, m, g.h, g.ldh, y, 1)
	n := len(x)
	for j := 0; j < m; j++ {
		floats.AddScaled(x, y[j], g.v[j*g.ldv:j*g.ldv+n])
	}
}

func drotg(a, b float64) givens {
	if b == 0 {
		return givens{c: 1, s: 0}
	}
	if math.Abs(b) > math.Abs(a) {
		tmp := -a / b
		s := 1 / math.Sqrt(1+tmp*tmp)
		return givens{c: tmp * s, s: s}
	}
	tmp := -b / a
	c := 1 / math.Sqrt(1+tmp*tmp)
	return givens{c: c, s: tmp * c}
}

func rotvec(x, y float64, g givens) (rx, ry float64) {
	rx = g.c*x - g.s*y
	ry = g.s*x + g.c*y
	return
}
