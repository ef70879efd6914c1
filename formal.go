// Copyright ©2026 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shortchar

import "math"

// Output selects what Sweep accumulates.
type Output int

const (
	// Intensity makes Sweep accumulate the
	// mean intensity J.
	Intensity Output = iota

	// Diagonal makes Sweep accumulate the
	// diagonal Λ* of the transfer operator.
	// Boundary values are ignored.
	Diagonal
)

// pass is one traversal of the grid, from index k0 to index k1 in steps of
// kdel, entering the slab with incident radiation bc.
type pass struct {
	k0, k1, kdel int
	bc           float64
}

// passes returns the inward pass that enters at Z[0] followed by the outward
// pass that enters at Z[n-1].
func passes(n int, bc Boundary) [2]pass {
	return [2]pass{
		{k0: 0, k1: n - 1, kdel: 1, bc: bc.Upper},
		{k0: n - 1, k1: 0, kdel: -1, bc: bc.Lower},
	}
}

// stencil holds the short characteristic that ends at a grid point.
type stencil struct {
	exu              float64
	psiu, psi0, psid float64
	su, s0, sd       float64
}

// stencil returns the characteristic of pass pa ending at point k, for rays
// with direction cosine of magnitude mu. At the exit point of the pass the
// downwind point does not exist and the source function is extrapolated
// linearly over a copy of the upwind segment.
func (m Medium) stencil(s []float64, pa pass, k int, mu float64) stencil {
	ku := k - pa.kdel
	du := math.Abs(m.Z[k]-m.Z[ku]) / mu
	chiu, chi0 := m.Chi[ku], m.Chi[k]
	su, s0 := s[ku], s[k]

	var dd, chid, sd float64
	if k == pa.k1 {
		dd, chid, sd = du, chiu, 2*s0-su
	} else {
		kd := k + pa.kdel
		dd = math.Abs(m.Z[kd]-m.Z[k]) / mu
		chid, sd = m.Chi[kd], s[kd]
	}

	dtu := 0.5 * (chiu + chi0) * du
	dtd := 0.5 * (chid + chi0) * dd
	ex, w0, w1, w2 := expWeights(dtu)
	psiu, psi0, psid := interpCoeffs(dtu, dtd, w0, w1, w2)
	return stencil{exu: ex, psiu: psiu, psi0: psi0, psid: psid, su: su, s0: s0, sd: sd}
}

// propagate returns the specific intensity at the end of the characteristic
// given the intensity x at its upwind end.
func (st stencil) propagate(x float64) float64 {
	return x*st.exu + st.psiu*st.su + st.psi0*st.s0 + st.psid*st.sd
}

// Sweep integrates the transfer equation along the rays ±dir.Mu through the
// medium m with source function s and incident radiation bc, and returns the
// weighted contribution of both rays to the mean intensity (out == Intensity)
// or to the diagonal of the transfer operator (out == Diagonal).
//
// The result is stored in dst if it has enough capacity, otherwise a new slice
// is allocated. dst is zeroed before accumulation. In Diagonal mode s is not
// read and may be nil.
func Sweep(dst []float64, m Medium, bc Boundary, s []float64, dir Direction, out Output) ([]float64, error) {
	if err := m.validate(); err != nil {
		return nil, err
	}
	if err := dir.validate(); err != nil {
		return nil, err
	}
	n := m.Len()
	if out == Diagonal && s == nil {
		s = make([]float64, n)
	}
	if err := checkLen("source function", s, n); err != nil {
		return nil, err
	}
	dst = reuse(dst, n)
	zero(dst)
	sweep(dst, m, bc, s, dir, out)
	return dst, nil
}

// sweep adds the contribution of the rays ±dir.Mu to jbar.
func sweep(jbar []float64, m Medium, bc Boundary, s []float64, dir Direction, out Output) {
	mu := math.Abs(dir.Mu)
	for _, pa := range passes(m.Len(), bc) {
		x := pa.bc
		if out == Diagonal {
			x = 0
		}
		jbar[pa.k0] += dir.Weight * x
		for k := pa.k0 + pa.kdel; k != pa.k1+pa.kdel; k += pa.kdel {
			st := m.stencil(s, pa, k, mu)
			if out == Diagonal {
				x = st.psi0
			} else {
				x = st.propagate(x)
			}
			jbar[k] += dir.Weight * x
		}
	}
}

// MeanIntensity returns the mean intensity produced in p by the source
// function s, integrated over all directions of p. The result is stored in
// dst if it has enough capacity.
func (p *Problem) MeanIntensity(dst, s []float64) ([]float64, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := checkLen("source function", s, p.Len()); err != nil {
		return nil, err
	}
	return p.jbar(dst, s, p.Boundary, Intensity), nil
}

// LStar returns the approximate lambda operator of p, the diagonal of the
// transfer operator integrated over all directions. The result is stored in
// dst if it has enough capacity.
func (p *Problem) LStar(dst []float64) ([]float64, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p.jbar(dst, make([]float64, p.Len()), Boundary{}, Diagonal), nil
}

// jbar sums sweep over the directions of p. p must be valid.
func (p *Problem) jbar(dst, s []float64, bc Boundary, out Output) []float64 {
	dst = reuse(dst, p.Len())
	zero(dst)
	for _, d := range p.Directions {
		sweep(dst, p.Medium, bc, s, d, out)
	}
	return dst
}
