// Copyright ©2026 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shortchar

import "math"

// taylorCutoff is the upwind optical depth at or below which the integration
// weights are evaluated from their Taylor expansions. Above it the closed
// forms are used.
const taylorCutoff = 0.01

// linearCutoff is the ratio of the optical depths of adjacent segments below
// which the parabolic interpolation loses accuracy to cancellation.
const linearCutoff = 1e-6

// Taylor coefficients of w0/Δ, w1/Δ² and w2/Δ³ through Δ⁸.
var (
	taylorW0 = [...]float64{1, -1. / 2, 1. / 6, -1. / 24, 1. / 120, -1. / 720, 1. / 5040, -1. / 40320, 1. / 362880}
	taylorW1 = [...]float64{1. / 2, -1. / 3, 1. / 8, -1. / 30, 1. / 144, -1. / 840, 1. / 5760, -1. / 45360, 1. / 403200}
	taylorW2 = [...]float64{1. / 3, -1. / 4, 1. / 10, -1. / 36, 1. / 168, -1. / 960, 1. / 6480, -1. / 50400, 1. / 443520}
)

// expWeights returns the attenuation e^-Δ over a segment of optical depth Δ
// and the moments
//
//	w_k = ∫_0^Δ x^k e^-x dx,  k = 0, 1, 2.
func expWeights(dt float64) (ex, w0, w1, w2 float64) {
	ex = math.Exp(-dt)
	if dt <= taylorCutoff {
		w0 = dt * horner(taylorW0[:], dt)
		w1 = dt * dt * horner(taylorW1[:], dt)
		w2 = dt * dt * dt * horner(taylorW2[:], dt)
		return ex, w0, w1, w2
	}
	w0 = 1 - ex
	w1 = w0 - dt*ex
	w2 = 2*w1 - dt*dt*ex
	return ex, w0, w1, w2
}

func horner(c []float64, x float64) float64 {
	var v float64
	for i := len(c) - 1; i >= 0; i-- {
		v = v*x + c[i]
	}
	return v
}

// interpCoeffs returns the weights of the upwind, local and downwind source
// function values in the integral of the transfer equation over the upwind
// segment, with the source function interpolated by the parabola through the
// three points. dtu and dtd are the optical depths of the upwind and downwind
// segments.
//
// A segment without optical depth contributes nothing. When one of the two
// segments is negligible against the other, or the parabola cannot be
// represented, the interpolation is reduced to linear over the upwind segment.
func interpCoeffs(dtu, dtd, w0, w1, w2 float64) (psiu, psi0, psid float64) {
	if dtu == 0 {
		return 0, 0, 0
	}
	if dtd <= linearCutoff*dtu || dtu <= linearCutoff*dtd {
		return linearCoeffs(dtu, w0, w1)
	}
	sum := dtu + dtd
	psi0 = w0 + (w1*(dtu/dtd-dtd/dtu)-w2*(1/dtd+1/dtu))/sum
	psiu = (w2/dtu + w1*dtd/dtu) / sum
	psid = (w2/dtd - w1*dtu/dtd) / sum
	if math.IsNaN(psiu+psi0+psid) || math.IsInf(psiu+psi0+psid, 0) {
		// Subnormal depths overflow 1/dtd.
		return linearCoeffs(dtu, w0, w1)
	}
	return psiu, psi0, psid
}

func linearCoeffs(dtu, w0, w1 float64) (psiu, psi0, psid float64) {
	return w1 / dtu, w0 - w1/dtu, 0
}
