// Copyright ©2026 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shortchar

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
)

// benchmark returns the semi-infinite slab problem on the standard grid
// together with its Eddington solution.
func benchmark(t *testing.T, eps float64) (*Problem, []float64) {
	t.Helper()
	p, err := SemiInfinite(1e-2, 1e4, 5, eps)
	require.NoError(t, err)
	return p, Eddington(nil, p.Z, eps)
}

func constant(n int, v float64) []float64 {
	x := make([]float64, n)
	for i := range x {
		x[i] = v
	}
	return x
}

func TestSweepConstantSource(t *testing.T) {
	p, _ := benchmark(t, 1)
	n := p.Len()
	s := constant(n, 1)

	for _, dirs := range [][]Direction{
		{{Mu: 1 / math.Sqrt(3), Weight: 0.5}},
		{{Mu: 0.2113248654, Weight: 0.25}, {Mu: -0.7886751346, Weight: 0.25}},
		{{Mu: 1e-3, Weight: 0.5}},
	} {
		jbar := make([]float64, n)
		var tmp []float64
		for _, d := range dirs {
			var err error
			tmp, err = Sweep(tmp, p.Medium, Boundary{Upper: 1, Lower: 1}, s, d, Intensity)
			require.NoError(t, err)
			floats.Add(jbar, tmp)
		}
		if dist := floats.Distance(jbar, s, math.Inf(1)); dist > 1e-12 {
			t.Errorf("directions %v: |J-1|=%v", dirs, dist)
		}
	}
}

func TestSweepBoundaryInjection(t *testing.T) {
	p, _ := benchmark(t, 1)
	n := p.Len()
	s := make([]float64, n)
	dir := TwoStream()

	jbar, err := Sweep(nil, p.Medium, Boundary{Upper: 3}, s, dir, Intensity)
	require.NoError(t, err)
	if jbar[0] != dir.Weight*3 {
		t.Errorf("J at upper boundary = %v, want %v", jbar[0], dir.Weight*3)
	}

	jbar, err = Sweep(jbar, p.Medium, Boundary{Lower: 7}, s, dir, Intensity)
	require.NoError(t, err)
	if jbar[n-1] != dir.Weight*7 {
		t.Errorf("J at lower boundary = %v, want %v", jbar[n-1], dir.Weight*7)
	}

	// Radiation entering at the bottom decays towards the surface.
	for k := n - 1; k > 0; k-- {
		if jbar[k-1] > jbar[k] {
			t.Fatalf("J increases towards the surface at point %d: %v > %v", k-1, jbar[k-1], jbar[k])
		}
	}
}

func TestSweepDiagonalIgnoresBoundary(t *testing.T) {
	p, _ := benchmark(t, 1)
	dir := TwoStream()

	got1, err := Sweep(nil, p.Medium, Boundary{Upper: 3, Lower: 7}, nil, dir, Diagonal)
	require.NoError(t, err)
	got2, err := Sweep(nil, p.Medium, Boundary{Upper: 3, Lower: 7}, nil, dir, Diagonal)
	require.NoError(t, err)
	want, err := Sweep(nil, p.Medium, Boundary{}, constant(p.Len(), 5), dir, Diagonal)
	require.NoError(t, err)

	if !floats.Equal(got1, got2) {
		t.Errorf("repeated diagonal sweeps differ")
	}
	if !floats.Equal(got1, want) {
		t.Errorf("diagonal depends on boundary values or source function")
	}

	lstar, err := p.LStar(nil)
	require.NoError(t, err)
	if !floats.Equal(lstar, want) {
		t.Errorf("LStar differs from diagonal sweep")
	}
	for k, v := range lstar {
		if !(v >= 0 && v < 1) {
			t.Errorf("Λ*[%d]=%v outside [0,1)", k, v)
		}
	}
	// The entry point of a pass receives no local contribution.
	if lstar[0] >= lstar[1] {
		t.Errorf("Λ* at the surface %v not smaller than below it %v", lstar[0], lstar[1])
	}
}

func TestSweepReusesDestination(t *testing.T) {
	p, _ := benchmark(t, 1)
	n := p.Len()
	dst := constant(2*n, math.NaN())
	got, err := Sweep(dst, p.Medium, Boundary{}, constant(n, 1), TwoStream(), Intensity)
	require.NoError(t, err)
	require.Len(t, got, n)
	require.Same(t, &dst[0], &got[0])
	for k, v := range got {
		require.False(t, math.IsNaN(v), "point %d not overwritten", k)
	}
}

func TestSweepTransparentMedium(t *testing.T) {
	z := []float64{0, 1, 2, 3, 4}
	chi := make([]float64, len(z))
	s := constant(len(z), 10)
	jbar, err := Sweep(nil, Medium{Z: z, Chi: chi}, Boundary{Upper: 2, Lower: 4}, s, TwoStream(), Intensity)
	require.NoError(t, err)
	for k, v := range jbar {
		if v != 3 {
			t.Errorf("point %d: J=%v, want 3", k, v)
		}
	}

	// A single transparent segment inside an opaque medium.
	chi = []float64{1, 0, 0, 1, 1}
	jbar, err = Sweep(jbar, Medium{Z: z, Chi: chi}, Boundary{Upper: 2, Lower: 4}, s, TwoStream(), Intensity)
	require.NoError(t, err)
	for k, v := range jbar {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Errorf("point %d: J=%v", k, v)
		}
	}
}

func TestSweepInvalidInput(t *testing.T) {
	good := Medium{Z: []float64{0, 1, 2}, Chi: []float64{1, 1, 1}}
	s := []float64{1, 1, 1}
	for _, tc := range []struct {
		name string
		m    Medium
		s    []float64
		dir  Direction
	}{
		{"single point", Medium{Z: []float64{0}, Chi: []float64{1}}, []float64{1}, TwoStream()},
		{"empty grid", Medium{}, nil, TwoStream()},
		{"opacity length", Medium{Z: good.Z, Chi: []float64{1, 1}}, s, TwoStream()},
		{"source length", good, []float64{1, 1}, TwoStream()},
		{"decreasing grid", Medium{Z: []float64{0, 2, 1}, Chi: good.Chi}, s, TwoStream()},
		{"repeated point", Medium{Z: []float64{0, 1, 1}, Chi: good.Chi}, s, TwoStream()},
		{"negative opacity", Medium{Z: good.Z, Chi: []float64{1, -1, 1}}, s, TwoStream()},
		{"NaN opacity", Medium{Z: good.Z, Chi: []float64{1, math.NaN(), 1}}, s, TwoStream()},
		{"zero cosine", good, s, Direction{Mu: 0, Weight: 0.5}},
		{"negative weight", good, s, Direction{Mu: 0.5, Weight: -1}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Sweep(nil, tc.m, Boundary{}, tc.s, tc.dir, Intensity)
			require.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestProblemValidate(t *testing.T) {
	p, _ := benchmark(t, 1e-4)
	require.NoError(t, p.Validate())

	for _, tc := range []struct {
		name   string
		mutate func(p *Problem)
	}{
		{"no directions", func(p *Problem) { p.Directions = nil }},
		{"bad direction", func(p *Problem) { p.Directions = []Direction{{Mu: 0, Weight: 1}} }},
		{"negative eps", func(p *Problem) { p.Eps = -0.1 }},
		{"eps above one", func(p *Problem) { p.Eps = 1.5 }},
		{"planck length", func(p *Problem) { p.B = p.B[1:] }},
		{"grid", func(p *Problem) { p.Z = p.Z[:1]; p.Chi = p.Chi[:1]; p.B = p.B[:1] }},
	} {
		t.Run(tc.name, func(t *testing.T) {
			q, _ := benchmark(t, 1e-4)
			tc.mutate(q)
			require.ErrorIs(t, q.Validate(), ErrInvalidInput)
			_, err := q.MeanIntensity(nil, constant(q.Len(), 1))
			require.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestMeanIntensitySumsDirections(t *testing.T) {
	p, _ := benchmark(t, 1e-2)
	p.Directions = []Direction{{Mu: 0.2, Weight: 0.2}, {Mu: 0.7, Weight: 0.3}}
	s := Eddington(nil, p.Z, 0.3)

	got, err := p.MeanIntensity(nil, s)
	require.NoError(t, err)

	want := make([]float64, p.Len())
	for _, d := range p.Directions {
		j, err := Sweep(nil, p.Medium, p.Boundary, s, d, Intensity)
		require.NoError(t, err)
		floats.Add(want, j)
	}
	if dist := floats.Distance(got, want, math.Inf(1)); dist > 1e-14 {
		t.Errorf("MeanIntensity differs from summed sweeps by %v", dist)
	}

	_, err = p.MeanIntensity(nil, s[1:])
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestSweepNearlyDegenerateSegments(t *testing.T) {
	s := constant(4, 1)
	for _, tc := range []struct {
		name string
		m    Medium
	}{
		{"subnormal opacity", Medium{Z: []float64{0, 1, 2, 3}, Chi: []float64{1, 1, 1e-310, 1e-310}}},
		{"subnormal opacity everywhere", Medium{Z: []float64{0, 1, 2, 3}, Chi: []float64{1e-310, 1e-310, 1e-310, 1e-310}}},
		{"tiny opacity", Medium{Z: []float64{0, 1, 2, 3}, Chi: []float64{1, 1e-300, 1e-300, 1}}},
		{"coincident points", Medium{Z: []float64{0, 1, 1 + 1e-12, 3}, Chi: constant(4, 1)}},
		{"close points", Medium{Z: []float64{0, 1, 1 + 1e-9, 3}, Chi: constant(4, 1)}},
		{"near points", Medium{Z: []float64{0, 1, 1 + 1e-5, 3}, Chi: constant(4, 1)}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			jbar, err := Sweep(nil, tc.m, Boundary{Upper: 1, Lower: 1}, s, TwoStream(), Intensity)
			require.NoError(t, err)
			for k, v := range jbar {
				if math.IsNaN(v) || math.Abs(v-1) > 1e-10 {
					t.Errorf("point %d: J=%v, want 1", k, v)
				}
			}
		})
	}
}
