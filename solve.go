// Copyright ©2017 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shortchar

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/floats"
)

// Settings holds various settings for
// solving a transfer problem.
type Settings struct {
	// S0 is an initial guess.
	// If it is nil, the Planck function
	// of the problem will be used.
	// If it is not nil, the length of S0
	// must be equal to the number of grid
	// points.
	S0 []float64

	// MaxIterations is the iteration
	// budget. If it is zero, it will be
	// set to 100. Running out of
	// iterations is not an error.
	MaxIterations int

	// Tolerance stops the iteration once
	// the maximum relative change of the
	// source function in one iteration
	// falls below it. If it is zero,
	// the full budget is always used.
	Tolerance float64

	// ResidualTolerance is the stopping
	// criterion
	//
	//	|r_i| < ResidualTolerance * |ε B + (1-ε) J0|
	//
	// used by methods that command
	// CheckResidualNorm. It must be
	// smaller than one and greater than
	// the machine epsilon. If it is zero,
	// it will be set to 1e-10.
	ResidualTolerance float64

	// Reference is an optional known
	// solution. If it is not nil, the
	// true error of every iterate is
	// recorded in History.
	Reference []float64

	// PSolve describes the
	// preconditioner solve that stores
	// into dst the solution of the
	// system
	//
	//	M z = rhs.
	//
	// If it is nil, M is the diagonal
	// I - (1-ε)Λ*.
	PSolve func(dst, rhs []float64) error

	// Recorder, if not nil, is notified
	// at the end of every iteration.
	Recorder Recorder
}

func defaultSettings(s *Settings) {
	if s.MaxIterations == 0 {
		s.MaxIterations = 100
	}
	if s.ResidualTolerance == 0 {
		s.ResidualTolerance = 1e-10
	}
}

// History is the convergence history of a solve, one entry per iteration.
type History struct {
	// RelativeChange holds
	//
	//	max_i |S_i - S_i^prev| / |S_i|.
	RelativeChange []float64
	// TrueError holds
	//
	//	max_i |S_i - Ref_i| / |Ref_i|
	//
	// when Settings.Reference is set.
	TrueError []float64
}

// Result holds the result of an iterative solve.
type Result struct {
	// S is the approximate source function.
	S []float64
	// LStar is the approximate lambda
	// operator used by the solve.
	LStar []float64
	// History is the convergence history.
	History History
	// Stats holds the statistics of the
	// solve.
	Stats Stats
}

// Stats holds statistics about an iterative solve.
type Stats struct {
	// Iterations is the number of
	// iteration done by Method.
	Iterations int
	// FormalSolutions is the number of
	// two-ray sweeps over the grid,
	// counted once per direction.
	FormalSolutions int
	// PSolve is the number of PSolve
	// operations commanded by a Method.
	PSolve int
	// ResidualNorm is the last norm of
	// the residual reported by Method.
	ResidualNorm float64
	// RelativeChange is the last entry of
	// History.RelativeChange.
	RelativeChange float64
	// TrueError is the last entry of
	// History.TrueError, or NaN without
	// a reference solution.
	TrueError float64
	// Converged reports whether the solve
	// stopped on a convergence criterion
	// rather than on the iteration budget.
	Converged bool
	// StartTime is an approximate time
	// when the solve was started.
	StartTime time.Time
	// Runtime is an approximate duration
	// of the solve.
	Runtime time.Duration
}

// Solve iterates method on the problem p until it converges or the iteration
// budget is exhausted.
//
// The approximate lambda operator is computed once before the first iteration
// and is returned in the Result. Exhausting the budget is not an error; the
// History and Stats.Converged tell how far the iteration got. An error is
// returned for invalid input and for breakdowns reported by method.
func Solve(p *Problem, method Method, settings Settings) (Result, error) {
	stats := Stats{StartTime: time.Now(), TrueError: math.NaN()}

	if method == nil {
		panic("shortchar: nil method")
	}
	if err := p.Validate(); err != nil {
		return Result{}, err
	}
	dim := p.Len()
	if settings.S0 != nil {
		if err := checkLen("initial guess", settings.S0, dim); err != nil {
			return Result{}, err
		}
	}
	if settings.Reference != nil {
		if err := checkLen("reference solution", settings.Reference, dim); err != nil {
			return Result{}, err
		}
	}
	defaultSettings(&settings)
	if settings.MaxIterations < 0 {
		return Result{}, fmt.Errorf("%w: negative iteration budget %d", ErrInvalidInput, settings.MaxIterations)
	}
	if settings.Tolerance < 0 {
		return Result{}, fmt.Errorf("%w: negative tolerance %v", ErrInvalidInput, settings.Tolerance)
	}
	if settings.ResidualTolerance < dlamchE || 1 <= settings.ResidualTolerance {
		return Result{}, fmt.Errorf("%w: residual tolerance %v", ErrInvalidInput, settings.ResidualTolerance)
	}

	lstar := p.jbar(nil, make([]float64, dim), Boundary{}, Diagonal)
	stats.FormalSolutions += len(p.Directions)
	op := &operator{p: p, lstar: lstar, stats: &stats}

	ctx := &Context{
		S:        make([]float64, dim),
		Residual: make([]float64, dim),
	}
	if settings.S0 != nil {
		copy(ctx.S, settings.S0)
	} else {
		copy(ctx.S, p.B)
	}
	op.residual(ctx.Residual, ctx.S)
	ctx.ResidualNorm = floats.Norm(ctx.Residual, 2)
	stats.ResidualNorm = ctx.ResidualNorm

	var hist History
	err := iterate(op, ctx, settings, method, &stats, &hist)

	stats.Runtime = time.Since(stats.StartTime)
	return Result{
		S:       ctx.S,
		LStar:   lstar,
		History: hist,
		Stats:   stats,
	}, err
}

func iterate(op *operator, ctx *Context, settings Settings, method Method, stats *Stats, hist *History) error {
	dim := len(ctx.S)
	bnorm := floats.Norm(op.rhs(), 2)
	if bnorm == 0 {
		bnorm = 1
	}
	if ctx.ResidualNorm/bnorm < settings.ResidualTolerance {
		stats.Converged = true
		return nil
	}
	if settings.MaxIterations == 0 {
		return nil
	}

	if settings.Recorder != nil {
		if err := settings.Recorder.Init(); err != nil {
			return err
		}
	}

	prev := make([]float64, dim)
	copy(prev, ctx.S)

	method.Init(dim)

	for {
		o, err := method.Iterate(ctx)
		if err != nil {
			return err
		}

		switch o {
		case NoOperation:

		case ComputeResidual:
			op.residual(ctx.Residual, ctx.S)

		case MatVec:
			op.matVec(ctx.Dst, ctx.Src)

		case PSolve:
			if settings.PSolve == nil {
				op.psolve(ctx.Dst, ctx.Src)
			} else if err := settings.PSolve(ctx.Dst, ctx.Src); err != nil {
				return err
			}
			stats.PSolve++

		case Accelerate:
			if !(0 < ctx.Omega && ctx.Omega < 2) {
				return fmt.Errorf("%w: relaxation factor %v outside (0,2)", ErrInvalidInput, ctx.Omega)
			}
			ctx.ResidualNorm = op.p.accelerate(ctx.S, op.lstar, ctx.Omega)
			stats.FormalSolutions += len(op.p.Directions)

		case CheckResidualNorm:
			ctx.Converged = ctx.ResidualNorm/bnorm < settings.ResidualTolerance

		case EndIteration:
			stats.Iterations++
			stats.ResidualNorm = ctx.ResidualNorm

			stats.RelativeChange = maxRelDiff(ctx.S, prev, ctx.S)
			hist.RelativeChange = append(hist.RelativeChange, stats.RelativeChange)
			if settings.Reference != nil {
				stats.TrueError = maxRelDiff(ctx.S, settings.Reference, settings.Reference)
				hist.TrueError = append(hist.TrueError, stats.TrueError)
			}
			copy(prev, ctx.S)

			if settings.Recorder != nil {
				if err := settings.Recorder.Record(*stats); err != nil {
					return err
				}
			}
			if ctx.Converged || stats.RelativeChange < settings.Tolerance {
				stats.Converged = true
				return nil
			}
			if stats.Iterations == settings.MaxIterations {
				return nil
			}

		default:
			panic("iterate: invalid operation")
		}
	}
}

// operator performs the Operations of a Method on a problem.
type operator struct {
	p     *Problem
	lstar []float64
	stats *Stats

	jbar []float64
}

// residual stores ε B + (1-ε) J[s] - s into dst.
func (op *operator) residual(dst, s []float64) {
	eps := op.p.Eps
	op.jbar = op.p.jbar(op.jbar, s, op.p.Boundary, Intensity)
	op.stats.FormalSolutions += len(op.p.Directions)
	floats.ScaleTo(dst, 1-eps, op.jbar)
	floats.AddScaled(dst, eps, op.p.B)
	floats.Sub(dst, s)
}

// matVec stores x - (1-ε) Λ[x] into dst.
func (op *operator) matVec(dst, x []float64) {
	op.jbar = op.p.jbar(op.jbar, x, Boundary{}, Intensity)
	op.stats.FormalSolutions += len(op.p.Directions)
	floats.AddScaledTo(dst, x, -(1 - op.p.Eps), op.jbar)
}

// psolve stores rhs / (1 - (1-ε) Λ*) into dst.
func (op *operator) psolve(dst, rhs []float64) {
	eps := op.p.Eps
	for i, v := range rhs {
		dst[i] = v / (1 - (1-eps)*op.lstar[i])
	}
}

// rhs returns ε B + (1-ε) J0.
func (op *operator) rhs() []float64 {
	n := op.p.Len()
	b := op.p.jbar(nil, make([]float64, n), op.p.Boundary, Intensity)
	op.stats.FormalSolutions += len(op.p.Directions)
	floats.Scale(1-op.p.Eps, b)
	floats.AddScaled(b, op.p.Eps, op.p.B)
	return b
}

// maxRelDiff returns max_i |x_i - y_i| / |scale_i|. Entries where x and y
// agree exactly do not contribute.
func maxRelDiff(x, y, scale []float64) float64 {
	var m float64
	for i := range x {
		d := math.Abs(x[i] - y[i])
		if d == 0 {
			continue
		}
		m = math.Max(m, d/math.Abs(scale[i]))
	}
	return m
}

const dlamchE = 1.0 / (1 << 53)
