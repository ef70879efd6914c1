// Copyright ©2016 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shortchar

// Operation specifies the type of operation.
type Operation uint64

// Operations commanded by Method.Iterate.
const (
	NoOperation Operation = 0

	// Compute the residual
	//
	//	r = ε B + (1-ε) J[S] - S,
	//
	// where S is stored in Context.S and
	// J[S] is the mean intensity with the
	// boundary conditions of the problem,
	// and store r into Context.Residual.
	ComputeResidual Operation = 1 << (iota - 1)

	// Multiply (I - (1-ε)Λ)*x where x is
	// stored in Context.Src and the result
	// will be stored in Context.Dst. Λ is
	// the transfer operator with zero
	// incident radiation.
	MatVec

	// Do the preconditioner solve
	//
	//	M z = r,
	//
	// where r is stored in Context.Src,
	// and store the solution z in
	// Context.Dst.
	PSolve

	// Run one accelerated Gauss-Seidel
	// sweep on Context.S in place with the
	// relaxation factor Context.Omega, and
	// store the norm of the unrelaxed
	// corrections into Context.ResidualNorm.
	Accelerate

	// Check convergence using the
	// current approximation in Context.S
	// and the residual in Context.ResidualNorm.
	// If convergence is detected,
	// Context.Converged must be set to
	// true before calling Method.Iterate
	// again.
	CheckResidualNorm

	// EndIteration indicates that Method
	// has finished what it considers to
	// be one iteration. The caller
	// records the change of Context.S. If
	// Context.Converged is true, the
	// iterative process must be
	// terminated, and Method.Init must
	// be called before calling
	// Method.Iterate again.
	EndIteration
)

// Method is an iterative method that produces a sequence of source functions
// converging to the solution S of
//
//	(I - (1-ε)Λ) S = ε B + (1-ε) J0,
//
// where Λ is the transfer operator of a problem and J0 is the mean intensity
// produced by its boundary conditions alone.
//
// Method uses a reverse-communication interface between the iterative algorithm
// and the caller. Method acts as a client that commands the caller to perform
// needed operations via Operation returned from Iterate methods. The caller
// owns the problem and performs formal solutions on request, which keeps
// Method independent of the geometry and the angular quadrature.
type Method interface {
	// Init initializes the method for a problem with dim grid points.
	Init(dim int)

	// Iterate retrieves data from Context, updates it, and returns the next
	// operation. The caller must perform the Operation using data in
	// Context, and depending on the state call Iterate again.
	Iterate(*Context) (Operation, error)
}

// Context mediates the communication between a Method and the caller. It must
// not be modified or accessed apart from the commanded Operations.
type Context struct {
	// S is the current source function. On the first call to
	// Method.Iterate, S must contain the initial estimate. Method must
	// update S with the current estimate when it commands ComputeResidual
	// and EndIteration.
	S []float64
	// Residual is the current residual. On the first call to
	// Method.Iterate, Residual must contain the initial residual.
	Residual []float64
	// ResidualNorm is (an estimate of) the norm of the current residual.
	// Method must update it when it commands CheckResidualNorm.
	ResidualNorm float64
	// Converged indicates to Method that the ResidualNorm satisfies the
	// stopping criterion as a result of CheckResidualNorm operation.
	Converged bool

	// Omega is the relaxation factor for Accelerate.
	Omega float64

	// Src and Dst are the source and destination vectors for various
	// Operations.
	Src, Dst []float64
}
