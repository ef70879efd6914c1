// Copyright ©2026 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shortchar

import (
	"fmt"
	"io"
	"math"
	"os"
)

// Recorder records the progress of Solve.
type Recorder interface {
	// Init is called once before the first iteration.
	Init() error
	// Record is called at the end of every iteration.
	Record(Stats) error
}

// Printer writes the progress of Solve as a table. A heading is written
// before the first row and every HeadingInterval rows after it.
type Printer struct {
	Writer          io.Writer
	HeadingInterval int

	rows int
}

// NewPrinter returns a Printer that writes to standard output.
func NewPrinter() *Printer {
	return &Printer{
		Writer:          os.Stdout,
		HeadingInterval: 30,
	}
}

// Init implements the Recorder interface.
func (p *Printer) Init() error {
	p.rows = 0
	return nil
}

// Record implements the Recorder interface.
func (p *Printer) Record(s Stats) error {
	if p.rows == 0 || (p.HeadingInterval > 0 && p.rows%p.HeadingInterval == 0) {
		_, err := fmt.Fprintf(p.Writer, "%6s %8s %12s %12s %12s\n",
			"Iter", "Formal", "RelChange", "TrueError", "Residual")
		if err != nil {
			return err
		}
	}
	p.rows++
	trueErr := "-"
	if !math.IsNaN(s.TrueError) {
		trueErr = fmt.Sprintf("%.6e", s.TrueError)
	}
	_, err := fmt.Fprintf(p.Writer, "%6d %8d %12.6e %12s %12.6e\n",
		s.Iterations, s.FormalSolutions, s.RelativeChange, trueErr, s.ResidualNorm)
	return err
}
