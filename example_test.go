// Copyright ©2026 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shortchar_test

import (
	"fmt"
	"log"

	"github.com/vladimir-ch/shortchar"
)

func ExampleSolve() {
	const eps = 1e-4
	p, err := shortchar.SemiInfinite(1e-2, 1e4, 5, eps)
	if err != nil {
		log.Fatal(err)
	}

	r, err := shortchar.Solve(p, &shortchar.GaussSeidel{Omega: 1.5}, shortchar.Settings{
		MaxIterations: 500,
		Tolerance:     1e-10,
		Reference:     shortchar.Eddington(nil, p.Z, eps),
	})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("converged:", r.Stats.Converged)
	fmt.Printf("S at the surface: %.4f\n", r.S[0])
	fmt.Printf("error of the Eddington solution: %.3f\n", r.Stats.TrueError)

	// Output:
	// converged: true
	// S at the surface: 0.0101
	// error of the Eddington solution: 0.015
}
