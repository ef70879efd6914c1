// Copyright ©2026 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package shortchar

import "errors"

// ErrInvalidInput is returned, wrapped with details, when a grid, profile,
// direction or iteration parameter cannot describe a transfer problem.
// Callers should match it with errors.Is.
var ErrInvalidInput = errors.New("shortchar: invalid input")
