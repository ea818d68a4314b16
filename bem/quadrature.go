// Copyright ©2024 The Fastsolve Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bem

import "gonum.org/v1/gonum/integrate/quad"

// rule is a quadrature rule on the reference triangle
// {ξ, η ≥ 0, ξ+η ≤ 1}; the weights sum to the reference area ½.
type rule struct {
	xi, eta, w []float64
}

// triangleRule collapses the tensor product of two n-point
// Gauss–Legendre rules onto the reference triangle.
func triangleRule(n int) rule {
	x := make([]float64, n)
	w := make([]float64, n)
	quad.Legendre{}.FixedLocations(x, w, 0, 1)

	r := rule{
		xi:  make([]float64, 0, n*n),
		eta: make([]float64, 0, n*n),
		w:   make([]float64, 0, n*n),
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			r.xi = append(r.xi, x[i])
			r.eta = append(r.eta, x[j]*(1-x[i]))
			r.w = append(r.w, w[i]*w[j]*(1-x[i]))
		}
	}
	return r
}
