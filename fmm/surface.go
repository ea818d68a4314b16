// Copyright ©2024 The Fastsolve Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fmm

import "fmt"

const (
	// alphaInner dilates the upward equivalent and downward check
	// surfaces relative to their box.
	alphaInner = 1.05

	// alphaOuter dilates the upward check and downward equivalent
	// surfaces relative to their box.
	alphaOuter = 2.95

	nsiblings = 8
)

// NCoeffs returns the number of expansion coefficients of the given
// order, equal to the number of points discretizing a box surface.
func NCoeffs(order int) int {
	if order < 2 {
		panic(fmt.Sprintf("fmm: order %d below minimum 2", order))
	}
	return 6*(order-1)*(order-1) + 2
}

// surfaceLattice returns the integer lattice coordinates of the
// surface points of an order-p cube discretization: the boundary sites
// of the p×p×p lattice, in lexicographic order.
func surfaceLattice(order int) [][3]int {
	pts := make([][3]int, 0, NCoeffs(order))
	for i := 0; i < order; i++ {
		for j := 0; j < order; j++ {
			for k := 0; k < order; k++ {
				if i == 0 || i == order-1 || j == 0 || j == order-1 || k == 0 || k == order-1 {
					pts = append(pts, [3]int{i, j, k})
				}
			}
		}
	}
	return pts
}

// surface returns the coordinates of the order-p surface of the box
// with the given center and half-width, dilated by alpha, packed as
// [x0 y0 z0 ...].
func surface(order int, center [3]float64, halfWidth, alpha float64) []float64 {
	lattice := surfaceLattice(order)
	r := halfWidth * alpha
	step := 2 / float64(order-1)
	out := make([]float64, 3*len(lattice))
	for i, a := range lattice {
		for j := 0; j < 3; j++ {
			out[3*i+j] = center[j] + r*(-1+step*float64(a[j]))
		}
	}
	return out
}
