// Copyright ©2024 The Fastsolve Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package grid

import "gonum.org/v1/gonum/spatial/r3"

// RegularSphere returns the unit sphere discretized by refining a
// regular octahedron. Each refinement splits every triangle into four
// by connecting edge midpoints; new vertices are scaled back onto the
// sphere. Refinement level zero is the octahedron itself.
func RegularSphere(level int) *Grid {
	points := []r3.Vec{
		{X: 0, Y: 0, Z: 1},
		{X: 1, Y: 0, Z: 0},
		{X: 0, Y: 1, Z: 0},
		{X: -1, Y: 0, Z: 0},
		{X: 0, Y: -1, Z: 0},
		{X: 0, Y: 0, Z: -1},
	}
	cells := [][3]int{
		{0, 1, 2},
		{0, 2, 3},
		{0, 3, 4},
		{0, 4, 1},
		{5, 2, 1},
		{5, 3, 2},
		{5, 4, 3},
		{5, 1, 4},
	}

	for l := 0; l < level; l++ {
		type edge struct{ a, b int }
		midpoints := make(map[edge]int)
		mid := func(a, b int) int {
			if a > b {
				a, b = b, a
			}
			if i, ok := midpoints[edge{a, b}]; ok {
				return i
			}
			p := r3.Unit(r3.Add(points[a], points[b]))
			points = append(points, p)
			i := len(points) - 1
			midpoints[edge{a, b}] = i
			return i
		}

		refined := make([][3]int, 0, 4*len(cells))
		for _, c := range cells {
			m01 := mid(c[0], c[1])
			m12 := mid(c[1], c[2])
			m02 := mid(c[0], c[2])
			refined = append(refined,
				[3]int{c[0], m01, m02},
				[3]int{c[1], m12, m01},
				[3]int{c[2], m02, m12},
				[3]int{m01, m12, m02},
			)
		}
		cells = refined
	}

	g, err := New(points, cells)
	if err != nil {
		panic("grid: internal sphere construction error")
	}
	return g
}
