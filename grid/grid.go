// Copyright ©2024 The Fastsolve Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package grid provides flat triangular surface grids for boundary
// element assembly, together with canonical shapes and gmsh export.
package grid // import "github.com/fast-solvers/fastsolve/grid"

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/spatial/r3"
)

// Grid is a surface mesh of flat triangles embedded in three
// dimensions. Cell vertices are ordered so that the cross product of
// the first two edges points along the surface normal.
type Grid struct {
	points []r3.Vec
	cells  [][3]int
}

// New returns a grid over the given vertices and triangles. New
// returns an error when a cell references a missing vertex.
func New(points []r3.Vec, cells [][3]int) (*Grid, error) {
	for i, c := range cells {
		for _, v := range c {
			if v < 0 || v >= len(points) {
				return nil, errors.Errorf("grid: cell %d references vertex %d of %d", i, v, len(points))
			}
		}
	}
	return &Grid{points: points, cells: cells}, nil
}

// NPoints returns the number of vertices.
func (g *Grid) NPoints() int { return len(g.points) }

// NCells returns the number of triangles.
func (g *Grid) NCells() int { return len(g.cells) }

// Point returns the i-th vertex.
func (g *Grid) Point(i int) r3.Vec { return g.points[i] }

// Cell returns the vertex indices of the i-th triangle.
func (g *Grid) Cell(i int) [3]int { return g.cells[i] }

// Vertices returns the corner coordinates of the i-th triangle.
func (g *Grid) Vertices(i int) [3]r3.Vec {
	c := g.cells[i]
	return [3]r3.Vec{g.points[c[0]], g.points[c[1]], g.points[c[2]]}
}

// Jacobian returns the two columns of the reference-to-physical map of
// the i-th triangle.
func (g *Grid) Jacobian(i int) (j1, j2 r3.Vec) {
	v := g.Vertices(i)
	return r3.Sub(v[1], v[0]), r3.Sub(v[2], v[0])
}

// Normal returns the unit normal of the i-th triangle.
func (g *Grid) Normal(i int) r3.Vec {
	j1, j2 := g.Jacobian(i)
	return r3.Unit(r3.Cross(j1, j2))
}

// Area returns the area of the i-th triangle.
func (g *Grid) Area(i int) float64 {
	j1, j2 := g.Jacobian(i)
	return r3.Norm(r3.Cross(j1, j2)) / 2
}

// ToPhysical maps reference coordinates (xi, eta) on the i-th triangle
// to physical space.
func (g *Grid) ToPhysical(i int, xi, eta float64) r3.Vec {
	v := g.Vertices(i)
	return r3.Add(v[0], r3.Add(r3.Scale(xi, r3.Sub(v[1], v[0])), r3.Scale(eta, r3.Sub(v[2], v[0]))))
}
