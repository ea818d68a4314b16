// Copyright ©2024 The Fastsolve Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bem

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/fast-solvers/fastsolve/grid"
)

// Space is a scalar Lagrange function space over a triangle grid:
// piecewise constants (discontinuous, one degree of freedom per cell)
// or continuous piecewise linears (one degree of freedom per vertex).
type Space struct {
	grid   *grid.Grid
	degree int
}

// NewP0 returns the space of piecewise constants on g.
func NewP0(g *grid.Grid) *Space { return &Space{grid: g, degree: 0} }

// NewP1 returns the space of continuous piecewise linears on g.
func NewP1(g *grid.Grid) *Space { return &Space{grid: g, degree: 1} }

// Grid returns the space's grid.
func (s *Space) Grid() *grid.Grid { return s.grid }

// Degree returns the polynomial degree of the space.
func (s *Space) Degree() int { return s.degree }

// Size returns the number of degrees of freedom.
func (s *Space) Size() int {
	if s.degree == 0 {
		return s.grid.NCells()
	}
	return s.grid.NPoints()
}

// NBasis returns the number of basis functions supported on one cell.
func (s *Space) NBasis() int {
	if s.degree == 0 {
		return 1
	}
	return 3
}

// CellDof returns the global degree of freedom of the local basis
// function b on cell c.
func (s *Space) CellDof(c, b int) int {
	if s.degree == 0 {
		return c
	}
	return s.grid.Cell(c)[b]
}

// Basis evaluates the local basis function b at reference coordinates
// (ξ, η).
func (s *Space) Basis(b int, xi, eta float64) float64 {
	if s.degree == 0 {
		return 1
	}
	switch b {
	case 0:
		return 1 - xi - eta
	case 1:
		return xi
	default:
		return eta
	}
}

// SurfaceCurl returns the constant surface curl n̂×∇λ_b of the local
// basis function b on cell c. It is zero for piecewise constants.
func (s *Space) SurfaceCurl(c, b int) r3.Vec {
	if s.degree == 0 {
		return r3.Vec{}
	}
	v := s.grid.Vertices(c)
	twoA := 2 * s.grid.Area(c)
	vb := v[(b+1)%3]
	vc := v[(b+2)%3]
	return r3.Scale(1/twoA, r3.Sub(vb, vc))
}
