// Copyright ©2024 The Fastsolve Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bem

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/fast-solvers/fastsolve/grid"
)

var potentialPoints = []r3.Vec{
	{X: 2},
	{Y: 2},
	{Z: 2},
}

func TestLaplaceSingleLayerPotentialDP0(t *testing.T) {
	g := grid.RegularSphere(0)
	space := NewP0(g)
	a := NewLaplaceSingleLayerPotentialAssembler()
	m := a.AssembleDense(space, potentialPoints)

	// Reference rows are indexed by dof, columns by evaluation point.
	for dof, row := range refLaplaceSingleLayerPotentialDP0 {
		for p, want := range row {
			if !relEq(m.At(p, dof), want, 1e-3) {
				t.Errorf("point %d dof %d: got %v, want %v", p, dof, m.At(p, dof), want)
			}
		}
	}
}

func TestHelmholtzSingleLayerPotentialDP0(t *testing.T) {
	g := grid.RegularSphere(0)
	space := NewP0(g)
	a := NewHelmholtzSingleLayerPotentialAssembler(3)
	m := a.AssembleDense(space, potentialPoints)

	for dof, row := range refHelmholtzSingleLayerPotentialDP0 {
		for p, want := range row {
			if !relEqC(m.At(p, dof), want, 1e-3) {
				t.Errorf("point %d dof %d: got %v, want %v", p, dof, m.At(p, dof), want)
			}
		}
	}
}
