// Copyright ©2024 The Fastsolve Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bem

import (
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/spatial/r3"
)

// A PotentialAssembler assembles matrices evaluating a layer potential
// of a surface density at off-surface points.
type PotentialAssembler[T Scalar] struct {
	kind       operatorKind
	wavenumber float64
	helmholtz  bool
	quadN      int
}

func newPotentialAssembler[T Scalar](kind operatorKind, helmholtz bool, wavenumber float64) *PotentialAssembler[T] {
	return &PotentialAssembler[T]{kind: kind, wavenumber: wavenumber, helmholtz: helmholtz, quadN: 8}
}

// NewLaplaceSingleLayerPotentialAssembler returns an assembler for the
// Laplace single layer potential.
func NewLaplaceSingleLayerPotentialAssembler() *PotentialAssembler[float64] {
	return newPotentialAssembler[float64](opSingleLayer, false, 0)
}

// NewLaplaceDoubleLayerPotentialAssembler returns an assembler for the
// Laplace double layer potential.
func NewLaplaceDoubleLayerPotentialAssembler() *PotentialAssembler[float64] {
	return newPotentialAssembler[float64](opDoubleLayer, false, 0)
}

// NewHelmholtzSingleLayerPotentialAssembler returns an assembler for
// the Helmholtz single layer potential at the given wavenumber.
func NewHelmholtzSingleLayerPotentialAssembler(k float64) *PotentialAssembler[complex128] {
	return newPotentialAssembler[complex128](opSingleLayer, true, k)
}

// NewHelmholtzDoubleLayerPotentialAssembler returns an assembler for
// the Helmholtz double layer potential at the given wavenumber.
func NewHelmholtzDoubleLayerPotentialAssembler(k float64) *PotentialAssembler[complex128] {
	return newPotentialAssembler[complex128](opDoubleLayer, true, k)
}

// AssembleDense assembles the len(points)×Size evaluation matrix of
// the potential of trial densities from space at the given points.
func (a *PotentialAssembler[T]) AssembleDense(space *Space, points []r3.Vec) *Dense[T] {
	if a.kind == opDoubleLayer && space.Degree() != 0 {
		panic("bem: double layer potential requires a piecewise constant space")
	}
	g := space.Grid()
	out := NewDense[T](len(points), space.Size())
	corr := triangleRule(a.quadN)
	k := a.wavenumber

	workers := runtime.GOMAXPROCS(0)
	var eg errgroup.Group
	eg.SetLimit(workers)
	for pi := range points {
		pi := pi
		eg.Go(func() error {
			x := points[pi]
			for sc := 0; sc < g.NCells(); sc++ {
				switch a.kind {
				case opSingleLayer:
					for b := 0; b < space.NBasis(); b++ {
						var stat float64
						if space.Degree() == 0 {
							stat = intOneOverR(x, g.Vertices(sc))
						} else {
							stat = linearOverR(x, g.Vertices(sc), b)
						}
						sum := complex(inv4Pi*stat, 0)
						if a.helmholtz {
							area2 := 2 * g.Area(sc)
							for q := range corr.w {
								y := g.ToPhysical(sc, corr.xi[q], corr.eta[q])
								r := dist(x, y)
								sum += complex(corr.w[q]*area2*space.Basis(b, corr.xi[q], corr.eta[q]), 0) *
									complex(inv4Pi/r, 0) * (eix(k*r) - 1)
							}
						}
						out.add(pi, space.CellDof(sc, b), toScalar[T](sum))
					}
				case opDoubleLayer:
					ny := g.Normal(sc)
					sum := complex(dlStatic(x, g.Vertices(sc)), 0)
					if a.helmholtz {
						area2 := 2 * g.Area(sc)
						for q := range corr.w {
							y := g.ToPhysical(sc, corr.xi[q], corr.eta[q])
							sum += complex(corr.w[q]*area2, 0) *
								(HelmholtzGreenDy{K: k}.Eval(x, y, r3.Vec{}, ny) - LaplaceGreenDy{}.Eval(x, y, r3.Vec{}, ny))
						}
					}
					out.add(pi, space.CellDof(sc, 0), toScalar[T](sum))
				}
			}
			return nil
		})
	}
	eg.Wait()
	return out
}
