// Copyright ©2024 The Fastsolve Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bem

import (
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/spatial/r3"
)

// Dense is a row-major matrix of operator entries.
type Dense[T Scalar] struct {
	Rows, Cols int
	Data       []T
}

// NewDense returns a zeroed r×c matrix.
func NewDense[T Scalar](r, c int) *Dense[T] {
	return &Dense[T]{Rows: r, Cols: c, Data: make([]T, r*c)}
}

// At returns the entry at row i, column j.
func (d *Dense[T]) At(i, j int) T { return d.Data[i*d.Cols+j] }

func (d *Dense[T]) add(i, j int, v T) { d.Data[i*d.Cols+j] += v }

type operatorKind int

const (
	opSingleLayer operatorKind = iota
	opDoubleLayer
	opAdjointDoubleLayer
	opHypersingular
)

// A BoundaryAssembler assembles dense Galerkin matrices of one
// boundary operator. The zero value is not usable; construct values
// with the operator constructors.
type BoundaryAssembler[T Scalar] struct {
	kind       operatorKind
	wavenumber float64
	helmholtz  bool

	// Outer quadrature orders for disjoint and vertex-sharing cell
	// pairs.
	regularN  int
	singularN int
}

func newAssembler[T Scalar](kind operatorKind, helmholtz bool, wavenumber float64) *BoundaryAssembler[T] {
	return &BoundaryAssembler[T]{
		kind:       kind,
		wavenumber: wavenumber,
		helmholtz:  helmholtz,
		regularN:   8,
		singularN:  20,
	}
}

// NewLaplaceSingleLayerAssembler returns an assembler for the Laplace
// single layer boundary operator.
func NewLaplaceSingleLayerAssembler() *BoundaryAssembler[float64] {
	return newAssembler[float64](opSingleLayer, false, 0)
}

// NewLaplaceDoubleLayerAssembler returns an assembler for the Laplace
// double layer boundary operator.
func NewLaplaceDoubleLayerAssembler() *BoundaryAssembler[float64] {
	return newAssembler[float64](opDoubleLayer, false, 0)
}

// NewLaplaceAdjointDoubleLayerAssembler returns an assembler for the
// Laplace adjoint double layer boundary operator.
func NewLaplaceAdjointDoubleLayerAssembler() *BoundaryAssembler[float64] {
	return newAssembler[float64](opAdjointDoubleLayer, false, 0)
}

// NewLaplaceHypersingularAssembler returns an assembler for the
// Laplace hypersingular boundary operator in its integration-by-parts
// form.
func NewLaplaceHypersingularAssembler() *BoundaryAssembler[float64] {
	return newAssembler[float64](opHypersingular, false, 0)
}

// NewHelmholtzSingleLayerAssembler returns an assembler for the
// Helmholtz single layer boundary operator at the given wavenumber.
func NewHelmholtzSingleLayerAssembler(k float64) *BoundaryAssembler[complex128] {
	return newAssembler[complex128](opSingleLayer, true, k)
}

// NewHelmholtzDoubleLayerAssembler returns an assembler for the
// Helmholtz double layer boundary operator at the given wavenumber.
func NewHelmholtzDoubleLayerAssembler(k float64) *BoundaryAssembler[complex128] {
	return newAssembler[complex128](opDoubleLayer, true, k)
}

// NewHelmholtzAdjointDoubleLayerAssembler returns an assembler for the
// Helmholtz adjoint double layer boundary operator at the given
// wavenumber.
func NewHelmholtzAdjointDoubleLayerAssembler(k float64) *BoundaryAssembler[complex128] {
	return newAssembler[complex128](opAdjointDoubleLayer, true, k)
}

// NewHelmholtzHypersingularAssembler returns an assembler for the
// Helmholtz hypersingular boundary operator at the given wavenumber.
func NewHelmholtzHypersingularAssembler(k float64) *BoundaryAssembler[complex128] {
	return newAssembler[complex128](opHypersingular, true, k)
}

// QuadratureOrders sets the one-dimensional Gauss orders used for
// disjoint and for vertex-sharing cell pairs.
func (a *BoundaryAssembler[T]) QuadratureOrders(regular, singular int) {
	a.regularN = regular
	a.singularN = singular
}

// AssembleDense assembles the full Galerkin matrix of the operator
// with test functions from testSpace and trial functions from
// trialSpace. Both spaces must share a grid.
func (a *BoundaryAssembler[T]) AssembleDense(testSpace, trialSpace *Space) *Dense[T] {
	if testSpace.Grid() != trialSpace.Grid() {
		panic("bem: test and trial spaces on different grids")
	}
	if a.kind == opDoubleLayer || a.kind == opAdjointDoubleLayer {
		if testSpace.Degree() != 0 || trialSpace.Degree() != 0 {
			panic("bem: double layer assembly requires piecewise constant spaces")
		}
	}
	g := testSpace.Grid()
	out := NewDense[T](testSpace.Size(), trialSpace.Size())

	regular := triangleRule(a.regularN)
	singular := triangleRule(a.singularN)

	ncells := g.NCells()
	workers := runtime.GOMAXPROCS(0)
	var eg errgroup.Group
	eg.SetLimit(workers)
	// Batch by test cell: every pair writes disjoint dof rows only for
	// discontinuous test spaces, so continuous spaces serialize through
	// per-row accumulation buffers merged afterwards.
	partial := make([]*Dense[T], ncells)
	for tc := 0; tc < ncells; tc++ {
		tc := tc
		eg.Go(func() error {
			local := NewDense[T](testSpace.NBasis(), trialSpace.Size())
			for sc := 0; sc < ncells; sc++ {
				qr := regular
				if sharesVertex(g.Cell(tc), g.Cell(sc)) {
					qr = singular
				}
				a.assemblePair(local, testSpace, trialSpace, tc, sc, qr)
			}
			partial[tc] = local
			return nil
		})
	}
	eg.Wait()

	for tc := 0; tc < ncells; tc++ {
		for b := 0; b < testSpace.NBasis(); b++ {
			row := testSpace.CellDof(tc, b)
			for j := 0; j < trialSpace.Size(); j++ {
				out.add(row, j, partial[tc].At(b, j))
			}
		}
	}
	return out
}

func sharesVertex(a, b [3]int) bool {
	for _, i := range a {
		for _, j := range b {
			if i == j {
				return true
			}
		}
	}
	return false
}

// assemblePair adds the contribution of one (test, trial) cell pair to
// the local rows of the test cell's basis functions.
func (a *BoundaryAssembler[T]) assemblePair(local *Dense[T], testSpace, trialSpace *Space, tc, sc int, outer rule) {
	switch a.kind {
	case opSingleLayer:
		a.singleLayerPair(local, testSpace, trialSpace, tc, sc, outer)
	case opDoubleLayer:
		a.doubleLayerPair(local, testSpace, trialSpace, tc, sc, outer, false)
	case opAdjointDoubleLayer:
		a.doubleLayerPair(local, testSpace, trialSpace, tc, sc, outer, true)
	case opHypersingular:
		a.hypersingularPair(local, testSpace, trialSpace, tc, sc, outer)
	default:
		panic(fmt.Sprintf("bem: unknown operator kind %d", a.kind))
	}
}

// slInner returns ∫ λ_b(y)·G(x,y) dS over the trial cell: the static
// part in closed form plus the smooth Helmholtz remainder by
// quadrature.
func (a *BoundaryAssembler[T]) slInner(trialSpace *Space, sc int, b int, x r3.Vec, corr rule) complex128 {
	g := trialSpace.Grid()
	v := g.Vertices(sc)

	var stat float64
	if trialSpace.Degree() == 0 {
		stat = intOneOverR(x, v)
	} else {
		stat = linearOverR(x, v, b)
	}
	sum := complex(inv4Pi*stat, 0)

	if a.helmholtz {
		k := a.wavenumber
		area2 := 2 * g.Area(sc)
		for q := range corr.w {
			y := g.ToPhysical(sc, corr.xi[q], corr.eta[q])
			r := dist(x, y)
			var c complex128
			if r < 1e-14 {
				c = complex(0, k*inv4Pi)
			} else {
				c = complex(inv4Pi/r, 0) * (eix(k*r) - 1)
			}
			sum += complex(corr.w[q]*area2*trialSpace.Basis(b, corr.xi[q], corr.eta[q]), 0) * c
		}
	}
	return sum
}

// singleLayerPair accumulates ∫∫ φ_a(x) G(x,y) ψ_b(y).
func (a *BoundaryAssembler[T]) singleLayerPair(local *Dense[T], testSpace, trialSpace *Space, tc, sc int, outer rule) {
	g := testSpace.Grid()
	area2 := 2 * g.Area(tc)
	for q := range outer.w {
		x := g.ToPhysical(tc, outer.xi[q], outer.eta[q])
		wq := outer.w[q] * area2
		for b := 0; b < trialSpace.NBasis(); b++ {
			inner := a.slInner(trialSpace, sc, b, x, outer)
			col := trialSpace.CellDof(sc, b)
			for t := 0; t < testSpace.NBasis(); t++ {
				phi := testSpace.Basis(t, outer.xi[q], outer.eta[q])
				local.add(t, col, toScalar[T](complex(wq*phi, 0)*inner))
			}
		}
	}
}

// doubleLayerPair accumulates the double layer (or, with swap, the
// adjoint double layer) pair contribution for piecewise constants.
func (a *BoundaryAssembler[T]) doubleLayerPair(local *Dense[T], testSpace, trialSpace *Space, tc, sc int, outer rule, adjoint bool) {
	g := testSpace.Grid()

	// The adjoint kernel satisfies ∂G/∂n_x(x,y) = ∂G/∂n_y(y,x), so the
	// adjoint pair integral is the double layer integral with the cell
	// roles exchanged.
	ox, oy := tc, sc
	if adjoint {
		ox, oy = sc, tc
	}
	vy := g.Vertices(oy)
	ny := g.Normal(oy)
	nx := g.Normal(ox)
	area2 := 2 * g.Area(ox)

	var sum complex128
	k := a.wavenumber
	for q := range outer.w {
		x := g.ToPhysical(ox, outer.xi[q], outer.eta[q])
		inner := complex(dlStatic(x, vy), 0)
		if a.helmholtz {
			carea := 2 * g.Area(oy)
			for p := range outer.w {
				y := g.ToPhysical(oy, outer.xi[p], outer.eta[p])
				r := dist(x, y)
				var c complex128
				if r < 1e-14 {
					c = 0
				} else {
					// Subtract the static part already integrated in
					// closed form.
					c = HelmholtzGreenDy{K: k}.Eval(x, y, nx, ny) - LaplaceGreenDy{}.Eval(x, y, nx, ny)
				}
				inner += complex(outer.w[p]*carea, 0) * c
			}
		}
		sum += complex(outer.w[q]*area2, 0) * inner
	}
	local.add(0, trialSpace.CellDof(sc, 0), toScalar[T](sum))
}

// hypersingularPair accumulates the integration-by-parts form: the
// surface curls contract against the single layer pair integral, and
// for Helmholtz the zeroth-order −k²(n_x·n_y)G term is added.
func (a *BoundaryAssembler[T]) hypersingularPair(local *Dense[T], testSpace, trialSpace *Space, tc, sc int, outer rule) {
	g := testSpace.Grid()
	area2 := 2 * g.Area(tc)

	// ∫∫ G over the pair, constant densities.
	var pair complex128
	for q := range outer.w {
		x := g.ToPhysical(tc, outer.xi[q], outer.eta[q])
		pair += complex(outer.w[q]*area2, 0) * a.slInnerConst(trialSpace, sc, x, outer)
	}
	for t := 0; t < testSpace.NBasis(); t++ {
		ct := testSpace.SurfaceCurl(tc, t)
		for b := 0; b < trialSpace.NBasis(); b++ {
			cb := trialSpace.SurfaceCurl(sc, b)
			local.add(t, trialSpace.CellDof(sc, b), toScalar[T](complex(r3.Dot(ct, cb), 0)*pair))
		}
	}

	if !a.helmholtz {
		return
	}
	k := a.wavenumber
	nn := r3.Dot(g.Normal(tc), g.Normal(sc))
	for q := range outer.w {
		x := g.ToPhysical(tc, outer.xi[q], outer.eta[q])
		wq := outer.w[q] * area2
		for b := 0; b < trialSpace.NBasis(); b++ {
			inner := a.slInner(trialSpace, sc, b, x, outer)
			col := trialSpace.CellDof(sc, b)
			for t := 0; t < testSpace.NBasis(); t++ {
				phi := testSpace.Basis(t, outer.xi[q], outer.eta[q])
				local.add(t, col, toScalar[T](complex(-k*k*nn*wq*phi, 0)*inner))
			}
		}
	}
}

// slInnerConst is slInner for a unit density.
func (a *BoundaryAssembler[T]) slInnerConst(trialSpace *Space, sc int, x r3.Vec, corr rule) complex128 {
	g := trialSpace.Grid()
	stat := intOneOverR(x, g.Vertices(sc))
	sum := complex(inv4Pi*stat, 0)
	if a.helmholtz {
		k := a.wavenumber
		area2 := 2 * g.Area(sc)
		for q := range corr.w {
			y := g.ToPhysical(sc, corr.xi[q], corr.eta[q])
			r := dist(x, y)
			var c complex128
			if r < 1e-14 {
				c = complex(0, k*inv4Pi)
			} else {
				c = complex(inv4Pi/r, 0) * (eix(k*r) - 1)
			}
			sum += complex(corr.w[q]*area2, 0) * c
		}
	}
	return sum
}
