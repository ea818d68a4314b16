// Copyright ©2024 The Fastsolve Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fmm

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/floats"

	"github.com/fast-solvers/fastsolve/kernel"
	"github.com/fast-solvers/fastsolve/octree"
)

// directPotentials sums the kernel over all pairs in the input order.
func directPotentials(kern kernel.Kernel, points, charges []float64) []float64 {
	out := make([]float64, len(points)/3)
	kern.Evaluate(points, points, charges, out)
	return out
}

// TestUniformFFTConvergence reconstructs potentials of a unit-charge
// cloud with the FFT translation at depth 3, order 6, and compares
// against direct summation.
func TestUniformFFTConvergence(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping convergence test in short mode")
	}
	const (
		order   = 6
		npoints = 1500
	)
	points := uniformCloud(npoints, 101)
	charges := make([]float64, npoints)
	for i := range charges {
		charges[i] = 1
	}
	tree, err := octree.NewUniform(points, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	trans := NewFFTTranslation(kernel.Laplace3D{}, order, tree.Domain())
	f := New(tree, kernel.Laplace3D{}, trans, 1)
	f.SetCharges(charges)
	f.Evaluate()

	got := f.Potentials()
	want := directPotentials(kernel.Laplace3D{}, points, charges)
	num, den := 0.0, 0.0
	for i := range got {
		num += (got[i] - want[i]) * (got[i] - want[i])
		den += want[i] * want[i]
	}
	if rel := math.Sqrt(num / den); rel > 1e-5 {
		t.Errorf("relative error %v exceeds 1e-5", rel)
	}
}

// TestBLASMatchesFFT compares the two translation paths pointwise on
// identical inputs at a cutoff rank high enough for the compression
// error to vanish below the FFT path's rounding.
func TestBLASMatchesFFT(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping equivalence test in short mode")
	}
	const (
		order  = 6
		cutoff = 60
	)
	points := uniformCloud(1500, 101)
	charges := make([]float64, len(points)/3)
	for i := range charges {
		charges[i] = 1
	}
	tree, err := octree.NewUniform(points, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	fft := New(tree, kernel.Laplace3D{}, NewFFTTranslation(kernel.Laplace3D{}, order, tree.Domain()), 1)
	fft.SetCharges(charges)
	fft.Evaluate()
	want := fft.Potentials()

	blas := New(tree, kernel.Laplace3D{}, NewBLASTranslation(kernel.Laplace3D{}, order, tree.Domain(), cutoff), 1)
	blas.SetCharges(charges)
	blas.Evaluate()
	got := blas.Potentials()

	scale := floats.Norm(want, 2) / math.Sqrt(float64(len(want)))
	for i := range got {
		if math.Abs(got[i]-want[i])/scale > 1e-6 {
			t.Errorf("point %d: BLAS %v vs FFT %v", i, got[i], want[i])
		}
	}
}

// TestMatrixModeMatchesVectorRuns drives the BLAS path with three
// right-hand sides at once and compares each against a vector-mode
// run.
func TestMatrixModeMatchesVectorRuns(t *testing.T) {
	const (
		order = 3
		nrhs  = 3
	)
	points := uniformCloud(500, 33)
	n := len(points) / 3
	tree, err := octree.NewUniform(points, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	trans := NewBLASTranslation(kernel.Laplace3D{}, order, tree.Domain(), NCoeffs(order))

	charges := make([]float64, n*nrhs)
	for i := range charges {
		charges[i] = float64(i%17) - 8
	}

	fm := New(tree, kernel.Laplace3D{}, trans, nrhs)
	fm.SetCharges(charges)
	fm.Evaluate()
	got := fm.Potentials()

	for r := 0; r < nrhs; r++ {
		col := make([]float64, n)
		for i := 0; i < n; i++ {
			col[i] = charges[i*nrhs+r]
		}
		fv := New(tree, kernel.Laplace3D{}, trans, 1)
		fv.SetCharges(col)
		fv.Evaluate()
		want := fv.Potentials()
		for i := 0; i < n; i++ {
			if math.Abs(got[i*nrhs+r]-want[i]) > 1e-10*(1+math.Abs(want[i])) {
				t.Errorf("rhs %d point %d: matrix %v vs vector %v", r, i, got[i*nrhs+r], want[i])
				break
			}
		}
	}
}
