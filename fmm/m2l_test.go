// Copyright ©2024 The Fastsolve Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fmm

import (
	"math"
	"math/rand"
	"runtime"
	"testing"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/fast-solvers/fastsolve/kernel"
	"github.com/fast-solvers/fastsolve/octree"
)

func uniformCloud(n int, seed int64) []float64 {
	rnd := rand.New(rand.NewSource(seed))
	p := make([]float64, 3*n)
	for i := range p {
		p[i] = rnd.Float64()
	}
	return p
}

// upward runs the source pass so level multipoles are final.
func (f *Fmm) upward() {
	f.p2m()
	for l := f.tree.Depth(); l >= 1; l-- {
		f.m2m(l)
	}
}

// denseLocal computes the reference local coefficients of one target
// box by direct kernel evaluation over its V-list.
func denseLocal(f *Fmm, level uint64, i int, r int) []float64 {
	tk := f.tree.Keys(level)[i]
	d := f.tree.Domain()
	half := d.Width(level) / 2
	downCheck := surface(f.order, d.Center(tk), half, alphaInner)

	check := make([]float64, f.ncoeffs)
	for _, src := range f.vList(tk) {
		upEquiv := surface(f.order, d.Center(src), half, alphaInner)
		f.kern.Evaluate(upEquiv, downCheck, f.Multipole(src, r), check)
	}

	pot := mat.NewVecDense(f.ncoeffs, check)
	tmp := mat.NewVecDense(rows(f.ops.dc2eInv2), nil)
	out := mat.NewVecDense(f.ncoeffs, nil)
	tmp.MulVec(f.ops.dc2eInv2, pot)
	out.MulVec(f.ops.dc2eInv1, tmp)
	scale := f.kern.Scale(level)
	loc := make([]float64, f.ncoeffs)
	for j := range loc {
		loc[j] = scale * out.AtVec(j)
	}
	return loc
}

func maxRelDiff(got, want []float64) float64 {
	norm := floats.Norm(want, 2)
	if norm == 0 {
		norm = 1
	}
	worst := 0.0
	for i := range got {
		worst = math.Max(worst, math.Abs(got[i]-want[i])/norm)
	}
	return worst
}

func TestFFTM2LMatchesDenseTranslation(t *testing.T) {
	const order = 3
	points := uniformCloud(600, 42)
	tree, err := octree.NewUniform(points, 3)
	if err != nil {
		t.Fatalf("unexpected error building tree: %v", err)
	}
	trans := NewFFTTranslation(kernel.Laplace3D{}, order, tree.Domain())
	f := chargedFmmOn(t, tree, trans, 1)

	for _, level := range []uint64{2, 3} {
		f.M2L(level)
		keys := f.tree.Keys(level)
		for i := range keys {
			want := denseLocal(f, level, i, 0)
			got := f.Local(keys[i], 0)
			if diff := maxRelDiff(got, want); diff > 1e-10 {
				t.Errorf("level %d target %d: FFT M2L deviates from dense translation by %v", level, i, diff)
			}
		}
		clearSlice(f.locals[level])
	}
}

func TestBLASM2LFullRankMatchesDenseTranslation(t *testing.T) {
	const order = 3
	points := uniformCloud(600, 42)
	tree, err := octree.NewUniform(points, 3)
	if err != nil {
		t.Fatalf("unexpected error building tree: %v", err)
	}
	trans := NewBLASTranslation(kernel.Laplace3D{}, order, tree.Domain(), NCoeffs(order))
	f := chargedFmmOn(t, tree, trans, 1)

	for _, level := range []uint64{2, 3} {
		f.M2L(level)
		keys := f.tree.Keys(level)
		for i := range keys {
			want := denseLocal(f, level, i, 0)
			got := f.Local(keys[i], 0)
			if diff := maxRelDiff(got, want); diff > 1e-9 {
				t.Errorf("level %d target %d: BLAS M2L deviates from dense translation by %v", level, i, diff)
			}
		}
		clearSlice(f.locals[level])
	}
}

// chargedFmmOn is chargedFmm over an existing tree.
func chargedFmmOn(t *testing.T, tree *octree.Tree, trans FieldTranslation, nrhs int) *Fmm {
	t.Helper()
	f := New(tree, kernel.Laplace3D{}, trans, nrhs)
	rnd := rand.New(rand.NewSource(7))
	charges := make([]float64, tree.NPoints()*nrhs)
	for i := range charges {
		charges[i] = rnd.Float64()
	}
	f.SetCharges(charges)
	f.upward()
	return f
}

func TestM2LAdditivity(t *testing.T) {
	const order = 3
	for _, build := range []struct {
		name string
		make func(d octree.Domain) FieldTranslation
	}{
		{"fft", func(d octree.Domain) FieldTranslation { return NewFFTTranslation(kernel.Laplace3D{}, order, d) }},
		{"blas", func(d octree.Domain) FieldTranslation { return NewBLASTranslation(kernel.Laplace3D{}, order, d, 20) }},
	} {
		points := uniformCloud(400, 11)
		tree, err := octree.NewUniform(points, 2)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", build.name, err)
		}
		f := chargedFmmOn(t, tree, build.make(tree.Domain()), 1)

		f.M2L(2)
		once := append([]float64(nil), f.locals[2]...)
		f.M2L(2)
		for i := range once {
			if math.Abs(f.locals[2][i]-2*once[i]) > 1e-12*(1+math.Abs(once[i])) {
				t.Errorf("%s: local %d not additive: twice=%v once=%v", build.name, i, f.locals[2][i], once[i])
				break
			}
		}
	}
}

func TestM2LSingleThreadDeterminism(t *testing.T) {
	defer runtime.GOMAXPROCS(runtime.GOMAXPROCS(1))

	const order = 3
	points := uniformCloud(500, 3)
	tree, err := octree.NewUniform(points, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	trans := NewFFTTranslation(kernel.Laplace3D{}, order, tree.Domain())

	var runs [2][]float64
	for run := 0; run < 2; run++ {
		f := chargedFmmOn(t, tree, trans, 1)
		f.M2L(3)
		runs[run] = append([]float64(nil), f.locals[3]...)
	}
	for i := range runs[0] {
		if runs[0][i] != runs[1][i] {
			t.Fatalf("single-thread M2L not bit-identical at coefficient %d", i)
		}
	}
}

func TestM2LScaleLaw(t *testing.T) {
	if got := m2lScale(2); got != 0.5 {
		t.Errorf("m2lScale(2) = %v, want 0.5", got)
	}
	for level := uint64(3); level < 10; level++ {
		want := math.Ldexp(1, int(level)-3)
		if got := m2lScale(level); got != want {
			t.Errorf("m2lScale(%d) = %v, want %v", level, got, want)
		}
	}
	defer func() {
		if recover() == nil {
			t.Error("m2lScale(1) did not panic")
		}
	}()
	m2lScale(1)
}

func TestAdaptiveP2L(t *testing.T) {
	rnd := rand.New(rand.NewSource(9))
	var points []float64
	// Heavy refinement in the low corner octant, sparse elsewhere.
	for i := 0; i < 600; i++ {
		points = append(points, rnd.Float64()*0.24, rnd.Float64()*0.24, rnd.Float64()*0.24)
	}
	for i := 0; i < 30; i++ {
		points = append(points, rnd.Float64(), rnd.Float64(), rnd.Float64())
	}
	tree, err := octree.NewAdaptive(points, 40, 6)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	const order = 3
	trans := NewFFTTranslation(kernel.Laplace3D{}, order, tree.Domain())
	f := New(tree, kernel.Laplace3D{}, trans, 1)
	charges := make([]float64, tree.NPoints())
	for i := range charges {
		charges[i] = 1
	}
	f.SetCharges(charges)

	found := false
	for level := uint64(2); level <= tree.Depth(); level++ {
		f.P2L(level)
		for i, k := range f.tree.Keys(level) {
			loc := block(f.locals[level], i, 1, 0, f.ncoeffs)
			populated := false
			for _, src := range f.xList(k) {
				if lo, hi := tree.CoordinateRange(src); lo != hi {
					populated = true
				}
			}
			if populated {
				found = true
				if floats.Norm(loc, 2) == 0 {
					t.Errorf("level %d: target %d with charged X-list has zero local", level, i)
				}
			} else if floats.Norm(loc, 2) != 0 {
				t.Errorf("level %d: target %d with empty X-list has non-zero local", level, i)
			}
		}
	}
	if !found {
		t.Fatal("no target with a charged X-list; tree not imbalanced enough")
	}
}
