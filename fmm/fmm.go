// Copyright ©2024 The Fastsolve Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fmm

import (
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/mat"

	"github.com/fast-solvers/fastsolve/kernel"
	"github.com/fast-solvers/fastsolve/morton"
	"github.com/fast-solvers/fastsolve/octree"
)

// A FieldTranslation performs the multipole-to-local step of the
// downward pass for one concrete acceleration scheme. The two
// implementations are FFTTranslation and BLASTranslation.
type FieldTranslation interface {
	// M2L additively contributes the V-list interactions of the given
	// level into the local buffers of f. All multipoles at the level
	// must be final.
	M2L(f *Fmm, level uint64)

	// Displacements returns the per-level displacement table used by
	// M2L; it is exposed for verification.
	Displacements(f *Fmm, level uint64) [][]int

	// Order returns the expansion order the translation operators were
	// calibrated for.
	Order() int

	sealed()
}

// Fmm evaluates potentials of a scale-invariant kernel over a point
// cloud using the kernel-independent fast multipole method.
//
// The zero value is not usable; construct values with New. An Fmm owns
// its expansion buffers exclusively; the slices handed out by
// Multipole and Local alias them and follow the aliasing discipline of
// the translation schedule.
type Fmm struct {
	tree  *octree.Tree
	kern  kernel.Kernel
	trans FieldTranslation

	order   int
	ncoeffs int
	nrhs    int

	ops *operators

	// multipoles[l] and locals[l] hold the expansion coefficients of
	// every key of level l, keys slowest, right-hand sides next,
	// coefficients fastest.
	multipoles [][]float64
	locals     [][]float64

	charges    []float64
	potentials []float64
}

// New returns an Fmm over the given tree. The translation must have
// been built for the same kernel, order, and domain. nrhs is the
// number of simultaneous right-hand sides; FFT translations support
// only nrhs = 1.
func New(tree *octree.Tree, kern kernel.Kernel, trans FieldTranslation, nrhs int) *Fmm {
	if nrhs < 1 {
		panic(fmt.Sprintf("fmm: non-positive right-hand side count %d", nrhs))
	}
	if _, ok := trans.(*FFTTranslation); ok && nrhs != 1 {
		panic("fmm: FFT translation supports a single right-hand side")
	}
	order := trans.Order()
	f := &Fmm{
		tree:    tree,
		kern:    kern,
		trans:   trans,
		order:   order,
		ncoeffs: NCoeffs(order),
		nrhs:    nrhs,
		ops:     newOperators(kern, order, tree.Domain()),
	}
	depth := tree.Depth()
	f.multipoles = make([][]float64, depth+1)
	f.locals = make([][]float64, depth+1)
	for l := uint64(0); l <= depth; l++ {
		n := len(tree.Keys(l)) * f.ncoeffs * nrhs
		f.multipoles[l] = make([]float64, n)
		f.locals[l] = make([]float64, n)
	}
	f.charges = make([]float64, tree.NPoints()*nrhs)
	f.potentials = make([]float64, tree.NPoints()*nrhs)
	return f
}

// Tree returns the octree the Fmm operates on.
func (f *Fmm) Tree() *octree.Tree { return f.tree }

// NRHS returns the number of simultaneous right-hand sides.
func (f *Fmm) NRHS() int { return f.nrhs }

// block returns the coefficient block of the key at slot idx of the
// given level buffer for right-hand side r.
func block(buf []float64, idx, nrhs, r, ncoeffs int) []float64 {
	o := (idx*nrhs + r) * ncoeffs
	return buf[o : o+ncoeffs]
}

// Multipole returns the multipole coefficients of k for right-hand
// side r. The slice aliases the level buffer.
func (f *Fmm) Multipole(k morton.Key, r int) []float64 {
	level := k.Level()
	idx, ok := f.tree.KeyIndex(level, k)
	if !ok {
		panic(fmt.Sprintf("fmm: key %v not in tree", k))
	}
	return block(f.multipoles[level], idx, f.nrhs, r, f.ncoeffs)
}

// Local returns the local coefficients of k for right-hand side r.
// The slice aliases the level buffer.
func (f *Fmm) Local(k morton.Key, r int) []float64 {
	level := k.Level()
	idx, ok := f.tree.KeyIndex(level, k)
	if !ok {
		panic(fmt.Sprintf("fmm: key %v not in tree", k))
	}
	return block(f.locals[level], idx, f.nrhs, r, f.ncoeffs)
}

// SetCharges stores the source charges, given in the input point order
// with right-hand sides fastest: charges[i*nrhs+r] is the r-th charge
// of input point i.
func (f *Fmm) SetCharges(charges []float64) {
	if len(charges) != f.tree.NPoints()*f.nrhs {
		panic(fmt.Sprintf("fmm: charge slice length %d, want %d", len(charges), f.tree.NPoints()*f.nrhs))
	}
	for i := 0; i < f.tree.NPoints(); i++ {
		orig := f.tree.OriginalIndex(i)
		copy(f.charges[i*f.nrhs:(i+1)*f.nrhs], charges[orig*f.nrhs:(orig+1)*f.nrhs])
	}
}

// Potentials returns the evaluated potentials in the input point
// order, right-hand sides fastest.
func (f *Fmm) Potentials() []float64 {
	out := make([]float64, len(f.potentials))
	for i := 0; i < f.tree.NPoints(); i++ {
		orig := f.tree.OriginalIndex(i)
		copy(out[orig*f.nrhs:(orig+1)*f.nrhs], f.potentials[i*f.nrhs:(i+1)*f.nrhs])
	}
	return out
}

// Clear zeroes all expansion and potential buffers so the Fmm can be
// reused with new charges.
func (f *Fmm) Clear() {
	for l := range f.multipoles {
		clearSlice(f.multipoles[l])
		clearSlice(f.locals[l])
	}
	clearSlice(f.potentials)
}

func clearSlice(s []float64) {
	for i := range s {
		s[i] = 0
	}
}

// Evaluate runs the complete pass: upward sweep, level-by-level
// downward translations, and the near-field correction. Potentials
// accumulate into the potential buffer, which Evaluate first clears
// along with all expansions.
func (f *Fmm) Evaluate() {
	f.Clear()
	depth := f.tree.Depth()

	f.p2m()
	for l := depth; l >= 1; l-- {
		f.m2m(l)
	}
	for l := uint64(2); l <= depth; l++ {
		f.trans.M2L(f, l)
		f.P2L(l)
		if l < depth {
			f.l2l(l)
		}
	}
	f.m2p()
	f.l2p()
	f.p2p()
}

// M2L additively contributes the V-list interactions of the given
// level into the local buffers. It is exposed so the downward pass can
// be driven level by level; Evaluate calls it for every level.
func (f *Fmm) M2L(level uint64) { f.trans.M2L(f, level) }

// parallel runs fn over contiguous shards of [0, n) using the
// available workers and waits for completion.
func parallel(n int, fn func(lo, hi int)) {
	workers := runtime.GOMAXPROCS(0)
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		if n > 0 {
			fn(0, n)
		}
		return
	}
	var eg errgroup.Group
	chunk := (n + workers - 1) / workers
	for lo := 0; lo < n; lo += chunk {
		hi := lo + chunk
		if hi > n {
			hi = n
		}
		lo, hi := lo, hi
		eg.Go(func() error {
			fn(lo, hi)
			return nil
		})
	}
	eg.Wait()
}

// p2m forms the multipole expansion of every leaf from its charges.
func (f *Fmm) p2m() {
	leaves := f.tree.Leaves()
	parallel(len(leaves), func(lo, hi int) {
		check := make([]float64, f.ncoeffs)
		pot := mat.NewVecDense(f.ncoeffs, nil)
		tmp := mat.NewVecDense(rows(f.ops.uc2eInv2), nil)
		equiv := mat.NewVecDense(f.ncoeffs, nil)
		for i := lo; i < hi; i++ {
			leaf := leaves[i]
			plo, phi := f.tree.CoordinateRange(leaf)
			if plo == phi {
				continue
			}
			coords := f.tree.Coordinates(leaf)
			level := leaf.Level()
			upCheck := surface(f.order, f.tree.Domain().Center(leaf), f.tree.Domain().Width(level)/2, alphaOuter)
			scale := f.kern.Scale(level)
			for r := 0; r < f.nrhs; r++ {
				clearSlice(check)
				f.kern.Evaluate(coords, upCheck, f.chargeColumn(plo, phi, r), check)
				pot.SetRawVector(rawVec(check))
				tmp.MulVec(f.ops.uc2eInv2, pot)
				equiv.MulVec(f.ops.uc2eInv1, tmp)
				m := f.Multipole(leaf, r)
				for j := 0; j < f.ncoeffs; j++ {
					m[j] += scale * equiv.AtVec(j)
				}
			}
		}
	})
}

// chargeColumn gathers the charges of points [lo, hi) for right-hand
// side r.
func (f *Fmm) chargeColumn(lo, hi, r int) []float64 {
	if f.nrhs == 1 {
		return f.charges[lo:hi]
	}
	out := make([]float64, hi-lo)
	for i := lo; i < hi; i++ {
		out[i-lo] = f.charges[i*f.nrhs+r]
	}
	return out
}

// m2m translates the multipoles of the given level into their parents.
func (f *Fmm) m2m(level uint64) {
	keys := f.tree.Keys(level)
	if len(keys) == 0 {
		return
	}
	parent := level - 1
	nparents := len(keys) / nsiblings
	parallel(nparents, func(lo, hi int) {
		child := mat.NewVecDense(f.ncoeffs, nil)
		out := mat.NewVecDense(f.ncoeffs, nil)
		for pi := lo; pi < hi; pi++ {
			p := keys[pi*nsiblings].Parent()
			pIdx, ok := f.tree.KeyIndex(parent, p)
			if !ok {
				panic(fmt.Sprintf("fmm: parent %v not in tree", p))
			}
			for r := 0; r < f.nrhs; r++ {
				dst := block(f.multipoles[parent], pIdx, f.nrhs, r, f.ncoeffs)
				for s := 0; s < nsiblings; s++ {
					src := block(f.multipoles[level], pi*nsiblings+s, f.nrhs, r, f.ncoeffs)
					child.SetRawVector(rawVec(src))
					out.MulVec(f.ops.m2m[s], child)
					for j := 0; j < f.ncoeffs; j++ {
						dst[j] += out.AtVec(j)
					}
				}
			}
		}
	})
}

// l2l translates the locals of the given level into their children.
func (f *Fmm) l2l(level uint64) {
	keys := f.tree.Keys(level)
	childLevel := level + 1
	parallel(len(keys), func(lo, hi int) {
		loc := mat.NewVecDense(f.ncoeffs, nil)
		out := mat.NewVecDense(f.ncoeffs, nil)
		for i := lo; i < hi; i++ {
			k := keys[i]
			first := k.FirstChild()
			base, ok := f.tree.KeyIndex(childLevel, first)
			if !ok {
				continue
			}
			for r := 0; r < f.nrhs; r++ {
				src := block(f.locals[level], i, f.nrhs, r, f.ncoeffs)
				loc.SetRawVector(rawVec(src))
				for s := 0; s < nsiblings; s++ {
					out.MulVec(f.ops.l2l[s], loc)
					dst := block(f.locals[childLevel], base+s, f.nrhs, r, f.ncoeffs)
					for j := 0; j < f.ncoeffs; j++ {
						dst[j] += out.AtVec(j)
					}
				}
			}
		}
	})
}

// l2p evaluates each leaf's local expansion at its own points.
func (f *Fmm) l2p() {
	leaves := f.tree.Leaves()
	parallel(len(leaves), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			leaf := leaves[i]
			plo, phi := f.tree.CoordinateRange(leaf)
			if plo == phi {
				continue
			}
			coords := f.tree.Coordinates(leaf)
			downEquiv := surface(f.order, f.tree.Domain().Center(leaf), f.tree.Domain().Width(leaf.Level())/2, alphaOuter)
			out := make([]float64, phi-plo)
			for r := 0; r < f.nrhs; r++ {
				clearSlice(out)
				f.kern.Evaluate(downEquiv, coords, f.Local(leaf, r), out)
				for j := range out {
					f.potentials[(plo+j)*f.nrhs+r] += out[j]
				}
			}
		}
	})
}

func rows(m *mat.Dense) int {
	r, _ := m.Dims()
	return r
}

func rawVec(s []float64) blas64.Vector { return blas64.Vector{N: len(s), Inc: 1, Data: s} }
