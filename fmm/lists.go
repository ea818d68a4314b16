// Copyright ©2024 The Fastsolve Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fmm

import (
	"gonum.org/v1/gonum/mat"

	"github.com/fast-solvers/fastsolve/morton"
)

// uList returns the leaves adjacent to the leaf k, including k itself:
// the near-field sources evaluated directly.
func (f *Fmm) uList(k morton.Key) []morton.Key {
	out := []morton.Key{k}
	// Same level and finer: descend through adjacent neighbors.
	for _, n := range k.Neighbors() {
		if !f.tree.ContainsKey(n) {
			continue
		}
		if f.tree.IsLeaf(n) {
			out = append(out, n)
			continue
		}
		for _, l := range f.tree.LeavesWithin(n) {
			if l.IsAdjacent(k) {
				out = append(out, l)
			}
		}
	}
	// Coarser: leaves among the neighbors of k's ancestors.
	for a := k; a.Level() > 1; {
		a = a.Parent()
		for _, n := range a.Neighbors() {
			if f.tree.IsLeaf(n) && n.IsAdjacent(k) {
				out = append(out, n)
			}
		}
	}
	return out
}

// vList returns the same-level boxes translated into k by M2L: the
// children of the neighbors of k's parent that are in the tree and not
// adjacent to k.
func (f *Fmm) vList(k morton.Key) []morton.Key {
	var out []morton.Key
	for _, pn := range k.Parent().Neighbors() {
		for _, c := range pn.Children() {
			if f.tree.ContainsKey(c) && !k.IsAdjacent(c) {
				out = append(out, c)
			}
		}
	}
	return out
}

// wList returns the children of the leaf k's neighbors that are in the
// tree but not adjacent to k; their multipoles are evaluated directly
// at k's points.
func (f *Fmm) wList(k morton.Key) []morton.Key {
	var out []morton.Key
	for _, n := range k.Neighbors() {
		if !f.tree.ContainsKey(n) || f.tree.IsLeaf(n) {
			continue
		}
		for _, c := range n.Children() {
			if f.tree.ContainsKey(c) && !c.IsAdjacent(k) {
				out = append(out, c)
			}
		}
	}
	return out
}

// xList returns the leaves among the neighbors of k's parent that are
// not adjacent to k; their points contribute to k's local expansion
// through P2L. It is the dual of wList.
func (f *Fmm) xList(k morton.Key) []morton.Key {
	if k.Level() < 1 {
		return nil
	}
	var out []morton.Key
	for _, n := range k.Parent().Neighbors() {
		if f.tree.IsLeaf(n) && !n.IsAdjacent(k) {
			out = append(out, n)
		}
	}
	return out
}

// p2p adds the near-field contribution of every adjacent source leaf
// to each leaf's points.
func (f *Fmm) p2p() {
	leaves := f.tree.Leaves()
	parallel(len(leaves), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			target := leaves[i]
			tlo, thi := f.tree.CoordinateRange(target)
			if tlo == thi {
				continue
			}
			targets := f.tree.Coordinates(target)
			out := make([]float64, thi-tlo)
			for _, src := range f.uList(target) {
				slo, shi := f.tree.CoordinateRange(src)
				if slo == shi {
					continue
				}
				sources := f.tree.Coordinates(src)
				for r := 0; r < f.nrhs; r++ {
					clearSlice(out)
					f.kern.Evaluate(sources, targets, f.chargeColumn(slo, shi, r), out)
					for j := range out {
						f.potentials[(tlo+j)*f.nrhs+r] += out[j]
					}
				}
			}
		}
	})
}

// P2L folds the X-list sources of every box at the given level through
// the downward check surface into its local expansion. On a uniformly
// refined tree every X-list is empty and P2L is a no-op.
func (f *Fmm) P2L(level uint64) {
	if level < 2 {
		panic("fmm: P2L undefined at levels coarser than 2")
	}
	targets := f.tree.Keys(level)
	if len(targets) == 0 {
		return
	}
	parallel(len(targets), func(lo, hi int) {
		check := make([]float64, f.ncoeffs)
		pot := mat.NewVecDense(f.ncoeffs, nil)
		tmp := mat.NewVecDense(rows(f.ops.dc2eInv2), nil)
		out := mat.NewVecDense(f.ncoeffs, nil)
		for i := lo; i < hi; i++ {
			target := targets[i]
			xl := f.xList(target)
			if len(xl) == 0 {
				continue
			}

			downCheck := surface(f.order, f.tree.Domain().Center(target), f.tree.Domain().Width(level)/2, alphaInner)
			scale := f.kern.Scale(level)
			for r := 0; r < f.nrhs; r++ {
				clearSlice(check)
				touched := false
				for _, src := range xl {
					slo, shi := f.tree.CoordinateRange(src)
					if slo == shi {
						continue
					}
					touched = true
					f.kern.Evaluate(f.tree.Coordinates(src), downCheck, f.chargeColumn(slo, shi, r), check)
				}
				if !touched {
					continue
				}
				pot.SetRawVector(rawVec(check))
				tmp.MulVec(f.ops.dc2eInv2, pot)
				out.MulVec(f.ops.dc2eInv1, tmp)
				dst := block(f.locals[level], i, f.nrhs, r, f.ncoeffs)
				for j := 0; j < f.ncoeffs; j++ {
					dst[j] += scale * out.AtVec(j)
				}
			}
		}
	})
}

// m2p evaluates the multipoles of each leaf's W-list directly at the
// leaf's points. On a uniformly refined tree every W-list is empty.
func (f *Fmm) m2p() {
	leaves := f.tree.Leaves()
	parallel(len(leaves), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			target := leaves[i]
			tlo, thi := f.tree.CoordinateRange(target)
			if tlo == thi {
				continue
			}
			targets := f.tree.Coordinates(target)
			out := make([]float64, thi-tlo)
			for _, src := range f.wList(target) {
				upEquiv := surface(f.order, f.tree.Domain().Center(src), f.tree.Domain().Width(src.Level())/2, alphaInner)
				for r := 0; r < f.nrhs; r++ {
					clearSlice(out)
					f.kern.Evaluate(upEquiv, targets, f.Multipole(src, r), out)
					for j := range out {
						f.potentials[(tlo+j)*f.nrhs+r] += out[j]
					}
				}
			}
		}
	})
}
