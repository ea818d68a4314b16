// Copyright ©2024 The Fastsolve Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fmm

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/fast-solvers/fastsolve/kernel"
	"github.com/fast-solvers/fastsolve/morton"
	"github.com/fast-solvers/fastsolve/octree"
)

// pinvFactors returns the two factors of the Moore–Penrose inverse of
// a, pinv(a) = inv1·inv2 with inv1 = V and inv2 = Σ⁻¹Uᵀ. Singular
// values below a relative machine threshold are discarded.
func pinvFactors(a *mat.Dense) (inv1, inv2 *mat.Dense) {
	var svd mat.SVD
	if !svd.Factorize(a, mat.SVDThin) {
		panic("fmm: surface operator SVD failed")
	}
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	s := svd.Values(nil)

	m, n := a.Dims()
	dim := m
	if n > dim {
		dim = n
	}
	const eps = 2.220446049250313e-16
	tol := float64(dim) * eps * s[0]
	r := 0
	for r < len(s) && s[r] > tol {
		r++
	}
	if r == 0 {
		panic("fmm: surface operator is numerically zero")
	}

	inv1 = mat.DenseCopyOf(v.Slice(0, n, 0, r))
	ut := mat.DenseCopyOf(u.Slice(0, m, 0, r).T())
	for i := 0; i < r; i++ {
		row := ut.RawRowView(i)
		inv := 1 / s[i]
		for j := range row {
			row[j] *= inv
		}
	}
	return inv1, ut
}

// assembleDense returns the kernel matrix mapping densities on the
// source points to potentials at the target points, in target-major
// order.
func assembleDense(kern kernel.Kernel, sources, targets []float64) *mat.Dense {
	ns := len(sources) / 3
	nt := len(targets) / 3
	out := make([]float64, ns*nt)
	kern.Assemble(sources, targets, out)
	return mat.NewDense(nt, ns, out)
}

// operators holds the level-independent expansion operators of one
// (kernel, order, domain) calibration.
type operators struct {
	// Upward and downward check-to-equivalent pseudo-inverse factors,
	// calibrated at the root box.
	uc2eInv1, uc2eInv2 *mat.Dense
	dc2eInv1, dc2eInv2 *mat.Dense

	// Sibling translation operators: m2m[s] maps a child multipole to
	// its parent, l2l[s] a parent local to its s-th child.
	m2m [nsiblings]*mat.Dense
	l2l [nsiblings]*mat.Dense
}

// newOperators calibrates the expansion operators for the given kernel
// and order on the domain's root box.
func newOperators(kern kernel.Kernel, order int, domain octree.Domain) *operators {
	root := morton.Root()
	center := domain.Center(root)
	half := domain.Diameter / 2

	upEquiv := surface(order, center, half, alphaInner)
	upCheck := surface(order, center, half, alphaOuter)
	downEquiv := surface(order, center, half, alphaOuter)
	downCheck := surface(order, center, half, alphaInner)

	op := &operators{}
	op.uc2eInv1, op.uc2eInv2 = pinvFactors(assembleDense(kern, upEquiv, upCheck))
	op.dc2eInv1, op.dc2eInv2 = pinvFactors(assembleDense(kern, downEquiv, downCheck))

	ncoeffs := NCoeffs(order)
	childHalf := half / 2
	for s := 0; s < nsiblings; s++ {
		d := morton.ChildOffset(s)
		var childCenter [3]float64
		for j := 0; j < 3; j++ {
			childCenter[j] = center[j] + childHalf*float64(2*d[j]-1)
		}

		// Child multipole to parent multipole, via the parent's
		// upward check surface.
		childUpEquiv := surface(order, childCenter, childHalf, alphaInner)
		k := assembleDense(kern, childUpEquiv, upCheck)
		var tmp, m2m mat.Dense
		tmp.Mul(op.uc2eInv2, k)
		m2m.Mul(op.uc2eInv1, &tmp)
		op.m2m[s] = &m2m

		// Parent local to child local, via the child's own
		// check-to-equivalent inverse so the operator is exact at
		// every level of a homogeneous kernel.
		childDownEquiv := surface(order, childCenter, childHalf, alphaOuter)
		childDownCheck := surface(order, childCenter, childHalf, alphaInner)
		cInv1, cInv2 := pinvFactors(assembleDense(kern, childDownEquiv, childDownCheck))
		k = assembleDense(kern, downEquiv, childDownCheck)
		var tmp2, l2l mat.Dense
		tmp2.Mul(cInv2, k)
		l2l.Mul(cInv1, &tmp2)
		op.l2l[s] = &l2l

		if r, c := l2l.Dims(); r != ncoeffs || c != ncoeffs {
			panic("fmm: translation operator shape mismatch")
		}
	}
	return op
}

// m2lScale returns the per-level factor applied to the multipole-to-
// local contribution. m2lScale panics below level 2, where M2L is
// undefined.
func m2lScale(level uint64) float64 {
	if level < 2 {
		panic("fmm: M2L undefined at levels coarser than 2")
	}
	if level == 2 {
		return 0.5
	}
	return math.Ldexp(1, int(level)-3)
}
