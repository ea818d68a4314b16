// Copyright ©2024 The Fastsolve Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fmm

import (
	"fmt"
	"sync"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/fast-solvers/fastsolve/kernel"
	"github.com/fast-solvers/fastsolve/morton"
	"github.com/fast-solvers/fastsolve/octree"
)

// A transferVector identifies one of the 316 admissible relative
// positions of a V-list pair.
type transferVector struct {
	hash   int
	offset [3]int
}

// BLASTranslation performs M2L through a shared low-rank factorization
// of the 316 transfer-vector operators: Mᵢ ≈ U·Cᵢ·Σᵀ with U and Σᵀ
// shared across all i and Cᵢ further split into cU[i]·cVT[i].
type BLASTranslation struct {
	order      int
	ncoeffs    int
	cutoffRank int

	transferVectors []transferVector

	// stBlock is the shared right factor Σᵀ (cutoffRank × ncoeffs) and
	// u the shared left factor (ncoeffs × cutoffRank). cU[i] and cVT[i]
	// are the two cutoffRank × cutoffRank factors of the i-th
	// per-transfer-vector coupling Cᵢ = cU[i]·cVT[i].
	stBlock *mat.Dense
	u       *mat.Dense
	cU      [morton.NTransferVectors]*mat.Dense
	cVT     [morton.NTransferVectors]*mat.Dense
}

var _ FieldTranslation = (*BLASTranslation)(nil)

func (*BLASTranslation) sealed() {}

// Order returns the expansion order of the translation.
func (t *BLASTranslation) Order() int { return t.order }

// CutoffRank returns the numerical rank retained by the compression.
func (t *BLASTranslation) CutoffRank() int { return t.cutoffRank }

// TransferVectorHash returns the hash of the i-th operator's transfer
// vector.
func (t *BLASTranslation) TransferVectorHash(i int) int { return t.transferVectors[i].hash }

// NewBLASTranslation compresses the M2L operators of the kernel at the
// given order over the domain's reference geometry, retaining
// cutoffRank singular directions.
func NewBLASTranslation(kern kernel.Kernel, order int, domain octree.Domain, cutoffRank int) *BLASTranslation {
	ncoeffs := NCoeffs(order)
	if cutoffRank < 1 || cutoffRank > ncoeffs {
		panic(fmt.Sprintf("fmm: cutoff rank %d outside [1, %d]", cutoffRank, ncoeffs))
	}
	t := &BLASTranslation{order: order, ncoeffs: ncoeffs, cutoffRank: cutoffRank}

	hashes, offsets := morton.AllTransferVectors()
	t.transferVectors = make([]transferVector, morton.NTransferVectors)
	for i := range hashes {
		t.transferVectors[i] = transferVector{hash: hashes[i], offset: offsets[i]}
	}

	// Reference geometry: boxes at level 3.
	childWidth := domain.Diameter / 8
	half := childWidth / 2
	sourceEquiv := surface(order, [3]float64{}, half, alphaInner)

	operators := make([]*mat.Dense, morton.NTransferVectors)
	rowStack := mat.NewDense(ncoeffs, morton.NTransferVectors*ncoeffs, nil)
	colStack := mat.NewDense(ncoeffs, morton.NTransferVectors*ncoeffs, nil)
	for i, tv := range t.transferVectors {
		var center [3]float64
		for ax := 0; ax < 3; ax++ {
			center[ax] = float64(tv.offset[ax]) * childWidth
		}
		targetCheck := surface(order, center, half, alphaInner)
		m := assembleDense(kern, sourceEquiv, targetCheck)
		operators[i] = m
		rowStack.Slice(0, ncoeffs, i*ncoeffs, (i+1)*ncoeffs).(*mat.Dense).Copy(m)
		colStack.Slice(0, ncoeffs, i*ncoeffs, (i+1)*ncoeffs).(*mat.Dense).Copy(m.T())
	}

	t.u = leftVectors(rowStack, cutoffRank)
	s := leftVectors(colStack, cutoffRank)
	t.stBlock = mat.DenseCopyOf(s.T())

	var tmp mat.Dense
	for i, m := range operators {
		// Cᵢ = Uᵀ·Mᵢ·S, split by its own SVD into cU[i]·cVT[i].
		tmp.Mul(t.u.T(), m)
		var c mat.Dense
		c.Mul(&tmp, s)

		var svd mat.SVD
		if !svd.Factorize(&c, mat.SVDThin) {
			panic("fmm: coupling SVD failed")
		}
		var cu, cv mat.Dense
		svd.UTo(&cu)
		svd.VTo(&cv)
		sv := svd.Values(nil)
		for col := 0; col < cutoffRank; col++ {
			for row := 0; row < cutoffRank; row++ {
				cu.Set(row, col, cu.At(row, col)*sv[col])
			}
		}
		t.cU[i] = &cu
		t.cVT[i] = mat.DenseCopyOf(cv.T())
	}
	return t
}

// leftVectors returns the first k left singular vectors of a.
func leftVectors(a *mat.Dense, k int) *mat.Dense {
	var svd mat.SVD
	if !svd.Factorize(a, mat.SVDThin) {
		panic("fmm: operator stack SVD failed")
	}
	var u mat.Dense
	svd.UTo(&u)
	r, _ := u.Dims()
	return mat.DenseCopyOf(u.Slice(0, r, 0, k))
}

// Displacements returns the 316-entry table mapping each source slot
// at the given level to the slot of its V-list target at the i-th
// transfer vector, or −1 when no such target exists.
func (t *BLASTranslation) Displacements(f *Fmm, level uint64) [][]int {
	if level < 2 {
		panic("fmm: M2L undefined at levels coarser than 2")
	}
	sources := f.tree.Keys(level)
	nsources := len(sources)

	hashToSlot := make(map[int]int, morton.NTransferVectors)
	for i, tv := range t.transferVectors {
		hashToSlot[tv.hash] = i
	}

	out := make([][]int, morton.NTransferVectors)
	for i := range out {
		row := make([]int, nsources)
		for j := range row {
			row[j] = -1
		}
		out[i] = row
	}
	parallel(nsources, func(lo, hi int) {
		for j := lo; j < hi; j++ {
			source := sources[j]
			for _, target := range f.vList(source) {
				i, ok := hashToSlot[morton.TransferVector(source, target)]
				if !ok {
					panic("fmm: V-list pair with inadmissible transfer vector")
				}
				idx, found := f.tree.KeyIndex(level, target)
				if !found {
					panic(fmt.Sprintf("fmm: V-list target %v not indexed", target))
				}
				out[i][j] = idx
			}
		}
	})
	return out
}

// M2L implements the FieldTranslation interface. The three coarse
// GEMMs (compression and the two-stage reconstruction) run outside the
// 316-way fan-out; scatter-adds into a target's compressed check
// potentials are serialized per slot.
func (t *BLASTranslation) M2L(f *Fmm, level uint64) {
	scale := m2lScale(level) * f.kern.Scale(level)
	sources := f.tree.Keys(level)
	if len(sources) == 0 {
		return
	}
	if t.order != f.order {
		panic(fmt.Sprintf("fmm: translation order %d does not match engine order %d", t.order, f.order))
	}

	nsources := len(sources)
	ntargets := nsources
	nrhs := f.nrhs
	k := t.cutoffRank
	ncoeffs := t.ncoeffs

	allDisplacements := t.Displacements(f, level)

	// 1. Compress the level's multipoles: one GEMM over every source
	// and right-hand side at once.
	multipoleRows := mat.NewDense(nsources*nrhs, ncoeffs, f.multipoles[level])
	compressed := mat.NewDense(nsources*nrhs, k, nil)
	compressed.Mul(multipoleRows, t.stBlock.T())
	floats.Scale(scale, compressed.RawMatrix().Data)

	// 2. Apply each transfer-vector operator to the sources that have
	// a target at its offset.
	checkData := make([]float64, ntargets*nrhs*k)
	locks := make([]sync.Mutex, ntargets)
	parallel(morton.NTransferVectors, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			displacements := allDisplacements[i]
			var srcIdx, dstIdx []int
			for j, d := range displacements {
				if d >= 0 {
					srcIdx = append(srcIdx, j)
					dstIdx = append(dstIdx, d)
				}
			}
			if len(srcIdx) == 0 {
				continue
			}

			sub := mat.NewDense(len(srcIdx)*nrhs, k, nil)
			for row, j := range srcIdx {
				for r := 0; r < nrhs; r++ {
					sub.SetRow(row*nrhs+r, compressed.RawRowView(j*nrhs+r))
				}
			}

			var mid, out mat.Dense
			mid.Mul(sub, t.cVT[i].T())
			out.Mul(&mid, t.cU[i].T())

			for row, d := range dstIdx {
				locks[d].Lock()
				for r := 0; r < nrhs; r++ {
					dst := checkData[(d*nrhs+r)*k : (d*nrhs+r+1)*k]
					floats.Add(dst, out.RawRowView(row*nrhs+r))
				}
				locks[d].Unlock()
			}
		}
	})

	// 3. Reconstruct check potentials and map them to local
	// coefficients: two GEMM chains over the whole level.
	checkRows := mat.NewDense(ntargets*nrhs, k, checkData)
	var check, tmp, loc mat.Dense
	check.Mul(checkRows, t.u.T())
	tmp.Mul(&check, f.ops.dc2eInv2.T())
	loc.Mul(&tmp, f.ops.dc2eInv1.T())

	locals := f.locals[level]
	for row := 0; row < ntargets*nrhs; row++ {
		floats.Add(locals[row*ncoeffs:(row+1)*ncoeffs], loc.RawRowView(row))
	}
}
