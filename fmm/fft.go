// Copyright ©2024 The Fastsolve Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fmm

import (
	"fmt"

	"gonum.org/v1/gonum/cmplxs"
	"gonum.org/v1/gonum/mat"

	"github.com/fast-solvers/fastsolve/kernel"
	"github.com/fast-solvers/fastsolve/morton"
	"github.com/fast-solvers/fastsolve/octree"
	"github.com/fast-solvers/fastsolve/rfft"
)

const nneighbors = 26

// FFTTranslation performs M2L as a sibling-group convolution on a
// padded cubic grid in the frequency domain. The translation operator
// of every (parent offset, source sibling, target sibling) triple is
// precomputed as a frequency-major 8×8 block tensor.
type FFTTranslation struct {
	order   int
	ncoeffs int

	// Convolution grid extents: n = 2·order−1 sites per axis, padded
	// to npad for the real transform.
	n, npad  int
	size     int
	sizeReal int

	// surfToConv embeds the surface samples into the convolution grid;
	// convToSurf extracts check samples. The identity embedding places
	// both on the same sub-lattice.
	surfToConv []int
	convToSurf []int

	// kernelDataF[i] holds, for parent-neighbor offset i, the
	// frequency-major tensor of 8×8 sibling blocks:
	// kernelDataF[i][freq*64+l*8+j] couples source sibling j to target
	// sibling l.
	kernelDataF [nneighbors][]complex128
}

var _ FieldTranslation = (*FFTTranslation)(nil)

func (*FFTTranslation) sealed() {}

// Order returns the expansion order of the translation.
func (t *FFTTranslation) Order() int { return t.order }

// NewFFTTranslation precomputes the frequency-domain M2L operators of
// the kernel at the given order over the domain's reference geometry.
func NewFFTTranslation(kern kernel.Kernel, order int, domain octree.Domain) *FFTTranslation {
	n := 2*order - 1
	t := &FFTTranslation{
		order:    order,
		ncoeffs:  NCoeffs(order),
		n:        n,
		npad:     n + 1,
		size:     (n + 1) * (n + 1) * (n + 1),
		sizeReal: (n + 1) * (n + 1) * ((n+1)/2 + 1),
	}

	t.surfToConv = make([]int, t.ncoeffs)
	for i, a := range surfaceLattice(order) {
		t.surfToConv[i] = (a[0]*t.npad+a[1])*t.npad + a[2]
	}
	t.convToSurf = append([]int(nil), t.surfToConv...)

	// Reference geometry: boxes at level 3, where the canonical
	// transfer vectors are calibrated.
	childWidth := domain.Diameter / 8
	spacing := alphaInner * childWidth / float64(order-1)

	plan := rfft.NewPlan([3]int{t.npad, t.npad, t.npad})
	grid := make([]float64, t.size)
	coeff := make([]complex128, t.sizeReal)
	origin := []float64{0, 0, 0}
	point := make([]float64, 3)
	value := make([]float64, 1)

	for i, o := range morton.Directions {
		data := make([]complex128, t.sizeReal*64)
		for l := 0; l < nsiblings; l++ {
			dl := morton.ChildOffset(l)
			for j := 0; j < nsiblings; j++ {
				dj := morton.ChildOffset(j)
				var tvec [3]float64
				adjacent := true
				for ax := 0; ax < 3; ax++ {
					v := dl[ax] - dj[ax] - 2*o[ax]
					if v < -1 || v > 1 {
						adjacent = false
					}
					tvec[ax] = float64(v) * childWidth
				}
				if adjacent {
					// Adjacent sibling pairs are near field; their
					// block stays zero.
					continue
				}

				clearSlice(grid)
				for wx := -(order - 1); wx <= order-1; wx++ {
					for wy := -(order - 1); wy <= order-1; wy++ {
						for wz := -(order - 1); wz <= order-1; wz++ {
							point[0] = tvec[0] + spacing*float64(wx)
							point[1] = tvec[1] + spacing*float64(wy)
							point[2] = tvec[2] + spacing*float64(wz)
							kern.Assemble(origin, point, value)
							grid[(wrap(wx, t.npad)*t.npad+wrap(wy, t.npad))*t.npad+wrap(wz, t.npad)] = value[0]
						}
					}
				}
				plan.Forward(coeff, grid)
				for freq := 0; freq < t.sizeReal; freq++ {
					data[freq*64+l*8+j] = coeff[freq]
				}
			}
		}
		t.kernelDataF[i] = data
	}
	return t
}

// wrap maps a signed lattice offset onto the cyclic convolution grid.
func wrap(w, npad int) int {
	if w < 0 {
		return npad + w
	}
	return w
}

// Displacements returns the 26-entry table of first-child slots of
// each parent's neighbors at the given level, with absent neighbors
// mapped to the sentinel slot nparents·8 addressing the zero padding
// region.
func (t *FFTTranslation) Displacements(f *Fmm, level uint64) [][]int {
	if level < 2 {
		panic("fmm: M2L undefined at levels coarser than 2")
	}
	targets := f.tree.Keys(level)
	nparents := len(targets) / nsiblings
	sentinel := nparents * nsiblings

	out := make([][]int, nneighbors)
	for i := range out {
		out[i] = make([]int, nparents)
	}
	for pi := 0; pi < nparents; pi++ {
		p := targets[pi*nsiblings].Parent()
		nb, ok := p.AllNeighbors()
		for i := 0; i < nneighbors; i++ {
			d := sentinel
			if ok[i] {
				if idx, found := f.tree.KeyIndex(level, nb[i].FirstChild()); found {
					d = idx
				}
			}
			out[i][pi] = d
		}
	}
	return out
}

// maxChunkSize returns the parent batching width of the forward
// transform stage.
func maxChunkSize(level uint64) int {
	switch {
	case level == 2:
		return 8
	case level == 3:
		return 64
	default:
		return 128
	}
}

// findChunkSize returns the largest chunk not exceeding limit that
// divides n evenly.
func findChunkSize(n, limit int) int {
	c := limit
	if c > n {
		c = n
	}
	for ; c > 1; c-- {
		if n%c == 0 {
			return c
		}
	}
	return 1
}

// M2L implements the FieldTranslation interface.
func (t *FFTTranslation) M2L(f *Fmm, level uint64) {
	scale := complex(m2lScale(level)*f.kern.Scale(level), 0)
	targets := f.tree.Keys(level)
	if len(targets) == 0 {
		return
	}
	if t.order != f.order {
		panic(fmt.Sprintf("fmm: translation order %d does not match engine order %d", t.order, f.order))
	}

	ntargets := len(targets)
	nparents := ntargets / nsiblings
	ncoeffs := t.ncoeffs
	multipoles := f.multipoles[level]

	allDisplacements := t.Displacements(f, level)
	chunkSize := findChunkSize(nparents, maxChunkSize(level))
	nchunks := nparents / chunkSize
	group := nsiblings * chunkSize

	// Forward transforms, accumulated frequency-major. The 8-slot tail
	// per frequency is the zero padding region addressed by the
	// sentinel displacement and must stay zero.
	signals := make([]complex128, t.sizeReal*(ntargets+nsiblings))
	parallel(nchunks, func(lo, hi int) {
		plan := rfft.NewPlan([3]int{t.npad, t.npad, t.npad})
		grid := make([]float64, t.size)
		coeff := make([]complex128, t.sizeReal)
		chunkF := make([]complex128, t.sizeReal*group)
		for ci := lo; ci < hi; ci++ {
			for i := range chunkF {
				chunkF[i] = 0
			}
			for s := 0; s < group; s++ {
				m := multipoles[(ci*group+s)*ncoeffs : (ci*group+s+1)*ncoeffs]
				clearSlice(grid)
				for surfIdx, convIdx := range t.surfToConv {
					grid[convIdx] = m[surfIdx]
				}
				plan.Forward(coeff, grid)
				for freq := 0; freq < t.sizeReal; freq++ {
					chunkF[freq*group+s] = coeff[freq]
				}
			}
			for freq := 0; freq < t.sizeReal; freq++ {
				base := freq*(ntargets+nsiblings) + ci*group
				cmplxs.Add(signals[base:base+group], chunkF[freq*group:(freq+1)*group])
			}
		}
	})

	// Per-frequency 8×8 block products. Each frequency owns its slice
	// of the check potentials exclusively.
	checkHatF := make([]complex128, t.sizeReal*ntargets)
	parallel(t.sizeReal, func(lo, hi int) {
		for freq := lo; freq < hi; freq++ {
			signalF := signals[freq*(ntargets+nsiblings) : (freq+1)*(ntargets+nsiblings)]
			checkF := checkHatF[freq*ntargets : (freq+1)*ntargets]
			for chunkStart := 0; chunkStart < nparents; chunkStart += chunkSize {
				chunkEnd := chunkStart + chunkSize
				save := checkF[chunkStart*nsiblings : chunkEnd*nsiblings]
				for i := 0; i < nneighbors; i++ {
					kf := t.kernelDataF[i][freq*64 : (freq+1)*64]
					displacements := allDisplacements[i][chunkStart:chunkEnd]
					for j, d := range displacements {
						matmul8x8(kf, signalF[d:d+nsiblings], save[j*nsiblings:(j+1)*nsiblings], scale)
					}
				}
			}
		}
	})

	// Inverse transforms and check-to-equivalent, one sibling group at
	// a time.
	locals := f.locals[level]
	parallel(nparents, func(lo, hi int) {
		plan := rfft.NewPlan([3]int{t.npad, t.npad, t.npad})
		hat := make([]complex128, t.sizeReal)
		grid := make([]float64, t.size)
		pot := mat.NewDense(ncoeffs, nsiblings, nil)
		var tmp, loc mat.Dense
		for pi := lo; pi < hi; pi++ {
			for s := 0; s < nsiblings; s++ {
				ti := pi*nsiblings + s
				for freq := 0; freq < t.sizeReal; freq++ {
					hat[freq] = checkHatF[freq*ntargets+ti]
				}
				plan.Inverse(grid, hat)
				for surfIdx, convIdx := range t.convToSurf {
					pot.Set(surfIdx, s, grid[convIdx])
				}
			}
			tmp.Mul(f.ops.dc2eInv2, pot)
			loc.Mul(f.ops.dc2eInv1, &tmp)
			for s := 0; s < nsiblings; s++ {
				dst := locals[(pi*nsiblings+s)*ncoeffs : (pi*nsiblings+s+1)*ncoeffs]
				for j := 0; j < ncoeffs; j++ {
					dst[j] += loc.At(j, s)
				}
			}
		}
	})
}

// matmul8x8 accumulates save += scale·k·s for one frequency's 8×8
// sibling block; k is stored target-major, so k[l*8+j] couples source
// sibling j to target sibling l. The contracted dimension is always 8.
func matmul8x8(k, s, save []complex128, scale complex128) {
	for l := 0; l < nsiblings; l++ {
		row := k[l*nsiblings : l*nsiblings+nsiblings]
		sum := row[0]*s[0] + row[1]*s[1] + row[2]*s[2] + row[3]*s[3] +
			row[4]*s[4] + row[5]*s[5] + row[6]*s[6] + row[7]*s[7]
		save[l] += scale * sum
	}
}
