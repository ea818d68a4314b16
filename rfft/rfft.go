// Copyright ©2024 The Fastsolve Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package rfft provides three-dimensional real-to-complex Fourier
// transforms composed from the one-dimensional plans in
// gonum.org/v1/gonum/dsp/fourier.
//
// Transforms are laid out row-major over [n0][n1][n2] grids. The
// forward transform of an n0×n1×n2 real array has n0×n1×(n2/2+1)
// complex coefficients; the half extent exploits conjugate symmetry
// along the innermost axis. A forward transform followed by Inverse
// reproduces the input; the 1/(n0·n1·n2) normalization is applied by
// Inverse.
package rfft // import "github.com/fast-solvers/fastsolve/rfft"

import (
	"fmt"

	"gonum.org/v1/gonum/dsp/fourier"
)

// Plan holds the one-dimensional plans of a 3D real transform for a
// fixed grid shape. A Plan is not safe for concurrent use; clone one
// per worker.
type Plan struct {
	n    [3]int
	half int

	real *fourier.FFT
	mid  *fourier.CmplxFFT
	out  *fourier.CmplxFFT

	scratchA []complex128
	scratchB []complex128
}

// NewPlan returns a transform plan for row-major real grids of shape
// [n[0]][n[1]][n[2]].
func NewPlan(n [3]int) *Plan {
	for _, d := range n {
		if d <= 0 {
			panic(fmt.Sprintf("rfft: non-positive dimension %v", n))
		}
	}
	return &Plan{
		n:        n,
		half:     n[2]/2 + 1,
		real:     fourier.NewFFT(n[2]),
		mid:      fourier.NewCmplxFFT(n[1]),
		out:      fourier.NewCmplxFFT(n[0]),
		scratchA: make([]complex128, max(n[0], n[1])),
		scratchB: make([]complex128, max(n[0], n[1])),
	}
}

// Clone returns an independent plan with the same shape.
func (p *Plan) Clone() *Plan { return NewPlan(p.n) }

// Size returns the number of real samples of the grid.
func (p *Plan) Size() int { return p.n[0] * p.n[1] * p.n[2] }

// SizeFreq returns the number of complex coefficients of the forward
// transform.
func (p *Plan) SizeFreq() int { return p.n[0] * p.n[1] * p.half }

// Forward computes the forward transform of src into dst. src must
// have length Size and dst length SizeFreq.
func (p *Plan) Forward(dst []complex128, src []float64) {
	n0, n1, n2 := p.n[0], p.n[1], p.n[2]
	if len(src) != p.Size() || len(dst) != p.SizeFreq() {
		panic("rfft: buffer length mismatch")
	}
	h := p.half

	// Real transform along axis 2.
	for i0 := 0; i0 < n0; i0++ {
		for i1 := 0; i1 < n1; i1++ {
			row := src[(i0*n1+i1)*n2 : (i0*n1+i1+1)*n2]
			p.real.Coefficients(dst[(i0*n1+i1)*h:(i0*n1+i1+1)*h], row)
		}
	}
	// Complex transform along axis 1.
	for i0 := 0; i0 < n0; i0++ {
		for k2 := 0; k2 < h; k2++ {
			for i1 := 0; i1 < n1; i1++ {
				p.scratchA[i1] = dst[(i0*n1+i1)*h+k2]
			}
			p.mid.Coefficients(p.scratchB[:n1], p.scratchA[:n1])
			for i1 := 0; i1 < n1; i1++ {
				dst[(i0*n1+i1)*h+k2] = p.scratchB[i1]
			}
		}
	}
	// Complex transform along axis 0.
	for i1 := 0; i1 < n1; i1++ {
		for k2 := 0; k2 < h; k2++ {
			for i0 := 0; i0 < n0; i0++ {
				p.scratchA[i0] = dst[(i0*n1+i1)*h+k2]
			}
			p.out.Coefficients(p.scratchB[:n0], p.scratchA[:n0])
			for i0 := 0; i0 < n0; i0++ {
				dst[(i0*n1+i1)*h+k2] = p.scratchB[i0]
			}
		}
	}
}

// Inverse computes the normalized inverse transform of src into dst.
// src must have length SizeFreq and dst length Size. src is used as
// scratch and is overwritten.
func (p *Plan) Inverse(dst []float64, src []complex128) {
	n0, n1, n2 := p.n[0], p.n[1], p.n[2]
	if len(dst) != p.Size() || len(src) != p.SizeFreq() {
		panic("rfft: buffer length mismatch")
	}
	h := p.half

	// Unnormalized inverse along axis 0, then axis 1.
	for i1 := 0; i1 < n1; i1++ {
		for k2 := 0; k2 < h; k2++ {
			for i0 := 0; i0 < n0; i0++ {
				p.scratchA[i0] = src[(i0*n1+i1)*h+k2]
			}
			p.out.Sequence(p.scratchB[:n0], p.scratchA[:n0])
			for i0 := 0; i0 < n0; i0++ {
				src[(i0*n1+i1)*h+k2] = p.scratchB[i0]
			}
		}
	}
	for i0 := 0; i0 < n0; i0++ {
		for k2 := 0; k2 < h; k2++ {
			for i1 := 0; i1 < n1; i1++ {
				p.scratchA[i1] = src[(i0*n1+i1)*h+k2]
			}
			p.mid.Sequence(p.scratchB[:n1], p.scratchA[:n1])
			for i1 := 0; i1 < n1; i1++ {
				src[(i0*n1+i1)*h+k2] = p.scratchB[i1]
			}
		}
	}
	// Real inverse along axis 2 with the full normalization.
	scale := 1 / float64(n0*n1*n2)
	for i0 := 0; i0 < n0; i0++ {
		for i1 := 0; i1 < n1; i1++ {
			row := dst[(i0*n1+i1)*n2 : (i0*n1+i1+1)*n2]
			p.real.Sequence(row, src[(i0*n1+i1)*h:(i0*n1+i1+1)*h])
			for i := range row {
				row[i] *= scale
			}
		}
	}
}
