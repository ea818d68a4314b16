// Copyright ©2024 The Fastsolve Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package kernel provides the scale-invariant point kernels evaluated
// by the fast multipole engine.
package kernel // import "github.com/fast-solvers/fastsolve/kernel"

import "math"

// A Kernel evaluates a translation-invariant Green function between
// point clouds. Coordinates are packed as [x0 y0 z0 x1 y1 z1 ...].
type Kernel interface {
	// Dim returns the spatial dimension the kernel acts in.
	Dim() int

	// Scale returns the homogeneity factor relating operators
	// calibrated on the root box to boxes at the given octree level.
	Scale(level uint64) float64

	// Assemble fills result, of length len(targets)/Dim ×
	// len(sources)/Dim in target-major order, with kernel values
	// between every source and every target.
	Assemble(sources, targets, result []float64)

	// Evaluate accumulates into result, of length len(targets)/Dim,
	// the potential at every target due to a charge at every source.
	Evaluate(sources, targets, charges, result []float64)
}

// Laplace3D is the free-space Green function of the Laplace operator
// in three dimensions, 1/(4π‖x−y‖). Evaluations at coincident points
// contribute zero.
type Laplace3D struct{}

var _ Kernel = Laplace3D{}

// Dim returns 3.
func (Laplace3D) Dim() int { return 3 }

// Scale returns 2⁻ˡᵉᵛᵉˡ, the homogeneity factor of a kernel decaying
// as the reciprocal of distance.
func (Laplace3D) Scale(level uint64) float64 {
	return math.Ldexp(1, -int(level))
}

const inv4Pi = 0.25 / math.Pi

func laplace(sx, sy, sz, tx, ty, tz float64) float64 {
	dx := tx - sx
	dy := ty - sy
	dz := tz - sz
	r2 := dx*dx + dy*dy + dz*dz
	if r2 == 0 {
		return 0
	}
	return inv4Pi / math.Sqrt(r2)
}

// Assemble implements the Kernel interface.
func (Laplace3D) Assemble(sources, targets, result []float64) {
	ns := len(sources) / 3
	nt := len(targets) / 3
	if len(result) != ns*nt {
		panic("kernel: result length mismatch")
	}
	for t := 0; t < nt; t++ {
		tx, ty, tz := targets[3*t], targets[3*t+1], targets[3*t+2]
		row := result[t*ns : (t+1)*ns]
		for s := 0; s < ns; s++ {
			row[s] = laplace(sources[3*s], sources[3*s+1], sources[3*s+2], tx, ty, tz)
		}
	}
}

// Evaluate implements the Kernel interface.
func (Laplace3D) Evaluate(sources, targets, charges, result []float64) {
	ns := len(sources) / 3
	nt := len(targets) / 3
	if len(charges) != ns || len(result) != nt {
		panic("kernel: length mismatch")
	}
	for t := 0; t < nt; t++ {
		tx, ty, tz := targets[3*t], targets[3*t+1], targets[3*t+2]
		var sum float64
		for s := 0; s < ns; s++ {
			sum += charges[s] * laplace(sources[3*s], sources[3*s+1], sources[3*s+2], tx, ty, tz)
		}
		result[t] += sum
	}
}
