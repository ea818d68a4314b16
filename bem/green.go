// Copyright ©2024 The Fastsolve Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bem

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/spatial/r3"
)

// Scalar is the field an operator's entries live in.
type Scalar interface {
	~float64 | ~complex128
}

// toScalar narrows a complex intermediate to the entry type; real
// operators discard the (zero) imaginary part.
func toScalar[T Scalar](z complex128) T {
	var t T
	switch p := any(&t).(type) {
	case *float64:
		*p = real(z)
	case *complex128:
		*p = z
	}
	return t
}

const inv4Pi = 0.25 / math.Pi

// A GreenKernel evaluates a fundamental solution, or one of its normal
// derivatives, between two surface points.
type GreenKernel interface {
	Eval(x, y, nx, ny r3.Vec) complex128
}

// LaplaceGreen is 1/(4π‖x−y‖).
type LaplaceGreen struct{}

// LaplaceGreenDx is the derivative of LaplaceGreen along the normal at
// x.
type LaplaceGreenDx struct{}

// LaplaceGreenDy is the derivative of LaplaceGreen along the normal at
// y.
type LaplaceGreenDy struct{}

// HelmholtzGreen is e^{ik‖x−y‖}/(4π‖x−y‖).
type HelmholtzGreen struct{ K float64 }

// HelmholtzGreenDx is the derivative of HelmholtzGreen along the
// normal at x.
type HelmholtzGreenDx struct{ K float64 }

// HelmholtzGreenDy is the derivative of HelmholtzGreen along the
// normal at y.
type HelmholtzGreenDy struct{ K float64 }

// HelmholtzHypersingularTerm is −k²·(nx·ny)·e^{ik‖x−y‖}/(4π‖x−y‖),
// the zeroth-order term of the integration-by-parts hypersingular
// form.
type HelmholtzHypersingularTerm struct{ K float64 }

func (LaplaceGreen) Eval(x, y, _, _ r3.Vec) complex128 {
	return complex(inv4Pi/dist(x, y), 0)
}

func (LaplaceGreenDx) Eval(x, y, nx, _ r3.Vec) complex128 {
	d := dist(x, y)
	return complex(inv4Pi*r3.Dot(r3.Sub(y, x), nx)/(d*d*d), 0)
}

func (LaplaceGreenDy) Eval(x, y, _, ny r3.Vec) complex128 {
	d := dist(x, y)
	return complex(inv4Pi*r3.Dot(r3.Sub(x, y), ny)/(d*d*d), 0)
}

func (k HelmholtzGreen) Eval(x, y, _, _ r3.Vec) complex128 {
	d := dist(x, y)
	return complex(inv4Pi/d, 0) * eix(k.K*d)
}

func (k HelmholtzGreenDx) Eval(x, y, nx, _ r3.Vec) complex128 {
	d := dist(x, y)
	return complex(inv4Pi*r3.Dot(r3.Sub(x, y), nx)/(d*d), 0) *
		(complex(k.K, 0)*ieix(k.K*d) - eix(k.K*d)/complex(d, 0))
}

func (k HelmholtzGreenDy) Eval(x, y, _, ny r3.Vec) complex128 {
	d := dist(x, y)
	return complex(inv4Pi*r3.Dot(r3.Sub(y, x), ny)/(d*d), 0) *
		(complex(k.K, 0)*ieix(k.K*d) - eix(k.K*d)/complex(d, 0))
}

func (k HelmholtzHypersingularTerm) Eval(x, y, nx, ny r3.Vec) complex128 {
	d := dist(x, y)
	return complex(-k.K*k.K*inv4Pi/d*r3.Dot(nx, ny), 0) * eix(k.K*d)
}

func dist(x, y r3.Vec) float64 { return r3.Norm(r3.Sub(x, y)) }

// eix returns e^{ix}.
func eix(x float64) complex128 { return cmplx.Exp(complex(0, x)) }

// ieix returns i·e^{ix}.
func ieix(x float64) complex128 { return complex(0, 1) * eix(x) }
