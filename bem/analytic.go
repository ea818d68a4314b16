// Copyright ©2024 The Fastsolve Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bem

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// panel holds the closed-form potentials of a flat triangle observed
// from one point x: the integrals of 1/R and of (y−ρ)/R over the
// triangle, where R = ‖y−x‖ and ρ is the projection of x onto the
// triangle plane. d is the signed height of x above the plane along
// the triangle normal.
type panel struct {
	one float64
	vec r3.Vec
	d   float64
	rho r3.Vec
}

// panelPotentials evaluates the edge-wise closed forms. The formulas
// follow from the surface divergence identities
// ∇·[(y−ρ)(R−|d|)/r²] = 1/R and ∇R = (y−ρ)/R, reduced to elementary
// integrals along each edge.
func panelPotentials(x r3.Vec, v [3]r3.Vec) panel {
	normal := r3.Unit(r3.Cross(r3.Sub(v[1], v[0]), r3.Sub(v[2], v[0])))
	d := r3.Dot(r3.Sub(x, v[0]), normal)
	rho := r3.Sub(x, r3.Scale(d, normal))

	scale := 0.0
	for _, w := range v {
		scale = math.Max(scale, r3.Norm(r3.Sub(w, rho)))
	}
	tol := 1e-12 * (scale + math.Abs(d))

	var p panel
	p.d = d
	p.rho = rho
	ad := math.Abs(d)
	for e := 0; e < 3; e++ {
		a, b := v[e], v[(e+1)%3]
		shat := r3.Unit(r3.Sub(b, a))
		mhat := r3.Cross(shat, normal)
		t := r3.Dot(r3.Sub(a, rho), mhat)
		sm := r3.Dot(r3.Sub(a, rho), shat)
		sp := r3.Dot(r3.Sub(b, rho), shat)
		rm := r3.Norm(r3.Sub(a, x))
		rp := r3.Norm(r3.Sub(b, x))
		c2 := t*t + d*d

		// ln((s⁺+R⁺)/(s⁻+R⁻)), stabilized when an endpoint lies close
		// to the ray s+R → 0.
		var logTerm float64
		switch {
		case c2 < tol*tol:
			logTerm = 0
		case sm+rm < tol:
			logTerm = math.Log((sp + rp) * (rm - sm) / c2)
		default:
			logTerm = math.Log((sp + rp) / (sm + rm))
		}

		if math.Abs(t) > tol {
			atanTerm := math.Atan(sp*ad/(t*rp)) - math.Atan(sp/t) -
				math.Atan(sm*ad/(t*rm)) + math.Atan(sm/t)
			p.one += t*logTerm + ad*atanTerm
		}

		edge := sp*rp - sm*rm + c2*logTerm
		p.vec = r3.Add(p.vec, r3.Scale(edge/2, mhat))
	}
	return p
}

// intOneOverR returns ∫ 1/‖y−x‖ dS over the triangle.
func intOneOverR(x r3.Vec, v [3]r3.Vec) float64 {
	return panelPotentials(x, v).one
}

// solidAngle returns the signed solid angle subtended by the triangle
// at x; the sign is negative when x lies on the side the normal points
// to.
func solidAngle(x r3.Vec, v [3]r3.Vec) float64 {
	v1 := r3.Sub(v[0], x)
	v2 := r3.Sub(v[1], x)
	v3 := r3.Sub(v[2], x)
	n1, n2, n3 := r3.Norm(v1), r3.Norm(v2), r3.Norm(v3)
	num := r3.Dot(v1, r3.Cross(v2, v3))
	den := n1*n2*n3 + r3.Dot(v1, v2)*n3 + r3.Dot(v1, v3)*n2 + r3.Dot(v2, v3)*n1
	return 2 * math.Atan2(num, den)
}

// dlStatic returns ∫ (x−y)·n̂/(4π‖y−x‖³) dS over the triangle, the
// static double-layer panel potential. It vanishes when x lies in the
// triangle plane.
func dlStatic(x r3.Vec, v [3]r3.Vec) float64 {
	normal := r3.Unit(r3.Cross(r3.Sub(v[1], v[0]), r3.Sub(v[2], v[0])))
	d := r3.Dot(r3.Sub(x, v[0]), normal)
	scale := r3.Norm(r3.Sub(v[1], v[0]))
	if math.Abs(d) < 1e-12*scale {
		return 0
	}
	return -solidAngle(x, v) * inv4Pi
}

// linearOverR returns ∫ λ(y)/‖y−x‖ dS over the triangle for the
// barycentric basis function of the given local vertex.
func linearOverR(x r3.Vec, v [3]r3.Vec, local int) float64 {
	p := panelPotentials(x, v)
	grad := basisGradient(v, local)
	at := basisAt(v, local, p.rho)
	return at*p.one + r3.Dot(grad, p.vec)
}

// basisGradient returns the in-plane gradient of the barycentric basis
// function of the given local vertex.
func basisGradient(v [3]r3.Vec, local int) r3.Vec {
	cross := r3.Cross(r3.Sub(v[1], v[0]), r3.Sub(v[2], v[0]))
	normal := r3.Unit(cross)
	twoA := r3.Norm(cross)
	b := v[(local+1)%3]
	c := v[(local+2)%3]
	return r3.Scale(1/twoA, r3.Cross(normal, r3.Sub(c, b)))
}

// basisAt evaluates the barycentric basis function of the given local
// vertex at an in-plane point.
func basisAt(v [3]r3.Vec, local int, p r3.Vec) float64 {
	at := 0.0
	if local == 0 {
		at = 1
	}
	return at + r3.Dot(basisGradient(v, local), r3.Sub(p, v[0]))
}
