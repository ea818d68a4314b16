// Copyright ©2024 The Fastsolve Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package bem assembles dense Galerkin boundary operators and
// potential evaluation matrices for the Laplace and Helmholtz
// equations over flat triangular surface grids.
//
// Weakly singular pair integrals are evaluated by closed-form panel
// potentials for the static part of each kernel, with the smooth
// remainder handled by tensorized Gauss quadrature. The hypersingular
// operators use the surface-curl integration-by-parts form.
package bem // import "github.com/fast-solvers/fastsolve/bem"
