// Copyright ©2024 The Fastsolve Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fmm implements a kernel-independent fast multipole method on
// single-node octrees.
//
// Far-field interactions are represented by equivalent charge densities
// on surfaces surrounding each box, calibrated by dense pseudo-inverse
// solves against matching check surfaces. The multipole-to-local field
// translation, the dominant cost of the downward pass, is available in
// two variants: an FFT-accelerated sibling-group convolution and a
// BLAS-driven low-rank application over the 316 admissible transfer
// vectors.
package fmm // import "github.com/fast-solvers/fastsolve/fmm"
