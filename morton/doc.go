// Copyright ©2024 The Fastsolve Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package morton provides 64-bit Morton indexing of octants for
// hierarchical space decompositions.
//
// A key identifies an octant by the integer anchor of its lower corner
// on the lattice of the deepest permitted level, together with the
// octant's level. The interleaved Morton code orders keys along a
// Z-shaped space-filling curve; the code of an ancestor is a bit prefix
// of the codes of its descendants.
package morton // import "github.com/fast-solvers/fastsolve/morton"
