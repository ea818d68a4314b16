// Copyright ©2024 The Fastsolve Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package octree builds single-node linear octrees over point clouds.
//
// A tree stores, for every level, the sorted Morton keys of the boxes
// that carry data together with their completed sibling groups, so the
// eight children of any occupied parent occupy consecutive slots of the
// next level's key slice. Points are held in Morton order and each leaf
// maps to a half-open range of the coordinate array.
package octree // import "github.com/fast-solvers/fastsolve/octree"
