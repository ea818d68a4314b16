// Copyright ©2024 The Fastsolve Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package octree

import (
	"math"
	"sort"

	"github.com/pkg/errors"

	"github.com/fast-solvers/fastsolve/morton"
)

// Domain is the cubic bounding region of a tree. All boxes are octants
// of the cube anchored at Origin with the given edge length.
type Domain struct {
	Origin   [3]float64
	Diameter float64
}

// DomainOf returns the smallest padded cube containing the given
// points. Points are packed as [x0 y0 z0 x1 y1 z1 ...].
func DomainOf(points []float64) (Domain, error) {
	if len(points) == 0 || len(points)%3 != 0 {
		return Domain{}, errors.Errorf("octree: invalid coordinate slice length %d", len(points))
	}
	lo := [3]float64{math.Inf(1), math.Inf(1), math.Inf(1)}
	hi := [3]float64{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for i := 0; i < len(points); i += 3 {
		for j := 0; j < 3; j++ {
			lo[j] = math.Min(lo[j], points[i+j])
			hi[j] = math.Max(hi[j], points[i+j])
		}
	}
	d := 0.0
	for j := 0; j < 3; j++ {
		d = math.Max(d, hi[j]-lo[j])
	}
	// Pad so boundary points fall strictly inside the outermost boxes.
	const pad = 1e-6
	d *= 1 + pad
	if d == 0 {
		d = pad
	}
	return Domain{Origin: lo, Diameter: d}, nil
}

// anchor returns the deepest-level lattice anchor of the box at the
// given level that contains p.
func (d Domain) anchor(p [3]float64, level uint64) [3]uint64 {
	nboxes := uint64(1) << level
	side := uint64(1) << (morton.DeepestLevel - level)
	var a [3]uint64
	for j := 0; j < 3; j++ {
		b := uint64((p[j] - d.Origin[j]) / d.Diameter * float64(nboxes))
		if b >= nboxes {
			b = nboxes - 1
		}
		a[j] = b * side
	}
	return a
}

// Width returns the edge length of boxes at the given level.
func (d Domain) Width(level uint64) float64 {
	return d.Diameter / float64(uint64(1)<<level)
}

// Center returns the center of the box identified by k.
func (d Domain) Center(k morton.Key) [3]float64 {
	w := d.Diameter / float64(uint64(1)<<morton.DeepestLevel)
	half := d.Width(k.Level()) / 2
	var c [3]float64
	for j := 0; j < 3; j++ {
		c[j] = d.Origin[j] + float64(k.Anchor[j])*w + half
	}
	return c
}

// Tree is a level-indexed linear octree.
type Tree struct {
	domain Domain
	depth  uint64

	levels   [][]morton.Key
	keyIndex []map[morton.Key]int
	keySet   map[morton.Key]bool

	leaves    []morton.Key
	leafIndex map[morton.Key]int
	leafRange map[morton.Key][2]int

	coords  []float64
	indices []int
}

// code strips the level bits from a deepest-level key, leaving the pure
// interleaved coordinate code used to order points.
func code(a [3]uint64) uint64 {
	return morton.NewKey(a, morton.DeepestLevel).Morton >> 16
}

// descendantCodes returns the half-open code interval covered by k at
// the deepest level.
func descendantCodes(k morton.Key) (lo, hi uint64) {
	lo = k.Morton >> 16
	return lo, lo + 1<<(3*(morton.DeepestLevel-k.Level()))
}

type pointOrder struct {
	codes  []uint64
	coords []float64
	index  []int
}

func (p pointOrder) Len() int           { return len(p.codes) }
func (p pointOrder) Less(i, j int) bool { return p.codes[i] < p.codes[j] }
func (p pointOrder) Swap(i, j int) {
	p.codes[i], p.codes[j] = p.codes[j], p.codes[i]
	p.index[i], p.index[j] = p.index[j], p.index[i]
	for k := 0; k < 3; k++ {
		p.coords[3*i+k], p.coords[3*j+k] = p.coords[3*j+k], p.coords[3*i+k]
	}
}

func sortPoints(d Domain, points []float64) pointOrder {
	n := len(points) / 3
	p := pointOrder{
		codes:  make([]uint64, n),
		coords: append([]float64(nil), points...),
		index:  make([]int, n),
	}
	for i := 0; i < n; i++ {
		pt := [3]float64{points[3*i], points[3*i+1], points[3*i+2]}
		p.codes[i] = code(d.anchor(pt, morton.DeepestLevel))
		p.index[i] = i
	}
	sort.Sort(p)
	return p
}

// NewUniform builds a uniformly refined tree of the given depth over
// points packed as [x0 y0 z0 x1 y1 z1 ...].
func NewUniform(points []float64, depth uint64) (*Tree, error) {
	if depth > morton.DeepestLevel {
		return nil, errors.Errorf("octree: depth %d exceeds deepest level %d", depth, morton.DeepestLevel)
	}
	domain, err := DomainOf(points)
	if err != nil {
		return nil, errors.Wrap(err, "building uniform tree")
	}
	order := sortPoints(domain, points)

	leafSet := make(map[morton.Key]bool)
	n := len(order.codes)
	for i := 0; i < n; i++ {
		pt := [3]float64{order.coords[3*i], order.coords[3*i+1], order.coords[3*i+2]}
		k := morton.NewKey(domain.anchor(pt, depth), depth)
		if !leafSet[k] {
			for _, s := range k.Siblings() {
				leafSet[s] = true
			}
		}
	}
	t := &Tree{domain: domain, depth: depth}
	t.buildLevels(leafSet, depth)
	t.leaves = append([]morton.Key(nil), t.levels[depth]...)
	t.finish(order)
	return t, nil
}

// NewAdaptive builds a tree refined wherever a box holds more than
// ncrit points, up to maxDepth levels.
func NewAdaptive(points []float64, ncrit int, maxDepth uint64) (*Tree, error) {
	if ncrit < 1 {
		return nil, errors.Errorf("octree: ncrit %d must be positive", ncrit)
	}
	if maxDepth > morton.DeepestLevel {
		return nil, errors.Errorf("octree: depth %d exceeds deepest level %d", maxDepth, morton.DeepestLevel)
	}
	domain, err := DomainOf(points)
	if err != nil {
		return nil, errors.Wrap(err, "building adaptive tree")
	}
	order := sortPoints(domain, points)

	type box struct {
		key    morton.Key
		lo, hi int
	}
	queue := []box{{key: morton.Root(), lo: 0, hi: len(order.codes)}}
	var leaves []box
	for len(queue) > 0 {
		b := queue[0]
		queue = queue[1:]
		if b.hi-b.lo <= ncrit || b.key.Level() >= maxDepth {
			leaves = append(leaves, b)
			continue
		}
		for _, c := range b.key.Children() {
			clo, chi := descendantCodes(c)
			i := b.lo + sort.Search(b.hi-b.lo, func(i int) bool { return order.codes[b.lo+i] >= clo })
			j := b.lo + sort.Search(b.hi-b.lo, func(i int) bool { return order.codes[b.lo+i] >= chi })
			queue = append(queue, box{key: c, lo: i, hi: j})
		}
	}

	// Sibling groups are complete by construction: a split enqueues
	// all eight children, so every key's siblings are leaves or
	// internal boxes.
	depth := uint64(0)
	leafSet := make(map[morton.Key]bool)
	for _, b := range leaves {
		leafSet[b.key] = true
		if b.key.Level() > depth {
			depth = b.key.Level()
		}
	}

	t := &Tree{domain: domain, depth: depth}
	t.buildLevels(leafSet, depth)
	for k := range leafSet {
		t.leaves = append(t.leaves, k)
	}
	sort.Slice(t.leaves, func(i, j int) bool { return t.leaves[i].Morton < t.leaves[j].Morton })
	t.finish(order)
	return t, nil
}

// buildLevels populates the per-level key slices from the leaf set,
// adding ancestors and completing sibling groups at every level.
func (t *Tree) buildLevels(leafSet map[morton.Key]bool, depth uint64) {
	t.keySet = make(map[morton.Key]bool)
	perLevel := make([]map[morton.Key]bool, depth+1)
	for i := range perLevel {
		perLevel[i] = make(map[morton.Key]bool)
	}
	perLevel[0][morton.Root()] = true
	for k := range leafSet {
		a := k
		for {
			perLevel[a.Level()][a] = true
			if a.Level() == 0 {
				break
			}
			a = a.Parent()
		}
	}
	for level := uint64(1); level <= depth; level++ {
		for k := range perLevel[level] {
			for _, s := range k.Siblings() {
				perLevel[level][s] = true
			}
		}
	}

	t.levels = make([][]morton.Key, depth+1)
	t.keyIndex = make([]map[morton.Key]int, depth+1)
	for level := uint64(0); level <= depth; level++ {
		keys := make([]morton.Key, 0, len(perLevel[level]))
		for k := range perLevel[level] {
			keys = append(keys, k)
			t.keySet[k] = true
		}
		sort.Slice(keys, func(i, j int) bool { return keys[i].Morton < keys[j].Morton })
		t.levels[level] = keys
		idx := make(map[morton.Key]int, len(keys))
		for i, k := range keys {
			idx[k] = i
		}
		t.keyIndex[level] = idx
	}
}

// finish stores the sorted point data and computes leaf coordinate
// ranges.
func (t *Tree) finish(order pointOrder) {
	t.coords = order.coords
	t.indices = order.index
	t.leafIndex = make(map[morton.Key]int, len(t.leaves))
	t.leafRange = make(map[morton.Key][2]int, len(t.leaves))
	for i, k := range t.leaves {
		t.leafIndex[k] = i
		lo, hi := descendantCodes(k)
		a := sort.Search(len(order.codes), func(i int) bool { return order.codes[i] >= lo })
		b := sort.Search(len(order.codes), func(i int) bool { return order.codes[i] >= hi })
		t.leafRange[k] = [2]int{a, b}
	}
}

// LeavesWithin returns the leaves descended from k, including k itself
// when k is a leaf. The returned slice aliases the tree's leaf
// storage.
func (t *Tree) LeavesWithin(k morton.Key) []morton.Key {
	lo, hi := descendantCodes(k)
	// Leaves are sorted by Morton code, so descendants are contiguous.
	a := sort.Search(len(t.leaves), func(i int) bool { return t.leaves[i].Morton>>16 >= lo })
	b := sort.Search(len(t.leaves), func(i int) bool { return t.leaves[i].Morton>>16 >= hi })
	return t.leaves[a:b]
}

// Domain returns the tree's bounding cube.
func (t *Tree) Domain() Domain { return t.domain }

// Depth returns the finest level present in the tree.
func (t *Tree) Depth() uint64 { return t.depth }

// Keys returns the sorted keys at the given level. The slice is nil
// when the level is beyond the tree depth.
func (t *Tree) Keys(level uint64) []morton.Key {
	if level > t.depth {
		return nil
	}
	return t.levels[level]
}

// Leaves returns the sorted leaf keys.
func (t *Tree) Leaves() []morton.Key { return t.leaves }

// ContainsKey reports whether k is a box of the tree.
func (t *Tree) ContainsKey(k morton.Key) bool { return t.keySet[k] }

// KeyIndex returns the slot of k within Keys(level).
func (t *Tree) KeyIndex(level uint64, k morton.Key) (int, bool) {
	if level > t.depth {
		return 0, false
	}
	i, ok := t.keyIndex[level][k]
	return i, ok
}

// LeafIndex returns the slot of k within Leaves.
func (t *Tree) LeafIndex(k morton.Key) (int, bool) {
	i, ok := t.leafIndex[k]
	return i, ok
}

// IsLeaf reports whether k is a leaf of the tree.
func (t *Tree) IsLeaf(k morton.Key) bool {
	_, ok := t.leafIndex[k]
	return ok
}

// CoordinateRange returns the half-open range of point slots covered
// by the leaf k.
func (t *Tree) CoordinateRange(k morton.Key) (lo, hi int) {
	r, ok := t.leafRange[k]
	if !ok {
		return 0, 0
	}
	return r[0], r[1]
}

// Coordinates returns the Morton-ordered coordinates of the points in
// leaf k, packed as [x0 y0 z0 ...]. The slice aliases the tree's
// storage.
func (t *Tree) Coordinates(k morton.Key) []float64 {
	lo, hi := t.CoordinateRange(k)
	return t.coords[3*lo : 3*hi]
}

// AllCoordinates returns every point in Morton order.
func (t *Tree) AllCoordinates() []float64 { return t.coords }

// NPoints returns the number of points held by the tree.
func (t *Tree) NPoints() int { return len(t.indices) }

// OriginalIndex returns the input slot of the i-th Morton-ordered
// point, so per-point data can be permuted alongside the coordinates.
func (t *Tree) OriginalIndex(i int) int { return t.indices[i] }
