// Copyright ©2024 The Fastsolve Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package morton

import "fmt"

const (
	// DeepestLevel is the finest refinement level an octree may reach.
	// Anchors are lattice coordinates at this level.
	DeepestLevel = 16

	// levelMask extracts the level bits from a Morton code.
	levelMask = 1<<16 - 1

	// sideLen is the lattice extent along one axis at DeepestLevel.
	sideLen = 1 << DeepestLevel
)

// A Key identifies an octant of a cubic domain. Anchor holds the
// lattice coordinates of the octant's lower corner at DeepestLevel and
// Morton the interleaved code carrying the level in its low 16 bits.
// Keys are totally ordered by Morton.
type Key struct {
	Anchor [3]uint64
	Morton uint64
}

// NewKey returns the key with the given anchor and level. NewKey
// panics if the anchor is outside the lattice, the level exceeds
// DeepestLevel, or the anchor is not aligned to the level's grid.
func NewKey(anchor [3]uint64, level uint64) Key {
	if level > DeepestLevel {
		panic(fmt.Sprintf("morton: level %d exceeds deepest level", level))
	}
	side := uint64(1) << (DeepestLevel - level)
	for _, a := range anchor {
		if a >= sideLen {
			panic(fmt.Sprintf("morton: anchor %v outside lattice", anchor))
		}
		if a%side != 0 {
			panic(fmt.Sprintf("morton: anchor %v unaligned at level %d", anchor, level))
		}
	}
	return Key{Anchor: anchor, Morton: encode(anchor)<<16 | level}
}

// encode interleaves the three 16-bit anchor coordinates into a 48-bit
// code with x above y above z at each bit position.
func encode(anchor [3]uint64) uint64 {
	var m uint64
	for b := 0; b < DeepestLevel; b++ {
		m |= (anchor[0] >> b & 1) << (3*b + 2)
		m |= (anchor[1] >> b & 1) << (3*b + 1)
		m |= (anchor[2] >> b & 1) << (3 * b)
	}
	return m
}

// Level returns the refinement level of k.
func (k Key) Level() uint64 { return k.Morton & levelMask }

// side returns the lattice extent of k's octant along one axis.
func (k Key) side() uint64 { return 1 << (DeepestLevel - k.Level()) }

// Root returns the level-zero key covering the whole domain.
func Root() Key { return NewKey([3]uint64{}, 0) }

// Parent returns the key of the octant containing k at the next
// coarser level. Parent panics when called on the root.
func (k Key) Parent() Key {
	level := k.Level()
	if level == 0 {
		panic("morton: root has no parent")
	}
	side := uint64(1) << (DeepestLevel - level + 1)
	var anchor [3]uint64
	for i, a := range k.Anchor {
		anchor[i] = a - a%side
	}
	return NewKey(anchor, level-1)
}

// FirstChild returns the child of k sharing k's anchor.
func (k Key) FirstChild() Key {
	return NewKey(k.Anchor, k.Level()+1)
}

// Children returns the eight children of k in ascending Morton order.
// The i-th child's anchor offset is ChildOffset(i).
func (k Key) Children() [8]Key {
	level := k.Level() + 1
	half := uint64(1) << (DeepestLevel - level)
	var c [8]Key
	for s := 0; s < 8; s++ {
		d := ChildOffset(s)
		anchor := [3]uint64{
			k.Anchor[0] + uint64(d[0])*half,
			k.Anchor[1] + uint64(d[1])*half,
			k.Anchor[2] + uint64(d[2])*half,
		}
		c[s] = NewKey(anchor, level)
	}
	return c
}

// ChildOffset returns the unit lattice offset of the s-th child within
// its parent, matching the Morton order of Children.
func ChildOffset(s int) [3]int {
	return [3]int{s >> 2 & 1, s >> 1 & 1, s & 1}
}

// SiblingIndex returns the position of k among the children of its
// parent, in the order of Children.
func (k Key) SiblingIndex() int {
	level := k.Level()
	if level == 0 {
		return 0
	}
	shift := DeepestLevel - level
	return int(k.Anchor[0]>>shift&1)<<2 | int(k.Anchor[1]>>shift&1)<<1 | int(k.Anchor[2]>>shift&1)
}

// Siblings returns the eight children of k's parent, including k, in
// ascending Morton order.
func (k Key) Siblings() [8]Key {
	return k.Parent().Children()
}

// Directions lists the 26 unit offsets to the same-level neighbors of
// an octant, in the fixed order used by AllNeighbors and by the
// field-translation displacement tables.
var Directions = func() [26][3]int {
	var d [26][3]int
	i := 0
	for x := -1; x <= 1; x++ {
		for y := -1; y <= 1; y++ {
			for z := -1; z <= 1; z++ {
				if x == 0 && y == 0 && z == 0 {
					continue
				}
				d[i] = [3]int{x, y, z}
				i++
			}
		}
	}
	return d
}()

// neighbor returns the same-level key displaced from k by d octant
// widths, and whether it lies inside the domain.
func (k Key) neighbor(d [3]int) (Key, bool) {
	side := int64(k.side())
	var anchor [3]uint64
	for i := range anchor {
		a := int64(k.Anchor[i]) + int64(d[i])*side
		if a < 0 || a >= sideLen {
			return Key{}, false
		}
		anchor[i] = uint64(a)
	}
	return NewKey(anchor, k.Level()), true
}

// AllNeighbors returns the 26 same-level neighbors of k in Directions
// order. ok[i] reports whether the i-th neighbor lies inside the
// domain.
func (k Key) AllNeighbors() (nb [26]Key, ok [26]bool) {
	for i, d := range Directions {
		nb[i], ok[i] = k.neighbor(d)
	}
	return nb, ok
}

// Neighbors returns the same-level neighbors of k that lie inside the
// domain, in Directions order.
func (k Key) Neighbors() []Key {
	nb := make([]Key, 0, 26)
	for _, d := range Directions {
		if n, ok := k.neighbor(d); ok {
			nb = append(nb, n)
		}
	}
	return nb
}

// IsAdjacent reports whether the octants of k and o share any boundary
// point or overlap. The keys need not be at the same level.
func (k Key) IsAdjacent(o Key) bool {
	for i := range k.Anchor {
		alo, ahi := k.Anchor[i], k.Anchor[i]+k.side()
		blo, bhi := o.Anchor[i], o.Anchor[i]+o.side()
		if ahi < blo || bhi < alo {
			return false
		}
	}
	return true
}

// IsAncestor reports whether k is an ancestor of o or equal to it.
func (k Key) IsAncestor(o Key) bool {
	if k.Level() > o.Level() {
		return false
	}
	for i := range k.Anchor {
		if o.Anchor[i] < k.Anchor[i] || o.Anchor[i] >= k.Anchor[i]+k.side() {
			return false
		}
	}
	return true
}

// NTransferVectors is the number of admissible transfer vectors between
// same-level octants in a V-list: the 7³ relative offsets reachable
// through a parent's neighborhood minus the 3³ adjacent ones.
const NTransferVectors = 316

// TransferVector returns the level-independent hash identifying the
// relative position of target with respect to source. The components
// of the offset must lie in [-3, 3]; TransferVector panics otherwise,
// or when the keys are at different levels.
func TransferVector(source, target Key) int {
	if source.Level() != target.Level() {
		panic("morton: transfer vector between different levels")
	}
	side := int64(source.side())
	h := 0
	for i := range source.Anchor {
		d := (int64(target.Anchor[i]) - int64(source.Anchor[i])) / side
		if d < -3 || d > 3 {
			panic(fmt.Sprintf("morton: transfer offset %d out of range", d))
		}
		h = h*7 + int(d+3)
	}
	return h
}

// AllTransferVectors returns the sorted hashes of the 316 admissible
// V-list transfer vectors together with their integer offsets.
func AllTransferVectors() (hashes []int, offsets [][3]int) {
	for x := -3; x <= 3; x++ {
		for y := -3; y <= 3; y++ {
			for z := -3; z <= 3; z++ {
				if x >= -1 && x <= 1 && y >= -1 && y <= 1 && z >= -1 && z <= 1 {
					continue
				}
				hashes = append(hashes, ((x+3)*7+y+3)*7+z+3)
				offsets = append(offsets, [3]int{x, y, z})
			}
		}
	}
	return hashes, offsets
}
