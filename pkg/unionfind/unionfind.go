// Copyright 2025 KrakLabs
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// For commercial licensing, contact: licensing@kraklabs.com
//
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package unionfind implements a dense-integer union-find: the equivalence
// theory the whole engine is built on (spec.md §3, §4.1).
package unionfind

// ClassId names an equivalence class. Dense, non-negative, allocated
// monotonically by MakeSet and never reused, reordered or invalidated.
type ClassId uint32

// UnionFind is a growable parent-pointer forest over ClassIds.
//
// Find performs path compression (by halving) even though it only needs a
// read-only view of the equivalence relation; the path-compression writes
// are the one piece of interior mutability the type needs, so Find takes a
// pointer receiver and mutates parent in place, matching spec.md §5's
// requirement that find be expressible without fighting an exclusive/shared
// aliasing split.
type UnionFind struct {
	parent []ClassId
}

// New returns an empty UnionFind.
func New() *UnionFind {
	return &UnionFind{}
}

// NewAllDistinct returns a UnionFind with n singleton classes: find(i) == i
// for all i in [0, n). Used by corebuild to seed next_uf each round.
func NewAllDistinct(n int) *UnionFind {
	uf := &UnionFind{parent: make([]ClassId, n)}
	for i := range uf.parent {
		uf.parent[i] = ClassId(i)
	}
	return uf
}

// NewAllEqual returns a UnionFind with n classes, all pre-merged to class 0.
// Corebuild does not use it; it seeds its loop from the owning union-find's
// current partition instead.
func NewAllEqual(n int) *UnionFind {
	uf := &UnionFind{parent: make([]ClassId, n)}
	for i := range uf.parent {
		uf.parent[i] = 0
	}
	return uf
}

// MakeSet allocates a new singleton class and returns its id.
func (uf *UnionFind) MakeSet() ClassId {
	id := ClassId(len(uf.parent))
	uf.parent = append(uf.parent, id)
	return id
}

// NumClasses returns the total number of classes ever allocated.
func (uf *UnionFind) NumClasses() int {
	return len(uf.parent)
}

// Find returns the canonical representative of id's class, compressing the
// path to id by halving so repeated finds stay close to O(1) amortized.
func (uf *UnionFind) Find(id ClassId) ClassId {
	for uf.parent[id] != id {
		// Path halving: point id at its grandparent before advancing.
		uf.parent[id] = uf.parent[uf.parent[id]]
		id = uf.parent[id]
	}
	return id
}

// Merge unites the classes of a and b and returns the surviving canonical
// representative. The tie-break is deterministic (smaller id wins) so that
// two structurally identical sequences of operations yield identical
// canonical ids, per spec.md §3.
func (uf *UnionFind) Merge(a, b ClassId) ClassId {
	fa, fb := uf.Find(a), uf.Find(b)
	if fa == fb {
		return fa
	}
	if fa < fb {
		uf.parent[fb] = fa
		return fa
	}
	uf.parent[fa] = fb
	return fb
}

// Equal reports whether find(i) is identical between uf and other for every
// i in [0, n), per spec.md §3's definition of UnionFind equality. Both
// structures are expected to share the same [0, n) id space (as
// corebuild's last_uf/next_uf always do), so this is a direct per-index
// comparison rather than a relabeling-tolerant structural comparison.
func (uf *UnionFind) Equal(other *UnionFind, n int) bool {
	if n > uf.NumClasses() || n > other.NumClasses() {
		return false
	}
	for i := 0; i < n; i++ {
		if uf.Find(ClassId(i)) != other.Find(ClassId(i)) {
			return false
		}
	}
	return true
}
