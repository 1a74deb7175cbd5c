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

package unionfind

import "testing"

func TestMakeSetFindDistinct(t *testing.T) {
	uf := New()
	x := uf.MakeSet()
	y := uf.MakeSet()
	z := uf.MakeSet()

	if x == y || y == z || z == x {
		t.Fatalf("fresh singleton classes must be distinct: x=%v y=%v z=%v", x, y, z)
	}
	if uf.Find(x) != x || uf.Find(y) != y || uf.Find(z) != z {
		t.Fatalf("singleton classes must be their own canonical representative")
	}
}

func TestMerge(t *testing.T) {
	uf := New()
	x := uf.MakeSet()
	y := uf.MakeSet()
	z := uf.MakeSet()

	uf.Merge(x, y)
	if uf.Find(x) != uf.Find(y) {
		t.Fatalf("x and y should be merged")
	}
	if uf.Find(x) == uf.Find(z) {
		t.Fatalf("z should still be distinct")
	}

	uf.Merge(x, z)
	if uf.Find(x) != uf.Find(z) || uf.Find(y) != uf.Find(z) || uf.Find(y) != uf.Find(x) {
		t.Fatalf("x, y, z should all be merged")
	}
}

func TestMergeIdempotentOnAlreadyEqual(t *testing.T) {
	uf := New()
	x := uf.MakeSet()
	y := uf.MakeSet()
	uf.Merge(x, y)
	root := uf.Find(x)

	got := uf.Merge(x, y)
	if uf.Find(x) != root || uf.Find(y) != root || got != root {
		t.Fatalf("merging already-equal classes must be a no-op")
	}
}

func TestMergeDeterministicTieBreak(t *testing.T) {
	uf := New()
	a := uf.MakeSet() // 0
	b := uf.MakeSet() // 1
	root := uf.Merge(b, a)
	if root != a {
		t.Fatalf("smaller id must win the tie-break: want %v got %v", a, root)
	}
}

// TestLinearChain reproduces spec.md §8 scenario 5: allocate 1000 classes,
// merge pairs (2i, 2i+1), then chain (2i, 2i+2); all 1000 classes must end
// up under one common root.
func TestLinearChain(t *testing.T) {
	uf := New()
	const n = 1000
	ids := make([]ClassId, n)
	for i := range ids {
		ids[i] = uf.MakeSet()
	}

	for i := 0; i < n/2; i++ {
		uf.Merge(ids[2*i], ids[2*i+1])
	}
	for i := 0; i < n/2-1; i++ {
		uf.Merge(ids[2*i], ids[2*i+2])
	}

	root := uf.Find(ids[0])
	for i, id := range ids {
		if uf.Find(id) != root {
			t.Fatalf("class %d (id %v) did not merge into the common root", i, id)
		}
	}
}

func TestNewAllEqualAndAllDistinct(t *testing.T) {
	eq := NewAllEqual(5)
	for i := 0; i < 5; i++ {
		if eq.Find(ClassId(i)) != 0 {
			t.Fatalf("NewAllEqual: class %d should canonicalize to 0", i)
		}
	}

	dist := NewAllDistinct(5)
	for i := 0; i < 5; i++ {
		if dist.Find(ClassId(i)) != ClassId(i) {
			t.Fatalf("NewAllDistinct: class %d should canonicalize to itself", i)
		}
	}
}

func TestEqual(t *testing.T) {
	a := NewAllDistinct(4)
	b := NewAllDistinct(4)
	if !a.Equal(b, 4) {
		t.Fatalf("two all-distinct union-finds over the same n should be equal")
	}

	b.Merge(0, 1)
	if a.Equal(b, 4) {
		t.Fatalf("merging in b should break equality with a")
	}

	a.Merge(0, 1)
	if !a.Equal(b, 4) {
		t.Fatalf("a and b should be equal again after the matching merge")
	}
}

func TestNumClasses(t *testing.T) {
	uf := New()
	if uf.NumClasses() != 0 {
		t.Fatalf("fresh union-find should have 0 classes")
	}
	uf.MakeSet()
	uf.MakeSet()
	if uf.NumClasses() != 2 {
		t.Fatalf("expected 2 classes, got %d", uf.NumClasses())
	}
}
