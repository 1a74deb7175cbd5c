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

package reltable

import (
	"reflect"
	"testing"
)

// TestSimpleTable reproduces spec.md §8 scenario 1 verbatim.
func TestSimpleTable(t *testing.T) {
	tbl := New(2, 1)

	assertDep(t, tbl.Insert([]uint32{0, 1}, []uint32{2}), []uint32{2})
	assertDep(t, tbl.Insert([]uint32{0, 2}, []uint32{3}), []uint32{3})
	// ([0,2],[4]) collides with the existing ([0,2],[3]) row: the stored
	// dependent tuple wins, [4] is discarded.
	assertDep(t, tbl.Insert([]uint32{0, 2}, []uint32{4}), []uint32{3})
	// ([0,1],[5]) collides with the first row: [2] wins.
	assertDep(t, tbl.Insert([]uint32{0, 1}, []uint32{5}), []uint32{2})
	assertDep(t, tbl.Insert([]uint32{1, 2}, []uint32{3}), []uint32{3})

	id, ok := tbl.Lookup([]uint32{0, 1})
	if !ok {
		t.Fatalf("expected a row for determinant [0,1]")
	}
	if !tbl.DeleteRow(id) {
		t.Fatalf("DeleteRow should report success for a live row")
	}

	assertDep(t, tbl.Insert([]uint32{0, 1}, []uint32{5}), []uint32{5})
	assertDep(t, tbl.Insert([]uint32{0, 1}, []uint32{7}), []uint32{5})
}

func TestDeleteRowReportsFalseOnDoubleDelete(t *testing.T) {
	tbl := New(1, 1)
	tbl.Insert([]uint32{0}, []uint32{1})
	id, _ := tbl.Lookup([]uint32{0})

	if !tbl.DeleteRow(id) {
		t.Fatalf("first delete should succeed")
	}
	if tbl.DeleteRow(id) {
		t.Fatalf("second delete of the same row should report false")
	}
}

func TestGetRowOutOfRange(t *testing.T) {
	tbl := New(1, 1)
	if _, _, ok := tbl.GetRow(42); ok {
		t.Fatalf("GetRow on an unallocated id should report ok=false")
	}
}

func TestIterSkipsTombstones(t *testing.T) {
	tbl := New(1, 1)
	tbl.Insert([]uint32{0}, []uint32{10})
	tbl.Insert([]uint32{1}, []uint32{11})
	tbl.Insert([]uint32{2}, []uint32{12})

	id, _ := tbl.Lookup([]uint32{1})
	tbl.DeleteRow(id)

	var dets []uint32
	for _, row := range tbl.Iter() {
		dets = append(dets, row.Det[0])
	}
	if !reflect.DeepEqual(dets, []uint32{0, 2}) {
		t.Fatalf("expected iteration to skip the tombstoned row, got %v", dets)
	}
}

func TestNumAllocatedAndFreeRows(t *testing.T) {
	tbl := New(1, 1)
	tbl.Insert([]uint32{0}, []uint32{10})
	tbl.Insert([]uint32{1}, []uint32{11})
	if tbl.NumAllocatedRows() != 2 {
		t.Fatalf("expected 2 allocated rows, got %d", tbl.NumAllocatedRows())
	}
	if tbl.NumFreeRows() != 0 {
		t.Fatalf("expected 0 free rows, got %d", tbl.NumFreeRows())
	}

	id, _ := tbl.Lookup([]uint32{0})
	tbl.DeleteRow(id)
	if tbl.NumAllocatedRows() != 2 {
		t.Fatalf("deleting must not shrink NumAllocatedRows, got %d", tbl.NumAllocatedRows())
	}
	if tbl.NumFreeRows() != 1 {
		t.Fatalf("expected 1 free row, got %d", tbl.NumFreeRows())
	}
}

func TestMultiColumnDeterminant(t *testing.T) {
	tbl := New(3, 2)
	got := tbl.Insert([]uint32{1, 2, 3}, []uint32{4, 5})
	assertDep(t, got, []uint32{4, 5})

	det, dep, ok := tbl.GetRow(0)
	if !ok {
		t.Fatalf("expected row 0 to be live")
	}
	if !reflect.DeepEqual(det, []uint32{1, 2, 3}) {
		t.Fatalf("unexpected determinant: %v", det)
	}
	if !reflect.DeepEqual(dep, []uint32{4, 5}) {
		t.Fatalf("unexpected dependent: %v", dep)
	}
}

func assertDep(t *testing.T, got, want []uint32) {
	t.Helper()
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("dependent tuple mismatch: got %v want %v", got, want)
	}
}
