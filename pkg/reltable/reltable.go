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

// Package reltable implements Table, a functional-dependency relation: a set
// of rows over a fixed number of determinant columns and dependent columns,
// with O(1) lookup from a determinant tuple to its row.
//
// Rust's original rendering (original_source/db/src/table.rs) carries
// DET_COLS and DEP_COLS as const generic parameters so the determinant and
// dependent column counts are baked into the type. Go generics don't support
// value parameters, so Table carries detCols/depCols as runtime fields and
// stores every row packed into one flat []uint32 slice (spec.md §9's
// "dense row storage" design note) for cache locality; the one level of lost
// compile-time type safety is recovered by pkg/egraph's Database, whose
// typed per-constructor methods are the only code that ever touches a Table
// directly.
package reltable

import "iter"

// tombstone marks a deleted row's first column. 0xFFFFFFFF is never a
// legitimate value for a row's first column (pkg/egraph rejects any term
// whose determinant column 0 equals it); other columns are not checked.
const tombstone uint32 = 0xFFFFFFFF

// RowID names a row's position in a Table. Stable across inserts and
// deletes: a RowID, once issued, always refers to the same row (or to a
// tombstoned slot) for the Table's lifetime.
type RowID uint32

// Row is a determinant/dependent pair, yielded by Iter.
type Row struct {
	Det []uint32
	Dep []uint32
}

// Table is a functional-dependency relation over detCols determinant
// columns and depCols dependent columns.
type Table struct {
	detCols int
	depCols int

	rows  []uint32 // flat storage: row i occupies rows[i*width : i*width+width]
	index map[string]RowID
	free  int // number of tombstoned rows
}

func (t *Table) width() int { return t.detCols + t.depCols }

// New returns an empty Table with the given determinant/dependent column
// counts.
func New(detCols, depCols int) *Table {
	return &Table{
		detCols: detCols,
		depCols: depCols,
		index:   make(map[string]RowID),
	}
}

// key builds the map key for a determinant tuple. Values are arbitrary
// uint32 columns (ClassIds, indices, sign-biased constant payloads), so a
// fixed-width byte encoding avoids any ambiguity a separator-based string
// join could introduce.
func key(det []uint32) string {
	buf := make([]byte, 4*len(det))
	for i, v := range det {
		buf[4*i] = byte(v)
		buf[4*i+1] = byte(v >> 8)
		buf[4*i+2] = byte(v >> 16)
		buf[4*i+3] = byte(v >> 24)
	}
	return string(buf)
}

// Insert looks up det in the table. If a live row already has that
// determinant, its existing dependent tuple is returned unchanged (the new
// dep is discarded — reconciling the two is the rebuilder's job, not
// Insert's). Otherwise a new row is appended and dep is returned as-is.
func (t *Table) Insert(det, dep []uint32) []uint32 {
	if len(det) != t.detCols || len(dep) != t.depCols {
		panic("reltable: column count mismatch")
	}
	k := key(det)
	if id, ok := t.index[k]; ok {
		_, existingDep, _ := t.GetRow(id)
		return existingDep
	}

	id := RowID(len(t.rows) / t.width())
	row := make([]uint32, 0, t.width())
	row = append(row, det...)
	row = append(row, dep...)
	t.rows = append(t.rows, row...)
	t.index[k] = id
	return append([]uint32(nil), dep...)
}

// FirstRow returns the RowID of the first live row, if any.
func (t *Table) FirstRow() (RowID, bool) {
	return t.NextRow(RowID(^uint32(0)))
}

// NextRow returns the next live row strictly after id, skipping
// tombstones. Passing ^uint32(0) as id starts the scan from row 0.
func (t *Table) NextRow(id RowID) (RowID, bool) {
	w := t.width()
	n := len(t.rows) / w
	start := int(id) + 1
	if id == RowID(^uint32(0)) {
		start = 0
	}
	for i := start; i < n; i++ {
		if t.rows[i*w] != tombstone {
			return RowID(i), true
		}
	}
	return 0, false
}

// GetRow returns the determinant/dependent tuple for id, or ok=false if id
// is out of range or tombstoned.
func (t *Table) GetRow(id RowID) (det, dep []uint32, ok bool) {
	w := t.width()
	n := len(t.rows) / w
	if int(id) >= n {
		return nil, nil, false
	}
	base := int(id) * w
	if t.rows[base] == tombstone {
		return nil, nil, false
	}
	det = append([]uint32(nil), t.rows[base:base+t.detCols]...)
	dep = append([]uint32(nil), t.rows[base+t.detCols:base+w]...)
	return det, dep, true
}

// DeleteRow tombstones id, removing it from the determinant index. Reports
// whether a live row was actually deleted.
func (t *Table) DeleteRow(id RowID) bool {
	det, _, ok := t.GetRow(id)
	if !ok {
		return false
	}
	w := t.width()
	base := int(id) * w
	t.rows[base] = tombstone
	delete(t.index, key(det))
	t.free++
	return true
}

// SetRow overwrites id's dependent tuple in place, keeping its determinant
// and RowID unchanged.
func (t *Table) SetRow(id RowID, dep []uint32) {
	if len(dep) != t.depCols {
		panic("reltable: column count mismatch")
	}
	w := t.width()
	base := int(id)*w + t.detCols
	copy(t.rows[base:base+t.depCols], dep)
}

// ReindexRow re-derives id's determinant-index entry from its current
// stored determinant, for use after RemapDet has overwritten a row's
// determinant columns in place. The entry for the old determinant is not
// removed.
func (t *Table) ReindexRow(id RowID) {
	det, _, ok := t.GetRow(id)
	if !ok {
		return
	}
	t.index[key(det)] = id
}

// RemapDet overwrites id's determinant tuple in place, without touching the
// determinant index (the caller must call ReindexRow afterward once all
// rows it plans to move have had their determinants rewritten, so that
// collisions discovered mid-pass don't shadow rows the rebuilder still
// needs to read).
func (t *Table) RemapDet(id RowID, det []uint32) {
	if len(det) != t.detCols {
		panic("reltable: column count mismatch")
	}
	w := t.width()
	base := int(id) * w
	copy(t.rows[base:base+t.detCols], det)
}

// Lookup returns the RowID of the live row with the given determinant, if
// any.
func (t *Table) Lookup(det []uint32) (RowID, bool) {
	id, ok := t.index[key(det)]
	return id, ok
}

// Iter yields every live row in RowID order.
func (t *Table) Iter() iter.Seq2[RowID, Row] {
	return func(yield func(RowID, Row) bool) {
		for id, ok := t.FirstRow(); ok; id, ok = t.NextRow(id) {
			det, dep, _ := t.GetRow(id)
			if !yield(id, Row{Det: det, Dep: dep}) {
				return
			}
		}
	}
}

// NumAllocatedRows returns the total number of row slots ever allocated,
// live or tombstoned.
func (t *Table) NumAllocatedRows() int {
	return len(t.rows) / t.width()
}

// NumFreeRows returns the number of tombstoned row slots.
func (t *Table) NumFreeRows() int {
	return t.free
}

// DetCols returns the number of determinant columns.
func (t *Table) DetCols() int { return t.detCols }

// DepCols returns the number of dependent columns.
func (t *Table) DepCols() int { return t.depCols }
