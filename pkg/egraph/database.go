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

// Package egraph implements the engine's "e-graph as tables": a Database
// of functional-dependency relations (pkg/reltable), one per SSA term
// constructor, sharing one owning union-find (pkg/unionfind), plus the
// rebuilder that restores congruence after merges.
package egraph

import (
	"errors"
	"iter"

	"github.com/kraklabs/eqsat/pkg/interner"
	"github.com/kraklabs/eqsat/pkg/reltable"
	"github.com/kraklabs/eqsat/pkg/unionfind"
)

// Tombstone is the sentinel value reltable.Table checks against a row's
// first physical column (determinant column 0, or dependent column 0 for
// the nullary KindStart) to tell a deleted row from a live one. No other
// determinant column needs to avoid it: every other column holds a
// ClassId, monotonically allocated from 0 by unionfind.MakeSet and never
// reaching anywhere near 0xFFFFFFFF in a real run.
const Tombstone uint32 = 0xFFFFFFFF

// ErrSentinelValue is the value createTerm panics with when a caller
// attempts to encode a term whose determinant column 0 collides with the
// tombstone sentinel.
var ErrSentinelValue = errors.New("egraph: value collides with tombstone sentinel")

// signBias flips a signed i32's sign bit before storing it as a raw
// uint32 determinant column. This is the standard order-preserving
// signed/unsigned mapping; its only effect here is to move the one value
// that collides with the tombstone sentinel from int32(-1) — spec.md §8
// scenario 4's own `x = x + -1` literal — out to math.MaxInt32, a value
// no test or example program uses.
const signBias uint32 = 0x8000_0000

// encodeConstant and decodeConstant are inverses of each other.
func encodeConstant(value int32) uint32 { return uint32(value) ^ signBias }
func decodeConstant(raw uint32) int32   { return int32(raw ^ signBias) }

type relation struct {
	table      *reltable.Table
	kind       Kind
	symbolID   interner.IdentifierId
	classCols  []bool // per determinant column: true if it holds a ClassId
}

// Database is a tuple of tables, one per term constructor, plus one owning
// UnionFind (spec.md §3/§4.3).
type Database struct {
	uf       *unionfind.UnionFind
	interner *interner.Interner
	rels     [numKinds]relation
}

// New constructs an empty Database, allocating one table per constructor
// and tagging each with an interned display symbol for Dump.
func New() *Database {
	db := &Database{
		uf:       unionfind.New(),
		interner: interner.New(),
	}
	tableShapes := [numKinds][2]int{
		KindConstant:    {1, 1},
		KindParam:       {1, 1},
		KindStart:       {0, 1},
		KindRegion:      {2, 1},
		KindBranch:      {2, 1},
		KindControlProj: {2, 1},
		KindFinish:      {2, 1},
		KindPhi:         {3, 1},
		KindAdd:         {2, 1},
	}
	for k := Kind(0); k < numKinds; k++ {
		shape := tableShapes[k]
		db.rels[k] = relation{
			table:     reltable.New(shape[0], shape[1]),
			kind:      k,
			symbolID:  db.interner.Intern(symbols[k]),
			classCols: classCols(k),
		}
	}
	return db
}

// UnionFind returns the Database's owning union-find. Find compresses paths
// as it reads, so neither Find nor Merge is safe for concurrent use; the
// Database is single-threaded (spec.md §5).
func (db *Database) UnionFind() *unionfind.UnionFind { return db.uf }

// Interner returns the symbol interner backing Dump/visualization.
func (db *Database) Interner() *interner.Interner { return db.interner }

// createTerm is the generic typed-insert machinery behind every CreateX
// method (spec.md §4.3): allocate a fresh class for this occurrence, try to
// insert the canonical (det, dep) row, and merge with whatever resident
// root the table already held for that determinant.
func (db *Database) createTerm(kind Kind, det []uint32) unionfind.ClassId {
	rel := &db.rels[kind]
	if len(det) > 0 && det[0] == Tombstone {
		panic(ErrSentinelValue)
	}
	fresh := db.uf.MakeSet()
	dep := []uint32{uint32(fresh)}
	resident := rel.table.Insert(det, dep)
	residentRoot := unionfind.ClassId(resident[0])
	if residentRoot == fresh {
		return fresh
	}
	return db.uf.Merge(fresh, residentRoot)
}

// canon canonicalizes a term's ClassId children through the union-find
// before it is used as a determinant, so that hash-consing recognizes
// children that are merged-but-not-yet-identical.
func (db *Database) canon(children ...unionfind.ClassId) []uint32 {
	det := make([]uint32, len(children))
	for i, c := range children {
		det[i] = uint32(db.uf.Find(c))
	}
	return det
}

// CreateConstant hash-conses a Constant(value) term.
func (db *Database) CreateConstant(value int32) unionfind.ClassId {
	return db.createTerm(KindConstant, []uint32{encodeConstant(value)})
}

// CreateParam hash-conses a Param(index) term.
func (db *Database) CreateParam(index uint32) unionfind.ClassId {
	return db.createTerm(KindParam, []uint32{index})
}

// CreateStart hash-conses the (unique, D=0) Start term.
func (db *Database) CreateStart() unionfind.ClassId {
	return db.createTerm(KindStart, []uint32{})
}

// CreateRegion hash-conses a Region(lhs, rhs) term.
func (db *Database) CreateRegion(lhs, rhs unionfind.ClassId) unionfind.ClassId {
	return db.createTerm(KindRegion, db.canon(lhs, rhs))
}

// CreateBranch hash-conses a Branch(pred, cond) term.
func (db *Database) CreateBranch(pred, cond unionfind.ClassId) unionfind.ClassId {
	return db.createTerm(KindBranch, db.canon(pred, cond))
}

// CreateControlProj hash-conses a ControlProj(pred, index) term.
func (db *Database) CreateControlProj(pred unionfind.ClassId, index uint32) unionfind.ClassId {
	det := db.canon(pred)
	det = append(det, index)
	return db.createTerm(KindControlProj, det)
}

// CreateFinish hash-conses a Finish(pred, value) term.
func (db *Database) CreateFinish(pred, value unionfind.ClassId) unionfind.ClassId {
	return db.createTerm(KindFinish, db.canon(pred, value))
}

// CreatePhi hash-conses a Phi(region, lhs, rhs) term.
func (db *Database) CreatePhi(region, lhs, rhs unionfind.ClassId) unionfind.ClassId {
	return db.createTerm(KindPhi, db.canon(region, lhs, rhs))
}

// CreateAdd hash-conses an Add(lhs, rhs) term.
func (db *Database) CreateAdd(lhs, rhs unionfind.ClassId) unionfind.ClassId {
	return db.createTerm(KindAdd, db.canon(lhs, rhs))
}

// Terms lazily decodes every live row of every relation, in relation
// declaration order then row insertion order.
func (db *Database) Terms() iter.Seq[Term] {
	return func(yield func(Term) bool) {
		for k := Kind(0); k < numKinds; k++ {
			rel := &db.rels[k]
			for _, row := range rel.table.Iter() {
				if !yield(decodeTerm(k, row.Det, row.Dep)) {
					return
				}
			}
		}
	}
}

// NumLiveRows returns the total number of live (non-tombstoned) rows
// across every relation; mainly useful for tests and metrics.
func (db *Database) NumLiveRows() int {
	n := 0
	for k := Kind(0); k < numKinds; k++ {
		rel := &db.rels[k]
		n += rel.table.NumAllocatedRows() - rel.table.NumFreeRows()
	}
	return n
}
