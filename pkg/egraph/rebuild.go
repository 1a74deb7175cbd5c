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

package egraph

import (
	"fmt"
	"log/slog"

	"github.com/kraklabs/eqsat/pkg/unionfind"
)

// rebuildTable restores the functional-dependency invariant for one
// relation after merges: every live row is re-canonicalized under uf and
// re-inserted, repeating until a full pass makes no change (spec.md §4.4).
func rebuildTable(rel *relation, uf *unionfind.UnionFind) bool {
	changed := false
	for {
		passChanged := false
		for id, ok := rel.table.FirstRow(); ok; id, ok = rel.table.NextRow(id) {
			det, dep, ok2 := rel.table.GetRow(id)
			if !ok2 {
				continue
			}
			canonDet := make([]uint32, len(det))
			rowChanged := false
			for i, v := range det {
				if rel.classCols[i] {
					c := uf.Find(unionfind.ClassId(v))
					canonDet[i] = uint32(c)
					if uint32(c) != v {
						rowChanged = true
					}
				} else {
					canonDet[i] = v
				}
			}
			canonRoot := uf.Find(unionfind.ClassId(dep[0]))
			if uint32(canonRoot) != dep[0] {
				rowChanged = true
			}
			if !rowChanged {
				continue
			}

			rel.table.DeleteRow(id)
			resident := rel.table.Insert(canonDet, []uint32{uint32(canonRoot)})
			residentRoot := unionfind.ClassId(resident[0])
			if residentRoot != canonRoot {
				uf.Merge(canonRoot, residentRoot)
			}
			passChanged = true
			changed = true
		}
		if !passChanged {
			break
		}
	}
	return changed
}

// signature encodes a term's kind and canonicalized determinant into a
// string key: the congruence-closure "observation" corebuild groups terms
// by. Literal columns (constant values, param/projection indices) pass
// through unchanged; ClassId columns are canonicalized under probe.
func signature(kind Kind, det []uint32, classCols []bool, probe *unionfind.UnionFind) string {
	buf := make([]byte, 0, 1+4*len(det))
	buf = append(buf, byte(kind))
	for i, v := range det {
		w := v
		if classCols[i] {
			w = uint32(probe.Find(unionfind.ClassId(v)))
		}
		buf = append(buf, byte(w), byte(w>>8), byte(w>>16), byte(w>>24))
	}
	return string(buf)
}

// seedFrom builds a fresh UnionFind over n classes that already reflects
// every merge uf currently knows about.
func seedFrom(uf *unionfind.UnionFind, n int) *unionfind.UnionFind {
	seed := unionfind.NewAllDistinct(n)
	for i := 0; i < n; i++ {
		c := unionfind.ClassId(i)
		seed.Merge(c, uf.Find(c))
	}
	return seed
}

// Corebuild performs whole-graph congruence closure by partition
// refinement (spec.md §4.4, glossary "Corebuild"): classes whose sets of
// observed canonical terms intersect are merged, iterating until the
// partition stops changing, then
// the discovered equivalence is folded into the real union-find.
//
// Grouping terms directly by signature (kind + canonicalized determinant)
// and merging every real root that shares a signature is equivalent to
// the "bucket by root class, merge classes whose bucketed term sets
// intersect" formulation: both converge to the same partition, since a
// shared signature is exactly what makes two buckets intersect.
func (db *Database) Corebuild() bool {
	n := db.uf.NumClasses()
	if n == 0 {
		return false
	}

	// Seed the working partition from db.uf's current state rather than a
	// blind "everyone equal" start: merges asserted directly on the
	// union-find (outside createTerm's hash-consing traffic, e.g. the
	// static-phi placeholder merges in pkg/interp) must participate in
	// signature matching from round one, or congruences that follow from
	// them can be missed.
	lastUF := seedFrom(db.uf, n)
	nextUF := unionfind.NewAllDistinct(n)

	for {
		sigToRoots := make(map[string][]unionfind.ClassId)
		for k := Kind(0); k < numKinds; k++ {
			rel := &db.rels[k]
			for _, row := range rel.table.Iter() {
				sig := signature(k, row.Det, rel.classCols, lastUF)
				root := unionfind.ClassId(row.Dep[0])
				roots := sigToRoots[sig]
				seen := false
				for _, r := range roots {
					if r == root {
						seen = true
						break
					}
				}
				if !seen {
					sigToRoots[sig] = append(roots, root)
				}
			}
		}

		for _, roots := range sigToRoots {
			for i := 1; i < len(roots); i++ {
				nextUF.Merge(roots[0], roots[i])
			}
		}
		// Congruence closure only ever grows an equivalence; whatever
		// db.uf already knows must survive every round, not just round 0.
		for i := 0; i < n; i++ {
			c := unionfind.ClassId(i)
			nextUF.Merge(c, db.uf.Find(c))
		}

		if lastUF.Equal(nextUF, n) {
			break
		}
		lastUF = nextUF
		nextUF = unionfind.NewAllDistinct(n)
	}

	changed := false
	for i := 0; i < n; i++ {
		c := unionfind.ClassId(i)
		target := lastUF.Find(c)
		if db.uf.Find(c) != db.uf.Find(target) {
			changed = true
		}
		db.uf.Merge(c, target)
	}
	return changed
}

// Rebuild restores every invariant after a batch of merges: corebuild
// discovers congruence-closure equalities beyond structural hash-consing,
// then every relation is re-canonicalized; the two steps repeat until
// neither reports a change (spec.md §4.4's "rebuild is the loop
// { corebuild; for each table rebuild_table }").
//
// withCorebuild gates the whole-graph congruence-closure pass per
// SPEC_FULL.md §7's resolution of spec.md §9's open question: per-table
// rebuild alone already achieves congruence for AST-driven construction,
// since every merge there flows through insert-time hash-consing, but
// corebuild is required once equalities are asserted directly into the
// union-find from outside that traffic (SPEC_FULL.md §10).
func (db *Database) Rebuild(withCorebuild bool, log *slog.Logger) {
	if log == nil {
		log = slog.Default()
	}
	for iteration := 0; ; iteration++ {
		changed := false
		if withCorebuild {
			if db.Corebuild() {
				changed = true
			}
		}
		for k := Kind(0); k < numKinds; k++ {
			if rebuildTable(&db.rels[k], db.uf) {
				changed = true
			}
		}
		log.Debug("rebuild.fixpoint", slog.Int("iteration", iteration), slog.Bool("changed", changed))
		if !changed {
			return
		}
	}
}

// Dump renders every relation's live rows in the stable text format
// `<symbol>(<det>) -> <dep>\n`, relations in declaration order and rows in
// insertion order (spec.md §6.4, the format the test suite pins on). A
// Constant's value is printed as its plain two's-complement uint32, with the
// storage sign bias removed.
func (db *Database) Dump() string {
	var out []byte
	for k := Kind(0); k < numKinds; k++ {
		rel := &db.rels[k]
		for _, row := range rel.table.Iter() {
			if k == KindConstant {
				row.Det[0] = uint32(decodeConstant(row.Det[0]))
			}
			out = append(out, fmt.Sprintf("%s(%s) -> %s\n", symbols[k], joinCols(row.Det), joinCols(row.Dep))...)
		}
	}
	return string(out)
}

func joinCols(cols []uint32) string {
	out := ""
	for i, c := range cols {
		if i > 0 {
			out += ","
		}
		out += fmt.Sprintf("%d", c)
	}
	return out
}
