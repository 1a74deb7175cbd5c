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

package interp

import (
	"github.com/kraklabs/eqsat/pkg/ast"
	"github.com/kraklabs/eqsat/pkg/egraph"
	"github.com/kraklabs/eqsat/pkg/interner"
	"github.com/kraklabs/eqsat/pkg/unionfind"
)

// SSADomain is the term-building AbstractDomain (spec.md §4.6): it maps
// identifiers to ClassIds and emits terms into a shared egraph.Database as
// it walks the AST. pred is the ClassId of the control term (Start,
// ControlProj, or Region) this domain's program point flows from.
type SSADomain struct {
	db    *egraph.Database
	store map[interner.IdentifierId]unionfind.ClassId
	pred  unionfind.ClassId
}

// NewSSADomain returns the entry domain for a function: one Start term,
// one Param term per parameter, and pred pointing at Start.
func NewSSADomain(db *egraph.Database, fn *ast.Function) *SSADomain {
	start := db.CreateStart()
	store := make(map[interner.IdentifierId]unionfind.ClassId, len(fn.Params))
	for i, p := range fn.Params {
		store[p] = db.CreateParam(uint32(i))
	}
	return &SSADomain{db: db, store: store, pred: start}
}

func cloneSSAStore(store map[interner.IdentifierId]unionfind.ClassId) map[interner.IdentifierId]unionfind.ClassId {
	next := make(map[interner.IdentifierId]unionfind.ClassId, len(store))
	for k, v := range store {
		next[k] = v
	}
	return next
}

func (d *SSADomain) with(store map[interner.IdentifierId]unionfind.ClassId, pred unionfind.ClassId) *SSADomain {
	return &SSADomain{db: d.db, store: store, pred: pred}
}

func (d *SSADomain) get(iden interner.IdentifierId) unionfind.ClassId {
	v, ok := d.store[iden]
	if !ok {
		panic("interp: read of identifier with no prior assignment")
	}
	return v
}

func (d *SSADomain) eval(expr ast.Expression) unionfind.ClassId {
	switch e := expr.(type) {
	case ast.NumberLiteral:
		return d.db.CreateConstant(e.Value)
	case ast.Variable:
		return d.get(e.Iden)
	case ast.AddExpr:
		return d.db.CreateAdd(d.eval(e.Lhs), d.eval(e.Rhs))
	default:
		panic("interp: unknown expression type")
	}
}

func (d *SSADomain) InterpExpr(expr ast.Expression) Value {
	return d.eval(expr)
}

func (d *SSADomain) Assign(iden interner.IdentifierId, val Value) AbstractDomain {
	next := cloneSSAStore(d.store)
	next[iden] = val.(unionfind.ClassId)
	return d.with(next, d.pred)
}

func (d *SSADomain) Get(iden interner.IdentifierId) Value {
	return d.get(iden)
}

func (d *SSADomain) FinishWith(val Value) {
	d.db.CreateFinish(d.pred, val.(unionfind.ClassId))
}

// Branch emits Branch(pred, cond) plus the two ControlProj arms and
// returns a domain per arm, each with the same store but its own control
// predecessor.
func (d *SSADomain) Branch(cond Value) (AbstractDomain, AbstractDomain) {
	condClass := cond.(unionfind.ClassId)
	branch := d.db.CreateBranch(d.pred, condClass)
	truePred := d.db.CreateControlProj(branch, 0)
	falsePred := d.db.CreateControlProj(branch, 1)
	return d.with(cloneSSAStore(d.store), truePred), d.with(cloneSSAStore(d.store), falsePred)
}

// Join emits a Region over the two predecessors and one Phi per
// identifier whose value differs between the branches; identifiers with
// an already-equal (possibly merged) value pass through unchanged.
func (d *SSADomain) Join(other AbstractDomain) AbstractDomain {
	o := other.(*SSADomain)
	uf := d.db.UnionFind()
	region := d.db.CreateRegion(d.pred, o.pred)

	merged := make(map[interner.IdentifierId]unionfind.ClassId)
	for k := range d.store {
		merged[k] = d.store[k]
	}
	for k, bv := range o.store {
		av, ok := merged[k]
		if !ok {
			merged[k] = bv
			continue
		}
		if uf.Find(av) == uf.Find(bv) {
			continue
		}
		merged[k] = d.db.CreatePhi(region, av, bv)
	}
	return d.with(merged, region)
}

// Widen is not used by SSADomain's own loop construction (Loop implements
// the static-phi fixed point directly); it is provided so SSADomain fully
// satisfies AbstractDomain, falling back to Join for the rare case of a
// non-loop caller invoking it directly.
func (d *SSADomain) Widen(other AbstractDomain) (AbstractDomain, bool) {
	joined := d.Join(other)
	return joined, true
}

// Loop implements the while-loop local fixed point of spec.md §4.6 ("the
// subtle part") using static-phi placeholders (design note in §9):
//
//  1. Evaluate the body once under the pre-loop store, using the outer
//     predecessor directly (no region yet — we don't know the loop is
//     even carrying a value until we see what the body changes). This
//     tentative pass's terms are never deleted; they simply end up
//     unreferenced once the real construction below supersedes them,
//     which is why a while loop with n loop-carried identifiers costs an
//     extra, intentionally orphaned Branch/ControlProj/body-expression
//     from this first pass.
//  2. Any identifier whose value after that tentative pass disagrees with
//     its pre-loop value gets a fresh placeholder ClassId.
//  3. Re-run the body with placeholders substituted for those
//     identifiers, under a placeholder control predecessor standing in
//     for the (not yet buildable) loop-entry region. Repeat until the set
//     of identifiers needing a placeholder stops growing.
//  4. Once stable, build the real Region from the outer predecessor and
//     the final pass's body-end predecessor, build one real Phi per
//     placeholder identifier, and merge each placeholder (region and
//     values alike) with its concrete counterpart. The rebuilder
//     propagates the resulting congruence to every term that was built
//     against a placeholder.
//
// A single loop-carried identifier costs exactly one real Region and one
// real Phi: the tentative pass only needs a predecessor, not a region of
// its own, since nothing loops back to it.
func (d *SSADomain) Loop(cond ast.Expression, body *ast.Block) AbstractDomain {
	uf := d.db.UnionFind()
	outerPred := d.pred
	outerStore := d.store

	// Step 1: tentative pass under the real pre-loop store and predecessor.
	tentativeEntry := d.with(cloneSSAStore(outerStore), outerPred)
	condVal := tentativeEntry.eval(cond)
	branch := d.db.CreateBranch(outerPred, condVal)
	truePred := d.db.CreateControlProj(branch, 0)
	d.db.CreateControlProj(branch, 1) // the tentative false arm; never read, kept for a symmetric pair of projections
	tentativeBody := InterpretBlock(d.with(cloneSSAStore(outerStore), truePred), body).(*SSADomain)

	placeholders := make(map[interner.IdentifierId]unionfind.ClassId)
	storePH := cloneSSAStore(outerStore)
	for k, v := range tentativeBody.store {
		pre, ok := outerStore[k]
		if ok && uf.Find(pre) == uf.Find(v) {
			continue
		}
		ph := uf.MakeSet()
		placeholders[k] = ph
		storePH[k] = ph
	}

	// Step 3: re-evaluate under placeholders until the placeholder set
	// stops growing.
	var (
		regionPH    unionfind.ClassId
		finalBranch unionfind.ClassId
		bodyEnd     *SSADomain
	)
	for {
		regionPH = uf.MakeSet()
		entry := d.with(cloneSSAStore(storePH), regionPH)
		cv := entry.eval(cond)
		finalBranch = d.db.CreateBranch(regionPH, cv)
		tp := d.db.CreateControlProj(finalBranch, 0)
		bodyEnd = InterpretBlock(d.with(cloneSSAStore(storePH), tp), body).(*SSADomain)

		grew := false
		for k, v := range bodyEnd.store {
			if _, already := placeholders[k]; already {
				continue
			}
			pre, ok := storePH[k]
			if ok && uf.Find(pre) == uf.Find(v) {
				continue
			}
			ph := uf.MakeSet()
			placeholders[k] = ph
			storePH[k] = ph
			grew = true
		}
		if !grew {
			break
		}
	}

	// Step 4: finalize.
	region := d.db.CreateRegion(outerPred, bodyEnd.pred)
	uf.Merge(regionPH, region)

	exitStore := cloneSSAStore(outerStore)
	for k, ph := range placeholders {
		realPhi := d.db.CreatePhi(region, outerStore[k], bodyEnd.store[k])
		uf.Merge(ph, realPhi)
		exitStore[k] = realPhi
	}

	exitPred := d.db.CreateControlProj(finalBranch, 1)
	return d.with(exitStore, exitPred)
}
