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
	"math"

	"github.com/kraklabs/eqsat/pkg/ast"
	"github.com/kraklabs/eqsat/pkg/interner"
)

// Interval is a closed [Low, High] range of i32, carried in meaning from
// original_source/imp/src/interval.rs.
type Interval struct {
	Low, High int32
}

// Top is the unconstrained interval [MinInt32, MaxInt32].
func Top() Interval { return Interval{math.MinInt32, math.MaxInt32} }

// Bottom is the empty interval: no value satisfies it.
func Bottom() Interval { return Interval{1, 0} }

// IsBottom reports whether iv represents the empty interval.
func (iv Interval) IsBottom() bool { return iv.Low > iv.High }

// Single returns the degenerate interval containing only v.
func Single(v int32) Interval { return Interval{v, v} }

// Join is the componentwise (min low, max high) least upper bound.
func (iv Interval) Join(other Interval) Interval {
	if iv.IsBottom() {
		return other
	}
	if other.IsBottom() {
		return iv
	}
	return Interval{min32(iv.Low, other.Low), max32(iv.High, other.High)}
}

// Meet is the componentwise (max low, min high) greatest lower bound,
// collapsing to Bottom when the ranges don't overlap. Defined in the
// original prototype but never called there; SPEC_FULL.md §10 restores
// its use for dead-branch diagnostics.
func (iv Interval) Meet(other Interval) Interval {
	lo, hi := max32(iv.Low, other.Low), min32(iv.High, other.High)
	if lo > hi {
		return Bottom()
	}
	return Interval{lo, hi}
}

// Widen applies classical Cousot-Cousot infinite-jump widening: a
// coordinate that moved down jumps straight to -∞, one that moved up
// jumps straight to +∞, guaranteeing termination in at most two widening
// steps per coordinate.
func (iv Interval) Widen(next Interval) Interval {
	low, high := iv.Low, iv.High
	if next.Low < iv.Low {
		low = math.MinInt32
	}
	if next.High > iv.High {
		high = math.MaxInt32
	}
	return Interval{low, high}
}

// Add computes the interval sum, saturating at ±∞ instead of wrapping.
func (iv Interval) Add(other Interval) Interval {
	return Interval{
		saturatingAdd(iv.Low, other.Low),
		saturatingAdd(iv.High, other.High),
	}
}

func saturatingAdd(a, b int32) int32 {
	if a == math.MinInt32 || b == math.MinInt32 {
		return math.MinInt32
	}
	if a == math.MaxInt32 || b == math.MaxInt32 {
		return math.MaxInt32
	}
	sum := int64(a) + int64(b)
	if sum < math.MinInt32 {
		return math.MinInt32
	}
	if sum > math.MaxInt32 {
		return math.MaxInt32
	}
	return int32(sum)
}

func min32(a, b int32) int32 {
	if a < b {
		return a
	}
	return b
}

func max32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}

// IntervalDomain maps identifiers to Intervals, demonstrating the
// AbstractDomain interface outside of term construction (spec.md §4.6's
// closing paragraph).
type IntervalDomain struct {
	store map[interner.IdentifierId]Interval
	ret   Interval
}

// NewIntervalDomain returns an empty interval store.
func NewIntervalDomain() *IntervalDomain {
	return &IntervalDomain{store: make(map[interner.IdentifierId]Interval), ret: Bottom()}
}

// ReturnValue reports the interval FinishWith last recorded, if any.
func (d *IntervalDomain) ReturnValue() Interval { return d.ret }

// Store returns a copy of the identifier->Interval bindings accumulated so
// far, for callers (the `eqsat run --interval` CLI flag) that need to
// print per-identifier results without reaching into domain internals.
func (d *IntervalDomain) Store() map[interner.IdentifierId]Interval {
	out := make(map[interner.IdentifierId]Interval, len(d.store))
	for k, v := range d.store {
		out[k] = v
	}
	return out
}

func (d *IntervalDomain) clone() *IntervalDomain {
	next := make(map[interner.IdentifierId]Interval, len(d.store))
	for k, v := range d.store {
		next[k] = v
	}
	return &IntervalDomain{store: next, ret: d.ret}
}

func (d *IntervalDomain) get(iden interner.IdentifierId) Interval {
	if iv, ok := d.store[iden]; ok {
		return iv
	}
	return Top()
}

func (d *IntervalDomain) InterpExpr(expr ast.Expression) Value {
	return d.eval(expr)
}

func (d *IntervalDomain) eval(expr ast.Expression) Interval {
	switch e := expr.(type) {
	case ast.NumberLiteral:
		return Single(e.Value)
	case ast.Variable:
		return d.get(e.Iden)
	case ast.AddExpr:
		return d.eval(e.Lhs).Add(d.eval(e.Rhs))
	default:
		panic("interp: unknown expression type")
	}
}

func (d *IntervalDomain) Assign(iden interner.IdentifierId, val Value) AbstractDomain {
	next := d.clone()
	next.store[iden] = val.(Interval)
	return next
}

func (d *IntervalDomain) Get(iden interner.IdentifierId) Value {
	return d.get(iden)
}

func (d *IntervalDomain) FinishWith(val Value) {
	d.ret = val.(Interval)
}

func (d *IntervalDomain) Branch(cond Value) (AbstractDomain, AbstractDomain) {
	return d.clone(), d.clone()
}

func (d *IntervalDomain) Join(other AbstractDomain) AbstractDomain {
	o := other.(*IntervalDomain)
	merged := make(map[interner.IdentifierId]Interval)
	for k := range unionKeys(d.store, o.store) {
		merged[k] = d.get(k).Join(o.get(k))
	}
	return &IntervalDomain{store: merged, ret: d.ret.Join(o.ret)}
}

func (d *IntervalDomain) Widen(other AbstractDomain) (AbstractDomain, bool) {
	o := other.(*IntervalDomain)
	merged := make(map[interner.IdentifierId]Interval)
	changed := false
	for k := range unionKeys(d.store, o.store) {
		a, b := d.get(k), o.get(k)
		w := a.Widen(b)
		if w != a {
			changed = true
		}
		merged[k] = w
	}
	return &IntervalDomain{store: merged, ret: d.ret}, changed
}

// Loop drives the classical interval fixed point: interpret the body
// once per round, join the round's end-of-body store back into the
// pre-loop domain, widen against that join, and stop once widening no
// longer changes anything. The returned domain approximates every value
// reachable at loop exit, not just the last concrete iteration.
func (d *IntervalDomain) Loop(cond ast.Expression, body *ast.Block) AbstractDomain {
	pre := d
	for {
		bodyEnd := InterpretBlock(pre.clone(), body).(*IntervalDomain)
		joined := pre.Join(bodyEnd).(*IntervalDomain)
		widened, stillWidening := pre.Widen(joined)
		w := widened.(*IntervalDomain)
		if !stillWidening {
			return w
		}
		pre = w
	}
}

func unionKeys(a, b map[interner.IdentifierId]Interval) map[interner.IdentifierId]struct{} {
	keys := make(map[interner.IdentifierId]struct{}, len(a)+len(b))
	for k := range a {
		keys[k] = struct{}{}
	}
	for k := range b {
		keys[k] = struct{}{}
	}
	return keys
}

// DeadBranch reports, for a branch guarded by cond, whether the true arm
// or the false arm is provably unreachable: true is unreachable when cond
// cannot contain any nonzero value, false is unreachable when cond cannot
// contain zero. Used by SPEC_FULL.md §10's --warn-dead-branches CLI flag;
// purely diagnostic, never prunes anything from the term graph.
func DeadBranch(cond Interval) (trueUnreachable, falseUnreachable bool) {
	trueUnreachable = cond.Meet(Interval{1, math.MaxInt32}).IsBottom() && cond.Meet(Interval{math.MinInt32, -1}).IsBottom()
	falseUnreachable = cond.Meet(Single(0)).IsBottom()
	return trueUnreachable, falseUnreachable
}
