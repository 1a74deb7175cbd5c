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

// Package interp implements the abstract interpreter (spec.md §4.6): an
// AST walker that drives a pluggable AbstractDomain, plus two concrete
// domains — SSADomain, which emits terms into a pkg/egraph.Database, and
// IntervalDomain, a [low, high] i32 interval analysis.
package interp

import (
	"github.com/kraklabs/eqsat/pkg/ast"
	"github.com/kraklabs/eqsat/pkg/interner"
)

// Value is an abstract domain's representation of one program value. Its
// concrete type is private to each AbstractDomain implementation
// (unionfind.ClassId for SSADomain, Interval for IntervalDomain); the
// interpreter driver never inspects it, only threads it between domain
// method calls.
type Value any

// AbstractDomain is one abstract store at one program point (spec.md
// §4.6). Every method that models a confluence or a fork returns a new
// domain rather than mutating in place, mirroring the pure-insertion
// style of the rest of the engine.
type AbstractDomain interface {
	// InterpExpr evaluates expr against this domain's current store.
	InterpExpr(expr ast.Expression) Value
	// Assign returns a domain identical to this one except iden now maps
	// to val.
	Assign(iden interner.IdentifierId, val Value) AbstractDomain
	// Get returns the current value bound to iden.
	Get(iden interner.IdentifierId) Value
	// FinishWith records val as this function's return value.
	FinishWith(val Value)
	// Branch forks this domain on a conditional; the returned domains are
	// identical to this one except for whatever the domain itself
	// attaches to model "we are now inside the true/false arm".
	Branch(cond Value) (trueDomain, falseDomain AbstractDomain)
	// Join merges two domains meeting at a confluence, reconciling any
	// identifier whose value differs between them.
	Join(other AbstractDomain) AbstractDomain
	// Widen approximates the effect of another trip around a loop body;
	// stillWidening reports whether the result differs from this domain
	// in a way that requires another iteration before the loop's
	// fixed point is considered reached.
	Widen(other AbstractDomain) (result AbstractDomain, stillWidening bool)
	// Loop interprets a while loop's local fixed point (spec.md §4.6 "the
	// subtle part") and returns the domain at loop exit. The construction
	// is domain-specific — SSADomain drives a static-phi placeholder
	// search, IntervalDomain drives classical widening — so each
	// implementation owns its own use of Branch/Join/Widen internally
	// rather than the AST walker composing them generically.
	Loop(cond ast.Expression, body *ast.Block) AbstractDomain
}
