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

import "github.com/kraklabs/eqsat/pkg/ast"

// InterpretFunction walks fn's body starting from entry, returning the
// domain at the function's fall-off point (only reachable if fn has no
// trailing Return; well-formed programs always return explicitly).
func InterpretFunction(entry AbstractDomain, fn *ast.Function) AbstractDomain {
	return InterpretBlock(entry, fn.Block)
}

// InterpretBlock threads d through stmts in order.
func InterpretBlock(d AbstractDomain, block *ast.Block) AbstractDomain {
	for _, stmt := range block.Stmts {
		d = InterpretStatement(d, stmt)
	}
	return d
}

// InterpretStatement interprets one statement, implementing join at
// if/else confluence and the while fixed-point construction (spec.md
// §4.6).
func InterpretStatement(d AbstractDomain, stmt ast.Statement) AbstractDomain {
	switch s := stmt.(type) {
	case ast.BlockStmt:
		return InterpretBlock(d, s.Block)

	case ast.AssignStmt:
		val := d.InterpExpr(s.Expr)
		return d.Assign(s.Iden, val)

	case ast.IfElseStmt:
		cond := d.InterpExpr(s.Cond)
		trueD, falseD := d.Branch(cond)
		trueD = InterpretBlock(trueD, s.Then)
		falseD = InterpretBlock(falseD, s.Else)
		return trueD.Join(falseD)

	case ast.WhileStmt:
		return d.Loop(s.Cond, s.Body)

	case ast.ReturnStmt:
		val := d.InterpExpr(s.Expr)
		d.FinishWith(val)
		return d

	default:
		panic("interp: unknown statement type")
	}
}
