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

// Package ast defines the structured AST for the engine's tiny imperative
// source language (spec.md §6.3): functions over assign/if-else/while/
// return statements and number-literal/variable/add expressions. The
// abstract interpreter (pkg/interp) visits this tree by structural
// recursion only.
package ast

import "github.com/kraklabs/eqsat/pkg/interner"

// Program is a whole parsed source file: a sequence of function
// definitions.
type Program struct {
	Funcs []*Function
}

// Function is one function definition: a name, its parameters in
// declaration order, and its body block.
type Function struct {
	Name   interner.IdentifierId
	Params []interner.IdentifierId
	Block  *Block
}

// Block is a sequence of statements.
type Block struct {
	Stmts []Statement
}

// Statement is the sum type Block | Assign | IfElse | While | Return.
type Statement interface {
	isStatement()
}

// BlockStmt nests a Block as a statement (e.g. as an if/while body).
type BlockStmt struct {
	Block *Block
}

// AssignStmt assigns the value of Expr to Iden.
type AssignStmt struct {
	Iden interner.IdentifierId
	Expr Expression
}

// IfElseStmt is a conditional with both arms always present; a
// source-level `if` with no `else` parses to an empty Else block.
type IfElseStmt struct {
	Cond Expression
	Then *Block
	Else *Block
}

// WhileStmt repeats Body for as long as Cond is nonzero.
type WhileStmt struct {
	Cond Expression
	Body *Block
}

// ReturnStmt ends the enclosing function with the value of Expr.
type ReturnStmt struct {
	Expr Expression
}

func (BlockStmt) isStatement()  {}
func (AssignStmt) isStatement() {}
func (IfElseStmt) isStatement() {}
func (WhileStmt) isStatement()  {}
func (ReturnStmt) isStatement() {}

// Expression is the sum type NumberLiteral | Variable | Add.
type Expression interface {
	isExpression()
}

// NumberLiteral is a signed 32-bit integer literal.
type NumberLiteral struct {
	Value int32
}

// Variable reads the current value bound to Iden.
type Variable struct {
	Iden interner.IdentifierId
}

// AddExpr is the sum Lhs + Rhs. The only binary operator spec.md's
// language defines; there is no general unary negation: the parser accepts
// '-' only directly before a number literal and folds it into a negative
// NumberLiteral, so the `x = x + -1` loop body in spec.md §8 scenario 4 is
// AddExpr{Variable(x), NumberLiteral(-1)}.
type AddExpr struct {
	Lhs, Rhs Expression
}

func (NumberLiteral) isExpression() {}
func (Variable) isExpression()      {}
func (AddExpr) isExpression()       {}
