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

package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraklabs/eqsat/pkg/arena"
	"github.com/kraklabs/eqsat/pkg/ast"
	"github.com/kraklabs/eqsat/pkg/interner"
)

func TestParseBasicWhileLoop(t *testing.T) {
	src := `fn basic(x) { while x { x = x + -1; } return x; }`

	in := interner.New()
	prog, err := New(arena.New(0), in).Parse(src)
	require.NoError(t, err)
	require.Len(t, prog.Funcs, 1)

	fn := prog.Funcs[0]
	assert.Equal(t, "basic", in.Get(fn.Name))
	require.Len(t, fn.Params, 1)
	assert.Equal(t, "x", in.Get(fn.Params[0]))

	require.Len(t, fn.Block.Stmts, 2)

	while, ok := fn.Block.Stmts[0].(ast.WhileStmt)
	require.True(t, ok, "first statement should be a WhileStmt")
	cond, ok := while.Cond.(ast.Variable)
	require.True(t, ok)
	assert.Equal(t, "x", in.Get(cond.Iden))
	require.Len(t, while.Body.Stmts, 1)

	assign, ok := while.Body.Stmts[0].(ast.AssignStmt)
	require.True(t, ok)
	assert.Equal(t, "x", in.Get(assign.Iden))
	add, ok := assign.Expr.(ast.AddExpr)
	require.True(t, ok)
	lit, ok := add.Rhs.(ast.NumberLiteral)
	require.True(t, ok)
	assert.Equal(t, int32(-1), lit.Value)

	ret, ok := fn.Block.Stmts[1].(ast.ReturnStmt)
	require.True(t, ok)
	retVar, ok := ret.Expr.(ast.Variable)
	require.True(t, ok)
	assert.Equal(t, "x", in.Get(retVar.Iden))
}

func TestParseIfElse(t *testing.T) {
	src := `fn f(a, b) { if a { return a; } else { return b; } }`
	in := interner.New()
	prog, err := New(arena.New(0), in).Parse(src)
	require.NoError(t, err)

	fn := prog.Funcs[0]
	require.Len(t, fn.Params, 2)
	ifElse, ok := fn.Block.Stmts[0].(ast.IfElseStmt)
	require.True(t, ok)
	assert.Len(t, ifElse.Then.Stmts, 1)
	assert.Len(t, ifElse.Else.Stmts, 1)
}

func TestParseMultipleFunctions(t *testing.T) {
	src := `fn a() { return 1; } fn b() { return 2; }`
	in := interner.New()
	prog, err := New(arena.New(0), in).Parse(src)
	require.NoError(t, err)
	require.Len(t, prog.Funcs, 2)
}

func TestParseErrorOnUnexpectedToken(t *testing.T) {
	_, err := New(arena.New(0), interner.New()).Parse(`fn f( { return 1; } }`)
	require.Error(t, err)
}
