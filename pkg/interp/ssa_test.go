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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kraklabs/eqsat/pkg/arena"
	"github.com/kraklabs/eqsat/pkg/egraph"
	"github.com/kraklabs/eqsat/pkg/interner"
	"github.com/kraklabs/eqsat/pkg/parser"
	"github.com/kraklabs/eqsat/pkg/unionfind"
)

func TestSSAIfElseJoin(t *testing.T) {
	src := `fn f(a, b) { if a { return a; } else { return b; } }`
	in := interner.New()
	prog, err := parser.New(arena.New(0), in).Parse(src)
	require.NoError(t, err)

	db := egraph.New()
	fn := prog.Funcs[0]
	entry := NewSSADomain(db, fn)
	InterpretFunction(entry, fn)

	// Start, Param(a), Param(b), Branch, 2 ControlProj, 2 Finish. The
	// statement interpreter always joins an if/else's two arms, so a
	// Region is still built even though both arms return directly; since
	// neither arm reassigns a or b, no identifier disagrees and no Phi is
	// needed.
	assert.Equal(t, 1, countKind(db, egraph.KindStart))
	assert.Equal(t, 2, countKind(db, egraph.KindParam))
	assert.Equal(t, 1, countKind(db, egraph.KindBranch))
	assert.Equal(t, 2, countKind(db, egraph.KindControlProj))
	assert.Equal(t, 2, countKind(db, egraph.KindFinish))
	assert.Equal(t, 1, countKind(db, egraph.KindRegion))
	assert.Equal(t, 0, countKind(db, egraph.KindPhi))
}

func TestSSAWhileLoopTermCounts(t *testing.T) {
	src := `fn basic(x) { while x { x = x + -1; } return x; }`
	in := interner.New()
	prog, err := parser.New(arena.New(0), in).Parse(src)
	require.NoError(t, err)

	db := egraph.New()
	fn := prog.Funcs[0]
	entry := NewSSADomain(db, fn)
	InterpretFunction(entry, fn)
	db.Rebuild(true, nil)

	// One loop-carried identifier (x) costs: a tentative pass (Branch +
	// 2 ControlProj + Add, evaluated against the real pre-loop value) and
	// a final pass re-run under a placeholder (another Branch + 2
	// ControlProj + Add), then one real Region and one real Phi tying the
	// two together. See SSADomain.Loop's doc comment.
	assert.Equal(t, 1, countKind(db, egraph.KindStart))
	assert.Equal(t, 1, countKind(db, egraph.KindParam))
	assert.Equal(t, 1, countKind(db, egraph.KindConstant))
	assert.Equal(t, 2, countKind(db, egraph.KindBranch))
	assert.Equal(t, 4, countKind(db, egraph.KindControlProj))
	assert.Equal(t, 2, countKind(db, egraph.KindAdd))
	assert.Equal(t, 1, countKind(db, egraph.KindRegion))
	assert.Equal(t, 1, countKind(db, egraph.KindPhi))
	assert.Equal(t, 1, countKind(db, egraph.KindFinish))
}

func TestSSAWhileLoopFinishReferencesPhi(t *testing.T) {
	src := `fn basic(x) { while x { x = x + -1; } return x; }`
	in := interner.New()
	prog, err := parser.New(arena.New(0), in).Parse(src)
	require.NoError(t, err)

	db := egraph.New()
	fn := prog.Funcs[0]
	InterpretFunction(NewSSADomain(db, fn), fn)
	db.Rebuild(true, nil)

	uf := db.UnionFind()
	var finishVal, phiRoot unionfind.ClassId
	var sawFinish, sawPhi bool
	for term := range db.Terms() {
		switch term.Kind {
		case egraph.KindFinish:
			finishVal = term.FVal
			sawFinish = true
		case egraph.KindPhi:
			phiRoot = term.Root
			sawPhi = true
		}
	}
	require.True(t, sawFinish)
	require.True(t, sawPhi)
	assert.Equal(t, uf.Find(phiRoot), uf.Find(finishVal))
}

func countKind(db *egraph.Database, kind egraph.Kind) int {
	n := 0
	for term := range db.Terms() {
		if term.Kind == kind {
			n++
		}
	}
	return n
}
