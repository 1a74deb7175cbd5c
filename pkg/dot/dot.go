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

// Package dot renders a pkg/egraph.Database as Graphviz source: one
// cluster per equivalence class, with every term in that class drawn as a
// node inside it and edges to each child's cluster (ported from
// original_source/imp/src/bin/dot.rs).
package dot

import (
	"fmt"
	"strings"

	"github.com/kraklabs/eqsat/pkg/egraph"
)

// Render returns the Graphviz digraph for every live term in db.
func Render(db *egraph.Database) string {
	var s strings.Builder
	s.WriteString("digraph EGraph {\ncompound=true\n")

	for term := range db.Terms() {
		name := nodeName(term)
		label := nodeLabel(term)

		fmt.Fprintf(&s, "subgraph cluster_%d {\nnode_%d [shape=point style=invis]\n", term.Root, term.Root)
		fmt.Fprintf(&s, "%s [label=\"%s\"]\n", name, label)
		s.WriteString("}\n")

		for _, child := range children(term) {
			fmt.Fprintf(&s, "node_%d -> %s [ltail=\"cluster_%d\"]\n", child, name, child)
		}
	}

	s.WriteString("}\n")
	return s.String()
}

func nodeName(t egraph.Term) string {
	switch t.Kind {
	case egraph.KindConstant:
		return fmt.Sprintf("cons_%d", uint32(t.Value))
	case egraph.KindParam:
		return fmt.Sprintf("param_%d", t.Index)
	case egraph.KindStart:
		return "start"
	case egraph.KindRegion:
		return fmt.Sprintf("region_%d_%d", t.Lhs, t.Rhs)
	case egraph.KindBranch:
		return fmt.Sprintf("branch_%d_%d", t.Pred, t.Cond)
	case egraph.KindControlProj:
		return fmt.Sprintf("control_proj_%d_%d", t.Pred, t.Index)
	case egraph.KindFinish:
		return fmt.Sprintf("finish_%d_%d", t.Pred, t.FVal)
	case egraph.KindPhi:
		return fmt.Sprintf("phi_%d_%d_%d", t.Region, t.Lhs, t.Rhs)
	case egraph.KindAdd:
		return fmt.Sprintf("add_%d_%d", t.Lhs, t.Rhs)
	default:
		panic("dot: unknown kind")
	}
}

func nodeLabel(t egraph.Term) string {
	switch t.Kind {
	case egraph.KindConstant:
		return fmt.Sprintf("%d", t.Value)
	case egraph.KindParam:
		return fmt.Sprintf("Param #%d", t.Index)
	case egraph.KindStart:
		return "Start"
	case egraph.KindRegion:
		return "Region"
	case egraph.KindBranch:
		return "Branch"
	case egraph.KindControlProj:
		return fmt.Sprintf("π(%d)", t.Index)
	case egraph.KindFinish:
		return "Finish"
	case egraph.KindPhi:
		return "ϕ"
	case egraph.KindAdd:
		return "+"
	default:
		panic("dot: unknown kind")
	}
}

// children returns the ClassIds an edge should be drawn to for t, in the
// same order as original_source/imp/src/bin/dot.rs's match arms.
func children(t egraph.Term) []uint32 {
	switch t.Kind {
	case egraph.KindConstant, egraph.KindParam, egraph.KindStart:
		return nil
	case egraph.KindBranch:
		return []uint32{uint32(t.Pred), uint32(t.Cond)}
	case egraph.KindControlProj:
		return []uint32{uint32(t.Pred)}
	case egraph.KindFinish:
		return []uint32{uint32(t.Pred), uint32(t.FVal)}
	case egraph.KindRegion, egraph.KindAdd:
		return []uint32{uint32(t.Lhs), uint32(t.Rhs)}
	case egraph.KindPhi:
		return []uint32{uint32(t.Region), uint32(t.Lhs), uint32(t.Rhs)}
	default:
		panic("dot: unknown kind")
	}
}
