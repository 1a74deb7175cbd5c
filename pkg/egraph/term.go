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

import "github.com/kraklabs/eqsat/pkg/unionfind"

// Kind names one of the nine SSA term constructors (spec.md §4.5).
type Kind int

const (
	KindConstant Kind = iota
	KindParam
	KindStart
	KindRegion
	KindBranch
	KindControlProj
	KindFinish
	KindPhi
	KindAdd
	numKinds
)

func (k Kind) String() string {
	return symbols[k]
}

// symbols are the display names used by Dump and the .dot visualizer,
// indexed by Kind, in declaration order.
var symbols = [numKinds]string{
	KindConstant:    "constant",
	KindParam:       "param",
	KindStart:       "start",
	KindRegion:      "region",
	KindBranch:      "branch",
	KindControlProj: "control_proj",
	KindFinish:      "finish",
	KindPhi:         "phi",
	KindAdd:         "+",
}

// Term is the external, decoded view of one row: a tagged variant with one
// case per constructor (spec.md §3 "Term (external view)"). Only the fields
// relevant to Kind are meaningful; the rest are zero.
type Term struct {
	Kind Kind
	Root unionfind.ClassId

	Value  int32             // Constant
	Index  uint32            // Param, ControlProj
	Pred   unionfind.ClassId // Branch, ControlProj, Finish
	Cond   unionfind.ClassId // Branch
	Lhs    unionfind.ClassId // Region, Phi, Add
	Rhs    unionfind.ClassId // Region, Phi, Add
	Region unionfind.ClassId // Phi
	FVal   unionfind.ClassId // Finish's value child
}

// classCols reports which determinant column indices of kind's relation
// hold ClassIds (and therefore need canonicalization during rebuild/
// corebuild) versus raw literals (constant values, param/projection
// indices) which never do.
func classCols(k Kind) []bool {
	switch k {
	case KindConstant:
		return []bool{false} // value
	case KindParam:
		return []bool{false} // index
	case KindStart:
		return []bool{}
	case KindRegion:
		return []bool{true, true} // lhs, rhs
	case KindBranch:
		return []bool{true, true} // pred, cond
	case KindControlProj:
		return []bool{true, false} // pred, index
	case KindFinish:
		return []bool{true, true} // pred, value
	case KindPhi:
		return []bool{true, true, true} // region, lhs, rhs
	case KindAdd:
		return []bool{true, true} // lhs, rhs
	default:
		panic("egraph: unknown kind")
	}
}

// decodeTerm turns a raw (det, dep) row from kind's table into a Term.
func decodeTerm(kind Kind, det, dep []uint32) Term {
	t := Term{Kind: kind, Root: unionfind.ClassId(dep[0])}
	switch kind {
	case KindConstant:
		t.Value = decodeConstant(det[0])
	case KindParam:
		t.Index = det[0]
	case KindStart:
		// no fields
	case KindRegion:
		t.Lhs = unionfind.ClassId(det[0])
		t.Rhs = unionfind.ClassId(det[1])
	case KindBranch:
		t.Pred = unionfind.ClassId(det[0])
		t.Cond = unionfind.ClassId(det[1])
	case KindControlProj:
		t.Pred = unionfind.ClassId(det[0])
		t.Index = det[1]
	case KindFinish:
		t.Pred = unionfind.ClassId(det[0])
		t.FVal = unionfind.ClassId(det[1])
	case KindPhi:
		t.Region = unionfind.ClassId(det[0])
		t.Lhs = unionfind.ClassId(det[1])
		t.Rhs = unionfind.ClassId(det[2])
	case KindAdd:
		t.Lhs = unionfind.ClassId(det[0])
		t.Rhs = unionfind.ClassId(det[1])
	}
	return t
}
