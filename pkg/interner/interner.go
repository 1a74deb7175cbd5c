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

// Package interner maps short identifier strings to dense IdentifierIds.
//
// This is the "string interner" external collaborator: the engine core
// never compares identifier strings directly, only their interned ids.
package interner

// IdentifierId names an interned string. Dense, zero-based, stable for the
// lifetime of the Interner that produced it.
type IdentifierId uint32

// Interner interns strings to dense ids and back.
type Interner struct {
	strToID map[string]IdentifierId
	idToStr []string
}

// New returns an empty Interner.
func New() *Interner {
	return &Interner{
		strToID: make(map[string]IdentifierId),
	}
}

// Intern returns the IdentifierId for s, allocating a fresh one if s has
// never been interned before.
func (in *Interner) Intern(s string) IdentifierId {
	if id, ok := in.strToID[s]; ok {
		return id
	}
	id := IdentifierId(len(in.idToStr))
	in.idToStr = append(in.idToStr, s)
	in.strToID[s] = id
	return id
}

// Get returns the string an IdentifierId was interned from.
//
// id must have been returned by Intern on this same Interner; using an id
// from another Interner is undefined behavior per spec.md §7.
func (in *Interner) Get(id IdentifierId) string {
	return in.idToStr[id]
}

// NumIdens returns the number of distinct strings interned so far.
func (in *Interner) NumIdens() int {
	return len(in.idToStr)
}
