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

// Package arena provides the allocation entry points the parser uses for
// AST storage.
//
// This stands in for the "arena allocator" external collaborator from
// spec.md §6.1. It is not a bump allocator: Alloc and AllocSlice allocate
// on the ordinary Go heap, so each value is reclaimed by the garbage
// collector on its own rather than all at once with the arena. Nothing in
// pkg/unionfind, pkg/reltable, pkg/egraph or pkg/interp depends on it —
// those packages own ordinary growable Go slices directly, per spec.md
// §6.1's explicit carve-out.
package arena

// Arena is the handle passed to Alloc and AllocSlice. It holds a block-size
// setting and a byte buffer that NewString appends to; values returned by
// Alloc and AllocSlice are not stored in it.
type Arena struct {
	blockSize int
	strings   []byte
}

// New returns an Arena with the given block size (0 picks a default of
// 4096). The block size is recorded but not used by any allocation.
func New(blockSize int) *Arena {
	if blockSize <= 0 {
		blockSize = 4096
	}
	return &Arena{blockSize: blockSize}
}

// NewString appends s to the arena's byte buffer and returns a fresh copy
// of it, so a substring of a parsed file does not pin the whole source
// buffer alive. The returned string does not share the arena's buffer.
func (a *Arena) NewString(s string) string {
	start := len(a.strings)
	a.strings = append(a.strings, s...)
	return string(a.strings[start : start+len(s)])
}

// Alloc allocates one T on the Go heap, initialized to v, and returns a
// pointer to it; a is not consulted.
//
// Arena is not safe for concurrent use, matching spec.md §5's
// single-threaded scheduling model.
func Alloc[T any](a *Arena, v T) *T {
	p := new(T)
	*p = v
	return p
}

// AllocSlice allocates a slice of n zero-valued T on the Go heap; a is not
// consulted.
func AllocSlice[T any](a *Arena, n int) []T {
	return make([]T, n)
}
