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

package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/kraklabs/eqsat/internal/errors"
	"github.com/kraklabs/eqsat/internal/ui"
	"github.com/kraklabs/eqsat/pkg/arena"
	"github.com/kraklabs/eqsat/pkg/dot"
	"github.com/kraklabs/eqsat/pkg/egraph"
	"github.com/kraklabs/eqsat/pkg/interner"
	"github.com/kraklabs/eqsat/pkg/interp"
	"github.com/kraklabs/eqsat/pkg/parser"
)

// runDot executes the 'dot' CLI command: parse <file>, rebuild every
// function's e-graph, and write the Graphviz rendering of all of them
// (one digraph per function, concatenated) to -o, or stdout if unset.
func runDot(args []string, globals GlobalFlags) {
	fs := flag.NewFlagSet("dot", flag.ExitOnError)
	out := fs.StringP("output", "o", "", "Output file for the Graphviz rendering (default: stdout)")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: eqsat dot <file> [-o out.dot]

Description:
  Parse <file>, rebuild every function's e-graph, and render each one as
  Graphviz source.

Options:
`)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() != 1 {
		fs.Usage()
		os.Exit(1)
	}
	path := fs.Arg(0)

	src, err := os.ReadFile(path) //nolint:gosec // path is an explicit CLI argument
	if err != nil {
		errors.FatalError(errors.NewInputError(
			"Cannot read source file",
			fmt.Sprintf("Failed to read %s", path),
			"Check that the file exists and is readable",
			err,
		), globals.JSON)
	}

	a := arena.New(64 * 1024)
	in := interner.New()
	prog, err := parser.New(a, in).Parse(string(src))
	if err != nil {
		errors.FatalError(errors.NewInputError(
			"Cannot parse source file",
			fmt.Sprintf("Parsing %s failed", path),
			"Check the file against the language's assign/if-else/while/return grammar",
			err,
		), globals.JSON)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	var b strings.Builder
	for _, fn := range prog.Funcs {
		db := egraph.New()
		entry := interp.NewSSADomain(db, fn)
		interp.InterpretFunction(entry, fn)
		db.Rebuild(true, logger)

		fmt.Fprintf(&b, "// function %s\n", in.Get(fn.Name))
		b.WriteString(dot.Render(db))
		b.WriteString("\n")
	}

	if *out == "" {
		fmt.Print(b.String())
		return
	}

	if err := os.WriteFile(*out, []byte(b.String()), 0600); err != nil {
		errors.FatalError(errors.NewPermissionError(
			"Cannot write Graphviz output",
			fmt.Sprintf("Failed to write %s", *out),
			"Check directory permissions and available disk space",
			err,
		), globals.JSON)
	}
	if !globals.Quiet {
		ui.Successf("Wrote %s", *out)
	}
}
