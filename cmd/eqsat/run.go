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
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/kraklabs/eqsat/internal/config"
	"github.com/kraklabs/eqsat/internal/errors"
	"github.com/kraklabs/eqsat/internal/ui"
	"github.com/kraklabs/eqsat/pkg/arena"
	"github.com/kraklabs/eqsat/pkg/ast"
	"github.com/kraklabs/eqsat/pkg/egraph"
	"github.com/kraklabs/eqsat/pkg/interner"
	"github.com/kraklabs/eqsat/pkg/interp"
	"github.com/kraklabs/eqsat/pkg/parser"
)

// functionResult is one function's --json output shape.
type functionResult struct {
	Function string            `json:"function"`
	Rows     []string          `json:"rows"`
	Interval map[string]string `json:"interval,omitempty"`
}

// runRun executes the 'run' CLI command: parse src, abstract-interpret
// every function with SSADomain, rebuild the resulting e-graph, and dump
// it. Optionally also interprets with IntervalDomain for --interval and
// --warn-dead-branches.
func runRun(args []string, configPath string, globals GlobalFlags) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	jsonOut := fs.Bool("json", globals.JSON, "Output each function's rows as JSON")
	corebuild := fs.Bool("corebuild", true, "Run whole-graph congruence closure during rebuild")
	warnDead := fs.Bool("warn-dead-branches", false, "Warn about branches IntervalDomain proves unreachable")
	showInterval := fs.Bool("interval", false, "Print each function's final per-identifier interval")
	progress := fs.Bool("progress", false, "Show a progress bar over functions")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: eqsat run <file> [options]

Description:
  Parse <file>, abstract-interpret every function into an e-graph,
  rebuild it to a fixed point, and dump the resulting relations.

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

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		cfg = config.DefaultConfig()
	}
	if !fs.Changed("corebuild") {
		*corebuild = cfg.Engine.Corebuild
	}
	if !fs.Changed("warn-dead-branches") {
		*warnDead = cfg.Engine.WarnDeadBranches
	}

	src, err := os.ReadFile(path) //nolint:gosec // path is an explicit CLI argument
	if err != nil {
		errors.FatalError(errors.NewInputError(
			"Cannot read source file",
			fmt.Sprintf("Failed to read %s", path),
			"Check that the file exists and is readable",
			err,
		), *jsonOut)
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
		), *jsonOut)
	}

	logLevel := slog.LevelInfo
	if globals.Verbose >= 2 {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	var bar interface{ Add(int) error }
	if *progress && len(prog.Funcs) > 1 && !globals.Quiet {
		bar = ui.NewProgressBar(ui.ProgressConfig{Enabled: true}, int64(len(prog.Funcs)), "interpreting")
	}

	var results []functionResult
	for _, fn := range prog.Funcs {
		name := in.Get(fn.Name)
		db := egraph.New()
		entry := interp.NewSSADomain(db, fn)
		interp.InterpretFunction(entry, fn)
		db.Rebuild(*corebuild, logger)

		rows := splitRows(db.Dump())
		result := functionResult{Function: name, Rows: rows}

		var iv map[string]string
		if *showInterval || *warnDead {
			iv = runIntervalPass(fn, in, *warnDead, *jsonOut, name)
		}
		if *showInterval {
			result.Interval = iv
		}

		if *jsonOut {
			results = append(results, result)
		} else if !globals.Quiet {
			printFunctionDump(name, rows, iv, *showInterval)
		}

		if bar != nil {
			_ = bar.Add(1)
		}
	}

	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(results)
	}
}

func splitRows(dump string) []string {
	var rows []string
	for _, line := range strings.Split(dump, "\n") {
		if line != "" {
			rows = append(rows, line)
		}
	}
	return rows
}

func printFunctionDump(name string, rows []string, iv map[string]string, showInterval bool) {
	ui.Header(fmt.Sprintf("function %s", name))
	for _, row := range rows {
		fmt.Println(" ", row)
	}
	if showInterval {
		ui.SubHeader("intervals:")
		for iden, rng := range iv {
			fmt.Printf("  %s %s\n", ui.Label(iden+":"), rng)
		}
	}
	fmt.Println()
}

// runIntervalPass re-interprets fn with IntervalDomain, optionally
// warning about branches DeadBranch proves unreachable, and returns the
// final per-identifier intervals formatted for display.
func runIntervalPass(fn *ast.Function, in *interner.Interner, warnDead, jsonOut bool, fnName string) map[string]string {
	d := interp.NewIntervalDomain()
	if warnDead {
		walkDeadBranches(d, fn.Block, in, jsonOut, fnName)
	}
	final := interp.InterpretFunction(d, fn).(*interp.IntervalDomain)

	out := make(map[string]string)
	for iden, iv := range final.Store() {
		out[in.Get(iden)] = formatInterval(iv)
	}
	return out
}

func formatInterval(iv interp.Interval) string {
	if iv.IsBottom() {
		return "⊥"
	}
	return fmt.Sprintf("[%d, %d]", iv.Low, iv.High)
}

// walkDeadBranches recurses through block under d's current bindings,
// reporting (via ui.Warning) every if/while condition IntervalDomain's
// DeadBranch proves has an unreachable arm. It mirrors InterpretBlock's
// structural recursion but never threads the resulting domain back out;
// its only purpose is the diagnostic.
func walkDeadBranches(d *interp.IntervalDomain, block *ast.Block, in *interner.Interner, jsonOut bool, fnName string) {
	cur := d
	for _, stmt := range block.Stmts {
		switch s := stmt.(type) {
		case ast.BlockStmt:
			walkDeadBranches(cur, s.Block, in, jsonOut, fnName)
		case ast.AssignStmt:
			cur = interp.InterpretStatement(cur, s).(*interp.IntervalDomain)
		case ast.IfElseStmt:
			condVal := cur.InterpExpr(s.Cond).(interp.Interval)
			reportDeadBranch(condVal, fnName, jsonOut)
			walkDeadBranches(cur, s.Then, in, jsonOut, fnName)
			walkDeadBranches(cur, s.Else, in, jsonOut, fnName)
			cur = interp.InterpretStatement(cur, s).(*interp.IntervalDomain)
		case ast.WhileStmt:
			condVal := cur.InterpExpr(s.Cond).(interp.Interval)
			reportDeadBranch(condVal, fnName, jsonOut)
			walkDeadBranches(cur, s.Body, in, jsonOut, fnName)
			cur = interp.InterpretStatement(cur, s).(*interp.IntervalDomain)
		case ast.ReturnStmt:
			return
		}
	}
}

func reportDeadBranch(cond interp.Interval, fnName string, jsonOut bool) {
	if jsonOut {
		return
	}
	trueDead, falseDead := interp.DeadBranch(cond)
	switch {
	case trueDead:
		ui.Warningf("%s: branch condition can never be true; the true arm is dead code", fnName)
	case falseDead:
		ui.Warningf("%s: branch condition can never be false; the false arm is dead code", fnName)
	}
}
