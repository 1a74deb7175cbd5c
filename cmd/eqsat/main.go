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

// Package main implements the eqsat CLI: parse a source file, abstract-
// interpret every function into an e-graph, rebuild it to a fixed point,
// and dump, visualize, or serve metrics about the result.
//
// Usage:
//
//	eqsat init                    Create .eqsat/project.yaml configuration
//	eqsat run <file>               Interpret and rebuild, dump every function
//	eqsat dot <file> -o out.dot    Render every function's graph as Graphviz
//	eqsat serve --metrics-addr :9090  Expose engine counters over HTTP
//	eqsat version                  Show version information
package main

import (
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/kraklabs/eqsat/internal/ui"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// GlobalFlags holds the global CLI flags that apply to all commands.
type GlobalFlags struct {
	JSON    bool // Output in JSON format (for applicable commands)
	NoColor bool // Disable color output
	Verbose int  // Verbosity level: 0=normal, 1=-v (info), 2=-vv (debug)
	Quiet   bool // Suppress non-essential output (progress, info messages)
}

func main() {
	var (
		showVersion = flag.BoolP("version", "V", false, "Show version and exit")
		configPath  = flag.StringP("config", "c", "", "Path to .eqsat/project.yaml (default: ./.eqsat/project.yaml)")
		jsonOutput  = flag.Bool("json", false, "Output in JSON format (for applicable commands)")
		noColor     = flag.Bool("no-color", false, "Disable color output")
		verbose     = flag.CountP("verbose", "v", "Increase verbosity (-v for info, -vv for debug)")
		quiet       = flag.BoolP("quiet", "q", false, "Suppress non-essential output")
	)

	// Stop parsing at the first non-flag argument so subcommand-specific
	// flags like "run file.imp --corebuild=false" reach the subcommand's
	// own FlagSet instead of being rejected here.
	flag.SetInterspersed(false)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `eqsat - equality saturation over a functional-dependency database

Usage:
  eqsat <command> [options]

Commands:
  init    Create .eqsat/project.yaml configuration
  run     Parse, interpret, and rebuild a source file's functions
  dot     Render every function's e-graph as Graphviz
  serve   Expose engine metrics over HTTP
  version Show version information

Global Options:
  --json            Output in JSON format (for applicable commands)
  --no-color        Disable color output (respects NO_COLOR env var)
  -v, --verbose     Increase verbosity (-v for info, -vv for debug)
  -q, --quiet       Suppress non-essential output
  -c, --config      Path to .eqsat/project.yaml
  -V, --version     Show version and exit

Examples:
  eqsat init
  eqsat run examples/basic.imp
  eqsat run examples/basic.imp --json
  eqsat run examples/basic.imp --interval --warn-dead-branches
  eqsat dot examples/basic.imp -o basic.dot
  eqsat serve --metrics-addr :9090

For detailed command help: eqsat <command> --help

`)
	}

	flag.Parse()

	if *showVersion {
		fmt.Printf("eqsat version %s\n", version)
		fmt.Printf("commit: %s\n", commit)
		fmt.Printf("built: %s\n", date)
		os.Exit(0)
	}

	if os.Getenv("NO_COLOR") != "" {
		*noColor = true
	}

	if *quiet && *verbose > 0 {
		fmt.Fprintln(os.Stderr, "Error: cannot use --quiet and --verbose together")
		os.Exit(1)
	}

	// JSON mode auto-enables quiet to prevent progress bars corrupting output.
	if *jsonOutput {
		*quiet = true
	}

	globals := GlobalFlags{
		JSON:    *jsonOutput,
		NoColor: *noColor,
		Verbose: *verbose,
		Quiet:   *quiet,
	}

	ui.InitColors(globals.NoColor)

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(1)
	}

	command := args[0]
	cmdArgs := args[1:]

	switch command {
	case "init":
		runInit(cmdArgs, globals)
	case "run":
		runRun(cmdArgs, *configPath, globals)
	case "dot":
		runDot(cmdArgs, globals)
	case "serve":
		runServe(cmdArgs, globals)
	case "version":
		fmt.Printf("eqsat version %s (commit %s, built %s)\n", version, commit, date)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		flag.Usage()
		os.Exit(1)
	}
}
