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

// Package ui collects eqsat's CLI output helpers: colorized headers and
// labels (fatih/color, gated by NO_COLOR/--no-color/TTY detection via
// mattn/go-isatty) and progress bars (schollz/progressbar/v3) for the
// --progress flag.
package ui

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
)

// Color handles used throughout the CLI. InitColors toggles their
// enabled state; callers use them directly (ui.Green.Println(...)) rather
// than through an indirection layer.
var (
	Green  = color.New(color.FgGreen)
	Yellow = color.New(color.FgYellow)
	Red    = color.New(color.FgRed)
	Cyan   = color.New(color.FgCyan)
	Dim    = color.New(color.Faint)
)

// InitColors enables or disables color output across every handle in this
// package. noColor forces colors off regardless of TTY/NO_COLOR
// detection; otherwise color is enabled only when stdout is a terminal
// and NO_COLOR is unset, matching fatih/color's own default heuristic
// plus the explicit CLI flag.
func InitColors(noColor bool) {
	enabled := !noColor && os.Getenv("NO_COLOR") == "" && isatty.IsTerminal(os.Stdout.Fd())
	color.NoColor = !enabled
}

// Header prints a bold section title.
func Header(title string) {
	bold := color.New(color.Bold)
	_, _ = bold.Println(title)
}

// SubHeader prints a secondary section title, indented one level.
func SubHeader(title string) {
	bold := color.New(color.Bold)
	_, _ = bold.Println("  " + title)
}

// Label formats a field name for a "Label: value" line.
func Label(s string) string {
	return color.New(color.Bold).Sprint(s)
}

// DimText renders s faint, for secondary/contextual detail.
func DimText(s string) string {
	return Dim.Sprint(s)
}

// CountText renders an integer count in cyan, for emphasis in summaries.
func CountText(n int) string {
	return Cyan.Sprint(n)
}

// Info prints an informational line prefixed with a cyan marker.
func Info(msg string) {
	_, _ = Cyan.Print("→ ")
	fmt.Println(msg)
}

// Infof is Info with Printf-style formatting.
func Infof(format string, args ...any) {
	Info(fmt.Sprintf(format, args...))
}

// Success prints a confirmation line prefixed with a green checkmark.
func Success(msg string) {
	_, _ = Green.Print("✓ ")
	fmt.Println(msg)
}

// Successf is Success with Printf-style formatting.
func Successf(format string, args ...any) {
	Success(fmt.Sprintf(format, args...))
}

// Warning prints a caution line prefixed with a yellow marker.
func Warning(msg string) {
	_, _ = Yellow.Fprint(os.Stderr, "⚠ ")
	fmt.Fprintln(os.Stderr, msg)
}

// Warningf is Warning with Printf-style formatting.
func Warningf(format string, args ...any) {
	Warning(fmt.Sprintf(format, args...))
}

// ProgressConfig controls whether NewProgressBar renders a real bar or a
// no-op: progress bars corrupt --json/--quiet output and make no sense on
// a non-TTY, so the CLI layer decides once up front and threads the
// decision through here.
type ProgressConfig struct {
	Enabled bool
}

// NewProgressBar returns a progressbar.ProgressBar over total units with
// the given description; if cfg.Enabled is false it still returns a real
// bar but writes to io.Discard, so callers never need a nil check.
func NewProgressBar(cfg ProgressConfig, total int64, description string) *progressbar.ProgressBar {
	if !cfg.Enabled {
		return progressbar.DefaultSilent(total)
	}
	return progressbar.NewOptions64(total,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}
