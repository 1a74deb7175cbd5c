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

// Package errors defines eqsat's user-facing error shape: every error the
// CLI ever prints carries a short title, a detail explaining what went
// wrong, and a suggestion telling the user what to do about it, instead
// of a bare Go error string.
package errors

import (
	"encoding/json"
	"fmt"
	"os"
)

// Category classifies a UserError for --json output. It does not affect
// the exit status: FatalError always exits with 1.
type Category string

const (
	CategoryConfig     Category = "config"
	CategoryInput      Category = "input"
	CategoryPermission Category = "permission"
	CategoryDatabase   Category = "database"
	CategoryNetwork    Category = "network"
	CategoryInternal   Category = "internal"
)

// UserError is an error with enough structure to print well: a one-line
// Title, a Detail explaining what happened, and a Suggestion telling the
// user what to try next. Cause, if set, is the underlying error that
// triggered it.
type UserError struct {
	Category   Category `json:"category"`
	Title      string   `json:"title"`
	Detail     string   `json:"detail"`
	Suggestion string   `json:"suggestion,omitempty"`
	Cause      error    `json:"-"`
}

func (e *UserError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Title, e.Detail, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Title, e.Detail)
}

func (e *UserError) Unwrap() error { return e.Cause }

func newError(cat Category, title, detail, suggestion string, cause error) *UserError {
	return &UserError{Category: cat, Title: title, Detail: detail, Suggestion: suggestion, Cause: cause}
}

// NewConfigError reports a problem reading, parsing, or validating
// .eqsat/project.yaml.
func NewConfigError(title, detail, suggestion string, cause error) *UserError {
	return newError(CategoryConfig, title, detail, suggestion, cause)
}

// NewInputError reports malformed source input (a parse failure).
func NewInputError(title, detail, suggestion string, cause error) *UserError {
	return newError(CategoryInput, title, detail, suggestion, cause)
}

// NewPermissionError reports a filesystem permission failure.
func NewPermissionError(title, detail, suggestion string, cause error) *UserError {
	return newError(CategoryPermission, title, detail, suggestion, cause)
}

// NewDatabaseError reports a failure building or rebuilding the e-graph
// database.
func NewDatabaseError(title, detail, suggestion string, cause error) *UserError {
	return newError(CategoryDatabase, title, detail, suggestion, cause)
}

// NewNetworkError reports a failure reaching a network resource (the
// metrics listener, in eqsat's case).
func NewNetworkError(title, detail, suggestion string, cause error) *UserError {
	return newError(CategoryNetwork, title, detail, suggestion, cause)
}

// NewInternalError reports a condition that should never occur; its
// suggestion should always point at filing a bug.
func NewInternalError(title, detail, suggestion string, cause error) *UserError {
	return newError(CategoryInternal, title, detail, suggestion, cause)
}

// FatalError prints err to stderr and exits with status 1. When json is
// true, err is printed as a single JSON object on stdout instead (so a
// --json caller never has to distinguish error shapes from result
// shapes); a plain error that isn't a *UserError is wrapped as an
// internal error first.
func FatalError(err error, json bool) {
	ue, ok := err.(*UserError)
	if !ok {
		ue = NewInternalError("Unexpected error", err.Error(), "This is a bug. Please report it.", err)
	}

	if json {
		printJSON(ue)
	} else {
		printPlain(ue)
	}
	os.Exit(1)
}

func printPlain(ue *UserError) {
	fmt.Fprintf(os.Stderr, "Error: %s\n", ue.Title)
	if ue.Detail != "" {
		fmt.Fprintf(os.Stderr, "  %s\n", ue.Detail)
	}
	if ue.Cause != nil {
		fmt.Fprintf(os.Stderr, "  cause: %v\n", ue.Cause)
	}
	if ue.Suggestion != "" {
		fmt.Fprintf(os.Stderr, "  suggestion: %s\n", ue.Suggestion)
	}
}

func printJSON(ue *UserError) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(struct {
		Error *UserError `json:"error"`
	}{Error: ue})
}
