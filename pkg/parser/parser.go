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

// Package parser implements a hand-rolled recursive-descent parser for the
// engine's tiny imperative source language (spec.md §6.3), producing
// pkg/ast nodes allocated out of a pkg/arena.Arena. It stands in for the
// "parser" external collaborator spec.md §6 describes; SPEC_FULL.md §2
// explains why this is hand-written rather than tree-sitter-based.
package parser

import (
	"fmt"

	"github.com/kraklabs/eqsat/pkg/arena"
	"github.com/kraklabs/eqsat/pkg/ast"
	"github.com/kraklabs/eqsat/pkg/interner"
)

// Parser holds the token stream and output collaborators for one Parse
// call. Not safe for concurrent or repeated use; construct a fresh Parser
// per source file.
type Parser struct {
	toks []token
	pos  int

	arena    *arena.Arena
	interner *interner.Interner
}

// New returns a Parser that allocates AST nodes from a and interns
// identifiers into in.
func New(a *arena.Arena, in *interner.Interner) *Parser {
	return &Parser{arena: a, interner: in}
}

// Parse lexes and parses src into a Program.
func (p *Parser) Parse(src string) (*ast.Program, error) {
	toks, err := newLexer(src).lexAll()
	if err != nil {
		return nil, err
	}
	p.toks = toks
	p.pos = 0

	var funcs []*ast.Function
	for p.cur().kind != tokEOF {
		fn, err := p.parseFunction()
		if err != nil {
			return nil, err
		}
		funcs = append(funcs, fn)
	}
	return &ast.Program{Funcs: funcs}, nil
}

func (p *Parser) cur() token { return p.toks[p.pos] }

func (p *Parser) advance() token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) expect(k tokenKind, what string) (token, error) {
	if p.cur().kind != k {
		return token{}, fmt.Errorf("parser: expected %s at line %d, got %q", what, p.cur().line, p.cur().text)
	}
	return p.advance(), nil
}

func (p *Parser) parseFunction() (*ast.Function, error) {
	if _, err := p.expect(tokFn, "'fn'"); err != nil {
		return nil, err
	}
	nameTok, err := p.expect(tokIdent, "function name")
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(tokLParen, "'('"); err != nil {
		return nil, err
	}

	var params []interner.IdentifierId
	for p.cur().kind != tokRParen {
		t, err := p.expect(tokIdent, "parameter name")
		if err != nil {
			return nil, err
		}
		params = append(params, p.interner.Intern(t.text))
		if p.cur().kind == tokComma {
			p.advance()
		}
	}
	if _, err := p.expect(tokRParen, "')'"); err != nil {
		return nil, err
	}

	block, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	fn := arena.Alloc(p.arena, ast.Function{
		Name:   p.interner.Intern(nameTok.text),
		Params: params,
		Block:  block,
	})
	return fn, nil
}

func (p *Parser) parseBlock() (*ast.Block, error) {
	if _, err := p.expect(tokLBrace, "'{'"); err != nil {
		return nil, err
	}
	var stmts []ast.Statement
	for p.cur().kind != tokRBrace {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	if _, err := p.expect(tokRBrace, "'}'"); err != nil {
		return nil, err
	}
	return arena.Alloc(p.arena, ast.Block{Stmts: stmts}), nil
}

func (p *Parser) parseStatement() (ast.Statement, error) {
	switch p.cur().kind {
	case tokLBrace:
		block, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		return ast.BlockStmt{Block: block}, nil

	case tokIf:
		p.advance()
		cond, err := p.parseCondition()
		if err != nil {
			return nil, err
		}
		thenBlock, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		elseBlock := &ast.Block{}
		if p.cur().kind == tokElse {
			p.advance()
			elseBlock, err = p.parseBlock()
			if err != nil {
				return nil, err
			}
		}
		return ast.IfElseStmt{Cond: cond, Then: thenBlock, Else: elseBlock}, nil

	case tokWhile:
		p.advance()
		cond, err := p.parseCondition()
		if err != nil {
			return nil, err
		}
		body, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		return ast.WhileStmt{Cond: cond, Body: body}, nil

	case tokReturn:
		p.advance()
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokSemi, "';'"); err != nil {
			return nil, err
		}
		return ast.ReturnStmt{Expr: expr}, nil

	case tokIdent:
		nameTok := p.advance()
		if _, err := p.expect(tokAssign, "'='"); err != nil {
			return nil, err
		}
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokSemi, "';'"); err != nil {
			return nil, err
		}
		return ast.AssignStmt{Iden: p.interner.Intern(nameTok.text), Expr: expr}, nil

	default:
		return nil, fmt.Errorf("parser: unexpected token %q at line %d", p.cur().text, p.cur().line)
	}
}

// parseCondition parses an expression used as an if/while condition. The
// language writes conditions bare (`while x { ... }`), with optional
// parentheses also accepted (`if (x) { ... }`).
func (p *Parser) parseCondition() (ast.Expression, error) {
	if p.cur().kind == tokLParen {
		p.advance()
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRParen, "')'"); err != nil {
			return nil, err
		}
		return expr, nil
	}
	return p.parseExpr()
}

func (p *Parser) parseExpr() (ast.Expression, error) {
	lhs, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for p.cur().kind == tokPlus {
		p.advance()
		rhs, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		lhs = ast.AddExpr{Lhs: lhs, Rhs: rhs}
	}
	return lhs, nil
}

func (p *Parser) parseTerm() (ast.Expression, error) {
	switch p.cur().kind {
	case tokMinus:
		p.advance()
		t, err := p.expect(tokNumber, "number literal after unary '-'")
		if err != nil {
			return nil, err
		}
		return ast.NumberLiteral{Value: -t.num}, nil
	case tokNumber:
		t := p.advance()
		return ast.NumberLiteral{Value: t.num}, nil
	case tokIdent:
		t := p.advance()
		return ast.Variable{Iden: p.interner.Intern(t.text)}, nil
	case tokLParen:
		p.advance()
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRParen, "')'"); err != nil {
			return nil, err
		}
		return expr, nil
	default:
		return nil, fmt.Errorf("parser: unexpected token %q at line %d in expression", p.cur().text, p.cur().line)
	}
}
