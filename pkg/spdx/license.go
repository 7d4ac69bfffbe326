// Copyright 2025 venslabs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package spdx

import (
	"fmt"
	"strings"
)

// Expression is a syntactically valid SPDX license expression. It records
// the LicenseRef- and DocumentRef- operands in order of appearance so that
// callers can resolve them against the document.
type Expression struct {
	Raw         string
	LicenseRefs []string
}

// IsPlaceholder reports whether s is one of the values SPDX allows in place
// of an actual license expression.
func IsPlaceholder(s string) bool {
	return s == "" || s == NoAssertion || s == None
}

// ParseExpression validates s against the SPDX license-expression grammar:
//
//	expression  := and-expr ( "OR" and-expr )*
//	and-expr    := simple ( "AND" simple )*
//	simple      := "(" expression ")" | id [ "+" ] [ "WITH" id ]
//	id          := idstring | "LicenseRef-" idstring | "DocumentRef-" idstring ":" "LicenseRef-" idstring
//
// Only syntax is checked; membership of plain identifiers in the SPDX
// license list is out of scope. NOASSERTION and NONE are valid complete
// expressions carrying no operands.
func ParseExpression(raw string) (*Expression, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == NoAssertion || trimmed == None {
		return &Expression{Raw: raw}, nil
	}
	p := &exprParser{tokens: tokenizeExpression(trimmed)}
	expr := &Expression{Raw: raw}
	if err := p.expression(expr); err != nil {
		return nil, err
	}
	if tok, ok := p.peek(); ok {
		return nil, fmt.Errorf("unexpected %q after end of expression", tok)
	}
	return expr, nil
}

type exprParser struct {
	tokens []string
	pos    int
}

func (p *exprParser) peek() (string, bool) {
	if p.pos >= len(p.tokens) {
		return "", false
	}
	return p.tokens[p.pos], true
}

func (p *exprParser) next() (string, bool) {
	tok, ok := p.peek()
	if ok {
		p.pos++
	}
	return tok, ok
}

func (p *exprParser) expression(out *Expression) error {
	if err := p.andExpr(out); err != nil {
		return err
	}
	for {
		tok, ok := p.peek()
		if !ok || tok != "OR" {
			return nil
		}
		p.pos++
		if err := p.andExpr(out); err != nil {
			return err
		}
	}
}

func (p *exprParser) andExpr(out *Expression) error {
	if err := p.simple(out); err != nil {
		return err
	}
	for {
		tok, ok := p.peek()
		if !ok || tok != "AND" {
			return nil
		}
		p.pos++
		if err := p.simple(out); err != nil {
			return err
		}
	}
}

func (p *exprParser) simple(out *Expression) error {
	tok, ok := p.next()
	if !ok {
		return fmt.Errorf("expression ends where a license identifier was expected")
	}
	if tok == "(" {
		if err := p.expression(out); err != nil {
			return err
		}
		closing, ok := p.next()
		if !ok || closing != ")" {
			return fmt.Errorf("unbalanced parenthesis in expression")
		}
		return p.maybeWith(out)
	}
	if err := checkOperand(tok, out); err != nil {
		return err
	}
	return p.maybeWith(out)
}

func (p *exprParser) maybeWith(out *Expression) error {
	tok, ok := p.peek()
	if !ok || tok != "WITH" {
		return nil
	}
	p.pos++
	exc, ok := p.next()
	if !ok {
		return fmt.Errorf("WITH is not followed by an exception identifier")
	}
	if !isIDString(strings.TrimSuffix(exc, "+")) || strings.HasSuffix(exc, "+") {
		return fmt.Errorf("invalid exception identifier %q", exc)
	}
	return nil
}

// checkOperand validates a single license operand and records custom refs.
func checkOperand(tok string, out *Expression) error {
	switch {
	case tok == "AND", tok == "OR", tok == "WITH", tok == ")":
		return fmt.Errorf("unexpected %q where a license identifier was expected", tok)
	case strings.HasPrefix(tok, ExternalRefPrefix):
		// DocumentRef-id:LicenseRef-id
		rest := strings.TrimPrefix(tok, ExternalRefPrefix)
		docID, licPart, colon := strings.Cut(rest, ":")
		if !colon || !isIDString(docID) || !strings.HasPrefix(licPart, LicenseRefPrefix) || !isIDString(strings.TrimPrefix(licPart, LicenseRefPrefix)) {
			return fmt.Errorf("invalid external license reference %q", tok)
		}
		out.LicenseRefs = append(out.LicenseRefs, tok)
		return nil
	case strings.HasPrefix(tok, LicenseRefPrefix):
		if !isIDString(strings.TrimPrefix(tok, LicenseRefPrefix)) {
			return fmt.Errorf("invalid license reference %q", tok)
		}
		out.LicenseRefs = append(out.LicenseRefs, tok)
		return nil
	default:
		id := strings.TrimSuffix(tok, "+")
		if !isIDString(id) {
			return fmt.Errorf("invalid license identifier %q", tok)
		}
		return nil
	}
}

// ValidElementID reports whether id is a well-formed SPDX element
// identifier: the SPDXRef- prefix followed by an idstring.
func ValidElementID(id string) bool {
	after, ok := strings.CutPrefix(id, IDPrefix)
	return ok && isIDString(after)
}

// ValidLicenseRefID reports whether id is a well-formed custom license
// identifier: the LicenseRef- prefix followed by an idstring.
func ValidLicenseRefID(id string) bool {
	after, ok := strings.CutPrefix(id, LicenseRefPrefix)
	return ok && isIDString(after)
}

// isIDString reports whether s is a non-empty run of letters, digits, "-"
// and "." as required for idstrings by the SPDX grammar.
func isIDString(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '-' || r == '.':
		default:
			return false
		}
	}
	return true
}

// tokenizeExpression splits an expression into identifiers, operators and
// parentheses. Parentheses need no surrounding whitespace.
func tokenizeExpression(s string) []string {
	var tokens []string
	var current strings.Builder
	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}
	for _, r := range s {
		switch r {
		case ' ', '\t', '\n', '\r':
			flush()
		case '(', ')':
			flush()
			tokens = append(tokens, string(r))
		default:
			current.WriteRune(r)
		}
	}
	flush()
	return tokens
}
