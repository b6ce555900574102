package parser

import (
	"github.com/piecake/pie/internal/ast"
	"github.com/piecake/pie/internal/token"
)

// parsePattern dispatches on a NAME immediately followed by '(' as a
// Structure pattern, else a Single pattern (spec.md §4.3 "Pattern
// parser").
func (p *Parser) parsePattern() ast.Pattern {
	if p.cur.Kind == token.NAME && p.peek(0).Kind == token.L_PAREN {
		return p.parseStructurePattern()
	}
	return p.parseSinglePattern()
}

func (p *Parser) parseSinglePattern() ast.Pattern {
	name := p.expect(token.NAME).Text
	var typ ast.Type
	if p.cur.Kind == token.COLON {
		p.next()
		typ = p.parseType()
	}
	var def ast.Node
	if p.cur.Kind == token.ASSIGN {
		p.next()
		def = p.parseExpr(precAssignment)
	}
	return ast.SinglePattern{Name: name, Type: typ, Default: def}
}

func (p *Parser) parseStructurePattern() ast.Pattern {
	typeName := p.expect(token.NAME).Text
	p.expect(token.L_PAREN)
	var subs []ast.Pattern
	for p.cur.Kind != token.R_PAREN {
		subs = append(subs, p.parsePattern())
		if p.cur.Kind == token.COMMA {
			p.next()
			continue
		}
		break
	}
	p.expect(token.R_PAREN)
	return ast.StructurePattern{TypeName: typeName, Subs: subs}
}

// parseMatch parses `match <scrutinee> { <case>* }`.
func (p *Parser) parseMatch() ast.Node {
	tok := p.cur
	p.next()
	scrutinee := p.parseExpr(precLow)
	p.expect(token.L_BRACE)
	var cases []ast.MatchCase
	for p.cur.Kind != token.R_BRACE {
		cases = append(cases, p.parseMatchCase())
	}
	p.expect(token.R_BRACE)
	return &ast.Match{Base: ast.Base{Token: tok}, Scrutinee: scrutinee, Cases: cases}
}

// parseMatchCase parses `pat ('|' pat)* ['&' guard] '=>' body ';'`
// (spec.md §4.3). `|` and `&` are ordinary NAME atoms drawn from the
// operator-symbol character class, recognized here by literal text
// rather than through the operator registry.
func (p *Parser) parseMatchCase() ast.MatchCase {
	var patterns []ast.Pattern
	patterns = append(patterns, p.parsePattern())
	for p.cur.Kind == token.NAME && p.cur.Text == "|" {
		p.next()
		patterns = append(patterns, p.parsePattern())
	}
	var guard ast.Node
	if p.cur.Kind == token.NAME && p.cur.Text == "&" {
		p.next()
		guard = p.parseExpr(precAssignment)
	}
	p.expect(token.FAT_ARROW)
	body := p.parseExpr(precLow)
	p.expect(token.SEMI)
	return ast.MatchCase{Patterns: patterns, Guard: guard, Body: body}
}
