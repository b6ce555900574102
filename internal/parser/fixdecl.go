package parser

import (
	"strings"

	"github.com/piecake/pie/internal/ast"
	"github.com/piecake/pie/internal/diagnostics"
	"github.com/piecake/pie/internal/registry"
	"github.com/piecake/pie/internal/token"
)

// parseFixDecl parses `KIND ( anchor [shift] ) <layout> = <closure> ;`
// (spec.md §4.3) and installs the resulting descriptor and overload into
// the shared registry before returning the FixDecl node.
func (p *Parser) parseFixDecl() ast.Node {
	tok := p.cur
	var kind ast.FixKind
	switch tok.Kind {
	case token.PREFIX:
		kind = ast.FixPrefix
	case token.INFIX:
		kind = ast.FixInfix
	case token.SUFFIX:
		kind = ast.FixSuffix
	case token.EXFIX:
		kind = ast.FixExfix
	case token.MIXFIX:
		kind = ast.FixMixfix
	}
	p.next()

	p.expect(token.L_PAREN)
	anchor := p.expect(token.NAME).Text
	shift := 0
	if p.cur.Kind == token.NAME && isShiftToken(p.cur.Text) {
		shift = parseShiftMagnitude(p.cur.Text)
		p.next()
	}
	p.expect(token.R_PAREN)

	var names []string
	var layout []registry.HoleElem

	switch kind {
	case ast.FixPrefix:
		name := p.expect(token.NAME).Text
		names = []string{name}
		layout = registry.PrefixLayout(name)
	case ast.FixInfix:
		name := p.expect(token.NAME).Text
		names = []string{name}
		layout = registry.InfixLayout(name)
	case ast.FixSuffix:
		name := p.expect(token.NAME).Text
		names = []string{name}
		layout = registry.SuffixLayout(name)
	case ast.FixExfix:
		open := p.expect(token.NAME).Text
		p.expect(token.COLON)
		closeTok := p.expect(token.NAME).Text
		names = []string{open, closeTok}
		layout = registry.ExfixLayout(open, closeTok)
	case ast.FixMixfix:
		for p.cur.Kind == token.NAME || p.cur.Kind == token.COLON {
			if p.cur.Kind == token.NAME {
				names = append(names, p.cur.Text)
				layout = append(layout, registry.HoleElem{IsToken: true, Token: p.cur.Text})
			} else {
				layout = append(layout, registry.HoleElem{})
			}
			p.next()
		}
		if len(names) == 0 {
			p.errorf(diagnostics.CodeFixDecl, "mixfix declaration has no literal tokens")
		}
	}

	p.expect(token.ASSIGN)
	bodyExpr := p.parseExpr(precLow)
	closure, ok := bodyExpr.(*ast.Closure)
	if !ok {
		p.errorf(diagnostics.CodeFixDecl, "fix-declaration body must be a closure")
		return &ast.FixDecl{Base: ast.Base{Token: tok}, Kind: kind, Names: names}
	}

	regName := fixRegistryName(kind, names)
	desc, err := p.ctx.Registry.Declare(regName, kind, layout, anchor, shift)
	if err != nil {
		p.errorf(diagnostics.CodeOverload, "%s", err)
		return &ast.FixDecl{Base: ast.Base{Token: tok}, Kind: kind, Names: names, Shift: shift}
	}
	if err := p.ctx.Registry.AddOverload(regName, registry.Overload{ParamTypes: closure.Types, Body: closure}); err != nil {
		p.errorf(diagnostics.CodeArity, "%s", err)
	}

	return &ast.FixDecl{
		Base:       ast.Base{Token: tok},
		Kind:       kind,
		Names:      names,
		HighAnchor: desc.HighAnchor,
		LowAnchor:  desc.LowAnchor,
		Shift:      shift,
		Body:       closure,
	}
}

// fixRegistryName derives the registry key for a fix-declaration's names:
// the bare token for prefix/infix/suffix, "open:close" for exfix, and the
// space-joined token sequence for mixfix.
func fixRegistryName(kind ast.FixKind, names []string) string {
	switch kind {
	case ast.FixExfix:
		if len(names) == 2 {
			return names[0] + ":" + names[1]
		}
	case ast.FixMixfix:
		return strings.Join(names, " ")
	}
	if len(names) > 0 {
		return names[0]
	}
	return ""
}

// parseMixfixRest consumes Layout[startIdx:] of d, filling args with each
// expression hole and requiring each literal token to match, then emits
// the OpCall. args already holds whatever holes were filled before entry
// (a left operand, for the infix-trigger path; none, for the prefix
// path).
func (p *Parser) parseMixfixRest(d *registry.Descriptor, startIdx int, args []ast.Node, tok token.Token) ast.Node {
	for i := startIdx; i < len(d.Layout); i++ {
		elem := d.Layout[i]
		if elem.IsToken {
			if p.cur.Kind != token.NAME || p.cur.Text != elem.Token {
				p.errorf(diagnostics.CodeParse, "expected %q in mixfix %q, got %q", elem.Token, d.Name, p.cur.Text)
				break
			}
			p.next()
		} else {
			args = append(args, p.parseExpr(d.Precedence))
		}
	}
	isExprPos := make([]bool, len(d.Layout))
	for i, e := range d.Layout {
		isExprPos[i] = !e.IsToken
	}
	return &ast.OpCall{Base: ast.Base{Token: tok}, Operator: d.Name, Tokens: d.Tokens(), Args: args, IsExprPos: isExprPos}
}
