package parser

import (
	"github.com/piecake/pie/internal/ast"
	"github.com/piecake/pie/internal/diagnostics"
	"github.com/piecake/pie/internal/token"
)

// parsePrefix dispatches on the current token to produce the left
// operand the Pratt loop in parseExpr then extends with infix
// continuations.
func (p *Parser) parsePrefix() ast.Node {
	tok := p.cur
	switch p.cur.Kind {
	case token.INT:
		p.next()
		v, _ := tok.Literal.(int64)
		return &ast.IntLiteral{Base: ast.Base{Token: tok}, Value: v}

	case token.FLOAT:
		p.next()
		v, _ := tok.Literal.(float64)
		return &ast.FloatLiteral{Base: ast.Base{Token: tok}, Value: v}

	case token.BOOL:
		p.next()
		v, _ := tok.Literal.(bool)
		return &ast.BoolLiteral{Base: ast.Base{Token: tok}, Value: v}

	case token.STRING:
		p.next()
		v, _ := tok.Literal.(string)
		return &ast.StringLiteral{Base: ast.Base{Token: tok}, Value: v}

	case token.ELLIPSIS:
		// Operand-position `...`: a fold-shape marker, resolved once the
		// enclosing grouping's expression tree is complete.
		p.next()
		return &ast.Name{Base: ast.Base{Token: tok}, Value: foldMarkerSentinel}

	case token.SCOPE_RESOLVE:
		p.next()
		name := p.expect(token.NAME)
		return &ast.ScopeResolve{Base: ast.Base{Token: tok}, Object: nil, Member: name.Text}

	case token.L_BRACE:
		return p.parseBlock()

	case token.L_PAREN:
		return p.parseParenExpr()

	case token.PREFIX, token.INFIX, token.SUFFIX, token.EXFIX, token.MIXFIX:
		return p.parseFixDecl()

	case token.CLASS:
		return p.parseClass()

	case token.UNION:
		return p.parseUnion()

	case token.MATCH:
		return p.parseMatch()

	case token.LOOP:
		return p.parseLoop()

	case token.BREAK:
		return p.parseBreak()

	case token.CONTINUE:
		p.next()
		return &ast.Continue{Base: ast.Base{Token: tok}}

	case token.NAMESPACE:
		return p.parseNamespace()

	case token.USE:
		return p.parseUse()

	case token.NAME:
		return p.parseNamePrefix()

	default:
		p.errorf(diagnostics.CodeParse, "unexpected token %q in expression position", p.cur.Text)
		p.next()
		return &ast.Name{Base: ast.Base{Token: tok}, Value: "<error>"}
	}
}

// parseNamePrefix resolves a NAME in operand position: a registered
// prefix/exfix-open/mixfix-first-token operator, or (falling through) a
// plain name reference optionally carrying an inline `: T` binder
// annotation.
func (p *Parser) parseNamePrefix() ast.Node {
	tok := p.cur
	if d, found := p.ctx.Registry.LookupToken(tok.Text); found {
		switch d.Kind {
		case ast.FixPrefix:
			p.next()
			operand := p.parseExpr(d.Precedence)
			return &ast.UnaryOp{Base: ast.Base{Token: tok}, Operator: d.Name, Operand: operand}

		case ast.FixExfix:
			if len(d.Layout) > 0 && d.Layout[0].IsToken && d.Layout[0].Token == tok.Text {
				p.next()
				inner := p.parseExpr(precLow)
				closeTok := d.Layout[len(d.Layout)-1].Token
				if p.cur.Kind != token.NAME || p.cur.Text != closeTok {
					p.errorf(diagnostics.CodeExfixOpen, "exfix %q opened but not closed with %q", d.Name, closeTok)
				} else {
					p.next()
				}
				return &ast.CircumOp{Base: ast.Base{Token: tok}, Operator: d.Name, Inner: inner}
			}

		case ast.FixMixfix:
			if len(d.Layout) > 0 && d.Layout[0].IsToken && d.Layout[0].Token == tok.Text {
				p.next()
				return p.parseMixfixRest(d, 1, nil, tok)
			}
		}
	}

	p.next()
	n := &ast.Name{Base: ast.Base{Token: tok}, Value: tok.Text}
	if p.cur.Kind == token.COLON {
		p.next()
		n.Type = p.parseType()
	}
	return n
}

// parseParenExpr disambiguates `(` as the start of a closure parameter
// list (a matching `)` immediately followed by `=>`) from a grouped
// expression, and — for groupings only — resolves any fold shape found
// in the grouped expression's tree.
func (p *Parser) parseParenExpr() ast.Node {
	if p.closureFollows() {
		return p.parseClosure()
	}
	tok := p.cur
	p.expect(token.L_PAREN)
	inner := p.parseExpr(precLow)
	p.expect(token.R_PAREN)
	if folded, ok := tryBuildFold(inner); ok {
		return folded
	}
	return &ast.Grouping{Base: ast.Base{Token: tok}, Inner: inner}
}

// closureFollows reports whether the parenthesized group starting at the
// current `(` is immediately followed, after its matching `)`, by `=>`.
func (p *Parser) closureFollows() bool {
	depth := 1
	i := 0
	for {
		t := p.peek(i)
		if t.Kind == token.END {
			return false
		}
		if t.Kind == token.L_PAREN {
			depth++
		} else if t.Kind == token.R_PAREN {
			depth--
			if depth == 0 {
				return p.peek(i + 1).Kind == token.FAT_ARROW
			}
		}
		i++
	}
}

func (p *Parser) parseClosure() ast.Node {
	tok := p.cur
	p.expect(token.L_PAREN)
	var params []string
	var types []ast.Type
	for p.cur.Kind != token.R_PAREN {
		name := p.expect(token.NAME).Text
		params = append(params, name)
		var t ast.Type
		if p.cur.Kind == token.COLON {
			p.next()
			t = p.parseType()
		}
		types = append(types, t)
		if p.cur.Kind == token.COMMA {
			p.next()
			continue
		}
		break
	}
	p.expect(token.R_PAREN)

	var fnType *ast.FunctionType
	if p.cur.Kind == token.COLON {
		p.next()
		result := p.parseType()
		fnType = &ast.FunctionType{BaseType: ast.BaseType{Token: tok}, Params: types, Result: result}
	}
	p.expect(token.FAT_ARROW)
	body := p.parseExpr(precAssignment)
	return &ast.Closure{Base: ast.Base{Token: tok}, Params: params, Types: types, Body: body, FnType: fnType}
}

// parseBlock parses `{ (expr ';')* }`.
func (p *Parser) parseBlock() *ast.Block {
	tok := p.cur
	p.expect(token.L_BRACE)
	blk := &ast.Block{Base: ast.Base{Token: tok}}
	for p.cur.Kind != token.R_BRACE {
		blk.Lines = append(blk.Lines, p.parseExpr(precLow))
		p.expect(token.SEMI)
	}
	p.expect(token.R_BRACE)
	return blk
}

// parseCall parses the argument list following a callee: comma-separated
// positional expressions, `name = expr` named arguments (duplicates
// rejected), and expansions (`e...`, handled as ordinary postfix parsing
// of each argument expression).
func (p *Parser) parseCall(callee ast.Node) ast.Node {
	tok := p.cur
	p.expect(token.L_PAREN)
	var named []ast.NamedArg
	var positional []ast.Node
	seen := map[string]bool{}
	for p.cur.Kind != token.R_PAREN {
		if p.cur.Kind == token.NAME && p.peek(0).Kind == token.ASSIGN {
			name := p.cur.Text
			p.next()
			p.next()
			if seen[name] {
				p.errorf(diagnostics.CodeDupNamed, "duplicate named argument %q", name)
			}
			seen[name] = true
			val := p.parseExpr(precAssignment)
			named = append(named, ast.NamedArg{Name: name, Value: val})
		} else {
			positional = append(positional, p.parseExpr(precAssignment))
		}
		if p.cur.Kind == token.COMMA {
			p.next()
			continue
		}
		break
	}
	p.expect(token.R_PAREN)
	return &ast.Call{Base: ast.Base{Token: tok}, Callee: callee, Named: named, Positional: positional}
}

// ---- class / union / namespace / use ----

func (p *Parser) parseClass() ast.Node {
	tok := p.cur
	p.next()
	p.expect(token.L_BRACE)
	var fields []ast.Field
	for p.cur.Kind != token.R_BRACE {
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
		fields = append(fields, ast.Field{Name: name, Type: typ, Default: def})
		p.expect(token.SEMI)
	}
	p.expect(token.R_BRACE)
	return &ast.ClassLiteral{Base: ast.Base{Token: tok}, Fields: fields}
}

func (p *Parser) parseUnion() ast.Node {
	tok := p.cur
	p.next()
	p.expect(token.L_BRACE)
	var members []ast.Type
	for p.cur.Kind != token.R_BRACE {
		members = append(members, p.parseType())
		p.expect(token.SEMI)
	}
	p.expect(token.R_BRACE)
	return &ast.UnionLiteral{Base: ast.Base{Token: tok}, Members: members}
}

func (p *Parser) parseNamespace() ast.Node {
	tok := p.cur
	p.next()
	p.expect(token.L_BRACE)
	var members []ast.Node
	for p.cur.Kind != token.R_BRACE {
		members = append(members, p.parseExpr(precLow))
		p.expect(token.SEMI)
	}
	p.expect(token.R_BRACE)
	return &ast.NamespaceLiteral{Base: ast.Base{Token: tok}, Members: members}
}

func (p *Parser) parseUse() ast.Node {
	tok := p.cur
	p.next()
	ns := p.parseExpr(precAssignment)
	return &ast.Use{Base: ast.Base{Token: tok}, Namespace: ns}
}

// ---- loop / break ----

// parseLoop parses `loop [( kindExpr [: binder] )] { body } [else { ... }]`.
// Whether kindExpr drives a counted or an iterable loop is a runtime
// question (the expression's static shape alone doesn't say); the
// evaluator decides by inspecting the evaluated kind value, so the
// parser always records it as Count and leaves Iter unset — both loop
// shapes read from the same slot.
func (p *Parser) parseLoop() ast.Node {
	tok := p.cur
	p.next()
	l := &ast.Loop{Base: ast.Base{Token: tok}, Kind: ast.LoopInfinite}
	if p.cur.Kind == token.L_PAREN {
		p.next()
		l.Kind = ast.LoopCount
		l.Count = p.parseExpr(precLow)
		if p.cur.Kind == token.COLON {
			p.next()
			l.Binder = p.expect(token.NAME).Text
		}
		p.expect(token.R_PAREN)
	}
	l.Body = p.parseBlock()
	if p.cur.Kind == token.NAME && p.cur.Text == "else" {
		p.next()
		l.Else = p.parseBlock()
	}
	return l
}

func (p *Parser) parseBreak() ast.Node {
	tok := p.cur
	p.next()
	b := &ast.Break{Base: ast.Base{Token: tok}}
	if p.cur.Kind != token.SEMI {
		b.Value = p.parseExpr(precLow)
	}
	return b
}
