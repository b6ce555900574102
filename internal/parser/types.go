package parser

import (
	"github.com/piecake/pie/internal/ast"
	"github.com/piecake/pie/internal/diagnostics"
	"github.com/piecake/pie/internal/token"
)

// builtinTypeNames is the fixed keyword set spec.md §3 names (Type is the
// type of a type value; Any is the universal supertype).
var builtinTypeNames = map[string]bool{
	"Any": true, "Syntax": true, "Int": true, "Double": true,
	"Bool": true, "String": true, "Type": true,
}

// parseType parses a type expression: `...T`, `(T1,...,Tn): R`, a builtin
// keyword, a bare name (a class/union reference), or — falling through —
// an arbitrary expression parsed at ASSIGNMENT precedence (spec.md §4.3
// "Type parser").
func (p *Parser) parseType() ast.Type {
	tok := p.cur
	switch p.cur.Kind {
	case token.ELLIPSIS:
		p.next()
		elem := p.parseType()
		if _, nested := elem.(*ast.VariadicType); nested {
			p.errorf(diagnostics.CodeParse, "variadic type cannot itself be variadic")
		}
		return &ast.VariadicType{BaseType: ast.BaseType{Token: tok}, Elem: elem}
	case token.L_PAREN:
		return p.parseFunctionType()
	case token.NAME:
		name := p.cur.Text
		if builtinTypeNames[name] {
			p.next()
			return &ast.BuiltinType{BaseType: ast.BaseType{Token: tok}, Name: name}
		}
		p.next()
		return &ast.NamedType{BaseType: ast.BaseType{Token: tok}, Name: name}
	default:
		expr := p.parseExpr(precAssignment)
		return &ast.ExpressionType{BaseType: ast.BaseType{Token: tok}, Expr: expr}
	}
}

func (p *Parser) parseFunctionType() ast.Type {
	tok := p.cur
	p.expect(token.L_PAREN)
	var params []ast.Type
	for p.cur.Kind != token.R_PAREN {
		params = append(params, p.parseType())
		if p.cur.Kind == token.COMMA {
			p.next()
			continue
		}
		break
	}
	p.expect(token.R_PAREN)
	p.expect(token.COLON)
	result := p.parseType()
	return &ast.FunctionType{BaseType: ast.BaseType{Token: tok}, Params: params, Result: result}
}
